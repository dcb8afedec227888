package mongo

import (
	"context"
	"time"

	"github.com/careerai/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepository interface {
	Insert(ctx context.Context, m *models.InterviewMessage) error
	ListByInterview(ctx context.Context, interviewID string, limit int64) ([]models.InterviewMessage, error)
	LatestN(ctx context.Context, interviewID string, n int64) ([]models.InterviewMessage, error)
	CountByInterviews(ctx context.Context, interviewIDs []string) (map[string]int64, error)
}

type messageRepo struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepository {
	return &messageRepo{col: db.Collection("interview_messages")}
}

func (r *messageRepo) Insert(ctx context.Context, m *models.InterviewMessage) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, m)
	return err
}

func (r *messageRepo) ListByInterview(ctx context.Context, interviewID string, limit int64) ([]models.InterviewMessage, error) {
	if limit <= 0 {
		limit = 200
	}

	cur, err := r.col.Find(ctx,
		bson.M{"interview_id": interviewID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: 1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InterviewMessage
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LatestN returns the most recent n turns, newest first. Used to build the
// interviewer prompt context.
func (r *messageRepo) LatestN(ctx context.Context, interviewID string, n int64) ([]models.InterviewMessage, error) {
	if n <= 0 {
		n = 10
	}

	cur, err := r.col.Find(ctx,
		bson.M{"interview_id": interviewID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(n),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InterviewMessage
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *messageRepo) CountByInterviews(ctx context.Context, interviewIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(interviewIDs))
	if len(interviewIDs) == 0 {
		return counts, nil
	}

	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"interview_id": bson.M{"$in": interviewIDs}}}},
		bson.D{{Key: "$group", Value: bson.M{"_id": "$interview_id", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ID] = row.Count
	}
	return counts, nil
}
