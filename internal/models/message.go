package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InterviewMessage is one turn of an interview transcript, stored in MongoDB.
type InterviewMessage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InterviewID string             `bson:"interview_id" json:"interview_id"`
	UserID      string             `bson:"user_id" json:"user_id"`

	Role    string `bson:"role" json:"role"` // "user" | "assistant"
	Content string `bson:"content" json:"content"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
