package models

import "time"

type InterviewStatus string

const (
	InterviewActive InterviewStatus = "active"
	InterviewEnded  InterviewStatus = "ended"
)

type Interview struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index" json:"user_id"`

	Position string          `gorm:"column:position;type:text" json:"position"`
	Status   InterviewStatus `gorm:"column:status;type:text" json:"status"`

	Date    time.Time  `gorm:"column:date;type:timestamptz;index" json:"date"`
	EndedAt *time.Time `gorm:"column:ended_at;type:timestamptz" json:"ended_at,omitempty"`
}

func (Interview) TableName() string { return "interviews" }
