package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type CVAnalysis struct {
	ID   string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CVID string `gorm:"column:cv_id;type:uuid;index" json:"cv_id"`

	Title    string         `gorm:"column:title;type:text" json:"title"`
	Keywords pq.StringArray `gorm:"column:keywords;type:text[]" json:"keywords"`

	// Full structured result from the model (summary, strengths, suggestions).
	Details datatypes.JSON `gorm:"column:details;type:jsonb" json:"details"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (CVAnalysis) TableName() string { return "cv_analyses" }
