package models

import "time"

type CV struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Title  string `gorm:"column:title;type:text" json:"title"`

	FileName string `gorm:"column:file_name;type:text" json:"file_name"`
	FilePath string `gorm:"column:file_path;type:text" json:"file_path"`
	FileSize int    `gorm:"column:file_size;type:integer" json:"file_size"`
	MimeType string `gorm:"column:mime_type;type:text" json:"mime_type"`

	// Extracted text of the document, used as LLM input for analysis.
	CVText string `gorm:"column:cv_text;type:text" json:"cv_text,omitempty"`

	UploadAt time.Time `gorm:"column:upload_at;type:timestamptz;index" json:"upload_at"`
}

func (CV) TableName() string { return "cvs" }
