package models

import "time"

// User rows are provisioned by the external auth provider sync; this service
// only ever writes name and the approval fields.
type User struct {
	ID    string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email string `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	Name  string `gorm:"column:name;type:text" json:"name"`
	Bio   string `gorm:"column:bio;type:text" json:"bio"`

	// ApprovedAt/ApprovedBy are set together when Approved flips to true
	// and cleared together when it flips to false.
	Approved   bool       `gorm:"column:approved" json:"approved"`
	ApprovedAt *time.Time `gorm:"column:approved_at;type:timestamptz" json:"approved_at,omitempty"`
	ApprovedBy *string    `gorm:"column:approved_by;type:text" json:"approved_by,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (User) TableName() string { return "users" }
