package models

import (
	"time"

	"gorm.io/gorm"
)

type ContactSubmission struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string    `gorm:"size:255" json:"name"`
	Email       string    `gorm:"size:255" json:"email"`
	Subject     string    `gorm:"size:255" json:"subject,omitempty"`
	Message     string    `gorm:"type:text" json:"message"`
	SubmittedAt time.Time `gorm:"column:submitted_at;autoCreateTime;index" json:"submitted_at"`
}

func (ContactSubmission) TableName() string {
	return "contact_submissions"
}

func (c *ContactSubmission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = NewID()
	}
	return nil
}

func (c *ContactSubmission) SetID(id string) { c.ID = id }
