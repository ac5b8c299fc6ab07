package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Hotel struct {
	ID          string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string                      `gorm:"size:255;not null" json:"name"`
	Description string                      `gorm:"type:text" json:"description"`
	Location    string                      `gorm:"size:255" json:"location"`
	Rating      float64                     `gorm:"column:rating;default:0" json:"rating"`
	Images      datatypes.JSONSlice[string] `gorm:"column:images" json:"images"`
	Features    datatypes.JSONSlice[string] `gorm:"column:features" json:"features"`
	Overview    string                      `gorm:"type:text" json:"overview"`
	CreatedAt   time.Time                   `gorm:"column:created_at;index" json:"created_at"`
}

func (h *Hotel) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = NewID()
	}
	return nil
}

func (h *Hotel) SetID(id string) { h.ID = id }
