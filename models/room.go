package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Room struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	// nil means the room is not assigned to any hotel yet.
	HotelID *string `gorm:"column:hotel_id;type:varchar(36);index" json:"hotel_id"`

	Name        string                      `gorm:"size:255;not null" json:"name"`
	Description string                      `gorm:"type:text" json:"description"`
	Price       float64                     `gorm:"column:price" json:"price"`
	Capacity    int                         `gorm:"column:capacity;default:2" json:"capacity"`
	Images      datatypes.JSONSlice[string] `gorm:"column:images" json:"images"`
	Features    datatypes.JSONSlice[string] `gorm:"column:features" json:"features"`
	CreatedAt   time.Time                   `gorm:"column:created_at;index" json:"created_at"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID()
	}
	return nil
}

// BelongsTo reports whether the room is assigned to hotelID.
func (r Room) BelongsTo(hotelID string) bool {
	return r.HotelID != nil && *r.HotelID == hotelID
}

func (r *Room) SetID(id string) { r.ID = id }
