package models

import (
	"time"

	"gorm.io/gorm"
)

type Booking struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	FullName string `gorm:"column:full_name;size:255" json:"full_name"`
	Email    string `gorm:"column:email;size:255" json:"email"`
	Phone    string `gorm:"column:phone;size:50" json:"phone,omitempty"`

	CheckinDate  time.Time `gorm:"column:checkin_date" json:"checkin_date"`
	CheckoutDate time.Time `gorm:"column:checkout_date" json:"checkout_date"`
	Guests       int       `gorm:"column:guests;default:1" json:"guests"`

	HotelID string `gorm:"column:hotel_id;type:varchar(36);index" json:"hotel_id"`
	RoomID  string `gorm:"column:room_id;type:varchar(36);index" json:"room_id"`

	SpecialRequests string `gorm:"column:special_requests;type:text" json:"special_requests,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	return nil
}

// Nights is the stay length in whole nights, never less than one.
func (b Booking) Nights() int {
	n := int(b.CheckoutDate.Sub(b.CheckinDate).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

func (b *Booking) SetID(id string) { b.ID = id }
