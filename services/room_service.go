package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"manthokha-backend/models"
)

type RoomService struct {
	*Store[models.Room]
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{Store: NewStore[models.Room](db, "room", "name", false)}
}

func (s *RoomService) ListByHotel(ctx context.Context, hotelID string) ([]models.Room, error) {
	return s.List(ctx, ListOptions{
		Filters: []Eq{{Column: "hotel_id", Value: hotelID}},
		OrderBy: "name",
	})
}

// AssignHotel moves a room under hotelID and touches nothing else.
// An empty hotelID is a no-op.
func (s *RoomService) AssignHotel(ctx context.Context, roomID, hotelID string) error {
	hotelID = strings.TrimSpace(hotelID)
	if hotelID == "" {
		return nil
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hotels int64
		if err := tx.Model(&models.Hotel{}).Where("id = ?", hotelID).Count(&hotels).Error; err != nil {
			return err
		}
		if hotels == 0 {
			return fmt.Errorf("%w: hotel %s", ErrForeignKey, hotelID)
		}

		var room models.Room
		if err := tx.First(&room, "id = ?", roomID).Error; err != nil {
			return err
		}
		return tx.Model(&room).Update("hotel_id", hotelID).Error
	})
	if err != nil {
		return s.fail("assign", err)
	}
	s.ok("assign")
	return nil
}

// Delete refuses to remove a room that bookings still point at.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bookings int64
		if err := tx.Model(&models.Booking{}).Where("room_id = ?", id).Count(&bookings).Error; err != nil {
			return err
		}
		if bookings > 0 {
			return fmt.Errorf("%w: %d booking(s) reference this room", ErrInUse, bookings)
		}
		return s.deleteIn(tx, id)
	})
	if err != nil {
		return s.fail("delete", err)
	}
	s.ok("delete")
	return nil
}
