package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"manthokha-backend/models"
)

type HotelService struct {
	*Store[models.Hotel]
}

func NewHotelService(db *gorm.DB) *HotelService {
	return &HotelService{Store: NewStore[models.Hotel](db, "hotel", "created_at", true)}
}

// Delete refuses to remove a hotel that rooms or bookings still point at.
func (s *HotelService) Delete(ctx context.Context, id string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rooms, bookings int64
		if err := tx.Model(&models.Room{}).Where("hotel_id = ?", id).Count(&rooms).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Booking{}).Where("hotel_id = ?", id).Count(&bookings).Error; err != nil {
			return err
		}
		if rooms > 0 || bookings > 0 {
			return fmt.Errorf("%w: %d room(s) and %d booking(s) belong to this hotel", ErrInUse, rooms, bookings)
		}
		return s.deleteIn(tx, id)
	})
	if err != nil {
		return s.fail("delete", err)
	}
	s.ok("delete")
	return nil
}
