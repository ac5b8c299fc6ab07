package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"manthokha-backend/models"
)

type BookingService struct {
	*Store[models.Booking]
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{Store: NewStore[models.Booking](db, "booking", "created_at", true)}
}

// HasOverlap reports whether another booking of roomID intersects the
// half-open stay [checkin, checkout). excludeID skips the booking being edited.
func (s *BookingService) HasOverlap(ctx context.Context, roomID string, checkin, checkout time.Time, excludeID string) (bool, error) {
	n, err := countOverlaps(s.DB.WithContext(ctx), roomID, checkin, checkout, excludeID)
	if err != nil {
		return false, s.fail("overlap", err)
	}
	return n > 0, nil
}

// Insert stores rec unless its room is already taken for any night of the
// stay, in which case it returns ErrUnavailable.
func (s *BookingService) Insert(ctx context.Context, rec *models.Booking) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := claimRoom(tx, rec, ""); err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		return s.fail("insert", err)
	}
	s.ok("insert")
	return nil
}

// Update overwrites booking id with rec under the same availability rule as
// Insert, ignoring the booking's own current stay.
func (s *BookingService) Update(ctx context.Context, id string, rec *models.Booking) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := claimRoom(tx, rec, id); err != nil {
			return err
		}
		return s.updateIn(tx, id, rec)
	})
	if err != nil {
		return s.fail("update", err)
	}
	s.ok("update")
	return nil
}

// claimRoom locks the booked room's row for the rest of tx, so concurrent
// bookings of one room run their check and write one after the other.
func claimRoom(tx *gorm.DB, rec *models.Booking, excludeID string) error {
	var room models.Room
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&room, "id = ?", rec.RoomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrForeignKey
	}
	if err != nil {
		return err
	}

	n, err := countOverlaps(tx, rec.RoomID, rec.CheckinDate, rec.CheckoutDate, excludeID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrUnavailable
	}
	return nil
}

func countOverlaps(db *gorm.DB, roomID string, checkin, checkout time.Time, excludeID string) (int64, error) {
	q := db.Model(&models.Booking{}).
		Where("room_id = ? AND checkin_date < ? AND checkout_date > ?", roomID, checkout, checkin)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// Between lists bookings whose check-in falls inside [from, to).
func (s *BookingService) Between(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	out := []models.Booking{}
	err := s.DB.WithContext(ctx).
		Where("checkin_date >= ? AND checkin_date < ?", from, to).
		Order("checkin_date").
		Find(&out).Error
	if err != nil {
		return nil, s.fail("list", err)
	}
	return out, nil
}
