// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"manthokha-backend/models"
)

// NewDB opens a private in-memory sqlite catalog with every table migrated.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw sql.DB: %v", err)
	}
	// one connection keeps the shared in-memory database alive and serialised
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Hotel inserts a hotel named name.
func Hotel(t testing.TB, db *gorm.DB, name string) models.Hotel {
	t.Helper()
	h := models.Hotel{
		Name:        name,
		Description: name + " description",
		Location:    "Manthokha",
		Rating:      4.5,
		Images:      []string{},
		Features:    []string{},
		Overview:    name + " overview",
	}
	if err := db.Create(&h).Error; err != nil {
		t.Fatalf("create hotel: %v", err)
	}
	return h
}

// Room inserts a room under hotelID.
func Room(t testing.TB, db *gorm.DB, hotelID, name string, price float64) models.Room {
	t.Helper()
	id := hotelID
	r := models.Room{
		HotelID:     &id,
		Name:        name,
		Description: name + " description",
		Price:       price,
		Capacity:    2,
		Images:      []string{},
		Features:    []string{},
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("create room: %v", err)
	}
	return r
}

// Booking inserts a booking for room from checkin for nights nights.
func Booking(t testing.TB, db *gorm.DB, hotelID, roomID string, checkin time.Time, nights int) models.Booking {
	t.Helper()
	b := models.Booking{
		FullName:     "Jane Guest",
		Email:        "jane@example.com",
		Phone:        "+977 1234567",
		CheckinDate:  checkin,
		CheckoutDate: checkin.AddDate(0, 0, nights),
		Guests:       2,
		HotelID:      hotelID,
		RoomID:       roomID,
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("create booking: %v", err)
	}
	return b
}
