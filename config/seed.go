package config

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"manthokha-backend/content"
	"manthokha-backend/models"
)

// SeedDatabase loads the starter hotels and their rooms into an empty
// catalog. A catalog that already has hotels is left alone.
func SeedDatabase(ctx context.Context, db *gorm.DB, site *content.Site, log zerolog.Logger) (int, error) {
	var hotelCount int64
	if err := db.WithContext(ctx).Model(&models.Hotel{}).Count(&hotelCount).Error; err != nil {
		return 0, fmt.Errorf("count hotels: %w", err)
	}
	if hotelCount > 0 {
		log.Info().Int64("hotels", hotelCount).Msg("catalog already seeded")
		return 0, nil
	}

	seeded := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, sh := range site.SeedHotels {
			hotel := models.Hotel{
				Name:        sh.Name,
				Description: sh.Description,
				Location:    sh.Location,
				Rating:      sh.Rating,
				Images:      nonNil(sh.Images),
				Features:    nonNil(sh.Features),
				Overview:    sh.Overview,
			}
			if err := tx.Create(&hotel).Error; err != nil {
				return fmt.Errorf("seed hotel %q: %w", sh.Name, err)
			}

			for _, sr := range sh.Rooms {
				hotelID := hotel.ID
				room := models.Room{
					HotelID:     &hotelID,
					Name:        sr.Name,
					Description: sr.Description,
					Price:       sr.Price,
					Capacity:    sr.Capacity,
					Images:      nonNil(sr.Images),
					Features:    nonNil(sr.Features),
				}
				if err := tx.Create(&room).Error; err != nil {
					return fmt.Errorf("seed room %q: %w", sr.Name, err)
				}
			}
			seeded++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().Int("hotels", seeded).Msg("catalog seeded")
	return seeded, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
