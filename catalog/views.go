package catalog

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"manthokha-backend/models"
	"manthokha-backend/services"
)

// Views holds the catalog listings the site serves from.
type Views struct {
	Hotels   *View[models.Hotel]
	Rooms    *View[models.Room]
	Bookings *View[models.Booking]
}

func NewViews(hotels Lister[models.Hotel], rooms Lister[models.Room], bookings Lister[models.Booking], log zerolog.Logger) *Views {
	return &Views{
		Hotels:   NewView("hotels", hotels, services.ListOptions{OrderBy: "created_at", Desc: true}, log),
		Rooms:    NewView("rooms", rooms, services.ListOptions{OrderBy: "name"}, log),
		Bookings: NewView("bookings", bookings, services.ListOptions{OrderBy: "created_at", Desc: true}, log),
	}
}

// Refresh re-fetches every listing, e.g. for the manual refresh action.
func (v *Views) Refresh(ctx context.Context) error {
	return errors.Join(
		v.Hotels.Refresh(ctx),
		v.Rooms.Refresh(ctx),
		v.Bookings.Refresh(ctx),
	)
}

func (v *Views) Status() []ViewStatus {
	return []ViewStatus{v.Hotels.Status(), v.Rooms.Status(), v.Bookings.Status()}
}

// Listings joins the hotel and room views. A view that cannot be loaded
// for the first time is an error; a stale one is served as is.
func (v *Views) Listings(ctx context.Context) ([]HotelListing, error) {
	if err := v.Hotels.Ensure(ctx); err != nil {
		return nil, err
	}
	if err := v.Rooms.Ensure(ctx); err != nil {
		return nil, err
	}
	return BuildListings(v.Hotels.Items(), v.Rooms.Items()), nil
}
