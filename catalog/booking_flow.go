package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"manthokha-backend/models"
	"manthokha-backend/services"
)

var validate = validator.New()

// ConfirmationDateLayout is how the chosen date appears in the confirmation.
const ConfirmationDateLayout = "January 2, 2006"

// BookingRequest is the public booking form as the guest filled it in.
type BookingRequest struct {
	HotelID         string `json:"hotel_id"`
	RoomID          string `json:"room_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CheckIn         string `json:"check_in"`
	CheckOut        string `json:"check_out,omitempty"`
	Adults          string `json:"adults"`
	Children        string `json:"children"`
	SpecialRequests string `json:"special_requests"`
}

// NewBookingRequest returns the form's initial state for one room.
func NewBookingRequest(hotelID, roomID string) BookingRequest {
	return BookingRequest{HotelID: hotelID, RoomID: roomID, Adults: "1", Children: "0"}
}

type bookingInput struct {
	fullName string
	checkin  time.Time
	checkout time.Time
	guests   int
}

// Validate reports the first problem with the request, checking the date
// before anything else.
func (r BookingRequest) Validate() error {
	if _, verr := r.parse(); verr != nil {
		return verr
	}
	return nil
}

func (r BookingRequest) parse() (bookingInput, *ValidationError) {
	var in bookingInput

	if strings.TrimSpace(r.CheckIn) == "" {
		return in, &ValidationError{
			Field:   "check_in",
			Title:   "Select a date",
			Message: "Please select a check-in date for your booking.",
		}
	}
	for _, f := range []struct{ name, value string }{
		{"first_name", r.FirstName},
		{"last_name", r.LastName},
		{"email", r.Email},
		{"phone", r.Phone},
	} {
		if strings.TrimSpace(f.value) == "" {
			return in, &ValidationError{
				Field:   f.name,
				Title:   "Incomplete information",
				Message: "Please fill in all required fields.",
			}
		}
	}
	if strings.TrimSpace(r.HotelID) == "" || strings.TrimSpace(r.RoomID) == "" {
		return in, &ValidationError{
			Field:   "room_id",
			Title:   "Incomplete information",
			Message: "Please choose a hotel and room to book.",
		}
	}

	checkin, err := parseDate("check_in", r.CheckIn)
	if err != nil {
		return in, err.(*ValidationError)
	}
	checkout := checkin.AddDate(0, 0, 1)
	if strings.TrimSpace(r.CheckOut) != "" {
		checkout, err = parseDate("check_out", r.CheckOut)
		if err != nil {
			return in, err.(*ValidationError)
		}
		if !checkout.After(checkin) {
			return in, invalid("check_out", "Check-out date must be after the check-in date.")
		}
	}

	if err := validate.Var(strings.TrimSpace(r.Email), "email"); err != nil {
		return in, &ValidationError{Field: "email", Title: "Invalid email", Message: "Please enter a valid email address."}
	}

	adults, err := strconv.Atoi(defaultString(r.Adults, "1"))
	if err != nil || adults < 1 {
		return in, &ValidationError{Field: "adults", Title: "Invalid guest count", Message: "At least one adult is required."}
	}
	children, err := strconv.Atoi(defaultString(r.Children, "0"))
	if err != nil || children < 0 {
		return in, &ValidationError{Field: "children", Title: "Invalid guest count", Message: "Children must be zero or more."}
	}

	in.fullName = strings.TrimSpace(r.FirstName) + " " + strings.TrimSpace(r.LastName)
	in.checkin = checkin
	in.checkout = checkout
	in.guests = adults + children
	return in, nil
}

type HotelGetter interface {
	Get(ctx context.Context, id string) (*models.Hotel, error)
}

type RoomGetter interface {
	Get(ctx context.Context, id string) (*models.Room, error)
}

// BookingWriter stores a booking, refusing with services.ErrUnavailable
// when the room is already taken for any night of the stay.
type BookingWriter interface {
	Insert(ctx context.Context, rec *models.Booking) error
}

// Mailer sends the guest a copy of the confirmation.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, b models.Booking, hotelName, roomName string) error
}

// BookingFlow persists public bookings.
type BookingFlow struct {
	Hotels     HotelGetter
	Rooms      RoomGetter
	Bookings   BookingWriter
	Mailer     Mailer
	Refreshers []Refresher
	Log        zerolog.Logger
}

// Submit validates req and, when it is complete, stores the booking. A
// validation failure never reaches the store.
func (f *BookingFlow) Submit(ctx context.Context, req BookingRequest, n Notifier) (*models.Booking, error) {
	if n == nil {
		n = NotifierFunc(func(Notification) {})
	}

	in, verr := req.parse()
	if verr != nil {
		n.Notify(failure(verr.Title, verr.Message))
		return nil, verr
	}

	hotel, err := f.Hotels.Get(ctx, req.HotelID)
	if err != nil {
		return nil, f.storeFailed(n, "get hotel", err)
	}
	room, err := f.Rooms.Get(ctx, req.RoomID)
	if err != nil {
		return nil, f.storeFailed(n, "get room", err)
	}
	if !room.BelongsTo(hotel.ID) {
		verr := invalid("room_id", fmt.Sprintf("%s is not offered by %s.", room.Name, hotel.Name))
		n.Notify(failure(verr.Title, verr.Message))
		return nil, verr
	}
	if room.Capacity > 0 && in.guests > room.Capacity {
		verr := &ValidationError{
			Field:   "adults",
			Title:   "Too many guests",
			Message: fmt.Sprintf("%s sleeps at most %d guests.", room.Name, room.Capacity),
		}
		n.Notify(failure(verr.Title, verr.Message))
		return nil, verr
	}

	booking := models.Booking{
		FullName:        in.fullName,
		Email:           strings.TrimSpace(req.Email),
		Phone:           strings.TrimSpace(req.Phone),
		CheckinDate:     in.checkin,
		CheckoutDate:    in.checkout,
		Guests:          in.guests,
		HotelID:         hotel.ID,
		RoomID:          room.ID,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
	}
	if err := f.Bookings.Insert(ctx, &booking); err != nil {
		if errors.Is(err, services.ErrUnavailable) {
			verr := roomUnavailable()
			n.Notify(failure(verr.Title, verr.Message))
			return nil, verr
		}
		return nil, f.storeFailed(n, "insert", err)
	}

	for _, r := range f.Refreshers {
		_ = r.Refresh(ctx)
	}

	n.Notify(success(
		"Booking Successful!",
		fmt.Sprintf("Your booking at %s for %s has been confirmed.", hotel.Name, in.checkin.Format(ConfirmationDateLayout)),
	))

	if f.Mailer != nil {
		if err := f.Mailer.SendBookingConfirmation(ctx, booking, hotel.Name, room.Name); err != nil {
			f.Log.Warn().Err(err).Str("booking_id", booking.ID).Msg("booking confirmation email not sent")
		}
	}
	return &booking, nil
}

func (f *BookingFlow) storeFailed(n Notifier, op string, err error) error {
	serr := &StoreError{Entity: "Booking", Op: op, Err: err}
	n.Notify(failure("Booking failed", serr.Message()))
	return serr
}

func defaultString(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}
