package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"manthokha-backend/models"
	"manthokha-backend/services"
)

const dateLayout = "2006-01-02"

// HotelSchema requires name, description, location and overview.
func HotelSchema() Schema[models.Hotel] {
	return Schema[models.Hotel]{
		Entity: "Hotel",
		New: func() models.Hotel {
			return models.Hotel{Images: []string{}, Features: []string{}}
		},
		Clone: func(h models.Hotel) models.Hotel {
			h.Images = cloneList(h.Images)
			h.Features = cloneList(h.Features)
			return h
		},
		Label: func(h models.Hotel) string { return h.Name },
		SetField: func(h *models.Hotel, name, value string) error {
			switch name {
			case "name":
				h.Name = value
			case "description":
				h.Description = value
			case "location":
				h.Location = value
			case "overview":
				h.Overview = value
			case "rating":
				v, err := parseFloat(name, value)
				if err != nil {
					return err
				}
				h.Rating = v
			default:
				return fmt.Errorf("%w: %s", ErrUnknownField, name)
			}
			return nil
		},
		Lists: map[string]func(*models.Hotel) *[]string{
			"images":   func(h *models.Hotel) *[]string { return (*[]string)(&h.Images) },
			"features": func(h *models.Hotel) *[]string { return (*[]string)(&h.Features) },
		},
		Normalize: func(h *models.Hotel) {
			h.Name = strings.TrimSpace(h.Name)
			h.Description = strings.TrimSpace(h.Description)
			h.Location = strings.TrimSpace(h.Location)
			h.Overview = strings.TrimSpace(h.Overview)
			h.Images = cleanList(h.Images)
			h.Features = cleanList(h.Features)
		},
		Validate: func(h models.Hotel) *ValidationError {
			switch {
			case h.Name == "":
				return missing("name", "Please fill in all required fields: hotel name is missing.")
			case h.Description == "":
				return missing("description", "Please fill in all required fields: description is missing.")
			case h.Location == "":
				return missing("location", "Please fill in all required fields: location is missing.")
			case h.Overview == "":
				return missing("overview", "Please fill in all required fields: overview is missing.")
			}
			return nil
		},
	}
}

// RoomSchema requires a name, a positive price, room for at least one guest
// and an owning hotel.
func RoomSchema() Schema[models.Room] {
	return Schema[models.Room]{
		Entity: "Room",
		New: func() models.Room {
			return models.Room{Capacity: 2, Images: []string{}, Features: []string{}}
		},
		Clone: func(r models.Room) models.Room {
			if r.HotelID != nil {
				id := *r.HotelID
				r.HotelID = &id
			}
			r.Images = cloneList(r.Images)
			r.Features = cloneList(r.Features)
			return r
		},
		Label: func(r models.Room) string { return r.Name },
		SetField: func(r *models.Room, name, value string) error {
			switch name {
			case "name":
				r.Name = value
			case "description":
				r.Description = value
			case "price":
				v, err := parseFloat(name, value)
				if err != nil {
					return err
				}
				r.Price = v
			case "capacity":
				v, err := parseInt(name, value)
				if err != nil {
					return err
				}
				r.Capacity = v
			case "hotel_id":
				v := strings.TrimSpace(value)
				if v == "" {
					r.HotelID = nil
				} else {
					r.HotelID = &v
				}
			default:
				return fmt.Errorf("%w: %s", ErrUnknownField, name)
			}
			return nil
		},
		Lists: map[string]func(*models.Room) *[]string{
			"images":   func(r *models.Room) *[]string { return (*[]string)(&r.Images) },
			"features": func(r *models.Room) *[]string { return (*[]string)(&r.Features) },
		},
		Normalize: func(r *models.Room) {
			r.Name = strings.TrimSpace(r.Name)
			r.Description = strings.TrimSpace(r.Description)
			if r.HotelID != nil && strings.TrimSpace(*r.HotelID) == "" {
				r.HotelID = nil
			}
			r.Images = cleanList(r.Images)
			r.Features = cleanList(r.Features)
		},
		Validate: func(r models.Room) *ValidationError {
			switch {
			case r.Name == "":
				return missing("name", "Please fill in all required fields: room name is missing.")
			case r.Price <= 0:
				return invalid("price", "Price must be greater than zero.")
			case r.Capacity < 1:
				return invalid("capacity", "Capacity must be at least one guest.")
			case r.HotelID == nil:
				return missing("hotel_id", "Please select the hotel this room belongs to.")
			}
			return nil
		},
	}
}

// BookingSchema backs the back-office booking edit form. A stay the store
// refuses because it clashes with another booking of the room comes back as
// "Room unavailable".
func BookingSchema() Schema[models.Booking] {
	s := Schema[models.Booking]{
		Entity: "Booking",
		New:    func() models.Booking { return models.Booking{Guests: 1} },
		Clone:  func(b models.Booking) models.Booking { return b },
		Label:  func(b models.Booking) string { return b.FullName },
		SetField: func(b *models.Booking, name, value string) error {
			switch name {
			case "full_name":
				b.FullName = value
			case "email":
				b.Email = value
			case "phone":
				b.Phone = value
			case "special_requests":
				b.SpecialRequests = value
			case "hotel_id":
				b.HotelID = strings.TrimSpace(value)
			case "room_id":
				b.RoomID = strings.TrimSpace(value)
			case "guests":
				v, err := parseInt(name, value)
				if err != nil {
					return err
				}
				b.Guests = v
			case "checkin_date":
				t, err := parseDate(name, value)
				if err != nil {
					return err
				}
				b.CheckinDate = t
			case "checkout_date":
				t, err := parseDate(name, value)
				if err != nil {
					return err
				}
				b.CheckoutDate = t
			default:
				return fmt.Errorf("%w: %s", ErrUnknownField, name)
			}
			return nil
		},
		Normalize: func(b *models.Booking) {
			b.FullName = strings.TrimSpace(b.FullName)
			b.Email = strings.TrimSpace(b.Email)
			b.Phone = strings.TrimSpace(b.Phone)
			b.SpecialRequests = strings.TrimSpace(b.SpecialRequests)
		},
		Validate: func(b models.Booking) *ValidationError {
			switch {
			case b.FullName == "":
				return missing("full_name", "Please fill in all required fields: guest name is missing.")
			case b.Email == "":
				return missing("email", "Please fill in all required fields: email is missing.")
			case b.CheckinDate.IsZero():
				return missing("checkin_date", "Please select a check-in date for your booking.")
			case b.CheckoutDate.IsZero():
				return missing("checkout_date", "Please select a check-out date for your booking.")
			case !b.CheckoutDate.After(b.CheckinDate):
				return invalid("checkout_date", "Check-out date must be after the check-in date.")
			case b.Guests < 1:
				return invalid("guests", "A booking needs at least one guest.")
			case b.HotelID == "":
				return missing("hotel_id", "Please select a hotel.")
			case b.RoomID == "":
				return missing("room_id", "Please select a room.")
			}
			if err := validate.Var(b.Email, "email"); err != nil {
				return invalid("email", "Please enter a valid email address.")
			}
			return nil
		},
	}
	s.Rejected = func(err error) *ValidationError {
		if errors.Is(err, services.ErrUnavailable) {
			return roomUnavailable()
		}
		return nil
	}
	return s
}

func roomUnavailable() *ValidationError {
	return &ValidationError{
		Field:   "room_id",
		Title:   "Room unavailable",
		Message: "This room is already booked for the selected dates.",
	}
}

func cloneList(in datatypes.JSONSlice[string]) datatypes.JSONSlice[string] {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cleanList(in datatypes.JSONSlice[string]) datatypes.JSONSlice[string] {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseFloat(field, value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, invalid(field, fmt.Sprintf("%s must be a number.", field))
	}
	return v, nil
}

func parseInt(field, value string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, invalid(field, fmt.Sprintf("%s must be a whole number.", field))
	}
	return v, nil
}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, invalid(field, fmt.Sprintf("%s must be a date like 2025-06-01.", field))
	}
	return t, nil
}
