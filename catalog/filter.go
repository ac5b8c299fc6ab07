package catalog

import (
	"strings"

	"manthokha-backend/models"
)

// Default bounds of the public price slider, in PKR per night.
const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 30000
)

// MatchText reports whether any field contains query, ignoring case.
// An empty query matches everything.
func MatchText(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// FilterText keeps the items whose fields match query. Order is preserved.
func FilterText[T any](items []T, query string, fields func(T) []string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if MatchText(query, fields(it)...) {
			out = append(out, it)
		}
	}
	return out
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// FilterRange keeps the items whose derived value lies in r. Items without a
// value (ok == false) are dropped.
func FilterRange[T any](items []T, r Range, value func(T) (float64, bool)) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if v, ok := value(it); ok && r.Contains(v) {
			out = append(out, it)
		}
	}
	return out
}

// Filter composes the text and range filters with a logical AND. A nil r
// skips the range filter.
func Filter[T any](items []T, query string, fields func(T) []string, r *Range, value func(T) (float64, bool)) []T {
	out := FilterText(items, query, fields)
	if r != nil && value != nil {
		out = FilterRange(out, *r, value)
	}
	return out
}

// HotelListing is a hotel together with the rooms assigned to it.
type HotelListing struct {
	models.Hotel
	Rooms     []models.Room `json:"rooms"`
	MinPrice  *float64      `json:"min_price"`
	RoomCount int           `json:"room_count"`
}

// MinRoomPrice is undefined (ok == false) for a hotel with no rooms.
func MinRoomPrice(rooms []models.Room) (float64, bool) {
	if len(rooms) == 0 {
		return 0, false
	}
	min := rooms[0].Price
	for _, r := range rooms[1:] {
		if r.Price < min {
			min = r.Price
		}
	}
	return min, true
}

// BuildListings groups rooms under their hotels, keeping hotel order.
// Unassigned rooms and rooms of unknown hotels are left out.
func BuildListings(hotels []models.Hotel, rooms []models.Room) []HotelListing {
	byHotel := make(map[string][]models.Room, len(hotels))
	for _, r := range rooms {
		if r.HotelID == nil {
			continue
		}
		byHotel[*r.HotelID] = append(byHotel[*r.HotelID], r)
	}

	out := make([]HotelListing, 0, len(hotels))
	for _, h := range hotels {
		l := HotelListing{Hotel: h, Rooms: byHotel[h.ID]}
		if l.Rooms == nil {
			l.Rooms = []models.Room{}
		}
		l.RoomCount = len(l.Rooms)
		if min, ok := MinRoomPrice(l.Rooms); ok {
			l.MinPrice = &min
		}
		out = append(out, l)
	}
	return out
}

func ListingPrice(l HotelListing) (float64, bool) {
	if l.MinPrice == nil {
		return 0, false
	}
	return *l.MinPrice, true
}

// Search field sets.

func PublicHotelFields(l HotelListing) []string {
	return []string{l.Name, l.Description, l.Location}
}

func AdminHotelFields(h models.Hotel) []string {
	return []string{h.Name, h.Location}
}

func RoomFields(r models.Room) []string {
	return []string{r.Name, r.Description}
}

func BookingFields(b models.Booking) []string {
	return []string{b.FullName, b.Email}
}

func ContactFields(c models.ContactSubmission) []string {
	return []string{c.Name, c.Email, c.Subject}
}
