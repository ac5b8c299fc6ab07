package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var siteYAML []byte

type Testimonial struct {
	Name     string `yaml:"name" json:"name"`
	Location string `yaml:"location" json:"location"`
	Rating   int    `yaml:"rating" json:"rating"`
	Text     string `yaml:"text" json:"text"`
}

type Home struct {
	Title        string        `yaml:"title" json:"title"`
	Tagline      string        `yaml:"tagline" json:"tagline"`
	Testimonials []Testimonial `yaml:"testimonials" json:"testimonials"`
}

type About struct {
	Title string `yaml:"title" json:"title"`
	Body  string `yaml:"body" json:"body"`
}

type FAQ struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

type Contact struct {
	Title       string   `yaml:"title" json:"title"`
	Intro       string   `yaml:"intro" json:"intro"`
	Address     string   `yaml:"address" json:"address"`
	Phones      []string `yaml:"phones" json:"phones"`
	Emails      []string `yaml:"emails" json:"emails"`
	OfficeHours []string `yaml:"office_hours" json:"office_hours"`
	FAQs        []FAQ    `yaml:"faqs" json:"faqs"`
}

type Partner struct {
	Name     string   `yaml:"name" json:"name"`
	Location string   `yaml:"location" json:"location"`
	URL      string   `yaml:"url" json:"url"`
	Story    []string `yaml:"story" json:"story"`
}

type CarBooking struct {
	Title   string  `yaml:"title" json:"title"`
	Partner Partner `yaml:"partner" json:"partner"`
	Notice  string  `yaml:"notice" json:"notice"`
}

type BookingOption struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Features    []string `yaml:"features" json:"features"`
	Link        string   `yaml:"link" json:"link"`
	ButtonText  string   `yaml:"button_text" json:"button_text"`
}

type SeedRoom struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Price       float64  `yaml:"price"`
	Capacity    int      `yaml:"capacity"`
	Features    []string `yaml:"features"`
	Images      []string `yaml:"images"`
}

type SeedHotel struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Location    string     `yaml:"location"`
	Rating      float64    `yaml:"rating"`
	Features    []string   `yaml:"features"`
	Images      []string   `yaml:"images"`
	Overview    string     `yaml:"overview"`
	Rooms       []SeedRoom `yaml:"rooms"`
}

type Site struct {
	Home           Home            `yaml:"home"`
	About          About           `yaml:"about"`
	Contact        Contact         `yaml:"contact"`
	CarBooking     CarBooking      `yaml:"car_booking"`
	BookingOptions []BookingOption `yaml:"booking_options"`
	SeedHotels     []SeedHotel     `yaml:"seed_hotels"`
}

// Load parses the embedded site content.
func Load() (*Site, error) {
	return Parse(siteYAML)
}

func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse site content: %w", err)
	}
	return &s, nil
}

// Page returns the public payload for one page slug.
func (s *Site) Page(slug string) (interface{}, bool) {
	switch slug {
	case "home":
		return s.Home, true
	case "about":
		return s.About, true
	case "contact":
		return s.Contact, true
	case "car-booking":
		return s.CarBooking, true
	case "booking-options":
		return s.BookingOptions, true
	}
	return nil, false
}
