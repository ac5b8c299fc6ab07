package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"manthokha-backend/catalog"
	"manthokha-backend/content"
	"manthokha-backend/models"
)

// PublicController serves the guest-facing site: hotel browsing, the
// booking form, the contact form and the static pages.
type PublicController struct {
	Views    *catalog.Views
	Booking  *catalog.BookingFlow
	Contact  *catalog.ContactInbox
	Site     *content.Site
	Notifier catalog.Notifier
}

type roomDetail struct {
	Hotel models.Hotel           `json:"hotel"`
	Room  models.Room            `json:"room"`
	Form  catalog.BookingRequest `json:"form"`
}

// ListHotels serves GET /api/hotels?q=&min_price=&max_price=. The price
// range only applies when one of its bounds is given; the other bound then
// takes its default.
func (pc *PublicController) ListHotels(c *gin.Context) {
	priceRange, ok := parsePriceRange(c)
	if !ok {
		return
	}

	listings, err := pc.Views.Listings(c.Request.Context())
	if err != nil {
		respondError(c, &catalog.StoreError{Entity: "Hotel", Op: "list", Err: err}, nil)
		return
	}

	listings = catalog.Filter(listings, c.Query("q"), catalog.PublicHotelFields, priceRange, catalog.ListingPrice)
	respondOK(c, http.StatusOK, listings, nil)
}

func (pc *PublicController) GetHotel(c *gin.Context) {
	listing, ok := pc.findListing(c, c.Param("id"))
	if !ok {
		return
	}
	respondOK(c, http.StatusOK, listing, nil)
}

// GetRoom serves the booking page: the hotel, the room and a booking form
// with its defaults filled in.
func (pc *PublicController) GetRoom(c *gin.Context) {
	listing, ok := pc.findListing(c, c.Param("id"))
	if !ok {
		return
	}

	roomID := c.Param("roomId")
	for _, room := range listing.Rooms {
		if room.ID == roomID {
			respondOK(c, http.StatusOK, roomDetail{
				Hotel: listing.Hotel,
				Room:  room,
				Form:  catalog.NewBookingRequest(listing.ID, room.ID),
			}, nil)
			return
		}
	}
	notFound(c, "Room not found")
}

// CreateBooking runs the booking form submission.
func (pc *PublicController) CreateBooking(c *gin.Context) {
	var req catalog.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid booking payload: "+err.Error())
		return
	}

	rec := catalog.NewRecorder(pc.Notifier)
	booking, err := pc.Booking.Submit(c.Request.Context(), req, rec)
	if err != nil {
		respondError(c, err, rec)
		return
	}
	respondOK(c, http.StatusCreated, booking, rec)
}

func (pc *PublicController) SubmitContact(c *gin.Context) {
	var req catalog.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid contact payload: "+err.Error())
		return
	}

	rec := catalog.NewRecorder(pc.Notifier)
	sub, err := pc.Contact.Submit(c.Request.Context(), req, rec)
	if err != nil {
		respondError(c, err, rec)
		return
	}
	respondOK(c, http.StatusCreated, sub, rec)
}

func (pc *PublicController) GetContent(c *gin.Context) {
	page, ok := pc.Site.Page(c.Param("page"))
	if !ok {
		notFound(c, "Page not found")
		return
	}
	respondOK(c, http.StatusOK, page, nil)
}

func (pc *PublicController) findListing(c *gin.Context, id string) (catalog.HotelListing, bool) {
	listings, err := pc.Views.Listings(c.Request.Context())
	if err != nil {
		respondError(c, &catalog.StoreError{Entity: "Hotel", Op: "get", Err: err}, nil)
		return catalog.HotelListing{}, false
	}
	for _, l := range listings {
		if l.ID == id {
			return l, true
		}
	}
	notFound(c, "Hotel not found")
	return catalog.HotelListing{}, false
}

func parsePriceRange(c *gin.Context) (*catalog.Range, bool) {
	minRaw := strings.TrimSpace(c.Query("min_price"))
	maxRaw := strings.TrimSpace(c.Query("max_price"))
	if minRaw == "" && maxRaw == "" {
		return nil, true
	}

	r := catalog.Range{Min: catalog.DefaultMinPrice, Max: catalog.DefaultMaxPrice}
	if minRaw != "" {
		v, err := strconv.ParseFloat(minRaw, 64)
		if err != nil {
			badRequest(c, "min_price must be a number")
			return nil, false
		}
		r.Min = v
	}
	if maxRaw != "" {
		v, err := strconv.ParseFloat(maxRaw, 64)
		if err != nil {
			badRequest(c, "max_price must be a number")
			return nil, false
		}
		r.Max = v
	}
	if r.Min > r.Max {
		badRequest(c, "min_price must not exceed max_price")
		return nil, false
	}
	return &r, true
}
