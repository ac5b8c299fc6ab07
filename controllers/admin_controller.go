package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"manthokha-backend/catalog"
	"manthokha-backend/services"
)

// AdminController holds the back-office actions that are not plain CRUD.
type AdminController struct {
	Views    *catalog.Views
	Rooms    *services.RoomService
	Contacts *services.ContactService
	Images   *services.ImageService
	Exporter *services.ExportService
	Notifier catalog.Notifier
}

type uploadImageRequest struct {
	Image  string `json:"image" binding:"required"`
	Folder string `json:"folder"`
}

type assignHotelRequest struct {
	HotelID string `json:"hotel_id"`
}

// RefreshCatalog re-fetches every view. Views that fail keep their last
// good listing and are reported stale.
func (ac *AdminController) RefreshCatalog(c *gin.Context) {
	rec := catalog.NewRecorder(ac.Notifier)
	if err := ac.Views.Refresh(c.Request.Context()); err != nil {
		_ = c.Error(err)
		rec.Notify(catalog.Notification{
			Title:       "Refresh failed",
			Description: "Some listings could not be refreshed and may be out of date.",
			Variant:     catalog.VariantDestructive,
		})
	}
	respondOK(c, http.StatusOK, ac.Views.Status(), rec)
}

func (ac *AdminController) CatalogStatus(c *gin.Context) {
	respondOK(c, http.StatusOK, ac.Views.Status(), nil)
}

func (ac *AdminController) ListContactSubmissions(c *gin.Context) {
	subs, err := ac.Contacts.List(c.Request.Context(), services.ListOptions{})
	if err != nil {
		respondError(c, &catalog.StoreError{Entity: "Contact submission", Op: "list", Err: err}, nil)
		return
	}
	respondOK(c, http.StatusOK, catalog.FilterText(subs, c.Query("q"), catalog.ContactFields), nil)
}

func (ac *AdminController) ListHotelRooms(c *gin.Context) {
	rooms, err := ac.Rooms.ListByHotel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, &catalog.StoreError{Entity: "Room", Op: "list", Err: err}, nil)
		return
	}
	respondOK(c, http.StatusOK, rooms, nil)
}

// AssignRoomHotel moves a room under another hotel. Other room fields are
// left as they are.
func (ac *AdminController) AssignRoomHotel(c *gin.Context) {
	var req assignHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid assign payload: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	rec := catalog.NewRecorder(ac.Notifier)
	id := c.Param("id")
	if err := ac.Rooms.AssignHotel(ctx, id, req.HotelID); err != nil {
		serr := &catalog.StoreError{Entity: "Room", Op: "assign", Err: err}
		rec.Notify(catalog.Notification{Title: "Error Saving Room", Description: serr.Message(), Variant: catalog.VariantDestructive})
		respondError(c, serr, rec)
		return
	}
	if err := ac.Views.Rooms.Refresh(ctx); err != nil {
		_ = c.Error(err)
	}

	room, err := ac.Rooms.Get(ctx, id)
	if err != nil {
		respondError(c, &catalog.StoreError{Entity: "Room", Op: "get", Err: err}, rec)
		return
	}
	rec.Notify(catalog.Notification{
		Title:       "Room Updated",
		Description: fmt.Sprintf("Room %q has been updated successfully.", room.Name),
	})
	respondOK(c, http.StatusOK, room, rec)
}

// UploadImage stores a base64 image and returns the reference to put in an
// images list.
func (ac *AdminController) UploadImage(c *gin.Context) {
	var req uploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid image payload: "+err.Error())
		return
	}

	folder := strings.TrimSpace(req.Folder)
	if folder == "" {
		folder = "misc"
	}
	ref, err := ac.Images.SaveBase64(req.Image, folder)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"url": ref}, nil)
}

// ExportBookings streams bookings as an xlsx workbook. from/to (YYYY-MM-DD)
// narrow it to bookings checking in between those days, both included.
func (ac *AdminController) ExportBookings(c *gin.Context) {
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1)
	}

	f, err := ac.Exporter.Workbook(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, &catalog.StoreError{Entity: "Booking", Op: "export", Err: err}, nil)
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if _, err := f.WriteTo(c.Writer); err != nil {
		_ = c.Error(err)
	}
}

func queryDate(c *gin.Context, key string) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		badRequest(c, key+" must be a date (YYYY-MM-DD)")
		return time.Time{}, false
	}
	return t, true
}
