package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"manthokha-backend/catalog"
	"manthokha-backend/config"
	"manthokha-backend/content"
	"manthokha-backend/models"
	"manthokha-backend/routes"
	"manthokha-backend/testutil"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Notifications []catalog.Notification `json:"notifications"`
}

type harness struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		DBDriver:          "sqlite",
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
		RateLimitRPS:      100,
		RateLimitBurst:    100,
		DraftTTL:          time.Hour,
		UploadDir:         t.TempDir(),
		ExportDir:         t.TempDir(),
	}
	site, err := content.Load()
	require.NoError(t, err)

	db := testutil.NewDB(t)
	a := buildApp(context.Background(), cfg, db, site, zerolog.Nop())
	t.Cleanup(a.Close)

	return &harness{t: t, db: db, router: routes.SetupRouter(cfg, zerolog.Nop(), a.handlers)}
}

func (h *harness) do(method, path string, body interface{}, admin bool) (*httptest.ResponseRecorder, envelope) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.SetBasicAuth("admin", "s3cret")
	}

	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestPublicHotelBrowsing(t *testing.T) {
	h := newHarness(t)
	resort := testutil.Hotel(t, h.db, "Manthokha Waterfall Resort")
	inn := testutil.Hotel(t, h.db, "Riverside Inn")
	testutil.Hotel(t, h.db, "Empty Lodge")
	deluxe := testutil.Room(t, h.db, resort.ID, "Deluxe Room", 12000)
	testutil.Room(t, h.db, inn.ID, "Standard Room", 5000)

	w, env := h.do(http.MethodGet, "/api/hotels", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]catalog.HotelListing](t, env.Data), 3)

	_, env = h.do(http.MethodGet, "/api/hotels?q=riverside", nil, false)
	got := decode[[]catalog.HotelListing](t, env.Data)
	require.Len(t, got, 1)
	assert.Equal(t, inn.ID, got[0].ID)

	_, env = h.do(http.MethodGet, "/api/hotels?max_price=10000", nil, false)
	got = decode[[]catalog.HotelListing](t, env.Data)
	require.Len(t, got, 1, "room-less hotels drop out once a price range applies")
	assert.Equal(t, "Riverside Inn", got[0].Name)

	w, env = h.do(http.MethodGet, "/api/hotels?min_price=cheap", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error.invalidPayload", env.Error.Code)

	w, _ = h.do(http.MethodGet, "/api/hotels?min_price=9000&max_price=100", nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = h.do(http.MethodGet, "/api/hotels/"+resort.ID, nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	listing := decode[catalog.HotelListing](t, env.Data)
	assert.Equal(t, 1, listing.RoomCount)
	require.NotNil(t, listing.MinPrice)
	assert.Equal(t, 12000.0, *listing.MinPrice)

	w, _ = h.do(http.MethodGet, "/api/hotels/nope", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = h.do(http.MethodGet, "/api/hotels/"+resort.ID+"/rooms/"+deluxe.ID, nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[struct {
		Room models.Room           `json:"room"`
		Form catalog.BookingRequest `json:"form"`
	}](t, env.Data)
	assert.Equal(t, "Deluxe Room", detail.Room.Name)
	assert.Equal(t, "1", detail.Form.Adults)
	assert.Equal(t, "0", detail.Form.Children)

	w, _ = h.do(http.MethodGet, "/api/hotels/"+inn.ID+"/rooms/"+deluxe.ID, nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code, "room of another hotel")
}

func TestPublicContent(t *testing.T) {
	h := newHarness(t)

	w, env := h.do(http.MethodGet, "/api/content/contact", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), "info@manthokhawaterfall.com")

	w, env = h.do(http.MethodGet, "/api/content/pricing", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error.notFound", env.Error.Code)
}

func TestPublicBooking(t *testing.T) {
	h := newHarness(t)
	hotel := testutil.Hotel(t, h.db, "Manthokha Waterfall Resort")
	room := testutil.Room(t, h.db, hotel.ID, "Deluxe Room", 12000)

	req := catalog.NewBookingRequest(hotel.ID, room.ID)
	req.FirstName, req.LastName = "Jane", "Guest"
	req.Email, req.Phone = "jane@example.com", "+92 300 1234567"

	w, env := h.do(http.MethodPost, "/api/bookings", req, false)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "error.validation", env.Error.Code)
	require.Len(t, env.Notifications, 1)
	assert.Equal(t, "Select a date", env.Notifications[0].Title)

	var count int64
	require.NoError(t, h.db.Model(&models.Booking{}).Count(&count).Error)
	assert.Zero(t, count)

	req.CheckIn = "2025-06-01"
	w, env = h.do(http.MethodPost, "/api/bookings", req, false)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	b := decode[models.Booking](t, env.Data)
	assert.Equal(t, "Jane Guest", b.FullName)
	require.NotEmpty(t, env.Notifications)
	assert.Equal(t, "Your booking at Manthokha Waterfall Resort for June 1, 2025 has been confirmed.", env.Notifications[0].Description)

	w, env = h.do(http.MethodPost, "/api/bookings", req, false)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "same room and night again")
	assert.Equal(t, "Room unavailable", env.Notifications[0].Title)

	// admin sees the booking through the refreshed view
	w, env = h.do(http.MethodGet, "/api/admin/bookings?q=jane", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Booking](t, env.Data), 1)
}

func TestContactSubmission(t *testing.T) {
	h := newHarness(t)

	w, env := h.do(http.MethodPost, "/api/contact", gin.H{"name": "Ali", "email": "ali", "message": "hi"}, false)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "error.validation", env.Error.Code)

	w, env = h.do(http.MethodPost, "/api/contact", gin.H{"name": "Ali", "email": "ali@example.com", "subject": "July", "message": "Family rooms?"}, false)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Message Sent!", env.Notifications[0].Title)

	w, env = h.do(http.MethodGet, "/api/admin/contact-submissions?q=july", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.ContactSubmission](t, env.Data), 1)
}

func TestAdminRequiresCredentials(t *testing.T) {
	h := newHarness(t)
	w, env := h.do(http.MethodGet, "/api/admin/hotels", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "error.unauthorized", env.Error.Code)
}

func TestAdminHotelCrud(t *testing.T) {
	h := newHarness(t)

	w, env := h.do(http.MethodPost, "/api/admin/hotels", gin.H{"name": "Riverside Inn"}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Len(t, env.Notifications, 1)
	assert.Equal(t, "Missing Fields", env.Notifications[0].Title)

	w, env = h.do(http.MethodPost, "/api/admin/hotels", gin.H{
		"id":          "client-chosen",
		"name":        "Riverside Inn",
		"description": "Cozy lodging",
		"location":    "Valley Road",
		"overview":    "...",
		"images":      []string{"/uploads/hotels/a.jpg"},
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Hotel](t, env.Data)
	assert.NotEqual(t, "client-chosen", created.ID)
	assert.Equal(t, "Hotel Created", env.Notifications[0].Title)

	_, env = h.do(http.MethodGet, "/api/admin/hotels", nil, true)
	assert.Len(t, decode[[]models.Hotel](t, env.Data), 1, "view refreshed after create")

	w, env = h.do(http.MethodPut, "/api/admin/hotels/"+created.ID, gin.H{"location": "River Bank"}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.Hotel](t, env.Data)
	assert.Equal(t, "River Bank", updated.Location)
	assert.Equal(t, "Riverside Inn", updated.Name)

	room := testutil.Room(t, h.db, created.ID, "Deluxe", 9000)

	w, env = h.do(http.MethodDelete, "/api/admin/hotels/"+created.ID, nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error.confirmationRequired", env.Error.Code)
	assert.Equal(t, catalog.ConfirmPrompt("Hotel"), env.Error.Message)

	w, env = h.do(http.MethodDelete, "/api/admin/hotels/"+created.ID+"?confirm=true", nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error.inUse", env.Error.Code)

	w, _ = h.do(http.MethodDelete, "/api/admin/rooms/"+room.ID+"?confirm=true", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = h.do(http.MethodDelete, "/api/admin/hotels/"+created.ID+"?confirm=true", nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = h.do(http.MethodGet, "/api/admin/hotels/"+created.ID, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoomAssignment(t *testing.T) {
	h := newHarness(t)
	h1 := testutil.Hotel(t, h.db, "H1")
	h2 := testutil.Hotel(t, h.db, "H2")
	room := testutil.Room(t, h.db, h1.ID, "Deluxe", 9000)

	w, env := h.do(http.MethodPatch, "/api/admin/rooms/"+room.ID+"/hotel", gin.H{"hotel_id": h2.ID}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Room Updated", env.Notifications[0].Title)

	_, env = h.do(http.MethodGet, "/api/admin/hotels/"+h2.ID+"/rooms", nil, true)
	rooms := decode[[]models.Room](t, env.Data)
	require.Len(t, rooms, 1)
	assert.Equal(t, 9000.0, rooms[0].Price)

	w, env = h.do(http.MethodPatch, "/api/admin/rooms/"+room.ID+"/hotel", gin.H{"hotel_id": "missing"}, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "error.foreignKey", env.Error.Code)
}

func TestHotelDraftLifecycle(t *testing.T) {
	h := newHarness(t)

	w, env := h.do(http.MethodPost, "/api/admin/drafts/hotels", nil, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	draft := decode[struct {
		ID    string        `json:"id"`
		State catalog.State `json:"state"`
	}](t, env.Data)
	assert.Equal(t, catalog.Editing, draft.State.Phase)
	base := "/api/admin/drafts/hotels/" + draft.ID

	w, _ = h.do(http.MethodPost, base+"/validate", nil, true)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = h.do(http.MethodPatch, base+"/fields", gin.H{"fields": gin.H{
		"name": "Riverside Inn", "description": "Cozy", "location": "Valley Road", "overview": "...",
	}}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = h.do(http.MethodPost, base+"/items", gin.H{"field": "features", "value": "Free WiFi"}, true)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = h.do(http.MethodPost, base+"/items", gin.H{"field": "features", "value": "Parking"}, true)
	require.Equal(t, http.StatusOK, w.Code)
	w, env = h.do(http.MethodDelete, base+"/items/features/0", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	working := decode[struct {
		Working models.Hotel `json:"working"`
	}](t, env.Data).Working
	assert.Equal(t, []string{"Parking"}, []string(working.Features))

	w, _ = h.do(http.MethodPatch, base+"/fields", gin.H{"fields": gin.H{"stars": "5"}}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = h.do(http.MethodPost, base+"/validate", nil, true)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = h.do(http.MethodPost, base+"/submit", nil, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	saved := decode[models.Hotel](t, env.Data)
	assert.Equal(t, "Riverside Inn", saved.Name)
	assert.Equal(t, []string{"Parking"}, []string(saved.Features))

	w, env = h.do(http.MethodGet, base, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "error.draftNotFound", env.Error.Code)

	w, _ = h.do(http.MethodGet, "/api/admin/drafts/rooms/"+draft.ID, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDraftEditAndCancel(t *testing.T) {
	h := newHarness(t)
	hotel := testutil.Hotel(t, h.db, "H1")

	w, env := h.do(http.MethodPost, "/api/admin/drafts/hotels", gin.H{"id": hotel.ID}, true)
	require.Equal(t, http.StatusCreated, w.Code)
	draft := decode[struct {
		ID      string        `json:"id"`
		State   catalog.State `json:"state"`
		Working models.Hotel  `json:"working"`
	}](t, env.Data)
	assert.Equal(t, hotel.ID, draft.State.TargetID)
	assert.Equal(t, "H1", draft.Working.Name)

	w, _ = h.do(http.MethodDelete, "/api/admin/drafts/hotels/"+draft.ID, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = h.do(http.MethodGet, "/api/admin/drafts/hotels/"+draft.ID, nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = h.do(http.MethodPost, "/api/admin/drafts/hotels", gin.H{"id": "missing"}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogStatusAndExport(t *testing.T) {
	h := newHarness(t)
	hotel := testutil.Hotel(t, h.db, "H1")
	room := testutil.Room(t, h.db, hotel.ID, "Deluxe", 9000)
	testutil.Booking(t, h.db, hotel.ID, room.ID, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 2)

	w, env := h.do(http.MethodPost, "/api/admin/catalog/refresh", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[[]catalog.ViewStatus](t, env.Data)
	require.Len(t, status, 3)
	assert.True(t, status[0].Loaded)
	assert.Empty(t, env.Notifications)

	w, _ = h.do(http.MethodGet, "/api/admin/bookings/export?from=2025-06-01&to=2025-06-01", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "bookings_")
	assert.Equal(t, "PK", w.Body.String()[:2], "xlsx is a zip archive")

	w, _ = h.do(http.MethodGet, "/api/admin/bookings/export?from=June", nil, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImageUpload(t *testing.T) {
	h := newHarness(t)

	w, env := h.do(http.MethodPost, "/api/admin/uploads/images", gin.H{"image": "data:image/png;base64,aGVsbG8=", "folder": "hotels"}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ref := decode[map[string]string](t, env.Data)["url"]
	assert.Regexp(t, `^/uploads/hotels/.+\.png$`, ref)

	w, _ = h.do(http.MethodGet, ref, nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())

	w, env = h.do(http.MethodPost, "/api/admin/uploads/images", gin.H{"image": "data:application/pdf;base64,aGVsbG8="}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error.invalidImage", env.Error.Code)

	w, env = h.do(http.MethodPost, "/api/admin/uploads/images", gin.H{"image": "data:image/png;base64,%%%"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error.invalidImage", env.Error.Code)
}
