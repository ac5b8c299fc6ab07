package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manthokha-backend/models"
)

func sampleBooking() models.Booking {
	return models.Booking{
		ID:           "b-1",
		FullName:     "Jane <Guest>",
		Email:        "jane@example.com",
		CheckinDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		CheckoutDate: time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC),
		Guests:       2,
	}
}

func TestMailerLogsWithoutSMTP(t *testing.T) {
	var logs bytes.Buffer
	m := NewMailer(SMTPConfig{}, zerolog.New(&logs))
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("must not send without SMTP settings")
		return nil
	}

	require.NoError(t, m.SendBookingConfirmation(context.Background(), sampleBooking(), "Riverside Inn", "Deluxe"))
	assert.Contains(t, logs.String(), "[MOCK EMAIL]")
	assert.Contains(t, logs.String(), "jane@example.com")
}

func TestMailerSends(t *testing.T) {
	m := NewMailer(SMTPConfig{Host: "smtp.example.com", Port: "587", Username: "bookings@example.com", Password: "pw", FromName: "Manthokha Waterfall"}, zerolog.Nop())

	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
	)
	m.send = func(addr string, _ smtp.Auth, _ string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		return nil
	}

	require.NoError(t, m.SendBookingConfirmation(context.Background(), sampleBooking(), "Riverside Inn", "Deluxe"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, []string{"jane@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Your booking at Riverside Inn is confirmed\r\n")
	assert.Contains(t, gotMsg, "Check-in: June 1, 2025")
	assert.Contains(t, gotMsg, "Jane &lt;Guest&gt;", "html part is escaped")
}

func TestMailerSendError(t *testing.T) {
	m := NewMailer(SMTPConfig{Host: "h", Port: "25", Username: "u", Password: "p"}, zerolog.Nop())
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("535 auth failed") }

	err := m.SendBookingConfirmation(context.Background(), sampleBooking(), "Riverside Inn", "Deluxe")
	assert.ErrorContains(t, err, "535 auth failed")
}

func TestJSONResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	JSONSuccess(c, http.StatusCreated, gin.H{"id": "1"}, gin.H{"notifications": []string{"x"}})

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, map[string]interface{}{"id": "1"}, body["data"])
	assert.Contains(t, body, "notifications")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	JSONError(c, http.StatusNotFound, "error.notFound", "Hotel not found.", nil)

	body = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, c.IsAborted())
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "error.notFound", body["error"].(map[string]interface{})["code"])
}
