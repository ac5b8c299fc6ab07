package utils

import (
	"context"
	"fmt"
	"html"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog"

	"manthokha-backend/models"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	FromName string
}

// Mailer sends booking confirmations. Without SMTP settings it only logs
// what it would have sent.
type Mailer struct {
	cfg  SMTPConfig
	log  zerolog.Logger
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg SMTPConfig, log zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log, send: smtp.SendMail}
}

func (m *Mailer) configured() bool {
	return m.cfg.Host != "" && m.cfg.Port != "" && m.cfg.Username != "" && m.cfg.Password != ""
}

func (m *Mailer) SendBookingConfirmation(ctx context.Context, b models.Booking, hotelName, roomName string) error {
	if !m.configured() {
		m.log.Info().Str("to", b.Email).Str("hotel", hotelName).Str("booking_id", b.ID).Msg("[MOCK EMAIL] booking confirmation")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	safe := func(s string) string {
		return strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(s), "\r", " "), "\n", " ")
	}
	to := safe(b.Email)
	checkin := b.CheckinDate.Format("January 2, 2006")
	checkout := b.CheckoutDate.Format("January 2, 2006")

	subject := fmt.Sprintf("Your booking at %s is confirmed", safe(hotelName))
	boundary := "----=_BOOKING_EMAIL_BOUNDARY"

	plainBody := fmt.Sprintf(
		"Hi %s,\n\n"+
			"Your booking at %s is confirmed.\n"+
			"Room: %s\nCheck-in: %s\nCheck-out: %s\nGuests: %d\nReference: %s\n\n"+
			"We look forward to welcoming you near Manthokha Waterfall.\n",
		b.FullName, hotelName, roomName, checkin, checkout, b.Guests, b.ID,
	)

	htmlBody := fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>Booking confirmed</title>
<style>
body { background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222; }
.container { max-width:640px; margin:20px auto; }
.card { background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px; }
td { padding:4px 12px 4px 0; }
</style>
</head>
<body>
<div class="container">
  <div class="card">
    <h2>Booking confirmed</h2>
    <p>Hi %s,</p>
    <p>Your booking at <strong>%s</strong> is confirmed.</p>
    <table>
      <tr><td>Room</td><td>%s</td></tr>
      <tr><td>Check-in</td><td>%s</td></tr>
      <tr><td>Check-out</td><td>%s</td></tr>
      <tr><td>Guests</td><td>%d</td></tr>
      <tr><td>Reference</td><td>%s</td></tr>
    </table>
    <p>We look forward to welcoming you near Manthokha Waterfall.</p>
  </div>
</div>
</body>
</html>`,
		html.EscapeString(b.FullName), html.EscapeString(hotelName), html.EscapeString(roomName),
		checkin, checkout, b.Guests, b.ID,
	)

	from := fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.Username)
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	if err := m.send(addr, auth, m.cfg.Username, []string{to}, []byte(sb.String())); err != nil {
		return fmt.Errorf("send booking email to %s: %w", to, err)
	}

	m.log.Info().Str("to", to).Str("booking_id", b.ID).Msg("booking confirmation sent")
	return nil
}
