package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"manthokha-backend/models"
)

const bookingsSheet = "Bookings"

var bookingColumns = []string{
	"Booking ID", "Guest", "Email", "Phone", "Hotel", "Room",
	"Check-in", "Check-out", "Nights", "Guests", "Special requests", "Created",
}

// ExportService renders bookings into an xlsx workbook for the back office.
type ExportService struct {
	Bookings *BookingService
	Hotels   *HotelService
	Rooms    *RoomService
	Dir      string
}

func NewExportService(bookings *BookingService, hotels *HotelService, rooms *RoomService, dir string) *ExportService {
	if dir == "" {
		dir = "exports"
	}
	return &ExportService{Bookings: bookings, Hotels: hotels, Rooms: rooms, Dir: dir}
}

// Workbook builds the bookings sheet. A zero from/to exports every booking.
func (s *ExportService) Workbook(ctx context.Context, from, to time.Time) (*excelize.File, error) {
	var (
		bookings []models.Booking
		err      error
	)
	if from.IsZero() || to.IsZero() {
		bookings, err = s.Bookings.List(ctx, ListOptions{})
	} else {
		bookings, err = s.Bookings.Between(ctx, from, to)
	}
	if err != nil {
		return nil, err
	}

	hotelNames, err := s.hotelNames(ctx)
	if err != nil {
		return nil, err
	}
	roomNames, err := s.roomNames(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	header, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, title := range bookingColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bookingsSheet, cell, title)
		_ = f.SetCellStyle(bookingsSheet, cell, cell, header)
	}

	for i, b := range bookings {
		row := []interface{}{
			b.ID, b.FullName, b.Email, b.Phone,
			hotelNames[b.HotelID], roomNames[b.RoomID],
			b.CheckinDate.Format("2006-01-02"), b.CheckoutDate.Format("2006-01-02"),
			b.Nights(), b.Guests, b.SpecialRequests,
			b.CreatedAt.Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(bookingsSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(bookingsSheet, "A", "A", 38)
	_ = f.SetColWidth(bookingsSheet, "B", "F", 24)
	_ = f.SetColWidth(bookingsSheet, "G", "L", 14)
	return f, nil
}

// Write streams the workbook to w.
func (s *ExportService) Write(ctx context.Context, w io.Writer, from, to time.Time) error {
	f, err := s.Workbook(ctx, from, to)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveToDir writes a timestamped workbook into Dir and returns its path.
func (s *ExportService) SaveToDir(ctx context.Context, now time.Time) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f, err := s.Workbook(ctx, time.Time{}, time.Time{})
	if err != nil {
		return "", err
	}
	defer f.Close()

	path := filepath.Join(s.Dir, fmt.Sprintf("bookings_%s.xlsx", now.Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func (s *ExportService) hotelNames(ctx context.Context) (map[string]string, error) {
	hotels, err := s.Hotels.List(ctx, ListOptions{})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(hotels))
	for _, h := range hotels {
		names[h.ID] = h.Name
	}
	return names, nil
}

func (s *ExportService) roomNames(ctx context.Context) (map[string]string, error) {
	rooms, err := s.Rooms.List(ctx, ListOptions{})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(rooms))
	for _, r := range rooms {
		names[r.ID] = r.Name
	}
	return names, nil
}
