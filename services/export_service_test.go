package services_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"manthokha-backend/services"
	"manthokha-backend/testutil"
)

func newExporter(t *testing.T, dir string) (*services.ExportService, func() (string, string)) {
	t.Helper()
	db := testutil.NewDB(t)
	h := testutil.Hotel(t, db, "Manthokha Waterfall Resort")
	r := testutil.Room(t, db, h.ID, "Deluxe Room", 12000)
	testutil.Booking(t, db, h.ID, r.ID, day("2025-06-01"), 3)
	testutil.Booking(t, db, h.ID, r.ID, day("2025-08-01"), 1)

	exp := services.NewExportService(
		services.NewBookingService(db),
		services.NewHotelService(db),
		services.NewRoomService(db),
		dir,
	)
	return exp, func() (string, string) { return h.Name, r.Name }
}

func TestExportWritesBookingsSheet(t *testing.T) {
	exp, names := newExporter(t, t.TempDir())
	hotel, room := names()

	var buf bytes.Buffer
	require.NoError(t, exp.Write(context.Background(), &buf, day("2025-06-01"), day("2025-07-01")))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Bookings"}, f.GetSheetList())
	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus the June booking")

	assert.Equal(t, "Booking ID", rows[0][0])
	assert.Equal(t, "Special requests", rows[0][10])

	row := rows[1]
	assert.Equal(t, "Jane Guest", row[1])
	assert.Equal(t, hotel, row[4])
	assert.Equal(t, room, row[5])
	assert.Equal(t, "2025-06-01", row[6])
	assert.Equal(t, "2025-06-04", row[7])
	assert.Equal(t, "3", row[8])
}

func TestExportSaveToDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	exp, _ := newExporter(t, dir)

	path, err := exp.SaveToDir(context.Background(), time.Date(2025, 9, 1, 2, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bookings_20250901_020000.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	assert.Len(t, rows, 3, "every booking when no range is given")
}

func TestImageSaveBase64(t *testing.T) {
	dir := t.TempDir()
	svc := services.NewImageService(dir)

	// 1x1 transparent png
	png := "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="
	ref, err := svc.SaveBase64(png, "hotels")
	require.NoError(t, err)
	assert.Regexp(t, `^/uploads/hotels/[0-9a-f-]{36}\.png$`, ref)

	data, err := os.ReadFile(filepath.Join(dir, "hotels", filepath.Base(ref)))
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), data[:4])
}

func TestImageRejectsUnsupportedType(t *testing.T) {
	svc := services.NewImageService(t.TempDir())
	_, err := svc.SaveBase64("data:image/svg+xml;base64,PHN2Zy8+", "rooms")
	assert.ErrorIs(t, err, services.ErrUnsupportedImage)

	_, err = svc.SaveBase64("not base64!", "rooms")
	assert.ErrorIs(t, err, services.ErrInvalidImage)

	_, err = svc.SaveBase64("data:image/png;base64,", "rooms")
	assert.ErrorIs(t, err, services.ErrInvalidImage)
}

func TestImageFolderStaysInsideUploads(t *testing.T) {
	dir := t.TempDir()
	svc := services.NewImageService(dir)

	ref, err := svc.SaveBase64("aGVsbG8=", "../../etc")
	require.NoError(t, err)
	assert.Regexp(t, `^/uploads/etc/.+\.jpg$`, ref)
	assert.FileExists(t, filepath.Join(dir, "etc", filepath.Base(ref)))
}
