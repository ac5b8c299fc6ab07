package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Exporter writes a bookings workbook and returns where it went.
type Exporter interface {
	SaveToDir(ctx context.Context, now time.Time) (string, error)
}

// ExportBookings runs one scheduled bookings export.
func ExportBookings(ctx context.Context, exp Exporter, log zerolog.Logger) {
	log.Info().Msg("running job: export bookings")

	path, err := exp.SaveToDir(ctx, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Msg("bookings export failed")
		return
	}
	log.Info().Str("path", path).Msg("bookings exported")
}

// Schedule registers the export under spec (standard five-field cron) and
// returns the started scheduler. An empty spec schedules nothing and
// returns nil.
func Schedule(ctx context.Context, spec string, exp Exporter, log zerolog.Logger) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}

	c := cron.New()
	if _, err := c.AddFunc(spec, func() { ExportBookings(ctx, exp, log) }); err != nil {
		return nil, fmt.Errorf("schedule bookings export %q: %w", spec, err)
	}
	c.Start()
	log.Info().Str("schedule", spec).Msg("bookings export scheduled")
	return c, nil
}
