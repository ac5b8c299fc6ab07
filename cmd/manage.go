package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"manthokha-backend/config"
	"manthokha-backend/content"
	"manthokha-backend/services"
)

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the catalog tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg, log)
			if err != nil {
				return err
			}
			closeDatabase(db, log)
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}

func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the starter hotels and rooms into an empty catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			site, err := content.Load()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg, log)
			if err != nil {
				return err
			}
			defer closeDatabase(db, log)

			n, err := seedCatalog(cmd.Context(), db, site, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d hotel(s).\n", n)
			return nil
		},
	}
}

func ExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export bookings to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			fromRaw, _ := cmd.Flags().GetString("from")
			toRaw, _ := cmd.Flags().GetString("to")

			from, err := parseDay(fromRaw)
			if err != nil {
				return fmt.Errorf("--from: %w", err)
			}
			to, err := parseDay(toRaw)
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}
			if !to.IsZero() {
				to = to.AddDate(0, 0, 1)
			}

			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg, log)
			if err != nil {
				return err
			}
			defer closeDatabase(db, log)

			exporter := services.NewExportService(
				services.NewBookingService(db),
				services.NewHotelService(db),
				services.NewRoomService(db),
				cfg.ExportDir,
			)

			if out == "" {
				if err := os.MkdirAll(exporter.Dir, 0o755); err != nil {
					return fmt.Errorf("create export directory: %w", err)
				}
				out = filepath.Join(exporter.Dir, fmt.Sprintf("bookings_%s.xlsx", time.Now().UTC().Format("20060102_150405")))
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			if err := exporter.Write(cmd.Context(), f, from, to); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().String("out", "", "output file (default: a timestamped file in EXPORT_DIR)")
	cmd.Flags().String("from", "", "first check-in day, YYYY-MM-DD")
	cmd.Flags().String("to", "", "last check-in day, YYYY-MM-DD")
	return cmd
}

func seedCatalog(ctx context.Context, db *gorm.DB, site *content.Site, log zerolog.Logger) (int, error) {
	n, err := config.SeedDatabase(ctx, db, site, log)
	if err != nil {
		return 0, fmt.Errorf("seed catalog: %w", err)
	}
	return n, nil
}

func parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}
