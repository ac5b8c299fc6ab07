package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"manthokha-backend/content"
	"manthokha-backend/jobs"
	"manthokha-backend/metrics"
	"manthokha-backend/routes"
)

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetBool("seed")
			return serve(seed)
		},
	}
	cmd.Flags().Bool("seed", false, "seed the starter catalog when the hotel table is empty")
	return cmd
}

func serve(seed bool) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.AdminPasswordHash == "" {
		log.Warn().Msg("ADMIN_PASSWORD_HASH is not set, admin routes will reject every request")
	}

	metrics.Register()

	site, err := content.Load()
	if err != nil {
		return err
	}

	db, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	defer closeDatabase(db, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if seed {
		if _, err := seedCatalog(ctx, db, site, log); err != nil {
			return err
		}
	}

	a := buildApp(ctx, cfg, db, site, log)
	defer a.Close()

	if err := a.views.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial catalog load failed, views will load on first request")
	}

	scheduler, err := jobs.Schedule(ctx, cfg.ExportSchedule, a.exporter, log.With().Str("component", "jobs").Logger())
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	router := routes.SetupRouter(cfg, log, a.handlers)
	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received, shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}
