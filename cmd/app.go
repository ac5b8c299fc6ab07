package cmd

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"manthokha-backend/catalog"
	"manthokha-backend/config"
	"manthokha-backend/content"
	"manthokha-backend/controllers"
	"manthokha-backend/drafts"
	"manthokha-backend/models"
	"manthokha-backend/routes"
	"manthokha-backend/services"
	"manthokha-backend/utils"
)

type app struct {
	handlers routes.Handlers
	views    *catalog.Views
	exporter *services.ExportService
	redis    *redis.Client
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// buildApp wires stores, views and controllers over db.
func buildApp(ctx context.Context, cfg *config.Config, db *gorm.DB, site *content.Site, log zerolog.Logger) *app {
	hotelSvc := services.NewHotelService(db)
	roomSvc := services.NewRoomService(db)
	bookingSvc := services.NewBookingService(db)
	contactSvc := services.NewContactService(db)
	imageSvc := services.NewImageService(cfg.UploadDir)
	exporter := services.NewExportService(bookingSvc, hotelSvc, roomSvc, cfg.ExportDir)

	views := catalog.NewViews(hotelSvc, roomSvc, bookingSvc, log.With().Str("component", "catalog").Logger())
	notifier := catalog.LogNotifier{Log: log.With().Str("component", "notifications").Logger()}

	mailer := utils.NewMailer(utils.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		FromName: cfg.SMTPFromName,
	}, log.With().Str("component", "mailer").Logger())

	a := &app{views: views, exporter: exporter}
	draftStore := a.draftStore(ctx, cfg, log)

	hotelSchema := catalog.HotelSchema()
	roomSchema := catalog.RoomSchema()
	bookingSchema := catalog.BookingSchema()

	// hotel writes change listings, room writes change min prices
	hotelRefresh := []catalog.Refresher{views.Hotels}
	roomRefresh := []catalog.Refresher{views.Rooms}
	bookingRefresh := []catalog.Refresher{views.Bookings}

	a.handlers = routes.Handlers{
		Public: &controllers.PublicController{
			Views: views,
			Booking: &catalog.BookingFlow{
				Hotels:     hotelSvc,
				Rooms:      roomSvc,
				Bookings:   bookingSvc,
				Mailer:     mailer,
				Refreshers: bookingRefresh,
				Log:        log.With().Str("component", "booking").Logger(),
			},
			Contact:  &catalog.ContactInbox{Store: contactSvc},
			Site:     site,
			Notifier: notifier,
		},
		Admin: &controllers.AdminController{
			Views:    views,
			Rooms:    roomSvc,
			Contacts: contactSvc,
			Images:   imageSvc,
			Exporter: exporter,
			Notifier: notifier,
		},
		Hotels: &controllers.CrudController[models.Hotel]{
			Schema: hotelSchema, Repo: hotelSvc, View: views.Hotels,
			Search: catalog.AdminHotelFields, Refreshers: hotelRefresh, Notifier: notifier,
		},
		Rooms: &controllers.CrudController[models.Room]{
			Schema: roomSchema, Repo: roomSvc, View: views.Rooms,
			Search: catalog.RoomFields, Refreshers: roomRefresh, Notifier: notifier,
		},
		Bookings: &controllers.CrudController[models.Booking]{
			Schema: bookingSchema, Repo: bookingSvc, View: views.Bookings,
			Search: catalog.BookingFields, Refreshers: bookingRefresh, Notifier: notifier,
		},
		HotelDrafts: &controllers.DraftController[models.Hotel]{
			Entity: "hotels", Schema: hotelSchema, Repo: hotelSvc, Drafts: draftStore,
			Refreshers: hotelRefresh, Notifier: notifier,
		},
		RoomDrafts: &controllers.DraftController[models.Room]{
			Entity: "rooms", Schema: roomSchema, Repo: roomSvc, Drafts: draftStore,
			Refreshers: roomRefresh, Notifier: notifier,
		},
		BookingDrafts: &controllers.DraftController[models.Booking]{
			Entity: "bookings", Schema: bookingSchema, Repo: bookingSvc, Drafts: draftStore,
			Refreshers: bookingRefresh, Notifier: notifier,
		},
	}
	return a
}

// draftStore uses Redis when REDIS_ADDR is set and reachable, otherwise an
// in-process store that only works for a single instance.
func (a *app) draftStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) drafts.Store {
	if cfg.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR not set, keeping drafts in memory")
		return drafts.NewMemoryStore(cfg.DraftTTL)
	}

	client := drafts.NewRedisClient(drafts.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Warn().Err(err).Msg("redis connection failed, keeping drafts in memory")
		_ = client.Close()
		return drafts.NewMemoryStore(cfg.DraftTTL)
	}

	log.Info().Str("addr", cfg.RedisAddr).Msg("redis connected")
	a.redis = client
	return drafts.NewRedisStore(client, cfg.DraftTTL)
}
