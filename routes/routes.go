package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"manthokha-backend/config"
	"manthokha-backend/controllers"
	"manthokha-backend/middleware"
	"manthokha-backend/models"
)

// Handlers bundles the controllers the router mounts.
type Handlers struct {
	Public *controllers.PublicController
	Admin  *controllers.AdminController

	Hotels   *controllers.CrudController[models.Hotel]
	Rooms    *controllers.CrudController[models.Room]
	Bookings *controllers.CrudController[models.Booking]

	HotelDrafts   *controllers.DraftController[models.Hotel]
	RoomDrafts    *controllers.DraftController[models.Room]
	BookingDrafts *controllers.DraftController[models.Booking]
}

// SetupRouter wires middleware and every route of the API.
func SetupRouter(cfg *config.Config, log zerolog.Logger, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log), gin.Recovery())
	r.Static("/uploads", cfg.UploadDir)

	origins := cfg.ParseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	api := r.Group("/api")
	{
		api.GET("/content/:page", h.Public.GetContent)

		hotels := api.Group("/hotels")
		{
			hotels.GET("", h.Public.ListHotels)
			hotels.GET("/:id", h.Public.GetHotel)
			hotels.GET("/:id/rooms/:roomId", h.Public.GetRoom)
		}

		api.POST("/bookings", limiter.Middleware(), h.Public.CreateBooking)
		api.POST("/contact", limiter.Middleware(), h.Public.SubmitContact)
	}

	admin := api.Group("/admin", middleware.AdminAuth(cfg.AdminUsername, cfg.AdminPasswordHash))
	{
		hotels := admin.Group("/hotels")
		{
			mountCrud(hotels, h.Hotels)
			hotels.GET("/:id/rooms", h.Admin.ListHotelRooms)
		}

		rooms := admin.Group("/rooms")
		{
			mountCrud(rooms, h.Rooms)
			rooms.PATCH("/:id/hotel", h.Admin.AssignRoomHotel)
		}

		bookings := admin.Group("/bookings")
		{
			// before /:id
			bookings.GET("/export", h.Admin.ExportBookings)
			mountCrud(bookings, h.Bookings)
		}

		admin.GET("/contact-submissions", h.Admin.ListContactSubmissions)

		cat := admin.Group("/catalog")
		{
			cat.GET("/status", h.Admin.CatalogStatus)
			cat.POST("/refresh", h.Admin.RefreshCatalog)
		}

		admin.POST("/uploads/images", h.Admin.UploadImage)

		drafts := admin.Group("/drafts")
		{
			mountDrafts(drafts.Group("/hotels"), h.HotelDrafts)
			mountDrafts(drafts.Group("/rooms"), h.RoomDrafts)
			mountDrafts(drafts.Group("/bookings"), h.BookingDrafts)
		}
	}

	return r
}

func mountCrud[T any](g *gin.RouterGroup, ctrl *controllers.CrudController[T]) {
	g.GET("", ctrl.List)
	g.GET("/:id", ctrl.Get)
	g.POST("", ctrl.Create)
	g.PUT("/:id", ctrl.Update)
	g.DELETE("/:id", ctrl.Delete)
}

func mountDrafts[T any](g *gin.RouterGroup, ctrl *controllers.DraftController[T]) {
	g.POST("", ctrl.Open)
	g.GET("/:draftId", ctrl.Show)
	g.PATCH("/:draftId/fields", ctrl.SetFields)
	g.POST("/:draftId/items", ctrl.AddItem)
	g.DELETE("/:draftId/items/:field/:index", ctrl.RemoveItem)
	g.POST("/:draftId/validate", ctrl.Validate)
	g.POST("/:draftId/submit", ctrl.Submit)
	g.DELETE("/:draftId", ctrl.Cancel)
}
