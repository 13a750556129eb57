package router

import (
	"github.com/chachabrian/parcel-backend/internal/auth"
	"github.com/chachabrian/parcel-backend/internal/database"
	"github.com/chachabrian/parcel-backend/internal/handlers"
	"github.com/chachabrian/parcel-backend/internal/middleware"
	"github.com/chachabrian/parcel-backend/internal/models"
	"github.com/chachabrian/parcel-backend/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the long-lived collaborators the routes are built from.
type Deps struct {
	Store     database.Store
	Verifier  auth.Verifier
	Gateway   services.PaymentGateway
	Publisher services.EventPublisher
	Hub       *services.Hub
	Storage   services.ImageStorage
	// UploadDir is served under /uploads when images are stored locally.
	UploadDir    string
	HealthChecks map[string]handlers.HealthCheck
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	if d.UploadDir != "" {
		r.Static("/uploads", d.UploadDir)
	}

	requireAuth := middleware.AuthMiddleware(d.Verifier)
	optionalAuth := middleware.OptionalAuth(d.Verifier)

	r.GET("/", handlers.Root())
	r.GET("/health", handlers.Health(d.HealthChecks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	users := r.Group("/users")
	{
		users.GET("/search", handlers.SearchUsers(d.Store))
		users.GET("/:email/role", handlers.GetUserRole(d.Store))
		users.PATCH("/:id/role", handlers.UpdateUserRole(d.Store))
		users.POST("", handlers.UpsertUser(d.Store))
	}

	riders := r.Group("/riders")
	{
		riders.GET("/pending", handlers.ListRiders(d.Store, models.RiderStatusPending))
		riders.GET("/active", handlers.ListRiders(d.Store, models.RiderStatusAccepted))
		riders.POST("", handlers.CreateRider(d.Store))
		riders.PATCH("/:id", handlers.UpdateRiderStatus(d.Store))
	}

	parcels := r.Group("/parcels")
	{
		parcels.GET("", optionalAuth, handlers.ListParcels(d.Store))
		parcels.GET("/:id", handlers.GetParcel(d.Store))
		parcels.POST("", optionalAuth, handlers.CreateParcel(d.Store))
		parcels.DELETE("/:id", handlers.DeleteParcel(d.Store))
		parcels.POST("/:id/image", handlers.UploadParcelImage(d.Store, d.Storage))
	}

	tracking := r.Group("/tracking")
	{
		tracking.POST("", handlers.CreateTrackingLog(d.Store, d.Publisher))
		tracking.GET("/:trackingId", handlers.ListTrackingLogs(d.Store))
		tracking.GET("/:trackingId/ws", handlers.TrackingStream(d.Hub))
	}

	payments := r.Group("/payments")
	{
		payments.GET("", requireAuth, middleware.RequireQueryEmailMatch("email"), handlers.ListPayments(d.Store))
		payments.POST("", handlers.RecordPayment(d.Store, d.Publisher))
	}

	r.POST("/create-payment-intent", handlers.CreatePaymentIntent(d.Gateway))

	return r
}
