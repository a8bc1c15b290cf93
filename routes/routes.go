package routes

import (
	"time"

	"github.com/BritneyNunes/NunesAutoBackEnd/controllers"
	"github.com/BritneyNunes/NunesAutoBackEnd/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers bundles every controller the router mounts.
type Handlers struct {
	Users     *controllers.UserController
	Catalog   *controllers.CatalogController
	Cart      *controllers.CartController
	Orders    *controllers.OrderController
	Email     *controllers.EmailController
	Health    *controllers.HealthController
	Locations *controllers.Resource[models.UserLocation, *models.UserLocation]
	Details   *controllers.Resource[models.UserPartsDetails, *models.UserPartsDetails]
	Feedback  *controllers.Resource[models.FeedbackRating, *models.FeedbackRating]

	// Auth guards the Basic-auth routes.
	Auth gin.HandlerFunc
}

const defaultOrigin = "http://localhost:3000"

func SetupRoutes(r *gin.Engine, h Handlers, allowOrigins []string) {
	if len(allowOrigins) == 0 {
		allowOrigins = []string{defaultOrigin}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", h.Health.Healthz)
	r.GET("/readyz", h.Health.Readyz)

	private := r.Group("/", h.Auth)

	SetupAuthRoutes(r, private, h)
	SetupCatalogRoutes(r, private, h)
	SetupShopRoutes(r, private, h)
	SetupRecordRoutes(private, h)
}
