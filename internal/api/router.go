package api

import (
	"activityhub-backend/internal/api/v1/activity"
	adminLedger "activityhub-backend/internal/api/v1/admin/ledger"
	adminPayment "activityhub-backend/internal/api/v1/admin/payment"
	"activityhub-backend/internal/api/v1/auth"
	"activityhub-backend/internal/api/v1/matching"
	"activityhub-backend/internal/api/v1/payment"
	"activityhub-backend/internal/api/v1/rating"
	"activityhub-backend/internal/api/v1/subscription"
	userRoutes "activityhub-backend/internal/api/v1/user"
	"activityhub-backend/internal/api/v1/verification"
	"activityhub-backend/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps are the collaborators the routes need beyond the package-level services.
type Deps struct {
	Epay         payment.EpayVerifier
	Stripe       payment.StripeVerifier
	Sweeper      adminPayment.Sweeper
	AllowOrigins []string
}

func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(), middleware.Metrics())

	origins := deps.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1)
		payment.RegisterRoutes(v1, payment.NewHandler(deps.Epay, deps.Stripe))

		authorized := v1.Group("/")
		authorized.Use(middleware.AuthMiddleware())
		{
			userRoutes.RegisterRoutes(authorized)
			rating.RegisterRoutes(authorized)
			matching.RegisterRoutes(authorized)
			activity.RegisterRoutes(authorized)
			subscription.RegisterRoutes(authorized)
			verification.RegisterRoutes(authorized)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware())
		{
			adminLedger.RegisterRoutes(admin)
			if deps.Sweeper != nil {
				adminPayment.RegisterRoutes(admin, adminPayment.NewHandler(deps.Sweeper))
			}
		}
	}

	return router
}
