package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jhunter5/Backend/internal/api/handlers"
	"github.com/jhunter5/Backend/internal/api/middleware"
	"github.com/jhunter5/Backend/internal/auth"
	"github.com/jhunter5/Backend/internal/cache"
	"github.com/jhunter5/Backend/internal/config"
	"github.com/jhunter5/Backend/internal/identity"
	"github.com/jhunter5/Backend/internal/services"
	"github.com/jhunter5/Backend/internal/storage"
)

// Dependencies are the shared clients the API handlers are built on.
type Dependencies struct {
	DB       *mongo.Database
	Storage  storage.IS3Storage
	Identity identity.IIdentityClient
	Queue    services.IJobQueue
	Locker   cache.Locker
}

// crud registers the usual entity routes on g. Updates answer both PUT and PATCH.
func crud(g *gin.RouterGroup, create, list, get, update, remove gin.HandlerFunc) {
	g.POST("", create)
	g.GET("", list)
	g.GET("/:id", get)
	g.PUT("/:id", update)
	g.PATCH("/:id", update)
	g.DELETE("/:id", remove)
}

// SetupRouter configures and returns the main Gin engine.
// The returned limiter is exposed so the caller can run its cleanup loop.
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, *middleware.RateLimiterMiddleware) {
	handlers.RegisterValidators()

	userService := services.NewUserService(deps.DB)
	landlordService := services.NewLandlordService(deps.DB, cfg, deps.Storage, deps.Queue)
	tenantService := services.NewTenantService(deps.DB, cfg, deps.Storage, deps.Queue)
	propertyService := services.NewPropertyService(deps.DB, cfg, deps.Storage, deps.Queue)
	mediaService := services.NewPropertyMediaService(deps.DB, cfg, deps.Storage, deps.Queue)
	contractService := services.NewContractService(deps.DB, cfg, deps.Storage, deps.Locker)
	applicationService := services.NewApplicationService(deps.DB, cfg, deps.Storage)
	paymentService := services.NewPaymentService(deps.DB)
	reviewService := services.NewReviewService(deps.DB)
	repairService := services.NewRepairService(deps.DB)
	appointmentService := services.NewAppointmentService(deps.DB)
	preferenceService := services.NewPreferenceService(deps.DB)
	profileService := services.NewProfileService(deps.DB)
	dashboardService := services.NewDashboardService(deps.DB)

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())
	r.Use(middleware.TimeoutMiddleware(cfg.RequestTimeout))

	userHandler := handlers.NewRestUserHandler(userService)
	landlordHandler := handlers.NewRestLandlordHandler(landlordService, dashboardService)
	tenantHandler := handlers.NewRestTenantHandler(tenantService)
	propertyHandler := handlers.NewRestPropertyHandler(propertyService, dashboardService)
	mediaHandler := handlers.NewRestPropertyMediaHandler(mediaService)
	contractHandler := handlers.NewRestContractHandler(contractService)
	applicationHandler := handlers.NewRestApplicationHandler(applicationService)
	paymentHandler := handlers.NewRestPaymentHandler(paymentService)
	reviewHandler := handlers.NewRestReviewHandler(reviewService)
	repairHandler := handlers.NewRestRepairHandler(repairService)
	appointmentHandler := handlers.NewRestAppointmentHandler(appointmentService)
	preferenceHandler := handlers.NewRestPreferenceHandler(preferenceService)
	authHandler := handlers.NewRestAuthHandler(profileService, deps.Identity)

	v1 := r.Group("/api")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		crud(v1.Group("/user"), userHandler.CreateUser, userHandler.ListUsers, userHandler.GetUserByID, userHandler.UpdateUser, userHandler.DeleteUser)

		landlords := v1.Group("/landlord")
		crud(landlords, landlordHandler.CreateLandlord, landlordHandler.ListLandlords, landlordHandler.GetLandlord, landlordHandler.UpdateLandlord, landlordHandler.DeleteLandlord)
		landlords.GET("/:id/tenants/active", landlordHandler.GetActiveTenants)
		landlords.GET("/:id/candidates", landlordHandler.GetCandidates)

		crud(v1.Group("/tenant"), tenantHandler.CreateTenant, tenantHandler.ListTenants, tenantHandler.GetTenant, tenantHandler.UpdateTenant, tenantHandler.DeleteTenant)

		properties := v1.Group("/property")
		crud(properties, propertyHandler.CreateProperty, propertyHandler.ListProperties, propertyHandler.GetProperty, propertyHandler.UpdateProperty, propertyHandler.DeleteProperty)
		properties.POST("/available", propertyHandler.SearchAvailable)
		properties.GET("/available/no-filters", propertyHandler.ListAvailable)
		properties.GET("/user/:userId", propertyHandler.ListByUser)
		properties.GET("/landlord/:landlordId", propertyHandler.ListByLandlord)

		media := v1.Group("/propertyMedia")
		crud(media, mediaHandler.CreateMedia, mediaHandler.ListMedia, mediaHandler.GetMedia, mediaHandler.UpdateMedia, mediaHandler.DeleteMedia)
		media.GET("/property/:propertyId", mediaHandler.ListByProperty)

		contracts := v1.Group("/contract")
		{
			contracts.POST("", contractHandler.CreateContract)
			contracts.GET("/:id", contractHandler.GetContract)
			contracts.GET("/tenant/:id", contractHandler.ListByTenant)
			contracts.GET("/tenant/active/:id", contractHandler.ListActiveByTenant)
			contracts.GET("/property/:propertyId", contractHandler.ListByProperty)
			contracts.GET("/property/:propertyId/user/:tenantId", contractHandler.ListByPropertyAndTenant)
			contracts.PUT("/:id", contractHandler.UpdateContract)
			contracts.PATCH("/:id", contractHandler.UpdateContract)
			contracts.POST("/:id/terminate", contractHandler.TerminateContract)
			contracts.DELETE("/:id", contractHandler.DeleteContract)
		}

		applications := v1.Group("/application")
		crud(applications, applicationHandler.CreateApplication, applicationHandler.ListApplications, applicationHandler.GetApplication, applicationHandler.UpdateApplication, applicationHandler.DeleteApplication)
		applications.PATCH("/:id/status", applicationHandler.UpdateStatus)
		applications.GET("/property/:propertyId", applicationHandler.ListByProperty)

		crud(v1.Group("/payment"), paymentHandler.CreatePayment, paymentHandler.ListPayments, paymentHandler.GetPayment, paymentHandler.UpdatePayment, paymentHandler.DeletePayment)
		crud(v1.Group("/review"), reviewHandler.CreateReview, reviewHandler.ListReviews, reviewHandler.GetReview, reviewHandler.UpdateReview, reviewHandler.DeleteReview)

		repairs := v1.Group("/repair")
		crud(repairs, repairHandler.CreateRepair, repairHandler.ListRepairs, repairHandler.GetRepair, repairHandler.UpdateRepair, repairHandler.DeleteRepair)
		repairs.PATCH("/:id/status", repairHandler.UpdateStatus)

		appointments := v1.Group("/appointment")
		{
			appointments.POST("", appointmentHandler.CreateAppointment)
			appointments.GET("/:id", appointmentHandler.GetAppointment)
			appointments.GET("/landlord/:landlordAuthID", appointmentHandler.ListByLandlord)
			appointments.GET("/tenant/:tenantAuthID", appointmentHandler.ListByTenant)
			appointments.PUT("/:id", appointmentHandler.UpdateAppointment)
			appointments.PATCH("/:id", appointmentHandler.UpdateAppointment)
			appointments.DELETE("/:id", appointmentHandler.DeleteAppointment)
		}

		landlordPrefs := v1.Group("/preferences/landlord")
		crud(landlordPrefs, preferenceHandler.CreateLandlordPreference, preferenceHandler.ListLandlordPreferences, preferenceHandler.GetLandlordPreference, preferenceHandler.UpdateLandlordPreference, preferenceHandler.DeleteLandlordPreference)
		landlordPrefs.GET("/landlord/:landlordId", preferenceHandler.ListByLandlord)

		tenantPrefs := v1.Group("/preferences/tenant")
		crud(tenantPrefs, preferenceHandler.CreateTenantPreference, preferenceHandler.ListTenantPreferences, preferenceHandler.GetTenantPreference, preferenceHandler.UpdateTenantPreference, preferenceHandler.DeleteTenantPreference)
		tenantPrefs.GET("/tenant/:tenantId", preferenceHandler.ListByTenant)

		authGroup := v1.Group("/auth")
		authGroup.POST("/verifyProfile", authHandler.VerifyProfile)
		adminRequired := authGroup.Group("")
		adminRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret), middleware.RequireRole(auth.RoleAdmin))
		{
			adminRequired.GET("/roles", authHandler.ListRoles)
			adminRequired.POST("/assignRole", authHandler.AssignRole)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	return r, rateLimiter
}

// SetupServiceRouter configures the internal service engine: shutdown and health methods.
func SetupServiceRouter(db *mongo.Database, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			log.Println("Received shutdown command via Service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
			default:
				log.Println("Shutdown channel already signaled or blocked.")
			}
		case "health":
			start := time.Now()
			if err := db.Client().Ping(c.Request.Context(), readpref.Primary()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Database unreachable"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "result": gin.H{"mongo": "ok", "latencyMs": time.Since(start).Milliseconds()}})
		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}
