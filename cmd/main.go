package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	log "github.com/sirupsen/logrus"

	"shiftstock/internal/caching"
	"shiftstock/internal/handlers"
	"shiftstock/internal/jobs/background"
	"shiftstock/internal/middleware"
	"shiftstock/internal/repositories"
	"shiftstock/internal/services"
	"shiftstock/pkg/database"
)

const version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using environment")
	}

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Warn("JWT_SECRET not set, using generated secret; sessions will not survive restarts")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	reportsBucket := os.Getenv("REPORTS_BUCKET")
	if reportsBucket == "" {
		reportsBucket = "shiftstock-reports"
	}

	objectStore, err := services.NewObjectStoreService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object store: %v", err)
	}

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	storeRepo := repositories.NewStoreRepo(pool)
	itemRepo := repositories.NewItemRepo(pool)
	submissionRepo := repositories.NewSubmissionRepo(pool)
	currentStockRepo := repositories.NewCurrentStockRepo(pool)
	temperatureRepo := repositories.NewTemperatureRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	userSvc := services.NewUserService(userRepo, cacheSvc, jwtSecret, 24*time.Hour)
	storeSvc := services.NewStoreService(storeRepo, cacheSvc)
	itemSvc := services.NewItemService(itemRepo, cacheSvc)
	submissionSvc := services.NewSubmissionService(submissionRepo, currentStockRepo, itemRepo, cacheSvc)
	temperatureSvc := services.NewTemperatureService(temperatureRepo, storeRepo, cacheSvc)
	signalSvc := services.NewSignalService(submissionRepo, temperatureRepo, currentStockRepo, storeRepo, cacheSvc)
	reportSvc := services.NewReportService(submissionRepo, itemRepo, objectStore, reportsBucket)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(userSvc)
	userHandlers := handlers.NewUserHandlers(userSvc)
	storeHandlers := handlers.NewStoreHandlers(storeSvc)
	itemHandlers := handlers.NewItemHandlers(itemSvc)
	submissionHandlers := handlers.NewSubmissionHandlers(submissionSvc, cacheSvc)
	temperatureHandlers := handlers.NewTemperatureHandlers(temperatureSvc)
	inboxHandlers := handlers.NewInboxHandlers(signalSvc)
	reportHandlers := handlers.NewReportHandlers(reportSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler := background.NewJobScheduler(cacheSvc, storeRepo, submissionRepo, temperatureRepo)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.WithError(err).Warn("Scheduler shutdown failed")
		}
	}()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/ready", healthHandlers.ReadinessCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/health/metrics", healthHandlers.GetMetrics)

	// API routes
	v1 := e.Group("/v1")

	// Authentication routes (no JWT required for login)
	auth := v1.Group("/auth")
	auth.POST("/login", authHandlers.Login)

	// Protected routes
	protected := v1.Group("")
	protected.Use(echojwt.WithConfig(middleware.JWTConfig(jwtSecret)))
	protected.Use(middleware.LoadUser(userRepo))

	protected.GET("/me", authHandlers.Me)
	protected.PUT("/me/pin", authHandlers.ChangePIN)

	// Store-scoped routes; employees need a grant, admins pass for any store
	store := protected.Group("/stores/:storeID", middleware.RequireStoreAccess)
	store.GET("", storeHandlers.GetStore)
	store.GET("/items", itemHandlers.ListItems)
	store.POST("/submissions", submissionHandlers.SubmitStock)
	store.GET("/submissions", submissionHandlers.ListSubmissions)
	store.GET("/submissions/:date", submissionHandlers.GetDay)
	store.GET("/submissions/:date/revisions", submissionHandlers.ListRevisions)
	store.GET("/current-stock", submissionHandlers.GetCurrentStock)
	store.GET("/changes", submissionHandlers.StreamChanges)
	store.PUT("/temperatures/slots/:slot", temperatureHandlers.SaveCheck)
	store.GET("/temperatures", temperatureHandlers.ListRecentDays)
	store.GET("/temperatures/:date", temperatureHandlers.GetDay)
	store.GET("/temperatures/:date/checks", temperatureHandlers.ListChecks)
	store.GET("/dashboard", inboxHandlers.GetDashboard)

	// Admin routes
	admin := protected.Group("/admin", middleware.RequireAdmin)
	admin.POST("/stores", storeHandlers.CreateStore)
	admin.GET("/stores", storeHandlers.ListStores)
	admin.PUT("/stores/:storeID", storeHandlers.UpdateStore)
	admin.DELETE("/stores/:storeID", storeHandlers.DeactivateStore)

	admin.POST("/stores/:storeID/items", itemHandlers.CreateItem)
	admin.GET("/stores/:storeID/items/:itemID", itemHandlers.GetItem)
	admin.PUT("/stores/:storeID/items/:itemID", itemHandlers.UpdateItem)
	admin.DELETE("/stores/:storeID/items/:itemID", itemHandlers.DeactivateItem)
	admin.DELETE("/stores/:storeID/items/:itemID/permanent", itemHandlers.DeleteItem)

	admin.POST("/users", userHandlers.CreateEmployee)
	admin.GET("/users", userHandlers.ListUsers)
	admin.GET("/users/:userID", userHandlers.GetUser)
	admin.PUT("/users/:userID/stores", userHandlers.GrantStores)
	admin.DELETE("/users/:userID", userHandlers.DeactivateUser)

	admin.GET("/stores/:storeID/badges", inboxHandlers.GetBadges)
	admin.GET("/stores/:storeID/needs-review", inboxHandlers.GetNeedsReview)
	admin.GET("/stores/:storeID/inbox", inboxHandlers.GetInbox)
	admin.POST("/stores/:storeID/inbox/read", inboxHandlers.MarkRead)
	admin.POST("/stores/:storeID/inbox/confirm", inboxHandlers.Confirm)

	admin.GET("/stores/:storeID/reports/summary", reportHandlers.GetSummary)
	admin.GET("/stores/:storeID/reports/:variant/download", reportHandlers.DownloadCSV)
	admin.POST("/stores/:storeID/reports/archive", reportHandlers.Archive)

	admin.PUT("/stores/:storeID/temperatures/:date/slots/:slot", temperatureHandlers.AdminUpdateCheck)

	admin.GET("/jobs", func(c echo.Context) error {
		return c.JSON(200, scheduler.GetJobStatus())
	})

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Infof("Shiftstock server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
