package main

import (
	"log"
	"os"
	"strconv"

	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/labstack/echo/v4"

	"denimops/internal/caching"
	"denimops/internal/handlers"
	"denimops/internal/jobs"
	"denimops/internal/jobs/background"
	"denimops/internal/repositories"
	"denimops/internal/services"
	"denimops/pkg/database"
)

func main() {
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
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	photoSvc, err := services.NewGarmentPhotoService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize photo storage: %v", err)
	}

	// Create repositories
	itemRepo := repositories.NewInventoryItemRepo(pool)
	orderRepo := repositories.NewOrderRepo(pool)
	orderItemRepo := repositories.NewOrderItemRepo(pool)
	waitlistRepo := repositories.NewWaitlistRepo(pool)
	pendingRepo := repositories.NewPendingProductionRepo(pool)
	batchRepo := repositories.NewProductionBatchRepo(pool)
	requestRepo := repositories.NewRequestRepo(pool)
	commitmentRepo := repositories.NewCommitmentRepo(pool)
	eventRepo := repositories.NewInventoryEventRepo(pool)

	// Create cache and notification services
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)
	notifySvc := services.NewNotificationService(redisAddr, redisPassword, redisDB)

	// Create services
	matcherSvc := services.NewMatcherService(itemRepo)
	waitlistSvc := services.NewWaitlistService(waitlistRepo)
	commitmentSvc := services.NewCommitmentService(commitmentRepo, itemRepo, cacheSvc)
	allocSvc := services.NewAllocationService(pool, orderRepo, orderItemRepo, itemRepo,
		requestRepo, pendingRepo, commitmentRepo, eventRepo, matcherSvc, waitlistSvc,
		cacheSvc, notifySvc)
	orderSvc := services.NewOrderService(pool, orderRepo, orderItemRepo, allocSvc)
	productionSvc := services.NewProductionService(pool, pendingRepo, batchRepo, itemRepo,
		requestRepo, eventRepo, commitmentRepo, allocSvc, cacheSvc, notifySvc)
	pipelineSvc := services.NewPipelineService(pool, requestRepo, itemRepo, eventRepo,
		waitlistSvc, notifySvc)
	inventorySvc := services.NewInventoryService(pool, itemRepo, eventRepo, commitmentRepo, cacheSvc)

	// Background jobs
	staleSvc := jobs.NewStaleRequestService(requestRepo, notifySvc)
	scheduler := background.NewJobScheduler(itemRepo, allocSvc, staleSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	// Create handlers
	orderHandlers := handlers.NewOrderHandlers(orderSvc, allocSvc)
	inventoryHandlers := handlers.NewInventoryHandlers(inventorySvc, commitmentSvc)
	productionHandlers := handlers.NewProductionHandlers(productionSvc)
	requestHandlers := handlers.NewRequestHandlers(pipelineSvc, photoSvc)
	waitlistHandlers := handlers.NewWaitlistHandlers(waitlistSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, scheduler)

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)
	e.GET("/metrics", healthHandlers.GetMetrics)

	// API routes
	v1 := e.Group("/v1")

	// Order routes
	v1.POST("/orders", orderHandlers.PlaceOrder)
	v1.GET("/orders", orderHandlers.ListOrders)
	v1.GET("/orders/:id", orderHandlers.GetOrder)
	v1.POST("/orders/:id/allocate", orderHandlers.Allocate)

	// Inventory routes
	v1.POST("/inventory", inventoryHandlers.CreateStockItem)
	v1.POST("/inventory/search", inventoryHandlers.SearchItems)
	v1.GET("/inventory/:id", inventoryHandlers.GetItem)
	v1.GET("/inventory/:id/history", inventoryHandlers.GetItemHistory)
	v1.PUT("/inventory/:id/location", inventoryHandlers.MoveLocation)
	v1.GET("/commitments/:sku", inventoryHandlers.GetCommitments)

	// Production routes
	v1.GET("/production/pending", productionHandlers.ListPending)
	v1.POST("/production/pending/:id/accept", productionHandlers.Accept)

	// Pipeline request routes
	v1.GET("/requests/:id", requestHandlers.GetRequest)
	v1.POST("/requests/:id/steps/:step_id/complete", requestHandlers.CompleteStep)
	v1.GET("/items/:item_id/requests", requestHandlers.ListItemRequests)
	v1.POST("/items/:item_id/photos", requestHandlers.UploadPhoto)
	v1.GET("/items/:item_id/photos", requestHandlers.ListPhotos)

	// Waitlist routes
	v1.GET("/waitlist/:raw_sku", waitlistHandlers.ListByRawSKU)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Fatal(e.Start(":" + port))
}
