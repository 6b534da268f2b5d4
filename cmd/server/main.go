package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightinfo-service/internal/domain/repository"
	"flightinfo-service/internal/infrastructure/config"
	"flightinfo-service/internal/infrastructure/persistence"
	"flightinfo-service/internal/infrastructure/seed"
	"flightinfo-service/internal/interface/api"
	flightRepo "flightinfo-service/internal/interface/repository"
	"flightinfo-service/internal/usecase"
	"flightinfo-service/pkg/logger"
	"flightinfo-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Create logger
	log := logger.NewLogger()
	defer log.Sync()
	log.Info("Starting Flight Information Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config", "error", err)
	}

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up the flight store
	var (
		flights     repository.FlightRepository
		mongoClient *mongo.Client
	)
	switch cfg.StoreBackend {
	case config.BackendMongo:
		log.Info("Connecting to MongoDB")
		client, db, err := persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoUser, cfg.MongoPassword)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		mongoClient = client
		flights = flightRepo.NewMongoFlightRepository(db)

	case config.BackendPostgres:
		log.Info("Connecting to PostgreSQL")
		gormDB, err := gorm.Open(postgres.Open(cfg.PostgresURI), &gorm.Config{})
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", "error", err)
		}
		flights, err = flightRepo.NewGormFlightRepository(gormDB)
		if err != nil {
			log.Fatal("Failed to prepare flights table", "error", err)
		}

	default:
		log.Info("Using in-memory flight store")
		flights = flightRepo.NewMemoryFlightRepository()
	}

	// Seed initial data
	if cfg.SeedCSVPath != "" {
		if _, err := seed.FromCSV(ctx, flights, cfg.SeedCSVPath, log); err != nil {
			log.Fatal("Failed to seed flight data", "path", cfg.SeedCSVPath, "error", err)
		}
	}

	// Wire the service
	validate := usecase.NewPlaygroundValidator()
	m := metrics.NewMetrics("flightinfo")
	svc := usecase.NewFlightService(flights, validate, log)
	handlers := api.NewHandlers(svc, log, m)

	// Set up HTTP routes
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handlers.RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "Healthy")
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port, "backend", cfg.StoreBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("Received signal", "signal", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	cancel()

	if mongoClient != nil {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error("MongoDB disconnect error", "error", err)
		}
	}

	log.Info("Flight Information Service stopped")
}
