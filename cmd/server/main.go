package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"runtracker/internal/api"
	"runtracker/internal/calendar"
	"runtracker/internal/config"
	"runtracker/internal/repository"
	"runtracker/internal/repository/gormstore"
	"runtracker/internal/repository/mongo"
	"runtracker/internal/service"
	"runtracker/internal/storage"
)

// @title Running Training Tracker API
// @version 1.0
// @description Training plans, a calendar of scheduled trainings and a training diary.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting Running Training Tracker...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("FATAL: JWT_SECRET must be set")
	}
	firstWeekday, _ := cfg.Calendar.Weekday()
	location, _ := cfg.Calendar.Location()
	log.Printf("Configuration loaded (store: %s, first weekday: %s, timezone: %s).", cfg.Database.Driver, firstWeekday, location)

	// --- Store ---
	store, closeStore, err := openStore(cfg.Database)
	if err != nil {
		log.Fatalf("FATAL: Could not open %s store: %v", cfg.Database.Driver, err)
	}
	defer closeStore()

	// --- Initialize Storage ---
	log.Println("Initializing file storage service...")
	fileStorage, err := storage.NewS3Storage(context.Background(), cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Services ---
	log.Println("Initializing services...")
	clock := service.Clock(func() time.Time { return time.Now().In(location) })
	authService := service.NewAuthService(store.Users, cfg.JWT.Secret, cfg.JWT.Expiration)
	planService := service.NewPlanService(store.Plans, store.Trainings)
	trainingService := service.NewTrainingService(planService, store.Trainings)
	diaryService := service.NewDiaryService(store.Diary, trainingService, clock)
	builder := calendar.NewBuilder(trainingService, api.NewRouteLinker(api.BasePath),
		calendar.WithNow(clock),
		calendar.WithFirstWeekday(firstWeekday),
	)
	calendarService := service.NewCalendarService(planService, builder, fileStorage)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		created, err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password)
		cancel()
		switch {
		case err != nil:
			log.Printf("ERROR: Failed to create admin account: %v", err)
		case created:
			log.Printf("INFO: Admin account %s created", cfg.Admin.Email)
		}
	}

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, api.Services{
		Auth:      authService,
		Plans:     planService,
		Trainings: trainingService,
		Diary:     diaryService,
		Calendar:  calendarService,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Printf("ERROR: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

// openStore connects the configured backend and prepares its schema.
// The returned func releases the connection.
func openStore(cfg config.DatabaseConfig) (*repository.Store, func(), error) {
	switch cfg.Driver {
	case "", "mongo":
		client, err := mongo.ConnectDB(cfg.URI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.Name)
		log.Println("Database connection established.")

		log.Println("Ensuring database indexes...")
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		mongo.EnsureIndexes(ctx, db)
		cancel()

		return mongo.NewStore(db), func() {
			log.Println("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(client); err != nil {
				log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
			}
		}, nil

	case gormstore.DriverSQLite, gormstore.DriverPostgres:
		db, err := gormstore.Open(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		log.Println("Running database migrations...")
		if err := gormstore.Migrate(db); err != nil {
			return nil, nil, err
		}
		return gormstore.NewStore(db), func() {
			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Printf("ERROR: Failed to close database: %v", err)
				}
			}
		}, nil

	default:
		return nil, nil, errors.New("unsupported database driver " + cfg.Driver)
	}
}
