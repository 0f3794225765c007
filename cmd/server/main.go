package main

import (
	"alcyxob/workout-roulette/internal/api"
	"alcyxob/workout-roulette/internal/backup"
	"alcyxob/workout-roulette/internal/config"
	"alcyxob/workout-roulette/internal/repository/mongo"
	"alcyxob/workout-roulette/internal/service"
	"alcyxob/workout-roulette/internal/storage"
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Workout Roulette API
// @version 1.0
// @description API for running point-earning sessions and random workout draws.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	log.Println("Starting Workout Roulette Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	// Synchronous on purpose: the single-active-session invariant and the
	// membership uniqueness both live in these indexes, so they must exist
	// before the first request is served.
	log.Println("Ensuring database indexes...")
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer indexCancel()
	if err := mongo.EnsureSessionIndexes(indexCtx, appDB.Collection("sessions")); err != nil {
		log.Fatalf("FATAL: Failed to create session indexes: %v", err)
	}
	if err := mongo.EnsurePoolMembershipIndexes(indexCtx, appDB.Collection("workout_pool_workouts")); err != nil {
		log.Fatalf("FATAL: Failed to create membership indexes: %v", err)
	}
	if err := mongo.EnsureWorkoutIndexes(indexCtx, appDB.Collection("workouts")); err != nil {
		log.Printf("WARN: Failed to create workout indexes: %v", err)
	}
	if err := mongo.EnsureActionCompletionIndexes(indexCtx, appDB.Collection("action_completions")); err != nil {
		log.Printf("WARN: Failed to create completion indexes: %v", err)
	}
	if err := mongo.EnsureWorkoutReceivedIndexes(indexCtx, appDB.Collection("workouts_received")); err != nil {
		log.Printf("WARN: Failed to create receipt indexes: %v", err)
	}
	log.Println("Index creation process completed.")

	// --- Initialize Storage ---
	log.Println("Initializing backup storage service...")
	objectStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	sessionRepo := mongo.NewMongoSessionRepository(appDB)
	actionRepo := mongo.NewMongoActionRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	poolRepo := mongo.NewMongoWorkoutPoolRepository(appDB)
	membershipRepo := mongo.NewMongoPoolMembershipRepository(appDB)
	completionRepo := mongo.NewMongoActionCompletionRepository(appDB)
	receivedRepo := mongo.NewMongoWorkoutReceivedRepository(appDB)
	txManager := mongo.NewMongoTxManager(dbClient)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	selector := service.NewWorkoutSelector(rng)
	calculator := service.NewPointCalculator()
	workoutService := service.NewWorkoutService(workoutRepo, membershipRepo)
	actionService := service.NewActionService(actionRepo)
	poolService := service.NewWorkoutPoolService(poolRepo, workoutRepo, membershipRepo, selector)
	sessionService := service.NewSessionService(sessionRepo, actionRepo, completionRepo, receivedRepo, poolService, calculator, txManager)
	backupService := backup.NewBackupService(sessionRepo, actionRepo, workoutRepo, poolRepo, membershipRepo, completionRepo, receivedRepo, objectStorage)

	// --- Seed Data ---
	if cfg.Seed.PreloadWorkouts {
		seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := workoutService.EnsurePreloadedWorkouts(seedCtx); err != nil {
			log.Printf("WARN: Failed to seed preloaded workouts: %v", err)
		}
		seedCancel()
	}

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, sessionService, poolService, workoutService, actionService, backupService)

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

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the requests it is currently handling
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
