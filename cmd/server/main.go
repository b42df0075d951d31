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

	"smartsalle/gym-app/internal/api"
	"smartsalle/gym-app/internal/config"
	mongorepo "smartsalle/gym-app/internal/repository/mongo"
	"smartsalle/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Gym App Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Fatal("FATAL: jwt.secret is not configured")
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongorepo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	// The partial unique index on open attendance records and the compound
	// unique index on registrations back the core invariants; fail hard if
	// they cannot be created.
	log.Println("Ensuring database indexes...")
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 1*time.Minute)
	defer indexCancel()
	if err := mongorepo.EnsureUserIndexes(indexCtx, appDB.Collection("users")); err != nil {
		log.Fatalf("FATAL: Failed to create user indexes: %v", err)
	}
	if err := mongorepo.EnsureMembershipIndexes(indexCtx, appDB.Collection("memberships")); err != nil {
		log.Fatalf("FATAL: Failed to create membership indexes: %v", err)
	}
	if err := mongorepo.EnsurePaymentIndexes(indexCtx, appDB.Collection("payments")); err != nil {
		log.Fatalf("FATAL: Failed to create payment indexes: %v", err)
	}
	if err := mongorepo.EnsureEventIndexes(indexCtx, appDB.Collection("events")); err != nil {
		log.Fatalf("FATAL: Failed to create event indexes: %v", err)
	}
	if err := mongorepo.EnsureRegistrationIndexes(indexCtx, appDB.Collection("event_registrations")); err != nil {
		log.Fatalf("FATAL: Failed to create registration indexes: %v", err)
	}
	if err := mongorepo.EnsureAttendanceIndexes(indexCtx, appDB.Collection("attendance_records")); err != nil {
		log.Fatalf("FATAL: Failed to create attendance indexes: %v", err)
	}
	log.Println("Indexes ready.")

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongorepo.NewMongoUserRepository(appDB)
	gymRepo := mongorepo.NewMongoGymRepository(appDB)
	membershipRepo := mongorepo.NewMongoMembershipRepository(appDB)
	paymentRepo := mongorepo.NewMongoPaymentRepository(appDB)
	eventRepo := mongorepo.NewMongoEventRepository(appDB)
	registrationRepo := mongorepo.NewMongoRegistrationRepository(appDB)
	attendanceRepo := mongorepo.NewMongoAttendanceRepository(appDB)
	transactor := mongorepo.NewMongoTransactor(dbClient)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	attendanceService := service.NewAttendanceService(attendanceRepo, userRepo)
	eventService := service.NewEventService(eventRepo, registrationRepo, userRepo, transactor)
	membershipService := service.NewMembershipService(membershipRepo, paymentRepo, userRepo, gymRepo, transactor)
	paymentService := service.NewPaymentService(paymentRepo, userRepo, membershipRepo)
	gymService := service.NewGymService(gymRepo)
	memberService := service.NewMemberService(userRepo)
	coachService := service.NewCoachService(userRepo)

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret,
		attendanceService, eventService, membershipService,
		paymentService, gymService, memberService, coachService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

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

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
