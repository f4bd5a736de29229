package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/config"
	"github.com/iliyamo/venue-booking/internal/database"
	"github.com/iliyamo/venue-booking/internal/handler"
	"github.com/iliyamo/venue-booking/internal/job"
	"github.com/iliyamo/venue-booking/internal/queue"
	"github.com/iliyamo/venue-booking/internal/repository"
	"github.com/iliyamo/venue-booking/internal/router"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Repositories
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	branchRepo := repository.NewBranchRepo(db)
	hallRepo := repository.NewHallRepo(db)
	templateRepo := repository.NewTemplateRepo(db)
	sessionRepo := repository.NewSessionRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	// Batch jobs and their scheduler
	materializer := job.NewMaterializer(templateRepo, sessionRepo)
	reconciler := job.NewReconciler(sessionRepo, reservationRepo)
	sched := &job.Scheduler{
		Materializer:     materializer,
		Reconciler:       reconciler,
		WindowDays:       cfg.MaterializeWindowDays,
		MaterializeEvery: time.Duration(cfg.MaterializeEveryMin) * time.Minute,
		ReconcileEvery:   time.Duration(cfg.ReconcileEveryMin) * time.Minute,
	}
	go sched.Run(context.Background())

	// The reservation event consumer reconnects on its own; run it for the
	// lifetime of the process.
	go queue.StartReservationConsumer()

	// Redis is optional: nil disables rate limiting and response caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(userRepo, tokenRepo, cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays, cfg.BcryptCost), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(branchRepo, hallRepo, sessionRepo), rdb)
	router.RegisterOwner(e, handler.NewOwnerHandler(branchRepo, hallRepo, templateRepo, sessionRepo), handler.NewJobHandler(materializer, reconciler), cfg.JWTSecret)
	router.RegisterCustomer(e, handler.NewCustomerHandler(sessionRepo, reservationRepo), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
