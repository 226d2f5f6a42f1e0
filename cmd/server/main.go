package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/aremont/college-appointments/internal/booking"
	"github.com/aremont/college-appointments/internal/config"
	"github.com/aremont/college-appointments/internal/database"
	"github.com/aremont/college-appointments/internal/handler"
	"github.com/aremont/college-appointments/internal/middleware"
	"github.com/aremont/college-appointments/internal/queue"
	"github.com/aremont/college-appointments/internal/repository"
	"github.com/aremont/college-appointments/internal/router"
	queuepub "github.com/aremont/college-appointments/internal/service"
	"github.com/aremont/college-appointments/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := database.Migrate(ctx, db); err != nil {
			cancel()
			log.Fatalf("migrate database: %v", err)
		}
		cancel()
	}

	// The engine is the sole mutator of the slot and appointment
	// ledgers; everything else reaches them through it.
	engine := booking.NewEngine(store.NewMySQLStore(db))

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	availHandler := handler.NewAvailabilityHandler(engine)
	apptHandler := handler.NewAppointmentHandler(engine, queuepub.PublishAppointmentEvent)

	e := echo.New()

	// Redis is optional: without it, caching and rate limiting turn
	// into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.AvailabilityCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterProfessor(e, availHandler, apptHandler, cfg.JWTSecret)
	router.RegisterAvailability(e, availHandler, cfg.JWTSecret, cacheMW)
	router.RegisterStudent(e, apptHandler, cfg.JWTSecret)

	// Background consumer keeps its own reconnect loop for the life of
	// the process.
	go func() {
		if err := queue.StartAppointmentConsumer(); err != nil {
			log.Printf("appointment consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
