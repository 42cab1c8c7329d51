package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/codeshare/internal/config"     // Internal config loader
	"github.com/iliyamo/codeshare/internal/database"   // MySQL connection setup
	"github.com/iliyamo/codeshare/internal/handler"    // HTTP and websocket handlers
	"github.com/iliyamo/codeshare/internal/hub"        // live connection registry
	"github.com/iliyamo/codeshare/internal/middleware" // rate limiting middleware
	"github.com/iliyamo/codeshare/internal/queue"      // room event broker plumbing
	"github.com/iliyamo/codeshare/internal/repository" // data access layer
	"github.com/iliyamo/codeshare/internal/router"     // route registration
	"github.com/iliyamo/codeshare/internal/service"    // business logic
)

func main() {
	// Load .env if present; in containers configuration arrives through
	// real environment variables and the file is simply absent.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	// Repositories over the shared connection pool.
	users := repository.NewUserRepo(db)
	rooms := repository.NewRoomRepo(db)
	participants := repository.NewParticipantRepo(db)

	// Services: link resolution, room lifecycle, membership, admission.
	links := service.NewLinkResolver(rooms)
	roomSvc := service.NewRoomService(rooms, participants, links, cfg.LinkLength, queue.PublishRoomEvent)
	partSvc := service.NewParticipantService(rooms, participants)
	admission := service.NewAdmissionService(rooms, participants)

	// Background consumer appending room lifecycle events to logs/room.log.
	go func() {
		if err := queue.StartRoomEventConsumer(); err != nil {
			log.Printf("room event consumer stopped: %v", err)
		}
	}()

	// Redis backs the login rate limiter; a nil client degrades the
	// limiter to pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	liveHub := hub.NewHub()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), limiter, cfg.JWTSecret)
	router.RegisterRooms(e, handler.NewRoomHandler(roomSvc, partSvc), cfg.JWTSecret)
	router.RegisterWS(e, handler.NewWSHandler(cfg, admission, liveHub))

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
