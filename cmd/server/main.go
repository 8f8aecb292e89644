package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/Bipinmahat1/NepaliLove/internal/cache"
	"github.com/Bipinmahat1/NepaliLove/internal/config"
	"github.com/Bipinmahat1/NepaliLove/internal/database"
	"github.com/Bipinmahat1/NepaliLove/internal/logger"
	"github.com/Bipinmahat1/NepaliLove/internal/middleware"
	"github.com/Bipinmahat1/NepaliLove/internal/routes"
	chatws "github.com/Bipinmahat1/NepaliLove/internal/websocket"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to Database
	if cfg.DBUrl == "" {
		log.Fatal().Msg("DB_URL is required")
	}
	if err := database.ConnectDB(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.CloseDB()

	// 3. Profile cache
	var profileCache cache.Cache = cache.Noop{}
	if cfg.CacheEnabled() {
		redisCache, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, profile cache disabled")
		} else {
			profileCache = redisCache
		}
	}
	defer profileCache.Close()

	// 4. Realtime hub
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	hub := chatws.NewHub(log)
	go hub.Run(hubCtx)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.TrimSpace(cfg.CORSAllowOrigins),
	}))
	app.Use(fiberlogger.New())
	app.Use(middleware.Metrics())

	routes.RegisterRoutes(app, cfg, database.DB, hub, profileCache, log)

	// 6. Start Server
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		serverErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}
