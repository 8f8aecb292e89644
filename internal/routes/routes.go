package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Bipinmahat1/NepaliLove/internal/cache"
	"github.com/Bipinmahat1/NepaliLove/internal/config"
	"github.com/Bipinmahat1/NepaliLove/internal/handlers"
	"github.com/Bipinmahat1/NepaliLove/internal/middleware"
	"github.com/Bipinmahat1/NepaliLove/internal/repository"
	"github.com/Bipinmahat1/NepaliLove/internal/services"
	chatws "github.com/Bipinmahat1/NepaliLove/internal/websocket"
)

func RegisterRoutes(
	app *fiber.App,
	cfg *config.Config,
	db *pgxpool.Pool,
	hub *chatws.Hub,
	profileCache cache.Cache,
	log zerolog.Logger,
) {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	preferencesRepo := repository.NewPreferencesRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	profileLookup := services.NewProfileLookup(profileRepo, profileCache, cfg.ProfileCacheTTL, log)
	matchService := services.NewMatchService(db, matchRepo, profileLookup, hub, log)
	discoveryService := services.NewDiscoveryService(profileRepo, preferencesRepo, profileLookup)
	chatService := services.NewChatService(db, conversationRepo, messageRepo, userRepo, profileLookup, hub, log)

	userHandler := handlers.NewUserHandler(userRepo, profileLookup, log)
	preferencesHandler := handlers.NewPreferencesHandler(preferencesRepo, log)
	matchHandler := handlers.NewMatchHandler(matchService, discoveryService, log)
	chatHandler := handlers.NewChatHandler(chatService, hub, cfg.JWTSecret, log)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use("/ws", chatHandler.WebSocketAuth)
	app.Get("/ws", websocket.New(chatHandler.HandleWebSocket))

	authProtected := app.Group("/api/v1", middleware.AuthRequired(cfg.JWTSecret))

	authProtected.Get("/me", userHandler.Me)
	authProtected.Get("/preferences", preferencesHandler.GetPreferences)
	authProtected.Put("/preferences", preferencesHandler.UpdatePreferences)
	authProtected.Get("/discover", matchHandler.Discover)
	authProtected.Post("/swipe", matchHandler.Swipe)
	authProtected.Get("/matches", matchHandler.ListMatches)

	conversations := authProtected.Group("/conversations")
	conversations.Get("", chatHandler.ListConversations)
	conversations.Post("", chatHandler.CreateConversation)
	conversations.Get("/:id/messages", chatHandler.GetMessages)
	conversations.Post("/:id/messages", chatHandler.SendMessage)
}
