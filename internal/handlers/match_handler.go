package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Bipinmahat1/NepaliLove/internal/models"
	"github.com/Bipinmahat1/NepaliLove/internal/services"
)

type matchApplicationService interface {
	Swipe(ctx context.Context, swiperID string, swipedID string, action string) (*models.SwipeResult, error)
	ListMatches(ctx context.Context, userID string) ([]models.MatchWithProfile, error)
}

type discoveryService interface {
	Discover(ctx context.Context, userID string, limit int) ([]models.DiscoveryCandidate, error)
}

const maxDiscoverLimit = 50

type MatchHandler struct {
	service   matchApplicationService
	discovery discoveryService
	log       zerolog.Logger
}

type swipeRequest struct {
	SwipedID string `json:"swipedId"`
	Action   string `json:"action"`
}

func NewMatchHandler(service matchApplicationService, discovery discoveryService, log zerolog.Logger) *MatchHandler {
	return &MatchHandler{
		service:   service,
		discovery: discovery,
		log:       log,
	}
}

func (h *MatchHandler) Discover(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	limit := parsePositiveInt(c.Query("limit"), services.DefaultDiscoveryLimit)
	if limit > maxDiscoverLimit {
		limit = maxDiscoverLimit
	}

	profiles, err := h.discovery.Discover(c.UserContext(), userID, limit)
	if err != nil {
		return h.mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{"profiles": profiles})
}

func (h *MatchHandler) Swipe(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req swipeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.Swipe(c.UserContext(), userID, req.SwipedID, req.Action)
	if err != nil {
		return h.mapMatchError(c, err)
	}

	response := fiber.Map{
		"success": true,
		"isMatch": result.IsMatch,
	}
	if result.Match != nil {
		response["match"] = result.Match
	}
	return c.JSON(response)
}

func (h *MatchHandler) ListMatches(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	matches, err := h.service.ListMatches(c.UserContext(), userID)
	if err != nil {
		return h.mapMatchError(c, err)
	}

	return c.JSON(fiber.Map{"matches": matches})
}

func (h *MatchHandler) mapMatchError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	default:
		return internalError(c, h.log, err, "Failed to process match request")
	}
}
