package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Bipinmahat1/NepaliLove/internal/models"
)

type userReader interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type profileReader interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
}

type UserHandler struct {
	users    userReader
	profiles profileReader
	log      zerolog.Logger
}

func NewUserHandler(users userReader, profiles profileReader, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, profiles: profiles, log: log}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	user, err := h.users.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return internalError(c, h.log, err, "Failed to fetch user")
	}

	profile, err := h.profiles.Get(c.UserContext(), userID)
	if err != nil {
		return internalError(c, h.log, err, "Failed to fetch profile")
	}

	return c.JSON(fiber.Map{
		"user":       user,
		"profile":    profile,
		"hasProfile": profile != nil,
	})
}
