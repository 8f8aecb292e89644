package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Bipinmahat1/NepaliLove/internal/models"
)

type preferencesStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Preferences, error)
	Upsert(ctx context.Context, prefs *models.Preferences) error
}

// PreferencesHandler stores the filters the discovery feed scores against.
type PreferencesHandler struct {
	store preferencesStore
	log   zerolog.Logger
}

type updatePreferencesRequest struct {
	MinAge            int     `json:"minAge"`
	MaxAge            int     `json:"maxAge"`
	PreferredGender   *string `json:"preferredGender"`
	PreferredReligion *string `json:"preferredReligion"`
	MaxDistance       int     `json:"maxDistance"`
}

func NewPreferencesHandler(store preferencesStore, log zerolog.Logger) *PreferencesHandler {
	return &PreferencesHandler{store: store, log: log}
}

func (h *PreferencesHandler) GetPreferences(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	prefs, err := h.store.GetByUserID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(fiber.Map{"preferences": nil})
		}
		return internalError(c, h.log, err, "Failed to fetch preferences")
	}

	return c.JSON(fiber.Map{"preferences": prefs})
}

func (h *PreferencesHandler) UpdatePreferences(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	req := updatePreferencesRequest{
		MinAge:      defaultMinAge,
		MaxAge:      defaultMaxAge,
		MaxDistance: defaultMaxDistance,
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validatePreferencesRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	prefs := &models.Preferences{
		UserID:            userID,
		MinAge:            req.MinAge,
		MaxAge:            req.MaxAge,
		PreferredGender:   trimmedOrNil(req.PreferredGender),
		PreferredReligion: trimmedOrNil(req.PreferredReligion),
		MaxDistance:       req.MaxDistance,
	}
	if err := h.store.Upsert(c.UserContext(), prefs); err != nil {
		return internalError(c, h.log, err, "Failed to update preferences")
	}

	return c.JSON(fiber.Map{"preferences": prefs})
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
