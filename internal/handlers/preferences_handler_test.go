package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/Bipinmahat1/NepaliLove/internal/models"
)

type stubPreferencesStore struct {
	stored *models.Preferences
}

func (s *stubPreferencesStore) GetByUserID(context.Context, string) (*models.Preferences, error) {
	if s.stored == nil {
		return nil, pgx.ErrNoRows
	}
	return s.stored, nil
}

func (s *stubPreferencesStore) Upsert(_ context.Context, prefs *models.Preferences) error {
	s.stored = prefs
	return nil
}

func newPreferencesTestApp(store *stubPreferencesStore) *fiber.App {
	handler := NewPreferencesHandler(store, zerolog.Nop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "u-1")
		return c.Next()
	})
	app.Get("/api/v1/preferences", handler.GetPreferences)
	app.Put("/api/v1/preferences", handler.UpdatePreferences)
	return app
}

func putPreferences(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/preferences", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp
}

func TestUpdatePreferencesStoresNormalizedValues(t *testing.T) {
	store := &stubPreferencesStore{}
	app := newPreferencesTestApp(store)

	resp := putPreferences(t, app, `{"minAge":24,"maxAge":32,"preferredGender":" female ","preferredReligion":""}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if store.stored == nil || store.stored.UserID != "u-1" {
		t.Fatalf("preferences not stored for caller: %+v", store.stored)
	}
	if store.stored.PreferredGender == nil || *store.stored.PreferredGender != "female" {
		t.Fatalf("expected trimmed gender, got %v", store.stored.PreferredGender)
	}
	if store.stored.PreferredReligion != nil {
		t.Fatalf("blank religion should mean no preference")
	}
	if store.stored.MaxDistance != defaultMaxDistance {
		t.Fatalf("expected default distance, got %d", store.stored.MaxDistance)
	}
}

func TestUpdatePreferencesValidates(t *testing.T) {
	for _, body := range []string{
		`{"minAge":16,"maxAge":30}`,
		`{"minAge":40,"maxAge":30}`,
		`{"minAge":20,"maxAge":130}`,
		`{"minAge":20,"maxAge":30,"maxDistance":-5}`,
		`{"minAge":20,"maxAge":30,"preferredGender":"robot"}`,
	} {
		store := &stubPreferencesStore{}
		resp := putPreferences(t, newPreferencesTestApp(store), body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, resp.StatusCode)
		}
		if store.stored != nil {
			t.Fatalf("%s: invalid preferences must not be stored", body)
		}
	}
}

func TestGetPreferencesWithoutRowReturnsNull(t *testing.T) {
	app := newPreferencesTestApp(&stubPreferencesStore{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/preferences", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if value, ok := body["preferences"]; !ok || value != nil {
		t.Fatalf("expected preferences: null, got %v", body)
	}
}
