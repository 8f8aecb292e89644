package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/Bipinmahat1/NepaliLove/pkg/utils"
)

func newAuthTestApp(secret string) *fiber.App {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/me", AuthRequired(secret), func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		return c.SendString(userID)
	})
	return app
}

func TestAuthRequiredStoresUserID(t *testing.T) {
	app := newAuthTestApp("secret")
	token, err := utils.GenerateToken("user-42", "secret")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "user-42" {
		t.Fatalf("expected user-42, got %q", body)
	}
}

func TestAuthRequiredRejectsBadHeaders(t *testing.T) {
	app := newAuthTestApp("secret")
	foreign, _ := utils.GenerateToken("user-42", "other-secret")

	for _, header := range []string{"", "Token abc", "Bearer " + foreign} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, resp.StatusCode)
		}
	}
}
