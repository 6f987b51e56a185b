package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/swapify/swapify-backend/internal/config"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "middleware-secret"

type fakeSessions struct {
	live string
	err  error
}

func (f fakeSessions) IsLive(_ context.Context, _, token string) (bool, error) {
	return token == f.live, f.err
}

type fakeAdmins map[string]bool

func (f fakeAdmins) IsAdmin(_ context.Context, _ primitive.ObjectID, email string) (bool, error) {
	return f[email], nil
}

func sign(t *testing.T, id primitive.ObjectID, email, secret string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    id.Hex(),
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func request(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode
}

func TestJWTAndSession(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	id := primitive.NewObjectID()
	current := sign(t, id, "a@example.com", testSecret)
	stale := sign(t, id, "b@example.com", testSecret)

	app := fiber.New()
	app.Get("/", JWTProtected(cfg), SessionRequired(fakeSessions{live: current}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"no token", "", fiber.StatusUnauthorized},
		{"wrong signature", sign(t, id, "a@example.com", "other"), fiber.StatusUnauthorized},
		{"superseded token", stale, fiber.StatusUnauthorized},
		{"current token", current, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := request(t, app, tc.token); got != tc.want {
				t.Fatalf("status = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSessionLookupFailure(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	token := sign(t, primitive.NewObjectID(), "a@example.com", testSecret)

	app := fiber.New()
	app.Get("/", JWTProtected(cfg), SessionRequired(fakeSessions{live: token, err: errors.New("down")}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	if got := request(t, app, token); got != fiber.StatusInternalServerError {
		t.Fatalf("status = %d", got)
	}
}

func TestAdminRequired(t *testing.T) {
	cfg := &config.Config{JWTSecret: testSecret}
	app := fiber.New()
	app.Get("/", JWTProtected(cfg), AdminRequired(fakeAdmins{"boss@example.com": true}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	if got := request(t, app, sign(t, primitive.NewObjectID(), "user@example.com", testSecret)); got != fiber.StatusForbidden {
		t.Fatalf("non-admin status = %d", got)
	}
	if got := request(t, app, sign(t, primitive.NewObjectID(), "boss@example.com", testSecret)); got != fiber.StatusOK {
		t.Fatalf("admin status = %d", got)
	}
}

func TestMetricsKeepsStatus(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/listings/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusTeapot)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/listings/abc", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusTeapot {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestMetricsLabelsSurviveBufferReuse(t *testing.T) {
	app := fiber.New()
	app.Use(Metrics())
	app.Get("/buffer-reuse", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Post("/buffer-reuse", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusCreated) })
	app.Delete("/buffer-reuse/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for i := 0; i < 5; i++ {
		for _, r := range []struct{ method, path string }{
			{"POST", "/buffer-reuse"},
			{"GET", "/buffer-reuse"},
			{"DELETE", "/buffer-reuse/42"},
		} {
			if _, err := app.Test(httptest.NewRequest(r.method, r.path, nil)); err != nil {
				t.Fatal(err)
			}
		}
	}

	if _, err := prometheus.DefaultGatherer.Gather(); err != nil {
		t.Fatalf("gather after mixed traffic: %v", err)
	}
}
