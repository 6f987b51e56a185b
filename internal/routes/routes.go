package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swapify/swapify-backend/internal/config"
	"github.com/swapify/swapify-backend/internal/handlers"
	"github.com/swapify/swapify-backend/internal/middleware"
	"github.com/swapify/swapify-backend/internal/services"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authService *services.AuthService,
	authHandler *handlers.AuthHandler,
	listingHandler *handlers.ListingHandler,
	chatHandler *handlers.ChatHandler,
	uploadHandler *handlers.UploadHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	legalHandler *handlers.LegalHandler,
) {
	app.Use(middleware.Metrics())

	// Probes are registered ahead of the limiter
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(rateLimit(cfg.RateLimit))

	app.Get("/legal/privacy", legalHandler.PrivacyPolicy)
	app.Get("/legal/terms", legalHandler.TermsOfService)

	jwt := middleware.JWTProtected(cfg)
	live := middleware.SessionRequired(authService)
	authLimit := rateLimit(cfg.AuthRateLimit)

	// Auth
	app.Post("/register", authLimit, authHandler.Register)
	app.Post("/login", authLimit, authHandler.Login)
	app.Post("/forgot-password", authLimit, authHandler.ForgotPassword)
	app.Post("/reset-password", authLimit, authHandler.ResetPassword)
	app.Post("/verify-reset-token", authLimit, authHandler.VerifyResetToken)
	app.Get("/auth/google", authLimit, authHandler.GoogleLogin)
	app.Get("/auth/google/callback", authLimit, authHandler.GoogleCallback)

	// verify-token and logout check the signature only; verify-token reports
	// a superseded session itself.
	app.Post("/verify-token", jwt, authHandler.VerifyToken)
	app.Post("/logout", jwt, authHandler.Logout)
	app.Put("/profile-setup", jwt, live, authHandler.ProfileSetup)

	app.Get("/user/:id", authHandler.GetUser)
	app.Get("/users", jwt, live, middleware.AdminRequired(authService), authHandler.ListUsers)

	// Listings
	app.Get("/listings", listingHandler.List)
	app.Get("/listings/:id", listingHandler.Get)
	app.Get("/search-listings", listingHandler.Search)
	app.Get("/nearby-listings", listingHandler.Nearby)

	app.Post("/create-listing", jwt, live, listingHandler.Create)
	app.Get("/my-listings", jwt, live, listingHandler.MyListings)
	app.Put("/listings/:id", jwt, live, listingHandler.Update)
	app.Delete("/listings/:id", jwt, live, listingHandler.Delete)
	app.Post("/listings/:id/report", jwt, live, reportHandler.Create)

	app.Post("/upload", jwt, live, uploadHandler.Upload)

	// Chat
	api := app.Group("/api", jwt, live)
	api.Post("/chats", chatHandler.Open)
	api.Get("/chats", chatHandler.List)
	api.Get("/chats/:chatId", chatHandler.Get)
	api.Post("/chats/:chatId/messages", chatHandler.Send)

	// Admin moderation
	admin := app.Group("/admin", jwt, live, middleware.AdminRequired(authService))
	admin.Get("/reports", reportHandler.List)
	admin.Put("/reports/:id", reportHandler.Action)
}

// rateLimit allows max requests per minute per IP. Zero disables it.
func rateLimit(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
}
