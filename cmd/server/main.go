package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/swapify/swapify-backend/internal/config"
	"github.com/swapify/swapify-backend/internal/database"
	"github.com/swapify/swapify-backend/internal/handlers"
	"github.com/swapify/swapify-backend/internal/identity"
	"github.com/swapify/swapify-backend/internal/logging"
	"github.com/swapify/swapify-backend/internal/middleware"
	"github.com/swapify/swapify-backend/internal/repository"
	"github.com/swapify/swapify-backend/internal/routes"
	"github.com/swapify/swapify-backend/internal/services"
	"github.com/swapify/swapify-backend/internal/session"
)

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.IsDevelopment())

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	ctx := context.Background()

	// Document store
	store, mongoClient, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("database connection failed", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}

	// Sessions
	sessions, rdb, err := openSessions(ctx, cfg, store)
	if err != nil {
		slog.Error("session store unavailable", "driver", cfg.SessionDriver, "error", err)
		os.Exit(1)
	}

	// PostgreSQL log sink (ERROR+ async batch), optional
	var (
		logDB        *gorm.DB
		pgLogHandler *logging.PGHandler
		cleanupDone  = make(chan struct{})
	)
	if cfg.LogDBDSN != "" {
		logDB, err = database.ConnectLogDB(cfg.LogDBDSN)
		if err != nil {
			slog.Warn("log database unavailable, logging to stdout only", "error", err)
		} else {
			pgLogHandler = logging.NewPGHandler(logDB)
			slog.SetDefault(slog.New(logging.NewMultiHandler(
				logging.NewStdoutHandler(cfg.IsDevelopment()),
				pgLogHandler,
			)))
			logging.StartCleanup(logDB, cleanupDone)
		}
	}

	// Media
	uploader, err := services.NewMediaUploader(cfg)
	if err != nil {
		slog.Error("media driver misconfigured", "driver", cfg.MediaDriver, "error", err)
		os.Exit(1)
	}

	// Google sign-in stays disabled without client credentials
	var google services.GoogleProvider
	if g := services.NewGoogleOAuth(cfg); g != nil {
		google = g
	} else {
		slog.Info("google sign-in disabled")
	}

	// Services
	authService := services.NewAuthService(cfg, store.Users, sessions, services.NewSMTPMailer(cfg), google)
	listingService := services.NewListingService(store.Listings, store.Users, cfg.SearchMode)
	chatService := services.NewChatService(store.Chats, store.Listings, store.Users)
	reportService := services.NewReportService(store.Reports, store.Listings)

	// Handlers
	dev := cfg.IsDevelopment()
	authHandler := handlers.NewAuthHandler(authService, dev)
	listingHandler := handlers.NewListingHandler(listingService, dev)
	chatHandler := handlers.NewChatHandler(chatService, dev)
	uploadHandler := handlers.NewUploadHandler(uploader)
	reportHandler := handlers.NewReportHandler(reportService, dev)
	healthHandler := handlers.NewHealthHandler(store, cfg.SessionDriver)
	legalHandler := handlers.NewLegalHandler(cfg.MailFrom)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    services.MaxUploadFiles*services.MaxUploadSize + 1024*1024,
		ErrorHandler: errorHandler(dev),
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, authService, authHandler, listingHandler, chatHandler, uploadHandler, reportHandler, healthHandler, legalHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StoreDriver, "sessions", cfg.SessionDriver)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			slog.Error("mongo disconnect error", "error", err)
		}
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if logDB != nil {
		if err := database.CloseLogDB(logDB); err != nil {
			slog.Error("log database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

// openStore connects the document store named by STORE_DRIVER. The client
// is nil for the in-memory driver.
func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, *mongo.Client, error) {
	if cfg.StoreDriver == "memory" {
		slog.Warn("using in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), nil, nil
	}

	client, err := database.ConnectMongo(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	db := client.Database(cfg.MongoDB)

	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := database.EnsureIndexes(indexCtx, db); err != nil {
		return nil, nil, err
	}
	return repository.NewMongoStore(db, cfg.DBTimeout), client, nil
}

// openSessions returns the session pointer store. The redis client is nil
// unless SESSION_DRIVER=redis.
func openSessions(ctx context.Context, cfg *config.Config, store *repository.Store) (session.Store, *redis.Client, error) {
	if cfg.SessionDriver != "redis" {
		return session.NewUserStore(store.Users), nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, nil, err
	}
	slog.Info("redis session store connected", "addr", cfg.RedisAddr)
	return session.NewRedisStore(rdb, cfg.JWTExpiry), rdb, nil
}

func errorHandler(dev bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		// Only expose error details for client errors (4xx), not server errors (5xx)
		resp := fiber.Map{"error": true, "message": message}
		if code >= 500 {
			slog.Error("unhandled server error",
				"request_id", identity.RequestID(c),
				"method", utils.CopyString(c.Method()),
				"path", utils.CopyString(c.Path()),
				"error", err.Error(),
			)
			resp["message"] = "Internal server error"
			if dev {
				resp["detail"] = err.Error()
			}
		}

		return c.Status(code).JSON(resp)
	}
}
