package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doctors-portal/server/internal/config"
	"github.com/doctors-portal/server/internal/handlers"
	"github.com/doctors-portal/server/internal/middleware"
	"github.com/doctors-portal/server/internal/services"
	"github.com/doctors-portal/server/internal/store"
)

func main() {
	// No .env file is fine outside development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	logger := newLogger(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// --- Database connection ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDatabase)
	logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to MongoDB")

	if err := store.EnsureBookingIndexes(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure booking indexes")
	}

	// --- Services and handlers ---
	notifier := services.NewNotificationService(cfg.TextbeltKey, logger)
	h := handlers.NewHandler(db, logger, []byte(cfg.JWTSecret), notifier)

	// --- Router ---
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	h.Register(r)

	logger.Info().Str("port", cfg.Port).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg != nil && cfg.IsDev() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	return logger
}
