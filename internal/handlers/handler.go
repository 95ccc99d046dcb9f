package handlers

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/doctors-portal/server/internal/models"
	"github.com/doctors-portal/server/internal/services"
)

// Handler carries the shared dependencies of every route: the process-wide
// database handle, the logger, the token-signing secret and the notifier.
type Handler struct {
	DB          *mongo.Database
	Log         zerolog.Logger
	TokenSecret []byte
	Notifier    *services.NotificationService
}

func NewHandler(db *mongo.Database, log zerolog.Logger, tokenSecret []byte, notifier *services.NotificationService) *Handler {
	return &Handler{
		DB:          db,
		Log:         log,
		TokenSecret: tokenSecret,
		Notifier:    notifier,
	}
}

// UserRole looks up the stored role for an email. A missing user record is
// ("", nil): unknown callers are simply not admins.
func (h *Handler) UserRole(ctx context.Context, email string) (string, error) {
	var user models.User
	err := h.DB.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
