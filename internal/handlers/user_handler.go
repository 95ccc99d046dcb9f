package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doctors-portal/server/internal/middleware"
	"github.com/doctors-portal/server/internal/models"
	"github.com/doctors-portal/server/internal/token"
)

// UpsertUser is the sign-in/sign-up endpoint: it merges the posted profile
// fields into the user record keyed by the email path parameter and answers
// with a fresh session token. Merge semantics: fields absent from the body
// survive on an existing record.
func (h *Handler) UpsertUser(c *gin.Context) {
	email := c.Param("email")

	var profile bson.M
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	delete(profile, "_id")

	ctx := c.Request.Context()
	result, err := h.DB.Collection("users").UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": profile},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to upsert user"})
		return
	}

	signed, err := token.Issue(h.TokenSecret, email)
	if err != nil {
		h.Log.Error().Err(err).Str("email", email).Msg("token signing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": gin.H{
			"matchedCount":  result.MatchedCount,
			"modifiedCount": result.ModifiedCount,
			"upsertedId":    result.UpsertedID,
		},
		"token": signed,
	})
}

// GetUsers lists every user record.
func (h *Handler) GetUsers(c *gin.Context) {
	ctx := c.Request.Context()

	cursor, err := h.DB.Collection("users").Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve users"})
		return
	}
	defer cursor.Close(ctx)

	users := make([]models.User, 0)
	if err = cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to decode users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetAdminStatus reports whether the email carries the admin role. Callers
// may only ask about themselves; a missing user record is simply not admin.
func (h *Handler) GetAdminStatus(c *gin.Context) {
	email := c.Param("email")
	if email != c.GetString(middleware.EmailKey) {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
		return
	}

	ctx := c.Request.Context()
	var user models.User
	err := h.DB.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil && err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"admin": user.IsAdmin()})
}

// PromoteUser grants the admin role to the target email. Admin-gated by
// middleware; there is no demotion counterpart.
func (h *Handler) PromoteUser(c *gin.Context) {
	email := c.Param("email")

	ctx := c.Request.Context()
	result, err := h.DB.Collection("users").UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": models.RoleAdmin}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to promote user"})
		return
	}

	h.Log.Info().Str("email", email).Msg("user promoted to admin")

	c.JSON(http.StatusOK, gin.H{
		"matchedCount":  result.MatchedCount,
		"modifiedCount": result.ModifiedCount,
	})
}
