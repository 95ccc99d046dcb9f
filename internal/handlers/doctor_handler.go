package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/doctors-portal/server/internal/models"
)

// GetDoctors lists every doctor record.
func (h *Handler) GetDoctors(c *gin.Context) {
	ctx := c.Request.Context()

	cursor, err := h.DB.Collection("doctors").Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve doctors"})
		return
	}
	defer cursor.Close(ctx)

	doctors := make([]models.Doctor, 0)
	if err = cursor.All(ctx, &doctors); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to decode doctors"})
		return
	}

	c.JSON(http.StatusOK, doctors)
}

// AddDoctor inserts the posted doctor verbatim. No duplicate check.
func (h *Handler) AddDoctor(c *gin.Context) {
	var doctor models.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	result, err := h.DB.Collection("doctors").InsertOne(ctx, doctor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to add doctor"})
		return
	}

	h.Log.Info().Str("email", doctor.Email).Msg("doctor added")

	c.JSON(http.StatusOK, gin.H{"insertedId": result.InsertedID})
}

// RemoveDoctor deletes the doctor matching the email path parameter.
// Deleting a doctor that does not exist is a zero-effect success.
func (h *Handler) RemoveDoctor(c *gin.Context) {
	email := c.Param("email")

	ctx := c.Request.Context()
	result, err := h.DB.Collection("doctors").DeleteOne(ctx, bson.M{"email": email})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to remove doctor"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deletedCount": result.DeletedCount})
}
