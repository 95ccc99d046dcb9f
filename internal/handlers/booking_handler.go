package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/doctors-portal/server/internal/middleware"
	"github.com/doctors-portal/server/internal/models"
)

// CreateBooking records a booking unless one already exists for the same
// (treatment, date, patient). The slot is not part of the conflict key: a
// patient cannot hold two slots of the same treatment on the same date.
func (h *Handler) CreateBooking(c *gin.Context) {
	var booking models.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	collection := h.DB.Collection("booking")
	key := bson.M{
		"treatment": booking.Treatment,
		"date":      booking.Date,
		"patient":   booking.Patient,
	}

	var existing models.Booking
	err := collection.FindOne(ctx, key).Decode(&existing)
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "booking": existing})
		return
	}
	if err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to check existing booking"})
		return
	}

	result, err := collection.InsertOne(ctx, booking)
	if err != nil {
		// A concurrent create for the same key won the race; the unique
		// index rejected ours. Answer exactly like the pre-check hit.
		if mongo.IsDuplicateKeyError(err) {
			if lookupErr := collection.FindOne(ctx, key).Decode(&existing); lookupErr == nil {
				c.JSON(http.StatusOK, gin.H{"success": false, "booking": existing})
				return
			}
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create booking"})
		return
	}

	h.Log.Info().
		Str("treatment", booking.Treatment).
		Str("date", booking.Date).
		Str("patient", booking.Patient).
		Str("slot", booking.Slot).
		Msg("booking created")

	h.Notifier.SendBookingConfirmationSMS(&booking)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  gin.H{"insertedId": result.InsertedID},
	})
}

// GetMyBookings lists the caller's own bookings. The patient query parameter
// must match the authenticated email exactly; there is no admin override.
func (h *Handler) GetMyBookings(c *gin.Context) {
	patient := c.Query("patient")
	email := c.GetString(middleware.EmailKey)
	if patient != email {
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden access"})
		return
	}

	ctx := c.Request.Context()
	cursor, err := h.DB.Collection("booking").Find(ctx, bson.M{"patient": patient})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve bookings"})
		return
	}
	defer cursor.Close(ctx)

	bookings := make([]models.Booking, 0)
	if err = cursor.All(ctx, &bookings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to decode bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}
