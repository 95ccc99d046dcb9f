package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/doctors-portal/server/internal/models"
)

// Health is the liveness route.
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "Doctors portal server is running")
}

// GetServices lists every treatment service, projected to its name only.
func (h *Handler) GetServices(c *gin.Context) {
	ctx := c.Request.Context()

	findOptions := options.Find().SetProjection(bson.M{"name": 1})
	cursor, err := h.DB.Collection("services").Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve services"})
		return
	}
	defer cursor.Close(ctx)

	// Projected documents carry only _id and name; decode into a shape that
	// does not emit an empty slots field.
	type serviceName struct {
		ID   primitive.ObjectID `bson:"_id" json:"_id"`
		Name string             `bson:"name" json:"name"`
	}
	services := make([]serviceName, 0)
	if err = cursor.All(ctx, &services); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to decode services"})
		return
	}

	c.JSON(http.StatusOK, services)
}

// GetAvailable lists every service with its slot list reduced to the slots
// still free on the requested date. The date is matched as an exact string
// against the bookings' date field; no parsing or normalization happens.
func (h *Handler) GetAvailable(c *gin.Context) {
	ctx := c.Request.Context()
	date := c.Query("date")

	cursor, err := h.DB.Collection("services").Find(ctx, bson.M{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve services"})
		return
	}
	var services []models.Service
	if err = cursor.All(ctx, &services); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to decode services"})
		return
	}

	bookingCursor, err := h.DB.Collection("booking").Find(ctx, bson.M{"date": date})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to retrieve bookings"})
		return
	}
	var bookings []models.Booking
	if err = bookingCursor.All(ctx, &bookings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to decode bookings"})
		return
	}

	for i := range services {
		services[i].Slots = models.RemainingSlots(services[i], bookings)
	}
	if services == nil {
		services = make([]models.Service, 0)
	}

	c.JSON(http.StatusOK, services)
}
