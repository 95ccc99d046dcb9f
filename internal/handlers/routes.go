package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/doctors-portal/server/internal/middleware"
)

// Register wires every route onto the engine. Guard order matters: bearer
// authentication first, then the admin check for the directory routes.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/", h.Health)
	r.GET("/services", h.GetServices)
	r.GET("/available", h.GetAvailable)
	r.POST("/booking", h.CreateBooking)
	r.PUT("/user/:email", h.UpsertUser)

	authed := r.Group("/", middleware.Authenticate(h.TokenSecret))
	{
		authed.GET("/users", h.GetUsers)
		authed.GET("/admin/:email", h.GetAdminStatus)
		authed.GET("/booking", h.GetMyBookings)
	}

	admin := authed.Group("/", middleware.AdminOnly(h.UserRole))
	{
		admin.PUT("/users/admin/:email", h.PromoteUser)
		admin.GET("/doctor", h.GetDoctors)
		admin.POST("/doctor", h.AddDoctor)
		admin.DELETE("/doctor/:email", h.RemoveDoctor)
	}
}
