package users

import (
	"github.com/blooner/bloodlink/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the user directory routes
func RegisterRoutes(router gin.IRouter, h *Handler, guards middleware.Guards) {
	router.POST("/users", h.CreateUser)
	router.GET("/users/:email", h.GetUserByEmail)
	router.GET("/users", middleware.With(guards.Admin, h.ListUsers)...)
	router.PUT("/users", guards.Session, h.UpdateProfile)
	router.PUT("/users/:id/toggle-status", middleware.With(guards.Admin, h.ToggleStatus)...)
	router.PUT("/users/:id/toggle-role", middleware.With(guards.Admin, h.ToggleRole)...)

	router.GET("/donors", h.ListDonors)
	router.POST("/find-donors", h.FindDonors)
}
