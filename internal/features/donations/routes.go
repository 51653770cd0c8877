package donations

import (
	"github.com/blooner/bloodlink/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the donation request routes. The camelCase
// paths are kept for existing clients.
func RegisterRoutes(router gin.IRouter, h *Handler, guards middleware.Guards) {
	legacy := router.Group("/donationRequests")
	{
		legacy.GET("", middleware.With(guards.Admin, h.ListAllDonationRequests)...)
		legacy.POST("", guards.Session, h.CreateDonationRequest)
		legacy.GET("/:id", guards.Session, h.GetDonationRequest)
		legacy.PUT("/:id", guards.Session, h.AssignDonor)
	}

	requests := router.Group("/donation-requests", guards.Session)
	{
		requests.GET("", h.ListMyDonationRequests)
		requests.PUT("/:id/update-status", h.UpdateStatus)
		requests.PUT("/:id/update", h.UpdateDonationRequest)
		requests.DELETE("/:id/delete", h.DeleteDonationRequest)
	}

	router.GET("/admin/donation-requests", middleware.With(guards.AdminOrVolunteer, h.ListAdminDonationRequests)...)
	router.GET("/pending-requests", h.ListPendingRequests)
}
