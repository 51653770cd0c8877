package blogs

import (
	"github.com/blooner/bloodlink/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the content store routes. DELETE stays public
// for existing clients.
func RegisterRoutes(router gin.IRouter, h *Handler, guards middleware.Guards) {
	blogs := router.Group("/blogs")
	{
		blogs.GET("/all", h.ListAllBlogs)
		blogs.GET("/:id", h.GetBlog)
		blogs.DELETE("/:blogId", h.DeleteBlog)

		blogs.GET("", middleware.With(guards.AdminOrVolunteer, h.ListBlogs)...)
		blogs.POST("", middleware.With(guards.AdminOrVolunteer, h.CreateBlog)...)
		blogs.POST("/images", middleware.With(guards.AdminOrVolunteer, h.UploadImage)...)
		blogs.PUT("/:blogId", middleware.With(guards.Admin, h.SetPublishState)...)
	}
}
