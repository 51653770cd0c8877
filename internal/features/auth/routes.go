package auth

import "github.com/gin-gonic/gin"

func RegisterRoutes(router gin.IRouter, h *Handler) {
	router.POST("/jwt", h.IssueToken)
}
