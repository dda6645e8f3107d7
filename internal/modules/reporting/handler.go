package reporting

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"txunajob/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes expects the admin-only group.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	reports := admin.Group("/reports")
	{
		reports.GET("/users-growth", h.UsersGrowth)
		reports.GET("/services-analytics", h.ServicesAnalytics)
		reports.GET("/financial", h.Financial)
	}
}

func (h *Handler) UsersGrowth(c *gin.Context) {
	growth, ok := h.service.UsersGrowth(c.Request.Context())
	respond(c, gin.H{"growth": growth}, ok)
}

func (h *Handler) ServicesAnalytics(c *gin.Context) {
	analytics, ok := h.service.ServicesAnalytics(c.Request.Context())
	respond(c, gin.H{"analytics": analytics}, ok)
}

func (h *Handler) Financial(c *gin.Context) {
	financial, ok := h.service.Financial(c.Request.Context())
	respond(c, gin.H{"financial": financial}, ok)
}

func respond(c *gin.Context, data gin.H, ok bool) {
	if !ok {
		response.SuccessWithMeta(c, http.StatusOK, data, gin.H{"degraded": true})
		return
	}
	response.Success(c, http.StatusOK, data)
}
