package professional

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"txunajob/internal/database"
	"txunajob/internal/middleware"
	"txunajob/internal/pkg/access"
	"txunajob/internal/pkg/demo"
	"txunajob/internal/pkg/response"
)

type Handler struct {
	service *Service
	gate    demo.Gate
	log     *logrus.Logger
}

func NewHandler(service *Service, gate demo.Gate, log *logrus.Logger) *Handler {
	return &Handler{service: service, gate: gate, log: log}
}

// RegisterRoutes expects a group already restricted to professionals.
func (h *Handler) RegisterRoutes(professional *gin.RouterGroup) {
	professional.GET("/current", h.GetCurrent)
	professional.GET("/stats", h.GetStats)
	professional.GET("/services", h.GetServices)
	professional.GET("/schedule", h.GetSchedule)
	professional.GET("/reviews", h.GetReviews)
}

// GetCurrent returns the caller's account and professional profile.
// @Summary		Current professional
// @Tags		Professional
// @Security	BearerAuth
// @Success		200	{object}	CurrentProfessional
// @Failure		403	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{} "profile missing"
// @Router		/professional/current [GET]
func (h *Handler) GetCurrent(c *gin.Context) {
	current, err := h.service.Current(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, current)
}

// GetStats returns the dashboard counters.
// @Summary		Professional stats
// @Tags		Professional
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{} "stats"
// @Router		/professional/stats [GET]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		if h.gate.Serve(err) {
			response.SuccessWithMeta(c, http.StatusOK, gin.H{"stats": DemoStats()}, demo.Meta())
			return
		}
		h.degradedRead(c, err, gin.H{"stats": Stats{}})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

// @Summary		Recent services
// @Tags		Professional
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{} "services"
// @Router		/professional/services [GET]
func (h *Handler) GetServices(c *gin.Context) {
	items, err := h.service.Services(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		if h.gate.Serve(err) {
			response.SuccessWithMeta(c, http.StatusOK, gin.H{"services": DemoServices(time.Now().UTC())}, demo.Meta())
			return
		}
		h.degradedRead(c, err, gin.H{"services": []ServiceItem{}})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": items})
}

// @Summary		Upcoming schedule
// @Tags		Professional
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{} "schedule"
// @Router		/professional/schedule [GET]
func (h *Handler) GetSchedule(c *gin.Context) {
	items, err := h.service.Schedule(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		if h.gate.Serve(err) {
			response.SuccessWithMeta(c, http.StatusOK, gin.H{"schedule": DemoSchedule(time.Now().UTC())}, demo.Meta())
			return
		}
		h.degradedRead(c, err, gin.H{"schedule": []ScheduleItem{}})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"schedule": items})
}

// @Summary		Latest reviews
// @Tags		Professional
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{} "reviews"
// @Router		/professional/reviews [GET]
func (h *Handler) GetReviews(c *gin.Context) {
	items, err := h.service.Reviews(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		if h.gate.Serve(err) {
			response.SuccessWithMeta(c, http.StatusOK, gin.H{"reviews": DemoReviews(time.Now().UTC())}, demo.Meta())
			return
		}
		h.degradedRead(c, err, gin.H{"reviews": []ReviewItem{}})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reviews": items})
}

func (h *Handler) degradedRead(c *gin.Context, err error, empty gin.H) {
	if database.IsUnavailable(err) {
		h.log.WithError(err).WithField("path", c.FullPath()).Warn("store unavailable, serving empty payload")
		response.SuccessWithMeta(c, http.StatusOK, empty, gin.H{"degraded": true})
		return
	}
	h.writeError(c, err)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		response.Error(c, http.StatusNotFound, "PROFILE_NOT_FOUND", "Professional profile not found")
	case errors.Is(err, access.ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
	case errors.Is(err, access.ErrRoleMismatch):
		response.Error(c, http.StatusForbidden, "ROLE_MISMATCH", "Access denied: insufficient permissions")
	case database.IsUnavailable(err):
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Service temporarily unavailable, try again later")
	default:
		h.log.WithError(err).Error("professional dashboard read failed")
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
