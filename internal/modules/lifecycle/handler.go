package lifecycle

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"txunajob/internal/database"
	"txunajob/internal/domain"
	"txunajob/internal/middleware"
	"txunajob/internal/pkg/access"
	"txunajob/internal/pkg/response"
)

type Handler struct {
	service *Service
	log     *logrus.Logger
}

func NewHandler(service *Service, log *logrus.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterPublicRoutes mounts the catalogue of available services.
func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.GET("/services", h.ListAvailable)
}

// RegisterProfessionalRoutes expects a group already restricted to professionals.
func (h *Handler) RegisterProfessionalRoutes(professional *gin.RouterGroup) {
	professional.POST("/services/create", h.Create)
	professional.POST("/services/:id/accept", h.transition(OpAccept, h.service.Accept))
	professional.POST("/services/:id/reject", h.transition(OpReject, h.service.Reject))
	professional.POST("/services/:id/start", h.transition(OpStart, h.service.Start))
	professional.POST("/services/:id/complete", h.transition(OpComplete, h.service.Complete))
}

func (h *Handler) RegisterClientRoutes(client *gin.RouterGroup) {
	client.GET("/services", h.ListMine)
	client.POST("/services/:id/request", h.transition(OpRequest, h.service.Request))
	client.POST("/services/:id/cancel", h.transition(OpCancel, h.service.Cancel))
	client.POST("/services/:id/review", h.Review)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/services/:id/cancel", h.transition(OpCancel, h.service.Cancel))
}

// Create publishes a new available service owned by the caller.
// @Summary		Create service
// @Tags		Services
// @Security	BearerAuth
// @Param		request	body	CreateServiceRequest	true	"title, category, price >= 0, tags as list or comma-separated string"
// @Success		200	{object}	map[string]interface{} "service_id"
// @Failure		400	{object}	map[string]interface{}
// @Router		/professional/services/create [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	svc, err := h.service.Create(c.Request.Context(), middleware.CurrentActor(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service_id": svc.ID, "service": ToView(svc)})
}

type transitionFunc func(ctx context.Context, actor *access.Actor, serviceID int64) (*domain.Service, error)

func (h *Handler) transition(op Op, fn transitionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := serviceID(c)
		if !ok {
			return
		}

		svc, err := fn(c.Request.Context(), middleware.CurrentActor(c), id)
		if err != nil {
			h.writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"op": op, "service": ToView(svc)})
	}
}

// Review rates a completed service.
// @Summary		Review service
// @Tags		Services
// @Security	BearerAuth
// @Param		id		path	int				true	"Service ID"
// @Param		request	body	ReviewRequest	true	"rating 1-5 and optional comment"
// @Success		200	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{} "SERVICE_NOT_FOUND_OR_ALREADY_PROCESSED"
// @Router		/client/services/{id}/review [POST]
func (h *Handler) Review(c *gin.Context) {
	id, ok := serviceID(c)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	svc, err := h.service.Review(c.Request.Context(), middleware.CurrentActor(c), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"service": ToView(svc)})
}

func (h *Handler) ListAvailable(c *gin.Context) {
	var q ListQuery
	_ = c.ShouldBindQuery(&q)

	services, total, err := h.service.ListAvailable(c.Request.Context(), q)
	h.writeList(c, services, total, err)
}

func (h *Handler) ListMine(c *gin.Context) {
	var q ListQuery
	_ = c.ShouldBindQuery(&q)

	services, total, err := h.service.ListForClient(c.Request.Context(), middleware.CurrentActor(c), q)
	h.writeList(c, services, total, err)
}

func (h *Handler) writeList(c *gin.Context, services []domain.Service, total int64, err error) {
	if err != nil {
		if database.IsUnavailable(err) {
			h.log.WithError(err).Warn("store unavailable, serving empty service list")
			response.SuccessWithMeta(c, http.StatusOK, ListResult{Services: []ServiceView{}}, gin.H{"degraded": true})
			return
		}
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResult{Services: ToViews(services), Total: total})
}

func serviceID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid service id")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrServiceNotFoundOrAlreadyProcessed):
		response.Error(c, http.StatusNotFound, "SERVICE_NOT_FOUND_OR_ALREADY_PROCESSED", "Service not found or already processed")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, access.ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
	case errors.Is(err, access.ErrNotOwner):
		response.Error(c, http.StatusForbidden, "NOT_OWNER", "This service belongs to another account")
	case errors.Is(err, access.ErrRoleMismatch):
		response.Error(c, http.StatusForbidden, "ROLE_MISMATCH", "Your role cannot perform this action")
	case database.IsUnavailable(err):
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Service temporarily unavailable, try again later")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
