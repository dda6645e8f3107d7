package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"txunajob/internal/database"
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

// RegisterRoutes expects the admin-only group.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	// statistics
	admin.GET("/stats", h.GetStats)
	admin.GET("/system-status", h.GetSystemStatus)
	admin.GET("/activities", h.GetActivities)

	// users moderation
	admin.GET("/users", h.GetUsers)
	admin.GET("/users/:id", h.GetUserDetails)
	admin.POST("/users/:id/verify", h.VerifyUser)
	admin.POST("/users/:id/reject", h.RejectUser)
	admin.POST("/users/:id/suspend", h.SuspendUser)
	admin.POST("/users/:id/activate", h.ActivateUser)

	admin.GET("/services", h.GetServices)

	// settings
	admin.GET("/settings", h.GetSettings)
	admin.POST("/settings/save", h.SaveSettings)
}

// GetStats returns the platform dashboard snapshot.
// @Summary		Platform statistics
// @Description	Counts of users, services, revenue and pending verifications. When the store is unreachable the snapshot is zero-valued and flagged "degraded".
// @Tags		Admin - Statistics
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Failure		403	{object}	map[string]interface{} "admin role required"
// @Router		/admin/stats [GET]
func (h *Handler) GetStats(c *gin.Context) {
	stats, ok := h.service.Stats(c.Request.Context())
	if !ok {
		response.SuccessWithMeta(c, http.StatusOK, gin.H{"stats": stats}, gin.H{"degraded": true})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}

// GetSystemStatus reports component availability.
// @Summary		System status
// @Tags		Admin - Statistics
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/system-status [GET]
func (h *Handler) GetSystemStatus(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"status": h.service.SystemStatus(c.Request.Context())})
}

// GetActivities lists registrations and completions of the last 24 hours.
// @Summary		Recent activity
// @Tags		Admin - Statistics
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/activities [GET]
func (h *Handler) GetActivities(c *gin.Context) {
	activities, err := h.service.Activities(c.Request.Context())
	if err != nil {
		if h.service.demo.Serve(err) {
			response.SuccessWithMeta(c, http.StatusOK, gin.H{"activities": h.service.DemoActivities()}, gin.H{"demo": true})
			return
		}
		h.degradedRead(c, err, gin.H{"activities": []Activity{}})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"activities": activities})
}

// GetUsers lists the 20 newest accounts.
// @Summary		List users
// @Tags		Admin - Users
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/users [GET]
func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.degradedRead(c, err, gin.H{"users": []UserSummary{}})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"users": users})
}

// GetUserDetails returns an account with its role profile.
// @Summary		User details
// @Tags		Admin - Users
// @Security	BearerAuth
// @Param		id	path	int	true	"Account ID"
// @Success		200	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{}
// @Router		/admin/users/{id} [GET]
func (h *Handler) GetUserDetails(c *gin.Context) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	user, err := h.service.UserDetails(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

// VerifyUser verifies a professional.
// @Summary		Verify professional
// @Tags		Admin - Users
// @Security	BearerAuth
// @Param		id	path	int	true	"Account ID"
// @Success		200	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{} "account is not a professional"
// @Failure		404	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{} "verification already rejected"
// @Router		/admin/users/{id}/verify [POST]
func (h *Handler) VerifyUser(c *gin.Context) {
	h.moderate(c, h.service.VerifyProfessional)
}

// RejectUser rejects a professional's pending verification.
// @Summary		Reject professional
// @Tags		Admin - Users
// @Security	BearerAuth
// @Param		id	path	int	true	"Account ID"
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/users/{id}/reject [POST]
func (h *Handler) RejectUser(c *gin.Context) {
	h.moderate(c, h.service.RejectProfessional)
}

// SuspendUser blocks an account from logging in.
// @Summary		Suspend user
// @Tags		Admin - Users
// @Security	BearerAuth
// @Param		id	path	int	true	"Account ID"
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/users/{id}/suspend [POST]
func (h *Handler) SuspendUser(c *gin.Context) {
	h.moderate(c, h.service.SuspendUser)
}

// ActivateUser lifts a suspension.
// @Summary		Activate user
// @Tags		Admin - Users
// @Security	BearerAuth
// @Param		id	path	int	true	"Account ID"
// @Success		200	{object}	map[string]interface{}
// @Failure		404	{object}	map[string]interface{} "not found or not suspended"
// @Router		/admin/users/{id}/activate [POST]
func (h *Handler) ActivateUser(c *gin.Context) {
	h.moderate(c, h.service.ActivateUser)
}

type moderationFunc func(ctx context.Context, actor *access.Actor, id int64) (*ModerationResult, error)

func (h *Handler) moderate(c *gin.Context, fn moderationFunc) {
	id, ok := accountID(c)
	if !ok {
		return
	}
	result, err := fn(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

// GetServices lists the 15 newest services with participant names.
// @Summary		List services
// @Tags		Admin - Services
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/services [GET]
func (h *Handler) GetServices(c *gin.Context) {
	services, err := h.service.ListServices(c.Request.Context())
	if err != nil {
		h.degradedRead(c, err, gin.H{"services": []ServiceSummary{}})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": services})
}

// GetSettings returns the stored settings merged over the defaults.
// @Summary		Get settings
// @Tags		Admin - Settings
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{}
// @Router		/admin/settings [GET]
func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.service.Settings(c.Request.Context())
	if err != nil {
		h.degradedRead(c, err, gin.H{"settings": DefaultSettings()})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// SaveSettings merges the posted keys into the stored settings.
// @Summary		Save settings
// @Tags		Admin - Settings
// @Security	BearerAuth
// @Param		request	body	map[string]interface{}	true	"settings keys to overwrite"
// @Success		200	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}
// @Router		/admin/settings/save [POST]
func (h *Handler) SaveSettings(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid settings payload")
		return
	}

	settings, err := h.service.SaveSettings(c.Request.Context(), middleware.CurrentActor(c), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"settings": settings, "message": "Settings saved"})
}

func accountID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user id")
		return 0, false
	}
	return id, true
}

// degradedRead answers a failed read with an empty payload when the store
// is unreachable, and a 500 otherwise.
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
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, ErrNotSuspended):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND_OR_NOT_SUSPENDED", "User not found or not suspended")
	case errors.Is(err, ErrNotProfessional):
		response.Error(c, http.StatusBadRequest, "NOT_PROFESSIONAL", "User is not a professional")
	case errors.Is(err, ErrVerificationClosed):
		response.Error(c, http.StatusConflict, "VERIFICATION_CLOSED", "Verification was already decided")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, access.ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
	case errors.Is(err, access.ErrRoleMismatch):
		response.Error(c, http.StatusForbidden, "ROLE_MISMATCH", "Admin access required")
	case database.IsUnavailable(err):
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Service temporarily unavailable, try again later")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
