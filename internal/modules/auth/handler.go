package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"txunajob/internal/database"
	"txunajob/internal/domain"
	"txunajob/internal/middleware"
	"txunajob/internal/pkg/access"
	"txunajob/internal/pkg/response"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
	tokens  TokenIssuer
	log     *logrus.Logger
}

func NewHandler(service *Service, tokens TokenIssuer, log *logrus.Logger) *Handler {
	return &Handler{service: service, tokens: tokens, log: log}
}

// RegisterPublicRoutes mounts registration and login. loginLimiter and
// optionalAuth are supplied by the router so tests can pass no-ops.
// optionalAuth runs before admin registration only, to identify an admin
// caller when one is present.
func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup, loginLimiter gin.HandlerFunc, optionalAuth ...gin.HandlerFunc) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register/client", h.RegisterClient)
		authGroup.POST("/register/professional", h.RegisterProfessional)
		authGroup.POST("/register/admin", append(optionalAuth, h.RegisterAdmin)...)
		authGroup.POST("/login", loginLimiter, h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/auth/me", h.GetMe)
}

// RegisterClient creates a client account and returns a session token.
// @Summary		Register client
// @Tags		Auth
// @Param		request	body	RegisterRequest	true	"username, email, password, optional profile fields"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{} "VALIDATION_ERROR or WEAK_CREDENTIAL"
// @Failure		409	{object}	map[string]interface{} "DUPLICATE_HANDLE or DUPLICATE_EMAIL"
// @Router		/auth/register/client [POST]
func (h *Handler) RegisterClient(c *gin.Context) {
	h.register(c, domain.RoleClient)
}

// RegisterProfessional creates a professional account pending verification.
// @Summary		Register professional
// @Tags		Auth
// @Param		request	body	RegisterRequest	true	"username, email, password, specialty, experience, hourly_rate"
// @Success		201	{object}	map[string]interface{}
// @Failure		400	{object}	map[string]interface{}
// @Failure		409	{object}	map[string]interface{}
// @Router		/auth/register/professional [POST]
func (h *Handler) RegisterProfessional(c *gin.Context) {
	h.register(c, domain.RoleProfessional)
}

func (h *Handler) register(c *gin.Context, role domain.Role) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	account, err := h.service.Register(c.Request.Context(), role, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.respondRegistered(c, account)
}

// RegisterAdmin registers an admin. The first admin needs the bootstrap
// key; after that the caller must be an authenticated admin.
// @Summary		Register admin
// @Tags		Auth
// @Param		X-Admin-Registration-Key	header	string	false	"bootstrap key, only while no admin exists"
// @Success		201	{object}	map[string]interface{}
// @Failure		401	{object}	map[string]interface{}
// @Failure		403	{object}	map[string]interface{}
// @Router		/auth/register/admin [POST]
func (h *Handler) RegisterAdmin(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	key := strings.TrimSpace(c.GetHeader("X-Admin-Registration-Key"))
	if key == "" {
		key = strings.TrimSpace(req.RegistrationKey)
	}

	account, err := h.service.RegisterAdmin(c.Request.Context(), middleware.CurrentActor(c), key, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.respondRegistered(c, account)
}

func (h *Handler) respondRegistered(c *gin.Context, account *domain.Account) {
	token, err := h.tokens.GenerateToken(account.ID, string(account.Role))
	if err != nil {
		h.log.WithError(err).Error("token generation failed after registration")
		token = ""
	}
	response.Success(c, http.StatusCreated, gin.H{
		"account": ToPublic(account),
		"token":   token,
	})
}

// Login authenticates by username or email.
// @Summary		Login
// @Tags		Auth
// @Param		request	body	LoginRequest	true	"login (username or email) and password"
// @Success		200	{object}	map[string]interface{}
// @Failure		401	{object}	map[string]interface{}
// @Failure		403	{object}	map[string]interface{} "account suspended"
// @Failure		429	{object}	map[string]interface{}
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"account": ToPublic(result.Account),
		"token":   result.Token,
		"landing": result.Landing,
	})
}

func (h *Handler) GetMe(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if actor == nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
		return
	}

	me, err := h.service.Me(c.Request.Context(), actor.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, me)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrDuplicateHandle):
		response.Error(c, http.StatusConflict, "DUPLICATE_HANDLE", "This username is already taken")
	case errors.Is(err, ErrDuplicateEmail):
		response.Error(c, http.StatusConflict, "DUPLICATE_EMAIL", "This email is already registered")
	case errors.Is(err, ErrWeakCredential):
		response.Error(c, http.StatusBadRequest, "WEAK_CREDENTIAL", "Password is too short")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Username/email or password is incorrect")
	case errors.Is(err, ErrAccountSuspended):
		response.Error(c, http.StatusForbidden, "ACCOUNT_SUSPENDED", "This account is suspended")
	case errors.Is(err, ErrAccountNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Account not found")
	case errors.Is(err, access.ErrUnauthenticated):
		response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
	case errors.Is(err, access.ErrInvalidRegistration):
		response.Error(c, http.StatusForbidden, "INVALID_REGISTRATION_KEY", "Admin registration is not permitted")
	case errors.Is(err, access.ErrRoleMismatch):
		response.Error(c, http.StatusForbidden, "ROLE_MISMATCH", "Only admins can register admins")
	case database.IsUnavailable(err):
		response.Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Service temporarily unavailable, try again later")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
