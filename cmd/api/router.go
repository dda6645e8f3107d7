package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"txunajob/internal/cache"
	"txunajob/internal/config"
	"txunajob/internal/database"
	"txunajob/internal/domain"
	"txunajob/internal/metrics"
	"txunajob/internal/middleware"
	"txunajob/internal/modules/admin"
	"txunajob/internal/modules/auth"
	"txunajob/internal/modules/chat"
	"txunajob/internal/modules/lifecycle"
	"txunajob/internal/modules/professional"
	"txunajob/internal/modules/reporting"
	"txunajob/internal/pkg/demo"
	"txunajob/internal/pkg/jwt"
	"txunajob/internal/repository"
)

// app holds the wired services shared by the router and startup tasks.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	store    *database.Store
	tokens   *jwt.Service
	accounts *repository.AccountRepository

	auth         *auth.Service
	lifecycle    *lifecycle.Service
	reporting    *reporting.Service
	admin        *admin.Service
	professional *professional.Service
	chat         *chat.Service
}

func newApp(cfg *config.Config, log *logrus.Logger, store *database.Store, c cache.Cache) *app {
	accountRepo := repository.NewAccountRepository(store)
	profileRepo := repository.NewProfileRepository(store)
	serviceRepo := repository.NewServiceRepository(store)
	chatRepo := repository.NewChatRepository(store)
	settingsRepo := repository.NewSettingsRepository(store)

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTTTL)
	gate := demo.Gate{Enabled: cfg.DemoMode}

	reports := reporting.NewService(accountRepo, profileRepo, serviceRepo, c, cfg.ReportCacheTTL, log)

	authService := auth.NewService(accountRepo, profileRepo, tokens, cfg.AdminRegistrationKey, log)
	authService.SetStatsInvalidator(reports)
	engine := lifecycle.NewService(serviceRepo, log)
	engine.SetStatsInvalidator(reports)

	return &app{
		cfg:          cfg,
		log:          log,
		store:        store,
		tokens:       tokens,
		accounts:     accountRepo,
		auth:         authService,
		lifecycle:    engine,
		reporting:    reports,
		admin:        admin.NewService(accountRepo, profileRepo, serviceRepo, settingsRepo, reports, store, gate, log),
		professional: professional.NewService(accountRepo, profileRepo, serviceRepo, chatRepo, log),
		chat:         chat.NewService(chatRepo, accountRepo, log),
	}
}

func (a *app) router() *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(a.log),
		middleware.ErrorLogger(a.log),
		middleware.CORS(a.cfg.CORSAllowedOrigins),
		middleware.Metrics(),
		middleware.RequestTimeout(a.cfg.StoreTimeout),
		middleware.Maintenance(a.store, a.log),
	)

	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		if !a.store.Available(c.Request.Context()) {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{"status": status})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	gate := demo.Gate{Enabled: a.cfg.DemoMode}
	authHandler := auth.NewHandler(a.auth, a.tokens, a.log)
	lifecycleHandler := lifecycle.NewHandler(a.lifecycle, a.log)
	chatHandler := chat.NewHandler(a.chat, a.log)
	loginLimiter := middleware.NewRateLimiter(a.cfg.LoginRatePerSec, a.cfg.LoginBurst, a.log)

	api := r.Group("/api")
	activeAccount := middleware.ActiveAccount(a.accounts, a.log)
	authHandler.RegisterPublicRoutes(api, loginLimiter.Handler(), middleware.OptionalJWTAuth(a.tokens), activeAccount)
	lifecycleHandler.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(a.tokens), activeAccount)
	authHandler.RegisterProtectedRoutes(protected)
	chatHandler.RegisterRoutes(protected)

	pro := protected.Group("/professional")
	pro.Use(middleware.RequireRole(domain.RoleProfessional))
	lifecycleHandler.RegisterProfessionalRoutes(pro)
	professional.NewHandler(a.professional, gate, a.log).RegisterRoutes(pro)

	client := protected.Group("/client")
	client.Use(middleware.RequireRole(domain.RoleClient))
	lifecycleHandler.RegisterClientRoutes(client)
	chatHandler.RegisterClientRoutes(client)

	adminGroup := protected.Group("/admin")
	adminGroup.Use(middleware.AdminOnly())
	admin.NewHandler(a.admin, a.log).RegisterRoutes(adminGroup)
	reporting.NewHandler(a.reporting).RegisterRoutes(adminGroup)
	lifecycleHandler.RegisterAdminRoutes(adminGroup)

	return r
}
