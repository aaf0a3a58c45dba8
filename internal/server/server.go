package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/open-egypt/pricing-api/internal/config"
	"github.com/open-egypt/pricing-api/internal/handler"
	"github.com/open-egypt/pricing-api/internal/middleware"
	"github.com/open-egypt/pricing-api/internal/notify"
	"github.com/open-egypt/pricing-api/internal/ratelimit"
	"github.com/open-egypt/pricing-api/internal/repository"
	"github.com/open-egypt/pricing-api/internal/service"
	"github.com/open-egypt/pricing-api/internal/storage"
	"github.com/rs/zerolog"
)

type Server struct {
	router     *gin.Engine
	config     *config.Config
	logger     zerolog.Logger
	redis      *storage.RedisClient
	postgres   *storage.Postgres
	logWorker  *middleware.RequestLogWorker
	httpServer *http.Server

	gateService *service.GateService

	searchHandler       *handler.SearchHandler
	autocompleteHandler *handler.AutocompleteHandler
	partnerHandler      *handler.PartnerHandler
	apiKeyHandler       *handler.APIKeyHandler
	authHandler         *handler.AuthHandler
	analyticsHandler    *handler.AnalyticsHandler
	systemHandler       *handler.SystemHandler
	authService         *service.AuthService
}

func New(cfg *config.Config, logger zerolog.Logger, redis *storage.RedisClient, postgres *storage.Postgres) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	catalogRepo := repository.NewCatalogRepository(postgres)
	priceRepo := repository.NewPriceEntryRepository(postgres)
	apiKeyRepo := repository.NewAPIKeyRepository(postgres)
	usageRepo := repository.NewUsageRepository(postgres)
	partnerRepo := repository.NewPartnerRepository(postgres)
	auditRepo := repository.NewAuditRepository(postgres)
	requestLogRepo := repository.NewRequestLogRepository(postgres)
	userRepo := repository.NewUserRepository(postgres)

	notifier := notify.NewWebhookNotifier(cfg.Webhook.KeyEventsURL, logger)

	gateService := service.NewGateService(apiKeyRepo, usageRepo, redis, logger)
	searchService := service.NewSearchService(catalogRepo, priceRepo, logger)
	autocompleteService := service.NewAutocompleteService(catalogRepo, logger)
	partnerService := service.NewPartnerService(apiKeyRepo, partnerRepo, catalogRepo, priceRepo, auditRepo, logger)
	apiKeyService := service.NewAPIKeyService(apiKeyRepo, partnerRepo, auditRepo, gateService, notifier, logger)
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.ExpiryHours)
	analyticsService := service.NewAnalyticsService(requestLogRepo, usageRepo, apiKeyRepo)

	s := &Server{
		router:      router,
		config:      cfg,
		logger:      logger,
		redis:       redis,
		postgres:    postgres,
		logWorker:   middleware.NewRequestLogWorker(requestLogRepo, logger, 1000),
		gateService: gateService,
		authService: authService,

		searchHandler:       handler.NewSearchHandler(searchService),
		autocompleteHandler: handler.NewAutocompleteHandler(autocompleteService),
		partnerHandler:      handler.NewPartnerHandler(partnerService),
		apiKeyHandler:       handler.NewAPIKeyHandler(apiKeyService),
		authHandler:         handler.NewAuthHandler(authService),
		analyticsHandler:    handler.NewAnalyticsHandler(analyticsService),
		systemHandler:       handler.NewSystemHandler(postgres, redis),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery(s.logger))
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.CORS())
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.systemHandler.Health)

	ipLimiter := ratelimit.NewFixedWindow(s.redis, s.config.RateLimit.RequestsPerMinute, time.Minute)

	v1 := s.router.Group("/v1")
	v1.Use(middleware.IPRateLimit(ipLimiter))
	{
		gated := v1.Group("")
		gated.Use(s.logWorker.Middleware())
		gated.Use(middleware.APIKeyGate(s.gateService))
		{
			gated.GET("/prices", s.searchHandler.Search)
		}

		// Autocomplete is anonymous: only the per-IP burst limit applies,
		// never the hourly key quota.
		v1.GET("/autocomplete", s.autocompleteHandler.Suggest)

		// Partner portal endpoints authenticate with X-Partner-Key inside
		// the handler and are exempt from the hourly quota.
		v1.GET("/partner", s.partnerHandler.Listings)
		v1.POST("/partner", s.partnerHandler.Action)
	}

	admin := s.router.Group("/admin")
	{
		admin.POST("/auth/register", s.authHandler.Register)
		admin.POST("/auth/login", s.authHandler.Login)

		authed := admin.Group("")
		authed.Use(middleware.RequireAuth(s.authService))
		{
			authed.POST("/keys", s.apiKeyHandler.Generate)
			authed.GET("/keys", s.apiKeyHandler.List)
			authed.DELETE("/keys/:id", s.apiKeyHandler.Revoke)
			authed.GET("/analytics", s.analyticsHandler.Summary)
			authed.GET("/analytics/keys/:id", s.analyticsHandler.KeyUsage)
		}
	}
}

func (s *Server) Run(addr string) error {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	s.logger.Info().Str("addr", addr).Str("environment", s.config.Server.Environment).Msg("starting server")

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down server")

	s.logWorker.Stop()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
