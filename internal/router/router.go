package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ins72/mewayz-9913-sub005/internal/broadcast"
	"github.com/ins72/mewayz-9913-sub005/internal/cache"
	"github.com/ins72/mewayz-9913-sub005/internal/config"
	"github.com/ins72/mewayz-9913-sub005/internal/handler"
	"github.com/ins72/mewayz-9913-sub005/internal/metrics"
	"github.com/ins72/mewayz-9913-sub005/internal/middleware"
	"github.com/ins72/mewayz-9913-sub005/internal/repository"
	"github.com/ins72/mewayz-9913-sub005/internal/service"
	"github.com/ins72/mewayz-9913-sub005/internal/websocket"
)

// Config holds router dependencies
type Config struct {
	DB       *gorm.DB
	Store    cache.Store
	Broker   broadcast.Broker
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Presence config.PresenceConfig

	BasePath       string
	CORSOrigins    string
	JWTSecret      string
	InternalAPIKey string

	// TokenValidator overrides the HMAC validator built from JWTSecret
	TokenValidator middleware.TokenValidator
	// MetricsGatherer backs /metrics; the default registry when nil
	MetricsGatherer prometheus.Gatherer
}

// Setup wires repositories, services and handlers onto a gin engine
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Metrics(cfg.Metrics))

	// Repositories
	userRepo := repository.NewUserRepository(cfg.DB)
	memberRepo := repository.NewWorkspaceMemberRepository(cfg.DB)

	// Services
	presenceService := service.NewPresenceService(cfg.Store, cfg.Broker, cfg.Presence, cfg.Metrics, cfg.Logger)
	documentService := service.NewDocumentService(cfg.Store, cfg.Broker, presenceService, cfg.Presence, cfg.Metrics, cfg.Logger)
	sessionService := service.NewSessionService(cfg.Store, cfg.Broker, cfg.Presence, cfg.Metrics, cfg.Logger)
	activityService := service.NewActivityService(cfg.Store, cfg.Broker, cfg.Presence, cfg.Metrics, cfg.Logger)

	// Handlers
	healthHandler := handler.NewHealthHandler(cfg.DB, cfg.Store)
	presenceHandler := handler.NewPresenceHandler(presenceService)
	documentHandler := handler.NewDocumentHandler(documentService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	activityHandler := handler.NewActivityHandler(activityService)
	wsHandler := websocket.NewHandler(cfg.Broker, presenceService, cfg.Metrics, cfg.Logger)

	validator := cfg.TokenValidator
	if validator == nil {
		validator = middleware.NewJWTValidator(cfg.JWTSecret)
	}
	membership := middleware.WorkspaceMember(userRepo, memberRepo, cfg.Logger)

	metricsHandler := gin.WrapH(promhttp.Handler())
	if cfg.MetricsGatherer != nil {
		metricsHandler = gin.WrapH(promhttp.HandlerFor(cfg.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	// Probes at the root for kubelet, and under the base path for the ingress
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", metricsHandler)

	api := r.Group(cfg.BasePath)
	if cfg.BasePath != "" && cfg.BasePath != "/" {
		api.GET("/health", healthHandler.Health)
		api.GET("/ready", healthHandler.Ready)
		api.GET("/metrics", metricsHandler)
	}

	// Websocket handshakes carry the token in the query string
	api.GET("/workspaces/:workspaceId/ws",
		middleware.QueryTokenAuth(validator),
		membership,
		wsHandler.ServeWorkspace,
	)

	workspace := api.Group("/workspaces/:workspaceId")
	workspace.Use(middleware.AuthWithValidator(validator), membership)
	{
		workspace.POST("/presence", presenceHandler.Join)
		workspace.DELETE("/presence", presenceHandler.Leave)
		workspace.GET("/presence", presenceHandler.ListActive)
		workspace.POST("/presence/heartbeat", presenceHandler.Heartbeat)
		workspace.POST("/cursor", presenceHandler.UpdateCursor)

		workspace.PUT("/documents/:documentId", documentHandler.UpdateDocument)
		workspace.GET("/documents/:documentId/version", documentHandler.GetVersion)

		workspace.GET("/activity", activityHandler.GetFeed)

		workspace.POST("/sessions", sessionHandler.StartSession)
		workspace.GET("/sessions/:sessionId", sessionHandler.GetSession)
		workspace.POST("/sessions/:sessionId/join", sessionHandler.JoinSession)
		workspace.POST("/sessions/:sessionId/end", sessionHandler.EndSession)
	}

	internal := api.Group("/internal")
	internal.Use(middleware.InternalAuth(cfg.InternalAPIKey))
	{
		internal.POST("/workspaces/:workspaceId/activity", activityHandler.RecordActivity)
	}

	return r
}
