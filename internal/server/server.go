package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/crosslingo/chatbridge/internal/api/http"
	"github.com/crosslingo/chatbridge/internal/api/middleware"
	"github.com/crosslingo/chatbridge/internal/api/ws"
	"github.com/crosslingo/chatbridge/internal/clients/dialogflow"
	"github.com/crosslingo/chatbridge/internal/clients/translatev3"
	"github.com/crosslingo/chatbridge/internal/domain/bot"
	"github.com/crosslingo/chatbridge/internal/domain/chat"
	"github.com/crosslingo/chatbridge/internal/domain/intent"
	"github.com/crosslingo/chatbridge/internal/domain/translate"
	"github.com/crosslingo/chatbridge/internal/domain/webhook"
	"github.com/crosslingo/chatbridge/internal/infrastructure/config"
	"github.com/crosslingo/chatbridge/internal/infrastructure/logging"
	"github.com/crosslingo/chatbridge/internal/infrastructure/monitoring"
	"github.com/crosslingo/chatbridge/web"
)

// Server wraps the HTTP server and its dependencies. All clients and
// profile configuration are built once here and passed down explicitly; no
// package-level singletons.
type Server struct {
	httpServer *http.Server
	registry   *bot.Registry
	pipeline   *chat.Pipeline
	log        *logging.Logger
	config     *config.Config
	metrics    *monitoring.Metrics
}

// New creates a fully wired server from configuration.
func New(cfg *config.Config) (*Server, error) {
	var log *logging.Logger
	if cfg.Logging.Development {
		log = logging.NewDevelopment()
	} else {
		l, err := logging.New(logging.Config{
			Level:       cfg.Logging.Level,
			Development: false,
			OutputPaths: []string{"stdout"},
		})
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		log = l
	}

	log.Info("initializing chatbridge",
		zap.String("port", cfg.Server.Port),
		zap.String("support_project", cfg.Bots.SupportProject),
		zap.String("sales_project", cfg.Bots.SalesProject),
	)

	metrics := monitoring.NewMetrics()

	registry := bot.NewRegistry(
		bot.Profile{ProjectID: cfg.Bots.SupportProject, CredentialsKey: cfg.Bots.SupportAPIKey},
		bot.Profile{ProjectID: cfg.Bots.SalesProject, CredentialsKey: cfg.Bots.SalesAPIKey},
	)

	// One client per credential pool; the support clients double as the
	// fallback pool for sales.
	translateClients := map[bot.ID]*translatev3.Client{
		bot.Support: translatev3.New("support", translatev3.Config{
			Endpoint: cfg.Translate.Endpoint,
			APIKey:   cfg.Bots.SupportAPIKey,
			Timeout:  cfg.Translate.Timeout,
			Metrics:  metrics,
		}),
		bot.Sales: translatev3.New("sales", translatev3.Config{
			Endpoint: cfg.Translate.Endpoint,
			APIKey:   cfg.Bots.SalesAPIKey,
			Timeout:  cfg.Translate.Timeout,
			Metrics:  metrics,
		}),
	}
	intentClients := map[bot.ID]*dialogflow.Client{
		bot.Support: dialogflow.New("support", dialogflow.Config{
			Endpoint: cfg.Intent.Endpoint,
			APIKey:   cfg.Bots.SupportAPIKey,
			Timeout:  cfg.Intent.Timeout,
			Metrics:  metrics,
		}),
		bot.Sales: dialogflow.New("sales", dialogflow.Config{
			Endpoint: cfg.Intent.Endpoint,
			APIKey:   cfg.Bots.SalesAPIKey,
			Timeout:  cfg.Intent.Timeout,
			Metrics:  metrics,
		}),
	}

	fallbackProfile := registry.Fallback()
	bindings := make(map[bot.ID]chat.Binding, len(registry.IDs()))
	for _, id := range registry.IDs() {
		profile := bot.Profile{ID: id}
		if p, err := registry.Resolve(string(id)); err == nil {
			profile = p
		}
		bindings[id] = chat.Binding{
			Profile: profile,
			Translator: translate.NewPivot(
				translateClients[id], profile.ProjectID,
				translateClients[bot.Support], fallbackProfile.ProjectID,
				log,
			),
			Router: intent.NewRouter(intentClients[id], log),
		}
	}

	pipeline := chat.NewPipeline(registry, bindings, cfg.Chat.StageTimeout, log, metrics)
	handlers := apihttp.NewHandlers(pipeline, registry, webhook.NewHandler(log), log, metrics)
	wsHandler := ws.NewHandler(pipeline, log, metrics)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(monitoring.Middleware(metrics))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	router.GET("/health", handlers.Health)
	router.POST("/api/chat", handlers.Chat)
	router.POST("/webhook", handlers.Webhook)
	router.GET("/stream", wsHandler.HandleConnection)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/", func(c *gin.Context) {
		c.FileFromFS("widget.html", http.FS(web.Assets))
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
			Handler: router,
		},
		registry: registry,
		pipeline: pipeline,
		log:      log,
		config:   cfg,
		metrics:  metrics,
	}, nil
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	s.log.Info("chatbridge listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down")
	defer func() { _ = s.log.Sync() }()
	return s.httpServer.Shutdown(ctx)
}
