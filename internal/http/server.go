package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	cardsHTTP "github.com/allisson/cardvault/internal/cards/http"
	"github.com/allisson/cardvault/internal/metrics"
)

// Config carries the server settings taken from the application config.
type Config struct {
	Host             string
	Port             int
	CORSEnabled      bool
	CORSAllowOrigins string
	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
}

// Server represents the card inventory HTTP server.
type Server struct {
	server       *http.Server
	logger       *slog.Logger
	cancel       context.CancelFunc
	shuttingDown atomic.Bool
}

// NewServer creates the HTTP server with all routes and middleware wired.
// meterProvider may be nil when metrics are disabled.
func NewServer(
	cfg Config,
	cardHandler *cardsHTTP.CardHandler,
	meterProvider metric.MeterProvider,
	logger *slog.Logger,
) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		logger: logger,
		cancel: cancel,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if cfg.RateLimitEnabled {
		router.Use(RateLimitMiddleware(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	}
	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, "cardvault"))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if s.shuttingDown.Load() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	router.POST("/save-cards", cardHandler.SaveCardsHandler)
	router.POST("/add-card", cardHandler.AddCardHandler)
	router.DELETE("/card/:cardNumber", cardHandler.DeleteCardHandler)
	router.GET("/random-card", cardHandler.RandomCardHandler)
	router.PUT("/card/:cardNumber", cardHandler.UpdateCardHandler)
	router.GET("/card-stats", cardHandler.CardStatsHandler)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	s.shuttingDown.Store(true)
	s.cancel()
	return s.server.Shutdown(ctx)
}
