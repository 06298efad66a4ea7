// SPDX-License-Identifier: AGPL-3.0-only
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/migrateforce/demo-create-api-gateway/internal/config"
	"github.com/migrateforce/demo-create-api-gateway/internal/model"
)

// Responder produces the assistant's answer for one instruction.
type Responder interface {
	Respond(ctx context.Context, instruction string) (string, error)
}

// Server is the inbound HTTP interface of the assistant.
type Server struct {
	router    *gin.Engine
	cfg       *config.Config
	assistant Responder
	store     model.AuditStore
	logger    zerolog.Logger
	httpSrv   *http.Server
}

// New creates the HTTP server and registers all routes. store may be nil when
// auditing is disabled.
func New(cfg *config.Config, assistant Responder, store model.AuditStore, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(logger))
	router.Use(CORS())
	router.Use(MetricsRecorder())

	s := &Server{
		router:    router,
		cfg:       cfg,
		assistant: assistant,
		store:     store,
		logger:    logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "gateway-assistant"})
	})
	s.router.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": "gateway-assistant"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/v1")
	v1.POST("/chat", s.handleChat)
	v1.GET("/provisions", s.handleListProvisions)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Address, s.cfg.Server.Port)
	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	s.logger.Info().Str("address", addr).Msg("HTTP server listening")
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}
