// Package server exposes the assistant over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tally-dev/tally/internal/assistant"
	"github.com/tally-dev/tally/internal/buildinfo"
	"github.com/tally-dev/tally/internal/calendar"
	"github.com/tally-dev/tally/internal/importer"
	"github.com/tally-dev/tally/internal/log"
)

const shutdownTimeout = 10 * time.Second

// Config holds server settings.
type Config struct {
	Addr           string
	JWTSecret      string
	AllowedOrigins []string
	Clock          calendar.Clock // nil means the system clock
}

// Server routes HTTP requests to an assistant.Service.
type Server struct {
	addr     string
	svc      *assistant.Service
	registry *importer.Registry
	clock    calendar.Clock
	logger   *log.Logger
	engine   *gin.Engine
}

// New builds the router. A JWT secret is required.
func New(svc *assistant.Service, cfg Config, logger *log.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("server: jwt secret is required")
	}
	corsCfg := corsConfig(cfg.AllowedOrigins)
	if err := corsCfg.Validate(); err != nil {
		return nil, fmt.Errorf("server: cors: %w", err)
	}
	if logger == nil {
		logger = log.Discard()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = calendar.SystemClock{}
	}

	s := &Server{
		addr:     cfg.Addr,
		svc:      svc,
		registry: importer.DefaultRegistry(),
		clock:    clock,
		logger:   logger.WithComponent(log.ComponentHTTP),
		engine:   gin.New(),
	}

	s.engine.Use(gin.Recovery())
	s.engine.Use(cors.New(corsCfg))
	s.engine.Use(RequestLogger(s.logger))

	s.engine.GET("/health", s.health)

	v1 := s.engine.Group("/api/v1")
	v1.Use(Auth([]byte(cfg.JWTSecret)))
	{
		v1.POST("/transactions", s.addTransaction)
		v1.POST("/insights", s.financialInsight)
		v1.POST("/budget", s.optimizeBudget)
		v1.POST("/goals", s.trackGoal)
		v1.POST("/imports", s.importStatement)
		v1.GET("/classify", s.classify)
	}
	return s, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// Handler returns the router.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", log.FieldPath, s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
		s.logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": buildinfo.Version,
		"time":    time.Now().Format(time.RFC3339),
	})
}
