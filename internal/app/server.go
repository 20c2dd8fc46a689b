// Package app assembles the HTTP server and background jobs.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cookcam_backend/internal/config"
	"cookcam_backend/internal/jobs"
	"cookcam_backend/internal/middleware"
	"cookcam_backend/internal/screen"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server holds the HTTP server and the jobs that live alongside it.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	screenHandler *screen.Handler

	reconcileJob *jobs.OrphanReconcileJob
	sweepJob     *jobs.SessionSweepJob
}

// NewServer creates a new instance of the application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	screenHandler *screen.Handler,
	reconcileJob *jobs.OrphanReconcileJob,
	sweepJob *jobs.SessionSweepJob,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := NewRouter(cfg, logger, screenHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.ServerTimeout + cfg.IdentityRequestTimeout*3,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:    httpServer,
		router:        router,
		cfg:           cfg,
		logger:        logger,
		screenHandler: screenHandler,
		reconcileJob:  reconcileJob,
		sweepJob:      sweepJob,
	}, nil
}

// NewRouter builds the gin engine with global middleware and all routes.
func NewRouter(cfg *config.Config, logger *zap.Logger, screenHandler *screen.Handler) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(middleware.ZapLogger(logger, cfg.GinMode == gin.ReleaseMode))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if allowsAnyOrigin(cfg.CORSAllowedOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "CookCam API is healthy!"})
	})

	v1 := router.Group("/api/v1")
	screenHandler.RegisterRoutes(v1)
	return router
}

func allowsAnyOrigin(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// Start launches the jobs and blocks serving HTTP.
func (s *Server) Start() error {
	if err := s.reconcileJob.SetupAndStart(); err != nil {
		s.logger.Error("Failed to setup and start orphan reconcile job", zap.Error(err))
	}
	if err := s.sweepJob.SetupAndStart(); err != nil {
		s.logger.Error("Failed to setup and start session sweep job", zap.Error(err))
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

// Shutdown stops the jobs and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	s.reconcileJob.Stop()
	s.sweepJob.Stop()
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
