// file: internal/server/server.go
// version: 2.1.0
// guid: 3c4d5e6f-7a8b-9c0d-1e2f-3a4b5c6d7e8f

package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jdfalk/bookmeta/internal/logger"
	"github.com/jdfalk/bookmeta/internal/metadata"
	"github.com/jdfalk/bookmeta/internal/metrics"
	"github.com/jdfalk/bookmeta/internal/server/middleware"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// IndexStats reports the size of the persistent identifier index.
type IndexStats interface {
	Counts() (isbns, covers int, err error)
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	source     *metadata.Source
	index      IndexStats
	log        *logger.Logger
	batchSize  int
	workers    int
	limiter    *middleware.LookupLimiter
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Addr              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	RequestsPerMinute int
	Burst             int
	BasicAuthUsername string
	BasicAuthPassword string
	// MaxBatch caps the ISBNs accepted by one batch request.
	MaxBatch int
	// BatchWorkers is the number of ISBNs looked up concurrently.
	BatchWorkers int
}

// DefaultServerConfig returns conservative timeouts. WriteTimeout has to
// outlast a full identify pass.
func DefaultServerConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:              addr,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
		RequestsPerMinute: 60,
		Burst:             10,
		MaxBatch:          500,
		BatchWorkers:      4,
	}
}

// NewServer creates a new server instance. index may be nil.
func NewServer(src *metadata.Source, index IndexStats, l *logger.Logger, cfg ServerConfig) *Server {
	if l == nil {
		l = logger.New(logger.InfoLevel)
	}
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.BasicAuth(cfg.BasicAuthUsername, cfg.BasicAuthPassword))
	router.Use(middleware.MaxRequestBodySize(1<<20, 4<<20))

	// Register metrics (idempotent)
	metrics.Register()

	server := &Server{
		router:    router,
		source:    src,
		index:     index,
		log:       l.With("server"),
		batchSize: cfg.MaxBatch,
		workers:   cfg.BatchWorkers,
	}
	if server.batchSize < 1 {
		server.batchSize = 500
	}
	if server.workers < 1 {
		server.workers = 1
	}

	server.limiter = middleware.NewLookupLimiter(cfg.RequestsPerMinute, cfg.Burst)
	server.setupRoutes()

	server.httpServer = &http.Server{
		Addr:           cfg.Addr,
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}
	return server
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Heartbeat: refresh runtime gauges while running
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("failed to start server: %w", err)
			}
			return nil
		case <-ticker.C:
			metrics.SampleRuntime()
		case <-ctx.Done():
			log.Println("[INFO] Shutting down server...")

			// Give outstanding requests a deadline for completion
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			log.Println("[INFO] Server exited")
			return nil
		}
	}
}

// setupRoutes configures all the routes
func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint (both paths for compatibility)
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/api/v1/health", s.healthCheck)

	api := s.router.Group("/api/v1")
	api.GET("/capabilities", s.capabilities)

	// Everything below reaches the remote service. Batch charges its
	// lookups itself once the ISBN list is known.
	api.GET("/identify", s.limiter.Middleware(middleware.IdentifyCost), s.identifyQuery)
	api.POST("/identify", s.limiter.Middleware(middleware.IdentifyCost), s.identifyJSON)
	api.GET("/cover", s.limiter.Middleware(middleware.CoverCost), s.cover)
	api.POST("/batch", s.batch)
}

func (s *Server) healthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Unix(),
		Version:   Version,
		Source:    s.source.Name(),
	}
	if s.index != nil {
		isbns, covers, err := s.index.Counts()
		if err != nil {
			resp.Status = "degraded"
			resp.PartialError = err.Error()
		} else {
			resp.Index = map[string]int{"isbns": isbns, "covers": covers}
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) capabilities(c *gin.Context) {
	RespondWithOK(c, CapabilitiesResponse{
		Name:          s.source.Name(),
		Capabilities:  s.source.Capabilities().Names(),
		TouchedFields: s.source.TouchedFields(),
	})
}
