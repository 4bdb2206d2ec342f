// Package health exposes the liveness HTTP endpoints expected by the
// hosting platform's uptime pinger.
package health

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"lbucks-bot/internal/pkg/db"
)

// Server is the liveness HTTP server.
type Server struct {
	srv  *http.Server
	pool *db.Pool
}

// NewServer creates the health server listening on the given port.
func NewServer(port int, pool *db.Pool) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{pool: pool}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/", s.handleRoot)
	router.GET("/healthz", s.handleHealthz)

	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}
	return s
}

// handleRoot answers uptime pings.
func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// handleHealthz reports readiness, including database connectivity.
func (s *Server) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := s.pool.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start runs the server until Shutdown is called.
func (s *Server) Start() {
	log.Info().Str("addr", s.srv.Addr).Msg("Health server listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("Health server failed")
	}
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) {
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("Health server shutdown failed")
	}
}
