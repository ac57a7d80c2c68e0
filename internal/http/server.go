// Package http provides the HTTP API wrapping the relation engine.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/orreryworks/orrery/internal/telemetry"
	"github.com/orreryworks/orrery/pkg/engine"
	"github.com/orreryworks/orrery/pkg/export"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// FeedbackRPS rate-limits the feedback route. Zero means 5/s.
	FeedbackRPS float64
}

// Server exposes the engine's operations over HTTP.
type Server struct {
	echo    *echo.Echo
	engine  *engine.Engine
	logger  *zap.Logger
	config  *Config
	limiter *rate.Limiter
}

// NewServer creates a new HTTP server around an engine.
func NewServer(eng *engine.Engine, metrics *telemetry.Metrics, logger *zap.Logger, cfg *Config) (*Server, error) {
	if eng == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 9280}
	}
	rps := cfg.FeedbackRPS
	if rps <= 0 {
		rps = 5
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{
		echo:    e,
		engine:  eng,
		logger:  logger,
		config:  cfg,
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)+1),
	}
	s.registerRoutes(metrics)
	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes(metrics *telemetry.Metrics) {
	s.echo.GET("/health", s.handleHealth)
	if metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	v1 := s.echo.Group("/api/v1")
	v1.GET("/projects/:id/related", s.handleRelated)
	v1.GET("/similarity", s.handleSimilarity)
	v1.GET("/collections", s.handleCollections)
	v1.POST("/feedback", s.handleFeedback)
	v1.GET("/export", s.handleExport)
	v1.GET("/analytics", s.handleAnalytics)
	v1.POST("/train", s.handleTrain)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleRelated(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = parsed
	}

	related, err := s.engine.RelatedProjects(c.Param("id"), limit)
	if err != nil {
		return s.mapError(err)
	}
	return c.JSON(http.StatusOK, related)
}

func (s *Server) handleSimilarity(c echo.Context) error {
	a, b := c.QueryParam("a"), c.QueryParam("b")
	if a == "" || b == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameters a and b are required")
	}

	result, err := s.engine.Similarity(a, b)
	if err != nil {
		return s.mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleCollections(c echo.Context) error {
	return c.JSON(http.StatusOK, s.engine.GenerateCollections())
}

// FeedbackRequest is the request body for POST /api/v1/feedback.
type FeedbackRequest struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Signal string `json:"signal"`
}

// FeedbackResponse is the response body for POST /api/v1/feedback.
type FeedbackResponse struct {
	UpdatedSimilarity float64 `json:"updated_similarity"`
}

func (s *Server) handleFeedback(c echo.Context) error {
	if !s.limiter.Allow() {
		return echo.NewHTTPError(http.StatusTooManyRequests, "feedback rate limit exceeded")
	}

	var req FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.A == "" || req.B == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "fields a and b are required")
	}

	updated, err := s.engine.ApplyFeedback(req.A, req.B, engine.Signal(req.Signal))
	if err != nil {
		return s.mapError(err)
	}
	return c.JSON(http.StatusOK, FeedbackResponse{UpdatedSimilarity: updated})
}

func (s *Server) handleExport(c echo.Context) error {
	format := export.Format(c.QueryParam("format"))
	if format == "" {
		format = export.FormatJSON
	}

	var threshold float64
	if raw := c.QueryParam("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "threshold must be in [0,1]")
		}
		threshold = parsed
	}

	data, err := s.engine.ExportGraph(format, threshold)
	if err != nil {
		return s.mapError(err)
	}
	return c.Blob(http.StatusOK, contentType(format), data)
}

func (s *Server) handleAnalytics(c echo.Context) error {
	return c.JSON(http.StatusOK, s.engine.NetworkAnalytics())
}

func (s *Server) handleTrain(c echo.Context) error {
	result, err := s.engine.TrainEmbeddings(c.Request().Context())
	if err != nil {
		return s.mapError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// mapError translates engine errors to HTTP status codes.
func (s *Server) mapError(err error) error {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrInvalidSignal), errors.Is(err, export.ErrUnsupportedFormat):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrTrainingInProgress):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}

// contentType picks the response content type per export format.
func contentType(format export.Format) string {
	switch format {
	case export.FormatGraphML:
		return "application/xml"
	case export.FormatDOT:
		return "text/vnd.graphviz"
	case export.FormatCSV:
		return "text/csv"
	default:
		return "application/json"
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
