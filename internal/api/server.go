// Package api exposes the analyzer over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	analyzer "github.com/FrenchMajesty/text-analyzer"
)

// Predictor is the part of analyzer.Analyzer the server needs
type Predictor interface {
	Names() []string
	Predict(ctx context.Context, name string, text string) (*analyzer.Result, error)
}

type Server struct {
	echo      *echo.Echo
	predictor Predictor
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Classifier string  `json:"classifier"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	CacheHit   bool    `json:"cache_hit"`
	LatencyMs  int64   `json:"latency_ms"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewServer(predictor Predictor) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger())

	s := &Server{
		echo:      e,
		predictor: predictor,
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.echo.GET("/health", s.health)
	s.echo.GET("/api/classifiers", s.classifiers)
	s.echo.POST("/api/classify/:name", s.classify)
}

// Handler returns the server as an http.Handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	slog.Info("server starting", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) classifiers(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"classifiers": s.predictor.Names()})
}

func (s *Server) classify(c echo.Context) error {
	var req classifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	if strings.TrimSpace(req.Text) == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "enter text first"})
	}

	name := c.Param("name")
	result, err := s.predictor.Predict(c.Request().Context(), name, req.Text)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			slog.Error("prediction failed", "classifier", name, "error", err)
		}
		return c.JSON(status, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, classifyResponse{
		Classifier: result.Classifier,
		Label:      result.Label,
		Confidence: result.Confidence,
		CacheHit:   result.CacheHit,
		LatencyMs:  result.Latency.Milliseconds(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, analyzer.ErrUnknownClassifier):
		return http.StatusNotFound
	case errors.Is(err, analyzer.ErrEmptyText):
		return http.StatusBadRequest
	case errors.Is(err, analyzer.ErrNotLoaded), errors.Is(err, analyzer.ErrClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// requestLogger logs each request through slog
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				attrs = append(attrs, "error", v.Error)
			}
			slog.Info("request", attrs...)
			return nil
		},
	})
}
