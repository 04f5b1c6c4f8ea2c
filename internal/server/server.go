package server

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// ServerConfig holds configuration for the HTTP server. Zero timeout
// values fall back to defaults sized for the enrichment endpoints,
// which can hold a connection for up to a minute.
type ServerConfig struct {
	Addr    string // bind address, e.g. ":8090"
	DevMode bool   // detailed error responses
	APIKey  string // optional X-API-Key authentication

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func (c *ServerConfig) applyDefaults() {
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 75 * time.Second
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 60 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
}

// ServerDeps contains dependencies required to create a new Server
type ServerDeps struct {
	Handlers *Handlers
	Config   ServerConfig
	Logger   *logrus.Logger
}

// Server wraps the echo instance with lifecycle management: Start,
// bounded Shutdown, and WaitClosed for callers that need to block
// until in-flight requests have drained.
type Server struct {
	e      *echo.Echo
	cfg    ServerConfig
	logger *logrus.Logger
	closed chan struct{}
}

func NewServer(deps ServerDeps) (*Server, error) {
	deps.Config.applyDefaults()
	if deps.Logger == nil {
		deps.Logger = logrus.New()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	e.Server.ReadTimeout = deps.Config.ReadTimeout
	e.Server.WriteTimeout = deps.Config.WriteTimeout
	e.Server.IdleTimeout = deps.Config.IdleTimeout

	RegisterRoutes(e, deps.Handlers, deps.Config)

	return &Server{
		e:      e,
		cfg:    deps.Config,
		logger: deps.Logger,
		closed: make(chan struct{}),
	}, nil
}

// Start begins serving HTTP requests on the configured address
func (s *Server) Start() error {
	s.logger.WithField("addr", s.cfg.Addr).Info("http server listening")
	return s.e.Start(s.cfg.Addr)
}

// Shutdown stops accepting new requests and drains in-flight ones,
// bounded by the configured shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	defer close(s.closed)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	return s.e.Shutdown(ctx)
}

// WaitClosed blocks until the server is fully shut down or context times out
func (s *Server) WaitClosed(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.closed:
		return nil
	}
}

// SetNoCacheHeaders middleware prevents caching of API responses
func SetNoCacheHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Cache-Control", "no-store")
		return next(c)
	}
}

// SetJSONContentType middleware ensures all responses have JSON content type
func SetJSONContentType(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		return next(c)
	}
}
