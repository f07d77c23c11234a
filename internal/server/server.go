package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/veiling/veiling-be/internal/config"
	"github.com/veiling/veiling-be/internal/http/handlers"
	"github.com/veiling/veiling-be/internal/middleware"
)

// Deps are the collaborators the routes are served from.
type Deps struct {
	Users    handlers.UserService
	Products handlers.ProductService
	Tokens   handlers.SessionTokens
	// DB is pinged by /health; nil skips the check.
	DB  handlers.Pinger
	Log *zap.Logger
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now(), deps.DB).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	limiter := middleware.NewClientLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst)
	handlers.NewUsersHandler(deps.Users, deps.Tokens, limiter, log).Register(mux)
	handlers.NewProductsHandler(deps.Products, log).Register(mux)

	var handler http.Handler = middleware.Metrics(mux)
	handler = middleware.Recover(log, handler)
	handler = middleware.Logging(log, handler)
	handler = middleware.CORS(cfg.CORSOrigins, handler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          zap.NewStdLog(log),
	}

	return &Server{inner: httpServer}
}

// Handler exposes the full middleware chain, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.inner.Handler
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	return s.inner.Addr
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
