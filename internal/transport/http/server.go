package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/joshdurbin/linkbio/internal/auth"
	"github.com/joshdurbin/linkbio/internal/metrics"
	"github.com/joshdurbin/linkbio/internal/ratelimit"
	"github.com/joshdurbin/linkbio/internal/service"
)

// Rate limit scopes, also used as the metric label
const (
	ScopeRedirect = "redirect"
	ScopeAPI      = "api"
)

// Options configures the HTTP server
type Options struct {
	Port    string
	BaseURL string
	Verbose bool

	Tokens *auth.Tokens
	// Limiter is optional; nil disables rate limiting
	Limiter  ratelimit.Limiter
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

// Server represents the HTTP server
type Server struct {
	handler *Handler
	router  http.Handler
	server  *http.Server
	port    string
	logger  zerolog.Logger
}

// NewServer creates a new HTTP server
func NewServer(links service.LinkService, dispatcher service.Dispatcher, opts Options) *Server {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	handler := NewHandler(links, dispatcher, opts.BaseURL, opts.Logger)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errRouteNotFound())
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errMethodNotAllowed())
	})

	// Redirect endpoint
	var redirect http.Handler = http.HandlerFunc(handler.Redirect)
	if opts.Limiter != nil {
		redirect = RateLimit(opts.Limiter, ScopeRedirect, opts.Metrics, opts.Logger)(redirect)
	}
	router.Handle(RedirectPrefix+"{shortCode}", redirect).Methods(http.MethodGet, http.MethodHead)

	// API endpoints; the limiter runs before authentication
	api := router.PathPrefix("/api").Subrouter()
	if opts.Limiter != nil {
		api.Use(RateLimit(opts.Limiter, ScopeAPI, opts.Metrics, opts.Logger))
	}
	api.Use(RequireOwner(opts.Tokens))

	api.HandleFunc("/links", handler.CreateLink).Methods(http.MethodPost)
	api.HandleFunc("/links", handler.ListLinks).Methods(http.MethodGet)
	api.HandleFunc("/links/{shortCode}", handler.GetLink).Methods(http.MethodGet)
	api.HandleFunc("/links/{shortCode}", handler.DeactivateLink).Methods(http.MethodDelete)
	api.HandleFunc("/links/{shortCode}/deeplink", handler.GetDeeplinkConfig).Methods(http.MethodGet)
	api.HandleFunc("/links/{shortCode}/deeplink", handler.UpdateDeeplinkConfig).Methods(http.MethodPut)
	api.HandleFunc("/profile-links", handler.CreateProfileLink).Methods(http.MethodPost)
	api.HandleFunc("/profile-links", handler.ListProfileLinks).Methods(http.MethodGet)
	api.HandleFunc("/deeplinks/preview", handler.PreviewDeeplink).Methods(http.MethodPost)

	// Operational endpoints
	router.HandleFunc("/healthz", handler.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	// mux middleware only runs on matched routes, so the outer chain wraps the router
	var finalHandler http.Handler = router
	finalHandler = Recover(opts.Logger)(finalHandler)
	finalHandler = NewLoggingMiddleware(opts.Logger, opts.Verbose).Middleware(finalHandler)
	finalHandler = RequestID(finalHandler)

	server := &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           finalHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		handler: handler,
		router:  finalHandler,
		server:  server,
		port:    opts.Port,
		logger:  opts.Logger,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info().Str("port", s.port).Msg("server starting")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("server shutting down")
	return s.server.Shutdown(ctx)
}

// Port returns the server port
func (s *Server) Port() string {
	return s.port
}

// Handler returns the request handlers
func (s *Server) Handler() *Handler {
	return s.handler
}

// Router returns the full middleware-wrapped handler (useful for testing)
func (s *Server) Router() http.Handler {
	return s.router
}
