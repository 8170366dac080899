package http

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/joshdurbin/linkbio/internal/auth"
	"github.com/joshdurbin/linkbio/internal/metrics"
	"github.com/joshdurbin/linkbio/internal/ratelimit"
)

// RequestIDHeader carries the request ID in both directions
const RequestIDHeader = "X-Request-ID"

// maxLoggedBody caps how much of a request body verbose logging prints
const maxLoggedBody = 4 << 10

type requestIDKey struct{}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestID assigns every request an ID, reusing a sane inbound one
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 64 || strings.ContainsAny(id, " \t\r\n") {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// responseRecorder captures the status and size of a response
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if r.statusCode == 0 {
		r.statusCode = statusCode
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.statusCode == 0 {
		r.statusCode = http.StatusOK
	}
	size, err := r.ResponseWriter.Write(b)
	r.size += size
	return size, err
}

func (r *responseRecorder) status() int {
	if r.statusCode == 0 {
		return http.StatusOK
	}
	return r.statusCode
}

// LoggingMiddleware logs one line per request. Verbose mode also logs request bodies at debug level.
type LoggingMiddleware struct {
	logger  zerolog.Logger
	verbose bool
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger zerolog.Logger, verbose bool) *LoggingMiddleware {
	return &LoggingMiddleware{
		logger:  logger,
		verbose: verbose,
	}
}

// Middleware returns the HTTP logging middleware function
func (l *LoggingMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := l.logger.With().Str("request_id", requestIDFrom(r.Context())).Logger()

		if l.verbose && (r.Method == http.MethodPost || r.Method == http.MethodPut) && r.Body != nil {
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				log.Warn().Err(err).Msg("failed to read request body")
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			if len(bodyBytes) > 0 {
				if len(bodyBytes) > maxLoggedBody {
					bodyBytes = bodyBytes[:maxLoggedBody]
				}
				log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Bytes("body", bodyBytes).Msg("request body")
			}
		}

		recorder := &responseRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r.WithContext(log.WithContext(r.Context())))

		status := recorder.status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		default:
			event = log.Info()
		}

		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Dur("duration_ms", time.Since(start)).
			Int("bytes", recorder.size).
			Str("ip", clientIP(r)).
			Msg("request completed")
	})
}

// Recover turns a handler panic into a 500
func Recover(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					logger.Error().
						Str("request_id", requestIDFrom(r.Context())).
						Interface("panic", p).
						Bytes("stack", debug.Stack()).
						Msg("recovered panic in handler")
					writeError(w, r, errInternal())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwner authenticates bearer tokens and stores the token subject as the owner
func RequireOwner(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				writeError(w, r, errUnauthorized("missing bearer token"))
				return
			}

			owner, err := tokens.Verify(strings.TrimSpace(token))
			if err != nil {
				writeError(w, r, errUnauthorized("invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithOwner(r.Context(), owner)))
		})
	}
}

// RateLimit rejects callers over their budget with 429 before the wrapped handler runs.
// Keys are the client IP prefixed by scope so each route group has its own budget.
// A limiter error lets the request through.
func RateLimit(limiter ratelimit.Limiter, scope string, m *metrics.Metrics, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			decision, err := limiter.Check(r.Context(), scope+":"+ip)
			if err != nil {
				logger.Warn().Err(err).Str("scope", scope).Str("ip", ip).Msg("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

			if !decision.Allowed {
				retryAfter := decision.RetryAfter(time.Now())
				h.Set("Retry-After", strconv.Itoa(int(retryAfter/time.Second)))
				m.RateLimited.WithLabelValues(scope).Inc()
				logger.Warn().
					Str("request_id", requestIDFrom(r.Context())).
					Str("scope", scope).
					Str("ip", ip).
					Str("path", r.URL.Path).
					Msg("rate limit exceeded")

				appErr := errRateLimited()
				appErr.Details = "retry after " + retryAfter.String()
				writeError(w, r, appErr)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the peer address
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
