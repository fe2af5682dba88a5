package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultRateLimitRPS   = 25
	defaultRateLimitBurst = 50
)

// RouterOption configures the behaviour of NewRouter.
type RouterOption func(*routerConfig)

// WithLogging controls whether access logs are emitted.
func WithLogging(enabled bool) RouterOption {
	return func(cfg *routerConfig) {
		cfg.enableLogging = enabled
	}
}

// WithRateLimiter overrides the default per-client limiter (primarily for tests).
func WithRateLimiter(limiter rateLimiter) RouterOption {
	return func(cfg *routerConfig) {
		cfg.rateLimiter = limiter
	}
}

// WithRateLimit sets the per-client token bucket. Zero for either value disables limiting.
func WithRateLimit(ratePerSecond float64, burst int) RouterOption {
	return func(cfg *routerConfig) {
		if ratePerSecond <= 0 || burst <= 0 {
			cfg.rateLimiter = nil
			return
		}
		cfg.rateLimiter = newClientLimiter(ratePerSecond, burst)
	}
}

// WithMaxBodyBytes caps request bodies; larger requests get 413.
func WithMaxBodyBytes(n int64) RouterOption {
	return func(cfg *routerConfig) {
		if n > 0 {
			cfg.maxBodyBytes = n
		}
	}
}

type routerConfig struct {
	enableLogging bool
	logger        *zap.Logger
	rateLimiter   rateLimiter
	maxBodyBytes  int64
}

type middleware func(http.Handler) http.Handler

// NewRouter creates the API router. Middleware runs outermost first: request
// ID, rate limit, access log, panic recovery, CORS, body limit.
func NewRouter(handler *Handler, logger *zap.Logger, opts ...RouterOption) http.Handler {
	cfg := routerConfig{
		enableLogging: true,
		logger:        logger,
		rateLimiter:   newClientLimiter(defaultRateLimitRPS, defaultRateLimitBurst),
		maxBodyBytes:  maxRequestBytes,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	mux := http.NewServeMux()
	routes := []struct {
		pattern string
		handle  http.HandlerFunc
	}{
		{"GET /api/health", handler.handleHealth},
		{"GET /api/catalog", handler.handleCatalog},
		{"GET /api/container", handler.handleContainer},
		{"POST /api/estimate", handler.handleEstimate},
		{"POST /api/estimate/manifest", handler.handleManifest},
	}
	for _, route := range routes {
		mux.Handle(route.pattern, route.handle)
	}

	chain := []middleware{requestIDMiddleware}
	if cfg.rateLimiter != nil {
		chain = append(chain, rateLimitMiddleware(cfg.rateLimiter))
	}
	if cfg.enableLogging {
		chain = append(chain, accessLogMiddleware(cfg.logger))
	}
	chain = append(chain,
		recoveryMiddleware(cfg.logger),
		corsMiddleware,
		bodyLimitMiddleware(cfg.maxBodyBytes),
	)

	var root http.Handler = mux
	for i := len(chain) - 1; i >= 0; i-- {
		root = chain[i](root)
	}
	return root
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type,X-Request-ID")
		h.Set("Access-Control-Expose-Headers", "X-Request-ID,Retry-After,Content-Disposition")
		h.Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bodyLimitMiddleware rejects oversized bodies up front when Content-Length
// says so, and caps the reader for chunked uploads.
func bodyLimitMiddleware(limit int64) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				writeBodyTooLarge(w, limit)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}

func writeBodyTooLarge(w http.ResponseWriter, limit int64) {
	writeError(w, http.StatusRequestEntityTooLarge, "Request too large",
		fmt.Sprintf("request body exceeds %d bytes", limit),
		"Send fewer line items; quantities are counts, not repeated entries")
}

// bodyLimitExceeded reports the limit a failed body read ran into, if any.
func bodyLimitExceeded(err error) (int64, bool) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return maxErr.Limit, true
	}
	return 0, false
}

// accessLogMiddleware logs one line per request. Estimate handlers attach the
// selection size and the resulting container count through the context.
func accessLogMiddleware(logger *zap.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			stats := &estimateStats{}
			start := time.Now()

			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), estimateStatsContextKey, stats)))

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", requestIDFromContext(r.Context())),
			}
			if stats.recorded {
				fields = append(fields,
					zap.Int("units", stats.units),
					zap.Int("containers", stats.containers),
					zap.Int("units_recommended", stats.recommended),
				)
			}
			logger.Info("request completed", fields...)
		})
	}
}

type estimateStats struct {
	recorded    bool
	units       int
	containers  int
	recommended int
}

func recordEstimate(ctx context.Context, units, containers, recommended int) {
	if stats, ok := ctx.Value(estimateStatsContextKey).(*estimateStats); ok {
		stats.recorded = true
		stats.units = units
		stats.containers = containers
		stats.recommended = recommended
	}
}

func recoveryMiddleware(logger *zap.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						zap.Any("error", rec),
						zap.String("request_id", requestIDFromContext(r.Context())),
					)
					writeError(w, http.StatusInternalServerError, "Internal error", "unexpected server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(contextWithRequestID(r.Context(), id)))
	})
}

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
