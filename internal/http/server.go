// Package http exposes the transaction tracker as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"tracker/internal/cache"
	"tracker/internal/core"
	applog "tracker/internal/log"
)

// LedgerService is the slice of the ledger the handlers need. Reads never
// return errors; a degraded backend surfaces as zero/empty payloads.
type LedgerService interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context) []core.Transaction
	ListTransactionsForMonth(ctx context.Context, year int, month time.Month) []core.Transaction
	GetSummary(ctx context.Context) core.Summary
	GetSummaryForWindow(ctx context.Context, w core.Window) core.Summary
	GetStats(ctx context.Context, w core.Window) core.StatsReport
	GetCalendarData(ctx context.Context, year int, month time.Month) map[string]*core.DayData
}

type Server struct {
	http.Server
	ledger      LedgerService
	ready       func(context.Context) error
	rateLimiter *rateLimiter
	access      *applog.StructuredLogger

	// Aggregate responses are cached per query key. Any write clears both
	// caches because one transaction can change every report.
	statsCache    *cache.LRUCache[core.StatsReport]
	calendarCache *cache.LRUCache[map[string]*core.DayData]

	cacheManager *cache.Manager
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. The ready func is probed by /readyz and may be nil.
func NewServer(addr string, ledger LedgerService, ready func(context.Context) error) *Server {
	mux := http.NewServeMux()
	logger := applog.New(applog.ComponentConfig(applog.ComponentHTTP))

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: applog.Middleware(logger)(mux),
		},
		ledger:        ledger,
		ready:         ready,
		rateLimiter:   newRateLimiter(),
		access:        applog.NewStructuredLogger(logger),
		statsCache:    cache.NewLRUCache[core.StatsReport](100, 5*time.Minute),
		calendarCache: cache.NewLRUCache[map[string]*core.DayData](100, 5*time.Minute),
		cacheManager:  cache.NewManager(),
	}

	s.cacheManager.Register(s.statsCache)
	s.cacheManager.Register(s.calendarCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("POST /api/transactions", s.withSecurityHeaders(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withSecurityHeaders(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withSecurityHeaders(s.handleDeleteTransaction))
	mux.HandleFunc("GET /api/transactions", s.withSecurityHeaders(s.handleListTransactions))
	mux.HandleFunc("GET /api/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("GET /api/stats", s.withSecurityHeaders(s.handleStats))
	mux.HandleFunc("GET /api/calendar", s.withSecurityHeaders(s.handleCalendar))
	mux.HandleFunc("GET /api/categories", s.withSecurityHeaders(s.handleCategories))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// invalidateAggregates drops every cached report after a write.
func (s *Server) invalidateAggregates() {
	s.statsCache.Clear()
	s.calendarCache.Clear()
}

// withSecurityHeaders adds security headers, rate limiting, request ids and
// request logging to a handler.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		// Tag the request-scoped logger with the id so handler logs and
		// both access lines correlate.
		requestID := generateRequestID()
		reqLogger := applog.FromContext(r.Context()).With(applog.FieldRequestID, requestID)
		ctx := applog.WithLoggerContext(r.Context(), reqLogger)
		r = r.WithContext(ctx)

		s.access.LogHTTPStart(ctx, r, requestID, clientIP)

		// Rate limit mutations only; reads are cheap and cached.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			reqLogger.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, writeResult{Success: false, Error: "rate limit exceeded, try again later"})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.access.LogHTTPEnd(ctx, r, requestID, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
