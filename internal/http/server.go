// Package http is the API gateway: it translates the JSON surface into
// repository and aggregation calls and is the single place where
// internal errors become response shapes.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"homeledger/internal/core"
	"homeledger/internal/log"
)

// Ports the gateway depends on, implemented by the services layer.
type (
	ExpenseWriter interface {
		Add(ctx context.Context, e core.Expense) (core.Expense, error)
	}

	ExpenseLister interface {
		List(ctx context.Context) ([]core.Expense, error)
	}

	BudgetReader interface {
		Get(ctx context.Context) (*core.Budget, error)
	}

	BudgetWriter interface {
		Set(ctx context.Context, b core.Budget) (core.Budget, error)
	}

	SummaryReader interface {
		Summarize(ctx context.Context) (core.Summary, error)
	}
)

type Server struct {
	http.Server
	expWriter   ExpenseWriter
	expLister   ExpenseLister
	budReader   BudgetReader
	budWriter   BudgetWriter
	summaries   SummaryReader
	allowOrigin string

	rateLimiter  *rateLimiter
	summaryCache *summaryCache
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a
// ready-to-run http.Server.
func NewServer(addr, allowOrigin string, ew ExpenseWriter, el ExpenseLister, br BudgetReader, bw BudgetWriter, sr SummaryReader) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		expWriter:    ew,
		expLister:    el,
		budReader:    br,
		budWriter:    bw,
		summaries:    sr,
		allowOrigin:  allowOrigin,
		rateLimiter:  newRateLimiter(),
		summaryCache: newSummaryCache(30 * time.Second),
	}

	mux.HandleFunc("/api/expenses", s.withMiddleware(s.handleExpenses))
	mux.HandleFunc("/api/budget", s.withMiddleware(s.handleBudget))
	mux.HandleFunc("/api/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	return s
}

// Shutdown stops the listener and the rate limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds request tracing, CORS, rate limiting on writes,
// and request/completion logging around a handler.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		// The API is consumed from a separately hosted client.
		w.Header().Set("Access-Control-Allow-Origin", s.allowOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")

		slog.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP,
			log.FieldUserAgent, r.Header.Get("User-Agent"))

		// Rate-limited requests go through the wrapped writer too, so
		// the access log stays uniform: every request gets a
		// completion line with its status.
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				log.FieldRequestID, requestID,
				log.FieldClientIP, clientIP,
				log.FieldPath, r.URL.Path)
			rw.Header().Set("Retry-After", "60")
			writeJSON(ctx, rw, http.StatusTooManyRequests,
				errorBody("rate limit exceeded, please try again later"))
		} else {
			next(rw, r)
		}

		slog.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter captures the status code for completion logging.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// summaryCache holds the last computed summary for a short TTL. Any
// successful write invalidates it, so a client posting an expense and
// immediately re-reading the dashboard sees fresh numbers.
type summaryCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	value     core.Summary
	ok        bool
	expiresAt time.Time
}

func newSummaryCache(ttl time.Duration) *summaryCache {
	return &summaryCache{ttl: ttl}
}

func (c *summaryCache) get() (core.Summary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ok || time.Now().After(c.expiresAt) {
		return core.Summary{}, false
	}
	return c.value, true
}

func (c *summaryCache) set(v core.Summary) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = v
	c.ok = true
	c.expiresAt = time.Now().Add(c.ttl)
}

func (c *summaryCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ok = false
}

// rateLimiter allows up to 60 write requests per client per minute.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
