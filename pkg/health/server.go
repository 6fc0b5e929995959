package health

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/speedrun-hq/wethcycle/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// LoopStatus describes one action loop
type LoopStatus struct {
	State        string `json:"state"`
	Confirmed    int    `json:"confirmed"`
	Failed       int    `json:"failed"`
	AmountMoved  string `json:"amount_moved_eth"`
	FeesSpent    string `json:"fees_spent_eth"`
	TokenBalance string `json:"last_known_weth_balance"`
}

// Status is served on /status
type Status struct {
	ChainID             int                   `json:"chain_id"`
	ChainName           string                `json:"chain_name,omitempty"`
	Account             string                `json:"account"`
	Contract            string                `json:"contract"`
	LatestBlock         uint64                `json:"latest_block,omitempty"`
	PendingTransactions int                   `json:"pending_transactions"`
	Loops               map[string]LoopStatus `json:"loops"`
}

// StatusProvider supplies readiness and status to the server
type StatusProvider interface {
	Ready(ctx context.Context) error
	Status(ctx context.Context) Status
}

// Server represents a health check HTTP server
type Server struct {
	port          string
	metricsAPIKey string
	provider      StatusProvider
	logger        logger.Logger
}

// NewServer creates a new health check server
func NewServer(port string, metricsAPIKey string, provider StatusProvider, logger logger.Logger) *Server {
	return &Server{
		port:          port,
		metricsAPIKey: metricsAPIKey,
		provider:      provider,
		logger:        logger,
	}
}

// metricsAuthMiddleware is a middleware that checks for a valid API key
func (s *Server) metricsAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth if no API key is configured
		if s.metricsAPIKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		// Get API key from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		// Check if the header has the correct format
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		// Validate API key
		if parts[1] != s.metricsAPIKey {
			http.Error(w, "Invalid API key", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Handler returns the routes served by the health server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Readiness check
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := s.provider.Ready(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(fmt.Sprintf("Not ready: %v", err)))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Ready"))
	})

	// Loop status endpoint
	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s.provider.Status(r.Context())); err != nil {
			s.logger.Error("Error encoding status JSON: %v", err)
		}
	})

	// Expose Prometheus metrics with API key authentication
	mux.Handle("/metrics", s.metricsAuthMiddleware(promhttp.Handler()))

	return mux
}

// Start serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Starting health and metrics server on port %s", s.port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Health server error: %v", err)
		return err
	}
	return nil
}
