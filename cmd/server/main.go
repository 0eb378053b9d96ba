// Package main runs the investigation HTTP service:
// - GET /api/investigate/{mint}         full AI-augmented investigation
// - GET /api/investigate/{mint}?mode=quick   numeric-only quick scan
// - /health, /status, /metrics
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Ticoworld/veritas/internal/domain"
	"github.com/Ticoworld/veritas/internal/evidence"
	"github.com/Ticoworld/veritas/internal/investigator"
	"github.com/Ticoworld/veritas/internal/judgment"
	"github.com/Ticoworld/veritas/internal/observability"
	"github.com/Ticoworld/veritas/internal/solana"
	"github.com/Ticoworld/veritas/internal/storage"
	chstore "github.com/Ticoworld/veritas/internal/storage/clickhouse"
	"github.com/Ticoworld/veritas/internal/storage/memory"
	"github.com/Ticoworld/veritas/internal/storage/migrations"
	pgstore "github.com/Ticoworld/veritas/internal/storage/postgres"
)

// Server holds the wired investigator and request counters.
type Server struct {
	inv    *investigator.Investigator
	logger *log.Logger

	started time.Time

	mu          sync.Mutex
	requests    atomic.Int64
	lastRequest time.Time
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Solana RPC HTTP endpoint")
	geminiKey := flag.String("gemini-api-key", os.Getenv("GEMINI_API_KEY"), "Gemini API key")
	geminiModel := flag.String("gemini-model", envOr("GEMINI_MODEL", judgment.DefaultModel), "Gemini model name")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (offender registry)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (verdict archive)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	screenshotKey := flag.String("screenshot-key", os.Getenv("SCREENSHOT_API_KEY"), "Hosted screenshot API access key")
	localCapture := flag.Bool("local-capture", true, "Enable the local headless-browser screenshot fallback")
	marketEndpoint := flag.String("market-endpoint", envOr("MARKET_ENDPOINT", evidence.DefaultMarketEndpoint), "Market aggregator endpoint")
	auditEndpoint := flag.String("audit-endpoint", envOr("AUDIT_ENDPOINT", evidence.DefaultAuditEndpoint), "Contract auditor endpoint")
	resultTTL := flag.Duration("result-ttl", investigator.DefaultResultTTL, "Completed-result cache TTL")
	listenAddr := flag.String("listen-addr", ":8080", "HTTP listen address")
	verbose := flag.Bool("verbose", true, "Verbose phase logging")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Validate required flags
	if *rpcEndpoint == "" {
		logger.Fatal("--rpc-endpoint is required")
	}
	if *geminiKey == "" {
		logger.Fatal("--gemini-api-key is required")
	}
	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create stores
	offenders, archive, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Create reasoning engine
	engine, err := judgment.NewGeminiEngine(ctx, *geminiKey, *geminiModel)
	if err != nil {
		logger.Fatalf("Failed to create reasoning engine: %v", err)
	}

	// Create capture chain: hosted API first, local browser fallback
	var providers []evidence.Capturer
	if *screenshotKey != "" {
		providers = append(providers, evidence.NewAPICapturer(evidence.DefaultScreenshotEndpoint, *screenshotKey, nil))
	}
	if *localCapture {
		providers = append(providers, evidence.NewChromeCapturer())
	}
	var capturer evidence.Capturer
	if len(providers) > 0 {
		capturer = evidence.NewChainCapturer(providers...)
	}

	metrics := observability.NewMetrics("veritas")

	inv := investigator.New(investigator.Options{
		Ledger:    solana.NewHTTPClient(*rpcEndpoint),
		Market:    evidence.NewMarketClient(*marketEndpoint, nil),
		Audit:     evidence.NewAuditClient(*auditEndpoint, nil),
		Engine:    engine,
		Offenders: offenders,
		Capturer:  capturer,
		Archive:   archive,
		Metrics:   metrics,
		ResultTTL: *resultTTL,
		Logger:    log.New(os.Stdout, "", log.LstdFlags|log.Lshortfile),
		Verbose:   *verbose,
	})

	server := &Server{
		inv:     inv,
		logger:  logger,
		started: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", server.handleStatus)
	mux.HandleFunc("/api/investigate/", server.handleInvestigate)

	httpServer := &http.Server{
		Addr:              *listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
	}()

	logger.Printf("Listening on %s", *listenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates the offender registry and verdict archive.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (storage.OffenderStore, storage.VerdictArchive, func(), error) {
	if useMemory {
		return memory.NewOffenderStore(), memory.NewVerdictArchive(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	// ClickHouse is optional; without it verdicts are not archived.
	if clickhouseDSN == "" {
		return pgstore.NewOffenderStore(pool), nil, pool.Close, nil
	}

	conn, err := chstore.NewConn(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}
	if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
		conn.Close()
		pool.Close()
		return nil, nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
	}

	cleanup := func() {
		conn.Close()
		pool.Close()
	}
	return pgstore.NewOffenderStore(pool), chstore.NewVerdictArchive(conn), cleanup, nil
}

// handleInvestigate serves both lanes of the investigation API.
func (s *Server) handleInvestigate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	mint := strings.TrimPrefix(r.URL.Path, "/api/investigate/")
	if mint == "" || strings.Contains(mint, "/") {
		http.Error(w, "missing mint address", http.StatusBadRequest)
		return
	}

	s.requests.Add(1)
	s.mu.Lock()
	s.lastRequest = time.Now()
	s.mu.Unlock()

	var (
		result *domain.InvestigationResult
		err    error
	)
	if r.URL.Query().Get("mode") == "quick" {
		result, err = s.inv.QuickScan(r.Context(), mint)
	} else {
		result, err = s.inv.Investigate(r.Context(), mint)
	}

	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, domain.ErrInvalidSubject):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrAssetNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrReasoningFailed):
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	// Strip raw screenshot bytes from the response; callers get the
	// source URL and provider instead.
	if result.Visual != nil {
		redacted := *result
		visual := *result.Visual
		visual.Image = nil
		redacted.Visual = &visual
		result = &redacted
	}

	writeJSON(w, http.StatusOK, result)
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status      string    `json:"status"`
	Uptime      string    `json:"uptime"`
	Requests    int64     `json:"requests"`
	LastRequest time.Time `json:"last_request,omitempty"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	last := s.lastRequest
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, StatusResponse{
		Status:      "running",
		Uptime:      time.Since(s.started).String(),
		Requests:    s.requests.Load(),
		LastRequest: last,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// envOr returns the env var value or a default.
func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
