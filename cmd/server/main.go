package main

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/pairwise-dev/pairwise/internal/api"
	"github.com/pairwise-dev/pairwise/internal/db"
	"github.com/pairwise-dev/pairwise/internal/logger"
	"github.com/pairwise-dev/pairwise/internal/metrics"
	"github.com/pairwise-dev/pairwise/internal/middleware"
	"github.com/pairwise-dev/pairwise/internal/services"
	"github.com/pairwise-dev/pairwise/internal/utils"
)

func main() {
	log, err := logger.New(utils.SafeEnvBool("PAIRWISE_LOG_JSON", false), utils.SafeEnvBool("PAIRWISE_LOG_DEBUG", false))
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	addr := utils.SafeEnv("PAIRWISE_ADDR", ":8080")
	commit := os.Getenv("PAIRWISE_COMMIT")
	buildTime := os.Getenv("PAIRWISE_BUILD_TIME")

	cfg, err := services.ParseMatchConfig(os.Getenv("PAIRWISE_MULTI_QUESTIONS"))
	if err != nil {
		log.Fatal("invalid PAIRWISE_MULTI_QUESTIONS", zap.Error(err))
	}

	store, err := openStore(log)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}

	mux := http.NewServeMux()
	api.NewRouter(store, log, cfg).Register(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "Pairwise API",
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	mux.Handle("/metrics", metrics.Handler())

	handler := middleware.CORS(middleware.NoStore(middleware.WithAuth(mux)))

	log.Info("server listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

// openStore opens the sqlite-backed store when PAIRWISE_SQLITE_PATH is set,
// otherwise falls back to the in-memory store for local development.
func openStore(log *zap.Logger) (api.Store, error) {
	path := os.Getenv("PAIRWISE_SQLITE_PATH")
	if path == "" {
		log.Info("no sqlite path configured, using in-memory store")
		return api.NewMemoryStore(), nil
	}
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(sqlDB, os.Getenv("PAIRWISE_MIGRATIONS_DIR")); err != nil {
		return nil, err
	}
	log.Info("sqlite store ready", zap.String("path", path))
	return db.NewStore(sqlDB, log)
}
