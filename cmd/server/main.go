package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/nivke/cartmate/internal/config"
	"github.com/nivke/cartmate/internal/inference"
	"github.com/nivke/cartmate/internal/middleware"
	"github.com/nivke/cartmate/internal/service"
	"github.com/nivke/cartmate/internal/state"
	"github.com/nivke/cartmate/internal/storage/sqlite"
	"github.com/nivke/cartmate/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	// Seed application state from the store.
	controller := state.NewController(store)
	controller.Load(context.Background())

	// Classification is optional: without an API key every add falls back
	// to the default category.
	var classifier inference.Classifier
	if cfg.GeminiAPIKey != "" {
		classifier = inference.NewGemini(cfg.GeminiEndpoint, cfg.GeminiModel, cfg.GeminiAPIKey, cfg.InferenceTimeout)
		slog.Info("Classification enabled", "model", cfg.GeminiModel)
	} else {
		classifier = inference.Disabled{}
		slog.Info("Classification disabled, no API key configured")
	}

	mux := http.NewServeMux()
	service.New(controller, classifier, cfg.ShareBaseURL).Register(mux)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Serve the front end; unknown paths fall back to index.html so the
	// share link (any path carrying ?sync=) always lands in the app.
	staticDir, err := filepath.Abs(cfg.StaticDir)
	if err != nil {
		slog.Error("Failed to resolve static path", "error", err)
		os.Exit(1)
	}
	slog.Info("Serving static files", "path", staticDir)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	})

	handler := middleware.Logging(middleware.Metrics(middleware.CORS(mux)))

	// Wrap with h2c for HTTP/2 without TLS.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	slog.Info("Server starting", "address", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
