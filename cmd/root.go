package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/wayfarer/planner/internal/config"
	"github.com/wayfarer/planner/internal/handler"
	"github.com/wayfarer/planner/internal/llm"
	"github.com/wayfarer/planner/internal/services/forecast"
	"github.com/wayfarer/planner/internal/services/geocode"
	"github.com/wayfarer/planner/internal/services/itinerary"
	"github.com/wayfarer/planner/internal/services/search"
)

func Run() error {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	geocoder := geocode.NewService(cfg)
	forecaster := forecast.NewService(cfg)
	searcher := search.NewService(cfg)
	generator := llm.NewClient(cfg, searcher)

	planner := itinerary.NewPlanner(geocoder, forecaster, llmGenerator{generator})
	itineraryHandler := handler.NewItineraryHandler(planner)

	// Initialize router
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	// API v1 subrouter
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/itinerary", itineraryHandler.CreateItinerary).Methods(http.MethodPost)

	var h http.Handler = r

	// Recovery (catches panics)
	h = handlers.RecoveryHandler()(h)

	// CORS
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST"}),
	)(h)

	// Logging
	h = handlers.LoggingHandler(os.Stdout, h)

	slog.Info("starting api server", "model", cfg.OllamaModel)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: h,
	}

	return startServer(server)
}

// llmGenerator adapts the concrete LLM client to the planner's Generator
// interface.
type llmGenerator struct {
	client *llm.Client
}

func (g llmGenerator) Generate(ctx context.Context, prompt string) (itinerary.TextStream, error) {
	return g.client.Generate(ctx, prompt)
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}

	if cfg.Env == "development" {
		h = slog.NewTextHandler(os.Stdout, opts)
	} else {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(h)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func startServer(server *http.Server) error {
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverError := make(chan error, 1)

	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case err := <-serverError:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			_ = server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		slog.Info("server stopped gracefully")
	}

	return nil
}
