package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shuv1824/weatherwise/internal/config"
	"github.com/shuv1824/weatherwise/internal/handler"
	"github.com/shuv1824/weatherwise/internal/middleware"
	"github.com/shuv1824/weatherwise/internal/services/activity"
	"github.com/shuv1824/weatherwise/internal/services/recommendation"
	"github.com/shuv1824/weatherwise/internal/services/weather"
	"github.com/shuv1824/weatherwise/internal/upstream"
)

func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := setupLogger(cfg.LogLevel, cfg.IsLocal())
	slog.SetDefault(logger)

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		Handler:           newHandler(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("starting api server", "env", cfg.AppEnv)

	return startServer(server, cfg.Server.ShutdownTimeout)
}

// newHandler builds the services and the full middleware chain
func newHandler(cfg *config.Config) http.Handler {
	httpClient := upstream.NewHTTPClient(cfg.Upstream.Timeout)
	retry := upstream.DefaultRetryPolicy()
	retry.MaxRetries = cfg.Upstream.MaxRetries

	weatherService := weather.NewDefaultWeatherService(httpClient, weather.Config{
		BaseURL: cfg.Weather.BaseURL,
		APIKey:  cfg.Weather.APIKey,
		Lang:    cfg.Weather.Lang,
	}, upstream.WithRetryPolicy(retry))

	activityService := activity.NewDefaultActivityService(httpClient, activity.Config{
		BaseURL:            cfg.Nominatim.BaseURL,
		CountryCodes:       cfg.Nominatim.CountryCodes,
		ResultsPerCategory: cfg.Nominatim.ResultsPerCategory,
		SearchRadiusKM:     cfg.Nominatim.SearchRadiusKM,
		Concurrency:        cfg.Nominatim.Concurrency,
		RatePerSecond:      cfg.Nominatim.RatePerSecond,
	},
		upstream.WithRetryPolicy(retry),
		upstream.WithUserAgent(cfg.Nominatim.UserAgent),
	)

	engine := recommendation.NewEngine(recommendation.WithMaxResults(cfg.Recommendation.MaxResults))
	slog.Debug("recommendation engine ready", "max_results", engine.MaxResults())
	recommendationHandler := handler.NewRecommendationHandler(weatherService, activityService, engine, cfg.Server.RequestTimeout)

	r := mux.NewRouter()
	r.Use(middleware.Metrics)
	r.NotFoundHandler = middleware.Metrics(middleware.NotFound())
	r.MethodNotAllowedHandler = middleware.Metrics(middleware.MethodNotAllowed())

	// Health check
	r.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	r.HandleFunc("/api", handler.APIInfo).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API v1 subrouter
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))

	api.HandleFunc("/recommendations", recommendationHandler.GetRecommendations).Methods(http.MethodGet)
	api.HandleFunc("/recommendations/coordinates", recommendationHandler.GetRecommendationsByCoordinates).Methods(http.MethodGet)

	// coordinates must be registered before the {city} pattern
	api.HandleFunc("/weather/coordinates", recommendationHandler.GetWeatherByCoordinates).Methods(http.MethodGet)
	api.HandleFunc("/weather/{city}", recommendationHandler.GetWeather).Methods(http.MethodGet)

	api.HandleFunc("/activities", recommendationHandler.GetActivities).Methods(http.MethodGet)
	api.HandleFunc("/activities/coordinates", recommendationHandler.GetActivitiesByCoordinates).Methods(http.MethodGet)

	if cfg.Server.StaticDir != "" {
		slog.Info("serving static files", "dir", cfg.Server.StaticDir)
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.Server.StaticDir)))
	}

	var h http.Handler = r

	h = middleware.RequestID(h)

	// Recovery (catches panics)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(cfg.IsLocal()))(h)

	// CORS
	h = handlers.CORS(
		handlers.AllowedOrigins(cfg.Server.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
	)(h)

	// Logging
	h = handlers.LoggingHandler(os.Stdout, h)

	return h
}

func setupLogger(level string, local bool) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	if local {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func startServer(server *http.Server, shutdownTimeout time.Duration) error {
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

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			_ = server.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}

		slog.Info("server stopped gracefully")
	}

	return nil
}
