package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/shuv1824/weatherwise/internal/metrics"
	"github.com/shuv1824/weatherwise/internal/response"
	"github.com/shuv1824/weatherwise/internal/services/activity"
	"github.com/shuv1824/weatherwise/internal/types"
)

const Version = "1.0"

type WeatherProvider interface {
	GetWeather(ctx context.Context, city string) (*types.Weather, error)
	GetWeatherByCoordinates(ctx context.Context, lat, lon float64) (*types.Weather, error)
}

type ActivityProvider interface {
	GetActivities(ctx context.Context, city string, categories []string) ([]*types.Activity, error)
	GetActivitiesByCoordinates(ctx context.Context, lat, lon float64, categories []string) ([]*types.Activity, error)
}

type Recommender interface {
	Score(weather *types.Weather, activities []*types.Activity) []types.Recommendation
}

type RecommendationHandler struct {
	weather        WeatherProvider
	activities     ActivityProvider
	engine         Recommender
	validate       *validator.Validate
	requestTimeout time.Duration
}

func NewRecommendationHandler(weather WeatherProvider, activities ActivityProvider, engine Recommender, requestTimeout time.Duration) *RecommendationHandler {
	return &RecommendationHandler{
		weather:        weather,
		activities:     activities,
		engine:         engine,
		validate:       validator.New(),
		requestTimeout: requestTimeout,
	}
}

// Health returns a simple health check response
func Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// APIInfo describes the running service
func APIInfo(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, types.APIInfo{
		Message: "WeatherWise Travel API",
		Version: Version,
		Details: "Running",
	})
}

// GetRecommendations scores activities in a city against its current weather
func (h *RecommendationHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "Missing city parameter")
		return
	}
	categories, ok := h.categories(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	h.recommend(ctx, w,
		func(ctx context.Context) (*types.Weather, error) { return h.weather.GetWeather(ctx, city) },
		func(ctx context.Context) ([]*types.Activity, error) {
			return h.activities.GetActivities(ctx, city, categories)
		},
		"Weather NOT FOUND for city: "+city,
		"Activities NOT FOUND for city: "+city,
	)
}

// GetRecommendationsByCoordinates scores activities around a coordinate pair
func (h *RecommendationHandler) GetRecommendationsByCoordinates(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.coordinates(w, r)
	if !ok {
		return
	}
	categories, ok := h.categories(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	h.recommend(ctx, w,
		func(ctx context.Context) (*types.Weather, error) {
			return h.weather.GetWeatherByCoordinates(ctx, loc.Lat, loc.Long)
		},
		func(ctx context.Context) ([]*types.Activity, error) {
			return h.activities.GetActivitiesByCoordinates(ctx, loc.Lat, loc.Long, categories)
		},
		fmt.Sprintf("Weather NOT FOUND for coordinates: [%v, %v]", loc.Lat, loc.Long),
		fmt.Sprintf("Activities NOT FOUND near coordinates: [%v, %v]", loc.Lat, loc.Long),
	)
}

// recommend fetches weather and activities concurrently, then scores them.
// A weather failure is reported before an activity failure.
func (h *RecommendationHandler) recommend(
	ctx context.Context,
	w http.ResponseWriter,
	fetchWeather func(context.Context) (*types.Weather, error),
	fetchActivities func(context.Context) ([]*types.Activity, error),
	weatherNotFound, activitiesNotFound string,
) {
	var (
		weather       *types.Weather
		activities    []*types.Activity
		weatherErr    error
		activitiesErr error
	)

	// One failure must not cancel the other fetch, so the group has no
	// shared context and both errors are kept.
	var g errgroup.Group
	g.Go(func() error {
		weather, weatherErr = fetchWeather(ctx)
		return nil
	})
	g.Go(func() error {
		activities, activitiesErr = fetchActivities(ctx)
		return nil
	})
	_ = g.Wait()

	if weatherErr != nil || weather == nil {
		h.writeError(ctx, w, weatherErr, weatherNotFound)
		return
	}
	if activitiesErr != nil || len(activities) == 0 {
		h.writeError(ctx, w, activitiesErr, activitiesNotFound)
		return
	}

	recommendations := h.engine.Score(weather, activities)
	if len(recommendations) == 0 {
		response.ErrorJSON(w, http.StatusNotFound, "Recommendation data not found")
		return
	}

	scores := make([]int, len(recommendations))
	for i, rec := range recommendations {
		scores[i] = rec.Score
	}
	metrics.ObserveRecommendations(scores)

	slog.InfoContext(ctx, "Recommendations built",
		"city", weather.City,
		"candidates", len(activities),
		"count", len(recommendations),
		"request_id", types.GetRequestID(ctx),
	)

	response.JSON(w, http.StatusOK, recommendations)
}

// GetWeather returns the current weather for the city in the path
func (h *RecommendationHandler) GetWeather(w http.ResponseWriter, r *http.Request) {
	city := mux.Vars(r)["city"]
	if city == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "Missing city parameter")
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	weather, err := h.weather.GetWeather(ctx, city)
	if err != nil || weather == nil {
		h.writeError(ctx, w, err, "Weather data not found")
		return
	}

	response.JSON(w, http.StatusOK, weather)
}

func (h *RecommendationHandler) GetWeatherByCoordinates(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.coordinates(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	weather, err := h.weather.GetWeatherByCoordinates(ctx, loc.Lat, loc.Long)
	if err != nil || weather == nil {
		h.writeError(ctx, w, err, "Weather data not found")
		return
	}

	response.JSON(w, http.StatusOK, weather)
}

// GetActivities lists catalog results for a city without scoring them
func (h *RecommendationHandler) GetActivities(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "Missing city parameter")
		return
	}
	categories, ok := h.categories(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	activities, err := h.activities.GetActivities(ctx, city, categories)
	if err != nil || len(activities) == 0 {
		h.writeError(ctx, w, err, "Activities data not found")
		return
	}

	response.JSON(w, http.StatusOK, activities)
}

func (h *RecommendationHandler) GetActivitiesByCoordinates(w http.ResponseWriter, r *http.Request) {
	loc, ok := h.coordinates(w, r)
	if !ok {
		return
	}
	categories, ok := h.categories(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.withTimeout(r.Context())
	defer cancel()

	activities, err := h.activities.GetActivitiesByCoordinates(ctx, loc.Lat, loc.Long, categories)
	if err != nil || len(activities) == 0 {
		h.writeError(ctx, w, err, "Activities data not found")
		return
	}

	response.JSON(w, http.StatusOK, activities)
}

func (h *RecommendationHandler) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, h.requestTimeout)
}

// coordinates parses and validates lat/lon. It writes a 400 and returns false on failure.
func (h *RecommendationHandler) coordinates(w http.ResponseWriter, r *http.Request) (types.Location, bool) {
	latStr := r.URL.Query().Get("lat")
	lonStr := r.URL.Query().Get("lon")
	if latStr == "" || lonStr == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "Missing lat or lon parameter")
		return types.Location{}, false
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lon, lonErr := strconv.ParseFloat(lonStr, 64)
	if latErr != nil || lonErr != nil {
		response.ErrorJSON(w, http.StatusBadRequest, "Invalid coordinate format")
		return types.Location{}, false
	}

	loc := types.Location{Lat: lat, Long: lon}
	if err := h.validate.Struct(loc); err != nil {
		response.ErrorJSON(w, http.StatusBadRequest, "Invalid coordinates")
		return types.Location{}, false
	}

	return loc, true
}

func (h *RecommendationHandler) categories(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	categories, err := activity.ParseCategories(r.URL.Query().Get("categories"))
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) {
			response.ErrorJSON(w, http.StatusBadRequest, appErr.Message)
		} else {
			response.ErrorJSON(w, http.StatusBadRequest, err.Error())
		}
		return nil, false
	}
	return categories, true
}

// writeError maps provider failures to the HTTP contract: absent or
// unreachable upstream data is a 404, anything else a 500.
func (h *RecommendationHandler) writeError(ctx context.Context, w http.ResponseWriter, err error, notFoundMsg string) {
	if err == nil {
		response.ErrorJSON(w, http.StatusNotFound, notFoundMsg)
		return
	}

	code := types.CodeOf(err)
	switch {
	case code.IsAbsence(), errors.Is(err, context.DeadlineExceeded):
		slog.WarnContext(ctx, "Upstream data unavailable",
			"error", err,
			"request_id", types.GetRequestID(ctx),
		)
		response.ErrorJSON(w, http.StatusNotFound, notFoundMsg)
	case code.HTTPStatus() == http.StatusBadRequest:
		var appErr *types.AppError
		errors.As(err, &appErr)
		response.ErrorJSON(w, http.StatusBadRequest, appErr.Message)
	default:
		slog.ErrorContext(ctx, "Request failed",
			"error", err,
			"request_id", types.GetRequestID(ctx),
		)
		response.ErrorJSON(w, http.StatusInternalServerError, "Server error: "+err.Error())
	}
}
