package weather

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/shuv1824/weatherwise/internal/types"
	"github.com/shuv1824/weatherwise/internal/upstream"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Getter issues upstream GET requests
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// WeatherService resolves current weather through the OpenWeatherMap API
type WeatherService struct {
	client  Getter
	baseURL string
	apiKey  string
	lang    string
}

type Config struct {
	BaseURL string
	APIKey  string
	Lang    string
}

func NewWeatherService(client Getter, cfg Config) *WeatherService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &WeatherService{
		client:  client,
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		lang:    cfg.Lang,
	}
}

// NewDefaultWeatherService wires the service to an upstream client
func NewDefaultWeatherService(httpClient upstream.Doer, cfg Config, opts ...upstream.Option) *WeatherService {
	return NewWeatherService(upstream.New("openweathermap", httpClient, opts...), cfg)
}

// GetWeather fetches the current weather for a city name
func (s *WeatherService) GetWeather(ctx context.Context, city string) (*types.Weather, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, types.NewAppError(types.ErrCodeValidationMissingCity, "city name cannot be empty", nil)
	}

	q := url.Values{}
	q.Set("q", city)

	return s.fetch(ctx, q)
}

// GetWeatherByCoordinates fetches the current weather at a coordinate pair
func (s *WeatherService) GetWeatherByCoordinates(ctx context.Context, lat, lon float64) (*types.Weather, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	return s.fetch(ctx, q)
}

func (s *WeatherService) fetch(ctx context.Context, q url.Values) (*types.Weather, error) {
	q.Set("appid", s.apiKey)
	q.Set("units", "metric")
	if s.lang != "" {
		q.Set("lang", s.lang)
	}

	resp, err := s.client.Get(ctx, s.baseURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, types.NewAppError(types.ErrCodeNotFoundWeather, "weather location not found", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		slog.WarnContext(ctx, "weather API returned non-200",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return nil, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("weather API returned status %d", resp.StatusCode),
			nil,
		)
	}

	var data types.OpenWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamBadPayload, "failed to decode weather response", err)
	}

	return toWeather(data)
}

func toWeather(data types.OpenWeatherResponse) (*types.Weather, error) {
	if len(data.Weather) == 0 {
		return nil, types.NewAppError(types.ErrCodeUpstreamBadPayload, "weather response has no conditions", nil)
	}

	return &types.Weather{
		City:        data.Name,
		Temperature: data.Main.Temp,
		Condition:   data.Weather[0].Main,
		Description: data.Weather[0].Description,
		Humidity:    data.Main.Humidity,
		WindSpeed:   data.Wind.Speed,
	}, nil
}
