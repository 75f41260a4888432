package activity

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/shuv1824/weatherwise/internal/metrics"
	"github.com/shuv1824/weatherwise/internal/types"
	"github.com/shuv1824/weatherwise/internal/upstream"
)

const (
	DefaultBaseURL = "https://nominatim.openstreetmap.org/search"

	kmPerDegree = 111.0
)

// Getter issues upstream GET requests
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

type Config struct {
	BaseURL            string
	CountryCodes       string
	ResultsPerCategory int
	SearchRadiusKM     float64
	// Concurrency bounds in-flight category searches per request
	Concurrency int
	// RatePerSecond throttles searches across all requests
	RatePerSecond float64
}

func DefaultConfig() Config {
	return Config{
		BaseURL:            DefaultBaseURL,
		CountryCodes:       "se",
		ResultsPerCategory: 10,
		SearchRadiusKM:     20,
		Concurrency:        2,
		RatePerSecond:      1,
	}
}

// ActivityService searches places per category through the Nominatim API
type ActivityService struct {
	client  Getter
	limiter *rate.Limiter
	cfg     Config
}

func NewActivityService(client Getter, cfg Config) *ActivityService {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.ResultsPerCategory <= 0 {
		cfg.ResultsPerCategory = def.ResultsPerCategory
	}
	if cfg.SearchRadiusKM <= 0 {
		cfg.SearchRadiusKM = def.SearchRadiusKM
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = def.Concurrency
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), 1)
	}

	return &ActivityService{
		client:  client,
		limiter: limiter,
		cfg:     cfg,
	}
}

// NewDefaultActivityService wires the service to an upstream client
func NewDefaultActivityService(httpClient upstream.Doer, cfg Config, opts ...upstream.Option) *ActivityService {
	return NewActivityService(upstream.New("nominatim", httpClient, opts...), cfg)
}

// GetActivities searches every category within a city
func (s *ActivityService) GetActivities(ctx context.Context, city string, categories []string) ([]*types.Activity, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil, types.NewAppError(types.ErrCodeValidationMissingCity, "city name cannot be empty", nil)
	}

	activities, err := s.search(ctx, categories, func(category string) string {
		return s.cityURL(city, category)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Found activities", "city", city, "count", len(activities))
	return activities, nil
}

// GetActivitiesByCoordinates searches every category inside a box around the coordinates
func (s *ActivityService) GetActivitiesByCoordinates(ctx context.Context, lat, lon float64, categories []string) ([]*types.Activity, error) {
	activities, err := s.search(ctx, categories, func(category string) string {
		return s.coordinatesURL(lat, lon, category)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Found activities near coordinates", "lat", lat, "lon", lon, "count", len(activities))
	return activities, nil
}

// search runs one query per category concurrently. A failing category,
// including one that cannot get a throttle slot before ctx ends, is logged
// and skipped; results keep the order of categories. Categories that did
// complete are returned even when ctx has ended.
func (s *ActivityService) search(ctx context.Context, categories []string, buildURL func(category string) string) ([]*types.Activity, error) {
	if len(categories) == 0 {
		categories = DefaultCategories
	}

	results := make([][]*types.Activity, len(categories))

	// Siblings must keep running when one category fails, so the group has
	// no derived context.
	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)

	for i, category := range categories {
		category := types.NormalizeCategory(category)
		g.Go(func() error {
			if err := s.limiter.Wait(ctx); err != nil {
				s.skipCategory(ctx, category, "Category search not throttled in time", err)
				return nil
			}

			found, err := s.searchCategory(ctx, buildURL(category), category)
			if err != nil {
				s.skipCategory(ctx, category, "Category search failed", err)
				return nil
			}
			results[i] = found
			return nil
		})
	}
	_ = g.Wait()

	var activities []*types.Activity
	for _, found := range results {
		activities = append(activities, found...)
	}

	if len(activities) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, types.NewAppError(types.ErrCodeUpstreamUnavailable, "activity search did not finish", err)
		}
	}
	return activities, nil
}

func (s *ActivityService) skipCategory(ctx context.Context, category, msg string, err error) {
	metrics.CategorySearchFailures.WithLabelValues(category).Inc()
	slog.WarnContext(ctx, msg,
		"category", category,
		"error", err,
		"request_id", types.GetRequestID(ctx),
	)
}

func (s *ActivityService) searchCategory(ctx context.Context, searchURL, category string) ([]*types.Activity, error) {
	resp, err := s.client.Get(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, types.NewAppError(
			types.ErrCodeUpstreamUnavailable,
			fmt.Sprintf("place search returned status %d", resp.StatusCode),
			nil,
		)
	}

	var places []types.NominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, types.NewAppError(types.ErrCodeUpstreamBadPayload, "failed to decode place search response", err)
	}

	return toActivities(ctx, places, category), nil
}

func toActivities(ctx context.Context, places []types.NominatimPlace, category string) []*types.Activity {
	activities := make([]*types.Activity, 0, len(places))
	for _, p := range places {
		lat, err := strconv.ParseFloat(p.Lat, 64)
		if err != nil {
			slog.DebugContext(ctx, "Skipping place with invalid latitude", "place_id", p.PlaceID, "lat", p.Lat)
			continue
		}
		lon, err := strconv.ParseFloat(p.Lon, 64)
		if err != nil {
			slog.DebugContext(ctx, "Skipping place with invalid longitude", "place_id", p.PlaceID, "lon", p.Lon)
			continue
		}

		activities = append(activities, &types.Activity{
			ID:        p.PlaceID,
			Name:      p.DisplayName,
			Category:  category,
			Latitude:  lat,
			Longitude: lon,
			Indoor:    IsIndoor(p.Type),
		})
	}
	return activities
}

func (s *ActivityService) cityURL(city, category string) string {
	q := s.baseQuery()
	q.Set("q", city+" "+category)
	return s.cfg.BaseURL + "?" + q.Encode()
}

// coordinatesURL bounds the search to a square of SearchRadiusKM around the point.
// Nominatim expects viewbox as left,top,right,bottom.
func (s *ActivityService) coordinatesURL(lat, lon float64, category string) string {
	radius := s.cfg.SearchRadiusKM / kmPerDegree

	viewbox := strings.Join([]string{
		formatFloat(lon - radius),
		formatFloat(lat + radius),
		formatFloat(lon + radius),
		formatFloat(lat - radius),
	}, ",")

	q := s.baseQuery()
	q.Set("q", category)
	q.Set("viewbox", viewbox)
	q.Set("bounded", "1")
	return s.cfg.BaseURL + "?" + q.Encode()
}

func (s *ActivityService) baseQuery() url.Values {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(s.cfg.ResultsPerCategory))
	if s.cfg.CountryCodes != "" {
		q.Set("countrycodes", s.cfg.CountryCodes)
	}
	return q
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}
