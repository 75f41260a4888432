package weather

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuv1824/weatherwise/internal/types"
	"github.com/shuv1824/weatherwise/internal/upstream"
)

// mockTransport is a mock HTTP transport for testing
type mockTransport struct {
	status   int
	body     string
	requests []*http.Request
}

func (m *mockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	return &http.Response{
		StatusCode: m.status,
		Body:       io.NopCloser(strings.NewReader(m.body)),
		Header:     make(http.Header),
	}, nil
}

func newTestService(t *testing.T, transport *mockTransport) *WeatherService {
	t.Helper()
	return NewDefaultWeatherService(
		&http.Client{Transport: transport},
		Config{APIKey: "test-key", Lang: "sv"},
		upstream.WithRetryPolicy(upstream.RetryPolicy{MaxRetries: 0, MinWait: time.Millisecond, MaxWait: time.Millisecond}),
	)
}

const stockholmJSON = `{
	"name": "Stockholm",
	"main": {"temp": 4.5, "humidity": 87},
	"wind": {"speed": 6.2},
	"weather": [{"main": "Rain", "description": "lätt regn"}]
}`

func TestGetWeather(t *testing.T) {
	transport := &mockTransport{status: http.StatusOK, body: stockholmJSON}
	svc := newTestService(t, transport)

	weather, err := svc.GetWeather(context.Background(), "Stockholm")
	require.NoError(t, err)

	assert.Equal(t, &types.Weather{
		City:        "Stockholm",
		Temperature: 4.5,
		Condition:   "Rain",
		Description: "lätt regn",
		Humidity:    87,
		WindSpeed:   6.2,
	}, weather)

	require.Len(t, transport.requests, 1)
	q := transport.requests[0].URL.Query()
	assert.Equal(t, "Stockholm", q.Get("q"))
	assert.Equal(t, "test-key", q.Get("appid"))
	assert.Equal(t, "metric", q.Get("units"))
	assert.Equal(t, "sv", q.Get("lang"))
	assert.Equal(t, "api.openweathermap.org", transport.requests[0].URL.Host)
}

func TestGetWeatherEscapesCity(t *testing.T) {
	transport := &mockTransport{status: http.StatusOK, body: stockholmJSON}
	svc := newTestService(t, transport)

	_, err := svc.GetWeather(context.Background(), "São Paulo&appid=x")
	require.NoError(t, err)

	q := transport.requests[0].URL.Query()
	assert.Equal(t, "São Paulo&appid=x", q.Get("q"))
	assert.Equal(t, []string{"test-key"}, q["appid"])
}

func TestGetWeatherByCoordinates(t *testing.T) {
	transport := &mockTransport{status: http.StatusOK, body: stockholmJSON}
	svc := newTestService(t, transport)

	weather, err := svc.GetWeatherByCoordinates(context.Background(), 59.3293, 18.0686)
	require.NoError(t, err)
	assert.Equal(t, "Stockholm", weather.City)

	q := transport.requests[0].URL.Query()
	assert.Equal(t, "59.3293", q.Get("lat"))
	assert.Equal(t, "18.0686", q.Get("lon"))
	assert.Empty(t, q.Get("q"))
}

func TestGetWeatherErrors(t *testing.T) {
	tests := []struct {
		name   string
		city   string
		status int
		body   string
		code   types.ErrorCode
	}{
		{
			name: "empty city",
			city: "   ",
			code: types.ErrCodeValidationMissingCity,
		},
		{
			name:   "unknown city",
			city:   "Atlantis",
			status: http.StatusNotFound,
			body:   `{"cod":"404","message":"city not found"}`,
			code:   types.ErrCodeNotFoundWeather,
		},
		{
			name:   "invalid api key",
			city:   "Stockholm",
			status: http.StatusUnauthorized,
			body:   `{"cod":401,"message":"Invalid API key"}`,
			code:   types.ErrCodeUpstreamUnavailable,
		},
		{
			name:   "upstream outage",
			city:   "Stockholm",
			status: http.StatusServiceUnavailable,
			code:   types.ErrCodeUpstreamUnavailable,
		},
		{
			name:   "malformed body",
			city:   "Stockholm",
			status: http.StatusOK,
			body:   `{"name":`,
			code:   types.ErrCodeUpstreamBadPayload,
		},
		{
			name:   "no conditions",
			city:   "Stockholm",
			status: http.StatusOK,
			body:   `{"name":"Stockholm","main":{"temp":3},"weather":[]}`,
			code:   types.ErrCodeUpstreamBadPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, &mockTransport{status: tt.status, body: tt.body})

			weather, err := svc.GetWeather(context.Background(), tt.city)
			require.Error(t, err)
			assert.Nil(t, weather)
			assert.Equal(t, tt.code, types.CodeOf(err))
		})
	}
}

func TestNewWeatherServiceDefaults(t *testing.T) {
	svc := NewWeatherService(nil, Config{})
	assert.Equal(t, DefaultBaseURL, svc.baseURL)

	u, err := url.Parse(svc.baseURL)
	require.NoError(t, err)
	assert.Equal(t, "/data/2.5/weather", u.Path)
}
