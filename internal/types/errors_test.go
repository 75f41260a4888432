package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeValidationMissingCity, http.StatusBadRequest},
		{ErrCodeValidationCoordRange, http.StatusBadRequest},
		{ErrCodeNotFoundWeather, http.StatusNotFound},
		{ErrCodeNotFoundActivities, http.StatusNotFound},
		{ErrCodeUpstreamRateLimited, http.StatusTooManyRequests},
		{ErrCodeUpstreamUnavailable, http.StatusBadGateway},
		{ErrCodeInternalUnexpected, http.StatusInternalServerError},
		{ErrorCode("something_else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}

func TestErrorCodeIsAbsence(t *testing.T) {
	assert.True(t, ErrCodeNotFoundWeather.IsAbsence())
	assert.True(t, ErrCodeUpstreamUnavailable.IsAbsence())
	assert.True(t, ErrCodeUpstreamBadPayload.IsAbsence())
	assert.False(t, ErrCodeInternalUnexpected.IsAbsence())
	assert.False(t, ErrCodeValidationMissingCity.IsAbsence())
}

func TestAppErrorChain(t *testing.T) {
	cause := errors.New("connection refused")
	appErr := NewAppError(ErrCodeUpstreamUnavailable, "weather request failed", cause)
	wrapped := fmt.Errorf("fetch weather: %w", appErr)

	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, ErrCodeUpstreamUnavailable, CodeOf(wrapped))
	assert.Equal(t, http.StatusBadGateway, appErr.HTTPStatus())
	assert.Contains(t, appErr.Error(), "connection refused")
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, ErrCodeInternalUnexpected, CodeOf(errors.New("boom")))
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "cafe", NormalizeCategory(" Cafe "))
	assert.Equal(t, "museum", NormalizeCategory("MUSEUM"))
	assert.Equal(t, "", NormalizeCategory("  "))
}
