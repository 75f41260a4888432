package response

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

type Error struct {
	Error     string `json:"error"`
	Timestamp int64  `json:"timestamp"`
}

// now is replaced in tests
var now = time.Now

// JSON writes data as the response body
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// ErrorJSON writes an error envelope with a millisecond timestamp
func ErrorJSON(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Error{
		Error:     message,
		Timestamp: now().UnixMilli(),
	})
}
