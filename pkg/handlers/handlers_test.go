package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/cropwise/pkg/handlers"
)

func TestRespondJSON(t *testing.T) {
	tests := []struct {
		name   string
		status int
		data   any
	}{
		{"ok with map", http.StatusOK, map[string]string{"action": "irrigate"}},
		{"created with struct", http.StatusCreated, struct {
			Confidence float64 `json:"confidence"`
		}{0.85}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondJSON(rec, tt.status, tt.data)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content-type = %s", ct)
			}

			var parsed map[string]any
			if err := json.NewDecoder(rec.Body).Decode(&parsed); err != nil {
				t.Fatalf("decode: %v", err)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		rec := httptest.NewRecorder()
		handlers.RespondError(rec, logger, status, errors.New("planting not found"))

		if rec.Code != status {
			t.Errorf("status = %d, want %d", rec.Code, status)
		}

		var parsed map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&parsed); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if parsed["error"] != "planting not found" {
			t.Errorf("error = %q", parsed["error"])
		}
	}
}
