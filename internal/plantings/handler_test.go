package plantings_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/internal/plantings"
	"github.com/JaimeStill/cropwise/pkg/pagination"
)

type mockSystem struct {
	listFn     func(ctx context.Context, page pagination.PageRequest, filters plantings.Filters) (*pagination.PageResult[plantings.Planting], error)
	findFn     func(ctx context.Context, id uuid.UUID) (*plantings.Planting, error)
	createFn   func(ctx context.Context, cmd plantings.CreateCommand) (*plantings.Planting, error)
	progressFn func(ctx context.Context, id uuid.UUID) (*plantings.ProgressView, error)
	harvestFn  func(ctx context.Context, id uuid.UUID) (*plantings.Planting, error)
	deleteFn   func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSystem) Handler() *plantings.Handler { return newTestHandler(m) }

func (m *mockSystem) List(ctx context.Context, page pagination.PageRequest, filters plantings.Filters) (*pagination.PageResult[plantings.Planting], error) {
	return m.listFn(ctx, page, filters)
}

func (m *mockSystem) Find(ctx context.Context, id uuid.UUID) (*plantings.Planting, error) {
	return m.findFn(ctx, id)
}

func (m *mockSystem) Create(ctx context.Context, cmd plantings.CreateCommand) (*plantings.Planting, error) {
	return m.createFn(ctx, cmd)
}

func (m *mockSystem) Progress(ctx context.Context, id uuid.UUID) (*plantings.ProgressView, error) {
	return m.progressFn(ctx, id)
}

func (m *mockSystem) Harvest(ctx context.Context, id uuid.UUID) (*plantings.Planting, error) {
	return m.harvestFn(ctx, id)
}

func (m *mockSystem) Delete(ctx context.Context, id uuid.UUID) error {
	return m.deleteFn(ctx, id)
}

func newTestHandler(sys plantings.System) *plantings.Handler {
	return plantings.NewHandler(
		sys,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func setupMux(h *plantings.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	group := h.Routes()
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern
		mux.HandleFunc(pattern, route.Handler)
	}
	return mux
}

func TestHandlerCreate(t *testing.T) {
	sys := &mockSystem{
		createFn: func(_ context.Context, cmd plantings.CreateCommand) (*plantings.Planting, error) {
			if _, err := cmd.Validate(fixedNow); err != nil {
				return nil, err
			}
			return &plantings.Planting{ID: plantingID, CropName: cmd.CropType, Status: plantings.StatusActive}, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"created", `{"crop_type":"Rice","planting_date":"2026-05-20"}`, http.StatusCreated},
		{"missing crop", `{"planting_date":"2026-05-20"}`, http.StatusBadRequest},
		{"malformed", `[`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest("POST", "/plantings", strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandlerProgress(t *testing.T) {
	sys := &mockSystem{
		progressFn: func(_ context.Context, id uuid.UUID) (*plantings.ProgressView, error) {
			if id != plantingID {
				return nil, plantings.ErrNotFound
			}
			return &plantings.ProgressView{
				PlantingID:            id,
				CropType:              "Tomato",
				Progress:              18.18,
				Stage:                 decision.StageVegetative,
				CurrentRecommendation: decision.ActionMonitor,
			}, nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/plantings/"+plantingID.String()+"/progress", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["progress_percentage"] != 18.18 || body["current_recommendation"] != "monitor" || body["growth_stage"] != "vegetative" {
		t.Errorf("body = %v", body)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/plantings/"+uuid.NewString()+"/progress", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerHarvestAndDelete(t *testing.T) {
	sys := &mockSystem{
		harvestFn: func(_ context.Context, id uuid.UUID) (*plantings.Planting, error) {
			return nil, fmt.Errorf("harvest: %w", plantings.ErrHarvested)
		},
		deleteFn: func(_ context.Context, id uuid.UUID) error {
			return nil
		},
	}
	mux := setupMux(newTestHandler(sys))

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"harvest twice", "POST", "/plantings/" + plantingID.String() + "/harvest", http.StatusConflict},
		{"delete", "DELETE", "/plantings/" + plantingID.String(), http.StatusNoContent},
		{"bad id", "DELETE", "/plantings/north-field", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestHandlerList(t *testing.T) {
	var captured plantings.Filters
	sys := &mockSystem{
		listFn: func(_ context.Context, _ pagination.PageRequest, f plantings.Filters) (*pagination.PageResult[plantings.Planting], error) {
			captured = f
			result := pagination.NewPageResult([]plantings.Planting{{ID: plantingID}}, 1, 1, 20)
			return &result, nil
		},
	}

	rec := httptest.NewRecorder()
	setupMux(newTestHandler(sys)).ServeHTTP(rec, httptest.NewRequest("GET", "/plantings?status=active&crop_type=tom", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if captured.Status == nil || *captured.Status != "active" || captured.CropName == nil || *captured.CropName != "tom" {
		t.Errorf("filters = %+v", captured)
	}
}
