package weather_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/internal/weather"
	"github.com/JaimeStill/cropwise/pkg/lifecycle"
)

type fakeProvider struct {
	mu       sync.Mutex
	calls    int
	current  *weather.Reading
	forecast []weather.ForecastEntry
	err      error
	fcErr    error
}

func (f *fakeProvider) Current(ctx context.Context, loc weather.Location) (*weather.Reading, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	r := *f.current
	return &r, nil
}

func (f *fakeProvider) Forecast(ctx context.Context, loc weather.Location) ([]weather.ForecastEntry, error) {
	return f.forecast, f.fcErr
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Start(*lifecycle.Coordinator) error { return nil }
func (c *memoryCache) Enabled() bool                      { return true }

type recorder struct {
	mu      sync.Mutex
	results []string
}

func (r *recorder) RecordWeatherLookup(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func hotSunny() *weather.Reading {
	return &weather.Reading{
		Temperature: 36.5,
		Description: "clear sky",
		Band:        decision.TempHot,
		Sky:         decision.SkySunny,
	}
}

func TestCurrentCaches(t *testing.T) {
	provider := &fakeProvider{current: hotSunny()}
	rec := &recorder{}
	sys := weather.New(provider, newMemoryCache(), time.Minute, rec, discard())

	for range 3 {
		reading, err := sys.Current(context.Background(), bangalore)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if reading.Band != decision.TempHot {
			t.Errorf("band = %s, want hot", reading.Band)
		}
	}

	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}

	want := []string{weather.LookupMiss, weather.LookupHit, weather.LookupHit}
	if len(rec.results) != len(want) {
		t.Fatalf("results = %v, want %v", rec.results, want)
	}
	for i := range want {
		if rec.results[i] != want[i] {
			t.Errorf("results[%d] = %s, want %s", i, rec.results[i], want[i])
		}
	}
}

func TestCurrentInvalidLocation(t *testing.T) {
	sys := weather.New(&fakeProvider{current: hotSunny()}, newMemoryCache(), time.Minute, nil, discard())

	_, err := sys.Current(context.Background(), weather.Location{Lat: 91, Lon: 0})
	if !errors.Is(err, weather.ErrInvalidLocation) {
		t.Errorf("err = %v, want ErrInvalidLocation", err)
	}
}

func TestSnapshot(t *testing.T) {
	tests := []struct {
		name       string
		loc        *weather.Location
		provider   *fakeProvider
		want       decision.WeatherSnapshot
		wantRecord string
	}{
		{
			name:       "no location",
			loc:        nil,
			provider:   &fakeProvider{current: hotSunny()},
			want:       decision.DefaultWeather(),
			wantRecord: weather.LookupDefault,
		},
		{
			name:       "provider failure",
			loc:        &bangalore,
			provider:   &fakeProvider{err: weather.ErrUpstream},
			want:       decision.DefaultWeather(),
			wantRecord: weather.LookupError,
		},
		{
			name:       "live reading",
			loc:        &bangalore,
			provider:   &fakeProvider{current: hotSunny()},
			want:       decision.WeatherSnapshot{Temperature: decision.TempHot, Sky: decision.SkySunny},
			wantRecord: weather.LookupMiss,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			sys := weather.New(tt.provider, newMemoryCache(), time.Minute, rec, discard())

			got := sys.Snapshot(context.Background(), tt.loc)
			if got != tt.want {
				t.Errorf("snapshot = %+v, want %+v", got, tt.want)
			}
			if len(rec.results) == 0 || rec.results[len(rec.results)-1] != tt.wantRecord {
				t.Errorf("recorded = %v, want last %s", rec.results, tt.wantRecord)
			}
		})
	}
}

func TestReport(t *testing.T) {
	forecast := []weather.ForecastEntry{{Temperature: 30, Description: "thunderstorm"}}

	t.Run("with forecast", func(t *testing.T) {
		provider := &fakeProvider{current: hotSunny(), forecast: forecast}
		sys := weather.New(provider, newMemoryCache(), time.Minute, nil, discard())

		report, err := sys.Report(context.Background(), bangalore)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(report.Forecast) != 1 {
			t.Errorf("forecast = %d entries, want 1", len(report.Forecast))
		}
		if report.Impact.Status != "Heat Stress" {
			t.Errorf("impact status = %s, want Heat Stress", report.Impact.Status)
		}
		if report.Snapshot.Temperature != decision.TempHot {
			t.Errorf("snapshot = %+v", report.Snapshot)
		}
	})

	t.Run("forecast failure is tolerated", func(t *testing.T) {
		provider := &fakeProvider{current: hotSunny(), fcErr: weather.ErrUpstream}
		sys := weather.New(provider, newMemoryCache(), time.Minute, nil, discard())

		report, err := sys.Report(context.Background(), bangalore)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Forecast == nil || len(report.Forecast) != 0 {
			t.Errorf("forecast = %v, want empty slice", report.Forecast)
		}
	})

	t.Run("current failure", func(t *testing.T) {
		provider := &fakeProvider{err: weather.ErrDisabled}
		sys := weather.New(provider, newMemoryCache(), time.Minute, nil, discard())

		if _, err := sys.Report(context.Background(), bangalore); !errors.Is(err, weather.ErrDisabled) {
			t.Errorf("err = %v, want ErrDisabled", err)
		}
	})
}
