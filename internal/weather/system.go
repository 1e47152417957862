package weather

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/pkg/cache"
)

// Recorder receives weather lookup outcomes.
type Recorder interface {
	RecordWeatherLookup(result string)
}

// Lookup outcome labels passed to Recorder.
const (
	LookupHit     = "hit"
	LookupMiss    = "miss"
	LookupError   = "error"
	LookupDefault = "default"
)

// System defines the weather operations used by handlers and the recommendation pipeline.
type System interface {
	Handler() *Handler

	// Current returns conditions at loc, served from cache when fresh.
	Current(ctx context.Context, loc Location) (*Reading, error)
	// Report returns current conditions, forecast, and field impact.
	Report(ctx context.Context, loc Location) (*Report, error)
	// Snapshot never fails: a nil location or provider failure yields DefaultWeather.
	Snapshot(ctx context.Context, loc *Location) decision.WeatherSnapshot
}

type service struct {
	provider Provider
	cache    cache.System
	ttl      time.Duration
	recorder Recorder
	logger   *slog.Logger
}

// New creates a weather System. recorder may be nil.
func New(provider Provider, c cache.System, ttl time.Duration, recorder Recorder, logger *slog.Logger) System {
	return &service{
		provider: provider,
		cache:    c,
		ttl:      ttl,
		recorder: recorder,
		logger:   logger.With("system", "weather"),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *service) Current(ctx context.Context, loc Location) (*Reading, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	key := loc.cacheKey()
	if reading, ok := s.cached(ctx, key); ok {
		s.record(LookupHit)
		return reading, nil
	}
	s.record(LookupMiss)

	reading, err := s.provider.Current(ctx, loc)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(reading); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("cache weather reading failed", "key", key, "error", err)
		}
	}

	return reading, nil
}

func (s *service) Report(ctx context.Context, loc Location) (*Report, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	var (
		current  *Reading
		forecast []ForecastEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = s.Current(gctx, loc)
		return err
	})
	g.Go(func() error {
		entries, err := s.provider.Forecast(gctx, loc)
		if err != nil {
			s.logger.Warn("forecast unavailable", "lat", loc.Lat, "lon", loc.Lon, "error", err)
			return nil
		}
		forecast = entries
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if forecast == nil {
		forecast = []ForecastEntry{}
	}

	snapshot := current.Snapshot()
	return &Report{
		Location: loc,
		Current:  *current,
		Forecast: forecast,
		Snapshot: snapshot,
		Impact:   decision.Impact(snapshot),
	}, nil
}

func (s *service) Snapshot(ctx context.Context, loc *Location) decision.WeatherSnapshot {
	if loc == nil {
		s.record(LookupDefault)
		return decision.DefaultWeather()
	}

	reading, err := s.Current(ctx, *loc)
	if err != nil {
		s.record(LookupError)
		s.logger.Warn("weather lookup failed, using defaults", "lat", loc.Lat, "lon", loc.Lon, "error", err)
		return decision.DefaultWeather()
	}

	return reading.Snapshot()
}

func (s *service) cached(ctx context.Context, key string) (*Reading, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("weather cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var reading Reading
	if err := json.Unmarshal(data, &reading); err != nil {
		s.logger.Warn("discarding malformed cached reading", "key", key, "error", err)
		return nil, false
	}
	return &reading, true
}

func (s *service) record(result string) {
	if s.recorder != nil {
		s.recorder.RecordWeatherLookup(result)
	}
}
