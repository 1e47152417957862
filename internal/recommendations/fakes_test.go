package recommendations_test

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/internal/crops"
	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/internal/observations"
	"github.com/JaimeStill/cropwise/internal/patterns"
	"github.com/JaimeStill/cropwise/internal/plantings"
	"github.com/JaimeStill/cropwise/internal/weather"
	"github.com/JaimeStill/cropwise/pkg/pagination"
)

type fakePlantings struct {
	planting *plantings.Planting
}

func (f *fakePlantings) Handler() *plantings.Handler { return nil }

func (f *fakePlantings) List(context.Context, pagination.PageRequest, plantings.Filters) (*pagination.PageResult[plantings.Planting], error) {
	result := pagination.NewPageResult[plantings.Planting](nil, 0, 1, 20)
	return &result, nil
}

func (f *fakePlantings) Find(_ context.Context, id uuid.UUID) (*plantings.Planting, error) {
	if f.planting == nil || f.planting.ID != id {
		return nil, plantings.ErrNotFound
	}
	p := *f.planting
	return &p, nil
}

func (f *fakePlantings) Create(context.Context, plantings.CreateCommand) (*plantings.Planting, error) {
	return nil, plantings.ErrInvalidPlanting
}

func (f *fakePlantings) Progress(context.Context, uuid.UUID) (*plantings.ProgressView, error) {
	return nil, plantings.ErrNotFound
}

func (f *fakePlantings) Harvest(context.Context, uuid.UUID) (*plantings.Planting, error) {
	return nil, plantings.ErrNotFound
}

func (f *fakePlantings) Delete(context.Context, uuid.UUID) error {
	return plantings.ErrNotFound
}

type fakeCrops struct {
	crop       *crops.Crop
	milestones []crops.Milestone
}

func (f *fakeCrops) Handler() *crops.Handler { return nil }

func (f *fakeCrops) List(context.Context, pagination.PageRequest, crops.Filters) (*pagination.PageResult[crops.Crop], error) {
	result := pagination.NewPageResult[crops.Crop](nil, 0, 1, 20)
	return &result, nil
}

func (f *fakeCrops) Find(_ context.Context, id uuid.UUID) (*crops.Crop, error) {
	if f.crop == nil || f.crop.ID != id {
		return nil, crops.ErrNotFound
	}
	return f.crop, nil
}

func (f *fakeCrops) FindByName(context.Context, string) (*crops.Crop, error) {
	return nil, crops.ErrNotFound
}

func (f *fakeCrops) Ensure(context.Context, string) (*crops.Crop, error) {
	return f.crop, nil
}

func (f *fakeCrops) Milestones(context.Context, uuid.UUID) ([]crops.Milestone, error) {
	return f.milestones, nil
}

type fakeObservations struct {
	latest *observations.Observation
	err    error
}

func (f *fakeObservations) Handler() *observations.Handler { return nil }

func (f *fakeObservations) List(context.Context, pagination.PageRequest, observations.Filters) (*pagination.PageResult[observations.Observation], error) {
	result := pagination.NewPageResult[observations.Observation](nil, 0, 1, 20)
	return &result, nil
}

func (f *fakeObservations) Create(context.Context, uuid.UUID, observations.CreateCommand) (*observations.Observation, error) {
	return nil, observations.ErrInvalidObservation
}

func (f *fakeObservations) Latest(context.Context, uuid.UUID) (*observations.Observation, error) {
	return f.latest, f.err
}

type fakeWeather struct {
	snapshot decision.WeatherSnapshot
	location *weather.Location
}

func (f *fakeWeather) Handler() *weather.Handler { return nil }

func (f *fakeWeather) Current(context.Context, weather.Location) (*weather.Reading, error) {
	return nil, weather.ErrDisabled
}

func (f *fakeWeather) Report(context.Context, weather.Location) (*weather.Report, error) {
	return nil, weather.ErrDisabled
}

func (f *fakeWeather) Snapshot(_ context.Context, loc *weather.Location) decision.WeatherSnapshot {
	f.location = loc
	return f.snapshot
}

type fakePatterns struct {
	recorded []decision.Pattern
	err      error
}

func (f *fakePatterns) Handler() *patterns.Handler { return nil }

func (f *fakePatterns) Record(_ context.Context, p decision.Pattern) (*patterns.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.recorded = append(f.recorded, p)
	return &patterns.Record{ID: uuid.New(), Pattern: p}, nil
}

func (f *fakePatterns) List(context.Context, pagination.PageRequest, patterns.Filters) (*pagination.PageResult[patterns.Record], error) {
	result := pagination.NewPageResult[patterns.Record](nil, 0, 1, 20)
	return &result, nil
}

func (f *fakePatterns) Export(context.Context, io.Writer, patterns.Filters) (int, error) {
	return 0, errors.New("not implemented")
}

type recorded struct {
	source, action, fallbackReason string
	modelLoaded                    bool
}

type fakeRecorder struct {
	calls []recorded
}

func (f *fakeRecorder) RecordRecommendation(source, action, fallbackReason string, modelLoaded bool) {
	f.calls = append(f.calls, recorded{source, action, fallbackReason, modelLoaded})
}
