package plantings_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/internal/crops"
	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/internal/observations"
	"github.com/JaimeStill/cropwise/internal/weather"
	"github.com/JaimeStill/cropwise/pkg/pagination"
)

type fakeCrops struct {
	crop       *crops.Crop
	milestones []crops.Milestone
	ensured    string
}

func (f *fakeCrops) Handler() *crops.Handler { return nil }

func (f *fakeCrops) List(context.Context, pagination.PageRequest, crops.Filters) (*pagination.PageResult[crops.Crop], error) {
	result := pagination.NewPageResult([]crops.Crop{*f.crop}, 1, 1, 20)
	return &result, nil
}

func (f *fakeCrops) Find(_ context.Context, id uuid.UUID) (*crops.Crop, error) {
	if f.crop == nil || f.crop.ID != id {
		return nil, crops.ErrNotFound
	}
	return f.crop, nil
}

func (f *fakeCrops) FindByName(_ context.Context, name string) (*crops.Crop, error) {
	if f.crop == nil || f.crop.Name != name {
		return nil, crops.ErrNotFound
	}
	return f.crop, nil
}

func (f *fakeCrops) Ensure(_ context.Context, name string) (*crops.Crop, error) {
	f.ensured = name
	return f.crop, nil
}

func (f *fakeCrops) Milestones(context.Context, uuid.UUID) ([]crops.Milestone, error) {
	return f.milestones, nil
}

type fakeObservations struct {
	latest *observations.Observation
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
	return f.latest, nil
}

type fakeWeather struct {
	reading *weather.Reading
	err     error
	calls   int
}

func (f *fakeWeather) Handler() *weather.Handler { return nil }

func (f *fakeWeather) Current(context.Context, weather.Location) (*weather.Reading, error) {
	f.calls++
	return f.reading, f.err
}

func (f *fakeWeather) Report(context.Context, weather.Location) (*weather.Report, error) {
	return nil, weather.ErrDisabled
}

func (f *fakeWeather) Snapshot(context.Context, *weather.Location) decision.WeatherSnapshot {
	return decision.DefaultWeather()
}

func tomatoMilestones(cropID uuid.UUID) []crops.Milestone {
	stages := []decision.Milestone{
		{Stage: decision.StageSeedling, DaysFromPlanting: 1, TempMin: 20, TempMax: 30, WaterMultiplier: 0.7, KeyTasks: "Keep soil moist, provide light"},
		{Stage: decision.StageVegetative, DaysFromPlanting: 15, TempMin: 22, TempMax: 32, WaterMultiplier: 1.0, KeyTasks: "Support stems, monitor growth"},
		{Stage: decision.StageFlowering, DaysFromPlanting: 50, TempMin: 24, TempMax: 30, WaterMultiplier: 1.2, KeyTasks: "Pollination support, reduce nitrogen"},
		{Stage: decision.StageMature, DaysFromPlanting: 90, TempMin: 20, TempMax: 28, WaterMultiplier: 0.8, KeyTasks: "Harvest ripe fruits, reduce watering"},
	}

	ms := make([]crops.Milestone, len(stages))
	for i, s := range stages {
		ms[i] = crops.Milestone{ID: uuid.New(), CropID: cropID, Milestone: s}
	}
	return ms
}
