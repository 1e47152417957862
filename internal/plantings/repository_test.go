package plantings_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/internal/crops"
	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/internal/observations"
	"github.com/JaimeStill/cropwise/internal/plantings"
	"github.com/JaimeStill/cropwise/internal/weather"
	"github.com/JaimeStill/cropwise/pkg/pagination"
)

var plantingColumns = []string{
	"id", "crop_id", "planted_on", "expected_harvest", "stage", "days_elapsed",
	"progress", "health_score", "disease_detected", "pest_pressure", "last_observed_at",
	"latitude", "longitude", "status", "created_at", "updated_at", "name",
}

var (
	tomatoID   = uuid.MustParse("6f1c2a9e-3b1d-4c47-9a55-0d3e2f8b7c11")
	plantingID = uuid.MustParse("a3d9c6f2-5e1b-4f0a-8c7d-2b4e6f8a0c13")
)

type fixture struct {
	sys     plantings.System
	mock    sqlmock.Sqlmock
	crops   *fakeCrops
	obs     *fakeObservations
	weather *fakeWeather
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	water := 35.0
	f := &fixture{
		mock: mock,
		crops: &fakeCrops{crop: &crops.Crop{
			ID:                tomatoID,
			Name:              "Tomato",
			WaterNeedLPerWeek: &water,
			TotalGrowthDays:   110,
		}},
		obs:     &fakeObservations{},
		weather: &fakeWeather{},
	}
	f.sys = plantings.New(
		db, f.crops, f.obs, f.weather,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
	return f
}

type rowOptions struct {
	plantedOn time.Time
	status    string
	stage     string
	pest      string
	lastObs   any
	lat, lon  any
}

func plantingRow(o rowOptions) *sqlmock.Rows {
	if o.status == "" {
		o.status = plantings.StatusActive
	}
	if o.pest == "" {
		o.pest = "none"
	}
	if o.stage == "" {
		o.stage = "seedling"
	}
	stamp := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(plantingColumns).AddRow(
		plantingID.String(), tomatoID.String(), o.plantedOn, o.plantedOn.AddDate(0, 0, 110),
		o.stage, 0, 0.0, 100.0, false, o.pest, o.lastObs,
		o.lat, o.lon, o.status, stamp, stamp, "Tomato",
	)
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	f.crops.milestones = tomatoMilestones(tomatoID)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`INSERT INTO plantings`).
		WithArgs(tomatoID, sqlmock.AnyArg(), sqlmock.AnyArg(), "vegetative", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), 12.97, 77.59).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(plantingID.String()))
	f.mock.ExpectExec(`INSERT INTO observations`).
		WithArgs(plantingID, "visual", "excellent", "none", "green", "vigorous", "Initial planting observation", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec(`INSERT INTO recommendations`).
		WithArgs(plantingID, "irrigate", 0.9, "Initial watering for seedling establishment", "system", "medium",
			10.5, 3, nil, nil, nil, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec(`INSERT INTO recommendations`).
		WithArgs(plantingID, "monitor", 0.7, sqlmock.AnyArg(), "system", "low",
			nil, nil, nil, nil, nil, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()
	f.mock.ExpectQuery(`FROM public.plantings p JOIN public.crops c ON p.crop_id = c.id WHERE p.id = \$1`).
		WithArgs(plantingID).
		WillReturnRows(plantingRow(rowOptions{plantedOn: time.Now().UTC().AddDate(0, 0, -20), lat: 12.97, lon: 77.59}))

	planted := time.Now().UTC().AddDate(0, 0, -20).Format("2006-01-02")
	p, err := f.sys.Create(context.Background(), plantings.CreateCommand{
		CropType:  " Tomato ",
		PlantedOn: planted,
		Latitude:  ptr(12.97),
		Longitude: ptr(77.59),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if f.crops.ensured != "Tomato" {
		t.Errorf("ensured crop = %q, want Tomato", f.crops.ensured)
	}
	if p.ID != plantingID || p.CropName != "Tomato" {
		t.Errorf("planting = %+v", p)
	}

	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateRollsBackOnPlanFailure(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`INSERT INTO plantings`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(plantingID.String()))
	f.mock.ExpectExec(`INSERT INTO observations`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec(`INSERT INTO recommendations`).
		WillReturnError(errors.New("check constraint"))
	f.mock.ExpectRollback()

	if _, err := f.sys.Create(context.Background(), plantings.CreateCommand{CropType: "Tomato"}); err == nil {
		t.Fatal("expected error")
	}

	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateInvalid(t *testing.T) {
	f := newFixture(t)

	_, err := f.sys.Create(context.Background(), plantings.CreateCommand{CropType: "Tomato", PlantedOn: "yesterday"})
	if !errors.Is(err, plantings.ErrInvalidPlanting) {
		t.Errorf("err = %v, want ErrInvalidPlanting", err)
	}
	if f.crops.ensured != "" {
		t.Error("crop should not be ensured for an invalid command")
	}
}

func TestProgress(t *testing.T) {
	f := newFixture(t)
	f.crops.milestones = tomatoMilestones(tomatoID)
	observed := time.Now().UTC().AddDate(0, 0, -2)
	f.obs.latest = &observations.Observation{
		ObservedAt: observed,
		Health:     ptr(decision.HealthGood),
		Pest:       ptr(decision.PestLow),
	}
	f.weather.reading = &weather.Reading{Temperature: 29.5, Description: "scattered clouds", Sky: decision.SkyCloudy}

	plantedOn := time.Now().UTC().AddDate(0, 0, -20)
	f.mock.ExpectQuery(`WHERE p.id = \$1`).
		WithArgs(plantingID).
		WillReturnRows(plantingRow(rowOptions{plantedOn: plantedOn, pest: "low", lastObs: observed, lat: 12.97, lon: 77.59}))
	f.mock.ExpectQuery(`SELECT action FROM recommendations`).
		WithArgs(plantingID).
		WillReturnRows(sqlmock.NewRows([]string{"action"}).AddRow("irrigate"))
	f.mock.ExpectExec(`UPDATE plantings`).
		WithArgs(plantingID, 20, "vegetative", 18.18, 95.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	view, err := f.sys.Progress(context.Background(), plantingID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"days elapsed", view.DaysElapsed, 20},
		{"days remaining", view.DaysRemaining, 90},
		{"progress", view.Progress, 18.18},
		{"stage", view.Stage, decision.StageVegetative},
		{"health", view.HealthScore, 95.0},
		{"pending action", view.CurrentRecommendation, decision.ActionIrrigate},
		{"next milestone", view.NextMilestone.Stage, "flowering"},
		{"days until", view.NextMilestone.DaysUntil, 30},
		{"weather", view.Weather.Category, decision.SkyCloudy},
		{"last observation", *view.LastObservation.Pests, decision.PestLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestProgressFallbacks(t *testing.T) {
	f := newFixture(t)
	f.crops.crop = nil
	f.weather.err = weather.ErrUpstream

	plantedOn := time.Now().UTC().AddDate(0, 0, -30)
	f.mock.ExpectQuery(`WHERE p.id = \$1`).
		WillReturnRows(plantingRow(rowOptions{plantedOn: plantedOn}))
	f.mock.ExpectQuery(`SELECT action FROM recommendations`).
		WillReturnRows(sqlmock.NewRows([]string{"action"}))
	f.mock.ExpectExec(`UPDATE plantings`).
		WithArgs(plantingID, 30, "vegetative", 25.0, 100.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	view, err := f.sys.Progress(context.Background(), plantingID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}

	if view.DaysRemaining != plantings.FallbackGrowthDays-30 {
		t.Errorf("days remaining = %d, want %d", view.DaysRemaining, plantings.FallbackGrowthDays-30)
	}
	if view.CurrentRecommendation != decision.ActionMonitor {
		t.Errorf("pending action = %s, want monitor", view.CurrentRecommendation)
	}
	if view.NextMilestone != nil || view.LastObservation != nil || view.Weather != nil {
		t.Errorf("view = %+v", view)
	}
	if f.weather.calls != 0 {
		t.Errorf("weather called %d times for a planting without location", f.weather.calls)
	}
}

func TestProgressKeepsHarvestedStage(t *testing.T) {
	f := newFixture(t)
	f.crops.milestones = tomatoMilestones(tomatoID)

	plantedOn := time.Now().UTC().AddDate(0, 0, -30)
	f.mock.ExpectQuery(`WHERE p.id = \$1`).
		WillReturnRows(plantingRow(rowOptions{plantedOn: plantedOn, status: plantings.StatusHarvested, stage: "mature"}))
	f.mock.ExpectQuery(`SELECT action FROM recommendations`).
		WillReturnRows(sqlmock.NewRows([]string{"action"}))
	f.mock.ExpectExec(`UPDATE plantings`).
		WithArgs(plantingID, 30, "mature", 100.0, 100.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	view, err := f.sys.Progress(context.Background(), plantingID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}

	if view.Stage != decision.StageMature || view.Progress != 100 {
		t.Errorf("stage = %s progress = %v, want mature 100", view.Stage, view.Progress)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestProgressNotFound(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery(`WHERE p.id = \$1`).
		WillReturnRows(sqlmock.NewRows(plantingColumns))

	if _, err := f.sys.Progress(context.Background(), plantingID); !errors.Is(err, plantings.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestHarvest(t *testing.T) {
	t.Run("active", func(t *testing.T) {
		f := newFixture(t)
		f.mock.ExpectQuery(`WHERE p.id = \$1`).
			WillReturnRows(plantingRow(rowOptions{plantedOn: time.Now().AddDate(0, 0, -100)}))
		f.mock.ExpectExec(`UPDATE plantings`).
			WithArgs(plantingID, "harvested", "mature", "active").
			WillReturnResult(sqlmock.NewResult(0, 1))

		p, err := f.sys.Harvest(context.Background(), plantingID)
		if err != nil {
			t.Fatalf("Harvest: %v", err)
		}
		if p.Status != plantings.StatusHarvested || p.Progress != 100 {
			t.Errorf("planting = %+v", p)
		}
	})

	t.Run("already harvested", func(t *testing.T) {
		f := newFixture(t)
		f.mock.ExpectQuery(`WHERE p.id = \$1`).
			WillReturnRows(plantingRow(rowOptions{plantedOn: time.Now(), status: plantings.StatusHarvested}))

		if _, err := f.sys.Harvest(context.Background(), plantingID); !errors.Is(err, plantings.ErrHarvested) {
			t.Errorf("err = %v, want ErrHarvested", err)
		}
	})
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"deleted", 1, nil},
		{"missing", 0, plantings.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.mock.ExpectBegin()
			f.mock.ExpectExec(`DELETE FROM plantings WHERE id = \$1`).
				WithArgs(plantingID).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			if tt.wantErr == nil {
				f.mock.ExpectCommit()
			} else {
				f.mock.ExpectRollback()
			}

			if err := f.sys.Delete(context.Background(), plantingID); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if err := f.mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}
