package decision_test

import (
	"testing"

	"github.com/JaimeStill/cropwise/internal/decision"
)

func TestRecommendPestOverridesModelless(t *testing.T) {
	e := decision.NewEngine(nil)
	if e.ModelLoaded() {
		t.Fatal("engine without bundle should report no model")
	}

	rec := e.Recommend(decision.Input{
		Crop:        decision.CropProfile{Name: "Tomato"},
		Observation: &decision.Observation{Health: decision.HealthPoor, Pest: decision.PestHigh},
		Stage:       decision.StageVegetative,
		DaysElapsed: 20,
	})

	if rec.Action != decision.ActionPesticide || rec.Confidence != 0.85 {
		t.Fatalf("got (%q, %v), want (pesticide, 0.85)", rec.Action, rec.Confidence)
	}
	if rec.Source != decision.SourceRuleBased {
		t.Errorf("Source = %q, want rule_based", rec.Source)
	}
	if rec.Priority != "high" {
		t.Errorf("Priority = %q, want high", rec.Priority)
	}
	if rec.Rule != "pest_or_poor_health" {
		t.Errorf("Rule = %q", rec.Rule)
	}
	if rec.Details.PesticideType == nil || *rec.Details.PesticideType != "Chemical Pesticide" {
		t.Errorf("PesticideType = %v", rec.Details.PesticideType)
	}
	if rec.Details.PesticideIntervalDays == nil || *rec.Details.PesticideIntervalDays != 14 {
		t.Errorf("PesticideIntervalDays = %v", rec.Details.PesticideIntervalDays)
	}
}

func TestRecommendRainConservesResources(t *testing.T) {
	rec := decision.NewEngine(nil).Recommend(decision.Input{
		Observation: &decision.Observation{Health: decision.HealthGood, Pest: decision.PestNone},
		Stage:       decision.StageVegetative,
		DaysElapsed: 30,
		Weather:     &decision.WeatherSnapshot{Temperature: decision.TempOptimal, Sky: decision.SkyRainy},
	})

	if rec.Action != decision.ActionNone || rec.Confidence != 0.90 {
		t.Fatalf("got (%q, %v), want (no_action, 0.9)", rec.Action, rec.Confidence)
	}
	if rec.Reasoning != "Rain forecasted, conserve resources" {
		t.Errorf("Reasoning = %q", rec.Reasoning)
	}
	if rec.Details != (decision.Details{}) {
		t.Errorf("no_action should carry no details: %+v", rec.Details)
	}
}

func TestRecommendIrrigationDetails(t *testing.T) {
	rec := decision.NewEngine(nil).Recommend(decision.Input{
		Crop:        decision.CropProfile{Name: "Tomato", WeeklyWaterNeed: ptr(40.0), TotalGrowthDays: 110},
		Stage:       decision.StageVegetative,
		DaysElapsed: 20,
		Weather:     &decision.WeatherSnapshot{Temperature: decision.TempHot, Sky: decision.SkySunny},
	})

	if rec.Action != decision.ActionIrrigate {
		t.Fatalf("Action = %q, want irrigate", rec.Action)
	}
	if rec.Priority != "medium" {
		t.Errorf("Priority = %q, want medium", rec.Priority)
	}
	if rec.Details.WaterAmountL == nil || *rec.Details.WaterAmountL != 7.8 {
		t.Errorf("WaterAmountL = %v, want 7.8", rec.Details.WaterAmountL)
	}
	if rec.Details.WaterIntervalDays == nil || *rec.Details.WaterIntervalDays != 3 {
		t.Errorf("WaterIntervalDays = %v", rec.Details.WaterIntervalDays)
	}
}

func TestRecommendFertilizeDetails(t *testing.T) {
	rec := decision.NewEngine(nil).Recommend(decision.Input{
		Crop:        decision.CropProfile{Name: "Wheat"},
		Observation: &decision.Observation{Health: decision.HealthExcellent},
		Stage:       decision.StageFlowering,
		DaysElapsed: 60,
	})

	if rec.Action != decision.ActionFertilize {
		t.Fatalf("Action = %q, want fertilize", rec.Action)
	}
	d := rec.Details
	if d.FertilizerType == nil || *d.FertilizerType != "Potassium-rich (NPK 10-20-20)" {
		t.Errorf("FertilizerType = %v", d.FertilizerType)
	}
	if d.FertilizerAmountKg == nil || *d.FertilizerAmountKg != 130 {
		t.Errorf("FertilizerAmountKg = %v", d.FertilizerAmountKg)
	}
	if d.NextFertilizerDays == nil || *d.NextFertilizerDays != 30 {
		t.Errorf("NextFertilizerDays = %v", d.NextFertilizerDays)
	}
}

func TestRecommendPattern(t *testing.T) {
	rec := decision.NewEngine(nil).Recommend(decision.Input{
		Crop:        decision.CropProfile{Name: "Potato"},
		Stage:       decision.StageMature,
		DaysElapsed: 120,
	})

	if rec.Action != decision.ActionMonitor || rec.Confidence != 0.70 {
		t.Fatalf("got (%q, %v), want (monitor, 0.7)", rec.Action, rec.Confidence)
	}

	p := rec.Pattern
	if p.CropType != "Potato" || p.Stage != decision.StageMature || p.DaysElapsed != 120 {
		t.Errorf("Pattern = %+v", p)
	}
	if p.Action != rec.Action {
		t.Errorf("Pattern.Action = %q, want %q", p.Action, rec.Action)
	}
	if p.Health != decision.HealthGood || p.Sky != decision.SkySunny {
		t.Errorf("Pattern defaults = (%q, %q)", p.Health, p.Sky)
	}
}

func TestRecommendIsDeterministic(t *testing.T) {
	e := decision.NewEngine(nil)
	in := decision.Input{
		Observation: &decision.Observation{Health: decision.HealthFair, Pest: decision.PestLow},
		Stage:       decision.StageVegetative,
		DaysElapsed: 25,
		Weather:     &decision.WeatherSnapshot{Temperature: decision.TempWarm, Sky: decision.SkyCloudy},
	}

	first := e.Recommend(in)
	for range 10 {
		if got := e.Recommend(in); got.Action != first.Action || got.Confidence != first.Confidence || got.Reasoning != first.Reasoning {
			t.Fatalf("recommendation changed: %+v vs %+v", got, first)
		}
	}
}

func TestInitialPlan(t *testing.T) {
	plan := decision.InitialPlan(decision.CropProfile{Name: "Rice", WeeklyWaterNeed: ptr(50.0)}, now)
	if len(plan) != 2 {
		t.Fatalf("len = %d, want 2", len(plan))
	}

	water := plan[0]
	if water.Action != decision.ActionIrrigate || water.Confidence != 0.9 || water.Priority != "medium" {
		t.Errorf("water = %+v", water)
	}
	if *water.Details.WaterAmountL != 15 {
		t.Errorf("WaterAmountL = %v, want 15", *water.Details.WaterAmountL)
	}
	if !water.ScheduledFor.Equal(now) {
		t.Errorf("ScheduledFor = %v, want %v", water.ScheduledFor, now)
	}

	inspect := plan[1]
	if inspect.Action != decision.ActionMonitor || inspect.Priority != "low" {
		t.Errorf("inspect = %+v", inspect)
	}
	if !inspect.ScheduledFor.Equal(now.AddDate(0, 0, 3)) {
		t.Errorf("ScheduledFor = %v", inspect.ScheduledFor)
	}

	plan = decision.InitialPlan(decision.CropProfile{Name: "Unknown"}, now)
	if *plan[0].Details.WaterAmountL != decision.DefaultWaterAmount {
		t.Errorf("WaterAmountL = %v, want default", *plan[0].Details.WaterAmountL)
	}
}
