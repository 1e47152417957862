package decision

import "time"

// CropProfile is the crop master data the engine reads. A nil WeeklyWaterNeed
// means no master record exists.
type CropProfile struct {
	Name            string
	WeeklyWaterNeed *float64
	TotalGrowthDays int
}

// Input is everything one recommendation is derived from.
type Input struct {
	Crop        CropProfile
	Milestones  []Milestone
	Observation *Observation
	Stage       GrowthStage
	DaysElapsed int
	Weather     *WeatherSnapshot
}

// Recommendation is the engine's immutable output.
type Recommendation struct {
	Action         Action  `json:"action"`
	Confidence     float64 `json:"confidence"`
	Reasoning      string  `json:"reasoning"`
	Source         Source  `json:"source"`
	Priority       string  `json:"priority"`
	Details        Details `json:"details"`
	Rule           string  `json:"rule,omitempty"`
	FallbackReason string  `json:"fallback_reason,omitempty"`
	Pattern        Pattern `json:"-"`
}

// Engine produces recommendations. It holds no mutable state.
type Engine struct {
	adapter *Adapter
}

// NewEngine creates an Engine over bundle, which may be nil.
func NewEngine(bundle *ModelBundle) *Engine {
	return &Engine{adapter: NewAdapter(bundle, DefaultRules())}
}

// NewEngineWithRules creates an Engine with a custom rule table.
func NewEngineWithRules(bundle *ModelBundle, rules RuleTable) *Engine {
	return &Engine{adapter: NewAdapter(bundle, rules)}
}

// ModelLoaded reports whether a classifier backs the engine.
func (e *Engine) ModelLoaded() bool {
	return !e.adapter.Bundle().Empty()
}

// Bundle returns the engine's model bundle, which may be nil.
func (e *Engine) Bundle() *ModelBundle {
	return e.adapter.Bundle()
}

// Recommend runs the full decision pipeline. Every input combination yields a
// usable recommendation.
func (e *Engine) Recommend(in Input) Recommendation {
	signals := NewSignals(in.Observation, in.Stage, in.DaysElapsed, in.Weather)
	p := e.adapter.Predict(signals)

	return Recommendation{
		Action:         p.Action,
		Confidence:     p.Confidence,
		Reasoning:      p.Reason,
		Source:         p.Source,
		Priority:       Priority(p.Confidence),
		Details:        details(p.Action, in, signals),
		Rule:           p.Rule,
		FallbackReason: p.FallbackReason,
		Pattern:        NewPattern(in.Crop.Name, signals.Vector(), signals.DaysElapsed, p.Action),
	}
}

func details(action Action, in Input, s Signals) Details {
	var d Details

	switch action {
	case ActionIrrigate:
		amount := WaterAmount(WaterInputs{
			WeeklyNeed:      in.Crop.WeeklyWaterNeed,
			StageMultiplier: StageMultiplier(s.Stage, in.Milestones),
			Temperature:     s.Temperature,
			Moisture:        s.Moisture,
		})
		d.WaterAmountL = &amount
		d.WaterIntervalDays = ptr(WaterIntervalDays)
	case ActionFertilize:
		d.FertilizerType = ptr(FertilizerType(s.Stage))
		d.FertilizerAmountKg = ptr(FertilizerAmount(in.Crop.Name))
		d.NextFertilizerDays = ptr(NextFertilizerDays)
	case ActionPesticide:
		d.PesticideType = ptr(PesticideType(s.Pest))
		d.PesticideIntervalDays = ptr(PesticideIntervalDays)
	}

	return d
}

// Planned is a system-generated recommendation scheduled at planting time.
type Planned struct {
	Action       Action
	Confidence   float64
	Reasoning    string
	Priority     string
	ScheduledFor time.Time
	Details      Details
}

// InitialPlan returns the seedling establishment watering and the first
// inspection reminder for a new planting.
func InitialPlan(crop CropProfile, now time.Time) []Planned {
	water := DefaultWaterAmount
	if crop.WeeklyWaterNeed != nil {
		water = round2(*crop.WeeklyWaterNeed * 0.3)
	}

	return []Planned{
		{
			Action:       ActionIrrigate,
			Confidence:   0.9,
			Reasoning:    "Initial watering for seedling establishment",
			Priority:     "medium",
			ScheduledFor: now,
			Details: Details{
				WaterAmountL:      &water,
				WaterIntervalDays: ptr(WaterIntervalDays),
			},
		},
		{
			Action:       ActionMonitor,
			Confidence:   0.7,
			Reasoning:    "Schedule first visual inspection of seedlings",
			Priority:     "low",
			ScheduledFor: now.AddDate(0, 0, 3),
		},
	}
}

func ptr[T any](v T) *T { return &v }
