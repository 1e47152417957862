package decision

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"
)

const (
	// MaxGrowthProgress caps computed progress; only a harvest reaches 100.
	MaxGrowthProgress = 99.9
	// HarvestedProgress is set explicitly when a planting is harvested.
	HarvestedProgress = 100.0

	// DefaultWaterAmount is used when no crop master record is available.
	DefaultWaterAmount = 10.0
	// DailyWaterFactor converts a weekly water need to a daily dose.
	DailyWaterFactor = 0.15

	WaterIntervalDays     = 3
	PesticideIntervalDays = 14
	NextFertilizerDays    = 30

	// DefaultFertilizerAmount is applied to crops without a tabled amount.
	DefaultFertilizerAmount = 120.0

	// StaleObservationDays is the age after which the health score is penalized.
	StaleObservationDays = 7
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ElapsedDays returns whole calendar days from plantedOn to now, never negative.
func ElapsedDays(plantedOn, now time.Time) int {
	p := time.Date(plantedOn.Year(), plantedOn.Month(), plantedOn.Day(), 0, 0, 0, 0, time.UTC)
	n := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return max(int(n.Sub(p).Hours()/24), 0)
}

// GrowthProgress returns percent complete, capped at MaxGrowthProgress.
func GrowthProgress(days, totalDays int) float64 {
	if totalDays <= 0 {
		return 0
	}
	days = max(days, 0)
	return round2(min(MaxGrowthProgress, float64(days)/float64(totalDays)*100))
}

// Progress is GrowthProgress from a planting date; no date means no progress.
func Progress(plantedOn *time.Time, now time.Time, totalDays int) float64 {
	if plantedOn == nil {
		return 0
	}
	return GrowthProgress(ElapsedDays(*plantedOn, now), totalDays)
}

// Milestone marks the day a crop enters a growth stage.
type Milestone struct {
	Stage            GrowthStage `json:"growth_stage"`
	DaysFromPlanting int         `json:"days_from_planting"`
	TempMin          float64     `json:"ideal_temp_min"`
	TempMax          float64     `json:"ideal_temp_max"`
	WaterMultiplier  float64     `json:"water_multiplier"`
	KeyTasks         string      `json:"key_tasks,omitempty"`
}

func sortedMilestones(ms []Milestone) []Milestone {
	sorted := slices.Clone(ms)
	slices.SortStableFunc(sorted, func(a, b Milestone) int {
		return cmp.Compare(a.DaysFromPlanting, b.DaysFromPlanting)
	})
	return sorted
}

// StageFor derives the growth stage for days elapsed. With milestones, the last
// milestone reached wins; without, fixed day thresholds apply.
func StageFor(days int, milestones []Milestone) GrowthStage {
	if len(milestones) == 0 {
		switch {
		case days < 15:
			return StageSeedling
		case days < 50:
			return StageVegetative
		case days < 90:
			return StageFlowering
		default:
			return StageMature
		}
	}

	stage := StageSeedling
	for _, m := range sortedMilestones(milestones) {
		if days >= m.DaysFromPlanting {
			stage = m.Stage
		}
	}
	return stage
}

// StageMultiplier returns the water multiplier of the milestone for stage, or 1.
func StageMultiplier(stage GrowthStage, milestones []Milestone) float64 {
	for _, m := range milestones {
		if m.Stage == stage && m.WaterMultiplier > 0 {
			return m.WaterMultiplier
		}
	}
	return 1.0
}

// NextMilestone describes the upcoming growth stage for a planting.
type NextMilestone struct {
	Stage     string `json:"stage"`
	DaysUntil int    `json:"days_until"`
	IdealTemp string `json:"ideal_temp,omitempty"`
	KeyTasks  string `json:"key_tasks"`
}

// UpcomingMilestone returns the first milestone not yet reached, a harvest
// marker when all are reached, or nil when the crop has no milestones.
func UpcomingMilestone(days int, milestones []Milestone) *NextMilestone {
	if len(milestones) == 0 {
		return nil
	}

	for _, m := range sortedMilestones(milestones) {
		if m.DaysFromPlanting > days {
			tasks := m.KeyTasks
			if tasks == "" {
				tasks = "Monitor growth and health"
			}
			return &NextMilestone{
				Stage:     string(m.Stage),
				DaysUntil: m.DaysFromPlanting - days,
				IdealTemp: fmt.Sprintf("%g-%g°C", m.TempMin, m.TempMax),
				KeyTasks:  tasks,
			}
		}
	}

	return &NextMilestone{Stage: "harvest", DaysUntil: 0, KeyTasks: "Prepare for harvest"}
}

// HealthInputs are the planting fields the health score reads.
type HealthInputs struct {
	DiseaseDetected bool
	Pest            PestPressure
	LastObservedAt  *time.Time
}

var pestDeductions = map[PestPressure]float64{
	PestLow:    5,
	PestMedium: 15,
	PestHigh:   30,
}

// HealthScore scores a planting from 0 to 100.
func HealthScore(in HealthInputs, now time.Time) float64 {
	score := 100.0
	if in.DiseaseDetected {
		score -= 20
	}
	score -= pestDeductions[in.Pest]
	if in.LastObservedAt != nil && ElapsedDays(*in.LastObservedAt, now) > StaleObservationDays {
		score -= 10
	}
	return max(0, min(100, score))
}

// WaterInputs are the values a daily water dose is derived from.
// A nil WeeklyNeed means the crop has no master record.
type WaterInputs struct {
	WeeklyNeed      *float64
	StageMultiplier float64
	Temperature     TemperatureBand
	Moisture        SoilMoisture
}

// WaterAmount returns the daily water dose in liters, rounded to 2 decimals.
func WaterAmount(in WaterInputs) float64 {
	if in.WeeklyNeed == nil {
		return DefaultWaterAmount
	}

	stage := in.StageMultiplier
	if stage <= 0 {
		stage = 1
	}

	temp := 1.0
	switch in.Temperature {
	case TempWarm, TempHot:
		temp = 1.3
	case TempCold, TempCool:
		temp = 0.7
	}

	moisture := 1.0
	switch in.Moisture {
	case MoistureDry:
		moisture = 1.5
	case MoistureWet:
		moisture = 0.5
	}

	return round2(*in.WeeklyNeed * stage * temp * moisture * DailyWaterFactor)
}

// FertilizerType recommends an NPK blend for stage.
func FertilizerType(stage GrowthStage) string {
	switch stage {
	case StageVegetative:
		return "Nitrogen-rich (NPK 20-10-10)"
	case StageFlowering:
		return "Potassium-rich (NPK 10-20-20)"
	default:
		return "Balanced (NPK 15-15-15)"
	}
}

var fertilizerAmounts = map[string]float64{
	"Tomato":  100,
	"Rice":    120,
	"Wheat":   130,
	"Maize":   150,
	"Potato":  140,
	"Soybean": 110,
}

// FertilizerAmount returns the per-application amount in kg for a crop.
func FertilizerAmount(crop string) float64 {
	if v, ok := fertilizerAmounts[crop]; ok {
		return v
	}
	return DefaultFertilizerAmount
}

// PesticideType prefers an organic treatment below medium pest pressure.
func PesticideType(pest PestPressure) string {
	if pest.Code() < PestMedium.Code() {
		return "Organic Neem Oil"
	}
	return "Chemical Pesticide"
}

// Priority ranks a recommendation by confidence.
func Priority(confidence float64) string {
	if confidence > 0.8 {
		return "high"
	}
	return "medium"
}

// Details are the action-specific quantities stored with a recommendation.
type Details struct {
	WaterAmountL          *float64 `json:"water_amount_l,omitempty"`
	WaterIntervalDays     *int     `json:"water_interval_days,omitempty"`
	FertilizerType        *string  `json:"fertilizer_type,omitempty"`
	FertilizerAmountKg    *float64 `json:"fertilizer_amount_kg,omitempty"`
	NextFertilizerDays    *int     `json:"next_fertilizer_days,omitempty"`
	PesticideType         *string  `json:"pesticide_type,omitempty"`
	PesticideIntervalDays *int     `json:"pesticide_interval_days,omitempty"`
}

// Display returns the presentation fields for action. It plays no part in decisions.
func (d Details) Display(action Action) map[string]any {
	switch action {
	case ActionIrrigate:
		return map[string]any{
			"water_amount_l": d.WaterAmountL,
			"interval_days":  d.WaterIntervalDays,
			"best_time":      "Early morning or late evening",
			"method":         "Water at base of plants",
		}
	case ActionFertilize:
		return map[string]any{
			"fertilizer_type":    d.FertilizerType,
			"amount_kg":          d.FertilizerAmountKg,
			"next_application":   d.NextFertilizerDays,
			"application_method": "Spread evenly around base, water well",
		}
	case ActionPesticide:
		return map[string]any{
			"pesticide_type": d.PesticideType,
			"interval_days":  d.PesticideIntervalDays,
			"safety":         "Wear gloves and mask. Apply in calm weather.",
			"reentry_period": "24 hours",
		}
	case ActionMonitor:
		return map[string]any{
			"frequency":     "Daily visual inspection",
			"focus":         "Check for pests, diseases, growth abnormalities",
			"documentation": "Take photos and notes",
		}
	case ActionHarvest:
		return map[string]any{
			"timing":     "Early morning when plants are hydrated",
			"method":     "Use clean, sharp tools",
			"storage":    "Store in cool, dry place",
			"next_steps": "Prepare soil for next crop",
		}
	default:
		return map[string]any{}
	}
}

// DefaultOutcomeScore is recorded on every decision pattern until outcomes are tracked.
const DefaultOutcomeScore = 0.8

// Pattern is a training-feedback record of one decision.
type Pattern struct {
	CropType     string          `json:"crop_type"`
	Health       Health          `json:"visual_health"`
	Pest         PestPressure    `json:"pest_presence"`
	Stage        GrowthStage     `json:"growth_stage"`
	DaysElapsed  int             `json:"days_elapsed"`
	Sky          Sky             `json:"weather_forecast"`
	Temperature  TemperatureBand `json:"temperature_category"`
	Action       Action          `json:"recommended_action"`
	OutcomeScore float64         `json:"outcome_score"`
}

// NewPattern decodes the coded features of v back to labels.
func NewPattern(cropType string, v Vector, days int, action Action) Pattern {
	return Pattern{
		CropType:     cropType,
		Health:       DecodeHealth(int(v[0])),
		Pest:         DecodePestPressure(int(v[1])),
		Stage:        DecodeGrowthStage(int(v[2])),
		DaysElapsed:  max(days, 0),
		Sky:          DecodeSky(int(v[4])),
		Temperature:  DecodeTemperatureBand(int(v[5])),
		Action:       action,
		OutcomeScore: DefaultOutcomeScore,
	}
}
