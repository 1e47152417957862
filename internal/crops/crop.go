// Package crops implements the crop master catalogue: growing parameters per
// crop type and the growth-stage milestones the decision engine derives
// stages and water multipliers from.
package crops

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/internal/decision"
)

// Defaults applied when a crop is created on first use.
const (
	DefaultSeason        = "All season"
	DefaultGrowthDays    = 100
	DefaultTemperatureC  = 25.0
	DefaultSoilPH        = 6.5
	DefaultWaterLPerWeek = 30.0
)

// Crop is a crop type with its ideal growing conditions.
type Crop struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Season            string    `json:"season"`
	IdealTemperatureC *float64  `json:"ideal_temperature_c"`
	IdealSoilPH       *float64  `json:"ideal_soil_ph"`
	WaterNeedLPerWeek *float64  `json:"water_need_l_per_week"`
	TotalGrowthDays   int       `json:"total_growth_days"`
	CreatedAt         time.Time `json:"created_at"`
}

// Profile returns the view of c the decision engine reads.
func (c *Crop) Profile() decision.CropProfile {
	return decision.CropProfile{
		Name:            c.Name,
		WeeklyWaterNeed: c.WaterNeedLPerWeek,
		TotalGrowthDays: c.TotalGrowthDays,
	}
}

// Milestone is a stored growth-stage milestone for a crop.
type Milestone struct {
	ID     uuid.UUID `json:"id"`
	CropID uuid.UUID `json:"crop_id"`
	decision.Milestone
}

// Stages strips storage identity from ms.
func Stages(ms []Milestone) []decision.Milestone {
	out := make([]decision.Milestone, len(ms))
	for i, m := range ms {
		out[i] = m.Milestone
	}
	return out
}
