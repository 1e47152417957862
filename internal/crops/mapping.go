package crops

import (
	"net/url"

	"github.com/JaimeStill/cropwise/pkg/query"
	"github.com/JaimeStill/cropwise/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "crops", "c").
	Project("id", "ID").
	Project("name", "Name").
	Project("season", "Season").
	Project("ideal_temperature_c", "IdealTemperatureC").
	Project("ideal_soil_ph", "IdealSoilPH").
	Project("water_need_l_per_week", "WaterNeedLPerWeek").
	Project("total_growth_days", "TotalGrowthDays").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{Field: "Name"}

var milestoneProjection = query.
	NewProjectionMap("public", "milestones", "m").
	Project("id", "ID").
	Project("crop_id", "CropID").
	Project("stage", "Stage").
	Project("days_from_planting", "DaysFromPlanting").
	Project("temp_min", "TempMin").
	Project("temp_max", "TempMax").
	Project("water_multiplier", "WaterMultiplier").
	Project("key_tasks", "KeyTasks")

var milestoneSort = query.SortField{Field: "DaysFromPlanting"}

// Filters contains optional filtering criteria for crop queries.
type Filters struct {
	Name   *string `json:"name,omitempty"`
	Season *string `json:"season,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Name", f.Name).
		WhereEquals("Season", f.Season)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if s := values.Get("season"); s != "" {
		f.Season = &s
	}

	return f
}

func scanCrop(s repository.Scanner) (Crop, error) {
	var c Crop
	err := s.Scan(
		&c.ID,
		&c.Name,
		&c.Season,
		&c.IdealTemperatureC,
		&c.IdealSoilPH,
		&c.WaterNeedLPerWeek,
		&c.TotalGrowthDays,
		&c.CreatedAt,
	)
	return c, err
}

func scanMilestone(s repository.Scanner) (Milestone, error) {
	var m Milestone
	err := s.Scan(
		&m.ID,
		&m.CropID,
		&m.Stage,
		&m.DaysFromPlanting,
		&m.TempMin,
		&m.TempMax,
		&m.WaterMultiplier,
		&m.KeyTasks,
	)
	return m, err
}
