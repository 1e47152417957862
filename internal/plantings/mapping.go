package plantings

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/pkg/query"
	"github.com/JaimeStill/cropwise/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "plantings", "p").
	Project("id", "ID").
	Project("crop_id", "CropID").
	Project("planted_on", "PlantedOn").
	Project("expected_harvest", "ExpectedHarvest").
	Project("stage", "Stage").
	Project("days_elapsed", "DaysElapsed").
	Project("progress", "Progress").
	Project("health_score", "HealthScore").
	Project("disease_detected", "DiseaseDetected").
	Project("pest_pressure", "PestPressure").
	Project("last_observed_at", "LastObservedAt").
	Project("latitude", "Latitude").
	Project("longitude", "Longitude").
	Project("status", "Status").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt").
	Join("public", "crops", "c", "JOIN", "p.crop_id = c.id").
	Project("name", "CropName")

var defaultSort = query.SortField{
	Field:      "PlantedOn",
	Descending: true,
}

// Filters contains optional filtering criteria for planting queries.
type Filters struct {
	CropID       *uuid.UUID `json:"crop_id,omitempty"`
	CropName     *string    `json:"crop_type,omitempty"`
	Status       *string    `json:"status,omitempty"`
	Stage        *string    `json:"growth_stage,omitempty"`
	PestPressure *string    `json:"pest_pressure_level,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("CropID", f.CropID).
		WhereContains("CropName", f.CropName).
		WhereEquals("Status", f.Status).
		WhereEquals("Stage", f.Stage).
		WhereEquals("PestPressure", f.PestPressure)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if cid := values.Get("crop_id"); cid != "" {
		if id, err := uuid.Parse(cid); err == nil {
			f.CropID = &id
		}
	}

	if ct := values.Get("crop_type"); ct != "" {
		f.CropName = &ct
	}

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if gs := values.Get("growth_stage"); gs != "" {
		f.Stage = &gs
	}

	if pp := values.Get("pest_pressure_level"); pp != "" {
		f.PestPressure = &pp
	}

	return f
}

func scanPlanting(s repository.Scanner) (Planting, error) {
	var p Planting
	err := s.Scan(
		&p.ID,
		&p.CropID,
		&p.PlantedOn,
		&p.ExpectedHarvest,
		&p.Stage,
		&p.DaysElapsed,
		&p.Progress,
		&p.HealthScore,
		&p.DiseaseDetected,
		&p.PestPressure,
		&p.LastObservedAt,
		&p.Latitude,
		&p.Longitude,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.CropName,
	)
	return p, err
}
