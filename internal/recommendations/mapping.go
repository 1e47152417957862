package recommendations

import (
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/pkg/query"
	"github.com/JaimeStill/cropwise/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "recommendations", "r").
	Project("id", "ID").
	Project("planting_id", "PlantingID").
	Project("action", "Action").
	Project("confidence", "Confidence").
	Project("reasoning", "Reasoning").
	Project("source", "Source").
	Project("priority", "Priority").
	Project("rule", "Rule").
	Project("fallback_reason", "FallbackReason").
	Project("water_amount_l", "WaterAmountL").
	Project("water_interval_days", "WaterIntervalDays").
	Project("fertilizer_type", "FertilizerType").
	Project("fertilizer_amount_kg", "FertilizerAmountKg").
	Project("next_fertilizer_days", "NextFertilizerDays").
	Project("pesticide_type", "PesticideType").
	Project("pesticide_interval_days", "PesticideIntervalDays").
	Project("scheduled_for", "ScheduledFor").
	Project("implemented", "Implemented").
	Project("implemented_at", "ImplementedAt").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

const returning = `id, planting_id, action, confidence, reasoning, source, priority, rule, fallback_reason,
	water_amount_l, water_interval_days, fertilizer_type, fertilizer_amount_kg, next_fertilizer_days,
	pesticide_type, pesticide_interval_days, scheduled_for, implemented, implemented_at, created_at`

// Filters contains optional filtering criteria for recommendation queries.
type Filters struct {
	PlantingID  *uuid.UUID `json:"planting_id,omitempty"`
	Action      *string    `json:"action_type,omitempty"`
	Source      *string    `json:"source,omitempty"`
	Implemented *bool      `json:"implemented,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("PlantingID", f.PlantingID).
		WhereEquals("Action", f.Action).
		WhereEquals("Source", f.Source).
		WhereEquals("Implemented", f.Implemented)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unparseable planting_id and implemented values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if pid := values.Get("planting_id"); pid != "" {
		if id, err := uuid.Parse(pid); err == nil {
			f.PlantingID = &id
		}
	}

	if a := values.Get("action_type"); a != "" {
		f.Action = &a
	}

	if s := values.Get("source"); s != "" {
		f.Source = &s
	}

	if i := values.Get("implemented"); i != "" {
		if v, err := strconv.ParseBool(i); err == nil {
			f.Implemented = &v
		}
	}

	return f
}

func scanRecommendation(s repository.Scanner) (Recommendation, error) {
	var r Recommendation
	err := s.Scan(
		&r.ID,
		&r.PlantingID,
		&r.Action,
		&r.Confidence,
		&r.Reasoning,
		&r.Source,
		&r.Priority,
		&r.Rule,
		&r.FallbackReason,
		&r.Details.WaterAmountL,
		&r.Details.WaterIntervalDays,
		&r.Details.FertilizerType,
		&r.Details.FertilizerAmountKg,
		&r.Details.NextFertilizerDays,
		&r.Details.PesticideType,
		&r.Details.PesticideIntervalDays,
		&r.ScheduledFor,
		&r.Implemented,
		&r.ImplementedAt,
		&r.CreatedAt,
	)
	if err == nil {
		r.Instructions = r.Details.Display(r.Action)
	}
	return r, err
}
