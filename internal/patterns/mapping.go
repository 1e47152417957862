package patterns

import (
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/pkg/query"
	"github.com/JaimeStill/cropwise/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "decision_patterns", "dp").
	Project("id", "ID").
	Project("crop_type", "CropType").
	Project("visual_health", "Health").
	Project("pest_presence", "Pest").
	Project("growth_stage", "Stage").
	Project("days_elapsed", "DaysElapsed").
	Project("weather_forecast", "Sky").
	Project("temperature_category", "Temperature").
	Project("recommended_action", "Action").
	Project("outcome_score", "OutcomeScore").
	Project("recorded_at", "RecordedAt")

var defaultSort = query.SortField{
	Field:      "RecordedAt",
	Descending: true,
}

var exportSort = query.SortField{Field: "RecordedAt"}

// Filters contains optional filtering criteria for pattern queries. Since is
// inclusive and Until exclusive, so consecutive exports never overlap.
type Filters struct {
	CropType *string    `json:"crop_type,omitempty"`
	Stage    *string    `json:"growth_stage,omitempty"`
	Action   *string    `json:"recommended_action,omitempty"`
	Since    *time.Time `json:"since,omitempty"`
	Until    *time.Time `json:"until,omitempty"`

	parseErr error
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("CropType", f.CropType).
		WhereEquals("Stage", f.Stage).
		WhereEquals("Action", f.Action).
		WhereFrom("RecordedAt", f.Since).
		WhereBefore("RecordedAt", f.Until)
}

// Validate reports unparseable time bounds and stage or action labels that
// name no known value.
func (f Filters) Validate() error {
	if f.parseErr != nil {
		return f.parseErr
	}
	if f.Stage != nil && !decision.GrowthStage(*f.Stage).Valid() {
		return fmt.Errorf("%w: growth_stage %q", ErrInvalidFilter, *f.Stage)
	}
	if f.Action != nil && !decision.Action(*f.Action).Valid() {
		return fmt.Errorf("%w: recommended_action %q", ErrInvalidFilter, *f.Action)
	}
	return nil
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("crop_type"); c != "" {
		f.CropType = &c
	}

	if s := values.Get("growth_stage"); s != "" {
		f.Stage = &s
	}

	if a := values.Get("recommended_action"); a != "" {
		f.Action = &a
	}

	f.Since = f.parseTime(values, "since")
	f.Until = f.parseTime(values, "until")

	return f
}

// parseTime accepts RFC 3339 timestamps or plain dates. The first failure is
// kept for Validate.
func (f *Filters) parseTime(values url.Values, key string) *time.Time {
	v := values.Get(key)
	if v == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}

	if f.parseErr == nil {
		f.parseErr = fmt.Errorf("%w: %s %q", ErrInvalidFilter, key, v)
	}
	return nil
}

func scanRecord(s repository.Scanner) (Record, error) {
	var r Record
	err := s.Scan(
		&r.ID,
		&r.CropType,
		&r.Health,
		&r.Pest,
		&r.Stage,
		&r.DaysElapsed,
		&r.Sky,
		&r.Temperature,
		&r.Action,
		&r.OutcomeScore,
		&r.RecordedAt,
	)
	return r, err
}
