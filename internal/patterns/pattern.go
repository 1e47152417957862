// Package patterns stores the decision patterns the engine emits so they can
// be exported for offline retraining.
package patterns

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/internal/decision"
)

// Record is a stored decision pattern.
type Record struct {
	ID uuid.UUID `json:"id"`
	decision.Pattern
	RecordedAt time.Time `json:"recorded_at"`
}

// csvHeader names the export columns in training-dataset order.
var csvHeader = []string{
	"crop_type",
	"visual_health",
	"pest_presence",
	"growth_stage",
	"days_elapsed",
	"weather_forecast",
	"temperature_category",
	"recommended_action",
	"outcome_score",
	"recorded_at",
}
