// Package recommendations runs the decision engine against a planting's
// current state and tracks which recommendations were carried out.
package recommendations

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/internal/decision"
)

// Recommendation is a stored engine or system recommendation for a planting.
type Recommendation struct {
	ID             uuid.UUID        `json:"id"`
	PlantingID     uuid.UUID        `json:"planting_id"`
	Action         decision.Action  `json:"action_type"`
	Confidence     float64          `json:"confidence"`
	Reasoning      string           `json:"reasoning"`
	Source         decision.Source  `json:"source"`
	Priority       string           `json:"priority"`
	Rule           string           `json:"rule,omitempty"`
	FallbackReason string           `json:"fallback_reason,omitempty"`
	Details        decision.Details `json:"details"`
	Instructions   map[string]any   `json:"instructions,omitempty"`
	ScheduledFor   time.Time        `json:"scheduled_date"`
	Implemented    bool             `json:"implemented"`
	ImplementedAt  *time.Time       `json:"implemented_at"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ImplementationNote is the note observation recorded when r is carried out.
func (r *Recommendation) ImplementationNote() string {
	return fmt.Sprintf("Implemented recommendation: %s. %s", r.Action, r.Reasoning)
}

// Recorder receives recommendation outcomes for metrics.
type Recorder interface {
	RecordRecommendation(source, action, fallbackReason string, modelLoaded bool)
}
