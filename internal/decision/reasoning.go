package decision

import "strings"

// FallbackReasoning is returned when no clause applies to an action.
const FallbackReasoning = "System recommendation"

// Explain builds a human-readable justification for action from the raw signals.
// It only describes; it never alters the action or confidence.
func Explain(action Action, s Signals, confidence float64) string {
	var clauses []string
	add := func(ok bool, clause string) {
		if ok {
			clauses = append(clauses, clause)
		}
	}

	switch action {
	case ActionIrrigate:
		add(s.Sky == SkySunny || s.Sky == SkyCloudy, "Dry weather conditions")
		add(s.Temperature == TempWarm || s.Temperature == TempHot, "High temperature")
		add(s.Moisture == MoistureDry, "Soil appears dry")
	case ActionFertilize:
		add(s.Stage == StageFlowering, "Critical flowering stage")
		add(s.Health == HealthFair, "Plants showing signs of nutrient need")
		add(s.LeafColor == LeafLightGreen || s.LeafColor == LeafYellow, "Leaf color indicates nutrient deficiency")
	case ActionPesticide:
		add(s.Pest.Code() >= PestMedium.Code(), "Significant pest presence observed")
		if symptoms := strings.TrimSpace(s.DiseaseSymptoms); symptoms != "" {
			clauses = append(clauses, "Disease symptoms: "+symptoms)
		}
	case ActionHarvest:
		add(s.Stage == StageMature, "Crop has reached maturity")
		add(s.DaysElapsed > 100, "Expected harvest time reached")
	case ActionMonitor:
		clauses = append(clauses, "Conditions within normal range")
		add(confidence < 0.7, "Low confidence, requires monitoring")
	default:
		clauses = append(clauses, "All parameters optimal")
		add(s.Sky == SkyRainy, "Rain expected soon")
	}

	if len(clauses) == 0 {
		return FallbackReasoning
	}
	return strings.Join(clauses, ". ")
}
