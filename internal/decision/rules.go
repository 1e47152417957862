package decision

// Verdict is the outcome shared by the rule table and the classifier path.
type Verdict struct {
	Action     Action
	Confidence float64
	Reason     string
}

// Rule pairs a predicate over Signals with the verdict it produces.
type Rule struct {
	Name    string
	When    func(Signals) bool
	Verdict Verdict
}

// RuleTable is evaluated top to bottom; the first matching rule wins.
type RuleTable []Rule

// Evaluate returns the verdict of the first rule whose predicate holds.
// A table without a matching rule yields a zero-confidence monitor verdict.
func (t RuleTable) Evaluate(s Signals) (Verdict, Rule) {
	for _, r := range t {
		if r.When == nil || r.When(s) {
			return r.Verdict, r
		}
	}
	return Verdict{Action: ActionMonitor}, Rule{Name: "none"}
}

// DefaultRules returns the crop advisory rule table. Order is significant:
// confidences feed recommendation priority downstream.
func DefaultRules() RuleTable {
	return RuleTable{
		{
			Name: "pest_or_poor_health",
			When: func(s Signals) bool {
				return s.Pest == PestHigh || s.Health == HealthPoor
			},
			Verdict: Verdict{ActionPesticide, 0.85, "High pest pressure or poor plant health detected"},
		},
		{
			Name: "flowering_nutrients",
			When: func(s Signals) bool {
				return s.Stage == StageFlowering &&
					(s.Health == HealthExcellent || s.Health == HealthGood)
			},
			Verdict: Verdict{ActionFertilize, 0.80, "Flowering stage requires nutrients"},
		},
		{
			Name: "hot_dry_weather",
			When: func(s Signals) bool {
				return (s.Temperature == TempWarm || s.Temperature == TempHot) &&
					(s.Sky == SkySunny || s.Sky == SkyCloudy)
			},
			Verdict: Verdict{ActionIrrigate, 0.75, "Hot dry weather requires watering"},
		},
		{
			Name: "rain_forecast",
			When: func(s Signals) bool {
				return s.Sky == SkyRainy
			},
			Verdict: Verdict{ActionNone, 0.90, "Rain forecasted, conserve resources"},
		},
		{
			Name: "mature_crop",
			When: func(s Signals) bool {
				return s.Stage == StageMature && s.DaysElapsed > 100
			},
			Verdict: Verdict{ActionMonitor, 0.70, "Crop is mature, monitor for harvest"},
		},
		{
			Name:    "default",
			Verdict: Verdict{ActionMonitor, 0.60, "Conditions normal, continue monitoring"},
		},
	}
}
