package decision_test

import (
	"testing"

	"github.com/JaimeStill/cropwise/internal/decision"
)

func signals(health decision.Health, pest decision.PestPressure, stage decision.GrowthStage, days int, sky decision.Sky, temp decision.TemperatureBand) decision.Signals {
	return decision.NewSignals(
		&decision.Observation{Health: health, Pest: pest},
		stage,
		days,
		&decision.WeatherSnapshot{Temperature: temp, Sky: sky},
	)
}

func TestDefaultRules(t *testing.T) {
	tests := []struct {
		name       string
		signals    decision.Signals
		action     decision.Action
		confidence float64
		rule       string
	}{
		{
			name:       "high pest",
			signals:    signals(decision.HealthGood, decision.PestHigh, decision.StageVegetative, 20, decision.SkySunny, decision.TempOptimal),
			action:     decision.ActionPesticide,
			confidence: 0.85,
			rule:       "pest_or_poor_health",
		},
		{
			name:       "poor health",
			signals:    signals(decision.HealthPoor, decision.PestNone, decision.StageVegetative, 20, decision.SkySunny, decision.TempOptimal),
			action:     decision.ActionPesticide,
			confidence: 0.85,
			rule:       "pest_or_poor_health",
		},
		{
			name:       "flowering healthy",
			signals:    signals(decision.HealthExcellent, decision.PestNone, decision.StageFlowering, 60, decision.SkyRainy, decision.TempOptimal),
			action:     decision.ActionFertilize,
			confidence: 0.80,
			rule:       "flowering_nutrients",
		},
		{
			name:       "flowering fair falls through to irrigate",
			signals:    signals(decision.HealthFair, decision.PestNone, decision.StageFlowering, 60, decision.SkyCloudy, decision.TempWarm),
			action:     decision.ActionIrrigate,
			confidence: 0.75,
			rule:       "hot_dry_weather",
		},
		{
			name:       "rain",
			signals:    signals(decision.HealthGood, decision.PestNone, decision.StageVegetative, 20, decision.SkyRainy, decision.TempHot),
			action:     decision.ActionNone,
			confidence: 0.90,
			rule:       "rain_forecast",
		},
		{
			name:       "mature past 100 days",
			signals:    signals(decision.HealthGood, decision.PestNone, decision.StageMature, 101, decision.SkyStorm, decision.TempOptimal),
			action:     decision.ActionMonitor,
			confidence: 0.70,
			rule:       "mature_crop",
		},
		{
			name:       "mature at exactly 100 days",
			signals:    signals(decision.HealthGood, decision.PestNone, decision.StageMature, 100, decision.SkySunny, decision.TempOptimal),
			action:     decision.ActionMonitor,
			confidence: 0.60,
			rule:       "default",
		},
		{
			name:       "default",
			signals:    signals(decision.HealthGood, decision.PestLow, decision.StageSeedling, 3, decision.SkySunny, decision.TempCool),
			action:     decision.ActionMonitor,
			confidence: 0.60,
			rule:       "default",
		},
	}

	rules := decision.DefaultRules()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, rule := rules.Evaluate(tt.signals)
			if v.Action != tt.action {
				t.Errorf("action = %q, want %q", v.Action, tt.action)
			}
			if v.Confidence != tt.confidence {
				t.Errorf("confidence = %v, want %v", v.Confidence, tt.confidence)
			}
			if rule.Name != tt.rule {
				t.Errorf("rule = %q, want %q", rule.Name, tt.rule)
			}
		})
	}
}

func TestRuleOrderingFirstMatchWins(t *testing.T) {
	s := signals(decision.HealthGood, decision.PestHigh, decision.StageVegetative, 20, decision.SkySunny, decision.TempHot)

	v, _ := decision.DefaultRules().Evaluate(s)
	if v.Action != decision.ActionPesticide || v.Confidence != 0.85 {
		t.Errorf("got (%q, %v), want (pesticide, 0.85)", v.Action, v.Confidence)
	}
}

func TestRuleTableOrderIsStructural(t *testing.T) {
	rules := decision.DefaultRules()
	want := []string{
		"pest_or_poor_health",
		"flowering_nutrients",
		"hot_dry_weather",
		"rain_forecast",
		"mature_crop",
		"default",
	}

	if len(rules) != len(want) {
		t.Fatalf("len(rules) = %d, want %d", len(rules), len(want))
	}
	for i, name := range want {
		if rules[i].Name != name {
			t.Errorf("rules[%d] = %q, want %q", i, rules[i].Name, name)
		}
	}
}

func TestEmptyRuleTable(t *testing.T) {
	v, rule := decision.RuleTable{}.Evaluate(decision.NewSignals(nil, "", 0, nil))
	if v.Action != decision.ActionMonitor {
		t.Errorf("action = %q, want monitor", v.Action)
	}
	if rule.Name != "none" {
		t.Errorf("rule = %q, want none", rule.Name)
	}
}
