package decision

import "strings"

// WeatherSnapshot is the categorized weather used for feature building.
type WeatherSnapshot struct {
	Temperature TemperatureBand `json:"temperature_category"`
	Sky         Sky             `json:"weather_category"`
}

// DefaultWeather is used when a planting has no location or the provider fails.
func DefaultWeather() WeatherSnapshot {
	return WeatherSnapshot{Temperature: TempOptimal, Sky: SkySunny}
}

// NewWeatherSnapshot categorizes a raw temperature and forecast description.
func NewWeatherSnapshot(celsius float64, description string) WeatherSnapshot {
	return WeatherSnapshot{
		Temperature: CategorizeTemperature(celsius),
		Sky:         CategorizeSky(description),
	}
}

// CategorizeTemperature buckets celsius into cold, cool, optimal, warm, or hot.
func CategorizeTemperature(celsius float64) TemperatureBand {
	switch {
	case celsius < 10:
		return TempCold
	case celsius < 18:
		return TempCool
	case celsius < 28:
		return TempOptimal
	case celsius < 35:
		return TempWarm
	default:
		return TempHot
	}
}

// skyKeywords is checked in order; storm terms must precede cloud.
var skyKeywords = []struct {
	terms []string
	sky   Sky
}{
	{[]string{"rain", "drizzle"}, SkyRainy},
	{[]string{"storm", "thunder"}, SkyStorm},
	{[]string{"cloud"}, SkyCloudy},
}

// CategorizeSky maps a free-text forecast description to a Sky category.
func CategorizeSky(description string) Sky {
	d := strings.ToLower(description)
	for _, k := range skyKeywords {
		for _, term := range k.terms {
			if strings.Contains(d, term) {
				return k.sky
			}
		}
	}
	return SkySunny
}

// WeatherImpact summarizes how current weather affects field work.
type WeatherImpact struct {
	Status          string   `json:"status"`
	Recommendations []string `json:"recommendations"`
	Risks           []string `json:"risks"`
}

// Impact derives field advice from a snapshot. Sky conditions take the status
// over temperature stress; advice from both accumulates.
func Impact(w WeatherSnapshot) WeatherImpact {
	impact := WeatherImpact{
		Status:          "Normal",
		Recommendations: []string{},
		Risks:           []string{},
	}

	switch w.Temperature {
	case TempHot:
		impact.Status = "Heat Stress"
		impact.Recommendations = append(impact.Recommendations,
			"Water in early morning or evening",
			"Provide shade if possible",
		)
		impact.Risks = append(impact.Risks, "Heat stress can reduce yields")
	case TempCold:
		impact.Status = "Cold Stress"
		impact.Recommendations = append(impact.Recommendations,
			"Reduce watering frequency",
			"Use covers for frost protection",
		)
		impact.Risks = append(impact.Risks, "Frost damage possible")
	}

	switch w.Sky {
	case SkyRainy:
		impact.Status = "Rain Expected"
		impact.Recommendations = append(impact.Recommendations,
			"Delay watering and fertilizer applications",
			"Ensure proper drainage",
		)
		impact.Risks = append(impact.Risks, "Waterlogging and disease risk")
	case SkyStorm:
		impact.Status = "Storm Warning"
		impact.Recommendations = append(impact.Recommendations,
			"Secure plants and structures",
			"Harvest ripe crops if possible",
		)
		impact.Risks = append(impact.Risks, "Physical damage to crops")
	}

	return impact
}
