package decision

// FeatureCount is the width of a Vector. Classifier artifacts must be trained
// on exactly this many features in Vector order.
const FeatureCount = 6

// Vector is the fixed-order numeric input to a classifier:
// health, pest, stage, normalized days, sky, temperature.
type Vector [FeatureCount]float64

// Observation is one field visit's categorical assessment.
type Observation struct {
	Health          Health       `json:"visual_health"`
	Pest            PestPressure `json:"pest_presence"`
	DiseaseSymptoms string       `json:"disease_symptoms,omitempty"`
	LeafColor       LeafColor    `json:"leaf_color,omitempty"`
	Moisture        SoilMoisture `json:"estimated_moisture,omitempty"`
	Vigor           GrowthVigor  `json:"growth_vigor,omitempty"`
	HeightCM        *float64     `json:"height_cm,omitempty"`
}

// DefaultObservation stands in when a planting has never been observed.
func DefaultObservation() Observation {
	return Observation{Health: HealthGood, Pest: PestNone}
}

// Signals are the raw, uncoded labels the rule table and reasoning read.
type Signals struct {
	Health          Health
	Pest            PestPressure
	Stage           GrowthStage
	DaysElapsed     int
	Sky             Sky
	Temperature     TemperatureBand
	Moisture        SoilMoisture
	LeafColor       LeafColor
	DiseaseSymptoms string
}

// NewSignals normalizes its inputs into Signals. A nil observation or weather
// snapshot falls back to the documented defaults and negative days clamp to zero.
func NewSignals(obs *Observation, stage GrowthStage, days int, weather *WeatherSnapshot) Signals {
	o := DefaultObservation()
	if obs != nil {
		o = *obs
	}

	w := DefaultWeather()
	if weather != nil {
		w = *weather
	}

	return Signals{
		Health:          healthCodec.parse(string(o.Health)),
		Pest:            pestCodec.parse(string(o.Pest)),
		Stage:           stageCodec.parse(string(stage)),
		DaysElapsed:     max(days, 0),
		Sky:             skyCodec.parse(string(w.Sky)),
		Temperature:     temperatureCodec.parse(string(w.Temperature)),
		Moisture:        o.Moisture,
		LeafColor:       o.LeafColor,
		DiseaseSymptoms: o.DiseaseSymptoms,
	}
}

// Vector encodes s in classifier feature order.
func (s Signals) Vector() Vector {
	return Vector{
		float64(s.Health.Code()),
		float64(s.Pest.Code()),
		float64(s.Stage.Code()),
		min(float64(s.DaysElapsed)/100, 1),
		float64(s.Sky.Code()),
		float64(s.Temperature.Code()),
	}
}
