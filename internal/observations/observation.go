// Package observations records field visits against a planting and keeps the
// planting's pest pressure, disease flag, and health score in step with them.
package observations

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/internal/decision"
)

// Observation kinds.
const (
	KindVisual        = "visual"
	KindMeasurement   = "measurement"
	KindImageAnalysis = "image_analysis"
	KindNote          = "note"
)

var kinds = []string{KindVisual, KindMeasurement, KindImageAnalysis, KindNote}

// Observation is one recorded field visit.
type Observation struct {
	ID              uuid.UUID              `json:"id"`
	PlantingID      uuid.UUID              `json:"planting_id"`
	Kind            string                 `json:"observation_type"`
	Health          *decision.Health       `json:"visual_health"`
	Pest            *decision.PestPressure `json:"pest_presence"`
	DiseaseSymptoms string                 `json:"disease_symptoms"`
	LeafColor       *decision.LeafColor    `json:"leaf_color"`
	Vigor           *decision.GrowthVigor  `json:"growth_vigor"`
	Moisture        *decision.SoilMoisture `json:"estimated_moisture"`
	HeightCM        *float64               `json:"estimated_height_cm"`
	Notes           string                 `json:"notes"`
	ObservedAt      time.Time              `json:"observed_at"`
}

// Assessment converts o into the engine's observation. Missing labels are
// left empty and resolve to the engine defaults.
func (o *Observation) Assessment() *decision.Observation {
	a := &decision.Observation{
		DiseaseSymptoms: o.DiseaseSymptoms,
		HeightCM:        o.HeightCM,
	}
	if o.Health != nil {
		a.Health = *o.Health
	}
	if o.Pest != nil {
		a.Pest = *o.Pest
	}
	if o.LeafColor != nil {
		a.LeafColor = *o.LeafColor
	}
	if o.Vigor != nil {
		a.Vigor = *o.Vigor
	}
	if o.Moisture != nil {
		a.Moisture = *o.Moisture
	}
	return a
}

// CreateCommand carries a new observation. Nil labels are stored as NULL.
type CreateCommand struct {
	Kind            string                 `json:"observation_type"`
	Health          *decision.Health       `json:"visual_health"`
	Pest            *decision.PestPressure `json:"pest_presence"`
	DiseaseSymptoms string                 `json:"disease_symptoms"`
	LeafColor       *decision.LeafColor    `json:"leaf_color"`
	Vigor           *decision.GrowthVigor  `json:"growth_vigor"`
	Moisture        *decision.SoilMoisture `json:"estimated_moisture"`
	HeightCM        *float64               `json:"estimated_height_cm"`
	Notes           string                 `json:"notes"`
}

// Normalize lowercases and trims every label, defaults the kind to visual,
// and rejects labels outside their enumeration.
func (c *CreateCommand) Normalize() error {
	c.Kind = strings.ToLower(strings.TrimSpace(c.Kind))
	if c.Kind == "" {
		c.Kind = KindVisual
	}
	if !validKind(c.Kind) {
		return invalid("observation_type", c.Kind)
	}

	c.Health = normalize(c.Health)
	c.Pest = normalize(c.Pest)
	c.LeafColor = normalize(c.LeafColor)
	c.Vigor = normalize(c.Vigor)
	c.Moisture = normalize(c.Moisture)
	c.DiseaseSymptoms = strings.TrimSpace(c.DiseaseSymptoms)

	switch {
	case c.Health != nil && !c.Health.Valid():
		return invalid("visual_health", string(*c.Health))
	case c.Pest != nil && !c.Pest.Valid():
		return invalid("pest_presence", string(*c.Pest))
	case c.LeafColor != nil && !c.LeafColor.Valid():
		return invalid("leaf_color", string(*c.LeafColor))
	case c.Vigor != nil && !c.Vigor.Valid():
		return invalid("growth_vigor", string(*c.Vigor))
	case c.Moisture != nil && !c.Moisture.Valid():
		return invalid("estimated_moisture", string(*c.Moisture))
	case c.HeightCM != nil && *c.HeightCM < 0:
		return invalid("estimated_height_cm", "negative")
	}

	return nil
}

func normalize[T ~string](v *T) *T {
	if v == nil {
		return nil
	}
	n := T(strings.ToLower(strings.TrimSpace(string(*v))))
	if n == "" {
		return nil
	}
	return &n
}

func validKind(k string) bool {
	for _, known := range kinds {
		if k == known {
			return true
		}
	}
	return false
}
