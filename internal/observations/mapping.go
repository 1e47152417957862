package observations

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/pkg/query"
	"github.com/JaimeStill/cropwise/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "observations", "o").
	Project("id", "ID").
	Project("planting_id", "PlantingID").
	Project("kind", "Kind").
	Project("health", "Health").
	Project("pest", "Pest").
	Project("disease_symptoms", "DiseaseSymptoms").
	Project("leaf_color", "LeafColor").
	Project("vigor", "Vigor").
	Project("moisture", "Moisture").
	Project("height_cm", "HeightCM").
	Project("notes", "Notes").
	Project("observed_at", "ObservedAt")

var defaultSort = query.SortField{
	Field:      "ObservedAt",
	Descending: true,
}

const returning = `id, planting_id, kind, health, pest, disease_symptoms, leaf_color, vigor, moisture, height_cm, notes, observed_at`

// Filters contains optional filtering criteria for observation queries.
type Filters struct {
	PlantingID *uuid.UUID `json:"planting_id,omitempty"`
	Kind       *string    `json:"observation_type,omitempty"`
	Health     *string    `json:"visual_health,omitempty"`
	Pest       *string    `json:"pest_presence,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("PlantingID", f.PlantingID).
		WhereEquals("Kind", f.Kind).
		WhereEquals("Health", f.Health).
		WhereEquals("Pest", f.Pest)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// An unparseable planting_id is ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if pid := values.Get("planting_id"); pid != "" {
		if id, err := uuid.Parse(pid); err == nil {
			f.PlantingID = &id
		}
	}

	if k := values.Get("observation_type"); k != "" {
		f.Kind = &k
	}

	if h := values.Get("visual_health"); h != "" {
		f.Health = &h
	}

	if p := values.Get("pest_presence"); p != "" {
		f.Pest = &p
	}

	return f
}

func scanObservation(s repository.Scanner) (Observation, error) {
	var o Observation
	err := s.Scan(
		&o.ID,
		&o.PlantingID,
		&o.Kind,
		&o.Health,
		&o.Pest,
		&o.DiseaseSymptoms,
		&o.LeafColor,
		&o.Vigor,
		&o.Moisture,
		&o.HeightCM,
		&o.Notes,
		&o.ObservedAt,
	)
	return o, err
}
