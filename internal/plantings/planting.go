// Package plantings tracks crops in the ground: when they were planted, how far
// they have grown, and the health state observations and image analyses feed.
package plantings

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/internal/weather"
)

// Planting statuses.
const (
	StatusActive    = "active"
	StatusHarvested = "harvested"
)

// FallbackGrowthDays is the season length assumed when a planting's crop has
// no catalogue entry.
const FallbackGrowthDays = 120

const dateLayout = "2006-01-02"

// Planting is one crop planted on a date, optionally at a known location.
type Planting struct {
	ID              uuid.UUID             `json:"id"`
	CropID          uuid.UUID             `json:"crop_id"`
	PlantedOn       time.Time             `json:"planting_date"`
	ExpectedHarvest *time.Time            `json:"expected_harvest_date"`
	Stage           decision.GrowthStage  `json:"growth_stage"`
	DaysElapsed     int                   `json:"days_elapsed"`
	Progress        float64               `json:"growth_progress"`
	HealthScore     float64               `json:"health_score"`
	DiseaseDetected bool                  `json:"disease_detected"`
	PestPressure    decision.PestPressure `json:"pest_pressure_level"`
	LastObservedAt  *time.Time            `json:"last_observed_at"`
	Latitude        *float64              `json:"latitude"`
	Longitude       *float64              `json:"longitude"`
	Status          string                `json:"status"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	CropName        string                `json:"crop_type"`
}

// Location returns the planting's coordinates, or nil when it has none.
func (p *Planting) Location() *weather.Location {
	if p.Latitude == nil || p.Longitude == nil {
		return nil
	}
	return &weather.Location{Lat: *p.Latitude, Lon: *p.Longitude}
}

// HealthInputs returns the fields the health score is computed from.
func (p *Planting) HealthInputs() decision.HealthInputs {
	return decision.HealthInputs{
		DiseaseDetected: p.DiseaseDetected,
		Pest:            p.PestPressure,
		LastObservedAt:  p.LastObservedAt,
	}
}

// CreateCommand registers a new planting. An empty PlantedOn means today.
type CreateCommand struct {
	CropType  string   `json:"crop_type"`
	PlantedOn string   `json:"planting_date"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Validate checks the command and returns the parsed planting date.
func (c *CreateCommand) Validate(now time.Time) (time.Time, error) {
	c.CropType = strings.TrimSpace(c.CropType)
	if c.CropType == "" {
		return time.Time{}, fmt.Errorf("%w: crop_type required", ErrInvalidPlanting)
	}

	plantedOn := now.UTC().Truncate(24 * time.Hour)
	if c.PlantedOn != "" {
		d, err := time.Parse(dateLayout, c.PlantedOn)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: planting_date must be YYYY-MM-DD", ErrInvalidPlanting)
		}
		plantedOn = d
	}

	if (c.Latitude == nil) != (c.Longitude == nil) {
		return time.Time{}, fmt.Errorf("%w: latitude and longitude go together", ErrInvalidPlanting)
	}
	if loc := (&Planting{Latitude: c.Latitude, Longitude: c.Longitude}).Location(); loc != nil {
		if err := loc.Validate(); err != nil {
			return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidPlanting, err)
		}
	}

	return plantedOn, nil
}

// ObservationSummary is the latest field visit shown with progress.
type ObservationSummary struct {
	ObservedAt time.Time              `json:"date"`
	Health     *decision.Health       `json:"health"`
	Pests      *decision.PestPressure `json:"pests"`
}

// WeatherSummary is the current weather shown with progress.
type WeatherSummary struct {
	Temperature float64      `json:"temperature"`
	Description string       `json:"description"`
	Category    decision.Sky `json:"category"`
}

// ProgressView is a planting's recomputed growth state.
type ProgressView struct {
	PlantingID            uuid.UUID               `json:"planting_id"`
	CropType              string                  `json:"crop_type"`
	PlantedOn             time.Time               `json:"planting_date"`
	DaysElapsed           int                     `json:"days_elapsed"`
	DaysRemaining         int                     `json:"days_remaining"`
	Progress              float64                 `json:"progress_percentage"`
	Stage                 decision.GrowthStage    `json:"growth_stage"`
	HealthScore           float64                 `json:"health_score"`
	Status                string                  `json:"status"`
	CurrentRecommendation decision.Action         `json:"current_recommendation"`
	LastObservation       *ObservationSummary     `json:"last_observation"`
	Weather               *WeatherSummary         `json:"weather"`
	NextMilestone         *decision.NextMilestone `json:"next_milestone"`
}
