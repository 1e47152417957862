// Package weather provides current conditions and short-range forecasts from
// OpenWeather, categorized for the decision engine.
package weather

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/JaimeStill/cropwise/internal/decision"
)

// Location is a point on the map in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks the coordinate ranges.
func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidLocation, l.Lat)
	}
	if l.Lon < -180 || l.Lon > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidLocation, l.Lon)
	}
	return nil
}

func (l Location) cacheKey() string {
	return fmt.Sprintf("weather:current:%.2f:%.2f", l.Lat, l.Lon)
}

// LocationFromQuery parses lat and lon query parameters.
func LocationFromQuery(values url.Values) (Location, error) {
	lat, err := strconv.ParseFloat(values.Get("lat"), 64)
	if err != nil {
		return Location{}, fmt.Errorf("%w: lat required", ErrInvalidLocation)
	}
	lon, err := strconv.ParseFloat(values.Get("lon"), 64)
	if err != nil {
		return Location{}, fmt.Errorf("%w: lon required", ErrInvalidLocation)
	}

	loc := Location{Lat: lat, Lon: lon}
	return loc, loc.Validate()
}

// Reading is a categorized current-conditions observation.
type Reading struct {
	Temperature float64                  `json:"temperature"`
	Humidity    float64                  `json:"humidity"`
	Description string                   `json:"description"`
	WindSpeed   float64                  `json:"wind_speed"`
	Band        decision.TemperatureBand `json:"temperature_category"`
	Sky         decision.Sky             `json:"weather_category"`
	ObservedAt  time.Time                `json:"observed_at"`
}

// Snapshot reduces the reading to the engine's weather features.
func (r *Reading) Snapshot() decision.WeatherSnapshot {
	return decision.WeatherSnapshot{Temperature: r.Band, Sky: r.Sky}
}

// ForecastEntry is one forecast slot.
type ForecastEntry struct {
	Time          time.Time `json:"time"`
	Temperature   float64   `json:"temperature"`
	Humidity      float64   `json:"humidity"`
	Description   string    `json:"description"`
	Precipitation float64   `json:"precipitation"`
}

// Report combines current conditions, forecast, and field impact.
type Report struct {
	Location Location                 `json:"location"`
	Current  Reading                  `json:"current"`
	Forecast []ForecastEntry          `json:"forecast"`
	Snapshot decision.WeatherSnapshot `json:"snapshot"`
	Impact   decision.WeatherImpact   `json:"impact"`
}
