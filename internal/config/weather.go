package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvWeatherAPIKey    = "CROPWISE_WEATHER_API_KEY"
	EnvWeatherBaseURL   = "CROPWISE_WEATHER_BASE_URL"
	EnvWeatherTimeout   = "CROPWISE_WEATHER_TIMEOUT"
	EnvWeatherRateLimit = "CROPWISE_WEATHER_RATE_LIMIT"
	EnvWeatherBurst     = "CROPWISE_WEATHER_BURST"
	EnvWeatherCacheTTL  = "CROPWISE_WEATHER_CACHE_TTL"
)

// WeatherConfig holds OpenWeather client settings. An empty APIKey disables
// live lookups and every snapshot falls back to default conditions.
type WeatherConfig struct {
	APIKey    string  `toml:"api_key"`
	BaseURL   string  `toml:"base_url"`
	Timeout   string  `toml:"timeout"`
	RateLimit float64 `toml:"rate_limit"`
	Burst     int     `toml:"burst"`
	CacheTTL  string  `toml:"cache_ttl"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *WeatherConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// CacheTTLDuration returns CacheTTL as a time.Duration.
func (c *WeatherConfig) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *WeatherConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *WeatherConfig) Merge(overlay *WeatherConfig) {
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.RateLimit != 0 {
		c.RateLimit = overlay.RateLimit
	}
	if overlay.Burst != 0 {
		c.Burst = overlay.Burst
	}
	if overlay.CacheTTL != "" {
		c.CacheTTL = overlay.CacheTTL
	}
}

func (c *WeatherConfig) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openweathermap.org/data/2.5"
	}
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
	if c.RateLimit == 0 {
		c.RateLimit = 1
	}
	if c.Burst == 0 {
		c.Burst = 5
	}
	if c.CacheTTL == "" {
		c.CacheTTL = "10m"
	}
}

func (c *WeatherConfig) loadEnv() {
	if v := os.Getenv(EnvWeatherAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvWeatherBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvWeatherTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvWeatherRateLimit); v != "" {
		if rps, err := strconv.ParseFloat(v, 64); err == nil {
			c.RateLimit = rps
		}
	}
	if v := os.Getenv(EnvWeatherBurst); v != "" {
		if burst, err := strconv.Atoi(v); err == nil {
			c.Burst = burst
		}
	}
	if v := os.Getenv(EnvWeatherCacheTTL); v != "" {
		c.CacheTTL = v
	}
}

func (c *WeatherConfig) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.CacheTTL); err != nil {
		return fmt.Errorf("invalid cache_ttl: %w", err)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate_limit must be positive")
	}
	if c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1")
	}
	return nil
}
