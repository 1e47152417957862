package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/JaimeStill/cropwise/internal/decision"
)

const (
	defaultTimeout = 10 * time.Second
	// forecastSlots samples every other 3-hour slot across the next day.
	forecastSlots = 8
)

// Provider fetches raw conditions for a location.
type Provider interface {
	Current(ctx context.Context, loc Location) (*Reading, error)
	Forecast(ctx context.Context, loc Location) ([]ForecastEntry, error)
}

// ClientOptions configure the OpenWeather client.
type ClientOptions struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

// Client calls the OpenWeather 2.5 API in metric units. Outbound requests
// share a token-bucket limiter.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates an OpenWeather client.
func NewClient(opts ClientOptions) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Client{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, max(opts.Burst, 1)),
	}
}

type owmConditions struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Rain struct {
		ThreeHour float64 `json:"3h"`
	} `json:"rain"`
	Dt int64 `json:"dt"`
}

func (c owmConditions) description() string {
	if len(c.Weather) == 0 {
		return ""
	}
	return c.Weather[0].Description
}

type owmForecast struct {
	List []owmConditions `json:"list"`
}

// Current returns the categorized current conditions at loc.
func (c *Client) Current(ctx context.Context, loc Location) (*Reading, error) {
	var data owmConditions
	if err := c.get(ctx, "/weather", loc, &data); err != nil {
		return nil, err
	}
	if len(data.Weather) == 0 {
		return nil, fmt.Errorf("%w: no conditions in response", ErrUpstream)
	}

	desc := data.description()
	return &Reading{
		Temperature: data.Main.Temp,
		Humidity:    data.Main.Humidity,
		Description: desc,
		WindSpeed:   data.Wind.Speed,
		Band:        decision.CategorizeTemperature(data.Main.Temp),
		Sky:         decision.CategorizeSky(desc),
		ObservedAt:  time.Unix(data.Dt, 0).UTC(),
	}, nil
}

// Forecast returns every other 3-hour slot of the next 24 hours.
func (c *Client) Forecast(ctx context.Context, loc Location) ([]ForecastEntry, error) {
	var data owmForecast
	if err := c.get(ctx, "/forecast", loc, &data); err != nil {
		return nil, err
	}

	entries := make([]ForecastEntry, 0, forecastSlots/2)
	for i := 0; i < len(data.List) && i < forecastSlots; i += 2 {
		item := data.List[i]
		entries = append(entries, ForecastEntry{
			Time:          time.Unix(item.Dt, 0).UTC(),
			Temperature:   item.Main.Temp,
			Humidity:      item.Main.Humidity,
			Description:   item.description(),
			Precipitation: item.Rain.ThreeHour,
		})
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, path string, loc Location, out any) error {
	if c.apiKey == "" {
		return ErrDisabled
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(loc.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(loc.Lon, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned %d", ErrUpstream, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrUpstream, path, err)
	}
	return nil
}
