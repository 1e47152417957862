package api

import (
	"github.com/JaimeStill/cropwise/internal/config"
	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/internal/infrastructure"
	"github.com/JaimeStill/cropwise/internal/vision"
	"github.com/JaimeStill/cropwise/internal/weather"
	"github.com/JaimeStill/cropwise/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// external collaborators shared across domain systems.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Engine     *decision.Engine
	Weather    weather.System
	Vision     *vision.Client
}

// NewRuntime creates an API runtime with a module-scoped logger. The decision
// model is loaded here; a missing or invalid artifact leaves the engine on
// rules alone.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	engine := LoadEngine(infra.Lifecycle.Context(), &cfg.Model, infra.Storage, logger)
	infra.Telemetry.SetModelLoaded(engine.ModelLoaded())

	owm := weather.NewClient(weather.ClientOptions{
		BaseURL:   cfg.Weather.BaseURL,
		APIKey:    cfg.Weather.APIKey,
		Timeout:   cfg.Weather.TimeoutDuration(),
		RateLimit: cfg.Weather.RateLimit,
		Burst:     cfg.Weather.Burst,
	})

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
			Cache:     infra.Cache,
			Telemetry: infra.Telemetry,
		},
		Pagination: cfg.API.Pagination,
		Engine:     engine,
		Weather: weather.New(
			owm,
			infra.Cache,
			cfg.Weather.CacheTTLDuration(),
			infra.Telemetry,
			logger,
		),
		Vision: vision.NewClient(cfg.Vision.BaseURL, cfg.Vision.TimeoutDuration()),
	}
}
