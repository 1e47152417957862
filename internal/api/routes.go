package api

import (
	"net/http"

	"github.com/JaimeStill/cropwise/internal/config"
	"github.com/JaimeStill/cropwise/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	routes.Register(
		mux,
		domain.Crops.Handler().Routes(),
		domain.Plantings.Handler().Routes(),
		domain.Observations.Handler().Routes(),
		domain.Recommendations.Handler().Routes(),
		domain.Patterns.Handler().Routes(),
		domain.Analyses.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Weather.Handler().Routes(),
		newImagesHandler(
			runtime.Storage,
			runtime.Logger,
			cfg.Storage.MaxListSize,
		).routes(),
	)
}
