package api

import (
	"github.com/JaimeStill/cropwise/internal/analyses"
	"github.com/JaimeStill/cropwise/internal/crops"
	"github.com/JaimeStill/cropwise/internal/observations"
	"github.com/JaimeStill/cropwise/internal/patterns"
	"github.com/JaimeStill/cropwise/internal/plantings"
	"github.com/JaimeStill/cropwise/internal/recommendations"
	"github.com/JaimeStill/cropwise/internal/weather"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Crops           crops.System
	Observations    observations.System
	Plantings       plantings.System
	Patterns        patterns.System
	Recommendations recommendations.System
	Analyses        analyses.System
	Weather         weather.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	cropsSystem := crops.New(db, runtime.Logger, runtime.Pagination)
	obsSystem := observations.New(db, runtime.Logger, runtime.Pagination)
	patternsSystem := patterns.New(db, runtime.Logger, runtime.Pagination)

	plantingsSystem := plantings.New(
		db,
		cropsSystem,
		obsSystem,
		runtime.Weather,
		runtime.Logger,
		runtime.Pagination,
	)

	recsSystem := recommendations.New(
		db,
		recommendations.Deps{
			Engine:       runtime.Engine,
			Plantings:    plantingsSystem,
			Crops:        cropsSystem,
			Observations: obsSystem,
			Weather:      runtime.Weather,
			Patterns:     patternsSystem,
			Recorder:     runtime.Telemetry,
		},
		runtime.Logger,
		runtime.Pagination,
	)

	analysesSystem := analyses.New(
		db,
		runtime.Storage,
		runtime.Vision,
		runtime.Telemetry,
		runtime.Logger,
	)

	return &Domain{
		Crops:           cropsSystem,
		Observations:    obsSystem,
		Plantings:       plantingsSystem,
		Patterns:        patternsSystem,
		Recommendations: recsSystem,
		Analyses:        analysesSystem,
		Weather:         runtime.Weather,
	}
}
