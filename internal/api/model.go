package api

import (
	"context"
	"log/slog"
	"time"

	"github.com/JaimeStill/cropwise/internal/config"
	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/pkg/storage"
)

const modelLoadTimeout = 30 * time.Second

// LoadEngine builds the decision engine from the configured model artifact.
// Load failures are logged and yield a rules-only engine.
func LoadEngine(
	ctx context.Context,
	cfg *config.ModelConfig,
	store storage.System,
	logger *slog.Logger,
) *decision.Engine {
	source := cfg.Source()
	if source == "" {
		logger.Info("no model artifact configured, using rule-based recommendations")
		return decision.NewEngine(nil)
	}

	bundle, err := loadBundle(ctx, cfg, store)
	if err != nil {
		logger.Warn(
			"model load failed, using rule-based recommendations",
			"source", source,
			"error", err,
		)
		return decision.NewEngine(nil)
	}

	logger.Info(
		"model loaded",
		"source", source,
		"name", bundle.Name,
		"version", bundle.Version,
	)
	return decision.NewEngine(bundle)
}

func loadBundle(
	ctx context.Context,
	cfg *config.ModelConfig,
	store storage.System,
) (*decision.ModelBundle, error) {
	if cfg.Path != "" {
		return decision.LoadBundleFile(cfg.Path)
	}

	ctx, cancel := context.WithTimeout(ctx, modelLoadTimeout)
	defer cancel()

	result, err := store.Download(ctx, cfg.BlobKey)
	if err != nil {
		return nil, err
	}
	defer result.Body.Close()

	return decision.LoadBundle(result.Body)
}
