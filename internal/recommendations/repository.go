package recommendations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/cropwise/internal/crops"
	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/internal/observations"
	"github.com/JaimeStill/cropwise/internal/patterns"
	"github.com/JaimeStill/cropwise/internal/plantings"
	"github.com/JaimeStill/cropwise/internal/weather"
	"github.com/JaimeStill/cropwise/pkg/pagination"
	"github.com/JaimeStill/cropwise/pkg/query"
	"github.com/JaimeStill/cropwise/pkg/repository"
)

// Deps are the collaborators a recommendation repository reads from and
// reports to. Recorder may be nil.
type Deps struct {
	Engine       *decision.Engine
	Plantings    plantings.System
	Crops        crops.System
	Observations observations.System
	Weather      weather.System
	Patterns     patterns.System
	Recorder     Recorder
}

type repo struct {
	db         *sql.DB
	deps       Deps
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// New creates a recommendation repository implementing the System interface.
func New(db *sql.DB, deps Deps, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		deps:       deps,
		logger:     logger.With("system", "recommendations"),
		pagination: pagination,
		now:        time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Recommendation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Action", "Reasoning")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count recommendations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRecommendation)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Recommendation, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecommendation)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (r *repo) Generate(ctx context.Context, plantingID uuid.UUID) (*Recommendation, error) {
	p, err := r.deps.Plantings.Find(ctx, plantingID)
	if err != nil {
		if errors.Is(err, plantings.ErrNotFound) {
			return nil, ErrPlantingNotFound
		}
		return nil, err
	}

	in, err := r.gather(ctx, p)
	if err != nil {
		return nil, err
	}

	out := r.deps.Engine.Recommend(in)
	if out.FallbackReason != "" {
		r.logger.Debug(
			"classifier fallback",
			"planting_id", plantingID,
			"reason", out.FallbackReason,
			"rule", out.Rule,
		)
	}

	rec, err := r.insert(ctx, plantingID, out, r.now().UTC())
	if err != nil {
		return nil, err
	}

	if _, err := r.deps.Patterns.Record(ctx, out.Pattern); err != nil {
		r.logger.Warn("record decision pattern failed", "recommendation_id", rec.ID, "error", err)
	}

	if r.deps.Recorder != nil {
		r.deps.Recorder.RecordRecommendation(
			string(out.Source),
			string(out.Action),
			out.FallbackReason,
			r.deps.Engine.ModelLoaded(),
		)
	}

	r.logger.Info(
		"recommendation generated",
		"id", rec.ID,
		"planting_id", plantingID,
		"action", rec.Action,
		"source", rec.Source,
		"confidence", rec.Confidence,
	)
	return rec, nil
}

// gather loads the engine input for p. The crop, latest observation, and
// weather are read concurrently; a planting whose crop left the catalogue is
// recommended against a name-only profile.
func (r *repo) gather(ctx context.Context, p *plantings.Planting) (decision.Input, error) {
	var (
		profile    = decision.CropProfile{Name: p.CropName, TotalGrowthDays: plantings.FallbackGrowthDays}
		milestones []decision.Milestone
		latest     *observations.Observation
		snapshot   decision.WeatherSnapshot
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		crop, err := r.deps.Crops.Find(gctx, p.CropID)
		if err != nil {
			if errors.Is(err, crops.ErrNotFound) {
				return nil
			}
			return err
		}
		profile = crop.Profile()

		ms, err := r.deps.Crops.Milestones(gctx, p.CropID)
		if err != nil {
			return err
		}
		milestones = crops.Stages(ms)
		return nil
	})

	g.Go(func() error {
		obs, err := r.deps.Observations.Latest(gctx, p.ID)
		if err != nil {
			return err
		}
		latest = obs
		return nil
	})

	g.Go(func() error {
		snapshot = r.deps.Weather.Snapshot(gctx, p.Location())
		return nil
	})

	if err := g.Wait(); err != nil {
		return decision.Input{}, err
	}

	days := decision.ElapsedDays(p.PlantedOn, r.now().UTC())
	in := decision.Input{
		Crop:        profile,
		Milestones:  milestones,
		Stage:       decision.StageFor(days, milestones),
		DaysElapsed: days,
		Weather:     &snapshot,
	}
	if latest != nil {
		in.Observation = latest.Assessment()
	}

	return in, nil
}

func (r *repo) insert(ctx context.Context, plantingID uuid.UUID, out decision.Recommendation, now time.Time) (*Recommendation, error) {
	q := `
		INSERT INTO recommendations(
			planting_id, action, confidence, reasoning, source, priority, rule, fallback_reason,
			water_amount_l, water_interval_days, fertilizer_type, fertilizer_amount_kg,
			next_fertilizer_days, pesticide_type, pesticide_interval_days, scheduled_for)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + returning

	args := []any{
		plantingID,
		out.Action,
		out.Confidence,
		out.Reasoning,
		out.Source,
		out.Priority,
		out.Rule,
		out.FallbackReason,
		out.Details.WaterAmountL,
		out.Details.WaterIntervalDays,
		out.Details.FertilizerType,
		out.Details.FertilizerAmountKg,
		out.Details.NextFertilizerDays,
		out.Details.PesticideType,
		out.Details.PesticideIntervalDays,
		now,
	}

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecommendation)
	if err != nil {
		return nil, repository.MapError(err, ErrPlantingNotFound, ErrDuplicate)
	}
	return &rec, nil
}

func (r *repo) Implement(ctx context.Context, id uuid.UUID) (*Recommendation, error) {
	now := r.now().UTC()

	rec, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Recommendation, error) {
		var implemented bool
		if err := tx.QueryRowContext(
			ctx,
			"SELECT implemented FROM recommendations WHERE id = $1 FOR UPDATE",
			id,
		).Scan(&implemented); err != nil {
			return Recommendation{}, err
		}
		if implemented {
			return Recommendation{}, ErrImplemented
		}

		rec, err := repository.QueryOne(
			ctx, tx,
			`UPDATE recommendations
			SET implemented = TRUE, implemented_at = $2
			WHERE id = $1
			RETURNING `+returning,
			[]any{id, now},
			scanRecommendation,
		)
		if err != nil {
			return Recommendation{}, err
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO observations(planting_id, kind, notes, observed_at)
			VALUES ($1, $2, $3, $4)`,
			rec.PlantingID,
			observations.KindNote,
			rec.ImplementationNote(),
			now,
		); err != nil {
			return Recommendation{}, fmt.Errorf("insert implementation note: %w", err)
		}

		return rec, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("recommendation implemented", "id", id, "planting_id", rec.PlantingID, "action", rec.Action)
	return &rec, nil
}
