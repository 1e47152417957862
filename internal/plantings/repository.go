package plantings

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
	"github.com/JaimeStill/cropwise/internal/weather"
	"github.com/JaimeStill/cropwise/pkg/pagination"
	"github.com/JaimeStill/cropwise/pkg/query"
	"github.com/JaimeStill/cropwise/pkg/repository"
)

type repo struct {
	db           *sql.DB
	crops        crops.System
	observations observations.System
	weather      weather.System
	logger       *slog.Logger
	pagination   pagination.Config
	now          func() time.Time
}

// New creates a planting repository implementing the System interface.
func New(
	db *sql.DB,
	cropSys crops.System,
	obsSys observations.System,
	weatherSys weather.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:           db,
		crops:        cropSys,
		observations: obsSys,
		weather:      weatherSys,
		logger:       logger.With("system", "plantings"),
		pagination:   pagination,
		now:          time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Planting], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "CropName", "Stage")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count plantings: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanPlanting)
	if err != nil {
		return nil, fmt.Errorf("query plantings: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Planting, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanPlanting)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Planting, error) {
	now := r.now().UTC()

	plantedOn, err := cmd.Validate(now)
	if err != nil {
		return nil, err
	}

	crop, err := r.crops.Ensure(ctx, cmd.CropType)
	if err != nil {
		return nil, fmt.Errorf("ensure crop: %w", err)
	}

	ms, err := r.crops.Milestones(ctx, crop.ID)
	if err != nil {
		return nil, err
	}

	days := decision.ElapsedDays(plantedOn, now)
	stage := decision.StageFor(days, crops.Stages(ms))
	progress := decision.GrowthProgress(days, crop.TotalGrowthDays)
	expected := plantedOn.AddDate(0, 0, crop.TotalGrowthDays)
	plan := decision.InitialPlan(crop.Profile(), now)

	id, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (uuid.UUID, error) {
		var id uuid.UUID
		err := tx.QueryRowContext(
			ctx,
			`INSERT INTO plantings(crop_id, planted_on, expected_harvest, stage, days_elapsed, progress, last_observed_at, latitude, longitude)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id`,
			crop.ID, plantedOn, expected, stage, days, progress, now, cmd.Latitude, cmd.Longitude,
		).Scan(&id)
		if err != nil {
			return uuid.Nil, err
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO observations(planting_id, kind, health, pest, leaf_color, vigor, notes, observed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			id,
			observations.KindVisual,
			decision.HealthExcellent,
			decision.PestNone,
			decision.LeafGreen,
			decision.VigorVigorous,
			"Initial planting observation",
			now,
		); err != nil {
			return uuid.Nil, fmt.Errorf("insert initial observation: %w", err)
		}

		for _, p := range plan {
			if err := insertPlanned(ctx, tx, id, p); err != nil {
				return uuid.Nil, fmt.Errorf("insert initial plan: %w", err)
			}
		}

		return id, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("planting created", "id", id, "crop", crop.Name, "planted_on", plantedOn.Format(dateLayout))
	return r.Find(ctx, id)
}

func insertPlanned(ctx context.Context, tx *sql.Tx, plantingID uuid.UUID, p decision.Planned) error {
	_, err := tx.ExecContext(
		ctx,
		`INSERT INTO recommendations(
			planting_id, action, confidence, reasoning, source, priority,
			water_amount_l, water_interval_days, fertilizer_type, fertilizer_amount_kg,
			next_fertilizer_days, pesticide_type, pesticide_interval_days, scheduled_for)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		plantingID,
		p.Action,
		p.Confidence,
		p.Reasoning,
		decision.SourceSystem,
		p.Priority,
		p.Details.WaterAmountL,
		p.Details.WaterIntervalDays,
		p.Details.FertilizerType,
		p.Details.FertilizerAmountKg,
		p.Details.NextFertilizerDays,
		p.Details.PesticideType,
		p.Details.PesticideIntervalDays,
		p.ScheduledFor,
	)
	return err
}

type growthInputs struct {
	totalDays  int
	milestones []decision.Milestone
	latest     *observations.Observation
	pending    decision.Action
	reading    *weather.Reading
}

func (r *repo) Progress(ctx context.Context, id uuid.UUID) (*ProgressView, error) {
	p, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	in := growthInputs{totalDays: FallbackGrowthDays, pending: decision.ActionMonitor}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		crop, err := r.crops.Find(gctx, p.CropID)
		if err != nil {
			if errors.Is(err, crops.ErrNotFound) {
				return nil
			}
			return err
		}
		in.totalDays = crop.TotalGrowthDays

		ms, err := r.crops.Milestones(gctx, p.CropID)
		if err != nil {
			return err
		}
		in.milestones = crops.Stages(ms)
		return nil
	})

	g.Go(func() error {
		latest, err := r.observations.Latest(gctx, id)
		if err != nil {
			return err
		}
		in.latest = latest
		return nil
	})

	g.Go(func() error {
		var action decision.Action
		err := r.db.QueryRowContext(
			gctx,
			`SELECT action FROM recommendations
			WHERE planting_id = $1 AND NOT implemented
			ORDER BY created_at DESC LIMIT 1`,
			id,
		).Scan(&action)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("pending recommendation: %w", err)
		}
		in.pending = action
		return nil
	})

	if loc := p.Location(); loc != nil {
		g.Go(func() error {
			reading, err := r.weather.Current(gctx, *loc)
			if err != nil {
				r.logger.Warn("weather unavailable for progress", "planting_id", id, "error", err)
				return nil
			}
			in.reading = reading
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := r.now().UTC()
	days := decision.ElapsedDays(p.PlantedOn, now)
	stage := decision.StageFor(days, in.milestones)
	progress := decision.GrowthProgress(days, in.totalDays)
	if p.Status == StatusHarvested {
		stage = p.Stage
		progress = decision.HarvestedProgress
	}
	health := decision.HealthScore(p.HealthInputs(), now)

	if err := repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE plantings
		SET days_elapsed = $2, stage = $3, progress = $4, health_score = $5, updated_at = NOW()
		WHERE id = $1`,
		id, days, stage, progress, health,
	); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	view := &ProgressView{
		PlantingID:            id,
		CropType:              p.CropName,
		PlantedOn:             p.PlantedOn,
		DaysElapsed:           days,
		DaysRemaining:         max(0, in.totalDays-days),
		Progress:              progress,
		Stage:                 stage,
		HealthScore:           health,
		Status:                p.Status,
		CurrentRecommendation: in.pending,
		NextMilestone:         decision.UpcomingMilestone(days, in.milestones),
	}

	if in.latest != nil {
		view.LastObservation = &ObservationSummary{
			ObservedAt: in.latest.ObservedAt,
			Health:     in.latest.Health,
			Pests:      in.latest.Pest,
		}
	}

	if in.reading != nil {
		view.Weather = &WeatherSummary{
			Temperature: in.reading.Temperature,
			Description: in.reading.Description,
			Category:    in.reading.Sky,
		}
	}

	return view, nil
}

func (r *repo) Harvest(ctx context.Context, id uuid.UUID) (*Planting, error) {
	p, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == StatusHarvested {
		return nil, ErrHarvested
	}

	if err := repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE plantings
		SET status = $2, progress = 100, stage = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4`,
		id, StatusHarvested, decision.StageMature, StatusActive,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHarvested
		}
		return nil, err
	}

	p.Status = StatusHarvested
	p.Progress = 100
	p.Stage = decision.StageMature

	r.logger.Info("planting harvested", "id", id, "crop", p.CropName)
	return p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM plantings WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("planting deleted", "id", id)
	return nil
}
