package observations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/pkg/pagination"
	"github.com/JaimeStill/cropwise/pkg/query"
	"github.com/JaimeStill/cropwise/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an observation repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "observations"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Observation], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Notes", "DiseaseSymptoms")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count observations: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanObservation)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Latest(ctx context.Context, plantingID uuid.UUID) (*Observation, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("PlantingID", plantingID).
		BuildPage(1, 1)

	o, err := repository.QueryOne(ctx, r.db, q, args, scanObservation)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest observation: %w", err)
	}
	return &o, nil
}

type plantingState struct {
	disease bool
	pest    decision.PestPressure
}

func (r *repo) Create(ctx context.Context, plantingID uuid.UUID, cmd CreateCommand) (*Observation, error) {
	if err := cmd.Normalize(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	o, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Observation, error) {
		var state plantingState
		err := tx.QueryRowContext(
			ctx,
			"SELECT disease_detected, pest_pressure FROM plantings WHERE id = $1 FOR UPDATE",
			plantingID,
		).Scan(&state.disease, &state.pest)
		if err != nil {
			return Observation{}, repository.MapError(err, ErrPlantingNotFound, ErrDuplicate)
		}

		q := `
			INSERT INTO observations(planting_id, kind, health, pest, disease_symptoms, leaf_color, vigor, moisture, height_cm, notes, observed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			RETURNING ` + returning

		args := []any{
			plantingID,
			cmd.Kind,
			cmd.Health,
			cmd.Pest,
			cmd.DiseaseSymptoms,
			cmd.LeafColor,
			cmd.Vigor,
			cmd.Moisture,
			cmd.HeightCM,
			cmd.Notes,
			now,
		}

		o, err := repository.QueryOne(ctx, tx, q, args, scanObservation)
		if err != nil {
			return Observation{}, err
		}

		if cmd.Pest != nil {
			state.pest = *cmd.Pest
		}
		if cmd.DiseaseSymptoms != "" {
			state.disease = true
		}

		score := decision.HealthScore(decision.HealthInputs{
			DiseaseDetected: state.disease,
			Pest:            state.pest,
			LastObservedAt:  &now,
		}, now)

		if err := repository.ExecExpectOne(
			ctx, tx,
			`UPDATE plantings
			SET pest_pressure = $2, disease_detected = $3, last_observed_at = $4, health_score = $5, updated_at = NOW()
			WHERE id = $1`,
			plantingID, state.pest, state.disease, now, score,
		); err != nil {
			return Observation{}, err
		}

		return o, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrPlantingNotFound, ErrDuplicate)
	}

	r.logger.Info("observation recorded", "id", o.ID, "planting_id", plantingID, "kind", o.Kind)
	return &o, nil
}
