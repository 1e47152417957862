package patterns

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

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

// New creates a pattern repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "patterns"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) Record(ctx context.Context, p decision.Pattern) (*Record, error) {
	q := `
		INSERT INTO decision_patterns(crop_type, visual_health, pest_presence, growth_stage, days_elapsed,
			weather_forecast, temperature_category, recommended_action, outcome_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, crop_type, visual_health, pest_presence, growth_stage, days_elapsed,
			weather_forecast, temperature_category, recommended_action, outcome_score, recorded_at`

	args := []any{
		p.CropType,
		p.Health,
		p.Pest,
		p.Stage,
		p.DaysElapsed,
		p.Sky,
		p.Temperature,
		p.Action,
		p.OutcomeScore,
	}

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Debug("pattern recorded", "id", rec.ID, "crop", rec.CropType, "action", rec.Action)
	return &rec, nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "CropType", "Action")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count patterns: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query patterns: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Export(ctx context.Context, w io.Writer, filters Filters) (int, error) {
	qb := query.NewBuilder(projection, exportSort)
	filters.Apply(qb)
	q, args := qb.Build()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return 0, fmt.Errorf("query patterns: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, err
	}

	n := 0
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return n, fmt.Errorf("scan pattern: %w", err)
		}
		if err := cw.Write(csvRow(rec)); err != nil {
			return n, err
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, err
	}

	r.logger.Info("patterns exported", "rows", n)
	return n, nil
}

func csvRow(r Record) []string {
	return []string{
		r.CropType,
		string(r.Health),
		string(r.Pest),
		string(r.Stage),
		strconv.Itoa(r.DaysElapsed),
		string(r.Sky),
		string(r.Temperature),
		string(r.Action),
		strconv.FormatFloat(r.OutcomeScore, 'f', -1, 64),
		r.RecordedAt.UTC().Format(time.RFC3339),
	}
}
