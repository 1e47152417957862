package crops

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/pkg/pagination"
	"github.com/JaimeStill/cropwise/pkg/query"
	"github.com/JaimeStill/cropwise/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a crop repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "crops"),
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
) (*pagination.PageResult[Crop], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Name", "Season")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count crops: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCrop)
	if err != nil {
		return nil, fmt.Errorf("query crops: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Crop, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCrop)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) FindByName(ctx context.Context, name string) (*Crop, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidCrop
	}

	q, args := query.
		NewBuilder(projection).
		WhereEquals("Name", name).
		BuildSingleOrNull()

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCrop)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &c, nil
}

func (r *repo) Ensure(ctx context.Context, name string) (*Crop, error) {
	c, err := r.FindByName(ctx, name)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// A concurrent Ensure may insert first; the no-op update returns that row.
	q := `
		INSERT INTO crops(name, season, ideal_temperature_c, ideal_soil_ph, water_need_l_per_week, total_growth_days)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, season, ideal_temperature_c, ideal_soil_ph, water_need_l_per_week, total_growth_days, created_at`

	args := []any{
		strings.TrimSpace(name),
		DefaultSeason,
		DefaultTemperatureC,
		DefaultSoilPH,
		DefaultWaterLPerWeek,
		DefaultGrowthDays,
	}

	created, err := repository.QueryOne(ctx, r.db, q, args, scanCrop)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("crop created with defaults", "id", created.ID, "name", created.Name)
	return &created, nil
}

func (r *repo) Milestones(ctx context.Context, cropID uuid.UUID) ([]Milestone, error) {
	q, args := query.
		NewBuilder(milestoneProjection, milestoneSort).
		WhereEquals("CropID", cropID).
		Build()

	ms, err := repository.QueryMany(ctx, r.db, q, args, scanMilestone)
	if err != nil {
		return nil, fmt.Errorf("query milestones: %w", err)
	}
	return ms, nil
}
