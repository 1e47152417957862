package analyses

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/internal/vision"
	"github.com/JaimeStill/cropwise/pkg/query"
	"github.com/JaimeStill/cropwise/pkg/repository"
	"github.com/JaimeStill/cropwise/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	classifier Classifier
	recorder   Recorder
	logger     *slog.Logger
	now        func() time.Time
}

// New creates an analysis repository implementing the System interface.
// recorder may be nil.
func New(
	db *sql.DB,
	store storage.System,
	classifier Classifier,
	recorder Recorder,
	logger *slog.Logger,
) System {
	return &repo{
		db:         db,
		storage:    store,
		classifier: classifier,
		recorder:   recorder,
		logger:     logger.With("system", "analyses"),
		now:        time.Now,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, maxUploadSize)
}

func (r *repo) List(ctx context.Context, plantingID uuid.UUID) ([]Analysis, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("PlantingID", plantingID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanAnalysis)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	return items, nil
}

func (r *repo) Analyze(ctx context.Context, plantingID uuid.UUID, cmd UploadCommand) (*Analysis, error) {
	if len(cmd.Data) == 0 {
		return nil, ErrInvalidImage
	}

	detections, err := r.classifier.Classify(ctx, cmd.Filename, bytes.NewReader(cmd.Data))
	if err != nil {
		r.record(OutcomeError)
		return nil, fmt.Errorf("classify image: %w", err)
	}

	id := uuid.New()
	key := buildImageKey(plantingID, id, cmd.Filename)

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		r.record(OutcomeError)
		return nil, fmt.Errorf("upload image blob: %w", err)
	}

	a, err := r.persist(ctx, id, plantingID, key, Interpret(detections), detections)
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		r.record(OutcomeError)
		return nil, err
	}

	return a, nil
}

func (r *repo) Record(ctx context.Context, plantingID uuid.UUID, cmd RecordCommand) (*Analysis, error) {
	finding := cmd.Finding()

	a, err := r.persist(ctx, uuid.New(), plantingID, cmd.ImageKey, finding, cmd.Detections)
	if err != nil {
		r.record(OutcomeError)
		return nil, err
	}
	return a, nil
}

// persist stores the analysis and applies its finding to the planting in one
// transaction: a disease sets the disease flag and costs DiseasePenalty health,
// pests set the pressure level from their confidence.
func (r *repo) persist(
	ctx context.Context,
	id, plantingID uuid.UUID,
	key string,
	f Finding,
	detections []vision.Detection,
) (*Analysis, error) {
	if detections == nil {
		detections = []vision.Detection{}
	}
	raw, err := json.Marshal(detections)
	if err != nil {
		return nil, fmt.Errorf("encode detections: %w", err)
	}

	now := r.now().UTC()

	a, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Analysis, error) {
		var (
			health  float64
			disease bool
			pest    decision.PestPressure
		)
		err := tx.QueryRowContext(
			ctx,
			"SELECT health_score, disease_detected, pest_pressure FROM plantings WHERE id = $1 FOR UPDATE",
			plantingID,
		).Scan(&health, &disease, &pest)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return Analysis{}, ErrPlantingNotFound
			}
			return Analysis{}, err
		}

		a, err := repository.QueryOne(
			ctx, tx,
			`INSERT INTO image_analyses(id, planting_id, image_key, detected_disease, disease_confidence,
				detected_pests, pest_confidence, detections, analyzed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+returning,
			[]any{id, plantingID, key, f.Disease, f.DiseaseConfidence, f.Pests, f.PestConfidence, raw, now},
			scanAnalysis,
		)
		if err != nil {
			return Analysis{}, err
		}

		if f.Disease == nil && f.Pests == nil {
			return a, nil
		}

		if f.Disease != nil {
			disease = true
			health = max(0, health-DiseasePenalty)
		}
		if f.Pests != nil {
			var conf float64
			if f.PestConfidence != nil {
				conf = *f.PestConfidence
			}
			pest = PestPressureFor(conf)
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			`UPDATE plantings
			SET disease_detected = $2, pest_pressure = $3, health_score = $4, updated_at = NOW()
			WHERE id = $1`,
			plantingID, disease, pest, health,
		); err != nil {
			return Analysis{}, fmt.Errorf("update planting health: %w", err)
		}

		return a, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	outcome := f.Outcome()
	r.record(outcome)
	r.logger.Info("image analysis recorded", "id", a.ID, "planting_id", plantingID, "outcome", outcome)
	return &a, nil
}

func (r *repo) record(outcome string) {
	if r.recorder != nil {
		r.recorder.RecordAnalysis(outcome)
	}
}

func buildImageKey(plantingID, id uuid.UUID, filename string) string {
	name := filepath.Base(filename)
	if name == "." || name == "/" || name == "" {
		name = "image"
	}
	return ImagePrefix(plantingID) + id.String() + "/" + name
}
