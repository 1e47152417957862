// Package analyses stores field-image classification results and folds the
// disease and pest findings into the planting's health state.
package analyses

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cropwise/internal/decision"
	"github.com/JaimeStill/cropwise/internal/vision"
)

// ImageRoot is the blob key prefix shared by every uploaded field image.
const ImageRoot = "analyses/"

// ImagePrefix is the blob key prefix of one planting's images.
func ImagePrefix(plantingID uuid.UUID) string {
	return ImageRoot + plantingID.String() + "/"
}

// MinDetectionConfidence is the score below which a top detection is ignored.
const MinDetectionConfidence = 0.25

// DiseasePenalty is subtracted from the planting's health score when an
// analysis finds a disease.
const DiseasePenalty = 20.0

// Outcome labels passed to Recorder.
const (
	OutcomeHealthy = "healthy"
	OutcomeDisease = "disease"
	OutcomePest    = "pest"
	OutcomeError   = "error"
)

var pestKeywords = []string{
	"aphid", "mite", "whitefly", "thrips", "beetle", "caterpillar", "worm",
	"borer", "hopper", "weevil", "bug", "locust", "mealybug", "pest", "insect",
}

// Analysis is one stored image analysis.
type Analysis struct {
	ID                uuid.UUID          `json:"id"`
	PlantingID        uuid.UUID          `json:"planting_id"`
	ImageKey          string             `json:"image_path"`
	DetectedDisease   *string            `json:"detected_disease"`
	DiseaseConfidence *float64           `json:"disease_confidence"`
	DetectedPests     *string            `json:"detected_pests"`
	PestConfidence    *float64           `json:"pest_confidence"`
	Detections        []vision.Detection `json:"detections"`
	AnalyzedAt        time.Time          `json:"analysis_date"`
}

// Classifier labels an image. *vision.Client satisfies it.
type Classifier interface {
	Classify(ctx context.Context, filename string, image io.Reader) ([]vision.Detection, error)
}

// Recorder receives analysis outcomes for metrics.
type Recorder interface {
	RecordAnalysis(result string)
}

// UploadCommand carries an image to classify.
type UploadCommand struct {
	Data        []byte
	Filename    string
	ContentType string
}

// RecordCommand carries externally produced analysis results. When neither a
// disease nor pests are named, Detections are interpreted instead.
type RecordCommand struct {
	ImageKey          string             `json:"image_path"`
	DetectedDisease   *string            `json:"detected_disease"`
	DiseaseConfidence *float64           `json:"disease_confidence"`
	DetectedPests     *string            `json:"detected_pests"`
	PestConfidence    *float64           `json:"pest_confidence"`
	Detections        []vision.Detection `json:"detections"`
}

// Finding is what an analysis contributes to planting health.
type Finding struct {
	Disease           *string
	DiseaseConfidence *float64
	Pests             *string
	PestConfidence    *float64
}

// Outcome returns the metric label for f.
func (f Finding) Outcome() string {
	switch {
	case f.Disease != nil:
		return OutcomeDisease
	case f.Pests != nil:
		return OutcomePest
	default:
		return OutcomeHealthy
	}
}

// Finding returns the command's explicit results, or interprets its
// detections when none were given.
func (c *RecordCommand) Finding() Finding {
	c.DetectedDisease = blankToNil(c.DetectedDisease)
	c.DetectedPests = blankToNil(c.DetectedPests)

	if c.DetectedDisease == nil && c.DetectedPests == nil {
		return Interpret(c.Detections)
	}
	return Finding{
		Disease:           c.DetectedDisease,
		DiseaseConfidence: c.DiseaseConfidence,
		Pests:             c.DetectedPests,
		PestConfidence:    c.PestConfidence,
	}
}

// Interpret reads the highest-scoring detection. A healthy label or a score
// under MinDetectionConfidence yields no finding; a pest keyword marks pests
// and any other label is treated as a disease.
func Interpret(detections []vision.Detection) Finding {
	if len(detections) == 0 {
		return Finding{}
	}

	top := detections[0]
	for _, d := range detections[1:] {
		if d.Confidence > top.Confidence {
			top = d
		}
	}

	label := strings.TrimSpace(top.Label)
	lower := strings.ToLower(label)
	if label == "" || top.Confidence < MinDetectionConfidence || strings.Contains(lower, "healthy") {
		return Finding{}
	}

	conf := top.Confidence
	if isPest(lower) {
		return Finding{Pests: &label, PestConfidence: &conf}
	}
	return Finding{Disease: &label, DiseaseConfidence: &conf}
}

// PestPressureFor maps a pest detection confidence to a pressure level.
func PestPressureFor(confidence float64) decision.PestPressure {
	switch {
	case confidence > 0.7:
		return decision.PestHigh
	case confidence > 0.4:
		return decision.PestMedium
	default:
		return decision.PestLow
	}
}

func isPest(label string) bool {
	for _, k := range pestKeywords {
		if strings.Contains(label, k) {
			return true
		}
	}
	return false
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
