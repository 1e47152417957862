package analyses

import (
	"encoding/json"
	"fmt"

	"github.com/JaimeStill/cropwise/internal/vision"
	"github.com/JaimeStill/cropwise/pkg/query"
	"github.com/JaimeStill/cropwise/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "image_analyses", "ia").
	Project("id", "ID").
	Project("planting_id", "PlantingID").
	Project("image_key", "ImageKey").
	Project("detected_disease", "DetectedDisease").
	Project("disease_confidence", "DiseaseConfidence").
	Project("detected_pests", "DetectedPests").
	Project("pest_confidence", "PestConfidence").
	Project("detections", "Detections").
	Project("analyzed_at", "AnalyzedAt")

var defaultSort = query.SortField{
	Field:      "AnalyzedAt",
	Descending: true,
}

const returning = `id, planting_id, image_key, detected_disease, disease_confidence, detected_pests, pest_confidence, detections, analyzed_at`

func scanAnalysis(s repository.Scanner) (Analysis, error) {
	var (
		a   Analysis
		raw []byte
	)
	err := s.Scan(
		&a.ID,
		&a.PlantingID,
		&a.ImageKey,
		&a.DetectedDisease,
		&a.DiseaseConfidence,
		&a.DetectedPests,
		&a.PestConfidence,
		&raw,
		&a.AnalyzedAt,
	)
	if err != nil {
		return a, err
	}

	a.Detections = []vision.Detection{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &a.Detections); err != nil {
			return a, fmt.Errorf("decode detections: %w", err)
		}
	}
	return a, nil
}
