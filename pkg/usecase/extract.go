package usecase

import (
	"context"

	"github.com/medrec-lab/asclepius/pkg/domain/model"
	"github.com/medrec-lab/asclepius/pkg/domain/types"
)

// extractionConfidence is fixed for the rule-based extractors
const extractionConfidence = 0.80

// Extract derives structured facts from the record. The pipeline is pure
// text processing, so this path works identically with or without an
// embedding provider and never degrades.
func (uc *UseCases) Extract(ctx context.Context, content string) *model.ExtractionResult {
	return &model.ExtractionResult{
		Facts:      *uc.pipeline.Extract(content),
		Confidence: extractionConfidence,
		Mode:       types.ModeRuleBased,
	}
}
