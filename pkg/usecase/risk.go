package usecase

import (
	"context"

	"github.com/medrec-lab/asclepius/pkg/domain/model"
	"github.com/medrec-lab/asclepius/pkg/domain/types"
	"github.com/medrec-lab/asclepius/pkg/utils/logging"
)

// AssessRisk resolves the record's risk tier. Without an embedding provider,
// or when the provider fails, the assessment degrades to UNKNOWN rather
// than returning an error.
func (uc *UseCases) AssessRisk(ctx context.Context, content string) *model.RiskAssessment {
	vec, configured, err := uc.embedContent(ctx, content)
	if err != nil {
		logging.From(ctx).Warn("risk assessment degraded, embedding failed", "error", err.Error())
		return fallbackRisk()
	}

	return uc.assessFromVector(ctx, vec, configured)
}

// assessFromVector scores the settled record vector, degrading to UNKNOWN
// in rule-based mode
func (uc *UseCases) assessFromVector(ctx context.Context, vec []float64, configured bool) *model.RiskAssessment {
	if !configured {
		return fallbackRisk()
	}
	return uc.classifier.Assess(ctx, vec)
}

// fallbackRisk is the fixed degraded assessment for a failed semantic path
func fallbackRisk() *model.RiskAssessment {
	return &model.RiskAssessment{
		Level:       types.RiskLevelUnknown,
		Explanation: "Risk assessment temporarily unavailable",
		Confidence:  0,
		Mode:        types.ModeFallback,
	}
}
