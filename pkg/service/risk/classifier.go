package risk

import (
	"context"
	"math"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medrec-lab/asclepius/pkg/domain/interfaces"
	"github.com/medrec-lab/asclepius/pkg/domain/model"
	"github.com/medrec-lab/asclepius/pkg/domain/types"
	"github.com/medrec-lab/asclepius/pkg/service/knowledge"
	"github.com/medrec-lab/asclepius/pkg/utils/logging"
)

// Decision thresholds, evaluated strictly in HIGH-then-MEDIUM order. These
// mirror the original calibration and are deliberately not configurable.
const (
	highThreshold   = 0.30
	mediumThreshold = 0.25
)

// Fixed per-level confidence for a resolved assessment
const assessConfidence = 0.78

// Indicator phrases per tier. A tier's score is the maximum similarity of
// its phrases to the input vector: one strong match is sufficient signal.
var tierPhrases = map[types.RiskLevel][]string{
	types.RiskLevelHigh:   {"emergency", "critical", "severe", "acute", "urgent", "abnormal", "elevated"},
	types.RiskLevelMedium: {"borderline", "mild", "monitor", "follow-up", "recheck"},
	types.RiskLevelLow:    {"normal", "stable", "routine", "within limits", "healthy"},
}

var explanations = map[types.RiskLevel]string{
	types.RiskLevelHigh:   "Content suggests conditions that may require immediate attention",
	types.RiskLevelMedium: "Content indicates monitoring or follow-up may be needed",
	types.RiskLevelLow:    "Content suggests routine or stable health status",
}

// Classifier scores input text vectors against the three indicator tiers
type Classifier struct {
	embedder interfaces.EmbeddingClient
}

// New creates a risk classifier backed by the given embedding provider
func New(embedder interfaces.EmbeddingClient) (*Classifier, error) {
	if embedder == nil {
		return nil, goerr.New("embedding client is required")
	}
	return &Classifier{embedder: embedder}, nil
}

// Assess resolves the risk tier for the given input text vector. Indicator
// phrases whose embedding fails are skipped; a tier with no surviving phrase
// scores 0. The result always carries all tier scores for explainability.
func (c *Classifier) Assess(ctx context.Context, textVec []float64) *model.RiskAssessment {
	logger := logging.From(ctx)

	scores := make(map[string]float64, len(tierPhrases))
	for level, phrases := range tierPhrases {
		// The true maximum is recorded even when it is negative; only a
		// tier with no surviving phrase scores 0.
		best := math.Inf(-1)
		for _, phrase := range phrases {
			vec, err := knowledge.Embed(ctx, c.embedder, phrase)
			if err != nil {
				logger.Warn("skipping risk indicator phrase",
					"tier", level.String(), "phrase", phrase, "error", err.Error())
				continue
			}
			if sim := knowledge.Cosine(textVec, vec); sim > best {
				best = sim
			}
		}
		if math.IsInf(best, -1) {
			best = 0
		}
		scores[level.String()] = best
	}

	level := resolve(scores)
	return &model.RiskAssessment{
		Level:       level,
		Explanation: explanations[level],
		TierScores:  scores,
		Confidence:  assessConfidence,
		Mode:        types.ModeSemantic,
	}
}

// resolve applies the strict first-match-wins decision rule
func resolve(scores map[string]float64) types.RiskLevel {
	if scores[types.RiskLevelHigh.String()] > highThreshold {
		return types.RiskLevelHigh
	}
	if scores[types.RiskLevelMedium.String()] > mediumThreshold {
		return types.RiskLevelMedium
	}
	return types.RiskLevelLow
}
