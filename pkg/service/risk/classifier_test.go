package risk_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/medrec-lab/asclepius/pkg/domain/types"
	"github.com/medrec-lab/asclepius/pkg/service/risk"
)

// axisEmbedder maps every known phrase onto one of two axes so that tier
// scores are fully deterministic: high-tier phrases on the x axis,
// medium/low phrases on the y axis.
type axisEmbedder struct {
	failing map[string]bool
}

var highPhrases = map[string]bool{
	"emergency": true, "critical": true, "severe": true, "acute": true,
	"urgent": true, "abnormal": true, "elevated": true,
}

func (e *axisEmbedder) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	out := make([][]float64, 0, len(input))
	for _, text := range input {
		if e.failing != nil && e.failing[text] {
			return nil, goerr.New("embedding unavailable")
		}
		if highPhrases[text] {
			out = append(out, []float64{1, 0})
		} else {
			out = append(out, []float64{0, 1})
		}
	}
	return out, nil
}

func TestNew(t *testing.T) {
	_, err := risk.New(nil)
	gt.Error(t, err)
}

func TestAssess(t *testing.T) {
	ctx := context.Background()

	t.Run("text aligned with high indicators resolves HIGH", func(t *testing.T) {
		c, err := risk.New(&axisEmbedder{})
		gt.NoError(t, err).Required()

		got := c.Assess(ctx, []float64{1, 0})
		gt.Value(t, got.Level).Equal(types.RiskLevelHigh)
		gt.Value(t, got.TierScores[types.RiskLevelHigh.String()]).Equal(1.0)
		gt.Value(t, got.Mode).Equal(types.ModeSemantic)
		gt.String(t, got.Explanation).NotEqual("")
	})

	t.Run("high threshold checked before medium", func(t *testing.T) {
		c, err := risk.New(&axisEmbedder{})
		gt.NoError(t, err).Required()

		// both axes present, high similarity dominates
		got := c.Assess(ctx, []float64{1, 0.2})
		gt.Value(t, got.Level).Equal(types.RiskLevelHigh)
	})

	t.Run("medium resolves when high misses", func(t *testing.T) {
		c, err := risk.New(&axisEmbedder{})
		gt.NoError(t, err).Required()

		got := c.Assess(ctx, []float64{0, 1})
		gt.Value(t, got.Level).Equal(types.RiskLevelMedium)
	})

	t.Run("no tier above threshold defaults to LOW", func(t *testing.T) {
		c, err := risk.New(&axisEmbedder{})
		gt.NoError(t, err).Required()

		got := c.Assess(ctx, []float64{0, 0})
		gt.Value(t, got.Level).Equal(types.RiskLevelLow)
		gt.Value(t, got.TierScores[types.RiskLevelHigh.String()]).Equal(0.0)
		gt.Value(t, got.TierScores[types.RiskLevelMedium.String()]).Equal(0.0)
		gt.Value(t, got.TierScores[types.RiskLevelLow.String()]).Equal(0.0)
	})

	t.Run("failed indicator phrases are skipped", func(t *testing.T) {
		c, err := risk.New(&axisEmbedder{failing: map[string]bool{
			"emergency": true, "critical": true, "severe": true, "acute": true,
			"urgent": true, "abnormal": true, "elevated": true,
		}})
		gt.NoError(t, err).Required()

		// all high-tier phrases fail, so the high score must be 0 and the
		// input cannot resolve HIGH even though it points at the high axis
		got := c.Assess(ctx, []float64{1, 0})
		gt.Value(t, got.TierScores[types.RiskLevelHigh.String()]).Equal(0.0)
		gt.Value(t, got.Level).Equal(types.RiskLevelLow)
	})

	t.Run("negative maxima are recorded, not clamped", func(t *testing.T) {
		c, err := risk.New(&axisEmbedder{})
		gt.NoError(t, err).Required()

		// opposite to every high-tier phrase: the true (negative) maximum
		// must show up in the tier scores
		got := c.Assess(ctx, []float64{-1, 0})
		gt.Value(t, got.TierScores[types.RiskLevelHigh.String()]).Equal(-1.0)
		gt.Value(t, got.TierScores[types.RiskLevelMedium.String()]).Equal(0.0)
		gt.Value(t, got.Level).Equal(types.RiskLevelLow)
	})
}
