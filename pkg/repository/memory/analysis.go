package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medrec-lab/asclepius/pkg/domain/model"
	"github.com/medrec-lab/asclepius/pkg/domain/types"
)

type analysisRepository struct {
	mu       sync.RWMutex
	analyses map[types.AnalysisID]*model.Analysis
}

func newAnalysisRepository() *analysisRepository {
	return &analysisRepository{
		analyses: make(map[types.AnalysisID]*model.Analysis),
	}
}

// copyAnalysis returns a deep copy to prevent external modification
func copyAnalysis(a *model.Analysis) *model.Analysis {
	copied := *a
	if a.Embedding != nil {
		copied.Embedding = make([]float32, len(a.Embedding))
		copy(copied.Embedding, a.Embedding)
	}
	if a.Risk.TierScores != nil {
		copied.Risk.TierScores = make(map[string]float64, len(a.Risk.TierScores))
		for k, v := range a.Risk.TierScores {
			copied.Risk.TierScores[k] = v
		}
	}
	return &copied
}

func (r *analysisRepository) Create(ctx context.Context, analysis *model.Analysis) (*model.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyAnalysis(analysis)
	if created.ID == "" {
		created.ID = types.NewAnalysisID()
	}

	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	r.analyses[created.ID] = created
	return copyAnalysis(created), nil
}

func (r *analysisRepository) Get(ctx context.Context, id types.AnalysisID) (*model.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	analysis, exists := r.analyses[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "analysis not found", goerr.V("id", id))
	}

	return copyAnalysis(analysis), nil
}

func (r *analysisRepository) List(ctx context.Context) ([]*model.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	analyses := make([]*model.Analysis, 0, len(r.analyses))
	for _, analysis := range r.analyses {
		analyses = append(analyses, copyAnalysis(analysis))
	}

	sort.Slice(analyses, func(i, j int) bool {
		return analyses[i].CreatedAt.After(analyses[j].CreatedAt)
	})

	return analyses, nil
}

func (r *analysisRepository) FindByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*model.Analysis, error) {
	if len(embedding) == 0 {
		return nil, goerr.New("embedding is required for similarity search")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	type scored struct {
		analysis   *model.Analysis
		similarity float64
	}

	candidates := make([]scored, 0, len(r.analyses))
	for _, analysis := range r.analyses {
		if len(analysis.Embedding) == 0 {
			continue
		}
		candidates = append(candidates, scored{
			analysis:   copyAnalysis(analysis),
			similarity: cosine32(embedding, analysis.Embedding),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].similarity > candidates[j].similarity
	})

	if limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}

	result := make([]*model.Analysis, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, c.analysis)
	}
	return result, nil
}

// cosine32 is the in-process stand-in for Firestore's cosine FindNearest.
// Zero-norm vectors have similarity 0 with everything.
func cosine32(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
