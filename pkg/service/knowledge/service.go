package knowledge

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/medrec-lab/asclepius/pkg/domain/interfaces"
	"github.com/medrec-lab/asclepius/pkg/domain/model"
	"github.com/medrec-lab/asclepius/pkg/domain/model/catalog"
	"github.com/medrec-lab/asclepius/pkg/utils/logging"
)

// embedConcurrency bounds parallel embedding calls during construction
const embedConcurrency = 8

// Service holds the immutable knowledge base and ranks input vectors
// against it. Built once at startup; safe for concurrent use without locks.
type Service struct {
	kb *model.KnowledgeBase
}

// Build constructs the knowledge base from the catalog categories. For each
// category every trigger phrase is embedded; phrases that fail are skipped
// without retry, and a category with no surviving phrase is dropped. A nil
// embedder, or failure of every phrase of every category, yields an empty
// knowledge base - downstream treats that as "no semantic signal", not an
// error.
func Build(ctx context.Context, embedder interfaces.EmbeddingClient, categories []catalog.Category) *Service {
	if embedder == nil {
		return &Service{kb: model.NewKnowledgeBase(nil)}
	}

	logger := logging.From(ctx)
	entries := make([]model.KnowledgeEntry, 0, len(categories))

	for _, cat := range categories {
		vectors := make([][]float64, len(cat.Phrases))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(embedConcurrency)
		for i, phrase := range cat.Phrases {
			g.Go(func() error {
				vec, err := Embed(gctx, embedder, phrase)
				if err != nil {
					logger.Warn("skipping trigger phrase",
						"category", cat.ID, "phrase", phrase, "error", err.Error())
					return nil
				}
				vectors[i] = vec
				return nil
			})
		}
		_ = g.Wait() // workers never return errors; failures are recorded as nil vectors

		mean := meanVector(vectors)
		if mean == nil {
			logger.Warn("dropping category with no surviving phrase", "category", cat.ID)
			continue
		}

		entries = append(entries, model.KnowledgeEntry{
			Category:  cat.ID,
			Phrases:   cat.Phrases,
			Vector:    mean,
			Responses: cat.Responses,
		})
	}

	logger.Info("knowledge base built",
		"categories", len(entries), "dropped", len(categories)-len(entries))

	return &Service{kb: model.NewKnowledgeBase(entries)}
}

// Base returns the underlying knowledge base
func (s *Service) Base() *model.KnowledgeBase {
	return s.kb
}

// Rank computes cosine similarity between vec and every knowledge entry and
// returns the top k matches sorted descending. Ties keep catalog order.
// An empty knowledge base yields an empty result.
func (s *Service) Rank(vec []float64, k int) []model.SemanticMatch {
	entries := s.kb.Entries()
	if len(entries) == 0 || k <= 0 {
		return nil
	}

	matches := make([]model.SemanticMatch, 0, len(entries))
	for _, entry := range entries {
		matches = append(matches, model.SemanticMatch{
			Category:   entry.Category,
			Similarity: Cosine(vec, entry.Vector),
			Responses:  entry.Responses,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches
}

// Embed requests one embedding from the provider and validates the result.
// Any failure indicator (error or empty vector) is reported as an error.
func Embed(ctx context.Context, embedder interfaces.EmbeddingClient, text string) ([]float64, error) {
	vecs, err := embedder.GenerateEmbedding(ctx, model.EmbeddingDimension, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return nil, ErrNoEmbedding
	}
	return vecs[0], nil
}

// Cosine returns the cosine similarity of a and b in [-1, 1]. A zero-norm
// vector has similarity 0 with everything.
func Cosine(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// meanVector returns the element-wise mean of the non-nil vectors, or nil
// if none survive
func meanVector(vectors [][]float64) []float64 {
	var mean []float64
	var count int
	for _, vec := range vectors {
		if vec == nil {
			continue
		}
		if mean == nil {
			mean = make([]float64, len(vec))
		}
		for i := range mean {
			if i < len(vec) {
				mean[i] += vec[i]
			}
		}
		count++
	}
	if count == 0 {
		return nil
	}
	for i := range mean {
		mean[i] /= float64(count)
	}
	return mean
}
