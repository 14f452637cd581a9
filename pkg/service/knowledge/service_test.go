package knowledge_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/medrec-lab/asclepius/pkg/domain/model/catalog"
	"github.com/medrec-lab/asclepius/pkg/service/knowledge"
)

// mockEmbedder returns canned vectors per input text and fails for texts
// listed in failing
type mockEmbedder struct {
	vectors map[string][]float64
	failing map[string]bool
	calls   int
}

func (m *mockEmbedder) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	m.calls++
	out := make([][]float64, 0, len(input))
	for _, text := range input {
		if m.failing[text] {
			return nil, goerr.New("embedding unavailable")
		}
		vec, ok := m.vectors[text]
		if !ok {
			return nil, goerr.New("unexpected input")
		}
		out = append(out, vec)
	}
	return out, nil
}

func TestCosine(t *testing.T) {
	a := []float64{1, 2, 3}
	b := []float64{-2, 0.5, 4}

	t.Run("symmetric", func(t *testing.T) {
		gt.Value(t, knowledge.Cosine(a, b)).Equal(knowledge.Cosine(b, a))
	})

	t.Run("bounded", func(t *testing.T) {
		sim := knowledge.Cosine(a, b)
		gt.Number(t, sim).GreaterOrEqual(-1)
		gt.Number(t, sim).LessOrEqual(1)
	})

	t.Run("identical vectors yield 1", func(t *testing.T) {
		sim := knowledge.Cosine(a, a)
		gt.Number(t, sim).Greater(0.999999)
	})

	t.Run("zero vector yields exactly 0", func(t *testing.T) {
		zero := []float64{0, 0, 0}
		gt.Value(t, knowledge.Cosine(a, zero)).Equal(0.0)
		gt.Value(t, knowledge.Cosine(zero, zero)).Equal(0.0)
	})

	t.Run("opposite vectors yield -1", func(t *testing.T) {
		neg := []float64{-1, -2, -3}
		sim := knowledge.Cosine(a, neg)
		gt.Number(t, sim).Less(-0.999999)
	})
}

func TestBuild(t *testing.T) {
	ctx := context.Background()

	cats := []catalog.Category{
		{
			ID:      "blood_pressure",
			Phrases: []string{"blood pressure", "hypertension"},
			Responses: map[string]string{
				"normal": "normal BP template",
			},
		},
		{
			ID:      "medications",
			Phrases: []string{"medication", "prescription"},
			Responses: map[string]string{
				"instruction": "medication template",
			},
		},
	}

	t.Run("averages phrase vectors per category", func(t *testing.T) {
		embedder := &mockEmbedder{vectors: map[string][]float64{
			"blood pressure": {1, 0},
			"hypertension":   {0, 1},
			"medication":     {2, 2},
			"prescription":   {4, 4},
		}}

		svc := knowledge.Build(ctx, embedder, cats)
		gt.Value(t, svc.Base().Len()).Equal(2)

		entries := svc.Base().Entries()
		gt.Value(t, entries[0].Category).Equal("blood_pressure")
		gt.Value(t, entries[0].Vector).Equal([]float64{0.5, 0.5})
		gt.Value(t, entries[1].Vector).Equal([]float64{3, 3})
	})

	t.Run("failed phrase skipped without retry", func(t *testing.T) {
		embedder := &mockEmbedder{
			vectors: map[string][]float64{
				"blood pressure": {1, 0},
				"medication":     {2, 2},
				"prescription":   {4, 4},
			},
			failing: map[string]bool{"hypertension": true},
		}

		svc := knowledge.Build(ctx, embedder, cats)
		entries := svc.Base().Entries()
		gt.Array(t, entries).Length(2)
		gt.Value(t, entries[0].Vector).Equal([]float64{1, 0})
	})

	t.Run("category with no surviving phrase dropped", func(t *testing.T) {
		embedder := &mockEmbedder{
			vectors: map[string][]float64{
				"medication":   {2, 2},
				"prescription": {4, 4},
			},
			failing: map[string]bool{"blood pressure": true, "hypertension": true},
		}

		svc := knowledge.Build(ctx, embedder, cats)
		entries := svc.Base().Entries()
		gt.Array(t, entries).Length(1)
		gt.Value(t, entries[0].Category).Equal("medications")
	})

	t.Run("all phrases failing yields empty base", func(t *testing.T) {
		embedder := &mockEmbedder{failing: map[string]bool{
			"blood pressure": true, "hypertension": true,
			"medication": true, "prescription": true,
		}}

		svc := knowledge.Build(ctx, embedder, cats)
		gt.Value(t, svc.Base().Len()).Equal(0)
		gt.Array(t, svc.Rank([]float64{1, 0}, 3)).Length(0)
	})

	t.Run("nil embedder yields empty base", func(t *testing.T) {
		svc := knowledge.Build(ctx, nil, cats)
		gt.Value(t, svc.Base().Len()).Equal(0)
	})
}

func TestRank(t *testing.T) {
	ctx := context.Background()

	cats := []catalog.Category{
		{ID: "first", Phrases: []string{"a"}, Responses: map[string]string{"x": "t"}},
		{ID: "second", Phrases: []string{"b"}, Responses: map[string]string{"x": "t"}},
		{ID: "third", Phrases: []string{"c"}, Responses: map[string]string{"x": "t"}},
	}
	embedder := &mockEmbedder{vectors: map[string][]float64{
		"a": {1, 0},
		"b": {0, 1},
		"c": {1, 0},
	}}
	svc := knowledge.Build(ctx, embedder, cats)

	t.Run("sorted descending, ties keep catalog order", func(t *testing.T) {
		// first and third tie at similarity 1; catalog order must hold
		matches := svc.Rank([]float64{1, 0}, 3)
		gt.Array(t, matches).Length(3)
		gt.Value(t, matches[0].Category).Equal("first")
		gt.Value(t, matches[1].Category).Equal("third")
		gt.Value(t, matches[2].Category).Equal("second")
	})

	t.Run("top-k truncates", func(t *testing.T) {
		matches := svc.Rank([]float64{1, 0}, 2)
		gt.Array(t, matches).Length(2)
	})

	t.Run("zero k yields nothing", func(t *testing.T) {
		gt.Array(t, svc.Rank([]float64{1, 0}, 0)).Length(0)
	})

	t.Run("zero-norm input ranks all at 0", func(t *testing.T) {
		matches := svc.Rank([]float64{0, 0}, 3)
		gt.Array(t, matches).Length(3)
		for _, m := range matches {
			gt.Value(t, m.Similarity).Equal(0.0)
		}
	})
}
