package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/medrec-lab/asclepius/pkg/domain/model"
	"github.com/medrec-lab/asclepius/pkg/domain/model/catalog"
	"github.com/medrec-lab/asclepius/pkg/domain/types"
	"github.com/medrec-lab/asclepius/pkg/repository/memory"
	"github.com/medrec-lab/asclepius/pkg/service/extract"
	"github.com/medrec-lab/asclepius/pkg/service/knowledge"
	"github.com/medrec-lab/asclepius/pkg/usecase"
)

// stubEmbedder returns per-text vectors with a shared default, so tests can
// steer both the record vector and the indicator phrase vectors
type stubEmbedder struct {
	vectors map[string][]float64
	base    []float64
	failOn  map[string]bool
}

func (e *stubEmbedder) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	out := make([][]float64, 0, len(input))
	for _, text := range input {
		if e.failOn[text] {
			return nil, goerr.New("embedding rejected")
		}
		if vec, ok := e.vectors[text]; ok {
			out = append(out, vec)
			continue
		}
		out = append(out, e.base)
	}
	return out, nil
}

func testCatalog() *catalog.Catalog {
	return &catalog.Catalog{
		Categories: []catalog.Category{
			{
				ID:        "medications",
				Phrases:   []string{"prescription medication dosage"},
				Responses: map[string]string{"generic": "Take as directed."},
			},
			{
				ID:        "blood_tests",
				Phrases:   []string{"blood test laboratory results"},
				Responses: map[string]string{"generic": "Discuss with your provider."},
			},
		},
		LabRules: []catalog.LabRule{
			{
				Name:        "hemoglobin",
				Pattern:     `hemoglobin[:\s]*(\d+\.?\d*)\s*g/dl`,
				RangeLow:    13.5,
				RangeHigh:   17.5,
				LowMeaning:  "anemia (low red blood cell count)",
				HighMeaning: "elevated hemoglobin levels",
			},
		},
		Conditions: []string{"hypertension", "diabetes"},
	}
}

func newPipeline(t *testing.T) *extract.Pipeline {
	t.Helper()
	p, err := extract.New(testCatalog())
	gt.NoError(t, err).Required()
	return p
}

// newSemanticUseCases builds a fully wired semantic-mode UseCases where
// every text embeds to the same vector, so any record matches everything
// with similarity 1 and risk resolves HIGH.
func newSemanticUseCases(t *testing.T, embedder *stubEmbedder, opts ...usecase.Option) *usecase.UseCases {
	t.Helper()
	ctx := context.Background()
	kb := knowledge.Build(ctx, embedder, testCatalog().Categories)
	opts = append([]usecase.Option{usecase.WithEmbedder(embedder)}, opts...)
	return usecase.New(memory.New(), kb, newPipeline(t), opts...)
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()

	t.Run("rule-based mode composes from extraction", func(t *testing.T) {
		kb := knowledge.Build(ctx, nil, testCatalog().Categories)
		uc := usecase.New(memory.New(), kb, newPipeline(t))

		summary := uc.Summarize(ctx, "metformin 500mg daily", "Prescription")
		gt.Bool(t, strings.Contains(summary.Text, "You have been prescribed: Metformin 500mg")).True()
		gt.Value(t, summary.Mode).Equal(types.ModeRuleBased)
		gt.Value(t, summary.Confidence).Equal(0.5)
		gt.Value(t, summary.PrimaryMatch).Equal("")
	})

	t.Run("semantic mode carries top match and its similarity", func(t *testing.T) {
		embedder := &stubEmbedder{base: []float64{1, 0}}
		uc := newSemanticUseCases(t, embedder)

		summary := uc.Summarize(ctx, "metformin 500mg daily", "")
		gt.Bool(t, strings.Contains(summary.Text, "Metformin 500mg")).True()
		gt.Value(t, summary.Mode).Equal(types.ModeSemantic)
		gt.Value(t, summary.RecordType).Equal(types.DefaultRecordType)
		gt.Value(t, summary.PrimaryMatch).Equal("medications")
		gt.Number(t, summary.Confidence).Greater(0.99)
	})

	t.Run("keyword branch fires when no facts extracted", func(t *testing.T) {
		embedder := &stubEmbedder{base: []float64{1, 0}}
		uc := newSemanticUseCases(t, embedder)

		summary := uc.Summarize(ctx, "Routine blood pressure reading was unremarkable", "Checkup")
		gt.Value(t, summary.Text).Equal(
			"This contains blood pressure information. Monitor your blood pressure as recommended by your doctor.")
	})

	t.Run("semantic category template used when keywords miss too", func(t *testing.T) {
		embedder := &stubEmbedder{base: []float64{1, 0}}
		uc := newSemanticUseCases(t, embedder)

		summary := uc.Summarize(ctx, "General wellness visit, no concerns", "Visit Note")
		gt.Value(t, summary.Text).Equal("This visit note contains medical information related to medications.")
	})

	t.Run("embedding failure degrades to fixed response", func(t *testing.T) {
		content := "metformin 500mg daily"
		embedder := &stubEmbedder{base: []float64{1, 0}, failOn: map[string]bool{content: true}}
		uc := newSemanticUseCases(t, embedder)

		summary := uc.Summarize(ctx, content, "Prescription")
		gt.Value(t, summary.Mode).Equal(types.ModeFallback)
		gt.Value(t, summary.Confidence).Equal(0.5)
		gt.Bool(t, strings.Contains(summary.Text, "healthcare provider")).True()
	})
}

func TestExtract(t *testing.T) {
	ctx := context.Background()
	kb := knowledge.Build(ctx, nil, testCatalog().Categories)
	uc := usecase.New(memory.New(), kb, newPipeline(t))

	result := uc.Extract(ctx, "Lisinopril 10mg once daily for hypertension. Hemoglobin: 11.2 g/dL")
	gt.Array(t, result.Facts.Medications).Length(1)
	gt.Array(t, result.Facts.Conditions).Length(1)
	gt.Array(t, result.Facts.LabInterpretations).Length(1)
	gt.Value(t, result.Confidence).Equal(0.80)
	gt.Value(t, result.Mode).Equal(types.ModeRuleBased)
}

func TestAssessRisk(t *testing.T) {
	ctx := context.Background()

	t.Run("rule-based mode resolves UNKNOWN", func(t *testing.T) {
		kb := knowledge.Build(ctx, nil, testCatalog().Categories)
		uc := usecase.New(memory.New(), kb, newPipeline(t))

		risk := uc.AssessRisk(ctx, "Emergency admission for severe chest pain")
		gt.Value(t, risk.Level).Equal(types.RiskLevelUnknown)
		gt.Value(t, risk.Confidence).Equal(0.0)
		gt.Value(t, risk.Mode).Equal(types.ModeFallback)
	})

	t.Run("aligned indicators resolve HIGH", func(t *testing.T) {
		embedder := &stubEmbedder{base: []float64{1, 0}}
		uc := newSemanticUseCases(t, embedder)

		risk := uc.AssessRisk(ctx, "Emergency admission for severe chest pain")
		gt.Value(t, risk.Level).Equal(types.RiskLevelHigh)
		gt.Value(t, risk.Confidence).Equal(0.78)
	})

	t.Run("embedding failure resolves UNKNOWN", func(t *testing.T) {
		content := "routine visit"
		embedder := &stubEmbedder{base: []float64{1, 0}, failOn: map[string]bool{content: true}}
		uc := newSemanticUseCases(t, embedder)

		risk := uc.AssessRisk(ctx, content)
		gt.Value(t, risk.Level).Equal(types.RiskLevelUnknown)
	})
}

// recordingNotifier captures dispatched alerts for assertion
type recordingNotifier struct {
	alerts chan *model.Analysis
}

func (n *recordingNotifier) NotifyHighRisk(ctx context.Context, analysis *model.Analysis) error {
	n.alerts <- analysis
	return nil
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("empty content is rejected", func(t *testing.T) {
		kb := knowledge.Build(ctx, nil, testCatalog().Categories)
		uc := usecase.New(memory.New(), kb, newPipeline(t))

		_, err := uc.Analyze(ctx, "", "")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrEmptyContent)).True()
	})

	t.Run("persists combined result with embedding", func(t *testing.T) {
		embedder := &stubEmbedder{base: []float64{1, 0}}
		repo := memory.New()
		kb := knowledge.Build(ctx, embedder, testCatalog().Categories)
		uc := usecase.New(repo, kb, newPipeline(t), usecase.WithEmbedder(embedder))

		analysis, err := uc.Analyze(ctx, "metformin 500mg daily", "Prescription")
		gt.NoError(t, err).Required()
		gt.String(t, analysis.ID.String()).NotEqual("")
		gt.Bool(t, strings.Contains(analysis.Summary.Text, "Metformin 500mg")).True()
		gt.Array(t, analysis.Extraction.Facts.Medications).Length(1)
		gt.Value(t, analysis.Risk.Level).Equal(types.RiskLevelHigh)
		gt.Array(t, analysis.Embedding).Length(2)

		stored, err := repo.Analysis().Get(ctx, analysis.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.Summary.Text).Equal(analysis.Summary.Text)
	})

	t.Run("rule-based analysis stores no embedding", func(t *testing.T) {
		repo := memory.New()
		kb := knowledge.Build(ctx, nil, testCatalog().Categories)
		uc := usecase.New(repo, kb, newPipeline(t))

		analysis, err := uc.Analyze(ctx, "metformin 500mg daily", "")
		gt.NoError(t, err).Required()
		gt.Array(t, analysis.Embedding).Length(0)
		gt.Value(t, analysis.Risk.Level).Equal(types.RiskLevelUnknown)
	})

	t.Run("HIGH risk dispatches async alert", func(t *testing.T) {
		embedder := &stubEmbedder{base: []float64{1, 0}}
		notifier := &recordingNotifier{alerts: make(chan *model.Analysis, 1)}
		uc := newSemanticUseCases(t, embedder, usecase.WithNotifier(notifier))

		analysis, err := uc.Analyze(ctx, "Emergency admission", "")
		gt.NoError(t, err).Required()
		gt.Value(t, analysis.Risk.Level).Equal(types.RiskLevelHigh)

		select {
		case alerted := <-notifier.alerts:
			gt.Value(t, alerted.ID).Equal(analysis.ID)
		case <-time.After(time.Second):
			t.Fatal("no alert dispatched")
		}
	})
}

func TestBatchAnalyze(t *testing.T) {
	ctx := context.Background()
	embedder := &stubEmbedder{base: []float64{1, 0}}
	uc := newSemanticUseCases(t, embedder)

	t.Run("empty batch is rejected", func(t *testing.T) {
		_, err := uc.BatchAnalyze(ctx, nil)
		gt.Error(t, err)
	})

	t.Run("per-record isolation keeps input order", func(t *testing.T) {
		result, err := uc.BatchAnalyze(ctx, []usecase.RecordInput{
			{ID: "rec-a", Content: "metformin 500mg daily"},
			{Content: ""},
			{Content: "Hemoglobin: 11.2 g/dL", RecordType: "Lab Report"},
		})
		gt.NoError(t, err).Required()
		gt.Value(t, result.TotalProcessed).Equal(3)
		gt.Array(t, result.Results).Length(3)

		gt.Value(t, result.Results[0].ID).Equal("rec-a")
		gt.Bool(t, result.Results[0].Success).True()
		gt.Bool(t, strings.Contains(result.Results[0].Analysis.Summary.Text, "Metformin 500mg")).True()

		gt.Value(t, result.Results[1].ID).Equal("record_1")
		gt.Bool(t, result.Results[1].Success).False()
		gt.String(t, result.Results[1].Error).NotEqual("")

		gt.Bool(t, result.Results[2].Success).True()
		gt.Value(t, result.Results[2].Analysis.RecordType).Equal(types.RecordType("Lab Report"))
	})
}

func TestFindSimilar(t *testing.T) {
	ctx := context.Background()

	t.Run("excludes the query analysis itself", func(t *testing.T) {
		embedder := &stubEmbedder{base: []float64{1, 0}}
		repo := memory.New()
		kb := knowledge.Build(ctx, embedder, testCatalog().Categories)
		uc := usecase.New(repo, kb, newPipeline(t), usecase.WithEmbedder(embedder))

		first, err := uc.Analyze(ctx, "metformin 500mg daily", "")
		gt.NoError(t, err).Required()
		second, err := uc.Analyze(ctx, "lisinopril 10mg daily", "")
		gt.NoError(t, err).Required()

		similar, err := uc.FindSimilar(ctx, first.ID, 5)
		gt.NoError(t, err).Required()
		gt.Array(t, similar).Length(1)
		gt.Value(t, similar[0].ID).Equal(second.ID)
	})

	t.Run("analysis without embedding cannot be searched", func(t *testing.T) {
		repo := memory.New()
		kb := knowledge.Build(ctx, nil, testCatalog().Categories)
		uc := usecase.New(repo, kb, newPipeline(t))

		analysis, err := uc.Analyze(ctx, "metformin 500mg daily", "")
		gt.NoError(t, err).Required()

		_, err = uc.FindSimilar(ctx, analysis.ID, 5)
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrNoEmbeddingStored)).True()
	})

	t.Run("unknown analysis propagates not found", func(t *testing.T) {
		kb := knowledge.Build(ctx, nil, testCatalog().Categories)
		uc := usecase.New(memory.New(), kb, newPipeline(t))

		_, err := uc.FindSimilar(ctx, types.NewAnalysisID(), 5)
		gt.Error(t, err)
	})
}
