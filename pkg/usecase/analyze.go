package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/medrec-lab/asclepius/pkg/domain/model"
	"github.com/medrec-lab/asclepius/pkg/domain/types"
	"github.com/medrec-lab/asclepius/pkg/utils/async"
	"github.com/medrec-lab/asclepius/pkg/utils/logging"
)

// batchConcurrency bounds parallel record analysis in a batch request
const batchConcurrency = 4

// RecordInput is one record submitted for analysis
type RecordInput struct {
	ID         string           `json:"id"`
	Content    string           `json:"content"`
	RecordType types.RecordType `json:"record_type"`
}

// RecordResult is the per-record outcome of a batch request. A failed
// record carries Error and leaves Analysis nil; other records in the batch
// are unaffected.
type RecordResult struct {
	ID       string          `json:"id"`
	Success  bool            `json:"success"`
	Analysis *model.Analysis `json:"data,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// BatchResult aggregates the per-record outcomes in input order
type BatchResult struct {
	Results        []RecordResult `json:"results"`
	TotalProcessed int            `json:"total_processed"`
}

// Analyze runs the full pipeline on one record: summary, extraction and
// risk share a single record embedding. The result is persisted (without
// the raw content) and a HIGH risk level dispatches an async alert.
func (uc *UseCases) Analyze(ctx context.Context, content string, recordType types.RecordType) (*model.Analysis, error) {
	if content == "" {
		return nil, goerr.Wrap(ErrEmptyContent, "analyze requires record content")
	}
	recordType = recordType.Normalize()

	vec, configured, embedErr := uc.embedContent(ctx, content)
	if embedErr != nil {
		logging.From(ctx).Warn("analysis degraded, embedding failed", "error", embedErr.Error())
	}

	analysis := &model.Analysis{
		ID:         types.NewAnalysisID(),
		RecordType: recordType,
		Extraction: *uc.Extract(ctx, content),
		Embedding:  toFloat32(vec),
	}

	if embedErr != nil {
		analysis.Summary = *fallbackSummary(recordType)
		analysis.Risk = *fallbackRisk()
	} else {
		analysis.Summary = *uc.summarizeFromVector(content, recordType, vec, configured)
		analysis.Risk = *uc.assessFromVector(ctx, vec, configured)
	}

	now := time.Now()
	analysis.CreatedAt = now
	analysis.UpdatedAt = now

	if uc.repo != nil {
		stored, err := uc.repo.Analysis().Create(ctx, analysis)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to store analysis", goerr.V("analysis_id", analysis.ID))
		}
		analysis = stored
	}

	if analysis.Risk.Level == types.RiskLevelHigh && uc.notifier != nil {
		async.Dispatch(ctx, func(ctx context.Context) error {
			return uc.notifier.NotifyHighRisk(ctx, analysis)
		})
	}

	return analysis, nil
}

// BatchAnalyze analyzes records concurrently with per-record isolation:
// one bad record yields a per-record error and never fails the batch.
// Results keep input order.
func (uc *UseCases) BatchAnalyze(ctx context.Context, records []RecordInput) (*BatchResult, error) {
	if len(records) == 0 {
		return nil, goerr.New("no records provided")
	}

	results := make([]RecordResult, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, record := range records {
		g.Go(func() error {
			id := record.ID
			if id == "" {
				id = fmt.Sprintf("record_%d", i)
			}

			if record.Content == "" {
				results[i] = RecordResult{ID: id, Error: "no content provided for this record"}
				return nil
			}

			analysis, err := uc.Analyze(gctx, record.Content, record.RecordType)
			if err != nil {
				results[i] = RecordResult{ID: id, Error: err.Error()}
				return nil
			}

			results[i] = RecordResult{ID: id, Success: true, Analysis: analysis}
			return nil
		})
	}
	_ = g.Wait() // workers record failures per slot, never return errors

	return &BatchResult{Results: results, TotalProcessed: len(results)}, nil
}

// GetAnalysis retrieves one stored analysis by ID
func (uc *UseCases) GetAnalysis(ctx context.Context, id types.AnalysisID) (*model.Analysis, error) {
	if uc.repo == nil {
		return nil, goerr.Wrap(ErrNoRepository, "analysis history is not configured")
	}
	return uc.repo.Analysis().Get(ctx, id)
}

// FindSimilar retrieves up to limit stored analyses nearest to the given
// analysis by embedding distance. Analyses produced in rule-based mode
// carry no embedding and cannot be searched.
func (uc *UseCases) FindSimilar(ctx context.Context, id types.AnalysisID, limit int) ([]*model.Analysis, error) {
	if uc.repo == nil {
		return nil, goerr.Wrap(ErrNoRepository, "analysis history is not configured")
	}

	analysis, err := uc.repo.Analysis().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(analysis.Embedding) == 0 {
		return nil, goerr.Wrap(ErrNoEmbeddingStored, "analysis has no embedding", goerr.V("analysis_id", id))
	}

	neighbors, err := uc.repo.Analysis().FindByEmbedding(ctx, analysis.Embedding, limit+1)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search similar analyses", goerr.V("analysis_id", id))
	}

	// The query analysis is its own nearest neighbor; drop it.
	filtered := make([]*model.Analysis, 0, len(neighbors))
	for _, n := range neighbors {
		if n.ID == id {
			continue
		}
		filtered = append(filtered, n)
	}
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return filtered, nil
}

// toFloat32 narrows the embedding for storage. Firestore vector values are
// float32; a nil input stays nil so rule-based analyses store no vector.
func toFloat32(vec []float64) []float32 {
	if vec == nil {
		return nil
	}
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(v)
	}
	return out
}
