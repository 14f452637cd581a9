package model

import (
	"time"

	"github.com/medrec-lab/asclepius/pkg/domain/types"
)

// Analysis is the combined result of summarizing, extracting and risk-scoring
// one record. It is the only persisted object: the raw record content is
// never stored, only the derived results and (when the semantic path ran)
// the record's embedding for similarity search.
type Analysis struct {
	ID         types.AnalysisID `json:"id"`
	RecordType types.RecordType `json:"record_type"`
	Summary    Summary          `json:"summary"`
	Extraction ExtractionResult `json:"extraction"`
	Risk       RiskAssessment   `json:"risk"`
	Embedding  []float32        `json:"-"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
