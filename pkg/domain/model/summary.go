package model

import "github.com/medrec-lab/asclepius/pkg/domain/types"

// Summary is the plain-language summary of a record. When the semantic path
// ran, PrimaryMatch names the best-matching knowledge category and
// Confidence carries its similarity; otherwise Confidence holds the fixed
// degraded value from the fallback policy.
type Summary struct {
	Text         string          `json:"summary"`
	RecordType   types.RecordType `json:"record_type"`
	PrimaryMatch string          `json:"primary_match,omitempty"`
	Confidence   float64         `json:"confidence"`
	Mode         types.ModelMode `json:"model_mode"`
}

// ExtractionResult wraps ExtractedFacts with the result envelope fields
// shared by every engine operation.
type ExtractionResult struct {
	Facts      ExtractedFacts  `json:"extracted_info"`
	Confidence float64         `json:"confidence"`
	Mode       types.ModelMode `json:"model_mode"`
}
