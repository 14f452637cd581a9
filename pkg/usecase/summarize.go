package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/medrec-lab/asclepius/pkg/domain/model"
	"github.com/medrec-lab/asclepius/pkg/domain/types"
	"github.com/medrec-lab/asclepius/pkg/utils/logging"
)

// summaryTopK bounds the ranked matches consulted by the composer
const summaryTopK = 2

// degradedConfidence is reported whenever no semantic similarity backs the
// summary: provider failure, rule-based mode, or an empty knowledge base
const degradedConfidence = 0.5

const degradedSummary = "This medical record contains important health information. " +
	"Please review with your healthcare provider for detailed explanation."

// Summarize produces a plain-language summary of the record. It is total:
// provider failures degrade to a fixed response, never an error.
func (uc *UseCases) Summarize(ctx context.Context, content string, recordType types.RecordType) *model.Summary {
	recordType = recordType.Normalize()

	vec, configured, err := uc.embedContent(ctx, content)
	if err != nil {
		logging.From(ctx).Warn("summary degraded, embedding failed", "error", err.Error())
		return fallbackSummary(recordType)
	}

	return uc.summarizeFromVector(content, recordType, vec, configured)
}

// summarizeFromVector composes the summary once the record vector is
// settled. A nil vector with configured=false is rule-based mode.
func (uc *UseCases) summarizeFromVector(content string, recordType types.RecordType, vec []float64, configured bool) *model.Summary {
	facts := uc.pipeline.Extract(content)

	var matches []model.SemanticMatch
	if configured {
		matches = uc.kb.Rank(vec, summaryTopK)
	}

	summary := &model.Summary{
		Text:       composeSummary(content, recordType, facts, matches),
		RecordType: recordType,
		Confidence: degradedConfidence,
		Mode:       types.ModeRuleBased,
	}
	if configured {
		summary.Mode = types.ModeSemantic
		summary.PrimaryMatch = "general"
	}
	if len(matches) > 0 {
		summary.PrimaryMatch = matches[0].Category
		summary.Confidence = matches[0].Similarity
	}

	return summary
}

// fallbackSummary is the fixed degraded response for a failed semantic path
func fallbackSummary(recordType types.RecordType) *model.Summary {
	return &model.Summary{
		Text:       degradedSummary,
		RecordType: recordType,
		Confidence: degradedConfidence,
		Mode:       types.ModeFallback,
	}
}

// composeSummary merges extraction facts and semantic matches into one
// summary string. First branch wins: lab interpretations, medications,
// conditions and instructions each contribute a fragment when present; the
// keyword and semantic-category templates apply only when none of them fire.
func composeSummary(content string, recordType types.RecordType, facts *model.ExtractedFacts, matches []model.SemanticMatch) string {
	var parts []string

	parts = append(parts, facts.LabInterpretations...)

	if len(facts.Medications) > 0 {
		meds := make([]string, 0, len(facts.Medications))
		for _, med := range facts.Medications {
			meds = append(meds, med.Name+" "+med.Dosage)
		}
		parts = append(parts, "You have been prescribed: "+strings.Join(meds, ", "))
	}

	if len(facts.Conditions) > 0 {
		parts = append(parts, "Conditions mentioned: "+strings.Join(facts.Conditions, ", "))
	}

	if len(facts.Instructions) > 0 {
		parts = append(parts, "Instructions: "+strings.Join(facts.Instructions, "; "))
	}

	if len(parts) > 0 {
		return strings.Join(parts, ". ") + "."
	}

	lower := strings.ToLower(content)
	switch {
	case strings.Contains(lower, "medication") || strings.Contains(lower, "prescrib"):
		return "This is a medication prescription. Take the medication exactly as prescribed by your healthcare provider."
	case strings.Contains(lower, "blood pressure") || strings.Contains(lower, "mmhg") ||
		strings.Contains(lower, "systolic") || strings.Contains(lower, "diastolic"):
		return "This contains blood pressure information. Monitor your blood pressure as recommended by your doctor."
	case strings.Contains(lower, "lab") || strings.Contains(lower, "test") || strings.Contains(lower, "result"):
		return "These are laboratory test results. Discuss these findings with your healthcare provider."
	}

	if len(matches) > 0 {
		category := strings.ReplaceAll(matches[0].Category, "_", " ")
		return fmt.Sprintf("This %s contains medical information related to %s.",
			strings.ToLower(recordType.String()), category)
	}

	return fmt.Sprintf("This %s contains important medical information that should be reviewed with your healthcare provider.",
		strings.ToLower(recordType.String()))
}
