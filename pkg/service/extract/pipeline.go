package extract

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
	"github.com/medrec-lab/asclepius/pkg/domain/model"
	"github.com/medrec-lab/asclepius/pkg/domain/model/catalog"
)

// labRule is a LabRule with its pattern compiled once at startup
type labRule struct {
	catalog.LabRule
	re *regexp.Regexp
}

// Pipeline runs the rule-based extractors. It is pure text processing: no
// embedding calls, no shared mutable state, and every extractor is total -
// absence of matches yields an empty result, never an error.
type Pipeline struct {
	labRules   []labRule
	conditions []string
}

// New compiles the catalog's lab rules and builds the extraction pipeline
func New(cat *catalog.Catalog) (*Pipeline, error) {
	if cat == nil {
		return nil, goerr.New("catalog is required")
	}

	rules := make([]labRule, 0, len(cat.LabRules))
	for _, r := range cat.LabRules {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to compile lab rule pattern", goerr.V("name", r.Name))
		}
		rules = append(rules, labRule{LabRule: r, re: re})
	}

	return &Pipeline{
		labRules:   rules,
		conditions: cat.Conditions,
	}, nil
}

// Extract derives structured facts from the record text. Extractors run
// independently; each produces its share of the result regardless of what
// the others find.
func (p *Pipeline) Extract(text string) *model.ExtractedFacts {
	return &model.ExtractedFacts{
		Medications:        extractMedications(text),
		Conditions:         p.extractConditions(text),
		Dates:              extractDates(text),
		VitalSigns:         extractVitalSigns(text),
		LabInterpretations: p.analyzeLabValues(text),
		Instructions:       extractInstructions(text),
	}
}
