package extract

import (
	"regexp"
	"strings"

	"github.com/medrec-lab/asclepius/pkg/domain/model"
)

// medicationPattern matches a letter token immediately followed by a dosage
// token (number plus unit)
var medicationPattern = regexp.MustCompile(`(?i)\b([a-zA-Z]{3,})\s+(\d+\s*(?:mg|ml|mcg|units?|g)\b)`)

// medicationStopWords are tokens that match the name position but are never
// medication names
var medicationStopWords = map[string]bool{
	"take": true, "with": true, "daily": true, "twice": true,
	"once": true, "every": true, "for": true,
}

// extractMedications returns medications with dosages, deduplicated by
// lower-cased (name, dosage) pair, preserving first-seen order
func extractMedications(text string) []model.Medication {
	var medications []model.Medication
	seen := make(map[string]bool)

	for _, m := range medicationPattern.FindAllStringSubmatch(text, -1) {
		name, dosage := m[1], m[2]
		if medicationStopWords[strings.ToLower(name)] {
			continue
		}
		key := strings.ToLower(name) + "_" + strings.ToLower(dosage)
		if seen[key] {
			continue
		}
		seen[key] = true
		medications = append(medications, model.Medication{
			Name:   titleCase(name),
			Dosage: dosage,
		})
	}

	return medications
}

// titleCase upper-cases the first letter and lower-cases the rest of each
// space-separated word
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
