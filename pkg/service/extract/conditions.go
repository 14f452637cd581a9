package extract

import "strings"

// extractConditions matches the condition vocabulary case-insensitively
// against the text. Each canonical name appears at most once, in
// vocabulary order, regardless of repetition in the text.
func (p *Pipeline) extractConditions(text string) []string {
	lower := strings.ToLower(text)

	var conditions []string
	for _, cond := range p.conditions {
		if strings.Contains(lower, strings.ToLower(cond)) {
			conditions = append(conditions, titleCase(cond))
		}
	}
	return conditions
}
