package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// analyzeLabValues interprets lab values against their normal ranges.
// Numeric `name: value unit` matches take precedence; explicit "- LOW" /
// "- HIGH" line markers only add an interpretation for labs not already
// covered. A value that matches the pattern but fails to parse skips that
// rule only.
func (p *Pipeline) analyzeLabValues(text string) []string {
	var interpretations []string

	for _, rule := range p.labRules {
		m := rule.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}

		value, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}

		rendered := strconv.FormatFloat(value, 'f', -1, 64)
		switch {
		case value < rule.RangeLow:
			interpretations = append(interpretations,
				fmt.Sprintf("Your %s is low (%s) indicating %s", rule.Name, rendered, rule.LowMeaning))
		case value > rule.RangeHigh:
			interpretations = append(interpretations,
				fmt.Sprintf("Your %s is elevated (%s) suggesting %s", rule.Name, rendered, rule.HighMeaning))
		default:
			interpretations = append(interpretations,
				fmt.Sprintf("Your %s is normal (%s)", rule.Name, rendered))
		}
	}

	for _, line := range strings.Split(text, "\n") {
		upper := strings.ToUpper(line)
		isLow := strings.Contains(upper, "- LOW")
		isHigh := strings.Contains(upper, "- HIGH")
		if !isLow && !isHigh {
			continue
		}

		lower := strings.ToLower(line)
		for _, rule := range p.labRules {
			if !strings.Contains(lower, strings.ToLower(rule.Name)) {
				continue
			}
			if hasInterpretation(interpretations, rule.Name) {
				continue
			}
			if isLow {
				interpretations = append(interpretations,
					fmt.Sprintf("Your %s is low, indicating %s", rule.Name, rule.LowMeaning))
			} else {
				interpretations = append(interpretations,
					fmt.Sprintf("Your %s is elevated, suggesting %s", rule.Name, rule.HighMeaning))
			}
		}
	}

	return interpretations
}

// hasInterpretation reports whether an interpretation for the lab name is
// already present
func hasInterpretation(interpretations []string, name string) bool {
	needle := strings.ToLower(name)
	for _, in := range interpretations {
		if strings.Contains(strings.ToLower(in), needle) {
			return true
		}
	}
	return false
}
