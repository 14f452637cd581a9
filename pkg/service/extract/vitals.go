package extract

import (
	"regexp"

	"github.com/medrec-lab/asclepius/pkg/domain/model"
)

var (
	bloodPressurePattern = regexp.MustCompile(`\b(\d{2,3})/(\d{2,3})\b`)
	temperaturePattern   = regexp.MustCompile(`(\d{2,3}\.?\d?)\s*°?[Ff]\b`)
)

// extractVitalSigns records the first blood-pressure-shaped and first
// temperature-shaped substrings found in the text
func extractVitalSigns(text string) model.VitalSigns {
	var vitals model.VitalSigns

	if m := bloodPressurePattern.FindStringSubmatch(text); m != nil {
		vitals.BloodPressure = m[1] + "/" + m[2]
	}
	if m := temperaturePattern.FindStringSubmatch(text); m != nil {
		vitals.Temperature = m[1] + "°F"
	}

	return vitals
}
