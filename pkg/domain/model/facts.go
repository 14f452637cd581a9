package model

// Medication is one extracted medication with its dosage as written,
// e.g. {Name: "Lisinopril", Dosage: "10mg"}
type Medication struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
}

// VitalSigns holds the first blood-pressure and temperature readings found
// in a record. Empty string means not present.
type VitalSigns struct {
	BloodPressure string `json:"blood_pressure,omitempty"`
	Temperature   string `json:"temperature,omitempty"`
}

// ExtractedFacts is the structured output of the extraction pipeline.
// All fields are derived fresh per request; there is no cross-request state.
type ExtractedFacts struct {
	Medications        []Medication `json:"medications"`
	Conditions         []string     `json:"conditions"`
	Dates              []string     `json:"dates"`
	VitalSigns         VitalSigns   `json:"vital_signs"`
	LabInterpretations []string     `json:"lab_interpretations"`
	Instructions       []string     `json:"instructions"`
}

// IsEmpty reports whether no extractor produced any fact
func (f *ExtractedFacts) IsEmpty() bool {
	return len(f.Medications) == 0 &&
		len(f.Conditions) == 0 &&
		len(f.Dates) == 0 &&
		f.VitalSigns.BloodPressure == "" &&
		f.VitalSigns.Temperature == "" &&
		len(f.LabInterpretations) == 0 &&
		len(f.Instructions) == 0
}
