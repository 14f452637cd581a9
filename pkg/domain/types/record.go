package types

import "github.com/google/uuid"

// RecordType is a caller-supplied label for the kind of clinical record,
// e.g. "Blood Test" or "Prescription". Free-form by design.
type RecordType string

// DefaultRecordType is used when the caller supplies no label
const DefaultRecordType RecordType = "Medical Record"

// Normalize returns the record type, treating empty as DefaultRecordType
func (t RecordType) Normalize() RecordType {
	if t == "" {
		return DefaultRecordType
	}
	return t
}

// String returns the string representation of the record type
func (t RecordType) String() string {
	return string(t)
}

// AnalysisID is a UUID-based identifier for a stored record analysis
type AnalysisID string

// NewAnalysisID generates a new UUID v4 AnalysisID
func NewAnalysisID() AnalysisID {
	return AnalysisID(uuid.New().String())
}

// String returns the string representation of AnalysisID
func (id AnalysisID) String() string {
	return string(id)
}
