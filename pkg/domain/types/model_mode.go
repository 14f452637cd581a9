package types

// ModelMode identifies which strategy produced a result
type ModelMode string

const (
	// ModeSemantic means the result was driven by embedding similarity
	ModeSemantic ModelMode = "semantic"
	// ModeRuleBased means the result came from pattern rules only
	ModeRuleBased ModelMode = "rule-based"
	// ModeFallback means the degraded fixed response was substituted
	ModeFallback ModelMode = "fallback"
)

// IsValid checks if the model mode is valid
func (m ModelMode) IsValid() bool {
	switch m {
	case ModeSemantic, ModeRuleBased, ModeFallback:
		return true
	default:
		return false
	}
}

// String returns the string representation of the model mode
func (m ModelMode) String() string {
	return string(m)
}
