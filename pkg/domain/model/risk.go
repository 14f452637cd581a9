package model

import "github.com/medrec-lab/asclepius/pkg/domain/types"

// RiskAssessment is the resolved risk tier for a record. TierScores carries
// the per-tier maximum similarity for explainability, including tiers that
// contributed no hits.
type RiskAssessment struct {
	Level       types.RiskLevel    `json:"risk_level"`
	Explanation string             `json:"explanation"`
	TierScores  map[string]float64 `json:"tier_scores"`
	Confidence  float64            `json:"confidence"`
	Mode        types.ModelMode    `json:"model_mode"`
}
