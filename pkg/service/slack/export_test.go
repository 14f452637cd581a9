package slack

// Export internal functions for testing
var BuildHighRiskBlocks = buildHighRiskBlocks
