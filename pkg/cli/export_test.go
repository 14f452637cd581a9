package cli

// GetIndexConfig exposes the migrate index configuration for testing
var GetIndexConfig = getIndexConfig
