package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrCatalogNotFound = goerr.New("catalog file not found")
	ErrInvalidCatalog  = goerr.New("invalid catalog")
)

// Context keys for error values
const (
	CatalogPathKey = "catalog_path"
)
