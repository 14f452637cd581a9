package config

import (
	_ "embed"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/medrec-lab/asclepius/pkg/domain/model/catalog"
)

//go:embed catalog.toml
var defaultCatalog []byte

// Catalog holds CLI flags for the clinical catalog. Without --catalog the
// embedded default catalog is used.
type Catalog struct {
	path string
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "catalog",
			Usage:       "Path to clinical catalog TOML (uses the built-in catalog when omitted)",
			Sources:     cli.EnvVars("ASCLEPIUS_CATALOG"),
			Destination: &c.path,
		},
	}
}

// Path returns the configured catalog path ("" means embedded default)
func (c *Catalog) Path() string {
	return c.path
}

// Configure loads and validates the catalog
func (c *Catalog) Configure() (*catalog.Catalog, error) {
	data := defaultCatalog
	if c.path != "" {
		raw, err := os.ReadFile(c.path)
		if err != nil {
			return nil, goerr.Wrap(ErrCatalogNotFound, err.Error(), goerr.V(CatalogPathKey, c.path))
		}
		data = raw
	}

	return Load(data)
}

// Load parses and validates catalog TOML data
func Load(data []byte) (*catalog.Catalog, error) {
	var cat catalog.Catalog
	if err := toml.Unmarshal(data, &cat); err != nil {
		return nil, goerr.Wrap(ErrInvalidCatalog, err.Error())
	}

	if err := cat.Validate(); err != nil {
		return nil, goerr.Wrap(err, "catalog validation failed")
	}

	return &cat, nil
}
