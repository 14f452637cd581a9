package knowledge

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the knowledge service
var (
	// ErrNoEmbedding means the provider returned no vector without failing
	ErrNoEmbedding = goerr.New("no embedding returned")
)
