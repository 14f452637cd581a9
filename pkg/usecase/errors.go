package usecase

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrEmptyContent is returned when a record has no content to analyze
	ErrEmptyContent = goerr.New("record content is empty")

	// ErrNoRepository is returned when a history operation runs without a
	// configured repository
	ErrNoRepository = goerr.New("repository is not configured")

	// ErrNoEmbeddingStored is returned when similarity search targets an
	// analysis stored without an embedding
	ErrNoEmbeddingStored = goerr.New("no embedding stored for analysis")
)
