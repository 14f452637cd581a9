package interfaces

import (
	"context"

	"github.com/medrec-lab/asclepius/pkg/domain/model"
	"github.com/medrec-lab/asclepius/pkg/domain/types"
)

// AnalysisRepository stores completed record analyses
type AnalysisRepository interface {
	// Create stores a new analysis with auto-generated ID if empty
	Create(ctx context.Context, analysis *model.Analysis) (*model.Analysis, error)

	// Get retrieves an analysis by ID
	Get(ctx context.Context, id types.AnalysisID) (*model.Analysis, error)

	// List retrieves all analyses, newest first
	List(ctx context.Context) ([]*model.Analysis, error)

	// FindByEmbedding retrieves up to limit analyses nearest to the given
	// embedding by cosine distance, excluding entries without an embedding
	FindByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*model.Analysis, error)
}

// Repository is the persistence boundary for the service
type Repository interface {
	Analysis() AnalysisRepository

	// Close releases underlying connections
	Close() error
}
