package usecase

import (
	"context"

	"github.com/medrec-lab/asclepius/pkg/domain/interfaces"
	"github.com/medrec-lab/asclepius/pkg/service/extract"
	"github.com/medrec-lab/asclepius/pkg/service/knowledge"
	"github.com/medrec-lab/asclepius/pkg/service/risk"
	"github.com/medrec-lab/asclepius/pkg/service/slack"
)

// UseCases wires the engine services together. The knowledge base and
// extraction pipeline are immutable after construction, so one UseCases
// value serves arbitrarily many concurrent requests.
type UseCases struct {
	repo       interfaces.Repository
	embedder   interfaces.EmbeddingClient
	kb         *knowledge.Service
	pipeline   *extract.Pipeline
	classifier *risk.Classifier
	notifier   slack.Service
}

type Option func(*UseCases)

// WithEmbedder enables the semantic path. Without it the service runs in
// rule-based mode: extraction works, summaries use the keyword branch, and
// risk resolves to UNKNOWN.
func WithEmbedder(embedder interfaces.EmbeddingClient) Option {
	return func(uc *UseCases) {
		uc.embedder = embedder
	}
}

// WithNotifier enables async Slack alerts for HIGH risk analyses
func WithNotifier(notifier slack.Service) Option {
	return func(uc *UseCases) {
		uc.notifier = notifier
	}
}

func New(repo interfaces.Repository, kb *knowledge.Service, pipeline *extract.Pipeline, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		kb:       kb,
		pipeline: pipeline,
	}

	for _, opt := range opts {
		opt(uc)
	}

	if uc.embedder != nil {
		// New only fails on a nil embedder, which is excluded here
		uc.classifier, _ = risk.New(uc.embedder)
	}

	return uc
}

// Semantic reports whether an embedding provider is configured
func (uc *UseCases) Semantic() bool {
	return uc.embedder != nil
}

// embedContent returns the record's vector. The bool reports whether a
// provider is configured at all; with a configured provider a nil vector
// plus error means the provider failed for this request.
func (uc *UseCases) embedContent(ctx context.Context, content string) ([]float64, bool, error) {
	if uc.embedder == nil {
		return nil, false, nil
	}
	vec, err := knowledge.Embed(ctx, uc.embedder, content)
	if err != nil {
		return nil, true, err
	}
	return vec, true, nil
}
