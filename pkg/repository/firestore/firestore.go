package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/medrec-lab/asclepius/pkg/domain/interfaces"
)

type Firestore struct {
	client   *firestore.Client
	analysis *analysisRepository

	databaseID       string
	collectionPrefix string
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithDatabaseID selects a non-default Firestore database
func WithDatabaseID(databaseID string) Option {
	return func(f *Firestore) {
		f.databaseID = databaseID
	}
}

// WithCollectionPrefix namespaces the collections, e.g. for staging
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID string, opts ...Option) (*Firestore, error) {
	f := &Firestore{}
	for _, opt := range opts {
		opt(f)
	}

	var client *firestore.Client
	var err error
	if f.databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, f.databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", f.databaseID))
	}

	f.client = client
	f.analysis = newAnalysisRepository(client)
	f.analysis.collectionPrefix = f.collectionPrefix

	return f, nil
}

func (f *Firestore) Analysis() interfaces.AnalysisRepository {
	return f.analysis
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
