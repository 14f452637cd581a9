package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/medrec-lab/asclepius/pkg/domain/model"
	"github.com/medrec-lab/asclepius/pkg/domain/types"
)

const analysesCollection = "analyses"

// analysisDoc is the Firestore document representation of model.Analysis.
// Embedding is stored as firestore.Vector32 so that FindNearest vector
// search works. The raw record content is never part of the document.
type analysisDoc struct {
	ID         types.AnalysisID   `firestore:"ID"`
	RecordType string             `firestore:"RecordType"`
	Summary    summaryDoc         `firestore:"Summary"`
	Extraction extractionDoc      `firestore:"Extraction"`
	Risk       riskDoc            `firestore:"Risk"`
	Embedding  firestore.Vector32 `firestore:"Embedding,omitempty"`
	CreatedAt  time.Time          `firestore:"CreatedAt"`
	UpdatedAt  time.Time          `firestore:"UpdatedAt"`
}

type summaryDoc struct {
	Text         string  `firestore:"Text"`
	RecordType   string  `firestore:"RecordType"`
	PrimaryMatch string  `firestore:"PrimaryMatch,omitempty"`
	Confidence   float64 `firestore:"Confidence"`
	Mode         string  `firestore:"Mode"`
}

type extractionDoc struct {
	Facts      model.ExtractedFacts `firestore:"Facts"`
	Confidence float64              `firestore:"Confidence"`
	Mode       string               `firestore:"Mode"`
}

type riskDoc struct {
	Level       string             `firestore:"Level"`
	Explanation string             `firestore:"Explanation"`
	TierScores  map[string]float64 `firestore:"TierScores,omitempty"`
	Confidence  float64            `firestore:"Confidence"`
	Mode        string             `firestore:"Mode"`
}

func toAnalysisDoc(a *model.Analysis) *analysisDoc {
	doc := &analysisDoc{
		ID:         a.ID,
		RecordType: a.RecordType.String(),
		Summary: summaryDoc{
			Text:         a.Summary.Text,
			RecordType:   a.Summary.RecordType.String(),
			PrimaryMatch: a.Summary.PrimaryMatch,
			Confidence:   a.Summary.Confidence,
			Mode:         a.Summary.Mode.String(),
		},
		Extraction: extractionDoc{
			Facts:      a.Extraction.Facts,
			Confidence: a.Extraction.Confidence,
			Mode:       a.Extraction.Mode.String(),
		},
		Risk: riskDoc{
			Level:       a.Risk.Level.String(),
			Explanation: a.Risk.Explanation,
			TierScores:  a.Risk.TierScores,
			Confidence:  a.Risk.Confidence,
			Mode:        a.Risk.Mode.String(),
		},
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if len(a.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(a.Embedding)
	}
	return doc
}

func fromAnalysisDoc(d *analysisDoc) *model.Analysis {
	a := &model.Analysis{
		ID:         d.ID,
		RecordType: types.RecordType(d.RecordType),
		Summary: model.Summary{
			Text:         d.Summary.Text,
			RecordType:   types.RecordType(d.Summary.RecordType),
			PrimaryMatch: d.Summary.PrimaryMatch,
			Confidence:   d.Summary.Confidence,
			Mode:         types.ModelMode(d.Summary.Mode),
		},
		Extraction: model.ExtractionResult{
			Facts:      d.Extraction.Facts,
			Confidence: d.Extraction.Confidence,
			Mode:       types.ModelMode(d.Extraction.Mode),
		},
		Risk: model.RiskAssessment{
			Level:       types.RiskLevel(d.Risk.Level),
			Explanation: d.Risk.Explanation,
			TierScores:  d.Risk.TierScores,
			Confidence:  d.Risk.Confidence,
			Mode:        types.ModelMode(d.Risk.Mode),
		},
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if len(d.Embedding) > 0 {
		a.Embedding = []float32(d.Embedding)
	}
	return a
}

func docToAnalysis(doc *firestore.DocumentSnapshot) (*model.Analysis, error) {
	var d analysisDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromAnalysisDoc(&d), nil
}

type analysisRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newAnalysisRepository(client *firestore.Client) *analysisRepository {
	return &analysisRepository{
		client: client,
	}
}

func (r *analysisRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(r.collectionPrefix + analysesCollection)
}

func (r *analysisRepository) Create(ctx context.Context, analysis *model.Analysis) (*model.Analysis, error) {
	created := *analysis
	if created.ID == "" {
		created.ID = types.NewAnalysisID()
	}

	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	docRef := r.collection().Doc(created.ID.String())
	if _, err := docRef.Set(ctx, toAnalysisDoc(&created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create analysis", goerr.V("id", created.ID))
	}

	return &created, nil
}

func (r *analysisRepository) Get(ctx context.Context, id types.AnalysisID) (*model.Analysis, error) {
	doc, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "analysis not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get analysis", goerr.V("id", id))
	}

	a, err := docToAnalysis(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal analysis", goerr.V("id", id))
	}

	return a, nil
}

func (r *analysisRepository) List(ctx context.Context) ([]*model.Analysis, error) {
	iter := r.collection().OrderBy("CreatedAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var analyses []*model.Analysis
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate analyses")
		}

		a, err := docToAnalysis(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal analysis")
		}

		analyses = append(analyses, a)
	}

	return analyses, nil
}

func (r *analysisRepository) FindByEmbedding(ctx context.Context, embedding []float32, limit int) ([]*model.Analysis, error) {
	vq := r.collection().
		FindNearest("Embedding", firestore.Vector32(embedding), limit, firestore.DistanceMeasureCosine, nil)

	iter := vq.Documents(ctx)
	defer iter.Stop()

	analyses := make([]*model.Analysis, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate vector search results")
		}

		a, err := docToAnalysis(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal analysis from vector search")
		}

		analyses = append(analyses, a)
	}

	return analyses, nil
}
