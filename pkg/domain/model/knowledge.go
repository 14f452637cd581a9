package model

// EmbeddingDimension is the dimension of the embedding vector
// Gemini text-embedding-004 uses 768 dimensions
const EmbeddingDimension = 768

// KnowledgeEntry is one category of the clinical knowledge base. The vector
// is the element-wise mean of the embeddings of the category's trigger
// phrases. Entries are built once at startup and never mutated.
type KnowledgeEntry struct {
	Category  string
	Phrases   []string
	Vector    []float64
	Responses map[string]string // qualitative label ("normal", "elevated", ...) -> template
}

// KnowledgeBase is the ordered set of knowledge entries, in catalog order.
// An empty knowledge base means "no semantic signal available", not an error.
type KnowledgeBase struct {
	entries []KnowledgeEntry
}

// NewKnowledgeBase builds a knowledge base from entries, preserving order
func NewKnowledgeBase(entries []KnowledgeEntry) *KnowledgeBase {
	return &KnowledgeBase{entries: entries}
}

// Entries returns the entries in catalog order
func (kb *KnowledgeBase) Entries() []KnowledgeEntry {
	if kb == nil {
		return nil
	}
	return kb.entries
}

// Len returns the number of surviving categories
func (kb *KnowledgeBase) Len() int {
	if kb == nil {
		return 0
	}
	return len(kb.entries)
}

// SemanticMatch is one ranked match of input text against a knowledge entry.
// Similarity is cosine similarity in [-1, 1].
type SemanticMatch struct {
	Category   string            `json:"category"`
	Similarity float64           `json:"similarity"`
	Responses  map[string]string `json:"-"`
}
