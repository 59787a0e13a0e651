package retrieval

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/docgenius-ai/docgenius/internal/domain"
)

// QueryState tracks a query's progress through the engine. A query either
// reaches StateDone with an answer or StateFailed with a typed error; there
// is no partial result.
type QueryState string

const (
	StateReceived  QueryState = "received"
	StateComposed  QueryState = "composed"
	StateEmbedded  QueryState = "embedded"
	StateSearched  QueryState = "searched"
	StateAssembled QueryState = "assembled"
	StateDone      QueryState = "done"
	StateFailed    QueryState = "failed"
)

// Embedder defines the embedding capability consumed by the engine. Both
// methods must produce vectors of a stable dimensionality; GenerateEmbeddings
// is order-preserving, one vector per input string.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Config controls engine behavior.
type Config struct {
	// TopK is the number of sentences retrieved per query.
	TopK int
	// ContextWindow is the number of prior turns merged into the query.
	ContextWindow int
	// EmbedTimeout bounds each embedding call; a timeout surfaces as an
	// embedding error. Zero disables the bound.
	EmbedTimeout time.Duration
}

// DefaultConfig provides the reference engine settings.
func DefaultConfig() Config {
	return Config{
		TopK:          3,
		ContextWindow: DefaultContextWindow,
		EmbedTimeout:  30 * time.Second,
	}
}

// Engine coordinates segmentation, embedding, index build and search, and
// answer assembly. It holds no per-conversation state: every query reads the
// caller-supplied corpus snapshot and builds its own ephemeral index, so
// concurrent queries never contend and a failed query leaves nothing behind.
type Engine struct {
	embedder Embedder
	cfg      Config
}

// NewEngine creates an Engine with the given embedder and configuration.
func NewEngine(embedder Embedder, cfg Config) *Engine {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultConfig().TopK
	}
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = DefaultContextWindow
	}
	return &Engine{embedder: embedder, cfg: cfg}
}

// Ingest converts raw document text into the corpus persisted alongside a
// chat: the ordered sentences and one embedding per sentence. Text with no
// extractable sentences fails with the empty-corpus error.
func (e *Engine) Ingest(ctx context.Context, rawText string) ([]string, [][]float32, error) {
	sentences := Segment(CleanText(rawText))
	if len(sentences) == 0 {
		return nil, nil, domain.ErrEmptyCorpus
	}

	embeddings, err := e.embedBatch(ctx, sentences)
	if err != nil {
		return nil, nil, err
	}
	if len(embeddings) != len(sentences) {
		return nil, nil, domain.ErrEmbedding.WithCause(
			errors.New("embedder returned wrong number of vectors"))
	}

	return sentences, embeddings, nil
}

// AnswerQuery runs one query against a corpus snapshot and returns the
// assembled answer. The corpus is read-only: the index is rebuilt from the
// stored embeddings and discarded, so identical inputs always produce the
// identical answer. Errors propagate with their original kind unmasked.
func (e *Engine) AnswerQuery(
	ctx context.Context,
	query string,
	sentences []string,
	embeddings [][]float32,
	turns []Turn,
) (string, error) {
	fail := func(state QueryState, err error) (string, error) {
		log.Printf("retrieval: query failed at state %s: %v", state, err)
		return "", err
	}

	if CleanText(query) == "" {
		return fail(StateReceived, domain.ErrEmptyQuery)
	}

	composite := ComposeContext(query, turns, e.cfg.ContextWindow)

	queryVector, err := e.embedOne(ctx, composite)
	if err != nil {
		return fail(StateComposed, err)
	}

	if len(sentences) == 0 || len(embeddings) == 0 {
		return fail(StateEmbedded, domain.ErrEmptyCorpus)
	}
	if len(sentences) != len(embeddings) {
		return fail(StateEmbedded, domain.NewDomainError(domain.ErrCodeInternalError,
			"corpus sentences and embeddings are out of sync"))
	}

	index, err := BuildIndex(embeddings)
	if err != nil {
		return fail(StateEmbedded, err)
	}

	matches, err := index.Search(queryVector, e.cfg.TopK)
	if err != nil {
		return fail(StateEmbedded, err)
	}

	top := make([]string, len(matches))
	for i, m := range matches {
		top[i] = sentences[m.Position]
	}

	return Assemble(top), nil
}

// Search runs the retrieval pipeline without answer assembly, returning the
// ranked matches. Useful for callers that want sentence positions.
func (e *Engine) Search(
	ctx context.Context,
	query string,
	embeddings [][]float32,
	turns []Turn,
	k int,
) ([]Match, error) {
	if CleanText(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if k <= 0 {
		k = e.cfg.TopK
	}

	queryVector, err := e.embedOne(ctx, ComposeContext(query, turns, e.cfg.ContextWindow))
	if err != nil {
		return nil, err
	}

	index, err := BuildIndex(embeddings)
	if err != nil {
		return nil, err
	}

	return index.Search(queryVector, k)
}

func (e *Engine) embedOne(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := e.embedContext(ctx)
	defer cancel()

	vector, err := e.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, asEmbeddingError(err)
	}
	return vector, nil
}

func (e *Engine) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := e.embedContext(ctx)
	defer cancel()

	vectors, err := e.embedder.GenerateEmbeddings(ctx, texts)
	if err != nil {
		return nil, asEmbeddingError(err)
	}
	return vectors, nil
}

func (e *Engine) embedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.cfg.EmbedTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.cfg.EmbedTimeout)
}

// asEmbeddingError coerces embedder failures into the embedding error kind.
// Errors that already carry a domain code pass through untouched.
func asEmbeddingError(err error) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	return domain.ErrEmbedding.WithCause(err)
}
