// Package index provides the in-memory vector index used for
// retrieval-augmented response analysis. Chunks of the resume and job
// description are embedded once up front; queries run a brute-force
// cosine similarity search over the stored vectors.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-coach/internal/ingestion"
)

const (
	// DefaultK is the number of chunks returned when the caller does not
	// specify a count.
	DefaultK = 3

	// embedBatchSize is the number of chunks embedded per provider call.
	embedBatchSize = 64
	// embedConcurrency bounds concurrent embedding calls during a build.
	embedConcurrency = 4
)

// Embedder computes embedding vectors for texts, preserving input order.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Entry is a single embedded chunk.
type Entry struct {
	Content string    `json:"content"`
	Source  string    `json:"source,omitempty"`
	Vector  []float32 `json:"vector"`
}

// Result is a scored match from a similarity search.
type Result struct {
	Content string
	Source  string
	Score   float64
}

// BuildError is returned when embedding chunks or queries fails.
type BuildError struct {
	Message string
	Cause   error
}

func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("index build failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("index build failed: %s", e.Message)
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}

// Index holds embedded chunks and answers similarity queries.
type Index struct {
	entries  []Entry
	embedder Embedder
}

// New returns an empty index that embeds with the given embedder.
func New(embedder Embedder) *Index {
	return &Index{embedder: embedder}
}

// Build creates an index from chunks, embedding them in bounded parallel
// batches.
func Build(ctx context.Context, chunks []ingestion.Chunk, embedder Embedder) (*Index, error) {
	idx := New(embedder)
	if err := idx.Add(ctx, chunks); err != nil {
		return nil, err
	}
	return idx, nil
}

// Add embeds chunks and appends them to the index.
func (idx *Index) Add(ctx context.Context, chunks []ingestion.Chunk) error {
	if idx.embedder == nil {
		return &BuildError{Message: "no embedder configured"}
	}
	if len(chunks) == 0 {
		return nil
	}

	vectors := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for start := 0; start < len(chunks); start += embedBatchSize {
		start := start
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}

		g.Go(func() error {
			texts := make([]string, end-start)
			for i, chunk := range chunks[start:end] {
				texts[i] = chunk.Content
			}

			vecs, err := idx.embedder.EmbedTexts(gctx, texts)
			if err != nil {
				return err
			}
			if len(vecs) != end-start {
				return fmt.Errorf("embedding count mismatch: got %d, want %d", len(vecs), end-start)
			}

			for i, vec := range vecs {
				vectors[start+i] = vec
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return &BuildError{Message: "embedding chunks", Cause: err}
	}

	for i, chunk := range chunks {
		idx.entries = append(idx.entries, Entry{
			Content: chunk.Content,
			Source:  string(chunk.Source),
			Vector:  vectors[i],
		})
	}
	return nil
}

// Len returns the number of embedded chunks.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}

// Query returns the k most similar chunks, best first. A nil or empty
// index yields no results and no error. k <= 0 uses DefaultK.
func (idx *Index) Query(ctx context.Context, query string, k int) ([]Result, error) {
	if idx == nil || len(idx.entries) == 0 {
		return nil, nil
	}
	if k <= 0 {
		k = DefaultK
	}
	if idx.embedder == nil {
		return nil, &BuildError{Message: "no embedder configured"}
	}

	vecs, err := idx.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, &BuildError{Message: "embedding query", Cause: err}
	}
	if len(vecs) == 0 {
		return nil, &BuildError{Message: "empty embedding for query"}
	}
	queryVec := vecs[0]

	results := make([]Result, 0, len(idx.entries))
	for _, entry := range idx.entries {
		results = append(results, Result{
			Content: entry.Content,
			Source:  entry.Source,
			Score:   cosineSimilarity(queryVec, entry.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Context returns the k most relevant chunks joined with newlines.
// Retrieval failures degrade to an empty string so the interview loop can
// continue without context.
func (idx *Index) Context(ctx context.Context, query string, k int) string {
	results, err := idx.Query(ctx, query, k)
	if err != nil {
		return ""
	}

	parts := make([]string, 0, len(results))
	for _, result := range results {
		parts = append(parts, result.Content)
	}
	return strings.Join(parts, "\n")
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// or 0 for mismatched or zero-magnitude vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
