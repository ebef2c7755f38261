package oracle

import (
	"context"
	"math"
)

// Entailment answers how strongly a premise entails a hypothesis
type Entailment interface {
	// Entails returns the probability in [0,1] that premise entails hypothesis
	Entails(ctx context.Context, premise, hypothesis string) (float64, error)
}

// Similarity answers how similar two claims are
type Similarity interface {
	// Similarity returns a score in [0,1]
	Similarity(ctx context.Context, a, b string) (float64, error)
}

// Embedder exposes the embedding behind a similarity oracle so callers can
// cache per-claim representations instead of recomputing pairs
type Embedder interface {
	// Embed returns a fixed-dimension vector for the claim
	Embed(ctx context.Context, claim string) ([]float64, error)
}

// EntailsFunc adapts a plain function to the Entailment interface
type EntailsFunc func(ctx context.Context, premise, hypothesis string) (float64, error)

func (f EntailsFunc) Entails(ctx context.Context, premise, hypothesis string) (float64, error) {
	return f(ctx, premise, hypothesis)
}

// SimilarityFunc adapts a plain function to the Similarity interface
type SimilarityFunc func(ctx context.Context, a, b string) (float64, error)

func (f SimilarityFunc) Similarity(ctx context.Context, a, b string) (float64, error) {
	return f(ctx, a, b)
}

// Cosine computes the cosine similarity of two vectors, clamped to [0,1].
// Mismatched or zero-norm vectors score 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// EmbeddingSimilarity turns an Embedder into a Similarity oracle via cosine
type EmbeddingSimilarity struct {
	Embedder Embedder
}

func (s *EmbeddingSimilarity) Similarity(ctx context.Context, a, b string) (float64, error) {
	va, err := s.Embedder.Embed(ctx, a)
	if err != nil {
		return 0, err
	}
	vb, err := s.Embedder.Embed(ctx, b)
	if err != nil {
		return 0, err
	}
	return Cosine(va, vb), nil
}
