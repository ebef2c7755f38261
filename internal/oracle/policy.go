package oracle

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Policy governs what happens when an oracle call fails. The defaults are
// deliberately asymmetric: a failed entailment check must never deflate a
// claim's importance (fallback 0.0 keeps its weight high), and a failed
// similarity check must never admit a claim that was not screened for
// redundancy (fallback 1.0 suppresses it).
type Policy struct {
	// FailFast propagates oracle errors instead of substituting fallbacks
	FailFast bool

	// EntailmentFallback is the probability used when an entailment call
	// fails (default 0.0)
	EntailmentFallback float64

	// SimilarityFallback is the score used when a similarity or embedding
	// call fails (default 1.0)
	SimilarityFallback float64

	// Log receives one line per fallback occurrence, distinct from normal
	// oracle answers. Defaults to stderr.
	Log io.Writer
}

// DefaultPolicy returns the conservative failure defaults
func DefaultPolicy() Policy {
	return Policy{
		EntailmentFallback: 0.0,
		SimilarityFallback: 1.0,
	}
}

// Logf writes one fallback log line, distinct from normal oracle answers
func (p Policy) Logf(format string, args ...interface{}) {
	w := p.Log
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// GuardedEntailment wraps an Entailment oracle with the failure policy
type GuardedEntailment struct {
	Inner  Entailment
	Policy Policy
}

func (g *GuardedEntailment) Entails(ctx context.Context, premise, hypothesis string) (float64, error) {
	prob, err := g.Inner.Entails(ctx, premise, hypothesis)
	if err != nil {
		if g.Policy.FailFast {
			return 0, err
		}
		g.Policy.Logf("oracle fallback: entailment(%.40q, %.40q) failed, using %.2f: %v",
			premise, hypothesis, g.Policy.EntailmentFallback, err)
		return g.Policy.EntailmentFallback, nil
	}
	return prob, nil
}

// GuardedSimilarity wraps a Similarity oracle with the failure policy
type GuardedSimilarity struct {
	Inner  Similarity
	Policy Policy
}

func (g *GuardedSimilarity) Similarity(ctx context.Context, a, b string) (float64, error) {
	sim, err := g.Inner.Similarity(ctx, a, b)
	if err != nil {
		if g.Policy.FailFast {
			return 0, err
		}
		g.Policy.Logf("oracle fallback: similarity(%.40q, %.40q) failed, using %.2f: %v",
			a, b, g.Policy.SimilarityFallback, err)
		return g.Policy.SimilarityFallback, nil
	}
	return sim, nil
}
