package coreset

import (
	"context"
	"fmt"
	"sort"

	"github.com/CogNetSys/dndscore/internal/oracle"
)

// Selector greedily picks a maximal-weight, pairwise-non-redundant subset of
// claims. It is a non-backtracking approximation: claims are visited in
// descending-weight order and accepted iff their similarity to every
// already-accepted claim stays at or below the redundancy threshold.
type Selector struct {
	embedder oracle.Embedder
	policy   oracle.Policy
}

// NewSelector creates a new core-set selector
func NewSelector(embedder oracle.Embedder, policy oracle.Policy) *Selector {
	return &Selector{embedder: embedder, policy: policy}
}

// selectionState holds the per-run working set: accepted indices and their
// cached embeddings. Discarded when Select returns.
type selectionState struct {
	accepted   []int
	embeddings map[int][]float64 // index → embedding; absent means embed failed
}

// Select returns the indices of retained claims, in acceptance order
// (descending weight). tau must be in [0,1] and the claim list non-empty;
// violations are configuration errors and abort the call.
func (s *Selector) Select(ctx context.Context, claims []string, weights []float64, tau float64) ([]int, error) {
	if tau < 0 || tau > 1 {
		return nil, fmt.Errorf("redundancy threshold must be in [0,1], got %v", tau)
	}
	if len(claims) == 0 {
		return nil, fmt.Errorf("claim list must not be empty")
	}
	if len(weights) != len(claims) {
		return nil, fmt.Errorf("got %d weights for %d claims", len(weights), len(claims))
	}

	// stable sort keeps input order for equal weights, making the result
	// deterministic
	order := make([]int, len(claims))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return weights[order[a]] > weights[order[b]]
	})

	state := selectionState{
		embeddings: make(map[int][]float64, len(claims)),
	}

	// The accept/reject loop is strictly sequential: acceptance of a claim
	// depends on the full accepted set built from all higher-ranked claims.
	// Each embedding is computed exactly once and reused for every
	// subsequent comparison.
	for _, idx := range order {
		vec, err := s.embedder.Embed(ctx, claims[idx])
		if err != nil {
			if s.policy.FailFast {
				return nil, fmt.Errorf("embed claim %d: %w", idx, err)
			}
			s.policy.Logf("oracle fallback: embedding of claim %d failed, unscreened pairs score %.2f: %v",
				idx, s.policy.SimilarityFallback, err)
		} else {
			state.embeddings[idx] = vec
		}

		unique := true
		for _, acceptedIdx := range state.accepted {
			if state.similarity(idx, acceptedIdx, s.policy.SimilarityFallback) > tau {
				unique = false
				break
			}
		}

		if unique {
			state.accepted = append(state.accepted, idx)
		}
	}

	return state.accepted, nil
}

// similarity compares two claims via their cached embeddings. A pair
// involving a failed embedding gets the fallback score: a claim the system
// could not screen for redundancy is never silently admitted.
func (st selectionState) similarity(a, b int, fallback float64) float64 {
	va, okA := st.embeddings[a]
	vb, okB := st.embeddings[b]
	if !okA || !okB {
		return fallback
	}
	return oracle.Cosine(va, vb)
}
