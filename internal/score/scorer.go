package score

import (
	"context"
	"fmt"
	"math"

	"github.com/CogNetSys/dndscore/internal/oracle"
	"github.com/CogNetSys/dndscore/internal/worker"
)

// Scorer calculates per-claim informativeness weights against a bleached
// claim set. The weight is a conditional-pointwise-mutual-information-style
// measure: -ln of the worst-case (minimum) entailment probability across the
// bleached set. A single bleached claim that already entails the claim with
// near-certainty is enough to deflate the weight toward zero.
type Scorer struct {
	entailment oracle.Entailment
	workers    int
}

// NewScorer creates a new scorer. Claims are scored concurrently on up to
// workers goroutines; output order is always aligned to input order.
func NewScorer(entailment oracle.Entailment, workers int) *Scorer {
	if workers <= 0 {
		workers = 1
	}
	return &Scorer{entailment: entailment, workers: workers}
}

// weightJob scores one claim against the full bleached set
type weightJob struct {
	index      int
	claim      string
	bleached   []string
	entailment oracle.Entailment
}

type weightResult struct {
	index  int
	weight float64
	err    error
}

func (r *weightResult) GetError() error { return r.err }
func (r *weightResult) GetIndex() int   { return r.index }

func (j *weightJob) Execute(ctx context.Context) worker.Result {
	minEntailment := 1.0
	for _, bleached := range j.bleached {
		prob, err := j.entailment.Entails(ctx, bleached, j.claim)
		if err != nil {
			return &weightResult{index: j.index, err: err}
		}
		if prob < minEntailment {
			minEntailment = prob
		}
	}

	// explicit floor: an unentailable claim (min exactly 0) scores 0.0, not
	// +Inf
	weight := 0.0
	if minEntailment > 0 {
		weight = -math.Log(minEntailment)
	}
	return &weightResult{index: j.index, weight: weight}
}

// Weights returns one informativeness weight per claim, aligned to the
// input order. The bleached set must be non-empty.
func (s *Scorer) Weights(ctx context.Context, claims, bleached []string) ([]float64, error) {
	if len(bleached) == 0 {
		return nil, fmt.Errorf("bleached claim set must not be empty")
	}
	if len(claims) == 0 {
		return []float64{}, nil
	}

	pool := worker.NewPool(s.workers)
	pool.Start()

	for i, claim := range claims {
		pool.Submit(&weightJob{
			index:      i,
			claim:      claim,
			bleached:   bleached,
			entailment: s.entailment,
		})
	}

	results := pool.WaitOrdered(len(claims))

	weights := make([]float64, len(claims))
	for i, res := range results {
		wr := res.(*weightResult)
		if wr.err != nil {
			return nil, fmt.Errorf("score claim %d: %w", wr.index, wr.err)
		}
		weights[i] = wr.weight
	}
	return weights, nil
}
