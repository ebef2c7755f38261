package oracle

import (
	"context"

	"github.com/CogNetSys/dndscore/internal/worker"
)

// LimitedEntailment bounds the call rate of an entailment oracle
type LimitedEntailment struct {
	Inner   Entailment
	Limiter *worker.Limiter
	Key     string // limiter key, e.g. "oracle:entail"
}

func (l *LimitedEntailment) Entails(ctx context.Context, premise, hypothesis string) (float64, error) {
	if err := l.Limiter.Wait(ctx, l.Key); err != nil {
		return 0, err
	}
	return l.Inner.Entails(ctx, premise, hypothesis)
}

// LimitedEmbedder bounds the call rate of an embedder
type LimitedEmbedder struct {
	Inner   Embedder
	Limiter *worker.Limiter
	Key     string // limiter key, e.g. "oracle:embed"
}

func (l *LimitedEmbedder) Embed(ctx context.Context, claim string) ([]float64, error) {
	if err := l.Limiter.Wait(ctx, l.Key); err != nil {
		return nil, err
	}
	return l.Inner.Embed(ctx, claim)
}
