package oracle

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/CogNetSys/dndscore/internal/cache"
)

// CachedEntailment memoizes entailment answers. Oracle answers are assumed
// deterministic for identical inputs, so cached values are equivalent to
// fresh ones.
type CachedEntailment struct {
	Inner Entailment
	Cache cache.Cache
	TTL   time.Duration
}

func (c *CachedEntailment) Entails(ctx context.Context, premise, hypothesis string) (float64, error) {
	key := cache.PairKey("entail", premise, hypothesis)
	if data, found := c.Cache.Get(key); found {
		if p, err := strconv.ParseFloat(string(data), 64); err == nil {
			return p, nil
		}
	}

	prob, err := c.Inner.Entails(ctx, premise, hypothesis)
	if err != nil {
		return 0, err
	}
	_ = c.Cache.Set(key, []byte(strconv.FormatFloat(prob, 'g', -1, 64)), c.TTL)
	return prob, nil
}

// CachedEmbedder memoizes claim embeddings
type CachedEmbedder struct {
	Inner Embedder
	Cache cache.Cache
	TTL   time.Duration
}

func (c *CachedEmbedder) Embed(ctx context.Context, claim string) ([]float64, error) {
	key := cache.ClaimKey("embed", claim)
	if data, found := c.Cache.Get(key); found {
		var vec []float64
		if err := json.Unmarshal(data, &vec); err == nil {
			return vec, nil
		}
	}

	vec, err := c.Inner.Embed(ctx, claim)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(vec); err == nil {
		_ = c.Cache.Set(key, data, c.TTL)
	}
	return vec, nil
}
