package oracle

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite clamped to zero", []float64{1, 0}, []float64{-1, 0}, 0},
		{"length mismatch", []float64{1, 0}, []float64{1}, 0},
		{"empty", nil, nil, 0},
		{"zero norm", []float64{0, 0}, []float64{1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineScaleInvariant(t *testing.T) {
	a := []float64{0.3, 0.4, 0.5}
	b := []float64{0.6, 0.8, 1.0}
	if got := Cosine(a, b); math.Abs(got-1) > 1e-9 {
		t.Errorf("Cosine of scaled vectors = %v, want 1", got)
	}
}

func TestParseProbability(t *testing.T) {
	tests := []struct {
		content string
		want    float64
		wantErr bool
	}{
		{"0.85", 0.85, false},
		{"0", 0, false},
		{"1", 1, false},
		{"The probability is 0.3", 0.3, false},
		{"  0.5\n", 0.5, false},
		{"no number here", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseProbability(tt.content)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseProbability(%q): expected error", tt.content)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseProbability(%q): %v", tt.content, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("parseProbability(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

func TestGuardedEntailmentFallback(t *testing.T) {
	var log strings.Builder
	g := &GuardedEntailment{
		Inner: EntailsFunc(func(ctx context.Context, premise, hypothesis string) (float64, error) {
			return 0, errors.New("timeout")
		}),
		Policy: Policy{EntailmentFallback: 0.0, Log: &log},
	}

	prob, err := g.Entails(context.Background(), "p", "h")
	if err != nil {
		t.Fatalf("Entails: %v", err)
	}
	if prob != 0.0 {
		t.Errorf("prob = %v, want the 0.0 fallback", prob)
	}
	if !strings.Contains(log.String(), "oracle fallback") {
		t.Errorf("fallback not logged: %q", log.String())
	}
}

func TestGuardedEntailmentFailFast(t *testing.T) {
	g := &GuardedEntailment{
		Inner: EntailsFunc(func(ctx context.Context, premise, hypothesis string) (float64, error) {
			return 0, errors.New("timeout")
		}),
		Policy: Policy{FailFast: true},
	}

	if _, err := g.Entails(context.Background(), "p", "h"); err == nil {
		t.Error("expected error in fail-fast mode")
	}
}

func TestGuardedEntailmentPassthrough(t *testing.T) {
	var log strings.Builder
	g := &GuardedEntailment{
		Inner: EntailsFunc(func(ctx context.Context, premise, hypothesis string) (float64, error) {
			return 0.7, nil
		}),
		Policy: Policy{Log: &log},
	}

	prob, err := g.Entails(context.Background(), "p", "h")
	if err != nil || prob != 0.7 {
		t.Errorf("Entails = %v, %v", prob, err)
	}
	if log.Len() != 0 {
		t.Errorf("successful call logged a fallback: %q", log.String())
	}
}

func TestGuardedSimilarityFallback(t *testing.T) {
	var log strings.Builder
	g := &GuardedSimilarity{
		Inner: SimilarityFunc(func(ctx context.Context, a, b string) (float64, error) {
			return 0, errors.New("backend down")
		}),
		Policy: Policy{SimilarityFallback: 1.0, Log: &log},
	}

	sim, err := g.Similarity(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("Similarity: %v", err)
	}
	// the conservative fallback treats an unscreened pair as redundant
	if sim != 1.0 {
		t.Errorf("sim = %v, want the 1.0 fallback", sim)
	}
	if !strings.Contains(log.String(), "oracle fallback") {
		t.Errorf("fallback not logged: %q", log.String())
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.EntailmentFallback != 0.0 {
		t.Errorf("EntailmentFallback = %v, want 0.0", p.EntailmentFallback)
	}
	if p.SimilarityFallback != 1.0 {
		t.Errorf("SimilarityFallback = %v, want 1.0", p.SimilarityFallback)
	}
	if p.FailFast {
		t.Error("FailFast should default to false")
	}
}

func TestEmbeddingSimilarity(t *testing.T) {
	emb := embedderFunc(func(ctx context.Context, claim string) ([]float64, error) {
		if claim == "a" {
			return []float64{1, 0}, nil
		}
		return []float64{0, 1}, nil
	})

	s := &EmbeddingSimilarity{Embedder: emb}
	sim, err := s.Similarity(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("Similarity: %v", err)
	}
	if sim != 0 {
		t.Errorf("sim = %v, want 0", sim)
	}
}

type embedderFunc func(ctx context.Context, claim string) ([]float64, error)

func (f embedderFunc) Embed(ctx context.Context, claim string) ([]float64, error) {
	return f(ctx, claim)
}
