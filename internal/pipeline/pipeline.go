package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/CogNetSys/dndscore/internal/atomic"
	"github.com/CogNetSys/dndscore/internal/cache"
	"github.com/CogNetSys/dndscore/internal/coref"
	"github.com/CogNetSys/dndscore/internal/coreset"
	"github.com/CogNetSys/dndscore/internal/extract"
	"github.com/CogNetSys/dndscore/internal/ingest"
	"github.com/CogNetSys/dndscore/internal/model"
	"github.com/CogNetSys/dndscore/internal/oracle"
	"github.com/CogNetSys/dndscore/internal/parse"
	"github.com/CogNetSys/dndscore/internal/score"
	"github.com/CogNetSys/dndscore/internal/worker"
)

// Pipeline orchestrates the complete analysis: ingest → coreference →
// parse → fact extraction → atomicity splitting → informativeness scoring →
// core-set selection
type Pipeline struct {
	fetcher   *ingest.Fetcher
	resolver  coref.Resolver
	parser    parse.Provider
	extractor *extract.FactExtractor
	splitter  *atomic.Splitter
	scorer    *score.Scorer
	selector  *coreset.Selector
	renderer  *Renderer
	bleached  []string
	config    *model.Config
}

// New assembles a pipeline from explicit collaborators. Oracles and the
// parse provider are injected so tests can run against fixed-answer mocks.
func New(cfg *model.Config, parser parse.Provider, resolver coref.Resolver, entailment oracle.Entailment, embedder oracle.Embedder, bleached []string) (*Pipeline, error) {
	if len(bleached) == 0 {
		return nil, fmt.Errorf("bleached claim set must not be empty")
	}
	if resolver == nil {
		resolver = coref.NoopResolver{}
	}

	policy := oracle.Policy{
		FailFast:           cfg.Oracle.FailFast,
		EntailmentFallback: cfg.Oracle.EntailmentFallback,
		SimilarityFallback: cfg.Oracle.SimilarityFallback,
	}

	hostLimiter := worker.NewLimiter(2, 2)

	return &Pipeline{
		fetcher:   ingest.NewFetcher(cfg.HTTP, hostLimiter),
		resolver:  resolver,
		parser:    parser,
		extractor: extract.NewFactExtractor(),
		splitter:  atomic.NewSplitter(),
		scorer:    score.NewScorer(&oracle.GuardedEntailment{Inner: entailment, Policy: policy}, cfg.Concurrency.OracleWorkers),
		selector:  coreset.NewSelector(embedder, policy),
		renderer:  NewRenderer(cfg.Output.IncludeFooter),
		bleached:  bleached,
		config:    cfg,
	}, nil
}

// NewPipeline builds a pipeline from configuration, wiring the oracle
// stack: provider → rate limit → cache → failure policy.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	if cfg.Parser.BaseURL == "" {
		return nil, fmt.Errorf("parser base URL is required")
	}

	parser := parse.NewHTTPProvider(cfg.Parser.BaseURL, cfg.Parser.Timeout,
		cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
	resolver := coref.NewHTTPResolver(cfg.Parser.BaseURL, cfg.Parser.Timeout,
		cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)

	entailment, embedder, err := buildOracles(cfg)
	if err != nil {
		return nil, err
	}

	bleached, err := LoadBleachedClaims(cfg.Bleached)
	if err != nil {
		return nil, err
	}

	return New(cfg, parser, resolver, entailment, embedder, bleached)
}

// buildOracles constructs the entailment and embedding oracles with rate
// limiting and caching applied
func buildOracles(cfg *model.Config) (oracle.Entailment, oracle.Embedder, error) {
	var entailment oracle.Entailment
	var embedder oracle.Embedder

	switch strings.ToLower(cfg.Oracle.Provider) {
	case "openai":
		o, err := oracle.NewOpenAIOracle(cfg.Oracle)
		if err != nil {
			return nil, nil, err
		}
		entailment, embedder = o, o

	case "nli":
		// entailment from a local NLI server, embeddings still from OpenAI
		entailment = oracle.NewNLIServer(cfg.Oracle.BaseURL, cfg.Oracle.Timeout,
			cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
		o, err := oracle.NewOpenAIOracle(cfg.Oracle)
		if err != nil {
			return nil, nil, fmt.Errorf("embedding backend: %w", err)
		}
		embedder = o

	default:
		return nil, nil, fmt.Errorf("unknown oracle provider: %s (supported: openai, nli)", cfg.Oracle.Provider)
	}

	limiter := worker.NewLimiter(cfg.Oracle.RequestsPerSecond, cfg.Oracle.Burst)
	entailment = &oracle.LimitedEntailment{Inner: entailment, Limiter: limiter, Key: "oracle:entail"}
	embedder = &oracle.LimitedEmbedder{Inner: embedder, Limiter: limiter, Key: "oracle:embed"}

	if cfg.Cache.Enabled {
		var store cache.Cache
		if cfg.Cache.Dir != "" {
			store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			store = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
		}
		entailment = &oracle.CachedEntailment{Inner: entailment, Cache: store, TTL: cfg.Cache.MemoryTTL}
		embedder = &oracle.CachedEmbedder{Inner: embedder, Cache: store, TTL: cfg.Cache.MemoryTTL}
	}

	return entailment, embedder, nil
}

// LoadBleachedClaims returns the configured bleached claim set, reading the
// claim file (one claim per line, # comments skipped) when one is set
func LoadBleachedClaims(cfg model.BleachedConfig) ([]string, error) {
	if cfg.File == "" {
		if len(cfg.Claims) == 0 {
			return nil, fmt.Errorf("no bleached claims configured")
		}
		return cfg.Claims, nil
	}

	file, err := os.Open(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("open bleached claims: %w", err)
	}
	defer func() { _ = file.Close() }()

	var claims []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		claims = append(claims, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read bleached claims: %w", err)
	}
	if len(claims) == 0 {
		return nil, fmt.Errorf("bleached claims file %s is empty", cfg.File)
	}
	return claims, nil
}

// AnalyzeURL fetches a page, extracts its visible text and analyzes it
func (p *Pipeline) AnalyzeURL(ctx context.Context, url string) (*model.Report, error) {
	fetched, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	text, err := ingest.VisibleText(fetched.HTML)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	report, err := p.AnalyzeText(ctx, fetched.Subject, fetched.FinalURL, text)
	if err != nil {
		return nil, err
	}
	report.FetchMeta = &fetched.Meta
	return report, nil
}

// AnalyzeText runs the decomposition and selection core over raw text
func (p *Pipeline) AnalyzeText(ctx context.Context, subject, source, text string) (*model.Report, error) {
	verbose := p.config.Output.Verbose

	resolved, err := p.resolver.Resolve(ctx, text)
	if err != nil {
		// degraded, not fatal: unresolved pronouns yield vaguer claims
		fmt.Fprintf(os.Stderr, "Warning: coreference resolution failed, using raw text: %v\n", err)
		resolved = text
	}

	sentences := ingest.SplitSentences(resolved)
	if verbose {
		fmt.Fprintf(os.Stderr, "Split into %d sentences\n", len(sentences))
	}

	var facts []model.Fact
	skipped := 0
	for i, sentence := range sentences {
		tree, err := p.parser.Parse(ctx, sentence)
		if err != nil {
			// parse failure: the sentence yields zero facts, processing continues
			fmt.Fprintf(os.Stderr, "Warning: parse failed for sentence %d: %v\n", i, err)
			skipped++
			continue
		}
		if !tree.HasFiniteRoot() {
			if verbose {
				fmt.Fprintf(os.Stderr, "Skipping sentence %d: no finite-verb clause\n", i)
			}
			skipped++
			continue
		}
		facts = append(facts, p.extractor.Extract(tree, i)...)
	}

	atomicFacts := p.splitter.Split(facts)
	claims := renderClaims(atomicFacts)
	if verbose {
		fmt.Fprintf(os.Stderr, "Extracted %d raw facts, %d atomic claims\n", len(facts), len(claims))
	}

	report := &model.Report{
		Subject:    subject,
		Source:     source,
		AnalyzedAt: time.Now().UTC(),
		Sentences:  sentences,
		Claims:     claims,
		Selected:   []int{},
		Stats: model.Stats{
			Sentences:    len(sentences),
			SkippedSents: skipped,
			RawFacts:     len(facts),
			AtomicClaims: len(claims),
			Tau:          p.config.Selection.Tau,
		},
	}

	if len(claims) == 0 {
		return report, nil
	}

	texts := make([]string, len(claims))
	for i, c := range claims {
		texts[i] = c.Text
	}

	weights, err := p.scorer.Weights(ctx, texts, p.bleached)
	if err != nil {
		return nil, fmt.Errorf("score claims: %w", err)
	}
	for i := range report.Claims {
		report.Claims[i].Weight = weights[i]
	}

	selected, err := p.selector.Select(ctx, texts, weights, p.config.Selection.Tau)
	if err != nil {
		return nil, fmt.Errorf("select core set: %w", err)
	}
	for _, idx := range selected {
		report.Claims[idx].Selected = true
	}

	report.Selected = selected
	report.Stats.SelectedN = len(selected)
	report.Stats.Retention = float64(len(selected)) / float64(len(claims))

	return report, nil
}

// renderClaims renders atomic facts into claims, dropping case-insensitive
// duplicates while keeping first occurrences
func renderClaims(facts []model.Fact) []model.Claim {
	seen := make(map[string]bool)
	var claims []model.Claim
	for _, f := range facts {
		claim := model.NewClaim(f)
		key := strings.ToLower(claim.Text)
		if claim.Text == "" || seen[key] {
			continue
		}
		seen[key] = true
		claims = append(claims, claim)
	}
	return claims
}
