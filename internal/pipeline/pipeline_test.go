package pipeline

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CogNetSys/dndscore/internal/model"
	"github.com/CogNetSys/dndscore/internal/oracle"
	"github.com/CogNetSys/dndscore/internal/parse"
)

// fixtureParser serves canned dependency trees keyed by sentence text
type fixtureParser struct {
	trees map[string][]parse.Token
}

func (f *fixtureParser) Parse(ctx context.Context, sentence string) (*parse.Tree, error) {
	tokens, ok := f.trees[sentence]
	if !ok {
		return nil, errors.New("no fixture for sentence")
	}
	return parse.NewTree(tokens)
}

func (f *fixtureParser) IsAvailable(ctx context.Context) bool { return true }

// entailmentByHypothesis ignores the premise and answers per hypothesis,
// defaulting to full entailment (weight 0)
type entailmentByHypothesis map[string]float64

func (e entailmentByHypothesis) Entails(ctx context.Context, premise, hypothesis string) (float64, error) {
	if p, ok := e[hypothesis]; ok {
		return p, nil
	}
	return 1.0, nil
}

type fixedEmbedder map[string][]float64

func (f fixedEmbedder) Embed(ctx context.Context, claim string) ([]float64, error) {
	vec, ok := f[claim]
	if !ok {
		return nil, errors.New("no vector for claim")
	}
	return vec, nil
}

func pacinoTokens() []parse.Token {
	return []parse.Token{
		{Text: "Al", Pos: "PROPN", Dep: "compound", Head: 1},
		{Text: "Pacino", Pos: "PROPN", Dep: "nsubj", Head: 2},
		{Text: "is", Pos: "AUX", Dep: "ROOT", Head: -1},
		{Text: "an", Pos: "DET", Dep: "det", Head: 5},
		{Text: "American", Pos: "ADJ", Dep: "amod", Head: 5},
		{Text: "actor", Pos: "NOUN", Dep: "attr", Head: 2},
		{Text: "and", Pos: "CCONJ", Dep: "cc", Head: 2},
		{Text: "was", Pos: "AUX", Dep: "auxpass", Head: 8},
		{Text: "born", Pos: "VERB", Dep: "conj", Head: 2},
		{Text: "in", Pos: "ADP", Dep: "prep", Head: 8},
		{Text: "New", Pos: "PROPN", Dep: "compound", Head: 12},
		{Text: "York", Pos: "PROPN", Dep: "compound", Head: 12},
		{Text: "City", Pos: "PROPN", Dep: "pobj", Head: 9},
		{Text: ".", Pos: "PUNCT", Dep: "punct", Head: 2},
	}
}

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Output.IncludeFooter = false
	return cfg
}

func TestAnalyzeTextEndToEnd(t *testing.T) {
	sentence := "Al Pacino is an American actor and was born in New York City."
	parser := &fixtureParser{trees: map[string][]parse.Token{
		sentence: pacinoTokens(),
	}}

	claim1 := "Al Pacino is an American actor"
	claim2 := "Al Pacino was born In New York City"

	entailment := entailmentByHypothesis{
		claim1: 0.1,
		claim2: 0.2,
	}
	embedder := fixedEmbedder{
		claim1: {1, 0},
		claim2: {0.3, 0.954},
	}

	p, err := New(testConfig(), parser, nil, entailment, embedder, []string{"Someone is a person."})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	report, err := p.AnalyzeText(context.Background(), "Al Pacino", "test", sentence)
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}

	if len(report.Claims) != 2 {
		t.Fatalf("claims = %+v, want 2", report.Claims)
	}
	if report.Claims[0].Text != claim1 {
		t.Errorf("claim 0 = %q, want %q", report.Claims[0].Text, claim1)
	}
	if report.Claims[1].Text != claim2 {
		t.Errorf("claim 1 = %q, want %q", report.Claims[1].Text, claim2)
	}

	if got, want := report.Claims[0].Weight, -math.Log(0.1); math.Abs(got-want) > 1e-9 {
		t.Errorf("weight 0 = %v, want %v", got, want)
	}
	if got, want := report.Claims[1].Weight, -math.Log(0.2); math.Abs(got-want) > 1e-9 {
		t.Errorf("weight 1 = %v, want %v", got, want)
	}

	// both claims are dissimilar enough for tau=0.5; the heavier one leads
	if len(report.Selected) != 2 || report.Selected[0] != 0 || report.Selected[1] != 1 {
		t.Errorf("selected = %v, want [0 1]", report.Selected)
	}
	for i, c := range report.Claims {
		if !c.Selected {
			t.Errorf("claim %d not marked selected", i)
		}
	}

	if report.Stats.AtomicClaims != 2 || report.Stats.SelectedN != 2 {
		t.Errorf("stats = %+v", report.Stats)
	}
	if math.Abs(report.Stats.Retention-1.0) > 1e-9 {
		t.Errorf("retention = %v, want 1.0", report.Stats.Retention)
	}
}

func TestAnalyzeTextRedundancySuppression(t *testing.T) {
	sentence := "Al Pacino is an American actor and was born in New York City."
	parser := &fixtureParser{trees: map[string][]parse.Token{
		sentence: pacinoTokens(),
	}}

	claim1 := "Al Pacino is an American actor"
	claim2 := "Al Pacino was born In New York City"

	entailment := entailmentByHypothesis{claim1: 0.1, claim2: 0.2}
	// near-identical vectors: the lighter claim is suppressed
	embedder := fixedEmbedder{
		claim1: {1, 0},
		claim2: {1, 0.01},
	}

	p, err := New(testConfig(), parser, nil, entailment, embedder, []string{"Someone is a person."})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	report, err := p.AnalyzeText(context.Background(), "Al Pacino", "test", sentence)
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}

	if len(report.Selected) != 1 || report.Selected[0] != 0 {
		t.Errorf("selected = %v, want [0]", report.Selected)
	}
	if report.Claims[1].Selected {
		t.Error("suppressed claim marked selected")
	}
}

func TestAnalyzeTextSkipsUnparseableSentences(t *testing.T) {
	good := "Al Pacino is an American actor and was born in New York City."
	parser := &fixtureParser{trees: map[string][]parse.Token{
		good: pacinoTokens(),
		// "Navigation menu items." parses to a non-finite tree
		"Navigation menu items.": {
			{Text: "Navigation", Pos: "NOUN", Dep: "compound", Head: 2},
			{Text: "menu", Pos: "NOUN", Dep: "compound", Head: 2},
			{Text: "items", Pos: "NOUN", Dep: "ROOT", Head: -1},
			{Text: ".", Pos: "PUNCT", Dep: "punct", Head: 2},
		},
	}}

	entailment := entailmentByHypothesis{}
	embedder := fixedEmbedder{
		"Al Pacino is an American actor":      {1, 0},
		"Al Pacino was born In New York City": {0, 1},
	}

	p, err := New(testConfig(), parser, nil, entailment, embedder, []string{"bleached"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	text := "Navigation menu items. This sentence has no fixture tree. " + good
	report, err := p.AnalyzeText(context.Background(), "Al Pacino", "test", text)
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}

	if report.Stats.Sentences != 3 {
		t.Errorf("sentences = %d, want 3", report.Stats.Sentences)
	}
	// one non-finite tree plus one parse failure
	if report.Stats.SkippedSents != 2 {
		t.Errorf("skipped = %d, want 2", report.Stats.SkippedSents)
	}
	if len(report.Claims) != 2 {
		t.Errorf("claims = %+v", report.Claims)
	}
	// claims carry the index of their source sentence
	for i, c := range report.Claims {
		if c.Sentence != 2 {
			t.Errorf("claim %d sentence = %d, want 2", i, c.Sentence)
		}
	}
}

// erroringOracles fail the test if the pipeline consults them
type erroringEntailment struct{ t *testing.T }

func (e erroringEntailment) Entails(ctx context.Context, premise, hypothesis string) (float64, error) {
	e.t.Error("entailment oracle consulted with no claims")
	return 0, errors.New("should not be called")
}

type erroringEmbedder struct{ t *testing.T }

func (e erroringEmbedder) Embed(ctx context.Context, claim string) ([]float64, error) {
	e.t.Error("embedder consulted with no claims")
	return nil, errors.New("should not be called")
}

func TestAnalyzeTextNoClaims(t *testing.T) {
	parser := &fixtureParser{trees: map[string][]parse.Token{}}

	p, err := New(testConfig(), parser, nil, erroringEntailment{t}, erroringEmbedder{t}, []string{"bleached"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	report, err := p.AnalyzeText(context.Background(), "nothing", "test", "Unparseable gibberish here.")
	if err != nil {
		t.Fatalf("AnalyzeText: %v", err)
	}

	if len(report.Claims) != 0 {
		t.Errorf("claims = %+v", report.Claims)
	}
	if report.Selected == nil || len(report.Selected) != 0 {
		t.Errorf("selected = %v, want empty non-nil", report.Selected)
	}
}

func TestNewRequiresBleachedClaims(t *testing.T) {
	parser := &fixtureParser{}
	if _, err := New(testConfig(), parser, nil, entailmentByHypothesis{}, fixedEmbedder{}, nil); err == nil {
		t.Error("expected error for empty bleached set")
	}
}

func TestLoadBleachedClaimsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bleached.txt")
	content := `# generic claims
Someone is a person.

Something happened.
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	claims, err := LoadBleachedClaims(model.BleachedConfig{File: path})
	if err != nil {
		t.Fatalf("LoadBleachedClaims: %v", err)
	}
	if len(claims) != 2 || claims[0] != "Someone is a person." || claims[1] != "Something happened." {
		t.Errorf("claims = %v", claims)
	}
}

func TestLoadBleachedClaimsInline(t *testing.T) {
	claims, err := LoadBleachedClaims(model.BleachedConfig{Claims: []string{"Something exists."}})
	if err != nil {
		t.Fatalf("LoadBleachedClaims: %v", err)
	}
	if len(claims) != 1 {
		t.Errorf("claims = %v", claims)
	}
}

func TestLoadBleachedClaimsEmpty(t *testing.T) {
	if _, err := LoadBleachedClaims(model.BleachedConfig{}); err == nil {
		t.Error("expected error with no claims configured")
	}

	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("# only comments\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadBleachedClaims(model.BleachedConfig{File: path}); err == nil {
		t.Error("expected error for empty claims file")
	}
}

func TestAnalyzeTextFailFast(t *testing.T) {
	sentence := "Al Pacino is an American actor and was born in New York City."
	parser := &fixtureParser{trees: map[string][]parse.Token{
		sentence: pacinoTokens(),
	}}

	failing := oracle.EntailsFunc(func(ctx context.Context, premise, hypothesis string) (float64, error) {
		return 0, errors.New("backend down")
	})

	cfg := testConfig()
	cfg.Oracle.FailFast = true

	p, err := New(cfg, parser, nil, failing, fixedEmbedder{}, []string{"bleached"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := p.AnalyzeText(context.Background(), "Al Pacino", "test", sentence); err == nil {
		t.Error("expected oracle failure to abort in fail-fast mode")
	}
}

func TestRenderReportFiles(t *testing.T) {
	dir := t.TempDir()
	report := &model.Report{
		Subject: "Al Pacino",
		Source:  "test",
		Claims: []model.Claim{
			{Text: "Al Pacino is an American actor", Weight: 2.303, Selected: true},
			{Text: "Al Pacino was born In New York City", Weight: 1.609, Selected: true},
		},
		Selected: []int{0, 1},
		Stats:    model.Stats{AtomicClaims: 2, SelectedN: 2, Retention: 1.0, Tau: 0.5},
	}

	r := NewRenderer(true)

	jsonPath := filepath.Join(dir, "report.json")
	if err := r.RenderJSON(report, jsonPath); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read JSON: %v", err)
	}
	if !strings.Contains(string(data), "Al Pacino is an American actor") {
		t.Errorf("JSON missing claim text")
	}

	mdPath := filepath.Join(dir, "report.md")
	if err := r.RenderMarkdown(report, mdPath); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read Markdown: %v", err)
	}
	if !strings.Contains(string(md), "## Selected Core Set") {
		t.Errorf("Markdown missing core set section")
	}
	if !strings.Contains(string(md), "[x]") {
		t.Errorf("Markdown missing selection markers")
	}
}
