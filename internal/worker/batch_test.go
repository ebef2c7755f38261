package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CogNetSys/dndscore/internal/model"
)

// stubAnalyzer returns a minimal report per URL, failing for URLs that
// contain "bad"
type stubAnalyzer struct{}

func (stubAnalyzer) AnalyzeURL(ctx context.Context, url string) (*model.Report, error) {
	if strings.Contains(url, "bad") {
		return nil, errors.New("fetch failed")
	}
	return &model.Report{Source: url}, nil
}

func TestBatchProcessorOrdering(t *testing.T) {
	urls := []string{
		"https://example.com/a",
		"https://example.com/bad",
		"https://example.com/c",
	}

	b := NewBatchProcessor(stubAnalyzer{}, 3)
	results := b.ProcessURLs(context.Background(), urls)

	if len(results) != len(urls) {
		t.Fatalf("expected %d results, got %d", len(urls), len(results))
	}
	for i, result := range results {
		if result.URL != urls[i] {
			t.Errorf("result %d is for %s, want %s", i, result.URL, urls[i])
		}
	}
	if results[0].Error != nil || results[2].Error != nil {
		t.Error("good URLs reported errors")
	}
	if results[1].Error == nil {
		t.Error("bad URL reported no error")
	}
	if results[0].Report == nil || results[0].Report.Source != urls[0] {
		t.Errorf("result 0 report = %+v", results[0].Report)
	}
}

func TestBatchProcessorEmpty(t *testing.T) {
	b := NewBatchProcessor(stubAnalyzer{}, 2)
	if results := b.ProcessURLs(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestReadURLsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := `# sources to check
https://example.com/a

https://example.com/b
https://example.com/a
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	urls, err := ReadURLsFromFile(path)
	if err != nil {
		t.Fatalf("ReadURLsFromFile: %v", err)
	}

	want := []string{"https://example.com/a", "https://example.com/b"}
	if len(urls) != len(want) {
		t.Fatalf("urls = %v, want %v", urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestReadURLsFromFileMissing(t *testing.T) {
	if _, err := ReadURLsFromFile("/nonexistent/urls.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBatchProcessorProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte("https://example.com/a\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	b := NewBatchProcessor(stubAnalyzer{}, 1)
	results, err := b.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if len(results) != 1 || results[0].Error != nil {
		t.Errorf("results = %+v", results)
	}
}
