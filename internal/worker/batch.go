package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/CogNetSys/dndscore/internal/model"
)

// Analyzer runs the full decomposition and selection pipeline for one URL
type Analyzer interface {
	AnalyzeURL(ctx context.Context, url string) (*model.Report, error)
}

// AnalyzeJob represents one URL analysis job
type AnalyzeJob struct {
	Index    int
	URL      string
	Analyzer Analyzer
}

// Execute executes the analysis job
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	report, err := j.Analyzer.AnalyzeURL(ctx, j.URL)
	return &AnalyzeResult{
		Index:  j.Index,
		URL:    j.URL,
		Report: report,
		Error:  err,
	}
}

// AnalyzeResult represents the result of an analysis job
type AnalyzeResult struct {
	Index  int
	URL    string
	Report *model.Report
	Error  error
}

// GetError returns the error from the analysis
func (r *AnalyzeResult) GetError() error { return r.Error }

// GetIndex returns the job's submission index
func (r *AnalyzeResult) GetIndex() int { return r.Index }

// BatchProcessor processes multiple URLs concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessURLs processes multiple URLs concurrently, returning results in
// input order
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*AnalyzeResult {
	if len(urls) == 0 {
		return []*AnalyzeResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for i, url := range urls {
		pool.Submit(&AnalyzeJob{
			Index:    i,
			URL:      url,
			Analyzer: b.analyzer,
		})
	}

	results := pool.WaitOrdered(len(urls))

	out := make([]*AnalyzeResult, len(results))
	for i, result := range results {
		out[i] = result.(*AnalyzeResult)
	}
	return out
}

// ProcessFile reads URLs from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*AnalyzeResult, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads URLs from a file (one per line), skipping blank
// lines and # comments and dropping duplicates
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
