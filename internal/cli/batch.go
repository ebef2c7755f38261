package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CogNetSys/dndscore/internal/pipeline"
	"github.com/CogNetSys/dndscore/internal/worker"
)

var (
	batchConcurrency int
	batchOutputDir   string
	batchTau         float64
	batchBleached    string
	batchProvider    string
	batchParseURL    string
	batchOracleURL   string
	batchFailFast    bool
	batchNoCache     bool
)

// batchCmd analyzes a file of URLs concurrently
var batchCmd = &cobra.Command{
	Use:   "batch <url-file>",
	Short: "Analyze multiple URLs from a file",
	Long: `Analyze multiple URLs concurrently. The file lists one URL per line;
blank lines and # comments are skipped. Per-URL JSON and Markdown reports
are written under --output-dir.

Example:
  dndscore batch urls.txt --output-dir reports --concurrency 4`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "number of concurrent analyses (0 = config default)")
	batchCmd.Flags().StringVarP(&batchOutputDir, "output-dir", "o", "reports", "directory for per-URL reports")
	batchCmd.Flags().Float64Var(&batchTau, "tau", 0.5, "redundancy threshold in [0,1]")
	batchCmd.Flags().StringVar(&batchBleached, "bleached", "", "file of bleached claims (one per line)")
	batchCmd.Flags().StringVar(&batchProvider, "provider", "openai", "oracle provider: openai or nli")
	batchCmd.Flags().StringVar(&batchParseURL, "parser-url", "", "dependency parse server base URL")
	batchCmd.Flags().StringVar(&batchOracleURL, "oracle-url", "", "oracle base URL (NLI server or OpenAI-compatible endpoint)")
	batchCmd.Flags().BoolVar(&batchFailFast, "fail-fast", false, "propagate oracle failures instead of applying fallbacks")
	batchCmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "disable oracle answer caching")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	applyOracleFlags(cfg, batchProvider, "", "", batchParseURL, batchOracleURL, batchTau, batchBleached, batchFailFast, batchNoCache)

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = cfg.Concurrency.BatchWorkers
	}

	if err := os.MkdirAll(batchOutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	processor := worker.NewBatchProcessor(p, concurrency)
	results, err := processor.ProcessFile(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		if result.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.URL, result.Error)
			continue
		}

		base := reportBasename(result.URL, result.Index)
		jsonPath := filepath.Join(batchOutputDir, base+".json")
		mdPath := filepath.Join(batchOutputDir, base+".md")

		if err := p.RenderReport(result.Report, jsonPath, mdPath, false); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.URL, err)
			continue
		}

		fmt.Printf("✓ %s → %s claims=%d selected=%d\n",
			result.URL, base, result.Report.Stats.AtomicClaims, result.Report.Stats.SelectedN)
	}

	fmt.Printf("\nProcessed %d URLs (%d failed)\n", len(results), failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(results))
	}
	return nil
}

// reportBasename derives a filesystem-safe name for a URL's report files
func reportBasename(rawURL string, index int) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Sprintf("report-%03d", index)
	}

	name := parsed.Host + parsed.Path
	name = strings.Trim(name, "/")
	replacer := strings.NewReplacer("/", "_", ":", "_", "?", "_", "&", "_", "=", "_", "%", "_")
	name = replacer.Replace(name)
	if name == "" {
		return fmt.Sprintf("report-%03d", index)
	}
	if len(name) > 100 {
		name = name[:100]
	}
	return name
}
