package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/CogNetSys/dndscore/internal/pipeline"
)

var (
	scanJSONOut   string
	scanMDOut     string
	scanTau       float64
	scanBleached  string
	scanProvider  string
	scanEntModel  string
	scanEmbModel  string
	scanParseURL  string
	scanOracleURL string
	scanFailFast  bool
	scanNoCache   bool
	scanTimeout   time.Duration
	scanUserAgent string
	scanMaxBytes  int64
	scanNoRobots  bool
	scanNoFooter  bool
)

// scanCmd analyzes a single URL
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Fetch a page and decompose its text into atomic claims",
	Long: `Fetch a page, extract its visible text, decompose it into atomic
factual claims and select the informative core set.

Examples:
  dndscore scan https://en.wikipedia.org/wiki/Al_Pacino
  dndscore scan https://example.com/bio --tau 0.4 --json report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanJSONOut, "json", "", "write JSON report to this path")
	scanCmd.Flags().StringVar(&scanMDOut, "md", "", "write Markdown report to this path")
	scanCmd.Flags().Float64Var(&scanTau, "tau", 0.5, "redundancy threshold in [0,1]")
	scanCmd.Flags().StringVar(&scanBleached, "bleached", "", "file of bleached claims (one per line)")
	scanCmd.Flags().StringVar(&scanProvider, "provider", "openai", "oracle provider: openai or nli")
	scanCmd.Flags().StringVar(&scanEntModel, "entailment-model", "", "entailment model override")
	scanCmd.Flags().StringVar(&scanEmbModel, "embedding-model", "", "embedding model override")
	scanCmd.Flags().StringVar(&scanParseURL, "parser-url", "", "dependency parse server base URL")
	scanCmd.Flags().StringVar(&scanOracleURL, "oracle-url", "", "oracle base URL (NLI server or OpenAI-compatible endpoint)")
	scanCmd.Flags().BoolVar(&scanFailFast, "fail-fast", false, "propagate oracle failures instead of applying fallbacks")
	scanCmd.Flags().BoolVar(&scanNoCache, "no-cache", false, "disable oracle answer caching")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 0, "HTTP fetch timeout (0 = config default)")
	scanCmd.Flags().StringVar(&scanUserAgent, "ua", "", "User-Agent override")
	scanCmd.Flags().Int64Var(&scanMaxBytes, "max-bytes", 0, "maximum response body size (0 = config default)")
	scanCmd.Flags().BoolVar(&scanNoRobots, "no-robots", false, "skip robots.txt checks")
	scanCmd.Flags().BoolVar(&scanNoFooter, "no-footer", false, "omit the Markdown report footer")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	url := args[0]

	cfg := buildConfig()
	applyOracleFlags(cfg, scanProvider, scanEntModel, scanEmbModel, scanParseURL, scanOracleURL, scanTau, scanBleached, scanFailFast, scanNoCache)

	if scanTimeout > 0 {
		cfg.HTTP.Timeout = scanTimeout
	}
	if scanUserAgent != "" {
		cfg.HTTP.UserAgent = scanUserAgent
	}
	if scanMaxBytes > 0 {
		cfg.HTTP.MaxBodyBytes = scanMaxBytes
	}
	if scanNoRobots {
		cfg.HTTP.RespectRobots = false
	}
	if scanNoFooter {
		cfg.Output.IncludeFooter = false
	}

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	report, err := p.AnalyzeURL(cmd.Context(), url)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", url, err)
	}

	return p.RenderReport(report, scanJSONOut, scanMDOut, verbose)
}
