package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CogNetSys/dndscore/internal/model"
	"github.com/CogNetSys/dndscore/internal/pipeline"
)

var (
	checkFile      string
	checkSubject   string
	checkJSONOut   string
	checkMDOut     string
	checkTau       float64
	checkBleached  string
	checkProvider  string
	checkEntModel  string
	checkEmbModel  string
	checkParseURL  string
	checkOracleURL string
	checkFailFast  bool
	checkNoCache   bool
)

// checkCmd analyzes inline text, a file, or stdin
var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Decompose text into atomic claims and select the core set",
	Long: `Decompose text into atomic factual claims, weight each claim by
informativeness and select a non-redundant core set.

Text can be passed as an argument, read from a file with --file, or piped
on stdin:

  dndscore check "Al Pacino is an American actor and was born in New York City."
  dndscore check --file article.txt --json report.json
  cat article.txt | dndscore check --tau 0.4`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "read text from a file")
	checkCmd.Flags().StringVar(&checkSubject, "subject", "", "subject label for the report")
	checkCmd.Flags().StringVar(&checkJSONOut, "json", "", "write JSON report to this path")
	checkCmd.Flags().StringVar(&checkMDOut, "md", "", "write Markdown report to this path")
	checkCmd.Flags().Float64Var(&checkTau, "tau", 0.5, "redundancy threshold in [0,1]")
	checkCmd.Flags().StringVar(&checkBleached, "bleached", "", "file of bleached claims (one per line)")
	checkCmd.Flags().StringVar(&checkProvider, "provider", "openai", "oracle provider: openai or nli")
	checkCmd.Flags().StringVar(&checkEntModel, "entailment-model", "", "entailment model override")
	checkCmd.Flags().StringVar(&checkEmbModel, "embedding-model", "", "embedding model override")
	checkCmd.Flags().StringVar(&checkParseURL, "parser-url", "", "dependency parse server base URL")
	checkCmd.Flags().StringVar(&checkOracleURL, "oracle-url", "", "oracle base URL (NLI server or OpenAI-compatible endpoint)")
	checkCmd.Flags().BoolVar(&checkFailFast, "fail-fast", false, "propagate oracle failures instead of applying fallbacks")
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "disable oracle answer caching")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	text, err := readCheckInput(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("no input text: pass text as an argument, use --file, or pipe stdin")
	}

	cfg := buildConfig()
	applyOracleFlags(cfg, checkProvider, checkEntModel, checkEmbModel, checkParseURL, checkOracleURL, checkTau, checkBleached, checkFailFast, checkNoCache)

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}

	subject := checkSubject
	if subject == "" {
		subject = "text"
	}
	source := "inline"
	if checkFile != "" {
		source = checkFile
	} else if len(args) == 0 {
		source = "stdin"
	}

	report, err := p.AnalyzeText(cmd.Context(), subject, source, text)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	return p.RenderReport(report, checkJSONOut, checkMDOut, verbose)
}

// readCheckInput resolves the input text: argument, then --file, then stdin
func readCheckInput(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	if checkFile != "" {
		data, err := os.ReadFile(checkFile)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}

	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	return "", nil
}

// applyOracleFlags overlays command flags onto the configuration
func applyOracleFlags(cfg *model.Config, provider, entModel, embModel, parseURL, oracleURL string, tau float64, bleached string, failFast, noCache bool) {
	if provider != "" {
		cfg.Oracle.Provider = provider
	}
	if entModel != "" {
		cfg.Oracle.EntailmentModel = entModel
	}
	if embModel != "" {
		cfg.Oracle.EmbeddingModel = embModel
	}
	if parseURL != "" {
		cfg.Parser.BaseURL = parseURL
	}
	if oracleURL != "" {
		cfg.Oracle.BaseURL = oracleURL
	}
	if bleached != "" {
		cfg.Bleached.File = bleached
	}
	cfg.Selection.Tau = tau
	cfg.Oracle.FailFast = failFast
	if noCache {
		cfg.Cache.Enabled = false
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && cfg.Oracle.APIKey == "" {
		cfg.Oracle.APIKey = key
	}
	cfg.Output.Verbose = verbose
}
