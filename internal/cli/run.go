package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmaksimov/founderscout/internal/export"
	"github.com/rmaksimov/founderscout/internal/model"
	"github.com/rmaksimov/founderscout/internal/pipeline"
)

var (
	sourcesPath string
	outCSV      string
	outJSON     string
	outText     string
	maxResults  int
	runTimeout  time.Duration
	requestRate float64
	reqDelay    time.Duration
	userAgent   string
	noCache     bool
	noRobots    bool
	headful     bool
	sessionFile string
	refineWith  string
	refineModel string
	validateOut bool
	noSummary   bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process every source in a sources file and export the results",
	Long: `Run fetches each configured directory source in order, extracts
founder/company entries, deduplicates them by organization name, and
writes the merged dataset to the configured outputs.

Sources are processed sequentially so a single browser session (and its
login cookies) serves the whole run. A source that fails to fetch is
logged and skipped; output files are rewritten after every source, so
an interrupted run keeps everything processed so far.

Example:
  founderscout run --sources sources.yaml
  founderscout run --sources sources.yaml --json founders.json --max-results 200
  founderscout run --sources sources.yaml --refine pattern --validate`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&sourcesPath, "sources", "sources.yaml", "sources file (YAML)")

	// Output flags
	runCmd.Flags().StringVar(&outCSV, "csv", "founders.csv", "output CSV path (empty to disable)")
	runCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	runCmd.Flags().StringVar(&outText, "text", "", "output text report path (optional)")
	runCmd.Flags().BoolVar(&noSummary, "no-summary", false, "suppress the terminal summary table")

	// Run shape
	runCmd.Flags().IntVar(&maxResults, "max-results", 0, "stop after this many records (0 = unlimited)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 30*time.Minute, "overall run timeout")

	// Politeness
	runCmd.Flags().Float64Var(&requestRate, "rate", 1, "max requests per second per domain")
	runCmd.Flags().DurationVar(&reqDelay, "delay", 2*time.Second, "fixed delay before each page fetch")
	runCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent override")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the page cache (force fresh fetches)")
	runCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")

	// Browser
	runCmd.Flags().BoolVar(&headful, "headful", false, "run the browser with a visible window")
	runCmd.Flags().StringVar(&sessionFile, "session", "", "browser session snapshot for logged-in sources")

	// Post-processing
	runCmd.Flags().StringVar(&refineWith, "refine", "", "person-name refinement provider (pattern, openai)")
	runCmd.Flags().StringVar(&refineModel, "refine-model", "", "model name for the openai refiner")
	runCmd.Flags().BoolVar(&validateOut, "validate", false, "check extracted contact links with HEAD requests")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	sourceFile, err := model.LoadSources(sourcesPath)
	if err != nil {
		return err
	}

	cfg := model.DefaultConfig()
	cfg.MaxResults = maxResults
	cfg.RateLimiting.RequestsPerSecond = requestRate
	cfg.RateLimiting.RequestDelay = reqDelay
	cfg.Cache.Enabled = !noCache
	cfg.HTTP.RespectRobots = !noRobots
	cfg.Browser.Headless = !headful
	cfg.Browser.SessionFile = sessionFile
	cfg.Output = model.OutputConfig{
		CSVPath:  outCSV,
		JSONPath: outJSON,
		TextPath: outText,
		Verbose:  verbose,
	}
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}

	if refineWith != "" {
		cfg.Refine.Provider = refineWith
		cfg.Refine.Model = refineModel
		if refineWith == "openai" {
			cfg.Refine.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.Refine.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		}
	}
	cfg.Validation.Enabled = validateOut

	if verbose {
		fmt.Fprintf(os.Stderr, "Sources: %d from %s\n", len(sourceFile.Sources), sourcesPath)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n\n", runTimeout)
	}

	p, err := pipeline.New(cfg, sourceFile)
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	result, runErr := p.Run(ctx)
	if result != nil && !noSummary {
		export.PrintSummary(os.Stdout, result.Records)
		fmt.Fprintf(os.Stderr, "\n%d records from %d sources (%d failed, %d filtered) in %v\n",
			len(result.Records), result.Stats.SourcesProcessed, result.Stats.SourcesFailed,
			result.Stats.Filtered, result.Stats.Duration.Round(time.Millisecond))
	}
	if runErr != nil {
		return fmt.Errorf("run aborted: %w", runErr)
	}

	return nil
}
