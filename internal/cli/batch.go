package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/egedemirkapi/entity-scanner/internal/model"
	"github.com/egedemirkapi/entity-scanner/internal/pipeline"
	"github.com/egedemirkapi/entity-scanner/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Scan multiple company websites from a file in parallel",
	Long: `Batch processes multiple URLs concurrently:
- Read URLs from input file (one per line, # starts a comment)
- Scan them with a bounded worker pool
- Requests to the same host are rate limited
- Write a JSON and a Markdown report for each URL

Example:
  entity-scanner batch urls.txt
  entity-scanner batch urls.txt --concurrency 8 --output-dir ./reports
  entity-scanner batch urls.txt --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	// Concurrency flags
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config: 4)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./entity-scanner-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().DurationVar(&httpTimeout, "http-timeout", 0, "website fetch timeout (default from config: 7s)")
	batchCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	applyHTTPFlags(&cfg)
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Entity Scanner Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "  Model:        %s/%s\n", cfg.LLM.Provider, displayModel(cfg.LLM.Model))
	fmt.Fprintf(os.Stderr, "\n")

	// Fail on a missing credential before touching the output directory
	scanner, err := newScanner(cfg)
	if err != nil {
		return err
	}

	// Create output directory
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(scanner, cfg.Concurrency.Workers)

	fmt.Fprintf(os.Stderr, "⚙️  Scanning URLs from %s...\n\n", file)
	outcomes, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	summary := writeBatchReports(outcomes, outputDir, pipeline.NewRenderer())

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:          %d URLs\n", len(outcomes))
	fmt.Fprintf(os.Stderr, "  Accurate:       %d\n", summary.byStatus[model.StatusAccurate])
	fmt.Fprintf(os.Stderr, "  Uncertain:      %d\n", summary.byStatus[model.StatusUncertain])
	fmt.Fprintf(os.Stderr, "  Hallucinating:  %d\n", summary.byStatus[model.StatusHallucinating])
	fmt.Fprintf(os.Stderr, "  Failures:       %d\n", summary.failures)
	fmt.Fprintf(os.Stderr, "  Output:         %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

type batchSummary struct {
	byStatus map[model.Status]int
	failures int
}

// writeBatchReports writes one JSON payload per outcome, plus Markdown for
// successes, and prints a progress line for each.
func writeBatchReports(outcomes []*worker.ScanOutcome, dir string, renderer *pipeline.Renderer) batchSummary {
	summary := batchSummary{byStatus: make(map[model.Status]int)}

	for i, outcome := range outcomes {
		slug := fmt.Sprintf("%03d-%s", i+1, sanitizeFilename(outcome.URL))
		jsonPath := filepath.Join(dir, slug+".json")

		if outcome.Error != nil {
			summary.failures++
			resp := model.Response{Err: &model.ErrorResult{Error: pipeline.UserMessage(outcome.Error)}}
			if err := renderer.RenderJSON(resp, jsonPath); err != nil {
				fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", outcome.URL, err)
			}
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", outcome.URL, resp.Err.Error)
			continue
		}

		result := outcome.Result
		summary.byStatus[result.Status]++

		if err := renderer.RenderJSON(model.Response{Result: result}, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", outcome.URL, err)
			continue
		}
		if err := renderer.RenderMarkdown(result, filepath.Join(dir, slug+".md")); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", outcome.URL, err)
			continue
		}

		fmt.Fprintf(os.Stderr, "✓ %s: %s (confidence %d/100)\n", outcome.URL, result.Status, result.Confidence)
	}

	return summary
}

// sanitizeFilename turns a URL into a safe file name: host plus path, with
// every character outside [a-z0-9.-] replaced by '_'.
func sanitizeFilename(raw string) string {
	s := raw
	if u, err := url.Parse(strings.TrimSpace(raw)); err == nil && u.Host != "" {
		s = u.Host + u.Path
	}
	s = strings.ToLower(strings.Trim(s, "/"))

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	s = b.String()

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "scan"
	}

	return s
}
