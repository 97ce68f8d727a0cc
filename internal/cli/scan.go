package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/egedemirkapi/entity-scanner/internal/model"
	"github.com/egedemirkapi/entity-scanner/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	scanTimeout time.Duration
	httpTimeout time.Duration
	userAgent   string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Scan a company website and check what the model says about it",
	Long: `Scan fetches one company page and:
- Extracts the name, tagline, description and any pricing
- Asks the configured model what it knows about the company
- Asks about pricing when the site publishes any
- Scores the answers against the site and prints a verdict

The JSON payload goes to stdout (or --json); a one-line summary goes to stderr.

Example:
  entity-scanner scan https://example.com
  entity-scanner scan https://example.com --json scan.json --md scan.md
  entity-scanner scan https://example.com --provider openai --model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Output flags
	scanCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (default: stdout)")
	scanCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")

	// HTTP flags
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 2*time.Minute, "overall scan timeout")
	scanCmd.Flags().DurationVar(&httpTimeout, "http-timeout", 0, "website fetch timeout (default from config: 7s)")
	scanCmd.Flags().StringVar(&userAgent, "ua", "", "HTTP User-Agent")
}

// applyHTTPFlags layers per-command HTTP flags over the loaded config
func applyHTTPFlags(c *model.Config) {
	if httpTimeout > 0 {
		c.HTTP.Timeout = httpTimeout
	}
	if userAgent != "" {
		c.HTTP.UserAgent = userAgent
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), scanTimeout)
	defer cancel()

	applyHTTPFlags(&cfg)

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", url)
		fmt.Fprintf(os.Stderr, "Model:    %s/%s\n", cfg.LLM.Provider, displayModel(cfg.LLM.Model))
		fmt.Fprintf(os.Stderr, "Timeout:  %v\n", scanTimeout)
		fmt.Fprintln(os.Stderr)
	}

	scanner, err := newScanner(cfg)
	if err != nil {
		return err
	}

	resp := scanner.Respond(ctx, url)
	renderer := pipeline.NewRenderer()

	// Render outputs
	if outJSON != "" {
		if err := renderer.RenderJSON(resp, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	} else if err := renderer.WriteJSON(os.Stdout, resp); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if outMD != "" && resp.Result != nil {
		if err := renderer.RenderMarkdown(resp.Result, outMD); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
	}

	renderer.WriteSummary(os.Stderr, url, resp)

	if resp.Err != nil {
		return errors.New(resp.Err.Error)
	}
	return nil
}

func displayModel(name string) string {
	if name == "" {
		return "(provider default)"
	}
	return name
}
