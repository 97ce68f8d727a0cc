package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/egedemirkapi/entity-scanner/internal/model"
)

// Renderer writes scan payloads as JSON, Markdown and terminal summaries
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// WriteJSON writes the flat payload, indented
func (r *Renderer) WriteJSON(w io.Writer, resp model.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// RenderJSON writes the payload to a file
func (r *Renderer) RenderJSON(resp model.Response, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return r.WriteJSON(w, resp)
	})
}

// RenderMarkdown writes the Markdown report to a file
func (r *Renderer) RenderMarkdown(result *model.ScanResult, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return r.WriteMarkdown(w, result)
	})
}

// WriteMarkdown writes a human-readable report of a successful scan
func (r *Renderer) WriteMarkdown(w io.Writer, result *model.ScanResult) error {
	if result == nil {
		return fmt.Errorf("no scan result to render")
	}

	md := markdown.NewMarkdown(w)

	md.H1("Entity Scan: " + result.CompanyName)
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", cell(result.SourceURL)},
			{"Scanned At", result.ScrapedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", statusBadge(result.Status)},
			{"Confidence", strconv.Itoa(result.Confidence) + "/100"},
		},
	})
	md.PlainText("")

	writeAlert(md, result)

	md.H2("Issues")
	md.PlainText("")
	md.BulletList(result.Issues...)
	md.PlainText("")

	md.H2("Website")
	md.PlainText("")
	pricing := "-"
	if result.GroundTruth.Pricing != nil {
		pricing = *result.GroundTruth.Pricing
	}
	md.Table(markdown.TableSet{
		Header: []string{"Field", "Value"},
		Rows: [][]string{
			{"Title", cell(result.GroundTruth.Title)},
			{"Tagline", cell(result.GroundTruth.Tagline)},
			{"Pricing", cell(pricing)},
		},
	})
	md.PlainText("")

	md.H2("Model Answers")
	md.PlainText("")
	md.Details("General", result.AIResponse)
	if result.AIPricingResponse != nil {
		md.Details("Pricing", *result.AIPricingResponse)
	}
	md.PlainText("")

	if len(result.Checks) > 0 {
		md.H2("Checks")
		md.PlainText("")
		rows := make([][]string, len(result.Checks))
		for i, c := range result.Checks {
			issue := c.Issue
			if issue == "" {
				issue = "-"
			}
			rows[i] = []string{string(c.Name), checkOutcome(c), "-" + strconv.Itoa(c.Deduction), cell(issue)}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Check", "Result", "Deduction", "Issue"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by entity-scanner*")

	return md.Build()
}

// WriteSummary prints a short verdict for terminals
func (r *Renderer) WriteSummary(w io.Writer, rawURL string, resp model.Response) {
	if resp.Failed() {
		_, _ = fmt.Fprintf(w, "✗ %s\n  Error: %s\n", rawURL, resp.Err.Error)
		return
	}

	res := resp.Result
	_, _ = fmt.Fprintf(w, "%s %s: %s (confidence %d/100)\n", statusMark(res.Status), res.CompanyName, res.Status, res.Confidence)
	for _, issue := range res.Issues {
		_, _ = fmt.Fprintf(w, "  - %s\n", issue)
	}
}

func writeAlert(md *markdown.Markdown, result *model.ScanResult) {
	switch result.Status {
	case model.StatusHallucinating:
		md.Cautionf("The model's description of %s diverges from the website (confidence %d).", result.CompanyName, result.Confidence)
	case model.StatusUncertain:
		md.Warningf("The model is only partly consistent with the website (confidence %d).", result.Confidence)
	default:
		md.Tip("The model's description matches the website.")
	}
	md.PlainText("")
}

func statusBadge(s model.Status) string {
	return statusMark(s) + " " + string(s)
}

func statusMark(s model.Status) string {
	switch s {
	case model.StatusAccurate:
		return "✅"
	case model.StatusUncertain:
		return "⚠️"
	default:
		return "❌"
	}
}

func checkOutcome(c model.CheckResult) string {
	switch {
	case c.Skipped:
		return "skipped"
	case c.Passed:
		return "passed"
	default:
		return "failed"
	}
}

// cell makes s safe inside a Markdown table
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
