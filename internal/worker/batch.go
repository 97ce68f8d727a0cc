package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/egedemirkapi/entity-scanner/internal/model"
)

// Scanner defines the interface for scanning a URL
type Scanner interface {
	ScanURL(ctx context.Context, url string) (*model.ScanResult, error)
}

// ScanJob represents a single company-page scan
type ScanJob struct {
	Index   int
	URL     string
	Scanner Scanner
}

// Execute executes the scan job
func (j *ScanJob) Execute(ctx context.Context) *ScanOutcome {
	result, err := j.Scanner.ScanURL(ctx, j.URL)
	return &ScanOutcome{
		Index:  j.Index,
		URL:    j.URL,
		Result: result,
		Error:  err,
	}
}

// ScanOutcome is the result of one scan job; exactly one of Result and Error is set
type ScanOutcome struct {
	Index  int
	URL    string
	Result *model.ScanResult
	Error  error
}

// BatchProcessor scans many independent URLs concurrently
type BatchProcessor struct {
	scanner     Scanner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(scanner Scanner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		scanner:     scanner,
		concurrency: concurrency,
	}
}

// ProcessURLs scans every URL and returns outcomes in input order
func (b *BatchProcessor) ProcessURLs(ctx context.Context, urls []string) []*ScanOutcome {
	if len(urls) == 0 {
		return []*ScanOutcome{}
	}

	jobs := make([]Job[*ScanOutcome], len(urls))
	for i, url := range urls {
		jobs[i] = &ScanJob{
			Index:   i,
			URL:     url,
			Scanner: b.scanner,
		}
	}

	pool := NewPool[*ScanOutcome](ctx, b.concurrency)
	outcomes := pool.Run(jobs)

	// Jobs skipped because ctx ended still get an outcome
	seen := make(map[int]bool, len(outcomes))
	for _, o := range outcomes {
		seen[o.Index] = true
	}
	for i, url := range urls {
		if !seen[i] {
			err := ctx.Err()
			if err == nil {
				err = errors.New("scan not started")
			}
			outcomes = append(outcomes, &ScanOutcome{Index: i, URL: url, Error: err})
		}
	}

	sort.Slice(outcomes, func(i, j int) bool {
		return outcomes[i].Index < outcomes[j].Index
	})

	return outcomes
}

// ProcessFile reads URLs from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ScanOutcome, error) {
	urls, err := ReadURLsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read URLs: %w", err)
	}

	return b.ProcessURLs(ctx, urls), nil
}

// ReadURLsFromFile reads URLs from a file (one per line)
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

		// Skip empty lines and comments
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
