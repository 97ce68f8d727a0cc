package extract

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/egedemirkapi/entity-scanner/internal/model"
)

// Field caps, in runes
const (
	MaxCompanyNameLen = 100
	MaxTitleLen       = 100
	MaxDescriptionLen = 300
)

// Fallbacks used when a page offers nothing better
const (
	UnknownCompany     = "Unknown Company"
	NoDescriptionFound = "No description found"
)

// FactExtractor turns a company page into WebFacts
type FactExtractor struct{}

// NewFactExtractor creates a new fact extractor
func NewFactExtractor() *FactExtractor {
	return &FactExtractor{}
}

// Extract parses HTML and derives the company's name, tagline, title and pricing
func (e *FactExtractor) Extract(htmlContent string) (model.WebFacts, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return model.WebFacts{}, fmt.Errorf("parse html: %w", err)
	}

	parts := collectParts(doc)

	og := model.OGData{
		Title:       parts.meta["og:title"],
		Description: parts.meta["og:description"],
		SiteName:    parts.meta["og:site_name"],
	}

	name := firstNonEmpty(
		og.SiteName,
		og.Title,
		beforeDelimiter(parts.title, "|"),
		beforeDelimiter(parts.title, "-"),
		UnknownCompany,
	)

	description := firstNonEmpty(
		og.Description,
		parts.meta["description"],
		parts.meta["twitter:description"],
		NoDescriptionFound,
	)

	facts := model.WebFacts{
		CompanyName: truncate(name, MaxCompanyNameLen),
		Title:       truncate(parts.title, MaxTitleLen),
		Description: truncate(description, MaxDescriptionLen),
		OG:          og,
	}

	if phrase, ok := DetectPricing(parts.body); ok {
		facts.Pricing = &phrase
	}

	return facts, nil
}

// beforeDelimiter returns the trimmed text before the first delimiter
func beforeDelimiter(s, delim string) string {
	before, _, _ := strings.Cut(s, delim)
	return strings.TrimSpace(before)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// truncate caps s at max runes
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
