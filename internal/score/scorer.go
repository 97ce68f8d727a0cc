package score

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/egedemirkapi/entity-scanner/internal/model"
)

// Issue texts reported by the check battery
const (
	IssueNameNotRecognized = "AI does not recognize your company name"
	IssueContentMismatch   = "AI description does not match your website content"
	IssueUncertainty       = "AI expresses uncertainty about your company"
	IssuePricingMismatch   = "AI pricing information may be inaccurate"
)

const startingScore = 100

// Scorer compares extracted website facts against a language model's answers
type Scorer struct {
	rules   model.ScoringConfig
	matcher Matcher
}

// Option configures a Scorer
type Option func(*Scorer)

// WithRules overrides the default scoring rules
func WithRules(rules model.ScoringConfig) Option {
	return func(s *Scorer) {
		s.rules = rules
	}
}

// WithMatcher overrides the default substring matcher
func WithMatcher(m Matcher) Option {
	return func(s *Scorer) {
		if m != nil {
			s.matcher = m
		}
	}
}

// NewScorer creates a new scorer
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		rules:   model.DefaultScoringConfig(),
		matcher: SubstringMatcher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate runs the check battery and produces a verdict.
// It is pure: the same inputs always yield the same verdict.
func (s *Scorer) Evaluate(facts model.WebFacts, answers model.ModelAnswers) model.Verdict {
	general := strings.ToLower(answers.General)

	checks := []model.CheckResult{
		s.checkNameRecognition(facts, general),
		s.checkContentOverlap(facts, general),
		s.checkUncertainty(general),
		s.checkPricing(facts, answers),
	}

	deductions := 0
	var issues []string
	for _, c := range checks {
		if c.Passed || c.Skipped {
			continue
		}
		deductions += c.Deduction
		issues = append(issues, c.Issue)
	}

	confidence := clamp(startingScore-deductions, 0, 100)

	if len(issues) == 0 {
		issues = []string{model.NoIssuesSentinel}
	}

	return model.Verdict{
		Status:     Classify(confidence, s.rules),
		Issues:     issues,
		Confidence: confidence,
		Checks:     checks,
	}
}

// Classify maps a confidence score to a status
func Classify(confidence int, rules model.ScoringConfig) model.Status {
	switch {
	case confidence >= rules.AccurateMin:
		return model.StatusAccurate
	case confidence >= rules.UncertainMin:
		return model.StatusUncertain
	default:
		return model.StatusHallucinating
	}
}

// checkNameRecognition verifies the model's general answer mentions the company
func (s *Scorer) checkNameRecognition(facts model.WebFacts, general string) model.CheckResult {
	name := PrimaryName(facts.CompanyName, s.rules.NameDelimiter)
	// An empty name is a substring of every answer
	found := name == "" || s.matcher.Evidences(general, name)

	result := model.CheckResult{
		Name:   model.CheckNameRecognition,
		Passed: found,
		Data: map[string]interface{}{
			"name":    name,
			"formula": "lower(split(company_name, delimiter)[0]) in lower(answer)",
		},
	}
	if !found {
		result.Deduction = s.rules.NameDeduction
		result.Issue = IssueNameNotRecognized
	}
	return result
}

// checkContentOverlap measures how many description keywords the answer repeats
func (s *Scorer) checkContentOverlap(facts model.WebFacts, general string) model.CheckResult {
	keywords := Keywords(facts.Description, s.rules.KeywordMinLength, s.rules.MaxKeywords)

	matched := 0
	for _, kw := range keywords {
		if s.matcher.Evidences(general, kw) {
			matched++
		}
	}

	// No keywords means nothing on the page can corroborate the answer
	rate := 0.0
	if len(keywords) > 0 {
		rate = float64(matched) / float64(len(keywords))
	}
	passed := len(keywords) > 0 && rate >= s.rules.MinOverlapRate

	result := model.CheckResult{
		Name:   model.CheckContentOverlap,
		Passed: passed,
		Data: map[string]interface{}{
			"keywords": keywords,
			"matched":  matched,
			"rate":     rate,
			"min_rate": s.rules.MinOverlapRate,
			"formula":  "matched_keywords / total_keywords",
		},
	}
	if !passed {
		result.Deduction = s.rules.OverlapDeduction
		result.Issue = IssueContentMismatch
	}
	return result
}

// checkUncertainty looks for hedging phrases in the general answer
func (s *Scorer) checkUncertainty(general string) model.CheckResult {
	var hit string
	for _, phrase := range s.rules.UncertaintyPhrases {
		if s.matcher.Evidences(general, phrase) {
			hit = phrase
			break
		}
	}

	result := model.CheckResult{
		Name:   model.CheckUncertainty,
		Passed: hit == "",
	}
	if hit != "" {
		result.Deduction = s.rules.UncertaintyDeduction
		result.Issue = IssueUncertainty
		result.Data = map[string]interface{}{"phrase": hit}
	}
	return result
}

// checkPricing compares the digits of the scraped price against the pricing answer
func (s *Scorer) checkPricing(facts model.WebFacts, answers model.ModelAnswers) model.CheckResult {
	result := model.CheckResult{Name: model.CheckPricingAccuracy}

	if facts.Pricing == nil || answers.Pricing == nil {
		result.Skipped = true
		return result
	}

	digits := Digits(*facts.Pricing)
	if digits == "" {
		result.Skipped = true
		return result
	}

	found := s.matcher.Evidences(strings.ToLower(*answers.Pricing), digits)
	result.Passed = found
	result.Data = map[string]interface{}{
		"scraped": *facts.Pricing,
		"digits":  digits,
		"formula": "digits(scraped_pricing) in lower(pricing_answer)",
	}
	if !found {
		result.Deduction = s.rules.PricingDeduction
		result.Issue = IssuePricingMismatch
	}
	return result
}

// PrimaryName returns the lower-cased company name before the first delimiter
func PrimaryName(companyName, delimiter string) string {
	name := companyName
	if delimiter != "" {
		name, _, _ = strings.Cut(companyName, delimiter)
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// Keywords returns up to max whitespace-separated tokens of the lower-cased
// text whose rune length exceeds minLen, in order of appearance
func Keywords(text string, minLen, max int) []string {
	var keywords []string
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if max > 0 && len(keywords) >= max {
			break
		}
		if utf8.RuneCountInString(tok) > minLen {
			keywords = append(keywords, tok)
		}
	}
	return keywords
}

// Digits strips every non-digit character from s
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
