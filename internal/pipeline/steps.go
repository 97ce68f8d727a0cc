package pipeline

import (
	"context"
	"net/url"
	"time"

	"github.com/egedemirkapi/entity-scanner/internal/extract"
	"github.com/egedemirkapi/entity-scanner/internal/llm"
	"github.com/egedemirkapi/entity-scanner/internal/model"
	"github.com/egedemirkapi/entity-scanner/internal/score"
	"github.com/egedemirkapi/entity-scanner/internal/validate"
)

// Step names, also used as metric labels
const (
	StepValidate     = "validate"
	StepExtract      = "extract"
	StepQueryGeneral = "query_general"
	StepQueryPricing = "query_pricing"
	StepScore        = "score"
	StepAssemble     = "assemble"
)

// Step is one stage of a scan. Steps run in order and each reads what the
// earlier ones left in the State; the first error ends the scan.
type Step interface {
	Do(ctx context.Context, state *State) error
	Name() string
}

// State accumulates the intermediate values of one scan
type State struct {
	ScanID  string
	RawURL  string
	URL     *url.URL
	Page    *FetchResult
	Facts   model.WebFacts
	Answers model.ModelAnswers
	Verdict model.Verdict
	Result  *model.ScanResult
}

// ValidateStep rejects malformed and internal URLs before any network call
type ValidateStep struct {
	validator *validate.URLValidator
}

// NewValidateStep creates the validation step
func NewValidateStep(v *validate.URLValidator) *ValidateStep {
	return &ValidateStep{validator: v}
}

// Name returns the step name
func (s *ValidateStep) Name() string { return StepValidate }

// Do parses and checks the raw URL
func (s *ValidateStep) Do(ctx context.Context, state *State) error {
	u, err := s.validator.Validate(state.RawURL)
	if err != nil {
		return err
	}
	state.URL = u
	return nil
}

// ExtractStep fetches the page and extracts its facts
type ExtractStep struct {
	fetcher   *Fetcher
	extractor *extract.FactExtractor
}

// NewExtractStep creates the extraction step
func NewExtractStep(f *Fetcher, e *extract.FactExtractor) *ExtractStep {
	return &ExtractStep{fetcher: f, extractor: e}
}

// Name returns the step name
func (s *ExtractStep) Name() string { return StepExtract }

// Do fetches the validated URL and fills in the web facts
func (s *ExtractStep) Do(ctx context.Context, state *State) error {
	page, err := s.fetcher.Fetch(ctx, state.URL.String())
	if err != nil {
		return err
	}
	state.Page = page

	facts, err := s.extractor.Extract(page.HTML)
	if err != nil {
		return &ScrapeError{Err: err}
	}
	state.Facts = facts
	return nil
}

// GeneralQueryStep asks the model what it knows about the company
type GeneralQueryStep struct {
	client *llm.Client
}

// NewGeneralQueryStep creates the general query step
func NewGeneralQueryStep(c *llm.Client) *GeneralQueryStep {
	return &GeneralQueryStep{client: c}
}

// Name returns the step name
func (s *GeneralQueryStep) Name() string { return StepQueryGeneral }

// Do queries the model with the extracted company name
func (s *GeneralQueryStep) Do(ctx context.Context, state *State) error {
	answer, err := s.client.QueryGeneral(ctx, state.Facts.CompanyName)
	if err != nil {
		return err
	}
	state.Answers.General = answer
	return nil
}

// PricingQueryStep asks about pricing, only when the site advertises a price
type PricingQueryStep struct {
	client *llm.Client
}

// NewPricingQueryStep creates the pricing query step
func NewPricingQueryStep(c *llm.Client) *PricingQueryStep {
	return &PricingQueryStep{client: c}
}

// Name returns the step name
func (s *PricingQueryStep) Name() string { return StepQueryPricing }

// Do is a no-op when no price was found on the page
func (s *PricingQueryStep) Do(ctx context.Context, state *State) error {
	if !state.Facts.HasPricing() {
		return nil
	}

	answer, err := s.client.QueryPricing(ctx, state.Facts.CompanyName, true)
	if err != nil {
		return err
	}
	state.Answers.Pricing = model.StringPtr(answer)
	return nil
}

// ScoreStep runs the comparison engine
type ScoreStep struct {
	scorer *score.Scorer
}

// NewScoreStep creates the scoring step
func NewScoreStep(s *score.Scorer) *ScoreStep {
	return &ScoreStep{scorer: s}
}

// Name returns the step name
func (s *ScoreStep) Name() string { return StepScore }

// Do compares the facts with the model's answers
func (s *ScoreStep) Do(ctx context.Context, state *State) error {
	state.Verdict = s.scorer.Evaluate(state.Facts, state.Answers)
	return nil
}

// AssembleStep builds the success payload
type AssembleStep struct {
	now           func() time.Time
	includeChecks bool
}

// NewAssembleStep creates the assembly step. now stamps scrapedAt.
func NewAssembleStep(now func() time.Time, includeChecks bool) *AssembleStep {
	if now == nil {
		now = time.Now
	}
	return &AssembleStep{now: now, includeChecks: includeChecks}
}

// Name returns the step name
func (s *AssembleStep) Name() string { return StepAssemble }

// Do copies facts, answers and verdict into a ScanResult
func (s *AssembleStep) Do(ctx context.Context, state *State) error {
	result := &model.ScanResult{
		CompanyName: state.Facts.CompanyName,
		GroundTruth: model.GroundTruth{
			Tagline: state.Facts.Description,
			Pricing: state.Facts.Pricing,
			Title:   state.Facts.Title,
		},
		AIResponse:        state.Answers.General,
		AIPricingResponse: state.Answers.Pricing,
		Status:            state.Verdict.Status,
		Issues:            state.Verdict.Issues,
		Confidence:        state.Verdict.Confidence,
		ScrapedAt:         s.now().UTC(),
	}
	if state.URL != nil {
		result.SourceURL = state.URL.String()
	}
	if s.includeChecks {
		result.Checks = state.Verdict.Checks
	}

	state.Result = result
	return nil
}
