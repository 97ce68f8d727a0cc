package score

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/egedemirkapi/entity-scanner/internal/model"
)

func acmeFacts() model.WebFacts {
	return model.WebFacts{
		CompanyName: "Acme",
		Title:       "Acme | Widgets",
		Description: "leading widget maker",
		Pricing:     model.StringPtr("$29/mo"),
	}
}

func TestScorer_Evaluate_Accurate(t *testing.T) {
	scorer := NewScorer()

	answers := model.ModelAnswers{
		General: "Acme is a leading widget maker that sells industrial widgets.",
		Pricing: model.StringPtr("Acme costs $29 per month."),
	}

	v := scorer.Evaluate(acmeFacts(), answers)

	if v.Status != model.StatusAccurate {
		t.Errorf("Expected ACCURATE, got %s", v.Status)
	}
	if v.Confidence != 100 {
		t.Errorf("Expected confidence 100, got %d", v.Confidence)
	}
	if diff := cmp.Diff([]string{model.NoIssuesSentinel}, v.Issues); diff != "" {
		t.Errorf("Issues mismatch (-want +got):\n%s", diff)
	}
	if len(v.Checks) != 4 {
		t.Errorf("Expected 4 checks, got %d", len(v.Checks))
	}
}

func TestScorer_Evaluate_UncertainAnswer(t *testing.T) {
	scorer := NewScorer()

	facts := acmeFacts()
	facts.Pricing = nil

	answers := model.ModelAnswers{
		General: "I don't have information about that company",
	}

	v := scorer.Evaluate(facts, answers)

	want := []string{
		IssueNameNotRecognized,
		IssueContentMismatch,
		IssueUncertainty,
	}
	if diff := cmp.Diff(want, v.Issues); diff != "" {
		t.Errorf("Issues mismatch (-want +got):\n%s", diff)
	}
	if v.Confidence > 30 {
		t.Errorf("Expected confidence <= 30, got %d", v.Confidence)
	}
	if v.Status != model.StatusHallucinating {
		t.Errorf("Expected HALLUCINATING, got %s", v.Status)
	}
}

func TestScorer_Evaluate_PricingMismatch(t *testing.T) {
	scorer := NewScorer()

	facts := acmeFacts()
	facts.Pricing = model.StringPtr("$50/mo")

	answers := model.ModelAnswers{
		General: "Acme is a leading widget maker.",
		Pricing: model.StringPtr("Pricing starts around $99 per month"),
	}

	v := scorer.Evaluate(facts, answers)

	if diff := cmp.Diff([]string{IssuePricingMismatch}, v.Issues); diff != "" {
		t.Errorf("Issues mismatch (-want +got):\n%s", diff)
	}
	if v.Confidence != 75 {
		t.Errorf("Expected confidence 75, got %d", v.Confidence)
	}
	if v.Status != model.StatusAccurate {
		t.Errorf("Expected ACCURATE, got %s", v.Status)
	}
}

func TestScorer_Evaluate_PricingSkipped(t *testing.T) {
	scorer := NewScorer()

	tests := []struct {
		name    string
		facts   *string
		answers *string
	}{
		{"no scraped pricing", nil, model.StringPtr("it is free")},
		{"no pricing answer", model.StringPtr("$50/mo"), nil},
		{"both absent", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := acmeFacts()
			facts.Pricing = tt.facts
			answers := model.ModelAnswers{
				General: "Acme is a leading widget maker.",
				Pricing: tt.answers,
			}

			v := scorer.Evaluate(facts, answers)
			if v.Confidence != 100 {
				t.Errorf("Expected confidence 100, got %d", v.Confidence)
			}
			for _, c := range v.Checks {
				if c.Name == model.CheckPricingAccuracy && !c.Skipped {
					t.Errorf("Expected pricing check to be skipped")
				}
			}
		})
	}
}

func TestScorer_Evaluate_NameCheckUsesSegmentBeforePipe(t *testing.T) {
	scorer := NewScorer()

	facts := acmeFacts()
	facts.CompanyName = "  ACME Corp | The best widgets - Home"

	v := scorer.Evaluate(facts, model.ModelAnswers{General: "acme corp is a leading widget maker"})
	for _, issue := range v.Issues {
		if issue == IssueNameNotRecognized {
			t.Errorf("Expected name to be recognized case-insensitively, got issues %v", v.Issues)
		}
	}

	// Only the pipe delimits; a dash stays part of the name
	facts.CompanyName = "Acme - Widgets"
	v = scorer.Evaluate(facts, model.ModelAnswers{General: "acme is a leading widget maker"})
	if v.Issues[0] != IssueNameNotRecognized {
		t.Errorf("Expected name issue for dash-separated name, got %v", v.Issues)
	}
}

func TestScorer_Evaluate_EmptyNamePasses(t *testing.T) {
	// A "<title>| Home</title>" page without og tags leaves nothing before the pipe
	facts := model.WebFacts{
		CompanyName: "| Home",
		Description: "leading widget maker",
	}
	answers := model.ModelAnswers{General: "A leading widget maker."}

	v := NewScorer().Evaluate(facts, answers)

	if v.Confidence != 100 {
		t.Errorf("Expected confidence 100, got %d", v.Confidence)
	}
	if v.Status != model.StatusAccurate {
		t.Errorf("Expected ACCURATE, got %s", v.Status)
	}
	if diff := cmp.Diff([]string{model.NoIssuesSentinel}, v.Issues); diff != "" {
		t.Errorf("Issues mismatch (-want +got):\n%s", diff)
	}
	if !v.Checks[0].Passed {
		t.Error("Expected name check to pass for an empty name")
	}
}

func TestScorer_Evaluate_NoKeywordsFailsOverlap(t *testing.T) {
	scorer := NewScorer()

	facts := acmeFacts()
	facts.Description = "we make cool stuff"
	facts.Pricing = nil

	v := scorer.Evaluate(facts, model.ModelAnswers{General: "Acme makes cool stuff"})

	if diff := cmp.Diff([]string{IssueContentMismatch}, v.Issues); diff != "" {
		t.Errorf("Issues mismatch (-want +got):\n%s", diff)
	}
	if v.Confidence != 70 {
		t.Errorf("Expected confidence 70, got %d", v.Confidence)
	}
}

func TestScorer_Evaluate_OverlapBoundary(t *testing.T) {
	scorer := NewScorer()

	facts := acmeFacts()
	facts.Pricing = nil
	// 5 keywords; one match is exactly 0.2 and passes
	facts.Description = "alpha1 bravo22 charlie delta44 echo555"

	v := scorer.Evaluate(facts, model.ModelAnswers{General: "acme charlie"})
	if v.Confidence != 100 {
		t.Errorf("Expected rate 0.2 to pass, got confidence %d issues %v", v.Confidence, v.Issues)
	}

	v = scorer.Evaluate(facts, model.ModelAnswers{General: "acme"})
	if v.Confidence != 70 {
		t.Errorf("Expected rate 0 to fail, got confidence %d", v.Confidence)
	}
}

func TestScorer_Evaluate_ConfidenceNeverNegative(t *testing.T) {
	rules := model.DefaultScoringConfig()
	rules.NameDeduction = 90
	scorer := NewScorer(WithRules(rules))

	facts := acmeFacts()
	facts.Pricing = model.StringPtr("$50/mo")
	answers := model.ModelAnswers{
		General: "I don't know.",
		Pricing: model.StringPtr("no idea"),
	}

	v := scorer.Evaluate(facts, answers)
	if v.Confidence != 0 {
		t.Errorf("Expected confidence clamped to 0, got %d", v.Confidence)
	}
	if len(v.Issues) != 4 {
		t.Errorf("Expected 4 issues, got %d: %v", len(v.Issues), v.Issues)
	}
}

func TestScorer_Evaluate_CustomMatcher(t *testing.T) {
	// A matcher that never finds anything fails every matcher-driven check
	scorer := NewScorer(WithMatcher(MatcherFunc(func(text, concept string) bool { return false })))

	v := scorer.Evaluate(acmeFacts(), model.ModelAnswers{
		General: "Acme is a leading widget maker",
		Pricing: model.StringPtr("$29/mo"),
	})

	// name, overlap and pricing fail; uncertainty passes because no phrase is found
	if v.Confidence != 0 {
		t.Errorf("Expected confidence 0, got %d", v.Confidence)
	}
}

func TestClassify(t *testing.T) {
	rules := model.DefaultScoringConfig()

	tests := []struct {
		confidence int
		want       model.Status
	}{
		{100, model.StatusAccurate},
		{70, model.StatusAccurate},
		{69, model.StatusUncertain},
		{40, model.StatusUncertain},
		{39, model.StatusHallucinating},
		{0, model.StatusHallucinating},
	}

	for _, tt := range tests {
		if got := Classify(tt.confidence, rules); got != tt.want {
			t.Errorf("Classify(%d) = %s, want %s", tt.confidence, got, tt.want)
		}
	}
}

func TestClassify_Monotonic(t *testing.T) {
	rules := model.DefaultScoringConfig()
	rank := map[model.Status]int{
		model.StatusHallucinating: 0,
		model.StatusUncertain:     1,
		model.StatusAccurate:      2,
	}

	prev := rank[Classify(0, rules)]
	for c := 1; c <= 100; c++ {
		cur := rank[Classify(c, rules)]
		if cur < prev {
			t.Fatalf("Classification decreased at confidence %d", c)
		}
		prev = cur
	}
}

func TestKeywords(t *testing.T) {
	got := Keywords("The Quick brown foxes jumped over twelve enormous lazy sleeping dogs again and again", 5, 3)
	want := []string{"jumped", "twelve", "enormous"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Keywords mismatch (-want +got):\n%s", diff)
	}

	if got := Keywords("", 5, 10); len(got) != 0 {
		t.Errorf("Expected no keywords for empty text, got %v", got)
	}
}

func TestDigits(t *testing.T) {
	tests := map[string]string{
		"$29/mo":               "29",
		"starting at $1,299":   "1299",
		"from $5 per month":    "5",
		"no digits here":       "",
		"$١٢ arabic-indic":     "",
	}
	for in, want := range tests {
		if got := Digits(in); got != want {
			t.Errorf("Digits(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPrimaryName(t *testing.T) {
	if got := PrimaryName("  Acme Inc | Home ", "|"); got != "acme inc" {
		t.Errorf("Expected 'acme inc', got %q", got)
	}
	if got := PrimaryName("Acme", ""); got != "acme" {
		t.Errorf("Expected 'acme', got %q", got)
	}
}
