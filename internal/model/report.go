package model

import (
	"encoding/json"
	"time"
)

// Status is the three-level verdict on how faithfully the model describes the company
type Status string

const (
	StatusAccurate      Status = "ACCURATE"
	StatusUncertain     Status = "UNCERTAIN"
	StatusHallucinating Status = "HALLUCINATING"
)

// NoIssuesSentinel is the single issue reported when every check passes
const NoIssuesSentinel = "No significant issues detected"

// CheckName identifies one check in the comparison battery
type CheckName string

const (
	CheckNameRecognition CheckName = "name_recognition"
	CheckContentOverlap  CheckName = "content_overlap"
	CheckUncertainty     CheckName = "uncertainty"
	CheckPricingAccuracy CheckName = "pricing_accuracy"
)

// CheckResult is the transparent outcome of a single check
type CheckResult struct {
	Name      CheckName              `json:"name"`
	Passed    bool                   `json:"passed"`
	Skipped   bool                   `json:"skipped,omitempty"`
	Deduction int                    `json:"deduction"`       // Points removed from the starting score
	Issue     string                 `json:"issue,omitempty"` // Issue text when the check failed
	Data      map[string]interface{} `json:"data,omitempty"`  // Inputs and formula behind the outcome
}

// Verdict is the output of the comparison engine
type Verdict struct {
	Status     Status        `json:"status"`
	Issues     []string      `json:"issues"`     // Never empty
	Confidence int           `json:"confidence"` // 0-100
	Checks     []CheckResult `json:"checks,omitempty"`
}

// GroundTruth is the subset of WebFacts echoed back to the caller
type GroundTruth struct {
	Tagline string  `json:"tagline"`
	Pricing *string `json:"pricing"`
	Title   string  `json:"title"`
}

// ScanResult is the success payload of a scan
type ScanResult struct {
	SourceURL         string        `json:"-"`
	CompanyName       string        `json:"companyName"`
	GroundTruth       GroundTruth   `json:"groundTruth"`
	AIResponse        string        `json:"aiResponse"`
	AIPricingResponse *string       `json:"aiPricingResponse"`
	Status            Status        `json:"status"`
	Issues            []string      `json:"issues"`
	Confidence        int           `json:"confidence"`
	Checks            []CheckResult `json:"checks,omitempty"`
	ScrapedAt         time.Time     `json:"scrapedAt"`
}

// ErrorResult is the failure payload of a scan
type ErrorResult struct {
	Error string `json:"error"`
}

// Response is exactly one of a success or failure payload
type Response struct {
	Result *ScanResult
	Err    *ErrorResult
}

// Failed reports whether the response carries an error
func (r Response) Failed() bool {
	return r.Err != nil
}

// MarshalJSON emits the payload flat, without a wrapping object
func (r Response) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(r.Err)
	}
	return json.Marshal(r.Result)
}
