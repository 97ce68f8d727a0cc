package model

// OGData holds the Open Graph fields read from the page head.
// Informational only; the scorer never looks at it.
type OGData struct {
	Title       string `json:"title,omitempty"`       // og:title
	Description string `json:"description,omitempty"` // og:description
	SiteName    string `json:"siteName,omitempty"`    // og:site_name
}

// WebFacts is the ground truth extracted from a company's page
type WebFacts struct {
	CompanyName string  `json:"companyName"` // Best-guess company name (<=100 runes)
	Title       string  `json:"title"`       // Raw <title> text (<=100 runes)
	Description string  `json:"description"` // Tagline / meta description (<=300 runes)
	Pricing     *string `json:"pricing"`     // First detected pricing phrase, nil if none
	OG          OGData  `json:"og"`          // Open Graph fields
}

// HasPricing reports whether a pricing phrase was found on the page
func (f WebFacts) HasPricing() bool {
	return f.Pricing != nil
}

// ModelAnswers holds the language model's free-text replies
type ModelAnswers struct {
	General string  `json:"general"` // Answer to "tell me about X"
	Pricing *string `json:"pricing"` // Answer to the pricing question, nil when it was not asked
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}
