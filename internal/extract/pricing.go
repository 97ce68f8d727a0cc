package extract

import (
	"regexp"
	"strings"
)

// pricingPatterns are tried in order against lower-cased body text
var pricingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\d+/mo`),
	regexp.MustCompile(`\$\d+\s*per\s*month`),
	regexp.MustCompile(`\$\d+\s*monthly`),
	regexp.MustCompile(`starting at \$\d+`),
	regexp.MustCompile(`from \$\d+`),
}

// DetectPricing returns the first pricing phrase found in text.
// The returned phrase is lower-cased; ok is false when nothing matched.
func DetectPricing(text string) (phrase string, ok bool) {
	lower := strings.ToLower(text)
	for _, re := range pricingPatterns {
		if m := re.FindString(lower); m != "" {
			return m, true
		}
	}
	return "", false
}
