package llm

import "fmt"

// GeneralPrompt asks the model what it knows about a company.
// The word limit is an instruction to the model, not enforced on the reply.
func GeneralPrompt(companyName string) string {
	return fmt.Sprintf(`You are a helpful assistant answering a user's question about a company. Answer naturally as if you're having a conversation with someone who is researching this company.

User question: "Tell me about %s. What do they do, and what are their main products or services?"

Please provide a brief, factual response based on what you know. If you're not certain about specific details, say so. Keep your response under 100 words.`, companyName)
}

// PricingPrompt asks about the company's pricing. When the site advertised a
// price the model is asked for it directly; otherwise it is asked whether
// public pricing exists at all.
func PricingPrompt(companyName string, pricingOnSite bool) string {
	if pricingOnSite {
		return fmt.Sprintf(`User question: "What is the pricing for %s?"

Please provide pricing information if you know it. If you're not certain, say so. Keep your response brief and factual.`, companyName)
	}

	return fmt.Sprintf(`User question: "Does %s have public pricing information available?"

Answer briefly based on what you know.`, companyName)
}
