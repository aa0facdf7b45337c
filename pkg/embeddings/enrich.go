package embeddings

import "fmt"

// EnrichQuery prefixes the raw query text with the user's demographic
// context before embedding. The prefixing is deterministic so identical
// context always yields identical embeddings.
//
// "fever and headache" with age 28 and stage "third_trimester" becomes
// "Age 28 Pregnancy third_trimester: fever and headache".
func EnrichQuery(text string, age int, pregnancyStage string) string {
	enriched := text
	if pregnancyStage != "" && pregnancyStage != "none" {
		enriched = fmt.Sprintf("Pregnancy %s: %s", pregnancyStage, text)
	}

	if age > 0 {
		enriched = fmt.Sprintf("Age %d %s", age, enriched)
	}

	return enriched
}
