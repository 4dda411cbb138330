package similarity

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// maxKeywords bounds the keyword list used for overlap comparison.
const maxKeywords = 10

// stopwords covers the two languages facts are authored and prompted in.
var stopwords = map[string]struct{}{
	// French
	"le": {}, "la": {}, "les": {}, "un": {}, "une": {}, "des": {}, "du": {},
	"de": {}, "et": {}, "ou": {}, "mais": {}, "donc": {}, "car": {},
	"que": {}, "qui": {}, "quoi": {}, "dont": {}, "où": {}, "ce": {},
	"cette": {}, "ces": {}, "son": {}, "sa": {}, "ses": {},
	"dans": {}, "pour": {}, "avec": {}, "sans": {}, "sont": {}, "être": {},
	// English
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"this": {}, "that": {}, "from": {}, "have": {}, "been": {}, "which": {},
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

// ExtractKeywords tokenizes text into its significant terms: lowercased,
// punctuation stripped, short tokens and stopwords discarded, capped at ten
// keywords in first-occurrence order. Empty input yields an empty slice.
func ExtractKeywords(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), "")

	var keywords []string
	for _, tok := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(tok) <= 3 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		keywords = append(keywords, tok)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
