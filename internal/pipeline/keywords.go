package pipeline

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "we": {}, "our": {}, "your": {},
}

// extractKeywords reduces a business description to a short image-search
// query: strip the business name and stopwords, keep the first three words
// long enough to carry meaning. A tunable heuristic, not a contract.
func extractKeywords(description, businessName string) string {
	desc := strings.ToLower(description)
	desc = strings.ReplaceAll(desc, strings.ToLower(businessName), "")

	var keywords []string
	for _, word := range strings.Fields(desc) {
		word = strings.Trim(word, ".,!?")
		if len(word) <= 3 {
			continue
		}
		if _, skip := stopWords[word]; skip {
			continue
		}
		keywords = append(keywords, word)
		if len(keywords) == 3 {
			break
		}
	}
	if len(keywords) == 0 {
		return businessName
	}
	return strings.Join(keywords, " ")
}

// slugify lowercases a name, strips diacritics and collapses everything that
// is not a letter or digit into single hyphens.
func slugify(name string) string {
	decomposed := norm.NFD.String(strings.ToLower(name))

	var b strings.Builder
	lastHyphen := true
	for _, r := range decomposed {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from decomposition
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
