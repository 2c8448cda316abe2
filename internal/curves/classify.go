package curves

import (
	"strings"
	"unicode"
)

// IsSpecialVariant reports whether any of the given keywords appears in the
// concatenated fields. Short keywords (length <= 2, e.g. "st", "gt") only
// match whole words so they do not fire inside unrelated text like "estate";
// longer keywords match as substrings.
func IsSpecialVariant(keywords []string, fields ...string) bool {
	haystack := strings.ToLower(strings.Join(fields, " "))
	if haystack == "" {
		return false
	}

	var words map[string]struct{}
	for _, keyword := range keywords {
		if len(keyword) <= 2 {
			if words == nil {
				words = tokenize(haystack)
			}
			if _, ok := words[keyword]; ok {
				return true
			}
		} else if strings.Contains(haystack, keyword) {
			return true
		}
	}
	return false
}

func tokenize(s string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		words[w] = struct{}{}
	}
	return words
}
