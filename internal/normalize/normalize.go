// Package normalize canonicalizes French culinary text for matching and
// indexing: case folding, accent stripping, HTML entity decoding, and
// ingredient equivalence expansion.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	entityRe     = regexp.MustCompile(`&[a-z]+;`)
	disallowedRe = regexp.MustCompile(`[^a-z0-9\s\-']`)
	whitespaceRe = regexp.MustCompile(`\s+`)

	// NFD-decompose, drop combining marks, recompose. é → e, ç → c.
	accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Text canonicalizes free text: lowercase, accent-fold, entity-decode, strip
// everything but alphanumerics/space/hyphen/apostrophe, collapse whitespace.
// The result is idempotent: Text(Text(s)) == Text(s).
func Text(text string) string {
	if text == "" {
		return ""
	}

	text = strings.ReplaceAll(text, "&#039;", "'")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = entityRe.ReplaceAllString(text, "")

	text = strings.ToLower(text)

	if folded, _, err := transform.String(accentFolder, text); err == nil {
		text = folded
	}

	text = disallowedRe.ReplaceAllString(text, " ")
	text = whitespaceRe.ReplaceAllString(text, " ")

	return strings.TrimSpace(text)
}

// SearchableText combines multiple fields into one normalized string for
// index construction. Empty fields are skipped.
func SearchableText(fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return Text(strings.Join(parts, " "))
}

// dishVariations maps common Lebanese dish spellings to a canonical form.
// Applied token-wise so canonical forms pass through unchanged.
var dishVariations = map[string]string{
	"houmous":   "hummus",
	"hommos":    "hummus",
	"tabboule":  "tabbouleh",
	"taboule":   "tabbouleh",
	"kebbe":     "kibbeh",
	"kibbe":     "kibbeh",
	"kebbeh":    "kibbeh",
	"kafta":     "kofta",
	"kefta":     "kofta",
	"labne":     "labneh",
	"moutabbal": "mutabbal",
	"mtabbal":   "mutabbal",
}

// RecipeName normalizes a dish name, collapsing common spelling variations
// on top of the plain text normalization.
func RecipeName(name string) string {
	words := strings.Fields(Text(name))
	for i, w := range words {
		if canonical, ok := dishVariations[w]; ok {
			words[i] = canonical
		}
	}
	return strings.Join(words, " ")
}

var slugIDPrefixRe = regexp.MustCompile(`^\d+-`)

// SlugFromURL extracts the article slug from an editorial URL, dropping the
// trailing .html extension and any numeric id prefix.
func SlugFromURL(url string) string {
	trimmed := strings.TrimRight(url, "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	last := parts[len(parts)-1]
	slug := strings.TrimSuffix(last, ".html")
	return slugIDPrefixRe.ReplaceAllString(slug, "")
}

// frenchStopwords are skipped by Keywords.
var frenchStopwords = map[string]struct{}{
	"le": {}, "la": {}, "les": {}, "un": {}, "une": {}, "des": {}, "de": {},
	"du": {}, "au": {}, "aux": {}, "et": {}, "ou": {}, "mais": {}, "donc": {},
	"or": {}, "ni": {}, "car": {}, "pour": {}, "par": {}, "avec": {},
	"sans": {}, "sur": {}, "sous": {}, "dans": {}, "en": {}, "a": {},
	"ce": {}, "cette": {}, "ces": {}, "mon": {}, "ma": {}, "mes": {},
	"ton": {}, "ta": {}, "tes": {}, "son": {}, "sa": {}, "ses": {},
	"notre": {}, "nos": {}, "votre": {}, "vos": {}, "leur": {}, "leurs": {},
	"qui": {}, "que": {}, "quoi": {}, "dont": {}, "quand": {}, "comment": {},
	"d": {}, "l": {}, "c": {}, "s": {}, "m": {}, "t": {}, "n": {}, "j": {},
}

// Keywords extracts substantive terms from text, dropping French stopwords
// and words shorter than three characters.
func Keywords(text string) []string {
	words := strings.Fields(Text(text))
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if _, stop := frenchStopwords[w]; stop {
			continue
		}
		if len(w) <= 2 {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}
