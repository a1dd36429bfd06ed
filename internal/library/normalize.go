package library

import (
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MinTitleSimilarity is the lowest Jaro-Winkler score a fuzzy query accepts.
const MinTitleSimilarity = 0.70

// NormalizeTitle folds a title for matching: lowercase, no accents,
// punctuation dropped, whitespace collapsed.
func NormalizeTitle(title string) string {
	s := removeAccents(strings.ToLower(title))
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == ':' || r == '.':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// TitleSimilarity scores a query against a title in [0, 1].
// A normalized substring hit scores 1.
func TitleSimilarity(query, title string) float64 {
	q, t := NormalizeTitle(query), NormalizeTitle(title)
	if q == "" || t == "" {
		return 0
	}
	if strings.Contains(t, q) {
		return 1
	}
	return float64(edlib.JaroWinklerSimilarity(q, t))
}
