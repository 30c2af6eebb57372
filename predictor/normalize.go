package predictor

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeAnswer canonicalizes a free-text answer before encoding. NFKC
// folds full-width digits and letters into their ASCII forms so values typed
// through an IME still parse.
func NormalizeAnswer(text string) string {
	normed := norm.NFKC.String(text)
	// Answers are single-line; controls become plain spaces.
	normed = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, normed)
	return strings.TrimSpace(normed)
}
