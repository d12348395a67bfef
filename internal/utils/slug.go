// Slug helpers.
//
// Slugify derives a URL-safe identifier from a human title. Uniqueness of
// the result is not this function's job: the posts table carries a unique
// index on slug and the service layer translates a collision into a
// conflict error.
package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent decomposes characters and strips combining marks, turning e.g.
// "é" into "e".
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts a title into a lowercase, hyphen-separated, ASCII-safe
// slug. Accented letters are folded to their base form; every run of
// non-alphanumeric characters collapses into a single hyphen.
//
// Example:
//
//	utils.Slugify("Héllo,  Wörld!") // "hello-world"
func Slugify(title string) string {
	folded, _, err := transform.String(deaccent, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
