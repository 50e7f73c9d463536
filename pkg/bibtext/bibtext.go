// Package bibtext implements the brace-aware text algorithms behind the
// string built-ins of the style language: logical length and prefix,
// case conversion, purification, width measurement, substring extraction
// and personal-name parsing and formatting.
//
// Strings follow the legacy conventions: a brace group {...} protects its
// contents, and a brace group at level 1 whose first character is a
// backslash ({\'e}, {\ss}) is a "special character" that counts as one
// logical character.
package bibtext

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// specialNames are control sequences that stand for letters on their own.
var specialNames = map[string]bool{
	"oe": true, "OE": true, "ae": true, "AE": true, "aa": true, "AA": true,
	"o": true, "O": true, "l": true, "L": true, "ss": true, "i": true, "j": true,
}

func isWhite(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

func isAlpha(r rune) bool {
	return unicode.IsLetter(r)
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// startsSpecial reports whether s[i] opens a special character, given the
// brace level after counting s[i].
func startsSpecial(s []rune, i, level int) bool {
	return s[i] == '{' && level == 1 && i+1 < len(s) && s[i+1] == '\\'
}

// skipGroup returns the index just past the brace group whose opening
// brace has already been consumed (level >= 1 at s[from]). Unbalanced
// groups run to the end of s.
func skipGroup(s []rune, from, level int) int {
	i := from
	for i < len(s) && level > 0 {
		switch s[i] {
		case '}':
			level--
		case '{':
			level++
		}
		i++
	}
	return i
}

// controlName reads the control sequence starting at the backslash s[i].
// It returns the name (letters, or a single non-letter) and the index
// after it.
func controlName(s []rune, i int) (string, int) {
	i++ // backslash
	start := i
	for i < len(s) && isAlpha(s[i]) {
		i++
	}
	if i == start && i < len(s) {
		i++
	}
	return string(s[start:i]), i
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldAccents strips combining marks: "Vallée" becomes "Vallee".
func foldAccents(s string) string {
	out, _, err := transform.String(accentFolder, s)
	if err != nil {
		return s
	}
	return out
}
