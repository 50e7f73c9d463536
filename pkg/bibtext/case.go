package bibtext

import (
	"errors"
	"strings"
	"unicode"
)

// CaseMode selects a change.case$ conversion.
type CaseMode rune

const (
	TitleCase CaseMode = 't' // lower everything except the first character and after ": "
	LowerCase CaseMode = 'l'
	UpperCase CaseMode = 'u'
)

// ErrBadCaseMode is returned for a mode string other than t, l or u.
var ErrBadCaseMode = errors.New("illegal case conversion mode")

// ParseCaseMode parses the one-letter mode argument of change.case$,
// ignoring case.
func ParseCaseMode(spec string) (CaseMode, error) {
	switch strings.ToLower(spec) {
	case "t":
		return TitleCase, nil
	case "l":
		return LowerCase, nil
	case "u":
		return UpperCase, nil
	}
	return 0, ErrBadCaseMode
}

// ChangeCase converts the letters of str that are not brace-protected.
// Special characters are converted too: in lower and title mode \OE
// becomes \oe, in upper mode \oe becomes \OE and \i, \j and \ss lose
// their backslash (I, J, SS). Other control sequences keep their names
// and only the letters they accent change.
func ChangeCase(str string, mode CaseMode) string {
	s := []rune(str)
	out := make([]rune, 0, len(s))
	level := 0
	prevColon := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '{':
			level++
			if !startsSpecial(s, i, level) {
				out = append(out, c)
				prevColon = false
				continue
			}
			end := skipGroup(s, i+1, level)
			level = 0
			group := s[i:end]
			if mode == TitleCase && keepTitle(s, i, prevColon) {
				out = append(out, group...)
			} else {
				out = append(out, convertSpecial(group, mode)...)
			}
			i = end - 1
			prevColon = false
		case c == '}':
			if level > 0 {
				level--
			}
			out = append(out, c)
			prevColon = false
		case level > 0:
			out = append(out, c)
		default:
			switch mode {
			case UpperCase:
				out = append(out, unicode.ToUpper(c))
			case LowerCase:
				out = append(out, unicode.ToLower(c))
			case TitleCase:
				if keepTitle(s, i, prevColon) {
					out = append(out, c)
				} else {
					out = append(out, unicode.ToLower(c))
				}
			}
			if c == ':' {
				prevColon = true
			} else if !isWhite(c) {
				prevColon = false
			}
		}
	}
	return string(out)
}

// keepTitle reports whether title mode leaves the character at i alone:
// the first character, and the first one after a colon and whitespace.
func keepTitle(s []rune, i int, prevColon bool) bool {
	return i == 0 || (prevColon && isWhite(s[i-1]))
}

// convertSpecial converts one special character group, braces included.
func convertSpecial(group []rune, mode CaseMode) []rune {
	out := make([]rune, 0, len(group)+1)
	out = append(out, '{')
	first := true
	for i := 1; i < len(group); {
		c := group[i]
		if c == '\\' {
			name, next := controlName(group, i)
			if first {
				out = append(out, convertControl(name, mode)...)
			} else {
				out = append(out, '\\')
				out = append(out, []rune(name)...)
			}
			first = false
			i = next
			continue
		}
		switch mode {
		case UpperCase:
			out = append(out, unicode.ToUpper(c))
		case LowerCase, TitleCase:
			out = append(out, unicode.ToLower(c))
		}
		i++
	}
	return out
}

// convertControl converts the leading control sequence of a special character.
func convertControl(name string, mode CaseMode) []rune {
	switch mode {
	case UpperCase:
		switch name {
		case "oe", "ae", "aa", "o", "l":
			return []rune(`\` + strings.ToUpper(name))
		case "i", "j", "ss":
			return []rune(strings.ToUpper(name))
		}
	case LowerCase, TitleCase:
		switch name {
		case "OE", "AE", "AA", "O", "L":
			return []rune(`\` + strings.ToLower(name))
		}
	}
	return []rune(`\` + name)
}
