package bibtext

import "strings"

// Purify removes everything but letters, digits and spaces. Whitespace,
// hyphens and ties become spaces. In a special character the control
// sequence is dropped unless it names a letter by itself ({\ss} gives
// "ss", {\'e} gives "e"). Accented letters are folded to their base letter.
func Purify(str string) string {
	s := []rune(foldAccents(str))
	var b strings.Builder
	level := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isWhite(c) || c == '-' || c == '~':
			b.WriteByte(' ')
		case isAlnum(c):
			b.WriteRune(c)
		case c == '{':
			level++
			if !startsSpecial(s, i, level) {
				continue
			}
			end := skipGroup(s, i+1, level)
			level = 0
			purifySpecial(&b, s[i+1:end])
			i = end - 1
		case c == '}':
			if level > 0 {
				level--
			}
		}
	}
	return b.String()
}

// purifySpecial writes the letters of a special character body (starting
// at its backslash).
func purifySpecial(b *strings.Builder, body []rune) {
	for i := 0; i < len(body); {
		if body[i] == '\\' {
			name, next := controlName(body, i)
			if specialNames[name] {
				b.WriteString(name)
			}
			i = next
			continue
		}
		if isAlnum(body[i]) {
			b.WriteRune(body[i])
		}
		i++
	}
}
