package bibtext

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// SplitNames splits a name list on the word "and" (any case) standing at
// brace level 0 with whitespace on both sides.
func SplitNames(str string) []string {
	s := []rune(str)
	var names []string
	level := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			level++
			continue
		case '}':
			if level > 0 {
				level--
			}
			continue
		}
		if level != 0 || !isWhite(s[i]) {
			continue
		}
		// s[i] is whitespace; look for "and" followed by whitespace.
		j := i
		for j < len(s) && isWhite(s[j]) {
			j++
		}
		if j+3 < len(s) && strings.EqualFold(string(s[j:j+3]), "and") && isWhite(s[j+3]) {
			names = append(names, strings.TrimSpace(string(s[start:i])))
			start = j + 3
			i = j + 2
		}
	}
	last := strings.TrimSpace(string(s[start:]))
	if last == "" && len(names) == 0 {
		return nil
	}
	return append(names, last)
}

// NumNames counts the names in a name list.
func NumNames(str string) int {
	return len(SplitNames(str))
}

// NameToken is one word of a personal name. Sep is the character that
// separated it from the previous word: ' ', '~' or '-'.
type NameToken struct {
	Text string
	Sep  rune
}

// Name is a personal name split into its four parts.
type Name struct {
	First []NameToken
	Von   []NameToken
	Last  []NameToken
	Jr    []NameToken
}

// ParseName splits a single name into First, von, Last and Jr parts.
// Accepted forms are "First von Last", "von Last, First" and
// "von Last, Jr, First". Lower-case words are von words.
func ParseName(str string) Name {
	tokens, commas := tokenizeName(str)
	n := len(tokens)
	if n == 0 {
		return Name{}
	}

	var firstStart, firstEnd, vonStart, vonEnd, lastEnd, jrEnd int
	switch len(commas) {
	case 0:
		lastEnd, jrEnd = n, n
		vonStart = 0
		found := false
		for vonStart < lastEnd-1 {
			if isVonToken(tokens[vonStart].Text) {
				vonEnd = vonNameEnd(tokens, vonStart, lastEnd)
				found = true
				break
			}
			vonStart++
		}
		if !found {
			// hyphenated last names stay together
			for vonStart > 0 && tokens[vonStart].Sep == '-' {
				vonStart--
			}
			vonEnd = vonStart
		}
		firstStart, firstEnd = 0, vonStart
	case 1:
		lastEnd, jrEnd = commas[0], commas[0]
		firstStart, firstEnd = jrEnd, n
		vonEnd = vonNameEnd(tokens, 0, lastEnd)
	default:
		lastEnd, jrEnd = commas[0], commas[1]
		firstStart, firstEnd = jrEnd, n
		vonEnd = vonNameEnd(tokens, 0, lastEnd)
	}

	return Name{
		First: tokens[firstStart:firstEnd],
		Von:   tokens[vonStart:vonEnd],
		Last:  tokens[vonEnd:lastEnd],
		Jr:    tokens[lastEnd:jrEnd],
	}
}

// vonNameEnd finds the end of the von part: just after the last von word
// before the final word of the last name.
func vonNameEnd(tokens []NameToken, vonStart, lastEnd int) int {
	end := lastEnd - 1
	for end > vonStart {
		if isVonToken(tokens[end-1].Text) {
			return end
		}
		end--
	}
	if end < vonStart {
		return vonStart
	}
	return end
}

// tokenizeName splits a name into words at brace level 0. It returns the
// words and, for each comma, the number of words before it.
func tokenizeName(str string) ([]NameToken, []int) {
	s := []rune(strings.TrimSpace(str))
	var tokens []NameToken
	var commas []int
	var cur []rune
	sep := ' '
	level := 0

	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, NameToken{Text: string(cur), Sep: sep})
			cur = cur[:0]
			sep = ' '
		}
	}

	for _, c := range s {
		if level > 0 {
			cur = append(cur, c)
			switch c {
			case '{':
				level++
			case '}':
				level--
			}
			continue
		}
		switch {
		case c == '{':
			level++
			cur = append(cur, c)
		case c == '}':
			// stray closing brace
			cur = append(cur, c)
		case c == ',':
			flush()
			commas = append(commas, len(tokens))
			sep = ' '
		case isWhite(c):
			flush()
		case c == '~' || c == '-':
			flush()
			sep = c
		default:
			cur = append(cur, c)
		}
	}
	flush()
	// more than two commas: the extra ones are ignored
	if len(commas) > 2 {
		commas = commas[:2]
	}
	return tokens, commas
}

// isVonToken reports whether the first letter of a word, at brace level
// 0 or inside a special character, is lower case.
func isVonToken(text string) bool {
	s := []rune(text)
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case unicode.IsUpper(c):
			return false
		case unicode.IsLower(c):
			return true
		case c == '{':
			if i+1 < len(s) && s[i+1] == '\\' {
				return specialIsLower(s, i+1)
			}
			i = skipGroup(s, i+1, 1)
		default:
			i++
		}
	}
	return false
}

// specialIsLower decides the case of a special character starting at the
// backslash s[i].
func specialIsLower(s []rune, i int) bool {
	name, i := controlName(s, i)
	switch name {
	case "OE", "AE", "AA", "O", "L":
		return false
	case "oe", "ae", "aa", "o", "l", "i", "j", "ss":
		return true
	}
	level := 1
	for ; i < len(s) && level > 0; i++ {
		c := s[i]
		switch {
		case unicode.IsUpper(c):
			return false
		case unicode.IsLower(c):
			return true
		case c == '}':
			level--
		case c == '{':
			level++
		}
	}
	return false
}

// ErrNameRange is returned when the requested name does not exist.
var ErrNameRange = errors.New("name index out of range")

// FormatName formats the n-th (1-based) name of a name list.
func FormatName(names string, n int, format string) (string, error) {
	list := SplitNames(names)
	if n < 1 || n > len(list) {
		return "", fmt.Errorf("%w: there is no name %d in %q", ErrNameRange, n, names)
	}
	return FormatParsed(ParseName(list[n-1]), format)
}

// ErrBadFormat is returned for a malformed name format string.
var ErrBadFormat = errors.New("illegal name format")

// FormatParsed applies a format string to a parsed name.
//
// Text outside braces is copied. Each top-level brace group holds optional
// text, a part letter (f, v, l or j; doubled for full words, single for
// initials), an optional {inter-word text} and trailing text. The whole
// group vanishes when its part is empty. A tie at the very end of a group
// becomes a space when the group's output is three or more characters long.
func FormatParsed(name Name, format string) (string, error) {
	f := []rune(format)
	var out []rune
	for i := 0; i < len(f); i++ {
		switch f[i] {
		case '{':
			end := matchingBrace(f, i)
			if end < 0 {
				return "", fmt.Errorf("%w: unbalanced braces in %q", ErrBadFormat, format)
			}
			group, err := formatGroup(name, f[i+1:end])
			if err != nil {
				return "", fmt.Errorf("%w in %q", err, format)
			}
			out = append(out, group...)
			i = end
		case '}':
			return "", fmt.Errorf("%w: unbalanced braces in %q", ErrBadFormat, format)
		default:
			out = append(out, f[i])
		}
	}
	return string(out), nil
}

// matchingBrace returns the index of the brace closing the one at open,
// or -1.
func matchingBrace(s []rune, open int) int {
	level := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				return i
			}
		}
	}
	return -1
}

// formatGroup renders the inside of one top-level format group.
func formatGroup(name Name, g []rune) ([]rune, error) {
	// pre-text runs up to the first letter at this level
	i := 0
	level := 0
	for i < len(g) && !(level == 0 && isAlpha(g[i])) {
		switch g[i] {
		case '{':
			level++
		case '}':
			level--
		}
		i++
	}
	if i == len(g) {
		return nil, ErrBadFormat
	}
	pre := g[:i]

	letter := unicode.ToLower(g[i])
	var tokens []NameToken
	switch letter {
	case 'f':
		tokens = name.First
	case 'v':
		tokens = name.Von
	case 'l':
		tokens = name.Last
	case 'j':
		tokens = name.Jr
	default:
		return nil, fmt.Errorf("%w: unknown name part %q", ErrBadFormat, g[i])
	}
	full := i+1 < len(g) && unicode.ToLower(g[i+1]) == letter
	for i < len(g) && isAlpha(g[i]) {
		i++
	}

	var between []rune
	explicit := false
	if i < len(g) && g[i] == '{' {
		end := matchingBrace(g, i)
		if end < 0 {
			return nil, ErrBadFormat
		}
		between = g[i+1 : end]
		explicit = true
		i = end + 1
	}
	post := g[i:]

	if len(tokens) == 0 {
		return nil, nil
	}

	out := append([]rune{}, pre...)
	start := len(out)
	for k, tok := range tokens {
		if full {
			out = append(out, []rune(tok.Text)...)
		} else {
			out = append(out, initial(tok.Text)...)
		}
		if k == len(tokens)-1 {
			break
		}
		if explicit {
			out = append(out, between...)
			continue
		}
		if !full {
			out = append(out, '.')
		}
		next := tokens[k+1].Sep
		switch {
		case next == '-' || next == '~':
			out = append(out, next)
		case k+1 == len(tokens)-1 || textChars(out[start:], 3) < 3:
			out = append(out, '~')
		default:
			out = append(out, ' ')
		}
	}
	out = append(out, post...)

	// discretionary tie
	if n := len(out); len(post) > 0 && out[n-1] == '~' {
		if textChars(out[start:n-1], 3) >= 3 {
			out[n-1] = ' '
		}
	}
	return out, nil
}

// initial returns the first letter of a word, or its first special
// character as a whole.
func initial(text string) []rune {
	s := []rune(text)
	for i := 0; i < len(s); i++ {
		if isAlpha(s[i]) {
			return s[i : i+1]
		}
		if s[i] == '{' && i+1 < len(s) && s[i+1] == '\\' {
			end := skipGroup(s, i+1, 1)
			return s[i:end]
		}
	}
	return nil
}
