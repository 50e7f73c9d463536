package bibtext

// charWidth holds the widths of the printable ASCII characters in the
// cmr10 font, in hundredths of a point.
var charWidth = [128]int{
	' ': 278, '!': 278, '"': 500, '#': 833, '$': 500, '%': 833, '&': 778,
	'\'': 278, '(': 389, ')': 389, '*': 500, '+': 778, ',': 278, '-': 333,
	'.': 278, '/': 500,
	'0': 500, '1': 500, '2': 500, '3': 500, '4': 500,
	'5': 500, '6': 500, '7': 500, '8': 500, '9': 500,
	':': 278, ';': 278, '<': 278, '=': 778, '>': 472, '?': 472, '@': 778,
	'A': 750, 'B': 708, 'C': 722, 'D': 764, 'E': 681, 'F': 653, 'G': 785,
	'H': 750, 'I': 361, 'J': 514, 'K': 778, 'L': 625, 'M': 917, 'N': 750,
	'O': 778, 'P': 681, 'Q': 778, 'R': 736, 'S': 556, 'T': 722, 'U': 750,
	'V': 750, 'W': 1028, 'X': 750, 'Y': 750, 'Z': 611,
	'[': 278, '\\': 500, ']': 278, '^': 500, '_': 278, '`': 278,
	'a': 500, 'b': 556, 'c': 444, 'd': 556, 'e': 444, 'f': 306, 'g': 500,
	'h': 556, 'i': 278, 'j': 306, 'k': 528, 'l': 278, 'm': 833, 'n': 556,
	'o': 500, 'p': 556, 'q': 528, 'r': 392, 's': 394, 't': 389, 'u': 556,
	'v': 528, 'w': 722, 'x': 528, 'y': 528, 'z': 444,
	'{': 500, '|': 1000, '}': 500, '~': 500,
}

// specialWidth gives the widths of the letter-like control sequences.
var specialWidth = map[string]int{
	"ss": 500, "ae": 722, "oe": 778, "AE": 903, "OE": 1014,
}

func runeWidth(r rune) int {
	if r >= 0 && r < 128 {
		return charWidth[r]
	}
	folded := []rune(foldAccents(string(r)))
	if len(folded) == 1 && folded[0] < 128 {
		return charWidth[folded[0]]
	}
	return 0
}

// Width measures str with the cmr10 table. Braces do not count; a special
// character counts as the letter it stands for.
func Width(str string) int {
	s := []rune(str)
	w := 0
	level := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '{':
			level++
			if !startsSpecial(s, i, level) {
				continue
			}
			end := skipGroup(s, i+1, level)
			level = 0
			w += specialCharWidth(s[i+1 : end])
			i = end - 1
		case '}':
			if level > 0 {
				level--
			}
		default:
			w += runeWidth(c)
		}
	}
	return w
}

// specialCharWidth measures the body of a special character, starting at
// its backslash.
func specialCharWidth(body []rune) int {
	name, i := controlName(body, 0)
	if sw, ok := specialWidth[name]; ok {
		return sw
	}
	if specialNames[name] {
		return runeWidth([]rune(name)[0])
	}
	w := 0
	for ; i < len(body); i++ {
		switch c := body[i]; c {
		case '{', '}':
		case '\\':
			_, next := controlName(body, i)
			i = next - 1
		default:
			w += runeWidth(c)
		}
	}
	return w
}
