package bibtext

// TextLength counts logical characters: braces do not count and each
// special character counts as one.
func TextLength(str string) int {
	s := []rune(str)
	n := 0
	level := 0
	for i := 0; i < len(s); {
		c := s[i]
		i++
		switch c {
		case '{':
			level++
			if startsSpecial(s, i-1, level) {
				i = skipGroup(s, i+1, level)
				level = 0
				n++
			}
		case '}':
			if level > 0 {
				level--
			}
		default:
			n++
		}
	}
	return n
}

// TextPrefix returns the first n logical characters of str, closing any
// brace groups left open.
func TextPrefix(str string, n int) string {
	if n <= 0 {
		return ""
	}
	s := []rune(str)
	count := 0
	level := 0
	i := 0
	for i < len(s) && count < n {
		c := s[i]
		i++
		switch c {
		case '{':
			level++
			if startsSpecial(s, i-1, level) {
				i = skipGroup(s, i+1, level)
				level = 0
				count++
			}
		case '}':
			if level > 0 {
				level--
			}
		default:
			count++
		}
	}
	out := make([]rune, 0, i+level)
	out = append(out, s[:i]...)
	for ; level > 0; level-- {
		out = append(out, '}')
	}
	return string(out)
}

// textChars counts characters of already formatted output the way the
// name formatter measures "long" parts: every character counts once,
// a special character counts once as a whole. Counting stops at limit.
func textChars(s []rune, limit int) int {
	n := 0
	level := 0
	for i := 0; i < len(s) && n < limit; {
		c := s[i]
		i++
		switch c {
		case '{':
			level++
			if level == 1 && i < len(s) && s[i] == '\\' {
				i = skipGroup(s, i+1, level)
				level = 0
			}
		case '}':
			if level > 0 {
				level--
			}
		}
		n++
	}
	return n
}
