package bibtext

// AddPeriod appends a period unless the last character that is not a
// closing brace is already '.', '!' or '?'. Empty strings stay empty.
func AddPeriod(str string) string {
	s := []rune(str)
	i := len(s) - 1
	for i >= 0 && s[i] == '}' {
		i--
	}
	if i < 0 {
		return str
	}
	switch s[i] {
	case '.', '!', '?':
		return str
	}
	return str + "."
}
