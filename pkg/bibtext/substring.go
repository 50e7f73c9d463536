package bibtext

// Substring returns length characters of str starting at the 1-based
// position start. A negative start counts from the end: -1 is the last
// character and the substring then ends there, extending leftwards.
// Indices outside the string are clamped; start 0 or length <= 0 yield "".
func Substring(str string, start, length int) string {
	s := []rune(str)
	n := len(s)
	if length <= 0 || start == 0 {
		return ""
	}
	if start > 0 {
		if start > n {
			return ""
		}
		begin := start - 1
		end := n
		if length < n-begin {
			end = begin + length
		}
		return string(s[begin:end])
	}
	end := n + start + 1
	if end <= 0 {
		return ""
	}
	begin := 0
	if length < end {
		begin = end - length
	}
	return string(s[begin:end])
}
