package vm

import (
	"strings"
	"unicode"
)

// DefaultWrapWidth is the longest line write$ produces before breaking.
const DefaultWrapWidth = 79

// continuationIndent starts every line produced by an automatic break.
const continuationIndent = "  "

// outputSink collects write$ and newline$ output. Text accumulates in a
// pending line; lines longer than width are broken at whitespace. A
// width of 0 disables wrapping.
type outputSink struct {
	width   int
	pending []rune
	out     strings.Builder
}

func newOutputSink(width int) *outputSink {
	return &outputSink{width: width}
}

// Write appends s to the pending line.
func (o *outputSink) Write(s string) {
	o.pending = append(o.pending, []rune(s)...)
	o.wrap()
}

// Newline emits the pending line and a line break. An empty pending line
// yields a blank line.
func (o *outputSink) Newline() {
	o.emit(o.pending)
	o.pending = o.pending[:0]
}

// String returns everything emitted so far followed by the pending text.
func (o *outputSink) String() string {
	if len(o.pending) == 0 {
		return o.out.String()
	}
	return o.out.String() + string(o.pending)
}

func (o *outputSink) emit(line []rune) {
	o.out.WriteString(strings.TrimRightFunc(string(line), unicode.IsSpace))
	o.out.WriteByte('\n')
}

func (o *outputSink) wrap() {
	if o.width <= 0 {
		return
	}
	for len(o.pending) > o.width {
		at := breakPoint(o.pending, o.width)
		if at < 0 {
			return
		}
		o.emit(o.pending[:at])
		rest := o.pending[at:]
		for len(rest) > 0 && unicode.IsSpace(rest[0]) {
			rest = rest[1:]
		}
		if len(rest) == 0 {
			o.pending = o.pending[:0]
			return
		}
		o.pending = append([]rune(continuationIndent), rest...)
	}
}

// breakPoint picks the whitespace to break line at: the last one within
// width, else the first one after it. Whitespace with only whitespace
// before it never qualifies. It returns -1 when there is none.
func breakPoint(line []rune, width int) int {
	best := -1
	seenText := false
	for i, r := range line {
		if !unicode.IsSpace(r) {
			seenText = true
			continue
		}
		if !seenText {
			continue
		}
		if i <= width {
			best = i
			continue
		}
		if best < 0 {
			best = i
		}
		break
	}
	return best
}
