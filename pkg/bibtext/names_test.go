package bibtext

import (
	"errors"
	"strings"
	"testing"
)

func TestNumNames(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"Johnny Foo and Mary Bar", 2},
		{"Johnny Foo { and } Mary Bar", 1},
		{"Johnny Foo AND Mary Bar aNd Ann", 3},
		{"Crowston, K. and Annabi, H. and Howison, J. and Masango, C.", 4},
		{"Sandy Anderson", 1},
		{"{Barnes and Noble, Inc.}", 1},
		{"", 0},
		{"   ", 0},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NumNames(tt.input); got != tt.expected {
				t.Errorf("NumNames(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func tokenTexts(tokens []NameToken) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = tok.Text
	}
	return strings.Join(parts, " ")
}

func TestParseName(t *testing.T) {
	tests := []struct {
		input                 string
		first, von, last, jr string
	}{
		{"Charles Louis Xavier Joseph de la Vall{\\'e}e Poussin", "Charles Louis Xavier Joseph", "de la", "Vall{\\'e}e Poussin", ""},
		{"de la Fontaine, Jean", "Jean", "de la", "Fontaine", ""},
		{"Ford, Jr., Henry", "Henry", "", "Ford", "Jr."},
		{"Jean-Paul Sartre", "Jean Paul", "", "Sartre", ""},
		{"Anne Smith-Jones", "Anne", "", "Smith Jones", ""},
		{"Ludwig van Beethoven", "Ludwig", "van", "Beethoven", ""},
		{"{Barnes and Noble, Inc.}", "", "", "{Barnes and Noble, Inc.}", ""},
		{"Plato", "", "", "Plato", ""},
		{"{\\'E}mile Zola", "{\\'E}mile", "", "Zola", ""},
		{"", "", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			n := ParseName(tt.input)
			if got := tokenTexts(n.First); got != tt.first {
				t.Errorf("ParseName(%q).First = %q, want %q", tt.input, got, tt.first)
			}
			if got := tokenTexts(n.Von); got != tt.von {
				t.Errorf("ParseName(%q).Von = %q, want %q", tt.input, got, tt.von)
			}
			if got := tokenTexts(n.Last); got != tt.last {
				t.Errorf("ParseName(%q).Last = %q, want %q", tt.input, got, tt.last)
			}
			if got := tokenTexts(n.Jr); got != tt.jr {
				t.Errorf("ParseName(%q).Jr = %q, want %q", tt.input, got, tt.jr)
			}
		})
	}
}

func TestFormatName(t *testing.T) {
	const crowston = "Crowston, K. and Annabi, H. and Howison, J. and Masango, C."
	tests := []struct {
		name     string
		names    string
		n        int
		format   string
		expected string
	}{
		{"von and initials", "Charles Louis Xavier Joseph de la Vall{\\'e}e Poussin", 1, "{vv~}{ll}{, jj}{, f}?", "de~la Vall{\\'e}e~Poussin, C.~L. X.~J?"},
		{"second of a list", crowston, 2, "{vv~}{ll}{, jj}{, f}?", "Annabi, H?"},
		{"short first keeps tie", crowston, 1, "{f.~}{vv~}{ll}{, jj}", "K.~Crowston"},
		{"hyphenated first", "Jean-Paul Sartre", 1, "{f.~}{vv~}{ll}{, jj}", "J.-P. Sartre"},
		{"full names", "Donald E. Knuth", 1, "{ff~}{vv~}{ll}{, jj}", "Donald~E. Knuth"},
		{"von becomes space", "Ludwig van Beethoven", 1, "{ff~}{vv~}{ll}{, jj}", "Ludwig van Beethoven"},
		{"junior", "Ford, Jr., Henry", 1, "{vv~}{ll}{, jj}{, ff}", "Ford, Jr., Henry"},
		{"explicit separator", "Charles Louis Xavier", 1, "{f{}}{ll}", "CLXavier"},
		{"corporate", "{Barnes and Noble, Inc.}", 1, "{ff }{ll}", "{Barnes and Noble, Inc.}"},
		{"special initial", "{\\'E}mile Zola", 1, "{f.} {ll}", "{\\'E}. Zola"},
		{"last only", "Crowston, K. and Annabi, H.", 2, "{ll}", "Annabi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatName(tt.names, tt.n, tt.format)
			if err != nil {
				t.Fatalf("FormatName(%q, %d, %q) returned error: %v", tt.names, tt.n, tt.format, err)
			}
			if got != tt.expected {
				t.Errorf("FormatName(%q, %d, %q) = %q, want %q", tt.names, tt.n, tt.format, got, tt.expected)
			}
		})
	}
}

func TestFormatName_Errors(t *testing.T) {
	tests := []struct {
		name   string
		names  string
		n      int
		format string
		target error
	}{
		{"beyond the list", "A B and C D", 3, "{ll}", ErrNameRange},
		{"zero index", "A B", 0, "{ll}", ErrNameRange},
		{"empty list", "", 1, "{ll}", ErrNameRange},
		{"unbalanced", "A B", 1, "{ll", ErrBadFormat},
		{"stray close", "A B", 1, "ll}", ErrBadFormat},
		{"no part letter", "A B", 1, "{, }", ErrBadFormat},
		{"unknown part", "A B", 1, "{xx}", ErrBadFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatName(tt.names, tt.n, tt.format)
			if !errors.Is(err, tt.target) {
				t.Errorf("FormatName(%q, %d, %q) error = %v, want %v", tt.names, tt.n, tt.format, err, tt.target)
			}
		})
	}
}
