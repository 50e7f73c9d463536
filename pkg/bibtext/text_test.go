package bibtext

import (
	"math"
	"testing"
)

func TestPurify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"The {\\'E}cole-Normale~Sup{\\'e}rieure!", "The Ecole Normale Superieure"},
		{"{\\ss}tra{\\ss}e", "sstrasse"},
		{"Vallée", "Vallee"},
		{"a{b}c", "abc"},
		{"1,2;3", "123"},
		{"{\\em Emphasis}", "Emphasis"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Purify(tt.input); got != tt.expected {
				t.Errorf("Purify(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWidth(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"a", 500},
		{"{a}", 500},
		{"AB", 1458},
		{"{\\ss}", 500},
		{"{\\OE}", 1014},
		{"{\\'e}", 444},
		{"é", 444},
		{"0", 500},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Width(tt.input); got != tt.expected {
				t.Errorf("Width(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWidth_WiderLabelIsWider(t *testing.T) {
	if Width("88") <= Width("1") {
		t.Errorf("Width(%q) = %d should exceed Width(%q) = %d", "88", Width("88"), "1", Width("1"))
	}
}

func TestAddPeriod(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Johnny", "Johnny."},
		{"Johnny.", "Johnny."},
		{"Johnny!}", "Johnny!}"},
		{"Johnny?", "Johnny?"},
		{"Johnny.}", "Johnny.}"},
		{"Johnny}", "Johnny}."},
		{"", ""},
		{"}}", "}}"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := AddPeriod(tt.input); got != tt.expected {
				t.Errorf("AddPeriod(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSubstring(t *testing.T) {
	const s = "123456789"
	tests := []struct {
		start    int
		length   int
		expected string
	}{
		{1, 3, "123"},
		{-1, 1, "9"},
		{-7, 3, "123"},
		{-1, 3, "789"},
		{-2, 2, "78"},
		{4, math.MaxInt32, "456789"},
		{10, 1, ""},
		{0, 1, ""},
		{3, 0, ""},
		{3, -1, ""},
		{-10, 1, ""},
		{-9, 2, "1"},
		{-math.MaxInt32, math.MaxInt32, ""},
	}
	for _, tt := range tests {
		if got := Substring(s, tt.start, tt.length); got != tt.expected {
			t.Errorf("Substring(%q, %d, %d) = %q, want %q", s, tt.start, tt.length, got, tt.expected)
		}
	}
}
