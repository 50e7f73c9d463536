// Package token defines the lexical tokens of the style language.
package token

import "strings"

type TokenType string

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Literals
	IDENT   = "IDENT"   // format.name$, :=, +
	INTEGER = "INTEGER" // #12, #-3
	STRING  = "STRING"  // "abc"
	QUOTED  = "QUOTED"  // 'skip$

	// Delimiters
	LBRACE = "{"
	RBRACE = "}"

	// Commands
	ENTRY    = "ENTRY"
	INTEGERS = "INTEGERS"
	STRINGS  = "STRINGS"
	FUNCTION = "FUNCTION"
	MACRO    = "MACRO"
	READ     = "READ"
	EXECUTE  = "EXECUTE"
	ITERATE  = "ITERATE"
	REVERSE  = "REVERSE"
	SORT     = "SORT"
)

var commands = map[string]TokenType{
	"entry":    ENTRY,
	"integers": INTEGERS,
	"strings":  STRINGS,
	"function": FUNCTION,
	"macro":    MACRO,
	"read":     READ,
	"execute":  EXECUTE,
	"iterate":  ITERATE,
	"reverse":  REVERSE,
	"sort":     SORT,
}

// LookupIdent returns the command type for a top-level keyword, or IDENT.
// Keywords are matched case-insensitively.
func LookupIdent(ident string) TokenType {
	if tok, ok := commands[strings.ToLower(ident)]; ok {
		return tok
	}
	return IDENT
}

// IsCommand reports whether t is one of the top-level command keywords.
func IsCommand(t TokenType) bool {
	switch t {
	case ENTRY, INTEGERS, STRINGS, FUNCTION, MACRO, READ, EXECUTE, ITERATE, REVERSE, SORT:
		return true
	}
	return false
}
