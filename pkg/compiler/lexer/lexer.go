// Package lexer provides lexical analysis for style programs (.bst files).
package lexer

import (
	"github.com/zurustar/bibvm/pkg/compiler/token"
)

// Lexer tokenizes style program source code.
type Lexer struct {
	input        string
	position     int  // current position in input
	readPosition int  // current reading position (after current char)
	ch           byte // current char
	line         int  // current line number
	column       int  // current column number

	// err describes the most recent ILLEGAL token.
	err string
}

// New creates a new Lexer.
func New(input string) *Lexer {
	l := &Lexer{
		input:  input,
		line:   1,
		column: 0,
	}
	l.readChar()
	return l
}

// NextToken returns the next token. Comments and whitespace are skipped.
func (l *Lexer) NextToken() token.Token {
	var tok token.Token

	l.skipWhitespaceAndComments()

	tok.Line = l.line
	tok.Column = l.column

	switch l.ch {
	case '{':
		tok = l.newToken(token.LBRACE, l.ch)
	case '}':
		tok = l.newToken(token.RBRACE, l.ch)
	case '"':
		lit, ok := l.readString()
		if !ok {
			l.err = "unterminated string literal"
			return token.Token{Type: token.ILLEGAL, Literal: lit, Line: tok.Line, Column: tok.Column}
		}
		tok.Type = token.STRING
		tok.Literal = lit
	case '#':
		lit, ok := l.readInteger()
		if !ok {
			l.err = "malformed integer literal " + lit
			return token.Token{Type: token.ILLEGAL, Literal: lit, Line: tok.Line, Column: tok.Column}
		}
		return token.Token{Type: token.INTEGER, Literal: lit, Line: tok.Line, Column: tok.Column}
	case '\'':
		l.readChar() // consume '
		if !isIdentStart(l.ch) {
			l.err = "quote must be followed by a function name"
			return token.Token{Type: token.ILLEGAL, Literal: "'", Line: tok.Line, Column: tok.Column}
		}
		return token.Token{Type: token.QUOTED, Literal: l.readIdentifier(), Line: tok.Line, Column: tok.Column}
	case 0:
		tok.Literal = ""
		tok.Type = token.EOF
		return tok
	default:
		if isIdentStart(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = token.LookupIdent(tok.Literal)
			return tok
		}
		l.err = "illegal character " + string(l.ch)
		tok = l.newToken(token.ILLEGAL, l.ch)
	}

	l.readChar()
	return tok
}

// Err returns a description of the last ILLEGAL token produced.
func (l *Lexer) Err() string {
	return l.err
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++

	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// readIdentifier reads an identifier. Identifiers may contain any character
// that is not a delimiter, so operators such as := and > are identifiers too.
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readInteger reads '#' followed by an optional sign and decimal digits.
// The returned literal omits the '#'.
func (l *Lexer) readInteger() (string, bool) {
	l.readChar() // consume #
	position := l.position
	if l.ch == '+' || l.ch == '-' {
		l.readChar()
	}
	digits := 0
	for isDigit(l.ch) {
		l.readChar()
		digits++
	}
	// "#12abc" is not a number followed by an identifier.
	for isIdentChar(l.ch) {
		l.readChar()
		digits = -1
	}
	return l.input[position:l.position], digits > 0
}

// readString reads a double-quoted string literal. There are no escapes.
func (l *Lexer) readString() (string, bool) {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == '"' {
			lit := l.input[position:l.position]
			return lit, true
		}
		if l.ch == 0 {
			return l.input[position:l.position], false
		}
	}
}

// skipWhitespaceAndComments skips whitespace and '%' comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case isWhitespace(l.ch):
			l.readChar()
		case l.ch == '%':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// newToken creates a new token.
func (l *Lexer) newToken(tokenType token.TokenType, ch byte) token.Token {
	return token.Token{Type: tokenType, Literal: string(ch), Line: l.line, Column: l.column}
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

// isIdentChar reports whether ch may appear inside an identifier.
func isIdentChar(ch byte) bool {
	switch ch {
	case 0, '{', '}', '"', '#', '%', '\'', '(', ')', ',':
		return false
	}
	return !isWhitespace(ch)
}

// isIdentStart reports whether ch may begin an identifier.
func isIdentStart(ch byte) bool {
	return isIdentChar(ch) && !isDigit(ch)
}

// isDigit checks if a character is a digit.
func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// GetSource returns the source code as a string
func (l *Lexer) GetSource() string {
	return l.input
}
