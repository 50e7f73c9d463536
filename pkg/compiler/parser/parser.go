// Package parser turns the token stream of a style program into an
// ast.Program. No name resolution happens here.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zurustar/bibvm/pkg/compiler/ast"
	"github.com/zurustar/bibvm/pkg/compiler/lexer"
	"github.com/zurustar/bibvm/pkg/compiler/token"
)

// ParserError is a syntax error with its source position.
type ParserError struct {
	Message string
	Line    int
	Column  int
	// Lexical is set when the error comes from an ILLEGAL token.
	Lexical bool
}

func (e *ParserError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Message, e.Line, e.Column)
}

// Parser parses style program source code into an AST.
type Parser struct {
	l      *lexer.Lexer
	errors []error

	curToken  token.Token
	peekToken token.Token
}

// New creates a new Parser.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []error{},
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns the syntax errors collected so far.
func (p *Parser) Errors() []error {
	return p.errors
}

// ParseProgram parses the entire program. On error the returned program
// holds the commands that parsed cleanly and Errors lists every problem.
func (p *Parser) ParseProgram() (*ast.Program, []error) {
	program := &ast.Program{}

	for p.curToken.Type != token.EOF {
		cmd := p.parseCommand()
		if cmd == nil {
			p.synchronize()
			continue
		}
		program.Commands = append(program.Commands, cmd)
		p.nextToken()
	}

	return program, p.errors
}

// synchronize skips tokens until the next top-level command keyword.
func (p *Parser) synchronize() {
	p.nextToken()
	for p.curToken.Type != token.EOF && !token.IsCommand(p.curToken.Type) {
		p.nextToken()
	}
}

func (p *Parser) parseCommand() ast.Command {
	switch p.curToken.Type {
	case token.ENTRY:
		return p.parseEntryCommand()
	case token.INTEGERS:
		tok := p.curToken
		names := p.parseNameList()
		if names == nil {
			return nil
		}
		return &ast.IntegersCommand{Token: tok, Names: names}
	case token.STRINGS:
		tok := p.curToken
		names := p.parseNameList()
		if names == nil {
			return nil
		}
		return &ast.StringsCommand{Token: tok, Names: names}
	case token.FUNCTION:
		return p.parseFunctionCommand()
	case token.MACRO:
		return p.parseMacroCommand()
	case token.READ:
		return &ast.ReadCommand{Token: p.curToken}
	case token.SORT:
		return &ast.SortCommand{Token: p.curToken}
	case token.EXECUTE:
		tok := p.curToken
		name := p.parseSingleName()
		if name == nil {
			return nil
		}
		return &ast.ExecuteCommand{Token: tok, Function: name}
	case token.ITERATE, token.REVERSE:
		tok := p.curToken
		name := p.parseSingleName()
		if name == nil {
			return nil
		}
		return &ast.IterateCommand{Token: tok, Function: name, Reverse: tok.Type == token.REVERSE}
	case token.ILLEGAL:
		p.illegalTokenError(p.curToken)
		return nil
	default:
		p.addError(p.curToken, "unknown command %q", p.curToken.Literal)
		return nil
	}
}

// parseEntryCommand parses ENTRY {fields} {integers} {strings}.
func (p *Parser) parseEntryCommand() ast.Command {
	cmd := &ast.EntryCommand{Token: p.curToken}
	if cmd.Fields = p.parseNameList(); cmd.Fields == nil {
		return nil
	}
	if cmd.Integers = p.parseNameList(); cmd.Integers == nil {
		return nil
	}
	if cmd.Strings = p.parseNameList(); cmd.Strings == nil {
		return nil
	}
	return cmd
}

// parseFunctionCommand parses FUNCTION {name} { body }.
func (p *Parser) parseFunctionCommand() ast.Command {
	cmd := &ast.FunctionCommand{Token: p.curToken}
	if cmd.Name = p.parseSingleName(); cmd.Name == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	body, ok := p.parseBody()
	if !ok {
		return nil
	}
	cmd.Body = body
	return cmd
}

// parseMacroCommand parses MACRO {name} {"text"}.
func (p *Parser) parseMacroCommand() ast.Command {
	cmd := &ast.MacroCommand{Token: p.curToken}
	if cmd.Name = p.parseSingleName(); cmd.Name == nil {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	if !p.expectPeek(token.STRING) {
		return nil
	}
	cmd.Value = p.curToken.Literal
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return cmd
}

// parseNameList parses { name name ... }. It returns a non-nil slice on
// success, possibly empty.
func (p *Parser) parseNameList() []*ast.Identifier {
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	names := []*ast.Identifier{}
	for {
		p.nextToken()
		switch {
		case p.curToken.Type == token.RBRACE:
			return names
		case isName(p.curToken.Type):
			names = append(names, newIdentifier(p.curToken))
		case p.curToken.Type == token.EOF:
			p.addError(p.curToken, "unterminated name list")
			return nil
		case p.curToken.Type == token.ILLEGAL:
			p.illegalTokenError(p.curToken)
			return nil
		default:
			p.addError(p.curToken, "expected a name, got %s %q", p.curToken.Type, p.curToken.Literal)
			return nil
		}
	}
}

// parseSingleName parses { name }.
func (p *Parser) parseSingleName() *ast.Identifier {
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()
	if !isName(p.curToken.Type) {
		if p.curToken.Type == token.ILLEGAL {
			p.illegalTokenError(p.curToken)
		} else {
			p.addError(p.curToken, "expected a name, got %s %q", p.curToken.Type, p.curToken.Literal)
		}
		return nil
	}
	id := newIdentifier(p.curToken)
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return id
}

// parseBody parses the elements of a function body. curToken is the
// opening brace; on return it is the matching closing brace.
func (p *Parser) parseBody() ([]ast.Element, bool) {
	open := p.curToken
	elems := []ast.Element{}
	for {
		p.nextToken()
		tok := p.curToken
		switch tok.Type {
		case token.RBRACE:
			return elems, true
		case token.EOF:
			p.addError(open, "unbalanced braces: function body is never closed")
			return nil, false
		case token.INTEGER:
			v, err := strconv.ParseInt(tok.Literal, 10, 32)
			if err != nil {
				p.addError(tok, "integer literal #%s out of range", tok.Literal)
				return nil, false
			}
			elems = append(elems, &ast.IntegerLiteral{Token: tok, Value: int32(v)})
		case token.STRING:
			elems = append(elems, &ast.StringLiteral{Token: tok, Value: tok.Literal})
		case token.QUOTED:
			elems = append(elems, &ast.QuotedFunction{Token: tok, Name: strings.ToLower(tok.Literal)})
		case token.LBRACE:
			inner, ok := p.parseBody()
			if !ok {
				return nil, false
			}
			elems = append(elems, &ast.Block{Token: tok, Elements: inner})
		case token.ILLEGAL:
			p.illegalTokenError(tok)
			return nil, false
		default:
			if !isName(tok.Type) {
				p.addError(tok, "unexpected %s %q in function body", tok.Type, tok.Literal)
				return nil, false
			}
			elems = append(elems, &ast.Call{Token: tok, Name: strings.ToLower(tok.Literal)})
		}
	}
}

// isName reports whether a token can serve as an identifier. Command
// keywords are accepted so that names like "sort" stay usable.
func isName(t token.TokenType) bool {
	return t == token.IDENT || token.IsCommand(t)
}

func newIdentifier(tok token.Token) *ast.Identifier {
	return &ast.Identifier{Token: tok, Value: strings.ToLower(tok.Literal)}
}

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekToken.Type == t {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t token.TokenType) {
	if p.peekToken.Type == token.ILLEGAL {
		p.illegalTokenError(p.peekToken)
		return
	}
	p.addError(p.peekToken, "expected next token to be %s, got %s instead", t, p.peekToken.Type)
}

func (p *Parser) illegalTokenError(tok token.Token) {
	msg := p.l.Err()
	if msg == "" {
		msg = fmt.Sprintf("illegal token %q", tok.Literal)
	}
	p.errors = append(p.errors, &ParserError{Message: msg, Line: tok.Line, Column: tok.Column, Lexical: true})
}

func (p *Parser) addError(tok token.Token, format string, args ...any) {
	p.errors = append(p.errors, &ParserError{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	})
}
