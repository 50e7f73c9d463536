// Package compiler provides the compilation pipeline for style programs (.bst files).
// It transforms source code into an immutable ast.Program through three phases:
// 1. Lexer: Tokenization
// 2. Parser: AST generation
// 3. Declaration check: every ENTRY/INTEGERS/STRINGS/FUNCTION/MACRO name is
//    replayed into a symbol table so clashes are reported before execution.
package compiler

import (
	"errors"
	"fmt"

	"github.com/zurustar/bibvm/pkg/compiler/ast"
	"github.com/zurustar/bibvm/pkg/compiler/lexer"
	"github.com/zurustar/bibvm/pkg/compiler/parser"
	"github.com/zurustar/bibvm/pkg/script"
	"github.com/zurustar/bibvm/pkg/symbols"
)

// Compile compiles source code to a Program.
// It chains the lexer → parser → declaration check pipeline and stops at
// the first phase that reports errors. All errors of that phase are
// returned joined; each one is a *CompileError.
//
// Parameters:
//   - source: UTF-8 encoded source code string
//
// Returns:
//   - *ast.Program: The parsed program, safe to share between runs
//   - error: nil on success
func Compile(source string) (*ast.Program, error) {
	l := lexer.New(source)
	p := parser.New(l)
	program, parseErrs := p.ParseProgram()

	if len(parseErrs) > 0 {
		compileErrors := make([]error, 0, len(parseErrs))
		for _, err := range parseErrs {
			var pe *parser.ParserError
			if errors.As(err, &pe) {
				phase := "parser"
				if pe.Lexical {
					phase = "lexer"
				}
				compileErrors = append(compileErrors, NewSyntaxErrorWithContext(
					phase, pe.Message, pe.Line, pe.Column, source))
			} else {
				compileErrors = append(compileErrors, err)
			}
		}
		return nil, errors.Join(compileErrors...)
	}

	if errs := CheckDeclarations(program, source); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return program, nil
}

// CompileFile reads a style file (decoding legacy 8-bit files) and compiles it.
func CompileFile(path string) (*ast.Program, error) {
	s, err := script.LoadFile(path)
	if err != nil {
		return nil, err
	}
	program, err := Compile(s.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.FileName, err)
	}
	return program, nil
}

// CheckDeclarations replays the declarations of a program into a fresh
// symbol table and reports every DuplicateDefinition.
func CheckDeclarations(program *ast.Program, source string) []error {
	table := symbols.New(symbols.BuiltinNames)
	var errs []error

	report := func(err error, id *ast.Identifier) {
		errs = append(errs, NewDuplicateErrorWithContext(err, id.Token.Line, id.Token.Column, source))
	}
	declareEach := func(ids []*ast.Identifier, declare func([]string) error) {
		for _, id := range ids {
			if err := declare([]string{id.Value}); err != nil {
				report(err, id)
			}
		}
	}

	for _, cmd := range program.Commands {
		switch c := cmd.(type) {
		case *ast.EntryCommand:
			declareEach(c.Fields, func(n []string) error { return table.DeclareEntrySchema(n, nil, nil) })
			declareEach(c.Integers, func(n []string) error { return table.DeclareEntrySchema(nil, n, nil) })
			declareEach(c.Strings, func(n []string) error { return table.DeclareEntrySchema(nil, nil, n) })
		case *ast.IntegersCommand:
			declareEach(c.Names, table.DeclareGlobalInts)
		case *ast.StringsCommand:
			declareEach(c.Names, table.DeclareGlobalStrs)
		case *ast.FunctionCommand:
			if err := table.DefineFunction(c.Name.Value); err != nil {
				report(err, c.Name)
			}
		case *ast.MacroCommand:
			if err := table.DefineFunction(c.Name.Value); err != nil {
				report(err, c.Name)
			}
		}
	}
	return errs
}

// Names returns the identifiers an ast.Identifier list holds.
func Names(ids []*ast.Identifier) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.Value
	}
	return names
}
