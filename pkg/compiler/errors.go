// Package compiler provides the compilation pipeline for style programs (.bst files).
// This file defines the CompileError type for structured error reporting.
package compiler

import (
	"fmt"
	"strings"
)

// ErrorKind distinguishes malformed program text from clashing declarations.
type ErrorKind string

const (
	SyntaxError         ErrorKind = "SyntaxError"
	DuplicateDefinition ErrorKind = "DuplicateDefinition"
)

// CompileError represents a structured compilation error with location information.
// It implements the error interface and provides detailed context about where
// the error occurred in the source code.
type CompileError struct {
	// Phase indicates which compilation phase generated the error.
	// Valid values: "lexer", "parser", "compiler"
	Phase string

	// Kind is SyntaxError for lexer and parser errors and
	// DuplicateDefinition for declaration clashes.
	Kind ErrorKind

	// Message is the human-readable error description.
	Message string

	// Line is the 1-indexed line number where the error occurred.
	Line int

	// Column is the 1-indexed column number where the error occurred.
	Column int

	// Context contains the source code around the error location,
	// with a pointer (^) indicating the error column.
	Context string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
// It returns a formatted error message including phase, location, message, and context.
func (e *CompileError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s error at line %d, column %d: %s\n%s",
			e.Phase, e.Line, e.Column, e.Message, e.Context)
	}
	return fmt.Sprintf("%s error at line %d, column %d: %s",
		e.Phase, e.Line, e.Column, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CompileError) Unwrap() error {
	return e.Err
}

// NewSyntaxErrorWithContext creates a SyntaxError for the lexer or parser phase.
//
// Parameters:
//   - phase: "lexer" or "parser"
//   - message: The error description
//   - line: The 1-indexed line number
//   - column: The 1-indexed column number
//   - source: The full source code for generating context
//
// Returns:
//   - *CompileError: A new syntax error with context
func NewSyntaxErrorWithContext(phase, message string, line, column int, source string) *CompileError {
	return &CompileError{
		Phase:   phase,
		Kind:    SyntaxError,
		Message: message,
		Line:    line,
		Column:  column,
		Context: GenerateErrorContext(source, line, column),
	}
}

// NewDuplicateErrorWithContext creates a DuplicateDefinition error for the
// declaration check.
func NewDuplicateErrorWithContext(err error, line, column int, source string) *CompileError {
	return &CompileError{
		Phase:   "compiler",
		Kind:    DuplicateDefinition,
		Message: err.Error(),
		Line:    line,
		Column:  column,
		Context: GenerateErrorContext(source, line, column),
		Err:     err,
	}
}

// GenerateErrorContext generates source code context around an error location.
// It includes 2 lines before and 2 lines after the error line, with line numbers
// and a pointer (^) indicating the error column.
//
// Parameters:
//   - source: The full source code
//   - line: The 1-indexed line number of the error
//   - column: The 1-indexed column number of the error
//
// Returns:
//   - string: Formatted context string with line numbers and error pointer
//
// Example output:
//
//	  2 | FUNCTION {output}
//	  3 | { duplicate$
//	> 4 |   "oops write$
//	    |   ^
//	  5 | }
//	  6 | READ
func GenerateErrorContext(source string, line, column int) string {
	if source == "" || line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}

	// Calculate the range of lines to show (2 before and 2 after)
	start := line - 3 // 2 lines before (0-indexed: line-1-2 = line-3)
	if start < 0 {
		start = 0
	}
	end := line + 2 // 2 lines after (0-indexed: line-1+2+1 = line+2)
	if end > len(lines) {
		end = len(lines)
	}

	var buf strings.Builder

	// Calculate the width needed for line numbers
	maxLineNum := end
	lineNumWidth := len(fmt.Sprintf("%d", maxLineNum))

	for i := start; i < end; i++ {
		lineNum := i + 1 // Convert to 1-indexed
		lineContent := lines[i]

		if lineNum == line {
			// Error line - mark with >
			buf.WriteString(fmt.Sprintf("> %*d | %s\n", lineNumWidth, lineNum, lineContent))
			// Add pointer line
			// Calculate spaces: "> " + lineNumWidth + " | " + (column-1) spaces + "^"
			pointerIndent := 2 + lineNumWidth + 3 // "> " + lineNumWidth + " | "
			if column > 0 {
				buf.WriteString(fmt.Sprintf("%s%s^\n", strings.Repeat(" ", pointerIndent), strings.Repeat(" ", column-1)))
			} else {
				buf.WriteString(fmt.Sprintf("%s^\n", strings.Repeat(" ", pointerIndent)))
			}
		} else {
			// Context line
			buf.WriteString(fmt.Sprintf("  %*d | %s\n", lineNumWidth, lineNum, lineContent))
		}
	}

	return buf.String()
}
