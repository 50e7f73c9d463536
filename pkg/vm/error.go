package vm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents the type of runtime error.
type ErrorType string

const (
	ErrorDuplicateDefinition ErrorType = "DUPLICATE_DEFINITION"
	ErrorUnknownIdentifier   ErrorType = "UNKNOWN_IDENTIFIER"
	ErrorStackUnderflow      ErrorType = "STACK_UNDERFLOW"
	ErrorTypeMismatch        ErrorType = "TYPE_MISMATCH"
	ErrorRange               ErrorType = "RANGE_ERROR"
	ErrorNoCurrentEntry      ErrorType = "NO_CURRENT_ENTRY"
	ErrorStackOverflow       ErrorType = "STACK_OVERFLOW"
)

// Sentinels for errors.Is. Each matches every *RuntimeError of its type.
var (
	ErrDuplicateDefinition = errors.New("duplicate definition")
	ErrUnknownIdentifier   = errors.New("unknown identifier")
	ErrStackUnderflow      = errors.New("stack underflow")
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrRange               = errors.New("range error")
	ErrNoCurrentEntry      = errors.New("no current entry")
	ErrStackOverflow       = errors.New("stack overflow")
)

var sentinels = map[ErrorType]error{
	ErrorDuplicateDefinition: ErrDuplicateDefinition,
	ErrorUnknownIdentifier:   ErrUnknownIdentifier,
	ErrorStackUnderflow:      ErrStackUnderflow,
	ErrorTypeMismatch:        ErrTypeMismatch,
	ErrorRange:               ErrRange,
	ErrorNoCurrentEntry:      ErrNoCurrentEntry,
	ErrorStackOverflow:       ErrStackOverflow,
}

// RuntimeError aborts a run. The context fields are filled in as the
// error travels up: Function by the innermost call, Command, CiteKey and
// StackDepth by the driver.
type RuntimeError struct {
	Type       ErrorType
	Message    string
	Command    string // top-level command, e.g. "ITERATE {presort}"
	Function   string // innermost function being executed
	CiteKey    string // current record, if any
	StackDepth int
	Err        error // underlying cause, if any
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	var ctx []string
	if e.Command != "" {
		ctx = append(ctx, "command "+e.Command)
	}
	if e.Function != "" {
		ctx = append(ctx, "function "+e.Function)
	}
	if e.CiteKey != "" {
		ctx = append(ctx, "entry "+e.CiteKey)
	}
	if len(ctx) == 0 {
		return fmt.Sprintf("[%s] %s", e.Type, e.Message)
	}
	return fmt.Sprintf("[%s] %s (%s, stack depth %d)", e.Type, e.Message, strings.Join(ctx, ", "), e.StackDepth)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error's type.
func (e *RuntimeError) Is(target error) bool {
	s, ok := sentinels[e.Type]
	return ok && s == target
}

// NewRuntimeError creates a new RuntimeError.
func NewRuntimeError(errType ErrorType, message string) *RuntimeError {
	return &RuntimeError{
		Type:    errType,
		Message: message,
	}
}

func newUnknownIdentifierError(name string) *RuntimeError {
	return NewRuntimeError(ErrorUnknownIdentifier, fmt.Sprintf("unknown function or variable: %s", name))
}

func newStackUnderflowError(fn string, need, have int) *RuntimeError {
	return NewRuntimeError(ErrorStackUnderflow,
		fmt.Sprintf("not enough operands on stack for %s: need %d, have %d", fn, need, have))
}

func newTypeMismatchError(fn string, want ValueKind, got Value) *RuntimeError {
	return NewRuntimeError(ErrorTypeMismatch,
		fmt.Sprintf("%s expects %s, got %s %s", fn, want, got.Kind, got))
}

func newRangeError(fn, format string, args ...any) *RuntimeError {
	return NewRuntimeError(ErrorRange, fn+": "+fmt.Sprintf(format, args...))
}

func newNoCurrentEntryError(what string) *RuntimeError {
	return NewRuntimeError(ErrorNoCurrentEntry,
		fmt.Sprintf("%s can only be used while iterating over entries (ITERATE or REVERSE)", what))
}
