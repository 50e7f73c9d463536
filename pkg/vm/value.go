package vm

import (
	"fmt"
	"strconv"

	"github.com/zurustar/bibvm/pkg/compiler/ast"
)

// ValueKind tags the variants of Value.
type ValueKind int

const (
	IntValue ValueKind = iota
	StringValue
	FunctionValue
)

func (k ValueKind) String() string {
	switch k {
	case IntValue:
		return "integer"
	case StringValue:
		return "string"
	case FunctionValue:
		return "function"
	default:
		return "unknown"
	}
}

// Boolean results of predicates and comparisons.
const (
	False int32 = 0
	True  int32 = 1
)

// FunctionRef is an unevaluated function: either a name resolved at call
// time ('name) or an inline body ({ ... }).
type FunctionRef struct {
	Name string
	Body []ast.Element
}

func (f *FunctionRef) String() string {
	if f.Name != "" {
		return "'" + f.Name
	}
	return ast.BodyString(f.Body)
}

// Value is one stack slot.
type Value struct {
	Kind ValueKind
	Int  int32
	Str  string
	Func *FunctionRef
	// Missing marks the string pushed for a field the record does not
	// have. It reads as "" everywhere except missing$ and empty$.
	Missing bool
}

// Int returns an integer value.
func Int(i int32) Value { return Value{Kind: IntValue, Int: i} }

// Bool returns True or False as an integer value.
func Bool(b bool) Value {
	if b {
		return Int(True)
	}
	return Int(False)
}

// String returns a string value.
func String(s string) Value { return Value{Kind: StringValue, Str: s} }

// Missing returns the value of an absent field.
func Missing() Value { return Value{Kind: StringValue, Missing: true} }

// Func returns a function reference value.
func Func(ref *FunctionRef) Value { return Value{Kind: FunctionValue, Func: ref} }

// String renders the value the way stack$ and top$ log it.
func (v Value) String() string {
	switch v.Kind {
	case IntValue:
		return strconv.Itoa(int(v.Int))
	case StringValue:
		if v.Missing {
			return "<missing>"
		}
		return strconv.Quote(v.Str)
	case FunctionValue:
		return v.Func.String()
	default:
		return fmt.Sprintf("<%d>", v.Kind)
	}
}
