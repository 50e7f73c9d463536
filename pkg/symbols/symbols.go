// Package symbols implements the name scopes of a style program: global
// integers and strings, the per-record schema (fields, record-local
// integers and strings), user functions and the reserved built-in names.
package symbols

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies what a name denotes.
type Kind int

const (
	Unknown Kind = iota
	GlobalInt
	GlobalStr
	EntryField
	EntryLocalInt
	EntryLocalStr
	Function
	Builtin
)

func (k Kind) String() string {
	switch k {
	case GlobalInt:
		return "global integer"
	case GlobalStr:
		return "global string"
	case EntryField:
		return "entry field"
	case EntryLocalInt:
		return "entry integer"
	case EntryLocalStr:
		return "entry string"
	case Function:
		return "function"
	case Builtin:
		return "built-in function"
	default:
		return "unknown"
	}
}

// IsEntry reports whether the kind lives in the per-record scope.
func (k Kind) IsEntry() bool {
	return k == EntryField || k == EntryLocalInt || k == EntryLocalStr
}

// Implicitly declared names.
const (
	SortKey   = "sort.key$"
	Crossref  = "crossref"
	EntryMax  = "entry.max$"
	GlobalMax = "global.max$"
)

// ErrDuplicateDefinition is matched by every *DuplicateError.
var ErrDuplicateDefinition = errors.New("duplicate definition")

// DuplicateError reports a name that is declared twice.
type DuplicateError struct {
	Name     string
	Existing Kind
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s is already defined as a %s", e.Name, e.Existing)
}

func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicateDefinition
}

// Symbol is the result of a lookup. Index is the slot within the scope
// the kind refers to (for example the n-th global integer).
type Symbol struct {
	Name  string
	Kind  Kind
	Index int
}

// Table holds every declared name. A Table is built fresh for each run;
// it is not safe for concurrent mutation.
type Table struct {
	symbols map[string]Symbol

	fields     []string
	entryInts  []string
	entryStrs  []string
	globalInts []string
	globalStrs []string
	functions  []string
}

// New creates a table with the built-in names and the implicit variables
// already declared. Names are case-insensitive.
func New(builtins []string) *Table {
	t := &Table{symbols: make(map[string]Symbol)}
	for _, name := range builtins {
		name = strings.ToLower(name)
		t.symbols[name] = Symbol{Name: name, Kind: Builtin}
	}
	t.fields = append(t.fields, Crossref)
	t.symbols[Crossref] = Symbol{Name: Crossref, Kind: EntryField, Index: 0}
	t.entryStrs = append(t.entryStrs, SortKey)
	t.symbols[SortKey] = Symbol{Name: SortKey, Kind: EntryLocalStr, Index: 0}
	for _, name := range []string{EntryMax, GlobalMax} {
		t.symbols[name] = Symbol{Name: name, Kind: GlobalInt, Index: len(t.globalInts)}
		t.globalInts = append(t.globalInts, name)
	}
	return t
}

// DeclareEntrySchema adds record fields, record-local integers and
// record-local strings.
func (t *Table) DeclareEntrySchema(fields, ints, strs []string) error {
	for _, name := range fields {
		name = strings.ToLower(name)
		// crossref is implicit; styles commonly list it anyway.
		if name == Crossref {
			continue
		}
		if err := t.declare(name, EntryField, &t.fields); err != nil {
			return err
		}
	}
	for _, name := range ints {
		if err := t.declare(name, EntryLocalInt, &t.entryInts); err != nil {
			return err
		}
	}
	for _, name := range strs {
		if err := t.declare(name, EntryLocalStr, &t.entryStrs); err != nil {
			return err
		}
	}
	return nil
}

// DeclareGlobalInts adds global integer variables.
func (t *Table) DeclareGlobalInts(names []string) error {
	for _, name := range names {
		if err := t.declare(name, GlobalInt, &t.globalInts); err != nil {
			return err
		}
	}
	return nil
}

// DeclareGlobalStrs adds global string variables.
func (t *Table) DeclareGlobalStrs(names []string) error {
	for _, name := range names {
		if err := t.declare(name, GlobalStr, &t.globalStrs); err != nil {
			return err
		}
	}
	return nil
}

// DefineFunction adds a user function (or macro). It fails if the name
// already denotes a built-in, a variable or a previously defined function.
func (t *Table) DefineFunction(name string) error {
	return t.declare(name, Function, &t.functions)
}

func (t *Table) declare(name string, kind Kind, list *[]string) error {
	name = strings.ToLower(name)
	if existing, ok := t.symbols[name]; ok {
		return &DuplicateError{Name: name, Existing: existing.Kind}
	}
	t.symbols[name] = Symbol{Name: name, Kind: kind, Index: len(*list)}
	*list = append(*list, name)
	return nil
}

// Resolve looks a name up. The zero Symbol (Kind Unknown) is returned
// for undeclared names.
func (t *Table) Resolve(name string) Symbol {
	name = strings.ToLower(name)
	if sym, ok := t.symbols[name]; ok {
		return sym
	}
	return Symbol{Name: name, Kind: Unknown}
}

// Fields returns the declared field names in slot order.
func (t *Table) Fields() []string { return t.fields }

// EntryInts returns the record-local integer names in slot order.
func (t *Table) EntryInts() []string { return t.entryInts }

// EntryStrs returns the record-local string names in slot order.
func (t *Table) EntryStrs() []string { return t.entryStrs }

// GlobalInts returns the global integer names in slot order.
func (t *Table) GlobalInts() []string { return t.globalInts }

// GlobalStrs returns the global string names in slot order.
func (t *Table) GlobalStrs() []string { return t.globalStrs }

// Functions returns the user function names in definition order.
func (t *Table) Functions() []string { return t.functions }

// BuiltinNames lists every reserved built-in function name.
var BuiltinNames = []string{
	">", "<", "=", "+", "-", "*", ":=",
	"add.period$", "call.type$", "change.case$", "chr.to.int$", "cite$",
	"duplicate$", "empty$", "format.name$", "if$", "int.to.chr$",
	"int.to.str$", "missing$", "newline$", "num.names$", "pop$",
	"preamble$", "purify$", "quote$", "skip$", "stack$", "substring$",
	"swap$", "text.length$", "text.prefix$", "top$", "type$", "warning$",
	"while$", "width$", "write$",
}
