package symbols

import (
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNew_ImplicitNames(t *testing.T) {
	table := New(BuiltinNames)

	tests := []struct {
		name string
		kind Kind
	}{
		{Crossref, EntryField},
		{SortKey, EntryLocalStr},
		{EntryMax, GlobalInt},
		{GlobalMax, GlobalInt},
		{"write$", Builtin},
		{":=", Builtin},
		{"CITE$", Builtin},
		{"undeclared", Unknown},
	}
	for _, tt := range tests {
		if got := table.Resolve(tt.name).Kind; got != tt.kind {
			t.Errorf("Resolve(%q).Kind = %s, want %s", tt.name, got, tt.kind)
		}
	}
	if table.Resolve(SortKey).Index != 0 {
		t.Error("sort.key$ should be the first record-local string")
	}
}

func TestDeclarations(t *testing.T) {
	table := New(BuiltinNames)
	if err := table.DeclareEntrySchema([]string{"Author", "crossref", "title"}, []string{"n"}, []string{"label"}); err != nil {
		t.Fatalf("DeclareEntrySchema() error = %v", err)
	}
	if err := table.DeclareGlobalInts([]string{"count"}); err != nil {
		t.Fatalf("DeclareGlobalInts() error = %v", err)
	}
	if err := table.DeclareGlobalStrs([]string{"s"}); err != nil {
		t.Fatalf("DeclareGlobalStrs() error = %v", err)
	}
	if err := table.DefineFunction("presort"); err != nil {
		t.Fatalf("DefineFunction() error = %v", err)
	}

	tests := []struct {
		name  string
		kind  Kind
		index int
	}{
		{"author", EntryField, 1},
		{"title", EntryField, 2},
		{"n", EntryLocalInt, 0},
		{"label", EntryLocalStr, 1},
		{"count", GlobalInt, 2},
		{"s", GlobalStr, 0},
		{"PRESORT", Function, 0},
	}
	for _, tt := range tests {
		sym := table.Resolve(tt.name)
		if sym.Kind != tt.kind || sym.Index != tt.index {
			t.Errorf("Resolve(%q) = %s #%d, want %s #%d", tt.name, sym.Kind, sym.Index, tt.kind, tt.index)
		}
	}

	if got := table.Fields(); len(got) != 3 || got[0] != Crossref {
		t.Errorf("Fields() = %v, want crossref first and no duplicate", got)
	}
	if got := table.Functions(); len(got) != 1 || got[0] != "presort" {
		t.Errorf("Functions() = %v", got)
	}
	if got := len(table.GlobalInts()); got != 3 {
		t.Errorf("len(GlobalInts()) = %d, want 3", got)
	}
	if got := len(table.EntryStrs()); got != 2 {
		t.Errorf("len(EntryStrs()) = %d, want 2", got)
	}
	if got := len(table.EntryInts()); got != 1 {
		t.Errorf("len(EntryInts()) = %d, want 1", got)
	}
	if got := len(table.GlobalStrs()); got != 1 {
		t.Errorf("len(GlobalStrs()) = %d, want 1", got)
	}
}

func TestDuplicateDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		declare  func(*Table) error
		existing Kind
	}{
		{"function over built-in", func(t *Table) error { return t.DefineFunction("Write$") }, Builtin},
		{"integer over implicit", func(t *Table) error { return t.DeclareGlobalInts([]string{"global.max$"}) }, GlobalInt},
		{"string twice in one list", func(t *Table) error { return t.DeclareGlobalStrs([]string{"a", "A"}) }, GlobalStr},
		{"field over function", func(t *Table) error {
			if err := t.DefineFunction("title"); err != nil {
				return err
			}
			return t.DeclareEntrySchema([]string{"title"}, nil, nil)
		}, Function},
		{"entry string over sort key", func(t *Table) error { return t.DeclareEntrySchema(nil, nil, []string{"sort.key$"}) }, EntryLocalStr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.declare(New(BuiltinNames))
			if !errors.Is(err, ErrDuplicateDefinition) {
				t.Fatalf("error = %v, want a duplicate definition", err)
			}
			var de *DuplicateError
			if !errors.As(err, &de) || de.Existing != tt.existing {
				t.Errorf("error = %#v, want existing kind %s", err, tt.existing)
			}
		})
	}
}

func TestKind(t *testing.T) {
	for _, k := range []Kind{EntryField, EntryLocalInt, EntryLocalStr} {
		if !k.IsEntry() {
			t.Errorf("%s.IsEntry() = false", k)
		}
	}
	for _, k := range []Kind{Unknown, GlobalInt, GlobalStr, Function, Builtin} {
		if k.IsEntry() {
			t.Errorf("%s.IsEntry() = true", k)
		}
	}
	if Kind(math.MaxInt8).String() != "unknown" {
		t.Error("out-of-range kind should print as unknown")
	}
}

// 宣言した名前は大文字小文字を問わず同じシンボルに解決される
func TestProperty_CaseInsensitiveResolve(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("declared names resolve case-insensitively", prop.ForAll(
		func(name string) bool {
			table := New(nil)
			if err := table.DeclareGlobalInts([]string{name}); err != nil {
				return false
			}
			lower := table.Resolve(name)
			upper := table.Resolve(toUpperASCII(name))
			return lower.Kind == GlobalInt && upper == lower
		},
		gen.Identifier().SuchThat(func(s string) bool { return s != Crossref }),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func toUpperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'a' <= c && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
