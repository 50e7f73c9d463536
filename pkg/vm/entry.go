package vm

import "strings"

// Record is one bibliographic entry supplied by the caller. The VM only
// reads through these three accessors; field names are passed lower-cased.
type Record interface {
	CitationKey() string
	EntryType() string
	Field(name string) (string, bool)
}

// fieldValue is a field snapshot taken by READ.
type fieldValue struct {
	value string
	ok    bool
}

// entry is the per-record scope: the wrapped record, its field values
// once READ has run, and its record-local variable slots. Slots grow on
// first use so that declarations after the entries exist still work.
type entry struct {
	record Record
	fields []fieldValue // nil until READ
	ints   []int32
	strs   []string
}

func newEntry(r Record) *entry {
	return &entry{record: r}
}

// CiteKey returns the record's citation key.
func (e *entry) CiteKey() string {
	return e.record.CitationKey()
}

// Type returns the record's type, lower-cased.
func (e *entry) Type() string {
	return strings.ToLower(e.record.EntryType())
}

// read snapshots the declared fields.
func (e *entry) read(names []string) {
	e.fields = make([]fieldValue, len(names))
	for i, name := range names {
		v, ok := e.record.Field(name)
		e.fields[i] = fieldValue{value: v, ok: ok}
	}
}

// Field returns the value of the i-th declared field. Before READ every
// field is missing.
func (e *entry) Field(i int) (string, bool) {
	if i >= len(e.fields) {
		return "", false
	}
	f := e.fields[i]
	return f.value, f.ok
}

func (e *entry) Int(i int) int32 {
	if i >= len(e.ints) {
		return 0
	}
	return e.ints[i]
}

func (e *entry) SetInt(i int, v int32) {
	for len(e.ints) <= i {
		e.ints = append(e.ints, 0)
	}
	e.ints[i] = v
}

func (e *entry) Str(i int) string {
	if i >= len(e.strs) {
		return ""
	}
	return e.strs[i]
}

func (e *entry) SetStr(i int, v string) {
	for len(e.strs) <= i {
		e.strs = append(e.strs, "")
	}
	e.strs[i] = v
}

// sort.key$ is always the first record-local string.
const sortKeySlot = 0

func (e *entry) SortKey() string     { return e.Str(sortKeySlot) }
func (e *entry) SetSortKey(k string) { e.SetStr(sortKeySlot, k) }
