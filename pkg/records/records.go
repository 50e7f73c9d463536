// Package records loads bibliographic records for the style VM. Record
// files are JSON, TOML or CBOR; all three share one schema:
//
//	preamble = "\\newcommand{\\noopsort}[1]{}"
//
//	[[records]]
//	key  = "knuth84"
//	type = "book"
//	[records.fields]
//	author = "Donald E. Knuth"
//	title  = "The {\\TeX}book"
//
// Field names and entry types are matched case-insensitively; field values
// are passed to the VM untouched.
package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/fxamacker/cbor/v2"

	"github.com/zurustar/bibvm/pkg/vm"
)

// Format identifies a record file encoding.
type Format string

const (
	JSON Format = "json"
	TOML Format = "toml"
	CBOR Format = "cbor"
)

var (
	// ErrUnknownFormat is returned for a file extension no decoder handles.
	ErrUnknownFormat = errors.New("unknown record format")
	// ErrInvalidRecord is returned when a record lacks a key or repeats one.
	ErrInvalidRecord = errors.New("invalid record")
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("records: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Record is one bibliographic entry. It implements vm.Record.
type Record struct {
	Key    string            `json:"key" toml:"key" cbor:"key"`
	Type   string            `json:"type" toml:"type" cbor:"type"`
	Fields map[string]string `json:"fields,omitempty" toml:"fields" cbor:"fields,omitempty"`
}

// CitationKey returns the record's key.
func (r *Record) CitationKey() string { return r.Key }

// EntryType returns the record's type as written.
func (r *Record) EntryType() string { return r.Type }

// Field looks a field up by lower-cased name.
func (r *Record) Field(name string) (string, bool) {
	v, ok := r.Fields[strings.ToLower(name)]
	return v, ok
}

// Database is the content of one record file.
type Database struct {
	Preamble string   `json:"preamble,omitempty" toml:"preamble" cbor:"preamble,omitempty"`
	Records  []Record `json:"records" toml:"records" cbor:"records"`
}

// VMRecords returns the records in file order as vm.Record values.
func (db *Database) VMRecords() []vm.Record {
	out := make([]vm.Record, len(db.Records))
	for i := range db.Records {
		out[i] = &db.Records[i]
	}
	return out
}

// normalize lower-cases field names and checks keys.
func (db *Database) normalize() error {
	seen := make(map[string]bool, len(db.Records))
	for i := range db.Records {
		r := &db.Records[i]
		if r.Key == "" {
			return fmt.Errorf("%w: record %d has no key", ErrInvalidRecord, i+1)
		}
		if seen[r.Key] {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalidRecord, r.Key)
		}
		seen[r.Key] = true

		fields := make(map[string]string, len(r.Fields))
		for name, v := range r.Fields {
			lower := strings.ToLower(name)
			if _, dup := fields[lower]; dup {
				return fmt.Errorf("%w: %s: field %q given twice", ErrInvalidRecord, r.Key, lower)
			}
			fields[lower] = v
		}
		r.Fields = fields
	}
	return nil
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".toml":
		return TOML, nil
	case ".cbor":
		return CBOR, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads a record file, choosing the decoder by extension.
func Load(path string) (*Database, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	db, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}

// Decode parses a record file body.
func Decode(data []byte, format Format) (*Database, error) {
	var db Database
	switch format {
	case JSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&db); err != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}
	case TOML:
		md, err := toml.Decode(string(data), &db)
		if err != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse error: unknown keys %v", undecoded)
		}
	case CBOR:
		if err := cbor.Unmarshal(data, &db); err != nil {
			return nil, fmt.Errorf("unmarshal records: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := db.normalize(); err != nil {
		return nil, err
	}
	return &db, nil
}

// Encode serializes db. CBOR output is canonical, so equal databases
// encode to equal bytes.
func Encode(db *Database, format Format) ([]byte, error) {
	switch format {
	case JSON:
		return json.MarshalIndent(db, "", "  ")
	case TOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(db); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case CBOR:
		return cborEncMode.Marshal(db)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Save writes db to path in the format its extension names.
func Save(path string, db *Database) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(db, format)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}
