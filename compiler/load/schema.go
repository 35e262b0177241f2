// Package load reads table and record declarations from YAML schema files.
package load

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/syssam/boxql"
)

// Types lists the column types a schema may declare.
var Types = []string{"bool", "integer", "bigint", "float", "text", "timestamp", "uuid"}

// Schema is a loaded schema file.
type Schema struct {
	Package string    `yaml:"package"`
	Tables  []*Table  `yaml:"tables"`
	Records []*Record `yaml:"records,omitempty"`
}

// Table declares a table and its columns.
type Table struct {
	Name    string    `yaml:"name"`
	Comment string    `yaml:"comment,omitempty"`
	Columns []*Column `yaml:"columns"`
}

// Column declares a column of a table.
type Column struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	Nullable   bool   `yaml:"nullable,omitempty"`
	PrimaryKey bool   `yaml:"primary_key,omitempty"`
}

// Record declares a Go struct mapped onto a table row.
type Record struct {
	Name            string   `yaml:"name"`
	Table           string   `yaml:"table"`
	TreatNoneAsNull bool     `yaml:"treat_none_as_null,omitempty"`
	Fields          []*Field `yaml:"fields,omitempty"`
}

// Field selects a column into a record's changeset. Optional defaults to the
// column's nullability.
type Field struct {
	Column   string `yaml:"column"`
	Optional *bool  `yaml:"optional,omitempty"`
}

// Load reads and validates the schema file at path.
func Load(path string) (*Schema, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: reading schema: %w", err)
	}
	s, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("load: %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a schema. Unknown keys are rejected.
func Parse(buf []byte) (*Schema, error) {
	dec := yaml.NewDecoder(bytes.NewReader(buf))
	dec.KnownFields(true)
	s := &Schema{}
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Table returns the table with the given name.
func (s *Schema) Table(name string) (*Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// RecordsOf returns the records mapped onto table t, in declaration order.
func (s *Schema) RecordsOf(t *Table) []*Record {
	var rs []*Record
	for _, r := range s.Records {
		if r.Table == t.Name {
			rs = append(rs, r)
		}
	}
	return rs
}

// Validate checks the schema for undeclared, duplicated or unsupported names.
// All problems are reported together.
func (s *Schema) Validate() error {
	var errs []error
	if s.Package != "" && !token.IsIdentifier(s.Package) {
		errs = append(errs, boxql.NewValidationError(s.Package, errors.New("package is not a Go identifier")))
	}
	if len(s.Tables) == 0 {
		errs = append(errs, boxql.NewValidationError("tables", errors.New("no table declared")))
	}
	tables := make(map[string]bool, len(s.Tables))
	for _, t := range s.Tables {
		if tables[t.Name] {
			errs = append(errs, boxql.NewValidationError(t.Name, errors.New("table declared twice")))
		}
		tables[t.Name] = true
		errs = append(errs, t.validate()...)
	}
	records := make(map[string]bool, len(s.Records))
	for _, r := range s.Records {
		if records[r.Name] {
			errs = append(errs, boxql.NewValidationError(r.Name, errors.New("record declared twice")))
		}
		records[r.Name] = true
		t, ok := s.Table(r.Table)
		if !ok {
			errs = append(errs, boxql.NewValidationError(r.Name, fmt.Errorf("unknown table %q", r.Table)))
			continue
		}
		errs = append(errs, r.validate(t)...)
	}
	return errors.Join(errs...)
}

func (t *Table) validate() []error {
	var errs []error
	if t.Name == "" {
		return append(errs, boxql.NewValidationError("table", errors.New("missing name")))
	}
	if len(t.Columns) == 0 {
		errs = append(errs, boxql.NewValidationError(t.Name, errors.New("no column declared")))
	}
	seen := make(map[string]bool, len(t.Columns))
	var pks int
	for _, c := range t.Columns {
		name := t.Name + "." + c.Name
		switch {
		case c.Name == "":
			errs = append(errs, boxql.NewValidationError(t.Name, errors.New("column without name")))
		case seen[c.Name]:
			errs = append(errs, boxql.NewValidationError(name, errors.New("column declared twice")))
		case !slices.Contains(Types, c.Type):
			errs = append(errs, boxql.NewValidationError(name, fmt.Errorf("unsupported type %q", c.Type)))
		case c.PrimaryKey && c.Nullable:
			errs = append(errs, boxql.NewValidationError(name, errors.New("primary key cannot be nullable")))
		}
		seen[c.Name] = true
		if c.PrimaryKey {
			pks++
		}
	}
	if pks > 1 {
		errs = append(errs, boxql.NewValidationError(t.Name, errors.New("more than one primary key")))
	}
	return errs
}

func (r *Record) validate(t *Table) []error {
	var errs []error
	if !token.IsIdentifier(r.Name) || !token.IsExported(r.Name) {
		errs = append(errs, boxql.NewValidationError(r.Name, errors.New("record name is not an exported Go identifier")))
	}
	seen := make(map[string]bool, len(r.Fields))
	for _, f := range r.Fields {
		c, ok := t.Column(f.Column)
		switch {
		case !ok:
			errs = append(errs, boxql.NewValidationError(r.Name, fmt.Errorf("unknown column %q of table %q", f.Column, t.Name)))
		case c.PrimaryKey:
			errs = append(errs, boxql.NewValidationError(r.Name, fmt.Errorf("primary key %q cannot be a changeset field", f.Column)))
		case seen[f.Column]:
			errs = append(errs, boxql.NewValidationError(r.Name, fmt.Errorf("field %q listed twice", f.Column)))
		}
		seen[f.Column] = true
	}
	return errs
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// PrimaryKey returns the primary-key column, if any.
func (t *Table) PrimaryKey() (*Column, bool) {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c, true
		}
	}
	return nil, false
}

// ChangesetFields returns the fields of r. Without an explicit list, every
// column except the primary key is a field.
func (r *Record) ChangesetFields(t *Table) []*Field {
	if len(r.Fields) > 0 {
		return r.Fields
	}
	fs := make([]*Field, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.PrimaryKey {
			fs = append(fs, &Field{Column: c.Name})
		}
	}
	return fs
}

// IsOptional reports whether the field is skipped when unset.
func (f *Field) IsOptional(c *Column) bool {
	if f.Optional != nil {
		return *f.Optional
	}
	return c.Nullable
}
