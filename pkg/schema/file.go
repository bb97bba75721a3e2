package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/leapterm/pkg/dialect"
	"github.com/leapstack-labs/leapterm/pkg/parser"
	"gopkg.in/yaml.v3"
)

// FileCatalog is a catalog loaded from a YAML schema file:
//
//	tables:
//	  - schema: public
//	    name: users
//	    columns:
//	      - name: id
//	        type: LONG
//	        nullable: false
//	      - name: tags
//	        native: text[]
//
// A column gives either a canonical type or a native type resolved by the
// catalog's dialect. Columns are nullable unless stated otherwise.
type FileCatalog struct {
	*Static
	Path string
}

// FileError is returned for schema files that cannot be parsed.
type FileError struct {
	Path    string
	Message string
}

func (e *FileError) Error() string {
	if e.Path == "" {
		return "schema file: " + e.Message
	}
	return fmt.Sprintf("schema file %s: %s", e.Path, e.Message)
}

// schemaFileYAML is the on-disk layout. Unknown fields are rejected.
type schemaFileYAML struct {
	Tables []tableYAML `yaml:"tables"`
}

type tableYAML struct {
	Schema  string       `yaml:"schema"`
	Name    string       `yaml:"name"`
	Columns []columnYAML `yaml:"columns"`
}

type columnYAML struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Native   string `yaml:"native"`
	Nullable *bool  `yaml:"nullable"`
}

// LoadFile reads a schema file. Native types are resolved with d.
func LoadFile(path string, d *dialect.Dialect) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	tables, err := decodeFile(data, d)
	if err != nil {
		var fe *FileError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	return &FileCatalog{Static: NewStatic(tables...), Path: path}, nil
}

// ParseFile decodes schema file content.
func ParseFile(data []byte, d *dialect.Dialect) (*FileCatalog, error) {
	tables, err := decodeFile(data, d)
	if err != nil {
		return nil, err
	}
	return &FileCatalog{Static: NewStatic(tables...)}, nil
}

func decodeFile(data []byte, d *dialect.Dialect) ([]*Table, error) {
	var raw schemaFileYAML
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, &FileError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}

	tables := make([]*Table, 0, len(raw.Tables))
	for i, rt := range raw.Tables {
		if rt.Name == "" {
			return nil, &FileError{Message: fmt.Sprintf("table %d has no name", i+1)}
		}
		t := &Table{Schema: rt.Schema, Name: rt.Name}
		if t.Schema == "" {
			t.Schema = d.DefaultSchema
		}
		for j, rc := range rt.Columns {
			col, err := decodeColumn(rc, j+1, d)
			if err != nil {
				return nil, &FileError{Message: fmt.Sprintf("table %s: %v", t.QualifiedName(), err)}
			}
			t.Columns = append(t.Columns, col)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func decodeColumn(rc columnYAML, position int, d *dialect.Dialect) (Column, error) {
	if rc.Name == "" {
		return Column{}, fmt.Errorf("column %d has no name", position)
	}
	nullable := rc.Nullable == nil || *rc.Nullable

	switch {
	case rc.Type != "" && rc.Native != "":
		return Column{}, fmt.Errorf("column %s: set either type or native, not both", rc.Name)
	case rc.Type != "":
		t, err := parser.ParseType(rc.Type)
		if err != nil {
			return Column{}, fmt.Errorf("column %s: %w", rc.Name, err)
		}
		return Column{Name: rc.Name, Type: t, NativeType: rc.Type, Nullable: nullable, Position: position}, nil
	case rc.Native != "":
		return NewColumn(d, rc.Name, rc.Native, nullable, position), nil
	default:
		return Column{}, fmt.Errorf("column %s has no type", rc.Name)
	}
}
