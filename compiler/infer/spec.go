package infer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/syssam/prismatic/compiler/load"
)

// Document is the JSON-serializable output consumed by the renderer and
// generator collaborators. The top-level keys, field names and nesting
// are a compatibility boundary and must not change.
type Document struct {
	AllTableFieldsSpec map[string]*TableSpec `json:"allTableFieldsSpec"`
	ManyToMany         []ManyToMany          `json:"manyToMany"`
	OneToMany          OneToManyGroup        `json:"oneToMany"`
	OneToOne           []OneToOne            `json:"oneToOne"`
}

// OneToManyGroup wraps the one-to-many records under their legacy
// "manyToOne" key.
type OneToManyGroup struct {
	ManyToOne []OneToMany `json:"manyToOne"`
}

// TableSpec describes one entity's fields for the renderer.
type TableSpec struct {
	Name   string                `json:"name"`
	DBName string                `json:"dbName"`
	Fields map[string]*FieldSpec `json:"fields"`
}

// FieldSpec is a field descriptor enriched with the derived
// presentation attributes.
type FieldSpec struct {
	Name        string    `json:"name"`
	Kind        load.Kind `json:"kind"`
	Type        string    `json:"type"`
	IsList      bool      `json:"isList"`
	IsRequired  bool      `json:"isRequired"`
	IsID        bool      `json:"isId"`
	IsUnique    bool      `json:"isUnique"`
	IsUpdatedAt bool      `json:"isUpdatedAt"`
	// IsSystemManaged marks fields the database maintains on its own:
	// auto-defaulted identifiers, auto-updated timestamps and
	// auto-created timestamps.
	IsSystemManaged bool `json:"isSystemManaged"`
	// OriginalLine is the reconstructed schema declaration line.
	OriginalLine string `json:"originalLine"`
}

// NewDocument builds the output document from the graph and the
// assembled registry.
func NewDocument(s *load.Schema, r *Registry) *Document {
	doc := &Document{
		AllTableFieldsSpec: make(map[string]*TableSpec, len(s.Entities)),
		ManyToMany:         r.ManyToMany,
		OneToMany:          OneToManyGroup{ManyToOne: r.OneToMany},
		OneToOne:           r.OneToOne,
	}
	if doc.ManyToMany == nil {
		doc.ManyToMany = []ManyToMany{}
	}
	if doc.OneToMany.ManyToOne == nil {
		doc.OneToMany.ManyToOne = []OneToMany{}
	}
	if doc.OneToOne == nil {
		doc.OneToOne = []OneToOne{}
	}
	for _, e := range s.Entities {
		spec := &TableSpec{
			Name:   e.Name,
			DBName: e.TableName(),
			Fields: make(map[string]*FieldSpec, len(e.Fields)),
		}
		for _, f := range e.Fields {
			spec.Fields[f.Name] = &FieldSpec{
				Name:            f.Name,
				Kind:            f.Kind,
				Type:            f.Type,
				IsList:          f.IsList,
				IsRequired:      f.IsRequired,
				IsID:            f.IsID,
				IsUnique:        f.IsUnique,
				IsUpdatedAt:     f.IsUpdatedAt,
				IsSystemManaged: systemManaged(f),
				OriginalLine:    originalLine(f),
			}
		}
		doc.AllTableFieldsSpec[e.Name] = spec
	}
	return doc
}

// MarshalIndent renders the document as indented JSON. Map keys are
// emitted in sorted order by encoding/json, so output is byte-identical
// across runs.
func (d *Document) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// systemManaged reports if the database maintains the field value:
// an auto-defaulted identifier, an auto-updated timestamp, or an
// auto-created timestamp.
func systemManaged(f *load.Field) bool {
	switch {
	case f.IsID && f.HasDefault():
		return true
	case f.IsUpdatedAt:
		return true
	case f.Default.Kind == load.NowFunction:
		return true
	}
	return false
}

// originalLine reconstructs a human-readable declaration line from the
// field flags, e.g. "id Int @id @default(autoincrement())".
func originalLine(f *load.Field) string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteByte(' ')
	b.WriteString(f.Type)
	if f.IsList {
		b.WriteString("[]")
	} else if !f.IsRequired {
		b.WriteString("?")
	}
	if f.IsID {
		b.WriteString(" @id")
	}
	if f.IsUnique {
		b.WriteString(" @unique")
	}
	switch f.Default.Kind {
	case load.Literal:
		fmt.Fprintf(&b, " @default(%s)", f.Default.Value)
	case load.NowFunction:
		b.WriteString(" @default(now())")
	case load.AutoincrementFunction:
		b.WriteString(" @default(autoincrement())")
	}
	if f.IsUpdatedAt {
		b.WriteString(" @updatedAt")
	}
	if f.RelationName != "" || len(f.RelationFKs) > 0 || len(f.References) > 0 {
		b.WriteString(" @relation(")
		var args []string
		if f.RelationName != "" {
			args = append(args, fmt.Sprintf("name: %q", f.RelationName))
		}
		if len(f.RelationFKs) > 0 {
			args = append(args, "fields: ["+strings.Join(f.RelationFKs, ", ")+"]")
		}
		if len(f.References) > 0 {
			args = append(args, "references: ["+strings.Join(f.References, ", ")+"]")
		}
		b.WriteString(strings.Join(args, ", "))
		b.WriteString(")")
	}
	if f.DBName != "" {
		fmt.Fprintf(&b, " @map(%q)", f.DBName)
	}
	return b.String()
}

// MarshalJSON emits the legacy wire shape:
//
//	{"relationTable": [{name, field}, {name, field}], "junctionTable": {...}}
func (m ManyToMany) MarshalJSON() ([]byte, error) {
	wire := struct {
		RelationTable []EntityField `json:"relationTable"`
		JunctionTable JunctionTable `json:"junctionTable"`
	}{
		RelationTable: []EntityField{m.A, m.B},
		JunctionTable: m.Junction,
	}
	return json.Marshal(wire)
}

// MarshalJSON emits the junction metadata with its dynamic side keys:
//
//	{"name": "EmployeeProject", "EmployeeField": "employeeId", "ProjectField": "projectId"}
func (j JunctionTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writePair(&buf, "name", j.Name); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writePair(&buf, j.EntityA+"Field", j.FieldA); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writePair(&buf, j.EntityB+"Field", j.FieldB); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON emits the one-to-many record under its wire keys.
func (r OneToMany) MarshalJSON() ([]byte, error) {
	wire := struct {
		Many EntityField `json:"many"`
		One  EntityField `json:"one"`
	}{Many: r.Many, One: r.One}
	return json.Marshal(wire)
}

// MarshalJSON emits the one-to-one record under its wire keys.
func (r OneToOne) MarshalJSON() ([]byte, error) {
	wire := struct {
		TableOne EntityField `json:"table_one"`
		TableTwo EntityField `json:"table_two"`
	}{TableOne: r.TableOne, TableTwo: r.TableTwo}
	return json.Marshal(wire)
}

func writePair(buf *bytes.Buffer, key, value string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}
