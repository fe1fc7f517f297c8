// Package parse turns Prisma-dialect schema text into the normalized
// graph defined by compiler/load. It is the introspection front-end of
// the pipeline; everything downstream works on the graph only.
package parse

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/syssam/prismatic/compiler/load"
)

var prismaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Number", Pattern: `[-+]?\d+(\.\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "BlockAttr", Pattern: `@@`},
	{Name: "Punct", Pattern: `[@{}\[\](),:?.=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var parser = participle.MustBuild[File](
	participle.Lexer(prismaLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Parse parses schema source text and builds the normalized graph.
// The name is used in error positions only.
func Parse(name string, data []byte) (*load.Schema, error) {
	file, err := parser.ParseBytes(name, data)
	if err != nil {
		return nil, fmt.Errorf("prismatic: parse %s: %w", name, err)
	}
	return buildGraph(file)
}

// buildGraph lowers the AST into load entities. Model names become
// object field types; enum names and everything else stay scalar.
func buildGraph(file *File) (*load.Schema, error) {
	models := make(map[string]struct{})
	for _, d := range file.Decls {
		if d.Model != nil {
			models[d.Model.Name] = struct{}{}
		}
	}
	var entities []*load.Entity
	for _, d := range file.Decls {
		if d.Model == nil {
			continue
		}
		e := &load.Entity{Name: d.Model.Name}
		for _, item := range d.Model.Items {
			switch {
			case item.BlockAttr != nil:
				if item.BlockAttr.Name == "map" {
					e.DBName = firstString(item.BlockAttr.Args)
				}
			case item.Field != nil:
				e.Fields = append(e.Fields, buildField(item.Field, models))
			}
		}
		entities = append(entities, e)
	}
	return load.NewSchema(entities...)
}

func buildField(fd *FieldDecl, models map[string]struct{}) *load.Field {
	f := &load.Field{
		Name:       fd.Name,
		Kind:       load.Scalar,
		Type:       fd.Type,
		IsList:     fd.List,
		IsRequired: !fd.Optional,
	}
	if _, ok := models[fd.Type]; ok {
		f.Kind = load.Object
	}
	for _, attr := range fd.Attrs {
		applyAttr(f, attr)
	}
	return f
}

func applyAttr(f *load.Field, attr *Attr) {
	// Native type attributes (@db.VarChar and friends) carry no
	// relation or presentation semantics.
	if attr.Sub != "" {
		return
	}
	switch attr.Name {
	case "id":
		f.IsID = true
	case "unique":
		f.IsUnique = true
	case "updatedAt":
		f.IsUpdatedAt = true
	case "map":
		f.DBName = firstString(attr.Args)
	case "default":
		f.Default = defaultValue(attr.Args)
	case "relation":
		applyRelation(f, attr.Args)
	}
}

// defaultValue lowers a @default argument into the closed tagged
// variant. Functions other than now()/autoincrement() (uuid(), cuid(),
// dbgenerated()...) are carried as literal source text.
func defaultValue(args []*Arg) load.DefaultValue {
	if len(args) == 0 {
		return load.DefaultValue{}
	}
	v := args[0].Value
	if v.Func != nil {
		switch v.Func.Name {
		case "now":
			return load.DefaultValue{Kind: load.NowFunction}
		case "autoincrement":
			return load.DefaultValue{Kind: load.AutoincrementFunction}
		default:
			return load.DefaultValue{Kind: load.Literal, Value: v.text()}
		}
	}
	return load.DefaultValue{Kind: load.Literal, Value: v.text()}
}

func applyRelation(f *load.Field, args []*Arg) {
	for i, arg := range args {
		switch arg.Label {
		case "name":
			f.RelationName = unquote(arg.Value.text())
		case "fields":
			f.RelationFKs = identList(arg.Value)
		case "references":
			f.References = identList(arg.Value)
		case "":
			// A single positional string is the relation name.
			if i == 0 && arg.Value.Str != nil {
				f.RelationName = unquote(*arg.Value.Str)
			}
		}
	}
}

func identList(v *Value) []string {
	if v == nil || v.List == nil {
		return nil
	}
	names := make([]string, 0, len(v.List))
	for _, item := range v.List {
		names = append(names, item.text())
	}
	return names
}

func firstString(args []*Arg) string {
	if len(args) == 0 || args[0].Value == nil {
		return ""
	}
	return unquote(args[0].Value.text())
}

// text renders a value back to source form, used for literal defaults
// and list members.
func (v *Value) text() string {
	switch {
	case v.Func != nil:
		parts := make([]string, 0, len(v.Func.Args))
		for _, a := range v.Func.Args {
			parts = append(parts, a.text())
		}
		return v.Func.Name + "(" + strings.Join(parts, ", ") + ")"
	case v.Str != nil:
		return *v.Str
	case v.Number != nil:
		return *v.Number
	case v.Ident != nil:
		return *v.Ident
	case v.List != nil:
		parts := make([]string, 0, len(v.List))
		for _, item := range v.List {
			parts = append(parts, item.text())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return ""
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s
}
