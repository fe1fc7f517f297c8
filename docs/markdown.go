// Package docs renders the inference output document as Markdown for
// humans. Presentation ordering lives here, not in the engine: tables
// are sorted alphabetically, with one prioritized entity optionally
// pinned first.
package docs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/prismatic/compiler/infer"
)

var rules = inflect.NewDefaultRuleset()

// Renderer writes a Markdown report from an inference document.
type Renderer struct {
	// Title is the top-level heading. Defaults to "Schema Reference".
	Title string
	// Pinned names the entity listed before the alphabetical rest.
	Pinned string
}

// Render produces the full Markdown document.
func (r *Renderer) Render(doc *infer.Document) string {
	var b strings.Builder
	title := r.Title
	if title == "" {
		title = "Schema Reference"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%d %s, %d many-to-many, %d one-to-many, %d one-to-one\n\n",
		len(doc.AllTableFieldsSpec), pluralize("table", len(doc.AllTableFieldsSpec)),
		len(doc.ManyToMany)/2, len(doc.OneToMany.ManyToOne), len(doc.OneToOne))

	for _, name := range r.tableOrder(doc) {
		r.renderTable(&b, doc.AllTableFieldsSpec[name])
	}
	r.renderRelationships(&b, doc)
	return b.String()
}

// tableOrder sorts entity names alphabetically and pins the prioritized
// entity first when present.
func (r *Renderer) tableOrder(doc *infer.Document) []string {
	names := make([]string, 0, len(doc.AllTableFieldsSpec))
	for name := range doc.AllTableFieldsSpec {
		names = append(names, name)
	}
	sort.Strings(names)
	if r.Pinned == "" {
		return names
	}
	ordered := make([]string, 0, len(names))
	for _, name := range names {
		if name == r.Pinned {
			ordered = append([]string{name}, ordered...)
			continue
		}
		ordered = append(ordered, name)
	}
	return ordered
}

func (r *Renderer) renderTable(b *strings.Builder, table *infer.TableSpec) {
	fmt.Fprintf(b, "## %s\n\n", table.Name)
	if table.DBName != table.Name {
		fmt.Fprintf(b, "Mapped to `%s`.\n\n", table.DBName)
	}
	b.WriteString("| Field | Declaration | System managed |\n")
	b.WriteString("| --- | --- | --- |\n")
	names := make([]string, 0, len(table.Fields))
	for name := range table.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f := table.Fields[name]
		managed := ""
		if f.IsSystemManaged {
			managed = "yes"
		}
		fmt.Fprintf(b, "| %s | `%s` | %s |\n", f.Name, f.OriginalLine, managed)
	}
	b.WriteString("\n")
}

func (r *Renderer) renderRelationships(b *strings.Builder, doc *infer.Document) {
	b.WriteString("## Relationships\n\n")
	if len(doc.ManyToMany) > 0 {
		b.WriteString("### Many to many\n\n")
		// Mirrored pairs carry the same junction; list each once.
		seen := make(map[string]struct{})
		for _, m := range doc.ManyToMany {
			if _, ok := seen[m.Junction.Name]; ok {
				continue
			}
			seen[m.Junction.Name] = struct{}{}
			fmt.Fprintf(b, "- `%s` ↔ `%s` through junction table `%s` (`%s.%s`, `%s.%s`)\n",
				m.Junction.EntityA, m.Junction.EntityB, m.Junction.Name,
				m.Junction.Name, m.Junction.FieldA, m.Junction.Name, m.Junction.FieldB)
		}
		b.WriteString("\n")
	}
	if len(doc.OneToMany.ManyToOne) > 0 {
		b.WriteString("### One to many\n\n")
		for _, rel := range doc.OneToMany.ManyToOne {
			fmt.Fprintf(b, "- one `%s` has many %s via `%s.%s`; each `%s` points back via `%s.%s`\n",
				rel.One.Name, pluralize(rel.Many.Name, 2),
				rel.One.Name, rel.One.Field,
				rel.Many.Name, rel.Many.Name, rel.Many.Field)
		}
		b.WriteString("\n")
	}
	if len(doc.OneToOne) > 0 {
		b.WriteString("### One to one\n\n")
		for _, rel := range doc.OneToOne {
			fmt.Fprintf(b, "- `%s.%s` ↔ `%s.%s`\n",
				rel.TableOne.Name, rel.TableOne.Field,
				rel.TableTwo.Name, rel.TableTwo.Field)
		}
		b.WriteString("\n")
	}
}

func pluralize(word string, n int) string {
	if n == 1 {
		return word
	}
	return rules.Pluralize(word)
}
