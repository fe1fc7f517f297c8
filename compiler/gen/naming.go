package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

// rules is the shared inflection ruleset for pluralizing and
// singularizing identifiers in generated code.
var rules = ruleset()

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	for _, w := range []string{
		"API", "CSV", "DB", "GUID", "HTML", "HTTP", "ID", "IP",
		"JSON", "SQL", "SSH", "UI", "UID", "URI", "URL", "UUID", "XML",
	} {
		rules.AddAcronym(w)
	}
	return rules
}

// pascal converts an identifier to PascalCase, honoring acronyms.
func pascal(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	for i, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
			continue
		}
		words[i] = rules.Capitalize(w)
	}
	return strings.Join(words, "")
}

// camel converts an identifier to camelCase.
func camel(s string) string {
	p := pascal(s)
	if p == "" {
		return p
	}
	return strings.ToLower(p[:1]) + p[1:]
}

// snake converts an identifier to snake_case.
func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if isSeparator(r) {
			b.WriteByte('_')
			continue
		}
		if unicode.IsUpper(r) {
			if i > 0 && !isSeparator(rune(s[i-1])) && !unicode.IsUpper(rune(s[i-1])) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

var acronyms = func() map[string]struct{} {
	m := make(map[string]struct{})
	for _, w := range []string{"API", "DB", "ID", "JSON", "SQL", "UID", "URI", "URL", "UUID", "XML"} {
		m[w] = struct{}{}
	}
	return m
}()
