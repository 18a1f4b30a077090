package dom

import (
	"strings"

	"github.com/eringen/hws/content"
	"golang.org/x/net/html"
)

// Style is an inline style attribute as ordered declarations.
type Style struct {
	decls []content.Declaration
}

// ParseStyle splits a style attribute into declarations. Semicolons inside
// quotes or parentheses do not end a declaration.
func ParseStyle(s string) *Style {
	st := &Style{}
	for _, part := range splitDeclarations(s) {
		i := strings.IndexByte(part, ':')
		if i <= 0 {
			continue
		}
		prop := strings.TrimSpace(part[:i])
		val := strings.TrimSpace(part[i+1:])
		if prop == "" || val == "" {
			continue
		}
		st.Set(prop, val)
	}
	return st
}

func splitDeclarations(s string) []string {
	var parts []string
	var quote byte
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			if depth > 0 {
				depth--
			}
		case ch == ';' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func normalizeProperty(prop string) string {
	prop = strings.TrimSpace(prop)
	if strings.HasPrefix(prop, "--") {
		return prop
	}
	return strings.ToLower(prop)
}

// Get returns the value of prop, or "".
func (s *Style) Get(prop string) string {
	prop = normalizeProperty(prop)
	for _, d := range s.decls {
		if d.Property == prop {
			return d.Value
		}
	}
	return ""
}

// Set writes prop. An empty value removes it. Existing properties keep their
// position.
func (s *Style) Set(prop, value string) {
	prop = normalizeProperty(prop)
	if value == "" {
		s.Remove(prop)
		return
	}
	for i, d := range s.decls {
		if d.Property == prop {
			s.decls[i].Value = value
			return
		}
	}
	s.decls = append(s.decls, content.Declaration{Property: prop, Value: value})
}

// Remove deletes prop.
func (s *Style) Remove(prop string) {
	prop = normalizeProperty(prop)
	out := s.decls[:0]
	for _, d := range s.decls {
		if d.Property != prop {
			out = append(out, d)
		}
	}
	s.decls = out
}

// Len returns the number of declarations.
func (s *Style) Len() int { return len(s.decls) }

// Declarations returns a copy of the declarations in order.
func (s *Style) Declarations() []content.Declaration {
	out := make([]content.Declaration, len(s.decls))
	copy(out, s.decls)
	return out
}

// String serializes the declarations as "prop: value;" pairs.
func (s *Style) String() string {
	parts := make([]string, len(s.decls))
	for i, d := range s.decls {
		parts[i] = d.Property + ": " + d.Value + ";"
	}
	return strings.Join(parts, " ")
}

// GetStyle reads one property from n's style attribute.
func GetStyle(n *html.Node, prop string) string {
	return ParseStyle(Attr(n, "style")).Get(prop)
}

// SetStyleProperty writes one property into n's style attribute. An empty
// value removes the property and an emptied style removes the attribute.
func SetStyleProperty(n *html.Node, prop, value string) {
	st := ParseStyle(Attr(n, "style"))
	st.Set(prop, value)
	writeStyle(n, st)
}

// SetStyleProperties applies several declarations with one parse.
func SetStyleProperties(n *html.Node, decls []content.Declaration) {
	if len(decls) == 0 {
		return
	}
	st := ParseStyle(Attr(n, "style"))
	for _, d := range decls {
		st.Set(d.Property, d.Value)
	}
	writeStyle(n, st)
}

func writeStyle(n *html.Node, st *Style) {
	if st.Len() == 0 {
		RemoveAttr(n, "style")
		return
	}
	SetAttr(n, "style", st.String())
}
