// Package dom is the page document model: an x/net/html tree with the
// binding queries, section units and inline-style writes the editor needs.
// A Document is not safe for concurrent use; callers serialize access.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Binding attributes carried by overridable nodes.
const (
	AttrBind     = "data-hws"
	AttrFeatures = "data-hws-features"
	AttrImg      = "data-hws-img"
)

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseString parses s as a full HTML document.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Clone returns a deep copy that shares nothing with d.
func (d *Document) Clone() *Document {
	return &Document{root: CloneNode(d.root)}
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String renders the document, returning "" on failure.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// HTMLElement returns the <html> element.
func (d *Document) HTMLElement() *html.Node {
	return findFirst(d.root, func(n *html.Node) bool { return n.DataAtom == atom.Html })
}

// Head returns the <head> element.
func (d *Document) Head() *html.Node {
	return findFirst(d.root, func(n *html.Node) bool { return n.DataAtom == atom.Head })
}

// Body returns the <body> element.
func (d *Document) Body() *html.Node {
	return findFirst(d.root, func(n *html.Node) bool { return n.DataAtom == atom.Body })
}

// Main returns the <main> element, or nil when the page has none.
func (d *Document) Main() *html.Node {
	return findFirst(d.root, func(n *html.Node) bool { return n.DataAtom == atom.Main })
}

// ByID returns the element with the given id.
func (d *Document) ByID(id string) *html.Node {
	if id == "" {
		return nil
	}
	return findFirst(d.root, func(n *html.Node) bool { return Attr(n, "id") == id })
}

// Bound returns the elements whose data-hws attribute equals key.
func (d *Document) Bound(key string) []*html.Node {
	return findAll(d.root, func(n *html.Node) bool { return attrEquals(n, AttrBind, key) })
}

// FeaturesBound returns the list containers bound to key.
func (d *Document) FeaturesBound(key string) []*html.Node {
	return findAll(d.root, func(n *html.Node) bool { return attrEquals(n, AttrFeatures, key) })
}

// IsBound reports whether any node carries key as a binding.
func (d *Document) IsBound(key string) bool {
	return findFirst(d.root, func(n *html.Node) bool {
		return attrEquals(n, AttrBind, key) || attrEquals(n, AttrFeatures, key)
	}) != nil
}

// BoundKeys returns the distinct keys bound inside n, in document order.
// A nil n means the whole document.
func (d *Document) BoundKeys(n *html.Node) []string {
	if n == nil {
		n = d.root
	}
	return BoundKeys(n)
}

// BoundKeys returns the distinct keys bound inside n, in document order.
func BoundKeys(n *html.Node) []string {
	seen := make(map[string]bool)
	var keys []string
	walk(n, func(c *html.Node) bool {
		if c.Type != html.ElementNode {
			return true
		}
		for _, a := range c.Attr {
			if (a.Key == AttrBind || a.Key == AttrFeatures) && a.Val != "" && !seen[a.Val] {
				seen[a.Val] = true
				keys = append(keys, a.Val)
			}
		}
		return true
	})
	return keys
}

// CloneNode deep copies n and its subtree. The copy is detached.
func CloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		c.AppendChild(CloneNode(ch))
	}
	return c
}

// OuterHTML renders n including its own tag.
func OuterHTML(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// TextContent concatenates the text nodes under n.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		return true
	})
	return sb.String()
}

// SetText replaces the children of n with one text node.
func SetText(n *html.Node, s string) {
	RemoveChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ParseFragment parses s in the context of parent. The returned nodes are
// detached.
func ParseFragment(s string, parent *html.Node) ([]*html.Node, error) {
	ctx := parent
	if ctx == nil || ctx.Type != html.ElementNode {
		ctx = &html.Node{Type: html.ElementNode, DataAtom: atom.Div, Data: "div"}
	}
	nodes, err := html.ParseFragment(strings.NewReader(s), ctx)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	return nodes, nil
}

// AppendHTML parses markup in the context of parent and appends the nodes.
func AppendHTML(parent *html.Node, markup string) error {
	nodes, err := ParseFragment(markup, parent)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	return nil
}

// NewElement creates a detached element.
func NewElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

// Attr returns the value of attribute key, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key && a.Namespace == "" {
			return a.Val
		}
	}
	return ""
}

// HasAttr reports whether n carries attribute key.
func HasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key && a.Namespace == "" {
			return true
		}
	}
	return false
}

// SetAttr sets or adds attribute key.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key && a.Namespace == "" {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes attribute key.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key == key && a.Namespace == "" {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// HasClass reports whether n's class list contains class.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends class to n's class list when missing.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	SetAttr(n, "class", strings.TrimSpace(Attr(n, "class")+" "+class))
}

// RemoveClass drops class from n's class list. An emptied list removes the
// attribute.
func RemoveClass(n *html.Node, class string) {
	if !HasAttr(n, "class") {
		return
	}
	var keep []string
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c != class {
			keep = append(keep, c)
		}
	}
	if len(keep) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(keep, " "))
}

func attrEquals(n *html.Node, key, val string) bool {
	return n.Type == html.ElementNode && HasAttr(n, key) && Attr(n, key) == val
}

// walk visits n and its descendants depth first. Returning false skips the
// children of the visited node.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		walk(c, fn)
		c = next
	}
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var results []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && match(n) {
			results = append(results, n)
		}
		return true
	})
	return results
}

func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && match(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}
