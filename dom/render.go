package dom

import (
	"strings"

	"github.com/eringen/hws/content"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Renderer writes resolved content values into a document.
type Renderer struct {
	doc     *Document
	resolve func(string) string
}

// NewRenderer returns a renderer over doc. resolve is consulted for design
// tokens that compose with a sibling token.
func NewRenderer(doc *Document, resolve func(string) string) *Renderer {
	return &Renderer{doc: doc, resolve: resolve}
}

// ApplyKey writes value into every node bound to key. Keys without a bound
// node are ignored.
func (r *Renderer) ApplyKey(key, value string) {
	switch content.Classify(key) {
	case content.KindDesign:
		if root := r.doc.HTMLElement(); root != nil {
			SetStyleProperties(root, content.Declarations(key, value, r.resolve))
		}
	case content.KindImage:
		for _, n := range r.doc.Bound(key) {
			applyImage(n, value)
		}
	case content.KindFeatures:
		for _, n := range r.doc.FeaturesBound(key) {
			applyFeatures(n, value)
		}
	case content.KindRichText:
		for _, n := range r.doc.Bound(key) {
			applyRichText(n, value)
		}
	default:
		for _, n := range r.doc.Bound(key) {
			SetText(n, value)
		}
	}
}

// ResetDesign removes every design custom property from the root element.
func (r *Renderer) ResetDesign() {
	root := r.doc.HTMLElement()
	if root == nil {
		return
	}
	var decls []content.Declaration
	for _, p := range content.DesignProperties() {
		decls = append(decls, content.Declaration{Property: p})
	}
	SetStyleProperties(root, decls)
}

func applyRichText(n *html.Node, value string) {
	nodes, err := ParseFragment(value, n)
	if err != nil {
		SetText(n, value)
		return
	}
	RemoveChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
}

// applyFeatures writes one item per non-empty line. Lines are text, never
// markup.
func applyFeatures(n *html.Node, value string) {
	RemoveChildren(n)
	for _, line := range strings.Split(value, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		item := NewElement(atom.Div, html.Attribute{Key: "class", Val: "card__feature-item"})
		item.AppendChild(&html.Node{Type: html.TextNode, Data: line})
		n.AppendChild(item)
	}
}

// ImageOf returns the inserted override image inside an image slot.
func ImageOf(slot *html.Node) *html.Node {
	return findFirst(slot, func(n *html.Node) bool {
		return n.DataAtom == atom.Img && HasAttr(n, AttrImg)
	})
}

func svgOf(slot *html.Node) *html.Node {
	return findFirst(slot, func(n *html.Node) bool { return n.Data == "svg" })
}

// applyImage swaps an image slot's inline svg placeholder for an <img>. An
// empty value restores the placeholder.
func applyImage(slot *html.Node, value string) {
	svg := svgOf(slot)
	img := ImageOf(slot)
	if value == "" {
		Detach(img)
		if svg != nil {
			SetStyleProperty(svg, "display", "")
		}
		return
	}
	if svg != nil {
		SetStyleProperty(svg, "display", "none")
	}
	if img != nil {
		SetAttr(img, "src", value)
		return
	}
	height := "36px"
	if svg != nil && Attr(svg, "height") != "" {
		height = Attr(svg, "height") + "px"
	}
	img = NewElement(atom.Img,
		html.Attribute{Key: "src", Val: value},
		html.Attribute{Key: "alt", Val: "Logo"},
		html.Attribute{Key: "style", Val: "height: " + height + "; width: auto;"},
		html.Attribute{Key: AttrImg, Val: "true"},
	)
	if svg != nil && svg.Parent != nil {
		svg.Parent.InsertBefore(img, svg)
		return
	}
	slot.AppendChild(img)
}
