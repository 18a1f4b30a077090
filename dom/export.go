package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AttrEditor marks nodes that only exist while the editor is loaded.
const AttrEditor = "data-hws-editor"

var editorAttrs = []string{AttrBind, AttrFeatures, AttrImg, AttrEditor, "contenteditable", "data-hws-edit-mode"}

// StripEditor removes editor scaffolding so the document stands alone:
// editor scripts and stylesheets, editor-owned nodes, block delete buttons
// and every binding attribute.
func StripEditor(d *Document) {
	var doomed []*html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if isEditorNode(n) {
			doomed = append(doomed, n)
			return false
		}
		for _, a := range editorAttrs {
			RemoveAttr(n, a)
		}
		return true
	})
	for _, n := range doomed {
		Detach(n)
	}
	if root := d.HTMLElement(); root != nil {
		RemoveClass(root, "js-loaded")
	}
}

func isEditorNode(n *html.Node) bool {
	if HasAttr(n, AttrEditor) {
		return true
	}
	switch n.DataAtom {
	case atom.Script:
		if strings.Contains(Attr(n, "src"), "editor") {
			return true
		}
	case atom.Link:
		if strings.Contains(Attr(n, "href"), "editor") {
			return true
		}
	}
	if strings.HasPrefix(Attr(n, "id"), "hws-editor") {
		return true
	}
	if strings.Contains(Attr(n, "class"), "hws-editor") {
		return true
	}
	return HasClass(n, "hws-block-delete")
}
