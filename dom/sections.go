package dom

import (
	"strings"

	"github.com/eringen/hws/content"
	"golang.org/x/net/html"
)

// Section classes recognised in the markup.
const (
	ClassSection    = "section"
	ClassTransition = "section-transition"
)

// editorStateClasses never survive a clone.
var editorStateClasses = []string{"hws-section-hover", "hws-editor-selected"}

// Unit is a top-level section plus its optional trailing transition. Every
// section operation moves, hides or removes both together.
type Unit struct {
	ID         string
	Section    *html.Node
	Transition *html.Node
}

// Nodes returns the unit's elements in document order.
func (u Unit) Nodes() []*html.Node {
	if u.Transition != nil {
		return []*html.Node{u.Section, u.Transition}
	}
	return []*html.Node{u.Section}
}

func unitOf(section *html.Node) Unit {
	u := Unit{ID: Attr(section, "id"), Section: section}
	if next := nextElementSibling(section); HasClass(next, ClassTransition) {
		u.Transition = next
	}
	return u
}

// Units returns the sections directly under <main> that carry an id.
func (d *Document) Units() []Unit {
	main := d.Main()
	if main == nil {
		return nil
	}
	var units []Unit
	for _, c := range elementChildren(main) {
		if HasClass(c, ClassSection) && Attr(c, "id") != "" {
			units = append(units, unitOf(c))
		}
	}
	return units
}

// Unit returns the unit with the given id.
func (d *Document) Unit(id string) (Unit, bool) {
	for _, u := range d.Units() {
		if u.ID == id {
			return u, true
		}
	}
	return Unit{}, false
}

// Order returns the unit ids in document order.
func (d *Document) Order() []string {
	units := d.Units()
	ids := make([]string, len(units))
	for i, u := range units {
		ids[i] = u.ID
	}
	return ids
}

// IndexOf returns the position of id in the unit order, or -1.
func (d *Document) IndexOf(id string) int {
	for i, u := range d.Units() {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// MoveUnit swaps the unit with its neighbour in direction dir (-1 up, +1
// down). It reports whether anything moved.
func (d *Document) MoveUnit(id string, dir int) bool {
	idx := d.IndexOf(id)
	if idx < 0 || dir == 0 {
		return false
	}
	if dir < 0 {
		return d.MoveUnitTo(id, idx-1)
	}
	return d.MoveUnitTo(id, idx+1)
}

// MoveUnitTo moves the unit so it ends up at index among the units. It
// reports whether anything moved.
func (d *Document) MoveUnitTo(id string, index int) bool {
	units := d.Units()
	from := -1
	for i, u := range units {
		if u.ID == id {
			from = i
		}
	}
	if from < 0 || index < 0 || index >= len(units) || index == from {
		return false
	}
	moving := units[from]
	main := moving.Section.Parent
	if index < from {
		anchor := units[index].Section
		for _, n := range moving.Nodes() {
			main.RemoveChild(n)
			main.InsertBefore(n, anchor)
		}
		return true
	}
	target := units[index].Nodes()
	after := target[len(target)-1].NextSibling
	for _, n := range moving.Nodes() {
		main.RemoveChild(n)
		main.InsertBefore(n, after)
	}
	return true
}

// ApplyOrder appends the listed units to <main> in the given order. Unknown
// ids are skipped and unlisted units keep their place ahead of the listed
// ones.
func (d *Document) ApplyOrder(ids []string) {
	main := d.Main()
	if main == nil || len(ids) == 0 {
		return
	}
	byID := make(map[string]Unit)
	for _, u := range d.Units() {
		byID[u.ID] = u
	}
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			continue
		}
		delete(byID, id)
		for _, n := range u.Nodes() {
			main.RemoveChild(n)
			main.AppendChild(n)
		}
	}
}

// SetUnitHidden hides or shows a unit with an inline display rule. The
// nodes stay in the document so their bindings remain editable.
func (d *Document) SetUnitHidden(id string, hidden bool) bool {
	u, ok := d.Unit(id)
	if !ok {
		return false
	}
	val := ""
	if hidden {
		val = "none"
	}
	for _, n := range u.Nodes() {
		SetStyleProperty(n, "display", val)
	}
	return true
}

// RemoveUnit detaches a unit and returns it with the node it was in front
// of, for InsertUnitBefore.
func (d *Document) RemoveUnit(id string) (Unit, *html.Node, bool) {
	u, ok := d.Unit(id)
	if !ok {
		return Unit{}, nil, false
	}
	nodes := u.Nodes()
	anchor := nodes[len(nodes)-1].NextSibling
	for _, n := range nodes {
		Detach(n)
	}
	return u, anchor, true
}

// InsertUnitBefore puts a detached unit back into <main> in front of anchor,
// or at the end when anchor is nil or no longer in <main>.
func (d *Document) InsertUnitBefore(u Unit, anchor *html.Node) {
	main := d.Main()
	if main == nil {
		return
	}
	if anchor != nil && anchor.Parent != main {
		anchor = nil
	}
	for _, n := range u.Nodes() {
		Detach(n)
		main.InsertBefore(n, anchor)
	}
}

// InsertUnitAfter places a detached unit after the unit afterID, or at the
// end of <main> when afterID is empty or unknown.
func (d *Document) InsertUnitAfter(u Unit, afterID string) {
	var anchor *html.Node
	if prev, ok := d.Unit(afterID); ok {
		nodes := prev.Nodes()
		anchor = nodes[len(nodes)-1].NextSibling
	}
	d.InsertUnitBefore(u, anchor)
}

// AppendFragment parses markup as children of <main> and appends them.
func (d *Document) AppendFragment(markup string) error {
	main := d.Main()
	if main == nil {
		return nil
	}
	nodes, err := ParseFragment(markup, main)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		main.AppendChild(n)
	}
	return nil
}

// CloneUnit deep copies the unit id as newID and inserts the copy after the
// original. Binding attributes inside the copied section have their first
// "<id>." rewritten to "<newID>.". The copy is always visible.
func (d *Document) CloneUnit(id, newID string) (Unit, bool) {
	u, ok := d.Unit(id)
	if !ok || newID == "" {
		return Unit{}, false
	}
	c := Unit{ID: newID, Section: CloneNode(u.Section)}
	SetAttr(c.Section, "id", newID)
	AddClass(c.Section, ClassSection)
	walk(c.Section, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		for i, a := range n.Attr {
			if a.Key == AttrBind || a.Key == AttrFeatures {
				n.Attr[i].Val = strings.Replace(a.Val, id+".", newID+".", 1)
			}
		}
		return true
	})
	if u.Transition != nil {
		c.Transition = CloneNode(u.Transition)
	}
	for _, n := range c.Nodes() {
		for _, cls := range editorStateClasses {
			RemoveClass(n, cls)
		}
		SetStyleProperty(n, "display", "")
	}
	d.InsertUnitAfter(c, id)
	return c, true
}

// Section style properties.
const (
	SectionBgColor       = "bgColor"
	SectionTextColor     = "textColor"
	SectionPaddingTop    = "paddingTop"
	SectionPaddingBottom = "paddingBottom"
	SectionMaxWidth      = "maxWidth"
)

// SectionStyleProps lists the per-section settings in panel order.
var SectionStyleProps = []string{SectionBgColor, SectionTextColor, SectionPaddingTop, SectionPaddingBottom, SectionMaxWidth}

// ApplySectionStyle writes one section setting as inline style. An empty
// value clears it.
func ApplySectionStyle(section *html.Node, prop, value string) {
	unit := func(suffix string) string {
		if value == "" {
			return ""
		}
		return value + suffix
	}
	switch prop {
	case SectionBgColor:
		SetStyleProperty(section, "background-color", value)
	case SectionTextColor:
		SetStyleProperty(section, "color", value)
	case SectionPaddingTop:
		SetStyleProperty(section, "padding-top", unit("rem"))
	case SectionPaddingBottom:
		SetStyleProperty(section, "padding-bottom", unit("rem"))
	case SectionMaxWidth:
		margin := ""
		if value != "" {
			margin = "auto"
		}
		SetStyleProperties(section, []content.Declaration{
			{Property: "max-width", Value: unit("px")},
			{Property: "margin-left", Value: margin},
			{Property: "margin-right", Value: margin},
		})
	}
}
