package editor

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/eringen/hws/content"
	"github.com/eringen/hws/dom"
)

// LayerKey is one binding listed under a section.
type LayerKey struct {
	Key        string `json:"key"`
	Kind       string `json:"kind"`
	Overridden bool   `json:"overridden"`
	Styled     bool   `json:"styled"`
	Sized      bool   `json:"sized"`
}

// Layer is one section in page order.
type Layer struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Hidden    bool              `json:"hidden"`
	Block     string            `json:"block,omitempty"`
	Styled    bool              `json:"styled"`
	Styles    map[string]string `json:"styles,omitempty"`
	Keys      []LayerKey        `json:"keys"`
	Unscoped  []string          `json:"unscoped,omitempty"`
	Overrides int               `json:"overrides"`
}

// Layers lists the sections of the live page. A non-empty filter keeps
// sections whose id or name contains it, and otherwise only the matching
// keys of the remaining sections. Matching ignores case.
func (e *Editor) Layers(filter string) []Layer {
	e.mu.Lock()
	defer e.mu.Unlock()
	filter = strings.ToLower(strings.TrimSpace(filter))
	var layers []Layer
	for _, u := range e.doc.Units() {
		l := Layer{
			ID:     u.ID,
			Name:   content.SectionName(u.ID),
			Hidden: e.state.IsHidden(u.ID),
		}
		if bag := e.state.SectionStyles[u.ID]; len(bag) > 0 {
			l.Styled = true
			l.Styles = cloneBag(bag)
		}
		if b, _, ok := e.state.Block(u.ID); ok {
			l.Block = b.Type
		}
		keys := dom.BoundKeys(u.Section)
		l.Unscoped = content.UnscopedKeys(u.ID, keys)
		sectionMatch := filter == "" ||
			strings.Contains(strings.ToLower(l.ID), filter) ||
			strings.Contains(strings.ToLower(l.Name), filter)
		for _, k := range keys {
			if !sectionMatch && !strings.Contains(strings.ToLower(k), filter) {
				continue
			}
			_, over := e.state.Overrides[k]
			_, sized := e.state.Sizes[k]
			if over {
				l.Overrides++
			}
			l.Keys = append(l.Keys, LayerKey{
				Key:        k,
				Kind:       content.Classify(k).String(),
				Overridden: over,
				Styled:     len(e.state.ElementStyles[k]) > 0,
				Sized:      sized,
			})
		}
		if !sectionMatch && len(l.Keys) == 0 {
			continue
		}
		layers = append(layers, l)
	}
	return layers
}

// Inspection describes one key for the side panel.
type Inspection struct {
	Key        string            `json:"key"`
	Kind       string            `json:"kind"`
	Value      string            `json:"value"`
	Default    string            `json:"default"`
	HasDefault bool              `json:"hasDefault"`
	Overridden bool              `json:"overridden"`
	Bound      bool              `json:"bound"`
	Inline     bool              `json:"inline"`
	Toolbar    bool              `json:"toolbar"`
	Section    string            `json:"section,omitempty"`
	Field      *content.Field    `json:"field,omitempty"`
	Styles     map[string]string `json:"styles,omitempty"`
	Size       *Size             `json:"size,omitempty"`
}

// Inspect describes key.
func (e *Editor) Inspect(key string) (Inspection, error) {
	if err := content.ValidateKey(key); err != nil {
		return Inspection{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	kind := content.Classify(key)
	def, hasDef := e.table.Lookup(key)
	_, over := e.state.Overrides[key]
	in := Inspection{
		Key:        key,
		Kind:       kind.String(),
		Value:      e.resolveLocked(key),
		Default:    def,
		HasDefault: hasDef,
		Overridden: over,
		Inline:     kind.Inline(),
		Toolbar:    kind == content.KindRichText,
	}
	nodes := e.boundNodesLocked(key)
	in.Bound = len(nodes) > 0 || kind == content.KindDesign
	if len(nodes) > 0 {
		in.Section = sectionOf(nodes[0])
	}
	if f, ok := content.DesignField(key); ok {
		in.Field = &f
	}
	if bag := e.state.ElementStyles[key]; len(bag) > 0 {
		in.Styles = cloneBag(bag)
	}
	if sz, ok := e.state.Sizes[key]; ok {
		in.Size = &sz
	}
	return in, nil
}

func sectionOf(n *html.Node) string {
	for ; n != nil; n = n.Parent {
		if dom.HasClass(n, dom.ClassSection) && dom.Attr(n, "id") != "" {
			return dom.Attr(n, "id")
		}
	}
	return ""
}
