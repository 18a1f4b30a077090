package editor

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/html"

	"github.com/eringen/hws/content"
	"github.com/eringen/hws/dom"
)

// MinResize is the smallest width or height a resize gesture produces.
const MinResize = 40

var (
	colorStyleProps = map[string]bool{
		"bgColor": true, "textColor": true, "borderColor": true, "btnBgColor": true, "btnTextColor": true,
	}
	enumStyleProps = map[string][]string{
		"textAlign":    {"left", "center", "right", "justify"},
		"borderStyle":  {"none", "solid", "dashed", "dotted", "double"},
		"imgObjectFit": {"cover", "contain", "fill", "none", "scale-down"},
	}
	signedStyleProps = map[string]bool{"letterSpacing": true, "marginTop": true, "marginBottom": true}
)

func (e *Editor) boundNodesLocked(key string) []*html.Node {
	nodes := e.doc.Bound(key)
	if len(nodes) == 0 {
		nodes = e.doc.FeaturesBound(key)
	}
	return nodes
}

// SetElementStyle sets one style property on every node bound to key. An
// empty value clears the property.
func (e *Editor) SetElementStyle(key, prop, value string) error {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireActive(); err != nil {
		return err
	}
	nodes := e.boundNodesLocked(key)
	if len(nodes) == 0 {
		return fmt.Errorf("%w: %s", ErrNotBound, key)
	}
	value = strings.TrimSpace(value)
	if err := validateElementStyle(prop, value); err != nil {
		return err
	}
	bag := e.state.ElementStyles[key]
	if bag[prop] == value {
		return nil
	}
	e.beginMutation()
	e.history.Push(e.state)
	if value == "" {
		delete(bag, prop)
		if len(bag) == 0 {
			delete(e.state.ElementStyles, key)
		}
	} else {
		if bag == nil {
			bag = map[string]string{}
			e.state.ElementStyles[key] = bag
		}
		bag[prop] = value
	}
	for _, n := range nodes {
		dom.ApplyElementStyle(n, dom.StyleTarget(n, key), prop, value)
	}
	e.scheduleSave()
	return nil
}

func validateElementStyle(prop, value string) error {
	if !dom.IsElementStyleProp(prop) {
		return fmt.Errorf("%w: unknown style property %q", ErrInvalidKey, prop)
	}
	if value == "" {
		return nil
	}
	switch {
	case colorStyleProps[prop]:
		if !content.IsHexColor(value) {
			return fmt.Errorf("%w: %s must be a hex color", ErrInvalidValue, prop)
		}
	case enumStyleProps[prop] != nil:
		if !contains(enumStyleProps[prop], value) {
			return fmt.Errorf("%w: %s must be one of %s", ErrInvalidValue, prop, strings.Join(enumStyleProps[prop], ", "))
		}
	case prop == "btnNewTab":
		if value != "true" {
			return fmt.Errorf("%w: btnNewTab must be \"true\" or empty", ErrInvalidValue)
		}
	case prop == "btnHref":
		return validateHref(value)
	case prop == "imgAlt":
		return nil
	case prop == "opacity" || prop == "imgOpacity":
		return validateRange(prop, value, 0, 100)
	case prop == "fontWeight":
		return validateRange(prop, value, 100, 900)
	case dom.NumericElementStyleProp(prop):
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || (f < 0 && !signedStyleProps[prop]) {
			return fmt.Errorf("%w: %s must be a number", ErrInvalidValue, prop)
		}
	}
	return nil
}

func validateHref(v string) error {
	if strings.HasPrefix(v, "#") || (strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//")) {
		return nil
	}
	u, err := url.Parse(v)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			if u.Host != "" {
				return nil
			}
		case "mailto", "tel":
			return nil
		}
	}
	return fmt.Errorf("%w: link must be http(s), mailto, tel, a path or an anchor", ErrInvalidValue)
}

// ClearElementStyles removes every style property and the size stored for
// key.
func (e *Editor) ClearElementStyles(key string) error {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireActive(); err != nil {
		return err
	}
	_, styled := e.state.ElementStyles[key]
	_, sized := e.state.Sizes[key]
	if !styled && !sized {
		return nil
	}
	e.beginMutation()
	e.history.Push(e.state)
	delete(e.state.ElementStyles, key)
	delete(e.state.Sizes, key)
	e.rebuildLocked()
	e.scheduleSave()
	return nil
}

// Resize handles.
var resizeHandles = map[string]bool{
	"n": true, "s": true, "e": true, "w": true,
	"ne": true, "nw": true, "se": true, "sw": true,
}

// IsCorner reports whether handle keeps the aspect ratio.
func IsCorner(handle string) bool { return len(handle) == 2 }

// ResizeBox computes the size after dragging handle by (dx, dy) from a
// startW x startH box. Edges change one dimension; corners scale both and
// keep the starting aspect ratio, growing the short side when a minimum
// clamp breaks it. Neither side goes below MinResize.
func ResizeBox(handle string, startW, startH, dx, dy float64) Size {
	w, h := startW, startH
	aspect := 1.0
	if startH > 0 {
		aspect = startW / startH
	}
	switch handle {
	case "e":
		w = startW + dx
	case "w":
		w = startW - dx
	case "s":
		h = startH + dy
	case "n":
		h = startH - dy
	case "se", "ne":
		w = startW + dx
		h = w / aspect
	case "sw", "nw":
		w = startW - dx
		h = w / aspect
	}
	w = math.Max(MinResize, w)
	h = math.Max(MinResize, h)
	if IsCorner(handle) {
		if w/h > aspect {
			h = w / aspect
		} else {
			w = h * aspect
		}
	}
	return Size{W: int(math.Round(w)), H: int(math.Round(h))}
}

type resizeGesture struct {
	key            string
	handle         string
	startW, startH float64
	prev           Size
	hadPrev        bool
	current        Size
}

// BeginResize starts a resize of the element bound to key from its current
// rendered size.
func (e *Editor) BeginResize(key, handle string, startW, startH float64) error {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireActive(); err != nil {
		return err
	}
	if !resizeHandles[handle] {
		return fmt.Errorf("%w: unknown resize handle %q", ErrInvalidValue, handle)
	}
	if startW <= 0 || startH <= 0 {
		return fmt.Errorf("%w: start size must be positive", ErrInvalidValue)
	}
	if len(e.doc.Bound(key)) == 0 {
		return fmt.Errorf("%w: %s", ErrNotBound, key)
	}
	e.abortResizeLocked()
	prev, had := e.state.Sizes[key]
	e.resize = &resizeGesture{
		key: key, handle: handle, startW: startW, startH: startH,
		prev: prev, hadPrev: had,
		current: Size{W: int(math.Round(startW)), H: int(math.Round(startH))},
	}
	return nil
}

// UpdateResize previews the size for a pointer offset of (dx, dy) from the
// gesture start.
func (e *Editor) UpdateResize(dx, dy float64) (Size, error) {
	e.mu.Lock()
	defer e.unlock()
	g := e.resize
	if g == nil {
		return Size{}, ErrNoGesture
	}
	g.current = ResizeBox(g.handle, g.startW, g.startH, dx, dy)
	e.applySizeLocked(g.key, g.current, true)
	return g.current, nil
}

// EndResize stores the previewed size.
func (e *Editor) EndResize() (Size, error) {
	e.mu.Lock()
	defer e.unlock()
	g := e.resize
	if g == nil {
		return Size{}, ErrNoGesture
	}
	e.resize = nil
	if g.hadPrev && g.prev == g.current {
		return g.current, nil
	}
	e.beginMutation()
	e.history.Push(e.state)
	e.state.Sizes[g.key] = g.current
	e.applySizeLocked(g.key, g.current, true)
	e.scheduleSave()
	return g.current, nil
}

// AbortResize drops the preview and puts back the stored size.
func (e *Editor) AbortResize() {
	e.mu.Lock()
	defer e.unlock()
	e.abortResizeLocked()
}

func (e *Editor) abortResizeLocked() {
	g := e.resize
	if g == nil {
		return
	}
	e.resize = nil
	e.applySizeLocked(g.key, g.prev, g.hadPrev)
}

func (e *Editor) applySizeLocked(key string, size Size, set bool) {
	for _, n := range e.doc.Bound(key) {
		target := dom.StyleTarget(n, key)
		if set {
			dom.ApplySize(target, size.W, size.H)
		} else {
			dom.ClearSize(target)
		}
	}
}

// Block types InsertBlock accepts.
var BlockTypes = []string{"text", "heading", "image", "button", "spacer", "divider"}

const (
	blockStyle   = "padding: 3rem 1.5rem; max-width: 800px; margin: 0 auto;"
	blockDelete  = `<button type="button" class="hws-block-delete" aria-label="Delete block">&times;</button>`
	blockPicture = `<svg width="120" height="80" viewBox="0 0 120 80" fill="none" xmlns="http://www.w3.org/2000/svg"><rect width="120" height="80" rx="8" fill="#e8e4df"></rect><path d="M30 60l20-24 14 16 10-12 16 20z" fill="#c9c2b8"></path><circle cx="44" cy="28" r="7" fill="#c9c2b8"></circle></svg>`
)

// blockMarkup renders the initial markup of a new block. Later edits are
// stored as overrides under the block id; the markup itself never changes.
func blockMarkup(typ, id string) (string, bool) {
	var inner string
	switch typ {
	case "text":
		inner = `<p data-hws="` + id + `.text">Click to edit this text. Double-click to type directly.</p>`
	case "heading":
		inner = `<h2 class="section__title" data-hws="` + id + `.heading">New Heading</h2>`
	case "image":
		inner = `<div class="hws-custom-image" data-hws="img.` + id + `.image">` + blockPicture + `</div>`
	case "button":
		inner = `<div style="text-align: center;"><a class="btn btn--primary" href="#" data-hws="` + id + `.btn">Click Here</a></div>`
	case "spacer":
		inner = `<div class="hws-custom-spacer" style="height: 60px;"><span class="hws-spacer-label hws-editor-only">Spacer</span></div>`
	case "divider":
		inner = `<hr style="border: none; border-top: 1px solid currentColor; opacity: 0.2; margin: 0;"/>`
	default:
		return "", false
	}
	return `<section id="` + id + `" class="section hws-custom-block" style="` + blockStyle + `">` + inner + blockDelete + `</section>`, true
}

// InsertBlock adds a custom block of typ after section afterID, or at the
// end of the page when afterID is empty. It returns the new block id.
func (e *Editor) InsertBlock(typ, afterID string) (string, error) {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireActive(); err != nil {
		return "", err
	}
	if afterID != "" {
		if _, ok := e.doc.Unit(afterID); !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownSection, afterID)
		}
	}
	id := "custom-" + uuid.NewString()[:8]
	markup, ok := blockMarkup(typ, id)
	if !ok {
		return "", fmt.Errorf("%w: unknown block type %q", ErrInvalidValue, typ)
	}
	e.beginMutation()
	e.history.Push(e.state)
	e.state.Blocks = append(e.state.Blocks, Block{ID: id, Type: typ, HTML: markup})
	e.state.Order = insertAfter(e.doc.Order(), afterID, id)
	e.rebuildLocked()
	e.scheduleSave()
	return id, nil
}
