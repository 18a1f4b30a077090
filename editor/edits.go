package editor

import (
	"fmt"
	"strings"

	"github.com/eringen/hws/content"
	"github.com/eringen/hws/dom"
)

// SetValue stores value for key and patches the live page. Design values are
// validated, image values must be a URL or an image data URI and rich text
// is sanitized. A value equal to the default removes the override and one
// equal to the current value changes nothing.
func (e *Editor) SetValue(key, value string) error {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireActive(); err != nil {
		return err
	}
	return e.setValueLocked(key, value)
}

func (e *Editor) setValueLocked(key, value string) error {
	if err := content.ValidateKey(key); err != nil {
		return err
	}
	// Setting the current value is a no-op even when it would not pass the
	// sanitizer, such as trusted imported rich text.
	if content.Resolve(e.table, e.state.Overrides, key) == value {
		return nil
	}
	switch content.Classify(key) {
	case content.KindDesign:
		if err := content.ValidateDesign(key, value); err != nil {
			return err
		}
	case content.KindImage:
		if err := validateImageRef(value); err != nil {
			return err
		}
	case content.KindRichText:
		value = dom.SanitizeRichText(value)
	}
	if content.Resolve(e.table, e.state.Overrides, key) == value {
		return nil
	}
	e.beginMutation()
	e.history.Push(e.state)
	content.Set(e.table, e.state.Overrides, key, value)
	e.patchKeyLocked(key)
	e.scheduleSave()
	return nil
}

// patchKeyLocked re-renders one key in the live document. A design key
// that went back to its default is removed from the root style so the
// stylesheet value applies again.
func (e *Editor) patchKeyLocked(key string) {
	v, overridden := e.state.Overrides[key]
	if content.Classify(key) != content.KindDesign {
		e.renderer.ApplyKey(key, e.resolveLocked(key))
		return
	}
	if overridden {
		e.renderer.ApplyKey(key, v)
		return
	}
	var decls []content.Declaration
	for _, d := range content.Declarations(key, "", e.resolveLocked) {
		decls = append(decls, content.Declaration{Property: d.Property})
	}
	if root := e.doc.HTMLElement(); root != nil {
		dom.SetStyleProperties(root, decls)
		// Padding tokens share a property; keep the sibling's override.
		for _, sibling := range []string{"design.sectionPaddingY", "design.sectionPaddingX"} {
			if sv, ok := e.state.Overrides[sibling]; ok && sibling != key && content.CSSVar(sibling) == content.CSSVar(key) {
				e.renderer.ApplyKey(sibling, sv)
			}
		}
	}
}

func validateImageRef(v string) error {
	switch {
	case v == "",
		strings.HasPrefix(v, "data:image/"),
		strings.HasPrefix(v, "https://"),
		strings.HasPrefix(v, "http://"),
		strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//"):
		return nil
	}
	return fmt.Errorf("%w: image must be a URL or an image data URI", ErrInvalidValue)
}

// SetDesign sets a design token.
func (e *Editor) SetDesign(key, value string) error {
	if content.Classify(key) != content.KindDesign {
		return fmt.Errorf("%w: %s is not a design token", ErrInvalidKey, key)
	}
	return e.SetValue(key, value)
}

// SetImage points an image slot at src.
func (e *Editor) SetImage(key, src string) error {
	if content.Classify(key) != content.KindImage {
		return fmt.Errorf("%w: %s is not an image slot", ErrInvalidKey, key)
	}
	if src == "" {
		return fmt.Errorf("%w: empty image source", ErrInvalidValue)
	}
	return e.SetValue(key, src)
}

// ClearImage removes an image override, restoring the placeholder.
func (e *Editor) ClearImage(key string) error {
	if content.Classify(key) != content.KindImage {
		return fmt.Errorf("%w: %s is not an image slot", ErrInvalidKey, key)
	}
	return e.ResetKey(key)
}

// ResetKey removes the override for key. Keys without a default, such as
// text inside custom blocks, are restored by rebuilding the page.
func (e *Editor) ResetKey(key string) error {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireActive(); err != nil {
		return err
	}
	if _, ok := e.state.Overrides[key]; !ok {
		return nil
	}
	e.beginMutation()
	e.history.Push(e.state)
	delete(e.state.Overrides, key)
	if e.table.Has(key) {
		e.patchKeyLocked(key)
	} else {
		e.rebuildLocked()
	}
	e.scheduleSave()
	return nil
}

// Undo restores the state before the last mutation.
func (e *Editor) Undo() error {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireHistoryLocked(); err != nil {
		return err
	}
	prev, ok := e.history.Undo(e.state)
	if !ok {
		return ErrNothingToUndo
	}
	return e.restoreLocked(prev)
}

// Redo re-applies the last undone mutation.
func (e *Editor) Redo() error {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireHistoryLocked(); err != nil {
		return err
	}
	next, ok := e.history.Redo(e.state)
	if !ok {
		return ErrNothingToRedo
	}
	return e.restoreLocked(next)
}

func (e *Editor) requireHistoryLocked() error {
	if err := e.requireActive(); err != nil {
		return err
	}
	if e.mode == ModeEditing {
		return ErrEditing
	}
	return nil
}

// restoreLocked swaps in s, persists it and rebuilds the live page.
func (e *Editor) restoreLocked(s *State) error {
	e.beginMutation()
	e.cancelGesturesLocked()
	e.state = s
	e.rebuildLocked()
	return e.persistNowLocked()
}
