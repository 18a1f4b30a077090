package editor

import (
	"fmt"
	"strconv"
	"time"

	"github.com/eringen/hws/content"
	"github.com/eringen/hws/dom"
)

// ClassDragging marks the section being dragged.
const ClassDragging = "hws-dragging"

// Shift is one section whose position changed in a move.
type Shift struct {
	ID   string `json:"id"`
	From int    `json:"from"`
	To   int    `json:"to"`
}

// Move describes a reorder for the client animation. The page order is
// already authoritative when it is returned.
type Move struct {
	Moved    bool     `json:"moved"`
	Order    []string `json:"order"`
	Shifts   []Shift  `json:"shifts,omitempty"`
	Duration int      `json:"durationMs"`
}

func planMove(before, after []string) Move {
	m := Move{Order: after, Duration: int(FlipDuration / time.Millisecond)}
	from := make(map[string]int, len(before))
	for i, id := range before {
		from[id] = i
	}
	for i, id := range after {
		if f, ok := from[id]; ok && f != i {
			m.Shifts = append(m.Shifts, Shift{ID: id, From: f, To: i})
		}
	}
	m.Moved = len(m.Shifts) > 0
	return m
}

type pendingDeletion struct {
	id    string
	prev  *State
	timer *time.Timer
}

type dragGesture struct {
	id string
}

func (e *Editor) requireSectionLocked(id string) error {
	if err := e.requireActive(); err != nil {
		return err
	}
	if _, ok := e.doc.Unit(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSection, id)
	}
	return nil
}

// MoveSection swaps section id with its neighbour: dir < 0 moves it up and
// dir > 0 down. Moving past either end is a no-op.
func (e *Editor) MoveSection(id string, dir int) (Move, error) {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireSectionLocked(id); err != nil {
		return Move{}, err
	}
	before := e.doc.Order()
	idx := e.doc.IndexOf(id)
	if (dir < 0 && idx == 0) || (dir > 0 && idx == len(before)-1) || dir == 0 {
		return planMove(before, before), nil
	}
	e.beginMutation()
	e.history.Push(e.state)
	e.doc.MoveUnit(id, dir)
	return e.commitOrderLocked(before), nil
}

// MoveSectionTo places section id at index, the drop target of a drag.
func (e *Editor) MoveSectionTo(id string, index int) (Move, error) {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireSectionLocked(id); err != nil {
		return Move{}, err
	}
	return e.moveToLocked(id, index), nil
}

func (e *Editor) moveToLocked(id string, index int) Move {
	before := e.doc.Order()
	if index < 0 {
		index = 0
	}
	if index >= len(before) {
		index = len(before) - 1
	}
	if e.doc.IndexOf(id) == index {
		return planMove(before, before)
	}
	e.beginMutation()
	e.history.Push(e.state)
	e.doc.MoveUnitTo(id, index)
	return e.commitOrderLocked(before)
}

func (e *Editor) commitOrderLocked(before []string) Move {
	after := e.doc.Order()
	e.state.Order = append([]string(nil), after...)
	e.scheduleSave()
	return planMove(before, after)
}

// BeginDrag starts dragging section id.
func (e *Editor) BeginDrag(id string) error {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireSectionLocked(id); err != nil {
		return err
	}
	e.clearDragLocked()
	u, _ := e.doc.Unit(id)
	dom.AddClass(u.Section, ClassDragging)
	e.drag = &dragGesture{id: id}
	return nil
}

// EndDrag drops the dragged section at index.
func (e *Editor) EndDrag(index int) (Move, error) {
	e.mu.Lock()
	defer e.unlock()
	if e.drag == nil {
		return Move{}, ErrNoGesture
	}
	id := e.drag.id
	e.clearDragLocked()
	if err := e.requireSectionLocked(id); err != nil {
		return Move{}, err
	}
	return e.moveToLocked(id, index), nil
}

// AbortDrag cancels a drag without moving anything.
func (e *Editor) AbortDrag() {
	e.mu.Lock()
	defer e.unlock()
	e.clearDragLocked()
}

func (e *Editor) clearDragLocked() {
	if e.drag == nil {
		return
	}
	if u, ok := e.doc.Unit(e.drag.id); ok {
		dom.RemoveClass(u.Section, ClassDragging)
	}
	e.drag = nil
}

func (e *Editor) cancelGesturesLocked() {
	e.clearDragLocked()
	e.abortResizeLocked()
}

// ToggleHidden hides or shows section id and returns the new hidden state.
func (e *Editor) ToggleHidden(id string) (bool, error) {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireSectionLocked(id); err != nil {
		return false, err
	}
	e.beginMutation()
	e.history.Push(e.state)
	hidden := !e.state.IsHidden(id)
	if hidden {
		e.state.Hidden = append(e.state.Hidden, id)
	} else {
		e.state.Hidden = without(e.state.Hidden, id)
	}
	e.doc.SetUnitHidden(id, hidden)
	e.scheduleSave()
	return hidden, nil
}

// DuplicateSection copies section id, with its overrides, element styles,
// sizes and section style, as "<id>-copy-<n>" directly after it. Bindings
// that do not start with "<id>." keep their key and are logged.
func (e *Editor) DuplicateSection(id string) (string, error) {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireSectionLocked(id); err != nil {
		return "", err
	}
	newID := e.copyIDLocked(id)

	// Capture the copy from a content-only build so live inline styles and
	// hidden state are not baked into the stored markup.
	scratch := e.markup.Clone()
	hydrateContent(scratch, e.table, e.state, e.logger)
	u, ok := scratch.CloneUnit(id, newID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSection, id)
	}
	markup := dom.OuterHTML(u.Section)
	if u.Transition != nil {
		markup += dom.OuterHTML(u.Transition)
	}
	if unscoped := content.UnscopedKeys(newID, dom.BoundKeys(u.Section)); len(unscoped) > 0 {
		e.logger.Warn("duplicated section has bindings outside its namespace", "section", id, "keys", unscoped)
	}

	e.beginMutation()
	e.history.Push(e.state)
	s := e.state
	s.Blocks = append(s.Blocks, Block{ID: newID, Type: "copy", HTML: markup})
	for _, k := range s.Overrides.Keys() {
		if content.InSection(k, id) {
			s.Overrides[content.RekeyForSection(k, id, newID)] = s.Overrides[k]
		}
	}
	for _, k := range sortedKeys(s.ElementStyles) {
		if content.InSection(k, id) {
			s.ElementStyles[content.RekeyForSection(k, id, newID)] = cloneBag(s.ElementStyles[k])
		}
	}
	for _, k := range sortedKeys(s.Sizes) {
		if content.InSection(k, id) {
			s.Sizes[content.RekeyForSection(k, id, newID)] = s.Sizes[k]
		}
	}
	if bag, ok := s.SectionStyles[id]; ok {
		s.SectionStyles[newID] = cloneBag(bag)
	}
	s.Order = insertAfter(e.doc.Order(), id, newID)
	e.rebuildLocked()
	e.scheduleSave()
	return newID, nil
}

func (e *Editor) copyIDLocked(id string) string {
	for n := 1; ; n++ {
		cand := id + "-copy-" + strconv.Itoa(n)
		_, _, isBlock := e.state.Block(cand)
		if e.doc.ByID(cand) == nil && !isBlock && !contains(e.state.Removed, cand) {
			return cand
		}
	}
}

// DeleteSection removes section id and everything stored under it. The
// deletion can be reverted with RestoreDeleted until the restore window
// passes or another change is made.
func (e *Editor) DeleteSection(id string) error {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireSectionLocked(id); err != nil {
		return err
	}
	u, _ := e.doc.Unit(id)
	if unscoped := content.UnscopedKeys(id, dom.BoundKeys(u.Section)); len(unscoped) > 0 {
		e.logger.Warn("deleted section leaves bindings outside its namespace", "section", id, "keys", unscoped)
	}
	e.beginMutation()
	e.history.Push(e.state)
	prev := e.state.Clone()

	s := e.state
	s.Hidden = without(s.Hidden, id)
	s.Order = without(e.doc.Order(), id)
	for _, k := range s.Overrides.Keys() {
		if content.InSection(k, id) {
			delete(s.Overrides, k)
		}
	}
	for k := range s.ElementStyles {
		if content.InSection(k, id) {
			delete(s.ElementStyles, k)
		}
	}
	for k := range s.Sizes {
		if content.InSection(k, id) {
			delete(s.Sizes, k)
		}
	}
	delete(s.SectionStyles, id)
	if _, i, ok := s.Block(id); ok {
		s.Blocks = append(s.Blocks[:i:i], s.Blocks[i+1:]...)
	} else if !contains(s.Removed, id) {
		s.Removed = append(s.Removed, id)
	}
	e.doc.RemoveUnit(id)
	if e.selected != "" && !e.doc.IsBound(e.selected) {
		e.selected = ""
		if e.mode == ModeEditing {
			e.mode = ModeBrowse
		}
		e.emitLocked()
	}

	p := &pendingDeletion{id: id, prev: prev}
	p.timer = time.AfterFunc(e.restoreWindow, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.pending == p {
			e.pending = nil
		}
	})
	e.pending = p
	e.scheduleSave()
	return nil
}

// RestoreDeleted brings back the most recently deleted section.
func (e *Editor) RestoreDeleted(id string) error {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireActive(); err != nil {
		return err
	}
	p := e.pending
	if p == nil || p.id != id {
		return fmt.Errorf("%w: %s", ErrRestoreExpired, id)
	}
	p.timer.Stop()
	e.pending = nil
	e.history.Push(e.state)
	e.state = p.prev
	e.rebuildLocked()
	e.scheduleSave()
	return nil
}

// SetSectionStyle sets one section setting. An empty value clears it.
func (e *Editor) SetSectionStyle(id, prop, value string) error {
	e.mu.Lock()
	defer e.unlock()
	if err := e.requireSectionLocked(id); err != nil {
		return err
	}
	if err := validateSectionStyle(prop, value); err != nil {
		return err
	}
	bag := e.state.SectionStyles[id]
	if bag[prop] == value {
		return nil
	}
	e.beginMutation()
	e.history.Push(e.state)
	if value == "" {
		delete(bag, prop)
		if len(bag) == 0 {
			delete(e.state.SectionStyles, id)
		}
	} else {
		if bag == nil {
			bag = map[string]string{}
			e.state.SectionStyles[id] = bag
		}
		bag[prop] = value
	}
	u, _ := e.doc.Unit(id)
	dom.ApplySectionStyle(u.Section, prop, value)
	e.scheduleSave()
	return nil
}

func validateSectionStyle(prop, value string) error {
	switch prop {
	case dom.SectionBgColor, dom.SectionTextColor:
		if value != "" && !content.IsHexColor(value) {
			return fmt.Errorf("%w: %s must be a hex color", ErrInvalidValue, prop)
		}
		return nil
	case dom.SectionPaddingTop, dom.SectionPaddingBottom:
		return validateRange(prop, value, 0, 12)
	case dom.SectionMaxWidth:
		return validateRange(prop, value, 600, 1600)
	}
	return fmt.Errorf("%w: unknown section setting %q", ErrInvalidKey, prop)
}

func validateRange(prop, value string, min, max float64) error {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < min || f > max {
		return fmt.Errorf("%w: %s must be a number between %g and %g", ErrInvalidValue, prop, min, max)
	}
	return nil
}
