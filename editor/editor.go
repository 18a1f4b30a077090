// Package editor is the owner's editing session: the override state, its
// persistence, the selection and inline-edit state machine, history, and the
// section, style, resize and block operations. Every operation is a method
// on one Editor, which serializes them with a mutex.
package editor

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/eringen/hws/content"
	"github.com/eringen/hws/dom"
)

// Defaults for Options.
const (
	DefaultSaveDelay     = 300 * time.Millisecond
	DefaultRestoreWindow = 10 * time.Second
	// FlipDuration is how long the client animates a section move.
	FlipDuration = 380 * time.Millisecond
)

// Mode is the editor state machine position.
type Mode int

const (
	ModeOff Mode = iota
	ModeBrowse
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeBrowse:
		return "browse"
	case ModeEditing:
		return "editing"
	default:
		return "off"
	}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Selection is published whenever the selected key or the mode changes.
type Selection struct {
	Key  string       `json:"key"`
	Kind content.Kind `json:"-"`
	Mode Mode         `json:"mode"`
}

// Options configures an Editor.
type Options struct {
	Table   *content.Table
	Markup  *dom.Document
	Storage Storage
	Logger  *slog.Logger

	HistoryDepth  int
	SaveDelay     time.Duration
	RestoreWindow time.Duration

	// OnPersist runs after every successful write to Storage, with the
	// editor lock held. It must not call back into the Editor.
	OnPersist func()
}

// Editor owns the live document and the override state.
type Editor struct {
	mu sync.Mutex

	table   *content.Table
	markup  *dom.Document
	store   Storage
	logger  *slog.Logger
	history *History

	state    *State
	doc      *dom.Document
	renderer *dom.Renderer

	mode     Mode
	selected string
	draft    string

	listeners []func(Selection)
	events    []Selection

	saveDelay time.Duration
	saveTimer *time.Timer
	dirty     bool
	onPersist func()

	restoreWindow time.Duration
	pending       *pendingDeletion
	drag          *dragGesture
	resize        *resizeGesture

	closed bool
}

// New loads the persisted state and builds the live document.
func New(opts Options) (*Editor, error) {
	if opts.Markup == nil {
		return nil, fmt.Errorf("editor: markup is required")
	}
	if opts.Table == nil {
		opts.Table = content.Defaults()
	}
	if opts.Storage == nil {
		opts.Storage = NewMemoryStorage()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.SaveDelay <= 0 {
		opts.SaveDelay = DefaultSaveDelay
	}
	if opts.RestoreWindow <= 0 {
		opts.RestoreWindow = DefaultRestoreWindow
	}
	state, err := LoadState(opts.Storage, opts.Logger)
	if err != nil {
		return nil, err
	}
	e := &Editor{
		table:         opts.Table,
		markup:        opts.Markup,
		store:         opts.Storage,
		logger:        opts.Logger,
		history:       NewHistory(opts.HistoryDepth),
		state:         state,
		saveDelay:     opts.SaveDelay,
		restoreWindow: opts.RestoreWindow,
		onPersist:     opts.OnPersist,
	}
	e.rebuildLocked()
	return e, nil
}

// unlock releases the lock and then delivers queued selection events.
func (e *Editor) unlock() {
	events := e.events
	e.events = nil
	listeners := append([]func(Selection){}, e.listeners...)
	e.mu.Unlock()
	for _, ev := range events {
		for _, fn := range listeners {
			fn(ev)
		}
	}
}

// OnSelectionChange registers fn to run after every selection or mode
// change, outside the editor lock. The returned func unregisters it.
func (e *Editor) OnSelectionChange(fn func(Selection)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
	idx := len(e.listeners) - 1
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if idx < len(e.listeners) {
			e.listeners[idx] = func(Selection) {}
		}
	}
}

func (e *Editor) emitLocked() {
	e.events = append(e.events, Selection{Key: e.selected, Kind: content.Classify(e.selected), Mode: e.mode})
}

func (e *Editor) resolveLocked(key string) string {
	return content.Resolve(e.table, e.state.Overrides, key)
}

// rebuildLocked replaces the live document with a fresh build of the
// current state.
func (e *Editor) rebuildLocked() {
	e.doc = BuildPage(e.markup, e.table, e.state, e.logger)
	e.renderer = dom.NewRenderer(e.doc, e.resolveLocked)
	if e.selected != "" && !e.doc.IsBound(e.selected) {
		e.selected = ""
		if e.mode == ModeEditing {
			e.mode = ModeBrowse
		}
		e.emitLocked()
	}
}

// Mode returns the current mode.
func (e *Editor) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// Selected returns the selected key, or "".
func (e *Editor) Selected() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selected
}

// Activate enters browse mode.
func (e *Editor) Activate() {
	e.mu.Lock()
	defer e.unlock()
	if e.mode != ModeOff {
		return
	}
	e.mode = ModeBrowse
	e.emitLocked()
}

// Deactivate commits any inline edit, clears the selection, writes pending
// changes and turns the editor off.
func (e *Editor) Deactivate() error {
	e.mu.Lock()
	defer e.unlock()
	return e.deactivateLocked()
}

func (e *Editor) deactivateLocked() error {
	if e.mode == ModeOff {
		return nil
	}
	var err error
	if e.mode == ModeEditing {
		err = e.commitLocked(e.draft)
	}
	e.cancelGesturesLocked()
	e.selected = ""
	e.mode = ModeOff
	e.emitLocked()
	if ferr := e.flushLocked(); err == nil {
		err = ferr
	}
	return err
}

// Toggle switches between off and browse, returning the new mode.
func (e *Editor) Toggle() (Mode, error) {
	e.mu.Lock()
	defer e.unlock()
	if e.mode == ModeOff {
		e.mode = ModeBrowse
		e.emitLocked()
		return e.mode, nil
	}
	err := e.deactivateLocked()
	return e.mode, err
}

// Escape steps back one level: editing commits, a selection is cleared and
// with nothing selected the editor turns off.
func (e *Editor) Escape() (Mode, error) {
	e.mu.Lock()
	defer e.unlock()
	switch {
	case e.mode == ModeEditing:
		err := e.commitLocked(e.draft)
		return e.mode, err
	case e.mode == ModeBrowse && e.selected != "":
		e.selected = ""
		e.emitLocked()
		return e.mode, nil
	case e.mode == ModeBrowse:
		err := e.deactivateLocked()
		return e.mode, err
	}
	return e.mode, nil
}

// Select makes key the single selection. An inline edit in progress is
// committed first.
func (e *Editor) Select(key string) error {
	e.mu.Lock()
	defer e.unlock()
	return e.selectLocked(key)
}

func (e *Editor) selectLocked(key string) error {
	if e.mode == ModeOff {
		return ErrEditorOff
	}
	if !e.doc.IsBound(key) {
		return fmt.Errorf("%w: %s", ErrNotBound, key)
	}
	if e.mode == ModeEditing {
		if key == e.selected {
			return nil
		}
		if err := e.commitLocked(e.draft); err != nil {
			return err
		}
	}
	if e.selected == key {
		return nil
	}
	e.selected = key
	e.emitLocked()
	return nil
}

// Deselect clears the selection, committing an inline edit first.
func (e *Editor) Deselect() error {
	e.mu.Lock()
	defer e.unlock()
	if e.mode == ModeOff {
		return ErrEditorOff
	}
	if e.mode == ModeEditing {
		if err := e.commitLocked(e.draft); err != nil {
			return err
		}
	}
	if e.selected == "" {
		return nil
	}
	e.selected = ""
	e.emitLocked()
	return nil
}

// StartEditing selects key and enters inline editing. Image, list and
// design keys are never edited inline; for them it returns false and
// leaves the state alone.
func (e *Editor) StartEditing(key string) (bool, error) {
	e.mu.Lock()
	defer e.unlock()
	if e.mode == ModeOff {
		return false, ErrEditorOff
	}
	if !content.Classify(key).Inline() {
		return false, nil
	}
	if err := e.selectLocked(key); err != nil {
		return false, err
	}
	if e.mode == ModeEditing {
		return true, nil
	}
	e.mode = ModeEditing
	e.draft = e.resolveLocked(key)
	e.emitLocked()
	return true, nil
}

// Draft records the in-progress content of the inline edit. Escape and a
// new selection commit the last draft.
func (e *Editor) Draft(s string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModeEditing {
		return ErrNotEditing
	}
	e.draft = s
	return nil
}

// Commit ends the inline edit with s as the new value. Rich text is
// sanitized and plain text trimmed before it is stored.
func (e *Editor) Commit(s string) error {
	e.mu.Lock()
	defer e.unlock()
	if e.mode != ModeEditing {
		return ErrNotEditing
	}
	return e.commitLocked(s)
}

// CancelEditing leaves inline editing without storing anything.
func (e *Editor) CancelEditing() error {
	e.mu.Lock()
	defer e.unlock()
	if e.mode != ModeEditing {
		return ErrNotEditing
	}
	e.mode = ModeBrowse
	e.draft = ""
	e.emitLocked()
	return nil
}

func (e *Editor) commitLocked(s string) error {
	key := e.selected
	switch {
	case s == e.resolveLocked(key):
	case content.Classify(key) == content.KindRichText:
		s = dom.SanitizeRichText(s)
	default:
		s = strings.TrimSpace(s)
	}
	e.mode = ModeBrowse
	e.draft = ""
	e.emitLocked()
	return e.setValueLocked(key, s)
}

// Status is a summary of the session for the editor UI.
type Status struct {
	Mode           Mode         `json:"mode"`
	Selected       string       `json:"selected,omitempty"`
	Count          int          `json:"count"`
	CanUndo        bool         `json:"canUndo"`
	CanRedo        bool         `json:"canRedo"`
	Dirty          bool         `json:"dirty"`
	PendingRestore string       `json:"pendingRestore,omitempty"`
	History        HistoryStats `json:"history"`
}

// Status reports the session state. Count is the number of customized
// content keys.
func (e *Editor) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := Status{
		Mode:     e.mode,
		Selected: e.selected,
		Count:    e.state.Overrides.Count(),
		CanUndo:  e.history.CanUndo(),
		CanRedo:  e.history.CanRedo(),
		Dirty:    e.dirty,
		History:  e.history.Stats(),
	}
	if e.pending != nil {
		st.PendingRestore = e.pending.id
	}
	return st
}

// State returns a copy of the current state.
func (e *Editor) State() *State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Resolve returns the current value of key.
func (e *Editor) Resolve(key string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resolveLocked(key)
}

// LiveHTML renders the live document after decorate has adjusted a copy of
// it. decorate may be nil.
func (e *Editor) LiveHTML(decorate func(*dom.Document)) string {
	e.mu.Lock()
	doc := e.doc.Clone()
	e.mu.Unlock()
	if decorate != nil {
		decorate(doc)
	}
	return doc.String()
}

// LiveParts returns the inner HTML of the live <main> and the inline style
// of the root element, which is all a client needs to refresh after an
// edit.
func (e *Editor) LiveParts() (main, rootStyle string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if m := e.doc.Main(); m != nil {
		main = dom.InnerHTML(m)
	}
	if r := e.doc.HTMLElement(); r != nil {
		rootStyle = dom.Attr(r, "style")
	}
	return main, rootStyle
}

// PublicHTML renders the visitor page for lang from the current state.
func (e *Editor) PublicHTML(lang string) string {
	return e.PublicDocument(lang).String()
}

// PublicDocument builds the visitor page for lang. The caller owns the
// returned document.
func (e *Editor) PublicDocument(lang string) *dom.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return PublicPage(e.markup, e.table, e.state, lang, e.logger)
}

// SetMarkup swaps the page markup, for example after the file on disk
// changed, and rebuilds the live document.
func (e *Editor) SetMarkup(markup *dom.Document) {
	e.mu.Lock()
	defer e.unlock()
	e.markup = markup
	e.cancelGesturesLocked()
	e.rebuildLocked()
}

// beginMutation invalidates a pending section restore. Every operation that
// changes state calls it first, so a restore never resurrects a state that
// later edits already moved past.
func (e *Editor) beginMutation() {
	if e.pending != nil {
		e.pending.timer.Stop()
		e.pending = nil
	}
}

func (e *Editor) requireActive() error {
	if e.closed {
		return ErrClosed
	}
	if e.mode == ModeOff {
		return ErrEditorOff
	}
	return nil
}

// scheduleSave arms the shared debounce timer.
func (e *Editor) scheduleSave() {
	e.dirty = true
	if e.saveTimer == nil {
		e.saveTimer = time.AfterFunc(e.saveDelay, e.debouncedSave)
		return
	}
	e.saveTimer.Reset(e.saveDelay)
}

func (e *Editor) debouncedSave() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.dirty || e.closed {
		return
	}
	if err := e.saveLocked(); err != nil {
		e.logger.Error("saving overrides", "err", err)
	}
}

func (e *Editor) saveLocked() error {
	if err := SaveState(e.store, e.state); err != nil {
		return err
	}
	e.dirty = false
	if e.onPersist != nil {
		e.onPersist()
	}
	return nil
}

// persistNowLocked writes immediately, cancelling a pending debounce.
func (e *Editor) persistNowLocked() error {
	if e.saveTimer != nil {
		e.saveTimer.Stop()
	}
	e.dirty = true
	return e.saveLocked()
}

func (e *Editor) flushLocked() error {
	if !e.dirty {
		return nil
	}
	if e.saveTimer != nil {
		e.saveTimer.Stop()
	}
	return e.saveLocked()
}

// Flush writes pending changes now.
func (e *Editor) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flushLocked()
}

// Close flushes pending changes and stops every timer. The editor rejects
// further mutations.
func (e *Editor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	err := e.flushLocked()
	e.beginMutation()
	e.closed = true
	return err
}
