package editor

import (
	"errors"

	"github.com/eringen/hws/content"
)

var (
	ErrEditorOff      = errors.New("editor is not active")
	ErrEditing        = errors.New("an inline edit is in progress")
	ErrNotEditing     = errors.New("no inline edit in progress")
	ErrNotBound       = errors.New("key is not bound on the page")
	ErrUnknownSection = errors.New("unknown section")
	ErrNothingToUndo  = errors.New("nothing to undo")
	ErrNothingToRedo  = errors.New("nothing to redo")
	ErrRestoreExpired = errors.New("deleted section can no longer be restored")
	ErrNoGesture      = errors.New("no gesture in progress")
	ErrInvalidImport  = errors.New("invalid override import")
	ErrClosed         = errors.New("editor closed")

	// ErrInvalidValue and ErrInvalidKey are the content package sentinels,
	// re-exported so callers only need this package.
	ErrInvalidValue = content.ErrInvalidValue
	ErrInvalidKey   = content.ErrInvalidKey
)
