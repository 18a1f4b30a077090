package editor

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/eringen/hws/content"
)

// overridesSchema describes an exported override map: a flat object of
// dotted keys to string values.
const overridesSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "patternProperties": {
    "^[A-Za-z0-9_-]+(\\.[A-Za-z0-9_-]+)+$": {"type": "string"}
  },
  "additionalProperties": false
}`

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func overridesValidator() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(overridesSchema))
	})
	return schema, schemaErr
}

// ExportHTML renders a standalone copy of the page for lang: rebuilt from
// the pristine markup, with every editor binding and script removed and the
// design overrides written onto <html style>. The live page is untouched.
func (e *Editor) ExportHTML(lang string) string {
	return e.PublicHTML(lang)
}

// ExportJSON returns the override map as indented JSON.
func (e *Editor) ExportJSON() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	data, err := json.MarshalIndent(e.state.Overrides, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("editor: export overrides: %w", err)
	}
	return data, nil
}

// ParseOverrides validates an exported override map. Entries equal to their
// default are dropped. Rich text is taken as is; design tokens must pass
// the same checks as an edit.
func ParseOverrides(table *content.Table, data []byte) (content.Overrides, error) {
	sch, err := overridesValidator()
	if err != nil {
		return nil, fmt.Errorf("editor: compile import schema: %w", err)
	}
	res, err := sch.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, re := range res.Errors() {
			msgs = append(msgs, re.String())
		}
		sort.Strings(msgs)
		return nil, fmt.Errorf("%w: %s", ErrInvalidImport, strings.Join(msgs, "; "))
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	out := content.Overrides{}
	for k, v := range raw {
		if err := content.ValidateKey(k); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
		if content.Classify(k) == content.KindDesign {
			if err := content.ValidateDesign(k, v); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
			}
		}
		content.Set(table, out, k, v)
	}
	return out, nil
}

// ImportJSON replaces the whole override map with data. Nothing changes
// unless every entry is valid. Other namespaces are kept.
func (e *Editor) ImportJSON(data []byte) (int, error) {
	o, err := ParseOverrides(e.table, data)
	if err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.unlock()
	if e.closed {
		return 0, ErrClosed
	}
	if e.mode == ModeEditing {
		return 0, ErrEditing
	}
	e.beginMutation()
	e.cancelGesturesLocked()
	e.history.Push(e.state)
	e.state.Overrides = o
	e.rebuildLocked()
	return len(o), e.persistNowLocked()
}

// ResetAll clears every namespace. It can be undone.
func (e *Editor) ResetAll() error {
	e.mu.Lock()
	defer e.unlock()
	if e.closed {
		return ErrClosed
	}
	if e.mode == ModeEditing {
		e.mode = ModeBrowse
		e.draft = ""
		e.emitLocked()
	}
	e.beginMutation()
	e.cancelGesturesLocked()
	e.history.Push(e.state)
	e.state = NewState()
	e.rebuildLocked()
	return e.persistNowLocked()
}
