package editor

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/eringen/hws/content"
)

// Storage namespaces. Each holds one JSON document.
const (
	NSOverrides     = "overrides"
	NSOrder         = "section-order"
	NSHidden        = "hidden-sections"
	NSRemoved       = "removed-sections"
	NSSectionStyles = "section-styles"
	NSElementStyles = "element-styles"
	NSSizes         = "element-sizes"
	NSBlocks        = "custom-blocks"
)

// Namespaces lists every namespace the editor owns.
var Namespaces = []string{NSOverrides, NSOrder, NSHidden, NSRemoved, NSSectionStyles, NSElementStyles, NSSizes, NSBlocks}

// Storage persists namespace documents. Get returns nil data and no error
// for a namespace that was never written.
type Storage interface {
	Get(ns string) ([]byte, error)
	Put(ns string, data []byte) error
	Delete(ns string) error
}

// MemoryStorage is an in-process Storage, used by tests and the CLI.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStorage returns an empty store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

func (m *MemoryStorage) Get(ns string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[ns]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), b...), nil
}

func (m *MemoryStorage) Put(ns string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[ns] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStorage) Delete(ns string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, ns)
	return nil
}

// Size is a pinned element size in pixels.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Block is a custom block or a duplicated section, stored as the markup it
// had when it was created or last edited structurally.
type Block struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	HTML string `json:"html"`
}

// State is every persisted namespace together.
type State struct {
	Overrides     content.Overrides            `json:"overrides,omitempty"`
	Order         []string                     `json:"order,omitempty"`
	Hidden        []string                     `json:"hidden,omitempty"`
	Removed       []string                     `json:"removed,omitempty"`
	SectionStyles map[string]map[string]string `json:"sectionStyles,omitempty"`
	ElementStyles map[string]map[string]string `json:"elementStyles,omitempty"`
	Sizes         map[string]Size              `json:"sizes,omitempty"`
	Blocks        []Block                      `json:"blocks,omitempty"`
}

// NewState returns an empty state with every map allocated.
func NewState() *State {
	s := &State{}
	s.normalize()
	return s
}

func (s *State) normalize() {
	if s.Overrides == nil {
		s.Overrides = content.Overrides{}
	}
	if s.SectionStyles == nil {
		s.SectionStyles = map[string]map[string]string{}
	}
	if s.ElementStyles == nil {
		s.ElementStyles = map[string]map[string]string{}
	}
	if s.Sizes == nil {
		s.Sizes = map[string]Size{}
	}
}

// Clone deep copies s.
func (s *State) Clone() *State {
	c := &State{
		Overrides:     s.Overrides.Clone(),
		Order:         append([]string(nil), s.Order...),
		Hidden:        append([]string(nil), s.Hidden...),
		Removed:       append([]string(nil), s.Removed...),
		SectionStyles: cloneBags(s.SectionStyles),
		ElementStyles: cloneBags(s.ElementStyles),
		Sizes:         make(map[string]Size, len(s.Sizes)),
		Blocks:        append([]Block(nil), s.Blocks...),
	}
	for k, v := range s.Sizes {
		c.Sizes[k] = v
	}
	return c
}

// Empty reports whether nothing is customized.
func (s *State) Empty() bool {
	return len(s.Overrides) == 0 && len(s.Order) == 0 && len(s.Hidden) == 0 &&
		len(s.Removed) == 0 && len(s.SectionStyles) == 0 && len(s.ElementStyles) == 0 &&
		len(s.Sizes) == 0 && len(s.Blocks) == 0
}

// IsHidden reports whether section id is in the hidden set.
func (s *State) IsHidden(id string) bool { return contains(s.Hidden, id) }

// Block returns the block record with the given id.
func (s *State) Block(id string) (Block, int, bool) {
	for i, b := range s.Blocks {
		if b.ID == id {
			return b, i, true
		}
	}
	return Block{}, -1, false
}

func cloneBags(in map[string]map[string]string) map[string]map[string]string {
	out := make(map[string]map[string]string, len(in))
	for k, bag := range in {
		out[k] = cloneBag(bag)
	}
	return out
}

func cloneBag(bag map[string]string) map[string]string {
	c := make(map[string]string, len(bag))
	for p, v := range bag {
		c[p] = v
	}
	return c
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func without(list []string, v string) []string {
	out := list[:0:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

// insertAfter returns order with id placed after anchor, or appended when
// anchor is not in order.
func insertAfter(order []string, anchor, id string) []string {
	out := make([]string, 0, len(order)+1)
	placed := false
	for _, o := range order {
		out = append(out, o)
		if o == anchor && !placed {
			out = append(out, id)
			placed = true
		}
	}
	if !placed {
		out = append(out, id)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadState reads every namespace. A namespace holding malformed JSON is
// logged and treated as empty; only storage failures are returned.
func LoadState(st Storage, logger *slog.Logger) (*State, error) {
	s := &State{}
	targets := map[string]any{
		NSOverrides:     &s.Overrides,
		NSOrder:         &s.Order,
		NSHidden:        &s.Hidden,
		NSRemoved:       &s.Removed,
		NSSectionStyles: &s.SectionStyles,
		NSElementStyles: &s.ElementStyles,
		NSSizes:         &s.Sizes,
		NSBlocks:        &s.Blocks,
	}
	for _, ns := range Namespaces {
		data, err := st.Get(ns)
		if err != nil {
			return nil, fmt.Errorf("editor: load %s: %w", ns, err)
		}
		if len(data) == 0 {
			continue
		}
		if err := json.Unmarshal(data, targets[ns]); err != nil {
			logger.Warn("discarding malformed namespace", "namespace", ns, "err", err)
			resetTarget(targets[ns])
		}
	}
	s.normalize()
	return s, nil
}

func resetTarget(t any) {
	switch v := t.(type) {
	case *content.Overrides:
		*v = nil
	case *[]string:
		*v = nil
	case *map[string]map[string]string:
		*v = nil
	case *map[string]Size:
		*v = nil
	case *[]Block:
		*v = nil
	}
}

// SaveState writes every namespace. Empty namespaces are deleted so a reset
// store holds nothing.
func SaveState(st Storage, s *State) error {
	docs := []struct {
		ns    string
		empty bool
		v     any
	}{
		{NSOverrides, len(s.Overrides) == 0, s.Overrides},
		{NSOrder, len(s.Order) == 0, s.Order},
		{NSHidden, len(s.Hidden) == 0, s.Hidden},
		{NSRemoved, len(s.Removed) == 0, s.Removed},
		{NSSectionStyles, len(s.SectionStyles) == 0, s.SectionStyles},
		{NSElementStyles, len(s.ElementStyles) == 0, s.ElementStyles},
		{NSSizes, len(s.Sizes) == 0, s.Sizes},
		{NSBlocks, len(s.Blocks) == 0, s.Blocks},
	}
	for _, d := range docs {
		if d.empty {
			if err := st.Delete(d.ns); err != nil {
				return fmt.Errorf("editor: clear %s: %w", d.ns, err)
			}
			continue
		}
		data, err := json.Marshal(d.v)
		if err != nil {
			return fmt.Errorf("editor: encode %s: %w", d.ns, err)
		}
		if err := st.Put(d.ns, data); err != nil {
			return fmt.Errorf("editor: save %s: %w", d.ns, err)
		}
	}
	return nil
}
