package content

import "sort"

// Overrides maps content keys to user supplied values. A missing key means
// the default applies; the map never holds a value equal to its default when
// written through Set, so its size is the customization count.
type Overrides map[string]string

// Clone returns a copy of o. A nil map clones to an empty one.
func (o Overrides) Clone() Overrides {
	out := make(Overrides, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Count returns the number of customized keys.
func (o Overrides) Count() int { return len(o) }

// Keys returns the overridden keys sorted.
func (o Overrides) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal reports whether o and other hold the same entries.
func (o Overrides) Equal(other Overrides) bool {
	if len(o) != len(other) {
		return false
	}
	for k, v := range o {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Resolve returns the override for key if present, else its default, else "".
func Resolve(t *Table, o Overrides, key string) string {
	if v, ok := o[key]; ok {
		return v
	}
	return t.Default(key)
}

// Set writes value for key. A value equal to the default removes the key.
// It reports whether the map changed.
func Set(t *Table, o Overrides, key, value string) bool {
	cur, had := o[key]
	if value == t.Default(key) {
		if !had {
			return false
		}
		delete(o, key)
		return true
	}
	if had && cur == value {
		return false
	}
	o[key] = value
	return true
}
