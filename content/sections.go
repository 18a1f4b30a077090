package content

import (
	"regexp"
	"strings"
)

var sectionNames = map[string]string{
	"hero":         "Hero",
	"problem":      "The Problem",
	"voices":       "Voices",
	"solution":     "The Solution",
	"detox":        "Detox Challenge",
	"how-it-works": "How It Works",
	"pricing":      "Pricing",
	"faq":          "FAQ",
}

var copySuffix = regexp.MustCompile(`-copy-\d+$`)

// SectionName returns a display name for a section id. Duplicates are named
// after their source with a " (Copy)" suffix; custom blocks and unknown ids
// fall back to the id itself.
func SectionName(id string) string {
	if base := copySuffix.ReplaceAllString(id, ""); base != id {
		return SectionName(base) + " (Copy)"
	}
	if name, ok := sectionNames[id]; ok {
		return name
	}
	if strings.HasPrefix(id, "custom-") {
		return "Custom Block"
	}
	return id
}

// InSection reports whether key is scoped to sectionID, that is whether it
// starts with "<sectionID>.". Image slots are scoped by their second segment.
func InSection(key, sectionID string) bool {
	prefix := sectionID + "."
	return strings.HasPrefix(key, prefix) || strings.HasPrefix(key, imagePrefix+prefix)
}

// RekeyForSection rewrites the first occurrence of "<oldID>." in key to
// "<newID>.". Keys without that prefix are returned unchanged.
func RekeyForSection(key, oldID, newID string) string {
	return strings.Replace(key, oldID+".", newID+".", 1)
}

// UnscopedKeys returns the keys bound inside a section that do not carry the
// section prefix. Their overrides cannot follow the section when it is
// duplicated or deleted.
func UnscopedKeys(sectionID string, keys []string) []string {
	var out []string
	for _, k := range keys {
		if !InSection(k, sectionID) {
			out = append(out, k)
		}
	}
	return out
}
