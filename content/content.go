// Package content holds the content-key model of the landing page: the
// default table, key classification, the override map and the value
// resolver. Everything that decides how a key is written into the page
// calls Classify; the naming convention is implemented nowhere else.
package content

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the namespace a content key belongs to.
type Kind int

const (
	KindPlainText Kind = iota
	KindRichText
	KindDesign
	KindImage
	KindFeatures
)

func (k Kind) String() string {
	switch k {
	case KindRichText:
		return "rich"
	case KindDesign:
		return "design"
	case KindImage:
		return "image"
	case KindFeatures:
		return "features"
	default:
		return "plain"
	}
}

// Inline reports whether keys of this kind can be edited in place on the page.
func (k Kind) Inline() bool {
	return k == KindPlainText || k == KindRichText
}

const (
	designPrefix   = "design."
	imagePrefix    = "img."
	featuresSuffix = ".features"
)

// richTextTokens mark a key as carrying inline markup when any of them
// appears in the key. Matching is case sensitive.
var richTextTokens = []string{"headline", "body", "subtext", "text", "answer", "Note", "note"}

// Classify returns the kind of key.
func Classify(key string) Kind {
	switch {
	case strings.HasPrefix(key, designPrefix):
		return KindDesign
	case strings.HasPrefix(key, imagePrefix):
		return KindImage
	case strings.HasSuffix(key, featuresSuffix):
		return KindFeatures
	}
	for _, tok := range richTextTokens {
		if strings.Contains(key, tok) {
			return KindRichText
		}
	}
	return KindPlainText
}

var (
	// ErrInvalidKey is returned for keys that do not follow the dotted key syntax.
	ErrInvalidKey = errors.New("invalid content key")
	// ErrInvalidValue is returned when a value is rejected at the input boundary.
	ErrInvalidValue = errors.New("invalid value")
)

// ValidateKey checks that key has at least two dot separated segments made of
// letters, digits, '-' and '_'.
func ValidateKey(key string) error {
	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for _, p := range parts {
		if p == "" {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
		for _, r := range p {
			if !isKeyRune(r) {
				return fmt.Errorf("%w: %q", ErrInvalidKey, key)
			}
		}
	}
	return nil
}

func isKeyRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_'
}
