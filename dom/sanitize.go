package dom

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextPolicyOnce sync.Once
	richTextPolicy     *bluemonday.Policy
)

// policy allows the inline subset rich-text keys may carry. Anything else is
// unwrapped, keeping its text.
func policy() *bluemonday.Policy {
	richTextPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("em", "strong", "b", "i", "u", "br")
		p.AllowAttrs("href").OnElements("a")
		p.AllowStandardURLs()
		richTextPolicy = p
	})
	return richTextPolicy
}

var multiSpace = regexp.MustCompile(`\s{2,}`)

// SanitizeRichText reduces edited markup to the allowed inline tags and
// collapses whitespace. It never rejects input.
func SanitizeRichText(s string) string {
	out := policy().Sanitize(s)
	out = strings.ReplaceAll(out, "\n", " ")
	out = multiSpace.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
