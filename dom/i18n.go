package dom

import (
	"strings"

	"github.com/eringen/hws/content"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AttrI18n marks page chrome that follows the UI language.
const AttrI18n = "data-i18n"

// ApplyLanguage sets <html lang> and translates every data-i18n node. Inputs
// get their placeholder replaced. Nodes holding icons keep them and only
// their first non-blank text node changes.
func ApplyLanguage(d *Document, lang string) {
	lang = content.NormalizeLang(lang)
	if root := d.HTMLElement(); root != nil {
		SetAttr(root, "lang", lang)
	}
	for _, n := range findAll(d.root, func(n *html.Node) bool { return HasAttr(n, AttrI18n) }) {
		s, ok := content.Translate(Attr(n, AttrI18n), lang)
		if !ok {
			continue
		}
		if n.DataAtom == atom.Input && HasAttr(n, "placeholder") {
			SetAttr(n, "placeholder", s)
			continue
		}
		if hasIcon(n) {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
					c.Data = s
					break
				}
			}
			continue
		}
		SetText(n, s)
	}
	toggle := "ES"
	label := "Cambiar a español"
	if lang == content.LangSpanish {
		toggle, label = "EN", "Switch to English"
	}
	for _, n := range findAll(d.root, func(n *html.Node) bool { return HasClass(n, "lang-toggle") }) {
		SetAttr(n, "aria-label", label)
		if n.DataAtom == atom.Button {
			SetAttr(n, "value", strings.ToLower(toggle))
			SetText(n, toggle)
		}
	}
}

func hasIcon(n *html.Node) bool {
	return findFirst(n, func(c *html.Node) bool {
		return c != n && (c.Data == "svg" || c.DataAtom == atom.Img || HasClass(c, "hero-card__badge-dot"))
	}) != nil
}
