package editor

import (
	"log/slog"

	"github.com/eringen/hws/content"
	"github.com/eringen/hws/dom"
)

// BuildPage is the page-load pipeline: a fresh copy of markup with the
// persisted state applied.
func BuildPage(markup *dom.Document, table *content.Table, s *State, logger *slog.Logger) *dom.Document {
	doc := markup.Clone()
	Hydrate(doc, table, s, logger)
	return doc
}

// PublicPage builds the page a visitor sees: hydrated, translated and
// stripped of every binding.
func PublicPage(markup *dom.Document, table *content.Table, s *State, lang string, logger *slog.Logger) *dom.Document {
	doc := BuildPage(markup, table, s, logger)
	dom.ApplyLanguage(doc, lang)
	dom.StripEditor(doc)
	return doc
}

// Hydrate applies s to doc: custom blocks, content values, order, removed
// sections, hidden sections, section styles, sizes, then element styles.
func Hydrate(doc *dom.Document, table *content.Table, s *State, logger *slog.Logger) {
	hydrateContent(doc, table, s, logger)
	hydrateLayout(doc, s)
}

func resolver(table *content.Table, o content.Overrides) func(string) string {
	return func(key string) string { return content.Resolve(table, o, key) }
}

// hydrateContent materializes blocks and writes every content value. Design
// tokens are only written when overridden so the stylesheet defaults stay
// in charge otherwise.
func hydrateContent(doc *dom.Document, table *content.Table, s *State, logger *slog.Logger) {
	for _, b := range s.Blocks {
		if doc.ByID(b.ID) != nil {
			logger.Warn("skipping block with duplicate id", "block", b.ID)
			continue
		}
		if err := doc.AppendFragment(b.HTML); err != nil {
			logger.Warn("skipping unparseable block", "block", b.ID, "err", err)
		}
	}
	r := dom.NewRenderer(doc, resolver(table, s.Overrides))
	for _, key := range table.Keys() {
		if content.Classify(key) == content.KindDesign {
			if v, ok := s.Overrides[key]; ok {
				r.ApplyKey(key, v)
			}
			continue
		}
		r.ApplyKey(key, content.Resolve(table, s.Overrides, key))
	}
	for _, key := range s.Overrides.Keys() {
		if !table.Has(key) {
			r.ApplyKey(key, s.Overrides[key])
		}
	}
}

func hydrateLayout(doc *dom.Document, s *State) {
	doc.ApplyOrder(s.Order)
	for _, id := range s.Removed {
		doc.RemoveUnit(id)
	}
	for _, id := range s.Hidden {
		doc.SetUnitHidden(id, true)
	}
	for _, id := range sortedKeys(s.SectionStyles) {
		section := doc.ByID(id)
		if section == nil {
			continue
		}
		bag := s.SectionStyles[id]
		for _, prop := range dom.SectionStyleProps {
			if v := bag[prop]; v != "" {
				dom.ApplySectionStyle(section, prop, v)
			}
		}
	}
	for _, key := range sortedKeys(s.Sizes) {
		size := s.Sizes[key]
		for _, n := range doc.Bound(key) {
			dom.ApplySize(dom.StyleTarget(n, key), size.W, size.H)
		}
	}
	for _, key := range sortedKeys(s.ElementStyles) {
		bag := s.ElementStyles[key]
		nodes := doc.Bound(key)
		if len(nodes) == 0 {
			nodes = doc.FeaturesBound(key)
		}
		for _, n := range nodes {
			target := dom.StyleTarget(n, key)
			for _, prop := range dom.ElementStyleProps {
				if v := bag[prop]; v != "" {
					dom.ApplyElementStyle(n, target, prop, v)
				}
			}
		}
	}
}
