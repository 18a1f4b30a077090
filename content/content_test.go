package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		key  string
		want Kind
	}{
		{"design.colorBg", KindDesign},
		{"design.sectionPaddingY", KindDesign},
		{"img.navLogo", KindImage},
		{"pricing.tier0.features", KindFeatures},
		{"hero.headline", KindRichText},
		{"problem.body1", KindRichText},
		{"hero.subtext", KindRichText},
		{"solution.card0.text", KindRichText},
		{"faq.item0.answer", KindRichText},
		{"hero.newsletterNote", KindRichText},
		{"pricing.tier0.priceNote", KindRichText},
		{"detox.formNote", KindRichText},
		{"nav.ctaText", KindPlainText},
		{"hero.label", KindPlainText},
		{"faq.item0.question", KindPlainText},
		{"transition.1", KindPlainText},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.key))
		})
	}
}

func TestClassify_CaseSensitive(t *testing.T) {
	assert.Equal(t, KindPlainText, Classify("hero.HEADLINE"))
	assert.Equal(t, KindRichText, Classify("hero.Note"))
}

func TestKind_Inline(t *testing.T) {
	assert.True(t, KindPlainText.Inline())
	assert.True(t, KindRichText.Inline())
	assert.False(t, KindImage.Inline())
	assert.False(t, KindFeatures.Inline())
	assert.False(t, KindDesign.Inline())
}

func TestValidateKey(t *testing.T) {
	for _, key := range []string{"hero.headline", "how-it-works.step_1.title", "img.navLogo"} {
		assert.NoError(t, ValidateKey(key), key)
	}
	for _, key := range []string{"", "hero", "hero.", ".hero", "hero..headline", "hero.head line", "hero.<b>"} {
		err := ValidateKey(key)
		require.Error(t, err, key)
		assert.True(t, errors.Is(err, ErrInvalidKey))
	}
}

func TestDefaults(t *testing.T) {
	tbl := Defaults()
	require.Same(t, tbl, Defaults())
	assert.True(t, tbl.Has("hero.headline"))
	assert.Equal(t, "#995D81", tbl.Default("design.colorCta"))
	assert.Equal(t, "", tbl.Default("no.such"))
	assert.Equal(t, "design.colorBg", tbl.Keys()[0])
	assert.Equal(t, len(tbl.Keys()), tbl.Len())
}

func TestNewTable_DuplicateKeepsPosition(t *testing.T) {
	tbl := NewTable([]Entry{{"a.x", "1"}, {"a.y", "2"}, {"a.x", "3"}})
	assert.Equal(t, []string{"a.x", "a.y"}, tbl.Keys())
	assert.Equal(t, "3", tbl.Default("a.x"))
}

func TestResolve(t *testing.T) {
	tbl := Defaults()
	o := Overrides{"hero.label": "Custom"}
	assert.Equal(t, "Custom", Resolve(tbl, o, "hero.label"))
	assert.Equal(t, tbl.Default("hero.headline"), Resolve(tbl, o, "hero.headline"))
	assert.Equal(t, "", Resolve(tbl, o, "missing.key"))
}

func TestSet_DefaultCollapse(t *testing.T) {
	tbl := Defaults()
	for _, key := range tbl.Keys() {
		o := Overrides{key: "something else entirely"}
		require.True(t, Set(tbl, o, key, tbl.Default(key)))
		_, present := o[key]
		assert.False(t, present, key)
		assert.Equal(t, tbl.Default(key), Resolve(tbl, o, key))
	}
}

func TestSet_Idempotent(t *testing.T) {
	tbl := Defaults()
	o := Overrides{"hero.label": "Custom"}
	for _, key := range append(tbl.Keys(), "custom-1.text") {
		before := o.Clone()
		changed := Set(tbl, o, key, Resolve(tbl, o, key))
		assert.False(t, changed, key)
		assert.True(t, before.Equal(o), key)
	}
}

func TestSet_UnknownKeyEmptyValue(t *testing.T) {
	tbl := Defaults()
	o := Overrides{}
	assert.True(t, Set(tbl, o, "custom-1.text", "hi"))
	assert.Equal(t, 1, o.Count())
	assert.True(t, Set(tbl, o, "custom-1.text", ""))
	assert.Equal(t, 0, o.Count())
}

func TestOverrides_KeysSorted(t *testing.T) {
	o := Overrides{"b.x": "1", "a.x": "2"}
	assert.Equal(t, []string{"a.x", "b.x"}, o.Keys())
	c := o.Clone()
	c["c.x"] = "3"
	assert.Equal(t, 2, o.Count())
	assert.Equal(t, 0, Overrides(nil).Clone().Count())
}

func TestDeclarations(t *testing.T) {
	resolve := func(key string) string { return Defaults().Default(key) }

	assert.Equal(t, []Declaration{{"--color-bg-primary", "#000000"}},
		Declarations("design.colorBg", "#000000", resolve))
	assert.Equal(t, []Declaration{{"--border-radius-sm", "8px"}},
		Declarations("design.borderRadiusSm", "8", resolve))
	assert.Equal(t, []Declaration{{"--transition-speed", "0.4s"}},
		Declarations("design.transitionSpeed", "0.4", resolve))
	assert.Equal(t, []Declaration{{"--font-weight-heading", "700"}},
		Declarations("design.fontHeadingWeight", "700", resolve))
	assert.Nil(t, Declarations("hero.headline", "x", resolve))
}

func TestDeclarations_SectionPadding(t *testing.T) {
	resolve := func(key string) string {
		if key == "design.sectionPaddingX" {
			return "2"
		}
		return "7"
	}
	assert.Equal(t, []Declaration{{"--section-padding", "6rem 2rem"}},
		Declarations("design.sectionPaddingY", "6", resolve))
	assert.Equal(t, []Declaration{{"--section-padding", "7rem 3rem"}},
		Declarations("design.sectionPaddingX", "3", resolve))
}

func TestDeclarations_CtaDerived(t *testing.T) {
	decls := Declarations("design.colorCta", "#112233", nil)
	props := map[string]string{}
	for _, d := range decls {
		props[d.Property] = d.Value
	}
	for _, p := range []string{"--color-cta-bg", "--color-cta-secondary-border", "--color-cta-secondary-text", "--color-accent-1"} {
		assert.Equal(t, "#112233", props[p], p)
	}
}

func TestDesignProperties(t *testing.T) {
	props := DesignProperties()
	assert.Contains(t, props, "--section-padding")
	assert.Contains(t, props, "--color-cta-secondary-text")
	seen := map[string]bool{}
	for _, p := range props {
		assert.False(t, seen[p], "duplicate %s", p)
		seen[p] = true
	}
}

func TestDesignFields_CoverDefaults(t *testing.T) {
	tbl := Defaults()
	for _, key := range tbl.Keys() {
		if Classify(key) != KindDesign {
			continue
		}
		_, ok := DesignField(key)
		assert.True(t, ok, key)
		assert.NotEmpty(t, CSSVar(key), key)
		assert.NoError(t, ValidateDesign(key, tbl.Default(key)), key)
	}
}

func TestValidateDesign(t *testing.T) {
	tests := []struct {
		key, value string
		ok         bool
	}{
		{"design.colorBg", "#fff", true},
		{"design.colorBg", "#A1b2C3", true},
		{"design.colorBg", "fff", false},
		{"design.colorBg", "#ggg", false},
		{"design.colorBg", "#12345", false},
		{"design.colorBg", "red", false},
		{"design.borderRadiusSm", "24", true},
		{"design.borderRadiusSm", "25", false},
		{"design.borderRadiusSm", "-1", false},
		{"design.borderRadiusSm", "abc", false},
		{"design.transitionSpeed", "0.05", false},
		{"design.transitionSpeed", "0.5", true},
		{"design.fontBodyWeight", "900", false},
		{"design.sectionPaddingY", "10", true},
	}
	for _, tt := range tests {
		err := ValidateDesign(tt.key, tt.value)
		if tt.ok {
			assert.NoError(t, err, "%s=%s", tt.key, tt.value)
			continue
		}
		require.Error(t, err, "%s=%s", tt.key, tt.value)
		assert.ErrorIs(t, err, ErrInvalidValue)
	}
	assert.ErrorIs(t, ValidateDesign("design.unknown", "1"), ErrInvalidKey)
}

func TestSectionName(t *testing.T) {
	assert.Equal(t, "Hero", SectionName("hero"))
	assert.Equal(t, "How It Works", SectionName("how-it-works"))
	assert.Equal(t, "Pricing (Copy)", SectionName("pricing-copy-2"))
	assert.Equal(t, "Custom Block", SectionName("custom-1a2b3c4d"))
	assert.Equal(t, "mystery", SectionName("mystery"))
}

func TestSectionScoping(t *testing.T) {
	assert.True(t, InSection("faq.item0.answer", "faq"))
	assert.True(t, InSection("img.faq.icon", "faq"))
	assert.False(t, InSection("faqs.label", "faq"))
	assert.False(t, InSection("steps.label", "how-it-works"))

	assert.Equal(t, "faq-copy-1.item0.answer", RekeyForSection("faq.item0.answer", "faq", "faq-copy-1"))
	assert.Equal(t, "img.faq-copy-1.icon", RekeyForSection("img.faq.icon", "faq", "faq-copy-1"))
	assert.Equal(t, "steps.label", RekeyForSection("steps.label", "faq", "faq-copy-1"))

	assert.Equal(t, []string{"steps.label"},
		UnscopedKeys("how-it-works", []string{"how-it-works.x", "steps.label"}))
}

func TestTranslate(t *testing.T) {
	s, ok := Translate("nav.cta", "es")
	require.True(t, ok)
	assert.Equal(t, "Suscríbete", s)

	s, ok = Translate("nav.cta", "fr")
	require.True(t, ok)
	assert.Equal(t, "Subscribe", s)

	_, ok = Translate("hero.headline", "en")
	assert.False(t, ok)
	assert.Equal(t, "en", NormalizeLang(""))
}
