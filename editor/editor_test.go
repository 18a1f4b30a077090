package editor

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/hws/content"
	"github.com/eringen/hws/dom"
)

const testMarkup = `<!DOCTYPE html>
<html lang="en"><head><link rel="stylesheet" href="/static/editor.css"></head>
<body>
<nav><a class="nav__logo" data-hws="img.navLogo"><svg width="120" height="28"><path d="M0 0"></path></svg></a></nav>
<main>
<section id="hero" class="section"><h1 data-hws="hero.headline">x</h1><p data-hws="hero.label">x</p><a class="btn" href="#" data-hws="hero.ctaPrimary">x</a></section>
<div class="section-transition"><p data-hws="transition.1">x</p></div>
<section id="problem" class="section"><h2 data-hws="problem.heading">x</h2><p data-hws="steps.label">x</p></section>
<section id="pricing" class="section"><h2 data-hws="pricing.heading">x</h2><div data-hws-features="pricing.tier0.features"></div></section>
<section id="faq" class="section"><h2 data-hws="faq.heading">x</h2><p data-hws="faq.item0.answer">x</p></section>
</main>
<script src="/static/editor.js"></script>
</body></html>`

func newTestEditor(t *testing.T, st Storage, opts ...func(*Options)) *Editor {
	t.Helper()
	markup, err := dom.ParseString(testMarkup)
	require.NoError(t, err)
	o := Options{Markup: markup, Storage: st}
	for _, fn := range opts {
		fn(&o)
	}
	e, err := New(o)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func activeEditor(t *testing.T, st Storage, opts ...func(*Options)) *Editor {
	t.Helper()
	e := newTestEditor(t, st, opts...)
	e.Activate()
	return e
}

func boundText(t *testing.T, e *Editor, key string) string {
	t.Helper()
	e.mu.Lock()
	defer e.mu.Unlock()
	nodes := e.boundNodesLocked(key)
	require.NotEmpty(t, nodes, key)
	return dom.TextContent(nodes[0])
}

func def(key string) string { return content.Defaults().Default(key) }

func TestEditor_ModeTransitions(t *testing.T) {
	e := newTestEditor(t, nil)
	var events []Selection
	var mu sync.Mutex
	e.OnSelectionChange(func(s Selection) {
		mu.Lock()
		events = append(events, s)
		mu.Unlock()
	})

	assert.ErrorIs(t, e.Select("hero.label"), ErrEditorOff)
	e.Activate()
	assert.Equal(t, ModeBrowse, e.Mode())

	assert.ErrorIs(t, e.Select("voices.heading"), ErrNotBound)
	require.NoError(t, e.Select("hero.label"))
	require.NoError(t, e.Select("problem.heading"))
	assert.Equal(t, "problem.heading", e.Selected())

	ok, err := e.StartEditing("img.navLogo")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = e.StartEditing("pricing.tier0.features")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, ModeBrowse, e.Mode())

	ok, err = e.StartEditing("hero.label")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ModeEditing, e.Mode())
	require.NoError(t, e.Draft("  Fresh label  "))

	mode, err := e.Escape()
	require.NoError(t, err)
	assert.Equal(t, ModeBrowse, mode)
	assert.Equal(t, "Fresh label", e.Resolve("hero.label"))
	assert.Equal(t, "hero.label", e.Selected())

	mode, _ = e.Escape()
	assert.Equal(t, ModeBrowse, mode)
	assert.Empty(t, e.Selected())
	mode, _ = e.Escape()
	assert.Equal(t, ModeOff, mode)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, events)
	assert.Equal(t, ModeOff, events[len(events)-1].Mode)
	var keys []string
	for _, ev := range events {
		if ev.Key != "" && (len(keys) == 0 || keys[len(keys)-1] != ev.Key) {
			keys = append(keys, ev.Key)
		}
	}
	assert.Equal(t, []string{"hero.label", "problem.heading", "hero.label"}, keys)
}

func TestEditor_SelectingAnotherKeyCommitsEdit(t *testing.T) {
	e := activeEditor(t, nil)
	_, err := e.StartEditing("problem.heading")
	require.NoError(t, err)
	require.NoError(t, e.Draft("Trapped"))
	require.NoError(t, e.Select("pricing.heading"))
	assert.Equal(t, "Trapped", e.Resolve("problem.heading"))
	assert.Equal(t, ModeBrowse, e.Mode())
}

func TestEditor_CommitSanitizesRichText(t *testing.T) {
	e := activeEditor(t, nil)
	_, err := e.StartEditing("faq.item0.answer")
	require.NoError(t, err)
	require.NoError(t, e.Commit(`<span style="color:red">Yes</span>  <em>really</em><img src=x onerror=alert(1)>`))
	assert.Equal(t, "Yes <em>really</em>", e.Resolve("faq.item0.answer"))
}

func TestEditor_CancelEditingStoresNothing(t *testing.T) {
	e := activeEditor(t, nil)
	_, err := e.StartEditing("hero.label")
	require.NoError(t, err)
	require.NoError(t, e.Draft("nope"))
	require.NoError(t, e.CancelEditing())
	assert.Equal(t, def("hero.label"), e.Resolve("hero.label"))
	assert.ErrorIs(t, e.CancelEditing(), ErrNotEditing)
}

func TestEditor_TextEditAndReset(t *testing.T) {
	e := activeEditor(t, nil)
	require.NoError(t, e.SetValue("hero.headline", "B"))
	assert.Equal(t, "B", e.Resolve("hero.headline"))
	assert.Equal(t, "B", boundText(t, e, "hero.headline"))

	require.NoError(t, e.ResetKey("hero.headline"))
	assert.Equal(t, def("hero.headline"), e.Resolve("hero.headline"))
	assert.Empty(t, e.State().Overrides)
	assert.Equal(t, "What if you could look at your phone and feel nothing?", boundText(t, e, "hero.headline"))
}

func TestEditor_SetValueToDefaultRemovesOverride(t *testing.T) {
	e := activeEditor(t, nil)
	require.NoError(t, e.SetValue("hero.label", "x"))
	require.NoError(t, e.SetValue("hero.label", def("hero.label")))
	assert.Empty(t, e.State().Overrides)
}

func TestEditor_DesignToken(t *testing.T) {
	e := activeEditor(t, nil)
	require.NoError(t, e.SetDesign("design.colorCta", "#112233"))
	page := e.LiveHTML(nil)
	for _, prop := range []string{"--color-cta-bg", "--color-cta-secondary-border", "--color-cta-secondary-text", "--color-accent-1"} {
		assert.Contains(t, page, prop+": #112233", prop)
	}

	err := e.SetDesign("design.colorCta", "#12")
	assert.ErrorIs(t, err, ErrInvalidValue)
	err = e.SetDesign("design.borderRadiusSm", "900")
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, "#112233", e.Resolve("design.colorCta"))
	assert.ErrorIs(t, e.SetDesign("hero.label", "#fff"), ErrInvalidKey)

	require.NoError(t, e.ResetKey("design.colorCta"))
	assert.NotContains(t, e.LiveHTML(nil), "--color-cta-bg")
}

func TestEditor_PaddingTokensCompose(t *testing.T) {
	e := activeEditor(t, nil)
	require.NoError(t, e.SetDesign("design.sectionPaddingX", "2"))
	require.NoError(t, e.SetDesign("design.sectionPaddingY", "6"))
	assert.Contains(t, e.LiveHTML(nil), "--section-padding: 6rem 2rem")
	require.NoError(t, e.ResetKey("design.sectionPaddingY"))
	assert.Contains(t, e.LiveHTML(nil), "--section-padding: "+def("design.sectionPaddingY")+"rem 2rem")
}

func TestEditor_Image(t *testing.T) {
	e := activeEditor(t, nil)
	assert.ErrorIs(t, e.SetImage("img.navLogo", "javascript:alert(1)"), ErrInvalidValue)
	require.NoError(t, e.SetImage("img.navLogo", "/static/logo.png"))
	page := e.LiveHTML(nil)
	assert.Contains(t, page, `src="/static/logo.png"`)
	assert.Contains(t, page, "height: 28px")

	require.NoError(t, e.ClearImage("img.navLogo"))
	assert.NotContains(t, e.LiveHTML(nil), "logo.png")
}

func TestEditor_UndoRedoSymmetry(t *testing.T) {
	e := activeEditor(t, nil)
	before := e.State()

	steps := []func() error{
		func() error { return e.SetValue("hero.headline", "One") },
		func() error { return e.SetDesign("design.colorBg", "#000000") },
		func() error { _, err := e.ToggleHidden("faq"); return err },
		func() error { _, err := e.MoveSection("pricing", -1); return err },
		func() error { return e.SetSectionStyle("hero", "bgColor", "#ffeedd") },
		func() error { return e.SetElementStyle("hero.label", "fontSize", "22") },
		func() error { _, err := e.DuplicateSection("problem"); return err },
		func() error { return e.SetValue("hero.headline", "Two") },
	}
	for i, step := range steps {
		require.NoError(t, step(), "step %d", i)
	}
	after := e.State()

	for range steps {
		require.NoError(t, e.Undo())
	}
	assert.ErrorIs(t, e.Undo(), ErrNothingToUndo)
	assert.Equal(t, before, e.State())
	assert.Equal(t, def("problem.heading"), boundText(t, e, "problem.heading"))

	for range steps {
		require.NoError(t, e.Redo())
	}
	assert.ErrorIs(t, e.Redo(), ErrNothingToRedo)
	assert.Equal(t, after, e.State())
	assert.Equal(t, "Two", boundText(t, e, "hero.headline"))
}

func TestEditor_NewPushClearsRedo(t *testing.T) {
	e := activeEditor(t, nil)
	require.NoError(t, e.SetValue("hero.label", "a"))
	require.NoError(t, e.Undo())
	assert.True(t, e.Status().CanRedo)
	require.NoError(t, e.SetValue("hero.label", "b"))
	assert.False(t, e.Status().CanRedo)
}

func TestEditor_UndoRejectedWhileEditing(t *testing.T) {
	e := activeEditor(t, nil)
	require.NoError(t, e.SetValue("hero.label", "a"))
	_, err := e.StartEditing("hero.headline")
	require.NoError(t, err)
	assert.ErrorIs(t, e.Undo(), ErrEditing)
}

func TestEditor_HideThenReorderSurvivesReload(t *testing.T) {
	st := NewMemoryStorage()
	e := activeEditor(t, st)
	hidden, err := e.ToggleHidden("faq")
	require.NoError(t, err)
	assert.True(t, hidden)
	mv, err := e.MoveSection("pricing", -1)
	require.NoError(t, err)
	assert.True(t, mv.Moved)
	assert.Equal(t, []string{"hero", "pricing", "problem", "faq"}, mv.Order)
	assert.Equal(t, 380, mv.Duration)
	require.NoError(t, e.Flush())

	reloaded := newTestEditor(t, st)
	assert.Equal(t, []string{"hero", "pricing", "problem", "faq"}, reloaded.doc.Order())
	faq, ok := reloaded.doc.Unit("faq")
	require.True(t, ok)
	assert.Equal(t, "none", dom.GetStyle(faq.Section, "display"))
	assert.Len(t, reloaded.State().Order, len(reloaded.doc.Units()))
}

func TestEditor_MoveCarriesTransition(t *testing.T) {
	e := activeEditor(t, nil)
	_, err := e.MoveSection("hero", 1)
	require.NoError(t, err)
	hero, ok := e.doc.Unit("hero")
	require.True(t, ok)
	require.NotNil(t, hero.Transition)
	assert.Equal(t, "problem", e.doc.Order()[0])

	mv, err := e.MoveSection("faq", 1)
	require.NoError(t, err)
	assert.False(t, mv.Moved)
	_, err = e.MoveSection("nope", 1)
	assert.ErrorIs(t, err, ErrUnknownSection)
}

func TestEditor_DragAndDrop(t *testing.T) {
	e := activeEditor(t, nil)
	require.NoError(t, e.BeginDrag("faq"))
	assert.Contains(t, e.LiveHTML(nil), ClassDragging)
	mv, err := e.EndDrag(0)
	require.NoError(t, err)
	assert.Equal(t, "faq", mv.Order[0])
	assert.NotContains(t, e.LiveHTML(nil), ClassDragging)

	require.NoError(t, e.BeginDrag("hero"))
	e.AbortDrag()
	assert.NotContains(t, e.LiveHTML(nil), ClassDragging)
	_, err = e.EndDrag(1)
	assert.ErrorIs(t, err, ErrNoGesture)
}

func TestEditor_MalformedStorageRecovery(t *testing.T) {
	clean := newTestEditor(t, nil)

	st := NewMemoryStorage()
	require.NoError(t, st.Put(NSOverrides, []byte("{not json")))
	require.NoError(t, st.Put(NSOrder, []byte(`{"wrong":"shape"}`)))
	e := newTestEditor(t, st)
	assert.Equal(t, clean.LiveHTML(nil), e.LiveHTML(nil))
	assert.Equal(t, 0, e.Status().Count)
}

func TestEditor_DuplicateRekeys(t *testing.T) {
	st := NewMemoryStorage()
	e := activeEditor(t, st)
	require.NoError(t, e.SetValue("problem.heading", "Custom"))
	require.NoError(t, e.SetElementStyle("problem.heading", "textAlign", "center"))
	require.NoError(t, e.SetSectionStyle("problem", "paddingTop", "2"))

	id, err := e.DuplicateSection("problem")
	require.NoError(t, err)
	assert.Equal(t, "problem-copy-1", id)
	assert.Equal(t, []string{"hero", "problem", "problem-copy-1", "pricing", "faq"}, e.doc.Order())

	s := e.State()
	assert.Equal(t, "Custom", s.Overrides["problem-copy-1.heading"])
	assert.Equal(t, "center", s.ElementStyles["problem-copy-1.heading"]["textAlign"])
	assert.Equal(t, "2", s.SectionStyles["problem-copy-1"]["paddingTop"])
	assert.Equal(t, "Custom", boundText(t, e, "problem-copy-1.heading"))
	assert.Len(t, e.doc.Bound("steps.label"), 2)

	require.NoError(t, e.SetValue("problem-copy-1.heading", "Copy only"))
	assert.Equal(t, "Custom", boundText(t, e, "problem.heading"))

	id2, err := e.DuplicateSection("problem")
	require.NoError(t, err)
	assert.Equal(t, "problem-copy-2", id2)
	assert.Equal(t, "The Problem (Copy)", content.SectionName(id2))

	require.NoError(t, e.Flush())
	reloaded := newTestEditor(t, st)
	assert.Equal(t, "Copy only", boundText(t, reloaded, "problem-copy-1.heading"))
	assert.Equal(t, e.doc.Order(), reloaded.doc.Order())
}

func TestEditor_DeleteAndRestore(t *testing.T) {
	e := activeEditor(t, nil)
	require.NoError(t, e.SetValue("pricing.heading", "Plans"))
	require.NoError(t, e.DeleteSection("pricing"))
	_, ok := e.doc.Unit("pricing")
	assert.False(t, ok)
	s := e.State()
	assert.NotContains(t, s.Overrides, "pricing.heading")
	assert.Equal(t, []string{"pricing"}, s.Removed)
	assert.Equal(t, "pricing", e.Status().PendingRestore)

	require.NoError(t, e.RestoreDeleted("pricing"))
	assert.Equal(t, []string{"hero", "problem", "pricing", "faq"}, e.doc.Order())
	assert.Equal(t, "Plans", boundText(t, e, "pricing.heading"))
	assert.Empty(t, e.State().Removed)
}

func TestEditor_RestoreInvalidatedByOtherMutation(t *testing.T) {
	e := activeEditor(t, nil)
	require.NoError(t, e.DeleteSection("faq"))
	require.NoError(t, e.SetValue("hero.label", "changed"))
	assert.ErrorIs(t, e.RestoreDeleted("faq"), ErrRestoreExpired)

	require.NoError(t, e.Undo())
	require.NoError(t, e.Undo())
	_, ok := e.doc.Unit("faq")
	assert.True(t, ok)
}

func TestEditor_RestoreWindowExpires(t *testing.T) {
	e := activeEditor(t, nil, func(o *Options) { o.RestoreWindow = 10 * time.Millisecond })
	require.NoError(t, e.DeleteSection("faq"))
	require.Eventually(t, func() bool { return e.Status().PendingRestore == "" }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, e.RestoreDeleted("faq"), ErrRestoreExpired)
}

func TestEditor_SectionStyleValidation(t *testing.T) {
	e := activeEditor(t, nil)
	assert.ErrorIs(t, e.SetSectionStyle("hero", "bgColor", "red"), ErrInvalidValue)
	assert.ErrorIs(t, e.SetSectionStyle("hero", "maxWidth", "200"), ErrInvalidValue)
	assert.ErrorIs(t, e.SetSectionStyle("hero", "shadow", "1"), ErrInvalidKey)
	require.NoError(t, e.SetSectionStyle("hero", "maxWidth", "900"))
	assert.Contains(t, e.LiveHTML(nil), "max-width: 900px")
	require.NoError(t, e.SetSectionStyle("hero", "maxWidth", ""))
	assert.Empty(t, e.State().SectionStyles)
}

func TestEditor_ElementStyles(t *testing.T) {
	e := activeEditor(t, nil)
	assert.ErrorIs(t, e.SetElementStyle("hero.label", "textAlign", "middle"), ErrInvalidValue)
	assert.ErrorIs(t, e.SetElementStyle("hero.label", "bogus", "1"), ErrInvalidKey)
	assert.ErrorIs(t, e.SetElementStyle("voices.heading", "fontSize", "12"), ErrNotBound)
	assert.ErrorIs(t, e.SetElementStyle("hero.ctaPrimary", "btnHref", "javascript:x"), ErrInvalidValue)

	require.NoError(t, e.SetElementStyle("hero.ctaPrimary", "btnHref", "https://example.com/join"))
	require.NoError(t, e.SetElementStyle("hero.ctaPrimary", "btnNewTab", "true"))
	require.NoError(t, e.SetElementStyle("pricing.tier0.features", "opacity", "50"))
	page := e.LiveHTML(nil)
	assert.Contains(t, page, `href="https://example.com/join"`)
	assert.Contains(t, page, `target="_blank"`)
	assert.Contains(t, page, "opacity: 0.5")

	require.NoError(t, e.ClearElementStyles("pricing.tier0.features"))
	assert.NotContains(t, e.LiveHTML(nil), "opacity: 0.5")
}

func TestResizeBox(t *testing.T) {
	tests := []struct {
		handle string
		dx, dy float64
		want   Size
	}{
		{"e", 50, 0, Size{250, 100}},
		{"w", 50, 0, Size{150, 100}},
		{"s", 0, 30, Size{200, 130}},
		{"n", 0, 30, Size{200, 70}},
		{"se", 100, 0, Size{300, 150}},
		{"nw", 100, 0, Size{100, 50}},
		{"e", -500, 0, Size{40, 100}},
		{"sw", 500, 0, Size{80, 40}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResizeBox(tt.handle, 200, 100, tt.dx, tt.dy), "%s %v %v", tt.handle, tt.dx, tt.dy)
	}
}

func TestEditor_ResizeGesture(t *testing.T) {
	e := activeEditor(t, nil)
	assert.ErrorIs(t, e.BeginResize("hero.label", "x", 100, 50), ErrInvalidValue)

	require.NoError(t, e.BeginResize("hero.label", "e", 200, 50))
	sz, err := e.UpdateResize(40, 0)
	require.NoError(t, err)
	assert.Equal(t, Size{240, 50}, sz)
	assert.Contains(t, e.LiveHTML(nil), "width: 240px")
	e.AbortResize()
	assert.NotContains(t, e.LiveHTML(nil), "width: 240px")
	assert.Empty(t, e.State().Sizes)

	require.NoError(t, e.BeginResize("hero.label", "e", 200, 50))
	_, err = e.UpdateResize(60, 0)
	require.NoError(t, err)
	sz, err = e.EndResize()
	require.NoError(t, err)
	assert.Equal(t, Size{260, 50}, e.State().Sizes["hero.label"])

	require.NoError(t, e.BeginResize("hero.label", "e", 260, 50))
	_, err = e.UpdateResize(-100, 0)
	require.NoError(t, err)
	e.AbortResize()
	assert.Contains(t, e.LiveHTML(nil), "width: 260px")
	_, err = e.EndResize()
	assert.ErrorIs(t, err, ErrNoGesture)
}

func TestEditor_ImportRoundTrip(t *testing.T) {
	e := activeEditor(t, nil)
	require.NoError(t, e.SetValue("hero.headline", "Imported <em>headline</em>"))
	require.NoError(t, e.SetValue("pricing.tier0.features", "One\n\nTwo"))
	require.NoError(t, e.SetDesign("design.colorBg", "#fafafa"))
	data, err := e.ExportJSON()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \""))

	fresh := newTestEditor(t, nil)
	n, err := fresh.ImportJSON(data)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, e.State().Overrides, fresh.State().Overrides)
	for _, key := range fresh.doc.BoundKeys(nil) {
		assert.Equal(t, boundText(t, e, key), boundText(t, fresh, key), key)
	}
	assert.True(t, fresh.Status().CanUndo)
}

func TestEditor_SetCurrentRichValueIsNoop(t *testing.T) {
	e := activeEditor(t, nil)
	trusted := `Call <span class="hl">us</span> today`
	_, err := e.ImportJSON([]byte(`{"faq.item0.answer": "Call <span class=\"hl\">us</span> today"}`))
	require.NoError(t, err)
	before := e.Status().History.Undo

	require.NoError(t, e.SetValue("faq.item0.answer", trusted))
	assert.Equal(t, trusted, e.Resolve("faq.item0.answer"))
	assert.Equal(t, before, e.Status().History.Undo)

	_, err = e.StartEditing("faq.item0.answer")
	require.NoError(t, err)
	require.NoError(t, e.Commit(trusted))
	assert.Equal(t, trusted, e.Resolve("faq.item0.answer"))

	// A changed value is still sanitized.
	require.NoError(t, e.SetValue("faq.item0.answer", trusted+"!"))
	assert.Equal(t, "Call us today!", e.Resolve("faq.item0.answer"))
}

func TestEditor_ImportRejectsInvalid(t *testing.T) {
	e := activeEditor(t, nil)
	require.NoError(t, e.SetValue("hero.label", "kept"))
	for _, in := range []string{
		`[]`,
		`{"hero.label": 3}`,
		`{"nodots": "x"}`,
		`{"design.colorBg": "blue"}`,
		`not json`,
	} {
		_, err := e.ImportJSON([]byte(in))
		assert.ErrorIs(t, err, ErrInvalidImport, in)
	}
	assert.Equal(t, "kept", e.Resolve("hero.label"))
}

func TestEditor_ImportDropsDefaults(t *testing.T) {
	e := newTestEditor(t, nil)
	n, err := e.ImportJSON([]byte(`{"hero.label": "` + def("hero.label") + `", "hero.subtext": "new"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEditor_ResetAll(t *testing.T) {
	st := NewMemoryStorage()
	e := activeEditor(t, st)
	require.NoError(t, e.SetValue("hero.label", "x"))
	_, err := e.ToggleHidden("faq")
	require.NoError(t, err)
	require.NoError(t, e.ResetAll())
	assert.True(t, e.State().Empty())
	for _, ns := range Namespaces {
		data, err := st.Get(ns)
		require.NoError(t, err)
		assert.Nil(t, data, ns)
	}
	require.NoError(t, e.Undo())
	assert.Equal(t, "x", e.Resolve("hero.label"))
}

func TestEditor_InsertBlock(t *testing.T) {
	st := NewMemoryStorage()
	e := activeEditor(t, st)
	_, err := e.InsertBlock("carousel", "")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = e.InsertBlock("text", "nope")
	assert.ErrorIs(t, err, ErrUnknownSection)

	id, err := e.InsertBlock("text", "hero")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "custom-"))
	assert.Equal(t, id, e.doc.Order()[1])
	key := id + ".text"
	initial := boundText(t, e, key)

	require.NoError(t, e.SetValue(key, "Hello"))
	require.NoError(t, e.Flush())
	reloaded := newTestEditor(t, st)
	assert.Equal(t, "Hello", boundText(t, reloaded, key))

	require.NoError(t, e.ResetKey(key))
	assert.Equal(t, initial, boundText(t, e, key))

	spacer, err := e.InsertBlock("spacer", "")
	require.NoError(t, err)
	assert.Equal(t, spacer, e.doc.Order()[len(e.doc.Order())-1])
	assert.NotContains(t, e.ExportHTML("en"), "hws-spacer-label")
	assert.NotContains(t, e.ExportHTML("en"), "hws-block-delete")
}

func TestEditor_ExportHTML(t *testing.T) {
	e := activeEditor(t, nil)
	require.NoError(t, e.SetValue("hero.label", "Exported"))
	require.NoError(t, e.SetDesign("design.colorBg", "#101010"))
	before := e.LiveHTML(nil)

	out := e.ExportHTML("en")
	assert.Contains(t, out, "Exported")
	assert.Contains(t, out, "--color-bg-primary: #101010")
	assert.NotContains(t, out, "data-hws")
	assert.NotContains(t, out, "editor.js")
	assert.NotContains(t, out, "editor.css")
	assert.Equal(t, before, e.LiveHTML(nil))
}

func TestEditor_DebouncedPersistence(t *testing.T) {
	st := NewMemoryStorage()
	var persisted int
	var mu sync.Mutex
	e := activeEditor(t, st, func(o *Options) {
		o.SaveDelay = 20 * time.Millisecond
		o.OnPersist = func() {
			mu.Lock()
			persisted++
			mu.Unlock()
		}
	})
	for _, v := range []string{"a", "ab", "abc"} {
		require.NoError(t, e.SetValue("hero.label", v))
	}
	data, err := st.Get(NSOverrides)
	require.NoError(t, err)
	assert.Nil(t, data)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return persisted > 0
	}, time.Second, 5*time.Millisecond)
	data, _ = st.Get(NSOverrides)
	assert.JSONEq(t, `{"hero.label":"abc"}`, string(data))
	mu.Lock()
	assert.Equal(t, 1, persisted)
	mu.Unlock()
	assert.False(t, e.Status().Dirty)
}

func TestEditor_DeactivateFlushes(t *testing.T) {
	st := NewMemoryStorage()
	e := activeEditor(t, st, func(o *Options) { o.SaveDelay = time.Hour })
	require.NoError(t, e.SetValue("hero.label", "flushed"))
	require.NoError(t, e.Deactivate())
	data, err := st.Get(NSOverrides)
	require.NoError(t, err)
	assert.JSONEq(t, `{"hero.label":"flushed"}`, string(data))
	assert.ErrorIs(t, e.SetValue("hero.label", "x"), ErrEditorOff)
}

type failingStorage struct{ *MemoryStorage }

func (failingStorage) Get(string) ([]byte, error) { return nil, errors.New("disk gone") }

func TestNew_StorageError(t *testing.T) {
	markup, err := dom.ParseString(testMarkup)
	require.NoError(t, err)
	_, err = New(Options{Markup: markup, Storage: failingStorage{NewMemoryStorage()}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestEditor_LayersAndInspect(t *testing.T) {
	e := activeEditor(t, nil)
	require.NoError(t, e.SetValue("problem.heading", "x"))
	_, err := e.ToggleHidden("faq")
	require.NoError(t, err)
	require.NoError(t, e.SetSectionStyle("hero", dom.SectionBgColor, "#eeeeee"))

	layers := e.Layers("")
	require.Len(t, layers, 4)
	problem := layers[1]
	assert.Equal(t, "The Problem", problem.Name)
	assert.Equal(t, []string{"steps.label"}, problem.Unscoped)
	assert.Equal(t, 1, problem.Overrides)
	assert.True(t, layers[3].Hidden)
	assert.True(t, layers[0].Styled)
	assert.Equal(t, map[string]string{"bgColor": "#eeeeee"}, layers[0].Styles)

	filtered := e.Layers("answer")
	require.Len(t, filtered, 1)
	assert.Equal(t, "faq", filtered[0].ID)
	require.Len(t, filtered[0].Keys, 1)

	in, err := e.Inspect("faq.item0.answer")
	require.NoError(t, err)
	assert.Equal(t, "rich", in.Kind)
	assert.True(t, in.Toolbar)
	assert.Equal(t, "faq", in.Section)

	in, err = e.Inspect("design.colorCta")
	require.NoError(t, err)
	require.NotNil(t, in.Field)
	assert.Equal(t, content.FieldColor, in.Field.Type)
	assert.False(t, in.Inline)

	_, err = e.Inspect("bad key")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
