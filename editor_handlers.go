package hws

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/eringen/hws/content"
	"github.com/eringen/hws/dom"
	"github.com/eringen/hws/editor"
	"github.com/eringen/hws/views"
)

// maxImportSize bounds an override import. Uploaded images are stored as
// data URIs, so an export carries several of them.
const maxImportSize = 32 << 20

func (a *App) handleEditor(c echo.Context) error {
	if !IsOwner(c) {
		return Render(c, views.Login(a.site(), views.LoginForm{CSRFToken: CsrfToken(c)}))
	}
	token := CsrfToken(c)
	page := a.Editor.LiveHTML(func(d *dom.Document) {
		if head := d.Head(); head != nil {
			_ = dom.AppendHTML(head, `<meta name="hws-csrf" content="`+templ.EscapeString(token)+`">`+
				`<link rel="stylesheet" href="/static/editor.css">`)
		}
		if body := d.Body(); body != nil {
			_ = dom.AppendHTML(body, `<div id="hws-editor-root" data-hws-editor></div>`+
				`<script src="/static/editor.js" defer></script>`)
		}
	})
	return c.HTML(http.StatusOK, page)
}

func (a *App) handleEditorLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return RenderStatus(c, http.StatusTooManyRequests,
			views.Login(a.site(), views.LoginForm{Locked: true, CSRFToken: CsrfToken(c)}))
	}
	if CheckPassword(a.Config.PasswordHash, c.FormValue("password")) {
		a.loginLimiter.Reset(ip)
		if err := setOwnerSession(c); err != nil {
			return err
		}
		a.Logger.Info("editor login", "ip", ip)
		return c.Redirect(http.StatusSeeOther, "/editor/")
	}
	a.loginLimiter.Record(ip)
	a.Logger.Warn("editor login failed", "ip", ip)
	return Render(c, views.Login(a.site(), views.LoginForm{ShowError: true, CSRFToken: CsrfToken(c)}))
}

func handleEditorLogout(c echo.Context) error {
	if err := clearOwnerSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// apiError maps editor sentinels to HTTP errors. Anything unknown stays a
// 500.
func apiError(err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, editor.ErrInvalidKey),
		errors.Is(err, editor.ErrInvalidValue),
		errors.Is(err, editor.ErrInvalidImport):
		code = http.StatusBadRequest
	case errors.Is(err, editor.ErrNotBound),
		errors.Is(err, editor.ErrUnknownSection):
		code = http.StatusNotFound
	case errors.Is(err, editor.ErrRestoreExpired):
		code = http.StatusGone
	case errors.Is(err, editor.ErrEditorOff),
		errors.Is(err, editor.ErrEditing),
		errors.Is(err, editor.ErrNotEditing),
		errors.Is(err, editor.ErrNothingToUndo),
		errors.Is(err, editor.ErrNothingToRedo),
		errors.Is(err, editor.ErrNoGesture):
		code = http.StatusConflict
	case errors.Is(err, editor.ErrClosed):
		code = http.StatusServiceUnavailable
	}
	if code == http.StatusInternalServerError {
		return err
	}
	return echo.NewHTTPError(code, err.Error())
}

type (
	keyRequest struct {
		Key string `json:"key" form:"key"`
	}
	valueRequest struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
	contentRequest struct {
		Content string `json:"content"`
	}
	sectionRequest struct {
		ID    string `json:"id"`
		Dir   int    `json:"dir"`
		Index int    `json:"index"`
	}
	sectionStyleRequest struct {
		ID    string `json:"id"`
		Prop  string `json:"prop"`
		Value string `json:"value"`
	}
	elementStyleRequest struct {
		Key   string `json:"key"`
		Prop  string `json:"prop"`
		Value string `json:"value"`
	}
	resizeRequest struct {
		Key    string  `json:"key"`
		Handle string  `json:"handle"`
		W      float64 `json:"w"`
		H      float64 `json:"h"`
		DX     float64 `json:"dx"`
		DY     float64 `json:"dy"`
	}
	blockRequest struct {
		Type  string `json:"type"`
		After string `json:"after"`
	}
)

// editStart answers /edit/start. Kind and Toolbar come from the key, never
// from the markup it currently holds.
type editStart struct {
	Editing bool `json:"editing"`
	editor.Inspection
}

// apiResponse is what every mutating call returns: the session status and
// the refreshed live page for the client to swap in.
type apiResponse struct {
	Status    editor.Status `json:"status"`
	Main      string        `json:"main"`
	RootStyle string        `json:"rootStyle"`
	Result    any           `json:"result,omitempty"`
}

func (a *App) respond(c echo.Context, result any) error {
	main, style := a.Editor.LiveParts()
	return c.JSON(http.StatusOK, apiResponse{
		Status:    a.Editor.Status(),
		Main:      main,
		RootStyle: style,
		Result:    result,
	})
}

func bind[T any](c echo.Context) (T, error) {
	var req T
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return req, nil
}

// mutate binds a T, runs fn and responds with the refreshed page.
func mutate[T any](a *App, fn func(T) (any, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := bind[T](c)
		if err != nil {
			return err
		}
		res, err := fn(req)
		if err != nil {
			return apiError(err)
		}
		return a.respond(c, res)
	}
}

// action runs fn, which takes no input, and responds with the refreshed page.
func (a *App) action(fn func() (any, error)) echo.HandlerFunc {
	return func(c echo.Context) error {
		res, err := fn()
		if err != nil {
			return apiError(err)
		}
		return a.respond(c, res)
	}
}

// bodyLimit leaves room for an upload or an import plus multipart framing.
var bodyLimit = fmt.Sprintf("%dK", (max(maxUploadSize, maxImportSize)+1<<20)>>10)

func (a *App) registerEditorAPI(g *echo.Group) {
	ed := func() *editor.Editor { return a.Editor }
	g.Use(middleware.BodyLimit(bodyLimit))

	// read-only
	g.GET("/status", func(c echo.Context) error { return c.JSON(http.StatusOK, ed().Status()) })
	g.GET("/page", a.action(func() (any, error) { return nil, nil }))
	g.GET("/layers", func(c echo.Context) error { return c.JSON(http.StatusOK, ed().Layers(c.QueryParam("q"))) })
	g.GET("/inspect", func(c echo.Context) error {
		in, err := ed().Inspect(c.QueryParam("key"))
		if err != nil {
			return apiError(err)
		}
		return c.JSON(http.StatusOK, in)
	})
	g.GET("/design", a.handleDesignFields)
	g.GET("/export.html", a.handleExportHTML)
	g.GET("/export.json", a.handleExportJSON)

	// modes and selection
	g.POST("/activate", a.action(func() (any, error) { ed().Activate(); return nil, nil }))
	g.POST("/deactivate", a.action(func() (any, error) { return nil, ed().Deactivate() }))
	g.POST("/toggle", a.action(func() (any, error) { return ed().Toggle() }))
	g.POST("/escape", a.action(func() (any, error) { return ed().Escape() }))
	g.POST("/select", mutate(a, func(r keyRequest) (any, error) {
		if err := ed().Select(r.Key); err != nil {
			return nil, err
		}
		return ed().Inspect(r.Key)
	}))
	g.POST("/deselect", a.action(func() (any, error) { return nil, ed().Deselect() }))
	g.POST("/edit/start", mutate(a, func(r keyRequest) (any, error) {
		ok, err := ed().StartEditing(r.Key)
		if err != nil {
			return nil, err
		}
		in, err := ed().Inspect(r.Key)
		return editStart{Editing: ok, Inspection: in}, err
	}))
	g.POST("/edit/draft", func(c echo.Context) error {
		r, err := bind[contentRequest](c)
		if err != nil {
			return err
		}
		if err := ed().Draft(r.Content); err != nil {
			return apiError(err)
		}
		return c.NoContent(http.StatusNoContent)
	})
	g.POST("/edit/commit", mutate(a, func(r contentRequest) (any, error) { return nil, ed().Commit(r.Content) }))
	g.POST("/edit/cancel", a.action(func() (any, error) { return nil, ed().CancelEditing() }))

	// values
	g.POST("/value", mutate(a, func(r valueRequest) (any, error) { return nil, ed().SetValue(r.Key, r.Value) }))
	g.POST("/reset", mutate(a, func(r keyRequest) (any, error) { return nil, ed().ResetKey(r.Key) }))
	g.POST("/design", mutate(a, func(r valueRequest) (any, error) { return nil, ed().SetDesign(r.Key, r.Value) }))
	g.POST("/image", a.handleImageUpload)
	g.POST("/image/url", mutate(a, func(r valueRequest) (any, error) { return nil, ed().SetImage(r.Key, r.Value) }))
	g.POST("/image/clear", mutate(a, func(r keyRequest) (any, error) { return nil, ed().ClearImage(r.Key) }))
	g.POST("/undo", a.action(func() (any, error) { return nil, ed().Undo() }))
	g.POST("/redo", a.action(func() (any, error) { return nil, ed().Redo() }))

	// sections
	g.POST("/sections/move", mutate(a, func(r sectionRequest) (any, error) { return ed().MoveSection(r.ID, r.Dir) }))
	g.POST("/sections/move-to", mutate(a, func(r sectionRequest) (any, error) { return ed().MoveSectionTo(r.ID, r.Index) }))
	g.POST("/sections/drag/begin", mutate(a, func(r sectionRequest) (any, error) { return nil, ed().BeginDrag(r.ID) }))
	g.POST("/sections/drag/end", mutate(a, func(r sectionRequest) (any, error) { return ed().EndDrag(r.Index) }))
	g.POST("/sections/drag/abort", a.action(func() (any, error) { ed().AbortDrag(); return nil, nil }))
	g.POST("/sections/hide", mutate(a, func(r sectionRequest) (any, error) { return ed().ToggleHidden(r.ID) }))
	g.POST("/sections/duplicate", mutate(a, func(r sectionRequest) (any, error) { return ed().DuplicateSection(r.ID) }))
	g.POST("/sections/delete", mutate(a, func(r sectionRequest) (any, error) { return nil, ed().DeleteSection(r.ID) }))
	g.POST("/sections/restore", mutate(a, func(r sectionRequest) (any, error) { return nil, ed().RestoreDeleted(r.ID) }))
	g.POST("/sections/style", mutate(a, func(r sectionStyleRequest) (any, error) {
		return nil, ed().SetSectionStyle(r.ID, r.Prop, r.Value)
	}))

	// element styles, sizes and blocks
	g.POST("/styles", mutate(a, func(r elementStyleRequest) (any, error) {
		return nil, ed().SetElementStyle(r.Key, r.Prop, r.Value)
	}))
	g.POST("/styles/clear", mutate(a, func(r keyRequest) (any, error) { return nil, ed().ClearElementStyles(r.Key) }))
	g.POST("/resize/begin", mutate(a, func(r resizeRequest) (any, error) {
		return nil, ed().BeginResize(r.Key, r.Handle, r.W, r.H)
	}))
	g.POST("/resize/update", func(c echo.Context) error {
		r, err := bind[resizeRequest](c)
		if err != nil {
			return err
		}
		size, err := ed().UpdateResize(r.DX, r.DY)
		if err != nil {
			return apiError(err)
		}
		return c.JSON(http.StatusOK, size)
	})
	g.POST("/resize/end", a.action(func() (any, error) { return ed().EndResize() }))
	g.POST("/resize/abort", a.action(func() (any, error) { ed().AbortResize(); return nil, nil }))
	g.POST("/blocks", mutate(a, func(r blockRequest) (any, error) { return ed().InsertBlock(r.Type, r.After) }))

	// whole-store operations
	g.POST("/import", a.handleImport)
	g.POST("/reset-all", a.action(func() (any, error) { return nil, ed().ResetAll() }))
	g.POST("/flush", a.action(func() (any, error) { return nil, ed().Flush() }))
}

type designField struct {
	content.Field
	Value      string `json:"value"`
	Overridden bool   `json:"overridden"`
}

func (a *App) handleDesignFields(c echo.Context) error {
	state := a.Editor.State()
	fields := content.DesignFields()
	out := make([]designField, 0, len(fields))
	for _, f := range fields {
		_, over := state.Overrides[f.Key]
		out = append(out, designField{Field: f, Value: a.Editor.Resolve(f.Key), Overridden: over})
	}
	return c.JSON(http.StatusOK, out)
}

func (a *App) handleImageUpload(c echo.Context) error {
	key := c.FormValue("key")
	if content.Classify(key) != content.KindImage {
		return echo.NewHTTPError(http.StatusBadRequest, "key is not an image slot")
	}
	file, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no image file provided")
	}
	if file.Size > maxUploadSize {
		return echo.NewHTTPError(http.StatusBadRequest, "file too large (max 10MB)")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, err := processImage(src)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid image: "+err.Error())
	}
	if err := a.Editor.SetImage(key, img.DataURI); err != nil {
		return apiError(err)
	}
	return a.respond(c, img)
}

func (a *App) handleExportHTML(c echo.Context) error {
	lang := content.NormalizeLang(c.QueryParam("lang"))
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", downloadName(a.Config, ".html")))
	return c.HTML(http.StatusOK, a.Editor.ExportHTML(lang))
}

func (a *App) handleExportJSON(c echo.Context) error {
	data, err := a.Editor.ExportJSON()
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", downloadName(a.Config, "-overrides.json")))
	return c.JSONBlob(http.StatusOK, data)
}

// handleImport accepts an override map either as the raw JSON body or as
// the "file" field of a multipart form.
func (a *App) handleImport(c echo.Context) error {
	var r io.Reader = c.Request().Body
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "no file provided")
		}
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, maxImportSize+1))
	if err != nil {
		return err
	}
	if len(data) > maxImportSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "import too large")
	}
	n, err := a.Editor.ImportJSON(data)
	if err != nil {
		return apiError(err)
	}
	a.Logger.Info("overrides imported", "count", n)
	return a.respond(c, map[string]int{"imported": n})
}
