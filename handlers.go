package hws

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/hws/content"
	"github.com/eringen/hws/dom"
	"github.com/eringen/hws/views"
)

// triggerCookie remembers that this browser asked for the editor trigger.
const triggerCookie = "hws-editor-enabled"

const editTrigger = `<a class="hws-edit-trigger" href="/editor/" title="Edit page (Ctrl+Shift+E)" aria-label="Edit page">&#9998;</a>`

func (a *App) site() views.Site {
	return views.Site{Name: a.Config.Name, URL: a.Config.URL, Description: a.Config.Description}
}

func (a *App) handleHome(c echo.Context) error {
	lang := negotiateLang(c)
	if c.QueryParam("lang") != "" {
		setLangCookie(c, lang, a.Config.CookieSecure)
	}
	return c.HTML(http.StatusOK, a.Cache.Page(PageKey{Lang: lang, Trigger: a.showTrigger(c)}))
}

// showTrigger decides whether the floating editor trigger is shown: ?edit=1
// turns it on for this browser, ?edit=0 turns it off, and the owner always
// sees it.
func (a *App) showTrigger(c echo.Context) bool {
	switch c.QueryParam("edit") {
	case "1":
		c.SetCookie(&http.Cookie{
			Name: triggerCookie, Value: "1", Path: "/",
			Expires:  time.Now().AddDate(1, 0, 0),
			SameSite: http.SameSiteLaxMode, Secure: a.Config.CookieSecure,
		})
		return true
	case "0":
		c.SetCookie(&http.Cookie{Name: triggerCookie, Path: "/", MaxAge: -1})
		return IsOwner(c)
	}
	if ck, err := c.Cookie(triggerCookie); err == nil && ck.Value == "1" {
		return true
	}
	return IsOwner(c)
}

// renderPage builds one public rendering for the page cache.
func (a *App) renderPage(k PageKey) string {
	doc := a.Editor.PublicDocument(k.Lang)
	if head := doc.Head(); head != nil {
		var b strings.Builder
		if a.Config.Description != "" {
			b.WriteString(`<meta name="description" content="` + templ.EscapeString(a.Config.Description) + `">`)
		}
		b.WriteString(`<link rel="canonical" href="` + templ.EscapeString(BuildURL(a.Config.URL)) + `">`)
		b.WriteString(`<script type="application/ld+json">` + websiteJSONLD(a.Config, k.Lang) + `</script>`)
		if err := dom.AppendHTML(head, b.String()); err != nil {
			a.Logger.Warn("page head decoration failed", "err", err)
		}
	}
	if k.Trigger {
		if body := doc.Body(); body != nil {
			if err := dom.AppendHTML(body, editTrigger); err != nil {
				a.Logger.Warn("editor trigger insertion failed", "err", err)
			}
		}
	}
	return doc.String()
}

func (a *App) handleLang(c echo.Context) error {
	lang := c.FormValue("lang")
	if lang != content.LangEnglish && lang != content.LangSpanish {
		return echo.NewHTTPError(http.StatusBadRequest, "unsupported language")
	}
	setLangCookie(c, lang, a.Config.CookieSecure)
	if c.Request().Header.Get("X-Requested-With") == "fetch" {
		return c.JSON(http.StatusOK, map[string]string{"lang": lang})
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\nDisallow: /editor/\n\nSitemap: " +
		strings.TrimSuffix(BuildURL(a.Config.URL), "/") + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) handleSitemap(c echo.Context) error {
	modified, err := a.Store.LastModified()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, modified)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	code := http.StatusInternalServerError
	if errors.As(err, &he) {
		code = he.Code
	}
	if strings.HasPrefix(c.Request().URL.Path, apiPrefix) {
		msg := http.StatusText(code)
		if he != nil && code < 500 {
			if s, ok := he.Message.(string); ok {
				msg = s
			}
		}
		if code >= 500 {
			a.Logger.Error("editor api error", "path", c.Request().URL.Path, "err", err)
		}
		_ = c.JSON(code, map[string]string{"error": msg})
		return
	}
	if code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.site()))
		return
	}
	if code >= 500 {
		a.Logger.Error("server error", "path", c.Request().URL.Path, "err", err)
		_ = RenderStatus(c, code, views.ServerError(a.site()))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
