package hws

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"

	"github.com/eringen/hws/content"
)

// langCookie persists the visitor's language choice.
const langCookie = "hws-lang"

var langMatcher = language.NewMatcher([]language.Tag{
	language.English, // fallback
	language.Spanish,
})

// negotiateLang picks the page language: an explicit ?lang=, then the
// stored choice, then Accept-Language.
func negotiateLang(c echo.Context) string {
	if l := c.QueryParam("lang"); l != "" {
		return content.NormalizeLang(l)
	}
	if ck, err := c.Cookie(langCookie); err == nil && ck.Value != "" {
		return content.NormalizeLang(ck.Value)
	}
	return matchAcceptLanguage(c.Request().Header.Get("Accept-Language"))
}

func matchAcceptLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return content.LangEnglish
	}
	tag, _, _ := langMatcher.Match(tags...)
	base, _ := tag.Base()
	return content.NormalizeLang(base.String())
}

func setLangCookie(c echo.Context, lang string, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     langCookie,
		Value:    lang,
		Path:     "/",
		Expires:  time.Now().AddDate(1, 0, 0),
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	})
}
