// Package views holds the server-rendered pages that are not part of the
// landing page itself: the editor login gate and the error pages.
package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

func layout(site Site, title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<meta name="robots" content="noindex">`+
			`<title>`+templ.EscapeString(title)+` | `+templ.EscapeString(site.Name)+`</title>`+
			`<link rel="stylesheet" href="/static/site.css"></head><body class="hws-plain">`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// Login renders the editor password gate. A wrong password shows an inline
// error and an empty field.
func Login(site Site, form LoginForm) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		msg := ""
		switch {
		case form.Locked:
			msg = `<p class="hws-login__error" role="alert">Too many attempts. Try again in a minute.</p>`
		case form.ShowError:
			msg = `<p class="hws-login__error" role="alert">Incorrect password</p>`
		}
		_, err := io.WriteString(w, `<main class="hws-login"><form class="hws-login__card" method="post" action="/editor/login/">`+
			`<h1 class="hws-login__title">Edit `+templ.EscapeString(site.Name)+`</h1>`+
			`<input type="hidden" name="_csrf" value="`+templ.EscapeString(form.CSRFToken)+`">`+
			`<label class="hws-login__label" for="hws-password">Password</label>`+
			`<input class="hws-login__input" id="hws-password" name="password" type="password" autocomplete="current-password" autofocus required value="">`+
			msg+
			`<button class="btn btn--primary" type="submit">Unlock editor</button>`+
			`<a class="hws-login__back" href="/">Back to the page</a>`+
			`</form></main>`)
		return err
	})
	return layout(site, "Editor login", body)
}

func errorPage(site Site, title, text string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<main class="hws-error"><h1>`+templ.EscapeString(title)+`</h1>`+
			`<p>`+templ.EscapeString(text)+`</p><a class="btn btn--primary" href="/">Go home</a></main>`)
		return err
	})
	return layout(site, title, body)
}

// NotFound renders the 404 page.
func NotFound(site Site) templ.Component {
	return errorPage(site, "Page not found", "There is nothing at this address.")
}

// ServerError renders the 5xx page.
func ServerError(site Site) templ.Component {
	return errorPage(site, "Something went wrong", "Please try again in a moment.")
}
