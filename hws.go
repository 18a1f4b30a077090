// Package hws serves the "How We Screen" landing page and its owner-only
// inline editor. The page markup is rendered from the pristine template
// plus the overrides kept in a SQLite store; the owner edits it through a
// password-gated JSON API driven by an embedded script.
package hws

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/hws/content"
	"github.com/eringen/hws/dom"
	"github.com/eringen/hws/editor"
)

// App wires together the store, the editor session, the page cache, the
// handlers and the middleware.
type App struct {
	Config     SiteConfig
	Echo       *echo.Echo
	Store      *Store
	Editor     *editor.Editor
	Cache      *PageCache
	Logger     *slog.Logger
	Newsletter *Newsletter

	loginLimiter     *LoginLimiter
	subscribeLimiter *LoginLimiter
	customRoutes     []func(*App)
	markup           *dom.Document
	logCloser        io.Closer
	watcher          *pageWatcher
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	if a.Logger == nil {
		a.Logger, a.logCloser = NewLogger(cfg.Log)
	}
	return a
}

// Open loads the page markup and the override store and starts the editor
// session. Start calls it; the CLI uses it alone.
func (a *App) Open() error {
	if a.Editor != nil {
		return nil
	}
	if a.markup == nil {
		markup, err := LoadMarkup(a.Config.PagePath)
		if err != nil {
			return err
		}
		a.markup = markup
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("hws: init store: %w", err)
	}
	a.Store = store

	a.Cache = NewPageCache(a.renderPage, a.Config.PageCacheTTL)

	ed, err := editor.New(editor.Options{
		Table:         content.Defaults(),
		Markup:        a.markup,
		Storage:       a.Store,
		Logger:        WithComponent(a.Logger, "editor"),
		HistoryDepth:  a.Config.HistoryDepth,
		SaveDelay:     a.Config.SaveDelay,
		RestoreWindow: a.Config.RestoreWindow,
		OnPersist:     a.Cache.Invalidate,
	})
	if err != nil {
		a.Store.Close()
		return fmt.Errorf("hws: init editor: %w", err)
	}
	a.Editor = ed

	selLog := WithComponent(a.Logger, "selection")
	ed.OnSelectionChange(func(s editor.Selection) {
		selLog.Debug("selection changed", "key", s.Key, "kind", s.Kind.String(), "mode", s.Mode.String())
	})
	return nil
}

// Init prepares everything Start needs without listening: it validates the
// config, opens the editor session and sets up middleware and routes.
func (a *App) Init() error {
	if a.Config.PasswordHash == "" {
		return fmt.Errorf("hws: password_hash is required")
	}
	if err := validateDigest(a.Config.PasswordHash); err != nil {
		return err
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("hws: session_secret is required")
	}
	if err := a.Open(); err != nil {
		return err
	}

	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.subscribeLimiter = NewLoginLimiter(10, time.Minute)
	a.Newsletter = NewNewsletter(a.Config.NewsletterURL, a.Config.NewsletterTimeout)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}

	if a.Config.WatchPage && a.Config.PagePath != "" {
		w, err := watchPage(a.Config.PagePath, a.reloadMarkup, WithComponent(a.Logger, "watch"))
		if err != nil {
			return fmt.Errorf("hws: watch page: %w", err)
		}
		a.watcher = w
	}
	return nil
}

// Start initializes the app and serves until the server stops.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Logger.Info("listening", "addr", a.Config.Addr, "site", a.Config.Name)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	staticFS, _ := fs.Sub(EmbeddedAssets, "embedded/static")
	e.GET("/static/*", echo.WrapHandler(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)

	// Public routes
	e.GET("/", a.handleHome)
	e.POST("/lang/", a.handleLang)
	e.POST("/subscribe/", a.handleSubscribe)

	// Editor gate
	e.GET("/editor/", a.handleEditor)
	e.POST("/editor/login/", a.handleEditorLogin)
	e.POST("/editor/logout/", handleEditorLogout)

	a.registerEditorAPI(e.Group(strings.TrimSuffix(apiPrefix, "/"), requireOwner))
}

// reloadMarkup swaps in the page file after it changed on disk.
func (a *App) reloadMarkup() {
	markup, err := LoadMarkup(a.Config.PagePath)
	if err != nil {
		a.Logger.Error("page reload failed", "path", a.Config.PagePath, "err", err)
		return
	}
	a.Editor.SetMarkup(markup)
	a.Cache.Invalidate()
	a.Logger.Info("page reloaded", "path", a.Config.PagePath)
}

// LoadMarkup parses the page file at path, or the embedded page when path
// is empty.
func LoadMarkup(path string) (*dom.Document, error) {
	var (
		f   io.ReadCloser
		err error
	)
	if path == "" {
		f, err = EmbeddedAssets.Open("embedded/page.html")
	} else {
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("hws: open page: %w", err)
	}
	defer f.Close()
	doc, err := dom.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("hws: parse page: %w", err)
	}
	if doc.Main() == nil {
		return nil, fmt.Errorf("hws: page %q has no <main> element", path)
	}
	return doc, nil
}

// Close flushes pending edits and releases resources. Call it when the app
// is shutting down.
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		errs = append(errs, a.watcher.Close())
	}
	if a.Editor != nil {
		errs = append(errs, a.Editor.Close())
	}
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.subscribeLimiter != nil {
		a.subscribeLimiter.Stop()
	}
	if a.Store != nil {
		errs = append(errs, a.Store.Close())
	}
	if a.logCloser != nil {
		errs = append(errs, a.logCloser.Close())
	}
	return errors.Join(errs...)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
