package hws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrNewsletterDisabled is returned when no subscription endpoint is
// configured.
var ErrNewsletterDisabled = errors.New("newsletter endpoint not configured")

// Subscription is the payload forwarded to the newsletter provider.
type Subscription struct {
	EmailAddress string `json:"email_address" form:"email_address"`
	FirstName    string `json:"first_name,omitempty" form:"first_name"`
	Form         string `json:"-" form:"form"`
}

// Newsletter forwards sign-ups from the page forms to the provider's JSON
// endpoint. Failures are reported to the visitor and never retried.
type Newsletter struct {
	url    string
	client *http.Client
}

// NewNewsletter creates a Newsletter posting to url. An empty url disables
// it.
func NewNewsletter(url string, timeout time.Duration) *Newsletter {
	return &Newsletter{url: url, client: &http.Client{Timeout: timeout}}
}

// Enabled reports whether an endpoint is configured.
func (n *Newsletter) Enabled() bool { return n != nil && n.url != "" }

// ValidEmail applies the same check as the page forms.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Subscribe posts sub to the provider.
func (n *Newsletter) Subscribe(ctx context.Context, sub Subscription) error {
	if !n.Enabled() {
		return ErrNewsletterDisabled
	}
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("hws: encode subscription: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("hws: build subscription request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("hws: subscribe: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode >= 400 {
		return fmt.Errorf("hws: subscribe: provider returned %s", resp.Status)
	}
	return nil
}

type subscribeResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func (a *App) handleSubscribe(c echo.Context) error {
	var sub Subscription
	if err := c.Bind(&sub); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	sub.EmailAddress = strings.TrimSpace(sub.EmailAddress)
	sub.FirstName = strings.TrimSpace(sub.FirstName)
	failed := subscribeResult{Message: a.Editor.Resolve("detox.formErrorMsg")}
	if !a.subscribeLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, failed)
	}
	if !ValidEmail(sub.EmailAddress) {
		return c.JSON(http.StatusBadRequest, failed)
	}
	if err := a.Newsletter.Subscribe(c.Request().Context(), sub); err != nil {
		a.Logger.Warn("newsletter subscription failed", "form", sub.Form, "err", err)
		code := http.StatusBadGateway
		if errors.Is(err, ErrNewsletterDisabled) {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, failed)
	}
	a.Logger.Info("newsletter subscription", "form", sub.Form)
	return c.JSON(http.StatusOK, subscribeResult{OK: true, Message: a.Editor.Resolve("detox.formSuccessMsg")})
}
