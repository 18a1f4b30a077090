package hws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestValidEmail(t *testing.T) {
	good := []string{"ana@example.com", "a.b+c@sub.example.org"}
	bad := []string{"", "ana", "ana@", "ana@example", "an a@example.com", "@example.com"}
	for _, e := range good {
		if !ValidEmail(e) {
			t.Fatalf("ValidEmail(%q) = false, want true", e)
		}
	}
	for _, e := range bad {
		if ValidEmail(e) {
			t.Fatalf("ValidEmail(%q) = true, want false", e)
		}
	}
}

func TestNewsletterSubscribe(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
			t.Errorf("Content-Type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	n := NewNewsletter(srv.URL, time.Second)
	err := n.Subscribe(context.Background(), Subscription{EmailAddress: "ana@example.com", FirstName: "Ana", Form: "detox"})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if got["email_address"] != "ana@example.com" || got["first_name"] != "Ana" {
		t.Fatalf("payload = %v", got)
	}
	if _, ok := got["form"]; ok {
		t.Fatalf("payload should not carry the form name: %v", got)
	}
}

func TestNewsletterProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := NewNewsletter(srv.URL, time.Second).Subscribe(context.Background(), Subscription{EmailAddress: "ana@example.com"})
	if err == nil {
		t.Fatal("expected an error for a 422 response")
	}
}

func TestNewsletterDisabled(t *testing.T) {
	n := NewNewsletter("", time.Second)
	if n.Enabled() {
		t.Fatal("Enabled() = true for an empty URL")
	}
	err := n.Subscribe(context.Background(), Subscription{EmailAddress: "ana@example.com"})
	if !errors.Is(err, ErrNewsletterDisabled) {
		t.Fatalf("Subscribe = %v, want ErrNewsletterDisabled", err)
	}
}

func TestSubscribeEndpointForwards(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := newTestApp(t)
	a.Newsletter = NewNewsletter(srv.URL, time.Second)
	b := newBrowser(t, a)

	rec := b.postForm("/subscribe/", map[string][]string{"email_address": {" ana@example.com "}, "form": {"footer"}}, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var res subscribeResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !res.OK || res.Message != a.Editor.Resolve("detox.formSuccessMsg") {
		t.Fatalf("result = %+v", res)
	}
	if calls.Load() != 1 {
		t.Fatalf("provider calls = %d, want 1", calls.Load())
	}
}
