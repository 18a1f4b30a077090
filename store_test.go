package hws

import (
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestGetMissingNamespace(t *testing.T) {
	s := setupTestStore(t)

	data, err := s.Get("overrides")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if data != nil {
		t.Fatalf("Get = %q, want nil", data)
	}
}

func TestPutAndGet(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Put("overrides", []byte(`{"hero.label":"Hi"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, err := s.Get("overrides")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(data) != `{"hero.label":"Hi"}` {
		t.Fatalf("Get = %q, want %q", data, `{"hero.label":"Hi"}`)
	}

	if err := s.Put("overrides", []byte(`{}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	data, _ = s.Get("overrides")
	if string(data) != `{}` {
		t.Fatalf("Get after overwrite = %q, want %q", data, `{}`)
	}
}

func TestDelete(t *testing.T) {
	s := setupTestStore(t)

	if err := s.Put("order", []byte(`["hero"]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete("order"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if data, _ := s.Get("order"); data != nil {
		t.Fatalf("Get after Delete = %q, want nil", data)
	}
	if err := s.Delete("order"); err != nil {
		t.Fatalf("Delete of missing namespace: %v", err)
	}
}

func TestNamespaces(t *testing.T) {
	s := setupTestStore(t)

	s.Put("overrides", []byte(`{"a.b":"c"}`))
	s.Put("hidden", []byte(`[]`))

	ns, err := s.Namespaces()
	if err != nil {
		t.Fatalf("Namespaces: %v", err)
	}
	if len(ns) != 2 {
		t.Fatalf("len(Namespaces) = %d, want 2", len(ns))
	}
	if ns[0].Name != "hidden" || ns[1].Name != "overrides" {
		t.Fatalf("Namespaces order = %q, %q", ns[0].Name, ns[1].Name)
	}
	if ns[1].Size != len(`{"a.b":"c"}`) {
		t.Fatalf("Size = %d, want %d", ns[1].Size, len(`{"a.b":"c"}`))
	}
	if ns[0].UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt should be set")
	}
}

func TestLastModified(t *testing.T) {
	s := setupTestStore(t)

	mod, err := s.LastModified()
	if err != nil {
		t.Fatalf("LastModified: %v", err)
	}
	if !mod.IsZero() {
		t.Fatalf("LastModified on empty store = %v, want zero", mod)
	}

	before := time.Now().UTC().Add(-time.Second)
	s.Put("overrides", []byte(`{}`))
	first, err := s.LastModified()
	if err != nil {
		t.Fatalf("LastModified: %v", err)
	}
	if first.Before(before) {
		t.Fatalf("LastModified = %v, want after %v", first, before)
	}

	// Writing identical data keeps the modification time.
	time.Sleep(5 * time.Millisecond)
	s.Put("overrides", []byte(`{}`))
	again, _ := s.LastModified()
	if !again.Equal(first) {
		t.Fatalf("LastModified after identical Put = %v, want %v", again, first)
	}

	time.Sleep(5 * time.Millisecond)
	s.Put("overrides", []byte(`{"x.y":"z"}`))
	changed, _ := s.LastModified()
	if !changed.After(first) {
		t.Fatalf("LastModified after change = %v, want after %v", changed, first)
	}
}
