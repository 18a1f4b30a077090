package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eringen/hws"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("hws %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestVersion(t *testing.T) {
	if got := run(t, "", "version"); got != "hws dev\n" {
		t.Fatalf("version = %q", got)
	}
}

func TestHashPassword(t *testing.T) {
	want := hws.HashPassword("hunter2") + "\n"
	if got := run(t, "", "hash-password", "hunter2"); got != want {
		t.Fatalf("hash-password arg = %q, want %q", got, want)
	}
	if got := run(t, "hunter2\n", "hash-password"); got != want {
		t.Fatalf("hash-password stdin = %q, want %q", got, want)
	}
}

func TestConfigRedactsSecrets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hws.yaml")
	cfg := "name: Test\npassword_hash: " + hws.HashPassword("x") + "\nsession_secret: shh\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	out := run(t, "", "--config", path, "config")
	if !strings.Contains(out, "name: Test") {
		t.Fatalf("config output missing name:\n%s", out)
	}
	if strings.Contains(out, "shh") || strings.Contains(out, hws.HashPassword("x")) {
		t.Fatalf("config output leaks secrets:\n%s", out)
	}
	if !strings.Contains(out, "page_cache_ttl: 5m0s") {
		t.Fatalf("config output missing defaults:\n%s", out)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hws.yaml")
	cfg := "database_path: " + filepath.Join(dir, "hws.db") + "\nlog:\n  level: error\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	overrides := filepath.Join(dir, "in.json")
	if err := os.WriteFile(overrides, []byte(`{"hero.label": "Imported label"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := run(t, "", "--config", path, "import", overrides); !strings.Contains(got, "Imported 1 values") {
		t.Fatalf("import output = %q", got)
	}
	exportOutput = ""
	if got := run(t, "", "--config", path, "export", "json"); !strings.Contains(got, "Imported label") {
		t.Fatalf("export json = %q", got)
	}
	if got := run(t, "", "--config", path, "export", "html", "--lang", "es"); !strings.Contains(got, "Imported label") || !strings.Contains(got, `lang="es"`) {
		t.Fatalf("export html missing the override or language")
	}
	if got := run(t, "", "--config", path, "reset", "--yes"); !strings.Contains(got, "All edits removed") {
		t.Fatalf("reset output = %q", got)
	}
	if got := run(t, "", "--config", path, "export", "json"); strings.Contains(got, "Imported label") {
		t.Fatalf("export after reset still has the override: %q", got)
	}
}
