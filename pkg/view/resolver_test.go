package view

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolver(t *testing.T) {
	dir := t.TempDir()
	rs := resolver{dir: dir, ext: ".view.html"}

	if err := os.MkdirAll(filepath.Join(dir, "pages"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	existing := filepath.Join(dir, "pages", "home.view.html")
	if err := os.WriteFile(existing, []byte("x"), 0644); err != nil {
		t.Fatalf("write view: %v", err)
	}

	t.Run("Existing", func(t *testing.T) {
		path, err := rs.resolve("pages/home")
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if path != existing {
			t.Errorf("resolved %q, want %q", path, existing)
		}
	})

	t.Run("MissingCarriesPath", func(t *testing.T) {
		_, err := rs.resolve("pages/nope")
		if !errors.Is(err, ErrTemplateNotFound) {
			t.Fatalf("got %v, want ErrTemplateNotFound", err)
		}
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			t.Fatal("expected a NotFoundError")
		}
		want := filepath.Join(dir, "pages", "nope.view.html")
		if nf.Path != want {
			t.Errorf("NotFoundError path %q, want %q", nf.Path, want)
		}
	})

	t.Run("EmptyName", func(t *testing.T) {
		if _, err := rs.resolve(""); !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("got %v, want ErrTemplateNotFound", err)
		}
	})

	t.Run("EscapeRejected", func(t *testing.T) {
		_, err := rs.resolve("../outside")
		if err == nil {
			t.Fatal("expected an error for a name escaping the view root")
		}
		if errors.Is(err, ErrTemplateNotFound) {
			t.Error("escape should be a hard error, not a not-found miss")
		}
	})

	t.Run("DirectoryIsNotAView", func(t *testing.T) {
		if err := os.MkdirAll(filepath.Join(dir, "weird.view.html"), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if _, err := rs.resolve("weird"); !errors.Is(err, ErrTemplateNotFound) {
			t.Errorf("got %v, want ErrTemplateNotFound for a directory", err)
		}
	})
}
