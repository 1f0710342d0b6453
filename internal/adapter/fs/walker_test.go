package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWalker_IncludesOnlyPhotos(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.jpg", "b.png", "notes.txt", "sub/c.jpeg")

	w := NewWalker([]string{"**/*.jpg", "**/*.jpeg", "**/*.png"}, nil)
	files, err := w.Walk(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 3 {
		t.Fatalf("expected 3 photos, got %d", len(files))
	}
	for _, f := range files {
		if filepath.Ext(f.Path) == ".txt" {
			t.Errorf("non-photo file included: %s", f.Path)
		}
		if f.ModTime <= 0 {
			t.Errorf("expected mtime for %s", f.Path)
		}
	}
}

func TestWalker_Excludes(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "keep.jpg", ".thumbnails/skip.jpg")

	w := NewWalker([]string{"**/*.jpg"}, []string{"**/.*/**"})
	files, err := w.Walk(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 1 || filepath.Base(files[0].Path) != "keep.jpg" {
		t.Errorf("expected only keep.jpg, got %v", files)
	}
}

func TestWalker_StableOrder(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "c.jpg", "a.jpg", "b.jpg")

	w := NewWalker([]string{"**/*.jpg"}, nil)
	files, err := w.Walk(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	for i, want := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		if filepath.Base(files[i].Path) != want {
			t.Errorf("position %d: expected %s, got %s", i, want, filepath.Base(files[i].Path))
		}
	}
}
