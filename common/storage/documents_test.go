package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asaase-aban/registry/common/apperr"
	"github.com/asaase-aban/registry/common/logger"
)

func newTestStore(t *testing.T, maxBytes int64) *DocumentStore {
	t.Helper()

	store, err := NewDocumentStore(
		t.TempDir(),
		maxBytes,
		[]string{".pdf", ".jpg", ".jpeg", ".png"},
		logger.New("error", "text"),
	)
	if err != nil {
		t.Fatalf("NewDocumentStore failed: %v", err)
	}
	return store
}

func TestSaveAndOpen(t *testing.T) {
	store := newTestStore(t, 1024)

	content := "fake pdf bytes"
	name, err := store.Save("deed.pdf", int64(len(content)), strings.NewReader(content))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !strings.HasPrefix(name, "land-doc-") {
		t.Errorf("stored name %q should have the land-doc prefix", name)
	}
	if !strings.HasSuffix(name, ".pdf") {
		t.Errorf("stored name %q should keep the original extension", name)
	}

	f, err := store.Open(name)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()

	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("reading stored document: %v", err)
	}
	if string(got) != content {
		t.Errorf("stored content = %q, want %q", got, content)
	}
}

func TestSaveGeneratesUniqueNames(t *testing.T) {
	store := newTestStore(t, 1024)

	a, err := store.Save("deed.pdf", 4, strings.NewReader("aaaa"))
	if err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	b, err := store.Save("deed.pdf", 4, strings.NewReader("bbbb"))
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	if a == b {
		t.Errorf("two saves of the same original name produced the same stored name %q", a)
	}
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	store := newTestStore(t, 1024)

	for _, name := range []string{"deed.exe", "deed", "deed.pdf.sh", "deed.PDF.exe"} {
		_, err := store.Save(name, 4, strings.NewReader("data"))
		if !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("Save(%q) error = %v, want validation error", name, err)
		}
	}

	// Extension matching is case-insensitive
	if _, err := store.Save("DEED.PDF", 4, strings.NewReader("data")); err != nil {
		t.Errorf("Save with uppercase extension failed: %v", err)
	}
}

func TestSaveRejectsOversizedDocument(t *testing.T) {
	store := newTestStore(t, 10)

	_, err := store.Save("deed.pdf", 11, strings.NewReader("elevenbytes"))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Save with declared oversize = %v, want validation error", err)
	}

	// A client lying about the size is caught by the copy limit, and the
	// partial file is cleaned up.
	_, err = store.Save("deed.pdf", 5, strings.NewReader("more than ten bytes of content"))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Save with undeclared oversize = %v, want validation error", err)
	}

	entries, err := os.ReadDir(store.dir)
	if err != nil {
		t.Fatalf("reading upload dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("upload dir should be empty after rejected saves, has %d entries", len(entries))
	}
}

func TestOpenMissingDocument(t *testing.T) {
	store := newTestStore(t, 1024)

	_, err := store.Open("land-doc-123-missing.pdf")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Open(missing) error = %v, want not found", err)
	}

	_, err = store.Path("land-doc-123-missing.pdf")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Path(missing) error = %v, want not found", err)
	}
}

func TestOpenIgnoresDirectoryTraversal(t *testing.T) {
	store := newTestStore(t, 1024)

	// A file outside the upload dir must be unreachable even when the
	// requested name points straight at it.
	outside := filepath.Join(filepath.Dir(store.dir), "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatalf("writing outside file: %v", err)
	}

	_, err := store.Open("../secret.txt")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("Open with traversal = %v, want not found", err)
	}
}
