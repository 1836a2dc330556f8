package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"foodgram/internal/apperr"
)

// pngHeader is the 8-byte PNG signature, base64 encoded.
const pngHeader = "data:image/png;base64,iVBORw0KGgo="

func TestImageStore(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "storage_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	store, err := NewImageStore(tempDir, "/media")
	if err != nil {
		t.Fatalf("Failed to create ImageStore: %v", err)
	}

	var saved string

	t.Run("Save", func(t *testing.T) {
		saved, err = store.Save(pngHeader)
		if err != nil {
			t.Fatalf("Failed to save image: %v", err)
		}
		if !strings.HasPrefix(saved, "recipes/images/") || !strings.HasSuffix(saved, ".png") {
			t.Errorf("Unexpected stored path '%s'", saved)
		}
		if _, err := os.Stat(filepath.Join(tempDir, filepath.FromSlash(saved))); os.IsNotExist(err) {
			t.Errorf("Expected file '%s' to be created, but it wasn't", saved)
		}
	})

	t.Run("URL", func(t *testing.T) {
		if got := store.URL(saved); got != "/media/"+saved {
			t.Errorf("Expected URL '/media/%s', got '%s'", saved, got)
		}
		if got := store.URL(""); got != "" {
			t.Errorf("Expected empty URL for empty path, got '%s'", got)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		if err := store.Remove(saved); err != nil {
			t.Fatalf("Failed to remove image: %v", err)
		}
		if _, err := os.Stat(filepath.Join(tempDir, filepath.FromSlash(saved))); !os.IsNotExist(err) {
			t.Errorf("Expected image '%s' to be removed", saved)
		}
		if err := store.Remove(saved); err != nil {
			t.Errorf("Expected removing a missing image to succeed, got %v", err)
		}
	})

	t.Run("Remove-OutsideDirectory", func(t *testing.T) {
		if err := store.Remove("../../etc/passwd"); err == nil {
			t.Fatal("Expected an error for a path outside the image directory, got nil")
		}
		if err := store.Remove("recipes/images/../../secret"); err == nil {
			t.Fatal("Expected an error for a traversal path, got nil")
		}
	})

	t.Run("Save-Invalid", func(t *testing.T) {
		inputs := []string{
			"",
			"not a data uri",
			"data:text/plain;base64,aGVsbG8=",
			"data:image/png;base64,!!!",
			"data:image/png;base64,aGVsbG8gd29ybGQ=", // declared png, actually text
		}
		for _, in := range inputs {
			_, err := store.Save(in)
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Errorf("Expected validation error for %q, got %v", in, err)
			}
		}
	})
}
