package storage

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"foodgram/internal/apperr"
)

const (
	imageDir      = "recipes/images"
	maxImageBytes = 10 << 20
)

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageStore keeps uploaded recipe images on disk under basePath.
type ImageStore struct {
	basePath string
	baseURL  string
}

// NewImageStore creates a new ImageStore and ensures the image directory exists.
func NewImageStore(basePath, baseURL string) (*ImageStore, error) {
	if err := os.MkdirAll(filepath.Join(basePath, filepath.FromSlash(imageDir)), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &ImageStore{basePath: basePath, baseURL: baseURL}, nil
}

// Save decodes a "data:image/<type>;base64,<payload>" URI, writes it under
// a random name and returns the stored path relative to the media root.
func (s *ImageStore) Save(dataURI string) (string, error) {
	data, ext, err := decodeDataURI(dataURI)
	if err != nil {
		return "", err
	}

	rel := path.Join(imageDir, uuid.NewString()+ext)
	if err := os.WriteFile(s.fullPath(rel), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return rel, nil
}

// Remove deletes a stored image. Missing files are not an error.
func (s *ImageStore) Remove(rel string) error {
	if !s.owns(rel) {
		return fmt.Errorf("refusing to remove %q outside the image directory", rel)
	}
	if err := os.Remove(s.fullPath(rel)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image %s: %w", rel, err)
	}
	return nil
}

// URL returns the public URL of a stored image.
func (s *ImageStore) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return s.baseURL + rel
}

func (s *ImageStore) fullPath(rel string) string {
	return filepath.Join(s.basePath, filepath.FromSlash(rel))
}

// owns reports whether rel is a plain file name inside the image directory.
func (s *ImageStore) owns(rel string) bool {
	dir, file := path.Split(rel)
	return dir == imageDir+"/" && file != "" && file != "." && file != ".." && path.Clean(rel) == rel
}

func decodeDataURI(uri string) ([]byte, string, error) {
	invalid := apperr.Invalid("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")

	header, payload, ok := strings.Cut(uri, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, "", invalid
	}
	declared := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if _, ok := extensions[declared]; !ok {
		return nil, "", invalid
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return nil, "", apperr.Invalid("image", "The image is too large.")
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil || len(data) == 0 {
		return nil, "", invalid
	}

	// Trust the bytes over the declared type.
	detected := http.DetectContentType(data)
	ext, ok := extensions[detected]
	if !ok {
		return nil, "", invalid
	}
	return data, ext, nil
}
