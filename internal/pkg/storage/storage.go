package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidKey         = errors.New("invalid object key")
	ErrUnsupportedContent = errors.New("unsupported content type")
)

// FileStorage stores public objects such as business photos and proof-of-visit images.
type FileStorage interface {
	// Upload writes r under key.
	Upload(ctx context.Context, r io.Reader, key string, contentType string) error

	// Delete removes key. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public download URL for key.
	URL(key string) string

	Exists(ctx context.Context, key string) (bool, error)
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageExtension returns the file extension for an accepted image content type.
func ImageExtension(contentType string) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedContent, contentType)
	}
	return ext, nil
}

// NewKey builds an object key like "businesses/2026/10/<owner>/<uuid>.jpg".
func NewKey(prefix, ownerID, ext string, now time.Time) string {
	return fmt.Sprintf("%s/%d/%02d/%s/%s%s",
		prefix, now.Year(), now.Month(), ownerID, uuid.NewString(), ext)
}

func cleanKey(key string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean("/" + key))[1:]
	if clean == "" || clean == "." || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return clean, nil
}
