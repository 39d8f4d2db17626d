package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadExistsDelete(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)

	key := "proofs/2026/10/u1/photo.jpg"
	require.NoError(t, s.Upload(ctx, strings.NewReader("jpeg-bytes"), key, "image/jpeg"))

	ok, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:8080/uploads/proofs/2026/10/u1/photo.jpg", s.URL(key))

	require.NoError(t, s.Delete(ctx, key))
	ok, err = s.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting again is fine
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocalStorage_TraversalStaysInsideBase(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)

	require.NoError(t, s.Upload(ctx, strings.NewReader("x"), "../../etc/evil.txt", "text/plain"))
	ok, err := s.Exists(ctx, "etc/evil.txt")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCleanKey_Rejects(t *testing.T) {
	for _, key := range []string{"", "/", ".", "../"} {
		_, err := cleanKey(key)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", key)
	}
}

func TestImageExtension(t *testing.T) {
	ext, err := ImageExtension("image/PNG")
	require.NoError(t, err)
	assert.Equal(t, ".png", ext)

	_, err = ImageExtension("application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedContent)
}

func TestNewKey(t *testing.T) {
	now := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	key := NewKey("businesses", "owner-1", ".jpg", now)
	assert.Regexp(t, `^businesses/2026/03/owner-1/[0-9a-f-]{36}\.jpg$`, key)
}
