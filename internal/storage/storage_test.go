package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sideeffect/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Put(ctx, "abc.webp", "image/webp", strings.NewReader("data"), 4)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/abc.webp", url)

	b, err := os.ReadFile(filepath.Join(dir, "abc.webp"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))

	require.NoError(t, store.Delete(ctx, url))
	_, err = os.Stat(filepath.Join(dir, "abc.webp"))
	assert.True(t, os.IsNotExist(err))

	// Missing and foreign URLs are ignored.
	assert.NoError(t, store.Delete(ctx, url))
	assert.NoError(t, store.Delete(ctx, "https://elsewhere.example/img.png"))
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	for _, name := range []string{"../escape.webp", "a/b.webp", ""} {
		_, err := store.Put(context.Background(), name, "image/webp", strings.NewReader("x"), 1)
		assert.Error(t, err, name)
	}
}

func TestObjectName(t *testing.T) {
	tests := []struct {
		url  string
		name string
		ok   bool
	}{
		{"/uploads/a.webp", "a.webp", true},
		{"/uploads/", "", false},
		{"/uploads/x/../a.webp", "", false},
		{"/other/a.webp", "", false},
	}
	for _, tt := range tests {
		name, ok := objectName("/uploads", tt.url)
		assert.Equal(t, tt.ok, ok, tt.url)
		assert.Equal(t, tt.name, name, tt.url)
	}
}

func TestNew_Local(t *testing.T) {
	store, err := New(context.Background(), &config.Config{StorageDriver: "local", UploadDir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "/uploads", store.(*LocalStore).URLPrefix)

	_, err = New(context.Background(), &config.Config{StorageDriver: "s3"})
	assert.Error(t, err)
}
