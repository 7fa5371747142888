package service

import (
	"bytes"
	"context"
	"image"
	"testing"

	"sideeffect/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageService_UploadResizesToWebP(t *testing.T) {
	store := newMemoryStore()
	svc := NewImageService(store, 5)

	url, err := svc.Upload(context.Background(), UploadImageInput{
		Filename:    "header.png",
		ContentType: "image/png",
		Content:     tinyPNG(t, 2000, 1000),
	})
	require.NoError(t, err)
	require.Contains(t, store.objects, url)
	assert.Equal(t, "image/webp", store.types[url])

	cfg, format, err := image.DecodeConfig(bytes.NewReader(store.objects[url]))
	require.NoError(t, err)
	assert.Equal(t, "webp", format)
	assert.Equal(t, HeaderImageMaxSize, cfg.Width)
	assert.Equal(t, 640, cfg.Height)
}

func TestImageService_UploadKeepsSmallImages(t *testing.T) {
	store := newMemoryStore()
	url, err := NewImageService(store, 0).Upload(context.Background(), UploadImageInput{Content: tinyPNG(t, 300, 200)})
	require.NoError(t, err)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(store.objects[url]))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestImageService_UploadRejects(t *testing.T) {
	svc := NewImageService(newMemoryStore(), 1)
	ctx := context.Background()

	tests := []struct {
		name string
		in   UploadImageInput
	}{
		{"empty", UploadImageInput{}},
		{"not an image", UploadImageInput{Content: []byte("hello, world")}},
		{"too large", UploadImageInput{Content: make([]byte, 1024*1024+1)}},
		{"content type mismatch", UploadImageInput{ContentType: "image/jpeg", Content: tinyPNG(t, 8, 8)}},
		{"truncated png", UploadImageInput{Content: tinyPNG(t, 8, 8)[:40]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, tt.in)
			require.Error(t, err)
			assert.Equal(t, models.CodeValidation, appCode(err))
		})
	}
	assert.Equal(t, int64(1024*1024), svc.MaxUploadSizeBytes())
}

func TestImageService_Delete(t *testing.T) {
	store := newMemoryStore()
	svc := NewImageService(store, 1)
	require.NoError(t, svc.Delete(context.Background(), ""))
	assert.Empty(t, store.deleted)
	require.NoError(t, svc.Delete(context.Background(), "/uploads/x.webp"))
	assert.Equal(t, []string{"/uploads/x.webp"}, store.deleted)
}
