// Package storage keeps uploaded board images on local disk or in a MinIO bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"sideeffect/internal/config"
)

// ObjectStore saves and removes public objects.
type ObjectStore interface {
	// Put stores r under name and returns the public URL.
	Put(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error)
	// Delete removes the object a URL returned by Put points to. Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error
}

// New builds the store selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (ObjectStore, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalStore(cfg.UploadDir, publicPrefix(cfg.PublicBaseURL, "/uploads"))
	case "minio":
		return NewMinioStore(ctx, MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.PublicBaseURL,
		})
	}
	return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
}

func publicPrefix(base, p string) string {
	return strings.TrimRight(base, "/") + p
}

// objectName extracts the object name from url when it lives under prefix.
func objectName(prefix, url string) (string, bool) {
	rest, ok := strings.CutPrefix(url, prefix+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") || rest != path.Clean(rest) {
		return "", false
	}
	return rest, true
}
