package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/ChaseRain/deckgen/pkg/errors"
)

type localBackend struct {
	basePath string
}

func newLocalBackend(basePath string) *localBackend {
	return &localBackend{basePath: basePath}
}

func (b *localBackend) path(key string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", errors.New(errors.ErrCodeInvalidReq, "invalid file name")
	}
	return filepath.Join(b.basePath, filepath.FromSlash(key)), nil
}

func (b *localBackend) Put(_ context.Context, key string, data []byte, _ string) error {
	p, err := b.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0644)
}

func (b *localBackend) Get(_ context.Context, key string) ([]byte, error) {
	p, err := b.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeNotFound, "file not found")
		}
		return nil, err
	}
	return data, nil
}
