package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FilesystemStorage implements Storage against a directory tree rooted at
// the configured Root. Used for standalone deployments and tests.
type FilesystemStorage struct {
	Config Config
}

// NewFilesystemStorage returns filesystem backed storage.
func NewFilesystemStorage(config Config) *FilesystemStorage {
	return &FilesystemStorage{
		Config: config,
	}
}

func (f *FilesystemStorage) Write(ctx context.Context, key string, body []byte) error {
	filename := f.buildPath(key)

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return err
	}

	return os.WriteFile(filename, body, 0644)
}

func (f *FilesystemStorage) Read(ctx context.Context, key string) ([]byte, error) {
	filename := f.buildPath(key)

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return nil, ErrNotFound
	}

	return os.ReadFile(filename)
}

func (f *FilesystemStorage) Remove(ctx context.Context, key string) error {
	filename := f.buildPath(key)

	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return ErrNotFound
	}

	return os.Remove(filename)
}

func (f *FilesystemStorage) List(ctx context.Context, path string) ([]string, error) {
	dir := f.buildPath(path)

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	keys := []string{}
	err := filepath.Walk(dir, func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(f.Config.Root, name)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(keys)
	return keys, nil
}

func (f *FilesystemStorage) buildPath(key string) string {
	return filepath.Join(f.Config.Root, filepath.FromSlash(strings.TrimPrefix(key, "/")))
}
