package filestore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalAvatarStore writes avatars to a directory on disk, for development
// runs without AWS credentials. baseUrl is whatever serves that directory.
type LocalAvatarStore struct {
	dir     string
	baseUrl string
}

func NewLocalAvatarStore(dir string, baseUrl string) (*LocalAvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalAvatarStore{dir: dir, baseUrl: baseUrl}, nil
}

func (s *LocalAvatarStore) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := io.Copy(file, body); err != nil {
		return "", err
	}
	return strings.TrimSuffix(s.baseUrl, "/") + "/" + key, nil
}
