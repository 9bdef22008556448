package filestore

import (
	"context"
	"io"
	"sync"
)

// FakeAvatarStore keeps uploads in memory for tests.
type FakeAvatarStore struct {
	mu      sync.Mutex
	Uploads map[string][]byte
}

func NewFakeAvatarStore() *FakeAvatarStore {
	return &FakeAvatarStore{Uploads: make(map[string][]byte)}
}

func (f *FakeAvatarStore) Upload(ctx context.Context, key string, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.Uploads[key] = data
	return "https://files.invalid/" + key, nil
}
