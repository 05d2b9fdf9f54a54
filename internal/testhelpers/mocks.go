package testhelpers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pageza/foodgram/backend/internal/storage"
	"github.com/stretchr/testify/mock"
)

// MemoryImageStore keeps saved images in memory.
type MemoryImageStore struct {
	mu      sync.Mutex
	n       int
	Objects map[string]*storage.Image
}

var _ storage.ImageStore = (*MemoryImageStore)(nil)

func NewMemoryImageStore() *MemoryImageStore {
	return &MemoryImageStore{Objects: map[string]*storage.Image{}}
}

func (m *MemoryImageStore) Save(_ context.Context, ownerID uint, img *storage.Image) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.n++
	url := fmt.Sprintf("/media/recipes/%d/%d%s", ownerID, m.n, img.Ext)
	m.Objects[url] = img
	return url, nil
}

func (m *MemoryImageStore) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, url)
	return nil
}

func (m *MemoryImageStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}

// MockDenylist is a mock implementation of service.TokenDenylist
type MockDenylist struct {
	mock.Mock
}

func (m *MockDenylist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	args := m.Called(ctx, jti, ttl)
	return args.Error(0)
}

func (m *MockDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	args := m.Called(ctx, jti)
	return args.Bool(0), args.Error(1)
}
