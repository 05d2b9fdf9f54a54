package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DiskStore writes images under a local media directory served by the API
// itself. Used when no bucket is configured.
type DiskStore struct {
	dir    string
	prefix string
}

var _ ImageStore = (*DiskStore)(nil)

func NewDiskStore(dir, urlPrefix string) *DiskStore {
	return &DiskStore{dir: dir, prefix: strings.TrimRight(urlPrefix, "/")}
}

func (s *DiskStore) Save(_ context.Context, ownerID uint, img *Image) (string, error) {
	rel := path.Join("recipes", fmt.Sprint(ownerID), uuid.New().String()+img.Ext)
	target := filepath.Join(s.dir, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", errors.Wrap(err, "create media directory")
	}
	if err := os.WriteFile(target, img.Data, 0o644); err != nil {
		return "", errors.Wrap(err, "write image")
	}
	return s.prefix + "/" + rel, nil
}

func (s *DiskStore) Delete(_ context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, s.prefix+"/")
	if !ok || strings.Contains(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove image")
	}
	return nil
}
