package dao

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// PhotoStore keeps photo objects on the local filesystem, namespaced by
// owner, and resolves them to URLs under a configured base. It stands in
// for the managed object store and sits behind usecase.ObjectStore so a
// bucket-backed implementation can replace it.
type PhotoStore struct {
	dir     string
	baseURL string
}

func NewPhotoStore(dir, baseURL string) *PhotoStore {
	return &PhotoStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *PhotoStore) Put(path string, data []byte) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errors.Wrap(err, "create photo dir")
	}
	return errors.Wrap(os.WriteFile(full, data, 0o644), "write photo")
}

func (s *PhotoStore) Delete(path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	return errors.Wrap(os.Remove(full), "delete photo")
}

// URL returns the publicly resolvable address for a stored path.
func (s *PhotoStore) URL(path string) (string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return "", errors.New("empty photo path")
	}
	return s.baseURL + "/" + path, nil
}

// PathFromURL inverts URL. Returns "" for addresses this store did not
// issue.
func (s *PhotoStore) PathFromURL(url string) string {
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return ""
	}
	return strings.TrimPrefix(url, s.baseURL+"/")
}

// resolve maps a store path onto the base dir, refusing traversal.
func (s *PhotoStore) resolve(path string) (string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return "", errors.New("empty photo path")
	}
	full := filepath.Join(s.dir, filepath.FromSlash(path))
	if !strings.HasPrefix(full, filepath.Clean(s.dir)+string(os.PathSeparator)) {
		return "", errors.New("photo path escapes store root")
	}
	return full, nil
}
