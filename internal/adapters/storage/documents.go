package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// LocalDocumentStore resolves stored document references under a configured
// root directory. Paths that escape the root resolve to nothing.
type LocalDocumentStore struct {
	root string
}

func NewLocalDocumentStore(root string) *LocalDocumentStore {
	return &LocalDocumentStore{root: root}
}

func (s *LocalDocumentStore) Resolve(relPath string) (string, bool) {
	if s.root == "" || relPath == "" {
		return "", false
	}
	abs := filepath.Join(s.root, filepath.Clean("/"+relPath))
	if !strings.HasPrefix(abs, filepath.Clean(s.root)+string(filepath.Separator)) {
		return "", false
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return "", false
	}
	return abs, true
}
