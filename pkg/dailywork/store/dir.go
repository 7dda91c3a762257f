package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ukaji3/dailywork-go/pkg/dailywork/docx"
)

// DirStore keeps documents as <id>.docx files in a directory.
type DirStore struct {
	root string
}

// NewDirStore returns a store rooted at dir, which must exist.
func NewDirStore(dir string) (*DirStore, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("documents directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("documents directory: %s is not a directory", dir)
	}
	return &DirStore{root: dir}, nil
}

func (s *DirStore) path(id string) (string, error) {
	id, err := normalizeID(id)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, id+DocumentExt), nil
}

// Open reads and parses <dir>/<id>.docx.
func (s *DirStore) Open(ctx context.Context, id string) (*docx.Document, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mapFSError(id, err)
	}
	return docx.Parse(data)
}

// Save writes to a temporary file and renames it over the document. The
// document keeps its permissions; new documents get 0644.
func (s *DirStore) Save(ctx context.Context, id string, doc *docx.Document) error {
	path, err := s.path(id)
	if err != nil {
		return err
	}
	data, err := doc.Bytes()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.root, ".tmp-*"+DocumentExt)
	if err != nil {
		return mapFSError(id, err)
	}
	defer os.Remove(tmp.Name())

	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return mapFSError(id, os.Rename(tmp.Name(), path))
}

// Modified returns the file's modification time.
func (s *DirStore) Modified(ctx context.Context, id string) (time.Time, error) {
	path, err := s.path(id)
	if err != nil {
		return time.Time{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, mapFSError(id, err)
	}
	return info.ModTime(), nil
}

func mapFSError(id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", ErrAccessDenied, id)
	default:
		return err
	}
}
