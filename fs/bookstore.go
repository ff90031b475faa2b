package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/reciparse"
)

// BookStore writes recipes split out of a cookbook with commit
// semantics. Files are staged in baseDir/name.tmp and moved into
// baseDir/name on Commit; Abort discards everything staged.
type BookStore struct {
	baseDir string
	name    string
}

// NewBookStore creates a new BookStore.
// baseDir is the parent directory, name is the output directory name.
func NewBookStore(baseDir, name string) *BookStore {
	return &BookStore{
		baseDir: baseDir,
		name:    name,
	}
}

func (s *BookStore) tempDir() string {
	return filepath.Join(s.baseDir, s.name+".tmp")
}

func (s *BookStore) finalDir() string {
	return filepath.Join(s.baseDir, s.name)
}

// Save stages one recipe as a Markdown file and returns its file name.
func (s *BookStore) Save(ctx context.Context, b reciparse.BookRecipe) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := b.FileName()
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("path traversal detected: %s", name)
	}

	if err := os.MkdirAll(s.tempDir(), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.tempDir(), name), []byte(b.Markdown()), 0644); err != nil {
		return "", err
	}
	return name, nil
}

// Commit moves every staged file into the output directory, replacing
// files of the same name, and removes the staging directory. Other files
// already in the output directory are left alone.
func (s *BookStore) Commit() error {
	entries, err := os.ReadDir(s.tempDir())
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.finalDir(), 0755); err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.Rename(filepath.Join(s.tempDir(), e.Name()), filepath.Join(s.finalDir(), e.Name())); err != nil {
			return err
		}
	}
	return os.RemoveAll(s.tempDir())
}

// Abort removes the staging directory.
func (s *BookStore) Abort() error {
	return os.RemoveAll(s.tempDir())
}
