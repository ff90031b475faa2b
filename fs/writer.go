// Package fs provides file-based reading of sources and storage of
// extracted recipes.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/reciparse"
)

var errIsDir = errors.New("is a directory")

// RecipePath returns the artifact path for a recipe title inside dir.
func RecipePath(dir, title string) (string, error) {
	name := reciparse.Slug(title) + ".json"
	if !filepath.IsLocal(name) {
		return "", reciparse.Errorf(reciparse.EINVALID, "title %q does not map to a file name", title)
	}
	return filepath.Join(dir, name), nil
}

// FormatRecipe renders the recipe artifact: indented JSON with a trailing newline.
func FormatRecipe(r *reciparse.Recipe) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Ensure RecipeWriter implements reciparse.RecipeStore at compile time.
var _ reciparse.RecipeStore = (*RecipeWriter)(nil)

// RecipeWriter writes each recipe as <dir>/<slug>.json. Writes go to a
// temporary file that is renamed into place, so a failed write never
// leaves a partial artifact. An existing file with the same slug is
// replaced.
type RecipeWriter struct {
	baseDir string
}

// NewRecipeWriter creates a new RecipeWriter that writes to the given directory.
func NewRecipeWriter(baseDir string) *RecipeWriter {
	return &RecipeWriter{baseDir: baseDir}
}

// SaveRecipe writes r and returns the artifact path.
func (w *RecipeWriter) SaveRecipe(ctx context.Context, r *reciparse.Recipe) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	path, err := RecipePath(w.baseDir, r.Title)
	if err != nil {
		return "", err
	}

	data, err := FormatRecipe(r)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
