package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/reciparse"
	"github.com/fwojciec/reciparse/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: Splitting a cookbook
// Recipes are staged and only appear in the output directory on commit.

func TestBookStore_SaveStagesInTempDirectory(t *testing.T) {
	t.Parallel()

	// Given a store targeting a directory
	base := t.TempDir()
	store := fs.NewBookStore(base, "recipes")

	// When I save a recipe
	name, err := store.Save(context.Background(), reciparse.BookRecipe{Title: "Soup", Content: "Boil."})

	// Then it is staged but not yet visible
	require.NoError(t, err)
	assert.Equal(t, "Soup.md", name)
	_, err = os.Stat(filepath.Join(base, "recipes.tmp", "Soup.md"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "recipes", "Soup.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestBookStore_CommitMovesIntoOutput(t *testing.T) {
	t.Parallel()

	// Given an output directory with an unrelated file
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "recipes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "recipes", "keep.md"), []byte("keep"), 0o644))

	store := fs.NewBookStore(base, "recipes")
	_, err := store.Save(context.Background(), reciparse.BookRecipe{Title: "Soup", Content: "Boil."})
	require.NoError(t, err)

	// When I commit
	require.NoError(t, store.Commit())

	// Then the recipe is in the output with its heading
	data, err := os.ReadFile(filepath.Join(base, "recipes", "Soup.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Soup\n\nBoil.", string(data))

	// And the unrelated file survives and the staging directory is gone
	_, err = os.Stat(filepath.Join(base, "recipes", "keep.md"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "recipes.tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestBookStore_AbortDiscardsStaged(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewBookStore(base, "recipes")
	_, err := store.Save(context.Background(), reciparse.BookRecipe{Title: "Soup", Content: "Boil."})
	require.NoError(t, err)

	require.NoError(t, store.Abort())

	_, err = os.Stat(filepath.Join(base, "recipes.tmp"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(base, "recipes"))
	assert.True(t, os.IsNotExist(err))
}

func TestBookStore_CommitWithNothingStaged(t *testing.T) {
	t.Parallel()

	store := fs.NewBookStore(t.TempDir(), "recipes")

	assert.NoError(t, store.Commit())
}
