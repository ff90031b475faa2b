package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/reciparse"
	rpfs "github.com/fwojciec/reciparse/fs"
)

// Run executes the split command. Recipes are written to a directory
// named after the book, inside Output.
func (c *SplitCmd) Run(deps *Dependencies) error {
	data, err := os.ReadFile(c.Book)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	recipes := reciparse.SplitBook(string(data))
	if len(recipes) == 0 {
		err := reciparse.Errorf(reciparse.EINVALID, "no recipes found in %s (expected \"## \" headings)", c.Book)
		fmt.Fprintf(deps.Stderr, "error: %s\n", reciparse.ErrorMessage(err))
		return err
	}

	name := strings.TrimSuffix(filepath.Base(c.Book), filepath.Ext(c.Book))
	store := rpfs.NewBookStore(c.Output, name)
	for _, r := range recipes {
		if _, err := store.Save(deps.Ctx, r); err != nil {
			_ = store.Abort()
			fmt.Fprintf(deps.Stderr, "error: %s: %v\n", r.Title, err)
			return err
		}
	}
	if err := store.Commit(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d recipes to %s\n", len(recipes), filepath.Join(c.Output, name))
	return nil
}
