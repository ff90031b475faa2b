package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fwojciec/reciparse"
	"golang.org/x/sync/errgroup"
)

// Run executes the extract command. Every source is classified and
// checked before any of them is fetched; a failing source does not stop
// the others.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	sources := make([]*reciparse.Source, 0, len(c.Sources))
	for _, ref := range c.Sources {
		src := reciparse.Classify(ref)
		if err := src.Validate(); err != nil {
			fmt.Fprintln(deps.Stderr, diagnostic(ref, err))
			return err
		}
		sources = append(sources, src)
	}

	out := &lockedWriter{w: deps.Stdout}
	errOut := &lockedWriter{w: deps.Stderr}

	var g errgroup.Group
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}
	for _, src := range sources {
		g.Go(func() error {
			recipe, err := deps.Extractor.Run(deps.Ctx, src)
			if err != nil {
				fmt.Fprintln(errOut, diagnostic(src.Ref, err))
				return err
			}

			path, err := deps.Store.SaveRecipe(deps.Ctx, recipe)
			if err != nil {
				fmt.Fprintln(errOut, diagnostic(src.Ref, err))
				return err
			}

			fmt.Fprintf(out, "%s -> %s\n", src.Ref, path)
			return nil
		})
	}
	return g.Wait()
}

// diagnostic formats an error for stderr, naming the pipeline stage when known.
func diagnostic(ref string, err error) string {
	msg := reciparse.ErrorMessage(err)
	if reciparse.ErrorCode(err) == reciparse.EINTERNAL {
		msg = err.Error()
	}
	if stage := reciparse.ErrorStage(err); stage != "" {
		return fmt.Sprintf("error: %s: %s: %s", stage, ref, msg)
	}
	return fmt.Sprintf("error: %s: %s", ref, msg)
}

// lockedWriter serializes writes from concurrent pipeline runs.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
