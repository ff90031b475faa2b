package main

import (
	"fmt"

	"github.com/fwojciec/reciparse/chi"
)

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	s := chi.NewServer()
	s.Addr = c.Addr
	s.Extractor = deps.Extractor
	s.Store = deps.Store
	s.Logger = deps.Logger

	if err := s.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	deps.Logger.Info("listening", "url", s.URL())

	<-deps.Ctx.Done()
	return s.Close()
}
