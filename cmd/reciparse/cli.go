package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/reciparse"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Extractor reciparse.RecipeExtractor
	Store     reciparse.RecipeStore
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Extract ExtractCmd `cmd:"" help:"Extract recipes from URLs or files"`
	Serve   ServeCmd   `cmd:"" help:"Serve recipe extraction over HTTP"`
	Split   SplitCmd   `cmd:"" help:"Split a Markdown cookbook into one file per recipe"`
}

// PipelineFlags configure the extraction pipeline.
type PipelineFlags struct {
	Prompt         string        `short:"s" type:"path" help:"System prompt file (default: recipe-prompt.txt if present)"`
	Backend        string        `help:"Extraction backend: anthropic or gemini (default: RECIPARSE_BACKEND or anthropic)"`
	Extractor      string        `default:"text" enum:"text,article,readability,markdown" help:"Text extractor for markup: text, article, readability or markdown"`
	Render         bool          `help:"Render pages in headless Chrome before extraction"`
	Timeout        time.Duration `default:"10s" help:"Fetch timeout"`
	ExtractTimeout time.Duration `default:"2m" help:"Backend call timeout"`
	MaxTokens      int           `default:"8192" help:"Response token budget for the anthropic backend"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	PipelineFlags `embed:""`

	Sources     []string `arg:"" name:"source" help:"URLs or file paths"`
	Output      string   `short:"o" default:"recipes" type:"path" help:"Output directory"`
	Concurrency int      `short:"c" default:"4" help:"Sources processed concurrently"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	PipelineFlags `embed:""`

	Addr   string  `default:":8080" help:"Listen address"`
	RPS    float64 `default:"1" help:"Backend calls per second (0 disables the limit)"`
	Burst  int     `default:"1" help:"Backend call burst size"`
	Output string  `short:"o" type:"path" help:"Also save extracted recipes to this directory"`
}

// SplitCmd is the "split" subcommand.
type SplitCmd struct {
	Book   string `arg:"" type:"existingfile" help:"Markdown cookbook"`
	Output string `short:"o" default:"." type:"path" help:"Parent directory for the recipe folder"`
}
