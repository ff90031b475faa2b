package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/reciparse"
	"github.com/fwojciec/reciparse/anthropic"
	rpfs "github.com/fwojciec/reciparse/fs"
	"github.com/fwojciec/reciparse/gemini"
	"github.com/fwojciec/reciparse/goquery"
	"github.com/fwojciec/reciparse/htmltomarkdown"
	rphttp "github.com/fwojciec/reciparse/http"
	"github.com/fwojciec/reciparse/pdfcpu"
	"github.com/fwojciec/reciparse/pipeline"
	"github.com/fwojciec/reciparse/readability"
	"github.com/fwojciec/reciparse/rod"
	rpslog "github.com/fwojciec/reciparse/slog"
	"github.com/fwojciec/reciparse/trafilatura"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// DefaultPromptFile is read as the system prompt when present and no -s flag is given.
const DefaultPromptFile = "recipe-prompt.txt"

// Main represents the program.
type Main struct {
	// EnvFile is loaded before configuration is read. A missing file is ignored.
	EnvFile string

	// Getenv looks up process environment. Values set here win over EnvFile.
	Getenv func(string) string

	// Backend replaces the configured backend, for end-to-end testing.
	Backend reciparse.Backend
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		EnvFile: ".env",
		Getenv:  os.Getenv,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("reciparse"),
		kong.Description("Extract structured recipes from web pages, text files, images and PDFs"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'reciparse --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	if kongCtx.Selected() == nil {
		return nil
	}

	getenv, err := m.loadEnv()
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", m.EnvFile, err)
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("run", uuid.NewString())

	switch kongCtx.Selected().Name {
	case "extract":
		p, closeFn, err := m.newPipeline(ctx, &cli.Extract.PipelineFlags, deps, getenv)
		if err != nil {
			return err
		}
		defer closeFn()
		deps.Extractor = p
		deps.Store = rpfs.NewRecipeWriter(cli.Extract.Output)

	case "serve":
		p, closeFn, err := m.newPipeline(ctx, &cli.Serve.PipelineFlags, deps, getenv)
		if err != nil {
			return err
		}
		defer closeFn()
		if cli.Serve.RPS > 0 {
			p.Backend = pipeline.NewLimitedBackend(p.Backend, cli.Serve.RPS, cli.Serve.Burst)
		}
		deps.Extractor = p
		if cli.Serve.Output != "" {
			deps.Store = rpfs.NewRecipeWriter(cli.Serve.Output)
		}
	}

	return kongCtx.Run(deps)
}

// loadEnv returns a lookup that prefers the process environment and falls
// back to values from EnvFile.
func (m *Main) loadEnv() (func(string) string, error) {
	getenv := m.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if m.EnvFile == "" {
		return getenv, nil
	}

	vars, err := godotenv.Read(m.EnvFile)
	if errors.Is(err, iofs.ErrNotExist) {
		return getenv, nil
	} else if err != nil {
		return nil, err
	}
	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return vars[key]
	}, nil
}

// newPipeline wires fetchers, text extraction, PDF inspection and the
// backend according to flags. The returned func releases the fetchers.
func (m *Main) newPipeline(ctx context.Context, f *PipelineFlags, deps *Dependencies, getenv func(string) string) (*pipeline.Pipeline, func() error, error) {
	instructions, err := readPrompt(f.Prompt)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", reciparse.ErrorMessage(err))
		return nil, nil, err
	}

	text, err := newTextExtractor(f.Extractor)
	if err != nil {
		return nil, nil, err
	}

	backendName, backend, err := m.newBackend(ctx, f, getenv)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", reciparse.ErrorMessage(err))
		return nil, nil, err
	}

	var network reciparse.Fetcher
	if f.Render {
		rf, err := rod.NewFetcher(rod.WithFetchTimeout(f.Timeout))
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed for --render")
			return nil, nil, fmt.Errorf("failed to start browser: %w", err)
		}
		network = rf
	} else {
		network = rphttp.NewFetcher(rphttp.WithTimeout(f.Timeout))
	}

	p := &pipeline.Pipeline{
		Network:        rpslog.NewLoggingFetcher(network, deps.Logger),
		Local:          rpslog.NewLoggingFetcher(rpfs.NewFetcher(), deps.Logger),
		Text:           rpslog.NewLoggingTextExtractor(text, deps.Logger),
		Inspector:      pdfcpu.NewInspector(),
		Backend:        rpslog.NewLoggingBackend(backend, backendName, deps.Logger),
		Validator:      reciparse.NewValidator(),
		Instructions:   instructions,
		ExtractTimeout: f.ExtractTimeout,
		Logger:         deps.Logger,
	}
	return p, network.Close, nil
}

// newBackend selects the extraction backend. An empty name falls back to
// RECIPARSE_BACKEND and then to anthropic.
func (m *Main) newBackend(ctx context.Context, f *PipelineFlags, getenv func(string) string) (string, reciparse.Backend, error) {
	name := f.Backend
	if name == "" {
		name = getenv("RECIPARSE_BACKEND")
	}
	if name == "" {
		name = "anthropic"
	}

	switch name {
	case "anthropic":
		if m.Backend != nil {
			return name, m.Backend, nil
		}
		apiKey := getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return "", nil, reciparse.Errorf(reciparse.EINVALID, "ANTHROPIC_API_KEY not set. Get a key at https://console.anthropic.com/")
		}
		opts := []anthropic.Option{anthropic.WithMaxTokens(f.MaxTokens)}
		if model := getenv("ANTHROPIC_MODEL"); model != "" {
			opts = append(opts, anthropic.WithModel(model))
		}
		if baseURL := getenv("ANTHROPIC_BASE_URL"); baseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(baseURL))
		}
		return name, anthropic.NewBackend(apiKey, opts...), nil

	case "gemini":
		if m.Backend != nil {
			return name, m.Backend, nil
		}
		apiKey := getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return "", nil, reciparse.Errorf(reciparse.EINVALID, "GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return "", nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return name, gemini.NewBackend(client, getenv("GEMINI_MODEL")), nil
	}
	return "", nil, reciparse.Errorf(reciparse.EINVALID, "unknown backend %q (want anthropic or gemini)", name)
}

func newTextExtractor(name string) (reciparse.TextExtractor, error) {
	switch name {
	case "", "text":
		return goquery.NewTextExtractor(), nil
	case "article":
		return trafilatura.NewTextExtractor(), nil
	case "markdown":
		return htmltomarkdown.NewTextExtractor(), nil
	case "readability":
		return readability.NewTextExtractor(), nil
	}
	return nil, reciparse.Errorf(reciparse.EINVALID, "unknown extractor %q", name)
}

// readPrompt loads the system prompt. An explicit path must exist;
// without one, DefaultPromptFile is used when present.
func readPrompt(path string) (string, error) {
	if path == "" {
		data, err := os.ReadFile(DefaultPromptFile)
		if errors.Is(err, iofs.ErrNotExist) {
			return reciparse.DefaultInstructions, nil
		} else if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, iofs.ErrNotExist) {
		return "", reciparse.Errorf(reciparse.ENOTFOUND, "prompt file %q not found", path)
	} else if err != nil {
		return "", err
	}
	return string(data), nil
}
