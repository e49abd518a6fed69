package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/sitezip/sitezip"
	"github.com/sitezip/sitezip/crawl"
	"github.com/sitezip/sitezip/goquery"
	szhttp "github.com/sitezip/sitezip/http"
	"github.com/sitezip/sitezip/markdown"
	"github.com/sitezip/sitezip/rod"
)

func main() {
	ctx := context.Background()

	m := NewMain()
	defer m.Close()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Runner overrides the wired crawl runner. Set before calling Run()
	// for end-to-end testing.
	Runner sitezip.Runner

	fetcher sitezip.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.fetcher != nil {
		return m.fetcher.Close()
	}
	return nil
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
		kong.Name("sitezip"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'sitezip --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	static, concurrency, verbose := commandOptions(cmd, cli)

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelInfo
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if m.Runner == nil {
		fetcher, err := newFetcher(static, verbose, deps.Logger)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or pass --static")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.fetcher = fetcher

		m.Runner = &crawl.Runner{
			Scheduler: &crawl.Scheduler{
				Fetcher:     fetcher,
				Extractor:   goquery.NewExtractor(),
				Concurrency: concurrency,
				Logger:      deps.Logger,
			},
			Renderer: markdown.NewRenderer(),
			Logger:   deps.Logger,
		}
	}
	deps.Runner = m.Runner

	return kongCtx.Run(deps)
}

// commandOptions extracts the flags shared by both subcommands.
func commandOptions(cmd string, cli *CLI) (static bool, concurrency int, verbose bool) {
	switch cmd {
	case "serve":
		return cli.Serve.Static, cli.Serve.Concurrency, cli.Serve.Verbose
	default:
		return cli.Crawl.Static, cli.Crawl.Concurrency, cli.Crawl.Verbose
	}
}

// newFetcher builds the page fetcher: a headless browser by default, a
// plain HTTP client with --static.
func newFetcher(static, verbose bool, logger *slog.Logger) (sitezip.Fetcher, error) {
	var fetcher sitezip.Fetcher
	if static {
		fetcher = szhttp.NewFetcher()
	} else {
		f, err := rod.NewFetcher()
		if err != nil {
			return nil, err
		}
		fetcher = f
	}
	if verbose {
		fetcher = rod.NewLoggingFetcher(fetcher, logger)
	}
	return fetcher, nil
}
