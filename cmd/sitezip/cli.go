package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/sitezip/sitezip"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
	Runner sitezip.Runner
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl CrawlCmd `cmd:"" help:"Crawl a site and write the document archive"`
	Serve ServeCmd `cmd:"" help:"Run the scraping HTTP service"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL         string `arg:"" help:"Seed URL to crawl"`
	Depth       int    `short:"d" default:"1" help:"Link-hop depth bound (0-5)"`
	Out         string `short:"o" default:"site.zip" help:"Destination archive path"`
	Static      bool   `help:"Fetch raw HTML without a rendering browser"`
	Concurrency int    `short:"c" default:"8" help:"Concurrent fetch limit"`
	Verbose     bool   `short:"v" help:"Log every fetch"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr        string `default:":8080" env:"SITEZIP_ADDR" help:"Listen address"`
	Static      bool   `env:"SITEZIP_STATIC" help:"Fetch raw HTML without a rendering browser"`
	Concurrency int    `short:"c" default:"8" env:"SITEZIP_CONCURRENCY" help:"Concurrent fetch limit"`
	Verbose     bool   `short:"v" help:"Log every fetch"`
}
