package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sitezip/sitezip"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	req := &sitezip.CrawlRequest{SeedURL: c.URL, Depth: c.Depth}

	outcome, err := deps.Runner.Run(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitezip.ErrorMessage(err))
		return err
	}
	defer outcome.Close()

	if err := copyFile(outcome.ArchivePath, c.Out); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d documents to %s\n", outcome.DocumentCount, c.Out)
	return nil
}

// copyFile copies the run archive out of its temporary workspace before
// the workspace is cleaned up.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return out.Close()
}
