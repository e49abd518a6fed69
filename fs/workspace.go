// Package fs provides per-run temporary storage: an isolated output area
// for documents and assembly of the final archive.
package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the isolated output area of one crawl run. Documents are
// written into its docs directory exactly once each and never mutated;
// the archive is assembled next to them. Cleanup removes everything, so no
// run leaks temporary storage.
type Workspace struct {
	root string
	docs string
}

// NewWorkspace creates an isolated temporary area for one run.
func NewWorkspace(runID string) (*Workspace, error) {
	root, err := os.MkdirTemp("", "sitezip_"+runID+"_")
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}

	docs := filepath.Join(root, "docs")
	if err := os.Mkdir(docs, 0755); err != nil {
		_ = os.RemoveAll(root)
		return nil, fmt.Errorf("creating docs dir: %w", err)
	}

	return &Workspace{root: root, docs: docs}, nil
}

// DocumentPath returns the destination path for a document filename.
func (w *Workspace) DocumentPath(filename string) string {
	return filepath.Join(w.docs, filename)
}

// DocsDir returns the directory holding the run's documents.
func (w *Workspace) DocsDir() string {
	return w.docs
}

// ArchivePath returns the location of the run's archive.
func (w *Workspace) ArchivePath() string {
	return filepath.Join(w.root, "site.zip")
}

// RemoveDocs deletes the documents directory. Called after the archive has
// been assembled; the archive itself stays until Cleanup.
func (w *Workspace) RemoveDocs() error {
	return os.RemoveAll(w.docs)
}

// Cleanup removes the whole workspace, archive included.
// Safe to call multiple times.
func (w *Workspace) Cleanup() error {
	return os.RemoveAll(w.root)
}
