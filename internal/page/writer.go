package page

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	derrors "git.home.luguber.info/inful/apidocgen/internal/errors"
	"git.home.luguber.info/inful/apidocgen/internal/logfields"
)

// WriteOutcome tells callers whether a page write touched the disk.
type WriteOutcome string

const (
	// OutcomeWritten means the page file was created or rewritten.
	OutcomeWritten WriteOutcome = "written"
	// OutcomeUnchanged means the on-disk page already matched.
	OutcomeUnchanged WriteOutcome = "unchanged"
)

// Writer places pages into the content directory.
type Writer struct {
	dir string
	ext string
}

// NewWriter returns a writer rooted at dir using ext for page filenames.
func NewWriter(dir, ext string) *Writer {
	return &Writer{dir: dir, ext: ext}
}

// Path returns the file path a module's page is written to.
func (w *Writer) Path(moduleName string) string {
	return filepath.Join(w.dir, moduleName+w.ext)
}

// Write persists a page, reusing the uid of any earlier generation and
// skipping the write entirely when the fingerprint is unchanged.
func (w *Writer) Write(p Page) (WriteOutcome, error) {
	path := w.Path(p.Module)

	prior, found, err := readExisting(path)
	if err != nil {
		return "", err
	}
	if found && prior.fingerprint == p.Fingerprint {
		slog.Debug("page unchanged", logfields.Page(p.Module), logfields.Path(path))
		return OutcomeUnchanged, nil
	}

	ensureUID(&p, prior, found)

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", derrors.WrapFileSystemError(err, "failed to create content directory")
	}
	if err := os.WriteFile(path, []byte(p.Render()), 0o644); err != nil {
		return "", derrors.WrapFileSystemError(err, "failed to write page")
	}

	slog.Debug("page written", logfields.Page(p.Module), logfields.Path(path))
	return OutcomeWritten, nil
}

// List returns the module names of all pages currently in the content
// directory, sorted by filename.
func (w *Writer) List() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, derrors.WrapFileSystemError(err, "failed to list content directory")
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), w.ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), w.ext))
	}
	return names, nil
}

// RemoveStale deletes pages whose module no longer exists. keep holds the
// module names of the current generation. Returns the removed module names.
func (w *Writer) RemoveStale(keep map[string]struct{}) ([]string, error) {
	current, err := w.List()
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, name := range current {
		if _, ok := keep[name]; ok {
			continue
		}
		path := w.Path(name)
		if err := os.Remove(path); err != nil {
			return removed, derrors.WrapFileSystemError(err, "failed to remove stale page")
		}
		slog.Info("removed stale page", logfields.Page(name), logfields.Path(path))
		removed = append(removed, name)
	}
	return removed, nil
}
