package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ESIPFed/eskg/rdf"
)

// DefaultPathPattern names output files when no path is configured.
const DefaultPathPattern = "{name}_{timestamp}{ext}"

// TimestampLayout formats the {timestamp} placeholder.
const TimestampLayout = "2006.01.02.15.04.05"

// FileClient writes documents to the local filesystem. Path may contain
// the placeholders {name}, {timestamp} and {ext}.
type FileClient struct {
	Path string
	// Now defaults to time.Now
	Now func() time.Time

	lastPath string
}

// Resolve expands the path pattern for one document.
func (c *FileClient) Resolve(name string, format rdf.Format) (string, error) {
	ext, err := extension(format)
	if err != nil {
		return "", Error.Wrap(err)
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	pattern := c.Path
	if pattern == "" {
		pattern = DefaultPathPattern
	}
	r := strings.NewReplacer(
		"{name}", name,
		"{timestamp}", now().Format(TimestampLayout),
		"{ext}", ext,
	)
	return r.Replace(pattern), nil
}

// Store writes doc, creating parent directories as needed.
func (c *FileClient) Store(ctx context.Context, name string, doc []byte, format rdf.Format) error {
	if err := ctx.Err(); err != nil {
		return Error.Wrap(err)
	}
	path, err := c.Resolve(name, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Error.New("creating %s: %v", dir, err)
		}
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return Error.New("writing %s: %v", path, err)
	}

	c.lastPath = path
	slog.Info("ontology written", "path", path, "bytes", len(doc), "format", format)
	return nil
}

// LastPath returns the path of the most recent successful write.
func (c *FileClient) LastPath() string {
	return c.lastPath
}
