package ontology

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	cacheDir     = ".eskg/cache"
	cacheVersion = "v1"
)

// Loader fetches a vocabulary document.
type Loader interface {
	Load(ctx context.Context, uri string) (io.ReadCloser, error)
}

// HTTPLoader fetches vocabularies over HTTP(S), optionally keeping a copy
// on disk so repeated runs do not refetch.
type HTTPLoader struct {
	HTTPClient *http.Client
	// Accept is sent as the Accept header (default application/rdf+xml)
	Accept string
	// CacheDir enables the response cache when non-empty
	CacheDir string
}

// NewHTTPLoader creates an HTTPLoader with a 30 second timeout and no cache.
func NewHTTPLoader() *HTTPLoader {
	return &HTTPLoader{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// DefaultCacheDir returns the per-user vocabulary cache directory.
func DefaultCacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(home, cacheDir, "vocabulary", cacheVersion), nil
}

// Load fetches uri, serving it from the cache when present.
func (l *HTTPLoader) Load(ctx context.Context, uri string) (io.ReadCloser, error) {
	if data, ok := l.loadFromCache(uri); ok {
		slog.Debug("vocabulary cache hit", "uri", uri)
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	accept := l.Accept
	if accept == "" {
		accept = "application/rdf+xml, application/xml;q=0.9, */*;q=0.5"
	}
	req.Header.Set("Accept", accept)

	client := l.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		slog.Debug("vocabulary request failed", "uri", uri, "error", err, "duration", time.Since(start))
		return nil, fmt.Errorf("fetching %s: %w", uri, err)
	}
	defer resp.Body.Close()

	slog.Debug("vocabulary request complete", "uri", uri, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", uri, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", uri, err)
	}

	if err := l.saveToCache(uri, data); err != nil {
		slog.Warn("failed to cache vocabulary", "uri", uri, "error", err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (l *HTTPLoader) cachePath(uri string) string {
	hash := md5.Sum([]byte(uri))
	return filepath.Join(l.CacheDir, hex.EncodeToString(hash[:]))
}

func (l *HTTPLoader) loadFromCache(uri string) ([]byte, bool) {
	if l.CacheDir == "" {
		return nil, false
	}
	data, err := os.ReadFile(l.cachePath(uri))
	if err != nil {
		return nil, false
	}
	return data, true
}

func (l *HTTPLoader) saveToCache(uri string, data []byte) error {
	if l.CacheDir == "" {
		return nil
	}
	if err := os.MkdirAll(l.CacheDir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir: %w", err)
	}
	return os.WriteFile(l.cachePath(uri), data, 0o644)
}

// FileLoader reads vocabularies from the local filesystem. It accepts
// plain paths and file:// URIs.
type FileLoader struct{}

// Load opens the file named by uri.
func (FileLoader) Load(_ context.Context, uri string) (io.ReadCloser, error) {
	path := uri
	if strings.HasPrefix(uri, "file:") {
		u, err := url.Parse(uri)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", uri, err)
		}
		path = u.Path
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening vocabulary: %w", err)
	}
	return f, nil
}

// SchemeLoader dispatches on the URI scheme: http and https go to HTTP,
// everything else to File.
type SchemeLoader struct {
	HTTP Loader
	File Loader
}

// DefaultLoader returns a SchemeLoader with an uncached HTTP loader.
func DefaultLoader() *SchemeLoader {
	return &SchemeLoader{HTTP: NewHTTPLoader(), File: FileLoader{}}
}

// Load fetches uri with the loader matching its scheme.
func (l *SchemeLoader) Load(ctx context.Context, uri string) (io.ReadCloser, error) {
	lower := strings.ToLower(uri)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return l.HTTP.Load(ctx, uri)
	}
	return l.File.Load(ctx, uri)
}
