package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ESIPFed/eskg/acquire"
	"github.com/ESIPFed/eskg/config"
	"github.com/ESIPFed/eskg/pipeline"
)

// readDocuments expands glob patterns (including **) and reads every
// matching file once. With no patterns a single document is read from
// stdin.
func readDocuments(patterns []string) ([]pipeline.Document, error) {
	if len(patterns) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []pipeline.Document{{Source: "stdin", Data: data}}, nil
	}

	var docs []pipeline.Document
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", pattern)
		}
		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true

			info, err := os.Stat(path)
			if err != nil {
				return nil, err
			}
			if info.IsDir() {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading input file: %w", err)
			}
			docs = append(docs, pipeline.Document{Source: path, Data: data})
		}
	}
	return docs, nil
}

func newAcquireClient(cfg *config.Config) *acquire.Client {
	client := acquire.NewClient()
	client.BaseURL = cfg.Acquire.BaseURL
	client.PageSize = cfg.Acquire.PageSize
	client.Concurrency = cfg.Acquire.Concurrency
	return client
}

// fetchDocuments downloads the DIF document of each dataset id, or of
// every dataset the search returns when ids is empty. Datasets that
// cannot be fetched are logged and left out.
func fetchDocuments(ctx context.Context, cfg *config.Config, ids []string) ([]pipeline.Document, error) {
	client := newAcquireClient(cfg)
	if len(ids) == 0 {
		found, err := client.SearchDatasetIDs(ctx)
		if err != nil {
			return nil, err
		}
		ids = found
	}

	fetched := make(map[string][]byte, len(ids))
	err := client.FetchAll(ctx, ids, func(id string, data []byte, err error) error {
		if err != nil {
			slog.Warn("skipping dataset", "dataset_id", id, "error", err)
			return nil
		}
		fetched[id] = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	docs := make([]pipeline.Document, 0, len(fetched))
	for _, id := range ids {
		if data, ok := fetched[id]; ok {
			docs = append(docs, pipeline.Document{Source: id, Data: data})
		}
	}
	return docs, nil
}
