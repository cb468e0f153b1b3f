// Package acquire discovers PO.DAAC datasets and fetches their GCMD DIF
// metadata documents from the PO.DAAC web services.
package acquire

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the PO.DAAC web services root.
const DefaultBaseURL = "https://podaac.jpl.nasa.gov/ws"

// Client talks to the PO.DAAC dataset search and metadata services.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
	// Query is the search expression (default "*:*")
	Query string
	// PageSize is the itemsPerPage requested per search page
	PageSize int
	// Concurrency bounds parallel metadata fetches
	Concurrency int
	// NewBackOff returns the retry policy for one request
	NewBackOff func() backoff.BackOff
}

// NewClient creates a Client with PO.DAAC defaults.
func NewClient() *Client {
	return &Client{
		BaseURL:     DefaultBaseURL,
		HTTPClient:  &http.Client{Timeout: 60 * time.Second},
		UserAgent:   "ESKG PO.DAAC WebService Client",
		Query:       "*:*",
		PageSize:    400,
		Concurrency: 4,
		NewBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = 2 * time.Minute
			return backoff.WithMaxRetries(b, 5)
		},
	}
}

// atomFeed is the part of a search response we read. Elements are matched
// by local name, so the opensearch and podaac prefixes do not matter.
type atomFeed struct {
	TotalResults string      `xml:"totalResults"`
	Entries      []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string `xml:"title"`
	DatasetID string `xml:"datasetId"`
}

// SearchDatasetIDs pages through the dataset search and returns every
// dataset id in result order.
func (c *Client) SearchDatasetIDs(ctx context.Context) ([]string, error) {
	var ids []string
	start := 0
	for {
		feed, err := c.searchPage(ctx, start)
		if err != nil {
			return nil, err
		}
		for _, e := range feed.Entries {
			if id := strings.TrimSpace(e.DatasetID); id != "" {
				ids = append(ids, id)
			}
		}
		total, _ := strconv.Atoi(strings.TrimSpace(feed.TotalResults))
		start += len(feed.Entries)

		slog.Debug("dataset search page", "start", start, "entries", len(feed.Entries), "total", total)
		if len(feed.Entries) == 0 || start >= total {
			break
		}
	}
	slog.Info("dataset search complete", "datasets", len(ids))
	return ids, nil
}

func (c *Client) searchPage(ctx context.Context, start int) (*atomFeed, error) {
	q := url.Values{}
	q.Set("q", c.Query)
	q.Set("format", "atom")
	q.Set("itemsPerPage", strconv.Itoa(c.PageSize))
	q.Set("startIndex", strconv.Itoa(start))

	data, err := c.get(ctx, c.BaseURL+"/search/dataset/?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("dataset search: %w", err)
	}
	var feed atomFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("parsing dataset search response: %w", err)
	}
	return &feed, nil
}

// FetchMetadata returns the GCMD DIF document for one dataset.
func (c *Client) FetchMetadata(ctx context.Context, datasetID string) ([]byte, error) {
	q := url.Values{}
	q.Set("datasetId", datasetID)
	q.Set("format", "gcmd")

	data, err := c.get(ctx, c.BaseURL+"/metadata/dataset/?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetching metadata for %s: %w", datasetID, err)
	}
	return data, nil
}

// FetchAll fetches the metadata for every id, up to Concurrency at a time.
// fn is called once per id, never concurrently, with the document or the
// fetch error. A non-nil error from fn stops the remaining fetches.
func (c *Client) FetchAll(ctx context.Context, ids []string, fn func(id string, data []byte, err error) error) error {
	limit := c.Concurrency
	if limit < 1 {
		limit = 1
	}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, id := range ids {
		g.Go(func() error {
			data, err := c.FetchMetadata(ctx, id)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			mu.Lock()
			defer mu.Unlock()
			return fn(id, data, err)
		})
	}
	return g.Wait()
}

// get performs a GET with retries. Client errors are not retried.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	var b backoff.BackOff = &backoff.StopBackOff{}
	if c.NewBackOff != nil {
		b = c.NewBackOff()
	}

	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		if c.UserAgent != "" {
			req.Header.Set("User-Agent", c.UserAgent)
		}

		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		slog.Debug("request complete", "url", u, "status", resp.StatusCode, "duration", time.Since(start))

		switch {
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}
		body, err = io.ReadAll(resp.Body)
		return err
	}
	notify := func(err error, wait time.Duration) {
		slog.Warn("request failed, retrying", "url", u, "error", err, "wait", wait)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, err
	}
	return body, nil
}
