package storage

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ESIPFed/eskg/rdf"
)

// uploadFormats are the repository's names for each serialization.
var uploadFormats = map[rdf.Format]string{
	rdf.FormatTurtle:   "TURTLE",
	rdf.FormatNTriples: "N-TRIPLE",
	rdf.FormatRDFXML:   "RDF/XML",
}

// RemoteClient uploads documents to an ontology repository after keeping
// a local copy.
type RemoteClient struct {
	Endpoint   string
	HTTPClient *http.Client
	Local      *FileClient
}

// NewRemoteClient creates a RemoteClient with a 60 second timeout.
func NewRemoteClient(endpoint string, local *FileClient) *RemoteClient {
	return &RemoteClient{
		Endpoint:   strings.TrimRight(endpoint, "/"),
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
		Local:      local,
	}
}

// Store writes the local copy, then POSTs doc to {endpoint}/upload. Any
// non-2xx response is an Error.
func (c *RemoteClient) Store(ctx context.Context, name string, doc []byte, format rdf.Format) error {
	if c.Local != nil {
		if err := c.Local.Store(ctx, name, doc, format); err != nil {
			return err
		}
	}

	upload, ok := uploadFormats[format]
	if !ok {
		return Error.New("unsupported format: %s", format)
	}
	info, _ := rdf.GetFormatInfo(format)

	endpoint := c.Endpoint + "/upload?" + url.Values{"format": {upload}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(doc))
	if err != nil {
		return Error.Wrap(err)
	}
	req.Header.Set("Content-Type", info.MIMEType)

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return Error.New("uploading to %s: %v", c.Endpoint, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	slog.Info("ontology uploaded", "endpoint", c.Endpoint, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Error.New("upload to %s: status %d: %s", c.Endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
