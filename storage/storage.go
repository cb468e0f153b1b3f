// Package storage persists a serialized ontology document, either to the
// local filesystem or to a remote ontology repository.
package storage

import (
	"context"
	"fmt"

	"github.com/zeebo/errs"

	"github.com/ESIPFed/eskg/rdf"
)

// Error is the error class for failed writes and uploads.
var Error = errs.Class("storage")

// Configuration keys read from Settings.
const (
	KeyTarget   = "storage-target"
	KeyFilePath = "file-path"
	KeyEndpoint = "remote-endpoint"
)

// Storage targets.
const (
	TargetFile   = "file"
	TargetRemote = "remote"
)

// Settings is the opaque configuration mapping storage reads its keys
// from.
type Settings interface {
	Get(key string) (string, bool)
}

// Client persists one serialized document. Name is the logical document
// name used to build file names.
type Client interface {
	Store(ctx context.Context, name string, doc []byte, format rdf.Format) error
}

// New selects the client named by storage-target. An unset target means
// file.
func New(settings Settings) (Client, error) {
	target, _ := settings.Get(KeyTarget)
	path, _ := settings.Get(KeyFilePath)

	switch target {
	case "", TargetFile:
		return &FileClient{Path: path}, nil
	case TargetRemote:
		endpoint, ok := settings.Get(KeyEndpoint)
		if !ok || endpoint == "" {
			return nil, Error.New("%s is required when %s is %q", KeyEndpoint, KeyTarget, TargetRemote)
		}
		return NewRemoteClient(endpoint, &FileClient{Path: path}), nil
	default:
		return nil, Error.New("unknown %s %q", KeyTarget, target)
	}
}

// MapSettings adapts a plain map to Settings.
type MapSettings map[string]string

// Get returns the value for key.
func (m MapSettings) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func extension(format rdf.Format) (string, error) {
	info, ok := rdf.GetFormatInfo(format)
	if !ok {
		return "", fmt.Errorf("unsupported format: %s", format)
	}
	return info.Extension, nil
}
