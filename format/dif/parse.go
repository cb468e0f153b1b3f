package dif

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/ESIPFed/eskg/format"
	"github.com/ESIPFed/eskg/hub"
	"github.com/ESIPFed/eskg/mapping"
	"github.com/ESIPFed/eskg/value"
)

// Parse reads one DIF document and returns its record.
func (f *Format) Parse(r io.Reader, opts *format.ParseOptions) (*hub.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return Parse(data, opts)
}

// Parse decodes one DIF document. Unknown elements are ignored. Values are
// trimmed and empty values are treated as absent.
//
// It fails with format.MalformedInputError when the document is not
// well-formed XML, has no namespaced DIF root element, or has content
// after the root. It fails with *hub.MissingFieldError naming the first
// missing required field otherwise.
func Parse(data []byte, opts *format.ParseOptions) (*hub.Record, error) {
	rec, err := Decode(data, opts)
	if err != nil {
		return nil, err
	}
	if err := mapping.Validate(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Decode is Parse without the required-field check.
func Decode(data []byte, opts *format.ParseOptions) (*hub.Record, error) {
	if opts == nil {
		opts = format.NewParseOptions()
	}

	rec, ns, err := decodeRoot(data)
	if err != nil {
		return nil, err
	}

	rec.SourceInfo = hub.SourceInfo{
		Format:     "dif",
		Namespace:  ns,
		SourceName: opts.SourceName,
	}

	// Older documents carry the abstract as the Summary element's own text.
	if rec.Summary != nil {
		if strings.TrimSpace(rec.Summary.Abstract) == "" {
			rec.Summary.Abstract = rec.Summary.Text
		}
		rec.Summary.Text = ""
	}

	var textOpts []value.TextOption
	if opts.StripHTML {
		textOpts = append(textOpts, value.WithStripHTML())
	}
	mapping.Normalize(rec, textOpts...)

	if rec.Summary != nil && rec.Summary.Abstract == "" {
		rec.Summary = nil
	}
	rec.SourceInfo.FormatVersion = rec.MetadataVersion
	return rec, nil
}

// decodeRoot walks the document's top-level tokens and decodes the single
// DIF root element.
func decodeRoot(data []byte) (*hub.Record, string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel

	var (
		rec *hub.Record
		ns  string
	)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", format.MalformedInputError.Wrap(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rec != nil {
				return nil, "", format.MalformedInputError.New("unexpected second root element <%s>", t.Name.Local)
			}
			if t.Name.Local != "DIF" {
				return nil, "", format.MalformedInputError.New("root element <%s> is not DIF", t.Name.Local)
			}
			if t.Name.Space == "" {
				return nil, "", format.MalformedInputError.New("root element <DIF> has no namespace")
			}
			rec = &hub.Record{}
			ns = t.Name.Space
			if err := decoder.DecodeElement(rec, &t); err != nil {
				return nil, "", format.MalformedInputError.Wrap(err)
			}
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, "", format.MalformedInputError.New("text outside the root element")
			}
		}
	}

	if rec == nil {
		return nil, "", format.MalformedInputError.New("no root element")
	}
	return rec, ns, nil
}
