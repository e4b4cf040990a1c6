// Package crossref fetches the curated mapping from stable player code to
// external id, published as a CSV document.
package crossref

import (
	"bytes"
	"context"
	"encoding/csv"
	stderrors "errors"
	"io"
	"strconv"
	"strings"

	"github.com/agentstation/playermap/internal/transport"
	"github.com/agentstation/playermap/pkg/constants"
	"github.com/agentstation/playermap/pkg/errors"
	"github.com/agentstation/playermap/pkg/logging"
	"github.com/agentstation/playermap/pkg/registry"
	"github.com/agentstation/playermap/pkg/sources"
)

// Default column names of the mapping document.
const (
	DefaultCodeColumn = "code"
	DefaultIDColumn   = "understat"
)

// codeAliases are accepted when the code column is missing.
var codeAliases = []string{"fpl_code"}

// Client implements sources.CrossRefSource over HTTP.
type Client struct {
	url        string
	codeColumn string
	idColumn   string
	transport  *transport.Client
}

var _ sources.CrossRefSource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithColumns overrides the code and id column names.
func WithColumns(code, id string) Option {
	return func(c *Client) {
		if code != "" {
			c.codeColumn = code
		}
		if id != "" {
			c.idColumn = id
		}
	}
}

// WithTransport sets the HTTP transport.
func WithTransport(tc *transport.Client) Option {
	return func(c *Client) {
		if tc != nil {
			c.transport = tc
		}
	}
}

// NewClient creates a cross-reference client for url. An empty url uses
// the public mapping document.
func NewClient(url string, opts ...Option) *Client {
	if url == "" {
		url = constants.DefaultCrossRefURL
	}
	c := &Client{
		url:        url,
		codeColumn: DefaultCodeColumn,
		idColumn:   DefaultIDColumn,
		transport:  transport.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID returns the source identifier.
func (c *Client) ID() sources.ID {
	return sources.CrossRefID
}

// URL returns the endpoint the client reads.
func (c *Client) URL() string {
	return c.url
}

// FetchCrossRef downloads and parses the mapping document.
func (c *Client) FetchCrossRef(ctx context.Context) (*sources.CrossRef, error) {
	body, err := c.transport.Fetch(ctx, c.ID().String(), c.url, "text/csv")
	if err != nil {
		return nil, err
	}
	ref, skipped, err := Parse(bytes.NewReader(body), c.codeColumn, c.idColumn)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info().
		Int("codes", ref.Len()).
		Int("skipped", skipped).
		Msg("Fetched cross-reference mapping")
	return ref, nil
}

// Parse reads a mapping document from r. Header names are matched without
// regard to case or surrounding whitespace. Rows whose code is not an
// integer are skipped and counted.
func Parse(r io.Reader, codeColumn, idColumn string) (*sources.CrossRef, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, 0, errors.NewParseError("csv", string(sources.CrossRefID), "document is empty", nil)
		}
		return nil, 0, errors.WrapParse("csv", string(sources.CrossRefID), err)
	}

	codeIdx := columnIndex(header, append([]string{codeColumn}, codeAliases...)...)
	idIdx := columnIndex(header, idColumn)
	if codeIdx < 0 || idIdx < 0 {
		return nil, 0, errors.NewParseError("csv", string(sources.CrossRefID),
			"header must contain "+codeColumn+" and "+idColumn+" columns", nil)
	}

	ref := sources.NewCrossRef()
	skipped := 0
	for {
		record, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, errors.WrapParse("csv", string(sources.CrossRefID), err)
		}
		if codeIdx >= len(record) {
			skipped++
			continue
		}
		normalized, ok := registry.NormalizeCode(record[codeIdx])
		if !ok {
			skipped++
			continue
		}
		code, err := strconv.ParseInt(normalized, 10, 64)
		if err != nil {
			skipped++
			continue
		}
		id := ""
		if idIdx < len(record) {
			id = normalizeID(record[idIdx])
		}
		ref.Set(code, id)
	}
	return ref, skipped, nil
}

// columnIndex returns the position of the first matching header name.
func columnIndex(header []string, names ...string) int {
	for _, name := range names {
		for i, h := range header {
			h = strings.TrimPrefix(h, "\ufeff")
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}

// normalizeID trims an id and drops the ".0" suffix spreadsheet exports
// add to whole numbers.
func normalizeID(raw string) string {
	id := strings.TrimSpace(raw)
	if whole, ok := strings.CutSuffix(id, ".0"); ok {
		if _, err := strconv.ParseInt(whole, 10, 64); err == nil {
			return whole
		}
	}
	return id
}
