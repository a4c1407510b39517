// Package statbank queries the Danmarks Statistik data API for education,
// crime and population tables.
package statbank

import (
	"context"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/neighbourhood-cli/internal/fetcher"
	"github.com/sells-group/neighbourhood-cli/internal/reference"
)

const (
	defaultBaseURL = "https://api.statbank.dk/v1"
	formatCSV      = "CSV"
	codeAndValue   = "CodeAndValue"
)

// ErrAreaNotFound is returned when a table has no rows for the requested municipality.
var ErrAreaNotFound = eris.New("statbank: area not found")

// Variable restricts one table variable to a set of value codes ("*" for all).
type Variable struct {
	Code   string   `json:"code"`
	Values []string `json:"values"`
}

// Query is the request body for POST /data.
type Query struct {
	Table             string     `json:"table"`
	Format            string     `json:"format"`
	ValuePresentation string     `json:"valuePresentation,omitempty"`
	Variables         []Variable `json:"variables"`
}

// Table is a parsed semicolon-delimited response.
type Table struct {
	Header []string
	Rows   [][]string
}

// Column returns the index of a header column, compared case-insensitively.
func (t *Table) Column(name string) (int, bool) {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, true
		}
	}
	return -1, false
}

func (t *Table) columns(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		col, ok := t.Column(n)
		if !ok {
			return nil, eris.Errorf("statbank: column %q missing from header %v", n, t.Header)
		}
		idx[i] = col
	}
	return idx, nil
}

// Client talks to the statistics API.
type Client struct {
	fetcher fetcher.Fetcher
	baseURL string
	ref     *reference.Tables
}

// NewClient creates a statistics client. An empty baseURL uses the public API.
func NewClient(f fetcher.Fetcher, baseURL string, ref *reference.Tables) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		fetcher: f,
		baseURL: strings.TrimRight(baseURL, "/"),
		ref:     ref,
	}
}

// Query posts q and parses the delimited response.
func (c *Client) Query(ctx context.Context, q Query) (*Table, error) {
	body, err := c.fetcher.PostJSON(ctx, c.baseURL+"/data", q)
	if err != nil {
		return nil, eris.Wrapf(err, "statbank: query %s", q.Table)
	}
	defer body.Close() //nolint:errcheck

	header, rows, err := fetcher.ReadCSV(ctx, body, fetcher.CSVOptions{
		Delimiter:  ';',
		HasHeader:  true,
		LazyQuotes: true,
	})
	if err != nil {
		return nil, eris.Wrapf(err, "statbank: parse %s", q.Table)
	}

	zap.L().Debug("statbank table fetched",
		zap.String("table", q.Table),
		zap.Int("rows", len(rows)),
	)
	return &Table{Header: header, Rows: rows}, nil
}

// parseCount parses a value cell. Suppressed values ("..") and blanks count as zero.
func parseCount(cell string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
