// Package broadband reads per-address broadband coverage from the coverage feed.
package broadband

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/neighbourhood-cli/internal/fetcher"
	"github.com/sells-group/neighbourhood-cli/internal/model"
)

const (
	defaultBaseURL = "https://tjekditnet.dk/pls/wopdprod/tdn_feed"
	defaultUID     = "736912"

	// maxSlots is how many technology slots of the feed are inspected.
	maxSlots = 3
)

type feedDocument struct {
	Coverages []json.RawMessage `json:"daekninger"`
}

type coverageSlot struct {
	Entries []json.RawMessage `json:"daekning"`
}

type coverageEntry struct {
	Technology string    `json:"teknologi"`
	Download   flexFloat `json:"download_udt_privat_mbits"`
	Upload     flexFloat `json:"upload_udt_privat_mbits"`
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat struct {
	Value float64
	Set   bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return eris.Wrapf(err, "broadband: speed %s", string(b))
	}
	f.Value, f.Set = v, true
	return nil
}

// Client fetches connectivity offerings.
type Client struct {
	fetcher fetcher.Fetcher
	baseURL string
	uid     string
}

// NewClient creates a coverage feed client. Empty arguments use the public feed.
func NewClient(f fetcher.Fetcher, baseURL, uid string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if uid == "" {
		uid = defaultUID
	}
	return &Client{fetcher: f, baseURL: baseURL, uid: uid}
}

// Fetch returns the technologies offered at the address identifier.
func (c *Client) Fetch(ctx context.Context, addressID string) (model.ConnectivityOffering, error) {
	params := url.Values{
		"uid":      {c.uid},
		"adgadrid": {addressID},
		"format":   {"json"},
	}
	body, err := c.fetcher.Get(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return nil, eris.Wrap(err, "broadband: fetch coverage")
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, eris.Wrap(err, "broadband: read coverage")
	}
	return Parse(data)
}

// Parse extracts the offering from a coverage document. The document may be an
// object or a list whose first element is used. Only the first three slots are
// inspected and, per slot, only its first coverage entry. Missing or malformed
// slots are skipped: absence of a technology is data, not an error.
func Parse(data []byte) (model.ConnectivityOffering, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}

	offering := make(model.ConnectivityOffering)
	for i := 0; i < maxSlots && i < len(doc.Coverages); i++ {
		entry, ok := firstEntry(doc.Coverages[i])
		if !ok {
			zap.L().Debug("broadband: skipping coverage slot", zap.Int("slot", i))
			continue
		}
		offering[entry.Technology] = model.Speed{
			DownloadMbps: entry.Download.Value,
			UploadMbps:   entry.Upload.Value,
		}
	}
	return offering, nil
}

func decodeDocument(data []byte) (*feedDocument, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var docs []feedDocument
		if err := json.Unmarshal(trimmed, &docs); err != nil {
			return nil, eris.Wrap(err, "broadband: parse coverage list")
		}
		if len(docs) == 0 {
			return &feedDocument{}, nil
		}
		return &docs[0], nil
	}

	var doc feedDocument
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, eris.Wrap(err, "broadband: parse coverage")
	}
	return &doc, nil
}

func firstEntry(raw json.RawMessage) (*coverageEntry, bool) {
	var slot coverageSlot
	if err := json.Unmarshal(raw, &slot); err != nil || len(slot.Entries) == 0 {
		return nil, false
	}
	var entry coverageEntry
	if err := json.Unmarshal(slot.Entries[0], &entry); err != nil {
		return nil, false
	}
	if entry.Technology == "" || !entry.Download.Set || !entry.Upload.Set {
		return nil, false
	}
	return &entry, true
}
