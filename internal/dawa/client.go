// Package dawa resolves free-text Danish addresses to a municipality and an
// address identifier via the address-normalisation service (DAWA).
package dawa

import (
	"context"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/neighbourhood-cli/internal/fetcher"
	"github.com/sells-group/neighbourhood-cli/internal/model"
)

const defaultBaseURL = "https://api.dataforsyningen.dk"

var (
	// ErrNoCandidates is returned when the service finds no address candidates.
	ErrNoCandidates = eris.New("dawa: no address candidates")
	// ErrNoDetailLink is returned when the first candidate carries no detail link.
	ErrNoDetailLink = eris.New("dawa: candidate has no address link")
)

// washResponse is the JSON response from GET /datavask/adresser.
type washResponse struct {
	Category string `json:"kategori"`
	Results  []struct {
		Address struct {
			ID   string `json:"id"`
			Href string `json:"href"`
		} `json:"adresse"`
	} `json:"resultater"`
}

// addressResponse is the JSON response from the address detail link.
type addressResponse struct {
	ID            string `json:"id"`
	AccessAddress struct {
		ID           string `json:"id"`
		Municipality struct {
			Code string `json:"kode"`
			Name string `json:"navn"`
		} `json:"kommune"`
		AccessPoint struct {
			Coordinates []float64 `json:"koordinater"`
		} `json:"adgangspunkt"`
	} `json:"adgangsadresse"`
}

// Client resolves addresses.
type Client struct {
	fetcher fetcher.Fetcher
	baseURL string
}

// NewClient creates an address resolver. An empty baseURL uses the public service.
func NewClient(f fetcher.Fetcher, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{fetcher: f, baseURL: strings.TrimRight(baseURL, "/")}
}

// Resolve looks the address up, takes the first candidate as authoritative and
// follows its link to the full address record.
func (c *Client) Resolve(ctx context.Context, addr model.Address) (*model.ResolvedLocation, error) {
	params := url.Values{"betegnelse": {addr.Query()}}
	washURL := c.baseURL + "/datavask/adresser?" + params.Encode()

	wash, err := getJSON[washResponse](ctx, c.fetcher, washURL)
	if err != nil {
		return nil, eris.Wrap(err, "dawa: wash address")
	}
	if len(wash.Results) == 0 {
		return nil, eris.Wrapf(ErrNoCandidates, "for %q", addr.Query())
	}

	first := wash.Results[0]
	if first.Address.Href == "" {
		return nil, ErrNoDetailLink
	}
	zap.L().Debug("dawa candidate selected",
		zap.String("category", wash.Category),
		zap.Int("candidates", len(wash.Results)),
		zap.String("href", first.Address.Href),
	)

	detail, err := getJSON[addressResponse](ctx, c.fetcher, first.Address.Href)
	if err != nil {
		return nil, eris.Wrap(err, "dawa: fetch address")
	}

	acc := detail.AccessAddress
	if acc.ID == "" || acc.Municipality.Name == "" {
		return nil, eris.Errorf("dawa: address %s lacks access address or municipality", detail.ID)
	}

	loc := &model.ResolvedLocation{
		Municipality:     acc.Municipality.Name,
		MunicipalityCode: acc.Municipality.Code,
		AddressID:        acc.ID,
	}
	if coords := acc.AccessPoint.Coordinates; len(coords) >= 2 {
		loc.Point = geom.NewPointFlat(geom.XY, coords[:2])
	}
	return loc, nil
}

func getJSON[T any](ctx context.Context, f fetcher.Fetcher, rawURL string) (*T, error) {
	body, err := f.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck
	return fetcher.DecodeJSONObject[T](body)
}
