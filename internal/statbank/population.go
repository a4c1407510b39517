package statbank

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrPopulationNotFound is returned when no population row matches the municipality.
var ErrPopulationNotFound = eris.New("statbank: population not found")

// PopulationQuery builds the population request for the reference areas.
func (c *Client) PopulationQuery() Query {
	p := c.ref.Population
	return Query{
		Table:  p.Table,
		Format: formatCSV,
		Variables: []Variable{
			{Code: p.AreaVariable, Values: p.Areas},
		},
	}
}

// FetchPopulation returns the population of the municipality. Rows are matched
// by exact normalised name and the first match wins.
func (c *Client) FetchPopulation(ctx context.Context, municipality string) (int64, error) {
	p := c.ref.Population
	table, err := c.Query(ctx, c.PopulationQuery())
	if err != nil {
		return 0, err
	}

	areaCol, ok := table.Column(p.AreaVariable)
	if !ok {
		return 0, eris.Errorf("statbank: column %q missing from header %v", p.AreaVariable, table.Header)
	}
	valueCol, ok := table.Column(p.ValueColumn)
	if !ok {
		valueCol = len(table.Header) - 1
	}

	want := NormalizeName(municipality)
	for _, row := range table.Rows {
		if NormalizeName(cell(row, areaCol)) != want {
			continue
		}
		n, ok := parseCount(cell(row, valueCol))
		if !ok || n <= 0 {
			return 0, eris.Errorf("statbank: invalid population %q for %q", cell(row, valueCol), municipality)
		}
		zap.L().Debug("statbank population matched",
			zap.String("municipality", municipality),
			zap.String("label", cell(row, areaCol)),
			zap.Int64("population", n),
		)
		return n, nil
	}
	return 0, eris.Wrapf(ErrPopulationNotFound, "%s has no row for %q", p.Table, municipality)
}
