package statbank

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/neighbourhood-cli/internal/model"
)

// CrimeQuery builds the reported-offences request for all areas and offence types.
func (c *Client) CrimeQuery() Query {
	cr := c.ref.Crime
	return Query{
		Table:             cr.Table,
		Format:            formatCSV,
		ValuePresentation: codeAndValue,
		Variables: []Variable{
			{Code: cr.AreaVariable, Values: []string{"*"}},
			{Code: cr.CategoryVariable, Values: []string{"*"}},
			{Code: cr.PeriodVariable, Values: []string{cr.Period}},
		},
	}
}

// FetchCrime returns the reference crime categories for the municipality and for
// the national baseline. Every other category and area is discarded.
func (c *Client) FetchCrime(ctx context.Context, municipality string) (model.CrimeRecords, error) {
	cr := c.ref.Crime
	national := c.ref.National.Label

	table, err := c.Query(ctx, c.CrimeQuery())
	if err != nil {
		return nil, err
	}

	cols, err := table.columns(cr.AreaVariable, cr.CategoryVariable, cr.PeriodVariable, cr.ValueColumn)
	if err != nil {
		return nil, err
	}
	areaCol, catCol, periodCol, valueCol := cols[0], cols[1], cols[2], cols[3]

	var records model.CrimeRecords
	foundArea := false
	for _, row := range table.Rows {
		area := StripAreaCode(cell(row, areaCol))
		if area != municipality && area != national {
			continue
		}
		code, label := splitCode(cell(row, catCol))
		entry, ok := cr.Category(code)
		if !ok {
			continue
		}
		if label == "" {
			label = entry.Label
		}
		n, ok := parseCount(cell(row, valueCol))
		if !ok {
			zap.L().Debug("statbank: non-numeric crime count",
				zap.String("area", area),
				zap.String("category", code),
				zap.String("value", cell(row, valueCol)),
			)
		}
		records = append(records, model.CrimeRecord{
			Area:         area,
			CategoryCode: code,
			Category:     label,
			Period:       cell(row, periodCol),
			Count:        n,
		})
		if area == municipality {
			foundArea = true
		}
	}
	if !foundArea {
		return nil, eris.Wrapf(ErrAreaNotFound, "crime table %s has no rows for %q", cr.Table, municipality)
	}
	return records, nil
}
