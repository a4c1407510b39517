package statbank

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/neighbourhood-cli/internal/model"
)

// EducationQuery builds the highest-completed-education request for all areas.
func (c *Client) EducationQuery() Query {
	e := c.ref.Education
	vars := []Variable{
		{Code: e.AreaVariable, Values: []string{"*"}},
		{Code: e.LevelVariable, Values: e.LevelCodes()},
	}
	for _, f := range e.Filters {
		vars = append(vars, Variable{Code: f.Code, Values: f.Values})
	}
	return Query{
		Table:             e.Table,
		Format:            formatCSV,
		ValuePresentation: codeAndValue,
		Variables:         vars,
	}
}

// FetchEducation returns residents per education level for a municipality, in
// reference level order. Levels absent from the response are left out.
func (c *Client) FetchEducation(ctx context.Context, municipality string) (model.EducationDistribution, error) {
	e := c.ref.Education
	table, err := c.Query(ctx, c.EducationQuery())
	if err != nil {
		return nil, err
	}

	cols, err := table.columns(e.AreaVariable, e.LevelVariable, e.ValueColumn)
	if err != nil {
		return nil, err
	}
	areaCol, levelCol, valueCol := cols[0], cols[1], cols[2]

	counts := make(map[string]model.EducationCount)
	matched := false
	for _, row := range table.Rows {
		if StripAreaCode(cell(row, areaCol)) != municipality {
			continue
		}
		matched = true
		code, label := splitCode(cell(row, levelCol))
		n, ok := parseCount(cell(row, valueCol))
		if !ok {
			zap.L().Debug("statbank: non-numeric education count",
				zap.String("municipality", municipality),
				zap.String("level", code),
				zap.String("value", cell(row, valueCol)),
			)
		}
		counts[code] = model.EducationCount{Code: code, Label: label, Count: n}
	}
	if !matched {
		return nil, eris.Wrapf(ErrAreaNotFound, "education table %s has no rows for %q", e.Table, municipality)
	}

	dist := make(model.EducationDistribution, 0, len(e.Levels))
	for _, level := range e.Levels {
		ec, ok := counts[level.Code]
		if !ok {
			continue
		}
		if ec.Label == "" {
			ec.Label = level.Label
		}
		dist = append(dist, ec)
	}
	return dist, nil
}
