package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"

	"github.com/sells-group/neighbourhood-cli/internal/model"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatCSV   outputFormat = "csv"
	formatJSON  outputFormat = "json"
)

func parseFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(s)); f {
	case formatTable, formatCSV, formatJSON:
		return f, nil
	default:
		return "", eris.Errorf("--format must be table, csv or json (got %q)", s)
	}
}

// formatScore prints whole numbers with one decimal and everything else as short as possible.
func formatScore(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var csvHeader = []string{"check_id", "address", "municipality", "address_id", "connectivity", "crime", "education", "final"}

func csvRow(r *model.Report) []string {
	return []string{
		r.CheckID,
		r.Address.String(),
		r.Location.Municipality,
		r.Location.AddressID,
		strconv.Itoa(r.Scores.Connectivity),
		formatScore(r.Scores.Crime),
		formatScore(r.Scores.Education),
		formatScore(r.Final),
	}
}

func renderReport(w io.Writer, r *model.Report, f outputFormat) error {
	switch f {
	case formatJSON:
		return writeJSON(w, r)
	case formatCSV:
		return writeCSV(w, csvHeader, [][]string{csvRow(r)})
	}

	title := fmt.Sprintf("Total score for %s: %s", r.Address.Short(), formatScore(r.Final))
	return writeTable(w, title,
		[]string{" ", r.Address.String()},
		[][]string{
			{"WiFi score", strconv.Itoa(r.Scores.Connectivity)},
			{"Area Safety", formatScore(r.Scores.Crime)},
			{"Education score", formatScore(r.Scores.Education)},
		},
	)
}

func renderComparison(w io.Writer, c *model.Comparison, f outputFormat) error {
	switch f {
	case formatJSON:
		return writeJSON(w, c)
	case formatCSV:
		header := append(append([]string{}, csvHeader...), "best")
		rows := make([][]string, 0, 2)
		for _, r := range []*model.Report{&c.First, &c.Second} {
			best := strconv.FormatBool(r.CheckID == c.Best.CheckID)
			rows = append(rows, append(csvRow(r), best))
		}
		return writeCSV(w, header, rows)
	}

	a, b := c.First, c.Second
	title := fmt.Sprintf("Best total score: %s, %s", c.Best.Address.Short(), formatScore(c.Best.Final))
	return writeTable(w, title,
		[]string{" ", a.Address.Short(), b.Address.Short()},
		[][]string{
			{"Total score", formatScore(a.Final), formatScore(b.Final)},
			{"WiFi Score", strconv.Itoa(a.Scores.Connectivity), strconv.Itoa(b.Scores.Connectivity)},
			{"Safety Score", formatScore(a.Scores.Crime), formatScore(b.Scores.Crime)},
			{"Education Score", formatScore(a.Scores.Education), formatScore(b.Scores.Education)},
		},
	)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "render: write JSON")
	}
	return nil
}

func writeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "render: write CSV header")
	}
	if err := cw.WriteAll(rows); err != nil {
		return eris.Wrap(err, "render: write CSV rows")
	}
	return nil
}

// writeTable prints a bordered table with a title row above the header.
func writeTable(w io.Writer, title string, header []string, rows [][]string) error {
	widths := make([]int, len(header))
	for _, row := range append([][]string{header}, rows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	inner := len(widths) - 1
	for _, wd := range widths {
		inner += wd + 2
	}
	if need := utf8.RuneCountInString(title) + 2; need > inner {
		widths[len(widths)-1] += need - inner
		inner = need
	}

	border := func() string {
		parts := make([]string, len(widths))
		for i, wd := range widths {
			parts[i] = strings.Repeat("-", wd+2)
		}
		return "+" + strings.Join(parts, "+") + "+\n"
	}
	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = fmt.Sprintf(" %-*s ", widths[i], cell)
		}
		return "|" + strings.Join(parts, "|") + "|\n"
	}

	var b strings.Builder
	b.WriteString("+" + strings.Repeat("-", inner) + "+\n")
	fmt.Fprintf(&b, "| %-*s |\n", inner-2, title)
	b.WriteString(border())
	b.WriteString(line(header))
	b.WriteString(border())
	for _, row := range rows {
		b.WriteString(line(row))
	}
	b.WriteString(border())

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "render: write table")
	}
	return nil
}
