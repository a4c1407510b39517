package statbank

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/neighbourhood-cli/internal/fetcher"
)

const educationCSV = "\ufeffBOPOMR;HFUDD;ALDER;KØN;TID;INDHOLD\n" +
	"461 Odense;H10 Grundskole;TOT I alt;TOT I alt;2020;30000\n" +
	"461 Odense;H20 Gymnasiale uddannelser;TOT I alt;TOT I alt;2020;15000\n" +
	"461 Odense;H30 Erhvervsfaglige uddannelser;TOT I alt;TOT I alt;2020;40000\n" +
	"461 Odense;H35 Adgangsgivende uddannelsesforløb;TOT I alt;TOT I alt;2020;500\n" +
	"461 Odense;H40 Korte videregående uddannelser;TOT I alt;TOT I alt;2020;6000\n" +
	"461 Odense;H50 Mellemlange videregående uddannelser;TOT I alt;TOT I alt;2020;20000\n" +
	"461 Odense;H60 Bacheloruddannelser;TOT I alt;TOT I alt;2020;5000\n" +
	"461 Odense;H70 Lange videregående uddannelser;TOT I alt;TOT I alt;2020;14000\n" +
	"461 Odense;H80 Ph.d. og forskeruddannelser;TOT I alt;TOT I alt;2020;1200\n" +
	"751 Aarhus;H10 Grundskole;TOT I alt;TOT I alt;2020;50000\n"

func TestEducationQuery(t *testing.T) {
	c, _ := newTestClient(t, nil)
	q := c.EducationQuery()

	assert.Equal(t, "HFUDD11", q.Table)
	assert.Equal(t, "CSV", q.Format)
	assert.Equal(t, "CodeAndValue", q.ValuePresentation)
	require.Len(t, q.Variables, 5)
	assert.Equal(t, Variable{Code: "BOPOMR", Values: []string{"*"}}, q.Variables[0])
	assert.Equal(t, "HFUDD", q.Variables[1].Code)
	assert.Len(t, q.Variables[1].Values, 9)
	assert.Equal(t, Variable{Code: "TID", Values: []string{"2020"}}, q.Variables[4])
}

func TestFetchEducation(t *testing.T) {
	c, queries := newTestClient(t, map[string]string{"HFUDD11": educationCSV})

	dist, err := c.FetchEducation(context.Background(), "Odense")
	require.NoError(t, err)
	require.Len(t, dist, 9)

	assert.Equal(t, "H10", dist[0].Code)
	assert.Equal(t, "Grundskole", dist[0].Label)
	assert.Equal(t, int64(30000), dist[0].Count)
	assert.Equal(t, "H80", dist[8].Code)
	assert.Equal(t, int64(1200), dist[8].Count)
	assert.Equal(t, int64(131700), dist.Total())

	got := queries.all()
	require.Len(t, got, 1)
	assert.Equal(t, "HFUDD11", got[0].Table)
}

func TestFetchEducation_PartialLevels(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{"HFUDD11": educationCSV})

	dist, err := c.FetchEducation(context.Background(), "Aarhus")
	require.NoError(t, err)
	require.Len(t, dist, 1)
	_, ok := dist.Count("H20")
	assert.False(t, ok)
}

func TestFetchEducation_UnknownMunicipality(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{"HFUDD11": educationCSV})

	_, err := c.FetchEducation(context.Background(), "Vejle")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAreaNotFound)
}

func TestFetchEducation_StatusError(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{})

	_, err := c.FetchEducation(context.Background(), "Odense")
	require.Error(t, err)
	se, ok := fetcher.AsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Contains(t, err.Error(), "statbank: query HFUDD11")
}

func TestFetchEducation_MissingColumn(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{"HFUDD11": "BOPOMR;TID;INDHOLD\n461 Odense;2020;1\n"})

	_, err := c.FetchEducation(context.Background(), "Odense")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "HFUDD" missing`)
}
