package statbank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const crimeCSV = "OMRÅDE;OVERTRÆD;TID;INDHOLD\n" +
	"000 Hele landet;TOT Straffelov i alt;2021K3;80000\n" +
	"000 Hele landet;11 Seksualforbrydelser i alt;2021K3;1500\n" +
	"000 Hele landet;12 Voldsforbrydelser i alt;2021K3;3000\n" +
	"000 Hele landet;1328 Tyveri fra bil, båd mv.;2021K3;4000\n" +
	"461 Odense;TOT Straffelov i alt;2021K3;3000\n" +
	"461 Odense;11 Seksualforbrydelser i alt;2021K3;60\n" +
	"461 Odense;12 Voldsforbrydelser i alt;2021K3;130\n" +
	"461 Odense;1390 Hærværk;2021K3;..\n" +
	"461 Odense;1510 Spirituskørsel;2021K3;70\n" +
	"751 Aarhus;11 Seksualforbrydelser i alt;2021K3;90\n"

func TestCrimeQuery(t *testing.T) {
	c, _ := newTestClient(t, nil)
	q := c.CrimeQuery()

	assert.Equal(t, "STRAF11", q.Table)
	assert.Equal(t, []Variable{
		{Code: "OMRÅDE", Values: []string{"*"}},
		{Code: "OVERTRÆD", Values: []string{"*"}},
		{Code: "Tid", Values: []string{"2021K3"}},
	}, q.Variables)
}

func TestFetchCrime(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{"STRAF11": crimeCSV})

	records, err := c.FetchCrime(context.Background(), "Odense")
	require.NoError(t, err)

	national := records.ForArea("Hele landet")
	area := records.ForArea("Odense")
	assert.Len(t, national, 3)
	assert.Len(t, area, 3)
	assert.Empty(t, records.ForArea("Aarhus"))

	assert.Equal(t, int64(8500), national.Sum())
	// The suppressed ".." cell counts as zero.
	assert.Equal(t, int64(190), area.Sum())

	assert.Equal(t, "1328", national[2].CategoryCode)
	assert.Equal(t, "Tyveri fra bil, båd mv.", national[2].Category)
	assert.Equal(t, "2021K3", national[2].Period)
}

func TestFetchCrime_UnknownMunicipality(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{"STRAF11": crimeCSV})

	_, err := c.FetchCrime(context.Background(), "Vejle")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAreaNotFound)
}

func TestFetchCrime_LogsSuppressedCells(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	c, _ := newTestClient(t, map[string]string{"STRAF11": crimeCSV})
	_, err := c.FetchCrime(context.Background(), "Odense")
	require.NoError(t, err)

	entries := logs.FilterMessage("statbank: non-numeric crime count").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "Odense", fields["area"])
	assert.Equal(t, "1390", fields["category"])
	assert.Equal(t, "..", fields["value"])
}
