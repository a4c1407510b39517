package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"
)

func TestEducationDistribution(t *testing.T) {
	t.Parallel()

	d := EducationDistribution{
		{Code: "H10", Label: "Grundskole", Count: 100},
		{Code: "H20", Label: "Gymnasiale uddannelser", Count: 50},
	}
	n, ok := d.Count("H20")
	assert.True(t, ok)
	assert.Equal(t, int64(50), n)

	_, ok = d.Count("H80")
	assert.False(t, ok)
	assert.Equal(t, int64(150), d.Total())
}

func TestConnectivityOfferingMax(t *testing.T) {
	t.Parallel()

	o := ConnectivityOffering{
		"Fiber": {DownloadMbps: 1000, UploadMbps: 100},
		"DSL":   {DownloadMbps: 50, UploadMbps: 300},
	}
	down, up := o.Max()
	assert.InDelta(t, 1000, down, 0.001)
	assert.InDelta(t, 300, up, 0.001)

	down, up = ConnectivityOffering{}.Max()
	assert.Zero(t, down)
	assert.Zero(t, up)
}

func TestCrimeRecords(t *testing.T) {
	t.Parallel()

	r := CrimeRecords{
		{Area: "Hele landet", Count: 1000},
		{Area: "Odense", Count: 40},
		{Area: "Odense", Count: 2},
	}
	assert.Len(t, r.ForArea("Odense"), 2)
	assert.Equal(t, int64(42), r.ForArea("Odense").Sum())
	assert.Equal(t, int64(1042), r.Sum())
	assert.Empty(t, r.ForArea("Aarhus"))
}

func TestResolvedLocationCoordinates(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ResolvedLocation{}.Coordinates())

	loc := ResolvedLocation{Point: geom.NewPointFlat(geom.XY, []float64{10.43, 55.37})}
	assert.Equal(t, []float64{10.43, 55.37}, loc.Coordinates())
}
