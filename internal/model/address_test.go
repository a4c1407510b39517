package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	t.Parallel()

	addr, err := ParseAddress("Campusvej, 55, 5230, Odense M\n")
	require.NoError(t, err)
	assert.Equal(t, Address{Street: "Campusvej", HouseNumber: "55", PostalCode: "5230", City: "Odense M"}, addr)
	assert.Equal(t, "Campusvej, 55, 5230 Odense M", addr.Query())
	assert.Equal(t, "Campusvej 55", addr.Short())
	assert.Equal(t, "Campusvej 55 5230 Odense M", addr.String())
}

func TestParseAddress_WrongFieldCount(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"Campusvej 55 5230 Odense M",
		"Campusvej, 55, 5230",
		"Campusvej, 55, 5230, Odense, M",
		"Campusvej,55,5230,Odense M",
	}
	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			t.Parallel()
			_, err := ParseAddress(line)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedAddress)
		})
	}
}
