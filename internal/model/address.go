// Package model defines the data types shared by the neighbourhood checker.
package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// AddressSeparator splits a one-line address into its four fields.
const AddressSeparator = ", "

// ErrMalformedAddress is returned when an address line does not hold exactly four fields.
var ErrMalformedAddress = eris.New("address must have 4 fields: street, house number, postal code, city")

// Address is a free-text Danish address as typed by the user.
type Address struct {
	Street      string `json:"street"`
	HouseNumber string `json:"house_number"`
	PostalCode  string `json:"postal_code"`
	City        string `json:"city"`
}

// ParseAddress splits a line such as "Campusvej, 55, 5230, Odense M" into an Address.
func ParseAddress(line string) (Address, error) {
	parts := strings.Split(strings.TrimRight(line, "\r\n"), AddressSeparator)
	if len(parts) != 4 {
		return Address{}, eris.Wrapf(ErrMalformedAddress, "got %d fields in %q", len(parts), line)
	}
	return Address{
		Street:      parts[0],
		HouseNumber: parts[1],
		PostalCode:  parts[2],
		City:        parts[3],
	}, nil
}

// Query formats the address the way the address-normalisation service expects it.
func (a Address) Query() string {
	return a.Street + ", " + a.HouseNumber + ", " + a.PostalCode + " " + a.City
}

// Short is the street and house number, used in table titles.
func (a Address) Short() string {
	return a.Street + " " + a.HouseNumber
}

// String returns all four fields separated by spaces.
func (a Address) String() string {
	return strings.Join([]string{a.Street, a.HouseNumber, a.PostalCode, a.City}, " ")
}
