package model

import "github.com/twpayne/go-geom"

// ResolvedLocation is the canonical result of resolving an Address.
type ResolvedLocation struct {
	Municipality     string      `json:"municipality"`
	MunicipalityCode string      `json:"municipality_code,omitempty"`
	AddressID        string      `json:"address_id"`
	Point            *geom.Point `json:"-"` // access point, lon/lat (EPSG:4326)
}

// Coordinates returns the access point as [lon, lat], or nil when unknown.
func (l ResolvedLocation) Coordinates() []float64 {
	if l.Point == nil || l.Point.Empty() {
		return nil
	}
	return []float64{l.Point.X(), l.Point.Y()}
}
