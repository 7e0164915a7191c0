// Package regions provides a tabular container for geometric regions built on
// the orb geometry library.
//
// A RegionData holds ordinary columns plus at most one RegionColumn whose rows
// are orb.Geometry values. Every region carries a representative point stored
// in two plain "center" columns; links between columns are made on those
// centers rather than on the geometry itself. Containers can be loaded from
// and written to GeoJSON and FlatGeobuf.
package regions

import (
	"errors"
)

// Common errors returned by this package.
var (
	ErrDuplicateRegion  = errors.New("regions: duplicate region column")
	ErrNoRegionColumn   = errors.New("regions: no region column")
	ErrInvalidAxis      = errors.New("regions: axis must be x or y")
	ErrColumnNotFound   = errors.New("regions: column not found")
	ErrLengthMismatch   = errors.New("regions: column length does not match row count")
	ErrMissingCenter    = errors.New("regions: center column not in container")
	ErrNilGeometry      = errors.New("regions: nil geometry")
	ErrEmptyGeometry    = errors.New("regions: empty geometry")
	ErrMixedDimensions  = errors.New("regions: geometries have mixed dimensions")
	ErrUnsupportedType  = errors.New("regions: unsupported type")
	ErrInvalidLink      = errors.New("regions: invalid link")
	ErrInvalidData      = errors.New("regions: invalid data")
	ErrNoIndex          = errors.New("regions: file has no spatial index")
	ErrInvalidColumn    = errors.New("regions: invalid column type")
	ErrPropertyMismatch = errors.New("regions: property type mismatch")
	ErrDuplicateLabel   = errors.New("regions: duplicate column label")
)

// CRS represents a coordinate reference system.
type CRS struct {
	Code        int    // EPSG code (e.g., 4326 for WGS84)
	Name        string // CRS name
	Description string // CRS description
	WKT         string // Well-Known Text representation
}

// WGS84 returns the standard WGS84 CRS (EPSG:4326).
func WGS84() *CRS {
	return &CRS{
		Code: 4326,
		Name: "WGS 84",
	}
}
