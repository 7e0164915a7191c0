package regions

import (
	"github.com/paulmach/orb"
)

// RegionColumn holds one geometry per row plus references to the two columns
// carrying each geometry's representative x and y. The references do not own
// those columns; they live in the same store as the region column.
type RegionColumn struct {
	geometries []orb.Geometry
	centerX    ColumnID
	centerY    ColumnID
}

// NewRegionColumn wraps geometries whose representative coordinates are
// already stored in the columns centerX and centerY.
func NewRegionColumn(geometries []orb.Geometry, centerX, centerY ColumnID) *RegionColumn {
	return &RegionColumn{
		geometries: geometries,
		centerX:    centerX,
		centerY:    centerY,
	}
}

func (c *RegionColumn) Len() int     { return len(c.geometries) }
func (c *RegionColumn) Kind() string { return "region" }
func (c *RegionColumn) columnValue() {}

// CenterX returns the identifier of the x center column.
func (c *RegionColumn) CenterX() ColumnID { return c.centerX }

// CenterY returns the identifier of the y center column.
func (c *RegionColumn) CenterY() ColumnID { return c.centerY }

// Geometry returns the geometry of row i.
func (c *RegionColumn) Geometry(i int) orb.Geometry { return c.geometries[i] }

// Geometries returns a copy of the region geometries.
func (c *RegionColumn) Geometries() []orb.Geometry {
	out := make([]orb.Geometry, len(c.geometries))
	copy(out, c.geometries)
	return out
}

// Bound returns the bound covering every region.
func (c *RegionColumn) Bound() orb.Bound {
	if len(c.geometries) == 0 {
		return orb.Bound{}
	}
	b := c.geometries[0].Bound()
	for _, g := range c.geometries[1:] {
		b = b.Union(g.Bound())
	}
	return b
}
