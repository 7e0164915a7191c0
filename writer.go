package regions

import (
	"fmt"
	"io"

	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
)

// Write writes d to FlatGeobuf format. Each row becomes a feature: the
// region column supplies the geometry and every other column a property.
// Rows whose geometry cannot be encoded are skipped.
func Write(w io.Writer, d *RegionData, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	region, err := d.RegionColumn()
	if err != nil {
		return err
	}
	if region.Len() == 0 {
		return ErrNilGeometry
	}

	regionID, _ := d.ExtendedID()
	regionCol, err := d.Get(regionID)
	if err != nil {
		return err
	}

	cols, err := propertyColumns(d, region, regionCol.Label)
	if err != nil {
		return err
	}

	builder := flatbuffers.NewBuilder(4096)
	header := writer.NewHeader(builder)
	header.SetGeometryType(layerGeometryType(region.geometries))

	name := opts.Name
	if name == "" {
		name = d.Label()
	}
	if name != "" {
		header.SetName(name)
	}
	if opts.Description != "" {
		header.SetDescription(opts.Description)
	}
	if len(cols) > 0 {
		header.SetColumns(schemaColumns(cols, builder))
	}

	crs := opts.CRS
	if crs == nil {
		crs = d.CRS()
	}
	if crs != nil {
		header.SetCrs(encodeCRS(crs, builder))
	}

	gen := &rowGenerator{
		geometries: region.geometries,
		columns:    cols,
	}

	fgbWriter := writer.NewWriter(header, opts.IncludeIndex, gen, nil)
	if _, err := fgbWriter.Write(w); err != nil {
		return fmt.Errorf("regions: write flatgeobuf: %w", err)
	}
	return nil
}

func encodeCRS(c *CRS, builder *flatbuffers.Builder) *writer.Crs {
	crs := writer.NewCrs(builder).SetOrg("EPSG")
	if c.Code > 0 {
		crs.SetCode(int32(c.Code))
	}
	if c.Name != "" {
		crs.SetName(c.Name)
	}
	// writer.Crs cannot set the wkt field, so WKT goes in the description
	switch {
	case c.Description != "":
		crs.SetDescription(c.Description)
	case c.WKT != "":
		crs.SetDescription(c.WKT)
	}
	return crs
}

// rowGenerator generates one feature per container row.
type rowGenerator struct {
	geometries []orb.Geometry
	columns    []propertyColumn
	row        int
}

func (g *rowGenerator) Generate() *writer.Feature {
	if g.row >= len(g.geometries) {
		return nil
	}

	row := g.row
	g.row++

	builder := flatbuffers.NewBuilder(1024)
	fgbGeom := encodeGeometry(g.geometries[row], builder)
	if fgbGeom == nil {
		return g.Generate()
	}

	feature := writer.NewFeature(builder)
	feature.SetGeometry(fgbGeom)
	if len(g.columns) > 0 {
		feature.SetProperties(encodeRow(g.columns, row))
	}

	return feature
}
