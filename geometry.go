package regions

import (
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
)

// fgbGeometryType returns the FlatGeobuf type a geometry is written as.
func fgbGeometryType(geom orb.Geometry) flattypes.GeometryType {
	switch geom.(type) {
	case orb.Point:
		return flattypes.GeometryTypePoint
	case orb.MultiPoint:
		return flattypes.GeometryTypeMultiPoint
	case orb.LineString:
		return flattypes.GeometryTypeLineString
	case orb.MultiLineString:
		return flattypes.GeometryTypeMultiLineString
	case orb.Ring, orb.Polygon, orb.Bound:
		return flattypes.GeometryTypePolygon
	case orb.MultiPolygon:
		return flattypes.GeometryTypeMultiPolygon
	case orb.Collection:
		return flattypes.GeometryTypeGeometryCollection
	default:
		return flattypes.GeometryTypeUnknown
	}
}

// layerGeometryType is the shared type of geoms, or Unknown when they differ.
func layerGeometryType(geoms []orb.Geometry) flattypes.GeometryType {
	t, seen := flattypes.GeometryTypeUnknown, false
	for _, g := range geoms {
		if g == nil {
			continue
		}
		gt := fgbGeometryType(g)
		if seen && gt != t {
			return flattypes.GeometryTypeUnknown
		}
		t, seen = gt, true
	}
	return t
}

// encodeGeometry builds the FlatGeobuf form of geom, or nil when geom cannot
// be written.
func encodeGeometry(geom orb.Geometry, builder *flatbuffers.Builder) *writer.Geometry {
	if geom == nil {
		return nil
	}

	g := writer.NewGeometry(builder)
	g.SetType(fgbGeometryType(geom))

	switch v := geom.(type) {
	case orb.Point:
		g.SetXY([]float64{v[0], v[1]})
	case orb.MultiPoint:
		g.SetXY(appendXY(nil, v))
	case orb.LineString:
		g.SetXY(appendXY(nil, v))
	case orb.MultiLineString:
		xy, ends := flatten([]orb.LineString(v))
		g.SetXY(xy)
		g.SetEnds(ends)
	case orb.Ring:
		xy, ends := flatten([]orb.Ring{v})
		g.SetXY(xy)
		g.SetEnds(ends)
	case orb.Polygon:
		xy, ends := flatten([]orb.Ring(v))
		g.SetXY(xy)
		g.SetEnds(ends)
	case orb.Bound:
		xy, ends := flatten([]orb.Ring(boundToPolygon(v)))
		g.SetXY(xy)
		g.SetEnds(ends)
	case orb.MultiPolygon:
		parts := make([]writer.Geometry, 0, len(v))
		for _, poly := range v {
			if part := encodeGeometry(poly, builder); part != nil {
				parts = append(parts, *part)
			}
		}
		g.SetParts(parts)
	case orb.Collection:
		parts := make([]writer.Geometry, 0, len(v))
		for _, child := range v {
			if part := encodeGeometry(child, builder); part != nil {
				parts = append(parts, *part)
			}
		}
		g.SetParts(parts)
	default:
		return nil
	}

	return g
}

func appendXY(xy []float64, points []orb.Point) []float64 {
	for _, p := range points {
		xy = append(xy, p[0], p[1])
	}
	return xy
}

// flatten packs parts into one coordinate array plus cumulative end offsets.
func flatten[S ~[]orb.Point](parts []S) ([]float64, []uint32) {
	total := 0
	for _, part := range parts {
		total += len(part)
	}

	xy := make([]float64, 0, total*2)
	ends := make([]uint32, 0, len(parts))
	for _, part := range parts {
		xy = appendXY(xy, part)
		ends = append(ends, uint32(len(xy)/2))
	}
	return xy, ends
}

func boundToPolygon(b orb.Bound) orb.Polygon {
	return orb.Polygon{
		orb.Ring{
			{b.Min[0], b.Min[1]},
			{b.Max[0], b.Min[1]},
			{b.Max[0], b.Max[1]},
			{b.Min[0], b.Max[1]},
			{b.Min[0], b.Min[1]},
		},
	}
}

// decodeGeometry converts a FlatGeobuf geometry to orb, or returns nil for
// unsupported types.
func decodeGeometry(g *flattypes.Geometry) orb.Geometry {
	if g == nil {
		return nil
	}

	switch g.Type() {
	case flattypes.GeometryTypePoint:
		points := readPoints(g)
		if len(points) == 0 {
			return orb.Point{}
		}
		return points[0]
	case flattypes.GeometryTypeMultiPoint:
		return orb.MultiPoint(readPoints(g))
	case flattypes.GeometryTypeLineString:
		return orb.LineString(readPoints(g))
	case flattypes.GeometryTypeMultiLineString:
		return orb.MultiLineString(split[orb.LineString](g))
	case flattypes.GeometryTypePolygon:
		return orb.Polygon(split[orb.Ring](g))
	case flattypes.GeometryTypeMultiPolygon:
		return decodeMultiPolygon(g)
	case flattypes.GeometryTypeGeometryCollection:
		coll := make(orb.Collection, 0, g.PartsLength())
		eachPart(g, func(part *flattypes.Geometry) {
			if child := decodeGeometry(part); child != nil {
				coll = append(coll, child)
			}
		})
		return coll
	default:
		return nil
	}
}

func decodeMultiPolygon(g *flattypes.Geometry) orb.MultiPolygon {
	if g.PartsLength() == 0 {
		// some writers store a single polygon inline
		if poly := orb.Polygon(split[orb.Ring](g)); len(poly) > 0 {
			return orb.MultiPolygon{poly}
		}
		return orb.MultiPolygon{}
	}

	mp := make(orb.MultiPolygon, 0, g.PartsLength())
	eachPart(g, func(part *flattypes.Geometry) {
		if poly := orb.Polygon(split[orb.Ring](part)); len(poly) > 0 {
			mp = append(mp, poly)
		}
	})
	return mp
}

func eachPart(g *flattypes.Geometry, fn func(*flattypes.Geometry)) {
	for i := 0; i < g.PartsLength(); i++ {
		var part flattypes.Geometry
		if g.Parts(&part, i) {
			fn(&part)
		}
	}
}

func readPoints(g *flattypes.Geometry) []orb.Point {
	n := g.XyLength() / 2
	points := make([]orb.Point, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, orb.Point{g.Xy(2 * i), g.Xy(2*i + 1)})
	}
	return points
}

// split cuts the coordinates of g at its end offsets. Without ends the whole
// array is one part.
func split[S ~[]orb.Point](g *flattypes.Geometry) []S {
	points := readPoints(g)
	if len(points) == 0 {
		return nil
	}
	if g.EndsLength() == 0 {
		return []S{S(points)}
	}

	parts := make([]S, 0, g.EndsLength())
	start := 0
	for i := 0; i < g.EndsLength(); i++ {
		end := int(g.Ends(i))
		if end > len(points) {
			end = len(points)
		}
		if end < start {
			break
		}
		parts = append(parts, S(points[start:end:end]))
		start = end
	}
	return parts
}
