package regions

import (
	"fmt"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// PointFunc returns a point that lies within or on g. It must be pure:
// the same geometry always yields the same point.
type PointFunc func(g orb.Geometry) (orb.Point, error)

// RepresentativePoint is the default PointFunc.
//
// Only the highest-dimension parts of g are considered. Areas use a
// horizontal scanline through the middle of their bound and return the
// middle of the widest interior interval. Lines return the interior vertex
// closest to their centroid, or the closest endpoint when there is none.
// Points return the member closest to their centroid.
func RepresentativePoint(g orb.Geometry) (orb.Point, error) {
	if g == nil {
		return orb.Point{}, ErrNilGeometry
	}

	var parts geometryParts
	if err := parts.add(g); err != nil {
		return orb.Point{}, err
	}

	switch {
	case len(parts.polygons) > 0:
		if p, ok := scanlinePoint(parts.polygons); ok {
			return p, nil
		}
		// zero-area polygons collapse to their boundary
		var lines []orb.LineString
		for _, poly := range parts.polygons {
			for _, r := range poly {
				lines = append(lines, orb.LineString(r))
			}
		}
		return linePoint(lines), nil
	case len(parts.lines) > 0:
		return linePoint(parts.lines), nil
	case len(parts.points) > 0:
		return closestTo(centroidOf(parts.points), parts.points), nil
	default:
		return orb.Point{}, ErrEmptyGeometry
	}
}

// geometryParts sorts the non-empty pieces of a geometry by dimension.
type geometryParts struct {
	points   []orb.Point
	lines    []orb.LineString
	polygons []orb.Polygon
}

func (p *geometryParts) add(g orb.Geometry) error {
	switch v := g.(type) {
	case orb.Point:
		p.points = append(p.points, v)
	case orb.MultiPoint:
		p.points = append(p.points, v...)
	case orb.LineString:
		if len(v) > 0 {
			p.lines = append(p.lines, v)
		}
	case orb.MultiLineString:
		for _, ls := range v {
			if len(ls) > 0 {
				p.lines = append(p.lines, ls)
			}
		}
	case orb.Ring:
		if len(v) > 0 {
			p.polygons = append(p.polygons, orb.Polygon{v})
		}
	case orb.Polygon:
		if len(v) > 0 && len(v[0]) > 0 {
			p.polygons = append(p.polygons, v)
		}
	case orb.MultiPolygon:
		for _, poly := range v {
			if len(poly) > 0 && len(poly[0]) > 0 {
				p.polygons = append(p.polygons, poly)
			}
		}
	case orb.Bound:
		if !v.IsEmpty() {
			p.polygons = append(p.polygons, boundToPolygon(v))
		}
	case orb.Collection:
		for _, child := range v {
			if child == nil {
				continue
			}
			if err := p.add(child); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, g)
	}
	return nil
}

// scanlinePoint returns the middle of the widest interval where a horizontal
// line crosses the interior of one of polys. Each polygon gets its own line,
// placed between vertex heights so no vertex lies on it.
func scanlinePoint(polys []orb.Polygon) (orb.Point, bool) {
	best := -1.0
	var result orb.Point
	for _, poly := range polys {
		y := scanHeight(poly)

		var xs []float64
		for _, r := range poly {
			xs = appendCrossings(xs, r, y)
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			if width := xs[i+1] - xs[i]; width > best {
				best = width
				result = orb.Point{(xs[i] + xs[i+1]) / 2, y}
			}
		}
	}

	return result, best > 0
}

// scanHeight returns the height halfway between the two vertex heights
// nearest the middle of the bound of poly.
func scanHeight(poly orb.Polygon) float64 {
	bound := poly.Bound()
	mid := (bound.Min[1] + bound.Max[1]) / 2
	lo, hi := bound.Min[1], bound.Max[1]
	for _, r := range poly {
		for _, pt := range r {
			y := pt[1]
			if y <= mid && y > lo {
				lo = y
			} else if y > mid && y < hi {
				hi = y
			}
		}
	}
	return (lo + hi) / 2
}

// appendCrossings appends the x coordinates where ring r crosses y.
func appendCrossings(xs []float64, r orb.Ring, y float64) []float64 {
	n := len(r)
	for i := 0; i < n; i++ {
		a, b := r[i], r[(i+1)%n]
		if (a[1] > y) == (b[1] > y) {
			continue
		}
		xs = append(xs, a[0]+(y-a[1])*(b[0]-a[0])/(b[1]-a[1]))
	}
	return xs
}

// linePoint returns the interior vertex closest to the centroid of lines,
// or the closest endpoint if no line has interior vertices.
func linePoint(lines []orb.LineString) orb.Point {
	c := lineCentroid(lines)

	var interior, ends []orb.Point
	for _, ls := range lines {
		if len(ls) > 2 {
			interior = append(interior, ls[1:len(ls)-1]...)
		}
		ends = append(ends, ls[0], ls[len(ls)-1])
	}

	if len(interior) > 0 {
		return closestTo(c, interior)
	}
	return closestTo(c, ends)
}

// lineCentroid weights segment midpoints by length and falls back to the
// vertex mean for zero-length input.
func lineCentroid(lines []orb.LineString) orb.Point {
	var sx, sy, total float64
	var vertices []orb.Point
	for _, ls := range lines {
		vertices = append(vertices, ls...)
		for i := 0; i+1 < len(ls); i++ {
			d := planar.Distance(ls[i], ls[i+1])
			sx += d * (ls[i][0] + ls[i+1][0]) / 2
			sy += d * (ls[i][1] + ls[i+1][1]) / 2
			total += d
		}
	}
	if total == 0 {
		return centroidOf(vertices)
	}
	return orb.Point{sx / total, sy / total}
}

func centroidOf(points []orb.Point) orb.Point {
	c, _ := planar.CentroidArea(orb.MultiPoint(points))
	return c
}

// closestTo returns the first of points nearest to c.
func closestTo(c orb.Point, points []orb.Point) orb.Point {
	best := points[0]
	bestDist := math.Inf(1)
	for _, p := range points {
		if d := planar.DistanceSquared(c, p); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}
