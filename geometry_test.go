package regions

import (
	"testing"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
)

func TestFGBGeometryType(t *testing.T) {
	tests := []struct {
		name     string
		geom     orb.Geometry
		expected flattypes.GeometryType
	}{
		{"Point", orb.Point{1, 2}, flattypes.GeometryTypePoint},
		{"MultiPoint", orb.MultiPoint{{1, 2}, {3, 4}}, flattypes.GeometryTypeMultiPoint},
		{"LineString", orb.LineString{{0, 0}, {1, 1}}, flattypes.GeometryTypeLineString},
		{"MultiLineString", orb.MultiLineString{{{0, 0}, {1, 1}}}, flattypes.GeometryTypeMultiLineString},
		{"Ring", orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}, flattypes.GeometryTypePolygon},
		{"Polygon", orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, flattypes.GeometryTypePolygon},
		{"MultiPolygon", orb.MultiPolygon{{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}}, flattypes.GeometryTypeMultiPolygon},
		{"Collection", orb.Collection{orb.Point{1, 2}}, flattypes.GeometryTypeGeometryCollection},
		{"Bound", orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}, flattypes.GeometryTypePolygon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := fgbGeometryType(tt.geom)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestLayerGeometryType(t *testing.T) {
	tests := []struct {
		name     string
		geoms    []orb.Geometry
		expected flattypes.GeometryType
	}{
		{"uniform", []orb.Geometry{orb.Point{1, 2}, orb.Point{3, 4}}, flattypes.GeometryTypePoint},
		{"ring and polygon", []orb.Geometry{orb.Ring{{0, 0}, {1, 0}, {0, 0}}, orb.Polygon{}}, flattypes.GeometryTypePolygon},
		{"mixed", []orb.Geometry{orb.Point{1, 2}, orb.LineString{{0, 0}, {1, 1}}}, flattypes.GeometryTypeUnknown},
		{"nil skipped", []orb.Geometry{nil, orb.LineString{{0, 0}, {1, 1}}}, flattypes.GeometryTypeLineString},
		{"empty", nil, flattypes.GeometryTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := layerGeometryType(tt.geoms)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestEncodeGeometry(t *testing.T) {
	tests := []struct {
		name string
		geom orb.Geometry
	}{
		{"Point", orb.Point{1.5, 2.5}},
		{"LineString", orb.LineString{{0, 0}, {1, 1}, {2, 2}}},
		{"Polygon with hole", orb.Polygon{
			{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
			{{2, 2}, {8, 2}, {8, 8}, {2, 8}, {2, 2}},
		}},
		{"MultiPolygon", orb.MultiPolygon{
			{{{0, 0}, {5, 0}, {5, 5}, {0, 5}, {0, 0}}},
			{{{10, 10}, {15, 10}, {15, 15}, {10, 15}, {10, 10}}},
		}},
		{"Collection", orb.Collection{orb.Point{1, 2}, orb.LineString{{0, 0}, {1, 1}}}},
		{"Bound", orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := flatbuffers.NewBuilder(256)
			if geom := encodeGeometry(tt.geom, builder); geom == nil {
				t.Fatal("expected non-nil geometry")
			}
		})
	}
}

func TestEncodeGeometry_Nil(t *testing.T) {
	builder := flatbuffers.NewBuilder(256)

	if geom := encodeGeometry(nil, builder); geom != nil {
		t.Error("expected nil geometry for nil input")
	}
}

func TestFlatten(t *testing.T) {
	poly := orb.Polygon{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}, // 5 points
		{{2, 2}, {8, 2}, {8, 8}, {2, 8}, {2, 2}},     // 5 points
	}

	xy, ends := flatten([]orb.Ring(poly))

	if len(xy) != 20 {
		t.Errorf("expected 20 coordinates, got %d", len(xy))
	}
	if len(ends) != 2 {
		t.Fatalf("expected 2 ends, got %d", len(ends))
	}
	if ends[0] != 5 {
		t.Errorf("expected first end to be 5, got %d", ends[0])
	}
	if ends[1] != 10 {
		t.Errorf("expected second end to be 10, got %d", ends[1])
	}
}

func TestAppendXY(t *testing.T) {
	xy := appendXY(nil, orb.LineString{{1, 2}, {3, 4}, {5, 6}})

	expected := []float64{1, 2, 3, 4, 5, 6}
	if len(xy) != len(expected) {
		t.Fatalf("expected %d coordinates, got %d", len(expected), len(xy))
	}
	for i, v := range expected {
		if xy[i] != v {
			t.Errorf("at index %d: expected %f, got %f", i, v, xy[i])
		}
	}
}

func TestBoundToPolygon(t *testing.T) {
	bound := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}
	poly := boundToPolygon(bound)

	if len(poly) != 1 {
		t.Fatalf("expected 1 ring, got %d", len(poly))
	}

	expectedCorners := []orb.Point{
		{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0},
	}
	ring := poly[0]
	if len(ring) != len(expectedCorners) {
		t.Fatalf("expected %d points in ring, got %d", len(expectedCorners), len(ring))
	}
	for i, expected := range expectedCorners {
		if ring[i] != expected {
			t.Errorf("corner %d: expected %v, got %v", i, expected, ring[i])
		}
	}
}

func TestDecodeGeometry_Nil(t *testing.T) {
	if g := decodeGeometry(nil); g != nil {
		t.Errorf("expected nil, got %v", g)
	}
}
