package regions

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const citiesJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[0,0],[2,0],[2,2],[0,2],[0,0]]]},
     "properties": {"name": "alpha", "population": 120, "code": "A1"}},
    {"type": "Feature", "geometry": {"type": "Polygon", "coordinates": [[[10,10],[14,10],[14,14],[10,14],[10,10]]]},
     "properties": {"name": "beta", "code": 7, "area": 16.5}}
  ]
}`

func TestFromFeatureCollection(t *testing.T) {
	fc, err := geojson.UnmarshalFeatureCollection([]byte(citiesJSON))
	require.NoError(t, err)

	d, err := FromFeatureCollection(fc, "cities")
	require.NoError(t, err)
	assert.Equal(t, "cities", d.Label())
	assert.Equal(t, 2, d.Rows())

	var labels []string
	for _, c := range d.Columns() {
		labels = append(labels, c.Label)
	}
	want := []string{"code", "name", "population", "area",
		"Center [x] for cities", "Center [y] for cities", "cities"}
	if diff := cmp.Diff(want, labels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, Strings{"A1", "7"}, columnByLabel(t, d, "code"), "mixed kinds fall back to strings")
	assert.Equal(t, Float64s{120, 0}, columnByLabel(t, d, "population"), "missing values are zero")
	assert.Equal(t, Float64s{0, 16.5}, columnByLabel(t, d, "area"))

	xs, err := d.CenterValues(AxisX)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 12}, xs)
}

func TestFromFeatureCollection_ReusesCenters(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	for i, g := range []orb.Geometry{square(0, 0, 1), square(5, 5, 1)} {
		f := geojson.NewFeature(g)
		f.Properties[CenterLabel(AxisX, "zones")] = float64(i * 100)
		f.Properties[CenterLabel(AxisY, "zones")] = float64(-i)
		fc.Append(f)
	}

	d, err := FromFeatureCollection(fc, "zones")
	require.NoError(t, err)
	assert.Len(t, d.Columns(), 3, "no extra center columns derived")

	xs, err := d.CenterValues(AxisX)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 100}, xs)
}

func TestFromFeatureCollection_Errors(t *testing.T) {
	_, err := FromFeatureCollection(nil, "x")
	assert.ErrorIs(t, err, ErrNilGeometry)

	_, err = FromFeatureCollection(geojson.NewFeatureCollection(), "x")
	assert.ErrorIs(t, err, ErrNilGeometry)

	fc := geojson.NewFeatureCollection()
	fc.Append(&geojson.Feature{Type: "Feature", Properties: geojson.Properties{}})
	_, err = FromFeatureCollection(fc, "x")
	assert.ErrorIs(t, err, ErrNilGeometry)

	mixed := geojson.NewFeatureCollection()
	mixed.Append(geojson.NewFeature(orb.Point{0, 0}))
	mixed.Append(geojson.NewFeature(square(0, 0, 1)))
	_, err = FromFeatureCollection(mixed, "x")
	assert.ErrorIs(t, err, ErrMixedDimensions)
}

func TestFeatureCollection(t *testing.T) {
	d := New("cities")
	_, err := d.Add(Strings{"alpha", "beta"}, "name")
	require.NoError(t, err)
	_, err = d.Add(Geometries{square(0, 0, 2), square(10, 10, 4)}, "cities")
	require.NoError(t, err)

	fc, err := d.FeatureCollection()
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	f := fc.Features[1]
	assert.Equal(t, "beta", f.Properties["name"])
	assert.Equal(t, 12.0, f.Properties[CenterLabel(AxisX, "cities")])
	assert.True(t, orb.Equal(square(10, 10, 4), f.Geometry))
	_, hasRegion := f.Properties["cities"]
	assert.False(t, hasRegion, "region column is the geometry, not a property")

	// JSON round trip keeps the centers.
	data, err := json.Marshal(fc)
	require.NoError(t, err)
	back, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)

	again, err := FromFeatureCollection(back, "cities")
	require.NoError(t, err)
	assert.Len(t, again.Columns(), 4)
	xs, err := again.CenterValues(AxisX)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 12}, xs)
}

func TestFeatureCollection_NoRegionColumn(t *testing.T) {
	_, err := New("").FeatureCollection()
	assert.ErrorIs(t, err, ErrNoRegionColumn)
}

func TestFeatureCollection_DuplicateLabel(t *testing.T) {
	d := New("cities")
	_, err := d.Add(Strings{"alpha"}, "name")
	require.NoError(t, err)
	_, err = d.Add(Strings{"ALPHA"}, "name")
	require.NoError(t, err)
	_, err = d.Add(Geometries{square(0, 0, 2)}, "cities")
	require.NoError(t, err)

	_, err = d.FeatureCollection()
	assert.ErrorIs(t, err, ErrDuplicateLabel)

	// the region column may share a label with a property
	same := New("name")
	_, err = same.Add(Strings{"alpha"}, "name")
	require.NoError(t, err)
	_, err = same.Add(Geometries{square(0, 0, 2)}, "name")
	require.NoError(t, err)
	fc, err := same.FeatureCollection()
	require.NoError(t, err)
	assert.Equal(t, "alpha", fc.Features[0].Properties["name"])
}
