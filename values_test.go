package regions

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	region := NewRegionColumn([]orb.Geometry{orb.Point{0, 0}}, newColumnID(), newColumnID())

	tests := []struct {
		name  string
		input interface{}
		want  ColumnValue
	}{
		{"float64 slice", []float64{1.5, 2}, Float64s{1.5, 2}},
		{"float32 slice", []float32{1.5}, Float64s{1.5}},
		{"int slice", []int{1, 2}, Int64s{1, 2}},
		{"int32 slice", []int32{3}, Int64s{3}},
		{"int64 slice", []int64{4}, Int64s{4}},
		{"string slice", []string{"a"}, Strings{"a"}},
		{"bool slice", []bool{true, false}, Bools{true, false}},
		{"geometry slice", []orb.Geometry{orb.Point{1, 2}}, Geometries{orb.Point{1, 2}}},
		{"column value", Strings{"x"}, Strings{"x"}},
		{"region column", region, region},
		{"untyped ints", []interface{}{1, int64(2), nil}, Int64s{1, 2, 0}},
		{"untyped mixed numbers", []interface{}{1, 2.5}, Float64s{1, 2.5}},
		{"json numbers", []interface{}{json.Number("3"), json.Number("4.5")}, Float64s{3, 4.5}},
		{"untyped strings", []interface{}{"a", nil, "c"}, Strings{"a", "", "c"}},
		{"untyped bools", []interface{}{nil, true}, Bools{false, true}},
		{"untyped geometry", []interface{}{orb.Point{1, 1}, orb.LineString{{0, 0}, {1, 1}}},
			Geometries{orb.Point{1, 1}, orb.LineString{{0, 0}, {1, 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(RegionColumn{}, ColumnID{})); diff != "" {
				t.Errorf("Classify() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  error
	}{
		{"nil", nil, ErrUnsupportedType},
		{"unknown slice", []complex128{1}, ErrUnsupportedType},
		{"scalar", 3, ErrUnsupportedType},
		{"all nil", []interface{}{nil, nil}, ErrUnsupportedType},
		{"mixed kinds", []interface{}{"a", 1}, ErrPropertyMismatch},
		{"geometry with nil", []interface{}{orb.Point{0, 0}, nil}, ErrNilGeometry},
		{"unknown element", []interface{}{struct{}{}}, ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestColumnValue_Kind(t *testing.T) {
	assert.Equal(t, "float64", Float64s{}.Kind())
	assert.Equal(t, "int64", Int64s{}.Kind())
	assert.Equal(t, "string", Strings{}.Kind())
	assert.Equal(t, "bool", Bools{}.Kind())
	assert.Equal(t, "geometry", Geometries{}.Kind())
	assert.Equal(t, "region", (&RegionColumn{}).Kind())
}

func TestValueAt(t *testing.T) {
	assert.Equal(t, 2.5, valueAt(Float64s{1, 2.5}, 1))
	assert.Equal(t, int64(7), valueAt(Int64s{7}, 0))
	assert.Equal(t, "b", valueAt(Strings{"a", "b"}, 1))
	assert.Equal(t, true, valueAt(Bools{true}, 0))

	region := NewRegionColumn([]orb.Geometry{orb.Point{3, 4}}, newColumnID(), newColumnID())
	assert.Equal(t, orb.Point{3, 4}, valueAt(region, 0))
}
