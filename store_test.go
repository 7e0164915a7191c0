package regions

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Insert(t *testing.T) {
	s := NewStore()
	assert.Equal(t, 0, s.Rows())

	a, err := s.Insert(Float64s{1, 2, 3}, "a")
	require.NoError(t, err)
	b, err := s.Insert(Strings{"x", "y", "z"}, "a")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "identifiers are never reused")
	assert.False(t, a.IsZero())
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 3, s.Rows())
	assert.Equal(t, []ColumnID{a, b}, s.Lookup("a"), "labels need not be unique")

	_, err = s.Insert(Bools{true}, "short")
	assert.ErrorIs(t, err, ErrLengthMismatch)
	assert.Equal(t, 2, s.Len())

	_, err = s.Insert(nil, "nil")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestStore_Get(t *testing.T) {
	s := NewStore()
	id, err := s.Insert(Int64s{1}, "n")
	require.NoError(t, err)

	col, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "n", col.Label)
	assert.Equal(t, 1, col.Len())
	assert.True(t, s.Has(id))

	missing := newColumnID()
	_, err = s.Get(missing)
	assert.ErrorIs(t, err, ErrColumnNotFound)
	assert.False(t, s.Has(missing))
}

func TestStore_ColumnsIsCopy(t *testing.T) {
	s := NewStore()
	_, err := s.Insert(Int64s{1}, "n")
	require.NoError(t, err)

	cols := s.Columns()
	cols[0] = nil
	assert.NotNil(t, s.Columns()[0])
}

func TestStore_EmptyColumnFixesRows(t *testing.T) {
	s := NewStore()
	_, err := s.Insert(Float64s{}, "empty")
	require.NoError(t, err)

	_, err = s.Insert(Float64s{1}, "one")
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestColumnID_Parse(t *testing.T) {
	id := newColumnID()
	parsed, err := ParseColumnID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseColumnID("not-an-id")
	assert.Error(t, err)
	assert.True(t, ColumnID{}.IsZero())
}

func TestRegionColumn(t *testing.T) {
	cx, cy := newColumnID(), newColumnID()
	geoms := []orb.Geometry{square(0, 0, 1), square(4, 5, 2)}
	region := NewRegionColumn(geoms, cx, cy)

	assert.Equal(t, 2, region.Len())
	assert.Equal(t, cx, region.CenterX())
	assert.Equal(t, cy, region.CenterY())
	assert.Equal(t, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{6, 7}}, region.Bound())
	assert.Equal(t, geoms[1], region.Geometry(1))

	out := region.Geometries()
	out[0] = nil
	assert.NotNil(t, region.Geometry(0))

	col := &Column{Values: region}
	assert.True(t, col.IsRegion())
}
