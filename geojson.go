package regions

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection converts d to GeoJSON: one feature per row with the
// region geometry and every other column as a property keyed by label.
// Two such columns sharing a label yield ErrDuplicateLabel.
func (d *RegionData) FeatureCollection() (*geojson.FeatureCollection, error) {
	region, err := d.RegionColumn()
	if err != nil {
		return nil, err
	}
	regionID, _ := d.ExtendedID()

	var cols []*Column
	seen := make(map[string]bool)
	for _, col := range d.Columns() {
		if col.ID == regionID {
			continue
		}
		if seen[col.Label] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, col.Label)
		}
		seen[col.Label] = true
		cols = append(cols, col)
	}

	fc := geojson.NewFeatureCollection()
	for i := 0; i < region.Len(); i++ {
		f := geojson.NewFeature(region.geometries[i])
		for _, col := range cols {
			f.Properties[col.Label] = valueAt(col.Values, i)
		}
		fc.Append(f)
	}
	return fc, nil
}

// FromFeatureCollection loads fc into a new RegionData. The geometries become
// the region column labelled label, which is also the container label.
// Properties become plain columns; a property that mixes kinds is kept as
// strings and missing values are zero. Properties named
// CenterLabel(AxisX, label) and CenterLabel(AxisY, label) are reused as the
// region centers instead of deriving new ones.
func FromFeatureCollection(fc *geojson.FeatureCollection, label string, opts ...DataOption) (*RegionData, error) {
	if fc == nil || len(fc.Features) == 0 {
		return nil, ErrNilGeometry
	}

	geoms := make([]orb.Geometry, len(fc.Features))
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			return nil, fmt.Errorf("%w: feature %d", ErrNilGeometry, i)
		}
		geoms[i] = f.Geometry
	}

	names := propertyNames(fc.Features)
	d := New(label, opts...)

	ids := make(map[string]ColumnID, len(names))
	for _, name := range names {
		raw := make([]interface{}, len(fc.Features))
		for i, f := range fc.Features {
			raw[i] = f.Properties[name]
		}

		values, err := Classify(raw)
		if err != nil {
			values = stringColumn(raw)
		}
		if _, ok := values.(Geometries); ok {
			values = stringColumn(raw)
		}

		id, err := d.Add(values, name)
		if err != nil {
			return nil, err
		}
		ids[name] = id
	}

	cx, okX := ids[CenterLabel(AxisX, label)]
	cy, okY := ids[CenterLabel(AxisY, label)]
	var err error
	if okX && okY && centersNumeric(d, cx, cy) {
		_, err = d.Add(NewRegionColumn(geoms, cx, cy), label)
	} else {
		_, err = d.Add(Geometries(geoms), label)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// propertyNames returns the property keys of features in order of first
// appearance; keys new to a feature are sorted.
func propertyNames(features []*geojson.Feature) []string {
	seen := make(map[string]bool)
	var names []string
	for _, f := range features {
		var fresh []string
		for name := range f.Properties {
			if !seen[name] {
				seen[name] = true
				fresh = append(fresh, name)
			}
		}
		sort.Strings(fresh)
		names = append(names, fresh...)
	}
	return names
}

func stringColumn(raw []interface{}) Strings {
	out := make(Strings, len(raw))
	for i, v := range raw {
		out[i] = toString(v)
	}
	return out
}

func centersNumeric(d *RegionData, ids ...ColumnID) bool {
	for _, id := range ids {
		col, err := d.Get(id)
		if err != nil || !isNumeric(col.Values) {
			return false
		}
	}
	return true
}
