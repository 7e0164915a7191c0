package regions

import (
	"fmt"
)

// TransformTo returns the function mapping the center column for axis onto
// target, typically a column shown in a viewer. A nil function with a nil
// error means no transform is available: there is no link for target, or the
// link does not involve the center column.
func (d *RegionData) TransformTo(axis Axis, target ColumnID) (TransformFunc, error) {
	if axis != AxisX && axis != AxisY {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAxis, axis)
	}
	center, err := d.centerID(axis)
	if err != nil {
		return nil, err
	}
	if d.links == nil {
		return nil, nil
	}

	link, ok := d.links.Lookup(target)
	if !ok {
		return nil, nil
	}

	var fn TransformFunc
	if containsID(link.FromIDs(), center) {
		fn = link.Forward()
	} else if containsID(link.ToIDs(), center) {
		fn = link.Inverse()
	}
	return fn, nil
}

// CanDisplay reports whether target can stand in for one of the center
// columns, meaning the regions could be drawn where target is shown.
func (d *RegionData) CanDisplay(target ColumnID) (bool, error) {
	cx, err := d.CenterXID()
	if err != nil {
		return false, err
	}
	cy, err := d.CenterYID()
	if err != nil {
		return false, err
	}
	centers := []ColumnID{cx, cy}

	for _, c := range centers {
		if c == target || (d.links != nil && d.links.Equivalent(c, target)) {
			return true, nil
		}
	}
	if d.links == nil {
		return false, nil
	}

	link, ok := d.links.Lookup(target)
	if !ok {
		return false, nil
	}
	for _, c := range centers {
		if linkContains(link, c) {
			return true, nil
		}
	}
	return false, nil
}
