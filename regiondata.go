package regions

import (
	"fmt"

	"github.com/paulmach/orb"
	"go.uber.org/zap"
)

// Axis selects one of the two center columns.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// CenterLabel returns the label given to a derived center column.
func CenterLabel(axis Axis, label string) string {
	return fmt.Sprintf("Center [%s] for %s", axis, label)
}

// regionSlot is a write-once cell holding the region column identifier.
type regionSlot struct {
	id  ColumnID
	set bool
}

func (s *regionSlot) get() (ColumnID, bool) {
	return s.id, s.set
}

// vacant fails with ErrDuplicateRegion naming the occupant once set.
func (s *regionSlot) vacant() error {
	if s.set {
		return fmt.Errorf("%w; existing region column: %s", ErrDuplicateRegion, s.id)
	}
	return nil
}

func (s *regionSlot) claim(id ColumnID) error {
	if err := s.vacant(); err != nil {
		return err
	}
	s.id, s.set = id, true
	return nil
}

// RegionData is a column store holding at most one RegionColumn. Links to
// other containers are made on its two center columns, never on the
// geometry itself. A RegionData is not safe for concurrent mutation.
type RegionData struct {
	label   string
	crs     *CRS
	store   *Store
	slot    regionSlot
	links   LinkGraph
	pointOf PointFunc
	logger  *zap.Logger
}

// DataOption configures a RegionData.
type DataOption func(*RegionData)

// WithCRS sets the coordinate system the regions are expressed in.
func WithCRS(crs *CRS) DataOption {
	return func(d *RegionData) { d.crs = crs }
}

// WithLinks sets the link graph used by TransformTo and CanDisplay.
func WithLinks(g LinkGraph) DataOption {
	return func(d *RegionData) { d.links = g }
}

// WithPointFunc replaces RepresentativePoint for center derivation.
func WithPointFunc(f PointFunc) DataOption {
	return func(d *RegionData) { d.pointOf = f }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) DataOption {
	return func(d *RegionData) { d.logger = l }
}

// New creates an empty RegionData.
func New(label string, opts ...DataOption) *RegionData {
	d := &RegionData{
		label:   label,
		store:   NewStore(),
		pointOf: RepresentativePoint,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Add inserts a column and returns its identifier.
//
// Geometries derive two center columns labelled CenterLabel(AxisX, label)
// and CenterLabel(AxisY, label), then become the region column. A
// *RegionColumn is inserted as the region column as is; its center columns
// must already be in d. Any other value becomes an ordinary column.
// Adding a second region column fails with ErrDuplicateRegion and leaves d
// unchanged.
func (d *RegionData) Add(v ColumnValue, label string) (ColumnID, error) {
	switch x := v.(type) {
	case nil:
		return ColumnID{}, fmt.Errorf("%w: nil column", ErrUnsupportedType)
	case Geometries:
		return d.addGeometries(x, label)
	case *RegionColumn:
		if x == nil {
			return ColumnID{}, fmt.Errorf("%w: nil region column", ErrUnsupportedType)
		}
		return d.addRegion(x, label)
	default:
		return d.store.Insert(v, label)
	}
}

func (d *RegionData) addGeometries(geoms Geometries, label string) (ColumnID, error) {
	if err := d.slot.vacant(); err != nil {
		return ColumnID{}, err
	}
	if len(geoms) == 0 {
		return ColumnID{}, fmt.Errorf("%w: empty geometry sequence", ErrNilGeometry)
	}

	dims := -1
	for i, g := range geoms {
		if g == nil {
			return ColumnID{}, fmt.Errorf("%w: row %d", ErrNilGeometry, i)
		}
		switch {
		case dims < 0:
			dims = g.Dimensions()
		case g.Dimensions() != dims:
			return ColumnID{}, fmt.Errorf("%w: row %d has %d, want %d", ErrMixedDimensions, i, g.Dimensions(), dims)
		}
	}
	if err := d.store.checkRows(len(geoms)); err != nil {
		return ColumnID{}, err
	}

	xs := make(Float64s, len(geoms))
	ys := make(Float64s, len(geoms))
	for i, g := range geoms {
		p, err := d.pointOf(g)
		if err != nil {
			return ColumnID{}, fmt.Errorf("regions: representative point of row %d: %w", i, err)
		}
		xs[i], ys[i] = p[0], p[1]
	}

	// Nothing below can fail: the slot is free and every length matches.
	cx, err := d.store.Insert(xs, CenterLabel(AxisX, label))
	if err != nil {
		return ColumnID{}, err
	}
	cy, err := d.store.Insert(ys, CenterLabel(AxisY, label))
	if err != nil {
		return ColumnID{}, err
	}

	region := NewRegionColumn(append([]orb.Geometry(nil), geoms...), cx, cy)
	id, err := d.store.Insert(region, label)
	if err != nil {
		return ColumnID{}, err
	}
	if err := d.slot.claim(id); err != nil {
		return ColumnID{}, err
	}

	d.logger.Debug("derived region column",
		zap.String("data", d.label),
		zap.String("label", label),
		zap.Stringer("id", id),
		zap.Stringer("center_x", cx),
		zap.Stringer("center_y", cy),
		zap.Int("rows", len(geoms)))

	return id, nil
}

func (d *RegionData) addRegion(region *RegionColumn, label string) (ColumnID, error) {
	if err := d.slot.vacant(); err != nil {
		return ColumnID{}, err
	}
	for _, cid := range []ColumnID{region.centerX, region.centerY} {
		col, err := d.store.Get(cid)
		if err != nil {
			return ColumnID{}, fmt.Errorf("%w: %s", ErrMissingCenter, cid)
		}
		if _, ok := numericValues(col.Values); !ok {
			return ColumnID{}, fmt.Errorf("%w: center column %q is %s", ErrInvalidColumn, col.Label, col.Values.Kind())
		}
	}

	id, err := d.store.Insert(region, label)
	if err != nil {
		return ColumnID{}, err
	}
	if err := d.slot.claim(id); err != nil {
		return ColumnID{}, err
	}

	d.logger.Debug("added region column",
		zap.String("data", d.label),
		zap.String("label", label),
		zap.Stringer("id", id))

	return id, nil
}

// Label returns the container label.
func (d *RegionData) Label() string { return d.label }

// CRS returns the coordinate system of the regions, or nil.
func (d *RegionData) CRS() *CRS { return d.crs }

// Links returns the link graph, or nil.
func (d *RegionData) Links() LinkGraph { return d.links }

// SetLinks replaces the link graph.
func (d *RegionData) SetLinks(g LinkGraph) { d.links = g }

// Rows returns the row count.
func (d *RegionData) Rows() int { return d.store.Rows() }

// Columns returns every column in insertion order.
func (d *RegionData) Columns() []*Column { return d.store.Columns() }

// Get returns the column with the given identifier.
func (d *RegionData) Get(id ColumnID) (*Column, error) { return d.store.Get(id) }

// Lookup returns the identifiers of the columns labelled label.
func (d *RegionData) Lookup(label string) []ColumnID { return d.store.Lookup(label) }

// ExtendedID returns the identifier of the region column and whether one
// has been added.
func (d *RegionData) ExtendedID() (ColumnID, bool) {
	return d.slot.get()
}

// RegionColumn returns the region column.
func (d *RegionData) RegionColumn() (*RegionColumn, error) {
	id, ok := d.slot.get()
	if !ok {
		return nil, ErrNoRegionColumn
	}
	col, err := d.store.Get(id)
	if err != nil {
		return nil, err
	}
	return col.Values.(*RegionColumn), nil
}

// CenterXID returns the x center column named by the region column.
func (d *RegionData) CenterXID() (ColumnID, error) {
	return d.centerID(AxisX)
}

// CenterYID returns the y center column named by the region column.
func (d *RegionData) CenterYID() (ColumnID, error) {
	return d.centerID(AxisY)
}

func (d *RegionData) centerID(axis Axis) (ColumnID, error) {
	region, err := d.RegionColumn()
	if err != nil {
		return ColumnID{}, err
	}
	switch axis {
	case AxisX:
		return region.centerX, nil
	case AxisY:
		return region.centerY, nil
	default:
		return ColumnID{}, fmt.Errorf("%w: %q", ErrInvalidAxis, axis)
	}
}

// CenterValues returns the representative coordinates along axis.
func (d *RegionData) CenterValues(axis Axis) ([]float64, error) {
	id, err := d.centerID(axis)
	if err != nil {
		return nil, err
	}
	col, err := d.store.Get(id)
	if err != nil {
		return nil, err
	}
	values, ok := numericValues(col.Values)
	if !ok {
		return nil, fmt.Errorf("%w: center column %q is %s", ErrInvalidColumn, col.Label, col.Values.Kind())
	}
	return values, nil
}

func (d *RegionData) String() string {
	region := "none"
	if id, ok := d.slot.get(); ok {
		region = id.String()
	}
	return fmt.Sprintf("RegionData (label: %s | region: %s)", d.label, region)
}

// numericValues returns a float64 copy of a numeric column.
func numericValues(v ColumnValue) ([]float64, bool) {
	switch c := v.(type) {
	case Float64s:
		return append([]float64(nil), c...), true
	case Int64s:
		out := make([]float64, len(c))
		for i, n := range c {
			out[i] = float64(n)
		}
		return out, true
	default:
		return nil, false
	}
}
