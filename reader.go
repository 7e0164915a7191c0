package regions

import (
	"fmt"
	"strings"

	flatgeobuf "github.com/flatgeobuf/flatgeobuf/src/go"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/paulmach/orb"
)

// DefaultRegionLabel labels the region column of loaded data that does not
// name one.
const DefaultRegionLabel = "geometry"

// Reader provides read access to a FlatGeobuf file.
type Reader struct {
	fgb *flatgeobuf.FlatGeoBuf
}

// NewReader creates a reader from a file path.
// The file is memory-mapped for efficient access.
func NewReader(path string) (*Reader, error) {
	fgb, err := flatgeobuf.New(path)
	if err != nil {
		return nil, err
	}

	return &Reader{fgb: fgb}, nil
}

// NewReaderFromData creates a reader from byte data.
func NewReaderFromData(data []byte) (*Reader, error) {
	fgb, err := flatgeobuf.NewWithData(data)
	if err != nil {
		return nil, err
	}

	return &Reader{fgb: fgb}, nil
}

// Read decodes FlatGeobuf data into a RegionData.
func Read(data []byte, opts ...DataOption) (*RegionData, error) {
	r, err := NewReaderFromData(data)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return r.RegionData(opts...)
}

// Header returns metadata about the FlatGeobuf file.
func (r *Reader) Header() *Header {
	h := r.fgb.Header()
	if h == nil {
		return nil
	}

	header := &Header{
		Name:          string(h.Name()),
		Description:   string(h.Description()),
		GeometryType:  flattypes.EnumNamesGeometryType[h.GeometryType()],
		FeaturesCount: h.FeaturesCount(),
		HasIndex:      h.IndexNodeSize() > 0,
		CRS:           headerCRS(h),
	}

	if h.EnvelopeLength() >= 4 {
		header.Envelope = [4]float64{h.Envelope(0), h.Envelope(1), h.Envelope(2), h.Envelope(3)}
	}

	names := make([]string, 0, h.ColumnsLength())
	for i := 0; i < h.ColumnsLength(); i++ {
		var col flattypes.Column
		if h.Columns(&col, i) {
			header.Columns = append(header.Columns, ColumnInfo{
				Name:        string(col.Name()),
				Type:        flattypes.EnumNamesColumnType[col.Type()],
				Title:       string(col.Title()),
				Description: string(col.Description()),
				Nullable:    col.Nullable(),
			})
			names = append(names, string(col.Name()))
		}
	}
	header.RegionLabel, _, _ = findCenters(names)

	return header
}

// RegionData reads every feature into a new RegionData labelled with the
// layer name. Canonical center columns written by Write are reused as the
// region centers; otherwise centers are derived from the geometry.
// Files written without a spatial index yield ErrNoIndex.
func (r *Reader) RegionData(opts ...DataOption) (*RegionData, error) {
	h := r.fgb.Header()
	// features are only reachable through the index
	if h.IndexNodeSize() == 0 {
		return nil, ErrNoIndex
	}
	if h.FeaturesCount() == 0 {
		return r.newRegionData(h, opts), nil
	}
	if h.EnvelopeLength() < 4 {
		return nil, fmt.Errorf("%w: indexed file without envelope", ErrInvalidData)
	}

	features, err := r.fgb.Search(h.Envelope(0), h.Envelope(1), h.Envelope(2), h.Envelope(3))
	if err != nil {
		return nil, err
	}
	return r.build(h, features, opts)
}

// Search reads the features whose bounding boxes intersect bounds into a
// new RegionData.
func (r *Reader) Search(bounds orb.Bound, opts ...DataOption) (*RegionData, error) {
	h := r.fgb.Header()
	if h.IndexNodeSize() == 0 {
		return nil, ErrNoIndex
	}

	features, err := r.fgb.Search(bounds.Min[0], bounds.Min[1], bounds.Max[0], bounds.Max[1])
	if err != nil {
		return nil, err
	}
	return r.build(h, features, opts)
}

// Close drops the reader's reference to the file contents. The reader
// must not be used afterwards.
func (r *Reader) Close() error {
	r.fgb = nil
	return nil
}

func (r *Reader) newRegionData(h *flattypes.Header, opts []DataOption) *RegionData {
	all := make([]DataOption, 0, len(opts)+1)
	if crs := headerCRS(h); crs != nil {
		all = append(all, WithCRS(crs))
	}
	all = append(all, opts...)
	return New(string(h.Name()), all...)
}

func (r *Reader) build(h *flattypes.Header, features []*flattypes.Feature, opts []DataOption) (*RegionData, error) {
	builders, err := newColumnBuilders(h)
	if err != nil {
		return nil, err
	}

	geoms := make([]orb.Geometry, 0, len(features))
	for _, f := range features {
		if f == nil {
			continue
		}
		var geomObj flattypes.Geometry
		geom := decodeGeometry(f.Geometry(&geomObj))
		if geom == nil {
			continue
		}

		row := len(geoms)
		geoms = append(geoms, geom)

		if n := f.PropertiesLength(); n > 0 && len(builders) > 0 {
			props := make([]byte, n)
			for i := 0; i < n; i++ {
				props[i] = byte(f.Properties(i))
			}
			if err := decodeRow(props, builders, row); err != nil {
				return nil, err
			}
		}
	}

	d := r.newRegionData(h, opts)
	if len(geoms) == 0 {
		return d, nil
	}

	names := make([]string, len(builders))
	for i, b := range builders {
		names[i] = b.name
	}
	label, cx, cy := findCenters(names)
	if cx >= 0 && (!isNumeric(builders[cx].values) || !isNumeric(builders[cy].values)) {
		cx, cy = -1, -1
	}
	if label == "" {
		label = DefaultRegionLabel
	}

	ids := make([]ColumnID, len(builders))
	for i, b := range builders {
		b.pad(len(geoms))
		if ids[i], err = d.Add(b.values, b.name); err != nil {
			return nil, err
		}
	}

	if cx >= 0 && cy >= 0 {
		_, err = d.Add(NewRegionColumn(geoms, ids[cx], ids[cy]), label)
	} else {
		_, err = d.Add(Geometries(geoms), label)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// findCenters returns the region label named by the first pair of canonical
// center columns in names and their indices, or "", -1, -1.
func findCenters(names []string) (string, int, int) {
	prefix := CenterLabel(AxisX, "")
	for i, name := range names {
		label, ok := strings.CutPrefix(name, prefix)
		if !ok || label == "" {
			continue
		}
		for j, other := range names {
			if other == CenterLabel(AxisY, label) {
				return label, i, j
			}
		}
	}
	return "", -1, -1
}

func isNumeric(v ColumnValue) bool {
	_, ok := numericValues(v)
	return ok
}

func headerCRS(h *flattypes.Header) *CRS {
	var crs flattypes.Crs
	if h.Crs(&crs) == nil {
		return nil
	}
	return &CRS{
		Code:        int(crs.Code()),
		Name:        string(crs.Name()),
		Description: string(crs.Description()),
		WKT:         string(crs.Wkt()),
	}
}
