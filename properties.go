package regions

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
)

// propertyColumn is a plain column written as a FlatGeobuf property.
type propertyColumn struct {
	name   string
	typ    flattypes.ColumnType
	values ColumnValue
}

// propertyColumns lists every column of d except the region column. Center
// columns are written under their canonical CenterLabel names so a reader
// can recover them.
func propertyColumns(d *RegionData, region *RegionColumn, regionLabel string) ([]propertyColumn, error) {
	regionID, _ := d.ExtendedID()

	var cols []propertyColumn
	for _, col := range d.Columns() {
		if col.ID == regionID {
			continue
		}

		typ, err := columnType(col.Values)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Label, err)
		}

		name := col.Label
		switch col.ID {
		case region.CenterX():
			name = CenterLabel(AxisX, regionLabel)
		case region.CenterY():
			name = CenterLabel(AxisY, regionLabel)
		}

		cols = append(cols, propertyColumn{name: name, typ: typ, values: col.Values})
	}
	return cols, nil
}

// columnType maps a plain column kind to its FlatGeobuf column type.
func columnType(v ColumnValue) (flattypes.ColumnType, error) {
	switch v.(type) {
	case Float64s:
		return flattypes.ColumnTypeDouble, nil
	case Int64s:
		return flattypes.ColumnTypeLong, nil
	case Strings:
		return flattypes.ColumnTypeString, nil
	case Bools:
		return flattypes.ColumnTypeBool, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidColumn, v.Kind())
	}
}

// schemaColumns builds the header column schema.
func schemaColumns(cols []propertyColumn, builder *flatbuffers.Builder) []*writer.Column {
	out := make([]*writer.Column, 0, len(cols))
	for _, c := range cols {
		col := writer.NewColumn(builder)
		col.SetName(c.name)
		col.SetTitle(c.name)
		col.SetType(c.typ)
		col.SetNullable(true)
		out = append(out, col)
	}
	return out
}

// encodeRow encodes row of every column as [2-byte column index][value]...
func encodeRow(cols []propertyColumn, row int) []byte {
	var buf []byte
	for i, c := range cols {
		buf = binary.LittleEndian.AppendUint16(buf, uint16(i))
		switch v := c.values.(type) {
		case Float64s:
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v[row]))
		case Int64s:
			buf = binary.LittleEndian.AppendUint64(buf, uint64(v[row]))
		case Strings:
			// strings are length-prefixed
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(v[row])))
			buf = append(buf, v[row]...)
		case Bools:
			if v[row] {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		}
	}
	return buf
}

// columnBuilder accumulates decoded property values into a typed column.
type columnBuilder struct {
	name   string
	typ    flattypes.ColumnType
	values ColumnValue
}

// newColumnBuilders prepares one builder per header column.
func newColumnBuilders(h *flattypes.Header) ([]*columnBuilder, error) {
	builders := make([]*columnBuilder, 0, h.ColumnsLength())
	for i := 0; i < h.ColumnsLength(); i++ {
		var col flattypes.Column
		if !h.Columns(&col, i) {
			return nil, fmt.Errorf("%w: column %d", ErrInvalidData, i)
		}

		b := &columnBuilder{name: string(col.Name()), typ: col.Type()}
		switch col.Type() {
		case flattypes.ColumnTypeBool:
			b.values = Bools{}
		case flattypes.ColumnTypeByte, flattypes.ColumnTypeUByte,
			flattypes.ColumnTypeShort, flattypes.ColumnTypeUShort,
			flattypes.ColumnTypeInt, flattypes.ColumnTypeUInt,
			flattypes.ColumnTypeLong, flattypes.ColumnTypeULong:
			b.values = Int64s{}
		case flattypes.ColumnTypeFloat, flattypes.ColumnTypeDouble:
			b.values = Float64s{}
		case flattypes.ColumnTypeString, flattypes.ColumnTypeJson, flattypes.ColumnTypeDateTime:
			b.values = Strings{}
		default:
			return nil, fmt.Errorf("%w: %q has type %s", ErrInvalidColumn, b.name, flattypes.EnumNamesColumnType[col.Type()])
		}
		builders = append(builders, b)
	}
	return builders, nil
}

// pad extends the column with zero values to n rows.
func (b *columnBuilder) pad(n int) {
	switch v := b.values.(type) {
	case Bools:
		for len(v) < n {
			v = append(v, false)
		}
		b.values = v
	case Int64s:
		for len(v) < n {
			v = append(v, 0)
		}
		b.values = v
	case Float64s:
		for len(v) < n {
			v = append(v, 0)
		}
		b.values = v
	case Strings:
		for len(v) < n {
			v = append(v, "")
		}
		b.values = v
	}
}

// set stores value at row. Missing rows before it are zero-filled.
func (b *columnBuilder) set(row int, value interface{}) error {
	b.pad(row + 1)
	switch v := b.values.(type) {
	case Bools:
		x, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: %q row %d", ErrPropertyMismatch, b.name, row)
		}
		v[row] = x
	case Int64s:
		x, ok := toInt64(value)
		if !ok {
			return fmt.Errorf("%w: %q row %d", ErrPropertyMismatch, b.name, row)
		}
		v[row] = x
	case Float64s:
		x, ok := toFloat64(value)
		if !ok {
			return fmt.Errorf("%w: %q row %d", ErrPropertyMismatch, b.name, row)
		}
		v[row] = x
	case Strings:
		v[row] = toString(value)
	}
	return nil
}

// decodeRow decodes the property bytes of one feature into builders.
func decodeRow(data []byte, builders []*columnBuilder, row int) error {
	offset := 0
	for offset < len(data) {
		if offset+2 > len(data) {
			return fmt.Errorf("%w: truncated column index", ErrInvalidData)
		}
		idx := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
		offset += 2
		if idx >= len(builders) {
			return fmt.Errorf("%w: column index %d out of range", ErrInvalidData, idx)
		}

		b := builders[idx]
		value, n := readPropertyValue(data[offset:], b.typ)
		if n == 0 {
			return fmt.Errorf("%w: truncated value for %q", ErrInvalidData, b.name)
		}
		offset += n

		if err := b.set(row, value); err != nil {
			return err
		}
	}
	return nil
}

// fixedWidth is the encoded size of each fixed-width column type.
var fixedWidth = map[flattypes.ColumnType]int{
	flattypes.ColumnTypeBool:   1,
	flattypes.ColumnTypeByte:   1,
	flattypes.ColumnTypeUByte:  1,
	flattypes.ColumnTypeShort:  2,
	flattypes.ColumnTypeUShort: 2,
	flattypes.ColumnTypeInt:    4,
	flattypes.ColumnTypeUInt:   4,
	flattypes.ColumnTypeFloat:  4,
	flattypes.ColumnTypeLong:   8,
	flattypes.ColumnTypeULong:  8,
	flattypes.ColumnTypeDouble: 8,
}

// readPropertyValue decodes one value of type typ from the front of data.
// It returns the value and the bytes consumed; 0 bytes means data is short
// or typ is not supported.
func readPropertyValue(data []byte, typ flattypes.ColumnType) (interface{}, int) {
	if n, ok := fixedWidth[typ]; ok {
		if len(data) < n {
			return nil, 0
		}
		return fixedValue(data[:n], typ), n
	}

	switch typ {
	case flattypes.ColumnTypeString, flattypes.ColumnTypeJson, flattypes.ColumnTypeDateTime:
		if len(data) < 4 {
			return nil, 0
		}
		n := uint64(binary.LittleEndian.Uint32(data))
		if uint64(len(data)-4) < n {
			return nil, 0
		}
		return string(data[4 : 4+n]), 4 + int(n)
	}
	return nil, 0
}

// fixedValue decodes b, which holds exactly fixedWidth[typ] bytes.
func fixedValue(b []byte, typ flattypes.ColumnType) interface{} {
	le := binary.LittleEndian
	switch typ {
	case flattypes.ColumnTypeBool:
		return b[0] != 0
	case flattypes.ColumnTypeByte:
		return int8(b[0])
	case flattypes.ColumnTypeUByte:
		return b[0]
	case flattypes.ColumnTypeShort:
		return int16(le.Uint16(b))
	case flattypes.ColumnTypeUShort:
		return le.Uint16(b)
	case flattypes.ColumnTypeInt:
		return int32(le.Uint32(b))
	case flattypes.ColumnTypeUInt:
		return le.Uint32(b)
	case flattypes.ColumnTypeLong:
		return int64(le.Uint64(b))
	case flattypes.ColumnTypeULong:
		return le.Uint64(b)
	case flattypes.ColumnTypeFloat:
		return float64(math.Float32frombits(le.Uint32(b)))
	default:
		return math.Float64frombits(le.Uint64(b))
	}
}

// toInt64 converts numeric values. Unsigned values above math.MaxInt64 do
// not fit and are rejected.
func toInt64(v interface{}) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint:
		return toInt64(uint64(val))
	case uint8:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint64:
		if val > math.MaxInt64 {
			return 0, false
		}
		return int64(val), true
	case float32:
		return int64(val), true
	case float64:
		return int64(val), true
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i, true
		}
		if f, err := val.Float64(); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}

func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case uint64:
		return float64(val), true
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return f, true
		}
	}
	if i, ok := toInt64(v); ok {
		return float64(i), true
	}
	return 0, false
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return fmt.Sprint(v)
		}
		return strings.TrimSuffix(buf.String(), "\n")
	}
}
