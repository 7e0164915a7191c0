package regions

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
)

// ColumnValue is the payload of a column. The set of implementations is
// closed: the plain kinds Float64s, Int64s, Strings and Bools, raw geometry
// as Geometries, and a prebuilt *RegionColumn.
type ColumnValue interface {
	Len() int
	Kind() string
	columnValue()
}

// Float64s is a plain floating point column.
type Float64s []float64

// Int64s is a plain integer column.
type Int64s []int64

// Strings is a plain string column.
type Strings []string

// Bools is a plain boolean column.
type Bools []bool

// Geometries is a raw geometry sequence. Adding it to a RegionData derives
// the center columns and wraps the geometry in a RegionColumn.
type Geometries []orb.Geometry

func (v Float64s) Len() int   { return len(v) }
func (v Int64s) Len() int     { return len(v) }
func (v Strings) Len() int    { return len(v) }
func (v Bools) Len() int      { return len(v) }
func (v Geometries) Len() int { return len(v) }

func (Float64s) Kind() string   { return "float64" }
func (Int64s) Kind() string     { return "int64" }
func (Strings) Kind() string    { return "string" }
func (Bools) Kind() string      { return "bool" }
func (Geometries) Kind() string { return "geometry" }

func (Float64s) columnValue()   {}
func (Int64s) columnValue()     {}
func (Strings) columnValue()    {}
func (Bools) columnValue()      {}
func (Geometries) columnValue() {}

// valueAt returns row i of v as an interface value.
func valueAt(v ColumnValue, i int) interface{} {
	switch c := v.(type) {
	case Float64s:
		return c[i]
	case Int64s:
		return c[i]
	case Strings:
		return c[i]
	case Bools:
		return c[i]
	case Geometries:
		return c[i]
	case *RegionColumn:
		return c.geometries[i]
	default:
		return nil
	}
}

// Classify turns an untyped slice into a ColumnValue. It is the single place
// where input shape is inspected: a slice whose elements are all orb.Geometry
// becomes Geometries, numeric, string and boolean slices become the matching
// plain kind. Values that already are a ColumnValue are returned unchanged.
func Classify(v interface{}) (ColumnValue, error) {
	switch x := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedType)
	case ColumnValue:
		return x, nil
	case []orb.Geometry:
		return Geometries(x), nil
	case []float64:
		return Float64s(x), nil
	case []float32:
		out := make(Float64s, len(x))
		for i, f := range x {
			out[i] = float64(f)
		}
		return out, nil
	case []int:
		out := make(Int64s, len(x))
		for i, n := range x {
			out[i] = int64(n)
		}
		return out, nil
	case []int32:
		out := make(Int64s, len(x))
		for i, n := range x {
			out[i] = int64(n)
		}
		return out, nil
	case []int64:
		return Int64s(x), nil
	case []string:
		return Strings(x), nil
	case []bool:
		return Bools(x), nil
	case []interface{}:
		return classifyAny(x)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

type valueKind int

const (
	kindNone valueKind = iota
	kindBool
	kindInt
	kindFloat
	kindString
	kindGeometry
	kindOther
)

func kindOf(v interface{}) valueKind {
	switch x := v.(type) {
	case nil:
		return kindNone
	case bool:
		return kindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32:
		return kindInt
	case float32, float64:
		return kindFloat
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return kindInt
		}
		return kindFloat
	case string:
		return kindString
	case orb.Geometry:
		return kindGeometry
	default:
		return kindOther
	}
}

// classifyAny picks a kind from the non-nil elements. Integers mixed with
// floats widen to Float64s; nil elements become the zero value. Geometry
// sequences may not contain nil.
func classifyAny(values []interface{}) (ColumnValue, error) {
	kind := kindNone
	nils := 0
	for _, v := range values {
		k := kindOf(v)
		switch {
		case k == kindNone:
			nils++
		case kind == kindNone, kind == k:
			kind = k
		case (kind == kindInt && k == kindFloat) || (kind == kindFloat && k == kindInt):
			kind = kindFloat
		default:
			return nil, fmt.Errorf("%w: mixed element types", ErrPropertyMismatch)
		}
	}

	switch kind {
	case kindGeometry:
		if nils > 0 {
			return nil, ErrNilGeometry
		}
		out := make(Geometries, len(values))
		for i, v := range values {
			out[i] = v.(orb.Geometry)
		}
		return out, nil
	case kindBool:
		out := make(Bools, len(values))
		for i, v := range values {
			out[i], _ = v.(bool)
		}
		return out, nil
	case kindInt:
		out := make(Int64s, len(values))
		for i, v := range values {
			out[i], _ = toInt64(v)
		}
		return out, nil
	case kindFloat:
		out := make(Float64s, len(values))
		for i, v := range values {
			out[i], _ = toFloat64(v)
		}
		return out, nil
	case kindString:
		out := make(Strings, len(values))
		for i, v := range values {
			out[i], _ = v.(string)
		}
		return out, nil
	case kindNone:
		return nil, fmt.Errorf("%w: no typed elements", ErrUnsupportedType)
	default:
		return nil, fmt.Errorf("%w: element type", ErrUnsupportedType)
	}
}
