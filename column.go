package regions

import (
	"github.com/google/uuid"
)

// ColumnID identifies a column. It is stable for the lifetime of the column
// and never reused; the zero value identifies nothing.
type ColumnID struct {
	u uuid.UUID
}

func newColumnID() ColumnID {
	return ColumnID{u: uuid.New()}
}

// ParseColumnID parses the string form of a ColumnID.
func ParseColumnID(s string) (ColumnID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ColumnID{}, err
	}
	return ColumnID{u: u}, nil
}

// IsZero reports whether id is the zero ColumnID.
func (id ColumnID) IsZero() bool {
	return id.u == uuid.Nil
}

func (id ColumnID) String() string {
	return id.u.String()
}

// Column is a labelled, identified sequence of values. Labels are for humans
// and need not be unique.
type Column struct {
	ID     ColumnID
	Label  string
	Values ColumnValue
}

// Len returns the number of rows in the column.
func (c *Column) Len() int {
	return c.Values.Len()
}

// IsRegion reports whether the column holds a RegionColumn.
func (c *Column) IsRegion() bool {
	_, ok := c.Values.(*RegionColumn)
	return ok
}
