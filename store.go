package regions

import (
	"fmt"
)

// Store holds identified columns of a common row count. The first inserted
// column fixes the row count. A Store is not safe for concurrent use.
type Store struct {
	columns []*Column
	byID    map[ColumnID]*Column
	rows    int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byID: make(map[ColumnID]*Column),
		rows: -1,
	}
}

// Insert adds a column and returns its newly issued identifier.
func (s *Store) Insert(v ColumnValue, label string) (ColumnID, error) {
	if v == nil {
		return ColumnID{}, fmt.Errorf("%w: nil column", ErrUnsupportedType)
	}
	if err := s.checkRows(v.Len()); err != nil {
		return ColumnID{}, err
	}

	col := &Column{
		ID:     newColumnID(),
		Label:  label,
		Values: v,
	}
	s.columns = append(s.columns, col)
	s.byID[col.ID] = col
	if s.rows < 0 {
		s.rows = v.Len()
	}

	return col.ID, nil
}

// checkRows reports whether a column of n rows may be inserted.
func (s *Store) checkRows(n int) error {
	if s.rows >= 0 && n != s.rows {
		return fmt.Errorf("%w: got %d rows, want %d", ErrLengthMismatch, n, s.rows)
	}
	return nil
}

// Get returns the column with the given identifier.
func (s *Store) Get(id ColumnID) (*Column, error) {
	col, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, id)
	}
	return col, nil
}

// Has reports whether the store contains id.
func (s *Store) Has(id ColumnID) bool {
	_, ok := s.byID[id]
	return ok
}

// Lookup returns the identifiers of all columns with the given label, in
// insertion order.
func (s *Store) Lookup(label string) []ColumnID {
	var ids []ColumnID
	for _, col := range s.columns {
		if col.Label == label {
			ids = append(ids, col.ID)
		}
	}
	return ids
}

// Columns returns the columns in insertion order.
func (s *Store) Columns() []*Column {
	out := make([]*Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Len returns the number of columns.
func (s *Store) Len() int {
	return len(s.columns)
}

// Rows returns the row count, or 0 for a store without columns.
func (s *Store) Rows() int {
	if s.rows < 0 {
		return 0
	}
	return s.rows
}
