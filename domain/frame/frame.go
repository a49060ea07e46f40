// Package frame holds the columnar table every pipeline stage consumes and
// produces. A Frame is an immutable value: stages derive new frames instead
// of mutating their input.
package frame

import (
	"fmt"
	"math"
	"strconv"

	"diaquant/domain/core"
)

// Kind is the cell type of a column.
type Kind int

const (
	KindString Kind = iota
	KindNumeric
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumeric:
		return "numeric"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Column is one named, typed column. Exactly one of the value slices is
// populated, matching Kind. Missing numeric cells are NaN.
type Column struct {
	Name    string
	Kind    Kind
	Strings []string
	Numbers []float64
	Bools   []bool
}

// StringColumn builds a string column.
func StringColumn(name string, values []string) Column {
	return Column{Name: name, Kind: KindString, Strings: values}
}

// NumericColumn builds a numeric column. NaN encodes a missing cell.
func NumericColumn(name string, values []float64) Column {
	return Column{Name: name, Kind: KindNumeric, Numbers: values}
}

// BoolColumn builds a bool column.
func BoolColumn(name string, values []bool) Column {
	return Column{Name: name, Kind: KindBool, Bools: values}
}

// Len returns the number of cells in the column.
func (c Column) Len() int {
	switch c.Kind {
	case KindString:
		return len(c.Strings)
	case KindNumeric:
		return len(c.Numbers)
	case KindBool:
		return len(c.Bools)
	default:
		return 0
	}
}

// CellString renders the cell at row i for display and fingerprinting.
func (c Column) CellString(i int) string {
	switch c.Kind {
	case KindString:
		return c.Strings[i]
	case KindNumeric:
		if math.IsNaN(c.Numbers[i]) {
			return "NaN"
		}
		return strconv.FormatFloat(c.Numbers[i], 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(c.Bools[i])
	default:
		return ""
	}
}

// MissingCount returns the number of missing cells. Only numeric columns
// can carry missing values.
func (c Column) MissingCount() int {
	if c.Kind != KindNumeric {
		return 0
	}
	n := 0
	for _, v := range c.Numbers {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}

// Observed returns the non-missing values of a numeric column.
func (c Column) Observed() []float64 {
	out := make([]float64, 0, len(c.Numbers))
	for _, v := range c.Numbers {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Frame is an ordered collection of equal-length columns.
type Frame struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a frame from columns, validating equal lengths and unique names.
func New(columns ...Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(columns))}
	for i, col := range columns {
		if _, dup := f.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", col.Name)
		}
		if i == 0 {
			f.rows = col.Len()
		} else if col.Len() != f.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", col.Name, col.Len(), f.rows)
		}
		f.index[col.Name] = i
		f.columns = append(f.columns, col)
	}
	return f, nil
}

// NumRows returns the row count.
func (f *Frame) NumRows() int { return f.rows }

// NumColumns returns the column count.
func (f *Frame) NumColumns() int { return len(f.columns) }

// ColumnNames returns column names in insertion order.
func (f *Frame) ColumnNames() []string {
	names := make([]string, len(f.columns))
	for i, col := range f.columns {
		names[i] = col.Name
	}
	return names
}

// HasColumn reports whether a column exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns the named column.
func (f *Frame) Column(name string) (Column, error) {
	i, ok := f.index[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: %s", core.ErrColumnNotFound, name)
	}
	return f.columns[i], nil
}

// Numbers returns the values of a numeric column.
func (f *Frame) Numbers(name string) ([]float64, error) {
	col, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	if col.Kind != KindNumeric {
		return nil, fmt.Errorf("%w: %s is %s, want numeric", core.ErrColumnKindMismatch, name, col.Kind)
	}
	return col.Numbers, nil
}

// Strings returns the values of a string column.
func (f *Frame) Strings(name string) ([]string, error) {
	col, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	if col.Kind != KindString {
		return nil, fmt.Errorf("%w: %s is %s, want string", core.ErrColumnKindMismatch, name, col.Kind)
	}
	return col.Strings, nil
}

// Bools returns the values of a bool column.
func (f *Frame) Bools(name string) ([]bool, error) {
	col, err := f.Column(name)
	if err != nil {
		return nil, err
	}
	if col.Kind != KindBool {
		return nil, fmt.Errorf("%w: %s is %s, want bool", core.ErrColumnKindMismatch, name, col.Kind)
	}
	return col.Bools, nil
}

// NumericColumnNames returns the names of all numeric columns in order.
func (f *Frame) NumericColumnNames() []string {
	var names []string
	for _, col := range f.columns {
		if col.Kind == KindNumeric {
			names = append(names, col.Name)
		}
	}
	return names
}

// Select returns a new frame containing the given rows in the given order.
// Indices may repeat; the source frame is untouched.
func (f *Frame) Select(rows []int) *Frame {
	out := &Frame{index: make(map[string]int, len(f.columns)), rows: len(rows)}
	for i, col := range f.columns {
		next := Column{Name: col.Name, Kind: col.Kind}
		switch col.Kind {
		case KindString:
			next.Strings = make([]string, len(rows))
			for j, r := range rows {
				next.Strings[j] = col.Strings[r]
			}
		case KindNumeric:
			next.Numbers = make([]float64, len(rows))
			for j, r := range rows {
				next.Numbers[j] = col.Numbers[r]
			}
		case KindBool:
			next.Bools = make([]bool, len(rows))
			for j, r := range rows {
				next.Bools[j] = col.Bools[r]
			}
		}
		out.index[col.Name] = i
		out.columns = append(out.columns, next)
	}
	return out
}

// WithNumbers returns a new frame with one numeric column replaced.
func (f *Frame) WithNumbers(name string, values []float64) (*Frame, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrColumnNotFound, name)
	}
	if f.columns[i].Kind != KindNumeric {
		return nil, fmt.Errorf("%w: %s is %s, want numeric", core.ErrColumnKindMismatch, name, f.columns[i].Kind)
	}
	if len(values) != f.rows {
		return nil, fmt.Errorf("column %q replacement has %d rows, want %d", name, len(values), f.rows)
	}
	return f.withColumn(i, NumericColumn(name, values)), nil
}

// WithStrings returns a new frame with one string column replaced.
func (f *Frame) WithStrings(name string, values []string) (*Frame, error) {
	i, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrColumnNotFound, name)
	}
	if f.columns[i].Kind != KindString {
		return nil, fmt.Errorf("%w: %s is %s, want string", core.ErrColumnKindMismatch, name, f.columns[i].Kind)
	}
	if len(values) != f.rows {
		return nil, fmt.Errorf("column %q replacement has %d rows, want %d", name, len(values), f.rows)
	}
	return f.withColumn(i, StringColumn(name, values)), nil
}

func (f *Frame) withColumn(i int, col Column) *Frame {
	out := &Frame{index: make(map[string]int, len(f.columns)), rows: f.rows}
	for j, c := range f.columns {
		if j == i {
			c = col
		}
		out.index[c.Name] = j
		out.columns = append(out.columns, c)
	}
	return out
}

// RowCells renders every cell of row i in column order.
func (f *Frame) RowCells(i int) []string {
	cells := make([]string, len(f.columns))
	for j, col := range f.columns {
		cells[j] = col.CellString(i)
	}
	return cells
}

// Fingerprint computes the identity hash of row i across all fields.
func (f *Frame) Fingerprint(i int) core.RowFingerprint {
	return core.ComputeRowFingerprint(f.RowCells(i))
}
