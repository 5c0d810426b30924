package engine

import (
	"fmt"
	"math"
	"strconv"
)

// ============================================================================
// DERIVE ENGINE TYPES — Typed, Column-Oriented Datasets
// ============================================================================
// A Dataset is an ordered set of named, equal-length columns.
// Every column declares its Kind up front so operators can be type-checked
// before any data is copied or computed.
//
// Dependency: engine imports logrus for optional debug tracing only.
// ============================================================================

// ============================================================================
// KIND — Declared value type of a column
// ============================================================================

// Kind is the declared value type of a Column.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt          // int64
	KindFloat        // float64
	KindString       // string
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// IsNumeric reports whether k is KindInt or KindFloat.
func (k Kind) IsNumeric() bool {
	return k == KindInt || k == KindFloat
}

// ParseKind converts "int", "float" or "string" back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "int":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	case "string":
		return KindString, nil
	}
	return KindInvalid, fmt.Errorf("unknown column kind %q", s)
}

// ============================================================================
// COLUMN — Named, typed value sequence
// ============================================================================

// Column is a named sequence of values of a single Kind.
// Exactly one of the backing slices is used, selected by kind.
type Column struct {
	name    string
	kind    Kind
	ints    []int64
	floats  []float64
	strings []string
}

// IntColumn creates an int column. values is copied.
func IntColumn(name string, values ...int64) *Column {
	return &Column{name: name, kind: KindInt, ints: append(make([]int64, 0, len(values)), values...)}
}

// FloatColumn creates a float column. values is copied.
func FloatColumn(name string, values ...float64) *Column {
	return &Column{name: name, kind: KindFloat, floats: append(make([]float64, 0, len(values)), values...)}
}

// StringColumn creates a string column. values is copied.
func StringColumn(name string, values ...string) *Column {
	return &Column{name: name, kind: KindString, strings: append(make([]string, 0, len(values)), values...)}
}

func (c *Column) Name() string { return c.name }
func (c *Column) Kind() Kind   { return c.kind }

// Len returns the number of values in the column.
func (c *Column) Len() int {
	switch c.kind {
	case KindInt:
		return len(c.ints)
	case KindFloat:
		return len(c.floats)
	case KindString:
		return len(c.strings)
	}
	return 0
}

// Float returns row i of a numeric column as float64.
func (c *Column) Float(i int) float64 {
	switch c.kind {
	case KindInt:
		return float64(c.ints[i])
	case KindFloat:
		return c.floats[i]
	}
	return math.NaN()
}

// Text returns row i formatted as text, whatever the kind.
func (c *Column) Text(i int) string {
	switch c.kind {
	case KindInt:
		return strconv.FormatInt(c.ints[i], 10)
	case KindFloat:
		return strconv.FormatFloat(c.floats[i], 'g', -1, 64)
	case KindString:
		return c.strings[i]
	}
	return ""
}

// Value returns row i as int64, float64 or string.
func (c *Column) Value(i int) interface{} {
	switch c.kind {
	case KindInt:
		return c.ints[i]
	case KindFloat:
		return c.floats[i]
	case KindString:
		return c.strings[i]
	}
	return nil
}

// Values returns a copy of all values as a []int64, []float64 or []string.
func (c *Column) Values() interface{} {
	switch c.kind {
	case KindInt:
		return append(make([]int64, 0, len(c.ints)), c.ints...)
	case KindFloat:
		return append(make([]float64, 0, len(c.floats)), c.floats...)
	case KindString:
		return append(make([]string, 0, len(c.strings)), c.strings...)
	}
	return nil
}

// Clone returns a deep copy of the column.
func (c *Column) Clone() *Column {
	return c.Rename(c.name)
}

// Rename returns a deep copy of the column under a new name.
func (c *Column) Rename(name string) *Column {
	out := &Column{name: name, kind: c.kind}
	switch c.kind {
	case KindInt:
		out.ints = append(make([]int64, 0, len(c.ints)), c.ints...)
	case KindFloat:
		out.floats = append(make([]float64, 0, len(c.floats)), c.floats...)
	case KindString:
		out.strings = append(make([]string, 0, len(c.strings)), c.strings...)
	}
	return out
}

// Equal reports whether two columns have the same name, kind and values.
// NaN compares equal to NaN.
func (c *Column) Equal(o *Column) bool {
	if c == nil || o == nil {
		return c == o
	}
	if c.name != o.name || c.kind != o.kind || c.Len() != o.Len() {
		return false
	}
	for i := 0; i < c.Len(); i++ {
		switch c.kind {
		case KindInt:
			if c.ints[i] != o.ints[i] {
				return false
			}
		case KindFloat:
			a, b := c.floats[i], o.floats[i]
			if a != b && !(math.IsNaN(a) && math.IsNaN(b)) {
				return false
			}
		case KindString:
			if c.strings[i] != o.strings[i] {
				return false
			}
		}
	}
	return true
}

// ============================================================================
// DATASET — Ordered collection of equal-length columns
// ============================================================================

// Dataset is an in-memory table of named, equal-length columns.
// Column order is insertion order. The zero value is not usable; use
// Empty or NewDataset.
type Dataset struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// Empty returns a dataset with zero columns and zero rows.
func Empty() *Dataset {
	return &Dataset{index: make(map[string]int)}
}

// NewDataset builds a dataset from columns, which it takes ownership of.
// Column names must be unique and all columns must have the same length.
func NewDataset(columns ...*Column) (*Dataset, error) {
	d := &Dataset{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, dup := d.index[col.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col.name)
		}
		if i == 0 {
			d.rows = col.Len()
		} else if col.Len() != d.rows {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrRaggedColumns, col.name, col.Len(), d.rows)
		}
		d.index[col.name] = len(d.columns)
		d.columns = append(d.columns, col)
	}
	return d, nil
}

// MustDataset is like NewDataset but panics on error.
func MustDataset(columns ...*Column) *Dataset {
	d, err := NewDataset(columns...)
	if err != nil {
		panic(err)
	}
	return d
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return d.rows
}

// Width returns the number of columns.
func (d *Dataset) Width() int {
	if d == nil {
		return 0
	}
	return len(d.columns)
}

// IsEmpty reports whether the dataset has zero columns and zero rows.
func (d *Dataset) IsEmpty() bool {
	return d.Width() == 0 && d.Len() == 0
}

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	names := make([]string, d.Width())
	for i, col := range d.columns {
		names[i] = col.name
	}
	return names
}

// Column looks up a column by name. The returned column must not be modified.
func (d *Dataset) Column(name string) (*Column, bool) {
	if d == nil {
		return nil, false
	}
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// Has reports whether a column named name exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.Column(name)
	return ok
}

// Columns returns the columns in order. The slice is a copy; the columns are not.
func (d *Dataset) Columns() []*Column {
	if d == nil {
		return nil
	}
	return append([]*Column(nil), d.columns...)
}

// Clone returns a deep copy sharing no storage with d.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		columns: make([]*Column, len(d.columns)),
		index:   make(map[string]int, len(d.index)),
		rows:    d.rows,
	}
	for i, col := range d.columns {
		out.columns[i] = col.Clone()
		out.index[col.name] = i
	}
	return out
}

// Equal reports whether both datasets have the same columns in the same order.
func (d *Dataset) Equal(o *Dataset) bool {
	if d.Width() != o.Width() || d.Len() != o.Len() {
		return false
	}
	for i := 0; i < d.Width(); i++ {
		if !d.columns[i].Equal(o.columns[i]) {
			return false
		}
	}
	return true
}

// set assigns col under its name: a new name is appended, an existing one
// is replaced in place. col must have d.Len() rows unless d has no columns.
func (d *Dataset) set(col *Column) {
	if len(d.columns) == 0 {
		d.rows = col.Len()
	}
	if i, ok := d.index[col.name]; ok {
		d.columns[i] = col
		return
	}
	d.index[col.name] = len(d.columns)
	d.columns = append(d.columns, col)
}
