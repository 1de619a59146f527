// Package dataset models the evaluated table: one designated timestamp column
// plus a named set of numeric columns, all of equal length. Rows are kept in
// chronological order so the most recent observation is the last row.
package dataset

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
)

// TimestampColumn is the name reserved for the designated time column.
const TimestampColumn = "timestamp"

// Dataset is an immutable, column-oriented numeric table.
type Dataset struct {
	timestamps []time.Time
	columns    map[string][]float64
	order      []string
}

// New builds a Dataset from a timestamp vector and numeric columns. order
// fixes the reported column order; columns missing from order are appended
// alphabetically. Inputs are copied.
func New(timestamps []time.Time, columns map[string][]float64, order []string) (*Dataset, error) {
	d := &Dataset{
		columns: make(map[string][]float64, len(columns)),
	}
	if timestamps != nil {
		d.timestamps = append(make([]time.Time, 0, len(timestamps)), timestamps...)
	}

	seen := make(map[string]struct{}, len(columns))
	for _, name := range order {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: ordered column %q has no values", ErrSchemaViolation, name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		d.order = append(d.order, name)
	}
	var rest []string
	for name := range columns {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	d.order = append(d.order, rest...)

	n := len(d.timestamps)
	for i, name := range d.order {
		if name == TimestampColumn {
			return nil, fmt.Errorf("%w: %q cannot be a numeric column", ErrSchemaViolation, name)
		}
		values := columns[name]
		if d.timestamps == nil && i == 0 {
			n = len(values)
		}
		if len(values) != n {
			return nil, fmt.Errorf("%w: column %q has %d rows, want %d", ErrRaggedColumns, name, len(values), n)
		}
		d.columns[name] = append(make([]float64, 0, len(values)), values...)
	}
	return d, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d.timestamps != nil {
		return len(d.timestamps)
	}
	for _, values := range d.columns {
		return len(values)
	}
	return 0
}

// Columns returns the numeric column names in load order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.order...)
}

// Has reports whether a numeric column exists. The timestamp column is
// reported separately by HasTimestamp.
func (d *Dataset) Has(name string) bool {
	_, ok := d.columns[name]
	return ok
}

// HasTimestamp reports whether the designated timestamp column is present.
func (d *Dataset) HasTimestamp() bool { return d.timestamps != nil }

// Timestamps returns a copy of the timestamp column.
func (d *Dataset) Timestamps() []time.Time {
	return append([]time.Time(nil), d.timestamps...)
}

// Column returns a copy of a numeric column.
func (d *Dataset) Column(name string) ([]float64, error) {
	values, ok := d.columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing column %q", ErrSchemaViolation, name)
	}
	return append([]float64(nil), values...), nil
}

// Require checks the timestamp column and every named numeric column in one
// pass and reports all missing names together.
func (d *Dataset) Require(names ...string) error {
	if !d.HasTimestamp() {
		return ErrMissingTimestamp
	}
	missing := make(map[string]struct{})
	for _, name := range names {
		if !d.Has(name) {
			missing[name] = struct{}{}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	list := make([]string, 0, len(missing))
	for name := range missing {
		list = append(list, name)
	}
	sort.Strings(list)
	return fmt.Errorf("%w: missing columns [%s]", ErrSchemaViolation, strings.Join(list, ", "))
}

// Matrix returns a rows x len(names) matrix with columns in the given order.
func (d *Dataset) Matrix(names []string) (*mat.Dense, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: empty column selection", ErrSchemaViolation)
	}
	rows := d.Len()
	if rows == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrSchemaViolation)
	}
	data := make([]float64, rows*len(names))
	for j, name := range names {
		values, ok := d.columns[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrSchemaViolation, name)
		}
		for i, v := range values {
			data[i*len(names)+j] = v
		}
	}
	return mat.NewDense(rows, len(names), data), nil
}

// TailStart returns the index of the first row in the trailing window. A
// window at least as long as the dataset starts at row 0.
func (d *Dataset) TailStart(window int) int {
	if window <= 0 {
		return d.Len()
	}
	return max(0, d.Len()-window)
}

// Tail returns the final window rows as a new Dataset.
func (d *Dataset) Tail(window int) *Dataset {
	start := d.TailStart(window)
	out := &Dataset{
		columns: make(map[string][]float64, len(d.columns)),
		order:   append([]string(nil), d.order...),
	}
	if d.timestamps != nil {
		out.timestamps = append(make([]time.Time, 0, len(d.timestamps)-start), d.timestamps[start:]...)
	}
	for name, values := range d.columns {
		out.columns[name] = append(make([]float64, 0, len(values)-start), values[start:]...)
	}
	return out
}
