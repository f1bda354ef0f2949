package frame

import (
	"math"

	"github.com/retainlab/retainx/pkg/errs"
)

// Frame is a small column-oriented numeric table keyed by customer id.
// Missing values are represented as NaN; the feature store boundary is
// responsible for coercing whatever it reads into float64-or-NaN.
type Frame struct {
	ids   []string
	cols  map[string][]float64
	order []string
}

// New creates a frame over the given row ids. The ids slice is not copied;
// callers hand over ownership.
func New(ids []string) *Frame {
	return &Frame{
		ids:  ids,
		cols: make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.ids) }

// IDs returns the row identifiers.
func (f *Frame) IDs() []string { return f.ids }

// Columns returns the column names in insertion order.
func (f *Frame) Columns() []string { return f.order }

// Has reports whether the named column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Set stores a column. The values slice must match the row count; it is
// retained, not copied.
func (f *Frame) Set(name string, values []float64) {
	if _, ok := f.cols[name]; !ok {
		f.order = append(f.order, name)
	}
	f.cols[name] = values
}

// Column returns the named column, or nil when absent.
func (f *Frame) Column(name string) []float64 { return f.cols[name] }

// Require fails with a data error on the first listed column that is
// absent. A column that exists but is entirely NaN also counts as absent:
// there is nothing to impute from.
func (f *Frame) Require(names ...string) error {
	for _, name := range names {
		col, ok := f.cols[name]
		if !ok {
			return errs.Dataf("required column %q missing from input", name)
		}
		allNaN := true
		for _, v := range col {
			if !math.IsNaN(v) {
				allNaN = false
				break
			}
		}
		if len(col) == 0 || allNaN {
			return errs.Dataf("required column %q has no usable values", name)
		}
	}
	return nil
}

// Matrix assembles a row-major matrix from the named columns.
func (f *Frame) Matrix(names ...string) ([][]float64, error) {
	for _, name := range names {
		if !f.Has(name) {
			return nil, errs.Dataf("matrix column %q missing from input", name)
		}
	}
	out := make([][]float64, f.Len())
	for i := range out {
		row := make([]float64, len(names))
		for j, name := range names {
			row[j] = f.cols[name][i]
		}
		out[i] = row
	}
	return out, nil
}

// Clone deep-copies the frame, ids included.
func (f *Frame) Clone() *Frame {
	ids := make([]string, len(f.ids))
	copy(ids, f.ids)
	out := New(ids)
	for _, name := range f.order {
		col := make([]float64, len(f.cols[name]))
		copy(col, f.cols[name])
		out.Set(name, col)
	}
	return out
}
