package life

import "fmt"

// RuleMatrix holds the interaction coefficient for every ordered pair of
// color classes. Row is the affected particle's color, column the
// neighbor's. It is never mutated after construction.
type RuleMatrix struct {
	m      int
	values []float64
}

// NewRuleMatrix samples each of the m×m entries uniformly from [-1, 1).
// m == 0 yields an inert matrix.
func NewRuleMatrix(m int, src Source) *RuleMatrix {
	if m < 0 {
		m = 0
	}
	r := &RuleMatrix{m: m, values: make([]float64, m*m)}
	for i := range r.values {
		r.values[i] = src.Float64()*2 - 1
	}
	return r
}

// RuleMatrixFromRows builds a matrix from explicit rows. Rows must be square
// and every value must lie in [-1, 1].
func RuleMatrixFromRows(rows [][]float64) (*RuleMatrix, error) {
	m := len(rows)
	r := &RuleMatrix{m: m, values: make([]float64, 0, m*m)}
	for i, row := range rows {
		if len(row) != m {
			return nil, &ConfigError{Field: "rules", Value: len(row), Reason: fmt.Sprintf("row %d must have %d entries", i, m)}
		}
		for j, v := range row {
			if !(v >= -1 && v <= 1) {
				return nil, &ConfigError{Field: "rules", Value: v, Reason: fmt.Sprintf("entry (%d, %d) outside [-1, 1]", i, j)}
			}
		}
		r.values = append(r.values, row...)
	}
	return r, nil
}

// M returns the number of color classes.
func (r *RuleMatrix) M() int { return r.m }

// Get returns the coefficient for a particle of color i reacting to a
// neighbor of color j. Out-of-range indices panic with InvariantError.
func (r *RuleMatrix) Get(i, j int) float64 {
	if i < 0 || j < 0 || i >= r.m || j >= r.m {
		panic(InvariantError{Row: i, Col: j, M: r.m})
	}
	return r.values[i*r.m+j]
}

// Rows returns a copy of the table.
func (r *RuleMatrix) Rows() [][]float64 {
	rows := make([][]float64, r.m)
	for i := range rows {
		rows[i] = make([]float64, r.m)
		copy(rows[i], r.values[i*r.m:(i+1)*r.m])
	}
	return rows
}
