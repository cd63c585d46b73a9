// ShopSphere - E-Commerce Recommendation Backend
// Copyright 2026 ShopSphere
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsphere/backend

package recommend

// Matrix is a sparse product-by-product score matrix backed by nested maps.
// Absent entries score 0. A Matrix is immutable once published: builders
// populate it through matrixBuilder, after which only read methods are used.
type Matrix struct {
	rows map[int64]map[int64]float64
}

// emptyMatrix is shared by all empty builds.
var emptyMatrix = &Matrix{rows: map[int64]map[int64]float64{}}

// Score returns the stored score for (a, b), or 0 when absent.
func (m *Matrix) Score(a, b int64) float64 {
	return m.rows[a][b]
}

// Row returns the score row for product a. The returned map must not be
// mutated; it is the matrix's own storage. Returns nil when a has no entries.
func (m *Matrix) Row(a int64) map[int64]float64 {
	return m.rows[a]
}

// Len returns the number of products with at least one stored entry.
func (m *Matrix) Len() int {
	return len(m.rows)
}

// Pairs returns the total number of stored (a, b) entries.
func (m *Matrix) Pairs() int {
	n := 0
	for _, row := range m.rows {
		n += len(row)
	}
	return n
}

// matrixBuilder accumulates scores during a model build.
type matrixBuilder struct {
	rows map[int64]map[int64]float64
}

func newMatrixBuilder() *matrixBuilder {
	return &matrixBuilder{rows: make(map[int64]map[int64]float64)}
}

// add increments the score for (a, b) by delta.
func (b *matrixBuilder) add(row, col int64, delta float64) {
	r, ok := b.rows[row]
	if !ok {
		r = make(map[int64]float64)
		b.rows[row] = r
	}
	r[col] += delta
}

// set stores the score for (a, b), replacing any prior value.
func (b *matrixBuilder) set(row, col int64, score float64) {
	r, ok := b.rows[row]
	if !ok {
		r = make(map[int64]float64)
		b.rows[row] = r
	}
	r[col] = score
}

// scale multiplies every stored entry by factor.
func (b *matrixBuilder) scale(factor float64) {
	for _, row := range b.rows {
		for col := range row {
			row[col] *= factor
		}
	}
}

// build finalizes the accumulated entries into an immutable Matrix.
func (b *matrixBuilder) build() *Matrix {
	if len(b.rows) == 0 {
		return emptyMatrix
	}
	return &Matrix{rows: b.rows}
}
