// Copyright (c) 2025 The dsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package markov

import "sort"

// cooMatrix accumulates transition counts in coordinate form. Duplicate
// (row, col) entries are legal and sum on conversion.
type cooMatrix struct {
	rows, cols int
	entries    []cooEntry
}

type cooEntry struct {
	row, col int
	val      float64
}

func newCOO(rows, cols int) *cooMatrix {
	return &cooMatrix{rows: rows, cols: cols}
}

func (m *cooMatrix) Add(row, col int, val float64) {
	m.entries = append(m.entries, cooEntry{row: row, col: col, val: val})
}

// ToCSR compacts the triplets into compressed sparse row form, summing
// duplicates.
func (m *cooMatrix) ToCSR() *csrMatrix {
	sort.Slice(m.entries, func(i, j int) bool {
		a, b := m.entries[i], m.entries[j]
		if a.row != b.row {
			return a.row < b.row
		}
		return a.col < b.col
	})

	csr := &csrMatrix{
		rows:   m.rows,
		cols:   m.cols,
		rowPtr: make([]int, m.rows+1),
	}

	lastRow, lastCol := -1, -1
	for _, e := range m.entries {
		if e.row == lastRow && e.col == lastCol {
			csr.vals[len(csr.vals)-1] += e.val
			continue
		}
		for r := lastRow; r < e.row; r++ {
			csr.rowPtr[r+1] = len(csr.colIdx)
		}
		csr.colIdx = append(csr.colIdx, e.col)
		csr.vals = append(csr.vals, e.val)
		lastRow, lastCol = e.row, e.col
	}
	for r := lastRow; r < m.rows; r++ {
		csr.rowPtr[r+1] = len(csr.colIdx)
	}

	return csr
}

// csrMatrix is a compressed sparse row matrix of transition weights.
type csrMatrix struct {
	rows, cols int
	rowPtr     []int
	colIdx     []int
	vals       []float64
}

// Row returns row i as a dense slice.
func (m *csrMatrix) Row(i int) []float64 {
	out := make([]float64, m.cols)
	for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
		out[m.colIdx[k]] = m.vals[k]
	}
	return out
}

// RowSum totals the stored entries of row i.
func (m *csrMatrix) RowSum(i int) float64 {
	var sum float64
	for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
		sum += m.vals[k]
	}
	return sum
}

// NormalizeRows scales every non-empty row to sum to one, turning counts
// into transition probabilities.
func (m *csrMatrix) NormalizeRows() {
	for i := 0; i < m.rows; i++ {
		sum := m.RowSum(i)
		if sum == 0 {
			continue
		}
		for k := m.rowPtr[i]; k < m.rowPtr[i+1]; k++ {
			m.vals[k] /= sum
		}
	}
}
