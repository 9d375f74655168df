// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package table holds the ordered, append-only result table produced by
// extraction and renders it as CSV, YAML, JSON, or a terminal table.
package table

import (
	"strconv"
	"strings"

	"github.com/pdiddy/esdl-opera/pkg/types"
)

// listSeparator joins carrier and profile lists within one cell.
const listSeparator = ", "

// Table is an append-only sequence of asset records with the fixed
// column schema types.Columns.
type Table struct {
	rows []types.AssetRecord
}

// New returns an empty table.
func New() *Table {
	return &Table{}
}

// Append adds a row at the end. Rows are never deduplicated.
func (t *Table) Append(r types.AssetRecord) {
	t.rows = append(t.rows, r)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the rows in insertion order.
func (t *Table) Rows() []types.AssetRecord {
	return append([]types.AssetRecord(nil), t.rows...)
}

// ByName returns the first row with exactly the given name.
func (t *Table) ByName(name string) (types.AssetRecord, bool) {
	for _, r := range t.rows {
		if r.Name == name {
			return r, true
		}
	}
	return types.AssetRecord{}, false
}

// Filter returns a new table with the rows for which keep returns true.
func (t *Table) Filter(keep func(types.AssetRecord) bool) *Table {
	out := New()
	for _, r := range t.rows {
		if keep(r) {
			out.Append(r)
		}
	}
	return out
}

// Cells renders r as one text cell per column of types.Columns. Missing
// numbers render as empty cells.
func Cells(r types.AssetRecord) []string {
	option := ""
	if r.OperaEquivalent != nil {
		option = *r.OperaEquivalent
	}
	return []string{
		r.Category,
		r.ESDLType,
		r.Name,
		formatOptional(r.PowerMin),
		formatOptional(r.PowerMax),
		formatOptional(r.Power),
		FormatFloat(r.Efficiency),
		formatOptional(r.InvestmentCost),
		formatOptional(r.OMCost),
		formatOptional(r.MarginalCost),
		strings.Join(r.CarrierIn, listSeparator),
		strings.Join(r.CarrierOut, listSeparator),
		joinFloats(r.ProfilesIn),
		joinFloats(r.ProfilesOut),
		option,
	}
}

// FormatFloat renders f in the shortest form that reads back exactly.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatOptional(f *float64) string {
	if f == nil {
		return ""
	}
	return FormatFloat(*f)
}

func joinFloats(fs []float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = FormatFloat(f)
	}
	return strings.Join(parts, listSeparator)
}
