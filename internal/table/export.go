// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/esdl-opera/pkg/types"
)

// WriteCSV writes a header row with the column names followed by one row
// per record.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(types.Columns); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range t.rows {
		if err := cw.Write(Cells(r)); err != nil {
			return fmt.Errorf("writing CSV row %s: %w", r.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the table as CSV to path.
func (t *Table) WriteCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportYAML writes the records, including identifiers, as YAML to path.
func (t *Table) ExportYAML(path string) error {
	data, err := yaml.Marshal(t.Rows())
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the records, including identifiers, as JSON to path.
func (t *Table) ExportJSON(path string) error {
	data, err := json.MarshalIndent(t.Rows(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Render prints the table for a terminal.
func (t *Table) Render(w io.Writer) {
	if len(t.rows) == 0 {
		fmt.Fprintln(w, "(0 rows)")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)

	header := make(table.Row, len(types.Columns))
	for i, c := range types.Columns {
		header[i] = c
	}
	tw.AppendHeader(header)

	for _, r := range t.rows {
		cells := Cells(r)
		row := make(table.Row, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		tw.AppendRow(row)
	}
	tw.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(t.rows))
}
