// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/esdl-opera/internal/extract"
	"github.com/pdiddy/esdl-opera/internal/model"
	"github.com/pdiddy/esdl-opera/internal/table"
)

var parseCmd = &cobra.Command{
	Use:   "parse <model.yaml>",
	Short: "Extract the asset table from an energy-system model",
	Long: `Parse reads an energy-system model and builds one row per asset with
power in MW, costs in EUR, marginal costs in EUR/MWh, carriers, and port
profiles in PJ. Assets of excluded types are skipped.

The table is printed and written to the configured CSV file.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("output", "", "CSV output path (empty uses parse.output_csv)")
	parseCmd.Flags().StringSlice("exclude", nil, "asset types to skip (replaces parse.excluded_types)")
	parseCmd.Flags().String("format", "", "also export the table: yaml or json")
	parseCmd.Flags().Bool("quiet", false, "do not print the table")
	bindFlag("parse.output_csv", parseCmd.Flags().Lookup("output"))
	bindFlag("parse.excluded_types", parseCmd.Flags().Lookup("exclude"))

	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	quiet, _ := cmd.Flags().GetBool("quiet")

	es, tbl, err := parseModel(args[0])
	if err != nil {
		return err
	}

	if !quiet {
		tbl.Render(os.Stdout)
	}

	if cfg.Parse.OutputCSV != "" {
		if err := tbl.WriteCSVFile(cfg.Parse.OutputCSV); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", tbl.Len(), cfg.Parse.OutputCSV)
	}

	if format != "" {
		path, err := exportTable(tbl, cfg.Parse.OutputCSV, format)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported to %s\n", path)
	}

	fmt.Fprintf(os.Stderr, "Model %q: %d assets, %d rows\n", es.Name, len(es.Assets()), tbl.Len())
	return nil
}

// --- shared helpers ---

// parseModel loads the model at path and extracts its table.
func parseModel(path string) (*model.EnergySystem, *table.Table, error) {
	es, err := model.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	tbl, err := extract.NewParser(cfg.Parse, logger).Parse(es)
	if err != nil {
		return nil, nil, err
	}
	return es, tbl, nil
}

// exportTable writes tbl next to csvPath with the extension of format.
func exportTable(tbl *table.Table, csvPath, format string) (string, error) {
	base := csvPath
	if base == "" {
		base = "output.csv"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))

	switch format {
	case "yaml":
		path := base + ".yaml"
		return path, tbl.ExportYAML(path)
	case "json":
		path := base + ".json"
		return path, tbl.ExportJSON(path)
	default:
		return "", fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}
