// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/esdl-opera/internal/opera"
)

var importCmd = &cobra.Command{
	Use:   "import <model.yaml>",
	Short: "Import the asset table of a model into an Opera database",
	Long: `Import extracts the asset table from a model and writes it into the
Opera database: energy carriers with prices, activities with baseline
demand, options copied from their reference option, and the variants,
costs, energy use, and capacity bounds of each option.

Rows that already exist are left untouched, so importing twice is safe.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the options in an Opera database",
	Long: `Export writes every option with its variants, costs, and capacity
bounds. The YAML output can be loaded as reference data with --reference.`,
	Args: cobra.NoArgs,
	RunE: runImportExport,
}

func init() {
	importCmd.PersistentFlags().String("db", "", "Opera database file (empty uses import.database)")
	importCmd.Flags().String("reference", "", "YAML file of reference options to load first")
	importCmd.Flags().Int("year", 0, "planning year")
	importCmd.Flags().String("scenario", "", "planning scenario")
	bindFlag("import.database", importCmd.PersistentFlags().Lookup("db"))
	bindFlag("import.reference_data", importCmd.Flags().Lookup("reference"))
	bindFlag("import.year", importCmd.Flags().Lookup("year"))
	bindFlag("import.scenario", importCmd.Flags().Lookup("scenario"))

	importExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	importExportCmd.Flags().String("out", "", "output path (default: options.<format>)")

	importCmd.AddCommand(importExportCmd)
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	_, tbl, err := parseModel(args[0])
	if err != nil {
		return err
	}

	store, err := opera.NewStore(cfg.Import.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if cfg.Import.ReferenceData != "" {
		n, err := store.LoadReferenceFile(ctx, cfg.Import.ReferenceData)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Loaded %d reference options from %s\n", n, cfg.Import.ReferenceData)
	}

	summary, err := opera.NewImporter(store, cfg.Import, logger).Import(ctx, tbl)
	if err != nil {
		return err
	}
	fmt.Printf("Imported %d rows into %s: %d inserted, %d already present\n",
		tbl.Len(), cfg.Import.Database, summary.Inserted, summary.Skipped)
	return nil
}

func runImportExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = "options." + format
	}

	store, err := opera.NewStore(cfg.Import.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	switch format {
	case "yaml":
		err = store.ExportYAML(context.Background(), out)
	case "json":
		err = store.ExportJSON(context.Background(), out)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", out)
	return nil
}
