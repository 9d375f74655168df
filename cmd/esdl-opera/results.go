// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/esdl-opera/internal/model"
	"github.com/pdiddy/esdl-opera/internal/results"
)

var resultsCmd = &cobra.Command{
	Use:   "results <model.yaml>",
	Short: "Write Opera capacities back into a model",
	Long: `Results reads the capacity report Opera produced, sets the rated
power of every matching asset, and writes the updated model. The model
description is marked and its version incremented.`,
	Args: cobra.ExactArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().String("output-dir", "", "directory containing the capacity report")
	resultsCmd.Flags().String("capacity-file", "", "capacity report file name")
	resultsCmd.Flags().String("out", "", "updated model path (default: <model>_opera.yaml)")
	bindFlag("results.output_dir", resultsCmd.Flags().Lookup("output-dir"))
	bindFlag("results.capacity_file", resultsCmd.Flags().Lookup("capacity-file"))

	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = strings.TrimSuffix(args[0], ".yaml") + "_opera.yaml"
	}

	es, tbl, err := parseModel(args[0])
	if err != nil {
		return err
	}

	p, err := results.NewProcessor(cfg.Results, es, tbl, logger)
	if err != nil {
		return err
	}
	summary, err := p.UpdateProductionCapacities()
	if err != nil {
		return err
	}

	if err := model.WriteFile(out, p.EnergySystem()); err != nil {
		return err
	}
	fmt.Printf("Updated %d assets (%d not found), version %s, written to %s\n",
		summary.Updated, summary.Missing, es.Version, out)
	return nil
}
