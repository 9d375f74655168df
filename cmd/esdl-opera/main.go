// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the esdl-opera CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/esdl-opera/internal/logging"
	"github.com/pdiddy/esdl-opera/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg and logger are populated before any subcommand runs.
var (
	cfg    types.Config
	logger = zap.NewNop()
)

// rootCmd is the base command for the esdl-opera CLI.
var rootCmd = &cobra.Command{
	Use:   "esdl-opera",
	Short: "Bridge between energy-system models and the Opera planning database",
	Long: `esdl-opera moves data between an energy-system model and the Opera
planning model. It extracts a per-asset table of capacities, costs, carriers,
and profiles from a model, imports that table into an Opera database, and
writes the capacities Opera chose back into the model.

Each step is a subcommand: parse, import, and results.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := logging.New(cfg.Logging)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./esdl-opera.yaml or ~/.config/esdl-opera/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")
	bindFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	bindFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("esdl-opera")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "esdl-opera"))
		}
	}

	viper.SetEnvPrefix("ESDL_OPERA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(types.DefaultConfig())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so environment variables can override
// settings that appear in no config file.
func setDefaults(d types.Config) {
	viper.SetDefault("parse.excluded_types", d.Parse.ExcludedTypes)
	viper.SetDefault("parse.output_csv", d.Parse.OutputCSV)

	viper.SetDefault("import.database", d.Import.Database)
	viper.SetDefault("import.year", d.Import.Year)
	viper.SetDefault("import.scenario", d.Import.Scenario)
	viper.SetDefault("import.default_sector", d.Import.DefaultSector)
	viper.SetDefault("import.carrier_prefix", d.Import.CarrierPrefix)
	viper.SetDefault("import.activity_prefix", d.Import.ActivityPrefix)
	viper.SetDefault("import.reference_data", d.Import.ReferenceData)

	viper.SetDefault("results.output_dir", d.Results.OutputDir)
	viper.SetDefault("results.capacity_file", d.Results.CapacityFile)

	viper.SetDefault("logging.level", d.Logging.Level)
	viper.SetDefault("logging.format", d.Logging.Format)
	viper.SetDefault("logging.output", d.Logging.Output)
	viper.SetDefault("logging.development", d.Logging.Development)
}

func loadConfig() (types.Config, error) {
	c := types.DefaultConfig()
	if err := viper.Unmarshal(&c); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	return c, nil
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
