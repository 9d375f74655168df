package types

// LoggingConfig controls the zap logger built by the CLI.
type LoggingConfig struct {
	// Level is the minimum level: debug, info, warn, or error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is console or json.
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Output is stdout, stderr, or a file path.
	Output string `json:"output" yaml:"output" mapstructure:"output"`

	// Development enables caller and stack trace annotations.
	Development bool `json:"development" yaml:"development" mapstructure:"development"`
}

// ParseConfig holds settings for extracting the result table from a model.
type ParseConfig struct {
	// ExcludedTypes lists type names whose assets (and subtypes) are skipped.
	ExcludedTypes []string `json:"excluded_types" yaml:"excluded_types" mapstructure:"excluded_types"`

	// OutputCSV is the path of the delimited output file. Empty disables it.
	OutputCSV string `json:"output_csv" yaml:"output_csv" mapstructure:"output_csv"`
}

// ImportConfig holds settings for importing the result table into the
// planning database. It is passed by value to each import.
type ImportConfig struct {
	// Database is the path of the planning database file.
	Database string `json:"database" yaml:"database" mapstructure:"database"`

	// Year is the planning year rows are written for (default 2030).
	Year int `json:"year" yaml:"year" mapstructure:"year"`

	// Scenario names the planning scenario (default "MMvIB").
	Scenario string `json:"scenario" yaml:"scenario" mapstructure:"scenario"`

	// DefaultSector is the sector assigned to new options (default "Energie").
	DefaultSector string `json:"default_sector" yaml:"default_sector" mapstructure:"default_sector"`

	// CarrierPrefix is prepended to carrier names in the database (default "MMvIB_").
	CarrierPrefix string `json:"carrier_prefix" yaml:"carrier_prefix" mapstructure:"carrier_prefix"`

	// ActivityPrefix is prepended to consumer names to form activities (default "Activity_").
	ActivityPrefix string `json:"activity_prefix" yaml:"activity_prefix" mapstructure:"activity_prefix"`

	// ReferenceData is an optional YAML file of reference options loaded
	// into the database before importing.
	ReferenceData string `json:"reference_data" yaml:"reference_data" mapstructure:"reference_data"`
}

// ResultsConfig holds settings for reading planning results back.
type ResultsConfig struct {
	// OutputDir contains the capacity report.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// CapacityFile is the report file name inside OutputDir (default "Capacity.csv").
	CapacityFile string `json:"capacity_file" yaml:"capacity_file" mapstructure:"capacity_file"`
}

// Config groups all settings.
type Config struct {
	Parse   ParseConfig   `json:"parse" yaml:"parse" mapstructure:"parse"`
	Import  ImportConfig  `json:"import" yaml:"import" mapstructure:"import"`
	Results ResultsConfig `json:"results" yaml:"results" mapstructure:"results"`
	Logging LoggingConfig `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// DefaultExcludedTypes are the asset types the extraction skips.
var DefaultExcludedTypes = []string{"Transport", "Import", "Storage", "Export"}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		Parse: ParseConfig{
			ExcludedTypes: append([]string(nil), DefaultExcludedTypes...),
			OutputCSV:     "output.csv",
		},
		Import: ImportConfig{
			Database:       "opera.db",
			Year:           2030,
			Scenario:       "MMvIB",
			DefaultSector:  "Energie",
			CarrierPrefix:  "MMvIB_",
			ActivityPrefix: "Activity_",
		},
		Results: ResultsConfig{
			OutputDir:    ".",
			CapacityFile: "Capacity.csv",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
	}
}
