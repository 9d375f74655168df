// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package opera

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"go.yaml.in/yaml/v3"
)

// Option is a planning option with its variants, costs, and capacity
// bounds. Reference options are loaded from YAML; imported assets become
// new options that copy the reference they are mapped to.
type Option struct {
	Nr                int64           `json:"nr,omitempty" yaml:"nr,omitempty"`
	Name              string          `json:"name" yaml:"name"`
	Description       string          `json:"description,omitempty" yaml:"description,omitempty"`
	Sector            string          `json:"sector,omitempty" yaml:"sector,omitempty"`
	CapacityUnit      string          `json:"capacity_unit,omitempty" yaml:"capacity_unit,omitempty"`
	ActivityUnit      string          `json:"activity_unit,omitempty" yaml:"activity_unit,omitempty"`
	Cap2Act           decimal.Decimal `json:"cap2act" yaml:"cap2act"`
	Lifetime          float64         `json:"lifetime,omitempty" yaml:"lifetime,omitempty"`
	OptionUnlimited   bool            `json:"option_unlimited,omitempty" yaml:"option_unlimited,omitempty"`
	CapacityUnlimited bool            `json:"capacity_unlimited,omitempty" yaml:"capacity_unlimited,omitempty"`

	Variants   []Variant       `json:"variants,omitempty" yaml:"variants,omitempty"`
	Costs      []Cost          `json:"costs,omitempty" yaml:"costs,omitempty"`
	Capacities []CapacityBound `json:"capacities,omitempty" yaml:"capacities,omitempty"`
}

// Variant is an available variant of an option.
type Variant struct {
	Variant   int  `json:"variant" yaml:"variant"`
	Available bool `json:"available" yaml:"available"`
}

// Cost holds the costs of one option variant in one year.
type Cost struct {
	Variant    int      `json:"variant" yaml:"variant"`
	Year       int      `json:"year" yaml:"year"`
	Investment float64  `json:"investment" yaml:"investment"`
	OM         float64  `json:"o_m" yaml:"o_m"`
	Variable   *float64 `json:"variable,omitempty" yaml:"variable,omitempty"`
}

// CapacityBound limits the total capacity of an option in a year and
// scenario. A nil Max is unbounded.
type CapacityBound struct {
	Year     int      `json:"year" yaml:"year"`
	Scenario string   `json:"scenario" yaml:"scenario"`
	Max      *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Min      float64  `json:"min" yaml:"min"`
	MaxCount *float64 `json:"max_count,omitempty" yaml:"max_count,omitempty"`
	MinCount *float64 `json:"min_count,omitempty" yaml:"min_count,omitempty"`
}

// LoadReferenceFile reads reference options from a YAML file and adds the
// ones not yet present. It returns the number of options added.
func (s *Store) LoadReferenceFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading reference data %s: %w", path, err)
	}
	var options []Option
	if err := yaml.Unmarshal(data, &options); err != nil {
		return 0, fmt.Errorf("parsing reference data %s: %w", path, err)
	}
	return s.AddOptions(ctx, options)
}

// AddOptions adds options with their child rows, skipping options whose
// name already exists. It returns the number of options added.
func (s *Store) AddOptions(ctx context.Context, options []Option) (int, error) {
	added := 0
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for _, o := range options {
			_, found, err := optionNr(ctx, tx, o.Name)
			if err != nil {
				return err
			}
			if found {
				continue
			}
			nr, err := insertOption(ctx, tx, o)
			if err != nil {
				return err
			}
			if err := insertChildren(ctx, tx, nr, o); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	return added, err
}

func insertChildren(ctx context.Context, tx *sql.Tx, nr int64, o Option) error {
	for _, v := range o.Variants {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+tableVariants+` (Nr, Variant, Beschikbaar) VALUES (?, ?, ?)`,
			nr, v.Variant, v.Available,
		); err != nil {
			return fmt.Errorf("inserting variant %d of %q: %w", v.Variant, o.Name, err)
		}
	}
	for _, c := range o.Costs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+tableCosts+` (Nr, Variant, Jaar, Investeringskosten,
				"Overig operationeel kosten/baten", "Variabele kosten")
			VALUES (?, ?, ?, ?, ?, ?)`,
			nr, c.Variant, c.Year, c.Investment, c.OM, c.Variable,
		); err != nil {
			return fmt.Errorf("inserting costs of %q: %w", o.Name, err)
		}
	}
	for _, b := range o.Capacities {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+tableCapacities+` (Categorie, Jaar, Scenario, "Max totale capaciteit",
				"Min totale capaciteit", "Max aantal", "Min aantal")
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			nr, b.Year, b.Scenario, b.Max, b.Min, b.MaxCount, b.MinCount,
		); err != nil {
			return fmt.Errorf("inserting capacity bounds of %q: %w", o.Name, err)
		}
	}
	return nil
}

// Options returns every option with its child rows, ordered by number.
func (s *Store) Options(ctx context.Context) ([]Option, error) {
	var options []Option
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT "Naam optie" FROM `+tableOptions+` ORDER BY Nr`)
		if err != nil {
			return fmt.Errorf("listing options: %w", err)
		}
		var names []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				rows.Close()
				return fmt.Errorf("scanning option: %w", err)
			}
			names = append(names, name)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterating options: %w", err)
		}

		for _, name := range names {
			o, err := optionByName(ctx, tx, name)
			if err != nil {
				return err
			}
			if err := loadChildren(ctx, tx, o); err != nil {
				return err
			}
			options = append(options, *o)
		}
		return nil
	})
	return options, err
}

func loadChildren(ctx context.Context, tx *sql.Tx, o *Option) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT Variant, Beschikbaar FROM `+tableVariants+` WHERE Nr = ? ORDER BY Variant`, o.Nr)
	if err != nil {
		return fmt.Errorf("loading variants of %q: %w", o.Name, err)
	}
	for rows.Next() {
		var v Variant
		if err := rows.Scan(&v.Variant, &v.Available); err != nil {
			rows.Close()
			return fmt.Errorf("scanning variant: %w", err)
		}
		o.Variants = append(o.Variants, v)
	}
	rows.Close()

	rows, err = tx.QueryContext(ctx,
		`SELECT Variant, Jaar, COALESCE(Investeringskosten, 0), COALESCE("Overig operationeel kosten/baten", 0),
			"Variabele kosten"
		FROM `+tableCosts+` WHERE Nr = ? ORDER BY Jaar, Variant`, o.Nr)
	if err != nil {
		return fmt.Errorf("loading costs of %q: %w", o.Name, err)
	}
	for rows.Next() {
		var (
			c        Cost
			variable sql.NullFloat64
		)
		if err := rows.Scan(&c.Variant, &c.Year, &c.Investment, &c.OM, &variable); err != nil {
			rows.Close()
			return fmt.Errorf("scanning costs: %w", err)
		}
		c.Variable = nullable(variable)
		o.Costs = append(o.Costs, c)
	}
	rows.Close()

	rows, err = tx.QueryContext(ctx,
		`SELECT Jaar, Scenario, "Max totale capaciteit", COALESCE("Min totale capaciteit", 0),
			"Max aantal", "Min aantal"
		FROM `+tableCapacities+` WHERE Categorie = ? ORDER BY Jaar, Scenario`, o.Nr)
	if err != nil {
		return fmt.Errorf("loading capacity bounds of %q: %w", o.Name, err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			b                  CapacityBound
			maxCap, maxN, minN sql.NullFloat64
		)
		if err := rows.Scan(&b.Year, &b.Scenario, &maxCap, &b.Min, &maxN, &minN); err != nil {
			return fmt.Errorf("scanning capacity bounds: %w", err)
		}
		b.Max, b.MaxCount, b.MinCount = nullable(maxCap), nullable(maxN), nullable(minN)
		o.Capacities = append(o.Capacities, b)
	}
	return rows.Err()
}

func nullable(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// ExportYAML writes every option to path as YAML in the reference data
// format, so an exported database can seed another one.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	options, err := s.Options(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(options)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every option to path as JSON.
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	options, err := s.Options(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(options, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
