// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package results feeds the capacities chosen by the planning model back
// into the energy-system model the result table was extracted from.
package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/pdiddy/esdl-opera/internal/model"
	"github.com/pdiddy/esdl-opera/internal/table"
	"github.com/pdiddy/esdl-opera/internal/unit"
	"github.com/pdiddy/esdl-opera/pkg/types"
)

// ErrMalformedReport is returned when the capacity report cannot be read.
var ErrMalformedReport = errors.New("malformed capacity report")

// DescriptionSuffix is appended to the description of processed models.
const DescriptionSuffix = "\nIncluding Opera results"

// Report columns.
const (
	columnOption   = "Option"
	columnCapacity = "Capacity"
)

// reportUnit is the unit of the Capacity column.
var reportUnit = unit.PowerInGW

// Summary holds counts from applying a capacity report.
type Summary struct {
	Updated int
	Missing int
}

// Processor applies planning results to an energy system.
type Processor struct {
	cfg   types.ResultsConfig
	es    *model.EnergySystem
	table *table.Table
	log   *zap.Logger
}

// NewProcessor prepares es for receiving results: its description gains
// DescriptionSuffix and its version is incremented by one. tbl is the
// table that was extracted from es. A nil log discards diagnostics.
func NewProcessor(cfg types.ResultsConfig, es *model.EnergySystem, tbl *table.Table, log *zap.Logger) (*Processor, error) {
	if log == nil {
		log = zap.NewNop()
	}
	version, err := nextVersion(es.Version)
	if err != nil {
		return nil, err
	}
	es.Description += DescriptionSuffix
	es.Version = version
	return &Processor{cfg: cfg, es: es, table: tbl, log: log}, nil
}

// nextVersion increments a numeric version by one. The result always has a
// fractional part, so "1" becomes "2.0". An empty version counts as zero.
func nextVersion(v string) (string, error) {
	current := decimal.Zero
	if strings.TrimSpace(v) != "" {
		var err error
		if current, err = decimal.NewFromString(strings.TrimSpace(v)); err != nil {
			return "", fmt.Errorf("energy system version %q is not numeric: %w", v, err)
		}
	}
	next := current.Add(decimal.NewFromInt(1))
	if next.IsInteger() {
		return next.StringFixed(1), nil
	}
	return next.String(), nil
}

// EnergySystem returns the model being updated.
func (p *Processor) EnergySystem() *model.EnergySystem {
	return p.es
}

// ReportPath is the location of the capacity report.
func (p *Processor) ReportPath() string {
	return filepath.Join(p.cfg.OutputDir, p.cfg.CapacityFile)
}

// UpdateProductionCapacities reads the capacity report and sets the power
// of every asset whose table row name appears in it.
func (p *Processor) UpdateProductionCapacities() (Summary, error) {
	path := p.ReportPath()
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("opening capacity report: %w", err)
	}
	defer f.Close()

	capacities, err := ReadCapacities(f)
	if err != nil {
		return Summary{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return p.Apply(capacities), nil
}

// Apply sets the power of assets from capacities in GW, keyed by option
// name. Assets that cannot be found or carry no power attribute are
// logged and counted as missing.
func (p *Processor) Apply(capacities map[string]float64) Summary {
	var s Summary
	for _, r := range p.table.Rows() {
		gw, ok := capacities[r.Name]
		if !ok {
			continue
		}
		p.log.Info("found updated capacity",
			zap.String("asset", r.Name),
			zap.Float64("capacity_gw", gw),
			zap.Float64p("power_min_gw", r.PowerMin),
			zap.Float64p("power_max_gw", r.PowerMax))

		a, found := p.es.AssetByID(r.ID)
		pr, rated := a.(model.PowerRated)
		if !found || !rated {
			p.log.Error("cannot find asset with a power attribute in the model",
				zap.String("asset", r.Name), zap.String("id", r.ID))
			s.Missing++
			continue
		}

		watts, err := unit.Convert(gw, &reportUnit, unit.PowerInW)
		if err != nil {
			p.log.Error("cannot convert capacity", zap.String("asset", r.Name), zap.Error(err))
			s.Missing++
			continue
		}
		pr.SetRatedPower(watts)
		s.Updated++
	}
	return s
}

// ReadCapacities parses a Latin-1 encoded capacity report with the columns
// Regions, Option, Variant, Construction year, View year, and Capacity.
// The Option column holds an option number and name separated by a space;
// the result maps option names to capacities in GW.
func ReadCapacities(r io.Reader) (map[string]float64, error) {
	cr := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformedReport, err)
	}
	optionCol, capacityCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case columnOption:
			optionCol = i
		case columnCapacity:
			capacityCol = i
		}
	}
	if optionCol < 0 || capacityCol < 0 {
		return nil, fmt.Errorf("%w: missing %s or %s column", ErrMalformedReport, columnOption, columnCapacity)
	}

	capacities := make(map[string]float64)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
		}
		if optionCol >= len(record) || capacityCol >= len(record) {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrMalformedReport, line, len(record))
		}

		_, name, _ := strings.Cut(record[optionCol], " ")
		value, err := strconv.ParseFloat(strings.TrimSpace(record[capacityCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: capacity %q: %v", ErrMalformedReport, line, record[capacityCol], err)
		}
		if _, dup := capacities[name]; dup {
			return nil, fmt.Errorf("%w: line %d: option %q appears more than once", ErrMalformedReport, line, name)
		}
		capacities[name] = value
	}
	return capacities, nil
}
