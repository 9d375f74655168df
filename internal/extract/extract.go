// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract walks an energy-system model and produces one normalized
// AssetRecord per asset: capacity range, power, efficiency, costs,
// carriers, single-value port profiles, and the mapped planning option.
//
// Hard failures (unit mismatches, unresolvable range constraints) abort
// the run. Soft failures (unmapped assets, non-single-value profiles) are
// logged and leave the affected field empty.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/esdl-opera/internal/model"
	"github.com/pdiddy/esdl-opera/internal/table"
	"github.com/pdiddy/esdl-opera/internal/taxonomy"
	"github.com/pdiddy/esdl-opera/internal/unit"
	"github.com/pdiddy/esdl-opera/pkg/types"
)

// ErrParse is returned when a requested ranged constraint cannot be found
// although the asset declares ranged constraints.
var ErrParse = errors.New("parse error")

// Output units of the result table.
var (
	PowerUnit        = unit.PowerInGW
	EnergyUnit       = unit.EnergyInPJ
	CostUnit         = unit.CostInMEur
	MarginalCostUnit = unit.CostInEurPerMWh

	// defaultRangeUnit applies to ranges without a declared unit.
	defaultRangeUnit = unit.PowerInW
	// sourcePowerUnit is the unit of the power attribute in models.
	sourcePowerUnit = unit.PowerInW
)

// Parser extracts result tables from models.
type Parser struct {
	cfg    types.ParseConfig
	mapper *taxonomy.Mapper
	log    *zap.Logger
}

// NewParser returns a Parser. A nil log discards diagnostics.
func NewParser(cfg types.ParseConfig, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{cfg: cfg, mapper: taxonomy.NewMapper(log), log: log}
}

// Excluded reports whether assets of kind are skipped by the parser.
func (p *Parser) Excluded(kind model.Kind) bool {
	for _, t := range p.cfg.ExcludedTypes {
		if model.IsA(kind, t) {
			return true
		}
	}
	return false
}

// Parse extracts a record for every non-excluded asset of es, in
// traversal order. The first hard error aborts the run.
func (p *Parser) Parse(es *model.EnergySystem) (*table.Table, error) {
	p.log.Info("normalizing model",
		zap.String("model", es.Name),
		zap.Stringer("power_unit", PowerUnit),
		zap.Stringer("energy_unit", EnergyUnit),
		zap.Stringer("cost_unit", CostUnit),
		zap.Stringer("marginal_cost_unit", MarginalCostUnit))

	t := table.New()
	for _, a := range es.Assets() {
		base := a.Base()
		if p.Excluded(base.Kind) {
			p.log.Debug("skipping excluded asset", zap.String("asset", base.Name), zap.String("type", string(base.Kind)))
			continue
		}
		rec, err := p.Extract(a)
		if err != nil {
			return nil, fmt.Errorf("extracting %s: %w", base.Name, err)
		}
		t.Append(rec)
	}
	p.log.Info("model normalized", zap.Int("records", t.Len()))
	return t, nil
}

// Extract builds the record of a single asset.
func (p *Parser) Extract(a model.Asset) (types.AssetRecord, error) {
	base := a.Base()
	p.log.Debug("converting asset", zap.String("asset", base.Name))

	category, _ := model.Category(base.Kind)
	rec := types.AssetRecord{
		ID:         base.ID,
		Category:   category,
		ESDLType:   string(base.Kind),
		Name:       base.Name,
		Efficiency: Efficiency(a),
	}

	lo, hi, err := p.Range(a, "power", PowerUnit)
	if err != nil {
		return types.AssetRecord{}, err
	}
	rec.PowerMin, rec.PowerMax = lo, hi

	if rec.Power, err = Power(a, PowerUnit); err != nil {
		return types.AssetRecord{}, err
	}
	if rec.OMCost, rec.InvestmentCost, rec.MarginalCost, err = p.Costs(a); err != nil {
		return types.AssetRecord{}, err
	}
	rec.CarrierIn, rec.CarrierOut = Carriers(a)
	if rec.ProfilesIn, rec.ProfilesOut, err = p.PortProfiles(a, EnergyUnit); err != nil {
		return types.AssetRecord{}, err
	}

	if option, ok := p.mapper.Map(a); ok {
		rec.OperaEquivalent = &option
	}
	return rec, nil
}

// Range finds the ranged constraint on attribute (case-insensitive) and
// returns its bounds converted to target. Both bounds are nil when the
// asset has no ranged constraints. A range without a unit is read as
// plain watts.
func (p *Parser) Range(a model.Asset, attribute string, target unit.QuantityAndUnit) (*float64, *float64, error) {
	base := a.Base()
	var ranged bool
	for _, c := range base.Constraints {
		if c.Type != model.RangedConstraint || c.Range == nil {
			continue
		}
		ranged = true
		if !strings.EqualFold(c.AttributeReference, attribute) {
			continue
		}

		from := c.Range.Unit
		if from == nil {
			p.log.Warn("no unit specified for range constraint, assuming WATT",
				zap.String("asset", base.Name))
			u := defaultRangeUnit
			from = &u
		}
		lo, err := unit.Convert(c.Range.Min, from, target)
		if err != nil {
			return nil, nil, fmt.Errorf("range minimum: %w", err)
		}
		hi, err := unit.Convert(c.Range.Max, from, target)
		if err != nil {
			return nil, nil, fmt.Errorf("range maximum: %w", err)
		}
		return &lo, &hi, nil
	}
	if ranged {
		return nil, nil, fmt.Errorf("%w: no ranged constraint for attribute %q on asset %s", ErrParse, attribute, base.Name)
	}
	return nil, nil, nil
}

// Power returns the asset's power attribute converted to target, or nil
// when the asset has no power attribute or it is zero.
func Power(a model.Asset, target unit.QuantityAndUnit) (*float64, error) {
	pr, ok := a.(model.PowerRated)
	if !ok || pr.RatedPower() == 0 {
		return nil, nil
	}
	from := sourcePowerUnit
	v, err := unit.Convert(pr.RatedPower(), &from, target)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Efficiency returns the conversion efficiency, 1.0 for assets without one.
func Efficiency(a model.Asset) float64 {
	if e, ok := a.(model.Efficient); ok {
		return e.ConversionEfficiency()
	}
	return 1.0
}

// Costs returns the O&M, investment, and marginal cost of a, each nil when
// the asset has no such profile or the profile is not a single value.
func (p *Parser) Costs(a model.Asset) (om, investment, marginal *float64, err error) {
	ci := a.Base().CostInformation
	if ci == nil {
		return nil, nil, nil, nil
	}
	if om, err = p.cost(a, ci.FixedOperationalAndMaintenanceCosts, CostUnit); err != nil {
		return nil, nil, nil, fmt.Errorf("O&M costs: %w", err)
	}
	if investment, err = p.cost(a, ci.InvestmentCosts, CostUnit); err != nil {
		return nil, nil, nil, fmt.Errorf("investment costs: %w", err)
	}
	if marginal, err = p.cost(a, ci.MarginalCosts, MarginalCostUnit); err != nil {
		return nil, nil, nil, fmt.Errorf("marginal costs: %w", err)
	}
	return om, investment, marginal, nil
}

func (p *Parser) cost(a model.Asset, profile *model.Profile, target unit.QuantityAndUnit) (*float64, error) {
	if profile == nil {
		return nil, nil
	}
	v, ok := p.SingleValue(a, profile)
	if !ok {
		return nil, nil
	}
	converted, err := unit.Convert(v, profile.Unit, target)
	if err != nil {
		return nil, err
	}
	return &converted, nil
}

// SingleValue returns the value of a single-value profile. Other profile
// types are logged and yield false.
func (p *Parser) SingleValue(a model.Asset, profile *model.Profile) (float64, bool) {
	if profile.IsSingleValue() {
		return profile.Value, true
	}
	name := ""
	if profile != nil {
		name = profile.Name
	}
	p.log.Warn("cannot convert profile to a SingleValue",
		zap.String("asset", a.Base().Name),
		zap.String("profile", name))
	return 0, false
}

// Carriers returns the carrier names of a's inbound and outbound ports.
// Ports without a carrier are ignored.
func Carriers(a model.Asset) (in, out []string) {
	for _, port := range a.Base().Ports {
		if port.Carrier == nil {
			continue
		}
		if port.Kind == model.InPort {
			in = append(in, port.Carrier.Name)
		} else {
			out = append(out, port.Carrier.Name)
		}
	}
	return in, out
}

// PortProfiles returns the single-value profiles of a's inbound and
// outbound ports converted to target. Only the first profile of each port
// is considered.
func (p *Parser) PortProfiles(a model.Asset, target unit.QuantityAndUnit) (in, out []float64, err error) {
	for _, port := range a.Base().Ports {
		if len(port.Profiles) == 0 {
			continue
		}
		profile := port.Profiles[0]
		if !profile.IsSingleValue() {
			continue
		}
		v, err := unit.Convert(profile.Value, profile.Unit, target)
		if err != nil {
			return nil, nil, fmt.Errorf("profile of port %s: %w", port.ID, err)
		}
		if port.Kind == model.InPort {
			in = append(in, v)
		} else {
			out = append(out, v)
		}
	}
	return in, out, nil
}
