// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package taxonomy maps model assets and carriers onto the option and
// energy-carrier vocabulary of the planning database.
package taxonomy

import (
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/esdl-opera/internal/model"
)

// Option identifiers in the planning database. Some carry a leading or
// embedded space; they must match the database exactly.
const (
	OptionElectrolyser      = "H2 Large-scale electrolyser"
	OptionH2Car             = " H2 auto"
	OptionH2Van             = "H2 van"
	OptionH2Truck           = "H2 truck with energy consumption reduction"
	OptionTrafficDemand     = "REF Finale vraag verkeer th"
	OptionSMR               = "H2 uit SMR met CCS plus"
	OptionWindOnLand        = "Wind op Land band 1"
	OptionWindAtSea         = "Wind op Zee band 1"
	OptionSolarResidential  = "Solar-PV Residential"
	OptionElectricityImport = "REF E import Flexnet"
	OptionHydrogenImport    = "Import H2 to H2 domestic"
	OptionGasImport         = "REF Gaswinning en -import"
	OptionHydrogenExport    = "H2 domestic to export"
)

// rule maps assets of one type (and its subtypes) to an option.
type rule struct {
	typeName string
	apply    func(m *Mapper, a model.Asset) (string, bool)
}

// rules is checked in order; the first rule whose type matches decides.
var rules = []rule{
	{string(model.KindElectrolyzer), mapElectrolyzer},
	{string(model.KindMobilityDemand), mapMobilityDemand},
	{string(model.KindGasConversion), mapGasConversion},
	{string(model.KindWindTurbine), mapWindTurbine},
	{string(model.KindPVPanel), mapPVPanel},
	{string(model.KindImport), mapImport},
	{string(model.KindExport), mapExport},
}

// Mapper maps assets to planning-database options. Unmappable assets are
// reported as warnings on the logger, never as errors.
type Mapper struct {
	log *zap.Logger
}

// NewMapper returns a Mapper logging to log. A nil log discards output.
func NewMapper(log *zap.Logger) *Mapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mapper{log: log}
}

// Map returns the option equivalent to a, or false when there is none.
func (m *Mapper) Map(a model.Asset) (string, bool) {
	kind := a.Base().Kind
	for _, r := range rules {
		if model.IsA(kind, r.typeName) {
			return r.apply(m, a)
		}
	}
	m.unmapped(a, "no rule for asset type")
	return "", false
}

func (m *Mapper) unmapped(a model.Asset, reason string) {
	base := a.Base()
	m.log.Warn("cannot map asset to an Opera equivalent",
		zap.String("asset", base.Name),
		zap.String("type", string(base.Kind)),
		zap.String("reason", reason))
}

func mapElectrolyzer(_ *Mapper, _ model.Asset) (string, bool) {
	return OptionElectrolyser, true
}

func mapMobilityDemand(m *Mapper, a model.Asset) (string, bool) {
	md, ok := a.(*model.MobilityDemand)
	if !ok {
		m.unmapped(a, "mobility demand without fuel information")
		return "", false
	}
	if md.FuelType != model.FuelHydrogen {
		return OptionTrafficDemand, true
	}
	switch {
	case md.HasVehicle(model.VehicleCar):
		return OptionH2Car, true
	case md.HasVehicle(model.VehicleVan):
		return OptionH2Van, true
	case md.HasVehicle(model.VehicleTruck):
		return OptionH2Truck, true
	}
	m.unmapped(a, "no hydrogen option for vehicle types")
	return "", false
}

func mapGasConversion(m *Mapper, a model.Asset) (string, bool) {
	gc, ok := a.(*model.GasConversion)
	if ok && gc.Type == model.GasConversionATR {
		m.unmapped(a, "gas conversion type ATR")
		return "", false
	}
	return OptionSMR, true
}

func mapWindTurbine(m *Mapper, a model.Asset) (string, bool) {
	wt, ok := a.(*model.WindTurbine)
	if ok {
		switch wt.Type {
		case model.WindOnLand:
			return OptionWindOnLand, true
		case model.WindAtSea:
			return OptionWindAtSea, true
		}
	}
	m.log.Warn("unmapped wind turbine type, using offshore wind",
		zap.String("asset", a.Base().Name))
	return OptionWindAtSea, true
}

// TODO: map PV by sector once models carry sector information.
func mapPVPanel(_ *Mapper, _ model.Asset) (string, bool) {
	return OptionSolarResidential, true
}

func mapImport(m *Mapper, a model.Asset) (string, bool) {
	var carrier string
	for _, p := range a.Base().Ports {
		if p.Kind == model.OutPort && p.Carrier != nil {
			carrier = strings.ToLower(p.Carrier.Name)
		}
	}
	switch {
	case carrier == "":
		m.unmapped(a, "import without outgoing carrier")
	case strings.HasPrefix(carrier, "elec"):
		return OptionElectricityImport, true
	case hasAnyPrefix(carrier, "h2", "waterstof", "hydrogen"):
		return OptionHydrogenImport, true
	case hasAnyPrefix(carrier, "aardgas", "natural gas"):
		return OptionGasImport, true
	default:
		m.unmapped(a, "no import option for carrier "+carrier)
	}
	return "", false
}

func mapExport(_ *Mapper, _ model.Asset) (string, bool) {
	return OptionHydrogenExport, true
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
