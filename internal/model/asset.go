// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import "github.com/pdiddy/esdl-opera/internal/unit"

// PortKind distinguishes inbound from outbound ports.
type PortKind string

const (
	InPort  PortKind = "InPort"
	OutPort PortKind = "OutPort"
)

// Carrier is a named energy medium.
type Carrier struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ProfileType identifies how a profile stores its data.
type ProfileType string

const (
	ProfileSingleValue ProfileType = "SingleValue"
	ProfileDateTime    ProfileType = "DateTimeProfile"
	ProfileInfluxDB    ProfileType = "InfluxDBProfile"
)

// Profile is a value or time series attached to a port or cost block.
// Only single-value profiles carry Value.
type Profile struct {
	Type  ProfileType           `json:"type" yaml:"type"`
	Name  string                `json:"name,omitempty" yaml:"name,omitempty"`
	Value float64               `json:"value,omitempty" yaml:"value,omitempty"`
	Unit  *unit.QuantityAndUnit `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// IsSingleValue reports whether p holds a single fixed value.
func (p *Profile) IsSingleValue() bool {
	return p != nil && p.Type == ProfileSingleValue
}

// Port connects an asset to a carrier.
type Port struct {
	ID       string
	Name     string
	Kind     PortKind
	Carrier  *Carrier
	Profiles []Profile
}

// ConstraintType identifies a constraint variant.
type ConstraintType string

const (
	RangedConstraint ConstraintType = "RangedConstraint"
	OtherConstraint  ConstraintType = "Constraint"
)

// Range bounds an attribute. Unit is nil when the model omits it.
type Range struct {
	Min  float64               `json:"min" yaml:"min"`
	Max  float64               `json:"max" yaml:"max"`
	Unit *unit.QuantityAndUnit `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// Constraint restricts an attribute of an asset.
type Constraint struct {
	Type               ConstraintType `json:"type" yaml:"type"`
	Name               string         `json:"name,omitempty" yaml:"name,omitempty"`
	AttributeReference string         `json:"attributeReference,omitempty" yaml:"attributeReference,omitempty"`
	Range              *Range         `json:"range,omitempty" yaml:"range,omitempty"`
}

// CostInformation groups the cost profiles of an asset.
type CostInformation struct {
	FixedOperationalAndMaintenanceCosts *Profile `json:"fixedOperationalAndMaintenanceCosts,omitempty" yaml:"fixedOperationalAndMaintenanceCosts,omitempty"`
	InvestmentCosts                     *Profile `json:"investmentCosts,omitempty" yaml:"investmentCosts,omitempty"`
	MarginalCosts                       *Profile `json:"marginalCosts,omitempty" yaml:"marginalCosts,omitempty"`
}

// EnergyAsset holds the attributes shared by every asset variant.
type EnergyAsset struct {
	ID              string
	Name            string
	Kind            Kind
	Ports           []Port
	Constraints     []Constraint
	CostInformation *CostInformation
}

// Base returns the shared attributes. Variants inherit it by embedding.
func (a *EnergyAsset) Base() *EnergyAsset { return a }

// Asset is implemented by every asset variant.
type Asset interface {
	Base() *EnergyAsset
}

// PowerRated is implemented by variants with a power attribute (in W).
type PowerRated interface {
	Asset
	RatedPower() float64
	SetRatedPower(watts float64)
}

// Efficient is implemented by variants with a conversion efficiency.
type Efficient interface {
	Asset
	ConversionEfficiency() float64
}

// Rating is embedded by variants that carry a power attribute.
type Rating struct {
	Power float64
}

func (r *Rating) RatedPower() float64 { return r.Power }

func (r *Rating) SetRatedPower(watts float64) { r.Power = watts }

// Producer covers generic producers and imports.
type Producer struct {
	EnergyAsset
	Rating
}

// WindTurbineType discriminates wind turbine siting.
type WindTurbineType string

const (
	WindTurbineUndefined WindTurbineType = ""
	WindOnLand           WindTurbineType = "WIND_ON_LAND"
	WindAtSea            WindTurbineType = "WIND_AT_SEA"
	WindOnCoast          WindTurbineType = "WIND_ON_COAST"
)

// WindTurbine covers wind turbines and wind parks.
type WindTurbine struct {
	EnergyAsset
	Rating
	Type WindTurbineType
}

// PVPanel covers PV panels, parks, and installations.
type PVPanel struct {
	EnergyAsset
	Rating
}

// Consumer covers demands without discriminators and exports.
type Consumer struct {
	EnergyAsset
	Rating
}

// MobilityFuelType is the fuel used by a mobility demand.
type MobilityFuelType string

const (
	FuelUndefined   MobilityFuelType = ""
	FuelHydrogen    MobilityFuelType = "HYDROGEN"
	FuelElectricity MobilityFuelType = "ELECTRICITY"
	FuelDiesel      MobilityFuelType = "DIESEL"
	FuelGasoline    MobilityFuelType = "GASOLINE"
	FuelLNG         MobilityFuelType = "LNG"
)

// VehicleType is a vehicle class served by a mobility demand.
type VehicleType string

const (
	VehicleCar   VehicleType = "CAR"
	VehicleVan   VehicleType = "VAN"
	VehicleTruck VehicleType = "TRUCK"
	VehicleBus   VehicleType = "BUS"
)

// MobilityDemand is a transport demand for one fuel and a set of vehicles.
type MobilityDemand struct {
	EnergyAsset
	Rating
	FuelType     MobilityFuelType
	VehicleTypes []VehicleType
}

// HasVehicle reports whether v is among the demand's vehicle types.
func (m *MobilityDemand) HasVehicle(v VehicleType) bool {
	for _, t := range m.VehicleTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Conversion covers basic conversions with a single efficiency.
type Conversion struct {
	EnergyAsset
	Rating
	Efficiency float64
}

func (c *Conversion) ConversionEfficiency() float64 { return c.Efficiency }

// GasConversionType discriminates gas conversion processes.
type GasConversionType string

const (
	GasConversionUndefined GasConversionType = ""
	GasConversionSMR       GasConversionType = "SMR"
	GasConversionATR       GasConversionType = "ATR"
)

// GasConversion is a conversion of gas to hydrogen.
type GasConversion struct {
	Conversion
	Type GasConversionType
}

// HeatPump reports a coefficient of performance instead of an efficiency.
type HeatPump struct {
	EnergyAsset
	Rating
	COP float64
}

// Storage covers batteries and gas and heat storages.
type Storage struct {
	EnergyAsset
	Capacity float64
}

// Transport covers pipes and cables.
type Transport struct {
	EnergyAsset
	Capacity float64
}

// newAsset creates an empty variant for each concrete kind.
var newAsset = map[Kind]func() Asset{
	KindGenericProducer:   func() Asset { return &Producer{} },
	KindImport:            func() Asset { return &Producer{} },
	KindWindTurbine:       func() Asset { return &WindTurbine{} },
	KindWindPark:          func() Asset { return &WindTurbine{} },
	KindPVPanel:           func() Asset { return &PVPanel{} },
	KindPVPark:            func() Asset { return &PVPanel{} },
	KindPVInstallation:    func() Asset { return &PVPanel{} },
	KindElectricityDemand: func() Asset { return &Consumer{} },
	KindHeatingDemand:     func() Asset { return &Consumer{} },
	KindGenericConsumer:   func() Asset { return &Consumer{} },
	KindExport:            func() Asset { return &Consumer{} },
	KindMobilityDemand:    func() Asset { return &MobilityDemand{} },
	KindGenericConversion: func() Asset { return &Conversion{} },
	KindElectrolyzer:      func() Asset { return &Conversion{} },
	KindFuelCell:          func() Asset { return &Conversion{} },
	KindGasConversion:     func() Asset { return &GasConversion{} },
	KindHeatPump:          func() Asset { return &HeatPump{} },
	KindBattery:           func() Asset { return &Storage{} },
	KindGasStorage:        func() Asset { return &Storage{} },
	KindHeatStorage:       func() Asset { return &Storage{} },
	KindPipe:              func() Asset { return &Transport{} },
	KindElectricityCable:  func() Asset { return &Transport{} },
}

// New returns an empty asset of the given kind with id and name set.
// It returns false for an unknown kind.
func New(kind Kind, id, name string) (Asset, bool) {
	ctor, ok := newAsset[kind]
	if !ok {
		return nil, false
	}
	a := ctor()
	base := a.Base()
	base.ID = id
	base.Name = name
	base.Kind = kind
	return a, true
}
