// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

var (
	// ErrUnknownAssetType is returned when a model names an asset type
	// outside the known hierarchy.
	ErrUnknownAssetType = errors.New("unknown asset type")

	// ErrUnknownCarrier is returned when a port references a carrier that
	// the energy system does not declare.
	ErrUnknownCarrier = errors.New("unknown carrier")

	// ErrInvalidModel is returned for structurally invalid model content.
	ErrInvalidModel = errors.New("invalid model")
)

// document is the YAML form of an energy system.
type document struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description,omitempty"`
	Version     string     `yaml:"version,omitempty"`
	Carriers    []Carrier  `yaml:"carriers,omitempty"`
	Assets      []assetDoc `yaml:"assets"`
}

type assetDoc struct {
	Type              Kind              `yaml:"type"`
	ID                string            `yaml:"id"`
	Name              string            `yaml:"name"`
	Power             *float64          `yaml:"power,omitempty"`
	Efficiency        *float64          `yaml:"efficiency,omitempty"`
	COP               *float64          `yaml:"cop,omitempty"`
	Capacity          *float64          `yaml:"capacity,omitempty"`
	WindTurbineType   WindTurbineType   `yaml:"windTurbineType,omitempty"`
	GasConversionType GasConversionType `yaml:"gasConversionType,omitempty"`
	FuelType          MobilityFuelType  `yaml:"fuelType,omitempty"`
	VehicleTypes      []VehicleType     `yaml:"vehicleTypes,omitempty"`
	Ports             []portDoc         `yaml:"ports,omitempty"`
	Constraints       []Constraint      `yaml:"constraints,omitempty"`
	CostInformation   *CostInformation  `yaml:"costInformation,omitempty"`
}

type portDoc struct {
	Kind     PortKind  `yaml:"kind"`
	ID       string    `yaml:"id,omitempty"`
	Name     string    `yaml:"name,omitempty"`
	Carrier  string    `yaml:"carrier,omitempty"`
	Profiles []Profile `yaml:"profiles,omitempty"`
}

// LoadFile reads a YAML model description from path.
func LoadFile(path string) (*EnergySystem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a YAML model description and resolves carrier references.
func Load(r io.Reader) (*EnergySystem, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing model: %w", err)
	}

	es := NewEnergySystem(doc.ID, doc.Name)
	es.Description = doc.Description
	es.Version = doc.Version
	es.Carriers = doc.Carriers

	for i, ad := range doc.Assets {
		a, err := buildAsset(es, ad)
		if err != nil {
			return nil, fmt.Errorf("asset %d (%s): %w", i, ad.Name, err)
		}
		es.Add(a)
	}
	return es, nil
}

func buildAsset(es *EnergySystem, ad assetDoc) (Asset, error) {
	a, ok := New(ad.Type, ad.ID, ad.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAssetType, ad.Type)
	}

	base := a.Base()
	base.Constraints = ad.Constraints
	base.CostInformation = ad.CostInformation
	for _, c := range ad.Constraints {
		if c.Type == RangedConstraint && c.Range == nil {
			return nil, fmt.Errorf("%w: ranged constraint %q has no range", ErrInvalidModel, c.Name)
		}
	}

	for _, pd := range ad.Ports {
		if pd.Kind != InPort && pd.Kind != OutPort {
			return nil, fmt.Errorf("%w: port %q has kind %q", ErrInvalidModel, pd.ID, pd.Kind)
		}
		p := Port{ID: pd.ID, Name: pd.Name, Kind: pd.Kind, Profiles: pd.Profiles}
		if pd.Carrier != "" {
			c, ok := es.CarrierByID(pd.Carrier)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownCarrier, pd.Carrier)
			}
			p.Carrier = c
		}
		base.Ports = append(base.Ports, p)
	}

	switch v := a.(type) {
	case *WindTurbine:
		v.Type = ad.WindTurbineType
	case *GasConversion:
		v.Type = ad.GasConversionType
		v.Efficiency = deref(ad.Efficiency)
	case *MobilityDemand:
		v.FuelType = ad.FuelType
		v.VehicleTypes = ad.VehicleTypes
	case *Conversion:
		v.Efficiency = deref(ad.Efficiency)
	case *HeatPump:
		v.COP = deref(ad.COP)
	case *Storage:
		v.Capacity = deref(ad.Capacity)
	case *Transport:
		v.Capacity = deref(ad.Capacity)
	}
	if pr, ok := a.(PowerRated); ok {
		pr.SetRatedPower(deref(ad.Power))
	}
	return a, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// WriteFile encodes es as YAML to path.
func WriteFile(path string, es *EnergySystem) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating model %s: %w", path, err)
	}
	if err := Write(f, es); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes es as YAML.
func Write(w io.Writer, es *EnergySystem) error {
	doc := document{
		ID:          es.ID,
		Name:        es.Name,
		Description: es.Description,
		Version:     es.Version,
		Carriers:    es.Carriers,
	}
	for _, a := range es.Assets() {
		doc.Assets = append(doc.Assets, toDoc(a))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	return enc.Close()
}

func toDoc(a Asset) assetDoc {
	base := a.Base()
	ad := assetDoc{
		Type:            base.Kind,
		ID:              base.ID,
		Name:            base.Name,
		Constraints:     base.Constraints,
		CostInformation: base.CostInformation,
	}
	for _, p := range base.Ports {
		pd := portDoc{Kind: p.Kind, ID: p.ID, Name: p.Name, Profiles: p.Profiles}
		if p.Carrier != nil {
			pd.Carrier = p.Carrier.ID
		}
		ad.Ports = append(ad.Ports, pd)
	}

	if pr, ok := a.(PowerRated); ok && pr.RatedPower() != 0 {
		power := pr.RatedPower()
		ad.Power = &power
	}
	if e, ok := a.(Efficient); ok {
		eff := e.ConversionEfficiency()
		ad.Efficiency = &eff
	}
	switch v := a.(type) {
	case *WindTurbine:
		ad.WindTurbineType = v.Type
	case *GasConversion:
		ad.GasConversionType = v.Type
	case *MobilityDemand:
		ad.FuelType = v.FuelType
		ad.VehicleTypes = v.VehicleTypes
	case *HeatPump:
		cop := v.COP
		ad.COP = &cop
	case *Storage:
		capacity := v.Capacity
		ad.Capacity = &capacity
	case *Transport:
		capacity := v.Capacity
		ad.Capacity = &capacity
	}
	return ad
}
