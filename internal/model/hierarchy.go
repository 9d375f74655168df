// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package model

// Kind tags the concrete type of an asset. Its value is the type name used
// in model files and in the esdlType column of the result table.
type Kind string

const (
	KindGenericProducer   Kind = "GenericProducer"
	KindWindTurbine       Kind = "WindTurbine"
	KindWindPark          Kind = "WindPark"
	KindPVPanel           Kind = "PVPanel"
	KindPVPark            Kind = "PVPark"
	KindPVInstallation    Kind = "PVInstallation"
	KindImport            Kind = "Import"
	KindElectricityDemand Kind = "ElectricityDemand"
	KindHeatingDemand     Kind = "HeatingDemand"
	KindGenericConsumer   Kind = "GenericConsumer"
	KindMobilityDemand    Kind = "MobilityDemand"
	KindExport            Kind = "Export"
	KindGenericConversion Kind = "GenericConversion"
	KindElectrolyzer      Kind = "Electrolyzer"
	KindFuelCell          Kind = "FuelCell"
	KindGasConversion     Kind = "GasConversion"
	KindHeatPump          Kind = "HeatPump"
	KindBattery           Kind = "Battery"
	KindGasStorage        Kind = "GasStorage"
	KindHeatStorage       Kind = "HeatStorage"
	KindPipe              Kind = "Pipe"
	KindElectricityCable  Kind = "ElectricityCable"
)

// Abstract type names of the hierarchy.
const (
	TypeItem                    = "Item"
	TypeAsset                   = "Asset"
	TypeEnergyAsset             = "EnergyAsset"
	TypeProducer                = "Producer"
	TypeConsumer                = "Consumer"
	TypeStorage                 = "Storage"
	TypeTransport               = "Transport"
	TypeConversion              = "Conversion"
	TypeAbstractBasicConversion = "AbstractBasicConversion"
	TypePowerToX                = "PowerToX"
)

// parents maps every type name to its direct supertype. Item is the root.
var parents = map[string]string{
	TypeAsset:       TypeItem,
	TypeEnergyAsset: TypeAsset,

	TypeProducer:   TypeEnergyAsset,
	TypeConsumer:   TypeEnergyAsset,
	TypeStorage:    TypeEnergyAsset,
	TypeTransport:  TypeEnergyAsset,
	TypeConversion: TypeEnergyAsset,

	TypeAbstractBasicConversion: TypeConversion,
	TypePowerToX:                TypeAbstractBasicConversion,

	string(KindGenericProducer): TypeProducer,
	string(KindWindTurbine):     TypeProducer,
	string(KindWindPark):        string(KindWindTurbine),
	string(KindPVPanel):         TypeProducer,
	string(KindPVPark):          string(KindPVPanel),
	string(KindPVInstallation):  string(KindPVPanel),
	string(KindImport):          TypeProducer,

	string(KindElectricityDemand): TypeConsumer,
	string(KindHeatingDemand):     TypeConsumer,
	string(KindGenericConsumer):   TypeConsumer,
	string(KindMobilityDemand):    TypeConsumer,
	string(KindExport):            TypeConsumer,

	string(KindGenericConversion): TypeAbstractBasicConversion,
	string(KindElectrolyzer):      TypePowerToX,
	string(KindFuelCell):          TypeAbstractBasicConversion,
	string(KindGasConversion):     TypeAbstractBasicConversion,
	string(KindHeatPump):          TypeAbstractBasicConversion,

	string(KindBattery):     TypeStorage,
	string(KindGasStorage):  TypeStorage,
	string(KindHeatStorage): TypeStorage,

	string(KindPipe):             TypeTransport,
	string(KindElectricityCable): TypeTransport,
}

// Valid reports whether k is a known concrete kind.
func (k Kind) Valid() bool {
	_, ok := newAsset[k]
	return ok
}

// Ancestry returns the type chain from typeName up to the root, starting
// with typeName itself. Unknown names yield a single-element chain.
func Ancestry(typeName string) []string {
	chain := []string{typeName}
	for {
		parent, ok := parents[chain[len(chain)-1]]
		if !ok {
			return chain
		}
		chain = append(chain, parent)
	}
}

// IsA reports whether kind is typeName or one of its subtypes.
func IsA(kind Kind, typeName string) bool {
	for _, t := range Ancestry(string(kind)) {
		if t == typeName {
			return true
		}
	}
	return false
}

// Category returns the supertype of kind directly below EnergyAsset:
// Producer, Consumer, Storage, Transport, or Conversion.
func Category(kind Kind) (string, bool) {
	chain := Ancestry(string(kind))
	for i, t := range chain {
		if t == TypeEnergyAsset {
			if i == 0 {
				return "", false
			}
			return chain[i-1], true
		}
	}
	return "", false
}
