// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package unit

// Conversion targets used when normalizing a model for the planning database.
var (
	PowerInW = QuantityAndUnit{
		ID: "POWER_in_W", Description: "Power in WATT",
		PhysicalQuantity: QuantityPower, Unit: UnitWatt,
	}
	PowerInKW = QuantityAndUnit{
		ID: "POWER_in_kW", Description: "Power in kW",
		PhysicalQuantity: QuantityPower, Unit: UnitWatt, Multiplier: MultiplierKilo,
	}
	PowerInMW = QuantityAndUnit{
		ID: "POWER_in_MW", Description: "Power in MW",
		PhysicalQuantity: QuantityPower, Unit: UnitWatt, Multiplier: MultiplierMega,
	}
	PowerInGW = QuantityAndUnit{
		ID: "POWER_in_GW", Description: "Power in GW",
		PhysicalQuantity: QuantityPower, Unit: UnitWatt, Multiplier: MultiplierGiga,
	}
	EnergyInPJ = QuantityAndUnit{
		ID: "ENERGY_in_PJ", Description: "Energy in PJ",
		PhysicalQuantity: QuantityEnergy, Unit: UnitJoule, Multiplier: MultiplierPeta,
	}
	EnergyInMWh = QuantityAndUnit{
		ID: "ENERGY_in_MWh", Description: "Energy in MWh",
		PhysicalQuantity: QuantityEnergy, Unit: UnitWattHour, Multiplier: MultiplierMega,
	}
	CostInMEur = QuantityAndUnit{
		ID: "COST_in_MEUR", Description: "Cost in MEur",
		PhysicalQuantity: QuantityCost, Unit: UnitEuro, Multiplier: MultiplierMega,
	}
	CostInEurPerMWh = QuantityAndUnit{
		ID: "COST_in_EURperMWH", Description: "Cost in €/MWh",
		PhysicalQuantity: QuantityCost, Unit: UnitEuro,
		PerUnit: UnitWattHour, PerMultiplier: MultiplierMega,
	}
)
