// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Category labels taken from the asset type hierarchy.
const (
	CategoryProducer   = "Producer"
	CategoryConsumer   = "Consumer"
	CategoryStorage    = "Storage"
	CategoryTransport  = "Transport"
	CategoryConversion = "Conversion"
)

// Columns is the fixed column schema of the result table, in order.
var Columns = []string{
	"category",
	"esdlType",
	"name",
	"power_min",
	"power_max",
	"power",
	"efficiency",
	"investment_cost",
	"o_m_cost",
	"marginal_cost",
	"carrier_in",
	"carrier_out",
	"profiles_in",
	"profiles_out",
	"opera_equivalent",
}

// AssetRecord is one normalized row of the result table.
// Optional numeric fields are nil when the model has no value for them.
// Power values are in GW, investment and O&M costs in MEUR, marginal cost
// in EUR/MWh, and profile values in PJ.
type AssetRecord struct {
	// ID is the source asset identifier. It is not part of the column
	// schema; results processing uses it to find the asset again.
	ID string `json:"id" yaml:"id"`

	Category string `json:"category" yaml:"category"`
	ESDLType string `json:"esdlType" yaml:"esdlType"`
	Name     string `json:"name" yaml:"name"`

	PowerMin   *float64 `json:"power_min" yaml:"power_min"`
	PowerMax   *float64 `json:"power_max" yaml:"power_max"`
	Power      *float64 `json:"power" yaml:"power"`
	Efficiency float64  `json:"efficiency" yaml:"efficiency"`

	InvestmentCost *float64 `json:"investment_cost" yaml:"investment_cost"`
	OMCost         *float64 `json:"o_m_cost" yaml:"o_m_cost"`
	MarginalCost   *float64 `json:"marginal_cost" yaml:"marginal_cost"`

	CarrierIn   []string  `json:"carrier_in" yaml:"carrier_in"`
	CarrierOut  []string  `json:"carrier_out" yaml:"carrier_out"`
	ProfilesIn  []float64 `json:"profiles_in" yaml:"profiles_in"`
	ProfilesOut []float64 `json:"profiles_out" yaml:"profiles_out"`

	// OperaEquivalent is the mapped option in the planning database, nil
	// when the asset could not be mapped.
	OperaEquivalent *string `json:"opera_equivalent" yaml:"opera_equivalent"`
}

// IsConsumer reports whether the record belongs to the Consumer category.
func (r AssetRecord) IsConsumer() bool {
	return r.Category == CategoryConsumer
}
