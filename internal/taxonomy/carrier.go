// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import (
	"strings"

	"go.uber.org/zap"
)

// Canonical energy carriers of the planning database.
const (
	CarrierElectricity = "Elektriciteit"
	CarrierHydrogen    = "Waterstof"
	CarrierNaturalGas  = "Aardgas"
	CarrierHeat        = "Warmte"
	CarrierBiomass     = "Biomassa (hout binnenland)"
	CarrierBiogas      = "biogas"
)

// carrierNames maps exact normalized names to canonical carriers.
var carrierNames = map[string]string{
	"electriciteit": CarrierElectricity,
	"elektriciteit": CarrierElectricity,
	"electricity":   CarrierElectricity,
	"waterstof":     CarrierHydrogen,
	"hydrogen":      CarrierHydrogen,
	"h2":            CarrierHydrogen,
	"aardgas":       CarrierNaturalGas,
	"natural gas":   CarrierNaturalGas,
	"gas":           CarrierNaturalGas,
	"warmte":        CarrierHeat,
	"heat":          CarrierHeat,
	"biomassa":      CarrierBiomass,
	"biomass":       CarrierBiomass,
	"biogas":        CarrierBiogas,
}

// carrierPrefixes is consulted in order when no exact name matches.
var carrierPrefixes = []struct {
	prefix  string
	carrier string
}{
	{"elec", CarrierElectricity},
	{"elek", CarrierElectricity},
	{"hydrogen", CarrierHydrogen},
	{"waterstof", CarrierHydrogen},
	{"h2", CarrierHydrogen},
	{"aardgas", CarrierNaturalGas},
	{"natural gas", CarrierNaturalGas},
	{"fossil gas", CarrierNaturalGas},
	{"heat", CarrierHeat},
	{"warmte", CarrierHeat},
	{"biomass", CarrierBiomass},
}

// MapCarrier normalizes a free-text carrier name to a canonical carrier.
// Unrecognized names come back lower-cased and trimmed with ok false; an
// empty name yields "" and false.
func (m *Mapper) MapCarrier(name string) (carrier string, ok bool) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "" {
		return "", false
	}
	if c, found := carrierNames[normalized]; found {
		return c, true
	}
	for _, p := range carrierPrefixes {
		if strings.HasPrefix(normalized, p.prefix) {
			return p.carrier, true
		}
	}
	m.log.Warn("cannot map carrier to an Opera equivalent", zap.String("carrier", normalized))
	return normalized, false
}
