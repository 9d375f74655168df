// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package model is the in-memory energy-system graph: typed assets with
// ports, carriers, profiles, constraints, and cost information. Assets
// are a closed set of variants tagged by Kind; optional attributes are
// exposed through capability interfaces such as PowerRated and Efficient.
package model

// EnergySystem is the root of a model.
type EnergySystem struct {
	ID          string
	Name        string
	Description string
	Version     string
	Carriers    []Carrier

	assets []Asset
	byID   map[string]Asset
}

// NewEnergySystem returns an empty energy system.
func NewEnergySystem(id, name string) *EnergySystem {
	return &EnergySystem{ID: id, Name: name, byID: make(map[string]Asset)}
}

// Add appends an asset. Traversal order is insertion order.
func (es *EnergySystem) Add(a Asset) {
	if es.byID == nil {
		es.byID = make(map[string]Asset)
	}
	es.assets = append(es.assets, a)
	if id := a.Base().ID; id != "" {
		es.byID[id] = a
	}
}

// Assets returns all assets in traversal order.
func (es *EnergySystem) Assets() []Asset {
	return es.assets
}

// AssetByID looks up an asset by identifier.
func (es *EnergySystem) AssetByID(id string) (Asset, bool) {
	a, ok := es.byID[id]
	return a, ok
}

// CarrierByID looks up a carrier by identifier.
func (es *EnergySystem) CarrierByID(id string) (*Carrier, bool) {
	for i := range es.Carriers {
		if es.Carriers[i].ID == id {
			return &es.Carriers[i], true
		}
	}
	return nil, false
}
