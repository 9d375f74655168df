// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/esdl-opera/internal/model"
)

func observedMapper() (*Mapper, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return NewMapper(zap.New(core)), logs
}

func newAsset(t *testing.T, kind model.Kind, name string) model.Asset {
	t.Helper()
	a, ok := model.New(kind, name, name)
	require.True(t, ok)
	return a
}

func withOutCarrier(a model.Asset, carrier string) model.Asset {
	a.Base().Ports = append(a.Base().Ports, model.Port{
		Kind:    model.OutPort,
		Carrier: &model.Carrier{ID: carrier, Name: carrier},
	})
	return a
}

func TestMap(t *testing.T) {
	tests := []struct {
		name   string
		asset  func(t *testing.T) model.Asset
		want   string
		wantOK bool
		warns  int
	}{
		{
			name:   "electrolyzer",
			asset:  func(t *testing.T) model.Asset { return newAsset(t, model.KindElectrolyzer, "el") },
			want:   OptionElectrolyser,
			wantOK: true,
		},
		{
			name: "hydrogen car keeps leading space",
			asset: func(t *testing.T) model.Asset {
				a := newAsset(t, model.KindMobilityDemand, "cars").(*model.MobilityDemand)
				a.FuelType = model.FuelHydrogen
				a.VehicleTypes = []model.VehicleType{model.VehicleTruck, model.VehicleCar}
				return a
			},
			want:   " H2 auto",
			wantOK: true,
		},
		{
			name: "hydrogen van",
			asset: func(t *testing.T) model.Asset {
				a := newAsset(t, model.KindMobilityDemand, "vans").(*model.MobilityDemand)
				a.FuelType = model.FuelHydrogen
				a.VehicleTypes = []model.VehicleType{model.VehicleVan}
				return a
			},
			want:   OptionH2Van,
			wantOK: true,
		},
		{
			name: "hydrogen truck",
			asset: func(t *testing.T) model.Asset {
				a := newAsset(t, model.KindMobilityDemand, "trucks").(*model.MobilityDemand)
				a.FuelType = model.FuelHydrogen
				a.VehicleTypes = []model.VehicleType{model.VehicleTruck}
				return a
			},
			want:   OptionH2Truck,
			wantOK: true,
		},
		{
			name: "hydrogen bus has no rule",
			asset: func(t *testing.T) model.Asset {
				a := newAsset(t, model.KindMobilityDemand, "buses").(*model.MobilityDemand)
				a.FuelType = model.FuelHydrogen
				a.VehicleTypes = []model.VehicleType{model.VehicleBus}
				return a
			},
			warns: 1,
		},
		{
			name: "diesel mobility is final traffic demand",
			asset: func(t *testing.T) model.Asset {
				a := newAsset(t, model.KindMobilityDemand, "diesel").(*model.MobilityDemand)
				a.FuelType = model.FuelDiesel
				return a
			},
			want:   OptionTrafficDemand,
			wantOK: true,
		},
		{
			name:   "gas conversion default is SMR",
			asset:  func(t *testing.T) model.Asset { return newAsset(t, model.KindGasConversion, "smr") },
			want:   OptionSMR,
			wantOK: true,
		},
		{
			name: "ATR is unmapped",
			asset: func(t *testing.T) model.Asset {
				a := newAsset(t, model.KindGasConversion, "atr").(*model.GasConversion)
				a.Type = model.GasConversionATR
				return a
			},
			warns: 1,
		},
		{
			name: "wind park on land",
			asset: func(t *testing.T) model.Asset {
				a := newAsset(t, model.KindWindPark, "onshore").(*model.WindTurbine)
				a.Type = model.WindOnLand
				return a
			},
			want:   OptionWindOnLand,
			wantOK: true,
		},
		{
			name: "wind turbine at sea",
			asset: func(t *testing.T) model.Asset {
				a := newAsset(t, model.KindWindTurbine, "offshore").(*model.WindTurbine)
				a.Type = model.WindAtSea
				return a
			},
			want:   OptionWindAtSea,
			wantOK: true,
		},
		{
			name:   "wind without siting falls back to sea",
			asset:  func(t *testing.T) model.Asset { return newAsset(t, model.KindWindTurbine, "unknown siting") },
			want:   OptionWindAtSea,
			wantOK: true,
			warns:  1,
		},
		{
			name:   "pv park",
			asset:  func(t *testing.T) model.Asset { return newAsset(t, model.KindPVPark, "solar") },
			want:   OptionSolarResidential,
			wantOK: true,
		},
		{
			name: "electricity import",
			asset: func(t *testing.T) model.Asset {
				return withOutCarrier(newAsset(t, model.KindImport, "imp"), "Electricity")
			},
			want:   OptionElectricityImport,
			wantOK: true,
		},
		{
			name: "hydrogen import",
			asset: func(t *testing.T) model.Asset {
				return withOutCarrier(newAsset(t, model.KindImport, "imp"), "H2 green")
			},
			want:   OptionHydrogenImport,
			wantOK: true,
		},
		{
			name: "natural gas import",
			asset: func(t *testing.T) model.Asset {
				return withOutCarrier(newAsset(t, model.KindImport, "imp"), "Natural Gas")
			},
			want:   OptionGasImport,
			wantOK: true,
		},
		{
			name: "import of unknown carrier",
			asset: func(t *testing.T) model.Asset {
				return withOutCarrier(newAsset(t, model.KindImport, "imp"), "Ammonia")
			},
			warns: 1,
		},
		{
			name:  "import without carrier",
			asset: func(t *testing.T) model.Asset { return newAsset(t, model.KindImport, "imp") },
			warns: 1,
		},
		{
			name:   "export",
			asset:  func(t *testing.T) model.Asset { return newAsset(t, model.KindExport, "exp") },
			want:   OptionHydrogenExport,
			wantOK: true,
		},
		{
			name:  "heat pump has no rule",
			asset: func(t *testing.T) model.Asset { return newAsset(t, model.KindHeatPump, "hp") },
			warns: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, logs := observedMapper()
			got, ok := m.Map(tt.asset(t))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.warns, logs.Len())
		})
	}
}

func TestMapNamesAssetInDiagnostic(t *testing.T) {
	m, logs := observedMapper()
	_, ok := m.Map(newAsset(t, model.KindBattery, "Big battery"))
	require.False(t, ok)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Big battery", logs.All()[0].ContextMap()["asset"])
}

func TestMapIsDeterministic(t *testing.T) {
	m := NewMapper(nil)
	a := newAsset(t, model.KindWindPark, "park").(*model.WindTurbine)
	a.Type = model.WindOnLand

	first, _ := m.Map(a)
	for i := 0; i < 10; i++ {
		got, _ := m.Map(a)
		assert.Equal(t, first, got)
	}
}

func TestMapCarrier(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "Electricity", want: CarrierElectricity, wantOK: true},
		{in: "  ELECTRICITEIT ", want: CarrierElectricity, wantOK: true},
		{in: "electricity-hv", want: CarrierElectricity, wantOK: true},
		{in: "H2", want: CarrierHydrogen, wantOK: true},
		{in: "Hydrogen (green)", want: CarrierHydrogen, wantOK: true},
		{in: "waterstof", want: CarrierHydrogen, wantOK: true},
		{in: "gas", want: CarrierNaturalGas, wantOK: true},
		{in: "Natural Gas", want: CarrierNaturalGas, wantOK: true},
		{in: "Heat", want: CarrierHeat, wantOK: true},
		{in: "heat 70C", want: CarrierHeat, wantOK: true},
		{in: "Biomass", want: CarrierBiomass, wantOK: true},
		{in: "biogas", want: CarrierBiogas, wantOK: true},
		{in: "Ammonia", want: "ammonia", wantOK: false},
		{in: "", want: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NewMapper(nil).MapCarrier(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	m, logs := observedMapper()
	m.MapCarrier("Steam")
	assert.Equal(t, 1, logs.Len())
}
