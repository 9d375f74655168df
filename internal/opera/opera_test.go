// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package opera

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/esdl-opera/internal/table"
	"github.com/pdiddy/esdl-opera/internal/taxonomy"
	"github.com/pdiddy/esdl-opera/pkg/types"
)

// --- test helpers ---

func ptr[T any](v T) *T { return &v }

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "db", "opera.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func importConfig() types.ImportConfig {
	return types.DefaultConfig().Import
}

func referenceOptions() []Option {
	return []Option{
		{
			Name:         taxonomy.OptionWindAtSea,
			Description:  "Reference offshore wind",
			Sector:       "Elektriciteit",
			CapacityUnit: "GW",
			ActivityUnit: "PJ",
			Cap2Act:      decimal.RequireFromString("31.536"),
			Lifetime:     25,
			Variants:     []Variant{{Variant: 1, Available: true}, {Variant: 2, Available: false}},
			Costs: []Cost{
				{Variant: 1, Year: 2030, Investment: 1800, OM: 30, Variable: ptr(0.5)},
				{Variant: 2, Year: 2030, Investment: 1900, OM: 35},
				{Variant: 1, Year: 2040, Investment: 1500, OM: 25},
			},
			Capacities: []CapacityBound{
				{Year: 2030, Scenario: "MMvIB", Max: ptr(10.0), MaxCount: ptr(5.0)},
			},
		},
		{
			Name:         taxonomy.OptionElectrolyser,
			Description:  "Reference electrolyser",
			CapacityUnit: "GW",
			Cap2Act:      decimal.RequireFromString("31.536"),
		},
	}
}

func seededStore(t *testing.T) *Store {
	t.Helper()
	store := testStore(t)
	n, err := store.AddOptions(context.Background(), referenceOptions())
	require.NoError(t, err)
	require.Equal(t, 2, n)
	return store
}

func valleyTable() *table.Table {
	tbl := table.New()
	tbl.Append(types.AssetRecord{
		ID: "wp1", Category: types.CategoryProducer, ESDLType: "WindPark", Name: "Offshore wind",
		PowerMin: ptr(1.0), PowerMax: ptr(4.0), Power: ptr(2.0), Efficiency: 1,
		InvestmentCost: ptr(2500.0), OMCost: ptr(40.0),
		CarrierOut:      []string{"Electricity"},
		OperaEquivalent: ptr(taxonomy.OptionWindAtSea),
	})
	tbl.Append(types.AssetRecord{
		ID: "el1", Category: types.CategoryConversion, ESDLType: "Electrolyzer", Name: "Electrolyser port",
		Power: ptr(0.5), Efficiency: 0.7,
		CarrierIn:       []string{"Electricity"},
		CarrierOut:      []string{"Hydrogen"},
		OperaEquivalent: ptr(taxonomy.OptionElectrolyser),
	})
	tbl.Append(types.AssetRecord{
		ID: "md1", Category: types.CategoryConsumer, ESDLType: "MobilityDemand", Name: "Hydrogen trucks",
		Efficiency:      1,
		CarrierIn:       []string{"Hydrogen"},
		ProfilesIn:      []float64{12, 3},
		OperaEquivalent: ptr(taxonomy.OptionH2Truck),
	})
	tbl.Append(types.AssetRecord{
		ID: "dg1", Category: types.CategoryProducer, ESDLType: "GenericProducer", Name: "Digester",
		CarrierOut: []string{"Biogas", "Heat"},
	})
	return tbl
}

func queryFloat(t *testing.T, s *Store, query string, args ...any) sql.NullFloat64 {
	t.Helper()
	var v sql.NullFloat64
	require.NoError(t, s.db.QueryRow(query, args...).Scan(&v))
	return v
}

func queryCount(t *testing.T, s *Store, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow(query, args...).Scan(&n))
	return n
}

// --- tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store := testStore(t)
	for _, tbl := range []string{
		tableCarriers, tablePrices, tableActivities, tableBaseline, tableOptions,
		tableVariants, tableCosts, tableEnergyUse, tableCapacities, tableOptionActivity,
	} {
		assert.Equal(t, 0, queryCount(t, store, `SELECT count(*) FROM `+tbl), tbl)
	}
}

func TestNewStoreIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opera.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	_, err = store.AddOptions(context.Background(), referenceOptions())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewStore(path)
	require.NoError(t, err)
	defer store.Close()
	options, err := store.Options(context.Background())
	require.NoError(t, err)
	assert.Len(t, options, 2)
}

func TestAddOptionsSkipsExisting(t *testing.T) {
	store := seededStore(t)
	n, err := store.AddOptions(context.Background(), referenceOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestOptionsRoundTripThroughYAML(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	path := filepath.Join(t.TempDir(), "reference.yaml")
	require.NoError(t, store.ExportYAML(ctx, path))

	other := testStore(t)
	n, err := other.LoadReferenceFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want, err := store.Options(ctx)
	require.NoError(t, err)
	got, err := other.Options(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	wind := got[0]
	assert.Equal(t, want[0].Name, wind.Name)
	assert.Equal(t, "Reference offshore wind", wind.Description)
	assert.True(t, decimal.RequireFromString("31.536").Equal(wind.Cap2Act))
	assert.Equal(t, want[0].Variants, wind.Variants)
	assert.Equal(t, want[0].Costs, wind.Costs)
	require.Len(t, wind.Capacities, 1)
	assert.Nil(t, wind.Capacities[0].MinCount)
	assert.Equal(t, 10.0, *wind.Capacities[0].Max)
}

func TestExportJSON(t *testing.T) {
	store := seededStore(t)
	path := filepath.Join(t.TempDir(), "options.json")
	require.NoError(t, store.ExportJSON(context.Background(), path))
	assert.FileExists(t, path)
}

func TestLoadReferenceFileErrors(t *testing.T) {
	store := testStore(t)
	_, err := store.LoadReferenceFile(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	core, logs := observer.New(zapcore.WarnLevel)
	im := NewImporter(store, importConfig(), zap.New(core))

	summary, err := im.Import(ctx, valleyTable())
	require.NoError(t, err)
	assert.Equal(t, 33, summary.Inserted)
	assert.Equal(t, 0, summary.Skipped)

	t.Run("carriers", func(t *testing.T) {
		var demandIsSupply, generic, base, electricity, heat bool
		require.NoError(t, store.db.QueryRow(
			`SELECT VraagIsAanbod, Generiek, Basisenergiedrager, Elektriciteit, Warmte FROM `+tableCarriers+` WHERE Energiedrager = ?`,
			"MMvIB_Electricity",
		).Scan(&demandIsSupply, &generic, &base, &electricity, &heat))
		assert.Equal(t, []bool{true, true, true, true, false}, []bool{demandIsSupply, generic, base, electricity, heat})

		require.NoError(t, store.db.QueryRow(
			`SELECT VraagIsAanbod, Generiek, Basisenergiedrager, Elektriciteit, Warmte FROM `+tableCarriers+` WHERE Energiedrager = ?`,
			"MMvIB_Heat",
		).Scan(&demandIsSupply, &generic, &base, &electricity, &heat))
		assert.Equal(t, []bool{true, true, false, false, true}, []bool{demandIsSupply, generic, base, electricity, heat})

		assert.Equal(t, 4, queryCount(t, store, `SELECT count(*) FROM `+tableCarriers))
		assert.Equal(t, 2, queryCount(t, store, `SELECT count(*) FROM `+tablePrices))

		price := queryFloat(t, store,
			`SELECT "Nationale prijs" FROM `+tablePrices+` WHERE Energiedrager = ? AND Jaar = ? AND Scenario = ?`,
			"MMvIB_Electricity", 2030, "MMvIB")
		assert.InDelta(t, 10.11, price.Float64, 1e-12)
		price = queryFloat(t, store,
			`SELECT "Nationale prijs" FROM `+tablePrices+` WHERE Energiedrager = ?`, "MMvIB_Hydrogen")
		assert.InDelta(t, 8.34, price.Float64, 1e-12)
		assert.Equal(t, 0, queryCount(t, store,
			`SELECT count(*) FROM `+tablePrices+` WHERE Energiedrager = ?`, "MMvIB_Biogas"))
	})

	t.Run("activities", func(t *testing.T) {
		assert.Equal(t, 1, queryCount(t, store,
			`SELECT count(*) FROM `+tableActivities+` WHERE Activiteit = ? AND Eenheid = 'PJ'`, "Activity_Hydrogen trucks"))
		baseline := queryFloat(t, store,
			`SELECT Waarde FROM `+tableBaseline+` WHERE Activiteit = ? AND Scenario = ? AND Jaar = ?`,
			"Activity_Hydrogen trucks", "MMvIB", 2030)
		assert.InDelta(t, 15.0, baseline.Float64, 1e-12)
	})

	options, err := store.Options(ctx)
	require.NoError(t, err)
	require.Len(t, options, 6)
	byName := make(map[string]Option)
	for _, o := range options {
		byName[o.Name] = o
	}

	t.Run("producer option copies reference", func(t *testing.T) {
		wind := byName["Offshore wind"]
		assert.Equal(t, "Reference offshore wind", wind.Description)
		assert.Equal(t, 25.0, wind.Lifetime)
		assert.Equal(t, "Energie", wind.Sector)
		assert.Equal(t, "GW", wind.CapacityUnit)
		assert.Equal(t, "PJ", wind.ActivityUnit)
		assert.True(t, decimal.RequireFromString("31.536").Equal(wind.Cap2Act))
		assert.False(t, wind.OptionUnlimited)

		assert.Equal(t, []Variant{{Variant: 1, Available: true}, {Variant: 2, Available: false}}, wind.Variants)
		require.Len(t, wind.Costs, 2)
		for _, c := range wind.Costs {
			assert.Equal(t, 2030, c.Year)
			assert.Equal(t, 2500.0, c.Investment)
			assert.Equal(t, 40.0, c.OM)
		}
		assert.Equal(t, 0.5, *wind.Costs[0].Variable)
		assert.Nil(t, wind.Costs[1].Variable)

		require.Len(t, wind.Capacities, 1)
		assert.Equal(t, 4.0, *wind.Capacities[0].Max)
		assert.Equal(t, 1.0, wind.Capacities[0].Min)
		assert.Equal(t, 5.0, *wind.Capacities[0].MaxCount)
	})

	t.Run("reference without details falls back to defaults", func(t *testing.T) {
		el := byName["Electrolyser port"]
		assert.Equal(t, "Reference electrolyser", el.Description)
		assert.Equal(t, []Variant{{Variant: 1, Available: true}}, el.Variants)
		require.Len(t, el.Costs, 1)
		assert.Equal(t, 0.0, el.Costs[0].Investment)
		require.Len(t, el.Capacities, 1)
		assert.Equal(t, 0.0, *el.Capacities[0].Max)
	})

	t.Run("consumer option", func(t *testing.T) {
		trucks := byName["Hydrogen trucks"]
		assert.Equal(t, "PJ", trucks.CapacityUnit)
		assert.True(t, decimal.NewFromInt(1).Equal(trucks.Cap2Act))
		assert.True(t, trucks.OptionUnlimited)
		assert.True(t, trucks.CapacityUnlimited)
		assert.Equal(t, 1, queryCount(t, store,
			`SELECT count(*) FROM `+tableOptionActivity+` WHERE Optie = ? AND Activiteit = ? AND Match = 1`,
			trucks.Nr, "Activity_Hydrogen trucks"))
	})

	t.Run("energy use", func(t *testing.T) {
		effect := func(option, carrier string) string {
			var e string
			require.NoError(t, store.db.QueryRow(
				`SELECT Effect FROM `+tableEnergyUse+` WHERE Nr = ? AND Energiedrager = ? AND Jaar = 2030`,
				byName[option].Nr, carrier,
			).Scan(&e))
			return e
		}
		assert.Equal(t, "1", effect("Electrolyser port", "MMvIB_Electricity"))
		assert.Equal(t, "-0.7", effect("Electrolyser port", "MMvIB_Hydrogen"))
		assert.Equal(t, "-1", effect("Offshore wind", "MMvIB_Electricity"))
		assert.Equal(t, "-1", effect("Digester", "MMvIB_Biogas"))
		assert.Equal(t, "-1", effect("Digester", "MMvIB_Heat"))
		assert.Equal(t, "1", effect("Hydrogen trucks", "MMvIB_Hydrogen"))
	})

	t.Run("diagnostics", func(t *testing.T) {
		assert.Equal(t, 1, logs.FilterField(zap.String("asset", "Hydrogen trucks")).Len())
		assert.Equal(t, 1, logs.FilterField(zap.String("carrier", "Biogas")).Len())
	})

	t.Run("second import inserts nothing", func(t *testing.T) {
		again, err := im.Import(ctx, valleyTable())
		require.NoError(t, err)
		assert.Equal(t, 0, again.Inserted)
		assert.Equal(t, 29, again.Skipped)
	})
}

func TestImportCopiedCapacityKeepsMissingMaximumUnbounded(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	tbl := table.New()
	tbl.Append(types.AssetRecord{
		Category: types.CategoryProducer, Name: "Unbounded wind", Efficiency: 1,
		OperaEquivalent: ptr(taxonomy.OptionWindAtSea),
	})

	_, err := NewImporter(store, importConfig(), nil).Import(ctx, tbl)
	require.NoError(t, err)

	options, err := store.Options(ctx)
	require.NoError(t, err)
	require.Len(t, options, 3)
	unbounded := options[2]
	require.Len(t, unbounded.Capacities, 1)
	assert.Nil(t, unbounded.Capacities[0].Max)
	assert.Equal(t, 0.0, unbounded.Capacities[0].Min)
	assert.Equal(t, 5.0, *unbounded.Capacities[0].MaxCount)
}

func TestImportUsesConfiguredYearAndScenario(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)
	cfg := importConfig()
	cfg.Year = 2040
	cfg.Scenario = "Koers"
	cfg.CarrierPrefix = "X_"

	_, err := NewImporter(store, cfg, nil).Import(ctx, valleyTable())
	require.NoError(t, err)

	assert.Equal(t, 1, queryCount(t, store,
		`SELECT count(*) FROM `+tablePrices+` WHERE Energiedrager = 'X_Electricity' AND Jaar = 2040 AND Scenario = 'Koers'`))
	assert.Equal(t, 0, queryCount(t, store,
		`SELECT count(*) FROM `+tableCapacities+` WHERE Jaar = 2030 AND Scenario = 'MMvIB' AND Categorie > 2`))

	var investment float64
	require.NoError(t, store.db.QueryRow(
		`SELECT Investeringskosten FROM `+tableCosts+` c JOIN `+tableOptions+` o ON o.Nr = c.Nr
		WHERE o."Naam optie" = 'Offshore wind' AND c.Jaar = 2040`,
	).Scan(&investment))
	assert.Equal(t, 2500.0, investment)
}

func TestImportEmptyTable(t *testing.T) {
	summary, err := NewImporter(testStore(t), importConfig(), nil).Import(context.Background(), table.New())
	require.NoError(t, err)
	assert.Equal(t, ImportSummary{}, summary)
}

func TestOutputEffect(t *testing.T) {
	assert.Equal(t, "-0.7", OutputEffect(0.7))
	assert.Equal(t, "-1", OutputEffect(1))
	assert.Equal(t, "-1", OutputEffect(0))
	assert.Equal(t, "-0.35", OutputEffect(0.35))
}

func TestNames(t *testing.T) {
	im := NewImporter(nil, importConfig(), nil)
	assert.Equal(t, "MMvIB_Waterstof", im.CarrierName("Waterstof"))
	assert.Equal(t, "Activity_Trucks", im.ActivityName("Trucks"))
}

// --- failure paths ---

func mockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &Store{db: db}, mock
}

func singleCarrierTable() *table.Table {
	tbl := table.New()
	tbl.Append(types.AssetRecord{
		Category: types.CategoryProducer, Name: "Wind", Efficiency: 1,
		CarrierOut: []string{"Electricity"},
	})
	return tbl
}

func TestImportBeginFailure(t *testing.T) {
	store, mock := mockStore(t)
	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	_, err := NewImporter(store, importConfig(), nil).Import(context.Background(), singleCarrierTable())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "importing energy carriers")
	assert.Contains(t, err.Error(), "database is locked")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportInsertFailureRollsBack(t *testing.T) {
	store, mock := mockStore(t)
	diskFull := errors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "Energiedragers" WHERE Energiedrager = ?`)).
		WithArgs("MMvIB_Electricity").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "Energiedragers"`)).
		WillReturnError(diskFull)
	mock.ExpectRollback()

	summary, err := NewImporter(store, importConfig(), nil).Import(context.Background(), singleCarrierTable())
	require.ErrorIs(t, err, diskFull)
	assert.Equal(t, 0, summary.Inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportPriceFailure(t *testing.T) {
	store, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "Energiedragers"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "Energiedragers"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "EconomieNationaal(Energiedrager,Jaar,Scenario)"`)).
		WithArgs("MMvIB_Electricity", int64(2030), "MMvIB", sqlmock.AnyArg()).
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	_, err := NewImporter(store, importConfig(), nil).Import(context.Background(), singleCarrierTable())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price of carrier")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestImportCommitFailure(t *testing.T) {
	store, mock := mockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "Energiedragers"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

	_, err := NewImporter(store, importConfig(), nil).Import(context.Background(), singleCarrierTable())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}
