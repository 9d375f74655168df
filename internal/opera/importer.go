// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package opera

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pdiddy/esdl-opera/internal/table"
	"github.com/pdiddy/esdl-opera/internal/taxonomy"
	"github.com/pdiddy/esdl-opera/pkg/types"
)

// Units and conversion factors written for new options and activities.
const (
	activityUnit        = "PJ"
	consumerCapacity    = "PJ"
	producerCapacity    = "GW"
	defaultVariant      = 1
	inputEffect         = "1"
	defaultOutputEffect = "-1"
)

var (
	consumerCap2Act = decimal.NewFromInt(1)
	// producerCap2Act converts a year at 1 GW to PJ.
	producerCap2Act = decimal.RequireFromString("31.536")
)

// carrierDefaults are the flags and national price of a new carrier.
type carrierDefaults struct {
	demandIsSupply bool
	generic        bool
	base           bool
	electricity    bool
	heat           bool
	price          decimal.Decimal
}

var carrierDefaultsByName = map[string]carrierDefaults{
	taxonomy.CarrierElectricity: {demandIsSupply: true, generic: true, base: true, electricity: true, price: decimal.RequireFromString("10.11")},
	taxonomy.CarrierHydrogen:    {demandIsSupply: true, generic: true, price: decimal.RequireFromString("8.34")},
	taxonomy.CarrierNaturalGas:  {base: true, price: decimal.RequireFromString("6.8")},
	taxonomy.CarrierHeat:        {demandIsSupply: true, generic: true, heat: true},
}

// ImportSummary holds row counts from an import run.
type ImportSummary struct {
	Inserted int
	Skipped  int
}

// Importer writes result tables into a Store.
type Importer struct {
	store  *Store
	cfg    types.ImportConfig
	mapper *taxonomy.Mapper
	log    *zap.Logger
}

// NewImporter returns an Importer writing to store with the given
// settings. A nil log discards diagnostics.
func NewImporter(store *Store, cfg types.ImportConfig, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{store: store, cfg: cfg, mapper: taxonomy.NewMapper(log), log: log}
}

// Import adds the carriers, activities, and options of t to the database
// together with the rows that depend on them. Rows that already exist are
// left untouched, so importing the same table twice inserts nothing the
// second time.
func (im *Importer) Import(ctx context.Context, t *table.Table) (ImportSummary, error) {
	rows := t.Rows()
	var summary ImportSummary

	steps := []struct {
		name string
		run  func(ctx context.Context, tx *sql.Tx, rows []types.AssetRecord, s *ImportSummary) error
	}{
		{"energy carriers", im.importCarriers},
		{"activities", im.importActivities},
		{"options", im.importOptions},
		{"option details", im.importOptionDetails},
	}
	for _, step := range steps {
		err := im.store.inTx(ctx, func(tx *sql.Tx) error {
			return step.run(ctx, tx, rows, &summary)
		})
		if err != nil {
			return summary, fmt.Errorf("importing %s: %w", step.name, err)
		}
	}

	im.log.Info("import finished",
		zap.Int("inserted", summary.Inserted),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}

// CarrierName returns the database name of a model carrier.
func (im *Importer) CarrierName(carrier string) string {
	return im.cfg.CarrierPrefix + carrier
}

// ActivityName returns the activity a consumer option serves.
func (im *Importer) ActivityName(option string) string {
	return im.cfg.ActivityPrefix + option
}

func (im *Importer) importCarriers(ctx context.Context, tx *sql.Tx, rows []types.AssetRecord, s *ImportSummary) error {
	seen := make(map[string]bool)
	for _, r := range rows {
		carriers := append(append([]string(nil), r.CarrierIn...), r.CarrierOut...)
		for _, carrier := range carriers {
			if carrier == "" || seen[carrier] {
				continue
			}
			seen[carrier] = true
			if err := im.importCarrier(ctx, tx, carrier, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func (im *Importer) importCarrier(ctx context.Context, tx *sql.Tx, carrier string, s *ImportSummary) error {
	name := im.CarrierName(carrier)
	found, err := exists(ctx, tx, `SELECT count(*) FROM `+tableCarriers+` WHERE Energiedrager = ?`, name)
	if err != nil {
		return fmt.Errorf("checking carrier %q: %w", name, err)
	}
	if found {
		im.log.Debug("energy carrier already present", zap.String("carrier", name))
		s.Skipped++
		return nil
	}

	var defaults carrierDefaults
	if canonical, ok := im.mapper.MapCarrier(carrier); ok {
		var known bool
		if defaults, known = carrierDefaultsByName[canonical]; !known {
			im.log.Warn("no defaults for energy carrier, using empty defaults",
				zap.String("carrier", carrier), zap.String("equivalent", canonical))
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+tableCarriers+` (Energiedrager, Eenheid, VraagIsAanbod, Generiek,
			Basisenergiedrager, Elektriciteit, Warmte)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		name, activityUnit, defaults.demandIsSupply, defaults.generic,
		defaults.base, defaults.electricity, defaults.heat,
	); err != nil {
		return fmt.Errorf("inserting carrier %q: %w", name, err)
	}
	im.log.Info("inserted energy carrier", zap.String("carrier", name))
	s.Inserted++

	if defaults.price.IsZero() {
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+tablePrices+` (Energiedrager, Jaar, Scenario, "Nationale prijs") VALUES (?, ?, ?, ?)`,
		name, im.cfg.Year, im.cfg.Scenario, defaults.price,
	); err != nil {
		return fmt.Errorf("inserting price of carrier %q: %w", name, err)
	}
	im.log.Info("inserted energy carrier price",
		zap.String("carrier", name), zap.Stringer("price", defaults.price))
	s.Inserted++
	return nil
}

func (im *Importer) importActivities(ctx context.Context, tx *sql.Tx, rows []types.AssetRecord, s *ImportSummary) error {
	for _, r := range rows {
		if !r.IsConsumer() {
			continue
		}
		activity := im.ActivityName(r.Name)

		found, err := exists(ctx, tx, `SELECT count(*) FROM `+tableActivities+` WHERE Activiteit = ?`, activity)
		if err != nil {
			return fmt.Errorf("checking activity %q: %w", activity, err)
		}
		if found {
			s.Skipped++
		} else {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO `+tableActivities+` (Activiteit, Eenheid) VALUES (?, ?)`,
				activity, activityUnit,
			); err != nil {
				return fmt.Errorf("inserting activity %q: %w", activity, err)
			}
			im.log.Info("inserted activity", zap.String("activity", activity))
			s.Inserted++
		}

		found, err = exists(ctx, tx,
			`SELECT count(*) FROM `+tableBaseline+` WHERE Activiteit = ? AND Scenario = ? AND Jaar = ?`,
			activity, im.cfg.Scenario, im.cfg.Year)
		if err != nil {
			return fmt.Errorf("checking baseline of %q: %w", activity, err)
		}
		if found {
			s.Skipped++
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+tableBaseline+` (Activiteit, Scenario, Jaar, Waarde) VALUES (?, ?, ?, ?)`,
			activity, im.cfg.Scenario, im.cfg.Year, baseline(r),
		); err != nil {
			return fmt.Errorf("inserting baseline of %q: %w", activity, err)
		}
		s.Inserted++
	}
	return nil
}

// baseline is the annual demand of a consumer: the sum of its inbound
// profile values, or zero without any.
func baseline(r types.AssetRecord) float64 {
	total := decimal.Zero
	for _, v := range r.ProfilesIn {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

func (im *Importer) importOptions(ctx context.Context, tx *sql.Tx, rows []types.AssetRecord, s *ImportSummary) error {
	for _, r := range rows {
		_, found, err := optionNr(ctx, tx, r.Name)
		if err != nil {
			return err
		}
		if found {
			im.log.Debug("option already present", zap.String("option", r.Name))
			s.Skipped++
			continue
		}

		ref, err := im.reference(ctx, tx, r)
		if err != nil {
			return err
		}
		if _, err := insertOption(ctx, tx, im.newOption(r, ref)); err != nil {
			return err
		}
		im.log.Info("inserted option", zap.String("option", r.Name))
		s.Inserted++
	}
	return nil
}

// reference returns the option r is mapped to, or nil when r is unmapped
// or the database does not have the mapped option.
func (im *Importer) reference(ctx context.Context, tx *sql.Tx, r types.AssetRecord) (*Option, error) {
	if r.OperaEquivalent == nil {
		return nil, nil
	}
	ref, err := optionByName(ctx, tx, *r.OperaEquivalent)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		im.log.Warn("reference option not found, using defaults",
			zap.String("asset", r.Name), zap.String("reference", *r.OperaEquivalent))
	}
	return ref, nil
}

// newOption builds the option row for r, copying the descriptive fields of
// ref when there is one.
func (im *Importer) newOption(r types.AssetRecord, ref *Option) Option {
	o := Option{Name: r.Name}
	if ref != nil {
		o = *ref
		o.Nr = 0
		o.Name = r.Name
	}
	o.Sector = im.cfg.DefaultSector
	o.ActivityUnit = activityUnit
	if r.IsConsumer() {
		o.CapacityUnit = consumerCapacity
		o.Cap2Act = consumerCap2Act
		o.OptionUnlimited = true
		o.CapacityUnlimited = true
	} else {
		o.CapacityUnit = producerCapacity
		o.Cap2Act = producerCap2Act
	}
	return o
}

func (im *Importer) importOptionDetails(ctx context.Context, tx *sql.Tx, rows []types.AssetRecord, s *ImportSummary) error {
	for _, r := range rows {
		nr, found, err := optionNr(ctx, tx, r.Name)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("option %q missing after insert", r.Name)
		}

		var refNr *int64
		if r.OperaEquivalent != nil {
			n, ok, err := optionNr(ctx, tx, *r.OperaEquivalent)
			if err != nil {
				return err
			}
			if ok {
				refNr = &n
			}
		}

		details := []func(context.Context, *sql.Tx, int64, *int64, types.AssetRecord, *ImportSummary) error{
			im.importVariants,
			im.importCosts,
			im.importEnergyUse,
			im.importCapacity,
			im.importOptionActivity,
		}
		for _, d := range details {
			if err := d(ctx, tx, nr, refNr, r, s); err != nil {
				return fmt.Errorf("option %q: %w", r.Name, err)
			}
		}
	}
	return nil
}

func (im *Importer) importVariants(ctx context.Context, tx *sql.Tx, nr int64, refNr *int64, _ types.AssetRecord, s *ImportSummary) error {
	found, err := exists(ctx, tx, `SELECT count(*) FROM `+tableVariants+` WHERE Nr = ?`, nr)
	if err != nil {
		return fmt.Errorf("checking variants: %w", err)
	}
	if found {
		s.Skipped++
		return nil
	}

	if refNr != nil {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO `+tableVariants+` (Nr, Variant, Beschikbaar)
			SELECT ?, Variant, Beschikbaar FROM `+tableVariants+` WHERE Nr = ?`,
			nr, *refNr)
		if err != nil {
			return fmt.Errorf("copying variants: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			s.Inserted += int(n)
			return nil
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+tableVariants+` (Nr, Variant, Beschikbaar) VALUES (?, ?, ?)`,
		nr, defaultVariant, true,
	); err != nil {
		return fmt.Errorf("inserting default variant: %w", err)
	}
	s.Inserted++
	return nil
}

func (im *Importer) importCosts(ctx context.Context, tx *sql.Tx, nr int64, refNr *int64, r types.AssetRecord, s *ImportSummary) error {
	found, err := exists(ctx, tx, `SELECT count(*) FROM `+tableCosts+` WHERE Nr = ? AND Jaar = ?`, nr, im.cfg.Year)
	if err != nil {
		return fmt.Errorf("checking costs: %w", err)
	}
	if found {
		s.Skipped++
		return nil
	}

	investment, om := valueOrZero(r.InvestmentCost), valueOrZero(r.OMCost)
	if refNr != nil {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO `+tableCosts+` (Nr, Variant, Jaar, Investeringskosten,
				"Overig operationeel kosten/baten", "Variabele kosten")
			SELECT ?, Variant, Jaar, ?, ?, "Variabele kosten" FROM `+tableCosts+` WHERE Nr = ? AND Jaar = ?`,
			nr, investment, om, *refNr, im.cfg.Year)
		if err != nil {
			return fmt.Errorf("copying costs: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			s.Inserted += int(n)
			return nil
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+tableCosts+` (Nr, Variant, Jaar, Investeringskosten, "Overig operationeel kosten/baten")
		VALUES (?, ?, ?, ?, ?)`,
		nr, defaultVariant, im.cfg.Year, investment, om,
	); err != nil {
		return fmt.Errorf("inserting costs: %w", err)
	}
	s.Inserted++
	return nil
}

// OutputEffect is the energy-use entry of an output carrier: the negated
// efficiency, or -1 when the efficiency is zero.
func OutputEffect(efficiency float64) string {
	if efficiency == 0 {
		return defaultOutputEffect
	}
	return decimal.NewFromFloat(efficiency).Neg().String()
}

func (im *Importer) importEnergyUse(ctx context.Context, tx *sql.Tx, nr int64, _ *int64, r types.AssetRecord, s *ImportSummary) error {
	insert := func(carrier, effect string) error {
		name := im.CarrierName(carrier)
		found, err := exists(ctx, tx,
			`SELECT count(*) FROM `+tableEnergyUse+` WHERE Nr = ? AND Jaar = ? AND Energiedrager = ?`,
			nr, im.cfg.Year, name)
		if err != nil {
			return fmt.Errorf("checking energy use of %q: %w", name, err)
		}
		if found {
			s.Skipped++
			return nil
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO `+tableEnergyUse+` (Nr, Energiedrager, Variant, Jaar, Effect) VALUES (?, ?, ?, ?, ?)`,
			nr, name, defaultVariant, im.cfg.Year, effect,
		); err != nil {
			return fmt.Errorf("inserting energy use of %q: %w", name, err)
		}
		s.Inserted++
		return nil
	}

	for _, c := range r.CarrierIn {
		if err := insert(c, inputEffect); err != nil {
			return err
		}
	}
	effect := OutputEffect(r.Efficiency)
	for _, c := range r.CarrierOut {
		if err := insert(c, effect); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) importCapacity(ctx context.Context, tx *sql.Tx, nr int64, refNr *int64, r types.AssetRecord, s *ImportSummary) error {
	found, err := exists(ctx, tx,
		`SELECT count(*) FROM `+tableCapacities+` WHERE Categorie = ? AND Jaar = ? AND Scenario = ?`,
		nr, im.cfg.Year, im.cfg.Scenario)
	if err != nil {
		return fmt.Errorf("checking capacity bounds: %w", err)
	}
	if found {
		s.Skipped++
		return nil
	}

	minCap := valueOrZero(r.PowerMin)
	if refNr != nil {
		// A missing maximum stays unbounded when copying a reference.
		res, err := tx.ExecContext(ctx,
			`INSERT INTO `+tableCapacities+` (Categorie, Jaar, Scenario, "Max totale capaciteit",
				"Min totale capaciteit", "Max aantal", "Min aantal")
			SELECT ?, Jaar, Scenario, ?, ?, "Max aantal", "Min aantal" FROM `+tableCapacities+`
			WHERE Categorie = ? AND Jaar = ? AND Scenario = ?`,
			nr, r.PowerMax, minCap, *refNr, im.cfg.Year, im.cfg.Scenario)
		if err != nil {
			return fmt.Errorf("copying capacity bounds: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			s.Inserted += int(n)
			return nil
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+tableCapacities+` (Categorie, Jaar, Scenario, "Max totale capaciteit", "Min totale capaciteit")
		VALUES (?, ?, ?, ?, ?)`,
		nr, im.cfg.Year, im.cfg.Scenario, valueOrZero(r.PowerMax), minCap,
	); err != nil {
		return fmt.Errorf("inserting capacity bounds: %w", err)
	}
	s.Inserted++
	return nil
}

func (im *Importer) importOptionActivity(ctx context.Context, tx *sql.Tx, nr int64, _ *int64, r types.AssetRecord, s *ImportSummary) error {
	if !r.IsConsumer() {
		return nil
	}
	activity := im.ActivityName(r.Name)
	found, err := exists(ctx, tx,
		`SELECT count(*) FROM `+tableOptionActivity+` WHERE Optie = ? AND Activiteit = ?`, nr, activity)
	if err != nil {
		return fmt.Errorf("checking activity link: %w", err)
	}
	if found {
		s.Skipped++
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+tableOptionActivity+` (Optie, Activiteit, Match) VALUES (?, ?, ?)`,
		nr, activity, true,
	); err != nil {
		return fmt.Errorf("linking activity %q: %w", activity, err)
	}
	s.Inserted++
	return nil
}

func valueOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
