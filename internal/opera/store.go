// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package opera writes a normalized asset table into a planning option
// database and reads reference options from it.
//
// The database mirrors the tables of the Opera option database. Table and
// column names keep their Dutch spelling so that exported rows
// can be copied into Opera without renaming.
package opera

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Table names.
const (
	tableCarriers       = `"Energiedragers"`
	tablePrices         = `"EconomieNationaal(Energiedrager,Jaar,Scenario)"`
	tableActivities     = `"Activiteiten"`
	tableBaseline       = `"ActiviteitBaseline(activiteit,scenario,jaar)"`
	tableOptions        = `"Opties"`
	tableVariants       = `"Beschikbare varianten"`
	tableCosts          = `"Kosten(Optie,Variant,Jaar)"`
	tableEnergyUse      = `"Energiegebruik(Optie,Energiedrager,Variant,Jaar)"`
	tableCapacities     = `"CatJaarScen(categorie,jaar,scenario)"`
	tableOptionActivity = `"OptieActiviteit(Optie,Activiteit)"`
)

// Store manages the planning database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the planning database at path and creates
// the schema if it does not exist.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ` + tableCarriers + ` (
			Energiedrager TEXT PRIMARY KEY,
			Eenheid TEXT,
			VraagIsAanbod INTEGER NOT NULL DEFAULT 0,
			Generiek INTEGER NOT NULL DEFAULT 0,
			Basisenergiedrager INTEGER NOT NULL DEFAULT 0,
			Elektriciteit INTEGER NOT NULL DEFAULT 0,
			Warmte INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tablePrices + ` (
			Energiedrager TEXT NOT NULL,
			Jaar INTEGER NOT NULL,
			Scenario TEXT NOT NULL,
			"Nationale prijs" NUMERIC,
			PRIMARY KEY (Energiedrager, Jaar, Scenario)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tableActivities + ` (
			Activiteit TEXT PRIMARY KEY,
			Eenheid TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tableBaseline + ` (
			Activiteit TEXT NOT NULL,
			Scenario TEXT NOT NULL,
			Jaar INTEGER NOT NULL,
			Waarde REAL,
			PRIMARY KEY (Activiteit, Scenario, Jaar)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tableOptions + ` (
			Nr INTEGER PRIMARY KEY AUTOINCREMENT,
			"Naam optie" TEXT NOT NULL UNIQUE,
			Omschrijving TEXT,
			Sector TEXT,
			"Unit of Capacity" TEXT,
			"Eenheid activiteit" TEXT,
			Cap2Act NUMERIC,
			Levensduur REAL,
			"Optie onbeperkt" INTEGER NOT NULL DEFAULT 0,
			"Capaciteit onbeperkt" INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tableVariants + ` (
			Nr INTEGER NOT NULL REFERENCES "Opties"(Nr),
			Variant INTEGER NOT NULL,
			Beschikbaar INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (Nr, Variant)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tableCosts + ` (
			Nr INTEGER NOT NULL REFERENCES "Opties"(Nr),
			Variant INTEGER NOT NULL,
			Jaar INTEGER NOT NULL,
			Investeringskosten REAL,
			"Overig operationeel kosten/baten" REAL,
			"Variabele kosten" REAL,
			PRIMARY KEY (Nr, Variant, Jaar)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tableEnergyUse + ` (
			Nr INTEGER NOT NULL REFERENCES "Opties"(Nr),
			Energiedrager TEXT NOT NULL,
			Variant INTEGER NOT NULL,
			Jaar INTEGER NOT NULL,
			Effect TEXT,
			PRIMARY KEY (Nr, Energiedrager, Variant, Jaar)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tableCapacities + ` (
			Categorie INTEGER NOT NULL,
			Jaar INTEGER NOT NULL,
			Scenario TEXT NOT NULL,
			"Max totale capaciteit" REAL,
			"Min totale capaciteit" REAL,
			"Max aantal" REAL,
			"Min aantal" REAL,
			PRIMARY KEY (Categorie, Jaar, Scenario)
		)`,
		`CREATE TABLE IF NOT EXISTS ` + tableOptionActivity + ` (
			Optie INTEGER NOT NULL REFERENCES "Opties"(Nr),
			Activiteit TEXT NOT NULL,
			Match INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (Optie, Activiteit)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// inTx runs fn in a transaction and commits when fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// exists runs a count query and reports whether it matched any row.
func exists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// optionNr returns the number of the option called name.
func optionNr(ctx context.Context, tx *sql.Tx, name string) (int64, bool, error) {
	var nr int64
	err := tx.QueryRowContext(ctx,
		`SELECT Nr FROM `+tableOptions+` WHERE "Naam optie" = ?`, name,
	).Scan(&nr)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("looking up option %q: %w", name, err)
	}
	return nr, true, nil
}

// optionByName loads the option row called name without its child rows.
func optionByName(ctx context.Context, tx *sql.Tx, name string) (*Option, error) {
	var (
		o           Option
		description sql.NullString
		sector      sql.NullString
		capUnit     sql.NullString
		actUnit     sql.NullString
		cap2act     decimal.NullDecimal
		lifetime    sql.NullFloat64
	)
	err := tx.QueryRowContext(ctx,
		`SELECT Nr, "Naam optie", Omschrijving, Sector, "Unit of Capacity", "Eenheid activiteit",
			Cap2Act, Levensduur, "Optie onbeperkt", "Capaciteit onbeperkt"
		FROM `+tableOptions+` WHERE "Naam optie" = ?`, name,
	).Scan(&o.Nr, &o.Name, &description, &sector, &capUnit, &actUnit,
		&cap2act, &lifetime, &o.OptionUnlimited, &o.CapacityUnlimited)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading option %q: %w", name, err)
	}
	o.Description = description.String
	o.Sector = sector.String
	o.CapacityUnit = capUnit.String
	o.ActivityUnit = actUnit.String
	if cap2act.Valid {
		o.Cap2Act = cap2act.Decimal
	}
	o.Lifetime = lifetime.Float64
	return &o, nil
}

// insertOption adds o to the option table and returns its number.
func insertOption(ctx context.Context, tx *sql.Tx, o Option) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO `+tableOptions+` ("Naam optie", Omschrijving, Sector, "Unit of Capacity",
			"Eenheid activiteit", Cap2Act, Levensduur, "Optie onbeperkt", "Capaciteit onbeperkt")
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.Name, o.Description, o.Sector, o.CapacityUnit, o.ActivityUnit,
		o.Cap2Act, o.Lifetime, o.OptionUnlimited, o.CapacityUnlimited,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting option %q: %w", o.Name, err)
	}
	return res.LastInsertId()
}
