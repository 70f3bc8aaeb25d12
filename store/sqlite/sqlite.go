/*
Package sqlite provides SQLite-backed storage for reference data.

PURPOSE:
  The projection engine is stateless. What the service does keep is
  reference data the calculators read: saved DRIP presets and tax bracket
  tables. No user portfolio is ever stored.

KEY TABLES:
  presets:    Named projection configs (config_json is a factory.ConfigJSON)
  tax_tables: Bracket tables keyed by (year, filing_status)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Reads take the read lock, so the hot
  path (GET /api/presets/{id}/projection) never waits on other readers.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/dividends.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  err = store.SeedPresets(ctx, records)
  preset, err := store.GetPreset(ctx, "conservative")

MIGRATION:
  Versioned SQL files in migrations/ are embedded and applied on New()
  with golang-migrate. Add a new numbered pair to change the schema.

SEE ALSO:
  - factory/config.go: ConfigJSON stored in presets.config_json
  - config/taxtables.go: Tax tables loaded from YAML before being stored
*/
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	gosqlite3 "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/dividend-engine/engine"
)

//go:embed migrations/*.sql
var migrations embed.FS

var (
	// ErrDuplicateSlug is returned when a preset slug is already taken.
	ErrDuplicateSlug = errors.New("preset slug already exists")

	// ErrBuiltInPreset is returned when deleting a seeded preset.
	ErrBuiltInPreset = errors.New("built-in presets cannot be deleted")
)

// Store persists reference data in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate applies the embedded migrations that are not applied yet.
func (s *Store) migrate() error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return err
	}
	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return err
	}
	// m.Close would close s.db as well.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// =============================================================================
// PRESET STORE
// =============================================================================

// PresetRecord is a stored preset with its JSON config.
type PresetRecord struct {
	ID          string
	Slug        string
	Name        string
	Description string
	ConfigJSON  string
	BuiltIn     bool
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const presetColumns = "id, slug, name, description, config_json, built_in, version, created_at, updated_at"

// SavePreset creates or updates a preset. A missing ID is generated.
// It returns the stored ID.
func (s *Store) SavePreset(ctx context.Context, p PresetRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.savePreset(ctx, s.db, p)
}

func (s *Store) savePreset(ctx context.Context, db interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}, p PresetRecord) (string, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Version == 0 {
		p.Version = 1
	}

	query := `
		INSERT INTO presets (id, slug, name, description, config_json, built_in, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug = excluded.slug,
			name = excluded.name,
			description = excluded.description,
			config_json = excluded.config_json,
			version = presets.version + 1,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.ExecContext(ctx, query,
		p.ID, p.Slug, p.Name, nullString(p.Description), p.ConfigJSON,
		p.BuiltIn, p.Version, now, now,
	)
	if isUniqueConstraintError(err) {
		return "", fmt.Errorf("%w: %s", ErrDuplicateSlug, p.Slug)
	}
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

// SeedPresets inserts built-in presets whose slug is not stored yet.
// Existing rows, including user edits, are left alone.
func (s *Store) SeedPresets(ctx context.Context, presets []PresetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range presets {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM presets WHERE slug = ?", p.Slug).Scan(&exists)
		if err != nil {
			return err
		}
		if exists > 0 {
			continue
		}
		p.BuiltIn = true
		if _, err := s.savePreset(ctx, tx, p); err != nil {
			return fmt.Errorf("failed to seed preset %s: %w", p.Slug, err)
		}
	}

	return tx.Commit()
}

// GetPreset retrieves a preset by ID or slug. It returns nil, nil when
// there is none.
func (s *Store) GetPreset(ctx context.Context, idOrSlug string) (*PresetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT "+presetColumns+" FROM presets WHERE id = ? OR slug = ?",
		idOrSlug, idOrSlug,
	)
	p, err := scanPreset(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPresets returns all presets, built-in ones first.
func (s *Store) ListPresets(ctx context.Context) ([]PresetRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+presetColumns+" FROM presets ORDER BY built_in DESC, created_at, rowid",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []PresetRecord
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, rows.Err()
}

// DeletePreset removes a user preset. Deleting a missing preset is not an error.
func (s *Store) DeletePreset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var builtIn bool
	err := s.db.QueryRowContext(ctx, "SELECT built_in FROM presets WHERE id = ?", id).Scan(&builtIn)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	if builtIn {
		return ErrBuiltInPreset
	}

	_, err = s.db.ExecContext(ctx, "DELETE FROM presets WHERE id = ?", id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(row rowScanner) (PresetRecord, error) {
	var (
		p                    PresetRecord
		description          sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &description, &p.ConfigJSON, &p.BuiltIn, &p.Version, &createdAt, &updatedAt)
	if err != nil {
		return PresetRecord{}, err
	}
	p.Description = description.String
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

// =============================================================================
// TAX TABLE STORE
// =============================================================================

type bracketJSON struct {
	Min  decimal.Decimal `json:"min"`
	Rate decimal.Decimal `json:"rate"`
}

// SaveTaxTable creates or replaces the table for its year and filing status.
func (s *Store) SaveTaxTable(ctx context.Context, table engine.TaxTable) error {
	if err := table.Validate(); err != nil {
		return err
	}

	ordinary, err := marshalBrackets(table.Ordinary)
	if err != nil {
		return err
	}
	qualified, err := marshalBrackets(table.Qualified)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO tax_tables (year, filing_status, ordinary_json, qualified_json, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(year, filing_status) DO UPDATE SET
			ordinary_json = excluded.ordinary_json,
			qualified_json = excluded.qualified_json,
			updated_at = excluded.updated_at
	`
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx, query, table.Year, string(table.FilingStatus), ordinary, qualified, now)
	return err
}

// GetTaxTable retrieves a table. It returns nil, nil when there is none.
func (s *Store) GetTaxTable(ctx context.Context, year int, status engine.FilingStatus) (*engine.TaxTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT year, filing_status, ordinary_json, qualified_json FROM tax_tables WHERE year = ? AND filing_status = ?",
		year, string(status),
	)
	table, err := scanTaxTable(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &table, nil
}

// ListTaxTables returns every table ordered by year and filing status.
func (s *Store) ListTaxTables(ctx context.Context) ([]engine.TaxTable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT year, filing_status, ordinary_json, qualified_json FROM tax_tables ORDER BY year, filing_status",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []engine.TaxTable
	for rows.Next() {
		table, err := scanTaxTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func scanTaxTable(row rowScanner) (engine.TaxTable, error) {
	var (
		table               engine.TaxTable
		status              string
		ordinary, qualified string
	)
	if err := row.Scan(&table.Year, &status, &ordinary, &qualified); err != nil {
		return engine.TaxTable{}, err
	}
	table.FilingStatus = engine.FilingStatus(status)

	var err error
	if table.Ordinary, err = unmarshalBrackets(ordinary); err != nil {
		return engine.TaxTable{}, err
	}
	if table.Qualified, err = unmarshalBrackets(qualified); err != nil {
		return engine.TaxTable{}, err
	}
	return table, nil
}

func marshalBrackets(brackets []engine.Bracket) (string, error) {
	out := make([]bracketJSON, 0, len(brackets))
	for _, b := range brackets {
		out = append(out, bracketJSON{Min: b.Min, Rate: b.Rate})
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to marshal brackets: %w", err)
	}
	return string(raw), nil
}

func unmarshalBrackets(raw string) ([]engine.Bracket, error) {
	var in []bracketJSON
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		return nil, fmt.Errorf("failed to unmarshal brackets: %w", err)
	}
	out := make([]engine.Bracket, 0, len(in))
	for _, b := range in {
		out = append(out, engine.Bracket{Min: b.Min, Rate: b.Rate})
	}
	return out, nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr gosqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == gosqlite3.ErrConstraintUnique
}
