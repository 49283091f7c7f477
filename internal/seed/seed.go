package seed

import (
	"database/sql"
	"fmt"
	"sort"

	"golang.org/x/crypto/bcrypt"

	"github.com/Simplici0/lucrocerto/internal/catalog"
	"github.com/Simplici0/lucrocerto/internal/pricing"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way. Existing rows are
// never overwritten so admin edits survive restarts.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	steps := []func(*sql.Tx, *Stats) error{
		func(tx *sql.Tx, stats *Stats) error { return seedAdmin(tx, cfg.AdminEmail, cfg.AdminPassword, stats) },
		ensureMarketplaces,
		ensureCategories,
		ensureFeeSchedule,
	}
	for _, step := range steps {
		if err := step(tx, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, string(hash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureMarketplaces(tx *sql.Tx, stats *Stats) error {
	for _, m := range catalog.DefaultMarketplaces() {
		result, err := tx.Exec(`
			INSERT INTO marketplaces (code, currency, weight_unit, dimension_unit, locale, symbol, symbol_after)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(code) DO NOTHING
		`, m.Key, m.Currency, m.WeightUnit, m.DimensionUnit, m.Locale, m.Symbol, m.SymbolAfter)
		if err != nil {
			return fmt.Errorf("insert default marketplace %s: %w", m.Key, err)
		}
		if err := countInsert(result, stats); err != nil {
			return err
		}
	}
	return nil
}

func ensureCategories(tx *sql.Tx, stats *Stats) error {
	defaults := catalog.DefaultCategories()
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		result, err := tx.Exec(`
			INSERT INTO categories (name, referral_rate, active)
			VALUES (?, ?, TRUE)
			ON CONFLICT(name) DO NOTHING
		`, name, defaults[name])
		if err != nil {
			return fmt.Errorf("insert default category %q: %w", name, err)
		}
		if err := countInsert(result, stats); err != nil {
			return err
		}
	}
	return nil
}

func ensureFeeSchedule(tx *sql.Tx, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM fee_schedule WHERE id = 1)`).Scan(&exists); err != nil {
		return fmt.Errorf("check fee schedule existence: %w", err)
	}
	if exists {
		return nil
	}

	schedule := pricing.DefaultFeeSchedule()
	if _, err := tx.Exec(`
		INSERT INTO fee_schedule (id, fba_dimensional_divisor, fba_overflow_per_unit, dba_fixed_fee, dba_per_unit_weight)
		VALUES (1, ?, ?, ?, ?)
	`, schedule.FBA.DimensionalDivisor, schedule.FBA.OverflowPerUnit, schedule.DBA.FixedFee, schedule.DBA.PerUnitWeight); err != nil {
		return fmt.Errorf("insert fee schedule singleton: %w", err)
	}
	for _, tier := range schedule.FBA.Tiers {
		if _, err := tx.Exec(`INSERT INTO fba_tiers (max_weight, fee) VALUES (?, ?)`, tier.MaxWeight, tier.Fee); err != nil {
			return fmt.Errorf("insert default fba tier: %w", err)
		}
	}
	stats.Inserts++
	return nil
}

func countInsert(result sql.Result, stats *Stats) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read affected rows: %w", err)
	}
	stats.Inserts += int(affected)
	return nil
}
