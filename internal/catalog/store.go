package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Simplici0/lucrocerto/internal/pricing"
)

// CategoryRow is a referral fee row as stored, including inactive entries.
type CategoryRow struct {
	ID     int64
	Name   string
	Rate   float64
	Active bool
}

// Store reads and writes the reference tables in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load builds a Catalog from the active rows. Inactive categories are left
// out so they resolve to the default rate.
func (s *Store) Load(ctx context.Context, opts ...Option) (*Catalog, error) {
	marketplaces, err := s.ListMarketplaces(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	categories := make(map[string]float64, len(rows))
	for _, row := range rows {
		if row.Active {
			categories[row.Name] = row.Rate
		}
	}

	schedule, err := s.FeeSchedule(ctx)
	if err != nil {
		return nil, err
	}

	return New(marketplaces, categories, schedule, opts...), nil
}

// ListMarketplaces returns every stored marketplace ordered by key.
func (s *Store) ListMarketplaces(ctx context.Context) ([]pricing.Marketplace, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, currency, weight_unit, dimension_unit, COALESCE(locale, ''), COALESCE(symbol, ''), symbol_after
		FROM marketplaces
		ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("query marketplaces: %w", err)
	}
	defer rows.Close()

	marketplaces := make([]pricing.Marketplace, 0)
	for rows.Next() {
		var m pricing.Marketplace
		if err := rows.Scan(&m.Key, &m.Currency, &m.WeightUnit, &m.DimensionUnit, &m.Locale, &m.Symbol, &m.SymbolAfter); err != nil {
			return nil, fmt.Errorf("scan marketplace: %w", err)
		}
		marketplaces = append(marketplaces, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate marketplaces: %w", err)
	}

	return marketplaces, nil
}

// ListCategories returns every stored category ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]CategoryRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, referral_rate, active
		FROM categories
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]CategoryRow, 0)
	for rows.Next() {
		var c CategoryRow
		if err := rows.Scan(&c.ID, &c.Name, &c.Rate, &c.Active); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// FeeSchedule reads the singleton fee schedule and its FBA tiers. A missing
// singleton yields the default schedule.
func (s *Store) FeeSchedule(ctx context.Context) (pricing.FeeSchedule, error) {
	var schedule pricing.FeeSchedule
	err := s.db.QueryRowContext(ctx, `
		SELECT fba_dimensional_divisor, fba_overflow_per_unit, dba_fixed_fee, dba_per_unit_weight
		FROM fee_schedule
		WHERE id = 1
	`).Scan(
		&schedule.FBA.DimensionalDivisor,
		&schedule.FBA.OverflowPerUnit,
		&schedule.DBA.FixedFee,
		&schedule.DBA.PerUnitWeight,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.DefaultFeeSchedule(), nil
		}
		return pricing.FeeSchedule{}, fmt.Errorf("query fee_schedule: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT max_weight, fee
		FROM fba_tiers
		ORDER BY max_weight
	`)
	if err != nil {
		return pricing.FeeSchedule{}, fmt.Errorf("query fba tiers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tier pricing.WeightTier
		if err := rows.Scan(&tier.MaxWeight, &tier.Fee); err != nil {
			return pricing.FeeSchedule{}, fmt.Errorf("scan fba tier: %w", err)
		}
		schedule.FBA.Tiers = append(schedule.FBA.Tiers, tier)
	}

	if err := rows.Err(); err != nil {
		return pricing.FeeSchedule{}, fmt.Errorf("iterate fba tiers: %w", err)
	}

	return schedule, nil
}

// UpsertCategory inserts or updates a category by name.
func (s *Store) UpsertCategory(ctx context.Context, name string, rate float64, active bool) error {
	name = strings.TrimSpace(name)
	if err := ValidateCategory(name, rate); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, referral_rate, active)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			referral_rate = excluded.referral_rate,
			active = excluded.active,
			updated_at = CURRENT_TIMESTAMP
	`, name, rate, active)
	if err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}

// UpsertMarketplace inserts or updates a marketplace by key.
func (s *Store) UpsertMarketplace(ctx context.Context, m pricing.Marketplace) error {
	if err := ValidateMarketplace(m); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO marketplaces (code, currency, weight_unit, dimension_unit, locale, symbol, symbol_after)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(code) DO UPDATE SET
			currency = excluded.currency,
			weight_unit = excluded.weight_unit,
			dimension_unit = excluded.dimension_unit,
			locale = excluded.locale,
			symbol = excluded.symbol,
			symbol_after = excluded.symbol_after,
			updated_at = CURRENT_TIMESTAMP
	`,
		normalizeKey(m.Key),
		strings.ToUpper(strings.TrimSpace(m.Currency)),
		strings.TrimSpace(m.WeightUnit),
		strings.TrimSpace(m.DimensionUnit),
		strings.TrimSpace(m.Locale),
		strings.TrimSpace(m.Symbol),
		m.SymbolAfter,
	)
	if err != nil {
		return fmt.Errorf("upsert marketplace: %w", err)
	}
	return nil
}

// SaveFeeSchedule replaces the fee schedule and its tiers in one transaction.
func (s *Store) SaveFeeSchedule(ctx context.Context, schedule pricing.FeeSchedule) error {
	if err := ValidateFeeSchedule(schedule); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin fee schedule transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO fee_schedule (id, fba_dimensional_divisor, fba_overflow_per_unit, dba_fixed_fee, dba_per_unit_weight)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fba_dimensional_divisor = excluded.fba_dimensional_divisor,
			fba_overflow_per_unit = excluded.fba_overflow_per_unit,
			dba_fixed_fee = excluded.dba_fixed_fee,
			dba_per_unit_weight = excluded.dba_per_unit_weight,
			updated_at = CURRENT_TIMESTAMP
	`,
		schedule.FBA.DimensionalDivisor,
		schedule.FBA.OverflowPerUnit,
		schedule.DBA.FixedFee,
		schedule.DBA.PerUnitWeight,
	); err != nil {
		return fmt.Errorf("upsert fee_schedule: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM fba_tiers`); err != nil {
		return fmt.Errorf("clear fba tiers: %w", err)
	}
	for _, tier := range schedule.FBA.Tiers {
		if _, err := tx.ExecContext(ctx, `INSERT INTO fba_tiers (max_weight, fee) VALUES (?, ?)`, tier.MaxWeight, tier.Fee); err != nil {
			return fmt.Errorf("insert fba tier: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit fee schedule transaction: %w", err)
	}
	return nil
}
