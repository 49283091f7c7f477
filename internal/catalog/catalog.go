// Package catalog holds the marketplace, category and fulfillment fee
// reference tables the pricing engine is fed from.
package catalog

import (
	"sort"
	"strings"

	"github.com/Simplici0/lucrocerto/internal/pricing"
)

const (
	DefaultMarketplaceKey = "US"
	DefaultReferralRate   = 0.15
)

// Catalog is an immutable snapshot of the reference tables. It is safe for
// concurrent use; lookups never fail.
type Catalog struct {
	marketplaces  map[string]pricing.Marketplace
	categories    map[string]float64
	schedule      pricing.FeeSchedule
	defaultMarket string
	defaultRate   float64
}

// Option customizes a Catalog built with New.
type Option func(*Catalog)

// WithDefaultMarketplace sets the marketplace unknown keys resolve to.
func WithDefaultMarketplace(key string) Option {
	return func(c *Catalog) {
		if key = normalizeKey(key); key != "" {
			c.defaultMarket = key
		}
	}
}

// WithDefaultReferralRate sets the rate unknown categories resolve to.
func WithDefaultReferralRate(rate float64) Option {
	return func(c *Catalog) {
		if rate >= 0 && rate < 1 {
			c.defaultRate = rate
		}
	}
}

// New copies the given tables into a Catalog.
func New(marketplaces []pricing.Marketplace, categories map[string]float64, schedule pricing.FeeSchedule, opts ...Option) *Catalog {
	c := &Catalog{
		marketplaces:  make(map[string]pricing.Marketplace, len(marketplaces)),
		categories:    make(map[string]float64, len(categories)),
		schedule:      copySchedule(schedule),
		defaultMarket: DefaultMarketplaceKey,
		defaultRate:   DefaultReferralRate,
	}
	for _, m := range marketplaces {
		m.Key = normalizeKey(m.Key)
		c.marketplaces[m.Key] = m
	}
	for name, rate := range categories {
		c.categories[strings.TrimSpace(name)] = rate
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Default returns the built-in tables.
func Default(opts ...Option) *Catalog {
	return New(DefaultMarketplaces(), DefaultCategories(), pricing.DefaultFeeSchedule(), opts...)
}

// Marketplace returns the marketplace for key, falling back to the default
// marketplace and finally to the built-in US entry.
func (c *Catalog) Marketplace(key string) pricing.Marketplace {
	if m, ok := c.marketplaces[normalizeKey(key)]; ok {
		return m
	}
	if m, ok := c.marketplaces[c.defaultMarket]; ok {
		return m
	}
	return usMarketplace
}

// HasMarketplace reports whether key is in the table.
func (c *Catalog) HasMarketplace(key string) bool {
	_, ok := c.marketplaces[normalizeKey(key)]
	return ok
}

// ReferralRate returns the category's referral fee fraction or the default
// rate. A stored rate of 0 counts as unset and also yields the default.
func (c *Catalog) ReferralRate(category string) float64 {
	if rate, ok := c.categories[strings.TrimSpace(category)]; ok && rate > 0 {
		return rate
	}
	return c.defaultRate
}

// DefaultRate is the referral rate used for unknown categories.
func (c *Catalog) DefaultRate() float64 {
	return c.defaultRate
}

// FeeSchedule returns a copy of the fulfillment fee schedule.
func (c *Catalog) FeeSchedule() pricing.FeeSchedule {
	return copySchedule(c.schedule)
}

// MarketplaceKeys returns the marketplace keys sorted alphabetically.
func (c *Catalog) MarketplaceKeys() []string {
	keys := make([]string, 0, len(c.marketplaces))
	for k := range c.marketplaces {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Marketplaces returns every marketplace sorted by key.
func (c *Catalog) Marketplaces() []pricing.Marketplace {
	out := make([]pricing.Marketplace, 0, len(c.marketplaces))
	for _, k := range c.MarketplaceKeys() {
		out = append(out, c.marketplaces[k])
	}
	return out
}

// Category is one row of the referral fee table.
type Category struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// Categories returns the referral table sorted by name.
func (c *Catalog) Categories() []Category {
	out := make([]Category, 0, len(c.categories))
	for name, rate := range c.categories {
		out = append(out, Category{Name: name, Rate: rate})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Resolve looks up the marketplace and referral rate for a product.
func (c *Catalog) Resolve(in pricing.ProductInput) (pricing.Marketplace, float64) {
	return c.Marketplace(in.AmazonMarketplace), c.ReferralRate(in.AmazonCategory)
}

// Price resolves the reference values for in and runs the pricing engine.
func (c *Catalog) Price(in pricing.ProductInput) pricing.Breakdown {
	market, rate := c.Resolve(in)
	return pricing.CalculateWithSchedule(in, market, rate, c.schedule)
}

func normalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

func copySchedule(s pricing.FeeSchedule) pricing.FeeSchedule {
	out := s
	out.FBA.Tiers = append([]pricing.WeightTier(nil), s.FBA.Tiers...)
	sort.SliceStable(out.FBA.Tiers, func(i, j int) bool {
		return out.FBA.Tiers[i].MaxWeight < out.FBA.Tiers[j].MaxWeight
	})
	return out
}
