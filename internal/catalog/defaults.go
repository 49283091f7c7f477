package catalog

import "github.com/Simplici0/lucrocerto/internal/pricing"

var usMarketplace = pricing.Marketplace{
	Key: "US", Currency: "USD", WeightUnit: "lb", DimensionUnit: "in", Locale: "en-US", Symbol: "$",
}

// DefaultMarketplaces returns the built-in storefronts.
func DefaultMarketplaces() []pricing.Marketplace {
	return []pricing.Marketplace{
		usMarketplace,
		{Key: "BR", Currency: "BRL", WeightUnit: "kg", DimensionUnit: "cm", Locale: "pt-BR", Symbol: "R$"},
		{Key: "UK", Currency: "GBP", WeightUnit: "kg", DimensionUnit: "cm", Locale: "en-GB", Symbol: "£"},
		{Key: "DE", Currency: "EUR", WeightUnit: "kg", DimensionUnit: "cm", Locale: "de-DE", Symbol: "€", SymbolAfter: true},
	}
}

// DefaultCategories returns simplified referral rates. Real fees can be tiered.
func DefaultCategories() map[string]float64 {
	return map[string]float64{
		"Amazon Device Accessories": 0.45,
		"Books":                     0.15,
		"Camera & Photo":            0.08,
		"Cell Phones & Accessories": 0.08,
		"Computers & Accessories":   0.08,
		"Electronics":               0.08,
		"Fashion":                   0.17,
		"Furniture":                 0.15,
		"Grocery & Gourmet Food":    0.08,
		"Health & Personal Care":    0.15,
		"Home & Kitchen":            0.15,
		"Jewelry":                   0.20,
		"Office Products":           0.15,
		"Pet Supplies":              0.15,
		"Sports & Outdoors":         0.15,
		"Tools & Home Improvement":  0.15,
		"Toys & Games":              0.15,
		"Video Games":               0.15,
	}
}
