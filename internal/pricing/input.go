package pricing

import (
	"math"
	"strconv"
	"strings"
)

// FulfillmentType selects the fulfillment-fee model applied to a product.
type FulfillmentType string

const (
	FBA FulfillmentType = "FBA"
	FBM FulfillmentType = "FBM"
	DBA FulfillmentType = "DBA"
)

// FulfillmentTypes lists the supported fulfillment models in display order.
func FulfillmentTypes() []FulfillmentType {
	return []FulfillmentType{FBA, FBM, DBA}
}

// ProductInput describes one product scenario. Amounts are in the
// marketplace currency and physical values use the marketplace units.
type ProductInput struct {
	ProductCost           float64         `json:"productCost"`
	InternationalShipping float64         `json:"internationalShippingCost"`
	Insurance             float64         `json:"insurance"`
	PackagingCost         float64         `json:"packagingCost"`
	Weight                float64         `json:"weight"`
	Length                float64         `json:"length"`
	Width                 float64         `json:"width"`
	Height                float64         `json:"height"`
	FulfillmentType       FulfillmentType `json:"fulfillmentType"`
	AmazonCategory        string          `json:"amazonCategory"`
	AmazonMarketplace     string          `json:"amazonMarketplace"`
	DesiredProfitMargin   float64         `json:"desiredProfitMargin"`
	EstimatedMonthlySales float64         `json:"estimatedMonthlySales"`
	CompetitorPrice       float64         `json:"competitorPrice"`
	ImportTaxRate         float64         `json:"importTaxRate"`
	VATRate               float64         `json:"vatRate"`
	CustomsFee            float64         `json:"customsFee"`
	IncludeTaxes          bool            `json:"includeTaxes"`
}

// DefaultInput returns the scenario the calculator opens with.
func DefaultInput() ProductInput {
	return ProductInput{
		ProductCost:           10,
		InternationalShipping: 2,
		Insurance:             0.5,
		PackagingCost:         0.25,
		Weight:                1,
		Length:                8,
		Width:                 6,
		Height:                4,
		FulfillmentType:       FBA,
		AmazonCategory:        "Electronics",
		AmazonMarketplace:     "US",
		DesiredProfitMargin:   25,
		EstimatedMonthlySales: 100,
		CompetitorPrice:       49.99,
		ImportTaxRate:         15,
		VATRate:               20,
		CustomsFee:            5,
		IncludeTaxes:          true,
	}
}

// Sanitized returns a copy with every non-finite numeric field set to zero.
// Negative values are kept as they are.
func (in ProductInput) Sanitized() ProductInput {
	out := in
	for _, f := range []*float64{
		&out.ProductCost,
		&out.InternationalShipping,
		&out.Insurance,
		&out.PackagingCost,
		&out.Weight,
		&out.Length,
		&out.Width,
		&out.Height,
		&out.DesiredProfitMargin,
		&out.EstimatedMonthlySales,
		&out.CompetitorPrice,
		&out.ImportTaxRate,
		&out.VATRate,
		&out.CustomsFee,
	} {
		*f = finite(*f)
	}
	return out
}

// ParseAmount converts a raw form or flag value into a number. Empty and
// non-numeric values yield 0.
func ParseAmount(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// Accept a decimal comma as typed in pt-BR/de-DE forms.
		v, err = strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if err != nil {
			return 0
		}
	}
	return finite(v)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
