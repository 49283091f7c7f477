package pricing

import (
	"encoding/json"
	"strings"
)

// lenientNumber accepts numbers, numeric strings, empty strings and null.
type lenientNumber float64

func (n *lenientNumber) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*n = 0
		return nil
	}
	switch x := v.(type) {
	case float64:
		*n = lenientNumber(finite(x))
	case string:
		*n = lenientNumber(ParseAmount(x))
	default:
		*n = 0
	}
	return nil
}

type lenientBool bool

func (f *lenientBool) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*f = false
		return nil
	}
	switch x := v.(type) {
	case bool:
		*f = lenientBool(x)
	case float64:
		*f = x != 0
	case string:
		*f = lenientBool(ParseFlag(x))
	default:
		*f = false
	}
	return nil
}

// ParseFlag reads a checkbox or flag value. "1", "true", "on" and "yes" are true.
func ParseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// UnmarshalJSON decodes a product scenario without rejecting empty or
// mistyped numeric fields; they decode as zero.
func (in *ProductInput) UnmarshalJSON(b []byte) error {
	var raw struct {
		ProductCost           lenientNumber   `json:"productCost"`
		InternationalShipping lenientNumber   `json:"internationalShippingCost"`
		Insurance             lenientNumber   `json:"insurance"`
		PackagingCost         lenientNumber   `json:"packagingCost"`
		Weight                lenientNumber   `json:"weight"`
		Length                lenientNumber   `json:"length"`
		Width                 lenientNumber   `json:"width"`
		Height                lenientNumber   `json:"height"`
		FulfillmentType       FulfillmentType `json:"fulfillmentType"`
		AmazonCategory        string          `json:"amazonCategory"`
		AmazonMarketplace     string          `json:"amazonMarketplace"`
		DesiredProfitMargin   lenientNumber   `json:"desiredProfitMargin"`
		EstimatedMonthlySales lenientNumber   `json:"estimatedMonthlySales"`
		CompetitorPrice       lenientNumber   `json:"competitorPrice"`
		ImportTaxRate         lenientNumber   `json:"importTaxRate"`
		VATRate               lenientNumber   `json:"vatRate"`
		CustomsFee            lenientNumber   `json:"customsFee"`
		IncludeTaxes          lenientBool     `json:"includeTaxes"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*in = ProductInput{
		ProductCost:           float64(raw.ProductCost),
		InternationalShipping: float64(raw.InternationalShipping),
		Insurance:             float64(raw.Insurance),
		PackagingCost:         float64(raw.PackagingCost),
		Weight:                float64(raw.Weight),
		Length:                float64(raw.Length),
		Width:                 float64(raw.Width),
		Height:                float64(raw.Height),
		FulfillmentType:       FulfillmentType(strings.ToUpper(strings.TrimSpace(string(raw.FulfillmentType)))),
		AmazonCategory:        raw.AmazonCategory,
		AmazonMarketplace:     raw.AmazonMarketplace,
		DesiredProfitMargin:   float64(raw.DesiredProfitMargin),
		EstimatedMonthlySales: float64(raw.EstimatedMonthlySales),
		CompetitorPrice:       float64(raw.CompetitorPrice),
		ImportTaxRate:         float64(raw.ImportTaxRate),
		VATRate:               float64(raw.VATRate),
		CustomsFee:            float64(raw.CustomsFee),
		IncludeTaxes:          bool(raw.IncludeTaxes),
	}
	return nil
}
