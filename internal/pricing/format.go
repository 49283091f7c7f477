package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const defaultScale = 2

// Marketplace is the display metadata of one Amazon storefront. It takes no
// part in the arithmetic.
type Marketplace struct {
	Key           string `json:"key"`
	Currency      string `json:"currency"`
	WeightUnit    string `json:"weightUnit"`
	DimensionUnit string `json:"dimensionUnit"`
	Locale        string `json:"locale"`
	Symbol        string `json:"symbol"`
	SymbolAfter   bool   `json:"symbolAfter"`
}

// Formatter renders amounts in a marketplace currency. Build one with NewFormatter.
type Formatter struct {
	code        string
	symbol      string
	symbolAfter bool
	scale       int32
	tag         language.Tag
}

// NewFormatter binds a formatter to the marketplace currency and locale.
// Unknown currency codes keep the code as the symbol and two decimals.
func NewFormatter(m Marketplace) Formatter {
	f := Formatter{
		code:        strings.ToUpper(strings.TrimSpace(m.Currency)),
		symbol:      m.Symbol,
		symbolAfter: m.SymbolAfter,
		scale:       defaultScale,
		tag:         language.English,
	}

	if unit, err := currency.ParseISO(f.code); err == nil {
		scale, _ := currency.Standard.Rounding(unit)
		f.scale = int32(scale)
	}
	if f.symbol == "" {
		f.symbol = f.code
	}
	if tag, err := language.Parse(m.Locale); err == nil {
		f.tag = tag
	}

	return f
}

// Currency returns the ISO code the formatter is bound to.
func (f Formatter) Currency() string {
	return f.code
}

// Format rounds v half away from zero to the currency's minor unit and
// renders it with locale digit grouping.
func (f Formatter) Format(v float64) string {
	amount := decimal.NewFromFloat(finite(v)).Round(f.scale)
	negative := amount.IsNegative()
	if negative {
		amount = amount.Neg()
	}

	number := message.NewPrinter(f.tag).Sprintf(fmt.Sprintf("%%.%df", f.scale), amount.InexactFloat64())

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	switch {
	case f.symbol == "":
		b.WriteString(number)
	case f.symbolAfter:
		b.WriteString(number)
		b.WriteString(" ")
		b.WriteString(f.symbol)
	default:
		b.WriteString(f.symbol)
		b.WriteString(number)
	}
	return b.String()
}

// Percent renders a percentage with two decimals, e.g. "25.00%".
func (f Formatter) Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", finite(v))
}
