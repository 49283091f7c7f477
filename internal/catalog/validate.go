package catalog

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/currency"

	"github.com/Simplici0/lucrocerto/internal/pricing"
)

// ErrInvalid marks a reference table entry rejected by validation.
var ErrInvalid = errors.New("catalog: invalid entry")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// ValidateCategory checks a referral fee row. Rates are fractions below 1.
func ValidateCategory(name string, rate float64) error {
	if strings.TrimSpace(name) == "" {
		return invalidf("nome da categoria é obrigatório")
	}
	if rate < 0 || rate >= 1 {
		return invalidf("taxa de indicação deve estar entre 0 e 1 (exclusivo)")
	}
	return nil
}

// ValidateMarketplace checks a storefront row. The currency must be a known ISO 4217 code.
func ValidateMarketplace(m pricing.Marketplace) error {
	if normalizeKey(m.Key) == "" {
		return invalidf("código do marketplace é obrigatório")
	}
	if _, err := currency.ParseISO(strings.TrimSpace(m.Currency)); err != nil {
		return invalidf("moeda %q não é um código ISO 4217 válido", m.Currency)
	}
	if strings.TrimSpace(m.WeightUnit) == "" || strings.TrimSpace(m.DimensionUnit) == "" {
		return invalidf("unidades de peso e dimensão são obrigatórias")
	}
	return nil
}

// ValidateFeeSchedule checks the fulfillment fee constants.
func ValidateFeeSchedule(s pricing.FeeSchedule) error {
	if s.FBA.DimensionalDivisor <= 0 {
		return invalidf("divisor dimensional deve ser maior que 0")
	}
	if len(s.FBA.Tiers) == 0 {
		return invalidf("é necessária ao menos uma faixa FBA")
	}
	seen := make(map[float64]bool, len(s.FBA.Tiers))
	for _, tier := range s.FBA.Tiers {
		if tier.MaxWeight <= 0 {
			return invalidf("peso máximo da faixa deve ser maior que 0")
		}
		if tier.Fee < 0 {
			return invalidf("tarifa da faixa não pode ser negativa")
		}
		if seen[tier.MaxWeight] {
			return invalidf("faixa duplicada para peso %.2f", tier.MaxWeight)
		}
		seen[tier.MaxWeight] = true
	}
	if s.FBA.OverflowPerUnit < 0 || s.DBA.FixedFee < 0 || s.DBA.PerUnitWeight < 0 {
		return invalidf("tarifas não podem ser negativas")
	}
	return nil
}
