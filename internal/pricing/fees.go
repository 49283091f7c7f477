package pricing

import (
	"math"
	"sort"
)

// WeightTier is a flat fulfillment fee charged up to MaxWeight (inclusive).
type WeightTier struct {
	MaxWeight float64 `json:"maxWeight"`
	Fee       float64 `json:"fee"`
}

// FBASchedule is a simplified dimensional-weight fee table.
type FBASchedule struct {
	DimensionalDivisor float64      `json:"dimensionalDivisor"`
	Tiers              []WeightTier `json:"tiers"`
	OverflowPerUnit    float64      `json:"overflowPerUnit"`
}

// DBASchedule is a linear fixed plus per-weight fee.
type DBASchedule struct {
	FixedFee      float64 `json:"fixedFee"`
	PerUnitWeight float64 `json:"perUnitWeight"`
}

// FeeSchedule holds the fulfillment fee constants. These are approximations,
// not the real marketplace tables.
type FeeSchedule struct {
	FBA FBASchedule `json:"fba"`
	DBA DBASchedule `json:"dba"`
}

// DefaultFeeSchedule returns the US-style schedule used when no other is configured.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		FBA: FBASchedule{
			DimensionalDivisor: 139,
			Tiers: []WeightTier{
				{MaxWeight: 1, Fee: 3.22},
				{MaxWeight: 2, Fee: 4.90},
				{MaxWeight: 3, Fee: 5.60},
			},
			OverflowPerUnit: 0.38,
		},
		DBA: DBASchedule{
			FixedFee:      2.00,
			PerUnitWeight: 0.50,
		},
	}
}

// FulfillmentFee returns the fee for the given model. Unknown models and FBM cost nothing.
func (s FeeSchedule) FulfillmentFee(kind FulfillmentType, weight, length, width, height float64) float64 {
	switch kind {
	case FBA:
		return s.FBA.Fee(weight, length, width, height)
	case DBA:
		return s.DBA.Fee(weight)
	default:
		return 0
	}
}

// DimensionalWeight is the volumetric weight of a package.
func (s FBASchedule) DimensionalWeight(length, width, height float64) float64 {
	if s.DimensionalDivisor <= 0 {
		return 0
	}
	return finite(length * width * height / s.DimensionalDivisor)
}

// BillableWeight is the greater of actual and dimensional weight.
func (s FBASchedule) BillableWeight(weight, length, width, height float64) float64 {
	return math.Max(weight, s.DimensionalWeight(length, width, height))
}

// Fee applies the tier table to the billable weight. Tiers may be given in
// any order. Weights past the heaviest tier pay its fee plus OverflowPerUnit
// for each unit over it.
func (s FBASchedule) Fee(weight, length, width, height float64) float64 {
	if len(s.Tiers) == 0 {
		return 0
	}

	tiers := make([]WeightTier, len(s.Tiers))
	copy(tiers, s.Tiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MaxWeight < tiers[j].MaxWeight })

	billable := s.BillableWeight(weight, length, width, height)
	for _, tier := range tiers {
		if billable <= tier.MaxWeight {
			return tier.Fee
		}
	}

	last := tiers[len(tiers)-1]
	return last.Fee + (billable-last.MaxWeight)*s.OverflowPerUnit
}

// Fee returns FixedFee + weight*PerUnitWeight.
func (s DBASchedule) Fee(weight float64) float64 {
	return s.FixedFee + weight*s.PerUnitWeight
}
