package pricing

import "math"

// Position describes where the ideal price sits relative to the competition.
type Position string

const (
	PositionAbove Position = "above"
	PositionBelow Position = "below"
	PositionEqual Position = "equal"
)

// Comparison is the ideal price measured against the competitor price.
type Comparison struct {
	Difference float64  `json:"difference"`
	Percent    float64  `json:"percent"`
	Position   Position `json:"position"`
}

// CompareCompetitor compares the ideal price with the competitor price.
// Percent is the absolute difference relative to the competitor price and is
// 0 when there is no positive competitor price to compare against.
func CompareCompetitor(b Breakdown) Comparison {
	diff := b.IdealPrice - b.CompetitorPrice

	c := Comparison{Difference: diff, Position: PositionEqual}
	switch {
	case diff > 0:
		c.Position = PositionAbove
	case diff < 0:
		c.Position = PositionBelow
	}
	if b.CompetitorPrice > 0 {
		c.Percent = math.Abs(diff) / b.CompetitorPrice * 100
	}
	return c
}

// Slice is one segment of the price distribution chart.
type Slice struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

// Distribution splits the ideal price into profit, Amazon fees, taxes and
// product cost. A loss is shown as zero profit.
func Distribution(b Breakdown) []Slice {
	slices := []Slice{
		{Name: "Lucro Líquido", Value: math.Max(0, b.NetProfitPerUnit)},
		{Name: "Taxas Amazon", Value: b.TotalAmazonFees},
		{Name: "Impostos e Taxas", Value: b.TotalTaxes},
		{Name: "Custo do Produto", Value: b.BaseProductCost},
	}
	for i := range slices {
		slices[i].Formatted = b.Formatter.Format(slices[i].Value)
	}
	return slices
}
