package pricing

import "testing"

func TestCompareCompetitor(t *testing.T) {
	tests := []struct {
		name        string
		ideal       float64
		competitor  float64
		wantPos     Position
		wantPercent float64
	}{
		{name: "above", ideal: 60, competitor: 50, wantPos: PositionAbove, wantPercent: 20},
		{name: "below", ideal: 40, competitor: 50, wantPos: PositionBelow, wantPercent: 20},
		{name: "equal", ideal: 50, competitor: 50, wantPos: PositionEqual, wantPercent: 0},
		{name: "no competitor", ideal: 40, competitor: 0, wantPos: PositionAbove, wantPercent: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CompareCompetitor(Breakdown{IdealPrice: tc.ideal, CompetitorPrice: tc.competitor})
			if got.Position != tc.wantPos {
				t.Fatalf("position = %q, want %q", got.Position, tc.wantPos)
			}
			nearlyEqual(t, "percent", got.Percent, tc.wantPercent)
			nearlyEqual(t, "difference", got.Difference, tc.ideal-tc.competitor)
		})
	}
}

func TestDistribution_ClampsLossToZero(t *testing.T) {
	b := Calculate(ProductInput{ProductCost: 10, FulfillmentType: FBM}, usMarket, 0.15)
	b.NetProfitPerUnit = -3

	slices := Distribution(b)

	if len(slices) != 4 {
		t.Fatalf("expected 4 slices, got %d", len(slices))
	}
	nearlyEqual(t, "profit", slices[0].Value, 0)
	nearlyEqual(t, "product cost", slices[3].Value, 10)
	if slices[3].Formatted != "$10.00" {
		t.Fatalf("formatted product cost = %q", slices[3].Formatted)
	}
}

func TestDistribution_SumsToIdealPrice(t *testing.T) {
	b := Calculate(DefaultInput(), usMarket, 0.08)

	var sum float64
	for _, s := range Distribution(b) {
		sum += s.Value
	}
	approx(t, "sum", sum, b.IdealPrice, 1e-9)
}
