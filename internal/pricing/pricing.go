package pricing

// Formatted holds the display strings of every currency field in a Breakdown.
type Formatted struct {
	BaseProductCost        string `json:"baseProductCost"`
	TotalTaxes             string `json:"totalTaxes"`
	ReferralFee            string `json:"referralFee"`
	FulfillmentFee         string `json:"fulfillmentFee"`
	OtherFees              string `json:"otherFees"`
	TotalAmazonFees        string `json:"totalAmazonFees"`
	TotalCost              string `json:"totalCost"`
	IdealPrice             string `json:"idealPrice"`
	MinPrice               string `json:"minPrice"`
	NetProfit              string `json:"netProfit"`
	NetProfitMargin        string `json:"netProfitMargin"`
	EstimatedMonthlyProfit string `json:"estimatedMonthlyProfit"`
	CompetitorPrice        string `json:"competitorPrice"`
}

// Breakdown contains every intermediate and derived value of one pricing run.
type Breakdown struct {
	BaseProductCost        float64 `json:"baseProductCost"`
	ImportTax              float64 `json:"importTax"`
	VAT                    float64 `json:"vat"`
	CustomsFee             float64 `json:"customsFee"`
	TotalTaxes             float64 `json:"totalTaxes"`
	LandedCost             float64 `json:"landedCost"`
	ReferralRate           float64 `json:"referralRate"`
	ReferralFee            float64 `json:"referralFee"`
	FulfillmentFee         float64 `json:"fulfillmentFee"`
	OtherFees              float64 `json:"otherFees"`
	TotalAmazonFees        float64 `json:"totalAmazonFees"`
	TotalCost              float64 `json:"totalCost"`
	IdealPrice             float64 `json:"idealPrice"`
	MinPrice               float64 `json:"minPrice"`
	NetProfitPerUnit       float64 `json:"netProfitPerUnit"`
	NetProfitMargin        float64 `json:"netProfitMargin"`
	EstimatedMonthlyProfit float64 `json:"estimatedMonthlyProfit"`
	DesiredProfitMargin    float64 `json:"desiredProfitMargin"`
	CompetitorPrice        float64 `json:"competitorPrice"`

	// MarginCapped reports that the desired margin could not be met together
	// with the referral rate and was dropped from the price solve.
	MarginCapped bool `json:"marginCapped"`

	Currency  string    `json:"currency"`
	Formatted Formatted `json:"formatted"`
	Formatter Formatter `json:"-"`
}

// Profitable reports whether each unit sold at the ideal price makes money.
func (b Breakdown) Profitable() bool {
	return b.NetProfitPerUnit > 0
}

// Calculate prices a product with the default fulfillment fee schedule.
// referralRate is a fraction of the selling price (0.08 for 8%).
func Calculate(input ProductInput, market Marketplace, referralRate float64) Breakdown {
	return CalculateWithSchedule(input, market, referralRate, DefaultFeeSchedule())
}

// CalculateWithSchedule prices a product. It never fails: non-finite inputs
// count as zero, every division is guarded and any sum that overflows to
// ±Inf counts as zero, so no field of the result is NaN or Inf.
func CalculateWithSchedule(input ProductInput, market Marketplace, referralRate float64, schedule FeeSchedule) Breakdown {
	in := input.Sanitized()
	r := finite(referralRate)

	baseCost := finite(in.ProductCost + in.InternationalShipping + in.Insurance + in.PackagingCost)

	var importTax, vat, customs float64
	if in.IncludeTaxes {
		importTax = finite(baseCost * (in.ImportTaxRate / 100.0))
		vat = finite(baseCost * (in.VATRate / 100.0))
		customs = in.CustomsFee
	}
	totalTaxes := finite(importTax + vat + customs)
	landedCost := finite(baseCost + totalTaxes)

	fulfillmentFee := finite(schedule.FulfillmentFee(in.FulfillmentType, in.Weight, in.Length, in.Width, in.Height))

	// Storage and closing fees would go here.
	otherFees := 0.0
	fixed := finite(landedCost + fulfillmentFee + otherFees)

	m := in.DesiredProfitMargin / 100.0
	idealPrice, capped := solvePrice(fixed, r, m)
	minPrice, _ := solvePrice(fixed, r, 0)

	referralFee := finite(idealPrice * r)
	totalAmazonFees := finite(referralFee + fulfillmentFee + otherFees)
	totalCost := finite(landedCost + totalAmazonFees)
	netProfit := finite(idealPrice - totalCost)

	netMargin := 0.0
	if idealPrice > 0 {
		netMargin = netProfit / idealPrice * 100
	}
	monthlyProfit := finite(netProfit * in.EstimatedMonthlySales)

	b := Breakdown{
		BaseProductCost:        baseCost,
		ImportTax:              importTax,
		VAT:                    vat,
		CustomsFee:             customs,
		TotalTaxes:             totalTaxes,
		LandedCost:             landedCost,
		ReferralRate:           r,
		ReferralFee:            referralFee,
		FulfillmentFee:         fulfillmentFee,
		OtherFees:              otherFees,
		TotalAmazonFees:        totalAmazonFees,
		TotalCost:              totalCost,
		IdealPrice:             idealPrice,
		MinPrice:               minPrice,
		NetProfitPerUnit:       netProfit,
		NetProfitMargin:        finite(netMargin),
		EstimatedMonthlyProfit: monthlyProfit,
		DesiredProfitMargin:    in.DesiredProfitMargin,
		CompetitorPrice:        in.CompetitorPrice,
		MarginCapped:           capped,
		Formatter:              NewFormatter(market),
	}
	b.Currency = b.Formatter.Currency()
	b.Formatted = b.format()
	return b
}

// solvePrice solves P = fixed + r*P + m*P. When r+m leaves no room it drops
// the margin term, and when r alone does it returns fixed unchanged.
func solvePrice(fixed, r, m float64) (price float64, marginDropped bool) {
	if d := 1 - r - m; d > 0 {
		return finite(fixed / d), false
	}
	marginDropped = m != 0
	if d := 1 - r; d > 0 {
		return finite(fixed / d), marginDropped
	}
	return fixed, marginDropped
}

func (b Breakdown) format() Formatted {
	f := b.Formatter
	return Formatted{
		BaseProductCost:        f.Format(b.BaseProductCost),
		TotalTaxes:             f.Format(b.TotalTaxes),
		ReferralFee:            f.Format(b.ReferralFee),
		FulfillmentFee:         f.Format(b.FulfillmentFee),
		OtherFees:              f.Format(b.OtherFees),
		TotalAmazonFees:        f.Format(b.TotalAmazonFees),
		TotalCost:              f.Format(b.TotalCost),
		IdealPrice:             f.Format(b.IdealPrice),
		MinPrice:               f.Format(b.MinPrice),
		NetProfit:              f.Format(b.NetProfitPerUnit),
		NetProfitMargin:        f.Percent(b.NetProfitMargin),
		EstimatedMonthlyProfit: f.Format(b.EstimatedMonthlyProfit),
		CompetitorPrice:        f.Format(b.CompetitorPrice),
	}
}
