package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Simplici0/lucrocerto/internal/catalog"
	"github.com/Simplici0/lucrocerto/internal/pricing"
)

const maxJSONBody = 1 << 20

type calculatorViewData struct {
	baseViewData
	Input            pricing.ProductInput
	Result           pricing.Breakdown
	Comparison       pricing.Comparison
	Distribution     []pricing.Slice
	Marketplace      pricing.Marketplace
	Marketplaces     []string
	Categories       []catalog.Category
	FulfillmentTypes []pricing.FulfillmentType
}

type pricingResponse struct {
	Input        pricing.ProductInput `json:"input"`
	Marketplace  pricing.Marketplace  `json:"marketplace"`
	Breakdown    pricing.Breakdown    `json:"breakdown"`
	Comparison   pricing.Comparison   `json:"comparison"`
	Distribution []pricing.Slice      `json:"distribution"`
	Profitable   bool                 `json:"profitable"`
}

type catalogResponse struct {
	Marketplaces        []pricing.Marketplace `json:"marketplaces"`
	Categories          []catalog.Category    `json:"categories"`
	DefaultReferralRate float64               `json:"defaultReferralRate"`
	FeeSchedule         pricing.FeeSchedule   `json:"feeSchedule"`
}

func (s *server) handleCalculatorForm(w http.ResponseWriter, r *http.Request) {
	s.renderCalculator(w, r, pricing.DefaultInput())
}

// handleCalculatorSubmit recomputes on every form post. Bad numbers count as
// zero so the page always renders a result.
func (s *server) handleCalculatorSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s.renderCalculator(w, r, parseProductForm(r))
}

func (s *server) renderCalculator(w http.ResponseWriter, r *http.Request, in pricing.ProductInput) {
	c := s.currentCatalog()
	result := c.Price(in)

	data := calculatorViewData{
		baseViewData:     baseViewData{LoggedIn: isAuthenticated(r, s.auth)},
		Input:            in,
		Result:           result,
		Comparison:       pricing.CompareCompetitor(result),
		Distribution:     pricing.Distribution(result),
		Marketplace:      c.Marketplace(in.AmazonMarketplace),
		Marketplaces:     c.MarketplaceKeys(),
		Categories:       c.Categories(),
		FulfillmentTypes: pricing.FulfillmentTypes(),
	}
	if !result.Profitable() {
		data.ErrorMessage = "Alerta de margem negativa: com a configuração atual você perde dinheiro em cada venda."
	}
	s.renderTemplate(w, "calculator.html", data)
}

func (s *server) handleAPIPricing(w http.ResponseWriter, r *http.Request) {
	var in pricing.ProductInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(&in); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	c := s.currentCatalog()
	result := c.Price(in)
	s.writeJSON(w, http.StatusOK, pricingResponse{
		Input:        in,
		Marketplace:  c.Marketplace(in.AmazonMarketplace),
		Breakdown:    result,
		Comparison:   pricing.CompareCompetitor(result),
		Distribution: pricing.Distribution(result),
		Profitable:   result.Profitable(),
	})
}

func (s *server) handleAPICatalog(w http.ResponseWriter, r *http.Request) {
	c := s.currentCatalog()
	s.writeJSON(w, http.StatusOK, catalogResponse{
		Marketplaces:        c.Marketplaces(),
		Categories:          c.Categories(),
		DefaultReferralRate: c.DefaultRate(),
		FeeSchedule:         c.FeeSchedule(),
	})
}

func parseProductForm(r *http.Request) pricing.ProductInput {
	amount := func(field string) float64 { return pricing.ParseAmount(r.FormValue(field)) }

	return pricing.ProductInput{
		ProductCost:           amount("productCost"),
		InternationalShipping: amount("internationalShippingCost"),
		Insurance:             amount("insurance"),
		PackagingCost:         amount("packagingCost"),
		Weight:                amount("weight"),
		Length:                amount("length"),
		Width:                 amount("width"),
		Height:                amount("height"),
		FulfillmentType:       pricing.FulfillmentType(strings.ToUpper(strings.TrimSpace(r.FormValue("fulfillmentType")))),
		AmazonCategory:        strings.TrimSpace(r.FormValue("amazonCategory")),
		AmazonMarketplace:     strings.TrimSpace(r.FormValue("amazonMarketplace")),
		DesiredProfitMargin:   amount("desiredProfitMargin"),
		EstimatedMonthlySales: amount("estimatedMonthlySales"),
		CompetitorPrice:       amount("competitorPrice"),
		ImportTaxRate:         amount("importTaxRate"),
		VATRate:               amount("vatRate"),
		CustomsFee:            amount("customsFee"),
		IncludeTaxes:          pricing.ParseFlag(r.FormValue("includeTaxes")),
	}
}

// writeJSON encodes body before touching w so a failed encode still
// reaches the client as a 500.
func (s *server) writeJSON(w http.ResponseWriter, status int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		s.logger.Error("encode json response", zap.Error(err))
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	payload = append(payload, '\n')
	if _, err := w.Write(payload); err != nil {
		s.logger.Warn("write json response", zap.Error(err))
	}
}
