package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"lucrocerto"}, args...))
	return out.String(), err
}

func TestCalcDefaultScenarioText(t *testing.T) {
	out, err := runApp(t, "calc")
	if err != nil {
		t.Fatalf("calc: %v", err)
	}
	for _, expected := range []string{"$40.47", "25.00%", "$30.35", "Preço Mínimo", "abaixo da concorrência"} {
		if !strings.Contains(out, expected) {
			t.Fatalf("expected output to contain %q, got:\n%s", expected, out)
		}
	}
	if strings.Contains(out, "Alerta de margem negativa") {
		t.Fatalf("default scenario must be profitable")
	}
}

func TestCalcJSONWithFlags(t *testing.T) {
	out, err := runApp(t, "calc", "--format", "json", "--taxes=false", "--fulfillment", "fbm", "--marketplace", "br")
	if err != nil {
		t.Fatalf("calc: %v", err)
	}

	var resp calcOutput
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if resp.Breakdown.TotalTaxes != 0 || resp.Breakdown.FulfillmentFee != 0 {
		t.Fatalf("expected no taxes and no FBM fee: %+v", resp.Breakdown)
	}
	if want := 12.75 / 0.67; math.Abs(resp.Breakdown.IdealPrice-want) > 1e-9 {
		t.Fatalf("idealPrice = %v, want %v", resp.Breakdown.IdealPrice, want)
	}
	if resp.Marketplace.Currency != "BRL" || resp.Breakdown.Currency != "BRL" {
		t.Fatalf("expected BRL marketplace, got %+v", resp.Marketplace)
	}
}

func TestCalcInputFileWithOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "product.json")
	body := `{"productCost": "20", "fulfillmentType": "FBM", "amazonCategory": "Books", "desiredProfitMargin": 10}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}

	out, err := runApp(t, "calc", "--input", path, "--margin", "20", "--format", "json")
	if err != nil {
		t.Fatalf("calc: %v", err)
	}

	var resp calcOutput
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if resp.Input.ProductCost != 20 || resp.Input.DesiredProfitMargin != 20 || resp.Input.Weight != 0 {
		t.Fatalf("unexpected input: %+v", resp.Input)
	}
	// Books 15% + 20% margin.
	if want := 20 / 0.65; math.Abs(resp.Breakdown.IdealPrice-want) > 1e-9 {
		t.Fatalf("idealPrice = %v, want %v", resp.Breakdown.IdealPrice, want)
	}
}

func TestCalcRejectsUnknownFormat(t *testing.T) {
	if _, err := runApp(t, "calc", "--format", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestCalcRejectsInvalidLogLevel(t *testing.T) {
	if _, err := runApp(t, "--log-level", "loud", "calc"); err == nil {
		t.Fatalf("expected error for invalid log level")
	}
}

func TestCategoriesText(t *testing.T) {
	out, err := runApp(t, "categories")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	for _, expected := range []string{"Electronics", "8.00%", "Demais categorias: 15.00%"} {
		if !strings.Contains(out, expected) {
			t.Fatalf("expected output to contain %q, got:\n%s", expected, out)
		}
	}
}

func TestCategoriesUseDefaultRateFlag(t *testing.T) {
	out, err := runApp(t, "--default-referral-rate", "0.1", "categories")
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if !strings.Contains(out, "Demais categorias: 10.00%") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestMarketplacesJSON(t *testing.T) {
	out, err := runApp(t, "marketplaces", "--format", "json")
	if err != nil {
		t.Fatalf("marketplaces: %v", err)
	}
	var keys []struct {
		Key      string `json:"key"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal([]byte(out), &keys); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(keys) != 4 || keys[0].Key != "BR" {
		t.Fatalf("unexpected marketplaces: %+v", keys)
	}
}
