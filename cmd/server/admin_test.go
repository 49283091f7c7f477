package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestParseFeeScheduleForm(t *testing.T) {
	form := url.Values{}
	form.Set("dimensional_divisor", "139")
	form.Set("overflow_per_unit", "0.38")
	form.Set("dba_fixed_fee", "2")
	form.Set("dba_per_unit_weight", "0.5")
	form["tier_max_weight"] = []string{"1", "2", "", "3"}
	form["tier_fee"] = []string{"3.22", "4.90", "", "5.60"}

	req := httptest.NewRequest(http.MethodPost, "/admin/fees", nil)
	req.Form = form

	schedule, err := parseFeeScheduleForm(req)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if schedule.FBA.DimensionalDivisor != 139 || schedule.DBA.PerUnitWeight != 0.5 {
		t.Fatalf("unexpected schedule: %+v", schedule)
	}
	if len(schedule.FBA.Tiers) != 3 {
		t.Fatalf("expected blank tier rows to be skipped, got %+v", schedule.FBA.Tiers)
	}
}

func TestParseFeeScheduleFormInvalid(t *testing.T) {
	base := func() url.Values {
		return url.Values{
			"dimensional_divisor": {"139"},
			"overflow_per_unit":   {"0.38"},
			"dba_fixed_fee":       {"2"},
			"dba_per_unit_weight": {"0.5"},
		}
	}

	tests := map[string]func(url.Values){
		"zero divisor":       func(f url.Values) { f.Set("dimensional_divisor", "0") },
		"negative fee":       func(f url.Values) { f.Set("dba_fixed_fee", "-1") },
		"not a number":       func(f url.Values) { f.Set("overflow_per_unit", "abc") },
		"nan":                func(f url.Values) { f.Set("dba_per_unit_weight", "NaN") },
		"mismatched tiers":   func(f url.Values) { f["tier_max_weight"] = []string{"1"} },
		"tier without limit": func(f url.Values) { f["tier_max_weight"] = []string{""}; f["tier_fee"] = []string{"3"} },
	}
	for name, mutate := range tests {
		form := base()
		mutate(form)
		req := httptest.NewRequest(http.MethodPost, "/admin/fees", nil)
		req.Form = form

		if _, err := parseFeeScheduleForm(req); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestParsePercent(t *testing.T) {
	if v, err := parsePercent(" 12.5 ", "rate_percent"); err != nil || v != 12.5 {
		t.Fatalf("parsePercent = %v, %v", v, err)
	}
	for _, raw := range []string{"100", "-1", "", "Inf"} {
		if _, err := parsePercent(raw, "rate_percent"); err == nil {
			t.Fatalf("parsePercent(%q): expected error", raw)
		}
	}
}

func TestAdminPagesRequireLogin(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.routes()

	for _, path := range []string{"/admin/categories", "/admin/marketplaces", "/admin/fees"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/login" {
			t.Fatalf("%s: expected redirect to /login, got %d", path, rr.Code)
		}
	}
}

func TestAdminPagesRender(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.routes()
	cookie := loginCookie(t, handler)

	for path, expected := range map[string]string{
		"/admin/categories":   "Electronics",
		"/admin/marketplaces": "BRL",
		"/admin/fees":         "dimensional_divisor",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", path, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), expected) {
			t.Fatalf("%s: expected body to contain %q", path, expected)
		}
	}
}

func TestAdminCategorySaveReloadsCatalog(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.routes()
	cookie := loginCookie(t, handler)

	rr := postForm(handler, "/admin/categories", url.Values{
		"name":         {"Garden"},
		"rate_percent": {"12"},
		"active":       {"1"},
	}, cookie)
	if rr.Code != http.StatusSeeOther || !strings.Contains(rr.Header().Get("Location"), "success=") {
		t.Fatalf("unexpected response %d %q", rr.Code, rr.Header().Get("Location"))
	}
	if got := srv.currentCatalog().ReferralRate("Garden"); got != 0.12 {
		t.Fatalf("ReferralRate(Garden) = %v, want 0.12", got)
	}

	rr = postForm(handler, "/admin/categories", url.Values{
		"name":         {"Garden"},
		"rate_percent": {"12"},
	}, cookie)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d", rr.Code)
	}
	if got := srv.currentCatalog().ReferralRate("Garden"); got != 0.15 {
		t.Fatalf("inactive category should use the default rate, got %v", got)
	}
}

func TestAdminCategorySaveRejectsInvalidRate(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.routes()
	cookie := loginCookie(t, handler)

	rr := postForm(handler, "/admin/categories", url.Values{"name": {"Garden"}, "rate_percent": {"150"}}, cookie)
	if rr.Code != http.StatusSeeOther || !strings.Contains(rr.Header().Get("Location"), "error=") {
		t.Fatalf("expected redirect with error, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
	rows, err := srv.store.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	for _, row := range rows {
		if row.Name == "Garden" {
			t.Fatalf("invalid category must not be stored")
		}
	}
}

func TestAdminMarketplaceSave(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.routes()
	cookie := loginCookie(t, handler)

	rr := postForm(handler, "/admin/marketplaces", url.Values{
		"code":           {"jp"},
		"currency":       {"jpy"},
		"weight_unit":    {"kg"},
		"dimension_unit": {"cm"},
		"locale":         {"ja-JP"},
		"symbol":         {"¥"},
	}, cookie)
	if rr.Code != http.StatusSeeOther || !strings.Contains(rr.Header().Get("Location"), "success=") {
		t.Fatalf("unexpected response %d %q", rr.Code, rr.Header().Get("Location"))
	}

	c := srv.currentCatalog()
	if !c.HasMarketplace("JP") || c.Marketplace("JP").Currency != "JPY" {
		t.Fatalf("expected JP marketplace after save, got %+v", c.Marketplace("JP"))
	}

	rr = postForm(handler, "/admin/marketplaces", url.Values{
		"code":           {"XX"},
		"currency":       {"NOPE"},
		"weight_unit":    {"kg"},
		"dimension_unit": {"cm"},
	}, cookie)
	if !strings.Contains(rr.Header().Get("Location"), "error=") {
		t.Fatalf("expected invalid currency to be rejected, got %q", rr.Header().Get("Location"))
	}
}

func TestAdminFeesSaveReloadsCatalog(t *testing.T) {
	srv := newTestServer(t)
	handler := srv.routes()
	cookie := loginCookie(t, handler)

	rr := postForm(handler, "/admin/fees", url.Values{
		"dimensional_divisor": {"166"},
		"overflow_per_unit":   {"0.5"},
		"dba_fixed_fee":       {"3"},
		"dba_per_unit_weight": {"1"},
		"tier_max_weight":     {"1", "5"},
		"tier_fee":            {"4", "8"},
	}, cookie)
	if rr.Code != http.StatusSeeOther || !strings.Contains(rr.Header().Get("Location"), "success=") {
		t.Fatalf("unexpected response %d %q", rr.Code, rr.Header().Get("Location"))
	}

	schedule := srv.currentCatalog().FeeSchedule()
	if schedule.FBA.DimensionalDivisor != 166 || len(schedule.FBA.Tiers) != 2 || schedule.DBA.FixedFee != 3 {
		t.Fatalf("unexpected schedule after save: %+v", schedule)
	}
}
