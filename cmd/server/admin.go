package main

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Simplici0/lucrocerto/internal/catalog"
	"github.com/Simplici0/lucrocerto/internal/pricing"
)

// Blank tier rows rendered below the stored ones for new entries.
const extraTierRows = 2

type categoryView struct {
	Name        string
	RatePercent float64
	Active      bool
}

type categoriesViewData struct {
	baseViewData
	Categories  []categoryView
	DefaultRate float64
}

type marketplacesViewData struct {
	baseViewData
	Marketplaces []pricing.Marketplace
}

type feesViewData struct {
	baseViewData
	Schedule pricing.FeeSchedule
}

func adminBase(r *http.Request) baseViewData {
	return baseViewData{
		ErrorMessage:   r.URL.Query().Get("error"),
		SuccessMessage: r.URL.Query().Get("success"),
		LoggedIn:       true,
	}
}

func redirectWithError(w http.ResponseWriter, r *http.Request, path string, err error) {
	msg := err.Error()
	if errors.Is(err, catalog.ErrInvalid) {
		msg = strings.TrimPrefix(msg, catalog.ErrInvalid.Error()+": ")
	}
	http.Redirect(w, r, path+"?error="+url.QueryEscape(msg), http.StatusSeeOther)
}

func (s *server) handleAdminCategoriesForm(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListCategories(r.Context())
	if err != nil {
		s.logger.Error("list categories", zap.Error(err))
		http.Error(w, "failed to load categories", http.StatusInternalServerError)
		return
	}

	views := make([]categoryView, 0, len(rows))
	for _, row := range rows {
		views = append(views, categoryView{Name: row.Name, RatePercent: row.Rate * 100, Active: row.Active})
	}

	s.renderTemplate(w, "admin_categories.html", categoriesViewData{
		baseViewData: adminBase(r),
		Categories:   views,
		DefaultRate:  s.currentCatalog().DefaultRate() * 100,
	})
}

func (s *server) handleAdminCategoriesSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		http.Redirect(w, r, "/admin/categories?error=nome+%C3%A9+obrigat%C3%B3rio", http.StatusSeeOther)
		return
	}
	ratePercent, err := parsePercent(r.FormValue("rate_percent"), "rate_percent")
	if err != nil {
		redirectWithError(w, r, "/admin/categories", err)
		return
	}
	active := r.FormValue("active") == "1"

	if err := s.store.UpsertCategory(r.Context(), name, ratePercent/100, active); err != nil {
		if errors.Is(err, catalog.ErrInvalid) {
			redirectWithError(w, r, "/admin/categories", err)
			return
		}
		s.logger.Error("save category", zap.String("name", name), zap.Error(err))
		http.Error(w, "failed to save category", http.StatusInternalServerError)
		return
	}
	if !s.reloadAfterSave(w, r) {
		return
	}

	http.Redirect(w, r, "/admin/categories?success=Categoria+salva+com+sucesso", http.StatusSeeOther)
}

func (s *server) handleAdminMarketplacesForm(w http.ResponseWriter, r *http.Request) {
	marketplaces, err := s.store.ListMarketplaces(r.Context())
	if err != nil {
		s.logger.Error("list marketplaces", zap.Error(err))
		http.Error(w, "failed to load marketplaces", http.StatusInternalServerError)
		return
	}

	s.renderTemplate(w, "admin_marketplaces.html", marketplacesViewData{
		baseViewData: adminBase(r),
		Marketplaces: marketplaces,
	})
}

func (s *server) handleAdminMarketplacesSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	m := pricing.Marketplace{
		Key:           strings.TrimSpace(r.FormValue("code")),
		Currency:      strings.TrimSpace(r.FormValue("currency")),
		WeightUnit:    strings.TrimSpace(r.FormValue("weight_unit")),
		DimensionUnit: strings.TrimSpace(r.FormValue("dimension_unit")),
		Locale:        strings.TrimSpace(r.FormValue("locale")),
		Symbol:        strings.TrimSpace(r.FormValue("symbol")),
		SymbolAfter:   r.FormValue("symbol_after") == "1",
	}

	if err := s.store.UpsertMarketplace(r.Context(), m); err != nil {
		if errors.Is(err, catalog.ErrInvalid) {
			redirectWithError(w, r, "/admin/marketplaces", err)
			return
		}
		s.logger.Error("save marketplace", zap.String("code", m.Key), zap.Error(err))
		http.Error(w, "failed to save marketplace", http.StatusInternalServerError)
		return
	}
	if !s.reloadAfterSave(w, r) {
		return
	}

	http.Redirect(w, r, "/admin/marketplaces?success=Marketplace+salvo+com+sucesso", http.StatusSeeOther)
}

func (s *server) handleAdminFeesForm(w http.ResponseWriter, r *http.Request) {
	schedule, err := s.store.FeeSchedule(r.Context())
	if err != nil {
		s.logger.Error("load fee schedule", zap.Error(err))
		http.Error(w, "failed to load fee schedule", http.StatusInternalServerError)
		return
	}
	for i := 0; i < extraTierRows; i++ {
		schedule.FBA.Tiers = append(schedule.FBA.Tiers, pricing.WeightTier{})
	}

	s.renderTemplate(w, "admin_fees.html", feesViewData{
		baseViewData: adminBase(r),
		Schedule:     schedule,
	})
}

func (s *server) handleAdminFeesSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	schedule, err := parseFeeScheduleForm(r)
	if err != nil {
		redirectWithError(w, r, "/admin/fees", err)
		return
	}

	if err := s.store.SaveFeeSchedule(r.Context(), schedule); err != nil {
		if errors.Is(err, catalog.ErrInvalid) {
			redirectWithError(w, r, "/admin/fees", err)
			return
		}
		s.logger.Error("save fee schedule", zap.Error(err))
		http.Error(w, "failed to save fee schedule", http.StatusInternalServerError)
		return
	}
	if !s.reloadAfterSave(w, r) {
		return
	}

	http.Redirect(w, r, "/admin/fees?success=Tarifas+salvas+com+sucesso", http.StatusSeeOther)
}

func (s *server) reloadAfterSave(w http.ResponseWriter, r *http.Request) bool {
	if err := s.reloadCatalog(r.Context()); err != nil {
		s.logger.Error("reload catalog after save", zap.Error(err))
		http.Error(w, "failed to reload reference tables", http.StatusInternalServerError)
		return false
	}
	return true
}

func parseFeeScheduleForm(r *http.Request) (pricing.FeeSchedule, error) {
	var schedule pricing.FeeSchedule

	var err error
	if schedule.FBA.DimensionalDivisor, err = parsePositiveFloat(r.FormValue("dimensional_divisor"), "dimensional_divisor"); err != nil {
		return schedule, err
	}
	if schedule.FBA.OverflowPerUnit, err = parseNonNegativeFloat(r.FormValue("overflow_per_unit"), "overflow_per_unit"); err != nil {
		return schedule, err
	}
	if schedule.DBA.FixedFee, err = parseNonNegativeFloat(r.FormValue("dba_fixed_fee"), "dba_fixed_fee"); err != nil {
		return schedule, err
	}
	if schedule.DBA.PerUnitWeight, err = parseNonNegativeFloat(r.FormValue("dba_per_unit_weight"), "dba_per_unit_weight"); err != nil {
		return schedule, err
	}

	maxWeights := r.Form["tier_max_weight"]
	fees := r.Form["tier_fee"]
	if len(maxWeights) != len(fees) {
		return schedule, fmt.Errorf("faixas FBA incompletas")
	}
	for i := range maxWeights {
		if strings.TrimSpace(maxWeights[i]) == "" && strings.TrimSpace(fees[i]) == "" {
			continue
		}
		maxWeight, err := parsePositiveFloat(maxWeights[i], "tier_max_weight")
		if err != nil {
			return schedule, err
		}
		fee, err := parseNonNegativeFloat(fees[i], "tier_fee")
		if err != nil {
			return schedule, err
		}
		schedule.FBA.Tiers = append(schedule.FBA.Tiers, pricing.WeightTier{MaxWeight: maxWeight, Fee: fee})
	}

	return schedule, nil
}

func parseNonNegativeFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s deve ser numérico", field)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s deve ser maior ou igual a 0", field)
	}
	return value, nil
}

func parsePercent(raw, field string) (float64, error) {
	value, err := parseNonNegativeFloat(raw, field)
	if err != nil {
		return 0, err
	}
	if value >= 100 {
		return 0, fmt.Errorf("%s deve estar entre 0 e 100", field)
	}
	return value, nil
}

func parsePositiveFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s deve ser numérico", field)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s deve ser maior que 0", field)
	}
	return value, nil
}
