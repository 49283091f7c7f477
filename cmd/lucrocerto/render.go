package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Simplici0/lucrocerto/internal/catalog"
	"github.com/Simplici0/lucrocerto/internal/pricing"
)

const labelWidth = 34

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	total    lipgloss.Style
	positive lipgloss.Style
	negative lipgloss.Style
	muted    lipgloss.Style
}

// newStyles binds the palette to w so colors are dropped when w is not a terminal.
func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF9900")),
		label:    r.NewStyle().Width(labelWidth),
		total:    r.NewStyle().Bold(true),
		positive: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981")),
		negative: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		muted:    r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
	}
}

func renderBreakdown(w io.Writer, m pricing.Marketplace, b pricing.Breakdown) error {
	s := newStyles(w)
	f := b.Formatted

	profit := s.positive
	if !b.Profitable() {
		profit = s.negative
	}

	var out strings.Builder
	line := func(label, value string) {
		out.WriteString(s.label.Render(label) + value + "\n")
	}

	out.WriteString(s.title.Render(fmt.Sprintf("LucroCerto · %s (%s)", m.Key, b.Currency)) + "\n\n")

	line("Custo Base do Produto", f.BaseProductCost)
	line("Total de Impostos e Taxas", f.TotalTaxes)
	line(fmt.Sprintf("Taxa de Venda Amazon (%.0f%%)", b.ReferralRate*100), f.ReferralFee)
	line("Taxas de Logística", f.FulfillmentFee)
	line("Outras Taxas Amazon", f.OtherFees)
	line("Custo Total por Unidade", s.total.Render(f.TotalCost))
	out.WriteString("\n")
	line("Preço Mínimo (Lucro 0%)", f.MinPrice)
	line(fmt.Sprintf("Preço Ideal (%g%% Lucro)", b.DesiredProfitMargin), s.total.Render(f.IdealPrice))
	line("Preço Concorrente", f.CompetitorPrice)
	out.WriteString("\n")
	line("Lucro Líquido por Unidade", profit.Render(f.NetProfit))
	line("Margem de Lucro Líquida", profit.Render(f.NetProfitMargin))
	line("Lucro Mensal Estimado", profit.Render(f.EstimatedMonthlyProfit))

	cmp := pricing.CompareCompetitor(b)
	out.WriteString("\n")
	switch cmp.Position {
	case pricing.PositionAbove:
		out.WriteString(fmt.Sprintf("Preço ideal %.1f%% acima da concorrência.\n", cmp.Percent))
	case pricing.PositionBelow:
		out.WriteString(fmt.Sprintf("Preço ideal %.1f%% abaixo da concorrência.\n", cmp.Percent))
	default:
		out.WriteString("Preço ideal igual ao da concorrência.\n")
	}

	if b.MarginCapped {
		out.WriteString(s.negative.Render("A margem desejada não cabe junto à taxa de indicação; o preço cobre apenas os custos.") + "\n")
	}
	if !b.Profitable() {
		out.WriteString(s.negative.Render("Alerta de margem negativa: você perde dinheiro em cada venda.") + "\n")
	}
	out.WriteString(s.muted.Render(fmt.Sprintf("Peso em %s, dimensões em %s.", m.WeightUnit, m.DimensionUnit)) + "\n")

	_, err := io.WriteString(w, out.String())
	return err
}

func renderCategories(w io.Writer, categories []catalog.Category, defaultRate float64) error {
	s := newStyles(w)

	var out strings.Builder
	out.WriteString(s.title.Render("Categorias") + "\n")
	for _, c := range categories {
		out.WriteString(s.label.Render(c.Name) + fmt.Sprintf("%6.2f%%\n", c.Rate*100))
	}
	out.WriteString(s.muted.Render(fmt.Sprintf("Demais categorias: %.2f%%", defaultRate*100)) + "\n")

	_, err := io.WriteString(w, out.String())
	return err
}

func renderMarketplaces(w io.Writer, marketplaces []pricing.Marketplace) error {
	s := newStyles(w)

	var out strings.Builder
	out.WriteString(s.title.Render("Marketplaces") + "\n")
	for _, m := range marketplaces {
		sample := pricing.NewFormatter(m).Format(1234.5)
		out.WriteString(s.label.Render(m.Key) + fmt.Sprintf("%s  %s/%s  %s\n", m.Currency, m.WeightUnit, m.DimensionUnit, sample))
	}

	_, err := io.WriteString(w, out.String())
	return err
}
