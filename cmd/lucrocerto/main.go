// Command lucrocerto prices Amazon products from the terminal.
//
// Usage:
//
//	lucrocerto calc --product-cost 10 --weight 1 --category Electronics
//	lucrocerto calc --input product.json --format json
//	lucrocerto categories
//	lucrocerto marketplaces
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Simplici0/lucrocerto/internal/catalog"
	"github.com/Simplici0/lucrocerto/internal/db"
	"github.com/Simplici0/lucrocerto/internal/pricing"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "lucrocerto",
		Usage:   "Amazon marketplace pricing calculator",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LUCROCERTO_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "SQLite database with admin-edited reference tables (built-in tables when empty)",
				EnvVars: []string{"DB_PATH"},
			},
			&cli.StringFlag{
				Name:    "default-marketplace",
				Value:   catalog.DefaultMarketplaceKey,
				Usage:   "Marketplace used for unknown keys",
				EnvVars: []string{"DEFAULT_MARKETPLACE"},
			},
			&cli.Float64Flag{
				Name:    "default-referral-rate",
				Value:   catalog.DefaultReferralRate,
				Usage:   "Referral fee fraction used for unknown categories",
				EnvVars: []string{"DEFAULT_REFERRAL_RATE"},
			},
		},
		Commands: []*cli.Command{
			calcCommand(),
			categoriesCommand(),
			marketplacesCommand(),
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format (text, json)",
	}
}

func calcCommand() *cli.Command {
	d := pricing.DefaultInput()
	return &cli.Command{
		Name:  "calc",
		Usage: "Compute the ideal selling price and cost breakdown of a product",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "JSON file with a product scenario; explicit flags override its values"},
			&cli.Float64Flag{Name: "product-cost", Value: d.ProductCost, Usage: "Unit purchase cost"},
			&cli.Float64Flag{Name: "shipping", Value: d.InternationalShipping, Usage: "International shipping per unit"},
			&cli.Float64Flag{Name: "insurance", Value: d.Insurance, Usage: "Insurance per unit"},
			&cli.Float64Flag{Name: "packaging", Value: d.PackagingCost, Usage: "Packaging per unit"},
			&cli.Float64Flag{Name: "weight", Value: d.Weight, Usage: "Actual weight in the marketplace unit"},
			&cli.Float64Flag{Name: "length", Value: d.Length, Usage: "Length in the marketplace unit"},
			&cli.Float64Flag{Name: "width", Value: d.Width, Usage: "Width in the marketplace unit"},
			&cli.Float64Flag{Name: "height", Value: d.Height, Usage: "Height in the marketplace unit"},
			&cli.StringFlag{Name: "fulfillment", Value: string(d.FulfillmentType), Usage: "Fulfillment type (FBA, FBM, DBA)"},
			&cli.StringFlag{Name: "category", Value: d.AmazonCategory, Usage: "Amazon category"},
			&cli.StringFlag{Name: "marketplace", Value: d.AmazonMarketplace, Usage: "Amazon marketplace key"},
			&cli.Float64Flag{Name: "margin", Value: d.DesiredProfitMargin, Usage: "Desired profit margin in percent"},
			&cli.Float64Flag{Name: "monthly-sales", Value: d.EstimatedMonthlySales, Usage: "Estimated units sold per month"},
			&cli.Float64Flag{Name: "competitor-price", Value: d.CompetitorPrice, Usage: "Average competitor price"},
			&cli.BoolFlag{Name: "taxes", Value: d.IncludeTaxes, Usage: "Include import taxes (use --taxes=false to skip)"},
			&cli.Float64Flag{Name: "import-tax-rate", Value: d.ImportTaxRate, Usage: "Import tax in percent of base cost"},
			&cli.Float64Flag{Name: "vat-rate", Value: d.VATRate, Usage: "VAT in percent of base cost"},
			&cli.Float64Flag{Name: "customs-fee", Value: d.CustomsFee, Usage: "Flat customs fee per unit"},
			formatFlag(),
		},
		Action: runCalc,
	}
}

func categoriesCommand() *cli.Command {
	return &cli.Command{
		Name:   "categories",
		Usage:  "List categories and their referral fee rates",
		Flags:  []cli.Flag{formatFlag()},
		Action: runCategories,
	}
}

func marketplacesCommand() *cli.Command {
	return &cli.Command{
		Name:   "marketplaces",
		Usage:  "List supported marketplaces",
		Flags:  []cli.Flag{formatFlag()},
		Action: runMarketplaces,
	}
}

func runCalc(c *cli.Context) error {
	logger, err := newLogger(c.String("log-level"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	in, err := productInput(c)
	if err != nil {
		return err
	}

	cat, err := loadCatalog(c, logger)
	if err != nil {
		return err
	}

	if !cat.HasMarketplace(in.AmazonMarketplace) {
		logger.Warn("unknown marketplace, using default", zap.String("marketplace", in.AmazonMarketplace))
	}
	result := cat.Price(in)
	logger.Debug("priced product",
		zap.String("category", in.AmazonCategory),
		zap.Float64("referral_rate", result.ReferralRate),
		zap.Float64("ideal_price", result.IdealPrice),
		zap.Bool("margin_capped", result.MarginCapped),
	)

	switch format := c.String("format"); format {
	case "json":
		return writeJSON(c.App.Writer, calcOutput{
			Input:        in,
			Marketplace:  cat.Marketplace(in.AmazonMarketplace),
			Breakdown:    result,
			Comparison:   pricing.CompareCompetitor(result),
			Distribution: pricing.Distribution(result),
			Profitable:   result.Profitable(),
		})
	case "text":
		return renderBreakdown(c.App.Writer, cat.Marketplace(in.AmazonMarketplace), result)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func runCategories(c *cli.Context) error {
	logger, err := newLogger(c.String("log-level"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cat, err := loadCatalog(c, logger)
	if err != nil {
		return err
	}

	switch format := c.String("format"); format {
	case "json":
		return writeJSON(c.App.Writer, cat.Categories())
	case "text":
		return renderCategories(c.App.Writer, cat.Categories(), cat.DefaultRate())
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func runMarketplaces(c *cli.Context) error {
	logger, err := newLogger(c.String("log-level"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cat, err := loadCatalog(c, logger)
	if err != nil {
		return err
	}

	switch format := c.String("format"); format {
	case "json":
		return writeJSON(c.App.Writer, cat.Marketplaces())
	case "text":
		return renderMarketplaces(c.App.Writer, cat.Marketplaces())
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

type calcOutput struct {
	Input        pricing.ProductInput `json:"input"`
	Marketplace  pricing.Marketplace  `json:"marketplace"`
	Breakdown    pricing.Breakdown    `json:"breakdown"`
	Comparison   pricing.Comparison   `json:"comparison"`
	Distribution []pricing.Slice      `json:"distribution"`
	Profitable   bool                 `json:"profitable"`
}

// productInput starts from the defaults, applies --input when given and
// then every flag the user set explicitly.
func productInput(c *cli.Context) (pricing.ProductInput, error) {
	in := pricing.DefaultInput()
	if path := c.String("input"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return in, fmt.Errorf("read input file: %w", err)
		}
		in = pricing.ProductInput{}
		if err := json.Unmarshal(raw, &in); err != nil {
			return in, fmt.Errorf("parse input file %s: %w", path, err)
		}
	}

	fromFile := c.String("input") != ""
	set := func(name string) bool { return !fromFile || c.IsSet(name) }

	amounts := map[string]*float64{
		"product-cost":     &in.ProductCost,
		"shipping":         &in.InternationalShipping,
		"insurance":        &in.Insurance,
		"packaging":        &in.PackagingCost,
		"weight":           &in.Weight,
		"length":           &in.Length,
		"width":            &in.Width,
		"height":           &in.Height,
		"margin":           &in.DesiredProfitMargin,
		"monthly-sales":    &in.EstimatedMonthlySales,
		"competitor-price": &in.CompetitorPrice,
		"import-tax-rate":  &in.ImportTaxRate,
		"vat-rate":         &in.VATRate,
		"customs-fee":      &in.CustomsFee,
	}
	for name, field := range amounts {
		if set(name) {
			*field = c.Float64(name)
		}
	}
	if set("fulfillment") {
		in.FulfillmentType = pricing.FulfillmentType(strings.ToUpper(strings.TrimSpace(c.String("fulfillment"))))
	}
	if set("category") {
		in.AmazonCategory = strings.TrimSpace(c.String("category"))
	}
	if set("marketplace") {
		in.AmazonMarketplace = strings.TrimSpace(c.String("marketplace"))
	}
	if set("taxes") {
		in.IncludeTaxes = c.Bool("taxes")
	}
	return in, nil
}

func loadCatalog(c *cli.Context, logger *zap.Logger) (*catalog.Catalog, error) {
	rate := c.Float64("default-referral-rate")
	if rate < 0 || rate >= 1 {
		return nil, fmt.Errorf("default referral rate must be in [0, 1), got %v", rate)
	}
	opts := []catalog.Option{
		catalog.WithDefaultMarketplace(c.String("default-marketplace")),
		catalog.WithDefaultReferralRate(rate),
	}

	path := c.String("db")
	if path == "" {
		return catalog.Default(opts...), nil
	}

	database, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	defer database.Close()

	cat, err := catalog.NewStore(database).Load(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded reference tables", zap.String("db", path), zap.Int("marketplaces", len(cat.MarketplaceKeys())))
	return cat, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
