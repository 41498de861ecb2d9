package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/poiesic/vitrine/builder"
	"github.com/shopspring/decimal"
)

var (
	seed           = flag.Uint64("seed", 1, "generator seed")
	count          = flag.Int("count", 200, "number of products")
	variationCount = flag.Int("variations", 3, "variations per product")
	productsOut    = flag.String("products", "products.json", "product export path")
	variationsOut  = flag.String("variations-out", "variations.json", "variation export path")
	messy          = flag.Bool("messy", false, "inject the data-quality problems real exports have")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// roughen breaks a handful of records the way hand-maintained exports tend to:
// a missing slug, a missing price, a promotional price without its flag, a
// repeated id, and a variation pointing at a product that does not exist.
func roughen(products []builder.RawProduct, variations []builder.RawVariation) ([]builder.RawProduct, []builder.RawVariation) {
	if len(products) > 0 {
		products[0].Slug = ""
	}
	if len(products) > 1 {
		products[1].Price = decimal.NullDecimal{}
	}
	if len(products) > 2 {
		products[2].IsPromotional = false
		products[2].PromotionalPrice = decimal.NewNullDecimal(products[2].Price.Decimal.Div(decimal.NewFromInt(2)))
	}
	if len(products) > 3 {
		dup := products[3]
		dup.Slug += "-copy"
		products = append(products, dup)
	}
	variations = append(variations, builder.RawVariation{ID: "orphan", ProductID: "no-such-product", Color: "Teal"})
	return products, variations
}

func main() {
	result, err := builder.Generate(builder.SyntheticConfig{
		Seed:                 *seed,
		Count:                *count,
		VariationsPerProduct: *variationCount,
	})
	if err != nil {
		panic(err)
	}

	products, variations, err := builder.Exports(result.Catalog)
	if err != nil {
		panic(err)
	}
	if *messy {
		products, variations = roughen(products, variations)
	}

	if err := builder.WriteExports(products, variations, *productsOut, *variationsOut); err != nil {
		panic(err)
	}
	slog.Info("wrote exports", "products", len(products), "variations", len(variations),
		"products_path", *productsOut, "variations_path", *variationsOut)
}
