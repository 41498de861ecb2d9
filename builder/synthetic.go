package builder

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/poiesic/vitrine/core"
	"github.com/shopspring/decimal"
)

// Price bands of generated products, in minor units.
const (
	minSyntheticPrice core.Money = 5000   // 50.00
	maxSyntheticPrice core.Money = 499999 // 4999.99

	promoProbability = 0.2
	minPromoFactor   = 0.70
	maxPromoFactor   = 0.95

	minDimensionCM = 30
	maxDimensionCM = 239
)

var (
	adjectives = []string{
		"Modern", "Cozy", "Elegant", "Vintage", "Sleek", "Rustic", "Minimal", "Premium",
		"Compact", "Bold", "Lux", "Heritage", "Scandi", "Coastal", "Classic",
	}
	materials = []string{
		"Oak", "Walnut", "Maple", "Beech", "Ash", "Pine", "Birch", "Bamboo",
		"Steel", "Aluminium", "Brass", "Linen", "Leather", "Bouclé", "Velvet",
	}
	productTypes = []string{
		"Sofa", "Armchair", "Side Table", "Coffee Table", "Dining Table", "Desk", "Bed",
		"Bookshelf", "Stool", "Bench", "Media Console", "Cabinet", "Nightstand",
		"Dresser", "Lamp", "Wardrobe",
	}
	colors = []string{
		"Midnight Blue", "Forest Green", "Terracotta", "Sunset Orange", "Slate Gray",
		"Ivory", "Charcoal", "Moss", "Blush", "Sand", "Sage", "Mustard", "Teal",
	}
)

// SyntheticConfig parameterizes the synthetic generator. The generated catalog is
// a pure function of these three values.
type SyntheticConfig struct {
	Seed                 uint64
	Count                int
	VariationsPerProduct int
}

// Validate checks that counts are non-negative.
func (c SyntheticConfig) Validate() error {
	if c.Count < 0 {
		return fmt.Errorf("%w: count %d is negative", ErrInvalidConfig, c.Count)
	}
	if c.VariationsPerProduct < 0 {
		return fmt.Errorf("%w: variations per product %d is negative", ErrInvalidConfig, c.VariationsPerProduct)
	}
	return nil
}

// generator draws every value from one ChaCha8 stream, so identical seeds yield
// identical catalogs regardless of the calling environment.
type generator struct {
	src *rand.ChaCha8
	rng *rand.Rand
}

func newGenerator(seed uint64) *generator {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)
	return &generator{src: src, rng: rand.New(src)}
}

func (g *generator) pick(values []string) string {
	return values[g.rng.IntN(len(values))]
}

func (g *generator) uuid() (string, error) {
	id, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (g *generator) dimension() int {
	return minDimensionCM + g.rng.IntN(maxDimensionCM-minDimensionCM+1)
}

// Generate builds a deterministic synthetic catalog. Any product that fails
// preparation is a generator bug and aborts the build with ErrGeneratorInvariant.
func Generate(cfg SyntheticConfig, opts ...Option) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}

	g := newGenerator(cfg.Seed)
	products := make([]*core.Product, 0, cfg.Count)
	for idx := 0; idx < cfg.Count; idx++ {
		p, err := g.product(idx, cfg.VariationsPerProduct)
		if err != nil {
			return nil, fmt.Errorf("%w: product %d: %w", ErrGeneratorInvariant, idx, err)
		}
		products = append(products, p)
	}

	s.logger.Debug("generated synthetic products", "seed", cfg.Seed, "count", cfg.Count,
		"variations_per_product", cfg.VariationsPerProduct)
	return s.prepare(products, nil, true)
}

func (g *generator) product(idx, variationCount int) (*core.Product, error) {
	id, err := g.uuid()
	if err != nil {
		return nil, err
	}

	adjective := g.pick(adjectives)
	material := g.pick(materials)
	productType := g.pick(productTypes)
	name := adjective + " " + material + " " + productType

	price := minSyntheticPrice + core.Money(g.rng.Int64N(int64(maxSyntheticPrice-minSyntheticPrice+1)))
	p, err := core.NewProduct(id, Slugify(name)+"-"+strconv.Itoa(idx+1), name, price)
	if err != nil {
		return nil, err
	}

	p.QuickDescription = fmt.Sprintf("%s %s crafted in %s with refined detailing.",
		strings.ToLower(adjective), strings.ToLower(productType), strings.ToLower(material))
	load := 80 + g.rng.IntN(240)
	p.Description = fmt.Sprintf("%s blends %s textures with a %s silhouette. "+
		"Supports up to %d kg and is finished by hand for a unique patina on every unit.",
		name, strings.ToLower(material), strings.ToLower(adjective), load)
	p.QuickSpecifications = fmt.Sprintf("%s | %s | up to %d kg", material, productType, load)

	if g.rng.Float64() < promoProbability {
		factor := minPromoFactor + g.rng.Float64()*(maxPromoFactor-minPromoFactor)
		promo := core.MoneyFromDecimal(price.Decimal().Mul(decimal.NewFromFloat(factor)))
		p.IsPromotional = true
		p.PromotionalPrice = &promo
	}

	p.Variations = make([]core.Variation, 0, variationCount)
	for range variationCount {
		v, err := g.variation()
		if err != nil {
			return nil, err
		}
		p.Variations = append(p.Variations, v)
	}
	return p, nil
}

func (g *generator) variation() (core.Variation, error) {
	id, err := g.uuid()
	if err != nil {
		return core.Variation{}, err
	}
	color := g.pick(colors)
	secondary := g.pick(colors)
	return core.Variation{
		ID:               id,
		Name:             color + " Finish",
		QuickDescription: fmt.Sprintf("%s accent with %s details.", color, secondary),
		Size:             fmt.Sprintf("%dcm x %dcm x %dcm", g.dimension(), g.dimension(), g.dimension()),
		Color:            color,
		SecondaryColor:   secondary,
	}, nil
}
