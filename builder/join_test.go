package builder

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/vitrine/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestJoin_AttachesVariationsInSourceOrder(t *testing.T) {
	products := []RawProduct{
		{ID: "p1", Name: "Oak Table", Slug: "oak-table", Price: price("100")},
		{ID: "p2", Name: "Linen Sofa", Slug: "linen-sofa", Price: price("200.5")},
	}
	variations := []RawVariation{
		{ID: "v1", FurnitureID: "p2", Color: "Sand"},
		{ID: "v2", FurnitureID: "p1", Size: "180cm"},
		{ID: "v3", ProductID: "p2", Color: "Moss"},
		{ID: "v4", FurnitureID: "missing", Color: "Teal"},
		{ID: "v5", Color: "Blush"},
	}

	result, err := Join(products, variations, WithPoolSize(2))
	require.NoError(t, err)

	catalog := result.Catalog
	require.Len(t, catalog.Products, 2)
	assert.Equal(t, "p1", catalog.Products[0].ID)
	assert.Equal(t, "p2", catalog.Products[1].ID)

	require.Len(t, catalog.Products[0].Variations, 1)
	assert.Equal(t, "v2", catalog.Products[0].Variations[0].ID)

	require.Len(t, catalog.Products[1].Variations, 2)
	assert.Equal(t, "v1", catalog.Products[1].Variations[0].ID)
	assert.Equal(t, "v3", catalog.Products[1].Variations[1].ID)

	assert.Equal(t, 2, Count(result.Warnings, WarnOrphanVariation))
	for _, p := range catalog.Products {
		for _, v := range p.Variations {
			assert.NotEqual(t, "v4", v.ID)
			assert.NotEqual(t, "v5", v.ID)
		}
	}

	assert.Equal(t, core.Money(20050), catalog.Products[1].Price)
	assert.Contains(t, catalog.Products[1].SearchText, "moss")
	assert.Equal(t, core.BuildSearchText(catalog.Products[0]), catalog.Products[0].SearchText)
}

func TestJoin_Empty(t *testing.T) {
	result, err := Join(nil, nil)
	require.NoError(t, err)
	require.NotNil(t, result.Catalog)
	assert.Empty(t, result.Catalog.Products)
	assert.NotNil(t, result.Catalog.Products)
	assert.Empty(t, result.Warnings)
}

func TestJoin_DropsInvalidAndDuplicates(t *testing.T) {
	products := []RawProduct{
		{ID: "p1", Name: "First", Slug: "shared", Price: price("10")},
		{ID: "p1", Name: "Repeat id", Slug: "other", Price: price("10")},
		{ID: "p3", Name: "Repeat slug", Slug: "shared", Price: price("10")},
		{ID: "  ", Name: "Blank id", Slug: "blank", Price: price("10")},
		{ID: "p5", Name: "Negative", Slug: "negative", Price: price("-1")},
		{ID: "p6", Name: "No price", Slug: "no-price"},
		{ID: "p7", Name: "Kept", Slug: "kept", Price: price("5")},
	}
	variations := []RawVariation{{ID: "v1", FurnitureID: "p1", Color: "Ivory"}}

	result, err := Join(products, variations)
	require.NoError(t, err)

	ids := make([]string, 0)
	for _, p := range result.Catalog.Products {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"p1", "p7"}, ids)
	assert.Len(t, result.Catalog.Products[0].Variations, 1)
	assert.Equal(t, 2, Count(result.Warnings, WarnDuplicate))
	assert.Equal(t, 3, Count(result.Warnings, WarnInvalidProduct))
	require.NoError(t, core.ValidateCatalog(result.Catalog))
}

func TestJoin_VariationsSkipInvalidFirstRecord(t *testing.T) {
	products := []RawProduct{
		{ID: "p1", Name: "Broken", Slug: "broken", Price: price("-1")},
		{ID: "p1", Name: "Fixed", Slug: "fixed", Price: price("10")},
	}
	variations := []RawVariation{{ID: "v1", FurnitureID: "p1", Color: "Ivory"}}

	result, err := Join(products, variations)
	require.NoError(t, err)

	require.Len(t, result.Catalog.Products, 1)
	kept := result.Catalog.Products[0]
	assert.Equal(t, "fixed", kept.Slug)
	require.Len(t, kept.Variations, 1)
	assert.Equal(t, "v1", kept.Variations[0].ID)
	assert.Equal(t, 1, Count(result.Warnings, WarnInvalidProduct))
	assert.Zero(t, Count(result.Warnings, WarnOrphanVariation))
}

func TestJoin_WarnsForVariationsOfDroppedParent(t *testing.T) {
	products := []RawProduct{
		{ID: "p1", Name: "First", Slug: "shared", Price: price("10")},
		{ID: "p2", Name: "Same slug", Slug: "shared", Price: price("10")},
	}
	variations := []RawVariation{
		{ID: "v1", FurnitureID: "p2", Color: "Moss"},
		{ID: "v2", FurnitureID: "p2", Color: "Sand"},
	}

	result, err := Join(products, variations)
	require.NoError(t, err)

	require.Len(t, result.Catalog.Products, 1)
	assert.Empty(t, result.Catalog.Products[0].Variations)
	assert.Equal(t, 1, Count(result.Warnings, WarnDuplicate))

	var orphans []string
	for _, w := range result.Warnings {
		if w.Kind == WarnOrphanVariation {
			orphans = append(orphans, w.ID)
			assert.Contains(t, w.Message, `"p2"`)
		}
	}
	assert.Equal(t, []string{"v1", "v2"}, orphans)
}

func TestJoin_WarnsForVariationsOfInvalidParent(t *testing.T) {
	products := []RawProduct{{ID: "p1", Name: "No price", Slug: "no-price"}}
	variations := []RawVariation{{ID: "v1", FurnitureID: "p1"}}

	result, err := Join(products, variations)
	require.NoError(t, err)

	assert.Empty(t, result.Catalog.Products)
	require.Equal(t, 1, Count(result.Warnings, WarnOrphanVariation))
	assert.Equal(t, 1, Count(result.Warnings, WarnInvalidProduct))
	for _, w := range result.Warnings {
		if w.Kind == WarnOrphanVariation {
			assert.Equal(t, "v1", w.ID)
			assert.Contains(t, w.Message, "dropped")
		}
	}
}

func TestJoin_TrimsIDs(t *testing.T) {
	products := []RawProduct{{ID: " p2 ", Name: "Padded", Slug: "padded", Price: price("10")}}
	variations := []RawVariation{{ID: "v1", FurnitureID: "p2"}, {ID: "v2", ProductID: " p2"}}

	result, err := Join(products, variations)
	require.NoError(t, err)

	require.Len(t, result.Catalog.Products, 1)
	assert.Equal(t, "p2", result.Catalog.Products[0].ID)
	assert.Len(t, result.Catalog.Products[0].Variations, 2)
	assert.Empty(t, result.Warnings)
}

func TestJoin_DerivesMissingSlug(t *testing.T) {
	products := []RawProduct{
		{ID: "p1", Name: "Modern Oak Desk", Price: price("300")},
		{ID: "p2", Name: "!!!", Price: price("1")},
	}

	result, err := Join(products, nil)
	require.NoError(t, err)

	require.Len(t, result.Catalog.Products, 1)
	assert.Equal(t, "modern-oak-desk", result.Catalog.Products[0].Slug)
	assert.Equal(t, 1, Count(result.Warnings, WarnDerivedSlug))
	assert.Equal(t, 1, Count(result.Warnings, WarnInvalidProduct))
}

func TestJoin_PromotionWarnings(t *testing.T) {
	products := []RawProduct{
		{ID: "p1", Name: "Unflagged", Slug: "a", Price: price("100"), PromotionalPrice: price("80")},
		{ID: "p2", Name: "Above", Slug: "b", Price: price("100"), IsPromotional: true, PromotionalPrice: price("120")},
		{ID: "p3", Name: "Valid", Slug: "c", Price: price("100"), IsPromotional: true, PromotionalPrice: price("79.99")},
	}

	result, err := Join(products, nil)
	require.NoError(t, err)
	require.Len(t, result.Catalog.Products, 3)

	assert.Nil(t, result.Catalog.Products[0].PromotionalPrice)
	assert.Equal(t, 1, Count(result.Warnings, WarnPromoMismatch))

	require.NotNil(t, result.Catalog.Products[1].PromotionalPrice)
	assert.Equal(t, core.Money(12000), *result.Catalog.Products[1].PromotionalPrice)
	assert.Equal(t, 1, Count(result.Warnings, WarnPromoAbovePrice))

	require.NotNil(t, result.Catalog.Products[2].PromotionalPrice)
	assert.Equal(t, core.Money(7999), *result.Catalog.Products[2].PromotionalPrice)
}

func TestFlattenDescription(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"absent", "", ""},
		{"null", "null", ""},
		{"plain string", `"  Seats six.  "`, "Seats six."},
		{"array", `["Solid oak", "", " Oiled "]`, "Solid oak Oiled"},
		{"object keys skipped", `{"title": "Oak", "body": {"text": "Hand finished", "n": 3}}`, "Oak Hand finished"},
		{"nested mix", `[{"a": ["x", {"b": "y"}], "c": "z"}, true, 4, "w"]`, "x y z w"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := flattenDescription(json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := flattenDescription(json.RawMessage(`{"a": `))
	assert.Error(t, err)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Modern Oak Sofa", "modern-oak-sofa"},
		{"  Side   Table  ", "side-table"},
		{"Compact Bouclé Bench", "compact-boucl-bench"},
		{"Media_Console--2", "media-console-2"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestReadExports(t *testing.T) {
	dir := t.TempDir()
	productsPath := filepath.Join(dir, "products.json")
	variationsPath := filepath.Join(dir, "variations.json")

	require.NoError(t, os.WriteFile(productsPath, []byte(`[
		{"id": "p1", "name": "Oak Table", "slug": "oak-table", "price": 129.9,
		 "quickDescription": "Solid oak", "description": {"body": ["Seats six."]},
		 "isPromotional": true, "promotionalPrice": "99.90"}
	]`), 0644))
	require.NoError(t, os.WriteFile(variationsPath, []byte(`[
		{"id": "v1", "furnitureId": "p1", "color": "Sand", "size": null}
	]`), 0644))

	products, variations, err := ReadExports(productsPath, variationsPath)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Len(t, variations, 1)

	result, err := Join(products, variations)
	require.NoError(t, err)
	require.Len(t, result.Catalog.Products, 1)

	p := result.Catalog.Products[0]
	assert.Equal(t, core.Money(12990), p.Price)
	require.NotNil(t, p.PromotionalPrice)
	assert.Equal(t, core.Money(9990), *p.PromotionalPrice)
	assert.Equal(t, "Seats six.", p.Description)
	assert.Equal(t, "Sand", p.Variations[0].Color)
	assert.Empty(t, result.Warnings)
}

func TestReadExports_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not": "an array"}`), 0644))

	_, _, err := ReadExports(filepath.Join(dir, "missing.json"), bad)
	assert.ErrorIs(t, err, ErrReadExport)

	_, _, err = ReadExports(bad, bad)
	assert.ErrorIs(t, err, ErrReadExport)
}
