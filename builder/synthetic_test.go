package builder

import (
	"testing"

	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SyntheticConfig
		wantErr bool
	}{
		{"zero", SyntheticConfig{}, false},
		{"typical", SyntheticConfig{Seed: 7, Count: 50, VariationsPerProduct: 2}, false},
		{"negative count", SyntheticConfig{Count: -1}, true},
		{"negative variations", SyntheticConfig{Count: 1, VariationsPerProduct: -3}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				_, genErr := Generate(tt.cfg)
				assert.ErrorIs(t, genErr, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGenerate_Scenario(t *testing.T) {
	result, err := Generate(SyntheticConfig{Seed: 7, Count: 50, VariationsPerProduct: 2}, WithPoolSize(4))
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)

	blob, err := storage.Encode(result.Catalog)
	require.NoError(t, err)

	decoded, err := storage.Decode(blob)
	require.NoError(t, err)
	require.Len(t, decoded.Products, 50)

	for i, p := range decoded.Products {
		assert.Len(t, p.Variations, 2, "product %d", i)
		assert.Equal(t, result.Catalog.Products[i].ID, p.ID, "generation order must be kept")
	}
	assert.Equal(t, result.Catalog, decoded)
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := SyntheticConfig{Seed: 42, Count: 200, VariationsPerProduct: 3}

	first, err := Generate(cfg, WithPoolSize(1))
	require.NoError(t, err)
	second, err := Generate(cfg, WithPoolSize(8))
	require.NoError(t, err)

	blobA, err := storage.Encode(first.Catalog)
	require.NoError(t, err)
	blobB, err := storage.Encode(second.Catalog)
	require.NoError(t, err)
	assert.Equal(t, blobA, blobB)

	other, err := Generate(SyntheticConfig{Seed: 43, Count: 200, VariationsPerProduct: 3})
	require.NoError(t, err)
	blobC, err := storage.Encode(other.Catalog)
	require.NoError(t, err)
	assert.NotEqual(t, blobA, blobC)
}

func TestGenerate_Bands(t *testing.T) {
	result, err := Generate(SyntheticConfig{Seed: 1, Count: 500, VariationsPerProduct: 1})
	require.NoError(t, err)

	promotional := 0
	for _, p := range result.Catalog.Products {
		assert.GreaterOrEqual(t, p.Price, minSyntheticPrice)
		assert.LessOrEqual(t, p.Price, maxSyntheticPrice)
		assert.NotEmpty(t, p.SearchText)
		assert.Contains(t, p.QuickSpecifications, " kg")
		assert.NoError(t, core.CheckPromotion(p))

		if p.IsPromotional {
			promotional++
			require.NotNil(t, p.PromotionalPrice)
			assert.GreaterOrEqual(t, int64(*p.PromotionalPrice)*100, int64(p.Price)*69)
			assert.LessOrEqual(t, int64(*p.PromotionalPrice)*100, int64(p.Price)*96)
		} else {
			assert.Nil(t, p.PromotionalPrice)
		}
	}
	// 20% of 500 with generous slack.
	assert.Greater(t, promotional, 50)
	assert.Less(t, promotional, 150)
	require.NoError(t, core.ValidateCatalog(result.Catalog))
}

func TestGenerate_Empty(t *testing.T) {
	result, err := Generate(SyntheticConfig{Seed: 3})
	require.NoError(t, err)
	assert.NotNil(t, result.Catalog.Products)
	assert.Empty(t, result.Catalog.Products)
}

func TestPrepare_StrictRejects(t *testing.T) {
	s, err := newSettings(nil)
	require.NoError(t, err)

	_, err = s.prepare([]*core.Product{{ID: "p1", Slug: ""}}, nil, true)
	assert.ErrorIs(t, err, ErrGeneratorInvariant)

	dup := []*core.Product{{ID: "p1", Slug: "a"}, {ID: "p1", Slug: "b"}}
	_, err = s.prepare(dup, nil, true)
	assert.ErrorIs(t, err, ErrGeneratorInvariant)
	assert.ErrorIs(t, err, core.ErrDuplicateID)
}
