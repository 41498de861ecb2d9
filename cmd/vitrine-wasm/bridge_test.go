package main

import (
	"encoding/json"
	"testing"

	"github.com/poiesic/vitrine/builder"
	"github.com/poiesic/vitrine/storage"
	"github.com/poiesic/vitrine/surface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBlob(t *testing.T) []byte {
	t.Helper()
	result, err := builder.Generate(builder.SyntheticConfig{Seed: 3, Count: 12, VariationsPerProduct: 1})
	require.NoError(t, err)
	blob, err := storage.Encode(result.Catalog)
	require.NoError(t, err)
	return blob
}

func TestNewBridge(t *testing.T) {
	tests := []struct {
		name   string
		config string
		blob   []byte
		ok     bool
	}{
		{"valid", `{"resultSelector":"#results","view":"search","pageSize":5}`, testBlob(t), true},
		{"malformed config", `{"resultSelector":`, testBlob(t), false},
		{"missing selector", `{"view":"catalog"}`, testBlob(t), false},
		{"corrupt blob", `{"resultSelector":"#results"}`, []byte("nope"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, resp := newBridge(tt.config, tt.blob)
			assert.Equal(t, tt.ok, resp.OK)
			if tt.ok {
				require.NotNil(t, b)
				assert.Empty(t, resp.Reason)
			} else {
				assert.Nil(t, b)
				assert.NotEmpty(t, resp.Reason)
			}
		})
	}
}

func TestBridge_Calls(t *testing.T) {
	b, resp := newBridge(`{"resultSelector":"#results","view":"catalog","pageSize":5}`, testBlob(t))
	require.True(t, resp.OK)

	var all []surface.ProductView
	require.NoError(t, json.Unmarshal([]byte(b.all()), &all))
	assert.Len(t, all, 12)

	var hits []surface.ProductView
	require.NoError(t, json.Unmarshal([]byte(b.search(all[0].Name)), &hits))
	require.NotEmpty(t, hits)
	assert.Equal(t, all[0].ID, hits[0].ID)

	var page surface.Page
	require.NoError(t, json.Unmarshal([]byte(b.render("")), &page))
	assert.Equal(t, surface.ViewCatalog, page.View)
	assert.Equal(t, 12, page.Total)
	assert.Len(t, page.Products, 5)

	require.NoError(t, json.Unmarshal([]byte(b.render("  ")), &page))
	assert.True(t, page.Repeated)
}
