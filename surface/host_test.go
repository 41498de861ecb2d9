package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     HostConfig
		wantErr bool
	}{
		{"minimal", HostConfig{ResultSelector: "#results"}, false},
		{"search view", HostConfig{ResultSelector: "#results", View: ViewSearch, PageSize: 24}, false},
		{"missing selector", HostConfig{View: ViewCatalog}, true},
		{"unknown view", HostConfig{ResultSelector: "#r", View: "grid"}, true},
		{"negative badges", HostConfig{ResultSelector: "#r", MaxBadges: -1}, true},
		{"negative page size", HostConfig{ResultSelector: "#r", PageSize: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestInit(t *testing.T) {
	h, err := Init(HostConfig{ResultSelector: "#results"}, testBlob(t))
	require.NoError(t, err)

	cfg := h.Config()
	assert.Equal(t, ViewCatalog, cfg.View)
	assert.Equal(t, DefaultMaxBadges, cfg.MaxBadges)
	assert.Equal(t, 3, h.Engine().Len())
}

func TestInit_Errors(t *testing.T) {
	_, err := Init(HostConfig{}, testBlob(t))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Init(HostConfig{ResultSelector: "#r"}, []byte("garbage"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHandle_RenderCatalogView(t *testing.T) {
	h, err := Init(HostConfig{ResultSelector: "#r", PageSize: 2}, testBlob(t))
	require.NoError(t, err)

	page := h.Render("ignored in catalog view")
	assert.Equal(t, ViewCatalog, page.View)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "p1", page.Products[0].ID)
	assert.False(t, page.Repeated)
}

func TestHandle_RenderSearchView(t *testing.T) {
	h, err := Init(HostConfig{ResultSelector: "#r", View: ViewSearch, MaxBadges: 1}, testBlob(t))
	require.NoError(t, err)

	page := h.Render("oak")
	assert.Equal(t, ViewSearch, page.View)
	assert.Equal(t, "oak", page.Query)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Products, 2)
	assert.Len(t, page.Products[0].Badges, 1)

	empty := h.Render("")
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.Products)
}

func TestHandle_DeduplicatesRepeatQueries(t *testing.T) {
	h, err := Init(HostConfig{ResultSelector: "#r", View: ViewSearch}, testBlob(t))
	require.NoError(t, err)

	first := h.Render("sofa")
	assert.False(t, first.Repeated)

	again := h.Render("  sofa ")
	assert.True(t, again.Repeated)
	assert.Equal(t, first.Products, again.Products)

	other := h.Render("oak")
	assert.False(t, other.Repeated)
	assert.Equal(t, 2, other.Total)

	back := h.Render("sofa")
	assert.False(t, back.Repeated)
}
