package preview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *core.Catalog {
	products := []*core.Product{
		{ID: "p1", Slug: "oak-dining-table", Name: "Oak Dining Table", Price: 129900, Variations: []core.Variation{{ID: "v1", Color: "Sand"}}},
		{ID: "p2", Slug: "table-oak-legs", Name: "Table with oak legs", Price: 45000, Variations: []core.Variation{}},
		{ID: "p3", Slug: "linen-sofa", Name: "Linen Sofa", Price: 250000, Variations: []core.Variation{}},
	}
	for _, p := range products {
		p.SearchText = core.BuildSearchText(p)
	}
	return core.NewCatalog(products)
}

func encode(t *testing.T, catalog *core.Catalog) []byte {
	t.Helper()
	blob, err := storage.Encode(catalog)
	require.NoError(t, err)
	return blob
}

func newLoadedServer(t *testing.T) (*Server, []byte) {
	t.Helper()
	srv, err := New()
	require.NoError(t, err)
	blob := encode(t, testCatalog())
	require.NoError(t, srv.LoadBlob(blob))
	return srv, blob
}

func get(t *testing.T, h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeProducts(t *testing.T, rec *httptest.ResponseRecorder) productsResponse {
	t.Helper()
	var resp productsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(WithSearchLimit(0))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestServer_NotLoaded(t *testing.T) {
	srv, err := New()
	require.NoError(t, err)

	for _, target := range []string{"/catalog.bin", "/api/products", "/api/search?q=oak"} {
		rec := get(t, srv, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
	}

	rec := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	var health healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "unavailable", health.Status)
}

func TestServer_CatalogBlob(t *testing.T) {
	srv, blob := newLoadedServer(t)
	etag := `"` + core.Fingerprint(blob) + `"`

	rec := get(t, srv, "/catalog.bin")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, blob, rec.Body.Bytes())
	assert.Equal(t, etag, rec.Header().Get("ETag"))
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))

	rec = get(t, srv, "/catalog.bin", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	rec = get(t, srv, "/catalog.bin", "If-None-Match", `"stale", W/`+etag)
	assert.Equal(t, http.StatusNotModified, rec.Code)

	rec = get(t, srv, "/catalog.bin", "If-None-Match", `"stale"`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Products(t *testing.T) {
	srv, _ := newLoadedServer(t)

	rec := get(t, srv, "/api/products")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decodeProducts(t, rec)
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Products, 3)
	assert.Equal(t, "oak-dining-table", resp.Products[0].Slug)
	assert.Equal(t, core.Money(129900), resp.Products[0].Price)
}

func TestServer_Search(t *testing.T) {
	srv, _ := newLoadedServer(t)

	t.Run("ranked", func(t *testing.T) {
		resp := decodeProducts(t, get(t, srv, "/api/search?q=oak+table"))
		assert.Equal(t, "oak table", resp.Query)
		require.Equal(t, 2, resp.Total)
		assert.Equal(t, "p1", resp.Products[0].ID)
		assert.Equal(t, "p2", resp.Products[1].ID)
	})

	t.Run("limit", func(t *testing.T) {
		resp := decodeProducts(t, get(t, srv, "/api/search?q=oak&limit=1"))
		assert.Equal(t, 2, resp.Total)
		assert.Len(t, resp.Products, 1)
	})

	t.Run("empty query", func(t *testing.T) {
		rec := get(t, srv, "/api/search")
		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeProducts(t, rec)
		assert.Zero(t, resp.Total)
		assert.NotNil(t, resp.Products)
	})

	t.Run("bad limit", func(t *testing.T) {
		for _, limit := range []string{"0", "-1", "ten"} {
			rec := get(t, srv, "/api/search?q=oak&limit="+limit)
			assert.Equal(t, http.StatusBadRequest, rec.Code, limit)
		}
	})
}

func TestServer_Health(t *testing.T) {
	srv, blob := newLoadedServer(t)

	rec := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	var health healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 3, health.Products)
	assert.Equal(t, core.Fingerprint(blob), health.Fingerprint)
}

func TestServer_BadReloadKeepsPrevious(t *testing.T) {
	srv, blob := newLoadedServer(t)

	err := srv.LoadBlob([]byte("not a catalog"))
	require.Error(t, err)
	assert.Equal(t, core.Fingerprint(blob), srv.Fingerprint())

	rec := get(t, srv, "/api/products")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Load(t *testing.T) {
	srv, err := New()
	require.NoError(t, err)

	assert.Error(t, srv.Load(filepath.Join(t.TempDir(), "missing.bin")))
	assert.Empty(t, srv.Fingerprint())

	path := filepath.Join(t.TempDir(), "catalog.bin")
	blob := encode(t, testCatalog())
	require.NoError(t, os.WriteFile(path, blob, 0644))
	require.NoError(t, srv.Load(path))
	assert.Equal(t, core.Fingerprint(blob), srv.Fingerprint())
}

func TestWatcher_Reloads(t *testing.T) {
	srv, err := New()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "catalog.bin")
	first := encode(t, testCatalog())
	require.NoError(t, os.WriteFile(path, first, 0644))
	require.NoError(t, srv.Load(path))

	w, err := NewWatcher(srv, path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// A corrupt rebuild keeps the first catalog serving.
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))
	time.Sleep(4 * reloadDelay)
	assert.Equal(t, core.Fingerprint(first), srv.Fingerprint())

	smaller := core.NewCatalog(testCatalog().Products[:1])
	second := encode(t, smaller)
	require.NoError(t, os.WriteFile(path, second, 0644))

	require.Eventually(t, func() bool {
		return srv.Fingerprint() == core.Fingerprint(second)
	}, 2*time.Second, 10*time.Millisecond)
}
