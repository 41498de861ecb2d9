package surface

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// View selects what a Handle renders.
type View string

const (
	// ViewCatalog renders the unfiltered catalog.
	ViewCatalog View = "catalog"
	// ViewSearch renders search results for the current query.
	ViewSearch View = "search"
)

// HostConfig is the loader configuration a host page passes to Init.
// ResultSelector names the host element results are rendered into. A zero
// MaxBadges means DefaultMaxBadges and a zero PageSize means no bound.
type HostConfig struct {
	ResultSelector string `json:"resultSelector"`
	View           View   `json:"view"`
	MaxBadges      int    `json:"maxBadges"`
	PageSize       int    `json:"pageSize"`
}

// Validate checks the configuration. An empty View means ViewCatalog.
func (c *HostConfig) Validate() error {
	if strings.TrimSpace(c.ResultSelector) == "" {
		return fmt.Errorf("%w: result selector is required", ErrInvalidConfig)
	}
	switch c.View {
	case "", ViewCatalog, ViewSearch:
	default:
		return fmt.Errorf("%w: unknown view %q", ErrInvalidConfig, c.View)
	}
	if c.MaxBadges < 0 {
		return fmt.Errorf("%w: max badges %d is negative", ErrInvalidConfig, c.MaxBadges)
	}
	if c.PageSize < 0 {
		return fmt.Errorf("%w: page size %d is negative", ErrInvalidConfig, c.PageSize)
	}
	return nil
}

func (c HostConfig) withDefaults() HostConfig {
	if c.View == "" {
		c.View = ViewCatalog
	}
	if c.MaxBadges == 0 {
		c.MaxBadges = DefaultMaxBadges
	}
	return c
}

// Page is one rendered view. Total counts every matching product before paging.
// Repeated is set when the query matched the previous one and the cached page
// was returned.
type Page struct {
	View     View          `json:"view"`
	Query    string        `json:"query,omitempty"`
	Total    int           `json:"total"`
	Products []ProductView `json:"products"`
	Repeated bool          `json:"repeated"`
}

// Handle binds a host configuration to an engine.
type Handle struct {
	config HostConfig
	engine *Engine
	logger *slog.Logger

	mu        sync.Mutex
	last      Page
	lastQuery string
	rendered  bool
}

// Init validates cfg and opens blob. On failure the error wraps ErrInvalidConfig
// or ErrUnavailable.
func Init(cfg HostConfig, blob []byte, opts ...Option) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	opts = append([]Option{WithMaxBadges(cfg.MaxBadges)}, opts...)
	result := Open(blob, opts...)
	if !result.OK() {
		return nil, result.Err()
	}

	engine := result.Engine()
	return &Handle{
		config: cfg,
		engine: engine,
		logger: engine.logger,
	}, nil
}

// Config returns the effective configuration.
func (h *Handle) Config() HostConfig {
	return h.config
}

// Engine returns the underlying engine.
func (h *Handle) Engine() *Engine {
	return h.engine
}

// Render returns All in catalog view and Search(query) in search view, bounded
// to the configured page size. A query equal to the previous one after
// sanitizing and trimming returns the previous page.
func (h *Handle) Render(query string) Page {
	query = strings.TrimSpace(SanitizeQuery(query))

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rendered && query == h.lastQuery {
		page := h.last
		page.Repeated = true
		return page
	}

	var products []ProductView
	switch h.config.View {
	case ViewSearch:
		products = h.engine.Search(query)
	default:
		products = h.engine.All()
	}

	page := Page{
		View:     h.config.View,
		Query:    query,
		Total:    len(products),
		Products: products,
	}
	if h.config.PageSize > 0 && len(products) > h.config.PageSize {
		page.Products = products[:h.config.PageSize]
	}

	h.last = page
	h.lastQuery = query
	h.rendered = true
	h.logger.Debug("rendered page", "view", page.View, "query", query, "total", page.Total)
	return page
}
