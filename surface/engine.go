package surface

import (
	"fmt"
	"log/slog"

	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/search"
	"github.com/poiesic/vitrine/storage"
)

// Status tags the outcome of Open.
type Status int

const (
	StatusOK Status = iota
	StatusUnavailable
)

func (s Status) String() string {
	if s == StatusOK {
		return "ok"
	}
	return "unavailable"
}

// Result is the outcome of Open: either a usable engine or an unavailable
// status with a diagnostic reason meant for logs, not end users.
type Result struct {
	Status Status
	Reason string

	engine *Engine
	err    error
}

// OK reports whether an engine was constructed.
func (r Result) OK() bool {
	return r.Status == StatusOK && r.engine != nil
}

// Engine returns the constructed engine, or nil when unavailable.
func (r Result) Engine() *Engine {
	if !r.OK() {
		return nil
	}
	return r.engine
}

// Err returns nil when OK; otherwise an error wrapping ErrUnavailable and the
// underlying storage error.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return r.err
}

// Engine answers All and Search over one decoded catalog.
type Engine struct {
	searcher  *search.Searcher
	views     []ProductView
	maxBadges int
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithMaxBadges caps the number of variation badges per product.
// Default is DefaultMaxBadges.
func WithMaxBadges(n int) Option {
	return func(e *Engine) error {
		if n < 0 {
			return fmt.Errorf("%w: max badges %d is negative", ErrInvalidConfig, n)
		}
		e.maxBadges = n
		return nil
	}
}

// Open decodes blob and builds an engine over it. Corrupt, truncated, or
// unsupported blobs produce an unavailable Result.
func Open(blob []byte, opts ...Option) Result {
	e := &Engine{
		maxBadges: DefaultMaxBadges,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return unavailable(e.logger, err)
		}
	}

	catalog, err := storage.Decode(blob)
	if err != nil {
		return unavailable(e.logger, err)
	}
	if err := e.load(catalog); err != nil {
		return unavailable(e.logger, err)
	}

	e.logger.Info("engine ready", "products", len(e.views), "bytes", len(blob))
	return Result{Status: StatusOK, engine: e}
}

// New builds an engine over an already decoded catalog.
func New(catalog *core.Catalog, opts ...Option) (*Engine, error) {
	e := &Engine{
		maxBadges: DefaultMaxBadges,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if err := e.load(catalog); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) load(catalog *core.Catalog) error {
	searcher, err := search.NewSearcher(catalog, search.WithLogger(e.logger))
	if err != nil {
		return err
	}
	e.searcher = searcher
	e.views = make([]ProductView, len(catalog.Products))
	for i, p := range catalog.Products {
		e.views[i] = newProductView(p, e.maxBadges)
	}
	return nil
}

func unavailable(logger *slog.Logger, err error) Result {
	logger.Warn("search unavailable", "err", err)
	return Result{
		Status: StatusUnavailable,
		Reason: err.Error(),
		err:    fmt.Errorf("%w: %w", ErrUnavailable, err),
	}
}

// Len returns the number of products.
func (e *Engine) Len() int {
	return len(e.views)
}

// All returns every product in catalog order. The views are copies; changing
// them does not affect later calls.
func (e *Engine) All() []ProductView {
	views := make([]ProductView, len(e.views))
	for i := range e.views {
		views[i] = e.views[i].clone()
	}
	return views
}

// Search returns the products matching query, best first. The query is
// truncated to MaxQueryBytes and invalid UTF-8 is replaced before matching.
func (e *Engine) Search(query string) []ProductView {
	hits := e.searcher.SearchHits(SanitizeQuery(query))
	views := make([]ProductView, len(hits))
	for i := range hits {
		views[i] = e.views[hits[i].Index].clone()
	}
	return views
}
