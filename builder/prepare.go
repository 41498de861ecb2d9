package builder

import (
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/vitrine/core"
)

// Prepare validates products, clears inconsistent promotional data, enforces
// unique ids and slugs, and computes search text. Problems are returned as
// warnings and the offending products are dropped. Source order is preserved.
// Kept products are modified in place.
func Prepare(products []*core.Product, opts ...Option) (*Result, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	return s.prepare(products, nil, false)
}

// prepare appends its warnings to earlier ones recorded by the caller.
// In strict mode any problem is fatal and wrapped in ErrGeneratorInvariant.
func (s *settings) prepare(products []*core.Product, warnings []Warning, strict bool) (*Result, error) {
	kept := make([]*core.Product, 0, len(products))
	ids := make(map[string]struct{}, len(products))
	slugs := make(map[string]struct{}, len(products))

	fail := func(p *core.Product, err error) error {
		return fmt.Errorf("%w: product %q: %w", ErrGeneratorInvariant, p.ID, err)
	}

	for i, p := range products {
		if p == nil {
			if strict {
				return nil, fmt.Errorf("%w: product %d is nil", ErrGeneratorInvariant, i)
			}
			warnings = s.warn(warnings, WarnInvalidProduct, "", fmt.Sprintf("product %d is nil", i))
			continue
		}
		if p.Variations == nil {
			p.Variations = []core.Variation{}
		}

		if err := core.ValidateProduct(p); err != nil {
			if strict {
				return nil, fail(p, err)
			}
			warnings = s.warn(warnings, WarnInvalidProduct, p.ID, err.Error())
			continue
		}

		switch err := core.CheckPromotion(p); {
		case err == nil:
		case strict:
			return nil, fail(p, err)
		case errors.Is(err, core.ErrPromoWithoutFlag):
			warnings = s.warn(warnings, WarnPromoMismatch, p.ID,
				fmt.Sprintf("promotional price %s cleared", *p.PromotionalPrice))
			p.PromotionalPrice = nil
		case errors.Is(err, core.ErrPromoAbovePrice):
			warnings = s.warn(warnings, WarnPromoAbovePrice, p.ID, err.Error())
		}

		if _, dup := ids[p.ID]; dup {
			if strict {
				return nil, fail(p, core.ErrDuplicateID)
			}
			warnings = s.warn(warnings, WarnDuplicate, p.ID, "duplicate id")
			continue
		}
		if _, dup := slugs[p.Slug]; dup {
			if strict {
				return nil, fail(p, core.ErrDuplicateSlug)
			}
			warnings = s.warn(warnings, WarnDuplicate, p.ID, fmt.Sprintf("duplicate slug %q", p.Slug))
			continue
		}
		ids[p.ID] = struct{}{}
		slugs[p.Slug] = struct{}{}
		kept = append(kept, p)
	}

	if err := s.computeSearchText(kept); err != nil {
		return nil, err
	}

	s.logger.Info("prepared catalog", "products", len(kept), "dropped", len(products)-len(kept), "warnings", len(warnings))
	return &Result{
		Catalog:  core.NewCatalog(kept),
		Warnings: warnings,
	}, nil
}

func (s *settings) warn(warnings []Warning, kind WarningKind, id, message string) []Warning {
	s.logger.Warn("catalog data warning", "kind", kind, "id", id, "detail", message)
	return append(warnings, Warning{Kind: kind, ID: id, Message: message})
}

// computeSearchText fills SearchText on a worker pool. Each task owns a disjoint
// range of products, so the result does not depend on scheduling.
func (s *settings) computeSearchText(products []*core.Product) error {
	if len(products) == 0 {
		return nil
	}

	var tracker *ProgressTracker
	if s.progress != nil {
		tracker = NewProgressTracker(s.progress, len(products), s.progressInterval)
		tracker.Start()
		defer tracker.Finish()
	}

	pool, err := ants.NewPool(s.poolSize)
	if err != nil {
		return err
	}
	defer pool.Release()

	chunk := max(1, len(products)/(s.poolSize*4))

	var wg sync.WaitGroup
	for start := 0; start < len(products); start += chunk {
		batch := products[start:min(start+chunk, len(products))]
		wg.Add(1)
		task := func() {
			defer wg.Done()
			for _, p := range batch {
				p.SearchText = core.BuildSearchText(p)
			}
			if tracker != nil {
				tracker.Increment(len(batch))
			}
		}
		if err := pool.Submit(task); err != nil {
			s.logger.Debug("pool rejected task, running inline", "err", err)
			task()
		}
	}
	wg.Wait()

	return nil
}
