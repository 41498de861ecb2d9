// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"fmt"
	"strings"
)

// ValidateProduct validates a Product according to domain rules.
//
// Validation rules:
//   - ID must not be empty or whitespace-only
//   - Slug must not be empty or whitespace-only
//   - Price must not be negative
//
// NOT validated (reported as data-quality warnings by the builder):
//   - PromotionalPrice consistency, see CheckPromotion
//   - SearchText (computed after validation)
func ValidateProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidProduct)
	}

	if strings.TrimSpace(product.ID) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyID)
	}

	if strings.TrimSpace(product.Slug) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptySlug)
	}

	if product.Price < 0 {
		return fmt.Errorf("%w: %w: %s", ErrInvalidProduct, ErrNegativePrice, product.Price)
	}

	if product.PromotionalPrice != nil && *product.PromotionalPrice < 0 {
		return fmt.Errorf("%w: %w: promotional %s", ErrInvalidProduct, ErrNegativePrice, *product.PromotionalPrice)
	}

	return nil
}

// CheckPromotion reports promotional-price inconsistencies.
// Returns ErrPromoWithoutFlag or ErrPromoAbovePrice, or nil when consistent.
func CheckPromotion(product *Product) error {
	if product.PromotionalPrice == nil {
		return nil
	}
	if !product.IsPromotional {
		return ErrPromoWithoutFlag
	}
	if *product.PromotionalPrice > product.Price {
		return fmt.Errorf("%w: %s > %s", ErrPromoAbovePrice, *product.PromotionalPrice, product.Price)
	}
	return nil
}

// ValidateCatalog checks every product and the id/slug uniqueness invariants.
func ValidateCatalog(catalog *Catalog) error {
	if catalog == nil {
		return fmt.Errorf("%w: catalog is nil", ErrInvalidCatalog)
	}

	ids := make(map[string]struct{}, len(catalog.Products))
	slugs := make(map[string]struct{}, len(catalog.Products))
	for i, p := range catalog.Products {
		if err := ValidateProduct(p); err != nil {
			return fmt.Errorf("product %d: %w", i, err)
		}
		if _, dup := ids[p.ID]; dup {
			return fmt.Errorf("%w: %w: %q", ErrInvalidCatalog, ErrDuplicateID, p.ID)
		}
		if _, dup := slugs[p.Slug]; dup {
			return fmt.Errorf("%w: %w: %q", ErrInvalidCatalog, ErrDuplicateSlug, p.Slug)
		}
		ids[p.ID] = struct{}{}
		slugs[p.Slug] = struct{}{}
	}
	return nil
}
