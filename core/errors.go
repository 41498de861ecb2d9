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

import "errors"

// Domain validation errors
var (
	// ErrInvalidProduct indicates a Product failed validation.
	ErrInvalidProduct = errors.New("invalid product")

	// ErrInvalidCatalog indicates a Catalog violates a uniqueness invariant.
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrEmptyID indicates the product ID is empty or whitespace-only.
	ErrEmptyID = errors.New("id cannot be empty")

	// ErrEmptySlug indicates the product slug is empty or whitespace-only.
	ErrEmptySlug = errors.New("slug cannot be empty")

	// ErrNegativePrice indicates a negative price.
	ErrNegativePrice = errors.New("price cannot be negative")

	// ErrPromoWithoutFlag indicates a promotional price on a product not marked promotional.
	ErrPromoWithoutFlag = errors.New("promotional price set on non-promotional product")

	// ErrPromoAbovePrice indicates a promotional price greater than the regular price.
	ErrPromoAbovePrice = errors.New("promotional price exceeds price")

	// ErrDuplicateID indicates two products share an ID.
	ErrDuplicateID = errors.New("duplicate product id")

	// ErrDuplicateSlug indicates two products share a slug.
	ErrDuplicateSlug = errors.New("duplicate product slug")
)
