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
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// FormatVersion is the newest catalog blob format this module reads and writes.
const FormatVersion uint32 = 1

// Fingerprint returns a stable content hash of an encoded catalog blob using BLAKE2b.
// Identical blobs always produce identical fingerprints.
func Fingerprint(blob []byte) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write(blob)
	return hex.EncodeToString(h.Sum(nil))
}

// Variation is a sellable sub-option of a product (size, color, finish).
// Empty strings are absent labels. Variations carry no independent price.
type Variation struct {
	ID               string `json:"id"`
	Name             string `json:"name,omitempty"`
	QuickDescription string `json:"quickDescription,omitempty"`
	Size             string `json:"size,omitempty"`
	Color            string `json:"color,omitempty"`
	SecondaryColor   string `json:"secondaryColor,omitempty"`
}

// Labels returns the non-empty badge labels of the variation in display order.
func (v *Variation) Labels() []string {
	labels := make([]string, 0, 4)
	for _, l := range []string{v.Name, v.Size, v.Color, v.SecondaryColor} {
		if l != "" {
			labels = append(labels, l)
		}
	}
	return labels
}

// Product is one catalog entry.
type Product struct {
	ID                  string      `json:"id"`
	Slug                string      `json:"slug"`
	Name                string      `json:"name"`
	QuickDescription    string      `json:"quickDescription,omitempty"`
	Description         string      `json:"description,omitempty"`
	QuickSpecifications string      `json:"quickSpecifications,omitempty"`
	Price               Money       `json:"price"`
	IsPromotional       bool        `json:"isPromotional"`
	PromotionalPrice    *Money      `json:"promotionalPrice,omitempty"`
	Variations          []Variation `json:"variations"`
	SearchText          string      `json:"searchText"`
}

// NewProduct creates a validated product with no variations and no search text.
func NewProduct(id, slug, name string, price Money) (*Product, error) {
	p := &Product{
		ID:         id,
		Slug:       slug,
		Name:       name,
		Price:      price,
		Variations: []Variation{},
	}
	if err := ValidateProduct(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Catalog is the root container: products in ingestion order plus the format version.
type Catalog struct {
	Version  uint32     `json:"version"`
	Products []*Product `json:"products"`
}

// NewCatalog wraps products in a catalog tagged with the current format version.
// A nil product list and nil variation lists become empty slices, which is how
// a decoded blob represents them.
func NewCatalog(products []*Product) *Catalog {
	if products == nil {
		products = []*Product{}
	}
	for _, p := range products {
		if p != nil && p.Variations == nil {
			p.Variations = []Variation{}
		}
	}
	return &Catalog{
		Version:  FormatVersion,
		Products: products,
	}
}

// Manifest describes a published catalog blob.
type Manifest struct {
	Name         string
	Fingerprint  string
	Version      uint32
	ProductCount uint32
	ByteSize     int64
	PublishedAt  time.Time
}
