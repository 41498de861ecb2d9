package builder

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/poiesic/vitrine/core"
	"github.com/poiesic/vitrine/storage"
)

// WriteOutputs encodes the catalog to blobPath and, when jsonPath is not empty,
// writes an indented JSON dump of the same catalog to jsonPath.
func WriteOutputs(catalog *core.Catalog, blobPath, jsonPath string) error {
	blob, err := storage.Encode(catalog)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(blobPath, blob, 0644); err != nil {
		return fmt.Errorf("write %s: %w", blobPath, err)
	}

	if jsonPath == "" {
		return nil
	}
	dump, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json dump: %w", err)
	}
	if err := os.WriteFile(jsonPath, append(dump, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", jsonPath, err)
	}
	return nil
}

// ReadJSONDump parses a dump written by WriteOutputs.
func ReadJSONDump(path string) (*core.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var catalog core.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if catalog.Products == nil {
		catalog.Products = []*core.Product{}
	}
	for _, p := range catalog.Products {
		if p != nil && p.Variations == nil {
			p.Variations = []core.Variation{}
		}
	}
	if err := core.ValidateCatalog(&catalog); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &catalog, nil
}

// ReadBlob reads and decodes a catalog blob file.
func ReadBlob(path string) (*core.Catalog, []byte, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := storage.Decode(blob)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return catalog, blob, nil
}
