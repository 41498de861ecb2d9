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

package storage

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/vitrine/core"
)

// MarshalManifest serializes a Manifest to bytes.
// PublishedAt is stored with microsecond precision.
func MarshalManifest(manifest *core.Manifest) []byte {
	published := manifest.PublishedAt.UnixMicro()
	size := ord.String.Size(manifest.Name) +
		ord.String.Size(manifest.Fingerprint) +
		varint.Uint32.Size(manifest.Version) +
		varint.Uint32.Size(manifest.ProductCount) +
		varint.Int64.Size(manifest.ByteSize) +
		varint.Int64.Size(published)

	buf := make([]byte, size)
	n := ord.String.Marshal(manifest.Name, buf)
	n += ord.String.Marshal(manifest.Fingerprint, buf[n:])
	n += varint.Uint32.Marshal(manifest.Version, buf[n:])
	n += varint.Uint32.Marshal(manifest.ProductCount, buf[n:])
	n += varint.Int64.Marshal(manifest.ByteSize, buf[n:])
	varint.Int64.Marshal(published, buf[n:])
	return buf
}

// UnmarshalManifest deserializes a Manifest from bytes.
func UnmarshalManifest(data []byte) (*core.Manifest, error) {
	var (
		m         core.Manifest
		n, total  int
		published int64
		err       error
	)

	if m.Name, n, err = ord.String.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("%w: manifest name: %w", ErrSerializationFailed, err)
	}
	total += n
	if m.Fingerprint, n, err = ord.String.Unmarshal(data[total:]); err != nil {
		return nil, fmt.Errorf("%w: manifest fingerprint: %w", ErrSerializationFailed, err)
	}
	total += n
	if m.Version, n, err = varint.Uint32.Unmarshal(data[total:]); err != nil {
		return nil, fmt.Errorf("%w: manifest version: %w", ErrSerializationFailed, err)
	}
	total += n
	if m.ProductCount, n, err = varint.Uint32.Unmarshal(data[total:]); err != nil {
		return nil, fmt.Errorf("%w: manifest product count: %w", ErrSerializationFailed, err)
	}
	total += n
	if m.ByteSize, n, err = varint.Int64.Unmarshal(data[total:]); err != nil {
		return nil, fmt.Errorf("%w: manifest byte size: %w", ErrSerializationFailed, err)
	}
	total += n
	if published, _, err = varint.Int64.Unmarshal(data[total:]); err != nil {
		return nil, fmt.Errorf("%w: manifest timestamp: %w", ErrSerializationFailed, err)
	}
	m.PublishedAt = time.UnixMicro(published).UTC()

	return &m, nil
}

// NewManifest describes a decoded catalog and its encoded blob.
func NewManifest(name string, catalog *core.Catalog, blob []byte, publishedAt time.Time) *core.Manifest {
	return &core.Manifest{
		Name:         name,
		Fingerprint:  core.Fingerprint(blob),
		Version:      catalog.Version,
		ProductCount: uint32(len(catalog.Products)),
		ByteSize:     int64(len(blob)),
		PublishedAt:  publishedAt.UTC().Truncate(time.Microsecond),
	}
}
