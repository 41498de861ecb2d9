// Binary encoding for catalog blobs.
//
// Layout (all integers little-endian):
//
//	header:    magic "VTRN" | version: uint32 | productCount: uint32
//	product:   str id | str slug | str name | optstr quickDescription
//	           | optstr description | optstr quickSpecifications | price: int64 | isPromotional: uint8
//	           | hasPromo: uint8 | [promoPrice: int64] | str searchText
//	           | variationCount: uint32 | variation*
//	variation: str id | optstr name | optstr quickDescription | optstr size
//	           | optstr color | optstr secondaryColor
//	str:       length: uint32 | [length]byte
//	optstr:    present: uint8 | [str]
//
// Bytes after the last declared product are ignored.

package storage

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/poiesic/vitrine/core"
)

// Magic is the marker at the start of every catalog blob.
const Magic = "VTRN"

const (
	headerSize = len(Magic) + 4 + 4

	// Smallest possible encodings, used to bound counts before allocating.
	minProductSize   = 4 + 4 + 4 + 1 + 1 + 1 + 8 + 1 + 1 + 4 + 4
	minVariationSize = 4 + 1 + 1 + 1 + 1 + 1
)

// Encode serializes a catalog into a deterministic blob.
// Identical catalogs always produce byte-identical output.
func Encode(catalog *core.Catalog) ([]byte, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog is nil", ErrSerializationFailed)
	}
	if catalog.Version != core.FormatVersion {
		return nil, fmt.Errorf("%w: cannot encode version %d", ErrUnsupportedVersion, catalog.Version)
	}
	if uint64(len(catalog.Products)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: too many products: %d", ErrSerializationFailed, len(catalog.Products))
	}

	// Pre-calculate total size for a single allocation.
	size := headerSize
	for i, p := range catalog.Products {
		if p == nil {
			return nil, fmt.Errorf("%w: product %d is nil", ErrSerializationFailed, i)
		}
		n, err := productSize(p)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		size += n
	}

	e := &encoder{buf: make([]byte, size)}
	e.putBytes([]byte(Magic))
	e.putUint32(catalog.Version)
	e.putUint32(uint32(len(catalog.Products)))
	for _, p := range catalog.Products {
		e.putProduct(p)
	}
	return e.buf, nil
}

func productSize(p *core.Product) (int, error) {
	size := 0
	for _, s := range []string{p.ID, p.Slug, p.Name, p.SearchText} {
		n, err := strSize(s)
		if err != nil {
			return 0, err
		}
		size += n
	}
	for _, s := range []string{p.QuickDescription, p.Description, p.QuickSpecifications} {
		n, err := optStrSize(s)
		if err != nil {
			return 0, err
		}
		size += n
	}
	size += 8 + 1 + 1 + 4
	if p.PromotionalPrice != nil {
		size += 8
	}
	if uint64(len(p.Variations)) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: too many variations: %d", ErrSerializationFailed, len(p.Variations))
	}
	for i := range p.Variations {
		v := &p.Variations[i]
		n, err := strSize(v.ID)
		if err != nil {
			return 0, err
		}
		size += n
		for _, s := range []string{v.Name, v.QuickDescription, v.Size, v.Color, v.SecondaryColor} {
			n, err := optStrSize(s)
			if err != nil {
				return 0, err
			}
			size += n
		}
	}
	return size, nil
}

func strSize(s string) (int, error) {
	if uint64(len(s)) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: string too long: %d bytes", ErrSerializationFailed, len(s))
	}
	return 4 + len(s), nil
}

func optStrSize(s string) (int, error) {
	if s == "" {
		return 1, nil
	}
	n, err := strSize(s)
	return 1 + n, err
}

// encoder writes into a buffer sized by productSize; it never grows.
type encoder struct {
	buf []byte
	off int
}

func (e *encoder) putBytes(b []byte) {
	e.off += copy(e.buf[e.off:], b)
}

func (e *encoder) putUint8(v uint8) {
	e.buf[e.off] = v
	e.off++
}

func (e *encoder) putBool(v bool) {
	if v {
		e.putUint8(1)
		return
	}
	e.putUint8(0)
}

func (e *encoder) putUint32(v uint32) {
	binary.LittleEndian.PutUint32(e.buf[e.off:], v)
	e.off += 4
}

func (e *encoder) putInt64(v int64) {
	binary.LittleEndian.PutUint64(e.buf[e.off:], uint64(v))
	e.off += 8
}

func (e *encoder) putString(s string) {
	e.putUint32(uint32(len(s)))
	e.off += copy(e.buf[e.off:], s)
}

func (e *encoder) putOptString(s string) {
	e.putBool(s != "")
	if s != "" {
		e.putString(s)
	}
}

func (e *encoder) putProduct(p *core.Product) {
	e.putString(p.ID)
	e.putString(p.Slug)
	e.putString(p.Name)
	e.putOptString(p.QuickDescription)
	e.putOptString(p.Description)
	e.putOptString(p.QuickSpecifications)
	e.putInt64(int64(p.Price))
	e.putBool(p.IsPromotional)
	e.putBool(p.PromotionalPrice != nil)
	if p.PromotionalPrice != nil {
		e.putInt64(int64(*p.PromotionalPrice))
	}
	e.putString(p.SearchText)
	e.putUint32(uint32(len(p.Variations)))
	for i := range p.Variations {
		v := &p.Variations[i]
		e.putString(v.ID)
		e.putOptString(v.Name)
		e.putOptString(v.QuickDescription)
		e.putOptString(v.Size)
		e.putOptString(v.Color)
		e.putOptString(v.SecondaryColor)
	}
}

// Decode parses a catalog blob. Every read is bounds-checked and every count is
// checked against the remaining bytes before allocation, so corrupt or forged
// input yields an error rather than a panic or an oversized allocation.
// On error no catalog is returned.
func Decode(data []byte) (*core.Catalog, error) {
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return nil, fmt.Errorf("%w: bad magic marker", ErrCorruptBlob)
	}

	d := &decoder{data: data, off: len(Magic)}
	version, err := d.readUint32("format version")
	if err != nil {
		return nil, err
	}
	if version == 0 {
		return nil, fmt.Errorf("%w: format version 0", ErrCorruptBlob)
	}
	if version > core.FormatVersion {
		return nil, fmt.Errorf("%w: %d (newest supported %d)", ErrUnsupportedVersion, version, core.FormatVersion)
	}

	count, err := d.readCount("product count", minProductSize)
	if err != nil {
		return nil, err
	}

	products := make([]*core.Product, 0, count)
	for i := 0; i < count; i++ {
		p, err := d.readProduct()
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i, err)
		}
		products = append(products, p)
	}

	catalog := &core.Catalog{Version: version, Products: products}
	if err := core.ValidateCatalog(catalog); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptBlob, err)
	}
	return catalog, nil
}

type decoder struct {
	data []byte
	off  int
}

func (d *decoder) remaining() int {
	return len(d.data) - d.off
}

func (d *decoder) need(n int, field string) error {
	if n > d.remaining() {
		return fmt.Errorf("%w: %s at offset %d (need %d, have %d)", ErrTruncatedData, field, d.off, n, d.remaining())
	}
	return nil
}

func (d *decoder) readUint8(field string) (uint8, error) {
	if err := d.need(1, field); err != nil {
		return 0, err
	}
	v := d.data[d.off]
	d.off++
	return v, nil
}

func (d *decoder) readBool(field string) (bool, error) {
	v, err := d.readUint8(field)
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s at offset %d is %d, want 0 or 1", ErrCorruptBlob, field, d.off-1, v)
	}
}

func (d *decoder) readUint32(field string) (uint32, error) {
	if err := d.need(4, field); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(d.data[d.off:])
	d.off += 4
	return v, nil
}

func (d *decoder) readInt64(field string) (int64, error) {
	if err := d.need(8, field); err != nil {
		return 0, err
	}
	v := int64(binary.LittleEndian.Uint64(d.data[d.off:]))
	d.off += 8
	return v, nil
}

// readCount reads an element count and rejects it when the remaining bytes cannot
// hold that many elements of at least minSize bytes each.
func (d *decoder) readCount(field string, minSize int) (int, error) {
	n, err := d.readUint32(field)
	if err != nil {
		return 0, err
	}
	if uint64(n)*uint64(minSize) > uint64(d.remaining()) {
		return 0, fmt.Errorf("%w: %s %d at offset %d exceeds %d remaining bytes", ErrTruncatedData, field, n, d.off-4, d.remaining())
	}
	return int(n), nil
}

func (d *decoder) readString(field string) (string, error) {
	n, err := d.readUint32(field + " length")
	if err != nil {
		return "", err
	}
	if uint64(n) > uint64(d.remaining()) {
		return "", fmt.Errorf("%w: %s claims %d bytes at offset %d, %d remain", ErrTruncatedData, field, n, d.off, d.remaining())
	}
	b := d.data[d.off : d.off+int(n)]
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: %s at offset %d is not valid UTF-8", ErrCorruptBlob, field, d.off)
	}
	d.off += int(n)
	return string(b), nil
}

func (d *decoder) readOptString(field string) (string, error) {
	present, err := d.readBool(field + " presence")
	if err != nil || !present {
		return "", err
	}
	return d.readString(field)
}

func (d *decoder) readProduct() (*core.Product, error) {
	var (
		p   = &core.Product{}
		err error
	)
	if p.ID, err = d.readString("id"); err != nil {
		return nil, err
	}
	if p.Slug, err = d.readString("slug"); err != nil {
		return nil, err
	}
	if p.Name, err = d.readString("name"); err != nil {
		return nil, err
	}
	if p.QuickDescription, err = d.readOptString("quick description"); err != nil {
		return nil, err
	}
	if p.Description, err = d.readOptString("description"); err != nil {
		return nil, err
	}
	if p.QuickSpecifications, err = d.readOptString("quick specifications"); err != nil {
		return nil, err
	}
	price, err := d.readInt64("price")
	if err != nil {
		return nil, err
	}
	p.Price = core.Money(price)
	if p.IsPromotional, err = d.readBool("promotional flag"); err != nil {
		return nil, err
	}
	hasPromo, err := d.readBool("promotional price presence")
	if err != nil {
		return nil, err
	}
	if hasPromo {
		promo, err := d.readInt64("promotional price")
		if err != nil {
			return nil, err
		}
		m := core.Money(promo)
		p.PromotionalPrice = &m
	}
	if p.SearchText, err = d.readString("search text"); err != nil {
		return nil, err
	}

	count, err := d.readCount("variation count", minVariationSize)
	if err != nil {
		return nil, err
	}
	p.Variations = make([]core.Variation, count)
	for i := range p.Variations {
		if err := d.readVariation(&p.Variations[i]); err != nil {
			return nil, fmt.Errorf("variation %d: %w", i, err)
		}
	}
	return p, nil
}

func (d *decoder) readVariation(v *core.Variation) error {
	var err error
	if v.ID, err = d.readString("variation id"); err != nil {
		return err
	}
	fields := []struct {
		dst  *string
		name string
	}{
		{&v.Name, "variation name"},
		{&v.QuickDescription, "variation quick description"},
		{&v.Size, "variation size"},
		{&v.Color, "variation color"},
		{&v.SecondaryColor, "variation secondary color"},
	}
	for _, f := range fields {
		if *f.dst, err = d.readOptString(f.name); err != nil {
			return err
		}
	}
	return nil
}
