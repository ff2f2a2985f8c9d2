// Package bitfield implements the generic bit-field substrate used by the
// FT8 and WSPR message codecs. The source this system is descended from
// defines one class per fixed field width with near-identical bodies
// (c28, c58, g15, h10, h12, r1, ...); this package replaces that explosion
// with a single Field type carrying (bits, tag, subfield descriptors) plus a
// tag-keyed schema table, so message layouts become data (see schema.go)
// rather than a class hierarchy.
package bitfield

import (
	"fmt"

	"github.com/cwsl/wsprft8/internal/decodeerr"
)

// Subfield describes one named, tagged region of a Field's bit vector.
type Subfield struct {
	Tag      string
	Offset   int
	Length   int
	Instance int // 1-based occurrence of this tag within the field
}

// Field is a logical sequence of bits materialised as both an MSB-first byte
// array and an ordered boolean vector. Every Field carries an ordered list of
// subfield descriptors so composite fields can be queried by tag and
// occurrence.
type Field struct {
	bits      int
	vec       []bool // length == bits, MSB-first logical order
	subfields []Subfield
}

// grayMap is the fixed 3-bit permutation used by to_gray/FT8 tone mapping.
var grayMap = [8]uint8{0, 1, 3, 2, 5, 6, 4, 7}

// ToGray maps a 3-bit value through the fixed Gray-like permutation
// {0,1,3,2,5,6,4,7}. Values outside [0,8) are reduced modulo 8.
func ToGray(n int) int {
	return int(grayMap[n&0x07])
}

// New constructs a zero-valued Field of the given bit width.
func New(bits int) (*Field, error) {
	if bits <= 0 {
		return nil, decodeerr.New("bitfield.New", decodeerr.OutOfRange)
	}
	return &Field{bits: bits, vec: make([]bool, bits)}, nil
}

// NewFromUint constructs a Field of the given bit width from an unsigned
// integer value, MSB-first. Fails if data >= 2^bits.
func NewFromUint(bits int, data uint64) (*Field, error) {
	if bits <= 0 || bits > 64 {
		return nil, decodeerr.New("bitfield.NewFromUint", decodeerr.OutOfRange)
	}
	if bits < 64 && data >= (uint64(1)<<uint(bits)) {
		return nil, decodeerr.New("bitfield.NewFromUint", decodeerr.OutOfRange)
	}
	f := &Field{bits: bits, vec: make([]bool, bits)}
	for i := 0; i < bits; i++ {
		shift := uint(bits - 1 - i)
		f.vec[i] = (data>>shift)&1 == 1
	}
	return f, nil
}

// NewFromBits constructs a Field from an explicit bit vector (MSB-first,
// index 0 is the most significant bit). Fails if len(vec) != bits.
func NewFromBits(bits int, vec []bool) (*Field, error) {
	if len(vec) != bits {
		return nil, decodeerr.New("bitfield.NewFromBits", decodeerr.ShortInput)
	}
	f := &Field{bits: bits, vec: make([]bool, bits)}
	copy(f.vec, vec)
	return f, nil
}

// NewTagged constructs a Field from a bit vector with a single subfield
// descriptor attached, spanning the whole field under the given tag.
func NewTagged(bits int, vec []bool, tag string) (*Field, error) {
	f, err := NewFromBits(bits, vec)
	if err != nil {
		return nil, err
	}
	f.subfields = []Subfield{{Tag: tag, Offset: 0, Length: bits, Instance: 1}}
	return f, nil
}

// Bits returns the logical bit width of the field.
func (f *Field) Bits() int { return f.bits }

// ByteCount returns ceil(bits/8).
func (f *Field) ByteCount() int { return (f.bits + 7) / 8 }

// Bool returns a copy of the MSB-first boolean bit vector.
func (f *Field) Bool() []bool {
	out := make([]bool, len(f.vec))
	copy(out, f.vec)
	return out
}

// Bytes packs the bit vector MSB-first into bytes; unused low bits of the
// final byte (when bits % 8 != 0) are zero-padded.
func (f *Field) Bytes() []byte {
	out := make([]byte, f.ByteCount())
	for i, b := range f.vec {
		if b {
			out[i/8] |= 1 << uint(7-(i%8))
		}
	}
	return out
}

// Uint returns the field's value as an unsigned integer, MSB-first. Panics
// if bits > 64 — callers must use Select to narrow wide fields first.
func (f *Field) Uint() uint64 {
	if f.bits > 64 {
		panic("bitfield: Uint called on a field wider than 64 bits")
	}
	var v uint64
	for _, b := range f.vec {
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v
}

// Subfields returns a copy of the field's subfield descriptor list.
func (f *Field) Subfields() []Subfield {
	out := make([]Subfield, len(f.subfields))
	copy(out, f.subfields)
	return out
}

// Concat returns a new Field with b's bits appended MSB-first to the right
// of a's bits. Subfield descriptors from both operands are preserved; b's
// offsets are shifted by a.bits, and occurrence numbering continues instance
// counts per tag across the concatenation.
func Concat(a, b *Field) *Field {
	out := &Field{
		bits: a.bits + b.bits,
		vec:  make([]bool, 0, a.bits+b.bits),
	}
	out.vec = append(out.vec, a.vec...)
	out.vec = append(out.vec, b.vec...)

	instanceOf := map[string]int{}
	for _, sf := range a.subfields {
		out.subfields = append(out.subfields, sf)
		if sf.Instance > instanceOf[sf.Tag] {
			instanceOf[sf.Tag] = sf.Instance
		}
	}
	for _, sf := range b.subfields {
		shifted := sf
		shifted.Offset += a.bits
		shifted.Instance = instanceOf[sf.Tag] + sf.Instance
		out.subfields = append(out.subfields, shifted)
	}
	return out
}

// Select returns the instance-th (1-based) subfield with the given tag as a
// standalone Field carrying a single subfield descriptor.
func (f *Field) Select(tag string, instance int) (*Field, error) {
	for _, sf := range f.subfields {
		if sf.Tag == tag && sf.Instance == instance {
			sub := f.vec[sf.Offset : sf.Offset+sf.Length]
			return NewTagged(sf.Length, sub, tag)
		}
	}
	return nil, decodeerr.New(fmt.Sprintf("bitfield.Select(%s,%d)", tag, instance), decodeerr.OutOfRange)
}

// Slice returns the raw bits in [offset, offset+length) with no subfield
// descriptor attached.
func (f *Field) Slice(offset, length int) (*Field, error) {
	if offset < 0 || length < 0 || offset+length > f.bits {
		return nil, decodeerr.New("bitfield.Slice", decodeerr.OutOfRange)
	}
	return NewFromBits(length, f.vec[offset:offset+length])
}
