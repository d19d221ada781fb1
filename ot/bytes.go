package ot

import (
	"errors"
	"math"
)

// Reading bytes from a font's binary representation.
//
// Every read is checked against the bounds of the segment it is performed on.
// Font data is untrusted: declared counts, offsets and lengths may point anywhere,
// and no accessor in this file will ever panic because of that.

var errBufferBounds = errors.New("internal inconsistency: buffer bounds error")

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0])<<8 | uint16(b[1])<<0
}

func u24(b []byte) uint32 {
	_ = b[2] // Bounds check hint to compiler
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])<<0
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])<<0
}

// --- Segments of font data -------------------------------------------------

// binarySegm is a segment of byte data. We use it throughout this module to
// navigate the font's binary data. Sub-segments are always sub-slices of the
// font buffer, i.e. no font data is ever copied.
type binarySegm []byte

// Size returns the size of the segment in bytes.
func (b binarySegm) Size() int {
	return len(b)
}

// Bytes returns the segment as a byte slice. Clients must treat it as read-only.
func (b binarySegm) Bytes() []byte {
	return b
}

// U16 is a convenience accessor for 16 bit data at byte index i. Out-of-bounds
// reads yield 0.
func (b binarySegm) U16(i int) uint16 {
	n, err := b.u16(i)
	if err != nil {
		return 0
	}
	return n
}

// U32 is a convenience accessor for 32 bit data at byte index i. Out-of-bounds
// reads yield 0.
func (b binarySegm) U32(i int) uint32 {
	n, err := b.u32(i)
	if err != nil {
		return 0
	}
	return n
}

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b. A view of size 0 is valid
// as long as offset is within [0, len(b)].
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n < 0 || offset > len(b) || n > len(b)-offset {
		return nil, errBufferBounds
	}
	return b[offset : offset+n : offset+n], nil
}

// viewFrom returns the sub-segment from offset to the end of b.
func (b binarySegm) viewFrom(offset int) (binarySegm, error) {
	if offset < 0 || offset > len(b) {
		return nil, errBufferBounds
	}
	return b[offset:], nil
}

// u8 returns the byte in b at the relative offset i.
func (b binarySegm) u8(i int) (uint8, error) {
	if i < 0 || i >= len(b) {
		return 0, errBufferBounds
	}
	return b[i], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// i16 returns the int16 in b at the relative offset i.
func (b binarySegm) i16(i int) (int16, error) {
	n, err := b.u16(i)
	return int16(n), err
}

// u24 returns the 24 bit unsigned integer in b at the relative offset i.
func (b binarySegm) u24(i int) (uint32, error) {
	buf, err := b.view(i, 3)
	if err != nil {
		return 0, err
	}
	return u24(buf), nil
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// --- Sequential reader -----------------------------------------------------

// reader is a bounded cursor over a segment. Errors are sticky: after the first
// out-of-bounds read every further read returns 0 and err stays set. This lets
// decoders read a whole record and check for errors once.
type reader struct {
	data binarySegm
	pos  int
	err  error
}

func newReader(b binarySegm) *reader {
	return &reader{data: b}
}

// readerAt creates a reader positioned at offset pos of b.
func readerAt(b binarySegm, pos int) *reader {
	r := &reader{data: b}
	r.seek(pos)
	return r
}

func (r *reader) take(n int) binarySegm {
	if r.err != nil {
		return nil
	}
	v, err := r.data.view(r.pos, n)
	if err != nil {
		r.err = err
		return nil
	}
	r.pos += n
	return v
}

func (r *reader) u8() uint8 {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *reader) u16() uint16 {
	if b := r.take(2); b != nil {
		return u16(b)
	}
	return 0
}

func (r *reader) i16() int16 {
	return int16(r.u16())
}

func (r *reader) u24() uint32 {
	if b := r.take(3); b != nil {
		return u24(b)
	}
	return 0
}

func (r *reader) u32() uint32 {
	if b := r.take(4); b != nil {
		return u32(b)
	}
	return 0
}

func (r *reader) i32() int32 {
	return int32(r.u32())
}

// fixed reads a 16.16 fixed-point number.
func (r *reader) fixed() float32 {
	return fixedToFloat(r.i32())
}

func (r *reader) f2dot14() F2Dot14 {
	return F2Dot14(r.i16())
}

// bytes returns the next n bytes as a sub-segment.
func (r *reader) bytes(n int) binarySegm {
	return r.take(n)
}

func (r *reader) skip(n int) {
	r.take(n)
}

func (r *reader) seek(pos int) {
	if r.err != nil {
		return
	}
	if pos < 0 || pos > len(r.data) {
		r.err = errBufferBounds
		return
	}
	r.pos = pos
}

func (r *reader) remaining() int {
	if r.err != nil {
		return 0
	}
	return len(r.data) - r.pos
}

// --- Fixed-point numbers ---------------------------------------------------

// F2Dot14 is a 16-bit signed fixed-point number with 2 integer bits and 14
// fractional bits, covering the range [-2.0, 2.0). Normalized variation
// coordinates are expressed in this format.
type F2Dot14 int16

// Float32 returns the floating point value of f.
func (f F2Dot14) Float32() float32 {
	return float32(f) / 16384
}

// F2Dot14FromFloat converts a floating point value to F2Dot14, rounding to the
// nearest representable value and clamping to the valid range.
func F2Dot14FromFloat(v float32) F2Dot14 {
	n := math.Round(float64(v) * 16384)
	if n > math.MaxInt16 {
		return math.MaxInt16
	} else if n < math.MinInt16 {
		return math.MinInt16
	}
	return F2Dot14(n)
}

// fixedToFloat converts a 16.16 fixed-point value.
func fixedToFloat(v int32) float32 {
	return float32(v) / 65536
}

// --- Arrays of fixed-size records ------------------------------------------

// array is a view of consecutive records of equal size.
type array struct {
	recordSize int
	length     int
	loc        binarySegm
}

// viewArray creates an array of records from b. Trailing bytes not filling a
// complete record are ignored.
func viewArray(b binarySegm, recordSize int) array {
	if recordSize <= 0 {
		return array{}
	}
	return array{
		recordSize: recordSize,
		length:     len(b) / recordSize,
		loc:        b,
	}
}

// parseArray reads N records of size recordSize at offset. It fails if the
// records would extend beyond b.
func parseArray(b binarySegm, offset, N, recordSize int) (array, error) {
	size, err := checkedMulInt(N, recordSize)
	if err != nil {
		return array{}, err
	}
	loc, err := b.view(offset, size)
	if err != nil {
		return array{}, err
	}
	return array{recordSize: recordSize, length: N, loc: loc}, nil
}

// Len returns the number of records.
func (a array) Len() int {
	return a.length
}

// Get returns record i, or an empty segment if i is out of range.
func (a array) Get(i int) binarySegm {
	if i < 0 || i >= a.length {
		return binarySegm{}
	}
	return a.loc[i*a.recordSize : (i+1)*a.recordSize]
}
