package ot

import (
	"fmt"
)

// itemVariationStore holds delta sets for variable values, as used by HVAR,
// VVAR, MVAR and CFF2. Deltas are addressed by an outer index (selecting an
// item variation data sub-table) and an inner index (selecting a row).
type itemVariationStore struct {
	axisCount int
	regions   array // region records, 6*axisCount bytes each
	data      []itemVariationData
}

type itemVariationData struct {
	itemCount     int
	regionIndexes []uint16
	wordCount     int  // number of deltas in the wider format
	longWords     bool // deltas are 32/16 bit instead of 16/8 bit
	rowSize       int
	rows          binarySegm
}

// parseItemVariationStore reads an item variation store at offset off of b.
func parseItemVariationStore(b binarySegm, off int) (*itemVariationStore, error) {
	r := readerAt(b, off)
	format := r.u16()
	regionsOff := int(r.u32())
	n := int(r.u16())
	if r.err != nil || format != 1 {
		return nil, errFontFormat("item variation store header")
	}
	store := &itemVariationStore{}
	rr := readerAt(b, off+regionsOff)
	store.axisCount = int(rr.u16())
	regionCount := int(rr.u16())
	if rr.err != nil || store.axisCount > MaxAxisCount {
		return nil, errFontFormat("variation region list header")
	}
	var err error
	if store.regions, err = parseArray(b, off+regionsOff+4, regionCount, 6*store.axisCount); err != nil {
		return nil, errFontFormat("variation region list truncated")
	}
	store.data = make([]itemVariationData, n)
	for i := range store.data {
		dataOff := int(r.u32())
		if r.err != nil {
			return nil, errFontFormat("item variation data offsets truncated")
		}
		if store.data[i], err = parseItemVariationData(b, off+dataOff, regionCount); err != nil {
			return nil, err
		}
	}
	return store, nil
}

func parseItemVariationData(b binarySegm, off int, regionCount int) (itemVariationData, error) {
	r := readerAt(b, off)
	d := itemVariationData{itemCount: int(r.u16())}
	wordDeltaCount := r.u16()
	regionIndexCount := int(r.u16())
	if r.err != nil {
		return d, errFontFormat("item variation data header")
	}
	d.wordCount = int(wordDeltaCount & 0x7fff)
	d.longWords = wordDeltaCount&0x8000 != 0
	if d.wordCount > regionIndexCount {
		return d, errFontFormat("item variation data word count")
	}
	d.regionIndexes = make([]uint16, regionIndexCount)
	for i := range d.regionIndexes {
		d.regionIndexes[i] = r.u16()
		if int(d.regionIndexes[i]) >= regionCount {
			return d, errFontFormat(fmt.Sprintf("region index %d out of range", d.regionIndexes[i]))
		}
	}
	if d.longWords {
		d.rowSize = 4*d.wordCount + 2*(regionIndexCount-d.wordCount)
	} else {
		d.rowSize = 2*d.wordCount + (regionIndexCount - d.wordCount)
	}
	size, err := checkedMulInt(d.rowSize, d.itemCount)
	if err != nil {
		return d, err
	}
	d.rows = r.bytes(size)
	if r.err != nil {
		return d, errFontFormat("item variation data rows truncated")
	}
	return d, nil
}

// regionScalar computes the influence of region i for the instance at coords.
func (s *itemVariationStore) regionScalar(i int, coords []F2Dot14) float32 {
	region := s.regions.Get(i)
	if len(region) == 0 {
		return 0
	}
	scalar := float32(1)
	for a := 0; a < s.axisCount; a++ {
		rec := region[6*a:]
		start, peak, end := F2Dot14(u16(rec)), F2Dot14(u16(rec[2:])), F2Dot14(u16(rec[4:]))
		var coord F2Dot14
		if a < len(coords) {
			coord = coords[a]
		}
		scalar *= axisScalar(start, peak, end, coord)
		if scalar == 0 {
			return 0
		}
	}
	return scalar
}

// axisScalar computes the contribution of one axis to the scalar of a region
// or of a tuple with explicit intermediate region.
func axisScalar(start, peak, end, coord F2Dot14) float32 {
	if peak == 0 || start > peak || peak > end {
		return 1
	}
	if start < 0 && end > 0 {
		return 1
	}
	if coord < start || coord > end {
		return 0
	}
	if coord == peak {
		return 1
	}
	if coord < peak {
		return float32(coord-start) / float32(peak-start)
	}
	return float32(end-coord) / float32(end-peak)
}

// delta computes the interpolated delta of item (outer, inner) for the
// instance at coords. Unknown items have a delta of 0.
func (s *itemVariationStore) delta(outer, inner int, coords []F2Dot14) float32 {
	if s == nil || outer < 0 || outer >= len(s.data) {
		return 0
	}
	d := &s.data[outer]
	if inner < 0 || inner >= d.itemCount {
		return 0
	}
	row := d.rows[inner*d.rowSize : (inner+1)*d.rowSize]
	var sum float32
	for i, region := range d.regionIndexes {
		scalar := s.regionScalar(int(region), coords)
		v := d.deltaAt(row, i)
		if scalar != 0 {
			sum += scalar * float32(v)
		}
	}
	return sum
}

// deltaAt returns delta number i of a row.
func (d *itemVariationData) deltaAt(row binarySegm, i int) int32 {
	if d.longWords {
		if i < d.wordCount {
			return int32(u32(row[4*i:]))
		}
		return int32(int16(u16(row[4*d.wordCount+2*(i-d.wordCount):])))
	}
	if i < d.wordCount {
		return int32(int16(u16(row[2*i:])))
	}
	return int32(int8(row[2*d.wordCount+(i-d.wordCount)]))
}

// blendScalars returns the scalars of the regions referenced by item variation
// data number vsindex, in order. CFF2 blend operators need them.
func (s *itemVariationStore) blendScalars(vsindex int, coords []F2Dot14) ([]float32, error) {
	if s == nil || vsindex < 0 || vsindex >= len(s.data) {
		return nil, fmt.Errorf("%w: invalid vsindex %d", ErrCharstring, vsindex)
	}
	d := &s.data[vsindex]
	scalars := make([]float32, len(d.regionIndexes))
	for i, region := range d.regionIndexes {
		scalars[i] = s.regionScalar(int(region), coords)
	}
	return scalars, nil
}

// regionCount returns the number of regions of item variation data vsindex.
func (s *itemVariationStore) regionCount(vsindex int) int {
	if s == nil || vsindex < 0 || vsindex >= len(s.data) {
		return 0
	}
	return len(s.data[vsindex].regionIndexes)
}

// --- Delta set index maps ---------------------------------------------------

// deltaSetIndexMap maps glyph indices (or other indices) to (outer, inner)
// delta set indices of an item variation store.
type deltaSetIndexMap struct {
	entrySize int
	innerBits int
	entries   array
}

// parseDeltaSetIndexMap reads a delta set index map of format 0 or 1 at
// offset off of b.
func parseDeltaSetIndexMap(b binarySegm, off int) (*deltaSetIndexMap, error) {
	r := readerAt(b, off)
	format := r.u8()
	entryFormat := r.u8()
	var count int
	switch format {
	case 0:
		count = int(r.u16())
	case 1:
		count = int(r.u32())
	default:
		return nil, errFontFormat(fmt.Sprintf("delta set index map format %d", format))
	}
	if r.err != nil {
		return nil, errFontFormat("delta set index map header")
	}
	m := &deltaSetIndexMap{
		entrySize: int(entryFormat&0x30)>>4 + 1,
		innerBits: int(entryFormat&0x0f) + 1,
	}
	var err error
	if m.entries, err = parseArray(b, r.pos, count, m.entrySize); err != nil {
		return nil, errFontFormat("delta set index map truncated")
	}
	return m, nil
}

// lookup maps index i. Indices beyond the end of the map use the last entry.
func (m *deltaSetIndexMap) lookup(i int) (int, int, bool) {
	n := m.entries.Len()
	if n == 0 {
		return 0, 0, false
	}
	if i >= n {
		i = n - 1
	}
	rec := m.entries.Get(i)
	var entry uint32
	for _, b := range rec {
		entry = entry<<8 | uint32(b)
	}
	return int(entry >> m.innerBits), int(entry & (1<<m.innerBits - 1)), true
}
