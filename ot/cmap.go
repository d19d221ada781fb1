package ot

import (
	"fmt"
	"iter"
	"sort"
)

// CMapTable represents an OpenType cmap table, i.e. the table to receive glyphs
// from code-points.
//
// See https://docs.microsoft.com/de-de/typography/opentype/spec/cmap
//
// A font may contain several cmap sub-tables for different platforms and
// encodings. We keep all sub-tables in a format we understand, ordered by
// preference: full Unicode repertoire first, then Unicode BMP, then all others.
// A sub-table of format 14 (Unicode variation sequences) is kept separately.
type CMapTable struct {
	tableBase
	subtables  []cmapSubtable
	variations *cmapVariations // format 14, nil if not present
}

type cmapSubtable struct {
	platformID uint16
	encodingID uint16
	format     uint16
	width      int // encoding width, see platformEncodingWidth
	index      cmapIndex
}

// cmapIndex is implemented for each supported sub-table format.
type cmapIndex interface {
	lookup(r rune) GlyphIndex // 0 if r is not mapped
	all(yield func(rune, GlyphIndex) bool) bool
}

// Platform IDs and Platform Specific IDs as per
// https://www.microsoft.com/typography/otspec/name.htm
const (
	pidUnicode   = 0
	pidMacintosh = 1
	pidWindows   = 3

	// Note that FontForge may generate a bogus Platform Specific ID (value 10)
	// for the Unicode Platform ID (value 0). See
	// https://github.com/fontforge/fontforge/issues/2728
	psidUnicode2BMPOnly        = 3
	psidUnicode2FullRepertoire = 4
	psidUnicodeVariations      = 5
	psidUnicodeFull            = 6
	psidMacintoshRoman         = 0
	psidWindowsSymbol          = 0
	psidWindowsUCS2            = 1
	psidWindowsUCS4            = 10
)

// This value is arbitrary, but defends against parsing malicious font
// files causing excessive memory allocations. For reference, Adobe's
// SourceHanSansSC-Regular.otf has 65535 glyphs and:
//   - its format-4  cmap table has  1581 segments.
//   - its format-12 cmap table has 16498 segments.
const maxCMapSegments = 40000

// maxCMapSteps limits the code-points visited when iterating a sub-table.
// Overlapping segments or groups cannot make a walk longer than this.
const maxCMapSteps = 0x110000

// platformEncodingWidth returns the number of bytes per character assumed by
// the given Platform ID and Platform Specific ID.
//
// Very old fonts, from before Unicode was widely adopted, assume only 1 byte
// per character: a character map.
//
// Old fonts, from when Unicode meant the Basic Multilingual Plane (BMP),
// assume that 2 bytes per character is sufficient.
//
// Recent fonts naturally support the full range of Unicode code points, which
// can take up to 4 bytes per character. Such fonts might still choose one of
// the legacy encodings if e.g. their repertoire is limited to the BMP, for
// greater compatibility with older software, or because the resultant file
// size can be smaller.
func platformEncodingWidth(pid, psid uint16) int {
	switch pid {
	case pidUnicode:
		switch psid {
		case psidUnicode2BMPOnly:
			return 2
		case psidUnicode2FullRepertoire, psidUnicodeFull, psidWindowsUCS4:
			return 4
		}
		return 2
	case pidMacintosh:
		switch psid {
		case psidMacintoshRoman:
			return 1
		}
	case pidWindows:
		switch psid {
		case psidWindowsSymbol:
			return 2
		case psidWindowsUCS2:
			return 2
		case psidWindowsUCS4:
			return 4
		}
	}
	return 0
}

func parseCMap(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	r := newReader(b)
	version := r.u16()
	n := int(r.u16())
	if r.err != nil || version != 0 {
		return nil, errFontFormat("cmap table header")
	}
	records, err := parseArray(b, 4, n, 8)
	if err != nil {
		ec.addError(tag, "Header", fmt.Sprintf("%d encoding records exceed table size", n), SeverityMajor, offset)
		return nil, errFontFormat("cmap encoding records")
	}
	t := &CMapTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	indexByOffset := make(map[uint32]cmapIndex, n) // sub-tables are frequently shared between records
	for i := 0; i < records.Len(); i++ {
		rec := records.Get(i)
		pid, psid, suboff := u16(rec), u16(rec[2:]), u32(rec[4:])
		format, err := b.u16(int(suboff))
		if err != nil {
			ec.addError(tag, "EncodingRecord", fmt.Sprintf("sub-table offset %d out of bounds", suboff), SeverityMinor, offset)
			continue
		}
		tracer().Debugf("cmap sub-table platform=%d, encoding=%d, format=%d", pid, psid, format)
		if format == 14 {
			if t.variations != nil {
				continue
			}
			if t.variations, err = parseCMapFormat14(b, int(suboff)); err != nil {
				ec.addError(tag, "Format14", err.Error(), SeverityMinor, offset+suboff)
			}
			continue
		}
		index, ok := indexByOffset[suboff]
		if !ok {
			sub, _ := b.viewFrom(int(suboff))
			switch format {
			case 0:
				index, err = parseCMapFormat0(sub)
			case 4:
				index, err = parseCMapFormat4(sub)
			case 6:
				index, err = parseCMapFormat6(sub)
			case 10:
				index, err = parseCMapFormat10(sub)
			case 12, 13:
				index, err = parseCMapFormat12(sub, format == 13)
			default:
				tracer().Debugf("cmap sub-table format %d not supported", format)
				continue
			}
			if err != nil {
				tracer().Infof("cmap sub-table format %d unreadable: %v", format, err)
				ec.addError(tag, fmt.Sprintf("Format%d", format), err.Error(), SeverityMinor, offset+suboff)
				continue
			}
			indexByOffset[suboff] = index
		}
		t.subtables = append(t.subtables, cmapSubtable{
			platformID: pid,
			encodingID: psid,
			format:     format,
			width:      platformEncodingWidth(pid, psid),
			index:      index,
		})
	}
	sort.SliceStable(t.subtables, func(i, j int) bool {
		return t.subtables[i].width > t.subtables[j].width
	})
	if len(t.subtables) == 0 && t.variations == nil {
		ec.addWarning(tag, "no supported cmap sub-table", offset)
	}
	return t, nil
}

// GlyphIndex returns the glyph for code-point r. It consults the sub-tables in
// order of preference and returns the first non-zero mapping, or 0 if r is
// not mapped by any sub-table.
func (t *CMapTable) GlyphIndex(r rune) GlyphIndex {
	if t == nil || r < 0 {
		return 0
	}
	for _, sub := range t.subtables {
		if g := sub.index.lookup(r); g != 0 {
			return g
		}
	}
	return 0
}

// GlyphVariationIndex returns the glyph for the variation sequence (r, vs).
// If the sequence has a glyph of its own, it is returned. If the sequence uses
// the default glyph of r, the result of GlyphIndex(r) is returned. Otherwise
// the result is 0.
func (t *CMapTable) GlyphVariationIndex(r, vs rune) GlyphIndex {
	if t == nil || t.variations == nil {
		return 0
	}
	g, useDefault := t.variations.lookup(r, vs)
	if useDefault {
		return t.GlyphIndex(r)
	}
	return g
}

// HasVariationSequences returns true if the cmap contains a format 14 sub-table.
func (t *CMapTable) HasVariationSequences() bool {
	return t != nil && t.variations != nil
}

// SubTableCount returns the number of sub-tables used for glyph lookup.
func (t *CMapTable) SubTableCount() int {
	if t == nil {
		return 0
	}
	return len(t.subtables)
}

// Codepoints iterates over all code-points mapped by the preferred sub-table,
// together with their glyphs. Code-points mapped to glyph 0 are skipped.
func (t *CMapTable) Codepoints() iter.Seq2[rune, GlyphIndex] {
	return func(yield func(rune, GlyphIndex) bool) {
		if t == nil || len(t.subtables) == 0 {
			return
		}
		t.subtables[0].index.all(yield)
	}
}

// --- Format 0: byte encoding table -----------------------------------------

type cmapFormat0 binarySegm // 256 glyph indices

func parseCMapFormat0(b binarySegm) (cmapIndex, error) {
	glyphs, err := b.view(6, 256)
	if err != nil {
		return nil, errFontFormat("cmap format 0 size")
	}
	return cmapFormat0(glyphs), nil
}

func (f cmapFormat0) lookup(r rune) GlyphIndex {
	if r < 0 || r >= 256 {
		return 0
	}
	return GlyphIndex(f[r])
}

func (f cmapFormat0) all(yield func(rune, GlyphIndex) bool) bool {
	for r, g := range f {
		if g != 0 && !yield(rune(r), GlyphIndex(g)) {
			return false
		}
	}
	return true
}

// --- Format 4: segment mapping to delta values -----------------------------

// Format 4 is the standard character-to-glyph-index mapping sub-table for fonts
// that support only Unicode Basic Multilingual Plane characters.
// The format-dependent data is divided into three parts:
// - A four-word header gives parameters for an optimized search of the segment list;
// - Four parallel arrays describe the segments (one segment for each contiguous range of codes);
// - A variable-length array of glyph IDs (unsigned words).
type cmapFormat4 struct {
	data      binarySegm // complete sub-table, for idRangeOffset addressing
	segCount  int
	ends      array
	starts    array
	deltas    array
	rangeOffs array
	rangeBase int // offset of the idRangeOffset array within data
}

func parseCMapFormat4(b binarySegm) (cmapIndex, error) {
	const headerSize = 14
	length, err := b.u16(2)
	if err != nil {
		return nil, errFontFormat("cmap format 4 header")
	}
	// Some fonts have a wrong length field, so we don't insist on it, but
	// we do not read beyond the end of the cmap table.
	data := b
	if int(length) >= headerSize && int(length) <= len(b) {
		data = b[:length]
	}
	segCountX2, err := b.u16(6)
	if err != nil || segCountX2&1 != 0 {
		return nil, errFontFormat("cmap format 4, illegal segment count")
	}
	segCount := int(segCountX2 / 2)
	if segCount > maxCMapSegments {
		return nil, errFontFormat("cmap format 4, too many segments")
	}
	f := &cmapFormat4{segCount: segCount}
	if f.ends, err = parseArray(b, headerSize, segCount, 2); err != nil {
		return nil, errFontFormat("cmap format 4 end codes")
	}
	// reservedPad of 2 bytes after the end codes
	if f.starts, err = parseArray(b, headerSize+2+2*segCount, segCount, 2); err != nil {
		return nil, errFontFormat("cmap format 4 start codes")
	}
	if f.deltas, err = parseArray(b, headerSize+2+4*segCount, segCount, 2); err != nil {
		return nil, errFontFormat("cmap format 4 deltas")
	}
	f.rangeBase = headerSize + 2 + 6*segCount
	if f.rangeOffs, err = parseArray(b, f.rangeBase, segCount, 2); err != nil {
		return nil, errFontFormat("cmap format 4 range offsets")
	}
	if len(data) < f.rangeBase+2*segCount {
		data = b
	}
	f.data = data
	return f, nil
}

func (f *cmapFormat4) lookup(r rune) GlyphIndex {
	if r < 0 || r > 0xffff {
		return 0
	}
	c := uint16(r)
	i := sort.Search(f.segCount, func(i int) bool {
		return u16(f.ends.Get(i)) >= c
	})
	if i >= f.segCount {
		return 0
	}
	start := u16(f.starts.Get(i))
	if c < start {
		return 0
	}
	return f.segmentGlyph(i, c, start)
}

// segmentGlyph maps code c within segment i. "If the idRangeOffset value for
// the segment is not 0, the mapping of character codes relies on glyphIdArray.
// The character code offset from startCode is added to the idRangeOffset value.
// This sum is used as an offset from the current location within idRangeOffset
// itself to index out the correct glyphIdArray value."
func (f *cmapFormat4) segmentGlyph(i int, c, start uint16) GlyphIndex {
	delta := u16(f.deltas.Get(i))
	rangeOff := u16(f.rangeOffs.Get(i))
	if rangeOff == 0 {
		return GlyphIndex(c + delta) // modulo 65536
	}
	pos := f.rangeBase + 2*i + int(rangeOff) + 2*int(c-start)
	g, err := f.data.u16(pos)
	if err != nil || g == 0 {
		return 0
	}
	return GlyphIndex(g + delta)
}

func (f *cmapFormat4) all(yield func(rune, GlyphIndex) bool) bool {
	steps := 0
	for i := 0; i < f.segCount; i++ {
		start, end := u16(f.starts.Get(i)), u16(f.ends.Get(i))
		if start > end {
			continue
		}
		for c := uint32(start); c <= uint32(end); c++ {
			if c == 0xffff {
				break // sentinel segment
			}
			if steps++; steps > maxCMapSteps {
				return false
			}
			if g := f.segmentGlyph(i, uint16(c), start); g != 0 {
				if !yield(rune(c), g) {
					return false
				}
			}
		}
	}
	return true
}

// --- Format 6: trimmed table mapping ---------------------------------------

type cmapFormat6 struct {
	first  rune
	glyphs array
}

func parseCMapFormat6(b binarySegm) (cmapIndex, error) {
	r := readerAt(b, 6)
	f := &cmapFormat6{first: rune(r.u16())}
	n := int(r.u16())
	if r.err != nil {
		return nil, errFontFormat("cmap format 6 header")
	}
	var err error
	if f.glyphs, err = parseArray(b, 10, n, 2); err != nil {
		return nil, errFontFormat("cmap format 6 size")
	}
	return f, nil
}

func (f *cmapFormat6) lookup(r rune) GlyphIndex {
	if r < f.first {
		return 0
	}
	return GlyphIndex(u16OrZero(f.glyphs.Get(int(r - f.first))))
}

func (f *cmapFormat6) all(yield func(rune, GlyphIndex) bool) bool {
	for i := 0; i < f.glyphs.Len(); i++ {
		if g := GlyphIndex(u16(f.glyphs.Get(i))); g != 0 && !yield(f.first+rune(i), g) {
			return false
		}
	}
	return true
}

// --- Format 10: trimmed array ----------------------------------------------

type cmapFormat10 struct {
	first  uint32
	glyphs array
}

func parseCMapFormat10(b binarySegm) (cmapIndex, error) {
	r := readerAt(b, 12)
	f := &cmapFormat10{first: r.u32()}
	n := r.u32()
	if r.err != nil || n > MaxGlyphCount {
		return nil, errFontFormat("cmap format 10 header")
	}
	var err error
	if f.glyphs, err = parseArray(b, 20, int(n), 2); err != nil {
		return nil, errFontFormat("cmap format 10 size")
	}
	return f, nil
}

func (f *cmapFormat10) lookup(r rune) GlyphIndex {
	if r < 0 || uint32(r) < f.first {
		return 0
	}
	return GlyphIndex(u16OrZero(f.glyphs.Get(int(uint32(r) - f.first))))
}

func (f *cmapFormat10) all(yield func(rune, GlyphIndex) bool) bool {
	for i := 0; i < f.glyphs.Len(); i++ {
		if g := GlyphIndex(u16(f.glyphs.Get(i))); g != 0 && !yield(rune(f.first)+rune(i), g) {
			return false
		}
	}
	return true
}

// --- Formats 12 and 13: segmented coverage / many-to-one range mappings -----

type cmapFormat12 struct {
	groups    array // startCharCode, endCharCode, startGlyphID
	manyToOne bool  // format 13
}

func parseCMapFormat12(b binarySegm, manyToOne bool) (cmapIndex, error) {
	n, err := b.u32(12)
	if err != nil {
		return nil, errFontFormat("cmap format 12/13 header")
	}
	if n > maxCMapSegments {
		return nil, errFontFormat("cmap format 12/13, too many groups")
	}
	f := &cmapFormat12{manyToOne: manyToOne}
	if f.groups, err = parseArray(b, 16, int(n), 12); err != nil {
		return nil, errFontFormat("cmap format 12/13 size")
	}
	return f, nil
}

func (f *cmapFormat12) lookup(r rune) GlyphIndex {
	if r < 0 {
		return 0
	}
	c := uint32(r)
	n := f.groups.Len()
	i := sort.Search(n, func(i int) bool {
		return u32(f.groups.Get(i)[4:]) >= c
	})
	if i >= n {
		return 0
	}
	return f.groupGlyph(f.groups.Get(i), c)
}

func (f *cmapFormat12) groupGlyph(group binarySegm, c uint32) GlyphIndex {
	start, startGlyph := u32(group), u32(group[8:])
	if c < start {
		return 0
	}
	g := startGlyph
	if !f.manyToOne {
		g += c - start
	}
	if g > 0xffff {
		return 0
	}
	return GlyphIndex(g)
}

func (f *cmapFormat12) all(yield func(rune, GlyphIndex) bool) bool {
	steps := 0
	for i := 0; i < f.groups.Len(); i++ {
		group := f.groups.Get(i)
		start, end := u32(group), u32(group[4:])
		if end > 0x10ffff {
			end = 0x10ffff
		}
		if !f.manyToOne {
			// glyphs beyond 0xFFFF do not exist
			if startGlyph := u32(group[8:]); startGlyph > 0xffff {
				continue
			} else if start <= end && end-start > 0xffff-startGlyph {
				end = start + 0xffff - startGlyph
			}
		}
		for c := start; c <= end; c++ {
			if steps++; steps > maxCMapSteps {
				return false
			}
			if g := f.groupGlyph(group, c); g != 0 && !yield(rune(c), g) {
				return false
			}
		}
	}
	return true
}

// --- Format 14: Unicode variation sequences ---------------------------------

type cmapVariations struct {
	data    binarySegm
	records array // varSelector (u24), defaultUVSOffset, nonDefaultUVSOffset
}

func parseCMapFormat14(b binarySegm, off int) (*cmapVariations, error) {
	r := readerAt(b, off)
	r.skip(6) // format and length
	n := int(r.u32())
	if r.err != nil {
		return nil, errFontFormat("cmap format 14 header")
	}
	data, _ := b.viewFrom(off)
	records, err := parseArray(data, 10, n, 11)
	if err != nil {
		return nil, errFontFormat("cmap format 14 selector records")
	}
	return &cmapVariations{data: data, records: records}, nil
}

// lookup returns the glyph for (r, vs), or a flag signalling that the default
// glyph of r is to be used.
func (v *cmapVariations) lookup(r, vs rune) (GlyphIndex, bool) {
	if r < 0 || vs < 0 {
		return 0, false
	}
	n := v.records.Len()
	i := sort.Search(n, func(i int) bool {
		return rune(u24(v.records.Get(i))) >= vs
	})
	if i >= n {
		return 0, false
	}
	rec := v.records.Get(i)
	if rune(u24(rec)) != vs {
		return 0, false
	}
	if off := u32(rec[7:]); off != 0 {
		if g, ok := v.nonDefaultGlyph(int(off), r); ok {
			return g, false
		}
	}
	if off := u32(rec[3:]); off != 0 && v.isDefault(int(off), r) {
		return 0, true
	}
	return 0, false
}

// Non-default UVS tables contain records of (unicodeValue u24, glyphID u16).
func (v *cmapVariations) nonDefaultGlyph(off int, r rune) (GlyphIndex, bool) {
	n, err := v.data.u32(off)
	if err != nil {
		return 0, false
	}
	mappings, err := parseArray(v.data, off+4, int(min(n, maxCMapSegments)), 5)
	if err != nil {
		return 0, false
	}
	cnt := mappings.Len()
	i := sort.Search(cnt, func(i int) bool {
		return rune(u24(mappings.Get(i))) >= r
	})
	if i < cnt {
		if rec := mappings.Get(i); rune(u24(rec)) == r {
			return GlyphIndex(u16(rec[3:])), true
		}
	}
	return 0, false
}

// Default UVS tables contain ranges of (startUnicodeValue u24, additionalCount u8).
func (v *cmapVariations) isDefault(off int, r rune) bool {
	n, err := v.data.u32(off)
	if err != nil {
		return false
	}
	ranges, err := parseArray(v.data, off+4, int(min(n, maxCMapSegments)), 4)
	if err != nil {
		return false
	}
	cnt := ranges.Len()
	i := sort.Search(cnt, func(i int) bool {
		rec := ranges.Get(i)
		return rune(u24(rec))+rune(rec[3]) >= r
	})
	return i < cnt && rune(u24(ranges.Get(i))) <= r
}
