package ot

import "fmt"

// --- Head table ------------------------------------------------------------

// HeadTable gives global information about the font.
// Only fields needed for queries and consistency-checks are made public.
// To read any of the other fields of table 'head' clients may use the table's
// binary data.
type HeadTable struct {
	tableBase
	Flags            uint16 // see https://docs.microsoft.com/en-us/typography/opentype/spec/head
	UnitsPerEm       uint16 // values 16 … 16384 are valid
	XMin, YMin       int16  // bounding box of all glyphs
	XMax, YMax       int16  // bounding box of all glyphs
	MacStyle         uint16 // bit 0 bold, bit 1 italic
	IndexToLocFormat uint16 // needed to interpret loca table
}

func parseHead(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < 54 {
		ec.addError(tag, "Size", fmt.Sprintf("head table too small: %d bytes (need 54)", size), SeverityCritical, offset)
		return nil, errFontFormat("size of head table")
	}
	t := &HeadTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	r := readerAt(b, 16)
	t.Flags = r.u16()
	t.UnitsPerEm = r.u16()
	r.skip(16) // created, modified
	t.XMin, t.YMin, t.XMax, t.YMax = r.i16(), r.i16(), r.i16(), r.i16()
	t.MacStyle = r.u16()
	r.skip(4) // lowestRecPPEM, fontDirectionHint
	// IndexToLocFormat is needed to interpret the loca table:
	// 0 for short offsets, 1 for long
	t.IndexToLocFormat = r.u16()
	return t, r.err
}

// --- MaxP table ------------------------------------------------------------

// MaxPTable establishes the memory requirements for this font.
// The 'maxp' table contains a count for the number of glyphs in the font.
// Fonts with CFF data use version 0.5 of this table, specifying only the numGlyphs
// field. Fonts with TrueType outlines use version 1.0, where all data is required.
type MaxPTable struct {
	tableBase
	NumGlyphs int
}

func parseMaxP(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	n, err := b.u16(4)
	if err != nil {
		ec.addError(tag, "Size", "maxp table too small", SeverityCritical, offset)
		return nil, errFontFormat("size of maxp table")
	}
	if n == 0 {
		ec.addError(tag, "NumGlyphs", "font has no glyphs", SeverityCritical, offset)
		return nil, errFontFormat("maxp table: number of glyphs is 0")
	}
	t := &MaxPTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	t.NumGlyphs = int(n)
	return t, nil
}

// --- HHea and VHea tables --------------------------------------------------

// HHeaTable contains information for horizontal layout (table 'hhea') or
// for vertical layout (table 'vhea'). Both tables share the same binary layout;
// for 'vhea' Ascender and Descender are the vertical typographic ascender and
// descender, and NumberOfMetrics is the number of long vertical metrics.
type HHeaTable struct {
	tableBase
	Ascender            int16
	Descender           int16
	LineGap             int16
	AdvanceMax          uint16
	MinLeftSideBearing  int16
	MinRightSideBearing int16
	XMaxExtent          int16
	CaretSlopeRise      int16
	CaretSlopeRun       int16
	CaretOffset         int16
	NumberOfMetrics     int
}

func parseHHea(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	tracer().Debugf("%s table has size %d", tag, size)
	if size < 36 {
		ec.addError(tag, "Size", fmt.Sprintf("%s table too small: %d bytes (need 36)", tag, size), SeverityMajor, offset)
		return nil, errFontFormat(fmt.Sprintf("%s table incomplete", tag))
	}
	t := &HHeaTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	r := readerAt(b, 4)
	t.Ascender = r.i16()
	t.Descender = r.i16()
	t.LineGap = r.i16()
	t.AdvanceMax = r.u16()
	t.MinLeftSideBearing = r.i16()
	t.MinRightSideBearing = r.i16()
	t.XMaxExtent = r.i16()
	t.CaretSlopeRise = r.i16()
	t.CaretSlopeRun = r.i16()
	t.CaretOffset = r.i16()
	r.seek(34)
	t.NumberOfMetrics = int(r.u16())
	return t, r.err
}

// --- HMtx and VMtx tables --------------------------------------------------

// MtxTable contains metric information for the horizontal layout (table 'hmtx')
// or vertical layout (table 'vmtx') of each of the glyphs in the font.
// Each element in the contained metrics-array has two parts: the advance
// and the side bearing. The number of metrics records is taken from the
// 'hhea' or 'vhea' table. In a monospaced font, only one entry is required but
// that entry may not be omitted.
// Optionally, an array of side bearings follows.
// The corresponding glyphs are assumed to have the same
// advance as that found in the last entry in the metrics array.
type MtxTable struct {
	tableBase
	NumberOfMetrics int
	numGlyphs       int
	metrics         array // records of (advance, side bearing)
	bearings        array // trailing side bearings
}

// MetricRecord is one long metric record from table hmtx or vmtx.
type MetricRecord struct {
	Advance     uint16
	SideBearing int16
}

func parseMtx(tag Tag, b binarySegm, offset, size uint32, numGlyphs, numberOfMetrics int, ec *errorCollector) (Table, error) {
	if numberOfMetrics == 0 {
		ec.addError(tag, "Header", "number of metrics is 0", SeverityMajor, offset)
		return nil, errFontFormat(fmt.Sprintf("%s: no metrics", tag))
	}
	t := &MtxTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	var err error
	if t.metrics, err = parseArray(b, 0, numberOfMetrics, 4); err != nil {
		ec.addError(tag, "Metrics", fmt.Sprintf("table too small for %d metrics", numberOfMetrics), SeverityMajor, offset)
		return nil, errFontFormat(fmt.Sprintf("%s table too small", tag))
	}
	t.NumberOfMetrics = numberOfMetrics
	t.numGlyphs = numGlyphs
	if cnt := numGlyphs - numberOfMetrics; cnt > 0 {
		if t.bearings, err = parseArray(b, numberOfMetrics*4, cnt, 2); err != nil {
			// Some fonts omit trailing bearings. Glyphs in the range will
			// still get an advance, but no side bearing.
			ec.addWarning(tag, "trailing side bearings truncated", offset)
			t.bearings = viewArray(b[numberOfMetrics*4:], 2)
		}
	}
	return t, nil
}

// Advance returns the advance width (hmtx) or height (vmtx) of glyph g.
func (t *MtxTable) Advance(g GlyphIndex) (uint16, bool) {
	if t == nil || int(g) >= t.numGlyphs && int(g) >= t.metrics.Len() {
		return 0, false
	}
	if int(g) < t.metrics.Len() {
		return u16(t.metrics.Get(int(g))), true
	}
	return u16(t.metrics.Get(t.metrics.Len() - 1)), true
}

// SideBearing returns the left side bearing (hmtx) or top side bearing (vmtx)
// of glyph g.
func (t *MtxTable) SideBearing(g GlyphIndex) (int16, bool) {
	if t == nil {
		return 0, false
	}
	if int(g) < t.metrics.Len() {
		return int16(u16(t.metrics.Get(int(g))[2:])), true
	}
	i := int(g) - t.metrics.Len()
	if i < t.bearings.Len() {
		return int16(u16(t.bearings.Get(i))), true
	}
	return 0, false
}

// Metrics returns the advance and side bearing for a glyph.
func (t *MtxTable) Metrics(g GlyphIndex) (MetricRecord, bool) {
	a, ok := t.Advance(g)
	if !ok {
		return MetricRecord{}, false
	}
	sb, _ := t.SideBearing(g)
	return MetricRecord{Advance: a, SideBearing: sb}, true
}

// GlyphCount returns the glyph count used when decoding this table.
func (t *MtxTable) GlyphCount() int {
	if t == nil {
		return 0
	}
	return t.numGlyphs
}

// --- Loca table ------------------------------------------------------------

// LocaTable stores the offsets to the locations of the glyphs in the font,
// relative to the beginning of the glyph data table.
// By definition, index zero points to the “missing character”, which is the character
// that appears if a character is not found in the font. The missing character is
// commonly represented by a blank box or a space.
//
// The size of entries in the 'loca' table depends on the value of the
// indexToLocFormat field of the 'head' table. The number of entries is
// the numGlyphs field of the 'maxp' table plus one.
type LocaTable struct {
	tableBase
	inx2loc func(t *LocaTable, i int) uint32 // returns location for entry i
	locCnt  int                              // number of locations
}

func parseLoca(tag Tag, b binarySegm, offset, size uint32, format uint16, numGlyphs int, ec *errorCollector) (Table, error) {
	t := &LocaTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	t.locCnt = numGlyphs + 1
	entrySize := 2
	switch format {
	case 0:
		t.inx2loc = shortLocaVersion
	case 1:
		t.inx2loc = longLocaVersion
		entrySize = 4
	default:
		ec.addError(tag, "Format", fmt.Sprintf("invalid indexToLocFormat %d", format), SeverityMajor, offset)
		return nil, errFontFormat("loca table format")
	}
	if t.locCnt*entrySize > len(b) {
		ec.addError(tag, "Size", fmt.Sprintf("loca table too small for %d glyphs", numGlyphs), SeverityMajor, offset)
		return nil, errFontFormat("loca table size")
	}
	return t, nil
}

func shortLocaVersion(t *LocaTable, i int) uint32 {
	return uint32(u16(t.data[i*2:])) * 2
}

func longLocaVersion(t *LocaTable, i int) uint32 {
	return u32(t.data[i*4:])
}

// IndexToLocation returns the offset of the glyph data block for glyph gid
// within the 'glyf' table. In case of an error 0 is returned.
func (t *LocaTable) IndexToLocation(gid GlyphIndex) uint32 {
	if t == nil || int(gid) >= t.locCnt {
		return 0
	}
	return t.inx2loc(t, int(gid))
}

// GlyphRange returns the byte range [start, end) of glyph gid within the
// 'glyf' table. An empty range denotes a glyph without outline.
func (t *LocaTable) GlyphRange(gid GlyphIndex) (uint32, uint32, bool) {
	if t == nil || int(gid)+1 >= t.locCnt {
		return 0, 0, false
	}
	start, end := t.inx2loc(t, int(gid)), t.inx2loc(t, int(gid)+1)
	if start > end {
		return 0, 0, false
	}
	return start, end, true
}
