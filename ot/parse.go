package ot

import (
	"fmt"
	"math"
)

// Code comment often will cite passage from the
// OpenType specification version 1.9;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// ---------------------------------------------------------------------------

// Maximum reasonable counts and nesting depths for font structures.
// These limits prevent malicious fonts from forcing excessive memory allocation
// or unbounded recursion.
const (
	MaxGlyphCount      = 65536 // Maximum glyph count (uint16 glyph indices)
	MaxComponentDepth  = 32    // Maximum nesting of composite glyphs
	MaxSubroutineDepth = 10    // Maximum nesting of charstring subroutine calls
	MaxCFFStack        = 48    // Type 2 charstring argument stack limit
	MaxCFF2Stack       = 513   // CFF2 charstring argument stack limit
	MaxAxisCount       = 64    // Maximum number of variation axes we accept
)

// ---------------------------------------------------------------------------

// Checked arithmetic operations to prevent integer overflow

// checkedMulInt checks for overflow in multiplication of two integers
func checkedMulInt(a, b int) (int, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > 0 && b > 0 && a > math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if a < 0 && b < 0 && a < math.MaxInt/b {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	if (a < 0 && b > 0 && a < math.MinInt/b) || (a > 0 && b < 0 && b < math.MinInt/a) {
		return 0, fmt.Errorf("integer overflow: %d * %d", a, b)
	}
	return a * b, nil
}

// checkedAddInt checks for overflow in addition of two integers
func checkedAddInt(a, b int) (int, error) {
	if b > 0 && a > math.MaxInt-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	if b < 0 && a < math.MinInt-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// checkedAddUint32 checks for overflow in addition of two uint32 values
func checkedAddUint32(a, b uint32) (uint32, error) {
	if a > math.MaxUint32-b {
		return 0, fmt.Errorf("integer overflow: %d + %d", a, b)
	}
	return a + b, nil
}

// ---------------------------------------------------------------------------

const (
	sfntTrueType   = 0x00010000
	sfntOpenType   = 0x4f54544f // OTTO
	sfntAppleTrue  = 0x74727565 // true
	sfntCollection = 0x74746366 // ttcf
)

// Parse parses an OpenType font from a byte slice. If font is a font
// collection, the first font of the collection is parsed.
//
// An ot.Font needs ongoing access to the font's byte-data after the Parse function returns.
// Its elements are assumed immutable while the ot.Font remains in use.
func Parse(font []byte) (*Font, error) {
	return ParseCollection(font, 0)
}

// ParseCollection parses font number index from a font collection (*.ttc, *.otc).
// For a buffer containing a single font, index is not interpreted.
//
// Table offsets in a collection are relative to the start of the collection,
// therefore the returned font refers to the whole buffer, but only ever reads
// the tables listed in the directory of font number index.
//
// ParseCollection returns an error wrapping ErrNoFont if the buffer does not start
// with a recognized signature, if index is out of range, if the table directory
// is truncated or empty, or if one of the tables 'head', 'hhea' or 'maxp' is
// missing or malformed. All other tables are decoded lazily and never cause
// ParseCollection to fail.
func ParseCollection(font []byte, index int) (*Font, error) {
	src := binarySegm(font)
	magic, err := src.u32(0)
	if err != nil {
		return nil, errNoFont("font header truncated")
	}
	dirOffset := 0
	if magic == sfntCollection {
		n, err := src.u32(8)
		if err != nil {
			return nil, errNoFont("font collection header truncated")
		}
		tracer().Debugf("font collection contains %d fonts", n)
		if index < 0 || uint64(index) >= uint64(n) {
			return nil, errNoFont(fmt.Sprintf("font index %d out of range for collection of %d fonts", index, n))
		}
		off, err := src.u32(12 + 4*index)
		if err != nil {
			return nil, errNoFont("font collection offset table truncated")
		}
		dirOffset = int(off)
	} else if index != 0 {
		tracer().Infof("font is not a collection, ignoring font index %d", index)
		index = 0
	}
	hdr := readerAt(src, dirOffset)
	h := FontHeader{FontType: hdr.u32(), TableCount: hdr.u16()}
	hdr.skip(6) // searchRange, entrySelector, rangeShift
	if hdr.err != nil {
		return nil, errNoFont("font header truncated")
	}
	tracer().Debugf("header = %v, tag = %x|%s", h, h.FontType, Tag(h.FontType).String())
	if !(h.FontType == sfntOpenType || h.FontType == sfntTrueType || h.FontType == sfntAppleTrue) {
		return nil, errNoFont(fmt.Sprintf("font type not supported: %x", h.FontType))
	}
	if h.TableCount == 0 {
		return nil, errNoFont("font has no tables")
	}
	ec := &errorCollector{}
	otf := &Font{
		Header: &h,
		data:   src,
		index:  index,
		tables: make(map[Tag]*tableRecord, h.TableCount),
		ec:     ec,
	}
	// "The Offset Table is followed immediately by the Table Record entries …
	// sorted in ascending order by tag", 16 bytes each.
	recs, err := parseArray(src, dirOffset+12, int(h.TableCount), 16)
	if err != nil {
		return nil, errNoFont("table record entries truncated")
	}
	var prevTag Tag
	for i := 0; i < recs.Len(); i++ {
		b := recs.Get(i)
		tag := MakeTag(b)
		off, size := u32(b[8:12]), u32(b[12:16])
		if tag < prevTag {
			ec.addWarning(tag, "table records not sorted by tag", uint32(dirOffset+12+16*i))
		}
		prevTag = tag
		end, err := checkedAddUint32(off, size)
		if err != nil || end > uint32(len(src)) {
			tracer().Infof("table %s has invalid bounds [%d:+%d], font size %d; dropped", tag, off, size, len(src))
			ec.addError(tag, "Bounds", fmt.Sprintf("bounds [%d:+%d] exceed font size %d", off, size, len(src)), SeverityMajor, off)
			continue
		}
		if _, dup := otf.tables[tag]; dup {
			ec.addWarning(tag, "duplicate table record ignored", off)
			continue
		}
		otf.tables[tag] = &tableRecord{tag: tag, offset: off, length: size}
	}
	if otf.head = otf.tableSelf(T("head")).AsHead(); otf.head == nil {
		return nil, errNoFont("missing or malformed table head")
	}
	if otf.hhea = otf.tableSelf(T("hhea")).AsHHea(); otf.hhea == nil {
		return nil, errNoFont("missing or malformed table hhea")
	}
	if otf.maxp = otf.tableSelf(T("maxp")).AsMaxP(); otf.maxp == nil {
		return nil, errNoFont("missing or malformed table maxp")
	}
	if upem := otf.head.UnitsPerEm; upem >= 16 && upem <= 16384 {
		otf.unitsPerEm = upem
	} else {
		tracer().Infof("font has invalid units per em: %d", upem)
		ec.addWarning(T("head"), fmt.Sprintf("invalid units per em %d", upem), otf.head.offset)
	}
	return otf, nil
}

// FontsInCollection returns the number of fonts in a font collection.
// It returns -1 if font is not a collection or if the number of fonts does not
// fit into a signed 32 bit integer.
func FontsInCollection(font []byte) int32 {
	src := binarySegm(font)
	if magic, err := src.u32(0); err != nil || magic != sfntCollection {
		return -1
	}
	n, err := src.u32(8)
	if err != nil || n > math.MaxInt32 {
		return -1
	}
	return int32(n)
}

// decodeTable decodes a table from its directory record. Errors are recorded
// with the font and make the table absent.
func (otf *Font) decodeTable(rec *tableRecord) Table {
	b := otf.data[rec.offset : rec.offset+rec.length]
	t, err := otf.parseTable(rec.tag, b, rec.offset, rec.length)
	if err != nil {
		tracer().Infof("table %s cannot be decoded: %v", rec.tag, err)
		otf.ec.addError(rec.tag, "Decode", err.Error(), SeverityMajor, rec.offset)
		return nil
	}
	return t
}

func (otf *Font) parseTable(t Tag, b binarySegm, offset, size uint32) (Table, error) {
	ec := otf.ec
	switch t {
	case T("head"):
		return parseHead(t, b, offset, size, ec)
	case T("maxp"):
		return parseMaxP(t, b, offset, size, ec)
	case T("hhea"), T("vhea"):
		return parseHHea(t, b, offset, size, ec)
	case T("hmtx"):
		return parseMtx(t, b, offset, size, otf.NumberOfGlyphs(), otf.hhea.NumberOfMetrics, ec)
	case T("vmtx"):
		vhea := otf.tableSelf(T("vhea")).AsVHea()
		if vhea == nil {
			return nil, errFontFormat("vmtx table requires vhea table")
		}
		return parseMtx(t, b, offset, size, otf.NumberOfGlyphs(), vhea.NumberOfMetrics, ec)
	case T("OS/2"):
		return parseOS2(t, b, offset, size, ec)
	case T("post"):
		return parsePost(t, b, offset, size, otf.NumberOfGlyphs(), ec)
	case T("name"):
		return parseName(t, b, offset, size, ec)
	case T("cmap"):
		return parseCMap(t, b, offset, size, ec)
	case T("kern"):
		return parseKern(t, b, offset, size, ec)
	case T("GDEF"):
		return parseGDef(t, b, offset, size, ec)
	case T("VORG"):
		return parseVOrg(t, b, offset, size, ec)
	case T("loca"):
		return parseLoca(t, b, offset, size, otf.head.IndexToLocFormat, otf.NumberOfGlyphs(), ec)
	case T("glyf"):
		loca := otf.tableSelf(T("loca")).AsLoca()
		if loca == nil {
			return nil, errFontFormat("glyf table requires loca table")
		}
		return parseGlyf(t, b, offset, size, loca, ec)
	case T("CFF "):
		return parseCFF(t, b, offset, size, false, ec)
	case T("CFF2"):
		return parseCFF(t, b, offset, size, true, ec)
	case T("fvar"):
		return parseFVar(t, b, offset, size, ec)
	case T("avar"):
		return parseAVar(t, b, offset, size, ec)
	case T("gvar"):
		return parseGVar(t, b, offset, size, ec)
	case T("HVAR"), T("VVAR"):
		return parseHVar(t, b, offset, size, ec)
	case T("MVAR"):
		return parseMVar(t, b, offset, size, ec)
	case T("GSUB"), T("GPOS"):
		return parseLayoutHeader(t, b, offset, size, ec)
	}
	tracer().Debugf("font contains table (%s), will not be interpreted", t)
	return newTable(t, b, offset, size), nil
}

// parseLayoutHeader checks the header of a GSUB or GPOS table. Lookups are not
// interpreted, as glyph shaping is out of scope for this package.
func parseLayoutHeader(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	major, err := b.u16(0)
	if err != nil || major != 1 {
		return nil, errFontFormat(fmt.Sprintf("%s table header", tag))
	}
	if size < 10 {
		return nil, errFontFormat(fmt.Sprintf("%s table header too small", tag))
	}
	return newTable(tag, b, offset, size), nil
}
