package ot

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// CFFTable represents the Compact Font Format data of a font, either in table
// 'CFF ' (version 1) or in table 'CFF2' (version 2). Glyph outlines are stored
// as Type 2 charstring programs, which are interpreted on demand.
type CFFTable struct {
	tableBase
	isCFF2      bool
	isCID       bool
	charStrings cffIndex
	globalSubrs cffIndex
	fonts       []cffPrivate // one entry for name-keyed fonts, FDArray otherwise
	fdSelect    *cffFDSelect // nil if there is only one private DICT
	charset     cffCharset   // name-keyed CFF only, used by seac
	vstore      *itemVariationStore
}

// cffPrivate holds what the charstring interpreter needs from a Private DICT.
type cffPrivate struct {
	subrs   cffIndex
	vsindex int
}

// Top DICT and Private DICT operators. Two-byte operators are 1200+b1.
const (
	cffOpCharset        = 15
	cffOpCharStrings    = 17
	cffOpPrivate        = 18
	cffOpSubrs          = 19
	cffOpVsindex        = 22
	cffOpBlend          = 23
	cffOpVStore         = 24
	cffOpCharstringType = 1206
	cffOpROS            = 1230
	cffOpFDArray        = 1236
	cffOpFDSelect       = 1237
)

func parseCFF(tag Tag, b binarySegm, offset, size uint32, isCFF2 bool, ec *errorCollector) (Table, error) {
	var (
		t   *CFFTable
		err error
	)
	if isCFF2 {
		t, err = parseCFF2Header(tag, b, offset, size, ec)
	} else {
		t, err = parseCFF1Header(tag, b, offset, size, ec)
	}
	if err != nil {
		return nil, err
	}
	tracer().Debugf("%s table: %d charstrings, %d private DICTs, CID-keyed=%v",
		tag, t.charStrings.count, len(t.fonts), t.isCID)
	return t, nil
}

// cffTopDict collects the Top DICT entries used for outline extraction.
type cffTopDict struct {
	charset        int
	charStrings    int
	privateSize    int
	privateOffset  int
	charstringType int
	fdArray        int
	fdSelect       int
	vstore         int
	isCID          bool
}

func parseCFF1Header(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (*CFFTable, error) {
	r := newReader(b)
	major := r.u8()
	r.skip(1) // minor
	hdrSize := int(r.u8())
	if r.err != nil || major != 1 || hdrSize < 4 {
		return nil, errFontFormat("CFF header")
	}
	names, pos, err := parseCFFIndex(b, hdrSize, false)
	if err != nil || names.count == 0 {
		ec.addError(tag, "Name INDEX", "missing or malformed", SeverityMajor, offset+uint32(hdrSize))
		return nil, errFontFormat("CFF Name INDEX")
	}
	if names.count > 1 {
		ec.addWarning(tag, fmt.Sprintf("CFF table contains %d fonts, using the first", names.count), offset)
	}
	topDicts, pos, err := parseCFFIndex(b, pos, false)
	if err != nil || topDicts.count == 0 {
		ec.addError(tag, "Top DICT INDEX", "missing or malformed", SeverityMajor, offset+uint32(pos))
		return nil, errFontFormat("CFF Top DICT INDEX")
	}
	_, pos, err = parseCFFIndex(b, pos, false) // String INDEX
	if err != nil {
		return nil, errFontFormat("CFF String INDEX")
	}
	t := &CFFTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	if t.globalSubrs, _, err = parseCFFIndex(b, pos, false); err != nil {
		ec.addError(tag, "Global Subrs INDEX", err.Error(), SeverityMajor, offset+uint32(pos))
		return nil, errFontFormat("CFF Global Subrs INDEX")
	}
	top := cffTopDict{charstringType: 2}
	topData, _ := topDicts.get(0)
	if err = parseCFFDict(topData, MaxCFFStack, nil, top.collect); err != nil {
		ec.addError(tag, "Top DICT", err.Error(), SeverityMajor, offset)
		return nil, err
	}
	if top.charstringType != 2 {
		return nil, errFontFormat(fmt.Sprintf("CFF charstring type %d", top.charstringType))
	}
	if err = t.readCharStrings(top, ec); err != nil {
		return nil, err
	}
	t.isCID = top.isCID
	if top.isCID {
		if err = t.readFDArray(top, ec); err != nil {
			return nil, err
		}
		return t, nil
	}
	priv, err := t.readPrivate(top.privateOffset, top.privateSize)
	if err != nil {
		ec.addError(tag, "Private DICT", err.Error(), SeverityMajor, offset+uint32(top.privateOffset))
		return nil, err
	}
	t.fonts = []cffPrivate{priv}
	if t.charset, err = parseCFFCharset(b, top.charset, t.charStrings.count); err != nil {
		ec.addWarning(tag, "charset unreadable, accented glyphs will fail", offset+uint32(top.charset))
		t.charset = cffCharset{}
	}
	return t, nil
}

func parseCFF2Header(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (*CFFTable, error) {
	r := newReader(b)
	major := r.u8()
	r.skip(1) // minor
	hdrSize := int(r.u8())
	topSize := int(r.u16())
	if r.err != nil || major != 2 || hdrSize < 5 {
		return nil, errFontFormat("CFF2 header")
	}
	topData, err := b.view(hdrSize, topSize)
	if err != nil {
		return nil, errFontFormat("CFF2 Top DICT exceeds table size")
	}
	t := &CFFTable{tableBase: makeTableBase(tag, b, offset, size), isCFF2: true, isCID: true}
	t.self = t
	if t.globalSubrs, _, err = parseCFFIndex(b, hdrSize+topSize, true); err != nil {
		ec.addError(tag, "Global Subrs INDEX", err.Error(), SeverityMajor, offset+uint32(hdrSize+topSize))
		return nil, errFontFormat("CFF2 Global Subrs INDEX")
	}
	top := cffTopDict{charstringType: 2}
	if err = parseCFFDict(topData, MaxCFF2Stack, nil, top.collect); err != nil {
		ec.addError(tag, "Top DICT", err.Error(), SeverityMajor, offset+uint32(hdrSize))
		return nil, err
	}
	if top.vstore != 0 {
		// The variation store is preceded by its length.
		if t.vstore, err = parseItemVariationStore(b, top.vstore+2); err != nil {
			ec.addError(tag, "VariationStore", err.Error(), SeverityMajor, offset+uint32(top.vstore))
			return nil, err
		}
	}
	if err = t.readCharStrings(top, ec); err != nil {
		return nil, err
	}
	if err = t.readFDArray(top, ec); err != nil {
		return nil, err
	}
	return t, nil
}

// collect is the callback for Top DICT entries.
func (top *cffTopDict) collect(op int, args []float64) error {
	arg := func(i int) int {
		if i < len(args) {
			return int(args[i])
		}
		return 0
	}
	switch op {
	case cffOpCharset:
		top.charset = arg(0)
	case cffOpCharStrings:
		top.charStrings = arg(0)
	case cffOpPrivate:
		top.privateSize, top.privateOffset = arg(0), arg(1)
	case cffOpCharstringType:
		top.charstringType = arg(0)
	case cffOpROS:
		top.isCID = true
	case cffOpFDArray:
		top.fdArray = arg(0)
	case cffOpFDSelect:
		top.fdSelect = arg(0)
	case cffOpVStore:
		top.vstore = arg(0)
	}
	return nil
}

func (t *CFFTable) readCharStrings(top cffTopDict, ec *errorCollector) error {
	if top.charStrings <= 0 {
		ec.addError(t.name, "Top DICT", "no CharStrings offset", SeverityMajor, t.offset)
		return errFontFormat("CFF CharStrings missing")
	}
	var err error
	t.charStrings, _, err = parseCFFIndex(t.data, top.charStrings, t.isCFF2)
	if err != nil || t.charStrings.count == 0 {
		ec.addError(t.name, "CharStrings INDEX", "missing or malformed", SeverityMajor, t.offset+uint32(top.charStrings))
		return errFontFormat("CFF CharStrings INDEX")
	}
	if t.charStrings.count > MaxGlyphCount {
		return errFontFormat(fmt.Sprintf("CFF CharStrings count %d", t.charStrings.count))
	}
	return nil
}

// readFDArray reads the font DICTs of a CID-keyed font (or of a CFF2 table)
// together with their private DICTs, and the FDSelect structure.
func (t *CFFTable) readFDArray(top cffTopDict, ec *errorCollector) error {
	maxStack := MaxCFFStack
	if t.isCFF2 {
		maxStack = MaxCFF2Stack
	}
	if top.fdArray <= 0 {
		ec.addError(t.name, "Top DICT", "no FDArray offset", SeverityMajor, t.offset)
		return errFontFormat("CFF FDArray missing")
	}
	fdArray, _, err := parseCFFIndex(t.data, top.fdArray, t.isCFF2)
	if err != nil || fdArray.count == 0 {
		ec.addError(t.name, "FDArray", "missing or malformed", SeverityMajor, t.offset+uint32(top.fdArray))
		return errFontFormat("CFF FDArray")
	}
	t.fonts = make([]cffPrivate, fdArray.count)
	for i := range t.fonts {
		fd := cffTopDict{}
		data, err := fdArray.get(i)
		if err == nil {
			err = parseCFFDict(data, maxStack, nil, fd.collect)
		}
		if err != nil {
			ec.addError(t.name, "Font DICT", fmt.Sprintf("font DICT %d: %v", i, err), SeverityMajor, t.offset+uint32(top.fdArray))
			return errFontFormat("CFF Font DICT")
		}
		if t.fonts[i], err = t.readPrivate(fd.privateOffset, fd.privateSize); err != nil {
			ec.addError(t.name, "Private DICT", fmt.Sprintf("font DICT %d: %v", i, err), SeverityMajor, t.offset+uint32(fd.privateOffset))
			return err
		}
	}
	if top.fdSelect == 0 {
		if len(t.fonts) > 1 {
			ec.addError(t.name, "Top DICT", "no FDSelect for multiple font DICTs", SeverityMajor, t.offset)
			return errFontFormat("CFF FDSelect missing")
		}
		return nil
	}
	if t.fdSelect, err = parseCFFFDSelect(t.data, top.fdSelect, t.charStrings.count, t.isCFF2); err != nil {
		ec.addError(t.name, "FDSelect", err.Error(), SeverityMajor, t.offset+uint32(top.fdSelect))
		return err
	}
	return nil
}

// readPrivate reads a Private DICT and its local subroutines. A Private DICT
// of size 0 is valid and has no local subroutines.
func (t *CFFTable) readPrivate(off, size int) (cffPrivate, error) {
	priv := cffPrivate{}
	if size == 0 {
		return priv, nil
	}
	data, err := t.data.view(off, size)
	if err != nil {
		return priv, errFontFormat("Private DICT exceeds table size")
	}
	maxStack := MaxCFFStack
	var regions func() int
	if t.isCFF2 {
		maxStack = MaxCFF2Stack
		regions = func() int { return t.vstore.regionCount(priv.vsindex) }
	}
	subrs := 0
	err = parseCFFDict(data, maxStack, regions, func(op int, args []float64) error {
		if len(args) == 0 {
			return nil
		}
		switch op {
		case cffOpSubrs:
			subrs = int(args[0])
		case cffOpVsindex:
			priv.vsindex = int(args[0])
		}
		return nil
	})
	if err != nil {
		return priv, err
	}
	if subrs != 0 {
		// Subrs is relative to the start of the Private DICT.
		if priv.subrs, _, err = parseCFFIndex(t.data, off+subrs, t.isCFF2); err != nil {
			return priv, errFontFormat("local Subrs INDEX")
		}
	}
	return priv, nil
}

// privateFor returns the private DICT used by glyph g.
func (t *CFFTable) privateFor(g GlyphIndex) (*cffPrivate, error) {
	fd := 0
	if t.fdSelect != nil {
		var ok bool
		if fd, ok = t.fdSelect.lookup(int(g)); !ok {
			return nil, fmt.Errorf("%w: glyph %d not covered by FDSelect", ErrCharstring, g)
		}
	}
	if fd >= len(t.fonts) {
		return nil, fmt.Errorf("%w: font DICT %d out of range", ErrCharstring, fd)
	}
	return &t.fonts[fd], nil
}

// GlyphCount returns the number of charstrings.
func (t *CFFTable) GlyphCount() int {
	if t == nil {
		return 0
	}
	return t.charStrings.count
}

// IsCIDKeyed returns true for CID-keyed fonts. CFF2 fonts are always CID-keyed.
func (t *CFFTable) IsCIDKeyed() bool {
	return t != nil && t.isCID
}

// --- INDEX -----------------------------------------------------------------

// cffIndex is an INDEX structure: an array of variable-sized objects.
// Object offsets are read on demand.
type cffIndex struct {
	count   int
	offSize int
	offsets binarySegm // (count+1) offsets of offSize bytes
	data    binarySegm // object data; offset 1 denotes its first byte
}

// parseCFFIndex reads an INDEX at pos. It returns the INDEX and the position
// of the first byte following it. CFF2 uses 32 bit counts.
func parseCFFIndex(b binarySegm, pos int, isCFF2 bool) (cffIndex, int, error) {
	r := readerAt(b, pos)
	var idx cffIndex
	if isCFF2 {
		idx.count = int(r.u32())
	} else {
		idx.count = int(r.u16())
	}
	if r.err != nil {
		return idx, pos, errFontFormat("INDEX header")
	}
	if idx.count == 0 {
		return idx, r.pos, nil
	}
	idx.offSize = int(r.u8())
	if r.err != nil || idx.offSize < 1 || idx.offSize > 4 {
		return idx, pos, errFontFormat(fmt.Sprintf("INDEX offset size %d", idx.offSize))
	}
	n, err := checkedMulInt(idx.count+1, idx.offSize)
	if err != nil {
		return idx, pos, err
	}
	idx.offsets = r.bytes(n)
	if r.err != nil {
		return idx, pos, errFontFormat("INDEX offsets exceed table size")
	}
	first, last := idx.offsetAt(0), idx.offsetAt(idx.count)
	if first != 1 || last < first {
		return idx, pos, errFontFormat("INDEX offsets")
	}
	idx.data = r.bytes(int(last - 1))
	if r.err != nil {
		return idx, pos, errFontFormat("INDEX data exceeds table size")
	}
	return idx, r.pos, nil
}

func (idx cffIndex) offsetAt(i int) uint32 {
	b := idx.offsets[i*idx.offSize : (i+1)*idx.offSize]
	var off uint32
	for _, x := range b {
		off = off<<8 | uint32(x)
	}
	return off
}

// get returns object i.
func (idx cffIndex) get(i int) (binarySegm, error) {
	if i < 0 || i >= idx.count {
		return nil, errBufferBounds
	}
	start, end := idx.offsetAt(i), idx.offsetAt(i+1)
	if start < 1 || start > end || int(end-1) > len(idx.data) {
		return nil, errFontFormat("INDEX object offsets")
	}
	return idx.data[start-1 : end-1], nil
}

// --- DICT ------------------------------------------------------------------

// parseCFFDict interprets DICT data, calling fn for every operator with its
// operands. regions, if not nil, returns the number of variation regions for
// the CFF2 blend operator. Blended values are evaluated at the default
// instance.
func parseCFFDict(b binarySegm, maxStack int, regions func() int, fn func(op int, args []float64) error) error {
	r := newReader(b)
	args := make([]float64, 0, 16)
	for r.remaining() > 0 {
		b0 := r.u8()
		switch {
		case b0 == 12:
			op := 1200 + int(r.u8())
			if r.err != nil {
				return errFontFormat("DICT operator truncated")
			}
			if err := fn(op, args); err != nil {
				return err
			}
			args = args[:0]
		case b0 == cffOpBlend && regions != nil:
			if len(args) == 0 {
				return errFontFormat("DICT blend without operands")
			}
			n := int(args[len(args)-1])
			k := regions()
			m, err := checkedMulInt(n, k+1)
			if err != nil || n < 0 || m+1 > len(args) {
				return errFontFormat("DICT blend operands")
			}
			args = args[:len(args)-1-n*k]
		case b0 < 28:
			if err := fn(int(b0), args); err != nil {
				return err
			}
			args = args[:0]
		default:
			if len(args) >= maxStack {
				return errFontFormat("DICT operand stack overflow")
			}
			v, err := readCFFDictNumber(r, b0)
			if err != nil {
				return err
			}
			args = append(args, v)
		}
	}
	return nil
}

func readCFFDictNumber(r *reader, b0 byte) (float64, error) {
	var v float64
	switch {
	case b0 == 28:
		v = float64(r.i16())
	case b0 == 29:
		v = float64(r.i32())
	case b0 == 30:
		return readCFFReal(r)
	case b0 >= 32 && b0 <= 246:
		v = float64(int(b0) - 139)
	case b0 >= 247 && b0 <= 250:
		v = float64((int(b0)-247)*256 + int(r.u8()) + 108)
	case b0 >= 251 && b0 <= 254:
		v = float64(-(int(b0)-251)*256 - int(r.u8()) - 108)
	default:
		return 0, errFontFormat(fmt.Sprintf("DICT reserved byte %d", b0))
	}
	if r.err != nil {
		return 0, errFontFormat("DICT number truncated")
	}
	return v, nil
}

// readCFFReal reads a real number in nibble encoding.
func readCFFReal(r *reader) (float64, error) {
	const maxRealLength = 64
	buf := make([]byte, 0, 16)
	for len(buf) < maxRealLength {
		b := r.u8()
		if r.err != nil {
			return 0, errFontFormat("DICT real number truncated")
		}
		for _, nib := range [2]byte{b >> 4, b & 0x0f} {
			switch {
			case nib <= 9:
				buf = append(buf, '0'+nib)
			case nib == 0xa:
				buf = append(buf, '.')
			case nib == 0xb:
				buf = append(buf, 'E')
			case nib == 0xc:
				buf = append(buf, 'E', '-')
			case nib == 0xe:
				buf = append(buf, '-')
			case nib == 0xf:
				f, err := strconv.ParseFloat(string(buf), 64)
				if err != nil || math.IsInf(f, 0) {
					return 0, errFontFormat(fmt.Sprintf("DICT real number %q", buf))
				}
				return f, nil
			}
		}
	}
	return 0, errFontFormat("DICT real number too long")
}

// --- FDSelect --------------------------------------------------------------

// cffFDSelect maps glyphs to font DICTs.
type cffFDSelect struct {
	format   uint8
	fds      binarySegm // format 0: one byte per glyph
	ranges   array      // formats 3 and 4
	sentinel int
}

func parseCFFFDSelect(b binarySegm, off int, numGlyphs int, isCFF2 bool) (*cffFDSelect, error) {
	r := readerAt(b, off)
	sel := &cffFDSelect{format: r.u8()}
	var err error
	switch sel.format {
	case 0:
		sel.fds = r.bytes(numGlyphs)
	case 3:
		n := int(r.u16())
		sel.ranges, err = parseArray(b, r.pos, n, 3)
		r.skip(3 * n)
		sel.sentinel = int(r.u16())
	case 4:
		if !isCFF2 {
			return nil, errFontFormat("FDSelect format 4 in CFF table")
		}
		n := int(r.u32())
		sel.ranges, err = parseArray(b, r.pos, n, 6)
		r.skip(6 * n)
		sel.sentinel = int(r.u32())
	default:
		return nil, errFontFormat(fmt.Sprintf("FDSelect format %d", sel.format))
	}
	if err != nil || r.err != nil {
		return nil, errFontFormat("FDSelect exceeds table size")
	}
	return sel, nil
}

// lookup returns the font DICT index of glyph g.
func (sel *cffFDSelect) lookup(g int) (int, bool) {
	if sel.format == 0 {
		if g >= len(sel.fds) {
			return 0, false
		}
		return int(sel.fds[g]), true
	}
	first := func(i int) int {
		if sel.format == 3 {
			return int(u16(sel.ranges.Get(i)))
		}
		return int(u32(sel.ranges.Get(i)))
	}
	n := sel.ranges.Len()
	if n == 0 || g < first(0) || g >= sel.sentinel {
		return 0, false
	}
	// last range with first <= g
	i := sort.Search(n, func(i int) bool { return first(i) > g }) - 1
	rec := sel.ranges.Get(i)
	if sel.format == 3 {
		return int(rec[2]), true
	}
	return int(u16(rec[4:])), true
}

// --- Charset ---------------------------------------------------------------

// cffCharset maps glyphs to string IDs. Only name-keyed fonts need it, to
// resolve the base and accent glyphs of the seac operator.
type cffCharset struct {
	format    int // -1: predefined ISOAdobe charset (identity)
	sids      binarySegm
	ranges    array
	numGlyphs int
}

func parseCFFCharset(b binarySegm, off int, numGlyphs int) (cffCharset, error) {
	cs := cffCharset{numGlyphs: numGlyphs}
	if off <= 2 {
		// Predefined charsets. The Expert charsets cannot hold Standard
		// Encoding glyphs beyond 'space', which share the ISOAdobe SIDs.
		cs.format = -1
		return cs, nil
	}
	r := readerAt(b, off)
	cs.format = int(r.u8())
	if r.err != nil {
		return cs, errFontFormat("charset")
	}
	switch cs.format {
	case 0:
		cs.sids = r.bytes(2 * (numGlyphs - 1))
	case 1, 2:
		recSize := 3
		if cs.format == 2 {
			recSize = 4
		}
		// The number of ranges is implicit: they cover numGlyphs-1 glyphs.
		start := r.pos
		covered := 0
		for covered < numGlyphs-1 && r.err == nil {
			r.skip(2)
			if cs.format == 1 {
				covered += int(r.u8()) + 1
			} else {
				covered += int(r.u16()) + 1
			}
		}
		var err error
		if cs.ranges, err = parseArray(b, start, (r.pos-start)/recSize, recSize); err != nil {
			return cs, errFontFormat("charset ranges")
		}
	default:
		return cs, errFontFormat(fmt.Sprintf("charset format %d", cs.format))
	}
	if r.err != nil {
		return cs, errFontFormat("charset exceeds table size")
	}
	return cs, nil
}

// glyphForSID returns the glyph with string ID sid.
func (cs cffCharset) glyphForSID(sid uint16) (GlyphIndex, bool) {
	if sid == 0 {
		return 0, true
	}
	switch cs.format {
	case -1:
		if int(sid) < cs.numGlyphs {
			return GlyphIndex(sid), true
		}
	case 0:
		for i := 0; i+1 < len(cs.sids); i += 2 {
			if u16(cs.sids[i:]) == sid {
				return GlyphIndex(i/2 + 1), true
			}
		}
	case 1, 2:
		g := 1
		for i := 0; i < cs.ranges.Len(); i++ {
			rec := cs.ranges.Get(i)
			first := u16(rec)
			var nLeft int
			if cs.format == 1 {
				nLeft = int(rec[2])
			} else {
				nLeft = int(u16(rec[2:]))
			}
			if sid >= first && int(sid) <= int(first)+nLeft {
				if gid := g + int(sid-first); gid < cs.numGlyphs {
					return GlyphIndex(gid), true
				}
				return 0, false
			}
			g += nLeft + 1
		}
	}
	return 0, false
}

// cffStandardEncoding maps character codes of the Standard Encoding to string
// IDs, as needed for seac.
var cffStandardEncoding = [256]uint16{
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 0-15
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 16-31
	1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, // 32-47
	17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, // 48-63
	33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47, 48, // 64-79
	49, 50, 51, 52, 53, 54, 55, 56, 57, 58, 59, 60, 61, 62, 63, 64, // 80-95
	65, 66, 67, 68, 69, 70, 71, 72, 73, 74, 75, 76, 77, 78, 79, 80, // 96-111
	81, 82, 83, 84, 85, 86, 87, 88, 89, 90, 91, 92, 93, 94, 95, 0, // 112-127
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 128-143
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 144-159
	0, 96, 97, 98, 99, 100, 101, 102, 103, 104, 105, 106, 107, 108, 109, 110, // 160-175
	0, 111, 112, 113, 114, 0, 115, 116, 117, 118, 119, 120, 121, 122, 0, 123, // 176-191
	0, 124, 125, 126, 127, 128, 129, 130, 131, 0, 132, 133, 0, 134, 135, 136, // 192-207
	137, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // 208-223
	0, 138, 0, 139, 0, 0, 0, 0, 140, 141, 142, 143, 0, 0, 0, 0, // 224-239
	0, 144, 0, 0, 0, 145, 0, 0, 146, 147, 148, 149, 0, 0, 0, 0, // 240-255
}
