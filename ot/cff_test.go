package ot

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// csOp marks an operator in a charstring written with charstring().
type csOp int

const (
	rmoveto   csOp = csRMoveTo
	rlineto   csOp = csRLineTo
	hlineto   csOp = csHLineTo
	rrcurveto csOp = csRRCurveTo
	callsubr  csOp = csCallSubr
	callgsubr csOp = csCallGSubr
	subrret   csOp = csReturn
	endchar   csOp = csEndChar
	hstemhm   csOp = csHStemHM
	hintmask  csOp = csHintMask
	blend     csOp = csBlend
)

// charstring encodes a Type 2 charstring. Items of type int are operands,
// csOp are operators and []byte is copied verbatim.
func charstring(items ...any) []byte {
	var b []byte
	for _, item := range items {
		switch v := item.(type) {
		case int:
			if v >= -107 && v <= 107 {
				b = append(b, byte(v+139))
			} else {
				b = append(b, csShortInt, byte(v>>8), byte(v))
			}
		case csOp:
			if v >= 1200 {
				b = append(b, csEscape, byte(v-1200))
			} else {
				b = append(b, byte(v))
			}
		case []byte:
			b = append(b, v...)
		}
	}
	return b
}

func cffIndexBytes(items [][]byte, cff2 bool) []byte {
	var b []byte
	if cff2 {
		b = make([]byte, 4)
		putU32(b, 0, uint32(len(items)))
	} else {
		b = make([]byte, 2)
		putU16(b, 0, uint16(len(items)))
	}
	if len(items) == 0 {
		return b
	}
	b = append(b, 2) // offset size
	off := 1
	b = append(b, byte(off>>8), byte(off))
	for _, item := range items {
		off += len(item)
		b = append(b, byte(off>>8), byte(off))
	}
	for _, item := range items {
		b = append(b, item...)
	}
	return b
}

// dictInt encodes a DICT operand in 5 bytes, so DICT sizes do not depend on
// the values of offsets.
func dictInt(v int) []byte {
	return []byte{29, byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func dictOp(b []byte, op int, args ...int) []byte {
	for _, a := range args {
		b = append(b, dictInt(a)...)
	}
	if op >= 1200 {
		return append(b, 12, byte(op-1200))
	}
	return append(b, byte(op))
}

// cffTable writes a name-keyed CFF table. sids is the charset (format 0) for
// glyphs 1…n-1; nil selects the predefined ISOAdobe charset.
func cffTable(charstrings, subrs [][]byte, sids []uint16) []byte {
	const topSize = 3*6 + 5 // CharStrings, Private (two operands), charset
	header := []byte{1, 0, 4, 4}
	names := cffIndexBytes([][]byte{[]byte("Test")}, false)
	strings := cffIndexBytes(nil, false)
	gsubrs := cffIndexBytes(nil, false)
	pos := len(header) + len(names) + (2 + 1 + 4 + topSize) + len(strings) + len(gsubrs)
	csOff := pos
	cs := cffIndexBytes(charstrings, false)
	pos += len(cs)
	privOff := pos
	var priv, local []byte
	if subrs != nil {
		priv = dictOp(nil, cffOpSubrs, 6) // local subrs follow the private DICT
		local = cffIndexBytes(subrs, false)
	}
	pos += len(priv) + len(local)
	charsetOff := 0
	var charset []byte
	if sids != nil {
		charsetOff = pos
		charset = []byte{0}
		for _, sid := range sids {
			charset = append(charset, byte(sid>>8), byte(sid))
		}
	}
	top := dictOp(nil, cffOpCharStrings, csOff)
	top = dictOp(top, cffOpPrivate, len(priv), privOff)
	top = dictOp(top, cffOpCharset, charsetOff)
	var b []byte
	for _, part := range [][]byte{header, names, cffIndexBytes([][]byte{top}, false),
		strings, gsubrs, cs, priv, local, charset} {
		b = append(b, part...)
	}
	return b
}

// itemVarStore writes an item variation store for one axis with one item
// variation data sub-table, referencing all regions. Regions are given as
// (start, peak, end), rows hold one 16 bit delta per region.
func itemVarStore(regions [][3]F2Dot14, rows [][]int16) []byte {
	b := make([]byte, 12)
	putU16(b, 0, 1)
	putU32(b, 2, 12)
	putU16(b, 6, 1)
	b = append(b, 0, 1, byte(len(regions)>>8), byte(len(regions)))
	for _, r := range regions {
		for _, v := range r {
			b = append(b, byte(uint16(v)>>8), byte(v))
		}
	}
	putU32(b, 8, uint32(len(b)))
	n := len(regions)
	b = append(b, byte(len(rows)>>8), byte(len(rows)), byte(n>>8), byte(n), byte(n>>8), byte(n))
	for i := range regions {
		b = append(b, byte(i>>8), byte(i))
	}
	for _, row := range rows {
		for _, d := range row {
			b = append(b, byte(uint16(d)>>8), byte(d))
		}
	}
	return b
}

// cff2Table writes a CFF2 table with one font DICT and an empty private DICT.
func cff2Table(charstrings [][]byte, vstore []byte) []byte {
	const topSize = 6 + 7 + 6 // CharStrings, FDArray, VStore
	header := []byte{2, 0, 5, 0, topSize}
	gsubrs := cffIndexBytes(nil, true)
	pos := len(header) + topSize + len(gsubrs)
	vstoreOff := pos
	vs := append([]byte{byte(len(vstore) >> 8), byte(len(vstore))}, vstore...)
	pos += len(vs)
	csOff := pos
	cs := cffIndexBytes(charstrings, true)
	pos += len(cs)
	fdArrayOff := pos
	fd := dictOp(nil, cffOpPrivate, 0, 0)
	top := dictOp(nil, cffOpCharStrings, csOff)
	top = dictOp(top, cffOpFDArray, fdArrayOff)
	top = dictOp(top, cffOpVStore, vstoreOff)
	var b []byte
	for _, part := range [][]byte{header, top, gsubrs, vs, cs, cffIndexBytes([][]byte{fd}, true)} {
		b = append(b, part...)
	}
	return b
}

func cffFont(cff []byte, numGlyphs int) *sfntBuilder {
	sb := minimalFont(numGlyphs)
	sb.version = 0x4F54544F
	return sb.add("CFF ", cff)
}

var testCharstrings = [][]byte{
	// 0: empty
	charstring(endchar),
	// 1: square
	charstring(100, 100, rmoveto, 200, 0, rlineto, 0, 200, rlineto, -200, 0, rlineto, endchar),
	// 2: curve, with width
	charstring(600, 0, 0, rmoveto, 100, 0, 100, 100, 0, 100, rrcurveto, endchar),
	// 3: local subroutine
	charstring(10, 10, rmoveto, -107, callsubr, endchar),
	// 4: endless recursion
	charstring(0, 0, rmoveto, -106, callsubr, endchar),
	// 5: stack overflow
	charstring(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20,
		21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 36, 37, 38, 39, 40,
		41, 42, 43, 44, 45, 46, 47, 48, 49, rlineto),
	// 6: hints
	charstring(0, 10, 20, 30, hstemhm, hintmask, []byte{0xc0}, 0, 0, rmoveto, 10, hlineto, endchar),
	// 7: seac with 'A' and 'a'
	charstring(50, 200, 65, 97, endchar),
	// 8: global subroutine missing
	charstring(0, callgsubr, endchar),
}

var testSubrs = [][]byte{
	charstring(0, 100, rlineto, subrret),
	charstring(-106, callsubr),
}

func parseTestCFFFont(t *testing.T) *Font {
	t.Helper()
	sids := make([]uint16, len(testCharstrings)-1)
	for i := range sids {
		sids[i] = uint16(200 + i)
	}
	sids[0], sids[1] = 34, 66 // glyph 1 is 'A', glyph 2 is 'a'
	cff := cffTable(testCharstrings, testSubrs, sids)
	otf, err := Parse(cffFont(cff, len(testCharstrings)).build())
	require.NoError(t, err)
	require.True(t, otf.HasTable(T("CFF ")), "CFF table should decode")
	return otf
}

func TestCFFOutlines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestCFFFont(t)
	cff := otf.Table(T("CFF ")).Self().AsCFF()
	assert.Equal(t, len(testCharstrings), cff.GlyphCount())
	assert.False(t, cff.IsCIDKeyed())
	tests := []struct {
		glyph GlyphIndex
		ops   []string
		bbox  BoundingBox
	}{
		{0, nil, BoundingBox{}},
		{1, []string{"M 100 100", "L 300 100", "L 300 300", "L 100 300", "L 100 100", "Z"},
			BoundingBox{100, 100, 300, 300}},
		{2, []string{"M 0 0", "C 100 0 200 100 200 200", "L 0 0", "Z"},
			BoundingBox{0, 0, 200, 200}},
		{3, []string{"M 10 10", "L 10 110", "L 10 10", "Z"},
			BoundingBox{10, 10, 10, 110}},
		{6, []string{"M 0 0", "L 10 0", "L 0 0", "Z"},
			BoundingBox{0, 0, 10, 0}},
		{7, []string{
			"M 100 100", "L 300 100", "L 300 300", "L 100 300", "L 100 100", "Z",
			"M 50 200", "C 150 200 250 300 250 400", "L 50 200", "Z"},
			BoundingBox{50, 100, 300, 400}},
	}
	for _, test := range tests {
		rec := &outlineRecorder{}
		bbox, err := otf.OutlineGlyph(test.glyph, rec)
		require.NoError(t, err, "glyph %d", test.glyph)
		assert.Equal(t, test.ops, rec.ops, "glyph %d", test.glyph)
		assert.Equal(t, test.bbox, bbox, "glyph %d", test.glyph)
	}
}

func TestCFFMalformedCharstrings(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestCFFFont(t)
	_, err := otf.OutlineGlyph(4, &outlineRecorder{})
	assert.True(t, errors.Is(err, ErrOutlineDepth), "recursion should hit depth limit, got %v", err)
	_, err = otf.OutlineGlyph(5, &outlineRecorder{})
	assert.True(t, errors.Is(err, ErrCharstring), "expected stack overflow, got %v", err)
	_, err = otf.OutlineGlyph(8, &outlineRecorder{})
	assert.True(t, errors.Is(err, ErrCharstring), "expected missing subroutine, got %v", err)
	_, err = otf.OutlineGlyph(GlyphIndex(len(testCharstrings)), nil)
	assert.True(t, errors.Is(err, ErrGlyphRange))
}

func TestCFFOutlineIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestCFFFont(t)
	rec1, rec2 := &outlineRecorder{}, &outlineRecorder{}
	bbox1, err1 := otf.OutlineGlyph(7, rec1)
	bbox2, err2 := otf.OutlineGlyph(7, rec2)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, rec1.ops, rec2.ops)
	assert.Equal(t, bbox1, bbox2)
	bbox3, err := otf.GlyphBoundingBox(7)
	require.NoError(t, err)
	assert.Equal(t, bbox1, bbox3)
}

func TestCFFPredefinedCharset(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	// With the ISOAdobe charset, SID 34 ('A') is glyph 34, which does not exist.
	cff := cffTable(testCharstrings, testSubrs, nil)
	otf, err := Parse(cffFont(cff, len(testCharstrings)).build())
	require.NoError(t, err)
	_, err = otf.OutlineGlyph(7, nil)
	assert.True(t, errors.Is(err, ErrCharstring), "got %v", err)
}

func TestCFFIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	b := cffIndexBytes([][]byte{[]byte("ab"), nil, []byte("cde")}, false)
	idx, next, err := parseCFFIndex(b, 0, false)
	require.NoError(t, err)
	assert.Equal(t, len(b), next)
	assert.Equal(t, 3, idx.count)
	for i, want := range []string{"ab", "", "cde"} {
		obj, err := idx.get(i)
		require.NoError(t, err)
		assert.Equal(t, want, string(obj))
	}
	_, err = idx.get(3)
	assert.Error(t, err)
	// truncated data
	_, _, err = parseCFFIndex(b[:len(b)-1], 0, false)
	assert.Error(t, err)
	// first offset must be 1
	bad := append([]byte(nil), b...)
	bad[4] = 2
	_, _, err = parseCFFIndex(bad, 0, false)
	assert.Error(t, err)
	// empty INDEX
	idx, next, err = parseCFFIndex([]byte{0, 0, 0, 0}, 0, true)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.count)
	assert.Equal(t, 4, next)
}

func TestCFFDictNumbers(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	dict := []byte{
		139,                  // 0
		247, 0,               // 108
		251, 0,               // -108
		28, 0x12, 0x34,       // 4660
		29, 0, 1, 0, 0,       // 65536
		30, 0xe2, 0xa2, 0x5f, // -2.25
		cffOpCharStrings,
	}
	var got []float64
	err := parseCFFDict(dict, MaxCFFStack, nil, func(op int, args []float64) error {
		assert.Equal(t, cffOpCharStrings, op)
		got = append(got, args...)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 108, -108, 4660, 65536, -2.25}, got)
	// reserved byte
	err = parseCFFDict([]byte{255, cffOpCharStrings}, MaxCFFStack, nil, func(int, []float64) error { return nil })
	assert.Error(t, err)
}

func TestCFFFDSelect(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	// format 3: glyphs 0-9 use FD 0, 10-19 use FD 1
	b := []byte{3, 0, 2, 0, 0, 0, 0, 10, 1, 0, 20}
	sel, err := parseCFFFDSelect(b, 0, 20, false)
	require.NoError(t, err)
	for g, want := range map[int]int{0: 0, 9: 0, 10: 1, 19: 1} {
		fd, ok := sel.lookup(g)
		assert.True(t, ok)
		assert.Equal(t, want, fd, "glyph %d", g)
	}
	_, ok := sel.lookup(20)
	assert.False(t, ok)
	// format 4 is CFF2 only
	_, err = parseCFFFDSelect([]byte{4, 0, 0, 0, 0, 0, 0, 0, 0}, 0, 1, false)
	assert.Error(t, err)
}

func TestCFF2BlendOutline(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	vstore := itemVarStore([][3]F2Dot14{{0, 0x4000, 0x4000}}, nil)
	charstrings := [][]byte{
		charstring(),
		charstring(100, 100, rmoveto, 200, 50, 1, blend, 0, rlineto),
		charstring(0, 0, rmoveto, endchar),
	}
	sb := minimalFont(len(charstrings)).
		add("CFF2", cff2Table(charstrings, vstore)).
		add("fvar", fvarTable(testAxis{"wght", 100, 400, 900}))
	sb.version = 0x4F54544F
	otf, err := Parse(sb.build())
	require.NoError(t, err)
	require.True(t, otf.IsVariable())
	cff2 := otf.Table(T("CFF2")).Self().AsCFF()
	require.NotNil(t, cff2)
	assert.True(t, cff2.IsCIDKeyed())
	//
	rec := &outlineRecorder{}
	bbox, err := otf.OutlineGlyph(1, rec)
	require.NoError(t, err)
	assert.Equal(t, []string{"M 100 100", "L 300 100", "L 100 100", "Z"}, rec.ops)
	assert.Equal(t, BoundingBox{100, 100, 300, 100}, bbox)
	for coord, x := range map[F2Dot14]string{0x4000: "350", 0x2000: "325", -0x4000: "300"} {
		rec = &outlineRecorder{}
		_, err = otf.OutlineVariableGlyph(1, []F2Dot14{coord}, rec)
		require.NoError(t, err)
		assert.Equal(t, "L "+x+" 100", rec.ops[1], "coordinate %d", coord)
	}
	// endchar is not allowed in CFF2
	_, err = otf.OutlineGlyph(2, nil)
	assert.True(t, errors.Is(err, ErrCharstring))
	// wrong number of coordinates
	_, err = otf.OutlineVariableGlyph(1, []F2Dot14{0, 0}, nil)
	assert.True(t, errors.Is(err, ErrCoordCount))
}

func TestCFFRejectsMalformedTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	cff := cffTable(testCharstrings, testSubrs, nil)
	for _, n := range []int{3, 10, 30, 60} {
		ec := &errorCollector{}
		_, err := parseCFF(T("CFF "), cff[:n], 0, uint32(n), false, ec)
		assert.Error(t, err, "CFF truncated to %d bytes", n)
	}
	otf, err := Parse(cffFont(cff[:40], len(testCharstrings)).build())
	require.NoError(t, err)
	_, err = otf.OutlineGlyph(1, nil)
	assert.True(t, errors.Is(err, ErrTableMissing), "got %v", err)
	assert.NotEmpty(t, otf.Errors())
}
