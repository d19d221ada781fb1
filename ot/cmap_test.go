package ot

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTestCMap(t *testing.T, subs ...cmapSub) *CMapTable {
	t.Helper()
	b := cmapTable(subs...)
	ec := &errorCollector{}
	table, err := parseCMap(T("cmap"), b, 0, uint32(len(b)), ec)
	require.NoError(t, err)
	cmap := table.Self().AsCMap()
	require.NotNil(t, cmap)
	return cmap
}

func TestCMapFormat4(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	cmap := parseTestCMap(t, cmapSub{3, 1, testCMap4(
		cmap4Segment{start: 'A', end: 'C', delta: deltaTo('A', 1)},
		cmap4Segment{start: 'a', end: 'b', glyphs: []uint16{5, 6}},
		cmap4Segment{start: 'x', end: 'z', glyphs: []uint16{7, 0, 9}},
	)})
	assert.Equal(t, GlyphIndex(1), cmap.GlyphIndex('A'))
	assert.Equal(t, GlyphIndex(3), cmap.GlyphIndex('C'))
	assert.Equal(t, GlyphIndex(0), cmap.GlyphIndex('D'))
	assert.Equal(t, GlyphIndex(5), cmap.GlyphIndex('a'))
	assert.Equal(t, GlyphIndex(6), cmap.GlyphIndex('b'))
	assert.Equal(t, GlyphIndex(0), cmap.GlyphIndex('y'), "glyph id 0 in glyph array maps to .notdef")
	assert.Equal(t, GlyphIndex(9), cmap.GlyphIndex('z'))
	assert.Equal(t, GlyphIndex(0), cmap.GlyphIndex(0xffff))
	assert.Equal(t, GlyphIndex(0), cmap.GlyphIndex(0x1F600), "format 4 covers the BMP only")
	assert.Equal(t, GlyphIndex(0), cmap.GlyphIndex(-1))
	//
	mapped := map[rune]GlyphIndex{}
	for r, g := range cmap.Codepoints() {
		mapped[r] = g
	}
	assert.Equal(t, map[rune]GlyphIndex{
		'A': 1, 'B': 2, 'C': 3, 'a': 5, 'b': 6, 'x': 7, 'z': 9,
	}, mapped)
}

func TestCMapFormat12Preferred(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	cmap := parseTestCMap(t,
		cmapSub{3, 1, testCMap4(cmap4Segment{start: 'A', end: 'A', delta: deltaTo('A', 2)})},
		cmapSub{3, 10, testCMap12([3]uint32{'A', 'A', 4}, [3]uint32{0x1F600, 0x1F602, 10})},
	)
	assert.Equal(t, 2, cmap.SubTableCount())
	assert.Equal(t, GlyphIndex(4), cmap.GlyphIndex('A'), "full repertoire sub-table wins")
	assert.Equal(t, GlyphIndex(10), cmap.GlyphIndex(0x1F600))
	assert.Equal(t, GlyphIndex(12), cmap.GlyphIndex(0x1F602))
	assert.Equal(t, GlyphIndex(0), cmap.GlyphIndex(0x1F603))
}

func TestCMapFallbackToOtherSubtables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	cmap := parseTestCMap(t,
		cmapSub{3, 10, testCMap12([3]uint32{0x1F600, 0x1F600, 10})},
		cmapSub{0, 3, testCMap4(cmap4Segment{start: 'A', end: 'A', delta: deltaTo('A', 2)})},
	)
	assert.Equal(t, GlyphIndex(10), cmap.GlyphIndex(0x1F600))
	assert.Equal(t, GlyphIndex(2), cmap.GlyphIndex('A'))
}

func TestCMapFormat0(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	sub := make([]byte, 6+256)
	putU16(sub, 2, uint16(len(sub)))
	sub[6+'A'] = 17
	cmap := parseTestCMap(t, cmapSub{1, 0, sub})
	assert.Equal(t, GlyphIndex(17), cmap.GlyphIndex('A'))
	assert.Equal(t, GlyphIndex(0), cmap.GlyphIndex('B'))
	assert.Equal(t, GlyphIndex(0), cmap.GlyphIndex(0x100))
}

func TestCMapUnsupportedFormat(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	sub := make([]byte, 8)
	putU16(sub, 0, 8) // mixed 16/32 bit coverage is not supported
	cmap := parseTestCMap(t, cmapSub{3, 1, sub})
	assert.Equal(t, 0, cmap.SubTableCount())
	assert.Equal(t, GlyphIndex(0), cmap.GlyphIndex('A'))
}

func TestCMapVariationSequences(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	const vs16 = 0xFE0F
	cmap := parseTestCMap(t,
		cmapSub{3, 1, testCMap4(cmap4Segment{start: 0x2600, end: 0x2603, delta: deltaTo(0x2600, 1)})},
		cmapSub{0, 5, testCMap14(uvsRecord{
			selector:   vs16,
			defaults:   [][2]uint32{{0x2600, 1}}, // 0x2600 and 0x2601
			nonDefault: [][2]uint32{{0x2600, 30}, {0x2602, 31}},
		})},
	)
	require.True(t, cmap.HasVariationSequences())
	assert.Equal(t, GlyphIndex(30), cmap.GlyphVariationIndex(0x2600, vs16), "non-default mapping is looked up first")
	assert.Equal(t, GlyphIndex(2), cmap.GlyphVariationIndex(0x2601, vs16), "default mapping resolves to cmap glyph")
	assert.Equal(t, GlyphIndex(31), cmap.GlyphVariationIndex(0x2602, vs16))
	assert.Equal(t, GlyphIndex(0), cmap.GlyphVariationIndex(0x2603, vs16))
	assert.Equal(t, GlyphIndex(0), cmap.GlyphVariationIndex(0x2600, 0xFE0E))
}

func TestCMapMalformed(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	ec := &errorCollector{}
	_, err := parseCMap(T("cmap"), []byte{0, 0}, 0, 2, ec)
	assert.Error(t, err)
	b := cmapTable(cmapSub{3, 1, testCMap4()})
	putU16(b, 2, 100) // number of encoding records
	_, err = parseCMap(T("cmap"), b, 0, uint32(len(b)), ec)
	assert.Error(t, err)
	// sub-table offset beyond the table is skipped
	b = cmapTable(cmapSub{3, 1, testCMap4()})
	putU32(b, 8, 5000)
	table, err := parseCMap(T("cmap"), b, 0, uint32(len(b)), ec)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Self().AsCMap().SubTableCount())
	assert.NotEmpty(t, ec.errors)
}

func TestCMapNilTable(t *testing.T) {
	var cmap *CMapTable
	assert.Equal(t, GlyphIndex(0), cmap.GlyphIndex('A'))
	assert.Equal(t, GlyphIndex(0), cmap.GlyphVariationIndex('A', 0xFE0F))
	assert.False(t, cmap.HasVariationSequences())
	for range cmap.Codepoints() {
		t.Fatal("expected no code-points")
	}
}

func TestCMapIterationIsBounded(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	groups := make([][3]uint32, 200)
	for i := range groups {
		groups[i] = [3]uint32{0, 0x10FFFF, 1}
	}
	for _, format := range []uint16{12, 13} {
		sub := testCMap12(groups...)
		putU16(sub, 0, format)
		cmap := parseTestCMap(t, cmapSub{3, 10, sub})
		n := 0
		for range cmap.Codepoints() {
			n++
		}
		assert.LessOrEqual(t, n, maxCMapSteps, "format %d", format)
		assert.Greater(t, n, 0, "format %d", format)
	}
	// a well-formed group is walked completely
	cmap := parseTestCMap(t, cmapSub{3, 10, testCMap12([3]uint32{0x1F600, 0x1F602, 10})})
	var got []rune
	for r, g := range cmap.Codepoints() {
		got = append(got, r)
		assert.Equal(t, GlyphIndex(10+r-0x1F600), g)
	}
	assert.Equal(t, []rune{0x1F600, 0x1F601, 0x1F602}, got)
}
