package otquery

import (
	"encoding/binary"
	"sort"
	"testing"
	"unicode/utf16"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/ttfparse/ot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/sfnt"
)

// buildFont writes a font with mandatory tables head, hhea and maxp (one
// glyph), plus extra tables.
func buildFont(extra map[string][]byte) []byte {
	head := make([]byte, 54)
	binary.BigEndian.PutUint32(head[0:], 0x00010000)
	binary.BigEndian.PutUint32(head[12:], 0x5F0F3CF5)
	binary.BigEndian.PutUint16(head[18:], 1000)
	hhea := make([]byte, 36)
	binary.BigEndian.PutUint16(hhea[34:], 1)
	maxp := []byte{0, 0, 0x50, 0, 0, 1}
	tables := map[string][]byte{"head": head, "hhea": hhea, "maxp": maxp}
	for tag, data := range extra {
		tables[tag] = data
	}
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	out := make([]byte, 12+16*len(tags))
	binary.BigEndian.PutUint32(out[0:], 0x00010000)
	binary.BigEndian.PutUint16(out[4:], uint16(len(tags)))
	for i, tag := range tags {
		for len(out)%4 != 0 {
			out = append(out, 0)
		}
		rec := out[12+16*i:]
		copy(rec[0:4], tag)
		binary.BigEndian.PutUint32(rec[8:], uint32(len(out)))
		binary.BigEndian.PutUint32(rec[12:], uint32(len(tables[tag])))
		out = append(out, tables[tag]...)
	}
	return out
}

type testName struct {
	platform, encoding, language, nameID uint16
	data                                 []byte
}

func utf16BE(s string) []byte {
	var b []byte
	for _, u := range utf16.Encode([]rune(s)) {
		b = binary.BigEndian.AppendUint16(b, u)
	}
	return b
}

func nameTable(names ...testName) []byte {
	storageOffset := 6 + 12*len(names)
	b := make([]byte, storageOffset)
	binary.BigEndian.PutUint16(b[2:], uint16(len(names)))
	binary.BigEndian.PutUint16(b[4:], uint16(storageOffset))
	var storage []byte
	for i, n := range names {
		rec := b[6+12*i:]
		binary.BigEndian.PutUint16(rec[0:], n.platform)
		binary.BigEndian.PutUint16(rec[2:], n.encoding)
		binary.BigEndian.PutUint16(rec[4:], n.language)
		binary.BigEndian.PutUint16(rec[6:], n.nameID)
		binary.BigEndian.PutUint16(rec[8:], uint16(len(n.data)))
		binary.BigEndian.PutUint16(rec[10:], uint16(len(storage)))
		storage = append(storage, n.data...)
	}
	return append(b, storage...)
}

func parseNameFont(t *testing.T) *ot.Font {
	t.Helper()
	otf, err := ot.Parse(buildFont(map[string][]byte{
		"name": nameTable(
			testName{1, 0, 0, 1, []byte("Mac Family")},
			testName{3, 1, 0x0409, 1, utf16BE("Family")},
			testName{3, 1, 0x0407, 1, utf16BE("Familie")},
			testName{0, 3, 0, 2, utf16BE("Regular")},
			testName{1, 0, 0, 4, []byte("Caf\x8e")}, // Mac Roman e-acute
			testName{2, 0, 0, 5, []byte("ISO platform")},
		),
	}))
	require.NoError(t, err)
	return otf
}

func TestNamePreference(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	otf := parseNameFont(t)
	name, ok := Name(otf, sfnt.NameIDFamily, 0)
	assert.True(t, ok)
	assert.Equal(t, "Family", name)
	name, _ = Name(otf, sfnt.NameIDFamily, 0x0407)
	assert.Equal(t, "Familie", name, "requested language")
	name, _ = Name(otf, sfnt.NameIDSubfamily, 0)
	assert.Equal(t, "Regular", name, "Unicode platform")
	name, _ = Name(otf, sfnt.NameIDFull, 0)
	assert.Equal(t, "Café", name, "Mac Roman")
	_, ok = Name(otf, sfnt.NameIDVersion, 0)
	assert.False(t, ok, "unsupported platform")
}

func TestNameInfo(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	info := NameInfo(parseNameFont(t), 0)
	assert.Equal(t, map[string]string{
		"family":    "Family",
		"subfamily": "Regular",
		"full":      "Café",
	}, info)
}

func TestNamesRange(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	var ids []sfnt.NameID
	for id := range NamesRange(parseNameFont(t)) {
		ids = append(ids, id)
		if len(ids) == 3 {
			break
		}
	}
	assert.Equal(t, []sfnt.NameID{1, 1, 1}, ids)
	count := 0
	for range Names(parseNameFont(t)) {
		count++
	}
	assert.Equal(t, 5, count, "ISO platform is skipped")
}

func TestNamesWithoutNameTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	otf, err := ot.Parse(buildFont(nil))
	require.NoError(t, err)
	assert.Empty(t, NameInfo(otf, 0))
	assert.Empty(t, NameInfo(nil, 0))
	_, ok := Name(otf, sfnt.NameIDFamily, 0)
	assert.False(t, ok)
}

func TestQueriesWithoutOptionalTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	otf, err := ot.Parse(buildFont(nil))
	require.NoError(t, err)
	assert.Equal(t, "Unknown", FontType(otf))
	assert.Empty(t, LayoutTables(otf))
	assert.Equal(t, rune(0), CodePointForGlyph(otf, 0))
	assert.Equal(t, GlyphClasses{}, ClassesForGlyph(otf, 0))
	m := GlyphMetrics(otf, 0)
	assert.Equal(t, GlyphMetricsInfo{}, m)
	fm := FontMetrics(otf)
	assert.Equal(t, sfnt.Units(1000), fm.UnitsPerEm)
	_, ok := Variations(otf)
	assert.False(t, ok)
	_, _, err = GlyphPath(otf, 0)
	assert.Error(t, err)
	h, ok := HeadInfo(otf)
	require.True(t, ok)
	assert.Equal(t, uint16(1000), h.UnitsPerEm)
	assert.Equal(t, 1904, h.Created.Year())
	mp, ok := MaxPInfo(otf)
	require.True(t, ok)
	assert.Equal(t, uint16(1), mp.NumGlyphs)
	assert.Nil(t, mp.Profile, "version 0.5")
}

func TestSVGPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	p := &SVGPath{}
	p.MoveTo(0, 0)
	p.LineTo(10.5, 0)
	p.QuadTo(20, 10, 10, 20)
	p.CurveTo(5, 25, 0, 25, -1, 20)
	p.Close()
	assert.Equal(t, "M 0 0 L 10.5 0 Q 20 10 10 20 C 5 25 0 25 -1 20 Z", p.String())
	p.Reset()
	assert.Equal(t, "", p.String())
}
