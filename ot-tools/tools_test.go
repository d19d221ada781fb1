package main

import (
	"io/fs"
	"strings"
	"testing"

	td "github.com/go-text/typesetting-utils/opentype"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/ttfparse/ot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/bidi"
)

func TestParseCodepoints(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	runes, err := parseCodepoints("U+0627, 0x644 41")
	require.NoError(t, err)
	assert.Equal(t, []rune{0x627, 0x644, 'A'}, runes)
	_, err = parseCodepoints("U+110000")
	assert.Error(t, err)
	_, err = parseCodepoints("U+XYZ")
	assert.Error(t, err)
}

func TestDirection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	dir, err := directionFrom("RTL")
	require.NoError(t, err)
	assert.Equal(t, bidi.RightToLeft, dir)
	dir, err = directionFrom("")
	require.NoError(t, err)
	assert.Equal(t, bidi.LeftToRight, dir)
	_, err = directionFrom("ttb")
	assert.Error(t, err)
}

func TestFormatGlyphOutput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	out := formatGlyphOutput([]glyphRecord{
		{GID: 36, Cluster: 0, XAdvance: 1300},
		{GID: 57, Cluster: 1, XAdvance: 1250.5, Kern: -50},
	})
	assert.Equal(t, "[36=0+1300|57=1+1250.5@-50]", out)
}

func TestMapAndRenderGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	otf := findLatinFont(t)
	if otf == nil {
		t.Skip("no font with glyphs for 'A' and 'B' in test corpus")
	}
	glyphs := mapGlyphs(otf, "AB", bidi.LeftToRight, nil, false)
	require.Len(t, glyphs, 2)
	assert.Equal(t, otf.GlyphIndex('A'), glyphs[0].GID)
	assert.Equal(t, 1, glyphs[1].Cluster)
	rtl := mapGlyphs(otf, "AB", bidi.RightToLeft, nil, false)
	assert.Equal(t, glyphs[0], rtl[1], "right-to-left is visual order")
	//
	img, err := renderGlyphRun(otf, glyphs, nil, 200, 100, 48, true)
	require.NoError(t, err)
	inked := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := img.RGBAAt(x, y); c.R < 128 {
				inked++
			}
		}
	}
	assert.Greater(t, inked, 0, "expected glyphs to be rendered")
	_, err = coordsFrom(otf, "-")
	assert.NoError(t, err)
}

func findLatinFont(t *testing.T) *ot.Font {
	var otf *ot.Font
	_ = fs.WalkDir(td.Files, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || otf != nil {
			return err
		}
		if ext := strings.ToLower(p); !strings.HasSuffix(ext, ".ttf") && !strings.HasSuffix(ext, ".otf") {
			return nil
		}
		b, err := td.Files.ReadFile(p)
		if err != nil {
			return nil
		}
		f, err := ot.Parse(b)
		if err != nil || f.GlyphIndex('A') == 0 || f.GlyphIndex('B') == 0 {
			return nil
		}
		if upem, ok := f.UnitsPerEm(); !ok || upem == 0 {
			return nil
		}
		if bbox, err := f.OutlineGlyph(f.GlyphIndex('A'), nil); err != nil || bbox.IsEmpty() {
			return nil
		}
		t.Logf("test font is %s", p)
		otf = f
		return fs.SkipAll
	})
	return otf
}
