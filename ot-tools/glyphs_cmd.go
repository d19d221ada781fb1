package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/ttfparse/ot"
	"github.com/thatisuday/commando"
	"golang.org/x/text/unicode/bidi"
)

func runGlyphsCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontName := strings.TrimSpace(args["font"].Value)
	if fontName == "" {
		fatalf("font path is required")
	}
	otf, _, _ := mustLoadFont(fontName, flags)
	dir, err := parseDirection(flags["direction"])
	if err != nil {
		fatalf("%v", err)
	}
	coords, err := parseCoords(otf, flags["coords"])
	if err != nil {
		fatalf("%v", err)
	}
	input, err := parseTextInput(args["text"], flags["codepoints"])
	if err != nil {
		fatalf("%v", err)
	}
	if input == "" {
		fatalf("input text is empty")
	}
	glyphs := mapGlyphs(otf, input, dir, coords, mustFlagBool(flags["kern"], "kern"))
	fmt.Println(formatGlyphOutput(glyphs))
	if mustFlagBool(flags["summary"], "summary") {
		var total float32
		for _, g := range glyphs {
			total += g.XAdvance
		}
		upem, _ := otf.UnitsPerEm()
		fmt.Printf("glyphs=%d advance=%.1f units (%.3f em)\n", len(glyphs), total, total/float32(max(upem, 1)))
	}
}

// glyphRecord is a glyph of a mapped run of text. Advances are in font units.
type glyphRecord struct {
	GID      ot.GlyphIndex
	Cluster  int     // byte offset of the originating character
	XAdvance float32 // advance width, kerning included
	Kern     int16   // kerning applied between this glyph and the next one
}

func isVariationSelector(r rune) bool {
	return (r >= 0xFE00 && r <= 0xFE0F) || (r >= 0xE0100 && r <= 0xE01EF)
}

// mapGlyphs maps text to glyphs one character at a time. Variation selectors
// following a character select a glyph variant if the font has one. Runs
// with direction right-to-left are reversed into visual order before
// kerning is applied.
func mapGlyphs(otf *ot.Font, text string, dir bidi.Direction, coords []ot.F2Dot14, kern bool) []glyphRecord {
	glyphs := make([]glyphRecord, 0, utf8.RuneCountInString(text))
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		cluster := i
		i += size
		gid := otf.GlyphIndex(r)
		if i < len(text) {
			if vs, vsize := utf8.DecodeRuneInString(text[i:]); isVariationSelector(vs) {
				if g := otf.GlyphVariationIndex(r, vs); g != 0 {
					gid = g
				}
				i += vsize
			}
		}
		glyphs = append(glyphs, glyphRecord{
			GID:      gid,
			Cluster:  cluster,
			XAdvance: glyphAdvance(otf, gid, coords),
		})
	}
	if dir == bidi.RightToLeft {
		for l, r := 0, len(glyphs)-1; l < r; l, r = l+1, r-1 {
			glyphs[l], glyphs[r] = glyphs[r], glyphs[l]
		}
	}
	if kern && otf.HasTable(ot.T("kern")) {
		for i := 0; i+1 < len(glyphs); i++ {
			if k, ok := otf.GlyphsKerning(glyphs[i].GID, glyphs[i+1].GID); ok {
				glyphs[i].Kern = k
				glyphs[i].XAdvance += float32(k)
			}
		}
	}
	return glyphs
}

func glyphAdvance(otf *ot.Font, gid ot.GlyphIndex, coords []ot.F2Dot14) float32 {
	if len(coords) > 0 {
		if adv, ok := otf.GlyphHorAdvanceVariable(gid, coords); ok {
			return adv
		}
	}
	adv, _ := otf.GlyphHorAdvance(gid)
	return float32(adv)
}

func formatGlyphOutput(glyphs []glyphRecord) string {
	var b strings.Builder
	for _, g := range glyphs {
		if b.Len() > 0 {
			b.WriteString("|")
		}
		b.WriteString(fmt.Sprintf("%d=%d+%s", g.GID, g.Cluster, strconv.FormatFloat(float64(g.XAdvance), 'f', -1, 32)))
		if g.Kern != 0 {
			b.WriteString(fmt.Sprintf("@%d", g.Kern))
		}
	}
	return "[" + b.String() + "]"
}
