package fontload

import (
	"bytes"
	"fmt"

	gotext "github.com/go-text/typesetting/font"
	gotextot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/font/opentype/tables"
	"github.com/npillmayer/ttfparse/ot"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ReferenceSFNT parses a font with golang.org/x/image/font/sfnt. Single fonts
// are treated as collections of size 1.
func ReferenceSFNT(bytez []byte, index int) (*sfnt.Font, error) {
	c, err := sfnt.ParseCollection(bytez)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= c.NumFonts() {
		return nil, fmt.Errorf("font index %d out of range", index)
	}
	return c.Font(index)
}

// ReferenceFace parses a font with github.com/go-text/typesetting.
func ReferenceFace(bytez []byte, index int) (*gotext.Face, error) {
	faces, err := gotext.ParseTTC(bytes.NewReader(bytez))
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(faces) {
		return nil, fmt.Errorf("font index %d out of range", index)
	}
	return faces[index], nil
}

// referenceNumGlyphs reads table maxp with go-text's table loader. This works
// for fonts which go-text would reject as a whole, e.g. because 'cmap' is missing.
func referenceNumGlyphs(bytez []byte, index int) (int, error) {
	lds, err := gotextot.NewLoaders(bytes.NewReader(bytez))
	if err != nil {
		return 0, err
	}
	if index < 0 || index >= len(lds) {
		return 0, fmt.Errorf("font index %d out of range", index)
	}
	raw, err := lds[index].RawTable(gotextot.MustNewTag("maxp"))
	if err != nil {
		return 0, err
	}
	maxp, _, err := tables.ParseMaxp(raw)
	if err != nil {
		return 0, err
	}
	return int(maxp.NumGlyphs), nil
}

// Mismatch is a difference between a font as parsed by package ot and as
// parsed by a reference reader.
type Mismatch struct {
	Reader   string // "x/image" or "go-text"
	Property string // "numGlyphs", "unitsPerEm", "advance" or "cmap"
	Key      int    // glyph index or code-point, if applicable
	Want     int    // value reported by the reference reader
	Got      int    // value reported by package ot
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %s[%d]: reference has %d, ot has %d", m.Reader, m.Property, m.Key, m.Want, m.Got)
}

// CrossCheck compares otf with the reference readers. bytez and index must be
// the font data and collection index otf has been parsed from. Properties a
// reference reader cannot read are skipped silently. maxGlyphs limits the number
// of glyphs for which advances are compared.
func CrossCheck(otf *ot.Font, bytez []byte, index int, maxGlyphs int) []Mismatch {
	var mm []Mismatch
	if n, err := referenceNumGlyphs(bytez, index); err == nil && n != otf.NumberOfGlyphs() {
		mm = append(mm, Mismatch{"go-text", "numGlyphs", 0, n, otf.NumberOfGlyphs()})
	}
	upem, upemOk := otf.UnitsPerEm()
	if sf, err := ReferenceSFNT(bytez, index); err == nil {
		mm = append(mm, crossCheckSFNT(otf, sf, upem, upemOk, maxGlyphs)...)
	} else {
		tracer().Debugf("x/image cannot read font: %v", err)
	}
	if face, err := ReferenceFace(bytez, index); err == nil {
		if upemOk && face.Upem() != upem {
			mm = append(mm, Mismatch{"go-text", "unitsPerEm", 0, int(face.Upem()), int(upem)})
		}
		for r := 'A'; r <= 'z'; r++ {
			gid, ok := face.NominalGlyph(r)
			if ok && ot.GlyphIndex(gid) != otf.GlyphIndex(r) {
				mm = append(mm, Mismatch{"go-text", "cmap", int(r), int(gid), int(otf.GlyphIndex(r))})
			}
		}
	} else {
		tracer().Debugf("go-text cannot read font: %v", err)
	}
	return mm
}

func crossCheckSFNT(otf *ot.Font, sf *sfnt.Font, upem uint16, upemOk bool, maxGlyphs int) []Mismatch {
	var mm []Mismatch
	if sf.NumGlyphs() != otf.NumberOfGlyphs() {
		mm = append(mm, Mismatch{"x/image", "numGlyphs", 0, sf.NumGlyphs(), otf.NumberOfGlyphs()})
	}
	if !upemOk {
		return mm
	}
	if int(sf.UnitsPerEm()) != int(upem) {
		mm = append(mm, Mismatch{"x/image", "unitsPerEm", 0, int(sf.UnitsPerEm()), int(upem)})
		return mm
	}
	// with ppem = upem, advances are reported in font units, as 26.6 values
	ppem := fixed.Int26_6(int(upem) << 6)
	var buf sfnt.Buffer
	for g := 0; g < min(otf.NumberOfGlyphs(), maxGlyphs); g++ {
		adv, err := sf.GlyphAdvance(&buf, sfnt.GlyphIndex(g), ppem, font.HintingNone)
		if err != nil {
			continue
		}
		got, ok := otf.GlyphHorAdvance(ot.GlyphIndex(g))
		if ok && int(adv>>6) != int(got) {
			mm = append(mm, Mismatch{"x/image", "advance", g, int(adv >> 6), int(got)})
		}
	}
	return mm
}
