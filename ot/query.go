package ot

// Queries for font-wide properties and per-glyph metrics.
//
// None of these methods return errors. Missing tables or glyphs out of range are
// reported as a false second return value, or as a documented default.

// NumberOfGlyphs returns the number of glyphs in the font, as stated by table
// 'maxp'. It is never 0.
func (otf *Font) NumberOfGlyphs() int {
	if otf == nil || otf.maxp == nil {
		return 0
	}
	return otf.maxp.NumGlyphs
}

// UnitsPerEm returns the number of design units per em. If table 'head'
// states a value outside of [16, 16384], false is returned.
func (otf *Font) UnitsPerEm() (uint16, bool) {
	return otf.unitsPerEm, otf.unitsPerEm != 0
}

// os2 returns table OS/2 or nil.
func (otf *Font) os2() *OS2Table {
	return otf.tableSelf(T("OS/2")).AsOS2()
}

// Ascender returns the typographic ascender of the font. It is taken from table
// OS/2 if the font requests to use typographic metrics, otherwise from 'hhea'.
func (otf *Font) Ascender() int16 {
	if os2 := otf.os2(); os2 != nil && os2.UseTypoMetrics() {
		return os2.TypoAscender
	}
	return otf.hhea.Ascender
}

// Descender returns the typographic descender of the font, usually a negative
// value. See Ascender for the table used.
func (otf *Font) Descender() int16 {
	if os2 := otf.os2(); os2 != nil && os2.UseTypoMetrics() {
		return os2.TypoDescender
	}
	return otf.hhea.Descender
}

// Height returns Ascender - Descender.
func (otf *Font) Height() int16 {
	return otf.Ascender() - otf.Descender()
}

// LineGap returns the typographic line gap. See Ascender for the table used.
func (otf *Font) LineGap() int16 {
	if os2 := otf.os2(); os2 != nil && os2.UseTypoMetrics() {
		return os2.TypoLineGap
	}
	return otf.hhea.LineGap
}

// VerticalAscender returns the vertical ascender from table 'vhea'.
func (otf *Font) VerticalAscender() (int16, bool) {
	if vhea := otf.tableSelf(T("vhea")).AsVHea(); vhea != nil {
		return vhea.Ascender, true
	}
	return 0, false
}

// VerticalDescender returns the vertical descender from table 'vhea'.
func (otf *Font) VerticalDescender() (int16, bool) {
	if vhea := otf.tableSelf(T("vhea")).AsVHea(); vhea != nil {
		return vhea.Descender, true
	}
	return 0, false
}

// VerticalHeight returns VerticalAscender - VerticalDescender.
func (otf *Font) VerticalHeight() (int16, bool) {
	if vhea := otf.tableSelf(T("vhea")).AsVHea(); vhea != nil {
		return vhea.Ascender - vhea.Descender, true
	}
	return 0, false
}

// VerticalLineGap returns the vertical line gap from table 'vhea'.
func (otf *Font) VerticalLineGap() (int16, bool) {
	if vhea := otf.tableSelf(T("vhea")).AsVHea(); vhea != nil {
		return vhea.LineGap, true
	}
	return 0, false
}

// --- Style -----------------------------------------------------------------

// IsRegular returns true if the regular bit of OS/2 fsSelection is set.
func (otf *Font) IsRegular() bool {
	os2 := otf.os2()
	return os2 != nil && os2.FsSelection&fsSelectionRegular != 0
}

// IsItalic returns true if the font is flagged as italic in table OS/2.
func (otf *Font) IsItalic() bool {
	os2 := otf.os2()
	return os2 != nil && os2.Style() == StyleItalic
}

// IsBold returns true if the font is flagged as bold in table OS/2.
func (otf *Font) IsBold() bool {
	os2 := otf.os2()
	return os2 != nil && os2.IsBold()
}

// IsOblique returns true if the font is flagged as oblique in table OS/2
// (version 4 and later).
func (otf *Font) IsOblique() bool {
	os2 := otf.os2()
	return os2 != nil && os2.Style() == StyleOblique
}

// IsMonospaced returns true if table 'post' flags the font as fixed pitch.
func (otf *Font) IsMonospaced() bool {
	post := otf.tableSelf(T("post")).AsPost()
	return post != nil && post.IsFixedPitch
}

// Weight returns the weight class of the font, or 400 (normal) if the font has
// no OS/2 table.
func (otf *Font) Weight() uint16 {
	if os2 := otf.os2(); os2 != nil {
		return os2.WeightClass
	}
	return 400
}

// Width returns the width class of the font in the range 1 (ultra-condensed)
// to 9 (ultra-expanded). Fonts without table OS/2 or with an invalid value
// report 5 (normal).
func (otf *Font) Width() uint16 {
	if os2 := otf.os2(); os2 != nil && os2.WidthClass >= 1 && os2.WidthClass <= 9 {
		return os2.WidthClass
	}
	return 5
}

// XHeight returns the x-height of the font, available in OS/2 version 2 and
// later.
func (otf *Font) XHeight() (int16, bool) {
	if os2 := otf.os2(); os2 != nil && os2.Version >= 2 {
		return os2.XHeight, true
	}
	return 0, false
}

// CapHeight returns the height of capital letters, available in OS/2 version 2
// and later.
func (otf *Font) CapHeight() (int16, bool) {
	if os2 := otf.os2(); os2 != nil && os2.Version >= 2 {
		return os2.CapHeight, true
	}
	return 0, false
}

// ItalicAngle returns the italic angle in degrees counter-clockwise from the
// vertical, as stated by table 'post'.
func (otf *Font) ItalicAngle() (float32, bool) {
	if post := otf.tableSelf(T("post")).AsPost(); post != nil {
		return post.ItalicAngle, true
	}
	return 0, false
}

// UnderlineMetrics returns position and thickness of the underline, from
// table 'post'.
func (otf *Font) UnderlineMetrics() (LineMetrics, bool) {
	if post := otf.tableSelf(T("post")).AsPost(); post != nil {
		return post.Underline, true
	}
	return LineMetrics{}, false
}

// StrikeoutMetrics returns position and thickness of the strikeout line, from
// table OS/2.
func (otf *Font) StrikeoutMetrics() (LineMetrics, bool) {
	if os2 := otf.os2(); os2 != nil {
		return os2.Strikeout, true
	}
	return LineMetrics{}, false
}

// SubscriptMetrics returns the recommended size and offset of subscripts.
func (otf *Font) SubscriptMetrics() (ScriptMetrics, bool) {
	if os2 := otf.os2(); os2 != nil {
		return os2.Subscript, true
	}
	return ScriptMetrics{}, false
}

// SuperscriptMetrics returns the recommended size and offset of superscripts.
func (otf *Font) SuperscriptMetrics() (ScriptMetrics, bool) {
	if os2 := otf.os2(); os2 != nil {
		return os2.Superscript, true
	}
	return ScriptMetrics{}, false
}

// --- Glyph mapping ---------------------------------------------------------

// GlyphIndex returns the glyph for code point r, or 0 if the font does not
// map r.
func (otf *Font) GlyphIndex(r rune) GlyphIndex {
	return otf.tableSelf(T("cmap")).AsCMap().GlyphIndex(r)
}

// GlyphVariationIndex returns the glyph for the Unicode variation sequence of
// code point r and variation selector vs, or 0. Sequences marked as default
// in the font resolve to GlyphIndex(r).
func (otf *Font) GlyphVariationIndex(r, vs rune) GlyphIndex {
	return otf.tableSelf(T("cmap")).AsCMap().GlyphVariationIndex(r, vs)
}

// GlyphName returns the name of glyph g from table 'post'.
func (otf *Font) GlyphName(g GlyphIndex) (string, bool) {
	if int(g) >= otf.NumberOfGlyphs() {
		return "", false
	}
	return otf.tableSelf(T("post")).AsPost().GlyphName(g)
}

// GlyphIndexByName finds the glyph with a given name in table 'post'. This is
// a linear search.
func (otf *Font) GlyphIndexByName(name string) (GlyphIndex, bool) {
	post := otf.tableSelf(T("post")).AsPost()
	if post == nil {
		return 0, false
	}
	n := min(post.glyphCount(), otf.NumberOfGlyphs())
	for g := 0; g < n; g++ {
		if s, ok := post.GlyphName(GlyphIndex(g)); ok && s == name {
			return GlyphIndex(g), true
		}
	}
	return 0, false
}

// --- Glyph metrics ---------------------------------------------------------

// GlyphHorAdvance returns the advance width of glyph g from table 'hmtx'.
func (otf *Font) GlyphHorAdvance(g GlyphIndex) (uint16, bool) {
	if int(g) >= otf.NumberOfGlyphs() {
		return 0, false
	}
	return otf.tableSelf(T("hmtx")).AsHMtx().Advance(g)
}

// GlyphVerAdvance returns the advance height of glyph g from table 'vmtx'.
func (otf *Font) GlyphVerAdvance(g GlyphIndex) (uint16, bool) {
	if int(g) >= otf.NumberOfGlyphs() {
		return 0, false
	}
	return otf.tableSelf(T("vmtx")).AsVMtx().Advance(g)
}

// GlyphHorSideBearing returns the left side bearing of glyph g.
func (otf *Font) GlyphHorSideBearing(g GlyphIndex) (int16, bool) {
	if int(g) >= otf.NumberOfGlyphs() {
		return 0, false
	}
	return otf.tableSelf(T("hmtx")).AsHMtx().SideBearing(g)
}

// GlyphVerSideBearing returns the top side bearing of glyph g.
func (otf *Font) GlyphVerSideBearing(g GlyphIndex) (int16, bool) {
	if int(g) >= otf.NumberOfGlyphs() {
		return 0, false
	}
	return otf.tableSelf(T("vmtx")).AsVMtx().SideBearing(g)
}

// GlyphYOrigin returns the y coordinate of the vertical origin of glyph g, as
// stated by table 'VORG' of CFF fonts.
func (otf *Font) GlyphYOrigin(g GlyphIndex) (int16, bool) {
	vorg := otf.tableSelf(T("VORG")).AsVOrg()
	if vorg == nil || int(g) >= otf.NumberOfGlyphs() {
		return 0, false
	}
	return vorg.VertOriginY(g), true
}

// GlyphsKerning returns the horizontal kerning of a glyph pair from table
// 'kern'. Kerning in table GPOS is not considered.
func (otf *Font) GlyphsKerning(left, right GlyphIndex) (int16, bool) {
	return otf.tableSelf(T("kern")).AsKern().Kerning(left, right)
}

// --- Glyph classes ---------------------------------------------------------

// GlyphClass returns the class of glyph g as defined in table GDEF.
func (otf *Font) GlyphClass(g GlyphIndex) GlyphClass {
	return otf.tableSelf(T("GDEF")).AsGDef().GlyphClass(g)
}

// GlyphMarkAttachmentClass returns the mark attachment class of glyph g, or 0.
func (otf *Font) GlyphMarkAttachmentClass(g GlyphIndex) uint16 {
	return otf.tableSelf(T("GDEF")).AsGDef().MarkAttachmentClass(g)
}

// IsMarkGlyph returns true if glyph g is contained in one of the mark glyph
// sets of table GDEF.
func (otf *Font) IsMarkGlyph(g GlyphIndex) bool {
	return otf.tableSelf(T("GDEF")).AsGDef().IsMarkGlyph(g)
}

// --- Names -----------------------------------------------------------------

// NameRecordCount returns the number of records in table 'name'.
func (otf *Font) NameRecordCount() int {
	return otf.tableSelf(T("name")).AsName().Count()
}

// NameRecord returns name record i.
func (otf *Font) NameRecord(i int) (NameRecord, bool) {
	return otf.tableSelf(T("name")).AsName().Record(i)
}

// NameRecordBytes returns the undecoded string of name record i. The slice
// references the font buffer and must not be modified.
func (otf *Font) NameRecordBytes(i int) ([]byte, bool) {
	return otf.tableSelf(T("name")).AsName().RecordBytes(i)
}
