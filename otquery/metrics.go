package otquery

import (
	"github.com/npillmayer/ttfparse/ot"
	"golang.org/x/image/font/sfnt"
)

// --- Font Information -------------------------------------------------

// FontType returns the outline format of a font: "TrueType", "CFF", "CFF2" or,
// if no usable outline table is present, "Unknown".
func FontType(otf *ot.Font) string {
	switch {
	case otf == nil:
		return "Unknown"
	case otf.HasTable(ot.T("CFF2")):
		return "CFF2"
	case otf.HasTable(ot.T("CFF ")):
		return "CFF"
	case otf.HasTable(ot.T("glyf")):
		return "TrueType"
	}
	return "Unknown"
}

var layoutTableTags = []string{"BASE", "GDEF", "GPOS", "GSUB", "JSTF", "MATH"}

// LayoutTables returns the tags of the advanced typographic tables present in a
// font. Package ot does not interpret the lookups of these tables, but clients
// may want to know if a font needs a shaping engine.
func LayoutTables(otf *ot.Font) []string {
	var tags []string
	if otf == nil {
		return tags
	}
	for _, tag := range layoutTableTags {
		if otf.HasTable(ot.T(tag)) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// FontMetrics retrieves selected metrics of a font.
//
// Ascent, descent and line gap are the values a layout engine should use for
// line spacing, i.e. the OS/2 typographic values if the font requests it, and
// the values of table 'hhea' otherwise.
func FontMetrics(otf *ot.Font) FontMetricsInfo {
	metrics := FontMetricsInfo{}
	if otf == nil {
		return metrics
	}
	if upem, ok := otf.UnitsPerEm(); ok {
		metrics.UnitsPerEm = sfnt.Units(upem)
	}
	metrics.Ascent = sfnt.Units(otf.Ascender())
	metrics.Descent = sfnt.Units(otf.Descender())
	metrics.LineGap = sfnt.Units(otf.LineGap())
	if table := otf.Table(ot.T("hhea")); table != nil { // hhea is a required table
		metrics.MaxAdvance = sfnt.Units(table.Self().AsHHea().AdvanceMax)
	}
	if x, ok := otf.XHeight(); ok {
		metrics.XHeight = sfnt.Units(x)
	}
	if c, ok := otf.CapHeight(); ok {
		metrics.CapHeight = sfnt.Units(c)
	}
	if a, ok := otf.ItalicAngle(); ok {
		metrics.ItalicAngle = a
	}
	tracer().Debugf("font metrics = %+v", metrics)
	return metrics
}

// --- Glyph Routines --------------------------------------------------------

// GlyphIndex returns the glyph index for a give code-point.
// If the code-point cannot be found, 0 is returned.
//
// From the OpenType specification: character codes that do not correspond to any glyph in
// the font should be mapped to glyph index 0. The glyph at this location must be a special
// glyph representing a missing character, commonly known as '.notdef'.
func GlyphIndex(otf *ot.Font, codepoint rune) ot.GlyphIndex {
	if otf == nil {
		return 0
	}
	return otf.GlyphIndex(codepoint)
}

// CodePointForGlyph returns the code-point for a given glyph index.
//
// This is an inefficient operation: All code-points contained in the font's CMap
// are checked sequentially if they produce the given glyph. If more than one
// code-point maps to the glyph, the smallest one is returned.
// If the glyph index does not correspond to a code-point, 0 is returned.
func CodePointForGlyph(otf *ot.Font, gid ot.GlyphIndex) rune {
	if otf == nil || gid == 0 {
		return 0
	}
	table := otf.Table(ot.T("cmap"))
	if table == nil {
		return 0
	}
	var found rune = -1
	for r, g := range table.Self().AsCMap().Codepoints() {
		if g == gid && (found < 0 || r < found) {
			found = r
		}
	}
	if found < 0 {
		return 0
	}
	return found
}

// ClassesForGlyph returns the GDEF classification of a glyph. For fonts without
// table GDEF, the zero value is returned.
func ClassesForGlyph(otf *ot.Font, gid ot.GlyphIndex) GlyphClasses {
	if otf == nil {
		return GlyphClasses{}
	}
	return GlyphClasses{
		Class:           otf.GlyphClass(gid),
		MarkAttachClass: otf.GlyphMarkAttachmentClass(gid),
		IsMark:          otf.IsMarkGlyph(gid),
	}
}

// GlyphMetrics retrieves metrics for a given glyph.
func GlyphMetrics(otf *ot.Font, gid ot.GlyphIndex) GlyphMetricsInfo {
	metrics := GlyphMetricsInfo{}
	if otf == nil {
		return metrics
	}
	//
	// tables hmtx and vmtx: advances and side bearings
	if aw, ok := otf.GlyphHorAdvance(gid); ok {
		metrics.Advance = sfnt.Units(aw)
	}
	if lsb, ok := otf.GlyphHorSideBearing(gid); ok {
		metrics.LSB = sfnt.Units(lsb)
	}
	if ah, ok := otf.GlyphVerAdvance(gid); ok {
		metrics.VAdvance = sfnt.Units(ah)
	}
	if tsb, ok := otf.GlyphVerSideBearing(gid); ok {
		metrics.TSB = sfnt.Units(tsb)
	}
	//
	// tables glyf or CFF: bounding box
	if bbox, err := otf.GlyphBoundingBox(gid); err == nil {
		metrics.BBox = bboxFrom(bbox)
	} else {
		tracer().Debugf("no bounding box for glyph %d: %v", gid, err)
	}
	// RSB calculation: rsb = aw - (lsb + xMax - xMin)
	// From the OpenType specification:
	// If a glyph has no contours, xMax/xMin are not defined. The left side bearing indicated
	// in the 'hmtx' table for such glyphs should be zero.
	if !metrics.BBox.IsEmpty() { // leave RSB for empty bboxes
		metrics.RSB = metrics.Advance - (metrics.LSB + metrics.BBox.Dx())
	}
	return metrics
}
