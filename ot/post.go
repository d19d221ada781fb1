package ot

import (
	"fmt"
	"unicode/utf8"
)

// PostTable contains additional information needed to use TrueType or OpenType
// fonts on PostScript printers. We use it for underline metrics, the italic
// angle and glyph names.
type PostTable struct {
	tableBase
	Version      uint32
	ItalicAngle  float32
	Underline    LineMetrics
	IsFixedPitch bool
	nameIndex    array    // version 2: glyph name index per glyph
	names        []uint32 // version 2: offsets of Pascal strings
}

const postHeaderSize = 32

func parsePost(tag Tag, b binarySegm, offset, size uint32, numGlyphs int, ec *errorCollector) (Table, error) {
	if size < postHeaderSize {
		ec.addError(tag, "Size", fmt.Sprintf("post table too small: %d bytes", size), SeverityMajor, offset)
		return nil, errFontFormat("size of post table")
	}
	t := &PostTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	r := newReader(b)
	t.Version = r.u32()
	t.ItalicAngle = r.fixed()
	t.Underline.Position = r.i16()
	t.Underline.Thickness = r.i16()
	t.IsFixedPitch = r.u32() != 0
	if t.Version != 0x00020000 {
		return t, r.err
	}
	r.seek(postHeaderSize)
	n := int(r.u16())
	if r.err != nil {
		return nil, r.err
	}
	if n != numGlyphs {
		ec.addWarning(tag, fmt.Sprintf("post table has %d glyph names, font has %d glyphs", n, numGlyphs), offset)
	}
	var err error
	if t.nameIndex, err = parseArray(b, postHeaderSize+2, n, 2); err != nil {
		ec.addError(tag, "GlyphNameIndex", "glyph name index truncated", SeverityMajor, offset)
		return nil, errFontFormat("post table glyph name index")
	}
	// Pascal strings follow the index. Collect the start of each one, as names
	// are referenced by ordinal number.
	pos := postHeaderSize + 2 + 2*n
	for pos < len(b) {
		l := int(b[pos])
		if pos+1+l > len(b) {
			ec.addWarning(tag, "glyph name strings truncated", offset+uint32(pos))
			break
		}
		t.names = append(t.names, uint32(pos))
		pos += 1 + l
	}
	return t, nil
}

// GlyphName returns the PostScript name of glyph g, if present. Format 1 tables
// name the first 258 glyphs after the standard Macintosh character set; format 2
// tables contain explicit names, each at most 255 bytes long.
func (t *PostTable) GlyphName(g GlyphIndex) (string, bool) {
	if t == nil {
		return "", false
	}
	switch t.Version {
	case 0x00010000:
		if int(g) < len(macGlyphNames) {
			return macGlyphNames[g], true
		}
	case 0x00020000:
		if int(g) >= t.nameIndex.Len() {
			return "", false
		}
		inx := int(u16(t.nameIndex.Get(int(g))))
		if inx < len(macGlyphNames) {
			return macGlyphNames[inx], true
		}
		inx -= len(macGlyphNames)
		if inx >= len(t.names) {
			return "", false
		}
		pos := int(t.names[inx])
		name := t.data[pos+1 : pos+1+int(t.data[pos])]
		if len(name) == 0 || !utf8.Valid(name) {
			return "", false
		}
		return string(name), true
	}
	return "", false
}

// glyphCount returns the number of glyphs a name may be looked up for.
func (t *PostTable) glyphCount() int {
	switch t.Version {
	case 0x00010000:
		return len(macGlyphNames)
	case 0x00020000:
		return t.nameIndex.Len()
	}
	return 0
}
