package otquery

import (
	"github.com/npillmayer/ttfparse/ot"
	"golang.org/x/image/font/sfnt"
)

// FontMetricsInfo contains selected metric information for a font.
type FontMetricsInfo struct {
	UnitsPerEm      sfnt.Units // ad-hoc units per em
	Ascent, Descent sfnt.Units // ascender and descender
	LineGap         sfnt.Units // typographic line gap
	MaxAdvance      sfnt.Units // maximum advance width value in 'hmtx' table
	XHeight         sfnt.Units // 0 if unknown
	CapHeight       sfnt.Units // 0 if unknown
	ItalicAngle     float32    // counter-clockwise degrees from the vertical
}

// GlyphMetricsInfo contains all metric information for a glyph.
type GlyphMetricsInfo struct {
	Advance  sfnt.Units  // advance width
	LSB, RSB sfnt.Units  // side bearings
	VAdvance sfnt.Units  // advance height, 0 for fonts without vertical metrics
	TSB      sfnt.Units  // top side bearing, 0 for fonts without vertical metrics
	BBox     BoundingBox // bounding box
}

// BoundingBox describes the bounding box of a glyph.
type BoundingBox struct {
	MinX, MinY sfnt.Units
	MaxX, MaxY sfnt.Units
}

func bboxFrom(b ot.BoundingBox) BoundingBox {
	return BoundingBox{
		MinX: sfnt.Units(b.XMin),
		MinY: sfnt.Units(b.YMin),
		MaxX: sfnt.Units(b.XMax),
		MaxY: sfnt.Units(b.YMax),
	}
}

// IsEmpty reports whether this box has zero area.
func (bbox BoundingBox) IsEmpty() bool {
	return bbox.MaxX-bbox.MinX == 0 || bbox.MaxY-bbox.MinY == 0
}

// Dx returns the horizontal extent of this box.
func (bbox BoundingBox) Dx() sfnt.Units {
	return bbox.MaxX - bbox.MinX
}

// Dy returns the vertical extent of this box.
func (bbox BoundingBox) Dy() sfnt.Units {
	return bbox.MaxY - bbox.MinY
}

// GlyphClasses collects the GDEF classification of a glyph.
type GlyphClasses struct {
	Class           ot.GlyphClass
	MarkAttachClass uint16
	IsMark          bool // member of a mark glyph set
}
