package ot

import (
	"fmt"
	"math"
)

// OutlineBuilder receives the segments of a glyph outline. Coordinates are in
// font design units, with the y-axis pointing up.
//
// Outlines are decoded while they are replayed to the builder. If decoding a
// glyph fails, some segments may already have been sent to the builder.
// Clients must discard the builder's output whenever an outline operation
// returns an error.
type OutlineBuilder interface {
	MoveTo(x, y float32)                  // start of a contour
	LineTo(x, y float32)                  // straight line
	QuadTo(x1, y1, x, y float32)          // quadratic Bézier curve with control point (x1,y1)
	CurveTo(x1, y1, x2, y2, x, y float32) // cubic Bézier curve
	Close()                               // end of a contour
}

// BoundingBox is a rectangle in font design units.
type BoundingBox struct {
	XMin, YMin, XMax, YMax int16
}

// IsEmpty returns true if b is the zero rectangle.
func (b BoundingBox) IsEmpty() bool {
	return b == BoundingBox{}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("[%d %d %d %d]", b.XMin, b.YMin, b.XMax, b.YMax)
}

// bboxBuilder forwards outline segments to a sink (which may be nil) and
// tracks the extent of all points, including control points.
type bboxBuilder struct {
	sink                   OutlineBuilder
	xmin, ymin, xmax, ymax float32
	touched                bool
}

func newBBoxBuilder(sink OutlineBuilder) *bboxBuilder {
	return &bboxBuilder{
		sink: sink,
		xmin: math.MaxFloat32,
		ymin: math.MaxFloat32,
		xmax: -math.MaxFloat32,
		ymax: -math.MaxFloat32,
	}
}

func (bb *bboxBuilder) extend(x, y float32) {
	bb.touched = true
	bb.xmin = min(bb.xmin, x)
	bb.ymin = min(bb.ymin, y)
	bb.xmax = max(bb.xmax, x)
	bb.ymax = max(bb.ymax, y)
}

func (bb *bboxBuilder) MoveTo(x, y float32) {
	bb.extend(x, y)
	if bb.sink != nil {
		bb.sink.MoveTo(x, y)
	}
}

func (bb *bboxBuilder) LineTo(x, y float32) {
	bb.extend(x, y)
	if bb.sink != nil {
		bb.sink.LineTo(x, y)
	}
}

func (bb *bboxBuilder) QuadTo(x1, y1, x, y float32) {
	bb.extend(x1, y1)
	bb.extend(x, y)
	if bb.sink != nil {
		bb.sink.QuadTo(x1, y1, x, y)
	}
}

func (bb *bboxBuilder) CurveTo(x1, y1, x2, y2, x, y float32) {
	bb.extend(x1, y1)
	bb.extend(x2, y2)
	bb.extend(x, y)
	if bb.sink != nil {
		bb.sink.CurveTo(x1, y1, x2, y2, x, y)
	}
}

func (bb *bboxBuilder) Close() {
	if bb.sink != nil {
		bb.sink.Close()
	}
}

// bbox returns the extent of all points seen, rounded outwards to integer
// coordinates. An outline without any points has the zero bounding box.
func (bb *bboxBuilder) bbox() (BoundingBox, error) {
	if !bb.touched {
		return BoundingBox{}, nil
	}
	xmin, ok1 := floatToInt16(float32(math.Floor(float64(bb.xmin))))
	ymin, ok2 := floatToInt16(float32(math.Floor(float64(bb.ymin))))
	xmax, ok3 := floatToInt16(float32(math.Ceil(float64(bb.xmax))))
	ymax, ok4 := floatToInt16(float32(math.Ceil(float64(bb.ymax))))
	if !(ok1 && ok2 && ok3 && ok4) {
		return BoundingBox{}, ErrBBoxOverflow
	}
	return BoundingBox{XMin: xmin, YMin: ymin, XMax: xmax, YMax: ymax}, nil
}

func floatToInt16(v float32) (int16, bool) {
	if math.IsNaN(float64(v)) || v < math.MinInt16 || v > math.MaxInt16 {
		return 0, false
	}
	return int16(v), true
}

// --- Dispatch --------------------------------------------------------------

// OutlineGlyph replays the outline of glyph g to builder and returns the
// bounding box of the glyph. builder may be nil if only the bounding box is
// of interest.
//
// Outlines are read from table 'glyf', or else from table 'CFF ', or else from
// table 'CFF2' (at the default instance). A glyph without contours, e.g. a
// space glyph, yields no segments and an empty bounding box. For 'glyf'
// outlines the bounding box stored with the glyph is returned, for CFF outlines
// it is computed from the replayed segments.
//
// If an error is returned, builder may already have received segments, which
// must be discarded.
func (otf *Font) OutlineGlyph(g GlyphIndex, builder OutlineBuilder) (BoundingBox, error) {
	if err := otf.checkGlyph(g); err != nil {
		return BoundingBox{}, err
	}
	if glyf := otf.tableSelf(T("glyf")).AsGlyf(); glyf != nil {
		return glyf.outline(g, builder)
	}
	if cff := otf.tableSelf(T("CFF ")).AsCFF(); cff != nil {
		return outlineWithBBox(builder, func(bb *bboxBuilder) error {
			return cff.outline(g, nil, bb)
		})
	}
	if cff2 := otf.tableSelf(T("CFF2")).AsCFF(); cff2 != nil {
		return outlineWithBBox(builder, func(bb *bboxBuilder) error {
			return cff2.outline(g, nil, bb)
		})
	}
	return BoundingBox{}, fmt.Errorf("%w: no outline table (glyf, CFF, CFF2)", ErrTableMissing)
}

// OutlineVariableGlyph replays the outline of glyph g for the variation
// instance given by coords, a list of normalized coordinates, one per axis of
// the font. Deltas from table 'gvar' are applied to 'glyf' outlines, CFF2
// outlines evaluate their blend operators. The bounding box is computed from
// the resulting outline.
//
// If an error is returned, builder may already have received segments, which
// must be discarded.
func (otf *Font) OutlineVariableGlyph(g GlyphIndex, coords []F2Dot14, builder OutlineBuilder) (BoundingBox, error) {
	if err := otf.checkGlyph(g); err != nil {
		return BoundingBox{}, err
	}
	if !otf.IsVariable() {
		return BoundingBox{}, fmt.Errorf("%w: font is not variable", ErrTableMissing)
	}
	if len(coords) != otf.VariationAxisCount() {
		return BoundingBox{}, fmt.Errorf("%w: got %d, font has %d axes", ErrCoordCount, len(coords), otf.VariationAxisCount())
	}
	if glyf := otf.tableSelf(T("glyf")).AsGlyf(); glyf != nil {
		gvar := otf.tableSelf(T("gvar")).AsGVar()
		if gvar == nil {
			return glyf.outline(g, builder)
		}
		return outlineWithBBox(builder, func(bb *bboxBuilder) error {
			return glyf.outlineVariable(g, &glyfVariation{gvar: gvar, coords: coords}, bb)
		})
	}
	if cff2 := otf.tableSelf(T("CFF2")).AsCFF(); cff2 != nil {
		return outlineWithBBox(builder, func(bb *bboxBuilder) error {
			return cff2.outline(g, coords, bb)
		})
	}
	return otf.OutlineGlyph(g, builder)
}

// GlyphBoundingBox returns the bounding box of glyph g. For 'glyf' fonts the
// stored bounding box is returned without decoding the outline.
func (otf *Font) GlyphBoundingBox(g GlyphIndex) (BoundingBox, error) {
	if err := otf.checkGlyph(g); err != nil {
		return BoundingBox{}, err
	}
	if glyf := otf.tableSelf(T("glyf")).AsGlyf(); glyf != nil {
		return glyf.storedBBox(g)
	}
	return otf.OutlineGlyph(g, nil)
}

func outlineWithBBox(sink OutlineBuilder, draw func(*bboxBuilder) error) (BoundingBox, error) {
	bb := newBBoxBuilder(sink)
	if err := draw(bb); err != nil {
		return BoundingBox{}, err
	}
	return bb.bbox()
}

func (otf *Font) checkGlyph(g GlyphIndex) error {
	if int(g) >= otf.NumberOfGlyphs() {
		return fmt.Errorf("%w: %d >= %d", ErrGlyphRange, g, otf.NumberOfGlyphs())
	}
	return nil
}
