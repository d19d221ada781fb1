package ot

import (
	"fmt"
)

// GlyfTable is the glyph data table of fonts with TrueType outlines. It is
// addressed by the offsets of table 'loca'.
type GlyfTable struct {
	tableBase
	loca *LocaTable
}

func parseGlyf(tag Tag, b binarySegm, offset, size uint32, loca *LocaTable, ec *errorCollector) (Table, error) {
	if loca == nil {
		return nil, errFontFormat("glyf table requires loca table")
	}
	t := &GlyfTable{tableBase: makeTableBase(tag, b, offset, size), loca: loca}
	t.self = t
	return t, nil
}

// glyphData returns the bytes of glyph g. Glyphs without outline have an
// empty data segment.
func (t *GlyfTable) glyphData(g GlyphIndex) (binarySegm, error) {
	start, end, ok := t.loca.GlyphRange(g)
	if !ok {
		return nil, fmt.Errorf("%w: no location for glyph %d", ErrGlyphRange, g)
	}
	data, err := t.data.view(int(start), int(end-start))
	if err != nil {
		return nil, errFontFormat(fmt.Sprintf("glyph %d exceeds glyf table", g))
	}
	if len(data) > 0 && len(data) < 10 {
		return nil, errFontFormat(fmt.Sprintf("glyph %d header truncated", g))
	}
	return data, nil
}

// storedBBox returns the bounding box from the header of glyph g.
func (t *GlyfTable) storedBBox(g GlyphIndex) (BoundingBox, error) {
	data, err := t.glyphData(g)
	if err != nil || len(data) == 0 {
		return BoundingBox{}, err
	}
	r := readerAt(data, 2)
	return BoundingBox{
		XMin: r.i16(),
		YMin: r.i16(),
		XMax: r.i16(),
		YMax: r.i16(),
	}, r.err
}

// Bits of the flags of simple glyphs.
const (
	glyfOnCurve     = 0x01
	glyfXShort      = 0x02
	glyfYShort      = 0x04
	glyfRepeat      = 0x08
	glyfXSameOrPos  = 0x10
	glyfYSameOrPos  = 0x20
	glyfOverlapping = 0x40
)

// Bits of the flags of composite glyph components.
const (
	compArgsAreWords    = 0x0001
	compArgsAreXY       = 0x0002
	compRoundXYToGrid   = 0x0004
	compHaveScale       = 0x0008
	compMoreComponents  = 0x0020
	compHaveXYScale     = 0x0040
	compHaveTwoByTwo    = 0x0080
	compHaveInstr       = 0x0100
	compUseMyMetrics    = 0x0200
	compOverlapCompound = 0x0400
)

// glyfPoint is a point of a TrueType outline.
type glyfPoint struct {
	x, y    float32
	onCurve bool
}

// glyfOutline is a flattened outline: all points of all contours, and the
// index of the last point of each contour.
type glyfOutline struct {
	points []glyfPoint
	ends   []int
}

// appendContours appends the contours of o to out, transforming each point by m.
func (out *glyfOutline) appendContours(o *glyfOutline, m affine) {
	base := len(out.points)
	for _, p := range o.points {
		x, y := m.apply(p.x, p.y)
		out.points = append(out.points, glyfPoint{x: x, y: y, onCurve: p.onCurve})
	}
	for _, e := range o.ends {
		out.ends = append(out.ends, base+e)
	}
}

// affine is a 2x2 transformation plus translation, as used by glyph components:
//
//	x' = xx*x + yx*y + dx
//	y' = xy*x + yy*y + dy
type affine struct {
	xx, xy, yx, yy float32
	dx, dy         float32
}

func (m affine) apply(x, y float32) (float32, float32) {
	return m.xx*x + m.yx*y + m.dx, m.xy*x + m.yy*y + m.dy
}

// glyfComponent is a component record of a composite glyph.
type glyfComponent struct {
	flags uint16
	glyph GlyphIndex
	m     affine
}

// Composite glyphs may reference each other to any depth, and a malicious
// font may reference the same glyph many times on every level. We bound the
// total work per outline.
const (
	maxGlyfComponents = 4096
	maxGlyfPoints     = 1 << 18
)

// glyfCollector expands a glyph, including all its components, to a flat
// outline. If v is set, variation deltas are applied on every level.
type glyfCollector struct {
	t          *GlyfTable
	v          *glyfVariation
	components int
}

func (c *glyfCollector) collect(g GlyphIndex, depth int, out *glyfOutline) error {
	if depth > MaxComponentDepth {
		return fmt.Errorf("%w: composite glyph %d nested more than %d levels", ErrOutlineDepth, g, MaxComponentDepth)
	}
	data, err := c.t.glyphData(g)
	if err != nil || len(data) == 0 {
		return err
	}
	numContours := int16(u16(data))
	if numContours >= 0 {
		pts, ends, err := decodeSimpleGlyph(data, int(numContours))
		if err != nil {
			return fmt.Errorf("glyph %d: %w", g, err)
		}
		if c.v != nil {
			if pts, err = c.v.varySimple(g, pts, ends); err != nil {
				return fmt.Errorf("glyph %d: %w", g, err)
			}
		}
		if len(out.points)+len(pts) > maxGlyfPoints {
			return errFontFormat(fmt.Sprintf("glyph %d has too many points", g))
		}
		out.appendContours(&glyfOutline{points: pts, ends: ends}, affine{xx: 1, yy: 1})
		return nil
	}
	comps, err := decodeComponents(data)
	if err != nil {
		return fmt.Errorf("glyph %d: %w", g, err)
	}
	if c.components += len(comps); c.components > maxGlyfComponents {
		return fmt.Errorf("%w: glyph %d references too many components", ErrOutlineDepth, g)
	}
	if c.v != nil {
		if err = c.v.varyComponents(g, comps); err != nil {
			return fmt.Errorf("glyph %d: %w", g, err)
		}
	}
	for _, comp := range comps {
		var sub glyfOutline
		if err := c.collect(comp.glyph, depth+1, &sub); err != nil {
			return err
		}
		if len(out.points)+len(sub.points) > maxGlyfPoints {
			return errFontFormat(fmt.Sprintf("glyph %d has too many points", g))
		}
		out.appendContours(&sub, comp.m)
	}
	return nil
}

// decodeSimpleGlyph reads the points of a glyph with numContours >= 0 contours.
func decodeSimpleGlyph(data binarySegm, numContours int) ([]glyfPoint, []int, error) {
	if numContours == 0 {
		return nil, nil, nil
	}
	r := readerAt(data, 10)
	ends := make([]int, numContours)
	prev := -1
	for i := range ends {
		ends[i] = int(r.u16())
		if ends[i] < prev {
			return nil, nil, errFontFormat("contour end points not increasing")
		}
		prev = ends[i]
	}
	instrLen := int(r.u16())
	r.skip(instrLen)
	if r.err != nil {
		return nil, nil, errFontFormat("simple glyph header truncated")
	}
	numPoints := ends[numContours-1] + 1
	// Flags are run-length encoded. Each point needs at least one byte of
	// flags, which bounds the number of points by the size of the glyph data.
	if numPoints > r.remaining() {
		return nil, nil, errFontFormat("simple glyph flags truncated")
	}
	flags := make([]uint8, 0, numPoints)
	for len(flags) < numPoints {
		f := r.u8()
		flags = append(flags, f)
		if f&glyfRepeat != 0 {
			n := int(r.u8())
			for ; n > 0 && len(flags) < numPoints; n-- {
				flags = append(flags, f)
			}
		}
		if r.err != nil {
			return nil, nil, errFontFormat("simple glyph flags truncated")
		}
	}
	pts := make([]glyfPoint, numPoints)
	var x int16
	for i, f := range flags {
		x += readGlyfCoord(r, f, glyfXShort, glyfXSameOrPos)
		pts[i].x = float32(x)
		pts[i].onCurve = f&glyfOnCurve != 0
	}
	var y int16
	for i, f := range flags {
		y += readGlyfCoord(r, f, glyfYShort, glyfYSameOrPos)
		pts[i].y = float32(y)
	}
	if r.err != nil {
		return nil, nil, errFontFormat("simple glyph coordinates truncated")
	}
	return pts, ends, nil
}

// readGlyfCoord reads a coordinate delta. "If the short flag is set, the
// coordinate is 1 byte long, and the same-or-positive flag describes its sign.
// If the short flag is not set and the same-or-positive flag is set, the
// current coordinate is the same as the previous one. Otherwise the
// coordinate is a signed 16-bit delta."
func readGlyfCoord(r *reader, flag, short, sameOrPos uint8) int16 {
	if flag&short != 0 {
		d := int16(r.u8())
		if flag&sameOrPos == 0 {
			return -d
		}
		return d
	} else if flag&sameOrPos != 0 {
		return 0
	}
	return r.i16()
}

// decodeComponents reads the component records of a composite glyph.
// Components positioned by matching points (instead of x/y offsets) are
// placed without offset.
func decodeComponents(data binarySegm) ([]glyfComponent, error) {
	r := readerAt(data, 10)
	var comps []glyfComponent
	for {
		flags := r.u16()
		c := glyfComponent{flags: flags, glyph: GlyphIndex(r.u16()), m: affine{xx: 1, yy: 1}}
		var arg1, arg2 int16
		if flags&compArgsAreWords != 0 {
			arg1, arg2 = r.i16(), r.i16()
		} else if flags&compArgsAreXY != 0 {
			arg1, arg2 = int16(int8(r.u8())), int16(int8(r.u8()))
		} else {
			r.skip(2)
		}
		if flags&compArgsAreXY != 0 {
			c.m.dx, c.m.dy = float32(arg1), float32(arg2)
		}
		switch {
		case flags&compHaveScale != 0:
			s := r.f2dot14().Float32()
			c.m.xx, c.m.yy = s, s
		case flags&compHaveXYScale != 0:
			c.m.xx = r.f2dot14().Float32()
			c.m.yy = r.f2dot14().Float32()
		case flags&compHaveTwoByTwo != 0:
			c.m.xx = r.f2dot14().Float32()
			c.m.xy = r.f2dot14().Float32()
			c.m.yx = r.f2dot14().Float32()
			c.m.yy = r.f2dot14().Float32()
		}
		if r.err != nil {
			return nil, errFontFormat("composite glyph component truncated")
		}
		comps = append(comps, c)
		if flags&compMoreComponents == 0 {
			break
		}
		if len(comps) >= maxGlyfComponents {
			return nil, errFontFormat("too many glyph components")
		}
	}
	return comps, nil
}

// pointCount returns the number of points gvar deltas refer to for glyph g,
// not counting phantom points: the number of outline points for simple
// glyphs, and the number of components for composite glyphs.
func (t *GlyfTable) pointCount(g GlyphIndex) (int, error) {
	data, err := t.glyphData(g)
	if err != nil || len(data) == 0 {
		return 0, err
	}
	numContours := int(int16(u16(data)))
	if numContours < 0 {
		comps, err := decodeComponents(data)
		return len(comps), err
	}
	if numContours == 0 {
		return 0, nil
	}
	last, err := data.u16(10 + 2*(numContours-1))
	if err != nil {
		return 0, errFontFormat("simple glyph header truncated")
	}
	return int(last) + 1, nil
}

// --- Replaying outlines ----------------------------------------------------

// outline replays glyph g to sink (which may be nil) and returns the bounding
// box stored with the glyph.
func (t *GlyfTable) outline(g GlyphIndex, sink OutlineBuilder) (BoundingBox, error) {
	bbox, err := t.storedBBox(g)
	if err != nil {
		return BoundingBox{}, err
	}
	var o glyfOutline
	c := glyfCollector{t: t}
	if err := c.collect(g, 0, &o); err != nil {
		return BoundingBox{}, err
	}
	if sink != nil {
		o.replay(sink)
	}
	return bbox, nil
}

// outlineVariable replays glyph g with variation deltas applied.
func (t *GlyfTable) outlineVariable(g GlyphIndex, v *glyfVariation, sink OutlineBuilder) error {
	var o glyfOutline
	c := glyfCollector{t: t, v: v}
	if err := c.collect(g, 0, &o); err != nil {
		return err
	}
	o.replay(sink)
	return nil
}

// replay sends all contours of o to sink. TrueType contours consist of
// quadratic curves; two consecutive off-curve points imply an on-curve point
// in the middle between them. Every contour is explicitly returned to its
// starting point before it is closed.
func (o *glyfOutline) replay(sink OutlineBuilder) {
	start := 0
	for _, end := range o.ends {
		if end >= len(o.points) {
			break
		}
		if end < start { // empty contour
			continue
		}
		cb := contourBuilder{sink: sink}
		for _, p := range o.points[start : end+1] {
			cb.push(p)
		}
		cb.finish()
		start = end + 1
	}
}

type contourBuilder struct {
	sink                       OutlineBuilder
	firstOn, firstOff, lastOff *glyfPoint
}

func (cb *contourBuilder) push(p glyfPoint) {
	if cb.firstOn == nil {
		if p.onCurve {
			cb.firstOn = &p
			cb.sink.MoveTo(p.x, p.y)
		} else if cb.firstOff != nil {
			mid := midpoint(*cb.firstOff, p)
			cb.firstOn = &mid
			cb.lastOff = &p
			cb.sink.MoveTo(mid.x, mid.y)
		} else {
			cb.firstOff = &p
		}
		return
	}
	switch {
	case cb.lastOff != nil && p.onCurve:
		cb.sink.QuadTo(cb.lastOff.x, cb.lastOff.y, p.x, p.y)
		cb.lastOff = nil
	case cb.lastOff != nil:
		mid := midpoint(*cb.lastOff, p)
		cb.sink.QuadTo(cb.lastOff.x, cb.lastOff.y, mid.x, mid.y)
		cb.lastOff = &p
	case p.onCurve:
		cb.sink.LineTo(p.x, p.y)
	default:
		cb.lastOff = &p
	}
}

func (cb *contourBuilder) finish() {
	if cb.firstOn == nil {
		return // a contour made of a single off-curve point has no outline
	}
	if cb.firstOff != nil && cb.lastOff != nil {
		mid := midpoint(*cb.lastOff, *cb.firstOff)
		cb.sink.QuadTo(cb.lastOff.x, cb.lastOff.y, mid.x, mid.y)
		cb.lastOff = nil
	}
	switch {
	case cb.firstOff != nil:
		cb.sink.QuadTo(cb.firstOff.x, cb.firstOff.y, cb.firstOn.x, cb.firstOn.y)
	case cb.lastOff != nil:
		cb.sink.QuadTo(cb.lastOff.x, cb.lastOff.y, cb.firstOn.x, cb.firstOn.y)
	default:
		cb.sink.LineTo(cb.firstOn.x, cb.firstOn.y)
	}
	cb.sink.Close()
}

func midpoint(a, b glyfPoint) glyfPoint {
	return glyfPoint{x: (a.x + b.x) / 2, y: (a.y + b.y) / 2, onCurve: true}
}
