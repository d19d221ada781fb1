package otquery

import (
	"strconv"
	"strings"

	"github.com/npillmayer/ttfparse/ot"
)

// SVGPath is an ot.OutlineBuilder which collects glyph outlines as SVG path data.
// Coordinates are font design units with the y-axis pointing up, i.e. clients
// will usually flip the path for display.
type SVGPath struct {
	sb strings.Builder
}

func (p *SVGPath) op(c byte, coords ...float32) {
	if p.sb.Len() > 0 {
		p.sb.WriteByte(' ')
	}
	p.sb.WriteByte(c)
	for _, v := range coords {
		p.sb.WriteByte(' ')
		p.sb.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
}

// MoveTo is part of interface ot.OutlineBuilder.
func (p *SVGPath) MoveTo(x, y float32) { p.op('M', x, y) }

// LineTo is part of interface ot.OutlineBuilder.
func (p *SVGPath) LineTo(x, y float32) { p.op('L', x, y) }

// QuadTo is part of interface ot.OutlineBuilder.
func (p *SVGPath) QuadTo(x1, y1, x, y float32) { p.op('Q', x1, y1, x, y) }

// CurveTo is part of interface ot.OutlineBuilder.
func (p *SVGPath) CurveTo(x1, y1, x2, y2, x, y float32) { p.op('C', x1, y1, x2, y2, x, y) }

// Close is part of interface ot.OutlineBuilder.
func (p *SVGPath) Close() { p.op('Z') }

// String returns the path data collected so far.
func (p *SVGPath) String() string {
	return p.sb.String()
}

// Reset discards all path data.
func (p *SVGPath) Reset() {
	p.sb.Reset()
}

// GlyphPath returns the outline of a glyph as SVG path data, together with its
// bounding box. If user is non-empty, it holds a user coordinate for every
// variation axis of the font, and the outline of the corresponding instance is
// returned.
func GlyphPath(otf *ot.Font, gid ot.GlyphIndex, user ...float32) (string, BoundingBox, error) {
	if len(user) == 0 {
		return VariableGlyphPath(otf, gid, nil)
	}
	coords, err := otf.NormalizeVariationCoords(user)
	if err != nil {
		return "", BoundingBox{}, err
	}
	return VariableGlyphPath(otf, gid, coords)
}

// VariableGlyphPath is like GlyphPath, with normalized variation coordinates.
// Empty coords select the default instance.
func VariableGlyphPath(otf *ot.Font, gid ot.GlyphIndex, coords []ot.F2Dot14) (string, BoundingBox, error) {
	path := &SVGPath{}
	var bbox ot.BoundingBox
	var err error
	if len(coords) == 0 {
		bbox, err = otf.OutlineGlyph(gid, path)
	} else {
		bbox, err = otf.OutlineVariableGlyph(gid, coords, path)
	}
	if err != nil {
		return "", BoundingBox{}, err
	}
	return path.String(), bboxFrom(bbox), nil
}
