package ot

import (
	"fmt"
)

// GVarTable is the glyph variations table. It provides deltas for the points
// of 'glyf' outlines of variable fonts. Deltas are organized per glyph as a set
// of tuple variations, each of which applies to a region of the design space.
type GVarTable struct {
	tableBase
	axisCount    int
	sharedTuples array // peak tuples, axisCount F2Dot14 each
	glyphCount   int
	longOffsets  bool
	offsets      binarySegm
	dataStart    int // start of the glyph variation data array
}

const (
	gvarLongOffsets = 0x0001

	tupleSharedPointNumbers = 0x8000
	tupleCountMask          = 0x0fff
	tupleEmbeddedPeak       = 0x8000
	tupleIntermediateRegion = 0x4000
	tuplePrivatePoints      = 0x2000
	tupleIndexMask          = 0x0fff

	pointsAreWords = 0x80
	pointRunMask   = 0x7f
	deltasAreZero  = 0x80
	deltasAreWords = 0x40
	deltaRunMask   = 0x3f
)

func parseGVar(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	r := newReader(b)
	major := r.u16()
	r.skip(2) // minor version
	t := &GVarTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	t.axisCount = int(r.u16())
	sharedCount := int(r.u16())
	sharedOff := int(r.u32())
	t.glyphCount = int(r.u16())
	flags := r.u16()
	t.dataStart = int(r.u32())
	if r.err != nil || major != 1 {
		return nil, errFontFormat("gvar table header")
	}
	if t.axisCount == 0 || t.axisCount > MaxAxisCount {
		ec.addError(tag, "Header", fmt.Sprintf("invalid axis count %d", t.axisCount), SeverityMajor, offset)
		return nil, errFontFormat("gvar axis count")
	}
	var err error
	if t.sharedTuples, err = parseArray(b, sharedOff, sharedCount, 2*t.axisCount); err != nil {
		ec.addError(tag, "SharedTuples", "shared tuples exceed table size", SeverityMajor, offset)
		return nil, errFontFormat("gvar shared tuples")
	}
	t.longOffsets = flags&gvarLongOffsets != 0
	entrySize := 2
	if t.longOffsets {
		entrySize = 4
	}
	if t.offsets, err = b.view(20, (t.glyphCount+1)*entrySize); err != nil {
		ec.addError(tag, "Offsets", "glyph variation data offsets truncated", SeverityMajor, offset)
		return nil, errFontFormat("gvar offsets")
	}
	if t.dataStart > len(b) {
		return nil, errFontFormat("gvar data offset")
	}
	return t, nil
}

// glyphVariationData returns the variation data for glyph g, or an empty
// segment if the glyph does not vary.
func (t *GVarTable) glyphVariationData(g GlyphIndex) (binarySegm, error) {
	if int(g) >= t.glyphCount {
		return nil, nil
	}
	var start, end int
	if t.longOffsets {
		start, end = int(u32(t.offsets[4*int(g):])), int(u32(t.offsets[4*int(g)+4:]))
	} else {
		start, end = 2*int(u16(t.offsets[2*int(g):])), 2*int(u16(t.offsets[2*int(g)+2:]))
	}
	if start > end {
		return nil, errFontFormat(fmt.Sprintf("gvar data of glyph %d", g))
	}
	data, err := t.data.view(t.dataStart+start, end-start)
	if err != nil {
		return nil, errFontFormat(fmt.Sprintf("gvar data of glyph %d out of bounds", g))
	}
	return data, nil
}

// tupleScalar computes the influence of a tuple variation for the instance at
// coords. start and end are nil for tuples without intermediate region.
func tupleScalar(peak, start, end []F2Dot14, coords []F2Dot14) float32 {
	scalar := float32(1)
	for i, p := range peak {
		var v F2Dot14
		if i < len(coords) {
			v = coords[i]
		}
		if p == 0 || v == p {
			continue
		}
		if start != nil {
			s, e := start[i], end[i]
			if v < s || v > e {
				return 0
			}
			if v < p {
				if p != s {
					scalar *= float32(v-s) / float32(p-s)
				}
			} else if p != e {
				scalar *= float32(e-v) / float32(e-p)
			}
			continue
		}
		if v == 0 || v < min(0, p) || v > max(0, p) {
			return 0
		}
		scalar *= float32(v) / float32(p)
	}
	return scalar
}

// applyDeltas adds the deltas of glyph g for the instance at coords to pts.
// pts include the four phantom points at the end. If ends is not nil, it lists
// the contour end points, and deltas of points not referenced by a tuple are
// inferred by interpolation.
func (t *GVarTable) applyDeltas(g GlyphIndex, coords []F2Dot14, pts []glyfPoint, ends []int) error {
	data, err := t.glyphVariationData(g)
	if err != nil || len(data) == 0 {
		return err
	}
	if len(coords) != t.axisCount {
		return fmt.Errorf("%w: gvar has %d axes", ErrCoordCount, t.axisCount)
	}
	r := newReader(data)
	countAndFlags := r.u16()
	serialized := int(r.u16())
	tupleCount := int(countAndFlags & tupleCountMask)
	if r.err != nil {
		return errFontFormat("glyph variation data header")
	}
	sr := readerAt(data, serialized)
	var sharedPoints []int
	var sharedAll bool
	if countAndFlags&tupleSharedPointNumbers != 0 {
		if sharedPoints, sharedAll, err = readPackedPoints(sr); err != nil {
			return err
		}
	}
	if sr.err != nil {
		return errFontFormat("glyph variation data truncated")
	}
	orig := make([]glyfPoint, len(pts))
	copy(orig, pts)
	deltaX := make([]float32, len(pts))
	deltaY := make([]float32, len(pts))
	var touched []bool
	if ends != nil {
		touched = make([]bool, len(pts))
	}
	peak := make([]F2Dot14, t.axisCount)
	start := make([]F2Dot14, t.axisCount)
	end := make([]F2Dot14, t.axisCount)
	dataPos := sr.pos
	for i := 0; i < tupleCount; i++ {
		dataSize := int(r.u16())
		tupleIndex := r.u16()
		if tupleIndex&tupleEmbeddedPeak != 0 {
			for a := range peak {
				peak[a] = r.f2dot14()
			}
		} else {
			tuple := t.sharedTuples.Get(int(tupleIndex & tupleIndexMask))
			if len(tuple) == 0 {
				return errFontFormat("gvar shared tuple index out of range")
			}
			for a := range peak {
				peak[a] = F2Dot14(u16(tuple[2*a:]))
			}
		}
		var s, e []F2Dot14
		if tupleIndex&tupleIntermediateRegion != 0 {
			for a := range start {
				start[a] = r.f2dot14()
			}
			for a := range end {
				end[a] = r.f2dot14()
			}
			s, e = start, end
		}
		if r.err != nil {
			return errFontFormat("tuple variation header truncated")
		}
		tupleData, err := data.view(dataPos, dataSize)
		if err != nil {
			return errFontFormat("tuple variation data out of bounds")
		}
		dataPos += dataSize
		scalar := tupleScalar(peak, s, e, coords)
		if scalar == 0 {
			continue
		}
		tr := newReader(tupleData)
		points, all := sharedPoints, sharedAll
		if tupleIndex&tuplePrivatePoints != 0 {
			if points, all, err = readPackedPoints(tr); err != nil {
				return err
			}
		}
		n := len(points)
		if all {
			n = len(pts)
		}
		dx, err := readPackedDeltas(tr, n)
		if err != nil {
			return err
		}
		dy, err := readPackedDeltas(tr, n)
		if err != nil {
			return err
		}
		if all {
			for j := range pts {
				deltaX[j] += scalar * float32(dx[j])
				deltaY[j] += scalar * float32(dy[j])
			}
			continue
		}
		if touched == nil {
			for j, p := range points {
				if p < len(pts) {
					deltaX[p] += scalar * float32(dx[j])
					deltaY[p] += scalar * float32(dy[j])
				}
			}
			continue
		}
		// Deltas of untouched points are inferred per tuple.
		tx := make([]float32, len(pts))
		ty := make([]float32, len(pts))
		clear(touched)
		for j, p := range points {
			if p < len(pts) {
				tx[p], ty[p] = float32(dx[j]), float32(dy[j])
				touched[p] = true
			}
		}
		interpolateUntouched(orig, tx, ty, touched, ends)
		for j := range pts {
			deltaX[j] += scalar * tx[j]
			deltaY[j] += scalar * ty[j]
		}
	}
	for j := range pts {
		pts[j].x += deltaX[j]
		pts[j].y += deltaY[j]
	}
	return nil
}

// readPackedPoints reads packed point numbers. If the count is 0, all points
// of the glyph are referenced and all is true.
func readPackedPoints(r *reader) (points []int, all bool, err error) {
	count := int(r.u8())
	if count == 0 {
		return nil, true, r.err
	}
	if count&0x80 != 0 {
		count = (count&0x7f)<<8 | int(r.u8())
	}
	if r.err != nil {
		return nil, false, errFontFormat("packed point count truncated")
	}
	points = make([]int, 0, count)
	p := 0
	for len(points) < count {
		ctrl := r.u8()
		n := int(ctrl&pointRunMask) + 1
		for ; n > 0 && len(points) < count; n-- {
			if ctrl&pointsAreWords != 0 {
				p += int(r.u16())
			} else {
				p += int(r.u8())
			}
			points = append(points, p)
		}
		if r.err != nil {
			return nil, false, errFontFormat("packed point numbers truncated")
		}
	}
	return points, false, nil
}

// readPackedDeltas reads n packed deltas.
func readPackedDeltas(r *reader, n int) ([]int16, error) {
	if n > r.remaining()*64+64 {
		return nil, errFontFormat("too many packed deltas")
	}
	deltas := make([]int16, 0, n)
	for len(deltas) < n {
		ctrl := r.u8()
		run := int(ctrl&deltaRunMask) + 1
		for ; run > 0 && len(deltas) < n; run-- {
			switch {
			case ctrl&deltasAreZero != 0:
				deltas = append(deltas, 0)
			case ctrl&deltasAreWords != 0:
				deltas = append(deltas, r.i16())
			default:
				deltas = append(deltas, int16(int8(r.u8())))
			}
		}
		if r.err != nil {
			return nil, errFontFormat("packed deltas truncated")
		}
	}
	return deltas, nil
}

// interpolateUntouched infers the deltas of points without explicit deltas
// from the nearest touched points of their contour. Contours without touched
// points remain unchanged.
func interpolateUntouched(orig []glyfPoint, dx, dy []float32, touched []bool, ends []int) {
	start := 0
	for _, end := range ends {
		if end >= len(orig) {
			return
		}
		if end < start {
			continue
		}
		first := -1
		for i := start; i <= end; i++ {
			if touched[i] {
				first = i
				break
			}
		}
		if first < 0 {
			start = end + 1
			continue
		}
		// Walk the contour from one touched point to the next, cyclically.
		prev := first
		i := first
		for {
			i = nextInContour(i, start, end)
			if touched[i] {
				if i != nextInContour(prev, start, end) {
					interpolateRange(orig, dx, dy, prev, i, start, end)
				}
				prev = i
			}
			if i == first {
				break
			}
		}
		start = end + 1
	}
}

func nextInContour(i, start, end int) int {
	if i == end {
		return start
	}
	return i + 1
}

// interpolateRange infers the deltas of the untouched points strictly between
// the touched points p1 and p2.
func interpolateRange(orig []glyfPoint, dx, dy []float32, p1, p2, start, end int) {
	for i := nextInContour(p1, start, end); i != p2; i = nextInContour(i, start, end) {
		dx[i] = inferDelta(orig[i].x, orig[p1].x, orig[p2].x, dx[p1], dx[p2])
		dy[i] = inferDelta(orig[i].y, orig[p1].y, orig[p2].y, dy[p1], dy[p2])
	}
}

// inferDelta interpolates the delta for coordinate v between the reference
// coordinates v1 and v2 with deltas d1 and d2. Outside of [v1, v2] the delta
// of the nearer reference point is used.
func inferDelta(v, v1, v2, d1, d2 float32) float32 {
	if v1 == v2 {
		if d1 == d2 {
			return d1
		}
		return 0
	}
	if v1 > v2 {
		v1, v2 = v2, v1
		d1, d2 = d2, d1
	}
	if v <= v1 {
		return d1
	} else if v >= v2 {
		return d2
	}
	return d1 + (v-v1)*(d2-d1)/(v2-v1)
}

// --- Glyph variations for glyf outlines ------------------------------------

// glyfVariation applies gvar deltas while glyf outlines are expanded.
type glyfVariation struct {
	gvar   *GVarTable
	coords []F2Dot14
}

// varySimple applies deltas to the points of a simple glyph.
func (v *glyfVariation) varySimple(g GlyphIndex, pts []glyfPoint, ends []int) ([]glyfPoint, error) {
	all := make([]glyfPoint, len(pts), len(pts)+4)
	copy(all, pts)
	all = append(all, make([]glyfPoint, 4)...) // phantom points
	if err := v.gvar.applyDeltas(g, v.coords, all, ends); err != nil {
		return nil, err
	}
	return all[:len(pts)], nil
}

// varyComponents applies deltas to the offsets of the components of a
// composite glyph. Components positioned by point matching are not moved.
func (v *glyfVariation) varyComponents(g GlyphIndex, comps []glyfComponent) error {
	pts := make([]glyfPoint, len(comps)+4)
	for i, c := range comps {
		pts[i].x, pts[i].y = c.m.dx, c.m.dy
	}
	if err := v.gvar.applyDeltas(g, v.coords, pts, nil); err != nil {
		return err
	}
	for i := range comps {
		if comps[i].flags&compArgsAreXY != 0 {
			comps[i].m.dx, comps[i].m.dy = pts[i].x, pts[i].y
		}
	}
	return nil
}

// phantomAdvanceDelta computes the delta of the advance of glyph g from the
// phantom points of table 'gvar'.
func (otf *Font) phantomAdvanceDelta(g GlyphIndex, coords []F2Dot14, vertical bool) (float32, bool) {
	glyf := otf.tableSelf(T("glyf")).AsGlyf()
	gvar := otf.tableSelf(T("gvar")).AsGVar()
	if glyf == nil || gvar == nil {
		return 0, false
	}
	n, err := glyf.pointCount(g)
	if err != nil {
		return 0, false
	}
	pts := make([]glyfPoint, n+4)
	if err := gvar.applyDeltas(g, coords, pts, nil); err != nil {
		tracer().Debugf("gvar deltas for glyph %d: %v", g, err)
		return 0, false
	}
	if vertical {
		return pts[n+2].y - pts[n+3].y, true
	}
	return pts[n+1].x - pts[n].x, true
}
