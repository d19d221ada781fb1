package ot

import (
	"encoding/binary"
	"sort"
	"strconv"
)

// Helpers to assemble synthetic fonts. All tables are written big-endian, as
// they would be in a font file.

func putU16(b []byte, at int, v uint16) {
	binary.BigEndian.PutUint16(b[at:at+2], v)
}

func putU32(b []byte, at int, v uint32) {
	binary.BigEndian.PutUint32(b[at:at+4], v)
}

func putTag(b []byte, at int, tag string) {
	copy(b[at:at+4], tag+"    ")
}

type sfntTable struct {
	tag  string
	data []byte
}

// sfntBuilder collects tables and writes a font file with a table directory
// sorted by tag. Duplicate tags are kept in the order they have been added.
type sfntBuilder struct {
	version uint32
	tables  []sfntTable
}

func newSFNT(version uint32) *sfntBuilder {
	return &sfntBuilder{version: version}
}

func (sb *sfntBuilder) add(tag string, data []byte) *sfntBuilder {
	sb.tables = append(sb.tables, sfntTable{tag: tag, data: data})
	return sb
}

// set replaces the first table with a given tag, or adds it.
func (sb *sfntBuilder) set(tag string, data []byte) *sfntBuilder {
	for i := range sb.tables {
		if sb.tables[i].tag == tag {
			sb.tables[i].data = data
			return sb
		}
	}
	return sb.add(tag, data)
}

func (sb *sfntBuilder) remove(tag string) *sfntBuilder {
	tables := sb.tables[:0]
	for _, t := range sb.tables {
		if t.tag != tag {
			tables = append(tables, t)
		}
	}
	sb.tables = tables
	return sb
}

func (sb *sfntBuilder) dirSize() int {
	return 12 + 16*len(sb.tables)
}

func (sb *sfntBuilder) build() []byte {
	return sb.appendTo(make([]byte, sb.dirSize()), 0)
}

// appendTo writes the table directory at dirOffset, which must already be
// allocated in out, and appends the table data at the end of out. Table
// offsets are relative to the start of out.
func (sb *sfntBuilder) appendTo(out []byte, dirOffset int) []byte {
	tables := make([]sfntTable, len(sb.tables))
	copy(tables, sb.tables)
	sort.SliceStable(tables, func(i, j int) bool {
		return tables[i].tag < tables[j].tag
	})
	putU32(out, dirOffset, sb.version)
	putU16(out, dirOffset+4, uint16(len(tables)))
	for i, t := range tables {
		for len(out)%4 != 0 {
			out = append(out, 0)
		}
		rec := dirOffset + 12 + 16*i
		putTag(out, rec, t.tag)
		putU32(out, rec+8, uint32(len(out)))
		putU32(out, rec+12, uint32(len(t.data)))
		out = append(out, t.data...)
	}
	return out
}

// buildCollection writes a font collection ('ttcf') containing fonts.
func buildCollection(fonts ...*sfntBuilder) []byte {
	hdr := 12 + 4*len(fonts)
	size := hdr
	for _, f := range fonts {
		size += f.dirSize()
	}
	out := make([]byte, size)
	putTag(out, 0, "ttcf")
	putU32(out, 4, 0x00010000)
	putU32(out, 8, uint32(len(fonts)))
	dirOffset := hdr
	for i, f := range fonts {
		putU32(out, 12+4*i, uint32(dirOffset))
		out = f.appendTo(out, dirOffset)
		dirOffset += f.dirSize()
	}
	return out
}

// --- Mandatory and metrics tables ------------------------------------------

func headTable(upem uint16, locFormat uint16) []byte {
	b := make([]byte, 54)
	putU32(b, 0, 0x00010000)
	putU32(b, 12, 0x5F0F3CF5) // magic
	putU16(b, 18, upem)
	putU16(b, 50, locFormat)
	return b
}

// hheaTable also serves as 'vhea'.
func hheaTable(asc, desc, gap int16, numMetrics int) []byte {
	b := make([]byte, 36)
	putU32(b, 0, 0x00010000)
	putU16(b, 4, uint16(asc))
	putU16(b, 6, uint16(desc))
	putU16(b, 8, uint16(gap))
	putU16(b, 34, uint16(numMetrics))
	return b
}

func maxpTable(numGlyphs int) []byte {
	b := make([]byte, 6)
	putU32(b, 0, 0x00005000)
	putU16(b, 4, uint16(numGlyphs))
	return b
}

// mtxTable writes long metrics (advance, side bearing) followed by trailing
// side bearings. It also serves as 'vmtx'.
func mtxTable(metrics [][2]int, bearings ...int) []byte {
	b := make([]byte, 4*len(metrics)+2*len(bearings))
	for i, m := range metrics {
		putU16(b, 4*i, uint16(m[0]))
		putU16(b, 4*i+2, uint16(int16(m[1])))
	}
	for i, sb := range bearings {
		putU16(b, 4*len(metrics)+2*i, uint16(int16(sb)))
	}
	return b
}

// os2Table writes an OS/2 table of a given version with typographic metrics
// 800/-200/90, x-height 500 and cap height 700.
func os2Table(version, weight, width, fsSelection uint16) []byte {
	size := 96
	switch {
	case version == 0:
		size = 78
	case version == 1:
		size = 86
	case version >= 5:
		size = 100
	}
	b := make([]byte, size)
	putU16(b, 0, version)
	putU16(b, 4, weight)
	putU16(b, 6, width)
	putU16(b, 10, 650) // subscript x size
	putU16(b, 12, 600) // subscript y size
	putU16(b, 16, 75)  // subscript y offset
	putU16(b, 24, 350) // superscript y offset
	putU16(b, 26, 50)  // strikeout size
	putU16(b, 28, 300) // strikeout position
	putU16(b, 62, fsSelection)
	putU16(b, 68, 800)
	putU16(b, 70, uint16(0x10000-200))
	putU16(b, 72, 90)
	if version >= 2 {
		putU16(b, 86, 500)
		putU16(b, 88, 700)
	}
	return b
}

// minimalFont returns a TrueType font with the mandatory tables and metrics
// for numGlyphs glyphs, all of them 500 units wide.
func minimalFont(numGlyphs int) *sfntBuilder {
	return newSFNT(0x00010000).
		add("head", headTable(1000, 1)).
		add("hhea", hheaTable(750, -250, 20, 1)).
		add("maxp", maxpTable(numGlyphs)).
		add("hmtx", mtxTable([][2]int{{500, 50}}, make([]int, numGlyphs-1)...))
}

// --- Glyph outlines --------------------------------------------------------

type testPoint struct {
	x, y int16
	on   bool
}

func onPt(x, y int16) testPoint  { return testPoint{x: x, y: y, on: true} }
func offPt(x, y int16) testPoint { return testPoint{x: x, y: y} }

// simpleGlyph encodes a TrueType glyph with one contour for each slice of
// points. Coordinates are written as words, the stored bounding box is
// computed from the points.
func simpleGlyph(contours ...[]testPoint) []byte {
	var pts []testPoint
	var ends []int
	for _, c := range contours {
		pts = append(pts, c...)
		ends = append(ends, len(pts)-1)
	}
	b := make([]byte, 10+2*len(ends)+2+5*len(pts))
	putU16(b, 0, uint16(len(contours)))
	if len(pts) > 0 {
		xmin, ymin, xmax, ymax := pts[0].x, pts[0].y, pts[0].x, pts[0].y
		for _, p := range pts {
			xmin, ymin = min(xmin, p.x), min(ymin, p.y)
			xmax, ymax = max(xmax, p.x), max(ymax, p.y)
		}
		putU16(b, 2, uint16(xmin))
		putU16(b, 4, uint16(ymin))
		putU16(b, 6, uint16(xmax))
		putU16(b, 8, uint16(ymax))
	}
	pos := 10
	for _, e := range ends {
		putU16(b, pos, uint16(e))
		pos += 2
	}
	pos += 2 // no instructions
	for _, p := range pts {
		if p.on {
			b[pos] = glyfOnCurve
		}
		pos++
	}
	var prev int16
	for _, p := range pts {
		putU16(b, pos, uint16(p.x-prev))
		prev = p.x
		pos += 2
	}
	prev = 0
	for _, p := range pts {
		putU16(b, pos, uint16(p.y-prev))
		prev = p.y
		pos += 2
	}
	return b
}

type testComponent struct {
	glyph  uint16
	dx, dy int16
}

// compositeGlyph encodes a composite glyph of components positioned by
// offsets.
func compositeGlyph(comps ...testComponent) []byte {
	b := make([]byte, 10+8*len(comps))
	putU16(b, 0, 0xffff) // -1 contours
	pos := 10
	for i, c := range comps {
		flags := uint16(compArgsAreWords | compArgsAreXY)
		if i < len(comps)-1 {
			flags |= compMoreComponents
		}
		putU16(b, pos, flags)
		putU16(b, pos+2, c.glyph)
		putU16(b, pos+4, uint16(c.dx))
		putU16(b, pos+6, uint16(c.dy))
		pos += 8
	}
	return b
}

// glyfTables returns tables 'glyf' and 'loca' (long offsets) for glyphs.
// An empty slice yields a glyph without outline.
func glyfTables(glyphs ...[]byte) (glyf, loca []byte) {
	loca = make([]byte, 4*(len(glyphs)+1))
	for i, g := range glyphs {
		putU32(loca, 4*i, uint32(len(glyf)))
		glyf = append(glyf, g...)
		for len(glyf)%4 != 0 {
			glyf = append(glyf, 0)
		}
	}
	putU32(loca, 4*len(glyphs), uint32(len(glyf)))
	return glyf, loca
}

// glyfFont returns a TrueType font with outlines for glyphs.
func glyfFont(glyphs ...[]byte) *sfntBuilder {
	glyf, loca := glyfTables(glyphs...)
	return minimalFont(len(glyphs)).add("glyf", glyf).add("loca", loca)
}

// --- cmap ------------------------------------------------------------------

type cmapSub struct {
	platformID, encodingID uint16
	data                   []byte
}

func cmapTable(subs ...cmapSub) []byte {
	b := make([]byte, 4+8*len(subs))
	putU16(b, 2, uint16(len(subs)))
	for i, s := range subs {
		putU16(b, 4+8*i, s.platformID)
		putU16(b, 4+8*i+2, s.encodingID)
		putU32(b, 4+8*i+4, uint32(len(b)))
		b = append(b, s.data...)
	}
	return b
}

type cmap4Segment struct {
	start, end uint16
	delta      uint16
	glyphs     []uint16 // addressed by idRangeOffset, if not nil
}

// deltaTo returns the idDelta mapping code point start to glyph g.
func deltaTo(start rune, g uint16) uint16 {
	return g - uint16(start)
}

// testCMap4 writes a format 4 sub-table. The terminating 0xFFFF segment is
// added automatically.
func testCMap4(segs ...cmap4Segment) []byte {
	segs = append(segs, cmap4Segment{start: 0xffff, end: 0xffff, delta: 1})
	n := len(segs)
	var ids []uint16
	b := make([]byte, 16+8*n)
	putU16(b, 0, 4)
	putU16(b, 6, uint16(2*n))
	for i, s := range segs {
		putU16(b, 14+2*i, s.end)
		putU16(b, 16+2*n+2*i, s.start)
		putU16(b, 16+4*n+2*i, s.delta)
		if s.glyphs != nil {
			putU16(b, 16+6*n+2*i, uint16(2*n-2*i+2*len(ids)))
			ids = append(ids, s.glyphs...)
		}
	}
	for _, g := range ids {
		b = binary.BigEndian.AppendUint16(b, g)
	}
	putU16(b, 2, uint16(len(b)))
	return b
}

// testCMap12 writes groups of (start, end, start glyph).
func testCMap12(groups ...[3]uint32) []byte {
	b := make([]byte, 16+12*len(groups))
	putU16(b, 0, 12)
	putU32(b, 4, uint32(len(b)))
	putU32(b, 12, uint32(len(groups)))
	for i, g := range groups {
		putU32(b, 16+12*i, g[0])
		putU32(b, 16+12*i+4, g[1])
		putU32(b, 16+12*i+8, g[2])
	}
	return b
}

type uvsRecord struct {
	selector   uint32
	defaults   [][2]uint32 // start, additional count
	nonDefault [][2]uint32 // code point, glyph
}

// testCMap14 writes a Unicode variation sequences sub-table.
func testCMap14(records ...uvsRecord) []byte {
	b := make([]byte, 10+11*len(records))
	putU16(b, 0, 14)
	putU32(b, 6, uint32(len(records)))
	for i, rec := range records {
		pos := 10 + 11*i
		b[pos], b[pos+1], b[pos+2] = byte(rec.selector>>16), byte(rec.selector>>8), byte(rec.selector)
		if rec.defaults != nil {
			putU32(b, pos+3, uint32(len(b)))
			b = binary.BigEndian.AppendUint32(b, uint32(len(rec.defaults)))
			for _, r := range rec.defaults {
				b = append(b, byte(r[0]>>16), byte(r[0]>>8), byte(r[0]), byte(r[1]))
			}
		}
		if rec.nonDefault != nil {
			putU32(b, pos+7, uint32(len(b)))
			b = binary.BigEndian.AppendUint32(b, uint32(len(rec.nonDefault)))
			for _, m := range rec.nonDefault {
				b = append(b, byte(m[0]>>16), byte(m[0]>>8), byte(m[0]))
				b = binary.BigEndian.AppendUint16(b, uint16(m[1]))
			}
		}
	}
	putU32(b, 2, uint32(len(b)))
	return b
}

// --- Variations ------------------------------------------------------------

type testAxis struct {
	tag           string
	min, def, max float32
}

// fvarTable writes axes and no named instances.
func fvarTable(axes ...testAxis) []byte {
	b := make([]byte, 16+20*len(axes))
	putU16(b, 0, 1)
	putU16(b, 4, 16)
	putU16(b, 8, uint16(len(axes)))
	putU16(b, 10, 20)
	putU16(b, 14, uint16(4*len(axes)+4))
	for i, a := range axes {
		pos := 16 + 20*i
		putTag(b, pos, a.tag)
		putU32(b, pos+4, uint32(int32(a.min*65536)))
		putU32(b, pos+8, uint32(int32(a.def*65536)))
		putU32(b, pos+12, uint32(int32(a.max*65536)))
		putU16(b, pos+18, uint16(256+i))
	}
	return b
}

// avarTable writes one segment map per axis, each given as pairs of
// (from, to) in F2Dot14.
func avarTable(maps ...[][2]F2Dot14) []byte {
	b := make([]byte, 8)
	putU16(b, 0, 1)
	putU16(b, 6, uint16(len(maps)))
	for _, m := range maps {
		b = binary.BigEndian.AppendUint16(b, uint16(len(m)))
		for _, p := range m {
			b = binary.BigEndian.AppendUint16(b, uint16(p[0]))
			b = binary.BigEndian.AppendUint16(b, uint16(p[1]))
		}
	}
	return b
}

// --- Recording outlines ----------------------------------------------------

// outlineRecorder records outline segments in an SVG-like notation.
type outlineRecorder struct {
	ops []string
}

func (rec *outlineRecorder) MoveTo(x, y float32) {
	rec.ops = append(rec.ops, fmtOp("M", x, y))
}

func (rec *outlineRecorder) LineTo(x, y float32) {
	rec.ops = append(rec.ops, fmtOp("L", x, y))
}

func (rec *outlineRecorder) QuadTo(x1, y1, x, y float32) {
	rec.ops = append(rec.ops, fmtOp("Q", x1, y1, x, y))
}

func (rec *outlineRecorder) CurveTo(x1, y1, x2, y2, x, y float32) {
	rec.ops = append(rec.ops, fmtOp("C", x1, y1, x2, y2, x, y))
}

func (rec *outlineRecorder) Close() {
	rec.ops = append(rec.ops, "Z")
}

func fmtOp(op string, coords ...float32) string {
	s := op
	for _, c := range coords {
		s += " " + strconv.FormatFloat(float64(c), 'g', -1, 32)
	}
	return s
}
