package ot

import "sort"

// VOrgTable is the Vertical Origin table, used by CFF and CFF2 fonts.
// It provides the y coordinate of the vertical origin for glyphs.
type VOrgTable struct {
	tableBase
	DefaultVertOriginY int16
	records            array // (glyph index, vertOriginY), sorted by glyph index
}

func parseVOrg(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	r := newReader(b)
	major := r.u16()
	r.skip(2)
	t := &VOrgTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	t.DefaultVertOriginY = r.i16()
	n := int(r.u16())
	if r.err != nil || major != 1 {
		return nil, errFontFormat("VORG table header")
	}
	var err error
	if t.records, err = parseArray(b, 8, n, 4); err != nil {
		ec.addError(tag, "Records", "vertical origin records truncated", SeverityMajor, offset)
		return nil, errFontFormat("VORG table size")
	}
	return t, nil
}

// VertOriginY returns the y coordinate of the vertical origin of glyph g.
// Glyphs without an explicit record use the default.
func (t *VOrgTable) VertOriginY(g GlyphIndex) int16 {
	n := t.records.Len()
	i := sort.Search(n, func(i int) bool {
		return GlyphIndex(u16(t.records.Get(i))) >= g
	})
	if i < n {
		if rec := t.records.Get(i); GlyphIndex(u16(rec)) == g {
			return int16(u16(rec[2:]))
		}
	}
	return t.DefaultVertOriginY
}
