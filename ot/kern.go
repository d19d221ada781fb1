package ot

import (
	"fmt"
	"sort"
)

// KernTable contains the values that adjust the intercharacter spacing for
// glyphs in a font. Only sub-tables of format 0 are interpreted.
type KernTable struct {
	tableBase
	headers []kernSubTableHeader
}

type kernSubTableHeader struct {
	horizontal  bool  // horizontal kerning data, otherwise vertical
	crossStream bool  // perpendicular to the flow of text
	variation   bool  // Apple variation kerning, not supported
	pairs       array // format 0 kern pairs of size 6
}

// TrueType and OpenType slightly differ on formats of kern tables:
// see https://developer.apple.com/fonts/TrueType-Reference-Manual/RM06/Chap6kern.html
// and https://docs.microsoft.com/en-us/typography/opentype/spec/kern

// parseKern parses the kern table. There is significant confusion with this table
// concerning format differences between OpenType, TrueType, and fonts in the wild.
// We currently only support kern table format 0, which should be supported on any
// platform. In the real world, fonts usually have just one kern sub-table, and
// older Windows versions cannot handle more than one.
func parseKern(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if size < 4 {
		return nil, errFontFormat("kern table too small")
	}
	var N, suboffset, subheaderlen int
	apple := false
	if version := u32(b); version == 0x00010000 {
		tracer().Debugf("font has Apple TTF kern table format")
		n, err := b.u32(4) // number of kerning tables is uint32
		if err != nil {
			return nil, errFontFormat("kern table header")
		}
		N, suboffset, subheaderlen, apple = int(min(n, 0xffff)), 8, 8, true
	} else if u16(b) == 0 {
		tracer().Debugf("font has OTF (MS) kern table format")
		n, _ := b.u16(2) // number of kerning tables is uint16
		N, suboffset, subheaderlen = int(n), 4, 6
	} else {
		return nil, errFontFormat(fmt.Sprintf("kern table version %x", u32(b)))
	}
	tracer().Debugf("kern table has %d sub-tables", N)
	t := &KernTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	for i := 0; i < N; i++ { // read in N sub-tables
		r := readerAt(b, suboffset)
		var length int
		var coverage uint16
		var h kernSubTableHeader
		if apple {
			length = int(r.u32())
			coverage = r.u16()
			r.skip(2) // tuple index
			h.horizontal = coverage&0x8000 == 0
			h.crossStream = coverage&0x4000 != 0
			h.variation = coverage&0x2000 != 0
			coverage &= 0x00ff
		} else {
			r.skip(2) // sub-table version
			length = int(r.u16())
			coverage = r.u16()
			h.horizontal = coverage&0x0001 != 0
			h.crossStream = coverage&0x0004 != 0
			coverage >>= 8
		}
		if r.err != nil {
			ec.addError(tag, "Format", fmt.Sprintf("sub-table %d header exceeds table size", i), SeverityMajor, offset+uint32(suboffset))
			break
		}
		if format := coverage; format != 0 {
			tracer().Infof("kern sub-table format %d not supported, ignoring sub-table", format)
			if length <= subheaderlen {
				break
			}
			suboffset += length // we only support format 0 kerning tables; skip this one
			continue
		}
		kerncnt := int(r.u16())
		r.skip(6) // binary search helpers
		pairs, err := parseArray(b, suboffset+subheaderlen+8, kerncnt, 6)
		if err != nil {
			ec.addError(tag, "Bounds", fmt.Sprintf("sub-table %d exceeds table bounds", i), SeverityMajor, offset+uint32(suboffset))
			break
		}
		// For some fonts, size calculation of kern sub-tables is off; see
		// https://github.com/fonttools/fonttools/issues/314#issuecomment-118116527
		// Testable with the Calibri font.
		sz := subheaderlen + 8 + kerncnt*6
		if sz != length {
			tracer().Debugf("kern sub-table size should be 0x%x, but given as 0x%x; fixing", sz, length)
			ec.addWarning(tag, fmt.Sprintf("kern sub-table size mismatch: expected 0x%x, got 0x%x", sz, length), offset+uint32(suboffset))
		}
		h.pairs = pairs
		t.headers = append(t.headers, h)
		suboffset += sz
	}
	tracer().Debugf("table kern has %d sub-table(s)", len(t.headers))
	return t, nil
}

// Kerning returns the horizontal kerning value for a pair of glyphs. The first
// horizontal sub-table containing the pair wins. Cross-stream and variation
// sub-tables are not considered.
func (t *KernTable) Kerning(left, right GlyphIndex) (int16, bool) {
	if t == nil {
		return 0, false
	}
	key := uint32(left)<<16 | uint32(right)
	for _, h := range t.headers {
		if !h.horizontal || h.crossStream || h.variation {
			continue
		}
		n := h.pairs.Len()
		i := sort.Search(n, func(i int) bool {
			return u32(h.pairs.Get(i)) >= key
		})
		if i < n {
			if rec := h.pairs.Get(i); u32(rec) == key {
				return int16(u16(rec[4:])), true
			}
		}
	}
	return 0, false
}

// SubTableCount returns the number of format 0 sub-tables.
func (t *KernTable) SubTableCount() int {
	if t == nil {
		return 0
	}
	return len(t.headers)
}
