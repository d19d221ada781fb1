package ot

import (
	"fmt"
	"sort"
)

// HVarTable represents a horizontal (HVAR) or vertical (VVAR) metrics
// variations table. Both provide deltas for glyph advances and side bearings
// of variable fonts.
type HVarTable struct {
	tableBase
	store      *itemVariationStore
	advanceMap *deltaSetIndexMap // nil: glyph index is the inner index, outer index is 0
	lsbMap     *deltaSetIndexMap // left side bearing (HVAR) or top side bearing (VVAR)
}

func parseHVar(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	r := newReader(b)
	major := r.u16()
	r.skip(2) // minor version
	storeOff := int(r.u32())
	advOff := int(r.u32())
	lsbOff := int(r.u32())
	if r.err != nil || major != 1 {
		return nil, errFontFormat(fmt.Sprintf("%s table header", tag))
	}
	t := &HVarTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	var err error
	if t.store, err = parseItemVariationStore(b, storeOff); err != nil {
		ec.addError(tag, "ItemVariationStore", err.Error(), SeverityMajor, offset+uint32(storeOff))
		return nil, err
	}
	if advOff != 0 {
		if t.advanceMap, err = parseDeltaSetIndexMap(b, advOff); err != nil {
			ec.addError(tag, "AdvanceMapping", err.Error(), SeverityMajor, offset+uint32(advOff))
			return nil, err
		}
	}
	if lsbOff != 0 {
		if t.lsbMap, err = parseDeltaSetIndexMap(b, lsbOff); err != nil {
			ec.addWarning(tag, "side bearing mapping unreadable", offset+uint32(lsbOff))
			t.lsbMap = nil
		}
	}
	return t, nil
}

// AdvanceDelta returns the delta of the advance of glyph g for the instance at
// normalized coordinates coords.
func (t *HVarTable) AdvanceDelta(g GlyphIndex, coords []F2Dot14) float32 {
	if t == nil {
		return 0
	}
	outer, inner := 0, int(g)
	if t.advanceMap != nil {
		var ok bool
		if outer, inner, ok = t.advanceMap.lookup(int(g)); !ok {
			return 0
		}
	}
	return t.store.delta(outer, inner, coords)
}

// SideBearingDelta returns the delta of the left (HVAR) or top (VVAR) side
// bearing of glyph g. Without a side bearing mapping the delta is unknown.
func (t *HVarTable) SideBearingDelta(g GlyphIndex, coords []F2Dot14) (float32, bool) {
	if t == nil || t.lsbMap == nil {
		return 0, false
	}
	outer, inner, ok := t.lsbMap.lookup(int(g))
	if !ok {
		return 0, false
	}
	return t.store.delta(outer, inner, coords), true
}

// --- MVAR ------------------------------------------------------------------

// MVarTable is the metrics variations table. It provides deltas for font-wide
// metrics, identified by tags such as 'hasc' (horizontal ascender) or 'xhgt'
// (x-height).
type MVarTable struct {
	tableBase
	store   *itemVariationStore
	records array // tag, outer index, inner index; sorted by tag
}

func parseMVar(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	r := newReader(b)
	major := r.u16()
	r.skip(4) // minor version, reserved
	recordSize := int(r.u16())
	recordCount := int(r.u16())
	storeOff := int(r.u16())
	if r.err != nil || major != 1 || recordSize < 8 {
		return nil, errFontFormat("MVAR table header")
	}
	t := &MVarTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	var err error
	if t.records, err = parseArray(b, 12, recordCount, recordSize); err != nil {
		ec.addError(tag, "ValueRecords", "value records exceed table size", SeverityMajor, offset)
		return nil, errFontFormat("MVAR value records")
	}
	if storeOff == 0 {
		if recordCount > 0 {
			ec.addWarning(tag, "value records without item variation store", offset)
		}
		return t, nil
	}
	if t.store, err = parseItemVariationStore(b, storeOff); err != nil {
		ec.addError(tag, "ItemVariationStore", err.Error(), SeverityMajor, offset+uint32(storeOff))
		return nil, err
	}
	return t, nil
}

// Delta returns the delta for the metric identified by tag at normalized
// coordinates coords, and false if the table has no record for tag.
func (t *MVarTable) Delta(tag Tag, coords []F2Dot14) (float32, bool) {
	if t == nil {
		return 0, false
	}
	n := t.records.Len()
	i := sort.Search(n, func(i int) bool {
		return Tag(u32(t.records.Get(i))) >= tag
	})
	if i >= n {
		return 0, false
	}
	rec := t.records.Get(i)
	if Tag(u32(rec)) != tag {
		return 0, false
	}
	return t.store.delta(int(u16(rec[4:])), int(u16(rec[6:])), coords), true
}

// --- Font methods ----------------------------------------------------------

// GlyphHorAdvanceVariable returns the horizontal advance of glyph g for the
// instance at normalized coordinates coords. Deltas are taken from table
// 'HVAR', or else from the phantom points of table 'gvar'.
func (otf *Font) GlyphHorAdvanceVariable(g GlyphIndex, coords []F2Dot14) (float32, bool) {
	adv, ok := otf.GlyphHorAdvance(g)
	if !ok {
		return 0, false
	}
	if len(coords) != otf.VariationAxisCount() {
		return 0, false
	}
	if hvar := otf.tableSelf(T("HVAR")).AsHVar(); hvar != nil {
		return float32(adv) + hvar.AdvanceDelta(g, coords), true
	}
	if d, ok := otf.phantomAdvanceDelta(g, coords, false); ok {
		return float32(adv) + d, true
	}
	return float32(adv), true
}

// GlyphVerAdvanceVariable returns the vertical advance of glyph g for the
// instance at normalized coordinates coords. Deltas are taken from table
// 'VVAR', or else from the phantom points of table 'gvar'.
func (otf *Font) GlyphVerAdvanceVariable(g GlyphIndex, coords []F2Dot14) (float32, bool) {
	adv, ok := otf.GlyphVerAdvance(g)
	if !ok {
		return 0, false
	}
	if len(coords) != otf.VariationAxisCount() {
		return 0, false
	}
	if vvar := otf.tableSelf(T("VVAR")).AsVVar(); vvar != nil {
		return float32(adv) + vvar.AdvanceDelta(g, coords), true
	}
	if d, ok := otf.phantomAdvanceDelta(g, coords, true); ok {
		return float32(adv) + d, true
	}
	return float32(adv), true
}

// GlyphHorSideBearingVariable returns the left side bearing of glyph g for the
// instance at normalized coordinates coords, if table 'HVAR' provides deltas
// for side bearings.
func (otf *Font) GlyphHorSideBearingVariable(g GlyphIndex, coords []F2Dot14) (float32, bool) {
	lsb, ok := otf.GlyphHorSideBearing(g)
	if !ok || len(coords) != otf.VariationAxisCount() {
		return 0, false
	}
	d, ok := otf.tableSelf(T("HVAR")).AsHVar().SideBearingDelta(g, coords)
	if !ok {
		return float32(lsb), true
	}
	return float32(lsb) + d, true
}

// MetricsVariation returns the delta of a font-wide metric at normalized
// coordinates coords, as provided by table 'MVAR'. Tags are the value tags of
// MVAR, e.g. 'hasc', 'hdsc', 'hlgp', 'xhgt', 'cpht', 'undo', 'unds', 'strs'
// and 'stro'. The result is 0 if the metric does not vary.
func (otf *Font) MetricsVariation(tag Tag, coords []F2Dot14) float32 {
	if len(coords) != otf.VariationAxisCount() {
		return 0
	}
	d, _ := otf.tableSelf(T("MVAR")).AsMVar().Delta(tag, coords)
	return d
}
