package ot

import (
	"fmt"
	"sort"
)

// GDefTable is the Glyph Definition table. It provides glyph properties
// used in OpenType Layout processing. We interpret the glyph class definitions,
// the mark attachment class definitions and the mark glyph sets.
type GDefTable struct {
	tableBase
	MajorVersion  uint16
	MinorVersion  uint16
	glyphClasses  ClassDefinitions
	markAttach    ClassDefinitions
	markGlyphSets []Coverage
}

// GlyphClass is the class a glyph is assigned to by table GDEF.
type GlyphClass uint8

// Glyph classes as defined by the GDEF GlyphClassDef table.
const (
	GlyphClassUnknown   GlyphClass = iota // no class assigned
	GlyphClassBase                        // single character, spacing glyph
	GlyphClassLigature                    // multiple character, spacing glyph
	GlyphClassMark                        // non-spacing combining glyph
	GlyphClassComponent                   // part of single character, spacing glyph
)

func (c GlyphClass) String() string {
	switch c {
	case GlyphClassBase:
		return "Base"
	case GlyphClassLigature:
		return "Ligature"
	case GlyphClassMark:
		return "Mark"
	case GlyphClassComponent:
		return "Component"
	}
	return "Unknown"
}

// The GDEF table begins with a header that starts with a version number. Three
// versions are defined. Version 1.0 contains an offset to a Glyph Class Definition
// table (GlyphClassDef), an offset to an Attachment List table (AttachList), an offset
// to a Ligature Caret List table (LigCaretList), and an offset to a Mark Attachment
// Class Definition table (MarkAttachClassDef). Version 1.2 also includes an offset to
// a Mark Glyph Sets Definition table (MarkGlyphSetsDef). Version 1.3 also includes an
// offset to an Item Variation Store table.
func parseGDef(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if len(b) < 12 {
		ec.addError(tag, "Header", fmt.Sprintf("GDEF header too small: %d bytes (need 12)", len(b)), SeverityMajor, offset)
		return nil, errFontFormat("GDEF table header too small")
	}
	gdef := &GDefTable{tableBase: makeTableBase(tag, b, offset, size)}
	gdef.self = gdef
	gdef.MajorVersion, gdef.MinorVersion = u16(b), u16(b[2:])
	if gdef.MajorVersion != 1 || !(gdef.MinorVersion == 0 || gdef.MinorVersion == 2 || gdef.MinorVersion == 3) {
		ec.addError(tag, "Version", fmt.Sprintf("unsupported GDEF version %d.%d", gdef.MajorVersion, gdef.MinorVersion), SeverityMajor, offset)
		return nil, errFontFormat("unsupported GDEF version")
	}
	tracer().Debugf("GDEF table has version %d.%d", gdef.MajorVersion, gdef.MinorVersion)
	var err error
	if off := u16(b[4:]); off != 0 {
		if gdef.glyphClasses, err = parseClassDefinitions(b, int(off)); err != nil {
			ec.addWarning(tag, "GlyphClassDef unreadable", offset+uint32(off))
		}
	}
	if off := u16(b[10:]); off != 0 {
		if gdef.markAttach, err = parseClassDefinitions(b, int(off)); err != nil {
			ec.addWarning(tag, "MarkAttachClassDef unreadable", offset+uint32(off))
		}
	}
	if gdef.MinorVersion >= 2 {
		if off, _ := b.u16(12); off != 0 {
			gdef.markGlyphSets, err = parseMarkGlyphSets(b, int(off))
			if err != nil {
				ec.addWarning(tag, "MarkGlyphSetsDef unreadable", offset+uint32(off))
			}
		}
	}
	return gdef, nil
}

// Mark glyph sets are stored as an array of 32 bit offsets to coverage tables.
func parseMarkGlyphSets(b binarySegm, off int) ([]Coverage, error) {
	r := readerAt(b, off)
	if format := r.u16(); format != 1 {
		return nil, errFontFormat("mark glyph sets format")
	}
	n := int(r.u16())
	if r.err != nil {
		return nil, r.err
	}
	sets := make([]Coverage, 0, n)
	for i := 0; i < n; i++ {
		covOff := r.u32()
		if r.err != nil {
			return sets, r.err
		}
		cov, err := parseCoverage(b, off+int(covOff))
		if err != nil {
			return sets, err
		}
		sets = append(sets, cov)
	}
	return sets, nil
}

// GlyphClass returns the glyph class of g, or GlyphClassUnknown.
func (gdef *GDefTable) GlyphClass(g GlyphIndex) GlyphClass {
	if gdef == nil {
		return GlyphClassUnknown
	}
	switch c := gdef.glyphClasses.Lookup(g); c {
	case 1, 2, 3, 4:
		return GlyphClass(c)
	}
	return GlyphClassUnknown
}

// MarkAttachmentClass returns the mark attachment class of g. Glyphs not
// listed in the table are of class 0.
func (gdef *GDefTable) MarkAttachmentClass(g GlyphIndex) uint16 {
	if gdef == nil {
		return 0
	}
	return gdef.markAttach.Lookup(g)
}

// MarkGlyphSetCount returns the number of mark glyph sets.
func (gdef *GDefTable) MarkGlyphSetCount() int {
	if gdef == nil {
		return 0
	}
	return len(gdef.markGlyphSets)
}

// IsMarkGlyph returns true if g is contained in any of the mark glyph sets.
func (gdef *GDefTable) IsMarkGlyph(g GlyphIndex) bool {
	if gdef == nil {
		return false
	}
	for _, cov := range gdef.markGlyphSets {
		if _, ok := cov.Match(g); ok {
			return true
		}
	}
	return false
}

// IsInMarkGlyphSet returns true if g is contained in mark glyph set number set.
func (gdef *GDefTable) IsInMarkGlyphSet(g GlyphIndex, set int) bool {
	if gdef == nil || set < 0 || set >= len(gdef.markGlyphSets) {
		return false
	}
	_, ok := gdef.markGlyphSets[set].Match(g)
	return ok
}

// --- Class definitions -----------------------------------------------------

// ClassDefinitions assign glyphs to classes. Glyphs not assigned to any class
// are of class 0.
type ClassDefinitions struct {
	format  uint16
	start   GlyphIndex // format 1: first glyph
	records array      // format 1: class values; format 2: class range records
}

// parseClassDefinitions reads a class definition table at offset off of b.
func parseClassDefinitions(b binarySegm, off int) (ClassDefinitions, error) {
	r := readerAt(b, off)
	cdef := ClassDefinitions{format: r.u16()}
	var err error
	switch cdef.format {
	case 1:
		cdef.start = GlyphIndex(r.u16())
		n := int(r.u16())
		if r.err != nil {
			return ClassDefinitions{}, r.err
		}
		cdef.records, err = parseArray(b, off+6, n, 2)
	case 2:
		n := int(r.u16())
		if r.err != nil {
			return ClassDefinitions{}, r.err
		}
		cdef.records, err = parseArray(b, off+4, n, 6)
	default:
		return ClassDefinitions{}, errFontFormat(fmt.Sprintf("class definition format %d", cdef.format))
	}
	if err != nil {
		return ClassDefinitions{}, err
	}
	return cdef, nil
}

// Lookup returns the class of glyph g.
func (cdef ClassDefinitions) Lookup(g GlyphIndex) uint16 {
	switch cdef.format {
	case 1:
		if g < cdef.start {
			return 0
		}
		return u16OrZero(cdef.records.Get(int(g - cdef.start)))
	case 2:
		n := cdef.records.Len()
		i := sort.Search(n, func(i int) bool {
			return GlyphIndex(u16(cdef.records.Get(i)[2:])) >= g
		})
		if i < n {
			rec := cdef.records.Get(i)
			if GlyphIndex(u16(rec)) <= g {
				return u16(rec[4:])
			}
		}
	}
	return 0
}

func u16OrZero(b binarySegm) uint16 {
	if len(b) < 2 {
		return 0
	}
	return u16(b)
}

// --- Coverage tables -------------------------------------------------------

// Coverage is a table of glyphs. It maps glyphs to coverage indices.
type Coverage struct {
	format  uint16
	records array // format 1: glyph IDs; format 2: range records
}

// parseCoverage reads a coverage table at offset off of b.
func parseCoverage(b binarySegm, off int) (Coverage, error) {
	r := readerAt(b, off)
	cov := Coverage{format: r.u16()}
	n := int(r.u16())
	if r.err != nil {
		return Coverage{}, r.err
	}
	var err error
	switch cov.format {
	case 1:
		cov.records, err = parseArray(b, off+4, n, 2)
	case 2:
		cov.records, err = parseArray(b, off+4, n, 6)
	default:
		return Coverage{}, errFontFormat(fmt.Sprintf("coverage format %d", cov.format))
	}
	if err != nil {
		return Coverage{}, err
	}
	return cov, nil
}

// Match returns the coverage index of g and true, if g is covered.
func (cov Coverage) Match(g GlyphIndex) (int, bool) {
	n := cov.records.Len()
	switch cov.format {
	case 1:
		i := sort.Search(n, func(i int) bool {
			return GlyphIndex(u16(cov.records.Get(i))) >= g
		})
		if i < n && GlyphIndex(u16(cov.records.Get(i))) == g {
			return i, true
		}
	case 2:
		i := sort.Search(n, func(i int) bool {
			return GlyphIndex(u16(cov.records.Get(i)[2:])) >= g
		})
		if i < n {
			rec := cov.records.Get(i)
			if start := GlyphIndex(u16(rec)); start <= g {
				return int(u16(rec[4:])) + int(g-start), true
			}
		}
	}
	return 0, false
}
