package ot

import (
	"sort"
	"sync"
)

// Font represents the internal structure of an OpenType font.
// It is used to query glyph mappings, metrics, outlines and variation data.
//
// A Font borrows the byte buffer it has been parsed from. The buffer must not be
// modified while the Font is in use; no font data is copied. Tables other than
// 'head', 'hhea' and 'maxp' are decoded on first access, each at most once. After
// Parse returns, a Font may be queried concurrently from multiple goroutines.
type Font struct {
	Header     *FontHeader
	data       binarySegm           // the complete font buffer (or collection buffer)
	index      int                  // index of this font within a collection, 0 otherwise
	tables     map[Tag]*tableRecord // directory entries by tag, first wins
	ec         *errorCollector      // errors and warnings, appended lazily
	head       *HeadTable           // mandatory
	hhea       *HHeaTable           // mandatory
	maxp       *MaxPTable           // mandatory
	unitsPerEm uint16               // 0 if head states an invalid value
}

// FontHeader is the header preceding a font's table directory. If the font file
// contains only one font, the table directory will begin at byte 0 of the file.
// If the font file is a font collection, the beginning point of the table
// directory for each font is indicated in the collection header.
//
// OpenType fonts that contain TrueType outlines use the value of 0x00010000
// for the FontType. OpenType fonts containing CFF data (version 1 or 2)
// use 0x4F54544F ('OTTO', when re-interpreted as a Tag).
// Apple's 'true' is accepted as well.
type FontHeader struct {
	FontType   uint32
	TableCount uint16
}

// tableRecord is a validated directory entry. The table view is decoded on demand.
type tableRecord struct {
	tag    Tag
	offset uint32
	length uint32
	once   sync.Once
	table  Table // nil if decoding failed
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, or if the table is malformed, nil is returned.
//
// Tables which are not interpreted by this package are returned as generic
// tables, giving access to their binary data.
//
// For example to receive the `OS/2` and the `loca` table, clients may call
//
//	if t := otf.Table(ot.T("OS/2")); t != nil {
//	    os2 := t.Self().AsOS2()
//	    …
//	}
//
// Table tag names are case-sensitive, following the names in the OpenType specification.
func (otf *Font) Table(tag Tag) Table {
	if otf == nil {
		return nil
	}
	rec, ok := otf.tables[tag]
	if !ok {
		return nil
	}
	rec.once.Do(func() {
		rec.table = otf.decodeTable(rec)
	})
	return rec.table
}

// tableSelf returns the TableSelf of the table for tag, or an empty TableSelf if
// the table is absent. All As… conversions of an empty TableSelf return nil.
func (otf *Font) tableSelf(tag Tag) TableSelf {
	if t := otf.Table(tag); t != nil {
		return t.Self()
	}
	return TableSelf{}
}

// HasTable returns true if the font contains a table for tag which has been
// decoded successfully.
func (otf *Font) HasTable(tag Tag) bool {
	return otf.Table(tag) != nil
}

// TableTags returns a list of tags, one for each table listed in the font's
// table directory (with a valid byte range), sorted by tag.
func (otf *Font) TableTags() []Tag {
	var tags = make([]Tag, 0, len(otf.tables))
	for tag := range otf.tables {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// CollectionIndex returns the index of this font within a font collection.
// For a single font it returns 0.
func (otf *Font) CollectionIndex() int {
	return otf.index
}

// Binary returns the font buffer this font has been parsed from. For fonts from
// a collection it is the buffer of the whole collection.
func (otf *Font) Binary() []byte {
	return otf.data
}

// Errors returns all errors encountered during font parsing so far.
// These errors represent issues that were found but did not prevent parsing from completing.
// Tables are decoded lazily, so errors may be added while the font is in use.
func (otf *Font) Errors() []FontError {
	errs, _ := otf.ec.snapshot()
	return errs
}

// Warnings returns all warnings encountered during font parsing so far.
// Warnings indicate potential issues that are generally safe to ignore.
func (otf *Font) Warnings() []FontWarning {
	_, warns := otf.ec.snapshot()
	return warns
}

// CriticalErrors returns all errors with critical severity.
func (otf *Font) CriticalErrors() []FontError {
	return otf.ec.criticalErrors()
}

// GlyphIndex is a glyph index in a font.
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is defined by the OpenType specification as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline.
type Tag uint32

// MakeTag creates a Tag from 4 bytes, e.g.,
// If b is shorter or longer, it will be silently extended or cut as appropriate
//
//	MakeTag([]byte("cmap"))
func MakeTag(b []byte) Tag {
	if b == nil {
		b = []byte{0, 0, 0, 0}
	} else if len(b) > 4 {
		b = b[:4]
	} else if len(b) < 4 {
		b = append([]byte{0, 0, 0, 0}[:4-len(b)], b...)
	}
	return Tag(u32(b))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended or cut as appropriate
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	bytes := []byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	}
	return string(bytes)
}

// --- Table -----------------------------------------------------------------

// Table represents one of the various OpenType font tables.
//
// Tables interpreted by this package: head, hhea, vhea, maxp, hmtx, vmtx, OS/2,
// post, name, cmap, kern, GDEF, VORG, loca, glyf, CFF, CFF2, fvar, avar, gvar,
// HVAR, VVAR and MVAR. All other tables are available as generic tables.
type Table interface {
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table; should be treated as read-only by clients
	Self() TableSelf          // reference to itself
}

func newTable(tag Tag, b binarySegm, offset, size uint32) *genericTable {
	t := &genericTable{}
	t.tableBase = makeTableBase(tag, b, offset, size)
	t.self = t
	return t
}

type genericTable struct {
	tableBase
}

// tableBase is a common parent for all kinds of OpenType tables.
type tableBase struct {
	data   binarySegm // a table is a slice of font data
	name   Tag        // 4-byte name as an integer
	offset uint32     // from offset
	length uint32     // to offset + length
	self   any
}

func makeTableBase(tag Tag, b binarySegm, offset, size uint32) tableBase {
	return tableBase{
		data:   b,
		name:   tag,
		offset: offset,
		length: size,
	}
}

// Extent returns offset and byte size of this table within the OpenType font.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.offset, tb.length
}

// Binary returns the bytes of this table. Should be treated as read-only by
// clients, as it is a view into the original data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour, and for reproducing the
// name tag of a table.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	if tself.tableBase == nil {
		return 0
	}
	return tself.tableBase.name
}

func safeSelf(tself TableSelf) any {
	if tself.tableBase == nil || tself.tableBase.self == nil {
		return TableSelf{}
	}
	return tself.tableBase.self
}

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable {
	if k, ok := safeSelf(tself).(*HeadTable); ok {
		return k
	}
	return nil
}

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable {
	if k, ok := safeSelf(tself).(*MaxPTable); ok {
		return k
	}
	return nil
}

// AsHHea returns this table as a hhea table, or nil.
func (tself TableSelf) AsHHea() *HHeaTable {
	if k, ok := safeSelf(tself).(*HHeaTable); ok && tself.NameTag() == T("hhea") {
		return k
	}
	return nil
}

// AsVHea returns this table as a vhea table, or nil.
func (tself TableSelf) AsVHea() *HHeaTable {
	if k, ok := safeSelf(tself).(*HHeaTable); ok && tself.NameTag() == T("vhea") {
		return k
	}
	return nil
}

// AsHMtx returns this table as a hmtx table, or nil.
func (tself TableSelf) AsHMtx() *MtxTable {
	if k, ok := safeSelf(tself).(*MtxTable); ok && tself.NameTag() == T("hmtx") {
		return k
	}
	return nil
}

// AsVMtx returns this table as a vmtx table, or nil.
func (tself TableSelf) AsVMtx() *MtxTable {
	if k, ok := safeSelf(tself).(*MtxTable); ok && tself.NameTag() == T("vmtx") {
		return k
	}
	return nil
}

// AsOS2 returns this table as an OS/2 table, or nil.
func (tself TableSelf) AsOS2() *OS2Table {
	if k, ok := safeSelf(tself).(*OS2Table); ok {
		return k
	}
	return nil
}

// AsPost returns this table as a post table, or nil.
func (tself TableSelf) AsPost() *PostTable {
	if k, ok := safeSelf(tself).(*PostTable); ok {
		return k
	}
	return nil
}

// AsName returns this table as a name table, or nil.
func (tself TableSelf) AsName() *NameTable {
	if k, ok := safeSelf(tself).(*NameTable); ok {
		return k
	}
	return nil
}

// AsCMap returns this table as a cmap table, or nil.
func (tself TableSelf) AsCMap() *CMapTable {
	if k, ok := safeSelf(tself).(*CMapTable); ok {
		return k
	}
	return nil
}

// AsKern returns this table as a kern table, or nil.
func (tself TableSelf) AsKern() *KernTable {
	if k, ok := safeSelf(tself).(*KernTable); ok {
		return k
	}
	return nil
}

// AsGDef returns this table as a GDEF table, or nil.
func (tself TableSelf) AsGDef() *GDefTable {
	if g, ok := safeSelf(tself).(*GDefTable); ok {
		return g
	}
	return nil
}

// AsVOrg returns this table as a VORG table, or nil.
func (tself TableSelf) AsVOrg() *VOrgTable {
	if k, ok := safeSelf(tself).(*VOrgTable); ok {
		return k
	}
	return nil
}

// AsLoca returns this table as a loca table, or nil.
func (tself TableSelf) AsLoca() *LocaTable {
	if k, ok := safeSelf(tself).(*LocaTable); ok {
		return k
	}
	return nil
}

// AsGlyf returns this table as a glyf table, or nil.
func (tself TableSelf) AsGlyf() *GlyfTable {
	if k, ok := safeSelf(tself).(*GlyfTable); ok {
		return k
	}
	return nil
}

// AsCFF returns this table as a CFF or CFF2 table, or nil.
func (tself TableSelf) AsCFF() *CFFTable {
	if k, ok := safeSelf(tself).(*CFFTable); ok {
		return k
	}
	return nil
}

// AsFVar returns this table as a fvar table, or nil.
func (tself TableSelf) AsFVar() *FVarTable {
	if k, ok := safeSelf(tself).(*FVarTable); ok {
		return k
	}
	return nil
}

// AsAVar returns this table as an avar table, or nil.
func (tself TableSelf) AsAVar() *AVarTable {
	if k, ok := safeSelf(tself).(*AVarTable); ok {
		return k
	}
	return nil
}

// AsGVar returns this table as a gvar table, or nil.
func (tself TableSelf) AsGVar() *GVarTable {
	if k, ok := safeSelf(tself).(*GVarTable); ok {
		return k
	}
	return nil
}

// AsHVar returns this table as a HVAR table, or nil.
func (tself TableSelf) AsHVar() *HVarTable {
	if k, ok := safeSelf(tself).(*HVarTable); ok && tself.NameTag() == T("HVAR") {
		return k
	}
	return nil
}

// AsVVar returns this table as a VVAR table, or nil.
func (tself TableSelf) AsVVar() *HVarTable {
	if k, ok := safeSelf(tself).(*HVarTable); ok && tself.NameTag() == T("VVAR") {
		return k
	}
	return nil
}

// AsMVar returns this table as a MVAR table, or nil.
func (tself TableSelf) AsMVar() *MVarTable {
	if k, ok := safeSelf(tself).(*MVarTable); ok {
		return k
	}
	return nil
}
