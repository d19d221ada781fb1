package ot

import "fmt"

// NameTable gives access to the naming table of a font. Strings are not
// decoded: their encoding depends on platform and encoding ID of each record,
// and decoding is left to clients (see package otquery).
type NameTable struct {
	tableBase
	records array      // name records, 12 bytes each
	storage binarySegm // string storage
}

// NameRecord is the fixed part of a record of table 'name'. Length is the byte
// length of the record's string.
type NameRecord struct {
	PlatformID uint16
	EncodingID uint16
	LanguageID uint16
	NameID     uint16
	Length     uint16
}

const (
	nameHeaderSize = 6
	nameRecordSize = 12
)

func parseName(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	if len(b) < nameHeaderSize {
		return nil, errFontFormat("name section corrupt")
	}
	N, _ := b.u16(2)
	strOffset, _ := b.u16(4)
	t := &NameTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	var err error
	if t.storage, err = b.viewFrom(int(strOffset)); err != nil {
		ec.addError(tag, "Storage", fmt.Sprintf("string offset %d exceeds table size %d", strOffset, len(b)), SeverityMajor, offset)
		return nil, errFontFormat("name table string offset")
	}
	tracer().Debugf("name table has %d strings, starting at %d", N, strOffset)
	if t.records, err = parseArray(b, nameHeaderSize, int(N), nameRecordSize); err != nil {
		ec.addError(tag, "Records", "name records truncated", SeverityMajor, offset)
		return nil, errFontFormat("name section corrupt")
	}
	return t, nil
}

// Count returns the number of name records.
func (t *NameTable) Count() int {
	if t == nil {
		return 0
	}
	return t.records.Len()
}

// Record returns name record number i.
func (t *NameTable) Record(i int) (NameRecord, bool) {
	if t == nil || i < 0 || i >= t.records.Len() {
		return NameRecord{}, false
	}
	r := newReader(t.records.Get(i))
	return NameRecord{
		PlatformID: r.u16(),
		EncodingID: r.u16(),
		LanguageID: r.u16(),
		NameID:     r.u16(),
		Length:     r.u16(),
	}, true
}

// RecordBytes returns the undecoded string of name record number i. The returned
// slice is a view into the font data and must be treated as read-only.
func (t *NameTable) RecordBytes(i int) ([]byte, bool) {
	rec, ok := t.Record(i)
	if !ok {
		return nil, false
	}
	off := u16(t.records.Get(i)[10:])
	str, err := t.storage.view(int(off), int(rec.Length))
	if err != nil {
		return nil, false
	}
	return str, true
}
