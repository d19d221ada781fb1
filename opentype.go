package ttfparse

import (
	"fmt"

	"github.com/npillmayer/ttfparse/ot"
	"github.com/npillmayer/ttfparse/otquery"
	"golang.org/x/image/font/sfnt"
)

// FromBinary parses raw font bytes and returns a decoded font.
//
// The input is either a single font, in which case index must be 0, or a font
// collection. It must not change after parsing for the font to be usable.
func FromBinary(data []byte, index int) (*ot.Font, error) {
	if FontsInCollection(data) < 0 {
		if index != 0 {
			return nil, fmt.Errorf("%w: font index %d for a single font", ot.ErrNoFont, index)
		}
		return ot.Parse(data)
	}
	return ot.ParseCollection(data, index)
}

// FamilyName extracts family and subfamily names from a font's `name` table.
// Typographic family names (name IDs 16 and 17) take precedence over the
// legacy ones.
//
// Returned values are empty if no matching records exist or if records cannot be
// decoded.
func FamilyName(f *ot.Font) (family, subfamily string) {
	var ok bool
	if family, ok = otquery.Name(f, sfnt.NameIDTypographicFamily, 0); !ok {
		family, _ = otquery.Name(f, sfnt.NameIDFamily, 0)
	}
	if subfamily, ok = otquery.Name(f, sfnt.NameIDTypographicSubfamily, 0); !ok {
		subfamily, _ = otquery.Name(f, sfnt.NameIDSubfamily, 0)
	}
	return
}

// CopyNameRecordString copies the raw bytes of name record i into buf. The
// size of buf has to match the length of the record exactly, otherwise
// nothing is copied and false is returned. The bytes are not decoded; use
// ot.Font.NameRecord to find out about platform and encoding.
func CopyNameRecordString(f *ot.Font, i int, buf []byte) bool {
	if f == nil {
		return false
	}
	rec, ok := f.NameRecord(i)
	if !ok || int(rec.Length) != len(buf) {
		return false
	}
	b, ok := f.NameRecordBytes(i)
	if !ok || len(b) != len(buf) {
		return false
	}
	copy(buf, b)
	return true
}
