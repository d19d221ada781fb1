package otquery

import (
	"iter"

	"github.com/npillmayer/ttfparse/ot"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// PlatformID is the platform a name record is intended for.
type PlatformID uint16

const (
	PlatformIDUnicode   PlatformID = 0
	PlatformIDMacintosh PlatformID = 1
	PlatformIDWindows   PlatformID = 3
)

// EncodingID is the platform-specific encoding of a name record.
type EncodingID uint16

const (
	EncodingIDMacRoman      EncodingID = 0 // for platform Macintosh
	EncodingIDWindowsSymbol EncodingID = 0 // symbol fonts; strings are UTF-16 nevertheless
	EncodingIDWindowsBMP    EncodingID = 1
	EncodingIDWindowsUCS4   EncodingID = 10
)

const (
	languageIDWindowsEnglish = 0x0409
	languageIDMacEnglish     = 0
)

// NameKey identifies a name record in OpenType table 'name'.
// The key follows the OpenType NameRecord fields directly.
type NameKey struct {
	Platform PlatformID
	Encoding EncodingID
	Language uint16
	Name     sfnt.NameID // see https://pkg.go.dev/golang.org/x/image/font/sfnt#NameID
}

// nameDecoder returns a decoder for the encoding of a name record, or nil if
// the encoding is not supported.
func nameDecoder(key NameKey) *encoding.Decoder {
	switch key.Platform {
	case PlatformIDUnicode:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	case PlatformIDWindows:
		switch key.Encoding {
		case EncodingIDWindowsSymbol, EncodingIDWindowsBMP, EncodingIDWindowsUCS4:
			return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		}
	case PlatformIDMacintosh:
		if key.Encoding == EncodingIDMacRoman {
			return charmap.Macintosh.NewDecoder()
		}
	}
	return nil
}

// Names yields all decodable name records of a font, together with their keys.
// Records with unsupported encodings, undecodable strings or strings outside
// of the table's storage area are skipped.
func Names(otf *ot.Font) iter.Seq2[NameKey, string] {
	return func(yield func(NameKey, string) bool) {
		if otf == nil {
			return
		}
		for i := range otf.NameRecordCount() {
			rec, ok := otf.NameRecord(i)
			if !ok {
				continue
			}
			key := NameKey{
				Platform: PlatformID(rec.PlatformID),
				Encoding: EncodingID(rec.EncodingID),
				Language: rec.LanguageID,
				Name:     sfnt.NameID(rec.NameID),
			}
			dec := nameDecoder(key)
			if dec == nil {
				continue
			}
			b, ok := otf.NameRecordBytes(i)
			if !ok {
				tracer().Debugf("name record %d is out of bounds", i)
				continue
			}
			s, err := dec.Bytes(b)
			if err != nil || len(s) == 0 {
				continue
			}
			if !yield(key, string(s)) {
				return
			}
		}
	}
}

// NamesRange yields decoded `(nameID, value)` pairs from a font's OpenType
// `name` table. Name IDs are repeated if the font contains strings for more
// than one platform or language.
func NamesRange(otf *ot.Font) iter.Seq2[sfnt.NameID, string] {
	return func(yield func(sfnt.NameID, string) bool) {
		for key, s := range Names(otf) {
			if !yield(key.Name, s) {
				return
			}
		}
	}
}

// namePreference ranks a name record: Windows strings in the requested language
// win over Unicode strings, which win over Windows strings in other languages,
// which in turn win over Macintosh strings.
func namePreference(key NameKey, lang uint16) int {
	switch key.Platform {
	case PlatformIDWindows:
		if key.Language == lang {
			return 4
		}
		return 2
	case PlatformIDUnicode:
		return 3
	case PlatformIDMacintosh:
		if key.Language == languageIDMacEnglish {
			return 1
		}
	}
	return 0
}

// Name returns the best string for name ID id, preferring Windows language
// lang (0 selects US English).
func Name(otf *ot.Font, id sfnt.NameID, lang uint16) (string, bool) {
	if lang == 0 {
		lang = languageIDWindowsEnglish
	}
	best, rank := "", -1
	for key, s := range Names(otf) {
		if key.Name != id {
			continue
		}
		if r := namePreference(key, lang); r > rank {
			best, rank = s, r
		}
	}
	return best, rank >= 0
}

var nameInfoKeys = map[sfnt.NameID]string{
	sfnt.NameIDCopyright:            "copyright",
	sfnt.NameIDFamily:               "family",
	sfnt.NameIDSubfamily:            "subfamily",
	sfnt.NameIDUniqueIdentifier:     "unique",
	sfnt.NameIDFull:                 "full",
	sfnt.NameIDVersion:              "version",
	sfnt.NameIDPostScript:           "postscript",
	sfnt.NameIDTrademark:            "trademark",
	sfnt.NameIDManufacturer:         "manufacturer",
	sfnt.NameIDDesigner:             "designer",
	sfnt.NameIDLicense:              "license",
	sfnt.NameIDTypographicFamily:    "typographic-family",
	sfnt.NameIDTypographicSubfamily: "typographic-subfamily",
}

// NameInfo returns general information about a font, collected from table
// 'name'. Keys of the map are "family", "subfamily", "full", "version",
// "postscript" and more; keys are missing if the font does not contain a
// string for them. lang selects the preferred Windows language ID; 0 selects
// US English.
func NameInfo(otf *ot.Font, lang uint16) map[string]string {
	info := make(map[string]string)
	for id, key := range nameInfoKeys {
		if s, ok := Name(otf, id, lang); ok {
			info[key] = s
		}
	}
	return info
}
