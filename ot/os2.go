package ot

import "fmt"

// OS2Table contains the OS/2 and Windows specific metrics of a font, as far
// as they are needed for style queries and line metrics.
type OS2Table struct {
	tableBase
	Version       uint16
	XAvgCharWidth int16
	WeightClass   uint16
	WidthClass    uint16
	Subscript     ScriptMetrics
	Superscript   ScriptMetrics
	Strikeout     LineMetrics
	FsSelection   uint16
	TypoAscender  int16
	TypoDescender int16
	TypoLineGap   int16
	WinAscent     uint16
	WinDescent    uint16
	XHeight       int16 // version 2 and later
	CapHeight     int16 // version 2 and later
}

// LineMetrics describes a decoration line, such as an underline or strikeout,
// in font design units.
type LineMetrics struct {
	Position  int16
	Thickness int16
}

// ScriptMetrics describes the size and offset of subscripts or superscripts,
// in font design units.
type ScriptMetrics struct {
	XSize   int16
	YSize   int16
	XOffset int16
	YOffset int16
}

// Bits of field fsSelection.
const (
	fsSelectionItalic         = 1 << 0
	fsSelectionBold           = 1 << 5
	fsSelectionRegular        = 1 << 6
	fsSelectionUseTypoMetrics = 1 << 7
	fsSelectionOblique        = 1 << 9
)

// Style is the style of a font as stated by table OS/2.
type Style int

const (
	StyleNormal Style = iota
	StyleItalic
	StyleOblique
)

func (s Style) String() string {
	switch s {
	case StyleItalic:
		return "Italic"
	case StyleOblique:
		return "Oblique"
	}
	return "Normal"
}

func parseOS2(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	version, err := b.u16(0)
	if err != nil {
		return nil, errFontFormat("OS/2 table header")
	}
	var minSize uint32
	switch {
	case version == 0:
		minSize = 78
	case version == 1:
		minSize = 86
	case version <= 4:
		minSize = 96
	case version == 5:
		minSize = 100
	default:
		// Unknown future versions are expected to extend version 5.
		minSize = 100
		ec.addWarning(tag, fmt.Sprintf("unknown OS/2 version %d", version), offset)
	}
	if size < minSize {
		ec.addError(tag, "Size", fmt.Sprintf("OS/2 v%d table too small: %d bytes (need %d)", version, size, minSize), SeverityMajor, offset)
		return nil, errFontFormat("size of OS/2 table")
	}
	t := &OS2Table{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	t.Version = version
	r := readerAt(b, 2)
	t.XAvgCharWidth = r.i16()
	t.WeightClass = r.u16()
	t.WidthClass = r.u16()
	r.skip(2) // fsType
	t.Subscript = readScriptMetrics(r)
	t.Superscript = readScriptMetrics(r)
	t.Strikeout.Thickness = r.i16()
	t.Strikeout.Position = r.i16()
	r.seek(62)
	t.FsSelection = r.u16()
	r.skip(4) // first and last char index
	t.TypoAscender = r.i16()
	t.TypoDescender = r.i16()
	t.TypoLineGap = r.i16()
	t.WinAscent = r.u16()
	t.WinDescent = r.u16()
	if version >= 2 {
		r.seek(86)
		t.XHeight = r.i16()
		t.CapHeight = r.i16()
	}
	return t, r.err
}

func readScriptMetrics(r *reader) ScriptMetrics {
	return ScriptMetrics{
		XSize:   r.i16(),
		YSize:   r.i16(),
		XOffset: r.i16(),
		YOffset: r.i16(),
	}
}

// Style returns the style flag of the font. Oblique is only recognized for
// table versions 4 and later.
func (t *OS2Table) Style() Style {
	if t.FsSelection&fsSelectionItalic != 0 {
		return StyleItalic
	} else if t.Version >= 4 && t.FsSelection&fsSelectionOblique != 0 {
		return StyleOblique
	}
	return StyleNormal
}

// IsBold returns true if the bold bit of fsSelection is set.
func (t *OS2Table) IsBold() bool {
	return t.FsSelection&fsSelectionBold != 0
}

// UseTypoMetrics returns true if the typographic metrics should be used for
// line layout instead of the metrics in 'hhea'.
func (t *OS2Table) UseTypoMetrics() bool {
	return t.Version >= 4 && t.FsSelection&fsSelectionUseTypoMetrics != 0
}
