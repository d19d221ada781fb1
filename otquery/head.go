package otquery

import (
	"encoding/binary"
	"time"

	"github.com/npillmayer/ttfparse/ot"
)

// HeadTableInfo is a typed query view over OpenType table 'head'.
// Values are decoded directly from the raw table bytes.
type HeadTableInfo struct {
	MajorVersion       uint16
	MinorVersion       uint16
	FontRevision       float64 // from 16.16 fixed point
	CheckSumAdjustment uint32
	MagicNumber        uint32
	Flags              uint16
	UnitsPerEm         uint16
	Created            time.Time
	Modified           time.Time
	XMin, YMin         int16
	XMax, YMax         int16
	MacStyle           uint16
	LowestRecPPEM      uint16
	FontDirectionHint  int16
	IndexToLocFormat   int16
	GlyphDataFormat    int16
}

const (
	headTableSize = 54
	headMagic     = 0x5F0F3CF5
)

// Dates in 'head' count seconds since 1904-01-01 00:00 UTC.
const secondsFrom1904To1970 = 2082844800

func longDateTime(b []byte) time.Time {
	secs := int64(binary.BigEndian.Uint64(b))
	return time.Unix(secs-secondsFrom1904To1970, 0).UTC()
}

// HeadInfo decodes table 'head' from raw bytes.
// Returns (info, true) on success, or (zero, false) if the table is missing, too
// short or does not carry the magic number.
func HeadInfo(otf *ot.Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	if otf == nil {
		return info, false
	}
	table := otf.Table(ot.T("head"))
	if table == nil {
		return info, false
	}
	b := table.Binary()
	if len(b) < headTableSize {
		return info, false
	}
	info.MagicNumber = binary.BigEndian.Uint32(b[12:16])
	if info.MagicNumber != headMagic {
		tracer().Infof("head table has wrong magic number %x", info.MagicNumber)
		return HeadTableInfo{}, false
	}
	info.MajorVersion = binary.BigEndian.Uint16(b[0:2])
	info.MinorVersion = binary.BigEndian.Uint16(b[2:4])
	info.FontRevision = float64(int32(binary.BigEndian.Uint32(b[4:8]))) / 65536
	info.CheckSumAdjustment = binary.BigEndian.Uint32(b[8:12])
	info.Flags = binary.BigEndian.Uint16(b[16:18])
	info.UnitsPerEm = binary.BigEndian.Uint16(b[18:20])
	info.Created = longDateTime(b[20:28])
	info.Modified = longDateTime(b[28:36])
	info.XMin = int16(binary.BigEndian.Uint16(b[36:38]))
	info.YMin = int16(binary.BigEndian.Uint16(b[38:40]))
	info.XMax = int16(binary.BigEndian.Uint16(b[40:42]))
	info.YMax = int16(binary.BigEndian.Uint16(b[42:44]))
	info.MacStyle = binary.BigEndian.Uint16(b[44:46])
	info.LowestRecPPEM = binary.BigEndian.Uint16(b[46:48])
	info.FontDirectionHint = int16(binary.BigEndian.Uint16(b[48:50]))
	info.IndexToLocFormat = int16(binary.BigEndian.Uint16(b[50:52]))
	info.GlyphDataFormat = int16(binary.BigEndian.Uint16(b[52:54]))
	return info, true
}
