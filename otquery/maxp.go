package otquery

import (
	"encoding/binary"

	"github.com/npillmayer/ttfparse/ot"
)

// MaxPTableInfo is a typed query view over OpenType table 'maxp'.
//
// Fonts with CFF outlines use version 0.5 of the table, which holds the number
// of glyphs only. For version 1.0 tables, the TrueType profile is decoded as well.
type MaxPTableInfo struct {
	Version   uint32 // 0x00005000 or 0x00010000
	NumGlyphs uint16
	Profile   *TrueTypeProfile // nil for version 0.5
}

// TrueTypeProfile holds the memory requirements of a font with TrueType outlines.
type TrueTypeProfile struct {
	MaxPoints             uint16
	MaxContours           uint16
	MaxCompositePoints    uint16
	MaxCompositeContours  uint16
	MaxZones              uint16
	MaxTwilightPoints     uint16
	MaxStorage            uint16
	MaxFunctionDefs       uint16
	MaxInstructionDefs    uint16
	MaxStackElements      uint16
	MaxSizeOfInstructions uint16
	MaxComponentElements  uint16
	MaxComponentDepth     uint16
}

const (
	maxpMinSize = 6
	maxpV10Size = 32
)

// MaxPInfo decodes table 'maxp' directly from raw bytes.
// Returns (info, true) on success, or (zero, false) if the table is missing or too short.
func MaxPInfo(otf *ot.Font) (MaxPTableInfo, bool) {
	var info MaxPTableInfo
	if otf == nil {
		return info, false
	}
	table := otf.Table(ot.T("maxp"))
	if table == nil {
		return info, false
	}
	b := table.Binary()
	if len(b) < maxpMinSize {
		return info, false
	}
	info.Version = binary.BigEndian.Uint32(b[0:4])
	info.NumGlyphs = binary.BigEndian.Uint16(b[4:6])
	if info.Version != 0x00010000 || len(b) < maxpV10Size {
		return info, true
	}
	fields := make([]uint16, 13)
	for i := range fields {
		fields[i] = binary.BigEndian.Uint16(b[6+2*i:])
	}
	info.Profile = &TrueTypeProfile{
		MaxPoints:             fields[0],
		MaxContours:           fields[1],
		MaxCompositePoints:    fields[2],
		MaxCompositeContours:  fields[3],
		MaxZones:              fields[4],
		MaxTwilightPoints:     fields[5],
		MaxStorage:            fields[6],
		MaxFunctionDefs:       fields[7],
		MaxInstructionDefs:    fields[8],
		MaxStackElements:      fields[9],
		MaxSizeOfInstructions: fields[10],
		MaxComponentElements:  fields[11],
		MaxComponentDepth:     fields[12],
	}
	return info, true
}
