package otquery

import (
	"github.com/npillmayer/ttfparse/ot"
	"golang.org/x/image/font/sfnt"
)

// AxisInfo describes a variation axis, with its name decoded from table 'name'.
type AxisInfo struct {
	ot.VariationAxis
	Name string // empty if the font does not name the axis
}

// InstanceInfo describes a named instance of a variable font.
type InstanceInfo struct {
	Subfamily  string // e.g. "Bold Condensed"
	PostScript string // empty if not present
	Coords     []float32
}

// VariationInfo collects the axes and named instances of a variable font.
type VariationInfo struct {
	Axes      []AxisInfo
	Instances []InstanceInfo
}

// Variations returns the variation axes and named instances of a font.
// For fonts which are not variable, the second return value is false.
func Variations(otf *ot.Font) (VariationInfo, bool) {
	var info VariationInfo
	if otf == nil || !otf.IsVariable() {
		return info, false
	}
	for i := range otf.VariationAxisCount() {
		axis, _ := otf.VariationAxis(i)
		name, _ := Name(otf, sfnt.NameID(axis.NameID), 0)
		info.Axes = append(info.Axes, AxisInfo{VariationAxis: axis, Name: name})
	}
	for _, inst := range otf.NamedInstances() {
		ii := InstanceInfo{Coords: inst.Coords}
		ii.Subfamily, _ = Name(otf, sfnt.NameID(inst.SubfamilyNameID), 0)
		if inst.PostScriptNameID != 0xffff {
			ii.PostScript, _ = Name(otf, sfnt.NameID(inst.PostScriptNameID), 0)
		}
		info.Instances = append(info.Instances, ii)
	}
	return info, true
}
