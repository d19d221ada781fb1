package ot

import (
	"fmt"
	"math"
)

// FVarTable is the font variations table. It defines the variation axes of a
// variable font and its named instances.
type FVarTable struct {
	tableBase
	axes      []VariationAxis
	instances []NamedInstance
}

// VariationAxis is a design axis of a variable font. User coordinates of the
// axis range from MinValue to MaxValue, with MinValue <= DefValue <= MaxValue.
type VariationAxis struct {
	Tag      Tag
	MinValue float32
	DefValue float32
	MaxValue float32
	NameID   uint16 // name ID of the axis name in table 'name'
	Hidden   bool   // the axis should not be exposed in user interfaces
}

// NamedInstance is a predefined instance of a variable font, given as user
// coordinates, one for every axis.
type NamedInstance struct {
	SubfamilyNameID  uint16
	PostScriptNameID uint16 // 0xffff if not present
	Coords           []float32
}

const fvarHiddenAxis = 0x0001

func parseFVar(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	r := newReader(b)
	major := r.u16()
	r.skip(2) // minor version
	axesOffset := int(r.u16())
	r.skip(2) // reserved
	axisCount := int(r.u16())
	axisSize := int(r.u16())
	instanceCount := int(r.u16())
	instanceSize := int(r.u16())
	if r.err != nil || major != 1 {
		return nil, errFontFormat("fvar table header")
	}
	if axisSize != 20 || axisCount > MaxAxisCount {
		ec.addError(tag, "Header", fmt.Sprintf("axis count %d with record size %d", axisCount, axisSize), SeverityMajor, offset)
		return nil, errFontFormat("fvar axis records")
	}
	axes, err := parseArray(b, axesOffset, axisCount, axisSize)
	if err != nil {
		ec.addError(tag, "Axes", "axis records exceed table size", SeverityMajor, offset)
		return nil, errFontFormat("fvar axis records")
	}
	t := &FVarTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	t.axes = make([]VariationAxis, axisCount)
	for i := range t.axes {
		ar := newReader(axes.Get(i))
		axis := VariationAxis{
			Tag:      Tag(ar.u32()),
			MinValue: ar.fixed(),
			DefValue: ar.fixed(),
			MaxValue: ar.fixed(),
		}
		axis.Hidden = ar.u16()&fvarHiddenAxis != 0
		axis.NameID = ar.u16()
		// Enforce min <= default <= max for malformed fonts.
		axis.MinValue = min(axis.MinValue, axis.DefValue)
		axis.MaxValue = max(axis.MaxValue, axis.DefValue)
		tracer().Debugf("variation axis %s: %.2f %.2f %.2f", axis.Tag, axis.MinValue, axis.DefValue, axis.MaxValue)
		t.axes[i] = axis
	}
	// "The instanceSize value must be either axisCount * sizeof(Fixed) + 4, or
	// axisCount * sizeof(Fixed) + 6."
	withPSName := instanceSize == axisCount*4+6
	if instanceSize != axisCount*4+4 && !withPSName {
		ec.addWarning(tag, fmt.Sprintf("invalid instance record size %d", instanceSize), offset)
		return t, nil
	}
	instances, err := parseArray(b, axesOffset+axisCount*axisSize, instanceCount, instanceSize)
	if err != nil {
		ec.addWarning(tag, "instance records exceed table size", offset)
		return t, nil
	}
	t.instances = make([]NamedInstance, instanceCount)
	for i := range t.instances {
		ir := newReader(instances.Get(i))
		inst := NamedInstance{SubfamilyNameID: ir.u16(), PostScriptNameID: 0xffff}
		ir.skip(2) // flags
		inst.Coords = make([]float32, axisCount)
		for j := range inst.Coords {
			inst.Coords[j] = ir.fixed()
		}
		if withPSName {
			inst.PostScriptNameID = ir.u16()
		}
		t.instances[i] = inst
	}
	return t, nil
}

// AxisCount returns the number of variation axes.
func (t *FVarTable) AxisCount() int {
	if t == nil {
		return 0
	}
	return len(t.axes)
}

// normalize maps a user coordinate of axis i to the normalized range [-1, 1].
// The default value maps to 0.
func (t *FVarTable) normalize(i int, v float32) float32 {
	axis := t.axes[i]
	v = min(max(v, axis.MinValue), axis.MaxValue)
	switch {
	case v < axis.DefValue && axis.DefValue > axis.MinValue:
		return -(axis.DefValue - v) / (axis.DefValue - axis.MinValue)
	case v > axis.DefValue && axis.MaxValue > axis.DefValue:
		return (v - axis.DefValue) / (axis.MaxValue - axis.DefValue)
	}
	return 0
}

// --- avar ------------------------------------------------------------------

// AVarTable is the axis variations table. It modifies the normalization of
// user coordinates by piecewise linear segment maps, one for each axis.
type AVarTable struct {
	tableBase
	segments [][]axisValueMap
}

type axisValueMap struct {
	from, to F2Dot14
}

func parseAVar(tag Tag, b binarySegm, offset, size uint32, ec *errorCollector) (Table, error) {
	r := newReader(b)
	major := r.u16()
	r.skip(4) // minor version, reserved
	axisCount := int(r.u16())
	if r.err != nil || major != 1 {
		return nil, errFontFormat("avar table header")
	}
	if axisCount > MaxAxisCount {
		return nil, errFontFormat(fmt.Sprintf("avar axis count %d", axisCount))
	}
	t := &AVarTable{tableBase: makeTableBase(tag, b, offset, size)}
	t.self = t
	t.segments = make([][]axisValueMap, axisCount)
	for i := range t.segments {
		n := int(r.u16())
		if r.err != nil || n*4 > r.remaining() {
			ec.addError(tag, "SegmentMaps", fmt.Sprintf("segment map of axis %d truncated", i), SeverityMajor, offset)
			return nil, errFontFormat("avar segment maps")
		}
		maps := make([]axisValueMap, n)
		for j := range maps {
			maps[j] = axisValueMap{from: r.f2dot14(), to: r.f2dot14()}
		}
		t.segments[i] = maps
	}
	return t, nil
}

// AxisCount returns the number of segment maps.
func (t *AVarTable) AxisCount() int {
	if t == nil {
		return 0
	}
	return len(t.segments)
}

// mapCoords applies the segment maps to normalized coordinates, in place.
// The number of coordinates has to match the number of segment maps.
func (t *AVarTable) mapCoords(coords []F2Dot14) {
	if t == nil || len(coords) != len(t.segments) {
		return
	}
	for i, maps := range t.segments {
		coords[i] = mapAxisValue(maps, coords[i])
	}
}

// mapAxisValue maps v with a piecewise linear function. The segments are
// expected to be sorted by 'from'; they are used as given.
func mapAxisValue(maps []axisValueMap, v F2Dot14) F2Dot14 {
	switch len(maps) {
	case 0:
		return v
	case 1:
		return clampF2Dot14(int32(v) - int32(maps[0].from) + int32(maps[0].to))
	}
	if v <= maps[0].from {
		return clampF2Dot14(int32(v) - int32(maps[0].from) + int32(maps[0].to))
	}
	i := 1
	for i < len(maps) && v > maps[i].from {
		i++
	}
	if i == len(maps) {
		i--
	}
	curr := maps[i]
	if v >= curr.from {
		return clampF2Dot14(int32(v) - int32(curr.from) + int32(curr.to))
	}
	prev := maps[i-1]
	if prev.from == curr.from {
		return prev.to
	}
	denom := int32(curr.from) - int32(prev.from)
	k := (int32(curr.to)-int32(prev.to))*(int32(v)-int32(prev.from)) + denom/2
	return clampF2Dot14(int32(prev.to) + k/denom)
}

func clampF2Dot14(v int32) F2Dot14 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	} else if v < math.MinInt16 {
		return math.MinInt16
	}
	return F2Dot14(v)
}

// --- Font methods ----------------------------------------------------------

// IsVariable returns true if the font has table 'fvar' with at least one axis.
func (otf *Font) IsVariable() bool {
	return otf.VariationAxisCount() > 0
}

// VariationAxisCount returns the number of variation axes of the font.
func (otf *Font) VariationAxisCount() int {
	return otf.tableSelf(T("fvar")).AsFVar().AxisCount()
}

// VariationAxis returns axis number i.
func (otf *Font) VariationAxis(i int) (VariationAxis, bool) {
	fvar := otf.tableSelf(T("fvar")).AsFVar()
	if i < 0 || i >= fvar.AxisCount() {
		return VariationAxis{}, false
	}
	return fvar.axes[i], true
}

// VariationAxisByTag returns the first axis with the given tag.
func (otf *Font) VariationAxisByTag(tag Tag) (VariationAxis, bool) {
	fvar := otf.tableSelf(T("fvar")).AsFVar()
	for i := 0; i < fvar.AxisCount(); i++ {
		if fvar.axes[i].Tag == tag {
			return fvar.axes[i], true
		}
	}
	return VariationAxis{}, false
}

// NamedInstances returns the named instances of a variable font.
func (otf *Font) NamedInstances() []NamedInstance {
	fvar := otf.tableSelf(T("fvar")).AsFVar()
	if fvar == nil {
		return nil
	}
	return fvar.instances
}

// NormalizeVariationCoords converts user coordinates, one for every axis, to
// normalized coordinates. Each value is clamped to the range of its axis,
// normalized linearly around the axis default and then mapped by table 'avar',
// if present. The default values of all axes normalize to 0.
//
// An error wrapping ErrCoordCount is returned if len(user) does not match the
// number of axes.
func (otf *Font) NormalizeVariationCoords(user []float32) ([]F2Dot14, error) {
	fvar := otf.tableSelf(T("fvar")).AsFVar()
	if fvar == nil {
		return nil, fmt.Errorf("%w: font has no fvar table", ErrTableMissing)
	}
	if len(user) != fvar.AxisCount() {
		return nil, fmt.Errorf("%w: got %d, font has %d axes", ErrCoordCount, len(user), fvar.AxisCount())
	}
	coords := make([]F2Dot14, len(user))
	for i, v := range user {
		coords[i] = F2Dot14FromFloat(fvar.normalize(i, v))
	}
	otf.tableSelf(T("avar")).AsAVar().mapCoords(coords)
	return coords, nil
}

// MapVariationCoords applies the segment maps of table 'avar' to normalized
// coordinates, in place. Without 'avar' the coordinates remain unchanged.
//
// An error wrapping ErrCoordCount is returned if len(coords) does not match the
// number of axes.
func (otf *Font) MapVariationCoords(coords []F2Dot14) error {
	if n := otf.VariationAxisCount(); len(coords) != n {
		return fmt.Errorf("%w: got %d, font has %d axes", ErrCoordCount, len(coords), n)
	}
	otf.tableSelf(T("avar")).AsAVar().mapCoords(coords)
	return nil
}
