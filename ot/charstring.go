package ot

import (
	"fmt"
	"math"
)

// Type 2 charstring operators. Two-byte operators are 1200+b1.
const (
	csHStem      = 1
	csVStem      = 3
	csVMoveTo    = 4
	csRLineTo    = 5
	csHLineTo    = 6
	csVLineTo    = 7
	csRRCurveTo  = 8
	csCallSubr   = 10
	csReturn     = 11
	csEscape     = 12
	csEndChar    = 14
	csVsIndex    = 15
	csBlend      = 16
	csHStemHM    = 18
	csHintMask   = 19
	csCntrMask   = 20
	csRMoveTo    = 21
	csHMoveTo    = 22
	csVStemHM    = 23
	csRCurveLine = 24
	csRLineCurve = 25
	csVVCurveTo  = 26
	csHHCurveTo  = 27
	csShortInt   = 28
	csCallGSubr  = 29
	csVHCurveTo  = 30
	csHVCurveTo  = 31
	csDotSection = 1200
	csHFlex      = 1234
	csFlex       = 1235
	csHFlex1     = 1236
	csFlex1      = 1237
)

// maxCharstringOps bounds the number of operators executed for a single glyph,
// including operators in called subroutines.
const maxCharstringOps = 1 << 18

// outline interprets the charstring of glyph g and sends its path to sink.
// coords are the normalized variation coordinates for CFF2 blend operators;
// nil selects the default instance.
func (t *CFFTable) outline(g GlyphIndex, coords []F2Dot14, sink OutlineBuilder) error {
	if int(g) >= t.charStrings.count {
		return fmt.Errorf("%w: %d >= %d charstrings", ErrGlyphRange, g, t.charStrings.count)
	}
	in := &csInterpreter{
		cff:      t,
		sink:     sink,
		coords:   coords,
		maxStack: MaxCFFStack,
	}
	if t.isCFF2 {
		in.maxStack = MaxCFF2Stack
	}
	in.stack = make([]float32, 0, in.maxStack)
	return in.glyph(g, 0, 0)
}

// csInterpreter executes Type 2 charstrings. Hints are counted, to be able to
// skip hint masks, but otherwise ignored.
type csInterpreter struct {
	cff       *CFFTable
	sink      OutlineBuilder
	coords    []F2Dot14
	local     cffIndex
	vsindex   int
	scalars   []float32 // region scalars for vsindex, computed on first blend
	stack     []float32
	maxStack  int
	x, y      float32 // current point
	startX    float32 // start of the current contour
	startY    float32
	dx, dy    float32 // offset of an accent glyph
	open      bool    // a contour has been started
	stems     int
	widthSeen bool
	ended     bool
	inSeac    bool
	ops       int
}

// glyph runs the charstring of glyph g, with all points shifted by (dx, dy).
func (in *csInterpreter) glyph(g GlyphIndex, dx, dy float32) error {
	code, err := in.cff.charStrings.get(int(g))
	if err != nil {
		return fmt.Errorf("%w: charstring %d: %v", ErrCharstring, g, err)
	}
	priv, err := in.cff.privateFor(g)
	if err != nil {
		return err
	}
	in.local = priv.subrs
	in.vsindex, in.scalars = priv.vsindex, nil
	in.stack = in.stack[:0]
	in.x, in.y, in.dx, in.dy = 0, 0, dx, dy
	in.open, in.stems, in.widthSeen, in.ended = false, 0, false, false
	if err := in.run(code, 0); err != nil {
		return err
	}
	in.closeContour()
	return nil
}

func (in *csInterpreter) run(code binarySegm, depth int) error {
	if depth > MaxSubroutineDepth {
		return fmt.Errorf("%w: charstring subroutines nested deeper than %d", ErrOutlineDepth, MaxSubroutineDepth)
	}
	r := newReader(code)
	for r.remaining() > 0 && !in.ended {
		b0 := r.u8()
		if b0 >= 32 || b0 == csShortInt {
			if err := in.push(in.readNumber(r, b0)); err != nil {
				return err
			}
			if r.err != nil {
				return fmt.Errorf("%w: number truncated", ErrCharstring)
			}
			continue
		}
		in.ops++
		if in.ops > maxCharstringOps {
			return fmt.Errorf("%w: program too long", ErrCharstring)
		}
		op := int(b0)
		if b0 == csEscape {
			op = 1200 + int(r.u8())
			if r.err != nil {
				return fmt.Errorf("%w: operator truncated", ErrCharstring)
			}
		}
		switch op {
		case csCallSubr, csCallGSubr:
			if err := in.callSubr(op, depth); err != nil {
				return err
			}
		case csReturn:
			return nil
		case csHintMask, csCntrMask:
			in.width(len(in.stack)%2 == 1)
			in.stems += len(in.stack) / 2
			r.skip((in.stems + 7) / 8)
			if r.err != nil {
				return fmt.Errorf("%w: hint mask truncated", ErrCharstring)
			}
			in.stack = in.stack[:0]
		default:
			if err := in.execute(op); err != nil {
				return err
			}
		}
	}
	return nil
}

func (in *csInterpreter) readNumber(r *reader, b0 byte) float32 {
	switch {
	case b0 == csShortInt:
		return float32(r.i16())
	case b0 <= 246:
		return float32(int(b0) - 139)
	case b0 <= 250:
		return float32((int(b0)-247)*256 + int(r.u8()) + 108)
	case b0 <= 254:
		return float32(-(int(b0)-251)*256 - int(r.u8()) - 108)
	}
	return fixedToFloat(r.i32())
}

func (in *csInterpreter) push(v float32) error {
	if len(in.stack) >= in.maxStack {
		return fmt.Errorf("%w: argument stack overflow", ErrCharstring)
	}
	in.stack = append(in.stack, v)
	return nil
}

func (in *csInterpreter) callSubr(op int, depth int) error {
	if len(in.stack) == 0 {
		return fmt.Errorf("%w: subroutine call without index", ErrCharstring)
	}
	subrs := in.local
	if op == csCallGSubr {
		subrs = in.cff.globalSubrs
	}
	n := len(in.stack) - 1
	i := int(in.stack[n]) + subrBias(subrs.count)
	in.stack = in.stack[:n]
	code, err := subrs.get(i)
	if err != nil {
		return fmt.Errorf("%w: subroutine %d not found", ErrCharstring, i)
	}
	return in.run(code, depth+1)
}

func subrBias(count int) int {
	if count < 1240 {
		return 107
	} else if count < 33900 {
		return 1131
	}
	return 32768
}

// width drops the advance width argument of a CFF charstring, which may
// precede the arguments of the first stack-clearing operator.
func (in *csInterpreter) width(present bool) {
	if in.cff.isCFF2 || in.widthSeen {
		return
	}
	in.widthSeen = true
	if present && len(in.stack) > 0 {
		in.stack = append(in.stack[:0], in.stack[1:]...)
	}
}

func (in *csInterpreter) execute(op int) error {
	args := in.stack
	var err error
	switch op {
	case csHStem, csVStem, csHStemHM, csVStemHM:
		in.width(len(args)%2 == 1)
		in.stems += len(in.stack) / 2
	case csRMoveTo:
		in.width(len(args) > 2)
		if args, err = in.need(2); err == nil {
			in.moveTo(args[0], args[1])
		}
	case csHMoveTo:
		in.width(len(args) > 1)
		if args, err = in.need(1); err == nil {
			in.moveTo(args[0], 0)
		}
	case csVMoveTo:
		in.width(len(args) > 1)
		if args, err = in.need(1); err == nil {
			in.moveTo(0, args[0])
		}
	case csRLineTo:
		if len(args) < 2 || len(args)%2 != 0 {
			return in.argError(op)
		}
		for i := 0; i < len(args); i += 2 {
			in.lineTo(args[i], args[i+1])
		}
	case csHLineTo, csVLineTo:
		if len(args) == 0 {
			return in.argError(op)
		}
		horizontal := op == csHLineTo
		for _, a := range args {
			if horizontal {
				in.lineTo(a, 0)
			} else {
				in.lineTo(0, a)
			}
			horizontal = !horizontal
		}
	case csRRCurveTo:
		if len(args) < 6 || len(args)%6 != 0 {
			return in.argError(op)
		}
		for i := 0; i < len(args); i += 6 {
			in.curveTo(args[i], args[i+1], args[i+2], args[i+3], args[i+4], args[i+5])
		}
	case csRCurveLine:
		if len(args) < 8 || (len(args)-2)%6 != 0 {
			return in.argError(op)
		}
		i := 0
		for ; i+2 < len(args); i += 6 {
			in.curveTo(args[i], args[i+1], args[i+2], args[i+3], args[i+4], args[i+5])
		}
		in.lineTo(args[i], args[i+1])
	case csRLineCurve:
		if len(args) < 8 || (len(args)-6)%2 != 0 {
			return in.argError(op)
		}
		i := 0
		for ; i+6 < len(args); i += 2 {
			in.lineTo(args[i], args[i+1])
		}
		in.curveTo(args[i], args[i+1], args[i+2], args[i+3], args[i+4], args[i+5])
	case csVVCurveTo:
		if len(args) < 4 || len(args)%4 > 1 {
			return in.argError(op)
		}
		var dx1 float32
		if len(args)%4 == 1 {
			dx1, args = args[0], args[1:]
		}
		for i := 0; i < len(args); i += 4 {
			in.curveTo(dx1, args[i], args[i+1], args[i+2], 0, args[i+3])
			dx1 = 0
		}
	case csHHCurveTo:
		if len(args) < 4 || len(args)%4 > 1 {
			return in.argError(op)
		}
		var dy1 float32
		if len(args)%4 == 1 {
			dy1, args = args[0], args[1:]
		}
		for i := 0; i < len(args); i += 4 {
			in.curveTo(args[i], dy1, args[i+1], args[i+2], args[i+3], 0)
			dy1 = 0
		}
	case csHVCurveTo, csVHCurveTo:
		if len(args) < 4 || len(args)%4 > 1 {
			return in.argError(op)
		}
		in.alternatingCurves(args, op == csHVCurveTo)
	case csEndChar:
		if in.cff.isCFF2 {
			return fmt.Errorf("%w: endchar in CFF2 charstring", ErrCharstring)
		}
		in.width(len(args) == 1 || len(args) == 5)
		args = in.stack
		if len(args) == 4 {
			return in.seac(args[0], args[1], args[2], args[3])
		}
		in.closeContour()
		in.ended = true
	case csVsIndex:
		if !in.cff.isCFF2 {
			return in.reserved(op)
		}
		if args, err = in.need(1); err == nil {
			in.vsindex, in.scalars = int(args[0]), nil
		}
	case csBlend:
		if !in.cff.isCFF2 {
			return in.reserved(op)
		}
		return in.blend()
	case csDotSection:
	case csFlex:
		if args, err = in.need(13); err == nil {
			in.curveTo(args[0], args[1], args[2], args[3], args[4], args[5])
			in.curveTo(args[6], args[7], args[8], args[9], args[10], args[11])
		}
	case csHFlex:
		if args, err = in.need(7); err == nil {
			in.curveTo(args[0], 0, args[1], args[2], args[3], 0)
			in.curveTo(args[4], 0, args[5], -args[2], args[6], 0)
		}
	case csHFlex1:
		if args, err = in.need(9); err == nil {
			in.curveTo(args[0], args[1], args[2], args[3], args[4], 0)
			in.curveTo(args[5], 0, args[6], args[7], args[8], -(args[1] + args[3] + args[7]))
		}
	case csFlex1:
		if args, err = in.need(11); err == nil {
			in.flex1(args)
		}
	default:
		return in.reserved(op)
	}
	if err != nil {
		return err
	}
	in.stack = in.stack[:0]
	return nil
}

// need checks that the stack holds exactly n arguments.
func (in *csInterpreter) need(n int) ([]float32, error) {
	if len(in.stack) != n {
		return nil, fmt.Errorf("%w: %d arguments, expected %d", ErrCharstring, len(in.stack), n)
	}
	return in.stack, nil
}

func (in *csInterpreter) argError(op int) error {
	return fmt.Errorf("%w: operator %d with %d arguments", ErrCharstring, op, len(in.stack))
}

func (in *csInterpreter) reserved(op int) error {
	if op >= 1200 {
		return fmt.Errorf("%w: unsupported operator 12 %d", ErrCharstring, op-1200)
	}
	return fmt.Errorf("%w: unsupported operator %d", ErrCharstring, op)
}

// alternatingCurves draws the curves of hvcurveto and vhcurveto, which
// alternate between horizontal and vertical tangents.
func (in *csInterpreter) alternatingCurves(args []float32, horizontal bool) {
	for len(args) >= 4 {
		var last float32
		if len(args) == 5 {
			last = args[4]
		}
		if horizontal {
			in.curveTo(args[0], 0, args[1], args[2], last, args[3])
		} else {
			in.curveTo(0, args[0], args[1], args[2], args[3], last)
		}
		args = args[4:]
		horizontal = !horizontal
	}
}

func (in *csInterpreter) flex1(args []float32) {
	var sx, sy float32
	for i := 0; i < 10; i += 2 {
		sx += args[i]
		sy += args[i+1]
	}
	in.curveTo(args[0], args[1], args[2], args[3], args[4], args[5])
	dx6, dy6 := args[10], -sy
	if math.Abs(float64(sx)) <= math.Abs(float64(sy)) {
		dx6, dy6 = -sx, args[10]
	}
	in.curveTo(args[6], args[7], args[8], args[9], dx6, dy6)
}

// blend applies the CFF2 blend operator: n default values, followed by n*k
// deltas and n, are replaced by the n blended values.
func (in *csInterpreter) blend() error {
	if len(in.stack) == 0 {
		return fmt.Errorf("%w: blend without arguments", ErrCharstring)
	}
	if in.scalars == nil {
		scalars, err := in.cff.vstore.blendScalars(in.vsindex, in.coords)
		if err != nil {
			return err
		}
		in.scalars = scalars
	}
	k := len(in.scalars)
	top := len(in.stack) - 1
	n := int(in.stack[top])
	if n < 0 || n*(k+1) > top {
		return fmt.Errorf("%w: blend of %d values with %d regions", ErrCharstring, n, k)
	}
	base := top - n*(k+1)
	deltas := in.stack[base+n : top]
	for i := 0; i < n; i++ {
		v := in.stack[base+i]
		for j, s := range in.scalars {
			if s != 0 {
				v += s * deltas[i*k+j]
			}
		}
		in.stack[base+i] = v
	}
	in.stack = in.stack[:base+n]
	return nil
}

// seac composes an accented glyph from a base and an accent glyph, both given
// as Standard Encoding codes.
func (in *csInterpreter) seac(adx, ady, bchar, achar float32) error {
	if in.inSeac || in.cff.isCID {
		return fmt.Errorf("%w: nested or CID-keyed seac", ErrCharstring)
	}
	base, ok1 := in.standardGlyph(bchar)
	accent, ok2 := in.standardGlyph(achar)
	if !ok1 || !ok2 {
		return fmt.Errorf("%w: seac components %v/%v not in charset", ErrCharstring, bchar, achar)
	}
	in.closeContour()
	in.inSeac = true
	defer func() { in.inSeac = false }()
	if err := in.glyph(base, 0, 0); err != nil {
		return err
	}
	if err := in.glyph(accent, adx, ady); err != nil {
		return err
	}
	in.ended = true
	return nil
}

func (in *csInterpreter) standardGlyph(code float32) (GlyphIndex, bool) {
	if code < 0 || code > 255 {
		return 0, false
	}
	sid := cffStandardEncoding[int(code)]
	if sid == 0 {
		return 0, false
	}
	return in.cff.charset.glyphForSID(sid)
}

// --- Path construction -----------------------------------------------------

func (in *csInterpreter) moveTo(dx, dy float32) {
	in.closeContour()
	in.x += dx
	in.y += dy
	in.startX, in.startY = in.x, in.y
	in.sink.MoveTo(in.x+in.dx, in.y+in.dy)
	in.open = true
}

// ensureOpen starts a contour at the current point if a drawing operator
// appears before any moveto.
func (in *csInterpreter) ensureOpen() {
	if !in.open {
		in.moveTo(0, 0)
	}
}

func (in *csInterpreter) lineTo(dx, dy float32) {
	in.ensureOpen()
	in.x += dx
	in.y += dy
	in.sink.LineTo(in.x+in.dx, in.y+in.dy)
}

func (in *csInterpreter) curveTo(dxa, dya, dxb, dyb, dxc, dyc float32) {
	in.ensureOpen()
	xa, ya := in.x+dxa, in.y+dya
	xb, yb := xa+dxb, ya+dyb
	in.x, in.y = xb+dxc, yb+dyc
	in.sink.CurveTo(xa+in.dx, ya+in.dy, xb+in.dx, yb+in.dy, in.x+in.dx, in.y+in.dy)
}

// closeContour ends an open contour with a line back to its start, if
// necessary, and a Close event.
func (in *csInterpreter) closeContour() {
	if !in.open {
		return
	}
	if in.x != in.startX || in.y != in.startY {
		in.sink.LineTo(in.startX+in.dx, in.startY+in.dy)
	}
	in.sink.Close()
	in.open = false
}
