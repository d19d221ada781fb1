package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/npillmayer/ttfparse/internal/fontload"
	"github.com/npillmayer/ttfparse/ot"
	"github.com/npillmayer/ttfparse/otquery"
	"github.com/pterm/pterm"
)

func glyphOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	a, ok := op.arg(0)
	if !ok {
		return ErrMissingArg, false
	}
	var r rune
	if r, err = parseRune(a); err != nil {
		return
	}
	gid := intp.font.GlyphIndex(r)
	pterm.Printf("%#U => glyph %d", r, gid)
	if name, ok := intp.font.GlyphName(gid); ok {
		pterm.Printf(" '%s'", name)
	}
	pterm.Println()
	if gid == 0 {
		pterm.Info.Printf("%#U is not mapped by table 'cmap'\n", r)
	}
	return
}

// parseRune accepts a single character or a code-point in notation U+XXXX.
func parseRune(s string) (rune, error) {
	if len(s) > 2 && (strings.HasPrefix(s, "U+") || strings.HasPrefix(s, "u+")) {
		n, err := strconv.ParseUint(s[2:], 16, 32)
		if err != nil || n > utf8.MaxRune {
			return 0, fmt.Errorf("not a code-point: %v", s)
		}
		return rune(n), nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("expected single character or U+XXXX, have %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func metricsOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	var gid ot.GlyphIndex
	if gid, err = parseGlyphIndex(intp, op, 0); err != nil {
		return
	}
	m := otquery.GlyphMetrics(intp.font, gid)
	data := [][]string{
		{"Metric", "Value"},
		{"advance", fmt.Sprint(m.Advance)},
		{"lsb", fmt.Sprint(m.LSB)},
		{"rsb", fmt.Sprint(m.RSB)},
		{"bbox", fmt.Sprintf("(%d, %d) - (%d, %d)", m.BBox.MinX, m.BBox.MinY, m.BBox.MaxX, m.BBox.MaxY)},
	}
	if m.VAdvance != 0 {
		data = append(data, []string{"vertical advance", fmt.Sprint(m.VAdvance)})
		data = append(data, []string{"tsb", fmt.Sprint(m.TSB)})
	}
	if y, ok := intp.font.GlyphYOrigin(gid); ok {
		data = append(data, []string{"vertical origin", fmt.Sprint(y)})
	}
	if len(intp.coords) > 0 {
		if adv, ok := intp.font.GlyphHorAdvanceVariable(gid, intp.coords); ok {
			data = append(data, []string{"advance at coords", fmt.Sprintf("%.2f", adv)})
		}
		if lsb, ok := intp.font.GlyphHorSideBearingVariable(gid, intp.coords); ok {
			data = append(data, []string{"lsb at coords", fmt.Sprintf("%.2f", lsb)})
		}
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return
}

func outlineOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	var gid ot.GlyphIndex
	if gid, err = parseGlyphIndex(intp, op, 0); err != nil {
		return
	}
	var user []float32
	if user, err = parseFloats(op.args[1:]); err != nil {
		return
	}
	var path string
	var bbox otquery.BoundingBox
	if len(user) == 0 {
		path, bbox, err = otquery.VariableGlyphPath(intp.font, gid, intp.coords)
	} else {
		path, bbox, err = otquery.GlyphPath(intp.font, gid, user...)
	}
	if err != nil {
		return
	}
	if op.format == "svg" {
		pterm.Println(svgDocument(path, bbox))
		return
	}
	pterm.Printf("bbox = (%d, %d) - (%d, %d)\n", bbox.MinX, bbox.MinY, bbox.MaxX, bbox.MaxY)
	if path == "" {
		pterm.Println("glyph has no outline")
		return
	}
	pterm.Println(path)
	return
}

// svgDocument wraps path data into a standalone SVG document. Font units have
// the y-axis pointing up, therefore the path is flipped.
func svgDocument(path string, bbox otquery.BoundingBox) string {
	w, h := bbox.Dx(), bbox.Dy()
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%d %d %d %d">`+
		`<path transform="scale(1,-1)" d="%s"/></svg>`,
		bbox.MinX, -bbox.MaxY, w, h, path)
}

func kernOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	var left, right ot.GlyphIndex
	if left, err = parseGlyphIndex(intp, op, 0); err != nil {
		return
	}
	if right, err = parseGlyphIndex(intp, op, 1); err != nil {
		return
	}
	if !intp.font.HasTable(ot.T("kern")) {
		pterm.Println("font has no table 'kern'")
		return
	}
	if k, ok := intp.font.GlyphsKerning(left, right); ok {
		pterm.Printf("kern(%d, %d) = %d\n", left, right, k)
	} else {
		pterm.Printf("no kerning for pair (%d, %d)\n", left, right)
	}
	return
}

func classOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	var gid ot.GlyphIndex
	if gid, err = parseGlyphIndex(intp, op, 0); err != nil {
		return
	}
	if !intp.font.HasTable(ot.T("GDEF")) {
		pterm.Println("font has no table 'GDEF'")
		return
	}
	clz := otquery.ClassesForGlyph(intp.font, gid)
	pterm.Printf("glyph %d: class=%s mark-attachment-class=%d mark-set=%v\n",
		gid, clz.Class, clz.MarkAttachClass, clz.IsMark)
	if r := otquery.CodePointForGlyph(intp.font, gid); r != 0 {
		pterm.Printf("glyph %d is mapped from %#U\n", gid, r)
	}
	return
}

func checkOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	maxGlyphs := 1000
	if a, ok := op.arg(0); ok {
		if maxGlyphs, err = strconv.Atoi(a); err != nil {
			return fmt.Errorf("glyph count not numeric: %v", a), false
		}
	}
	mismatches := fontload.CrossCheck(intp.font, intp.file.Binary, intp.index, maxGlyphs)
	if len(mismatches) == 0 {
		pterm.Info.Println("font agrees with reference readers")
		return
	}
	for _, m := range mismatches {
		pterm.Println(m.String())
	}
	pterm.Info.Printf("%d mismatches\n", len(mismatches))
	return
}
