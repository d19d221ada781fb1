package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/npillmayer/ttfparse/ot"
	"github.com/npillmayer/ttfparse/otquery"
	"github.com/pterm/pterm"
)

func tablesOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	data := [][]string{
		{"Tag", "Offset", "Size"},
	}
	for _, tag := range intp.font.TableTags() {
		t := intp.font.Table(tag)
		if t == nil {
			continue
		}
		offset, size := t.Extent()
		data = append(data, []string{
			tag.String(),
			fmt.Sprintf("0x%08x", offset),
			strconv.Itoa(int(size)),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return
}

func infoOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	otf := intp.font
	pterm.Printf("font type:      %s\n", otquery.FontType(otf))
	pterm.Printf("layout tables:  %v\n", otquery.LayoutTables(otf))
	pterm.Printf("glyphs:         %d\n", otf.NumberOfGlyphs())
	if h, ok := otquery.HeadInfo(otf); ok {
		pterm.Printf("revision:       %.3f\n", h.FontRevision)
		pterm.Printf("created:        %s\n", h.Created.Format("2006-01-02"))
		pterm.Printf("modified:       %s\n", h.Modified.Format("2006-01-02"))
	}
	if m, ok := otquery.MaxPInfo(otf); ok && m.Profile != nil {
		pterm.Printf("max points:     %d (composite %d)\n", m.Profile.MaxPoints, m.Profile.MaxCompositePoints)
	}
	fm := otquery.FontMetrics(otf)
	data := [][]string{
		{"Metric", "Value"},
		{"units per em", fmt.Sprint(fm.UnitsPerEm)},
		{"ascent", fmt.Sprint(fm.Ascent)},
		{"descent", fmt.Sprint(fm.Descent)},
		{"line gap", fmt.Sprint(fm.LineGap)},
		{"max advance", fmt.Sprint(fm.MaxAdvance)},
		{"x-height", fmt.Sprint(fm.XHeight)},
		{"cap-height", fmt.Sprint(fm.CapHeight)},
		{"italic angle", fmt.Sprint(fm.ItalicAngle)},
		{"weight class", fmt.Sprint(otf.Weight())},
		{"width class", fmt.Sprint(otf.Width())},
		{"style", styleString(otf)},
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	names := otquery.NameInfo(otf, 0)
	for _, key := range []string{"family", "subfamily", "full", "postscript", "version"} {
		if n, ok := names[key]; ok {
			pterm.Printf("%-15s %s\n", key+":", n)
		}
	}
	if errs := otf.Errors(); len(errs) > 0 {
		pterm.Info.Printf("%d problems found while decoding\n", len(errs))
		for _, e := range errs {
			pterm.Printf("  [%s] %s\n", e.Severity, e.Error())
		}
	}
	return
}

func styleString(otf *ot.Font) string {
	s := ""
	add := func(b bool, name string) {
		if b {
			if s != "" {
				s += ", "
			}
			s += name
		}
	}
	add(otf.IsRegular(), "regular")
	add(otf.IsBold(), "bold")
	add(otf.IsItalic(), "italic")
	add(otf.IsOblique(), "oblique")
	add(otf.IsMonospaced(), "monospaced")
	if s == "" {
		return "-"
	}
	return s
}

func namesOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	var lang uint16
	if a, ok := op.arg(0); ok {
		var l uint64
		if l, err = strconv.ParseUint(a, 0, 16); err != nil {
			return fmt.Errorf("language ID not numeric: %v", a), false
		}
		lang = uint16(l)
	}
	if op.format == "all" {
		data := [][]string{
			{"Platform", "Encoding", "Language", "Name ID", "String"},
		}
		for key, s := range otquery.Names(intp.font) {
			data = append(data, []string{
				strconv.Itoa(int(key.Platform)),
				strconv.Itoa(int(key.Encoding)),
				fmt.Sprintf("0x%04x", key.Language),
				strconv.Itoa(int(key.Name)),
				s,
			})
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		return
	}
	info := otquery.NameInfo(intp.font, lang)
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	data := [][]string{
		{"Name", "String"},
	}
	for _, k := range keys {
		data = append(data, []string{k, info[k]})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return
}

func axesOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	info, ok := otquery.Variations(intp.font)
	if !ok {
		pterm.Println("font is not variable")
		return
	}
	data := [][]string{
		{"Axis", "Name", "Min", "Default", "Max", "Hidden"},
	}
	for _, a := range info.Axes {
		data = append(data, []string{
			a.Tag.String(),
			a.Name,
			fmt.Sprint(a.MinValue),
			fmt.Sprint(a.DefValue),
			fmt.Sprint(a.MaxValue),
			strconv.FormatBool(a.Hidden),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if len(info.Instances) == 0 {
		return
	}
	data = [][]string{
		{"Instance", "PostScript", "Coordinates"},
	}
	for _, inst := range info.Instances {
		data = append(data, []string{inst.Subfamily, inst.PostScript, fmt.Sprint(inst.Coords)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return
}

func normalizeOp(intp *Intp, op *Op) (err error, stop bool) {
	if err = intp.checkFont(); err != nil {
		return
	}
	if op.noArg() {
		intp.coords = nil
		pterm.Println("using default instance")
		return
	}
	var user []float32
	if user, err = parseFloats(op.args); err != nil {
		return
	}
	var coords []ot.F2Dot14
	if coords, err = intp.font.NormalizeVariationCoords(user); err != nil {
		return
	}
	intp.coords = coords
	for i, c := range coords {
		axis, _ := intp.font.VariationAxis(i)
		pterm.Printf("%s: %g -> %.4f\n", axis.Tag, user[i], c.Float32())
	}
	return
}

// --- Argument parsing -------------------------------------------------

func parseFloats(args []string) ([]float32, error) {
	values := make([]float32, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("not a number: %v", a)
		}
		values[i] = float32(v)
	}
	return values, nil
}

func parseGlyphIndex(intp *Intp, op *Op, inx int) (ot.GlyphIndex, error) {
	a, ok := op.arg(inx)
	if !ok {
		return 0, ErrMissingArg
	}
	n, err := strconv.ParseUint(a, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("glyph index not numeric: %v", a)
	}
	if int(n) >= intp.font.NumberOfGlyphs() {
		return 0, fmt.Errorf("glyph index %d out of range, font has %d glyphs", n, intp.font.NumberOfGlyphs())
	}
	return ot.GlyphIndex(n), nil
}
