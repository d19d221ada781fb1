package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/ttfparse/ot"
	"github.com/thatisuday/commando"
	"golang.org/x/image/vector"
)

func runViewCommand(args map[string]commando.ArgValue, flags map[string]commando.FlagValue) {
	fontName := strings.TrimSpace(args["font"].Value)
	if fontName == "" {
		fatalf("font path is required")
	}
	otf, _, _ := mustLoadFont(fontName, flags)
	dir, err := parseDirection(flags["direction"])
	if err != nil {
		fatalf("%v", err)
	}
	coords, err := parseCoords(otf, flags["coords"])
	if err != nil {
		fatalf("%v", err)
	}
	input, err := parseTextInput(args["text"], flags["codepoints"])
	if err != nil {
		fatalf("%v", err)
	}
	if input == "" {
		fatalf("input text is empty")
	}
	outPath, err := flags["output"].GetString()
	if err != nil {
		fatalf("invalid --output flag: %v", err)
	}
	outPath = strings.TrimSpace(outPath)
	if outPath == "" {
		fatalf("output path is empty")
	}
	ppem := mustFlagInt(flags["ppem"], "ppem")
	width := mustFlagInt(flags["width"], "width")
	height := mustFlagInt(flags["height"], "height")
	glyphIndex := mustFlagInt(flags["index"], "index")
	renderAll := mustFlagBool(flags["all"], "all")
	showBBoxes := mustFlagBool(flags["show-bboxes"], "show-bboxes")
	if ppem <= 0 {
		fatalf("--ppem must be > 0")
	}
	if width <= 0 || height <= 0 {
		fatalf("--width and --height must be > 0")
	}
	if glyphIndex < 0 {
		fatalf("--index must be >= 0")
	}

	glyphs := mapGlyphs(otf, input, dir, coords, mustFlagBool(flags["kern"], "kern"))
	if len(glyphs) == 0 {
		fatalf("text mapping produced no glyphs")
	}
	if !renderAll {
		if glyphIndex >= len(glyphs) {
			fatalf("glyph index %d out of range (glyphs: %d)", glyphIndex, len(glyphs))
		}
		glyphs = glyphs[glyphIndex : glyphIndex+1]
	}
	img, err := renderGlyphRun(otf, glyphs, coords, width, height, ppem, showBBoxes)
	if err != nil {
		fatalf("render failed: %v", err)
	}
	if err := writePNG(img, outPath); err != nil {
		fatalf("%v", err)
	}
	if renderAll {
		fmt.Printf("wrote %s (glyphs=%d)\n", outPath, len(glyphs))
		return
	}
	fmt.Printf("wrote %s (glyph[%d]=%d, cluster=%d)\n", outPath, glyphIndex, glyphs[0].GID, glyphs[0].Cluster)
}

// pathSegment is an outline segment in font units.
type pathSegment struct {
	op  byte // 'M', 'L', 'Q', 'C' or 'Z'
	pts [3][2]float32
}

// segmentRecorder is an ot.OutlineBuilder which records the segments of an
// outline for later placement.
type segmentRecorder struct {
	segs []pathSegment
}

func (r *segmentRecorder) MoveTo(x, y float32) {
	r.segs = append(r.segs, pathSegment{op: 'M', pts: [3][2]float32{{x, y}}})
}

func (r *segmentRecorder) LineTo(x, y float32) {
	r.segs = append(r.segs, pathSegment{op: 'L', pts: [3][2]float32{{x, y}}})
}

func (r *segmentRecorder) QuadTo(x1, y1, x, y float32) {
	r.segs = append(r.segs, pathSegment{op: 'Q', pts: [3][2]float32{{x1, y1}, {x, y}}})
}

func (r *segmentRecorder) CurveTo(x1, y1, x2, y2, x, y float32) {
	r.segs = append(r.segs, pathSegment{op: 'C', pts: [3][2]float32{{x1, y1}, {x2, y2}, {x, y}}})
}

func (r *segmentRecorder) Close() {
	r.segs = append(r.segs, pathSegment{op: 'Z'})
}

// placedGlyph is a glyph outline positioned on the pen line, in font units.
type placedGlyph struct {
	segs []pathSegment
	x    float32
	box  ot.BoundingBox
}

func outlineFor(otf *ot.Font, gid ot.GlyphIndex, coords []ot.F2Dot14) ([]pathSegment, ot.BoundingBox, error) {
	rec := &segmentRecorder{}
	var bbox ot.BoundingBox
	var err error
	if len(coords) > 0 {
		bbox, err = otf.OutlineVariableGlyph(gid, coords, rec)
	} else {
		bbox, err = otf.OutlineGlyph(gid, rec)
	}
	return rec.segs, bbox, err
}

// renderGlyphRun rasterizes glyphs side by side, centered within an image of
// the given size. Font units are scaled to ppem pixels per em; the y-axis is
// flipped.
func renderGlyphRun(otf *ot.Font, glyphs []glyphRecord, coords []ot.F2Dot14, width, height, ppem int, showBBoxes bool) (*image.RGBA, error) {
	if len(glyphs) == 0 {
		return nil, errors.New("empty glyph run")
	}
	upem, ok := otf.UnitsPerEm()
	if !ok || upem == 0 {
		return nil, errors.New("invalid units-per-em")
	}
	scale := float32(ppem) / float32(upem)

	placed := make([]placedGlyph, 0, len(glyphs))
	var (
		penX                   float32
		minX, minY, maxX, maxY float32
		have                   bool
	)
	for _, g := range glyphs {
		segs, box, err := outlineFor(otf, g.GID, coords)
		if err == nil && !box.IsEmpty() {
			placed = append(placed, placedGlyph{segs: segs, x: penX, box: box})
			gMinX, gMaxX := penX+float32(box.XMin), penX+float32(box.XMax)
			gMinY, gMaxY := float32(box.YMin), float32(box.YMax)
			if !have {
				minX, minY, maxX, maxY = gMinX, gMinY, gMaxX, gMaxY
				have = true
			} else {
				minX, minY = min(minX, gMinX), min(minY, gMinY)
				maxX, maxY = max(maxX, gMaxX), max(maxY, gMaxY)
			}
		}
		penX += g.XAdvance
	}
	if len(placed) == 0 {
		return nil, errors.New("no drawable glyph outlines found")
	}

	// device position of font unit point (x, y)
	shiftX := (float32(width)-(maxX-minX)*scale)/2 - minX*scale
	shiftY := (float32(height)-(maxY-minY)*scale)/2 + maxY*scale
	dev := func(x, y float32) (float32, float32) {
		return shiftX + x*scale, shiftY - y*scale
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{255, 255, 255, 255}), image.Point{}, draw.Src)

	rast := vector.NewRasterizer(width, height)
	rast.DrawOp = draw.Over
	for _, p := range placed {
		pt := func(i int, seg pathSegment) (float32, float32) {
			return dev(p.x+seg.pts[i][0], seg.pts[i][1])
		}
		for _, seg := range p.segs {
			switch seg.op {
			case 'M':
				rast.MoveTo(pt(0, seg))
			case 'L':
				rast.LineTo(pt(0, seg))
			case 'Q':
				x1, y1 := pt(0, seg)
				x, y := pt(1, seg)
				rast.QuadTo(x1, y1, x, y)
			case 'C':
				x1, y1 := pt(0, seg)
				x2, y2 := pt(1, seg)
				x, y := pt(2, seg)
				rast.CubeTo(x1, y1, x2, y2, x, y)
			case 'Z':
				rast.ClosePath()
			}
		}
	}
	rast.Draw(img, img.Bounds(), image.Black, image.Point{})
	if showBBoxes {
		for _, p := range placed {
			x0, y0 := dev(p.x+float32(p.box.XMin), float32(p.box.YMax))
			x1, y1 := dev(p.x+float32(p.box.XMax), float32(p.box.YMin))
			drawRectOutline(img, int(x0), int(y0), int(x1+0.999), int(y1+0.999), color.RGBA{255, 0, 0, 255})
		}
	}
	return img, nil
}

func writePNG(img image.Image, outPath string) error {
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("cannot encode png: %w", err)
	}
	return nil
}

func drawRectOutline(img *image.RGBA, minX int, minY int, maxX int, maxY int, c color.RGBA) {
	if img == nil {
		return
	}
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	b := img.Bounds()
	minX, minY = max(minX, b.Min.X), max(minY, b.Min.Y)
	maxX, maxY = min(maxX, b.Max.X), min(maxY, b.Max.Y)
	if minX >= maxX || minY >= maxY {
		return
	}
	// top and bottom
	for x := minX; x < maxX; x++ {
		img.SetRGBA(x, minY, c)
		img.SetRGBA(x, maxY-1, c)
	}
	// left and right
	for y := minY; y < maxY; y++ {
		img.SetRGBA(minX, y, c)
		img.SetRGBA(maxX-1, y, c)
	}
}
