package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/npillmayer/ttfparse/internal/fontload"
	"github.com/npillmayer/ttfparse/ot"
	"github.com/thatisuday/commando"
	"golang.org/x/text/unicode/bidi"
)

func main() {
	commando.
		SetExecutableName("ot-tools").
		SetVersion("v0.1.0").
		SetDescription("CLI for TrueType/OpenType font diagnostics and glyph rendering.")

	commando.
		Register(nil).
		AddFlag("verbose,V", "display additional output", commando.Bool, nil)

	commando.
		Register("glyphs").
		SetDescription("Map text to glyphs of a font and print glyph indices, clusters and advances.").
		SetShortDescription("map text to glyphs").
		AddArgument("font", "font file path or name of an installed font", "").
		AddArgument("text...", "text to map (variadic argument parts joined by comma by commando)", "").
		AddFlag("collection,n", "index of font within a font collection", commando.Int, 0).
		AddFlag("direction,d", "direction: ltr|rtl", commando.String, "ltr").
		AddFlag("codepoints,c", "codepoints instead of text (comma/space separated, e.g. U+0627,U+0644)", commando.String, "-").
		AddFlag("coords,u", "user variation coordinates, one per axis (e.g. 700,100)", commando.String, "-").
		AddFlag("kern,k", "apply pair kerning from table 'kern'", commando.Bool, nil).
		AddFlag("summary,s", "print glyph count and total advance", commando.Bool, nil).
		SetAction(runGlyphsCommand)

	commando.
		Register("view").
		SetDescription("Render a glyph or a run of glyphs to a PNG image.").
		SetShortDescription("glyphs to image").
		AddArgument("font", "font file path or name of an installed font", "").
		AddArgument("text...", "text to map before rendering one glyph", "").
		AddFlag("collection,n", "index of font within a font collection", commando.Int, 0).
		AddFlag("direction,d", "direction: ltr|rtl", commando.String, "ltr").
		AddFlag("codepoints,c", "codepoints instead of text (comma/space separated, e.g. U+0627,U+0644)", commando.String, "-").
		AddFlag("coords,u", "user variation coordinates, one per axis (e.g. 700,100)", commando.String, "-").
		AddFlag("kern,k", "apply pair kerning from table 'kern'", commando.Bool, nil).
		AddFlag("output,o", "output PNG file", commando.String, "ot-tools-view.png").
		AddFlag("index,i", "glyph index in mapped output (0-based)", commando.Int, 0).
		AddFlag("all,a", "render all mapped glyphs instead of only --index", commando.Bool, nil).
		AddFlag("show-bboxes,B", "draw red bounding-box outlines per rendered glyph", commando.Bool, nil).
		AddFlag("ppem,p", "render scale in pixels-per-em", commando.Int, 96).
		AddFlag("width,W", "image width in pixels", commando.Int, 320).
		AddFlag("height,H", "image height in pixels", commando.Int, 240).
		SetAction(runViewCommand)

	commando.
		Register("font").
		SetDescription("Print diagnostics and table information for a TrueType/OpenType font.").
		SetShortDescription("font diagnostics").
		AddArgument("font", "font file path or name of an installed font", "").
		AddArgument("tables...", "optional list of table tags (e.g. glyf,head,kern)", "").
		AddFlag("collection,n", "index of font within a font collection", commando.Int, 0).
		AddFlag("errors,e", "print parse errors and warnings", commando.Bool, nil).
		AddFlag("check", "cross-check against reference readers for the first N glyphs", commando.Int, 0).
		SetAction(runFontCommand)

	commando.Parse(nil)
}

// --- Input handling --------------------------------------------------------

func parseTextInput(textArg commando.ArgValue, cpFlag commando.FlagValue) (string, error) {
	cp, err := cpFlag.GetString()
	if err != nil {
		return "", fmt.Errorf("invalid --codepoints flag: %w", err)
	}
	cp = strings.TrimSpace(cp)
	if cp == "-" {
		cp = ""
	}
	if cp != "" {
		runes, err := parseCodepoints(cp)
		if err != nil {
			return "", err
		}
		return string(runes), nil
	}
	return textArg.Value, nil
}

func parseDirection(flag commando.FlagValue) (bidi.Direction, error) {
	s, err := flag.GetString()
	if err != nil {
		return bidi.LeftToRight, fmt.Errorf("invalid --direction flag: %w", err)
	}
	return directionFrom(s)
}

func directionFrom(s string) (bidi.Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ltr", "left-to-right":
		return bidi.LeftToRight, nil
	case "rtl", "right-to-left":
		return bidi.RightToLeft, nil
	default:
		return bidi.LeftToRight, fmt.Errorf("unsupported direction %q (expected ltr|rtl)", s)
	}
}

// parseCoords reads user variation coordinates and normalizes them for otf.
// "-" or an empty flag selects the default instance.
func parseCoords(otf *ot.Font, flag commando.FlagValue) ([]ot.F2Dot14, error) {
	s, err := flag.GetString()
	if err != nil {
		return nil, fmt.Errorf("invalid --coords flag: %w", err)
	}
	return coordsFrom(otf, s)
}

func coordsFrom(otf *ot.Font, spec string) ([]ot.F2Dot14, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || spec == "-" {
		return nil, nil
	}
	if !otf.IsVariable() {
		return nil, errors.New("variation coordinates given for a font which is not variable")
	}
	parts := splitCSVSpace(spec)
	user := make([]float32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q: %w", p, err)
		}
		user[i] = float32(v)
	}
	return otf.NormalizeVariationCoords(user)
}

func parseCodepoints(spec string) ([]rune, error) {
	parts := splitCSVSpace(spec)
	out := make([]rune, 0, len(parts))
	for _, p := range parts {
		r, err := parseCodepointToken(p)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func parseCodepointToken(token string) (rune, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, errors.New("empty codepoint token")
	}
	hex := token
	switch {
	case strings.HasPrefix(hex, "U+"), strings.HasPrefix(hex, "u+"):
		hex = hex[2:]
	case strings.HasPrefix(hex, "0x"), strings.HasPrefix(hex, "0X"):
		hex = hex[2:]
	}
	u, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q: %w", token, err)
	}
	if u > 0x10FFFF {
		return 0, fmt.Errorf("codepoint %q out of Unicode range", token)
	}
	return rune(u), nil
}

func splitCSVSpace(spec string) []string {
	return strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}

// --- Font loading and flags ------------------------------------------------

func mustLoadFont(name string, flags map[string]commando.FlagValue) (*ot.Font, *fontload.FontFile, int) {
	index := mustFlagInt(flags["collection"], "collection")
	ff, err := fontload.Load(name)
	if err != nil {
		fatalf("cannot read font %s: %v", name, err)
	}
	otf, err := ff.Font(index)
	if err != nil {
		fatalf("cannot parse font %s: %v", name, err)
	}
	return otf, ff, index
}

func mustFlagInt(flag commando.FlagValue, name string) int {
	n, err := flag.GetInt()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return n
}

func mustFlagBool(flag commando.FlagValue, name string) bool {
	b, err := flag.GetBool()
	if err != nil {
		fatalf("invalid --%s flag: %v", name, err)
	}
	return b
}

func fatalf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(os.Stderr, "ot-tools: "+format+"\n", args...)
	os.Exit(1)
}
