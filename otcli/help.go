package main

import (
	"strings"

	"github.com/pterm/pterm"
)

func helpOp(intp *Intp, op *Op) (error, bool) {
	topic, _ := op.arg(0)
	help(topic)
	return nil, false
}

var helpTopics = map[string]string{
	"tables":    "tables                 list the tables of the font with offset and size",
	"info":      "info                   font type, names, head/maxp summary and global metrics",
	"glyph":     "glyph <char|U+XXXX>    map a character to its glyph, with glyph name if available",
	"metrics":   "metrics <gid>          advance, side bearings and bounding box of a glyph",
	"outline":   "outline <gid> [v...]   outline of a glyph as SVG path data, optionally at user coordinates",
	"names":     "names[:all] [lang]     decoded name strings; ':all' lists every name record",
	"axes":      "axes                   variation axes and named instances",
	"normalize": "normalize [v...]       normalize user coordinates and use them for metrics; no values resets",
	"kern":      "kern <gid> <gid>       kerning of a glyph pair from table 'kern'",
	"class":     "class <gid>            GDEF glyph class and mark attachment class",
	"check":     "check                  cross-check the font against reference readers",
	"quit":      "quit                   leave the CLI",
}

func help(topic string) {
	tracer().Infof("help %v", topic)
	t := strings.ToLower(topic)
	if h, ok := helpTopics[t]; ok {
		pterm.Println(h)
		return
	}
	switch t {
	case "gid", "glyph-index":
		pterm.Info.Println("Glyph Index")
		pterm.Println(`
	Glyphs are addressed by their index in the font, 0 <= gid < numGlyphs.
	Glyph 0 is the '.notdef' glyph, which is also the result of mapping a
	character not covered by table 'cmap'. Numeric arguments may be given
	in decimal or, with prefix 0x, in hexadecimal.
	`)
	case "coords", "variations":
		pterm.Info.Println("Variation Coordinates")
		pterm.Println(`
	User coordinates are given in the units of the variation axis, e.g. a
	weight of 700. They are clamped to the axis range and normalized to
	[-1, 1], with the axis default mapping to 0. Table 'avar' may remap
	the normalized values afterwards.
	+------+-----------+----------+---------+
	| Axis | Min       | Default  | Max     |
	+------+-----------+----------+---------+
	| wght | -1.0      | 0.0      | +1.0    |
	+------+-----------+----------+---------+
	`)
	default:
		if t != "" && t != "help" {
			pterm.Error.Printf("unknown command or topic: %s\n", topic)
		}
		pterm.Info.Println("Commands (separate multiple commands with ';')")
		for _, name := range opNames {
			if h, ok := helpTopics[name]; ok {
				pterm.Println("  " + h)
			}
		}
		pterm.Println("  help <topic>           more help; topics are 'gid' and 'coords'")
	}
}
