/*
Package ot parses TrueType and OpenType font files and answers queries about
them. It is intended for

▪︎ glyph rasterizers, which need glyph outlines and metrics

▪︎ text layout engines, which need character mapping, line metrics and the
properties of variable fonts

▪︎ font inspection tools, which need access to the table structure of a font

Package `ot` is read-only. A font is parsed from a byte slice which is kept in
memory for the lifetime of the font, and tables are decoded lazily on first
access. Only the table directory and the mandatory tables 'head', 'hhea' and
'maxp' are checked when a font is loaded. Every other table is decoded when it
is needed for the first time; a table which turns out to be malformed is
treated as absent and the problem is recorded with the font (see Font.Errors).

Clients of package `ot` query a font through methods of type Font:

▪︎ font-wide metrics and style flags (OS/2, hhea, vhea, post)

▪︎ mapping of code-points and variation sequences to glyphs (cmap)

▪︎ per-glyph metrics, names, classes and kerning (hmtx, vmtx, post, GDEF, kern, VORG)

▪︎ glyph outlines for TrueType ('glyf') and PostScript ('CFF ', 'CFF2') fonts,
delivered to an OutlineBuilder

▪︎ variation axes, coordinate normalization and variable metrics and outlines
(fvar, avar, gvar, HVAR, VVAR, MVAR)

Query methods never fail. Absent information is reported as a `false` return
value or a documented default. Outline operations return errors, which may be
matched with errors.Is against the sentinel errors of this package.

Glyph shaping is out of scope: tables GSUB and GPOS are recognized, but their
lookups are not interpreted.

# Fonts in the wild

Many fonts contain entries that, strictly speaking, infringe upon the OpenType
specification (for example, Calibri has an overflow in a 'kern' sub-table), but
an application using it should not fail because of recoverable errors.
Package `ot` tries to circumvent known bugs in common fonts and bounds all work
done for a single query, as fonts may be malicious.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>

Some code has originally been copied over from golang.org/x/image/font/sfnt/cmap.go,
as the cmap-routines are not accessible through the sfnt package's API.
I understand this to be legally okay as long as the Go license information
stays intact.

	Copyright 2017 The Go Authors. All rights reserved.
	Use of this source code is governed by a BSD-style
	license that can be found in the LICENSE file.

The license file mentioned can be found in file GO-LICENSE at the root folder
of this module.
*/
package ot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}
