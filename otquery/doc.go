/*
Package otquery answers questions about OpenType fonts at a higher level than
package ot does.

Functions of this package decode the raw font data into types which are
convenient for clients: names are decoded to Go strings, metrics are given as
sfnt.Units, and related properties of a glyph are collected into one struct.
None of the functions in this package modify a font.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'tyse.fonts'
func tracer() tracing.Trace {
	return tracing.Select("tyse.fonts")
}
