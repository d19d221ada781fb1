/*
Package ttfparse is for reading TrueType and OpenType fonts.

There is a certain confusion with the nomenclature of typesetting. We will
stick to the following definitions:

▪︎ A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

▪︎ A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

The heavy lifting is done by package ot, which decodes the binary font
tables lazily and answers queries about glyphs, metrics, outlines and
variations. Package otquery offers typed views on top of it. This package
adds loading of font files, including font collections, and a few
convenience functions.

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ttfparse

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/ttfparse/internal/fontload"
	"github.com/npillmayer/ttfparse/ot"
	"github.com/npillmayer/ttfparse/otquery"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'opentype'
func tracer() tracing.Trace {
	return tracing.Select("opentype")
}

// ScalableFont is an outline font of type TTF or OTF, possibly taken from a
// font collection.
type ScalableFont struct {
	Fontname string
	Filepath string   // file path, if loaded from a file
	Binary   []byte   // raw data; for collections the data of the complete collection
	Index    int      // index within a font collection, 0 for single fonts
	OT       *ot.Font // the decoded font
}

// LoadFont loads a font from a file. fontfile is either a path or the name of
// a font installed on the system. For font collections, index selects the
// font within the collection. For single fonts, index has to be 0.
func LoadFont(fontfile string, index int) (*ScalableFont, error) {
	ff, err := fontload.Load(fontfile)
	if err != nil {
		return nil, err
	}
	otf, err := ff.Font(index)
	if err != nil {
		return nil, err
	}
	f := &ScalableFont{Filepath: ff.Path, Binary: ff.Binary, Index: index, OT: otf}
	f.Fontname, _ = otquery.Name(otf, sfnt.NameIDFull, 0)
	tracer().Debugf("loaded font %q from %s", f.Fontname, f.Filepath)
	return f, nil
}

// ParseFont decodes a font from memory. For font collections, index selects
// the font within the collection. The bytes must not change as long as the
// font is in use.
func ParseFont(fbytes []byte, index int) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes, Index: index}
	if f.OT, err = FromBinary(fbytes, index); err != nil {
		return nil, err
	}
	if f.Fontname, _ = otquery.Name(f.OT, sfnt.NameIDFull, 0); f.Fontname != "" {
		tracer().Debugf("parsed font %s", f.Fontname)
	}
	return f, nil
}

// FontsInCollection returns the number of fonts in a font collection, or -1
// if data is not a font collection.
func FontsInCollection(data []byte) int32 {
	return ot.FontsInCollection(data)
}
