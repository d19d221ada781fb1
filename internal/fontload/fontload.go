/*
Package fontload reads font files from disk or from the system's font
directories, and gives access to reference readers for a font.

Reference readers are independent OpenType implementations
(golang.org/x/image/font/sfnt and github.com/go-text/typesetting). They are
used to cross-check the results of package ot, for example by the command
`check` of otcli and by tests.
*/
package fontload

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/ttfparse/ot"
)

// tracer traces with key 'tyse.fonts'
func tracer() tracing.Trace {
	return tracing.Select("tyse.fonts")
}

// FontFile is the content of a font file, which may contain a single font or a
// collection of fonts.
type FontFile struct {
	Path   string
	Binary []byte // raw data, shared by all fonts of the file
	Count  int    // number of fonts in the file
}

// IsCollection is true if f is a font collection (*.ttc, *.otc).
func (f *FontFile) IsCollection() bool {
	return ot.FontsInCollection(f.Binary) >= 0
}

// Font parses the font with a given index. For files containing a single font,
// index must be 0.
func (f *FontFile) Font(index int) (*ot.Font, error) {
	if index < 0 || index >= f.Count {
		return nil, fmt.Errorf("font index %d out of range, %s contains %d font(s)", index, f.Path, f.Count)
	}
	return ot.ParseCollection(f.Binary, index)
}

// LocateFont returns the path of a font file. If name denotes an existing file,
// it is returned unchanged. Otherwise name is looked up in the system's font
// directories, with or without extension.
func LocateFont(name string) (string, error) {
	if name == "" {
		return "", errors.New("no font name given")
	}
	if fi, err := os.Stat(name); err == nil && !fi.IsDir() {
		return name, nil
	}
	fpath, err := findfont.Find(name) // try to find as system font
	if err != nil {
		return "", fmt.Errorf("font %q not found: %w", name, err)
	}
	tracer().Debugf("%s is a system font: %s", name, fpath)
	return fpath, nil
}

// Load reads a font file, locating it with LocateFont.
func Load(name string) (*FontFile, error) {
	fpath, err := LocateFont(name)
	if err != nil {
		return nil, err
	}
	bytez, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}
	return FromBinary(fpath, bytez)
}

// FromBinary wraps font data in a FontFile. It returns an error if the data is
// neither a single font nor a collection.
func FromBinary(path string, bytez []byte) (*FontFile, error) {
	f := &FontFile{Path: path, Binary: bytez, Count: 1}
	if n := ot.FontsInCollection(bytez); n == 0 {
		return nil, fmt.Errorf("font collection %s is empty", filepath.Base(path))
	} else if n > 0 {
		f.Count = int(n)
	} else if !looksLikeFont(bytez) {
		return nil, fmt.Errorf("%s is not an OpenType font file", filepath.Base(path))
	}
	tracer().Debugf("loaded font file %s with %d font(s)", filepath.Base(path), f.Count)
	return f, nil
}

var sfntVersions = [][]byte{
	{0x00, 0x01, 0x00, 0x00},
	[]byte("OTTO"),
	[]byte("true"),
}

func looksLikeFont(b []byte) bool {
	if len(b) < 4 {
		return false
	}
	for _, v := range sfntVersions {
		if bytes.Equal(b[:4], v) {
			return true
		}
	}
	return false
}

// LoadFont locates, reads and parses a font. index selects a font within a
// collection and must be 0 for single fonts.
func LoadFont(name string, index int) (*ot.Font, error) {
	ff, err := Load(name)
	if err != nil {
		return nil, err
	}
	otf, err := ff.Font(index)
	if err != nil {
		tracer().Errorf("cannot decode font %s: %s", name, err)
		return nil, err
	}
	tracer().Infof("parsed OpenType font %s[%d]", filepath.Base(ff.Path), index)
	return otf, nil
}
