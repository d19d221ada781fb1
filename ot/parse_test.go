package ot

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestParseHeader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := Parse(minimalFont(3).build())
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("otf.header.tag = %x", otf.Header.FontType)
	if otf.Header.FontType != 0x00010000 {
		t.Fatalf("expected font to be OT 0x0001000, is %x", otf.Header.FontType)
	}
	if otf.NumberOfGlyphs() != 3 {
		t.Errorf("expected 3 glyphs, have %d", otf.NumberOfGlyphs())
	}
	if upem, ok := otf.UnitsPerEm(); !ok || upem != 1000 {
		t.Errorf("expected units per em to be 1000, is %d (%v)", upem, ok)
	}
	if otf.CollectionIndex() != 0 {
		t.Errorf("expected collection index 0, is %d", otf.CollectionIndex())
	}
	tags := otf.TableTags()
	if len(tags) != 4 {
		t.Fatalf("expected 4 tables, have %v", tags)
	}
	for i := 1; i < len(tags); i++ {
		if tags[i-1] >= tags[i] {
			t.Errorf("expected table tags to be sorted, have %v", tags)
		}
	}
}

func TestParseSignatures(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	for _, version := range []uint32{0x00010000, 0x4F54544F, 0x74727565} {
		sb := minimalFont(1)
		sb.version = version
		if _, err := Parse(sb.build()); err != nil {
			t.Errorf("expected signature %x to be accepted, got %v", version, err)
		}
	}
	sb := minimalFont(1)
	sb.version = 0x00020000
	if _, err := Parse(sb.build()); !errors.Is(err, ErrNoFont) {
		t.Errorf("expected ErrNoFont for unknown signature, got %v", err)
	}
	if _, err := Parse([]byte{0, 1}); !errors.Is(err, ErrNoFont) {
		t.Errorf("expected ErrNoFont for truncated header, got %v", err)
	}
	if _, err := Parse(newSFNT(0x00010000).build()); !errors.Is(err, ErrNoFont) {
		t.Errorf("expected ErrNoFont for font without tables, got %v", err)
	}
}

func TestParseMandatoryTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	for _, tag := range []string{"head", "hhea", "maxp"} {
		_, err := Parse(minimalFont(2).remove(tag).build())
		if !errors.Is(err, ErrNoFont) {
			t.Errorf("expected font without %s to be rejected, got %v", tag, err)
		}
	}
	// hmtx is not mandatory
	otf, err := Parse(minimalFont(2).remove("hmtx").build())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := otf.GlyphHorAdvance(0); ok {
		t.Errorf("expected no advance without hmtx")
	}
	// maxp stating 0 glyphs is malformed
	_, err = Parse(minimalFont(2).set("maxp", maxpTable(0)).build())
	if !errors.Is(err, ErrNoFont) {
		t.Errorf("expected font without glyphs to be rejected, got %v", err)
	}
}

func TestParseInvalidUnitsPerEm(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	for _, upem := range []uint16{0, 15, 16385} {
		otf, err := Parse(minimalFont(1).set("head", headTable(upem, 1)).build())
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := otf.UnitsPerEm(); ok {
			t.Errorf("expected units per em %d to be invalid", upem)
		}
		if len(otf.Warnings()) == 0 {
			t.Errorf("expected a warning for units per em %d", upem)
		}
	}
	for _, upem := range []uint16{16, 2048, 16384} {
		otf, err := Parse(minimalFont(1).set("head", headTable(upem, 1)).build())
		if err != nil {
			t.Fatal(err)
		}
		if u, ok := otf.UnitsPerEm(); !ok || u != upem {
			t.Errorf("expected units per em %d, have %d", upem, u)
		}
	}
}

func TestParseDuplicateTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := Parse(minimalFont(2).add("maxp", maxpTable(7)).build())
	if err != nil {
		t.Fatal(err)
	}
	if otf.NumberOfGlyphs() != 2 {
		t.Errorf("expected first maxp table to win, have %d glyphs", otf.NumberOfGlyphs())
	}
	if len(otf.Warnings()) == 0 {
		t.Errorf("expected a warning for duplicate table")
	}
}

func TestParseTableBounds(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	data := minimalFont(2).add("OS/2", os2Table(4, 700, 5, 0)).build()
	// table records are sorted: OS/2 comes first
	if string(data[12:16]) != "OS/2" {
		t.Fatalf("unexpected first table record %q", data[12:16])
	}
	putU32(data, 12+12, 0xfffffff0) // length
	otf, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if otf.HasTable(T("OS/2")) {
		t.Errorf("expected table with invalid bounds to be dropped")
	}
	if otf.Weight() != 400 {
		t.Errorf("expected default weight without OS/2, have %d", otf.Weight())
	}
	if len(otf.Errors()) == 0 {
		t.Errorf("expected an error to be recorded")
	}
}

func TestParseTruncatedFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	square := simpleGlyph([]testPoint{onPt(0, 0), onPt(0, 100), onPt(100, 100), onPt(100, 0)})
	data := glyfFont(nil, square).
		add("cmap", cmapTable(cmapSub{3, 1, testCMap4(cmap4Segment{start: 'A', end: 'A', delta: deltaTo('A', 1)})})).
		add("OS/2", os2Table(4, 400, 5, 0)).
		build()
	for n := 0; n < len(data); n++ {
		otf, err := Parse(data[:n])
		if err != nil {
			continue
		}
		// queries on a damaged font must not panic
		otf.GlyphIndex('A')
		otf.GlyphHorAdvance(1)
		otf.Weight()
		otf.OutlineGlyph(1, &outlineRecorder{})
	}
}

func TestFontCollection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	data := buildCollection(minimalFont(3), minimalFont(5))
	if n := FontsInCollection(data); n != 2 {
		t.Fatalf("expected 2 fonts in collection, have %d", n)
	}
	for i, glyphs := range []int{3, 5} {
		otf, err := ParseCollection(data, i)
		if err != nil {
			t.Fatal(err)
		}
		if otf.NumberOfGlyphs() != glyphs {
			t.Errorf("expected font #%d to have %d glyphs, has %d", i, glyphs, otf.NumberOfGlyphs())
		}
		if otf.CollectionIndex() != i {
			t.Errorf("expected collection index %d, is %d", i, otf.CollectionIndex())
		}
	}
	if _, err := ParseCollection(data, 2); !errors.Is(err, ErrNoFont) {
		t.Errorf("expected ErrNoFont for index out of range, got %v", err)
	}
	if _, err := ParseCollection(data, -1); !errors.Is(err, ErrNoFont) {
		t.Errorf("expected ErrNoFont for negative index, got %v", err)
	}
	// Parse selects the first font
	otf, err := Parse(data)
	if err != nil || otf.NumberOfGlyphs() != 3 {
		t.Errorf("expected Parse to select first font of collection, got %v", err)
	}
}

func TestSingleFontIgnoresIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	data := minimalFont(4).build()
	if n := FontsInCollection(data); n != -1 {
		t.Errorf("expected -1 for single font, have %d", n)
	}
	otf, err := ParseCollection(data, 5)
	if err != nil {
		t.Fatal(err)
	}
	if otf.NumberOfGlyphs() != 4 || otf.CollectionIndex() != 0 {
		t.Errorf("expected index to be ignored for single font")
	}
}

func TestTablesDecodedOnce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := Parse(minimalFont(2).add("OS/2", os2Table(4, 700, 5, 0)).build())
	if err != nil {
		t.Fatal(err)
	}
	t1, t2 := otf.Table(T("OS/2")), otf.Table(T("OS/2"))
	if t1 == nil || t1 != t2 {
		t.Errorf("expected the same table instance on repeated access")
	}
	if otf.Table(T("GSUB")) != nil {
		t.Errorf("expected nil for missing table")
	}
	if !otf.HasTable(T("OS/2")) || otf.HasTable(T("CFF ")) {
		t.Errorf("HasTable reports wrong tables")
	}
}
