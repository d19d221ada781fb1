package ot

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSquare = simpleGlyph([]testPoint{onPt(0, 0), onPt(0, 100), onPt(100, 100), onPt(100, 0)})
	testArc    = simpleGlyph([]testPoint{onPt(0, 0), offPt(50, 100), onPt(100, 0)})
	testCircle = simpleGlyph([]testPoint{offPt(0, 0), offPt(100, 0), offPt(100, 100), offPt(0, 100)})
)

func parseTestGlyfFont(t *testing.T) *Font {
	t.Helper()
	otf, err := Parse(glyfFont(
		nil,        // 0: no outline
		testSquare, // 1
		testArc,    // 2
		testCircle, // 3
		compositeGlyph(testComponent{1, 10, 20}, testComponent{2, 0, 0}), // 4
		compositeGlyph(testComponent{glyph: 5}),                          // 5: references itself
		compositeGlyph(testComponent{glyph: 99}),                         // 6: references a missing glyph
		simpleGlyph([]testPoint{onPt(0, 0), onPt(10, 10)}, []testPoint{onPt(20, 20), offPt(30, 30)}), // 7
	).build())
	require.NoError(t, err)
	return otf
}

func TestGlyfOutlines(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestGlyfFont(t)
	tests := []struct {
		glyph GlyphIndex
		ops   []string
	}{
		{0, nil},
		{1, []string{"M 0 0", "L 0 100", "L 100 100", "L 100 0", "L 0 0", "Z"}},
		{2, []string{"M 0 0", "Q 50 100 100 0", "L 0 0", "Z"}},
		{3, []string{"M 50 0", "Q 100 0 100 50", "Q 100 100 50 100", "Q 0 100 0 50", "Q 0 0 50 0", "Z"}},
		{4, []string{
			"M 10 20", "L 10 120", "L 110 120", "L 110 20", "L 10 20", "Z",
			"M 0 0", "Q 50 100 100 0", "L 0 0", "Z"}},
		{7, []string{"M 0 0", "L 10 10", "L 0 0", "Z", "M 20 20", "Q 30 30 20 20", "Z"}},
	}
	for _, test := range tests {
		rec := &outlineRecorder{}
		_, err := otf.OutlineGlyph(test.glyph, rec)
		require.NoError(t, err, "glyph %d", test.glyph)
		assert.Equal(t, test.ops, rec.ops, "glyph %d", test.glyph)
	}
}

func TestGlyfBoundingBoxes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestGlyfFont(t)
	bbox, err := otf.OutlineGlyph(0, nil)
	require.NoError(t, err)
	assert.True(t, bbox.IsEmpty())
	bbox, err = otf.OutlineGlyph(2, nil)
	require.NoError(t, err)
	assert.Equal(t, BoundingBox{0, 0, 100, 100}, bbox, "stored bounding box includes control points")
	bbox, err = otf.GlyphBoundingBox(1)
	require.NoError(t, err)
	assert.Equal(t, BoundingBox{0, 0, 100, 100}, bbox)
	assert.Equal(t, "[0 0 100 100]", bbox.String())
}

func TestGlyfMalformedComposites(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestGlyfFont(t)
	_, err := otf.OutlineGlyph(5, &outlineRecorder{})
	assert.True(t, errors.Is(err, ErrOutlineDepth), "self-referencing composite, got %v", err)
	_, err = otf.OutlineGlyph(6, &outlineRecorder{})
	assert.Error(t, err)
	_, err = otf.OutlineGlyph(8, nil)
	assert.True(t, errors.Is(err, ErrGlyphRange))
}

func TestGlyfOutlineIdempotent(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf := parseTestGlyfFont(t)
	rec1, rec2 := &outlineRecorder{}, &outlineRecorder{}
	_, err1 := otf.OutlineGlyph(4, rec1)
	_, err2 := otf.OutlineGlyph(4, rec2)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, rec1.ops, rec2.ops)
}

func TestGlyfEmptyContour(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	triangle := []testPoint{onPt(200, 0), onPt(250, 100), onPt(300, 0)}
	square := []testPoint{onPt(0, 0), onPt(0, 100), onPt(100, 100), onPt(100, 0)}
	otf, err := Parse(glyfFont(nil, simpleGlyph(square, nil, triangle)).build())
	require.NoError(t, err)
	rec := &outlineRecorder{}
	bbox, err := otf.OutlineGlyph(1, rec)
	require.NoError(t, err)
	assert.Equal(t, BoundingBox{0, 0, 300, 100}, bbox)
	assert.Equal(t, []string{
		"M 0 0", "L 0 100", "L 100 100", "L 100 0", "L 0 0", "Z",
		"M 200 0", "L 250 100", "L 300 0", "L 200 0", "Z",
	}, rec.ops, "contours after an empty contour are replayed")
}

func TestInterpolateUntouchedSkipsEmptyContour(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	orig := []glyfPoint{{x: 0, y: 0}, {x: 10, y: 0}, {x: 20, y: 0}, {x: 30, y: 10}}
	dx := []float32{0, 0, 10, 0}
	dy := []float32{0, 0, 5, 0}
	touched := []bool{true, true, true, false}
	interpolateUntouched(orig, dx, dy, touched, []int{1, 1, 3})
	assert.Equal(t, float32(10), dx[3])
	assert.Equal(t, float32(5), dy[3])
}

func TestGlyfWithoutLoca(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := Parse(glyfFont(nil, testSquare).remove("loca").build())
	require.NoError(t, err)
	_, err = otf.OutlineGlyph(1, nil)
	assert.True(t, errors.Is(err, ErrTableMissing), "got %v", err)
	assert.False(t, otf.HasTable(T("glyf")))
}

func TestGlyfTruncatedGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	// the y coordinates of the square are cut off
	glyf, loca := glyfTables(nil, testSquare[:len(testSquare)-3])
	otf, err := Parse(minimalFont(2).add("glyf", glyf).add("loca", loca).build())
	require.NoError(t, err)
	_, err = otf.OutlineGlyph(1, &outlineRecorder{})
	assert.Error(t, err)
}

func TestOutlineWithoutOutlineTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "font.opentype")
	defer teardown()
	//
	otf, err := Parse(minimalFont(2).build())
	require.NoError(t, err)
	_, err = otf.OutlineGlyph(1, nil)
	assert.True(t, errors.Is(err, ErrTableMissing))
	_, err = otf.OutlineVariableGlyph(1, nil, nil)
	assert.True(t, errors.Is(err, ErrTableMissing), "font is not variable")
}
