package ttfparse

import (
	"encoding/binary"
	"errors"
	"io/fs"
	"strings"
	"testing"

	td "github.com/go-text/typesetting-utils/opentype"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/ttfparse/ot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corpusFonts(t *testing.T, suffixes ...string) []string {
	var paths []string
	_ = fs.WalkDir(td.Files, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		for _, s := range suffixes {
			if strings.HasSuffix(strings.ToLower(p), s) {
				paths = append(paths, p)
			}
		}
		return nil
	})
	if len(paths) == 0 {
		t.Skipf("no %v fonts in test corpus", suffixes)
	}
	return paths
}

func TestFontsInCollection(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	assert.Equal(t, int32(-1), FontsInCollection(nil))
	assert.Equal(t, int32(-1), FontsInCollection([]byte{0, 1, 0, 0, 0, 0, 0, 0}))
	ttc := make([]byte, 12)
	copy(ttc, "ttcf")
	binary.BigEndian.PutUint32(ttc[8:], 0)
	assert.Equal(t, int32(0), FontsInCollection(ttc))
	_, err := FromBinary(ttc, 0)
	assert.True(t, errors.Is(err, ot.ErrNoFont))
}

func TestCollectionsOfCorpus(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	for _, path := range corpusFonts(t, ".ttc", ".otc") {
		b, err := td.Files.ReadFile(path)
		require.NoError(t, err)
		n := FontsInCollection(b)
		require.Greater(t, int(n), 0, path)
		for i := 0; i < int(n); i++ {
			f, err := ParseFont(b, i)
			if err != nil {
				t.Logf("%s[%d]: %v", path, i, err)
				continue
			}
			assert.Equal(t, i, f.Index)
			assert.Equal(t, i, f.OT.CollectionIndex(), path)
		}
		_, err = FromBinary(b, int(n))
		assert.Error(t, err, "index out of range")
	}
}

func TestSingleFontIndex(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	for _, path := range corpusFonts(t, ".ttf") {
		b, err := td.Files.ReadFile(path)
		require.NoError(t, err)
		otf, err := FromBinary(b, 0)
		if err != nil {
			continue
		}
		assert.Equal(t, int32(-1), FontsInCollection(b), path)
		_, err = FromBinary(b, 1)
		assert.True(t, errors.Is(err, ot.ErrNoFont), path)
		family, _ := FamilyName(otf)
		t.Logf("%s: family %q", path, family)
		return
	}
}

func TestCopyNameRecordString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "opentype")
	defer teardown()
	//
	checked := 0
	for _, path := range corpusFonts(t, ".ttf", ".otf") {
		b, err := td.Files.ReadFile(path)
		require.NoError(t, err)
		otf, err := ot.Parse(b)
		if err != nil || otf.NameRecordCount() == 0 {
			continue
		}
		rec, ok := otf.NameRecord(0)
		require.True(t, ok)
		raw, ok := otf.NameRecordBytes(0)
		if !ok || rec.Length == 0 {
			continue
		}
		buf := make([]byte, rec.Length)
		require.True(t, CopyNameRecordString(otf, 0, buf), path)
		assert.Equal(t, raw, buf)
		short := make([]byte, rec.Length-1)
		for i := range short {
			short[i] = 0xAA
		}
		assert.False(t, CopyNameRecordString(otf, 0, short), "buffer size mismatch")
		for _, c := range short {
			assert.Equal(t, byte(0xAA), c, "nothing may be written on failure")
		}
		assert.False(t, CopyNameRecordString(otf, otf.NameRecordCount(), buf))
		checked++
		if checked == 5 {
			break
		}
	}
	t.Logf("checked name records of %d fonts", checked)
}
