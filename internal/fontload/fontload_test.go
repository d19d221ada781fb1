package fontload

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	td "github.com/go-text/typesetting-utils/opentype"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// corpusFiles returns the paths of the font files of the go-text test corpus.
func corpusFiles(t *testing.T) []string {
	t.Helper()
	var paths []string
	err := fs.WalkDir(td.Files, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ttf", ".otf", ".ttc", ".otc":
			paths = append(paths, path)
		}
		return nil
	})
	require.NoError(t, err)
	if len(paths) == 0 {
		t.Skip("no fonts in test corpus")
	}
	return paths
}

func TestFromBinaryRejectsGarbage(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	_, err := FromBinary("garbage.ttf", []byte("this is not a font"))
	assert.Error(t, err)
	_, err = FromBinary("empty.ttc", []byte{'t', 't', 'c', 'f', 0, 1, 0, 0, 0, 0, 0, 0})
	assert.Error(t, err, "collection without fonts")
}

func TestLocateFontByPath(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	paths := corpusFiles(t)
	b, err := td.Files.ReadFile(paths[0])
	require.NoError(t, err)
	fpath := filepath.Join(t.TempDir(), filepath.Base(paths[0]))
	require.NoError(t, os.WriteFile(fpath, b, 0o644))
	located, err := LocateFont(fpath)
	require.NoError(t, err)
	assert.Equal(t, fpath, located)
	ff, err := Load(fpath)
	require.NoError(t, err)
	assert.Equal(t, len(b), len(ff.Binary))
	_, err = ff.Font(ff.Count)
	assert.Error(t, err, "index past the last font")
	_, err = LocateFont("")
	assert.Error(t, err)
}

func TestCrossCheckCorpus(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.fonts")
	defer teardown()
	//
	checked := 0
	for _, path := range corpusFiles(t) {
		b, err := td.Files.ReadFile(path)
		require.NoError(t, err)
		ff, err := FromBinary(path, b)
		if err != nil {
			continue
		}
		for i := 0; i < ff.Count; i++ {
			otf, err := ff.Font(i)
			if err != nil {
				t.Logf("%s[%d]: %v", path, i, err)
				continue
			}
			checked++
			for _, m := range CrossCheck(otf, b, i, 64) {
				switch m.Property {
				case "numGlyphs", "unitsPerEm":
					t.Errorf("%s[%d]: %s", path, i, m)
				default: // readers differ in their treatment of broken tables
					t.Logf("%s[%d]: %s", path, i, m)
				}
			}
		}
	}
	t.Logf("cross-checked %d fonts", checked)
	assert.Greater(t, checked, 0)
}
