package file

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_SaveLoadExists(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage()

	ok, err := s.Exists(dir, "cat__fliph.png")
	require.NoError(t, err)
	assert.False(t, ok)

	img := imaging.New(5, 3, color.NRGBA{G: 200, A: 255})
	require.NoError(t, s.Save(dir, "cat__fliph.png", img))

	ok, err = s.Exists(dir, "cat__fliph.png")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := s.Load(dir, "cat__fliph.png")
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), got.Bounds())
	assert.Equal(t, color.NRGBA{G: 200, A: 255}, color.NRGBAModel.Convert(got.At(2, 1)))

	info, err := os.Stat(filepath.Join(dir, "cat__fliph.png"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files may be left behind")
}

func TestStorage_SaveNameNearLimit(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage()

	// 255 bytes, the usual NAME_MAX.
	name := strings.Repeat("a", 251) + ".png"
	require.NoError(t, s.Save(dir, name, imaging.New(2, 2, color.White)))

	ok, err := s.Exists(dir, name)
	require.NoError(t, err)
	assert.True(t, ok)

	leftovers, err := filepath.Glob(filepath.Join(dir, TempPattern))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestStorage_SaveUnknownFormat(t *testing.T) {
	dir := t.TempDir()

	err := NewStorage().Save(dir, "cat__fliph.xyz", imaging.New(1, 1, color.Black))
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStorage_LoadCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not an image"), 0o644))

	_, err := NewStorage().Load(dir, "bad.png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.png")
}
