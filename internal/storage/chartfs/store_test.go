package chartfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pricebars/internal/common"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewChartStore(common.NewSilentLogger(), t.TempDir())
	require.NoError(t, err)
	return s
}

func TestStore_SaveAndRead(t *testing.T) {
	s := newTestStore(t)

	path, err := s.Save(Manifest{Name: "meta/daily", Kind: "bars", Format: "png", Width: 800, Height: 400, Bars: 12}, []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.DataPath(), "images", "meta_daily.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	m, err := s.Manifest("meta/daily")
	require.NoError(t, err)
	assert.Equal(t, "meta_daily", m.Name)
	assert.Equal(t, "meta_daily.png", m.File)
	assert.Equal(t, 12, m.Bars)
	assert.False(t, m.RenderedAt.IsZero())

	img, err := s.Image("meta_daily")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), img)
}

func TestStore_OverwriteLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 3; i++ {
		_, err := s.Save(Manifest{Name: "c", Format: "svg"}, []byte{byte(i)})
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(filepath.Join(s.DataPath(), "images"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_ListAndPurge(t *testing.T) {
	s := newTestStore(t)
	for _, name := range []string{"b", "a", "c"} {
		_, err := s.Save(Manifest{Name: name, Format: "png"}, []byte(name))
		require.NoError(t, err)
	}

	names, err := s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names)

	assert.Equal(t, 3, s.Purge())
	names, err = s.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStore_MissingManifest(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Manifest("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_NameRequired(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save(Manifest{Format: "png"}, nil)
	assert.Error(t, err)
}
