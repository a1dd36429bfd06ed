package extension

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return NewCatalog(
		[]Installed{
			{PkgName: "ext.zoro", Name: "Zoro", VersionCode: 3},
			{PkgName: "ext.allanime", Name: "AllAnime", VersionCode: 10},
			{PkgName: "ext.gone", Name: "Gone", VersionCode: 1, Obsolete: true},
			{PkgName: "ext.fork", Name: "Fork", VersionCode: 1, Unofficial: true},
		},
		[]Available{
			{PkgName: "ext.zoro", Name: "Zoro", VersionCode: 4, VersionName: "14.4"},
			{PkgName: "ext.allanime", Name: "AllAnime", VersionCode: 10},
		},
	)
}

func TestCatalog_InstalledSorted(t *testing.T) {
	var names []string
	for _, i := range testCatalog().Installed() {
		names = append(names, i.Name)
	}
	assert.Equal(t, []string{"AllAnime", "Fork", "Gone", "Zoro"}, names)
}

func TestCatalog_Updates(t *testing.T) {
	assert.Equal(t, []string{"Zoro"}, testCatalog().Updates())
}

func TestCatalog_Problematic(t *testing.T) {
	problems := testCatalog().Problematic()
	require.Len(t, problems, 3)

	assert.Equal(t, "Fork", problems[0].Installed.Name)
	assert.Nil(t, problems[0].Available)
	assert.Equal(t, "Gone", problems[1].Installed.Name)
	assert.Equal(t, "Zoro", problems[2].Installed.Name)
	assert.True(t, problems[2].HasUpdate)
	require.NotNil(t, problems[2].Available)
	assert.Equal(t, "14.4", problems[2].Available.VersionName)
}

func TestLoadIndex(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/repo/index.min.json",
		[]byte(`[{"name":"Aniyomi: Zoro","pkg":"ext.zoro","lang":"en","code":4,"version":"14.4","nsfw":0}]`), 0o644))

	idx, err := LoadIndex(fs, "/repo/index.min.json")
	require.NoError(t, err)
	require.Len(t, idx, 1)
	assert.Equal(t, int64(4), idx[0].VersionCode)

	_, err = LoadIndex(fs, "/missing.json")
	assert.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "/bad.json", []byte("{"), 0o644))
	_, err = LoadInstalled(fs, "/bad.json")
	assert.Error(t, err)
}

func TestUpdatesSummary(t *testing.T) {
	assert.Equal(t, "1 extension update available", UpdatesSummary([]string{"Zoro"}))
	assert.Equal(t, "2 extension updates available", UpdatesSummary([]string{"A", "B"}))
}

func TestFileSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/installed.json",
		[]byte(`[{"pkg":"ext.zoro","name":"Zoro","version":"14.3","code":3}]`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/index.json",
		[]byte(`[{"pkg":"ext.zoro","name":"Zoro","version":"14.4","code":4}]`), 0o644))

	cat, err := FileSource{FS: fs, IndexPath: "/index.json", InstalledPath: "/installed.json"}.Catalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Zoro"}, cat.Updates())

	empty, err := FileSource{FS: fs}.Catalog(context.Background())
	require.NoError(t, err)
	assert.Empty(t, empty.Installed())

	_, err = FileSource{FS: fs, IndexPath: "/missing.json"}.Catalog(context.Background())
	assert.Error(t, err)
}
