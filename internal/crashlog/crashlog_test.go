package crashlog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/animelib/internal/extension"
)

type staticExtensions struct {
	cat *extension.Catalog
	err error
}

func (s staticExtensions) Catalog(context.Context) (*extension.Catalog, error) { return s.cat, s.err }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testCatalog() *extension.Catalog {
	return extension.NewCatalog(
		[]extension.Installed{
			{PkgName: "ext.zoro", Name: "Zoro", VersionName: "14.3", VersionCode: 3},
			{PkgName: "ext.fine", Name: "Fine", VersionName: "1.0", VersionCode: 1},
			{PkgName: "ext.fork", Name: "Fork", VersionName: "0.1", VersionCode: 1, Unofficial: true},
		},
		[]extension.Available{
			{PkgName: "ext.zoro", Name: "Zoro", VersionName: "14.4", VersionCode: 4},
			{PkgName: "ext.fine", Name: "Fine", VersionName: "1.0", VersionCode: 1},
		},
	)
}

func TestExtensionsInfo(t *testing.T) {
	want := strings.Join([]string{
		"Problematic extensions:",
		"- Fork",
		"  Installed: 0.1 / Available: ?",
		"  Obsolete: false / Unofficial: true",
		"- Zoro",
		"  Installed: 14.3 / Available: 14.4",
		"  Obsolete: false / Unofficial: false",
	}, "\n")
	assert.Equal(t, want, ExtensionsInfo(testCatalog()))

	clean := extension.NewCatalog([]extension.Installed{{PkgName: "a", Name: "A", VersionCode: 1}}, nil)
	assert.Empty(t, ExtensionsInfo(clean))
	assert.Empty(t, ExtensionsInfo(nil))
}

func TestDumper_Dump(t *testing.T) {
	fs := afero.NewMemMapFs()
	logData := "time=1 level=INFO msg=started\n" +
		"time=2 level=ERROR msg=\"update failed\" anime_id=4\n" +
		"time=3 level=WARN msg=slow\n"
	require.NoError(t, afero.WriteFile(fs, "/var/log/animelib.log", []byte(logData), 0o644))

	d := New(fs, "/cache", "/var/log/animelib.log", "1.2.0", staticExtensions{cat: testCatalog()}, testLogger())
	d.hostname = func() (string, error) { return "box", nil }

	path, err := d.Dump(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/cache/"+FileName, path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.HasPrefix(out, "App version: 1.2.0\nGo version: "))
	assert.Contains(t, out, "Hostname: box")
	assert.Contains(t, out, "Problematic extensions:\n- Fork")
	assert.Contains(t, out, `msg="update failed"`)
	assert.NotContains(t, out, "msg=started")
	assert.NotContains(t, out, "msg=slow")
}

func TestDumper_TailOnly(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/log", []byte("level=ERROR msg=old\nlevel=INFO msg=a\nlevel=ERROR msg=new\n"), 0o644))

	d := New(fs, "/cache", "/log", "", nil, testLogger())
	d.tailLines = 2
	lines, err := d.errorLines()
	require.NoError(t, err)
	assert.Equal(t, []string{"level=ERROR msg=new"}, lines)
}

func TestDumper_MissingLogFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	d := New(fs, "/cache", "/nope.log", "", nil, testLogger())

	_, err := d.Dump(context.Background())
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/cache/"+FileName)
	require.NoError(t, err)
	assert.Contains(t, string(data), "App version: dev")
}

func TestDumper_FailureIsGeneric(t *testing.T) {
	d := New(afero.NewMemMapFs(), "/cache", "", "", staticExtensions{err: errors.New("index offline")}, testLogger())

	_, err := d.Dump(context.Background())
	require.ErrorIs(t, err, ErrDumpFailed)
	assert.True(t, strings.HasPrefix(err.Error(), FailedMessage))

	ro := New(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/cache", "", "", nil, testLogger())
	_, err = ro.Dump(context.Background())
	assert.ErrorIs(t, err, ErrDumpFailed)
}
