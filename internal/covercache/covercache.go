// Package covercache stores entry covers on disk: source covers keyed by
// thumbnail URL and user-set covers keyed by entry ID.
package covercache

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"

	"github.com/vmunix/animelib/internal/library"
)

// ErrNoCover is returned when an entry has no thumbnail URL to key its cover.
var ErrNoCover = errors.New("entry has no cover url")

// Cache is the cover directory.
type Cache struct {
	fs        afero.Fs
	dir       string
	customDir string
}

// New returns a cache rooted at dir. Custom covers live in dir/custom.
func New(fs afero.Fs, dir string) *Cache {
	return &Cache{fs: fs, dir: dir, customDir: filepath.Join(dir, "custom")}
}

func hashKey(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// CoverPath returns where the source cover of a is kept, or "" when a has
// no thumbnail URL.
func (c *Cache) CoverPath(a *library.Anime) string {
	if a.ThumbnailURL == nil || *a.ThumbnailURL == "" {
		return ""
	}
	return filepath.Join(c.dir, hashKey(*a.ThumbnailURL))
}

// CustomCoverPath returns where the user-set cover of an entry is kept.
func (c *Cache) CustomCoverPath(animeID int64) string {
	return filepath.Join(c.customDir, hashKey(strconv.FormatInt(animeID, 10)))
}

// HasCustomCover reports whether the user replaced the cover of a.
func (c *Cache) HasCustomCover(a *library.Anime) bool {
	ok, err := afero.Exists(c.fs, c.CustomCoverPath(a.ID))
	return err == nil && ok
}

// SaveCover writes the source cover of a.
func (c *Cache) SaveCover(a *library.Anime, r io.Reader) (int64, error) {
	path := c.CoverPath(a)
	if path == "" {
		return 0, ErrNoCover
	}
	return c.write(path, r)
}

// SetCustomCover writes a user-set cover for a, replacing any previous one.
func (c *Cache) SetCustomCover(a *library.Anime, r io.Reader) (int64, error) {
	return c.write(c.CustomCoverPath(a.ID), r)
}

// DeleteFromCache removes the source cover of a, and the custom cover too
// when withCustom is set. Returns the number of files removed.
func (c *Cache) DeleteFromCache(a *library.Anime, withCustom bool) (int, error) {
	var paths []string
	if p := c.CoverPath(a); p != "" {
		paths = append(paths, p)
	}
	if withCustom {
		paths = append(paths, c.CustomCoverPath(a.ID))
	}

	deleted := 0
	for _, p := range paths {
		err := c.fs.Remove(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return deleted, fmt.Errorf("remove cover %s: %w", p, err)
		}
		deleted++
	}
	return deleted, nil
}

// write replaces path with the contents of r through a temporary file so
// readers never see a partial cover.
func (c *Cache) write(path string, r io.Reader) (int64, error) {
	if err := c.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create cover directory: %w", err)
	}

	tmp, err := afero.TempFile(c.fs, filepath.Dir(path), ".cover-*")
	if err != nil {
		return 0, fmt.Errorf("create temp cover: %w", err)
	}
	size, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = c.fs.Remove(tmp.Name())
		return 0, fmt.Errorf("write cover: %w", err)
	}
	if err := c.fs.Rename(tmp.Name(), path); err != nil {
		_ = c.fs.Remove(tmp.Name())
		return 0, fmt.Errorf("rename cover: %w", err)
	}
	return size, nil
}
