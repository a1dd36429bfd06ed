// Package extension tracks installed source extensions against the
// extension repository index.
package extension

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Installed is an extension present on this device.
type Installed struct {
	PkgName     string `json:"pkg"`
	Name        string `json:"name"`
	VersionName string `json:"version"`
	VersionCode int64  `json:"code"`
	Lang        string `json:"lang"`
	Obsolete    bool   `json:"obsolete,omitempty"`
	Unofficial  bool   `json:"unofficial,omitempty"`
}

// Available is an extension offered by the repository index.
type Available struct {
	PkgName     string `json:"pkg"`
	Name        string `json:"name"`
	VersionName string `json:"version"`
	VersionCode int64  `json:"code"`
	Lang        string `json:"lang"`
	NSFW        int    `json:"nsfw"`
}

// Problem is an installed extension worth mentioning in a bug report.
type Problem struct {
	Installed Installed
	Available *Available
	HasUpdate bool
}

// Catalog joins installed extensions with the repository index.
type Catalog struct {
	installed []Installed
	available map[string]Available
}

// NewCatalog builds a catalog. Installed extensions are kept sorted by name.
func NewCatalog(installed []Installed, available []Available) *Catalog {
	sorted := append([]Installed(nil), installed...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Catalog{
		installed: sorted,
		available: lo.KeyBy(available, func(a Available) string { return a.PkgName }),
	}
}

// Installed returns the installed extensions sorted by name.
func (c *Catalog) Installed() []Installed {
	return append([]Installed(nil), c.installed...)
}

// Available returns the index entry for pkg.
func (c *Catalog) Available(pkg string) (Available, bool) {
	a, ok := c.available[pkg]
	return a, ok
}

// HasUpdate reports whether the index has a newer version of i.
func (c *Catalog) HasUpdate(i Installed) bool {
	a, ok := c.available[i.PkgName]
	return ok && a.VersionCode > i.VersionCode
}

// Updates returns the names of installed extensions with a newer version.
func (c *Catalog) Updates() []string {
	return lo.FilterMap(c.installed, func(i Installed, _ int) (string, bool) {
		return i.Name, c.HasUpdate(i)
	})
}

// Problematic returns extensions that are outdated, obsolete or unofficial.
func (c *Catalog) Problematic() []Problem {
	var out []Problem
	for _, i := range c.installed {
		hasUpdate := c.HasUpdate(i)
		if !hasUpdate && !i.Obsolete && !i.Unofficial {
			continue
		}
		p := Problem{Installed: i, HasUpdate: hasUpdate}
		if a, ok := c.available[i.PkgName]; ok {
			p.Available = &a
		}
		out = append(out, p)
	}
	return out
}

// LoadIndex reads a repository index file.
func LoadIndex(fs afero.Fs, path string) ([]Available, error) {
	var out []Available
	if err := readJSON(fs, path, &out); err != nil {
		return nil, fmt.Errorf("load extension index: %w", err)
	}
	return out, nil
}

// LoadInstalled reads the list of installed extensions.
func LoadInstalled(fs afero.Fs, path string) ([]Installed, error) {
	var out []Installed
	if err := readJSON(fs, path, &out); err != nil {
		return nil, fmt.Errorf("load installed extensions: %w", err)
	}
	return out, nil
}

// FileSource loads the catalog from two JSON files on every call.
// An empty path contributes no entries.
type FileSource struct {
	FS            afero.Fs
	IndexPath     string
	InstalledPath string
}

func (f FileSource) Catalog(_ context.Context) (*Catalog, error) {
	var (
		installed []Installed
		available []Available
		err       error
	)
	if f.InstalledPath != "" {
		if installed, err = LoadInstalled(f.FS, f.InstalledPath); err != nil {
			return nil, err
		}
	}
	if f.IndexPath != "" {
		if available, err = LoadIndex(f.FS, f.IndexPath); err != nil {
			return nil, err
		}
	}
	return NewCatalog(installed, available), nil
}

func readJSON(fs afero.Fs, path string, v any) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

var (
	summaryKey = "extension.updates"
	messages   = func() catalog.Catalog {
		b := catalog.NewBuilder()
		if err := b.Set(language.English, summaryKey, plural.Selectf(1, "%d",
			plural.One, "%d extension update available",
			plural.Other, "%d extension updates available")); err != nil {
			panic(err)
		}
		return b
	}()
)

// UpdatesSummary is the one-line text announcing pending updates.
func UpdatesSummary(names []string) string {
	p := message.NewPrinter(language.English, message.Catalog(messages))
	return p.Sprintf(summaryKey, len(names))
}
