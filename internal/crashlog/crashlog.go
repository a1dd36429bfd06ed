// Package crashlog writes a diagnostics dump suitable for attaching to bug
// reports.
package crashlog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"

	"github.com/vmunix/animelib/internal/extension"
)

// FileName is the name of the dump inside the cache directory.
const FileName = "animelib_crash_logs.txt"

// FailedMessage is reported to the user when the dump cannot be produced.
const FailedMessage = "Failed to get logs"

// DefaultTailLines bounds how many log lines are scanned for errors.
const DefaultTailLines = 2000

// ErrDumpFailed wraps every failure returned by Dump.
var ErrDumpFailed = errors.New(FailedMessage)

// Extensions supplies the extension catalog at dump time.
type Extensions interface {
	Catalog(ctx context.Context) (*extension.Catalog, error)
}

// Dumper collects debug info, problematic extensions, and recent errors.
type Dumper struct {
	fs         afero.Fs
	cacheDir   string
	logFile    string
	version    string
	extensions Extensions
	tailLines  int
	hostname   func() (string, error)
	log        *slog.Logger
}

// New creates a Dumper. logFile may be empty when logging goes to stderr only,
// and extensions may be nil.
func New(fsys afero.Fs, cacheDir, logFile, version string, extensions Extensions, log *slog.Logger) *Dumper {
	if log == nil {
		log = slog.Default()
	}
	return &Dumper{
		fs:         fsys,
		cacheDir:   cacheDir,
		logFile:    logFile,
		version:    version,
		extensions: extensions,
		tailLines:  DefaultTailLines,
		hostname:   os.Hostname,
		log:        log.With("component", "crashlog"),
	}
}

// Dump writes the crash log and returns its path. On failure the error wraps
// ErrDumpFailed and the underlying cause is logged.
func (d *Dumper) Dump(ctx context.Context) (string, error) {
	path := filepath.Join(d.cacheDir, FileName)
	if err := d.dump(ctx, path); err != nil {
		d.log.Error("crash log dump failed", "path", path, "error", err)
		return "", fmt.Errorf("%w: %v", ErrDumpFailed, err)
	}
	d.log.Info("crash log written", "path", path)
	return path, nil
}

func (d *Dumper) dump(ctx context.Context, path string) error {
	var b strings.Builder
	b.WriteString(d.DebugInfo())
	b.WriteString("\n\n")

	if d.extensions != nil {
		cat, err := d.extensions.Catalog(ctx)
		if err != nil {
			return fmt.Errorf("load extensions: %w", err)
		}
		if info := ExtensionsInfo(cat); info != "" {
			b.WriteString(info)
			b.WriteString("\n\n")
		}
	}

	if d.logFile != "" {
		lines, err := d.errorLines()
		if err != nil {
			return fmt.Errorf("read log file: %w", err)
		}
		for _, l := range lines {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := d.fs.MkdirAll(d.cacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	return afero.WriteFile(d.fs, path, []byte(b.String()), 0o644)
}

// DebugInfo describes the running build and host.
func (d *Dumper) DebugInfo() string {
	host, err := d.hostname()
	if err != nil {
		host = "unknown"
	}
	version := d.version
	if version == "" {
		version = "dev"
	}
	return strings.Join([]string{
		"App version: " + version,
		"Go version: " + runtime.Version(),
		"OS: " + runtime.GOOS + " (" + runtime.GOARCH + ")",
		fmt.Sprintf("CPUs: %d", runtime.NumCPU()),
		"Hostname: " + host,
	}, "\n")
}

// ExtensionsInfo lists extensions that are outdated, obsolete or unofficial.
// It returns "" when none are.
func ExtensionsInfo(cat *extension.Catalog) string {
	if cat == nil {
		return ""
	}
	problems := cat.Problematic()
	if len(problems) == 0 {
		return ""
	}
	lines := []string{"Problematic extensions:"}
	for _, p := range problems {
		available := "?"
		if p.Available != nil {
			available = p.Available.VersionName
		}
		lines = append(lines,
			"- "+p.Installed.Name,
			fmt.Sprintf("  Installed: %s / Available: %s", p.Installed.VersionName, available),
			fmt.Sprintf("  Obsolete: %t / Unofficial: %t", p.Installed.Obsolete, p.Installed.Unofficial),
		)
	}
	return strings.Join(lines, "\n")
}

// errorLines returns the ERROR records among the last tailLines lines of the
// log file. A missing log file yields no lines.
func (d *Dumper) errorLines() ([]string, error) {
	f, err := d.fs.Open(d.logFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ring := make([]string, 0, d.tailLines)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(ring) == d.tailLines {
			ring = ring[1:]
		}
		ring = append(ring, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	var out []string
	for _, l := range ring {
		if strings.Contains(l, "level=ERROR") {
			out = append(out, l)
		}
	}
	return out, nil
}
