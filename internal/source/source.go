// Package source produces the rows the demo refreshes: a listing of the files
// under a root directory.
package source

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charlievieth/fastwalk"
	"github.com/sirupsen/logrus"
)

// ErrNotDirectory is returned when the root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

const streamBufferSize = 64

// skipDirs are directories we never descend into.
//
//nolint:gochecknoglobals // immutable lookup table used across the package.
var skipDirs = []string{
	".git",
	".hg",
	".svn",
	"node_modules",
	"vendor",
	"__pycache__",
	".cache",
}

// Options tunes a listing.
type Options struct {
	// MaxEntries stops the walk once this many files were found; 0 means no limit.
	MaxEntries int
	// Hidden includes dot-files.
	Hidden bool
}

// Entry is one file, relative to the listing root.
type Entry struct {
	Path string
	Size int64
}

// Listing is the result of one walk.
type Listing struct {
	Root      string
	Entries   []Entry
	Truncated bool
	Took      time.Duration
}

// List walks root concurrently and returns its files sorted by path.
func List(ctx context.Context, root string, opts Options) (Listing, error) {
	started := time.Now()
	abs, err := filepath.Abs(root)
	if err != nil {
		return Listing{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Listing{}, err
	}
	if !info.IsDir() {
		return Listing{}, ErrNotDirectory
	}

	walkCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make(chan Entry, streamBufferSize)
	walkErr := make(chan error, 1)
	go func() {
		defer close(out)
		walkErr <- walk(walkCtx, abs, opts, out)
	}()

	listing := Listing{Root: abs}
	for e := range out {
		if opts.MaxEntries > 0 && len(listing.Entries) >= opts.MaxEntries {
			listing.Truncated = true
			cancel()
			continue // drain
		}
		listing.Entries = append(listing.Entries, e)
	}

	if err := <-walkErr; err != nil && !errors.Is(err, context.Canceled) {
		return Listing{}, err
	}
	if err := ctx.Err(); err != nil {
		return Listing{}, err
	}

	sort.Slice(listing.Entries, func(i, j int) bool {
		return listing.Entries[i].Path < listing.Entries[j].Path
	})
	listing.Took = time.Since(started)
	logrus.WithFields(logrus.Fields{
		"root":      abs,
		"entries":   len(listing.Entries),
		"truncated": listing.Truncated,
	}).Debug("listing complete")
	return listing, nil
}

// walk streams files over out. fastwalk calls the callback from several
// goroutines, so the channel is the only shared state.
func walk(ctx context.Context, root string, opts Options, out chan<- Entry) error {
	conf := fastwalk.DefaultConfig
	return fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Skip unreadable entries.
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		name := d.Name()
		if path == root {
			return nil
		}
		if d.IsDir() {
			if isSkippedDir(name) || (!opts.Hidden && isHidden(name)) {
				return fs.SkipDir
			}
			return nil
		}
		if !opts.Hidden && isHidden(name) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}
		select {
		case out <- Entry{Path: filepath.ToSlash(rel), Size: size}:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func isSkippedDir(name string) bool {
	for _, s := range skipDirs {
		if strings.EqualFold(name, s) {
			return true
		}
	}
	return false
}
