package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// FileRecord is the metadata the pipeline needs about one file.
type FileRecord struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// SizeBuckets maps a byte size to the files sharing it, in walk order.
type SizeBuckets map[int64][]FileRecord

// Sizes returns the bucket keys in ascending order.
func (b SizeBuckets) Sizes() []int64 {
	sizes := make([]int64, 0, len(b))
	for size := range b {
		sizes = append(sizes, size)
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i] < sizes[j] })
	return sizes
}

func (b SizeBuckets) FileCount() int {
	n := 0
	for _, files := range b {
		n += len(files)
	}
	return n
}

type ScanOptions struct {
	Root       string
	Fs         afero.Fs
	SkipDirs   map[string]struct{}
	MaxDepth   int
	MinSize    int64
	OnProgress func(visited int)
}

type IndexStats struct {
	Files    int
	Skipped  int
	Warnings []string
}

// ValidateRoot checks that root is an existing, readable directory.
func ValidateRoot(fsys afero.Fs, root string) error {
	info, err := fsys.Stat(root)
	if err != nil {
		return &InvalidPathError{Path: root, Reason: "cannot stat", Err: err}
	}
	if !info.IsDir() {
		return &InvalidPathError{Path: root, Reason: "not a directory"}
	}
	dir, err := fsys.Open(root)
	if err != nil {
		return &InvalidPathError{Path: root, Reason: "cannot open", Err: err}
	}
	if _, err := dir.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		dir.Close()
		return &InvalidPathError{Path: root, Reason: "cannot read", Err: err}
	}
	return dir.Close()
}

// IndexSizes walks opts.Root and groups regular, non-empty files by exact
// size. Sizes with a single file are dropped before returning.
func IndexSizes(ctx context.Context, opts ScanOptions) (SizeBuckets, IndexStats, error) {
	var stats IndexStats
	if opts.Fs == nil {
		return nil, stats, errors.New("scan: filesystem is nil")
	}

	root := resolveRoot(opts.Fs, filepath.Clean(opts.Root))
	if err := ValidateRoot(opts.Fs, root); err != nil {
		return nil, stats, err
	}

	minSize := opts.MinSize
	if minSize < 1 {
		minSize = 1
	}

	buckets := SizeBuckets{}
	visited := 0

	err := afero.Walk(opts.Fs, root, func(path string, info os.FileInfo, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if info != nil && info.IsDir() {
				stats.Warnings = append(stats.Warnings, fmt.Sprintf("cannot read directory: %s: %v", path, err))
				return filepath.SkipDir
			}
			// Vanished or unreadable entry.
			stats.Skipped++
			return nil
		}

		if info.IsDir() {
			if path == root {
				return nil
			}
			if _, ok := opts.SkipDirs[info.Name()]; ok {
				return filepath.SkipDir
			}
			if opts.MaxDepth > 0 && relativeDepth(root, path) >= opts.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}
		visited++
		if opts.OnProgress != nil {
			opts.OnProgress(visited)
		}

		size := info.Size()
		if size < minSize {
			return nil
		}
		stats.Files++
		buckets[size] = append(buckets[size], FileRecord{
			Path:    path,
			Size:    size,
			ModTime: info.ModTime(),
		})
		return nil
	})
	if errors.Is(err, filepath.SkipDir) {
		err = nil
	}
	if err != nil {
		return nil, stats, err
	}

	for size, files := range buckets {
		if len(files) < 2 {
			delete(buckets, size)
		}
	}
	return buckets, stats, nil
}

// resolveRoot follows a symlinked root on the real filesystem, since the walk
// itself never follows links.
func resolveRoot(fsys afero.Fs, root string) string {
	if _, ok := fsys.(*afero.OsFs); !ok {
		return root
	}
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return root
	}
	return resolved
}

// relativeDepth reports how many directories deep path sits below root; a
// direct child of root is at depth 1.
func relativeDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return 0
	}
	trimmed := strings.TrimPrefix(filepath.ToSlash(rel), "./")
	if trimmed == "." || trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, "/") + 1
}
