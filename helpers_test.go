package main

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func writeFile(t *testing.T, fsys afero.Fs, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	require.NoError(t, fsys.Chtimes(path, mtime, mtime))
}

// failOpenFs refuses to open the listed paths for reading, as an unreadable
// file would.
type failOpenFs struct {
	afero.Fs
	deny map[string]bool
}

func (f failOpenFs) Open(name string) (afero.File, error) {
	if f.deny[name] {
		return nil, os.ErrPermission
	}
	return f.Fs.Open(name)
}

func groupPaths(groups []DuplicateGroup) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		out[i] = g.Paths()
	}
	return out
}

func scanTree(t *testing.T, fsys afero.Fs, root string) []DuplicateGroup {
	t.Helper()
	buckets, _, err := IndexSizes(context.Background(), ScanOptions{Root: root, Fs: fsys})
	require.NoError(t, err)
	hasher, err := NewHasher(fsys, hashSHA256)
	require.NoError(t, err)
	groups, err := ResolveDuplicates(context.Background(), buckets, hasher, ResolveOptions{Workers: 2})
	require.NoError(t, err)
	return groups
}

// scriptedPrompter replays canned answers and records every prompt title.
type scriptedPrompter struct {
	t       *testing.T
	answers []any
	asked   []string
}

func (p *scriptedPrompter) next(title string) any {
	p.t.Helper()
	p.asked = append(p.asked, title)
	require.NotEmpty(p.t, p.answers, "unexpected prompt %q", title)
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer
}

func (p *scriptedPrompter) Select(_ context.Context, title string, options []string) (string, error) {
	switch v := p.next(title).(type) {
	case error:
		return "", v
	case string:
		require.Contains(p.t, options, v)
		return v, nil
	case func([]string) string:
		return v(options), nil
	default:
		p.t.Fatalf("bad Select answer %T for %q", v, title)
		return "", nil
	}
}

func (p *scriptedPrompter) Input(_ context.Context, title string) (string, error) {
	switch v := p.next(title).(type) {
	case error:
		return "", v
	case string:
		return v, nil
	default:
		p.t.Fatalf("bad Input answer %T for %q", v, title)
		return "", nil
	}
}

func (p *scriptedPrompter) Checkbox(_ context.Context, title string, options []string) ([]string, error) {
	switch v := p.next(title).(type) {
	case error:
		return nil, v
	case []string:
		return v, nil
	case func([]string) []string:
		return v(options), nil
	default:
		p.t.Fatalf("bad Checkbox answer %T for %q", v, title)
		return nil, nil
	}
}

func (p *scriptedPrompter) Confirm(_ context.Context, title string) (bool, error) {
	switch v := p.next(title).(type) {
	case error:
		return false, v
	case bool:
		return v, nil
	default:
		p.t.Fatalf("bad Confirm answer %T for %q", v, title)
		return false, nil
	}
}

func (p *scriptedPrompter) done() {
	p.t.Helper()
	require.Empty(p.t, p.answers, "unused answers after prompts: %s", strings.Join(p.asked, " | "))
}

// sentinelOption picks the "mark all" entry, always offered first.
func sentinelOption(options []string) []string { return options[:1] }
