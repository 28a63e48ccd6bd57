package main

import (
	"fmt"
	"sort"
	"strings"
)

// skipPresets groups dependency and build directories by ecosystem. Their
// contents are regenerated by tooling and tend to flood the results with
// duplicates nobody should delete by hand.
var skipPresets = map[string][]string{
	"node": {
		"node_modules", ".pnpm", ".pnpm-store", "pnpm-store", ".yarn", "bower_components",
		".turbo", ".next", ".nuxt", ".expo", ".angular", ".svelte-kit",
	},
	"python": {
		".venv", "venv", ".virtualenvs", "__pycache__", ".pytest_cache", ".mypy_cache",
		".ruff_cache", ".tox",
	},
	"go":     {"vendor"},
	"rust":   {"target", ".cargo"},
	"java":   {".gradle", ".m2", ".ivy2"},
	"dotnet": {".nuget", "obj"},
	"ruby":   {".gem", ".bundle"},
	"dart":   {".pub-cache", ".dart_tool"},
	"build":  {".cache", "dist", "build", "out", "coverage"},
	"vcs":    {".git", ".hg", ".svn"},
}

func presetNames() []string {
	names := make([]string, 0, len(skipPresets))
	for name := range skipPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// expandSkipPresets resolves preset names to directory names, in preset order
// and without duplicates. "all" selects every preset.
func expandSkipPresets(presets []string) ([]string, error) {
	seen := map[string]struct{}{}
	var dirs []string
	add := func(name string) {
		for _, dir := range skipPresets[name] {
			if _, ok := seen[dir]; ok {
				continue
			}
			seen[dir] = struct{}{}
			dirs = append(dirs, dir)
		}
	}
	for _, raw := range presets {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch {
		case name == "":
		case name == "all":
			for _, n := range presetNames() {
				add(n)
			}
		default:
			if _, ok := skipPresets[name]; !ok {
				return nil, fmt.Errorf("unknown skip preset %q (known: %s, all)", raw, strings.Join(presetNames(), ", "))
			}
			add(name)
		}
	}
	return dirs, nil
}
