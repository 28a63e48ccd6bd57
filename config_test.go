package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func isolateConfigHome(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
}

func TestLoadConfigFormats(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "c.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"workers": 3, "hash": "xxhash", "skip": ["tmp"], "min_size": 10, "confirm": false}`), 0o644))
	cfg, err := loadConfig(jsonPath)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, "xxhash", cfg.Hash)
	require.Equal(t, []string{"tmp"}, cfg.Skip)
	require.Equal(t, int64(10), cfg.MinSize)
	require.NotNil(t, cfg.Confirm)
	require.False(t, *cfg.Confirm)

	yamlPath := filepath.Join(dir, "c.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("depth: 4\nskip_presets: [node, python]\nreport: out.md\nlog_level: debug\n"), 0o644))
	cfg, err = loadConfig(yamlPath)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Depth)
	require.Equal(t, []string{"node", "python"}, cfg.Presets)
	require.Equal(t, "out.md", cfg.Report)
	require.Equal(t, "debug", cfg.LogLevel)

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`{`), 0o644))
	_, err = loadConfig(badPath)
	require.Error(t, err)
}

func TestResolveConfigPath(t *testing.T) {
	isolateConfigHome(t)
	root := t.TempDir()

	_, ok, err := resolveConfigPath(root, "")
	require.NoError(t, err)
	require.False(t, ok)

	local := filepath.Join(root, ".dupekill.yml")
	require.NoError(t, os.WriteFile(local, []byte("workers: 1\n"), 0o644))
	path, ok, err := resolveConfigPath(root, "")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, local, path)

	path, ok, err = resolveConfigPath(root, "/explicit.json")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "/explicit.json", path)
}

func TestApplyEnv(t *testing.T) {
	cfg, err := applyEnv(Config{Workers: 1, Hash: "sha256"}, mapLookup(map[string]string{
		"DUPEKILL_WORKERS":      "8",
		"DUPEKILL_HASH":         "xxhash",
		"DUPEKILL_SKIP":         "a, b",
		"DUPEKILL_SKIP_PRESETS": "go",
		"DUPEKILL_REPORT":       "r.json",
		"DUPEKILL_LOG_FILE":     "/tmp/x.log",
		"DUPEKILL_LOG_LEVEL":    "warn",
	}))
	require.NoError(t, err)
	require.Equal(t, Config{
		Workers:  8,
		Hash:     "xxhash",
		Skip:     []string{"a", "b"},
		Presets:  []string{"go"},
		Report:   "r.json",
		LogFile:  "/tmp/x.log",
		LogLevel: "warn",
	}, cfg)

	_, err = applyEnv(Config{}, mapLookup(map[string]string{"DUPEKILL_WORKERS": "many"}))
	require.Error(t, err)

	unchanged, err := applyEnv(Config{Hash: "sha256"}, mapLookup(nil))
	require.NoError(t, err)
	require.Equal(t, Config{Hash: "sha256"}, unchanged)
}

func TestNormalizeConfig(t *testing.T) {
	cfg, err := normalizeConfig(Config{Hash: " XXHash "})
	require.NoError(t, err)
	require.Equal(t, hashXXHash, cfg.Hash)

	cfg, err = normalizeConfig(Config{})
	require.NoError(t, err)
	require.Equal(t, hashSHA256, cfg.Hash)

	bad := []Config{
		{Depth: -1},
		{Workers: -2},
		{MinSize: -1},
		{Hash: "md5"},
		{LogLevel: "loud"},
		{Report: "out.pdf"},
		{Presets: []string{"cobol"}},
	}
	for _, c := range bad {
		_, err := normalizeConfig(c)
		require.Error(t, err, "%+v", c)
	}
}

func TestBuildConfigPrecedence(t *testing.T) {
	isolateConfigHome(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".dupekill.json"),
		[]byte(`{"workers": 2, "hash": "sha256", "depth": 5, "report": "file.json"}`), 0o644))

	var flags cliFlags
	require.NoError(t, flags.depth.Set("1"))
	require.NoError(t, flags.skip.Set("cache,tmp"))
	require.NoError(t, flags.minSize.Set("4096"))
	require.Error(t, flags.workers.Set("many"))
	require.False(t, flags.workers.set)
	flags.noConfirm = true

	cfg, err := buildConfig(root, &flags, mapLookup(map[string]string{
		"DUPEKILL_HASH":    "xxhash",
		"DUPEKILL_WORKERS": "6",
	}))
	require.NoError(t, err)
	require.Equal(t, 6, cfg.Workers)
	require.Equal(t, hashXXHash, cfg.Hash)
	require.Equal(t, 1, cfg.Depth)
	require.Equal(t, "file.json", cfg.Report)
	require.Equal(t, []string{"cache", "tmp"}, cfg.Skip)
	require.Equal(t, int64(4096), cfg.MinSize)
	require.Equal(t, "4096", flags.minSize.String())
	require.NotNil(t, cfg.Confirm)
	require.False(t, *cfg.Confirm)

	require.NoError(t, flags.workers.Set("0"))
	cfg, err = buildConfig(root, &flags, mapLookup(nil))
	require.NoError(t, err)
	require.Positive(t, cfg.Workers)
}

func TestSkipSet(t *testing.T) {
	set := skipSet([]string{"cache", " tmp ", ""}, nil, []string{"cache", "node_modules"})
	require.Equal(t, map[string]struct{}{"cache": {}, "tmp": {}, "node_modules": {}}, set)
	require.Empty(t, skipSet())
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), ".env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DUPEKILL_TEST_DOTENV=from-file\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DUPEKILL_TEST_DOTENV") })

	require.NoError(t, loadDotEnv(path))
	require.Equal(t, "from-file", os.Getenv("DUPEKILL_TEST_DOTENV"))
}

func TestParseList(t *testing.T) {
	require.Nil(t, parseList(""))
	require.Equal(t, []string{"a", "b"}, parseList(" a, ,b ,"))
}

func TestExpandSkipPresets(t *testing.T) {
	dirs, err := expandSkipPresets([]string{"go", "Rust", "go"})
	require.NoError(t, err)
	require.Equal(t, []string{"vendor", "target", ".cargo"}, dirs)

	all, err := expandSkipPresets([]string{"all"})
	require.NoError(t, err)
	require.Contains(t, all, "node_modules")
	require.Contains(t, all, "__pycache__")

	_, err = expandSkipPresets([]string{"cobol"})
	require.ErrorContains(t, err, "unknown skip preset")
}
