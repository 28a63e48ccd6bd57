package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Workers  int      `json:"workers" yaml:"workers"`
	Hash     string   `json:"hash" yaml:"hash"`
	Depth    int      `json:"depth" yaml:"depth"`
	MinSize  int64    `json:"min_size" yaml:"min_size"`
	Skip     []string `json:"skip" yaml:"skip"`
	Presets  []string `json:"skip_presets" yaml:"skip_presets"`
	Confirm  *bool    `json:"confirm" yaml:"confirm"`
	Report   string   `json:"report" yaml:"report"`
	LogFile  string   `json:"log_file" yaml:"log_file"`
	LogLevel string   `json:"log_level" yaml:"log_level"`
}

const envPrefix = "DUPEKILL_"

var configNames = []string{"config.json", "config.yml", "config.yaml"}

func resolveConfigPath(root, explicit string) (string, bool, error) {
	if explicit != "" {
		return explicit, true, nil
	}
	for _, candidate := range defaultConfigPaths(root) {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return "", false, nil
}

func loadConfig(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(content, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return cfg, nil
}

func defaultConfigPaths(root string) []string {
	paths := []string{}
	if root != "" {
		paths = append(paths,
			filepath.Join(root, ".dupekill.json"),
			filepath.Join(root, ".dupekill.yml"),
			filepath.Join(root, ".dupekill.yaml"),
		)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		for _, name := range configNames {
			paths = append(paths, filepath.Join(xdg, "dupekill", name))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		for _, name := range configNames {
			paths = append(paths, filepath.Join(home, ".config", "dupekill", name))
		}
	}
	return paths
}

// loadDotEnv exports the variables of a .env file without overriding the
// real environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides cfg with DUPEKILL_* variables.
func applyEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	if v, ok := lookup(envPrefix + "WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("env %sWORKERS: %w", envPrefix, err)
		}
		cfg.Workers = n
	}
	if v, ok := lookup(envPrefix + "HASH"); ok && v != "" {
		cfg.Hash = v
	}
	if v, ok := lookup(envPrefix + "SKIP"); ok && v != "" {
		cfg.Skip = parseList(v)
	}
	if v, ok := lookup(envPrefix + "SKIP_PRESETS"); ok && v != "" {
		cfg.Presets = parseList(v)
	}
	if v, ok := lookup(envPrefix + "REPORT"); ok && v != "" {
		cfg.Report = v
	}
	if v, ok := lookup(envPrefix + "LOG_FILE"); ok && v != "" {
		cfg.LogFile = v
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// skipSet flattens skip lists into a set of directory names. Blank entries
// are dropped.
func skipSet(lists ...[]string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, list := range lists {
		for _, name := range list {
			if name = strings.TrimSpace(name); name != "" {
				set[name] = struct{}{}
			}
		}
	}
	return set
}

func normalizeConfig(cfg Config) (Config, error) {
	if cfg.Depth < 0 {
		return Config{}, errors.New("config: depth must be >= 0")
	}
	if cfg.Workers < 0 {
		return Config{}, errors.New("config: workers must be >= 0")
	}
	if cfg.MinSize < 0 {
		return Config{}, errors.New("config: min_size must be >= 0")
	}
	cfg.Hash = strings.ToLower(strings.TrimSpace(cfg.Hash))
	if cfg.Hash == "" {
		cfg.Hash = hashSHA256
	}
	if !validHashAlgo(cfg.Hash) {
		return Config{}, fmt.Errorf("config: unknown hash %q", cfg.Hash)
	}
	if _, err := expandSkipPresets(cfg.Presets); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.Report != "" && reportFormat(cfg.Report) == "" {
		return Config{}, fmt.Errorf("config: unsupported report format %q", cfg.Report)
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func parseList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
