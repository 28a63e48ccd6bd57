package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// optional is a flag value that remembers whether it was given, so only
// explicit flags override the config file and environment.
type optional[T string | int | int64] struct {
	value T
	set   bool
}

func (o *optional[T]) String() string { return fmt.Sprint(o.value) }

func (o *optional[T]) Set(raw string) error {
	switch p := any(&o.value).(type) {
	case *string:
		*p = raw
	case *int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		*p = n
	case *int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		*p = n
	}
	o.set = true
	return nil
}

type cliFlags struct {
	configPath  optional[string]
	workers     optional[int]
	hash        optional[string]
	skip        optional[string]
	presets     optional[string]
	depth       optional[int]
	minSize     optional[int64]
	report      optional[string]
	logFile     optional[string]
	logLevel    optional[string]
	noConfirm   bool
	listVolumes bool
	listPresets bool
}

func (f *cliFlags) register(fs *flag.FlagSet) {
	fs.Var(&f.configPath, "config", "Path to a JSON or YAML config file")
	fs.Var(&f.workers, "workers", "Number of hashing workers (0 = one per CPU)")
	fs.Var(&f.hash, "hash", "Content hash: sha256 or xxhash")
	fs.Var(&f.skip, "skip", "Comma-separated directory names to skip")
	fs.Var(&f.presets, "skip-preset", "Comma-separated skip presets (see -list-presets)")
	fs.Var(&f.depth, "depth", "Maximum directory depth to scan (0 = unlimited)")
	fs.Var(&f.minSize, "min-size", "Ignore files smaller than this many bytes")
	fs.Var(&f.report, "report", "Write a report after each scan (.json, .md or .html)")
	fs.Var(&f.logFile, "log-file", "Append logs to this file")
	fs.Var(&f.logLevel, "log-level", "Log level: debug, info, warn or error")
	fs.BoolVar(&f.noConfirm, "no-confirm", false, "Delete without the per-group confirmation prompt")
	fs.BoolVar(&f.listVolumes, "list-volumes", false, "Print the volumes offered by the drive browser and exit")
	fs.BoolVar(&f.listPresets, "list-presets", false, "Print the skip presets and their directories and exit")
}

// apply lets explicitly set flags win over every other config layer.
func (f *cliFlags) apply(cfg Config) Config {
	if f.workers.set {
		cfg.Workers = f.workers.value
	}
	if f.hash.set {
		cfg.Hash = f.hash.value
	}
	if f.skip.set {
		cfg.Skip = parseList(f.skip.value)
	}
	if f.presets.set {
		cfg.Presets = parseList(f.presets.value)
	}
	if f.depth.set {
		cfg.Depth = f.depth.value
	}
	if f.minSize.set {
		cfg.MinSize = f.minSize.value
	}
	if f.report.set {
		cfg.Report = f.report.value
	}
	if f.logFile.set {
		cfg.LogFile = f.logFile.value
	}
	if f.logLevel.set {
		cfg.LogLevel = f.logLevel.value
	}
	if f.noConfirm {
		confirm := false
		cfg.Confirm = &confirm
	}
	return cfg
}

// buildConfig layers defaults, the config file, the environment and flags.
func buildConfig(root string, flags *cliFlags, lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{}
	path, ok, err := resolveConfigPath(root, flags.configPath.value)
	if err != nil {
		return Config{}, fmt.Errorf("resolve config: %w", err)
	}
	if ok {
		if cfg, err = loadConfig(path); err != nil {
			return Config{}, err
		}
	}
	if cfg, err = applyEnv(cfg, lookup); err != nil {
		return Config{}, err
	}
	cfg = flags.apply(cfg)
	if cfg, err = normalizeConfig(cfg); err != nil {
		return Config{}, err
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return cfg, nil
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var flags cliFlags
	flags.register(flag.CommandLine)
	flag.Parse()

	root := ""
	if flag.NArg() > 0 {
		absRoot, err := filepath.Abs(flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error resolving path:", err)
			return 1
		}
		root = absRoot
	}

	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "Error loading environment:", err)
		return 1
	}

	configRoot := root
	if configRoot == "" {
		configRoot, _ = os.Getwd()
	}
	cfg, err := buildConfig(configRoot, &flags, os.LookupEnv)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error in config:", err)
		return 1
	}

	logger, closer, err := newLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening log:", err)
		return 1
	}
	defer func() {
		if closeErr := closer.Close(); closeErr != nil {
			fmt.Fprintln(os.Stderr, "Error closing log:", closeErr)
		}
	}()

	if flags.listPresets {
		for _, name := range presetNames() {
			fmt.Printf("%s: %s\n", name, strings.Join(skipPresets[name], ", "))
		}
		return 0
	}

	if flags.listVolumes {
		volumes, err := systemVolumes{}.Volumes()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error listing volumes:", err)
			return 1
		}
		for _, v := range volumes {
			fmt.Println(v)
		}
		return 0
	}

	app, err := NewApp(cfg, afero.NewOsFs(), newTeaPrompter(), systemVolumes{}, os.Stdin, os.Stdout, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error starting:", err)
		return 1
	}

	if root != "" {
		err = app.runScanner(ctx, root)
	} else {
		err = app.runMenu(ctx)
	}
	if err != nil {
		if errors.Is(err, ErrInterrupted) {
			fmt.Println(ui.accent.Render("\nOperation cancelled by user. Goodbye!"))
			return 0
		}
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return 1
	}
	return 0
}
