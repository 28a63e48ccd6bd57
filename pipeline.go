package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

type scanPhase int

const (
	phaseSizes scanPhase = iota
	phaseHashing
)

func (p scanPhase) String() string {
	switch p {
	case phaseHashing:
		return "Phase 2/2: Hashing files..."
	default:
		return "Phase 1/2: Analyzing file sizes..."
	}
}

// ScanObserver receives progress from a running scan. Implementations must
// not block for long: they are called from the scanning goroutine.
type ScanObserver interface {
	OnPhase(phase scanPhase, total int)
	OnVisited(files int)
	OnBucket(done, total int)
}

type nopObserver struct{}

func (nopObserver) OnPhase(scanPhase, int) {}
func (nopObserver) OnVisited(int)          {}
func (nopObserver) OnBucket(int, int)      {}

type ScanResult struct {
	RunID   string
	Root    string
	Hash    string
	Stats   IndexStats
	Buckets int
	Groups  []DuplicateGroup
	Elapsed time.Duration
}

type Scanner struct {
	fs       afero.Fs
	hasher   *Hasher
	skipDirs map[string]struct{}
	maxDepth int
	minSize  int64
	workers  int
	log      *slog.Logger
}

func NewScanner(fs afero.Fs, hasher *Hasher, cfg Config, log *slog.Logger) *Scanner {
	if log == nil {
		log = discardLogger()
	}
	return &Scanner{
		fs:       fs,
		hasher:   hasher,
		skipDirs: scanSkipDirs(cfg),
		maxDepth: cfg.Depth,
		minSize:  cfg.MinSize,
		workers:  cfg.Workers,
		log:      log.With(slog.String("item", "Scanner")),
	}
}

// scanSkipDirs merges the explicit skip list with the expanded presets. Presets
// were validated by normalizeConfig, so an unknown name here is ignored.
func scanSkipDirs(cfg Config) map[string]struct{} {
	presetDirs, _ := expandSkipPresets(cfg.Presets)
	return skipSet(cfg.Skip, presetDirs)
}

// Run executes both phases: size bucketing, then content hashing of every
// bucket with two or more members.
func (s *Scanner) Run(ctx context.Context, root string, obs ScanObserver) (ScanResult, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	start := time.Now()
	result := ScanResult{RunID: uuid.NewString(), Root: root, Hash: s.hasher.Algorithm()}
	log := s.log.With(slog.String("run", result.RunID), slog.String("root", root))

	obs.OnPhase(phaseSizes, 0)
	buckets, stats, err := IndexSizes(ctx, ScanOptions{
		Root:       root,
		Fs:         s.fs,
		SkipDirs:   s.skipDirs,
		MaxDepth:   s.maxDepth,
		MinSize:    s.minSize,
		OnProgress: obs.OnVisited,
	})
	if err != nil {
		log.Error("Cannot index sizes", slog.Any("error", err))
		return result, err
	}
	result.Stats = stats
	result.Buckets = len(buckets)
	log.Info("Indexed sizes",
		slog.Int("files", stats.Files),
		slog.Int("skipped", stats.Skipped),
		slog.Int("buckets", len(buckets)),
		slog.Int("candidates", buckets.FileCount()),
	)
	for _, w := range stats.Warnings {
		log.Warn("Walk warning", slog.String("detail", w))
	}

	if len(buckets) > 0 {
		obs.OnPhase(phaseHashing, len(buckets))
		groups, err := ResolveDuplicates(ctx, buckets, s.hasher, ResolveOptions{
			Workers:  s.workers,
			OnBucket: obs.OnBucket,
			Log:      log,
		})
		if err != nil {
			log.Error("Cannot resolve duplicates", slog.Any("error", err))
			return result, err
		}
		result.Groups = groups
	}

	result.Elapsed = time.Since(start)
	log.Info("Scan complete", slog.Int("groups", len(result.Groups)), slog.Duration("elapsed", result.Elapsed))
	return result, nil
}
