package main

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"
)

type DeletionFailure struct {
	Path string
	Err  error
}

type DeletionReport struct {
	Deleted []string
	Failed  []DeletionFailure
}

func (r *DeletionReport) merge(other DeletionReport) {
	r.Deleted = append(r.Deleted, other.Deleted...)
	r.Failed = append(r.Failed, other.Failed...)
}

type Executor struct {
	fs  afero.Fs
	log *slog.Logger
}

func NewExecutor(fs afero.Fs, log *slog.Logger) *Executor {
	if log == nil {
		log = discardLogger()
	}
	return &Executor{fs: fs, log: log.With(slog.String("item", "Executor"))}
}

// Execute removes every path on its own. A failure is recorded and the
// remaining paths are still attempted.
func (e *Executor) Execute(paths []string) DeletionReport {
	var report DeletionReport
	for _, path := range paths {
		if err := e.remove(path); err != nil {
			e.log.Warn("Cannot delete file", slog.String("path", path), slog.Any("error", err))
			report.Failed = append(report.Failed, DeletionFailure{Path: path, Err: err})
			continue
		}
		e.log.Info("Deleted file", slog.String("path", path))
		report.Deleted = append(report.Deleted, path)
	}
	return report
}

func (e *Executor) remove(path string) error {
	cleaned, err := validateDeletePath(path)
	if err != nil {
		return err
	}
	info, err := e.fs.Stat(cleaned)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("delete: refusing to delete a directory")
	}
	return e.fs.Remove(cleaned)
}

func validateDeletePath(path string) (string, error) {
	if path == "" {
		return "", errors.New("delete: empty path")
	}
	cleaned := filepath.Clean(path)
	if !filepath.IsAbs(cleaned) {
		return "", errors.New("delete: relative paths are not allowed")
	}
	if cleaned == filepath.VolumeName(cleaned)+string(filepath.Separator) {
		return "", errors.New("delete: refusing to delete root")
	}
	return cleaned, nil
}
