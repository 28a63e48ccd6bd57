package main

import (
	"errors"
	"fmt"
)

var (
	// ErrInterrupted is returned by a Prompter when the user pressed ctrl+c.
	ErrInterrupted = errors.New("interrupted by user")

	errPromptCancelled = errors.New("prompt cancelled")
	errEmptyGroup      = errors.New("duplicate group has no members")
)

// InvalidPathError means the scan root is missing, not a directory or unreadable.
// It aborts the scan before any work is done.
type InvalidPathError struct {
	Path   string
	Reason string
	Err    error
}

func (e *InvalidPathError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid directory path %q: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid directory path %q: %s", e.Path, e.Reason)
}

func (e *InvalidPathError) Unwrap() error { return e.Err }

func IsInvalidPath(err error) bool {
	var e *InvalidPathError
	return errors.As(err, &e)
}

// KeeperResolutionError abandons the plan of a single duplicate group because
// one of its members could no longer be stat'd.
type KeeperResolutionError struct {
	Path string
	Err  error
}

func (e *KeeperResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve keeper: %s: %v", e.Path, e.Err)
}

func (e *KeeperResolutionError) Unwrap() error { return e.Err }

func IsKeeperResolution(err error) bool {
	var e *KeeperResolutionError
	return errors.As(err, &e)
}
