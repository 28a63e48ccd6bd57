//go:build !linux && !windows

package main

import "path/filepath"

func listVolumes() ([]string, error) {
	volumes := []string{"/"}
	extra, err := filepath.Glob("/Volumes/*")
	if err != nil {
		return volumes, nil
	}
	return append(volumes, extra...), nil
}
