package main

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// VolumeLister enumerates the roots offered by the drive browser.
type VolumeLister interface {
	Volumes() ([]string, error)
}

type systemVolumes struct{}

func (systemVolumes) Volumes() ([]string, error) { return listVolumes() }

var pseudoFilesystems = map[string]struct{}{
	"autofs": {}, "binfmt_misc": {}, "bpf": {}, "cgroup": {}, "cgroup2": {},
	"configfs": {}, "debugfs": {}, "devpts": {}, "devtmpfs": {}, "efivarfs": {},
	"fusectl": {}, "hugetlbfs": {}, "mqueue": {}, "nsfs": {}, "overlay": {},
	"proc": {}, "pstore": {}, "ramfs": {}, "rpc_pipefs": {}, "securityfs": {},
	"squashfs": {}, "sysfs": {}, "tmpfs": {}, "tracefs": {},
}

// parseMounts reads the mounts(5) format and returns every mountpoint that
// backs real storage, in file order and without duplicates.
func parseMounts(r io.Reader) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		if _, pseudo := pseudoFilesystems[fields[2]]; pseudo {
			continue
		}
		mountpoint := unescapeMount(fields[1])
		if _, dup := seen[mountpoint]; dup {
			continue
		}
		seen[mountpoint] = struct{}{}
		out = append(out, mountpoint)
	}
	return out, sc.Err()
}

// unescapeMount decodes the octal escapes (\040 for space) used in mounts.
func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(n))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
