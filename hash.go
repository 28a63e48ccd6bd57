package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

const hashChunkSize = 8 * 1024

const (
	hashSHA256 = "sha256"
	hashXXHash = "xxhash"
)

// Digest is the lowercase hex fingerprint of a file's full content.
type Digest string

// Short returns the preview shown in the result table.
func (d Digest) Short() string {
	if len(d) <= 12 {
		return string(d)
	}
	return string(d[:12]) + "..."
}

type Hasher struct {
	fs   afero.Fs
	algo string
}

func NewHasher(fs afero.Fs, algo string) (*Hasher, error) {
	algo = strings.ToLower(strings.TrimSpace(algo))
	if algo == "" {
		algo = hashSHA256
	}
	if !validHashAlgo(algo) {
		return nil, fmt.Errorf("hash: unknown algorithm %q", algo)
	}
	return &Hasher{fs: fs, algo: algo}, nil
}

func (h *Hasher) Algorithm() string { return h.algo }

// Hash streams the file through the digest in fixed-size chunks. A returned
// error means the file must be left out of duplicate consideration.
func (h *Hasher) Hash(path string) (Digest, error) {
	f, err := h.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sum := h.newHash()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(sum, onlyReader{f}, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return Digest(hex.EncodeToString(sum.Sum(nil))), nil
}

func (h *Hasher) newHash() hash.Hash {
	if h.algo == hashXXHash {
		return xxhash.New()
	}
	return sha256.New()
}

func validHashAlgo(algo string) bool {
	switch algo {
	case hashSHA256, hashXXHash:
		return true
	default:
		return false
	}
}

// onlyReader hides WriterTo/ReaderFrom so CopyBuffer really uses the chunk buffer.
type onlyReader struct {
	r io.Reader
}

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }
