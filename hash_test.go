package main

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestHasherSHA256(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/a", "hello", baseTime)

	h, err := NewHasher(fsys, "")
	require.NoError(t, err)
	require.Equal(t, hashSHA256, h.Algorithm())

	d, err := h.Hash("/a")
	require.NoError(t, err)
	require.Equal(t, Digest("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"), d)
	require.Equal(t, "2cf24dba5fb0...", d.Short())
}

func TestHasherStreamsLargeFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	content := strings.Repeat("0123456789abcdef", 3*hashChunkSize/16+7)
	writeFile(t, fsys, "/big", content, baseTime)

	h, err := NewHasher(fsys, hashSHA256)
	require.NoError(t, err)
	d, err := h.Hash("/big")
	require.NoError(t, err)

	want := sha256.Sum256([]byte(content))
	require.Equal(t, Digest(hex.EncodeToString(want[:])), d)
}

func TestHasherXXHash(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/a", "same", baseTime)
	writeFile(t, fsys, "/b", "same", baseTime)
	writeFile(t, fsys, "/c", "diff", baseTime)

	h, err := NewHasher(fsys, "XXHash")
	require.NoError(t, err)
	require.Equal(t, hashXXHash, h.Algorithm())

	a, err := h.Hash("/a")
	require.NoError(t, err)
	b, err := h.Hash("/b")
	require.NoError(t, err)
	c, err := h.Hash("/c")
	require.NoError(t, err)

	require.Len(t, string(a), 16)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestHasherErrors(t *testing.T) {
	_, err := NewHasher(afero.NewMemMapFs(), "md5")
	require.Error(t, err)

	h, err := NewHasher(afero.NewMemMapFs(), hashSHA256)
	require.NoError(t, err)
	_, err = h.Hash("/missing")
	require.Error(t, err)
}

func TestDigestShort(t *testing.T) {
	require.Equal(t, "abc", Digest("abc").Short())
	require.Equal(t, "0123456789ab...", Digest("0123456789abcdef").Short())
}
