// Package readthrough is an on-disk cache for fetched pages, keyed by the
// sha256 of a caller-chosen key.
package readthrough

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// New returns a cache storing files named prefix+hash under dir. An empty
// dir disables caching: Get always misses and Set does nothing.
func New(dir, prefix string) *ReadThrough {
	return &ReadThrough{dir: dir, prefix: prefix}
}

type ReadThrough struct {
	dir, prefix string
}

var ErrMiss = errors.New("cache miss")

func (rt *ReadThrough) Get(key string) ([]byte, error) {
	if rt.dir == "" {
		return nil, fmt.Errorf("cache disabled: %w", ErrMiss)
	}
	hash, filename := rt.hashAndFilename(key)

	bs, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("cache miss for '%s': %w", hash, ErrMiss)
	} else if err != nil {
		return nil, fmt.Errorf("error reading cache file '%s': %w", hash, err)
	}
	return bs, nil
}

// Set writes value atomically, so a crash never leaves a truncated entry.
func (rt *ReadThrough) Set(key string, value []byte) error {
	if rt.dir == "" {
		return nil
	}
	hash, filename := rt.hashAndFilename(key)

	if err := os.MkdirAll(rt.dir, 0755); err != nil {
		return fmt.Errorf("error creating cache dir '%s': %w", rt.dir, err)
	}
	tmp, err := os.CreateTemp(rt.dir, rt.prefix+hash+".*.tmp")
	if err != nil {
		return fmt.Errorf("error opening cache file '%s' for write: %w", hash, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing cache file '%s': %w", hash, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing cache file '%s': %w", hash, err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("error moving cache file '%s' into place: %w", hash, err)
	}
	return nil
}

// Fetch returns the cached value for key, calling fetch and caching its
// result on a miss. hit reports whether fetch was skipped.
func (rt *ReadThrough) Fetch(key string, fetch func() ([]byte, error)) (value []byte, hit bool, err error) {
	if bs, err := rt.Get(key); err == nil {
		return bs, true, nil
	} else if !errors.Is(err, ErrMiss) {
		return nil, false, err
	}

	bs, err := fetch()
	if err != nil {
		return nil, false, err
	}
	if err := rt.Set(key, bs); err != nil {
		return bs, false, err
	}
	return bs, false, nil
}

func (rt *ReadThrough) hashAndFilename(key string) (string, string) {
	var hasher = sha256.New()
	hasher.Write([]byte(key))
	hash := hex.EncodeToString(hasher.Sum(nil))
	return hash, filepath.Join(rt.dir, rt.prefix+hash)
}
