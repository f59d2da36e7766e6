// Package crashstore retains the traceback of every abnormal termination as
// a content-addressed, zstd-compressed artifact, so a verdict can always be
// traced back to the raw evidence after the run.
package crashstore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/puzpuzpuz/xsync/v3"
)

type Store struct {
	dir   string
	index *xsync.MapOf[string, string]
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create crash store directory: %w", err)
	}
	return &Store{dir: dir, index: xsync.NewMapOf[string, string]()}, nil
}

// Save stores a traceback and returns its key. Identical content always
// yields the same key; a key that already exists is not rewritten.
func (s *Store) Save(traceback []byte) (string, error) {
	sum := sha256.Sum256(traceback)
	key := hex.EncodeToString(sum[:])
	path := filepath.Join(s.dir, key+".zst")

	if _, ok := s.index.Load(key); ok {
		return key, nil
	}
	if _, err := os.Stat(path); err == nil {
		s.index.Store(key, path)
		return key, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create crash artifact %s: %w", key, err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return "", fmt.Errorf("init zstd writer: %w", err)
	}
	if _, err := enc.Write(traceback); err != nil {
		enc.Close()
		f.Close()
		return "", fmt.Errorf("write crash artifact %s: %w", key, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("flush crash artifact %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close crash artifact %s: %w", key, err)
	}

	s.index.Store(key, path)
	return key, nil
}

// Load returns the decompressed traceback for a key.
func (s *Store) Load(key string) ([]byte, error) {
	path, ok := s.index.Load(key)
	if !ok {
		path = filepath.Join(s.dir, key+".zst")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open crash artifact %s: %w", key, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("init zstd reader: %w", err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("read crash artifact %s: %w", key, err)
	}
	return data, nil
}

// Path reports where an artifact lives on disk.
func (s *Store) Path(key string) (string, bool) {
	if path, ok := s.index.Load(key); ok {
		return path, true
	}
	path := filepath.Join(s.dir, key+".zst")
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	return "", false
}
