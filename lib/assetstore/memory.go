// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assetstore

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/bureau-foundation/wasmextract/lib/digest"
)

// MemoryStore is a [ContentStore] that keeps assets in memory. It
// applies the same dedup and conflict rules as [DirStore] and is safe
// for concurrent use.
type MemoryStore struct {
	algorithm digest.Algorithm
	extension string

	mutex sync.Mutex
	files map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore. An empty algorithm
// means digest.Default.
func NewMemoryStore(algorithm digest.Algorithm, extension string) *MemoryStore {
	if algorithm == "" {
		algorithm = digest.Default
	}
	return &MemoryStore{
		algorithm: algorithm,
		extension: extension,
		files:     make(map[string][]byte),
	}
}

// Put implements [ContentStore].
func (s *MemoryStore) Put(data []byte) (PutResult, error) {
	key, err := digest.Sum(s.algorithm, data)
	if err != nil {
		return PutResult{}, err
	}
	filename := Filename(key, s.extension)
	result := PutResult{Key: key, Filename: filename}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if existing, ok := s.files[filename]; ok {
		if !bytes.Equal(existing, data) {
			return PutResult{}, &ConflictError{Key: key, Path: filename,
				Reason: fmt.Sprintf("existing entry holds %d different bytes", len(existing))}
		}
		return result, nil
	}
	s.files[filename] = bytes.Clone(data)
	result.Written = true
	return result, nil
}

// Preload stores data under filename without computing its key. Tests
// use it to simulate a colliding or tampered entry.
func (s *MemoryStore) Preload(filename string, data []byte) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.files[filename] = bytes.Clone(data)
}

// Get returns a copy of the bytes stored under filename.
func (s *MemoryStore) Get(filename string) ([]byte, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	data, ok := s.files[filename]
	if !ok {
		return nil, false
	}
	return bytes.Clone(data), true
}

// Len returns the number of stored files.
func (s *MemoryStore) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.files)
}
