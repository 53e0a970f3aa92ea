// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assetstore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/wasmextract/lib/digest"
)

// DefaultFileMode is the permission of published asset files.
const DefaultFileMode fs.FileMode = 0o644

// DirStoreConfig configures a [DirStore].
type DirStoreConfig struct {
	// Root is the directory assets are written to. Created if missing.
	Root string

	// Algorithm selects the content key digest. Empty means
	// digest.Default.
	Algorithm digest.Algorithm

	// Extension is appended to the hex digest to form file names.
	Extension string

	// FileMode is the permission of published files. Zero means
	// DefaultFileMode.
	FileMode fs.FileMode

	// Logger receives debug records for writes and cache hits. Nil
	// discards them.
	Logger *slog.Logger
}

// DirStore is a [ContentStore] backed by a single directory.
type DirStore struct {
	root      string
	algorithm digest.Algorithm
	extension string
	fileMode  fs.FileMode
	logger    *slog.Logger
}

// NewDirStore creates a DirStore, creating the root directory if it
// does not exist.
func NewDirStore(config DirStoreConfig) (*DirStore, error) {
	if config.Root == "" {
		return nil, fmt.Errorf("asset store root is empty")
	}
	algorithm := config.Algorithm
	if algorithm == "" {
		algorithm = digest.Default
	}
	if algorithm.Size() == 0 {
		return nil, fmt.Errorf("unknown digest algorithm %q", algorithm)
	}
	if err := ValidateExtension(config.Extension); err != nil {
		return nil, err
	}
	fileMode := config.FileMode
	if fileMode == 0 {
		fileMode = DefaultFileMode
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	if err := os.MkdirAll(config.Root, 0o755); err != nil {
		return nil, &StoreError{Op: "mkdir", Path: config.Root, Err: err}
	}
	return &DirStore{
		root:      config.Root,
		algorithm: algorithm,
		extension: config.Extension,
		fileMode:  fileMode,
		logger:    logger,
	}, nil
}

// Root returns the directory assets are stored in.
func (s *DirStore) Root() string {
	return s.root
}

// Path returns the path of the file for key.
func (s *DirStore) Path(key digest.Key) string {
	return filepath.Join(s.root, Filename(key, s.extension))
}

// Put implements [ContentStore].
func (s *DirStore) Put(data []byte) (PutResult, error) {
	key, err := digest.Sum(s.algorithm, data)
	if err != nil {
		return PutResult{}, err
	}
	result := PutResult{Key: key, Filename: Filename(key, s.extension)}
	finalPath := s.Path(key)

	present, err := s.verifyExisting(key, finalPath, data)
	if err != nil {
		return PutResult{}, err
	}
	if present {
		s.logger.Debug("asset already present", "key", key.Hex(), "path", finalPath)
		return result, nil
	}

	tmpPath, err := s.writeTemp(key, data)
	if err != nil {
		return PutResult{}, err
	}

	// Clean up the temp file on any path that does not consume it.
	published := false
	defer func() {
		if !published {
			os.Remove(tmpPath)
		}
	}()

	if err := publishNoReplace(tmpPath, finalPath); err != nil {
		if !errors.Is(err, fs.ErrExist) {
			return PutResult{}, &StoreError{Op: "publish", Path: finalPath, Err: err}
		}
		// Another writer published first.
		if _, err := s.verifyExisting(key, finalPath, data); err != nil {
			return PutResult{}, err
		}
		s.logger.Debug("asset published concurrently", "key", key.Hex(), "path", finalPath)
		return result, nil
	}
	published = true

	s.logger.Debug("asset written", "key", key.Hex(), "path", finalPath, "size", len(data))
	result.Written = true
	return result, nil
}

// writeTemp writes data to a hidden temp file next to its final
// location and returns the temp path. The file is synced and closed
// with the store's file mode applied.
func (s *DirStore) writeTemp(key digest.Key, data []byte) (string, error) {
	tmpFile, err := os.CreateTemp(s.root, "."+key.Hex()+"-*.tmp")
	if err != nil {
		return "", &StoreError{Op: "create temp", Path: s.root, Err: err}
	}
	tmpPath := tmpFile.Name()

	fail := func(op string, err error) (string, error) {
		tmpFile.Close()
		os.Remove(tmpPath)
		return "", &StoreError{Op: op, Path: tmpPath, Err: err}
	}

	if _, err := tmpFile.Write(data); err != nil {
		return fail("write", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmpFile.Chmod(s.fileMode); err != nil {
		return fail("chmod", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", &StoreError{Op: "close", Path: tmpPath, Err: err}
	}
	return tmpPath, nil
}

// verifyExisting reports whether path already holds exactly data. A
// missing file returns false with no error. Any other difference is a
// ConflictError.
func (s *DirStore) verifyExisting(key digest.Key, path string, data []byte) (bool, error) {
	info, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &StoreError{Op: "stat", Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return false, &ConflictError{Key: key, Path: path,
			Reason: fmt.Sprintf("existing entry is not a regular file (mode %s)", info.Mode())}
	}
	if info.Size() != int64(len(data)) {
		return false, &ConflictError{Key: key, Path: path,
			Reason: fmt.Sprintf("existing file is %d bytes, new content is %d bytes", info.Size(), len(data))}
	}

	file, err := os.Open(path)
	if err != nil {
		return false, &StoreError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	existing, err := io.ReadAll(io.LimitReader(file, int64(len(data))+1))
	if err != nil {
		return false, &StoreError{Op: "read", Path: path, Err: err}
	}
	if !bytes.Equal(existing, data) {
		return false, &ConflictError{Key: key, Path: path,
			Reason: "existing file has the same size but different content"}
	}
	return true, nil
}
