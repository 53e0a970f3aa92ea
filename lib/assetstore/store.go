// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package assetstore

import (
	"fmt"

	"github.com/bureau-foundation/wasmextract/lib/digest"
)

// ContentStore maps asset bytes to a stable, content-named file.
type ContentStore interface {
	// Put stores data under its content key. Storing the same bytes
	// again is a no-op that returns the same result with Written
	// false.
	Put(data []byte) (PutResult, error)
}

// PutResult describes where [ContentStore.Put] placed an asset.
type PutResult struct {
	// Key is the content key of the stored bytes.
	Key digest.Key

	// Filename is the base name of the stored file, <hex>.<extension>.
	Filename string

	// Written is true when this call created the file and false when
	// identical content was already present.
	Written bool
}

// ConflictError reports that the file for a content key already holds
// different bytes.
type ConflictError struct {
	Key  digest.Key
	Path string

	// Reason describes how the existing entry differs.
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("content conflict for %s at %s: %s", e.Key, e.Path, e.Reason)
}

// StoreError reports a filesystem failure while storing an asset.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("asset store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Filename returns the file name for key with the given extension.
func Filename(key digest.Key, extension string) string {
	return key.Hex() + "." + extension
}

// ValidateExtension rejects extensions that would change the directory
// a file lands in or produce hidden or ambiguous names.
func ValidateExtension(extension string) error {
	if extension == "" {
		return fmt.Errorf("extension is empty")
	}
	for i := 0; i < len(extension); i++ {
		c := extension[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return fmt.Errorf("extension %q contains %q; only letters, digits, '_' and '-' are allowed", extension, c)
		}
	}
	return nil
}
