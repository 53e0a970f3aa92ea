// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Format selects a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// ParseFormat resolves a format name. Empty means JSON.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCBOR:
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("unknown manifest format %q (supported: json, cbor)", name)
	}
}

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding: sorted map keys, smallest integer encoding, no
// indefinite-length items.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("manifest: CBOR encoder initialization failed: " + err.Error())
	}
}

// Marshal encodes a manifest in the given format.
func Marshal(m *Manifest, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
		return append(data, '\n'), nil
	case FormatCBOR:
		data, err := encMode.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("encoding manifest: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown manifest format %q", format)
	}
}

// Unmarshal decodes and validates a manifest.
func Unmarshal(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &m)
	case FormatCBOR:
		err = cbor.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("unknown manifest format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Write encodes m to w.
func Write(w io.Writer, m *Manifest, format Format) error {
	data, err := Marshal(m, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// WriteFile writes m to path via a temp file and rename, so readers
// never observe a partial manifest.
func WriteFile(path string, m *Manifest, format Format) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp manifest: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := Write(tmpFile, m, format); err != nil {
		tmpFile.Close()
		return err
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		tmpFile.Close()
		return fmt.Errorf("setting manifest mode: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing manifest: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming manifest to %s: %w", path, err)
	}

	success = true
	return nil
}

// ReadFile reads and validates the manifest at path.
func ReadFile(path string, format Format) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Unmarshal(data, format)
}
