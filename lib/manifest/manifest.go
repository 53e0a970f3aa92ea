// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"fmt"

	"github.com/bureau-foundation/wasmextract/lib/rewrite"
)

// Version is the manifest schema version written by this package.
const Version = 1

// Manifest describes one extraction run.
type Manifest struct {
	Version int `json:"version"`

	// Input is the bundle path as given on the command line.
	Input string `json:"input"`

	// Algorithm is the content key digest algorithm.
	Algorithm string `json:"algorithm"`

	// Extension is the file extension of extracted assets.
	Extension string `json:"extension"`

	// AssetDir is the directory the assets were stored in.
	AssetDir string `json:"asset_dir"`

	// Assets lists replaced declarations in input order.
	Assets []Asset `json:"assets"`
}

// Asset is one replaced declaration.
type Asset struct {
	Identifier string `json:"identifier"`
	Key        string `json:"key"`
	Filename   string `json:"filename"`
	Size       int    `json:"size"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Written    bool   `json:"written"`
}

// New builds a manifest from rewrite extractions.
func New(input, algorithm, extension, assetDir string, extractions []rewrite.Extraction) *Manifest {
	assets := make([]Asset, len(extractions))
	for i, extraction := range extractions {
		assets[i] = Asset{
			Identifier: extraction.Identifier,
			Key:        extraction.Key.Hex(),
			Filename:   extraction.Filename,
			Size:       extraction.Size,
			Start:      extraction.Start,
			End:        extraction.End,
			Written:    extraction.Written,
		}
	}
	return &Manifest{
		Version:   Version,
		Input:     input,
		Algorithm: algorithm,
		Extension: extension,
		AssetDir:  assetDir,
		Assets:    assets,
	}
}

// Filenames returns the distinct asset file names in first-use order.
func (m *Manifest) Filenames() []string {
	seen := make(map[string]bool, len(m.Assets))
	var names []string
	for _, asset := range m.Assets {
		if !seen[asset.Filename] {
			seen[asset.Filename] = true
			names = append(names, asset.Filename)
		}
	}
	return names
}

// Validate checks a decoded manifest for internal consistency.
func (m *Manifest) Validate() error {
	if m.Version != Version {
		return fmt.Errorf("unsupported manifest version %d (want %d)", m.Version, Version)
	}
	previousEnd := 0
	for i, asset := range m.Assets {
		if asset.Identifier == "" || asset.Filename == "" || asset.Key == "" {
			return fmt.Errorf("asset %d: identifier, key, and filename are required", i)
		}
		if asset.Start < previousEnd || asset.End <= asset.Start {
			return fmt.Errorf("asset %d: span [%d, %d) is out of order or empty", i, asset.Start, asset.End)
		}
		previousEnd = asset.End
	}
	return nil
}
