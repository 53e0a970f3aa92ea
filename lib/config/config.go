// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/wasmextract/lib/assetstore"
	"github.com/bureau-foundation/wasmextract/lib/declscan"
	"github.com/bureau-foundation/wasmextract/lib/digest"
	"github.com/bureau-foundation/wasmextract/lib/manifest"
	"github.com/bureau-foundation/wasmextract/lib/payload"
)

// EnvironmentVariable names the config file when --config is absent.
const EnvironmentVariable = "WASMEXTRACT_CONFIG"

// Config is the complete extractor configuration.
type Config struct {
	// AssetDir is where extracted modules are written.
	// Default: "." (the working directory)
	AssetDir string `yaml:"asset_dir" json:"asset_dir"`

	// Extension is the file extension of extracted modules.
	// Default: wasm
	Extension string `yaml:"extension" json:"extension"`

	// Digest is the content key algorithm: blake3, sha256, blake2b, md5.
	// Default: blake3
	Digest string `yaml:"digest" json:"digest"`

	// FileMode is the octal permission of extracted files.
	// Default: "0644"
	FileMode string `yaml:"file_mode" json:"file_mode"`

	// MaxBundleSize bounds the decoded input size in bytes.
	// Default: 512 MiB
	MaxBundleSize int64 `yaml:"max_bundle_size" json:"max_bundle_size"`

	// Declarations configures what the scanner recognizes.
	Declarations DeclarationsConfig `yaml:"declarations" json:"declarations"`

	// Manifest configures the optional extraction report.
	Manifest ManifestConfig `yaml:"manifest" json:"manifest"`
}

// DeclarationsConfig configures declaration matching and payload
// cleanup.
type DeclarationsConfig struct {
	// Callees are the decode function names wrapping the payload.
	// Default: [decodeBase64]
	Callees []string `yaml:"callees" json:"callees"`

	// Constructor is the module constructor invoked with new.
	// Default: WebAssembly.Module
	Constructor string `yaml:"constructor" json:"constructor"`

	// Strip lists characters removed from payloads before decoding.
	// An empty string disables cleanup; base64 decoding still skips
	// carriage returns and line feeds.
	// Default: carriage return, line feed, and backslash
	Strip string `yaml:"strip" json:"strip"`
}

// ManifestConfig configures the extraction report.
type ManifestConfig struct {
	// Path is where the manifest is written. Empty disables it.
	Path string `yaml:"path" json:"path"`

	// Format is json or cbor.
	// Default: json
	Format string `yaml:"format" json:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AssetDir:      ".",
		Extension:     "wasm",
		Digest:        string(digest.Default),
		FileMode:      "0644",
		MaxBundleSize: 512 << 20,
		Declarations: DeclarationsConfig{
			Callees:     append([]string(nil), declscan.DefaultCallees...),
			Constructor: declscan.DefaultConstructor,
			Strip:       payload.DefaultStrip,
		},
		Manifest: ManifestConfig{
			Format: string(manifest.FormatJSON),
		},
	}
}

// Load loads configuration from the WASMEXTRACT_CONFIG environment
// variable. It fails if the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of a config file, or use --config", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// Resolve returns the configuration for one run: the file at path if
// non-empty, else the file named by WASMEXTRACT_CONFIG if set, else
// [Default].
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}
	if os.Getenv(EnvironmentVariable) != "" {
		return Load()
	}
	return Default(), nil
}

// LoadFile loads configuration from a specific file path. Values in the
// file replace defaults field by field.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

// loadFile decodes a single file into c. JSON and JSONC files are
// stripped of comments and trailing commas and decoded directly; both
// decoders reject unknown fields.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.AssetDir = expandVars(c.AssetDir, vars)
	c.Manifest.Path = expandVars(c.Manifest.Path, vars)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// ParsedFileMode returns FileMode as a permission value.
func (c *Config) ParsedFileMode() (fs.FileMode, error) {
	value, err := strconv.ParseUint(c.FileMode, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("file_mode %q is not an octal permission: %w", c.FileMode, err)
	}
	if value > 0o777 || value == 0 {
		return 0, fmt.Errorf("file_mode %q is outside 0001-0777", c.FileMode)
	}
	return fs.FileMode(value), nil
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if c.AssetDir == "" {
		errs = append(errs, fmt.Errorf("asset_dir is required"))
	}
	if err := assetstore.ValidateExtension(c.Extension); err != nil {
		errs = append(errs, fmt.Errorf("extension: %w", err))
	}
	if _, err := digest.ParseAlgorithm(c.Digest); err != nil {
		errs = append(errs, fmt.Errorf("digest: %w", err))
	}
	if _, err := c.ParsedFileMode(); err != nil {
		errs = append(errs, err)
	}
	if c.MaxBundleSize <= 0 {
		errs = append(errs, fmt.Errorf("max_bundle_size must be positive, got %d", c.MaxBundleSize))
	}

	if _, err := declscan.NewPatternMatcher(c.PatternOptions()); err != nil {
		errs = append(errs, fmt.Errorf("declarations: %w", err))
	}
	if err := payload.ValidateStrip(c.Declarations.Strip); err != nil {
		errs = append(errs, fmt.Errorf("declarations.strip: %w", err))
	}

	if _, err := manifest.ParseFormat(c.Manifest.Format); err != nil {
		errs = append(errs, fmt.Errorf("manifest.format: %w", err))
	}

	return errors.Join(errs...)
}

// PatternOptions returns the scanner options described by the config.
func (c *Config) PatternOptions() declscan.PatternOptions {
	return declscan.PatternOptions{
		Callees:     c.Declarations.Callees,
		Constructor: c.Declarations.Constructor,
		Strip:       c.Declarations.Strip,
	}
}
