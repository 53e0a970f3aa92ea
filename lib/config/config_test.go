// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.AssetDir != "." {
		t.Errorf("expected asset_dir=., got %s", cfg.AssetDir)
	}
	if cfg.Extension != "wasm" {
		t.Errorf("expected extension=wasm, got %s", cfg.Extension)
	}
	if cfg.Digest != "blake3" {
		t.Errorf("expected digest=blake3, got %s", cfg.Digest)
	}
	if diff := cmp.Diff([]string{"decodeBase64"}, cfg.Declarations.Callees); diff != "" {
		t.Errorf("callees mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default() does not validate: %v", err)
	}
}

func TestLoad_RequiresEnvironmentVariable(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when WASMEXTRACT_CONFIG not set, got nil")
	}
	if !strings.HasPrefix(err.Error(), "WASMEXTRACT_CONFIG environment variable not set") {
		t.Errorf("unexpected error message %q", err.Error())
	}
}

func TestLoad_WithEnvironmentVariable(t *testing.T) {
	path := writeConfig(t, "wasmextract.yaml", "extension: bin\n")
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Extension != "bin" {
		t.Errorf("expected extension=bin, got %s", cfg.Extension)
	}
}

func TestResolve(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")
	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Resolve(\"\") without environment should return defaults (-want +got):\n%s", diff)
	}

	envPath := writeConfig(t, "env.yaml", "digest: sha256\n")
	flagPath := writeConfig(t, "flag.yaml", "digest: md5\n")
	t.Setenv(EnvironmentVariable, envPath)

	cfg, err = Resolve("")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Digest != "sha256" {
		t.Errorf("environment file not used: digest=%s", cfg.Digest)
	}

	cfg, err = Resolve(flagPath)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Digest != "md5" {
		t.Errorf("explicit path should win over environment: digest=%s", cfg.Digest)
	}
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeConfig(t, "wasmextract.yaml", `
asset_dir: build/assets
extension: module
digest: sha256
file_mode: "0600"
max_bundle_size: 1048576
declarations:
  callees: [decode, decodeBase64]
  constructor: WebAssembly.Module
  strip: "\n"
manifest:
  path: build/manifest.cbor
  format: cbor
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	want := &Config{
		AssetDir:      "build/assets",
		Extension:     "module",
		Digest:        "sha256",
		FileMode:      "0600",
		MaxBundleSize: 1 << 20,
		Declarations: DeclarationsConfig{
			Callees:     []string{"decode", "decodeBase64"},
			Constructor: "WebAssembly.Module",
			Strip:       "\n",
		},
		Manifest: ManifestConfig{Path: "build/manifest.cbor", Format: "cbor"},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadFile mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	mode, err := cfg.ParsedFileMode()
	if err != nil {
		t.Fatalf("ParsedFileMode: %v", err)
	}
	if mode != 0o600 {
		t.Errorf("ParsedFileMode() = %o, want 600", mode)
	}
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "partial.yml", "digest: md5\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Digest != "md5" {
		t.Errorf("expected digest=md5, got %s", cfg.Digest)
	}
	if cfg.Extension != "wasm" || cfg.AssetDir != "." {
		t.Errorf("unset fields lost their defaults: %+v", cfg)
	}
}

func TestLoadFile_EmptyFile(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "empty.yaml", ""))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("empty file should leave defaults (-want +got):\n%s", diff)
	}
}

func TestLoadFile_JSONC(t *testing.T) {
	path := writeConfig(t, "wasmextract.jsonc", `{
	// Match the legacy tool's file names.
	"digest": "md5",
	"max_bundle_size": 2048,
	"declarations": {
		"callees": ["decode",],
		/* keep backslash stripping */
		"strip": "\n\\",
	},
}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Digest != "md5" {
		t.Errorf("expected digest=md5, got %s", cfg.Digest)
	}
	if cfg.MaxBundleSize != 2048 {
		t.Errorf("expected max_bundle_size=2048, got %d", cfg.MaxBundleSize)
	}
	if diff := cmp.Diff([]string{"decode"}, cfg.Declarations.Callees); diff != "" {
		t.Errorf("callees mismatch (-want +got):\n%s", diff)
	}
	if cfg.Declarations.Strip != "\n\\" {
		t.Errorf("expected strip=%q, got %q", "\n\\", cfg.Declarations.Strip)
	}
}

func TestLoadFile_StripSurvivesJSONC(t *testing.T) {
	// Values with leading newlines and backslashes must arrive intact.
	path := writeConfig(t, "strip.json", `{"declarations": {"strip": "\n\t\\"}}`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got, want := cfg.Declarations.Strip, "\n\t\\"; got != want {
		t.Errorf("strip = %q, want %q", got, want)
	}
	if cfg.Declarations.Constructor != "WebAssembly.Module" {
		t.Errorf("constructor lost its default: %q", cfg.Declarations.Constructor)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestLoadFile_EmptyStripDisablesCleanup(t *testing.T) {
	for name, content := range map[string]string{
		"empty.yaml": "declarations:\n  strip: \"\"\n",
		"empty.json": `{"declarations": {"strip": ""}}`,
	} {
		cfg, err := LoadFile(writeConfig(t, name, content))
		if err != nil {
			t.Fatalf("LoadFile(%s): %v", name, err)
		}
		if cfg.Declarations.Strip != "" {
			t.Errorf("LoadFile(%s) strip = %q, want empty", name, cfg.Declarations.Strip)
		}
		if got := cfg.PatternOptions().Strip; got != "" {
			t.Errorf("LoadFile(%s) PatternOptions().Strip = %q, want empty", name, got)
		}
	}
}

func TestLoadFile_RejectsUnknownFields(t *testing.T) {
	for name, content := range map[string]string{
		"typo.yaml": "extention: bin\n",
		"typo.json": `{"extention": "bin"}`,
		"nested.jsonc": `{"declarations": {"callee": ["decode"]}}`,
	} {
		if _, err := LoadFile(writeConfig(t, name, content)); err == nil {
			t.Errorf("LoadFile(%s) should reject an unknown field", name)
		}
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("LoadFile should fail for a missing file")
	}
}

func TestLoadFile_ExpandsVariables(t *testing.T) {
	t.Setenv("HOME", "/home/builder")
	t.Setenv("WASMEXTRACT_TEST_OUT", "")
	path := writeConfig(t, "vars.yaml", `
asset_dir: ${HOME}/assets
manifest:
  path: ${WASMEXTRACT_TEST_OUT:-/tmp/out}/manifest.json
`)
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.AssetDir != "/home/builder/assets" {
		t.Errorf("asset_dir = %q, want /home/builder/assets", cfg.AssetDir)
	}
	if cfg.Manifest.Path != "/tmp/out/manifest.json" {
		t.Errorf("manifest.path = %q, want /tmp/out/manifest.json", cfg.Manifest.Path)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.AssetDir = ""
	cfg.Extension = "../x"
	cfg.Digest = "crc32"
	cfg.FileMode = "rwx"
	cfg.MaxBundleSize = 0
	cfg.Declarations.Callees = []string{"not valid"}
	cfg.Declarations.Strip = "A"
	cfg.Manifest.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate should fail")
	}
	for _, fragment := range []string{
		"asset_dir", "extension", "digest", "file_mode", "max_bundle_size",
		"declarations:", "declarations.strip", "manifest.format",
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("Validate error does not mention %q:\n%v", fragment, err)
		}
	}
}

func TestParsedFileMode_Range(t *testing.T) {
	for _, mode := range []string{"0", "1000", "999"} {
		cfg := Default()
		cfg.FileMode = mode
		if _, err := cfg.ParsedFileMode(); err == nil {
			t.Errorf("ParsedFileMode(%q) should fail", mode)
		}
	}
}
