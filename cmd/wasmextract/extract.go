// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/wasmextract/cmd/wasmextract/cli"
	"github.com/bureau-foundation/wasmextract/lib/assetstore"
	"github.com/bureau-foundation/wasmextract/lib/bundleio"
	"github.com/bureau-foundation/wasmextract/lib/config"
	"github.com/bureau-foundation/wasmextract/lib/declscan"
	"github.com/bureau-foundation/wasmextract/lib/digest"
	"github.com/bureau-foundation/wasmextract/lib/manifest"
	"github.com/bureau-foundation/wasmextract/lib/payload"
	"github.com/bureau-foundation/wasmextract/lib/rewrite"
)

// extractParams holds the flag values of one invocation.
type extractParams struct {
	ConfigPath     string
	AssetDir       string
	Extension      string
	Digest         string
	Callees        []string
	Strip          string
	ManifestPath   string
	ManifestFormat string
	Verbose        bool
	Version        bool
}

func newCommand(stdout, stderr io.Writer) *cli.Command {
	var params extractParams
	command := &cli.Command{
		Name:    "wasmextract",
		Summary: "Extract inline WebAssembly modules from a bundle",
		Description: `Extract inline WebAssembly modules from a bundle.

Every declaration of the form

  const <name> = new WebAssembly.Module(decodeBase64("<base64>"));

is replaced with

  import <name> from './<digest>.wasm';

and the decoded module is written to the asset directory under that
name. Modules already present with identical content are not rewritten.
The rewritten bundle goes to stdout. Nothing is written to stdout, and
no module is written, when any payload fails to decode.

Configuration is read from --config, else from $WASMEXTRACT_CONFIG,
else built-in defaults apply. Flags override the file.`,
		Usage: "wasmextract [flags] <bundle>",
		Examples: []cli.Example{
			{
				Description: "Rewrite a worker bundle, writing modules next to it",
				Command:     "wasmextract --asset-dir dist dist/worker.js > dist/worker.mjs",
			},
			{
				Description: "Name modules by MD5 and record a manifest",
				Command:     "wasmextract --digest md5 --manifest assets.json worker.js > out.js",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("wasmextract", pflag.ContinueOnError)
			flagSet.StringVar(&params.ConfigPath, "config", "", "config file (YAML or JSONC); default $"+config.EnvironmentVariable)
			flagSet.StringVar(&params.AssetDir, "asset-dir", ".", "directory extracted modules are written to")
			flagSet.StringVar(&params.Extension, "extension", "wasm", "file extension of extracted modules")
			flagSet.StringVar(&params.Digest, "digest", string(digest.Default), "content key algorithm: blake3, sha256, blake2b, md5")
			flagSet.StringArrayVar(&params.Callees, "callee", nil, "decode function wrapping the payload (repeatable; default decodeBase64)")
			flagSet.StringVar(&params.Strip, "strip", `\r\n\\`, "characters removed from payloads before decoding, with Go escapes")
			flagSet.StringVar(&params.ManifestPath, "manifest", "", "write an extraction manifest to this path")
			flagSet.StringVar(&params.ManifestFormat, "manifest-format", string(manifest.FormatJSON), "manifest encoding: json or cbor")
			flagSet.BoolVarP(&params.Verbose, "verbose", "v", false, "log each extraction")
			flagSet.BoolVar(&params.Version, "version", false, "print version information and exit")
			return flagSet
		},
		Stderr: stderr,
	}
	command.Run = func(args []string) error {
		if params.Version {
			return printVersion(stdout, params.Verbose)
		}
		if len(args) != 1 {
			return cli.Usagef("expected exactly one bundle path, got %d arguments", len(args))
		}
		if command.Changed("strip") {
			strip, err := strconv.Unquote(`"` + params.Strip + `"`)
			if err != nil {
				return cli.Usagef("--strip %q is not a valid escaped string", params.Strip)
			}
			params.Strip = strip
		}
		cfg, err := resolveConfig(command, &params)
		if err != nil {
			return err
		}
		return extract(args[0], cfg, params.Verbose, stdout, stderr)
	}
	return command
}

// resolveConfig loads the configuration file and applies the flags
// the user set explicitly. params.Strip is already unescaped.
func resolveConfig(command *cli.Command, params *extractParams) (*config.Config, error) {
	cfg, err := config.Resolve(params.ConfigPath)
	if err != nil {
		return nil, err
	}

	if command.Changed("asset-dir") {
		cfg.AssetDir = params.AssetDir
	}
	if command.Changed("extension") {
		cfg.Extension = params.Extension
	}
	if command.Changed("digest") {
		cfg.Digest = params.Digest
	}
	if command.Changed("callee") {
		cfg.Declarations.Callees = params.Callees
	}
	if command.Changed("strip") {
		cfg.Declarations.Strip = params.Strip
	}
	if command.Changed("manifest") {
		cfg.Manifest.Path = params.ManifestPath
	}
	if command.Changed("manifest-format") {
		cfg.Manifest.Format = params.ManifestFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// extract runs one rewrite of the bundle at inputPath.
func extract(inputPath string, cfg *config.Config, verbose bool, stdout, stderr io.Writer) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := cli.NewCommandLogger(stderr, level).With("input", inputPath)

	algorithm, err := digest.ParseAlgorithm(cfg.Digest)
	if err != nil {
		return err
	}
	fileMode, err := cfg.ParsedFileMode()
	if err != nil {
		return err
	}
	manifestFormat, err := manifest.ParseFormat(cfg.Manifest.Format)
	if err != nil {
		return err
	}
	matcher, err := declscan.NewPatternMatcher(cfg.PatternOptions())
	if err != nil {
		return err
	}

	bundle, err := bundleio.ReadFile(inputPath, cfg.MaxBundleSize)
	if err != nil {
		return err
	}
	if bundle.Compression != bundleio.CompressionNone {
		logger.Debug("decompressed bundle", "compression", bundle.Compression, "size", len(bundle.Text))
	}

	store, err := assetstore.NewDirStore(assetstore.DirStoreConfig{
		Root:      cfg.AssetDir,
		Algorithm: algorithm,
		Extension: cfg.Extension,
		FileMode:  fileMode,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	rewriter := &rewrite.Rewriter{
		Matcher: matcher,
		Decoder: payload.Decoder{Strip: cfg.Declarations.Strip},
		Store:   store,
		Logger:  logger,
	}
	result, err := rewriter.Rewrite(bundle.Text)
	if err != nil {
		return err
	}

	report := manifest.New(inputPath, string(algorithm), cfg.Extension, cfg.AssetDir, result.Extractions)
	if cfg.Manifest.Path != "" {
		if err := manifest.WriteFile(cfg.Manifest.Path, report, manifestFormat); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}
	}

	if _, err := io.WriteString(stdout, result.Text); err != nil {
		return fmt.Errorf("writing rewritten bundle: %w", err)
	}

	written := 0
	for _, extraction := range result.Extractions {
		if extraction.Written {
			written++
		}
	}
	logger.Info("bundle rewritten",
		"declarations", len(result.Extractions),
		"files", len(report.Filenames()),
		"written", written,
		"asset_dir", cfg.AssetDir,
	)
	logger.Debug("asset files", "names", report.Filenames())
	return nil
}
