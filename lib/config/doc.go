// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for wasmextract.
//
// Configuration comes from at most one file, named by either the
// --config flag or the WASMEXTRACT_CONFIG environment variable. There
// is no search path and no ~/.config discovery. Without a file the
// built-in defaults apply, and they are complete: the extractor
// behaves exactly like the original one-argument tool.
//
// Files ending in .json or .jsonc are read as JSON with comments and
// trailing commas (stripped with tidwall/jsonc); everything else is
// YAML. Both forms share one schema and field names. Unknown fields
// are rejected so a typo never silently falls back to a default.
//
// Variable expansion is performed on path fields after loading:
// ${HOME} and ${VAR:-default} patterns are expanded.
//
// Key exports:
//
//   - [Config] -- the schema
//   - [Default] -- the built-in defaults
//   - [Load], [LoadFile], and [Resolve] -- entry points
//   - [Config.Validate] -- reports every problem at once
//
// This package depends only on the digest, payload, declscan,
// assetstore, and manifest packages for validation rules.
package config
