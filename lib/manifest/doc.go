// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest records what an extraction run produced.
//
// Build systems that invoke the extractor need to know which asset
// files a bundle now depends on, so they can upload or copy them
// alongside the rewritten bundle. A [Manifest] lists every replaced
// declaration with its identifier, content key, file name, decoded
// size, and span in the input.
//
// Two encodings are supported: indented JSON for people and scripts,
// and CBOR with Core Deterministic Encoding (RFC 8949 §4.2) for
// tooling that wants byte-stable output. Struct fields carry json
// tags only; the CBOR codec honors them, so both encodings share field
// names.
package manifest
