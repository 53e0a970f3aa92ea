// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package digest computes the content keys that name extracted assets.
//
// A content key is a digest over the decoded bytes of an asset and
// nothing else: identifier names, declaration order, and the bundle the
// asset came from never influence it. The hex form of the key is the
// base name of the extracted file and the dedup key of the asset store.
//
// Four algorithms are supported:
//
//   - [BLAKE3] -- the default. 256-bit output, same digest as b3sum.
//   - [SHA256] -- for toolchains that verify assets with sha256sum.
//   - [BLAKE2b] -- BLAKE2b-256 from golang.org/x/crypto.
//   - [MD5] -- reproduces the file names of bundles that were already
//     post-processed by older tooling. Not collision resistant; use only
//     when matching existing names matters more than collision safety.
//
// This package has no dependencies on other packages in this module.
package digest
