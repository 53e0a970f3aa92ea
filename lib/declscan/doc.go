// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package declscan locates embedded module declarations in generated
// bundle text.
//
// A declaration binds an identifier to a WebAssembly module constructed
// from an inline base64 string literal:
//
//	const wasmModule0 = new WebAssembly.Module(decodeBase64("AGFzbQEAAAA..."));
//
// The [Matcher] interface is the seam between recognizing a generator's
// output shape and everything downstream of it. [Scan] drives any
// Matcher across a text and enforces the ordering contract: declarations
// come back left to right and never overlap. [PatternMatcher] is the
// matcher for the shape above, with the decode function names and the
// module constructor configurable for generators that spell them
// differently.
//
// Matching never produces a partial declaration. Text that almost has
// the shape (a variable argument instead of a string literal, an
// unterminated literal, characters outside the base64 alphabet in the
// literal, a different constructor) is not matched and flows through
// the rewrite untouched.
package declscan
