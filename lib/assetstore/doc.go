// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package assetstore is the write-once, content-addressed store for
// extracted modules.
//
// [ContentStore] is the single operation the rewriter needs: put bytes,
// get back the content key and the file name that now holds them.
// Two implementations exist:
//
//   - [DirStore] -- files named <hex-digest>.<extension> directly in a
//     directory. The directory is the dedup cache: a key that is
//     already present is verified against the new bytes and never
//     rewritten.
//   - [MemoryStore] -- the same semantics held in a map, for tests.
//
// DirStore publication is crash- and race-safe without locks. Bytes are
// written to a hidden temp file in the target directory, synced, and
// then moved into place with a rename that refuses to replace an
// existing file (renameat2 RENAME_NOREPLACE on Linux, hard link plus
// unlink elsewhere). A half-written file is never visible under its
// final name. When several writers race on the same key, exactly one
// publish succeeds; the others see the file present and fall through
// to the same verification as a cache hit.
//
// Verification compares size first and then content. A mismatch means
// a digest collision or an asset file modified after it was written;
// either way the store returns [ConflictError] rather than point an
// import at the wrong bytes. Filesystem failures are [StoreError].
package assetstore
