// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package digest

import (
	"bytes"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// Algorithm names a digest algorithm. The string value is what appears
// in configuration files, flags, and manifests.
type Algorithm string

const (
	BLAKE3  Algorithm = "blake3"
	SHA256  Algorithm = "sha256"
	BLAKE2b Algorithm = "blake2b"
	MD5     Algorithm = "md5"
)

// Default is the algorithm used when none is configured.
const Default = BLAKE3

// Algorithms lists every supported algorithm in help-text order.
var Algorithms = []Algorithm{BLAKE3, SHA256, BLAKE2b, MD5}

// ParseAlgorithm resolves a configured algorithm name. Matching is
// case-insensitive; an empty name selects [Default].
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return Default, nil
	}
	candidate := Algorithm(strings.ToLower(name))
	for _, algorithm := range Algorithms {
		if candidate == algorithm {
			return algorithm, nil
		}
	}
	return "", fmt.Errorf("unknown digest algorithm %q (supported: %s)", name, supportedList())
}

// Size returns the digest length in bytes, or 0 for an unknown algorithm.
func (a Algorithm) Size() int {
	switch a {
	case BLAKE3, SHA256, BLAKE2b:
		return 32
	case MD5:
		return md5.Size
	default:
		return 0
	}
}

// Key is the content key of one asset.
type Key struct {
	Algorithm Algorithm
	Sum       []byte
}

// Hex returns the lower-case hex encoding of the digest. This is the
// canonical form used in file names, manifests, and log output.
func (k Key) Hex() string {
	return hex.EncodeToString(k.Sum)
}

// String returns "<algorithm>:<hex>".
func (k Key) String() string {
	return string(k.Algorithm) + ":" + k.Hex()
}

// Equal reports whether two keys name the same content under the same
// algorithm.
func (k Key) Equal(other Key) bool {
	return k.Algorithm == other.Algorithm && bytes.Equal(k.Sum, other.Sum)
}

// Sum computes the content key of data.
func Sum(algorithm Algorithm, data []byte) (Key, error) {
	var sum []byte
	switch algorithm {
	case BLAKE3:
		digest := blake3.Sum256(data)
		sum = digest[:]
	case SHA256:
		digest := sha256.Sum256(data)
		sum = digest[:]
	case BLAKE2b:
		digest := blake2b.Sum256(data)
		sum = digest[:]
	case MD5:
		digest := md5.Sum(data)
		sum = digest[:]
	default:
		return Key{}, fmt.Errorf("unknown digest algorithm %q", algorithm)
	}
	return Key{Algorithm: algorithm, Sum: sum}, nil
}

// ParseKey parses a hex digest produced by [Key.Hex] for the given
// algorithm. The length must match the algorithm's digest size.
func ParseKey(algorithm Algorithm, hexString string) (Key, error) {
	size := algorithm.Size()
	if size == 0 {
		return Key{}, fmt.Errorf("unknown digest algorithm %q", algorithm)
	}
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return Key{}, fmt.Errorf("parsing %s digest: %w", algorithm, err)
	}
	if len(decoded) != size {
		return Key{}, fmt.Errorf("%s digest is %d bytes, want %d", algorithm, len(decoded), size)
	}
	return Key{Algorithm: algorithm, Sum: decoded}, nil
}

func supportedList() string {
	names := make([]string, len(Algorithms))
	for i, algorithm := range Algorithms {
		names[i] = string(algorithm)
	}
	return strings.Join(names, ", ")
}
