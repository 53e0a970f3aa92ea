// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package bundleio reads bundle text from disk.
//
// Bundles fetched from build caches are often stored compressed. The
// reader recognizes gzip, zstd, and LZ4 frames by their magic bytes and
// decompresses them transparently; anything else is read as plain text.
// Detection is by content, not file name, so a compressed bundle saved
// as "worker.js" still reads correctly.
package bundleio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// DefaultMaxSize bounds the decoded size of a bundle (512 MiB).
const DefaultMaxSize int64 = 512 << 20

// Compression identifies the framing a bundle was stored in.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// ErrTooLarge is returned when a bundle exceeds the size limit.
var ErrTooLarge = errors.New("bundle exceeds size limit")

// Bundle is bundle text read from a file or stream.
type Bundle struct {
	// Text is the decoded bundle.
	Text string

	// Compression is the framing detected on input.
	Compression Compression
}

// Detect identifies the compression framing from the first bytes of a
// stream.
func Detect(header []byte) Compression {
	switch {
	case bytes.HasPrefix(header, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(header, lz4Magic):
		return CompressionLZ4
	case bytes.HasPrefix(header, gzipMagic):
		return CompressionGzip
	default:
		return CompressionNone
	}
}

// ReadFile reads the bundle at path. A maxSize of zero or less means
// DefaultMaxSize.
func ReadFile(path string, maxSize int64) (*Bundle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bundle: %w", err)
	}
	defer file.Close()

	bundle, err := Read(file, maxSize)
	if err != nil {
		return nil, fmt.Errorf("reading bundle %s: %w", path, err)
	}
	return bundle, nil
}

// Read reads a bundle from r, decompressing it if it starts with a
// recognized frame magic.
func Read(r io.Reader, maxSize int64) (*Bundle, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	buffered := bufio.NewReader(r)
	header, err := buffered.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	compression := Detect(header)

	var source io.Reader = buffered
	switch compression {
	case CompressionGzip:
		gzipReader, err := gzip.NewReader(buffered)
		if err != nil {
			return nil, fmt.Errorf("opening gzip stream: %w", err)
		}
		defer gzipReader.Close()
		source = gzipReader
	case CompressionZstd:
		zstdReader, err := zstd.NewReader(buffered, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("opening zstd stream: %w", err)
		}
		defer zstdReader.Close()
		source = zstdReader
	case CompressionLZ4:
		source = lz4.NewReader(buffered)
	}

	data, err := io.ReadAll(io.LimitReader(source, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("decoding %s stream: %w", compression, err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, maxSize)
	}
	return &Bundle{Text: string(data), Compression: compression}, nil
}
