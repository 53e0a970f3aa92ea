// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package rewrite replaces embedded module declarations in bundle text
// with imports of extracted, content-addressed files.
//
// A [Rewriter] runs in three passes over one input. It scans every
// declaration against the original text, decodes every payload, and
// only then stores the decoded assets. A corrupt payload anywhere in the
// bundle therefore aborts before any file is written. The output is
// assembled by copying the original text verbatim between declaration
// spans and emitting an import statement in place of each span, so
// offsets computed by the scan stay valid for the whole assembly.
package rewrite

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/bureau-foundation/wasmextract/lib/assetstore"
	"github.com/bureau-foundation/wasmextract/lib/declscan"
	"github.com/bureau-foundation/wasmextract/lib/digest"
	"github.com/bureau-foundation/wasmextract/lib/payload"
)

// Rewriter extracts embedded modules from bundle text.
type Rewriter struct {
	// Matcher finds declarations. Required.
	Matcher declscan.Matcher

	// Decoder turns payloads into bytes. The zero value strips
	// nothing before decoding.
	Decoder payload.Decoder

	// Store receives decoded assets. Required.
	Store assetstore.ContentStore

	// Logger receives one debug record per extraction. Nil discards.
	Logger *slog.Logger
}

// Extraction describes one replaced declaration.
type Extraction struct {
	// Index is the position of the declaration in scan order.
	Index int

	// Identifier is the binding name carried into the import.
	Identifier string

	// Start and End delimit the replaced span in the input text.
	Start int
	End   int

	// Key and Filename identify the stored asset.
	Key      digest.Key
	Filename string

	// Size is the decoded asset length in bytes.
	Size int

	// Written is true when this run created the asset file.
	Written bool
}

// Result is the outcome of a successful [Rewriter.Rewrite].
type Result struct {
	// Text is the rewritten bundle.
	Text string

	// Extractions lists the replaced declarations in order.
	Extractions []Extraction
}

// DecodeError reports a declaration whose payload could not be decoded.
type DecodeError struct {
	// Index is the declaration's position in scan order.
	Index int

	// Identifier is the declaration's binding name.
	Identifier string

	// Offset is the byte offset of the payload in the input text.
	Offset int

	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("declaration %d (%s) at byte %d: %v", e.Index, e.Identifier, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ImportStatement returns the statement that replaces a declaration.
func ImportStatement(identifier, filename string) string {
	return "import " + identifier + " from './" + filename + "';"
}

// Rewrite returns text with every declaration replaced by an import of
// its extracted asset. Text without declarations is returned unchanged
// and touches no files. On error no output is produced; assets stored
// before a store failure stay in the store, where they are valid cache
// entries.
func (r *Rewriter) Rewrite(text string) (*Result, error) {
	if r.Matcher == nil || r.Store == nil {
		return nil, fmt.Errorf("rewriter requires a matcher and a store")
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	declarations, err := declscan.Scan(r.Matcher, text)
	if err != nil {
		return nil, fmt.Errorf("scanning declarations: %w", err)
	}
	if len(declarations) == 0 {
		return &Result{Text: text}, nil
	}

	assets := make([][]byte, len(declarations))
	for index, declaration := range declarations {
		decoded, err := r.Decoder.Decode(declaration.Payload)
		if err != nil {
			return nil, &DecodeError{
				Index:      index,
				Identifier: declaration.Identifier,
				Offset:     declaration.PayloadOffset,
				Err:        err,
			}
		}
		assets[index] = decoded
	}

	extractions := make([]Extraction, len(declarations))
	for index, declaration := range declarations {
		stored, err := r.Store.Put(assets[index])
		if err != nil {
			return nil, fmt.Errorf("storing declaration %d (%s): %w", index, declaration.Identifier, err)
		}
		extractions[index] = Extraction{
			Index:      index,
			Identifier: declaration.Identifier,
			Start:      declaration.Start,
			End:        declaration.End,
			Key:        stored.Key,
			Filename:   stored.Filename,
			Size:       len(assets[index]),
			Written:    stored.Written,
		}
		logger.Debug("extracted module",
			"identifier", declaration.Identifier,
			"file", stored.Filename,
			"size", len(assets[index]),
			"written", stored.Written,
		)
	}

	return &Result{
		Text:        assemble(text, extractions),
		Extractions: extractions,
	}, nil
}

// assemble copies text, substituting an import statement for each
// extraction span. Spans must be ordered and non-overlapping.
func assemble(text string, extractions []Extraction) string {
	var builder strings.Builder
	builder.Grow(len(text))
	cursor := 0
	for _, extraction := range extractions {
		builder.WriteString(text[cursor:extraction.Start])
		builder.WriteString(ImportStatement(extraction.Identifier, extraction.Filename))
		cursor = extraction.End
	}
	builder.WriteString(text[cursor:])
	return builder.String()
}
