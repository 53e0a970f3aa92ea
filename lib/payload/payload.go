// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package payload turns the raw body of an embedded module's string
// literal into the module bytes.
//
// Generators wrap long base64 literals across lines, using a trailing
// backslash as a line continuation. Those characters are not part of
// the encoding, so a [Decoder] strips a configurable set of characters
// before decoding. The usual set, [DefaultStrip], removes line feeds,
// carriage returns, and backslashes. None of them belong to the
// standard base64 alphabet, so stripping them never discards payload.
//
// The standard decoder skips carriage returns and line feeds on its
// own, so they never need to be listed; a set without them still
// decodes wrapped payloads.
package payload

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DefaultStrip is the cleanup set used unless configured otherwise.
const DefaultStrip = "\r\n\\"

// Decoder decodes standard, padded base64 after removing every
// character in Strip.
type Decoder struct {
	// Strip lists characters removed before decoding. The zero value
	// removes nothing. Strip may not contain base64 alphabet or quote
	// characters; see [ValidateStrip].
	Strip string
}

// DecodeError reports a payload that is not valid base64 after
// cleanup.
type DecodeError struct {
	// Offset is the position of the first bad byte within the cleaned
	// payload, or -1 when the failure is not positional.
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("invalid base64 payload at cleaned byte %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("invalid base64 payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode strips the cleanup set from raw and base64-decodes the result.
func (d Decoder) Decode(raw string) ([]byte, error) {
	cleaned := d.Clean(raw)
	decoded, err := base64.StdEncoding.Strict().DecodeString(cleaned)
	if err != nil {
		offset := int64(-1)
		if corrupt, ok := err.(base64.CorruptInputError); ok {
			offset = int64(corrupt)
		}
		return nil, &DecodeError{Offset: offset, Err: err}
	}
	return decoded, nil
}

// Clean returns raw with every character of the cleanup set removed.
func (d Decoder) Clean(raw string) string {
	strip := d.Strip
	if strip == "" || !strings.ContainsAny(raw, strip) {
		return raw
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(strip, r) {
			return -1
		}
		return r
	}, raw)
}

// ValidateStrip rejects cleanup sets that would remove characters of
// the base64 alphabet, which would silently corrupt every payload, and
// quote characters, which cannot occur inside a payload literal.
func ValidateStrip(strip string) error {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/="
	if index := strings.IndexAny(strip, alphabet); index >= 0 {
		return fmt.Errorf("cleanup set contains base64 alphabet character %q", strip[index])
	}
	if index := strings.IndexAny(strip, `"'`); index >= 0 {
		return fmt.Errorf("cleanup set contains quote character %q", strip[index])
	}
	return nil
}
