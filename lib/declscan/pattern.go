// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package declscan

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultCallees are the decode function names recognized when no
// others are configured.
var DefaultCallees = []string{"decodeBase64"}

// DefaultConstructor is the module constructor recognized when none is
// configured.
const DefaultConstructor = "WebAssembly.Module"

// PatternOptions configures a [PatternMatcher].
type PatternOptions struct {
	// Callees are the decode function names accepted as the argument
	// of the constructor. Empty means [DefaultCallees].
	Callees []string

	// Constructor is the dotted constructor name invoked with new.
	// Empty means [DefaultConstructor].
	Constructor string

	// Strip is the payload cleanup set. Its characters are accepted
	// inside payloads in addition to the base64 alphabet, backslash,
	// and line breaks. Quote characters are not allowed.
	Strip string
}

// PatternMatcher matches declarations of the form
//
//	const|let|var <identifier> = new <Constructor>(<callee>("<payload>"));
//
// Whitespace, including newlines, is accepted between tokens. The
// payload may be single- or double-quoted and may contain only base64
// alphabet characters, padding, backslashes, line breaks, and the
// characters of the configured cleanup set. A payload ending in an
// unpaired backslash escapes its closing quote and never matches. The
// trailing semicolon is optional and is part of the span when present.
type PatternMatcher struct {
	expression *regexp.Regexp
}

// Capture group indexes in the compiled expression.
const (
	groupIdentifier = 1
	groupDouble     = 2
	groupSingle     = 3
)

// payloadClass returns the character class of payload bodies.
func payloadClass(strip string) (string, error) {
	var class strings.Builder
	class.WriteString(`[A-Za-z0-9+/=\\\r\n`)
	for _, r := range strip {
		if r == '"' || r == '\'' {
			return "", fmt.Errorf("cleanup set may not contain quote character %q", r)
		}
		fmt.Fprintf(&class, `\x{%x}`, r)
	}
	class.WriteString(`]*`)
	return class.String(), nil
}

// NewPatternMatcher compiles a matcher for the given options.
func NewPatternMatcher(options PatternOptions) (*PatternMatcher, error) {
	callees := options.Callees
	if len(callees) == 0 {
		callees = DefaultCallees
	}
	quoted := make([]string, len(callees))
	for i, callee := range callees {
		if !IsIdentifier(callee) {
			return nil, fmt.Errorf("decode function name %q is not an identifier", callee)
		}
		quoted[i] = regexp.QuoteMeta(callee)
	}

	constructor := options.Constructor
	if constructor == "" {
		constructor = DefaultConstructor
	}
	for _, part := range strings.Split(constructor, ".") {
		if !IsIdentifier(part) {
			return nil, fmt.Errorf("constructor %q is not a dotted identifier", constructor)
		}
	}

	payload, err := payloadClass(options.Strip)
	if err != nil {
		return nil, err
	}

	source := `(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*` +
		`new\s+` + regexp.QuoteMeta(constructor) + `\(\s*` +
		`(?:` + strings.Join(quoted, "|") + `)\(\s*` +
		`(?:"(` + payload + `)"|'(` + payload + `)')` +
		`\s*\)\s*\)(?:[ \t]*;)?`

	expression, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compiling declaration pattern: %w", err)
	}
	return &PatternMatcher{expression: expression}, nil
}

// MustPatternMatcher is like [NewPatternMatcher] but panics on invalid
// options. Intended for package-level defaults and tests.
func MustPatternMatcher(options PatternOptions) *PatternMatcher {
	matcher, err := NewPatternMatcher(options)
	if err != nil {
		panic("declscan: " + err.Error())
	}
	return matcher
}

// Next implements [Matcher].
func (m *PatternMatcher) Next(text string, offset int) (Declaration, bool) {
	for offset <= len(text) {
		location := m.expression.FindStringSubmatchIndex(text[offset:])
		if location == nil {
			return Declaration{}, false
		}
		start := offset + location[0]

		// The keyword must not be the tail of a longer name such as
		// "myconst" or "$var".
		if start > 0 && isIdentifierByte(text[start-1]) {
			offset = start + 1
			continue
		}

		payloadGroup := groupDouble
		if location[2*groupDouble] < 0 {
			payloadGroup = groupSingle
		}
		payloadStart := offset + location[2*payloadGroup]
		payloadEnd := offset + location[2*payloadGroup+1]

		if escapesClosingQuote(text[payloadStart:payloadEnd]) {
			offset = start + 1
			continue
		}

		return Declaration{
			Identifier:    text[offset+location[2*groupIdentifier] : offset+location[2*groupIdentifier+1]],
			Payload:       text[payloadStart:payloadEnd],
			PayloadOffset: payloadStart,
			Start:         start,
			End:           offset + location[1],
		}, true
	}
	return Declaration{}, false
}

// escapesClosingQuote reports whether payload ends in an odd run of
// backslashes, which makes the following quote part of the literal.
func escapesClosingQuote(payload string) bool {
	run := 0
	for i := len(payload) - 1; i >= 0 && payload[i] == '\\'; i-- {
		run++
	}
	return run%2 == 1
}

// IsIdentifier reports whether name is an ASCII JavaScript identifier.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isIdentifierByte(c) || (i == 0 && c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func isIdentifierByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
