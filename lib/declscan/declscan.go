// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package declscan

import "fmt"

// Declaration is one embedded module declaration found in a text. All
// offsets are byte offsets into the text that was scanned.
type Declaration struct {
	// Identifier is the binding name the module was assigned to.
	Identifier string

	// Payload is the raw string literal body, exactly as it appears in
	// the text (line continuations and newlines included).
	Payload string

	// PayloadOffset is the offset of the first byte of Payload.
	PayloadOffset int

	// Start and End delimit the full declaration, [Start, End). This
	// span is what gets replaced by the import statement.
	Start int
	End   int
}

// Matcher finds the next declaration in text that starts at or after
// offset. It returns false when there is none. Implementations must
// return spans inside text with Start >= offset and End > Start.
type Matcher interface {
	Next(text string, offset int) (Declaration, bool)
}

// Scan returns every declaration in text, in order of appearance. Each
// search resumes at the end of the previous declaration, so results
// never overlap. A matcher that violates its contract produces an error
// rather than a corrupt span list.
func Scan(matcher Matcher, text string) ([]Declaration, error) {
	var declarations []Declaration
	offset := 0
	for offset <= len(text) {
		declaration, found := matcher.Next(text, offset)
		if !found {
			break
		}
		if declaration.Start < offset || declaration.End <= declaration.Start || declaration.End > len(text) {
			return nil, fmt.Errorf("matcher returned invalid span [%d, %d) when searching from offset %d in %d-byte text",
				declaration.Start, declaration.End, offset, len(text))
		}
		declarations = append(declarations, declaration)
		offset = declaration.End
	}
	return declarations, nil
}
