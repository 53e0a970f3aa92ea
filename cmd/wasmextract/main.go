// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// wasmextract rewrites a generated JavaScript bundle so that every
// inline, base64-encoded WebAssembly module becomes an import of a
// standalone content-addressed file.
//
// The bundle is read from the path given as the only argument. Decoded
// modules are written to the asset directory (the working directory by
// default) as <digest>.<extension>; a file that already exists with the
// same content is left untouched. The rewritten bundle is written to
// stdout only after every module has been stored, so a failed run
// produces no output.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/wasmextract/lib/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		// Usage failures have already printed their own output.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	return newCommand(stdout, stderr).Execute(args)
}

// printVersion writes the version line, or the full build details
// when verbose.
func printVersion(w io.Writer, verbose bool) error {
	info := version.Info()
	if verbose {
		info = version.Full()
	}
	_, err := fmt.Fprintf(w, "wasmextract %s\n", info)
	return err
}
