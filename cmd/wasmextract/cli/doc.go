// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for wasmextract.
//
// The central type is [Command]: a name, a [pflag.FlagSet] factory, and
// a Run function. [Command.Execute] parses flags, handles -h/--help,
// and runs the command. Help output is structured (description, usage,
// flags, examples) and goes to the command's Stderr.
//
// When a user types an unknown flag, the framework computes Levenshtein
// edit distance against the defined flags and suggests the closest
// match (threshold: distance <= 3).
//
// Errors that are the user's fault are [UsageError]. Execute prints
// them with the usage line and converts them to an [ExitError] with
// code 1, so main exits without printing the message a second time.
//
// [NewCommandLogger] builds the slog logger every command uses.
package cli
