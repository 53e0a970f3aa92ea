// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// Command represents a CLI command.
type Command struct {
	// Name is the command name as typed by the user.
	Name string

	// Summary is a one-line description.
	Summary string

	// Description is a detailed multi-line description shown in help
	// output.
	Description string

	// Usage is the usage string (e.g., "wasmextract [flags] <bundle>").
	// If empty, it is synthesized from the name.
	Usage string

	// Examples are shown in the help output after the description.
	Examples []Example

	// Flags returns a configured *pflag.FlagSet for this command. Called
	// lazily on first use. If nil, the command accepts no flags.
	Flags func() *pflag.FlagSet

	// Run executes the command with the positional args left after
	// flag parsing.
	Run func(args []string) error

	// Stderr receives help and usage output. Nil means os.Stderr.
	Stderr io.Writer

	// parsed is the flag set from the most recent Execute.
	parsed *pflag.FlagSet
}

// Example is a usage example shown in help output.
type Example struct {
	// Description explains what the example does.
	Description string
	// Command is the literal command line.
	Command string
}

// Execute parses args and runs the command. Usage errors, from flag
// parsing or returned by Run, are printed with the usage line and
// become an *ExitError with code 1.
func (c *Command) Execute(args []string) error {
	stderr := c.stderr()

	for _, arg := range args {
		if arg == "--" {
			break
		}
		if isHelpFlag(arg) {
			c.PrintHelp(stderr)
			return nil
		}
	}

	if c.Flags != nil {
		flagSet := c.Flags()

		// Suppress pflag's default error output and usage dump. We
		// format our own error messages with suggestions.
		flagSet.SetOutput(io.Discard)

		if err := flagSet.Parse(args); err != nil {
			message := err.Error()
			if strings.Contains(message, "unknown flag") || strings.Contains(message, "unknown shorthand flag") {
				if suggestion := suggestFlag(args, c.Flags()); suggestion != "" {
					message = fmt.Sprintf("%s (did you mean %s?)", message, suggestion)
				}
			}
			return c.usageFailure(&UsageError{Message: message})
		}
		c.parsed = flagSet
		args = flagSet.Args()
	}

	if c.Run == nil {
		c.PrintHelp(stderr)
		return fmt.Errorf("no action defined for %q", c.Name)
	}

	err := c.Run(args)
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return c.usageFailure(usageErr)
	}
	return err
}

// Changed reports whether the named flag was set explicitly in the
// most recent Execute. Commands use it to let flags override config
// file values only when given.
func (c *Command) Changed(name string) bool {
	return c.parsed != nil && c.parsed.Changed(name)
}

func (c *Command) usageFailure(usageErr *UsageError) error {
	stderr := c.stderr()
	fmt.Fprintf(stderr, "error: %s\n\n", usageErr.Message)
	fmt.Fprintf(stderr, "Usage:\n  %s\n\nRun '%s --help' for more information.\n", c.usage(), c.Name)
	return &ExitError{Code: 1}
}

// PrintHelp writes structured help output to w.
func (c *Command) PrintHelp(w io.Writer) {
	if c.Description != "" {
		fmt.Fprintf(w, "%s\n\n", c.Description)
	} else if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	fmt.Fprintf(w, "Usage:\n  %s\n", c.usage())

	if c.Flags != nil {
		flagSet := c.Flags()
		var flagHelp strings.Builder
		flagSet.SetOutput(&flagHelp)
		flagSet.PrintDefaults()
		if flagHelp.Len() > 0 {
			fmt.Fprintf(w, "\nFlags:\n%s", flagHelp.String())
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for _, example := range c.Examples {
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
			if example.Description != "" {
				fmt.Fprintln(w)
			}
		}
	}
}

func (c *Command) usage() string {
	if c.Usage != "" {
		return c.Usage
	}
	return c.Name + " [flags]"
}

func (c *Command) stderr() io.Writer {
	if c.Stderr != nil {
		return c.Stderr
	}
	return os.Stderr
}

// isHelpFlag returns true for common help flag variants.
func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help"
}
