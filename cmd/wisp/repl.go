package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/wisplang/wisp/internal/diagnostics"
	"github.com/wisplang/wisp/internal/session"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "start an interactive wisp session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pkg, cache, err := newSession("repl")
			if err != nil {
				return err
			}
			if cache != nil {
				defer cache.Close()
			}
			runREPL(pkg)
			return nil
		},
	}
}

// runREPL reads forms from stdin a line at a time, accumulating lines
// into buf until sexpr.Read succeeds on a complete form. An unterminated-
// list syntax error is treated as "need another line"; any other error is
// reported and the buffer is reset, matching internal/session's
// one-form-at-a-time Exec contract for everything that does parse.
func runREPL(pkg *session.Package) {
	interactive := isatty.IsTerminal(os.Stdin.Fd())
	scanner := bufio.NewScanner(os.Stdin)
	var buf strings.Builder

	prompt := func() {
		if interactive {
			if buf.Len() == 0 {
				fmt.Fprint(os.Stdout, "wisp> ")
			} else {
				fmt.Fprint(os.Stdout, "....> ")
			}
		}
	}

	prompt()
	for scanner.Scan() {
		buf.WriteString(scanner.Text())
		buf.WriteByte('\n')

		results, err := pkg.Exec(buf.String())
		switch {
		case err == nil:
			for _, r := range results {
				fmt.Fprintf(os.Stdout, "%s : %s\n", r.Value, r.Type)
			}
			buf.Reset()
		case incomplete(err):
			// fall through, keep accumulating
		default:
			reportError(err)
			buf.Reset()
		}
		prompt()
	}
}

// incomplete reports whether err looks like "more input is needed to
// finish this form" rather than a genuine syntax error.
func incomplete(err error) bool {
	if !diagnostics.Is(err, diagnostics.ErrSyntax) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "unterminated list") || strings.Contains(msg, "unexpected end of input")
}
