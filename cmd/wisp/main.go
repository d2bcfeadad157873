// Command wisp is the interpreter's CLI: run/repl/check subcommands over
// internal/session, modeled on funxy's cmd/funxy/main.go (stderr-only
// diagnostics, no structured logging) but restructured onto
// github.com/spf13/cobra rather than funxy's hand-rolled os.Args scanning,
// since cobra is the dominant CLI convention across the rest of the pack.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Best-effort: a missing .env is normal, not an error (funxy has no
	// equivalent — godotenv's own README documents this as the idiom).
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "wisp",
		Short:         "wisp runs and type-checks the wisp language",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newReplCmd())
	root.AddCommand(newCheckCmd())

	if err := root.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

func reportError(err error) {
	if isStderrTTY() {
		fmt.Fprintf(os.Stderr, "\x1b[31m%s\x1b[0m\n", err)
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
