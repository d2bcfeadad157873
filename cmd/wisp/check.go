package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "type-check a wisp source file without evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			pkg, cache, err := newSession("main")
			if err != nil {
				return err
			}
			if cache != nil {
				defer cache.Close()
			}

			types, err := pkg.Check(string(src))
			if err != nil {
				return err
			}
			for _, t := range types {
				fmt.Fprintln(cmd.OutOrStdout(), t.String())
			}
			return nil
		},
	}
}
