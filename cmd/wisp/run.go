package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "run a wisp source file",
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

			_, err = pkg.Exec(string(src))
			return err
		},
	}
}
