package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Portfolio site with the ChainSafe online editor",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Serving is the default
			return runServe(cmd.Context(), flags)
		},
	}
	flags.register(cmd)

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
