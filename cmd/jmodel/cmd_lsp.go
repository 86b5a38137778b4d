package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/jmodel/java/codebase"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server for fact documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := codebase.NewLSPServer(version, loaderOptions(cfg)...)
			return server.RunStdio()
		},
	}
}
