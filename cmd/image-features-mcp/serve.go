package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/ironsheep/image-features-mcp/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdin/stdout (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	runner, err := newRunner(cmd)
	if err != nil {
		return err
	}
	if runner.Debug {
		log.Printf("Image Features MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New(runner)
	srv.Version = Version
	return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
}
