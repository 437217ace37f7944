package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	mcpadapter "github.com/healthfirst/homecare/internal/adapters/mcp"
)

var version = "dev"

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the triage tools over MCP on stdin/stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.setup(cmd)
			stack, err := buildTriageStack(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			slog.Info("mcp_stdio_ready", "predictor_source", stack.report.Source, "version", version)
			return mcpadapter.NewServer(stack.assess, stack.catalog, version).ServeStdio()
		},
	}
}
