package cli

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/codequal/codequal/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Expose codequal to editors and assistants over MCP",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve [path]",
		Short: "Serve analyze, check_file and fix over stdio",
		Long: "Speak the Model Context Protocol on stdin/stdout for the project at path.\n\n" +
			"Tools:     codequal_analyze, codequal_check_file, codequal_fix (dry run unless dry_run=false)\n" +
			"Resources: codequal://report (last written report, or a fresh analysis)",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolvePath(args)
			if err != nil {
				return err
			}
			if info, err := os.Stat(absPath); err != nil || !info.IsDir() {
				return fmt.Errorf("invalid project path %s", absPath)
			}
			return server.ServeStdio(mcpadapter.NewServer(absPath, newAnalyzeService(), newFixService()))
		},
	}
}
