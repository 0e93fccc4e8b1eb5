package main

import (
	"log"
	"os"

	"github.com/rodrigues2k/fluent-selenium"
	"github.com/rodrigues2k/fluent-selenium/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts an MCP server on stdio exposing the run_chain tool, so agents can run
chain scripts against HTML documents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		docPath, _ := cmd.Flags().GetString("doc")

		opts := []mcp.Option{
			mcp.WithLogger(logger),
			mcp.WithChainOptions(fluent.WithRetryPolicy(cfg.Retry)),
		}
		if docPath != "" {
			data, err := os.ReadFile(docPath)
			if err != nil {
				return err
			}
			opts = append(opts, mcp.WithDocument(string(data)))
		}

		// Logs must not corrupt JSON-RPC on Stdout.
		log.SetOutput(os.Stderr)
		logger.Info("Starting fluent MCP server (stdio)")
		return mcp.NewServer(opts...).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("doc", "", "Default HTML document for calls that carry none")
}
