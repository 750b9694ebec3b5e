// Copyright © 2025 The DWSLS authors

package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/luthersystems/dwsls/lsp"
	"github.com/spf13/cobra"
)

// LSPCommand creates the "lsp" cobra command with optional embedder
// configuration. Embedders pass WithProvider to register their compiler
// front end.
func LSPCommand(opts ...Option) *cobra.Command {
	var cfg cmdConfig
	for _, o := range opts {
		o(&cfg)
	}

	var (
		stdio bool
		port  int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the DWScript Language Server Protocol server",
		Long: `Start an LSP server for DWScript source files.

The server tracks open documents through shadow working copies,
recompiles the workspace after every change, and answers document
symbol, workspace symbol, reference, and completion requests from the
resulting index.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Examples:
  dwsls lsp                          Start with stdio transport
  dwsls lsp --stdio                  Same as above (explicit)
  dwsls lsp --port 7998              Start with TCP on port 7998
  dwsls lsp --watch                  Watch the workspace for external edits

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "dwsls lsp --stdio" for .dws and .pas files.`,
		Args: cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			serverOpts := []lsp.Option{lsp.WithProvider(cfg.provider)}
			if watch {
				serverOpts = append(serverOpts, lsp.WithWorkspaceWatcher())
			}

			srv := lsp.New(serverOpts...)

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				log.Printf("DWSLS server listening on %s", addr)
				if err := srv.RunTCP(addr); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			} else {
				if err := srv.RunStdio(); err != nil {
					fmt.Fprintf(os.Stderr, "lsp server error: %v\n", err)
					os.Exit(1)
				}
			}
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")
	cmd.Flags().BoolVar(&watch, "watch", false,
		"Watch the workspace for file changes made outside the editor")

	return cmd
}

func init() {
	rootCmd.AddCommand(LSPCommand())
}
