// kbridge: knowledge-base MCP server
//
// Exposes a help-center style knowledge base (a generic REST API or a
// Zendesk Help Center) to any MCP host as three read-only tools.
//
// Usage:
//
//	kbridge serve     # Start MCP server (stdio transport)
//	kbridge tools     # Print the tool descriptors as JSON
//	kbridge version   # Print the version
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/HendryAvila/kbridge/internal/config"
	"github.com/HendryAvila/kbridge/internal/logging"
	kbserver "github.com/HendryAvila/kbridge/internal/server"
	"github.com/HendryAvila/kbridge/internal/tools"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:   "kbridge",
		Short: "Knowledge-base MCP server",
		Long: `kbridge exposes a knowledge base to MCP hosts as three tools:
list, fetch_article and search_content.

Configuration comes from the environment (or a .env file):
  KB_BACKEND         generic | zendesk (inferred from ZENDESK_SUBDOMAIN)
  KB_API_URL         generic API base URL
  ZENDESK_SUBDOMAIN, ZENDESK_EMAIL, ZENDESK_API_TOKEN, ZENDESK_LOCALE

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "kbridge": {
        "command": "kbridge",
        "args": ["serve"]
      }
    }
  }`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "env file(s) to load instead of .env")

	root.AddCommand(
		newServeCmd(&envFiles),
		newToolsCmd(&envFiles),
		newVersionCmd(),
	)
	return root
}

func newServeCmd(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(*envFiles)
			if err != nil {
				return err
			}

			s, cleanup, err := kbserver.New(cfg, log)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			// stdio server manages its own lifecycle and signal handling.
			return server.ServeStdio(s)
		},
	}
}

func newToolsCmd(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the configured tool descriptors as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(*envFiles)
			if err != nil {
				return err
			}

			backend, err := kbserver.NewBackend(cfg, log)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tools.NewDispatcher(backend, log).Definitions())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "kbridge v%s\n", kbserver.Version)
		},
	}
}

// setup loads configuration and builds the stderr logger. Stdout is
// reserved for MCP frames.
func setup(envFiles []string) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("configuration: %w", err)
	}

	log, err := logging.New(os.Stderr, cfg.LogLevel, logging.Format(cfg.LogFormat))
	if err != nil {
		return config.Config{}, zerolog.Nop(), fmt.Errorf("configuration: %w", err)
	}
	return cfg, log, nil
}
