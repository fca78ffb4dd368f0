package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for SiteLens.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitelens",
		Short: "Accessibility, link and asset auditor for static sites",
		Long: `SiteLens audits the source tree of a static website for accessibility
defects, broken internal links and oversized assets.

The checks are served as MCP tools over stdio (sitelens serve) and can be
run once from the command line (sitelens audit). Every path must lie inside
one of the allowed roots, given with --roots, the ALLOWED_ROOTS environment
variable or the roots list of the configuration file.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("roots", "r", "",
		"Semicolon-separated allowed roots (default: $ALLOWED_ROOTS, then the config file)")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .sitelens in current, XDG config or home directory)")
	cmd.PersistentFlags().Bool("json-logs", false, "Write logs to stderr as JSON")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewAuditCmd())
	cmd.AddCommand(NewRootsCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
