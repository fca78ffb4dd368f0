package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/sitelens/internal/config"
	"github.com/nao1215/sitelens/internal/history"
	"github.com/nao1215/sitelens/internal/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// serverName is the name reported to MCP clients.
const serverName = "SiteLens"

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the SiteLens tools over stdio (MCP)",
		Long: `Serve starts a JSON-RPC 2.0 server on stdin and stdout that speaks the
Model Context Protocol. It is meant to be launched by an MCP client.

Messages may be framed with Content-Length headers or sent as one JSON
object per line. Logs are written to stderr.

Examples:
  # Serve a single site
  sitelens serve --roots ./public

  # Serve two roots; relative tool paths resolve against the first match
  ALLOWED_ROOTS="/srv/site;/srv/docs" sitelens serve`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	addTuningFlags(cmd)

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	in := cmd.InOrStdin()
	if isTerminal(in) {
		fmt.Fprintln(cmd.ErrOrStderr(),
			"sitelens serve reads JSON-RPC messages from stdin and is meant to be started by an MCP client.")
	}
	if len(cfg.Roots) == 0 {
		logger.Warn("no allowed roots configured, path-dependent tools will fail",
			"env", config.RootsEnvVar)
	}

	return serve(ctx, cfg, logger, in, cmd.OutOrStdout())
}

// serve runs the MCP server until r is exhausted or ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, r io.Reader, w io.Writer) error {
	hist, err := history.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer hist.Close()

	registry, err := newRegistry(cfg, logger, hist)
	if err != nil {
		return err
	}

	server := mcp.NewServer(registry,
		mcp.WithLogger(logger),
		mcp.WithServerInfo(serverName, getVersion()),
	)

	logger.Info("serving",
		"roots", cfg.Roots,
		"tools", len(registry.List()),
	)

	if err := server.Serve(ctx, r, w); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped: %w", err)
	}
	calls, err := hist.Count(context.WithoutCancel(ctx))
	if err != nil {
		logger.Warn("failed to count tool calls", "error", err)
	}
	logger.Info("server stopped",
		"calls", calls,
		"cachedTargets", registry.Cache().Len(),
	)
	return nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}
