package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/nao1215/sitelens/internal/config"
	"github.com/nao1215/sitelens/internal/pathguard"
	"github.com/nao1215/sitelens/internal/sitefs"
	"github.com/spf13/cobra"
)

// NewRootsCmd creates the roots command.
func NewRootsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roots",
		Short: "Print the allowed roots",
		Long: `Print the allowed roots in resolution order, as the server would see them
with the current flags, environment and configuration file, and report
roots that do not exist. Existing roots show how many HTML documents and
directories lie below them.`,
		Args: cobra.NoArgs,
		RunE: runRootsCmd,
	}
}

// runRootsCmd executes the roots command.
func runRootsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(cfg.Roots) == 0 {
		fmt.Fprintf(out, "no roots configured (use --roots or %s)\n", config.RootsEnvVar)
		return nil
	}

	for _, root := range cfg.Roots {
		fmt.Fprintf(out, "%s\t%s\n", root, rootStatus(root))
	}
	return nil
}

func rootStatus(root string) string {
	info, err := os.Stat(root)
	switch {
	case err != nil:
		return color.RedString("missing")
	case !info.IsDir():
		return color.RedString("not a directory")
	}

	tree, err := sitefs.Tree(pathguard.ResolvedPath(root), sitefs.TreeOptions{
		IncludeHTMLOnly: true,
		MaxDepth:        sitefs.MaxDepth,
	})
	if err != nil {
		return color.GreenString("ok")
	}
	files, dirs := tree.Count()
	return fmt.Sprintf("%s (html files: %d, directories: %d)", color.GreenString("ok"), files, dirs-1)
}
